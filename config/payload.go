package config

import (
	"encoding/json"
	"fmt"

	"github.com/mogaika/scene_studio/utils"
)

const PayloadVersion = 2

// Payload is the persisted editor configuration. It round-trips
// through export/import as JSON; unknown fields are dropped, missing
// leaf fields inherit defaults, missing top-level sections are an
// error so that a truncated file is never half-applied.
type Payload struct {
	Version  int       `json:"version"`
	Settings *Settings `json:"settings"`
	Lights   *Lights   `json:"lights"`
}

type Settings struct {
	TimelineVh  float32 `json:"timelineVh"`
	Background  string  `json:"background"`
	FixedCamera bool    `json:"fixedCamera"`
	Exposure    float32 `json:"exposure"`
	ShowGrid    bool    `json:"showGrid"`
}

type Lights struct {
	Ambient     AmbientLight     `json:"ambient"`
	Directional DirectionalLight `json:"directional"`
}

type AmbientLight struct {
	Color     string  `json:"color"`
	Intensity float32 `json:"intensity"`
}

type DirectionalLight struct {
	Color     string     `json:"color"`
	Intensity float32    `json:"intensity"`
	Position  [3]float32 `json:"position"`
}

func Defaults() Payload {
	return Payload{
		Version: PayloadVersion,
		Settings: &Settings{
			TimelineVh:  200,
			Background:  "#1a1a2e",
			FixedCamera: false,
			Exposure:    1.0,
			ShowGrid:    true,
		},
		Lights: &Lights{
			Ambient: AmbientLight{
				Color:     "#ffffff",
				Intensity: 0.6,
			},
			Directional: DirectionalLight{
				Color:     "#ffffff",
				Intensity: 2.0,
				Position:  [3]float32{3, 10, 5},
			},
		},
	}
}

// ValidationError reports a malformed payload. It is the only error
// from this package meant to be shown to the user verbatim.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid configuration: %v", e.Reason)
}

func IsValidation(err error) bool {
	_, ok := err.(*ValidationError)
	return ok
}

// ParsePayload decodes raw JSON into a payload merged over defaults
// and clamped per field. The payload must carry both top-level
// sections; nothing is applied otherwise.
func ParsePayload(raw []byte) (Payload, error) {
	var probe Payload
	if err := json.Unmarshal(raw, &probe); err != nil {
		return Payload{}, &ValidationError{Reason: err.Error()}
	}
	if probe.Settings == nil {
		return Payload{}, &ValidationError{Reason: "missing required section \"settings\""}
	}
	if probe.Lights == nil {
		return Payload{}, &ValidationError{Reason: "missing required section \"lights\""}
	}

	// merge: unmarshal once more onto a defaults copy so absent leaf
	// fields keep their default values
	p := Defaults()
	if err := json.Unmarshal(raw, &p); err != nil {
		return Payload{}, &ValidationError{Reason: err.Error()}
	}
	p.Version = PayloadVersion
	p.Clamp()
	return p, nil
}

// Clamp forces every numeric field into its documented range.
func (p *Payload) Clamp() {
	s := p.Settings
	s.TimelineVh = utils.Clampf(s.TimelineVh, 25, 1000)
	s.Exposure = utils.Clampf(s.Exposure, 0, 10)

	l := p.Lights
	l.Ambient.Intensity = utils.Clampf(l.Ambient.Intensity, 0, 20)
	l.Directional.Intensity = utils.Clampf(l.Directional.Intensity, 0, 20)
}

func (p Payload) MarshalIndentJSON() ([]byte, error) {
	return json.MarshalIndent(&p, "", "  ")
}
