// Package keyframes is the authoring-side keyframe store: it records,
// overwrites and navigates keyframes per (layer, property) track.
// Interpolated playback is the natural next consumer of this data and
// intentionally lives outside of it.
package keyframes

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/mogaika/scene_studio/editor/transform"
	"github.com/mogaika/scene_studio/scene"
	"github.com/mogaika/scene_studio/utils"
)

// Property is the closed set of animatable layer fields.
type Property int

const (
	PositionX Property = iota
	PositionY
	PositionZ
	RotationX
	RotationY
	RotationZ
	ScaleUniform
	Opacity
)

var propertyNames = map[Property]string{
	PositionX:    "position.x",
	PositionY:    "position.y",
	PositionZ:    "position.z",
	RotationX:    "rotation.x",
	RotationY:    "rotation.y",
	RotationZ:    "rotation.z",
	ScaleUniform: "scale.uniform",
	Opacity:      "opacity",
}

func (p Property) String() string {
	if s, ok := propertyNames[p]; ok {
		return s
	}
	return "unknown"
}

func (p Property) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Property) UnmarshalText(text []byte) error {
	parsed, err := ParseProperty(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func ParseProperty(s string) (Property, error) {
	for p, name := range propertyNames {
		if name == s {
			return p, nil
		}
	}
	return 0, errors.Errorf("Unknown animatable property %q", s)
}

func Properties() []Property {
	return []Property{
		PositionX, PositionY, PositionZ,
		RotationX, RotationY, RotationZ,
		ScaleUniform, Opacity,
	}
}

// Keyframe positions are quantized to 2 decimals; two writes closer
// than that land on the same keyframe.
type Keyframe struct {
	Position float32 `json:"position"`
	Value    float32 `json:"value"`
}

type Track struct {
	Layer     scene.NodeID `json:"layer"`
	Property  Property     `json:"property"`
	Keyframes []Keyframe   `json:"keyframes"`
}

// Store holds at most one track per (layer, property) pair, keyframes
// sorted ascending by position.
type Store struct {
	tracks []*Track
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Tracks() []*Track { return s.tracks }

func (s *Store) Track(layer scene.NodeID, prop Property) *Track {
	for _, t := range s.tracks {
		if t.Layer == layer && t.Property == prop {
			return t
		}
	}
	return nil
}

func (s *Store) LayerTracks(layer scene.NodeID) []*Track {
	out := []*Track{}
	for _, t := range s.tracks {
		if t.Layer == layer {
			out = append(out, t)
		}
	}
	return out
}

func (s *Store) track(layer scene.NodeID, prop Property) *Track {
	if t := s.Track(layer, prop); t != nil {
		return t
	}
	t := &Track{Layer: layer, Property: prop}
	s.tracks = append(s.tracks, t)
	return t
}

// Upsert writes a keyframe. An existing keyframe at the same
// quantized position is overwritten instead of duplicated.
func (s *Store) Upsert(layer scene.NodeID, prop Property, position, value float32) {
	t := s.track(layer, prop)
	position = utils.RoundCenti(position)
	for i := range t.Keyframes {
		if utils.RoundCenti(t.Keyframes[i].Position) == position {
			t.Keyframes[i].Value = value
			return
		}
	}
	t.Keyframes = append(t.Keyframes, Keyframe{Position: position, Value: value})
	sort.Slice(t.Keyframes, func(i, j int) bool {
		return t.Keyframes[i].Position < t.Keyframes[j].Position
	})
}

// Toggle enables or disables animation of a property. Enabling with
// no prior track seeds one keyframe at the current timeline position
// from the live value; disabling deletes the whole track.
func (s *Store) Toggle(a *scene.Arena, layer scene.NodeID, prop Property, enabled bool, position float32) {
	if !enabled {
		for i, t := range s.tracks {
			if t.Layer == layer && t.Property == prop {
				s.tracks = append(s.tracks[:i], s.tracks[i+1:]...)
				return
			}
		}
		return
	}
	if s.Track(layer, prop) != nil {
		return
	}
	value, ok := GetValue(a, layer, prop)
	if !ok {
		return
	}
	s.Upsert(layer, prop, position, value)
}

// Navigate returns the nearest keyframe strictly before (prev) or
// after (next) the given position. When no keyframe exists in that
// direction the first/last keyframe is returned instead of wrapping.
func (s *Store) Navigate(layer scene.NodeID, prop Property, next bool, position float32) (Keyframe, bool) {
	t := s.Track(layer, prop)
	if t == nil || len(t.Keyframes) == 0 {
		return Keyframe{}, false
	}
	if next {
		for _, k := range t.Keyframes {
			if k.Position > position {
				return k, true
			}
		}
		return t.Keyframes[len(t.Keyframes)-1], true
	}
	for i := len(t.Keyframes) - 1; i >= 0; i-- {
		if t.Keyframes[i].Position < position {
			return t.Keyframes[i], true
		}
	}
	return t.Keyframes[0], true
}

// Clear drops every track. Called on model load.
func (s *Store) Clear() {
	s.tracks = nil
}

// Restore replaces the store's content from exported tracks. Every
// keyframe goes back through Upsert, so quantization, overwrite and
// ordering invariants hold even for hand-edited files.
func (s *Store) Restore(tracks []*Track) {
	s.tracks = nil
	for _, t := range tracks {
		if t == nil {
			continue
		}
		for _, k := range t.Keyframes {
			s.Upsert(t.Layer, t.Property, k.Position, k.Value)
		}
	}
}

// GetValue reads the live value of an animatable property off the
// node. Rotation axes are reported in degrees, scale as the uniform
// (x) component.
func GetValue(a *scene.Arena, layer scene.NodeID, prop Property) (float32, bool) {
	n := a.Node(layer)
	if n == nil {
		return 0, false
	}
	switch prop {
	case PositionX, PositionY, PositionZ:
		return n.Position[int(prop-PositionX)], true
	case RotationX, RotationY, RotationZ:
		return utils.RadiansToDegreesV3(n.Rotation)[int(prop-RotationX)], true
	case ScaleUniform:
		return n.Scale[0], true
	case Opacity:
		return n.Opacity, true
	}
	return 0, false
}

// ApplyValue writes a property value back onto the node. Rotation and
// uniform scale route through the pivot-preserving transforms so that
// applying a keyframe behaves exactly like editing the field by hand.
func ApplyValue(a *scene.Arena, layer scene.NodeID, prop Property, value float32) bool {
	n := a.Node(layer)
	if n == nil {
		return false
	}
	switch prop {
	case PositionX, PositionY, PositionZ:
		n.Position[int(prop-PositionX)] = value
		a.UpdateWorldMatrix(layer)
	case RotationX, RotationY, RotationZ:
		transform.SetRotationDeg(a, layer, int(prop-RotationX), value)
	case ScaleUniform:
		transform.SetUniformScale(a, layer, value)
	case Opacity:
		n.Opacity = utils.Clampf(value, 0, 1)
	default:
		return false
	}
	return true
}
