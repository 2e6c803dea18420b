// Package editor owns the editing state of one authoring session:
// layer registry, undo history, keyframe tracks and the scroll-driven
// timeline. All state hangs off the Session object; there are no
// package-level registries, so sessions are independent and tests
// stay isolated.
package editor

import (
	"fmt"
	"log"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/scene_studio/config"
	"github.com/mogaika/scene_studio/editor/history"
	"github.com/mogaika/scene_studio/editor/keyframes"
	"github.com/mogaika/scene_studio/editor/layers"
	"github.com/mogaika/scene_studio/editor/timeline"
	"github.com/mogaika/scene_studio/editor/transform"
	"github.com/mogaika/scene_studio/scene"
	"github.com/mogaika/scene_studio/utils"
)

// CameraView is the orbit camera state captured once when entering
// the fixed-camera authoring mode.
type CameraView struct {
	Position mgl32.Vec3 `json:"position"`
	Target   mgl32.Vec3 `json:"target"`
	Fov      float32    `json:"fov"`
	Zoom     float32    `json:"zoom"`
}

// LoadToken guards against overlapping model loads: a commit whose
// token is no longer current is discarded, so at most one in-flight
// load can install a scene.
type LoadToken uint32

type Session struct {
	arena     *scene.Arena
	registry  *layers.Registry
	history   *history.Log
	keyframes *keyframes.Store
	timeline  *timeline.Mapper
	gestures  transform.GestureTracker

	cfg     config.Payload
	camera  CameraView
	animate bool
	loadSeq uint32
}

func NewSession(cfg config.Payload) *Session {
	if cfg.Settings == nil || cfg.Lights == nil {
		cfg = config.Defaults()
	}
	a := scene.NewArena()
	r := layers.Build(a)
	return &Session{
		arena:     a,
		registry:  r,
		history:   history.NewLog(r),
		keyframes: keyframes.NewStore(),
		timeline:  timeline.NewMapper(cfg.Settings.TimelineVh),
		cfg:       cfg,
	}
}

func (s *Session) Arena() *scene.Arena         { return s.arena }
func (s *Session) Layers() *layers.Registry    { return s.registry }
func (s *Session) History() *history.Log       { return s.history }
func (s *Session) Keyframes() *keyframes.Store { return s.keyframes }
func (s *Session) Timeline() *timeline.Mapper  { return s.timeline }
func (s *Session) Config() config.Payload      { return s.cfg }

// BeginLoad marks the start of a model load and invalidates every
// earlier in-flight load.
func (s *Session) BeginLoad() LoadToken {
	s.loadSeq++
	return LoadToken(s.loadSeq)
}

// CommitLoad installs a freshly built scene. Stale tokens (a newer
// load began meanwhile) are discarded; the registry, history and
// keyframe stores are otherwise fully replaced.
func (s *Session) CommitLoad(t LoadToken, a *scene.Arena) bool {
	if uint32(t) != s.loadSeq {
		log.Printf("[editor] discarding stale load %d (current %d)", t, s.loadSeq)
		return false
	}
	s.arena = a
	s.registry = layers.Build(a)
	s.history = history.NewLog(s.registry)
	s.keyframes.Clear()
	s.gestures = transform.GestureTracker{}
	return true
}

func (s *Session) SelectLayer(id scene.NodeID) {
	s.registry.Select(id)
}

func (s *Session) RenameLayer(id scene.NodeID, name string) {
	if s.registry.Rename(id, name) {
		s.history.Push(fmt.Sprintf("Rename to %q", s.registry.Entry(id).Name))
	}
}

func (s *Session) SetLayerVisible(id scene.NodeID, visible bool) {
	if s.registry.SetVisible(id, visible) {
		verb := "Hide"
		if visible {
			verb = "Show"
		}
		s.history.Push(fmt.Sprintf("%v %v", verb, s.registry.Entry(id).Name))
	}
}

func (s *Session) DeleteLayer(id scene.NodeID) {
	e := s.registry.Entry(id)
	if e == nil {
		return
	}
	name := e.Name
	if s.registry.Delete(id) {
		s.history.Push(fmt.Sprintf("Delete %v", name))
	}
}

func (s *Session) DuplicateLayer(id scene.NodeID) scene.NodeID {
	clone := s.registry.Duplicate(id)
	if clone != scene.None {
		s.history.Push(fmt.Sprintf("Duplicate %v", s.registry.Entry(id).Name))
	}
	return clone
}

// BeginTransform opens an edit gesture on one property of one layer.
// Every slider drag or scrub goes Begin -> many Update -> Commit and
// yields exactly one history entry.
func (s *Session) BeginTransform(id scene.NodeID, prop keyframes.Property) {
	e := s.registry.Entry(id)
	if e == nil || e.State == layers.Deleted {
		return
	}
	s.gestures.Begin(id, fmt.Sprintf("Edit %v of %v", prop, e.Name))
}

// UpdateTransform applies one intermediate gesture value. Unparsable
// input is dropped and the previous value stays, so transient garbage
// while typing never corrupts the node.
func (s *Session) UpdateTransform(id scene.NodeID, prop keyframes.Property, raw string) {
	e := s.registry.Entry(id)
	if e == nil || e.State == layers.Deleted {
		return
	}
	v, err := utils.ParseFloat(raw)
	if err != nil {
		return
	}
	if !s.gestures.Open(id) {
		// direct field entry without a pointer gesture
		s.gestures.Begin(id, fmt.Sprintf("Edit %v of %v", prop, e.Name))
	}
	if keyframes.ApplyValue(s.arena, id, prop, v) {
		s.registry.Refresh()
	}
}

// CommitTransform ends the gesture: one history push, plus a keyframe
// at the current timeline position when the property's track is
// enabled in animate mode.
func (s *Session) CommitTransform(id scene.NodeID, prop keyframes.Property) {
	label, ok := s.gestures.Commit(id)
	if !ok {
		return
	}
	s.history.Push(label)
	if s.animate && s.keyframes.Track(id, prop) != nil {
		if v, ok := keyframes.GetValue(s.arena, id, prop); ok {
			s.keyframes.Upsert(id, prop, s.timeline.Position(), v)
		}
	}
}

func (s *Session) ToggleTrack(id scene.NodeID, prop keyframes.Property, enabled bool) {
	s.keyframes.Toggle(s.arena, id, prop, enabled, s.timeline.Position())
}

func (s *Session) UpsertKeyframe(id scene.NodeID, prop keyframes.Property, position, value float32) {
	s.keyframes.Upsert(id, prop, position, value)
}

// NavigateKeyframe jumps the playhead to the nearest keyframe in the
// given direction and applies its value to the layer.
func (s *Session) NavigateKeyframe(id scene.NodeID, prop keyframes.Property, next bool) {
	k, ok := s.keyframes.Navigate(id, prop, next, s.timeline.Position())
	if !ok {
		return
	}
	s.timeline.Seek(k.Position)
	if keyframes.ApplyValue(s.arena, id, prop, k.Value) {
		s.registry.Refresh()
	}
}

// SetAnimateMode toggles the fixed-camera authoring mode. The camera
// view is captured once on entry; the timeline is inert outside it.
func (s *Session) SetAnimateMode(enabled bool, cam CameraView) {
	if enabled && !s.animate {
		s.camera = cam
	}
	s.animate = enabled
	s.timeline.SetActive(enabled)
}

func (s *Session) AnimateMode() bool { return s.animate }

func (s *Session) CameraView() CameraView { return s.camera }

// ApplyConfig parses and applies a persisted payload. Validation
// failures leave the session untouched.
func (s *Session) ApplyConfig(raw []byte) error {
	p, err := config.ParsePayload(raw)
	if err != nil {
		return err
	}
	s.cfg = p
	s.timeline.SetLength(p.Settings.TimelineVh)
	return nil
}

func (s *Session) ConfigJSON() ([]byte, error) {
	return s.cfg.MarshalIndentJSON()
}
