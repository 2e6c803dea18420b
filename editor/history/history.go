package history

import (
	"log"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/scene_studio/editor/layers"
	"github.com/mogaika/scene_studio/scene"
)

// MaxEntries caps the log. When exceeded the oldest entries drop and
// the cursor shifts so it keeps pointing at the same logical entry.
const MaxEntries = 40

// NodeState is one node's captured attributes. Rotation is stored in
// radians, same as on the node.
type NodeState struct {
	Name     string     `json:"name"`
	Visible  bool       `json:"visible"`
	Deleted  bool       `json:"deleted"`
	Opacity  float32    `json:"opacity"`
	Position mgl32.Vec3 `json:"position"`
	Rotation mgl32.Vec3 `json:"rotation"`
	Scale    mgl32.Vec3 `json:"scale"`
}

type Snapshot map[scene.NodeID]NodeState

type Entry struct {
	Label    string `json:"label"`
	snapshot Snapshot
}

// Log is a linear undo history over every registry-tracked node.
// Pushing while the cursor sits mid-log truncates the tail; there is
// no branching.
type Log struct {
	registry *layers.Registry
	entries  []*Entry
	cursor   int
}

// NewLog captures the "Initial state" entry immediately so undo can
// always get back to the freshly loaded scene.
func NewLog(r *layers.Registry) *Log {
	l := &Log{registry: r}
	l.entries = []*Entry{{Label: "Initial state", snapshot: l.capture()}}
	l.cursor = 0
	return l
}

func (l *Log) Entries() []*Entry { return l.entries }
func (l *Log) Cursor() int       { return l.cursor }

func (l *Log) capture() Snapshot {
	s := make(Snapshot, len(l.registry.Entries()))
	a := l.registry.Arena()
	for _, e := range l.registry.Entries() {
		n := a.Node(e.ID)
		if n == nil {
			continue
		}
		s[e.ID] = NodeState{
			Name:     n.Name,
			Visible:  n.Visible,
			Deleted:  e.State == layers.Deleted,
			Opacity:  n.Opacity,
			Position: n.Position,
			Rotation: n.Rotation,
			Scale:    n.Scale,
		}
	}
	return s
}

// Push snapshots the current state of every tracked node under the
// given label. Entries past the cursor are discarded first.
func (l *Log) Push(label string) {
	l.entries = l.entries[:l.cursor+1]
	l.entries = append(l.entries, &Entry{Label: label, snapshot: l.capture()})
	if len(l.entries) > MaxEntries {
		drop := len(l.entries) - MaxEntries
		l.entries = append([]*Entry{}, l.entries[drop:]...)
	}
	l.cursor = len(l.entries) - 1
}

func (l *Log) Undo() bool {
	if l.cursor == 0 {
		return false
	}
	l.cursor--
	l.apply(l.entries[l.cursor])
	return true
}

func (l *Log) Redo() bool {
	if l.cursor == len(l.entries)-1 {
		return false
	}
	l.cursor++
	l.apply(l.entries[l.cursor])
	return true
}

// JumpTo applies an arbitrary entry directly (history browser).
func (l *Log) JumpTo(index int) bool {
	if index < 0 || index >= len(l.entries) {
		log.Printf("[history] jump to invalid index %d (of %d)", index, len(l.entries))
		return false
	}
	l.cursor = index
	l.apply(l.entries[index])
	return true
}

func (l *Log) Reset() { l.JumpTo(0) }

// apply writes every captured node state back onto the live scene.
// Ids that no longer resolve are skipped: snapshots routinely outlive
// nodes across reload-adjacent races and that is not an error.
func (l *Log) apply(entry *Entry) {
	a := l.registry.Arena()
	for id, st := range entry.snapshot {
		n := a.Node(id)
		if n == nil {
			continue
		}
		n.Name = st.Name
		n.Visible = st.Visible
		n.Opacity = st.Opacity
		n.Position = st.Position
		n.Rotation = st.Rotation
		n.Scale = st.Scale
		a.UpdateWorldMatrix(id)
		if st.Deleted {
			l.registry.SetState(id, layers.Deleted)
		} else {
			l.registry.SetState(id, layers.Active)
		}
	}
	if sel := l.registry.Entry(l.registry.Selected()); sel != nil && sel.State == layers.Deleted {
		l.registry.ClearSelection()
	}
	l.registry.Refresh()
}
