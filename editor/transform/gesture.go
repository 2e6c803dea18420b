package transform

import (
	"github.com/mogaika/scene_studio/scene"
)

// GestureTracker enforces the one-history-entry-per-gesture contract
// for continuous edits. A drag samples Update many times, but only
// the Begin/Commit pair around it produces a snapshot: Begin marks
// the node as mid-gesture, Commit drains the mark and hands back the
// label exactly once.
type GestureTracker struct {
	pending map[scene.NodeID]string
}

// Begin opens a gesture for id. Re-beginning an open gesture keeps
// the original label (pointer-move storms re-enter Begin).
func (g *GestureTracker) Begin(id scene.NodeID, label string) {
	if g.pending == nil {
		g.pending = make(map[scene.NodeID]string)
	}
	if _, open := g.pending[id]; open {
		return
	}
	g.pending[id] = label
}

func (g *GestureTracker) Open(id scene.NodeID) bool {
	_, open := g.pending[id]
	return open
}

// Commit closes the gesture and returns its label. The second Commit
// for the same gesture reports ok=false, so blur-after-release never
// double-snapshots.
func (g *GestureTracker) Commit(id scene.NodeID) (label string, ok bool) {
	label, ok = g.pending[id]
	if ok {
		delete(g.pending, id)
	}
	return label, ok
}
