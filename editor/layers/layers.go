package layers

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/scene_studio/scene"
	"github.com/mogaika/scene_studio/utils"
)

type State int

const (
	Active State = iota
	// Deleted layers stay in the registry (and in history snapshots)
	// so that deletion is undoable. They are dropped for real only on
	// the next model load.
	Deleted
)

// Entry is the flat editable view over one scene node. Everything the
// UI shows about a layer comes from here, never from the node itself.
type Entry struct {
	ID            scene.NodeID `json:"id"`
	Parent        scene.NodeID `json:"parent"`
	Name          string       `json:"name"`
	Type          string       `json:"type"`
	Depth         int          `json:"depth"`
	HasChildren   bool         `json:"hasChildren"`
	Visible       bool         `json:"visible"`
	Opacity       float32      `json:"opacity"`
	Position      mgl32.Vec3   `json:"position"`
	RotationDeg   mgl32.Vec3   `json:"rotation"`
	Scale         mgl32.Vec3   `json:"scale"`
	WorldPosition mgl32.Vec3   `json:"worldPosition"`
	State         State        `json:"state"`
}

// Registry maintains the layer list for one loaded scene. It is
// rebuilt by Build on load and only refreshed in place afterwards;
// tree shape never changes except through Duplicate.
type Registry struct {
	arena     *scene.Arena
	entries   []*Entry
	byID      map[scene.NodeID]*Entry
	selected  scene.NodeID
	collapsed map[scene.NodeID]bool
}

// Build traverses the scene once and derives an entry per editable
// node. Non-editable kinds (bones, skeleton helpers, cameras) are
// skipped but traversal continues below them, so their editable
// descendants attach to the nearest editable ancestor. Unnamed nodes
// get a synthesized "{type} {n}" name written back onto the node.
func Build(a *scene.Arena) *Registry {
	r := &Registry{
		arena:     a,
		byID:      make(map[scene.NodeID]*Entry),
		collapsed: make(map[scene.NodeID]bool),
	}

	counters := make(map[scene.Kind]int)

	var walk func(id, parent scene.NodeID, depth int)
	walk = func(id, parent scene.NodeID, depth int) {
		n := a.Node(id)
		if n == nil {
			return
		}
		nextParent, nextDepth := parent, depth
		if n.Kind.Editable() {
			if strings.TrimSpace(n.Name) == "" {
				counters[n.Kind]++
				n.Name = fmt.Sprintf("%v %d", n.Kind, counters[n.Kind])
			}
			e := &Entry{
				ID:     n.Id(),
				Parent: parent,
				Type:   n.Kind.String(),
				Depth:  depth,
			}
			e.pull(n)
			r.entries = append(r.entries, e)
			r.byID[e.ID] = e
			nextParent, nextDepth = n.Id(), depth+1
		}
		for _, c := range n.Children() {
			walk(c, nextParent, nextDepth)
		}
	}
	walk(a.Root(), scene.None, 0)

	for _, e := range r.entries {
		if p := r.byID[e.Parent]; p != nil {
			p.HasChildren = true
		}
	}
	return r
}

func (e *Entry) pull(n *scene.Node) {
	e.Name = n.Name
	e.Visible = n.Visible
	e.Opacity = n.Opacity
	e.Position = n.Position
	e.RotationDeg = utils.RadiansToDegreesV3(n.Rotation)
	e.Scale = n.Scale
	e.WorldPosition = n.WorldPosition()
}

// Refresh rederives display attributes from live node state. This is
// the cheap path after every edit; it never changes tree shape.
// Entries whose node is gone (stale snapshot ids after a reload) are
// left untouched.
func (r *Registry) Refresh() {
	for _, e := range r.entries {
		n := r.arena.Node(e.ID)
		if n == nil {
			continue
		}
		e.pull(n)
	}
}

func (r *Registry) Entries() []*Entry { return r.entries }

func (r *Registry) Entry(id scene.NodeID) *Entry { return r.byID[id] }

func (r *Registry) Arena() *scene.Arena { return r.arena }

func (r *Registry) Selected() scene.NodeID { return r.selected }

func (r *Registry) Select(id scene.NodeID) {
	if e := r.byID[id]; e == nil || e.State == Deleted {
		r.selected = scene.None
		return
	}
	r.selected = id
}

func (r *Registry) ClearSelection() { r.selected = scene.None }

func (r *Registry) SetCollapsed(id scene.NodeID, collapsed bool) {
	if collapsed {
		r.collapsed[id] = true
	} else {
		delete(r.collapsed, id)
	}
}

// IsShown reports whether the entry appears in the layer panel: it
// must not be soft-deleted and no ancestor of it may be collapsed.
func (r *Registry) IsShown(id scene.NodeID) bool {
	e := r.byID[id]
	if e == nil || e.State == Deleted {
		return false
	}
	for p := e.Parent; p != scene.None; {
		if r.collapsed[p] {
			return false
		}
		pe := r.byID[p]
		if pe == nil {
			break
		}
		p = pe.Parent
	}
	return true
}

func (r *Registry) ShownEntries() []*Entry {
	out := make([]*Entry, 0, len(r.entries))
	for _, e := range r.entries {
		if r.IsShown(e.ID) {
			out = append(out, e)
		}
	}
	return out
}

// Rename writes a trimmed name onto the node. Empty or unchanged
// names are a no-op; callers only snapshot history when it returns true.
func (r *Registry) Rename(id scene.NodeID, name string) bool {
	e := r.byID[id]
	n := r.arena.Node(id)
	if e == nil || n == nil {
		return false
	}
	name = strings.TrimSpace(name)
	if name == "" || name == e.Name {
		return false
	}
	n.Name = name
	e.Name = name
	return true
}

func (r *Registry) SetVisible(id scene.NodeID, visible bool) bool {
	e := r.byID[id]
	n := r.arena.Node(id)
	if e == nil || n == nil || e.State == Deleted {
		return false
	}
	if n.Visible == visible {
		return false
	}
	n.Visible = visible
	e.Visible = visible
	return true
}

// Delete soft-deletes the subtree at id: entries are tagged Deleted
// and the node is hidden, but nothing is removed from the arena so
// the action stays undoable.
func (r *Registry) Delete(id scene.NodeID) bool {
	e := r.byID[id]
	n := r.arena.Node(id)
	if e == nil || n == nil || e.State == Deleted {
		return false
	}
	n.Visible = false
	e.Visible = false
	r.markSubtree(id, Deleted)
	if sel := r.byID[r.selected]; sel != nil && sel.State == Deleted {
		r.selected = scene.None
	}
	return true
}

func (r *Registry) markSubtree(id scene.NodeID, st State) {
	r.arena.Traverse(id, func(n *scene.Node, depth int) bool {
		if e := r.byID[n.Id()]; e != nil {
			e.State = st
		}
		return true
	})
}

// SetState writes a single entry's variant directly. Used by history
// when reapplying snapshots; selection consistency is the caller's job.
func (r *Registry) SetState(id scene.NodeID, st State) {
	if e := r.byID[id]; e != nil {
		e.State = st
	}
}

// Duplicate clones the subtree at id next to the original and splices
// the clone's entries into the list right after the source block.
// Returns the clone's root handle, or None if id cannot be duplicated.
func (r *Registry) Duplicate(id scene.NodeID) scene.NodeID {
	src := r.byID[id]
	if src == nil || src.State == Deleted {
		return scene.None
	}
	cloneID := r.arena.Clone(id)
	if cloneID == scene.None {
		return scene.None
	}
	r.arena.Node(cloneID).Name = src.Name + " copy"

	var fresh []*Entry
	var walk func(nid, parent scene.NodeID, depth int)
	walk = func(nid, parent scene.NodeID, depth int) {
		n := r.arena.Node(nid)
		if n == nil {
			return
		}
		nextParent, nextDepth := parent, depth
		if n.Kind.Editable() {
			e := &Entry{
				ID:     n.Id(),
				Parent: parent,
				Type:   n.Kind.String(),
				Depth:  depth,
			}
			e.pull(n)
			fresh = append(fresh, e)
			r.byID[e.ID] = e
			nextParent, nextDepth = n.Id(), depth+1
		}
		for _, c := range n.Children() {
			walk(c, nextParent, nextDepth)
		}
	}
	walk(cloneID, src.Parent, src.Depth)

	at := r.subtreeEnd(id)
	r.entries = append(r.entries[:at], append(fresh, r.entries[at:]...)...)

	for _, e := range fresh {
		if p := r.byID[e.Parent]; p != nil {
			p.HasChildren = true
		}
	}

	r.selected = cloneID
	return cloneID
}

// subtreeEnd returns the index one past the last entry of the subtree
// rooted at id (entries are stored in traversal order).
func (r *Registry) subtreeEnd(id scene.NodeID) int {
	start := -1
	for i, e := range r.entries {
		if e.ID == id {
			start = i
			break
		}
	}
	if start < 0 {
		return len(r.entries)
	}
	depth := r.entries[start].Depth
	end := start + 1
	for end < len(r.entries) && r.entries[end].Depth > depth {
		end++
	}
	return end
}
