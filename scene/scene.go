package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

type NodeID uint32

const None NodeID = 0

type Kind int

const (
	KindGroup Kind = iota
	KindMesh
	KindBone
	KindSkeletonHelper
	KindCamera
	KindLight
)

func (k Kind) String() string {
	switch k {
	case KindGroup:
		return "Group"
	case KindMesh:
		return "Mesh"
	case KindBone:
		return "Bone"
	case KindSkeletonHelper:
		return "SkeletonHelper"
	case KindCamera:
		return "Camera"
	case KindLight:
		return "Light"
	}
	return "Unknown"
}

// Editable reports whether nodes of this kind show up in the layer list.
// Bones and their helpers are driven by the skeleton, cameras by orbit
// controls, so direct editing of them is not allowed.
func (k Kind) Editable() bool {
	switch k {
	case KindBone, KindSkeletonHelper, KindCamera:
		return false
	}
	return true
}

type Node struct {
	Kind     Kind
	Name     string
	Position mgl32.Vec3
	Rotation mgl32.Vec3 // euler XYZ, radians
	Scale    mgl32.Vec3
	Visible  bool
	Opacity  float32

	id       NodeID
	parent   NodeID
	children []NodeID
	localBox Box
	world    mgl32.Mat4
	alive    bool
}

func (n *Node) Id() NodeID         { return n.id }
func (n *Node) Parent() NodeID     { return n.parent }
func (n *Node) Children() []NodeID { return n.children }

// SetLocalBox assigns the node-local geometry bounds. Nodes without
// geometry keep an empty box and do not contribute to world bounds.
func (n *Node) SetLocalBox(min, max mgl32.Vec3) {
	n.localBox = Box{Min: min, Max: max, set: true}
}

func (n *Node) LocalMatrix() mgl32.Mat4 {
	rot := mgl32.HomogRotate3DX(n.Rotation[0]).
		Mul4(mgl32.HomogRotate3DY(n.Rotation[1])).
		Mul4(mgl32.HomogRotate3DZ(n.Rotation[2]))
	return mgl32.Translate3D(n.Position[0], n.Position[1], n.Position[2]).
		Mul4(rot).
		Mul4(mgl32.Scale3D(n.Scale[0], n.Scale[1], n.Scale[2]))
}

func (n *Node) WorldMatrix() mgl32.Mat4 {
	return n.world
}

func (n *Node) WorldPosition() mgl32.Vec3 {
	return n.world.Col(3).Vec3()
}

// Arena owns every node of one loaded scene. Node identity is a dense
// handle into the arena, not a pointer, so stale references after a
// reload resolve to nil instead of dangling.
type Arena struct {
	nodes []Node
	root  NodeID
}

func NewArena() *Arena {
	return &Arena{}
}

func (a *Arena) Root() NodeID { return a.root }

// NewNode allocates a node under parent (None for the scene root;
// only one root is allowed). World matrices are updated immediately.
func (a *Arena) NewNode(kind Kind, name string, parent NodeID) NodeID {
	a.nodes = append(a.nodes, Node{
		Kind:    kind,
		Name:    name,
		Scale:   mgl32.Vec3{1, 1, 1},
		Visible: true,
		Opacity: 1.0,
		id:      NodeID(len(a.nodes) + 1),
		parent:  parent,
		world:   mgl32.Ident4(),
		alive:   true,
	})
	id := NodeID(len(a.nodes))
	if parent == None {
		a.root = id
	} else if p := a.Node(parent); p != nil {
		p.children = append(p.children, id)
	}
	a.UpdateWorldMatrix(id)
	return id
}

// Node resolves a handle. Returns nil for None, out of range or
// removed nodes, so callers holding ids across reloads can just skip.
func (a *Arena) Node(id NodeID) *Node {
	if id == None || int(id) > len(a.nodes) {
		return nil
	}
	n := &a.nodes[id-1]
	if !n.alive {
		return nil
	}
	return n
}

// Remove detaches the subtree at id and marks every node in it dead.
func (a *Arena) Remove(id NodeID) {
	n := a.Node(id)
	if n == nil {
		return
	}
	if p := a.Node(n.parent); p != nil {
		for i, c := range p.children {
			if c == id {
				p.children = append(p.children[:i], p.children[i+1:]...)
				break
			}
		}
	}
	a.Traverse(id, func(n *Node, depth int) bool {
		n.alive = false
		return true
	})
	if a.root == id {
		a.root = None
	}
}

// Clone deep-copies the subtree at id as a new child of the same
// parent and returns the copy's handle.
func (a *Arena) Clone(id NodeID) NodeID {
	src := a.Node(id)
	if src == nil {
		return None
	}
	return a.cloneInto(id, src.parent)
}

func (a *Arena) cloneInto(id NodeID, parent NodeID) NodeID {
	src := a.Node(id)
	dst := a.NewNode(src.Kind, src.Name, parent)
	// NewNode may grow the backing array, re-resolve the source
	src = a.Node(id)
	d := a.Node(dst)
	d.Position = src.Position
	d.Rotation = src.Rotation
	d.Scale = src.Scale
	d.Visible = src.Visible
	d.Opacity = src.Opacity
	d.localBox = src.localBox
	for _, c := range append([]NodeID{}, src.children...) {
		a.cloneInto(c, dst)
	}
	a.UpdateWorldMatrix(dst)
	return dst
}

// Traverse walks the subtree at id depth-first. Returning false from
// the visitor skips that node's children.
func (a *Arena) Traverse(id NodeID, visit func(n *Node, depth int) bool) {
	a.traverse(id, 0, visit)
}

func (a *Arena) traverse(id NodeID, depth int, visit func(n *Node, depth int) bool) {
	n := a.Node(id)
	if n == nil {
		return
	}
	if !visit(n, depth) {
		return
	}
	for _, c := range n.children {
		a.traverse(c, depth+1, visit)
	}
}

// UpdateWorldMatrix recomputes world matrices for the subtree at id
// from its parent's current world matrix.
func (a *Arena) UpdateWorldMatrix(id NodeID) {
	n := a.Node(id)
	if n == nil {
		return
	}
	parentWorld := mgl32.Ident4()
	if p := a.Node(n.parent); p != nil {
		parentWorld = p.world
	}
	a.updateWorld(id, parentWorld)
}

func (a *Arena) updateWorld(id NodeID, parentWorld mgl32.Mat4) {
	n := a.Node(id)
	if n == nil {
		return
	}
	n.world = parentWorld.Mul4(n.LocalMatrix())
	for _, c := range n.children {
		a.updateWorld(c, n.world)
	}
}
