package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Box is a world or local space AABB. The zero Box is empty and stays
// empty under Union.
type Box struct {
	Min, Max mgl32.Vec3
	set      bool
}

func (b Box) Empty() bool {
	return !b.set
}

func (b Box) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

func (b Box) Union(o Box) Box {
	if b.Empty() {
		return o
	}
	if o.Empty() {
		return b
	}
	for i := 0; i < 3; i++ {
		if o.Min[i] < b.Min[i] {
			b.Min[i] = o.Min[i]
		}
		if o.Max[i] > b.Max[i] {
			b.Max[i] = o.Max[i]
		}
	}
	return b
}

// ExpandPoint grows the box to contain p.
func (b Box) ExpandPoint(p mgl32.Vec3) Box {
	if b.Empty() {
		return Box{Min: p, Max: p, set: true}
	}
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
	return b
}

// Transformed returns the AABB of the box's 8 corners mapped by m.
func (b Box) Transformed(m mgl32.Mat4) Box {
	if b.Empty() {
		return Box{}
	}
	var out Box
	for i := 0; i < 8; i++ {
		c := mgl32.Vec3{b.Min[0], b.Min[1], b.Min[2]}
		if i&1 != 0 {
			c[0] = b.Max[0]
		}
		if i&2 != 0 {
			c[1] = b.Max[1]
		}
		if i&4 != 0 {
			c[2] = b.Max[2]
		}
		out = out.ExpandPoint(m.Mul4x1(c.Vec4(1)).Vec3())
	}
	return out
}

// WorldBox computes the world-space bounds of the subtree at id by
// unioning every geometry-bearing node's transformed local box.
// Returns an empty box for subtrees without geometry.
func (a *Arena) WorldBox(id NodeID) Box {
	var box Box
	a.Traverse(id, func(n *Node, depth int) bool {
		if !n.localBox.Empty() {
			box = box.Union(n.localBox.Transformed(n.world))
		}
		return true
	})
	return box
}
