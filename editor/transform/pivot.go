// Package transform implements pivot-preserving edits: scale and
// rotation changes that keep the subtree's visual center in place by
// compensating through the node's local position, without introducing
// pivot helper nodes into the scene.
package transform

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/scene_studio/scene"
	"github.com/mogaika/scene_studio/utils"
)

const (
	ScaleMin = 0.001
	ScaleMax = 100.0

	// squared distance below which center drift is treated as zero
	centerEpsilon = 1e-12
)

// SetUniformScale applies a clamped uniform scale while keeping the
// world bounding-box center stationary.
func SetUniformScale(a *scene.Arena, id scene.NodeID, s float32) {
	n := a.Node(id)
	if n == nil {
		return
	}
	s = utils.Clampf(s, ScaleMin, ScaleMax)
	withCenterPreserved(a, id, func() {
		n.Scale = mgl32.Vec3{s, s, s}
	})
}

// SetRotationDeg sets one euler axis (0=X 1=Y 2=Z) from degrees,
// keeping the existing rotation order and the bounding-box center.
func SetRotationDeg(a *scene.Arena, id scene.NodeID, axis int, deg float32) {
	n := a.Node(id)
	if n == nil || axis < 0 || axis > 2 {
		return
	}
	withCenterPreserved(a, id, func() {
		n.Rotation[axis] = mgl32.DegToRad(deg)
	})
}

// withCenterPreserved applies edit and moves the node so the world
// bounding-box center ends where it started. Degenerate boxes (no
// geometry in the subtree) skip the correction but still apply the edit.
func withCenterPreserved(a *scene.Arena, id scene.NodeID, edit func()) {
	a.UpdateWorldMatrix(id)
	before := a.WorldBox(id)

	edit()
	a.UpdateWorldMatrix(id)

	if before.Empty() {
		return
	}
	after := a.WorldBox(id)
	if after.Empty() {
		return
	}

	delta := before.Center().Sub(after.Center())
	if delta.LenSqr() < centerEpsilon {
		return
	}

	n := a.Node(id)
	target := n.WorldPosition().Add(delta)
	if p := a.Node(n.Parent()); p != nil {
		local := p.WorldMatrix().Inv().Mul4x1(target.Vec4(1))
		n.Position = local.Vec3()
	} else {
		n.Position = target
	}
	a.UpdateWorldMatrix(id)
}
