package keyframes

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/scene_studio/scene"
)

func testArena() (*scene.Arena, scene.NodeID) {
	a := scene.NewArena()
	root := a.NewNode(scene.KindGroup, "root", scene.None)
	mesh := a.NewNode(scene.KindMesh, "mesh", root)
	n := a.Node(mesh)
	n.SetLocalBox(mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{1, 1, 1})
	a.UpdateWorldMatrix(root)
	return a, mesh
}

func TestUpsertQuantization(t *testing.T) {
	s := NewStore()
	layer := scene.NodeID(1)

	s.Upsert(layer, Opacity, 50, 0.4)
	s.Upsert(layer, Opacity, 50.004, 0.9)

	tr := s.Track(layer, Opacity)
	if tr == nil || len(tr.Keyframes) != 1 {
		t.Fatalf("keyframes = %+v; expected exactly one", tr)
	}
	if tr.Keyframes[0].Position != 50 || tr.Keyframes[0].Value != 0.9 {
		t.Errorf("keyframe = %+v; expected position 50 value 0.9", tr.Keyframes[0])
	}
}

func TestUpsertKeepsSorted(t *testing.T) {
	s := NewStore()
	layer := scene.NodeID(1)

	for _, p := range []float32{30, 10, 20} {
		s.Upsert(layer, PositionX, p, p)
	}
	tr := s.Track(layer, PositionX)
	for i, want := range []float32{10, 20, 30} {
		if tr.Keyframes[i].Position != want {
			t.Fatalf("keyframes out of order: %+v", tr.Keyframes)
		}
	}
}

func TestTrackIdentity(t *testing.T) {
	s := NewStore()

	s.Upsert(1, PositionX, 10, 1)
	s.Upsert(1, PositionY, 10, 2)
	s.Upsert(2, PositionX, 10, 3)

	if len(s.Tracks()) != 3 {
		t.Errorf("tracks = %d; expected 3 distinct (layer, property) pairs", len(s.Tracks()))
	}
	if got := len(s.LayerTracks(1)); got != 2 {
		t.Errorf("layer 1 tracks = %d; expected 2", got)
	}
}

func TestNavigate(t *testing.T) {
	s := NewStore()
	layer := scene.NodeID(1)
	for _, p := range []float32{10, 20, 30} {
		s.Upsert(layer, Opacity, p, 0)
	}

	for _, test := range []struct {
		from float32
		next bool
		want float32
	}{
		{0, true, 10},
		{10, true, 20},
		{30, true, 30},  // clamped, not cyclic
		{100, true, 30}, // clamped
		{30, false, 20},
		{10, false, 10}, // clamped
		{0, false, 10},  // clamped
		{15, false, 10},
		{15, true, 20},
	} {
		k, ok := s.Navigate(layer, Opacity, test.next, test.from)
		if !ok {
			t.Fatalf("navigate(%v, next=%v) found nothing", test.from, test.next)
		}
		if k.Position != test.want {
			t.Errorf("navigate(%v, next=%v) = %v; expected %v", test.from, test.next, k.Position, test.want)
		}
	}
}

func TestNavigateEmpty(t *testing.T) {
	s := NewStore()
	if _, ok := s.Navigate(1, Opacity, true, 0); ok {
		t.Errorf("navigate on missing track succeeded")
	}
}

func TestToggle(t *testing.T) {
	a, mesh := testArena()
	s := NewStore()
	n := a.Node(mesh)
	n.Position[0] = 7

	s.Toggle(a, mesh, PositionX, true, 50)
	tr := s.Track(mesh, PositionX)
	if tr == nil || len(tr.Keyframes) != 1 {
		t.Fatalf("toggle on did not seed one keyframe: %+v", tr)
	}
	if tr.Keyframes[0].Position != 50 || tr.Keyframes[0].Value != 7 {
		t.Errorf("seeded keyframe = %+v; expected live value 7 at 50", tr.Keyframes[0])
	}

	// toggling an existing track on again is a no-op
	s.Toggle(a, mesh, PositionX, true, 60)
	if len(s.Track(mesh, PositionX).Keyframes) != 1 {
		t.Errorf("re-enable added a keyframe")
	}

	s.Upsert(mesh, PositionX, 80, 9)
	s.Toggle(a, mesh, PositionX, false, 50)
	if s.Track(mesh, PositionX) != nil {
		t.Errorf("toggle off left the track behind")
	}
}

func TestRestoreEnforcesInvariants(t *testing.T) {
	s := NewStore()
	s.Upsert(5, Opacity, 1, 1)

	s.Restore([]*Track{
		nil,
		{Layer: 1, Property: PositionX, Keyframes: []Keyframe{
			{Position: 30, Value: 3},
			{Position: 10, Value: 1},
			{Position: 10.004, Value: 2}, // same quantized position
		}},
	})

	if s.Track(5, Opacity) != nil {
		t.Errorf("restore kept previous tracks")
	}
	tr := s.Track(1, PositionX)
	if tr == nil || len(tr.Keyframes) != 2 {
		t.Fatalf("restored keyframes = %+v; expected deduplicated pair", tr)
	}
	if tr.Keyframes[0].Position != 10 || tr.Keyframes[0].Value != 2 {
		t.Errorf("first keyframe = %+v; expected overwrite at 10", tr.Keyframes[0])
	}
	if tr.Keyframes[1].Position != 30 {
		t.Errorf("keyframes not sorted: %+v", tr.Keyframes)
	}
}

func TestGetValue(t *testing.T) {
	a, mesh := testArena()
	n := a.Node(mesh)
	n.Position = mgl32.Vec3{1, 2, 3}
	n.Rotation = mgl32.Vec3{0, mgl32.DegToRad(45), 0}
	n.Scale = mgl32.Vec3{2, 2, 2}
	n.Opacity = 0.25

	for _, test := range []struct {
		prop Property
		want float32
	}{
		{PositionX, 1},
		{PositionY, 2},
		{PositionZ, 3},
		{ScaleUniform, 2},
		{Opacity, 0.25},
	} {
		got, ok := GetValue(a, mesh, test.prop)
		if !ok || got != test.want {
			t.Errorf("GetValue(%v) = %v/%v; expected %v", test.prop, got, ok, test.want)
		}
	}

	ry, ok := GetValue(a, mesh, RotationY)
	if !ok || mgl32.Abs(ry-45) > 1e-4 {
		t.Errorf("GetValue(rotation.y) = %v; expected 45 deg", ry)
	}
}

func TestGetValueStaleLayer(t *testing.T) {
	a, _ := testArena()
	if _, ok := GetValue(a, scene.NodeID(100), Opacity); ok {
		t.Errorf("stale layer id produced a value")
	}
}

func TestApplyValue(t *testing.T) {
	a, mesh := testArena()

	if !ApplyValue(a, mesh, PositionY, 5) {
		t.Fatalf("apply position failed")
	}
	if got := a.Node(mesh).Position[1]; got != 5 {
		t.Errorf("position.y = %v; expected 5", got)
	}

	if !ApplyValue(a, mesh, Opacity, 3) {
		t.Fatalf("apply opacity failed")
	}
	if got := a.Node(mesh).Opacity; got != 1 {
		t.Errorf("opacity = %v; expected clamp to 1", got)
	}

	// scale routes through the pivot-preserving path
	ApplyValue(a, mesh, PositionX, 2)
	before := a.WorldBox(mesh).Center()
	if !ApplyValue(a, mesh, ScaleUniform, 4) {
		t.Fatalf("apply scale failed")
	}
	after := a.WorldBox(mesh).Center()
	if d := before.Sub(after).Len(); d > 1e-5 {
		t.Errorf("scale via ApplyValue drifted center by %v", d)
	}
	if got := a.Node(mesh).Scale; got != (mgl32.Vec3{4, 4, 4}) {
		t.Errorf("scale = %v; expected (4,4,4)", got)
	}
}

func TestParseProperty(t *testing.T) {
	for _, p := range Properties() {
		parsed, err := ParseProperty(p.String())
		if err != nil || parsed != p {
			t.Errorf("ParseProperty(%q) = %v/%v", p.String(), parsed, err)
		}
	}
	if _, err := ParseProperty("position.w"); err == nil {
		t.Errorf("unknown property parsed")
	}
}
