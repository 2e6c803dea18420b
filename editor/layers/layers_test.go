package layers

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/scene_studio/scene"
)

// root > [Camera, Props > [mesh, mesh], Figure > [body, Rig > bone]]
func testScene() (*scene.Arena, map[string]scene.NodeID) {
	a := scene.NewArena()
	ids := make(map[string]scene.NodeID)
	ids["root"] = a.NewNode(scene.KindGroup, "Scene", scene.None)
	ids["camera"] = a.NewNode(scene.KindCamera, "Camera", ids["root"])
	ids["props"] = a.NewNode(scene.KindGroup, "Props", ids["root"])
	ids["mesh1"] = a.NewNode(scene.KindMesh, "", ids["props"])
	ids["mesh2"] = a.NewNode(scene.KindMesh, "", ids["props"])
	ids["figure"] = a.NewNode(scene.KindGroup, "Figure", ids["root"])
	ids["body"] = a.NewNode(scene.KindMesh, "Body", ids["figure"])
	ids["rig"] = a.NewNode(scene.KindSkeletonHelper, "Rig", ids["figure"])
	ids["bone"] = a.NewNode(scene.KindBone, "spine", ids["rig"])
	return a, ids
}

func TestBuildSkipsNonEditable(t *testing.T) {
	a, ids := testScene()
	r := Build(a)

	if len(r.Entries()) != 6 {
		t.Fatalf("entries = %d; expected 6", len(r.Entries()))
	}
	for _, skipped := range []string{"camera", "rig", "bone"} {
		if r.Entry(ids[skipped]) != nil {
			t.Errorf("%v has an entry", skipped)
		}
	}
}

func TestBuildTree(t *testing.T) {
	a, ids := testScene()
	r := Build(a)

	for _, test := range []struct {
		name   string
		parent string
		depth  int
	}{
		{"root", "", 0},
		{"props", "root", 1},
		{"mesh1", "props", 2},
		{"body", "figure", 2},
	} {
		e := r.Entry(ids[test.name])
		if e == nil {
			t.Fatalf("no entry for %v", test.name)
		}
		wantParent := scene.None
		if test.parent != "" {
			wantParent = ids[test.parent]
		}
		if e.Parent != wantParent {
			t.Errorf("%v parent = %d; expected %d", test.name, e.Parent, wantParent)
		}
		if e.Depth != test.depth {
			t.Errorf("%v depth = %d; expected %d", test.name, e.Depth, test.depth)
		}
	}

	if !r.Entry(ids["props"]).HasChildren {
		t.Errorf("props does not report children")
	}
	if r.Entry(ids["body"]).HasChildren {
		t.Errorf("body reports children")
	}
}

func TestSynthesizedNames(t *testing.T) {
	a, ids := testScene()
	r := Build(a)

	if got := r.Entry(ids["mesh1"]).Name; got != "Mesh 1" {
		t.Errorf("mesh1 name = %q; expected \"Mesh 1\"", got)
	}
	if got := r.Entry(ids["mesh2"]).Name; got != "Mesh 2" {
		t.Errorf("mesh2 name = %q; expected \"Mesh 2\"", got)
	}
	// synthesized names are written back to the node
	if got := a.Node(ids["mesh1"]).Name; got != "Mesh 1" {
		t.Errorf("node name = %q; expected \"Mesh 1\"", got)
	}
}

func TestRefresh(t *testing.T) {
	a, ids := testScene()
	r := Build(a)

	n := a.Node(ids["body"])
	n.Position = mgl32.Vec3{5, 0, 0}
	n.Opacity = 0.5
	a.UpdateWorldMatrix(ids["body"])
	r.Refresh()

	e := r.Entry(ids["body"])
	if e.Position[0] != 5 {
		t.Errorf("position not refreshed: %v", e.Position)
	}
	if e.Opacity != 0.5 {
		t.Errorf("opacity not refreshed: %v", e.Opacity)
	}
}

func TestRefreshConvertsRotationToDegrees(t *testing.T) {
	a, ids := testScene()
	r := Build(a)

	a.Node(ids["body"]).Rotation = mgl32.Vec3{0, mgl32.DegToRad(90), 0}
	r.Refresh()

	got := r.Entry(ids["body"]).RotationDeg[1]
	if got < 89.999 || got > 90.001 {
		t.Errorf("rotation = %v deg; expected 90", got)
	}
}

func TestCollapseQuery(t *testing.T) {
	a, ids := testScene()
	r := Build(a)

	if !r.IsShown(ids["mesh1"]) {
		t.Fatalf("mesh1 hidden initially")
	}
	r.SetCollapsed(ids["props"], true)
	if r.IsShown(ids["mesh1"]) {
		t.Errorf("mesh1 shown under collapsed parent")
	}
	// collapsing hides descendants, not the collapsed entry itself
	if !r.IsShown(ids["props"]) {
		t.Errorf("collapsed entry itself hidden")
	}
	r.SetCollapsed(ids["props"], false)
	if !r.IsShown(ids["mesh1"]) {
		t.Errorf("mesh1 hidden after expand")
	}
}

func TestRename(t *testing.T) {
	a, ids := testScene()
	r := Build(a)

	if r.Rename(ids["body"], "  ") {
		t.Errorf("rename to blank accepted")
	}
	if r.Rename(ids["body"], "Body") {
		t.Errorf("rename to same name accepted")
	}
	if !r.Rename(ids["body"], "  Torso  ") {
		t.Fatalf("rename rejected")
	}
	if got := a.Node(ids["body"]).Name; got != "Torso" {
		t.Errorf("node name = %q; expected trimmed \"Torso\"", got)
	}
}

func TestSoftDelete(t *testing.T) {
	a, ids := testScene()
	r := Build(a)
	r.Select(ids["mesh1"])

	if !r.Delete(ids["props"]) {
		t.Fatalf("delete rejected")
	}
	if r.Delete(ids["props"]) {
		t.Errorf("double delete accepted")
	}
	// subtree is tagged, node hidden, nothing removed from the arena
	for _, name := range []string{"props", "mesh1", "mesh2"} {
		if r.Entry(ids[name]).State != Deleted {
			t.Errorf("%v not tagged deleted", name)
		}
		if a.Node(ids[name]) == nil {
			t.Errorf("%v removed from arena", name)
		}
	}
	if a.Node(ids["props"]).Visible {
		t.Errorf("deleted node still visible")
	}
	if r.IsShown(ids["props"]) {
		t.Errorf("deleted entry still shown")
	}
	if r.Selected() != scene.None {
		t.Errorf("selection kept pointing at deleted subtree")
	}
}

func TestSelectDeleted(t *testing.T) {
	a, ids := testScene()
	r := Build(a)
	r.Delete(ids["body"])

	r.Select(ids["body"])
	if r.Selected() != scene.None {
		t.Errorf("selected a deleted layer")
	}
}

func TestDuplicate(t *testing.T) {
	a, ids := testScene()
	r := Build(a)
	before := len(r.Entries())

	clone := r.Duplicate(ids["props"])
	if clone == scene.None {
		t.Fatalf("duplicate failed")
	}
	ce := r.Entry(clone)
	if ce == nil {
		t.Fatalf("no entry for clone")
	}
	if ce.Name != "Props copy" {
		t.Errorf("clone name = %q", ce.Name)
	}
	if ce.Parent != ids["root"] || ce.Depth != 1 {
		t.Errorf("clone parent/depth = %d/%d", ce.Parent, ce.Depth)
	}
	// props subtree has 3 editable nodes
	if got := len(r.Entries()); got != before+3 {
		t.Errorf("entries = %d; expected %d", got, before+3)
	}
	if r.Selected() != clone {
		t.Errorf("clone not selected")
	}

	// clone block must sit right after the source block
	idx := -1
	for i, e := range r.Entries() {
		if e.ID == clone {
			idx = i
		}
	}
	if idx < 1 || r.Entries()[idx-1].Parent != ids["props"] {
		t.Errorf("clone not placed after source subtree (index %d)", idx)
	}
}

func TestDuplicateDeleted(t *testing.T) {
	a, ids := testScene()
	r := Build(a)
	r.Delete(ids["body"])

	if r.Duplicate(ids["body"]) != scene.None {
		t.Errorf("duplicated a deleted layer")
	}
}
