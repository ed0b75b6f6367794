package scene

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/walker/engine/core"
	"github.com/spaghettifunk/walker/engine/math"
	"github.com/spaghettifunk/walker/engine/renderer/metadata"
)

type recordedDraw struct {
	geometry  metadata.Geometry
	transform mgl32.Mat4
}

type recorder struct {
	draws []recordedDraw
}

func (r *recorder) Draw(geometry metadata.Geometry, transform mgl32.Mat4) {
	r.draws = append(r.draws, recordedDraw{geometry, transform})
}

// mustAdd calls g.AddChild and fails the test on error.
func (g *Graph) mustAdd(t *testing.T, parent, child NodeID) {
	t.Helper()
	if err := g.AddChild(parent, child); err != nil {
		t.Fatalf("AddChild(%d, %d): %v", parent, child, err)
	}
}

func TestCreateNode(t *testing.T) {
	g := NewGraph()
	id := g.CreateNode("n")
	n := g.Node(id)
	if n == nil {
		t.Fatal("Node: have nil")
	}
	if n.Position != (mgl32.Vec3{}) || n.Rotation != (mgl32.Vec3{}) || n.ReferencePoint != (mgl32.Vec3{}) {
		t.Fatalf("new node is not identity: %+v", n)
	}
	if n.IsRenderable() || len(g.Children(id)) != 0 || g.Parent(id) != Nil {
		t.Fatalf("new node has geometry or relations: %+v", n)
	}
	if n.LocalTransform() != mgl32.Ident4() {
		t.Fatalf("LocalTransform\nhave %v\nwant identity", n.LocalTransform())
	}
	if g.Node(Nil) != nil || g.Node(5) != nil {
		t.Fatal("Node with unknown id: have non-nil")
	}
}

func TestAddChildChecks(t *testing.T) {
	g := NewGraph()
	a := g.CreateNode("a")
	b := g.CreateNode("b")
	c := g.CreateNode("c")
	g.mustAdd(t, a, b)
	g.mustAdd(t, b, c)

	cases := []struct {
		name          string
		parent, child NodeID
		want          error
	}{
		{"unknown parent", 42, c, core.ErrInvalidNode},
		{"unknown child", a, Nil, core.ErrInvalidNode},
		{"already parented", a, c, core.ErrAlreadyParented},
		{"self", b, b, core.ErrAlreadyParented},
		{"root under descendant", c, a, core.ErrCycleDetected},
	}
	for _, tc := range cases {
		if err := g.AddChild(tc.parent, tc.child); !errors.Is(err, tc.want) {
			t.Errorf("%s: AddChild(%d, %d)\nhave %v\nwant %v", tc.name, tc.parent, tc.child, err, tc.want)
		}
	}

	d := g.CreateNode("d")
	if err := g.AddChild(d, d); !errors.Is(err, core.ErrCycleDetected) {
		t.Errorf("AddChild(d, d)\nhave %v\nwant %v", err, core.ErrCycleDetected)
	}
	if got := g.Children(a); len(got) != 1 || got[0] != b {
		t.Fatalf("Children(a)\nhave %v\nwant [%d]", got, b)
	}
}

func TestSetGeometry(t *testing.T) {
	g := NewGraph()
	n := g.CreateNode("n")
	if err := g.SetGeometry(n, metadata.Geometry{ID: 3}); !errors.Is(err, core.ErrInvalidGeometry) {
		t.Errorf("handle without indices\nhave %v\nwant %v", err, core.ErrInvalidGeometry)
	}
	if err := g.SetGeometry(n, metadata.Geometry{IndexCount: 3}); !errors.Is(err, core.ErrInvalidGeometry) {
		t.Errorf("indices without handle\nhave %v\nwant %v", err, core.ErrInvalidGeometry)
	}
	if err := g.SetGeometry(n, metadata.Geometry{ID: 3, IndexCount: 36}); err != nil {
		t.Fatalf("SetGeometry: %v", err)
	}
	if !g.Node(n).IsRenderable() || g.Node(n).IndexCount() != 36 {
		t.Fatalf("node after SetGeometry: %+v", g.Node(n))
	}
	if err := g.SetGeometry(n, metadata.Geometry{}); err != nil {
		t.Fatalf("clearing geometry: %v", err)
	}
}

func TestFind(t *testing.T) {
	g := NewGraph()
	g.CreateNode("root")
	torso := g.CreateNode("torso")
	if have := g.Find("torso"); have != torso {
		t.Fatalf("Find(torso)\nhave %d\nwant %d", have, torso)
	}
	if have := g.Find("tail"); have != Nil {
		t.Fatalf("Find(tail)\nhave %d\nwant Nil", have)
	}
}

// buildChain creates a 4-level chain with non trivial transforms.
func buildChain(t *testing.T) (*Graph, []NodeID) {
	g := NewGraph()
	ids := []NodeID{
		g.CreateNode("l0"),
		g.CreateNode("l1"),
		g.CreateNode("l2"),
		g.CreateNode("l3"),
	}
	params := []struct{ pos, rot, ref mgl32.Vec3 }{
		{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0.5, 0}, mgl32.Vec3{}},
		{mgl32.Vec3{0, 2, 0}, mgl32.Vec3{0.3, 0, 0}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 0, -3}, mgl32.Vec3{0, 0, 1.1}, mgl32.Vec3{0.5, 0.5, 0}},
		{mgl32.Vec3{-1, 1, 1}, mgl32.Vec3{0.2, -0.4, 0.6}, mgl32.Vec3{2, 0, 1}},
	}
	for i, p := range params {
		n := g.Node(ids[i])
		n.Position, n.Rotation, n.ReferencePoint = p.pos, p.rot, p.ref
		if err := g.SetGeometry(ids[i], metadata.Geometry{ID: uint32(i + 1), IndexCount: 3}); err != nil {
			t.Fatal(err)
		}
	}
	for i := 1; i < len(ids); i++ {
		g.mustAdd(t, ids[i-1], ids[i])
	}
	return g, ids
}

func TestTraverseCompositionLaw(t *testing.T) {
	g, ids := buildChain(t)
	vp := mgl32.Perspective(mgl32.DegToRad(60), 4.0/3.0, 0.1, 100).Mul4(mgl32.Translate3D(0, 0, -10))

	rec := &recorder{}
	if n := g.Traverse(ids[0], vp, rec); n != 4 {
		t.Fatalf("Traverse draws\nhave %d\nwant 4", n)
	}

	want := vp.Mul4(g.Node(ids[0]).LocalTransform())
	if !math.Mat4ApproxEqual(g.WorldTransform(ids[0]), want, 1e-5) {
		t.Fatalf("root world\nhave %v\nwant %v", g.WorldTransform(ids[0]), want)
	}
	for i := 1; i < len(ids); i++ {
		parent := g.WorldTransform(ids[i-1])
		want := parent.Mul4(g.Node(ids[i]).LocalTransform())
		have := g.WorldTransform(ids[i])
		if !math.Mat4ApproxEqual(have, want, 1e-5) {
			t.Fatalf("level %d world\nhave %v\nwant %v", i, have, want)
		}
		if rec.draws[i].transform != have {
			t.Fatalf("level %d draw transform differs from stored world", i)
		}
	}
}

func TestTraversePivotInvariance(t *testing.T) {
	g := NewGraph()
	root := g.CreateNode("root")
	g.Node(root).Position = mgl32.Vec3{3, 0, -2}
	arm := g.CreateNode("arm")
	g.mustAdd(t, root, arm)

	ref := mgl32.Vec3{0.5, 1.5, 0}
	n := g.Node(arm)
	n.ReferencePoint = ref

	for _, rot := range []mgl32.Vec3{
		{0.8, 0, 0},
		{0, 1.3, 0},
		{0, 0, -0.9},
	} {
		g.Node(arm).Rotation = rot
		g.Traverse(root, mgl32.Ident4(), nil)

		parent := g.WorldTransform(root)
		have := g.WorldTransform(arm).Mul4x1(ref.Vec4(1))
		want := parent.Mul4x1(ref.Vec4(1))
		if !math.Vec3ApproxEqual(have.Vec3(), want.Vec3(), 1e-5) {
			t.Errorf("rotation %v: pivot moved\nhave %v\nwant %v", rot, have, want)
		}
	}
}

func TestTraverseDrawOrder(t *testing.T) {
	g := NewGraph()
	root := g.CreateNode("root")
	child1 := g.CreateNode("child1")
	child2 := g.CreateNode("child2")
	grand1 := g.CreateNode("grand1")
	grand2 := g.CreateNode("grand2")
	g.mustAdd(t, root, child1)
	g.mustAdd(t, root, child2)
	g.mustAdd(t, child1, grand1)
	g.mustAdd(t, child2, grand2)
	if err := g.SetGeometry(grand1, metadata.Geometry{ID: 10, IndexCount: 6, Name: "grand1"}); err != nil {
		t.Fatal(err)
	}
	if err := g.SetGeometry(grand2, metadata.Geometry{ID: 20, IndexCount: 6, Name: "grand2"}); err != nil {
		t.Fatal(err)
	}

	rec := &recorder{}
	if n := g.Traverse(root, mgl32.Ident4(), rec); n != 2 {
		t.Fatalf("Traverse draws\nhave %d\nwant 2", n)
	}
	if rec.draws[0].geometry.ID != 10 || rec.draws[1].geometry.ID != 20 {
		t.Fatalf("draw order\nhave %v, %v\nwant grand1, grand2", rec.draws[0].geometry.Name, rec.draws[1].geometry.Name)
	}
}

func TestTraversePreOrderWithRenderableParents(t *testing.T) {
	g := NewGraph()
	names := []string{"a", "b", "c", "d", "e"}
	ids := make([]NodeID, len(names))
	for i, name := range names {
		ids[i] = g.CreateNode(name)
		if err := g.SetGeometry(ids[i], metadata.Geometry{ID: uint32(i + 1), IndexCount: 3, Name: name}); err != nil {
			t.Fatal(err)
		}
	}
	// a -> (b -> (c), d -> (e))
	g.mustAdd(t, ids[0], ids[1])
	g.mustAdd(t, ids[1], ids[2])
	g.mustAdd(t, ids[0], ids[3])
	g.mustAdd(t, ids[3], ids[4])

	var order []string
	g.Traverse(ids[0], mgl32.Ident4(), DrawFunc(func(geometry metadata.Geometry, _ mgl32.Mat4) {
		order = append(order, geometry.Name)
	}))
	if have := strings.Join(order, ""); have != "abcde" {
		t.Fatalf("pre-order\nhave %s\nwant abcde", have)
	}
}

func TestTraverseUnknownRoot(t *testing.T) {
	g := NewGraph()
	if n := g.Traverse(Nil, mgl32.Ident4(), &recorder{}); n != 0 {
		t.Fatalf("Traverse(Nil)\nhave %d\nwant 0", n)
	}
}

func TestDump(t *testing.T) {
	g, ids := buildChain(t)
	s := g.Dump(ids[0])
	for _, name := range []string{"l0", "l1", "l2", "l3"} {
		if !strings.Contains(s, name) {
			t.Fatalf("Dump misses %q:\n%s", name, s)
		}
	}
	outline := g.Outline(ids[0])
	if lines := strings.Count(outline, "\n"); lines != 4 {
		t.Fatalf("Outline lines\nhave %d\nwant 4\n%s", lines, outline)
	}
}
