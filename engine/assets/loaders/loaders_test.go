package loaders

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/spaghettifunk/walker/engine/core"
	"github.com/spaghettifunk/walker/engine/path"
	"github.com/spaghettifunk/walker/engine/renderer/metadata"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestPathLoader(t *testing.T) {
	file := writeFile(t, "coords.txt", "0 0\n10 0\n10 10\n")
	res, err := (&PathLoader{}).Load(file, metadata.ResourceTypePath, []path.Option{path.WithEndMode(path.ModeClamp)})
	if err != nil {
		t.Fatal(err)
	}
	p, ok := res.Data.(*path.Path)
	if !ok {
		t.Fatalf("Data\nhave %T\nwant *path.Path", res.Data)
	}
	if p.Len() != 3 || p.Mode() != path.ModeClamp {
		t.Fatalf("path\nhave len=%d mode=%v\nwant len=3 mode=clamp", p.Len(), p.Mode())
	}
	if res.Name != "coords.txt" || res.Type != metadata.ResourceTypePath {
		t.Fatalf("resource header: %+v", res)
	}
}

func TestPathLoaderErrors(t *testing.T) {
	if _, err := (&PathLoader{}).Load(writeFile(t, "bad.txt", "1 2 3"), metadata.ResourceTypePath, nil); !errors.Is(err, core.ErrMalformedWaypoint) {
		t.Fatalf("odd count\nhave %v\nwant %v", err, core.ErrMalformedWaypoint)
	}
	if _, err := (&PathLoader{}).Load(writeFile(t, "ok.txt", "1 2"), metadata.ResourceTypePath, "nope"); err == nil {
		t.Fatal("wrong params type should fail")
	}
	if _, err := (&PathLoader{}).Load(filepath.Join(t.TempDir(), "missing.txt"), metadata.ResourceTypePath, nil); err == nil {
		t.Fatal("missing file should fail")
	}
}

const rigYAML = `
name: walker
nodes:
  - name: torso
    size: [4, 6, 2]
    position: [0, 9, 0]
    color: [0.8, 0.2, 0.2]
  - name: head
    parent: torso
    size: [2, 2, 2]
    position: [0, 4, 0]
  - name: left_arm
    parent: torso
    size: [1, 5, 1]
    position: [-2.5, 0, 0]
    reference_point: [0, 2.5, 0]
    color: [0.2, 0.2, 0.8, 0.5]
  - name: hips
    parent: torso
`

func TestRigLoader(t *testing.T) {
	res, err := (&RigLoader{}).Load(writeFile(t, "walker.yaml", rigYAML), metadata.ResourceTypeRig, nil)
	if err != nil {
		t.Fatal(err)
	}
	rig := res.Data.(*metadata.RigConfig)
	if rig.Name != "walker" || len(rig.Nodes) != 4 {
		t.Fatalf("rig\nhave %q with %d nodes\nwant walker with 4", rig.Name, len(rig.Nodes))
	}

	arm := rig.Nodes[2]
	if arm.Parent != "torso" {
		t.Fatalf("arm parent\nhave %q\nwant torso", arm.Parent)
	}
	if have, want := arm.ReferencePointVec(), (mgl32.Vec3{0, 2.5, 0}); have != want {
		t.Fatalf("reference point\nhave %v\nwant %v", have, want)
	}
	if have, want := arm.ColorVec(), (mgl32.Vec4{0.2, 0.2, 0.8, 0.5}); have != want {
		t.Fatalf("color\nhave %v\nwant %v", have, want)
	}
	if have, want := rig.Nodes[0].ColorVec(), (mgl32.Vec4{0.8, 0.2, 0.2, 1}); have != want {
		t.Fatalf("rgb color\nhave %v\nwant %v", have, want)
	}
	if rig.Nodes[3].HasGeometry() {
		t.Fatal("hips has no size and should be a grouping node")
	}
}

func TestParseRigErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		yaml string
	}{
		{"not yaml", "nodes: [:"},
		{"missing name", "nodes:\n  - size: [1, 1, 1]\n"},
		{"duplicate", "nodes:\n  - name: a\n  - name: a\n"},
		{"parent after child", "nodes:\n  - name: a\n    parent: b\n  - name: b\n"},
		{"short vector", "nodes:\n  - name: a\n    size: [1, 1]\n"},
		{"long color", "nodes:\n  - name: a\n    color: [1, 1, 1, 1, 1]\n"},
	} {
		if _, err := ParseRig([]byte(tc.yaml)); err == nil {
			t.Errorf("%s: ParseRig should fail", tc.name)
		}
	}

	_, err := ParseRig([]byte("nodes:\n  - name: a\n    parent: ghost\n"))
	if !errors.Is(err, core.ErrInvalidNode) {
		t.Fatalf("undeclared parent\nhave %v\nwant %v", err, core.ErrInvalidNode)
	}
}

func TestRigLoaderDefaultsName(t *testing.T) {
	res, err := (&RigLoader{}).Load(writeFile(t, "biped.yml", "nodes:\n  - name: root\n"), metadata.ResourceTypeRig, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Name != "biped" {
		t.Fatalf("rig name\nhave %q\nwant biped", res.Name)
	}
}

func TestShaderLoader(t *testing.T) {
	src := "#version 430 core\nvoid main() {}\n"
	res, err := (&ShaderLoader{}).Load(writeFile(t, "simple.vert", src), metadata.ResourceTypeShader, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Data.(string) != src || res.DataSize != uint64(len(src)) {
		t.Fatalf("shader\nhave %q (%d)\nwant %q", res.Data, res.DataSize, src)
	}
}

func quadDocument(withColor bool) *gltf.Document {
	doc := gltf.NewDocument()
	positions := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {0, 0, 1}})
	indices := modeler.WriteIndices(doc, []uint32{0, 2, 1, 0, 3, 2})
	attributes := map[string]uint32{"POSITION": positions}
	if withColor {
		attributes["COLOR_0"] = modeler.WriteColor(doc, [][4]uint8{
			{255, 0, 0, 255}, {0, 255, 0, 255}, {0, 0, 255, 255}, {255, 255, 255, 255},
		})
	}
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name: "quad",
		Primitives: []*gltf.Primitive{
			{Indices: &indices, Attributes: attributes},
		},
	})
	return doc
}

func TestReadMeshes(t *testing.T) {
	meshes, err := ReadMeshes(quadDocument(true), defaultModelColor)
	if err != nil {
		t.Fatal(err)
	}
	if len(meshes) != 1 {
		t.Fatalf("meshes\nhave %d\nwant 1", len(meshes))
	}
	m := meshes[0]
	if m.Name != "quad" || len(m.Positions) != 4 || len(m.Indices) != 6 {
		t.Fatalf("mesh\nhave %s with %d positions %d indices\nwant quad with 4 and 6", m.Name, len(m.Positions), len(m.Indices))
	}
	if have, want := m.Positions[2], (mgl32.Vec4{1, 0, 1, 1}); have != want {
		t.Fatalf("position 2\nhave %v\nwant %v", have, want)
	}
	if have, want := m.Colors[1], (mgl32.Vec4{0, 1, 0, 1}); have != want {
		t.Fatalf("color 1\nhave %v\nwant %v", have, want)
	}
	want := []uint32{0, 2, 1, 0, 3, 2}
	for i := range want {
		if m.Indices[i] != want[i] {
			t.Fatalf("indices\nhave %v\nwant %v", m.Indices, want)
		}
	}
}

func TestReadMeshesDefaultColor(t *testing.T) {
	grey := mgl32.Vec4{0.5, 0.5, 0.5, 1}
	meshes, err := ReadMeshes(quadDocument(false), grey)
	if err != nil {
		t.Fatal(err)
	}
	for i, c := range meshes[0].Colors {
		if c != grey {
			t.Fatalf("color %d\nhave %v\nwant %v", i, c, grey)
		}
	}
}

func TestReadMeshesEmpty(t *testing.T) {
	if _, err := ReadMeshes(gltf.NewDocument(), defaultModelColor); !errors.Is(err, core.ErrMeshLengthMismatch) {
		t.Fatalf("empty document\nhave %v\nwant %v", err, core.ErrMeshLengthMismatch)
	}
}

func TestModelLoader(t *testing.T) {
	file := filepath.Join(t.TempDir(), "terrain.glb")
	if err := gltf.SaveBinary(quadDocument(true), file); err != nil {
		t.Fatal(err)
	}
	res, err := (&ModelLoader{}).Load(file, metadata.ResourceTypeModel, nil)
	if err != nil {
		t.Fatal(err)
	}
	meshes := res.Data.([]*metadata.MeshData)
	if len(meshes) != 1 || len(meshes[0].Indices) != 6 {
		t.Fatalf("loaded model: %d meshes", len(meshes))
	}
	if _, err := (&ModelLoader{}).Load(file, metadata.ResourceTypeModel, "red"); err == nil {
		t.Fatal("wrong params type should fail")
	}
}
