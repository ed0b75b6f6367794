package testbed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/walker/engine"
	"github.com/spaghettifunk/walker/engine/assets"
	"github.com/spaghettifunk/walker/engine/core"
	"github.com/spaghettifunk/walker/engine/renderer"
	"github.com/spaghettifunk/walker/engine/renderer/metadata"
	"github.com/spaghettifunk/walker/engine/systems"
)

type nullBackend struct {
	nextID uint32
	draws  int
}

func (b *nullBackend) Initialize(appName string, w, h uint32) error { return nil }
func (b *nullBackend) Shutdown() error                               { return nil }
func (b *nullBackend) Resized(w, h uint32) error                     { return nil }
func (b *nullBackend) BeginFrame(deltaTime float64) error            { return nil }
func (b *nullBackend) EndFrame(deltaTime float64) error              { return nil }
func (b *nullBackend) CreateGeometry(mesh *metadata.MeshData) (metadata.Geometry, error) {
	b.nextID++
	return metadata.Geometry{ID: b.nextID, IndexCount: uint32(len(mesh.Indices)), Name: mesh.Name}, nil
}
func (b *nullBackend) DestroyGeometry(g metadata.Geometry)            {}
func (b *nullBackend) Draw(g metadata.Geometry, transform mgl32.Mat4) { b.draws++ }
func (b *nullBackend) ReloadProgram(vs, fs string) error              { return nil }

// copyAssets copies the shipped rig and path into a scratch directory.
func copyAssets(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for _, name := range []string{"rigs/walker.yaml", "paths/coordinates_0.txt"} {
		data, err := os.ReadFile(filepath.Join("..", "assets", filepath.FromSlash(name)))
		if err != nil {
			t.Fatal(err)
		}
		file := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(file, data, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func newGame(t *testing.T) (*WalkerGame, *nullBackend, string) {
	t.Helper()
	root := copyAssets(t)

	am, err := assets.NewAssetManager()
	if err != nil {
		t.Fatal(err)
	}
	if err := am.Initialize(root); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(am.Shutdown)

	backend := &nullBackend{}
	rs := renderer.New(backend)
	events := core.NewEventBus()

	g := NewWalkerGame(engine.DefaultApplicationConfig())
	g.Renderer = rs
	g.Geometry = systems.NewGeometrySystem(rs)
	g.Assets = am
	g.Input = core.NewInput(events)
	g.Events = events

	if err := g.Initialize(); err != nil {
		t.Fatal(err)
	}
	if err := g.OnResize(1280, 720); err != nil {
		t.Fatal(err)
	}
	return g, backend, root
}

func TestInitializeBuildsScene(t *testing.T) {
	g, _, _ := newGame(t)
	state := g.state()

	// root, terrain and six rig parts
	if have := state.graph.Len(); have != 8 {
		t.Fatalf("nodes\nhave %d\nwant 8\n%s", have, state.graph.Outline(state.root))
	}
	torso := state.graph.Node(state.walker[partTorso])
	if have, want := torso.Position, (mgl32.Vec3{0, 9, 0}); have != want {
		t.Fatalf("torso start\nhave %v\nwant %v", have, want)
	}
	if state.path.Len() != 8 {
		t.Fatalf("waypoints\nhave %d\nwant 8", state.path.Len())
	}
}

func TestFrameMovesWalker(t *testing.T) {
	g, backend, _ := newGame(t)
	state := g.state()

	for i := 0; i < 10; i++ {
		if err := g.Update(0.1); err != nil {
			t.Fatal(err)
		}
	}
	torso := state.graph.Node(state.walker[partTorso])
	// The first frame starts on waypoint 0 and only advances the cursor,
	// the other nine walk towards (20, 0) at four units per second.
	if !mgl32.FloatEqualThreshold(torso.Position.X(), 3.6, 1e-3) || torso.Position.Z() != 0 {
		t.Fatalf("torso\nhave %v\nwant (3.6, 9, 0)", torso.Position)
	}
	if state.graph.Node(state.walker[partLeftArm]).Rotation.X() == 0 {
		t.Fatal("arms did not swing")
	}

	packet := &renderer.RenderPacket{}
	if err := g.Render(packet, 0.1); err != nil {
		t.Fatal(err)
	}
	count, err := g.Renderer.DrawFrame(packet)
	if err != nil {
		t.Fatal(err)
	}
	// terrain plus six boxes
	if count != 7 || backend.draws != 7 {
		t.Fatalf("draws\nhave %d (%d)\nwant 7", count, backend.draws)
	}
}

func TestCameraInput(t *testing.T) {
	g, _, _ := newGame(t)
	before := g.state().camera

	g.Input.ProcessKey(core.KEY_W, true)
	if err := g.Update(0.016); err != nil {
		t.Fatal(err)
	}
	after := g.state().camera
	if after.Position == before.Position {
		t.Fatalf("camera did not move\nhave %v", after)
	}
}

func TestPathReload(t *testing.T) {
	g, _, root := newGame(t)

	file := filepath.Join(root, "paths", "coordinates_0.txt")
	if err := os.WriteFile(file, []byte("0 0\n5 5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	g.Events.Fire(core.EventContext{
		Type: core.EVENT_CODE_ASSET_CHANGED,
		Data: assets.AssetInfo{Name: "paths/coordinates_0.txt", Type: metadata.ResourceTypePath},
	})
	if have := g.state().path.Len(); have != 2 {
		t.Fatalf("reloaded waypoints\nhave %d\nwant 2", have)
	}

	// A malformed file keeps the current path.
	if err := os.WriteFile(file, []byte("0 0 5"), 0o644); err != nil {
		t.Fatal(err)
	}
	g.Events.Fire(core.EventContext{
		Type: core.EVENT_CODE_ASSET_CHANGED,
		Data: assets.AssetInfo{Name: "paths/coordinates_0.txt", Type: metadata.ResourceTypePath},
	})
	if have := g.state().path.Len(); have != 2 {
		t.Fatalf("waypoints after bad edit\nhave %d\nwant 2", have)
	}
}
