package assets

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/spaghettifunk/walker/engine/core"
	"github.com/spaghettifunk/walker/engine/path"
	"github.com/spaghettifunk/walker/engine/renderer/metadata"
)

func writeAsset(t *testing.T, root, name, content string) string {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func newManager(t *testing.T, root string) *AssetManager {
	t.Helper()
	am, err := NewAssetManager()
	if err != nil {
		t.Fatal(err)
	}
	if err := am.Initialize(root); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(am.Shutdown)
	return am
}

func TestDetermineAssetType(t *testing.T) {
	for _, tc := range []struct {
		path string
		want metadata.ResourceType
	}{
		{"paths/coordinates_0.txt", metadata.ResourceTypePath},
		{"paths/loop.path", metadata.ResourceTypePath},
		{"rigs/walker.yaml", metadata.ResourceTypeRig},
		{"rigs/walker.YML", metadata.ResourceTypeRig},
		{"models/terrain.glb", metadata.ResourceTypeModel},
		{"models/terrain.gltf", metadata.ResourceTypeModel},
		{"shaders/simple.vert", metadata.ResourceTypeShader},
		{"shaders/simple.frag", metadata.ResourceTypeShader},
		{"config.toml", metadata.ResourceTypeConfig},
		{"readme.md", metadata.ResourceTypeNone},
		{"noext", metadata.ResourceTypeNone},
	} {
		if have := determineAssetType(tc.path); have != tc.want {
			t.Errorf("determineAssetType(%q)\nhave %v\nwant %v", tc.path, have, tc.want)
		}
	}
}

func TestIndexAndLoad(t *testing.T) {
	root := t.TempDir()
	writeAsset(t, root, "paths/coordinates_0.txt", "0 0\n4 0\n")
	writeAsset(t, root, "shaders/simple.vert", "void main() {}")
	writeAsset(t, root, "notes.md", "ignored")

	am := newManager(t, root)
	if am.Len() != 2 {
		t.Fatalf("indexed assets\nhave %d\nwant 2", am.Len())
	}
	asset, ok := am.Find("paths/coordinates_0.txt")
	if !ok || asset.Type != metadata.ResourceTypePath {
		t.Fatalf("Find\nhave %+v, %v\nwant path asset", asset, ok)
	}

	res, err := am.LoadAsset("paths/coordinates_0.txt", nil)
	if err != nil {
		t.Fatal(err)
	}
	if p := res.Data.(*path.Path); p.Len() != 2 {
		t.Fatalf("path length\nhave %d\nwant 2", p.Len())
	}
	if loaded, _ := am.Find("paths/coordinates_0.txt"); loaded.LastLoaded.IsZero() {
		t.Fatal("LastLoaded not updated")
	}

	if shaders := am.List(metadata.ResourceTypeShader); len(shaders) != 1 || shaders[0].Name != "shaders/simple.vert" {
		t.Fatalf("List(shader)\nhave %+v", shaders)
	}
}

func TestLoadAssetErrors(t *testing.T) {
	root := t.TempDir()
	writeAsset(t, root, "config.toml", "")
	am := newManager(t, root)

	if _, err := am.LoadAsset("missing.txt", nil); !errors.Is(err, core.ErrAssetNotFound) {
		t.Fatalf("missing asset\nhave %v\nwant %v", err, core.ErrAssetNotFound)
	}
	if _, err := am.LoadAsset("config.toml", nil); !errors.Is(err, core.ErrUnknownResource) {
		t.Fatalf("config asset\nhave %v\nwant %v", err, core.ErrUnknownResource)
	}
}

func TestChanges(t *testing.T) {
	root := t.TempDir()
	file := writeAsset(t, root, "shaders/simple.frag", "void main() {}")
	am := newManager(t, root)

	if err := os.WriteFile(file, []byte("void main() { }"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case asset := <-am.Changes():
		if asset.Name != "shaders/simple.frag" || asset.Type != metadata.ResourceTypeShader {
			t.Fatalf("change\nhave %+v\nwant shaders/simple.frag", asset)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change delivered")
	}
}

func TestShutdownClosesChanges(t *testing.T) {
	am, err := NewAssetManager()
	if err != nil {
		t.Fatal(err)
	}
	if err := am.Initialize(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	am.Shutdown()
	am.Shutdown()
	if _, ok := <-am.Changes(); ok {
		t.Fatal("Changes should be closed after Shutdown")
	}
}
