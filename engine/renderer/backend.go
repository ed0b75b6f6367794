package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/walker/engine/renderer/metadata"
)

type RendererBackend interface {
	Initialize(appName string, appWidth, appHeight uint32) error
	Shutdown() error
	Resized(width, height uint32) error
	BeginFrame(deltaTime float64) error
	EndFrame(deltaTime float64) error
	CreateGeometry(mesh *metadata.MeshData) (metadata.Geometry, error)
	DestroyGeometry(geometry metadata.Geometry)
	// Draw issues one indexed draw of geometry with the given
	// model-view-projection transform.
	Draw(geometry metadata.Geometry, transform mgl32.Mat4)
	// ReloadProgram replaces the shader program with one built from the
	// given sources. The current program stays on failure.
	ReloadProgram(vertexSource, fragmentSource string) error
}
