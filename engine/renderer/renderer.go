package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/spaghettifunk/walker/engine/core"
	"github.com/spaghettifunk/walker/engine/renderer/metadata"
	"github.com/spaghettifunk/walker/engine/scene"
)

// RenderPacket is everything needed to draw one frame.
type RenderPacket struct {
	DeltaTime      float64
	ViewProjection mgl32.Mat4
	Graph          *scene.Graph
	Root           scene.NodeID
}

type RendererSystem struct {
	backend    RendererBackend
	geometries []metadata.Geometry
	drawCount  int
}

func New(backend RendererBackend) *RendererSystem {
	return &RendererSystem{
		backend:    backend,
		geometries: []metadata.Geometry{},
	}
}

func (r *RendererSystem) Initialize(appName string, appWidth, appHeight uint32) error {
	if err := r.backend.Initialize(appName, appWidth, appHeight); err != nil {
		core.LogError("renderer backend failed to initialize: %s", err)
		return err
	}
	core.LogInfo("renderer initialized (%dx%d)", appWidth, appHeight)
	return nil
}

func (r *RendererSystem) Shutdown() error {
	for _, g := range r.geometries {
		r.backend.DestroyGeometry(g)
	}
	r.geometries = r.geometries[:0]
	return r.backend.Shutdown()
}

func (r *RendererSystem) OnResize(width, height uint32) error {
	return r.backend.Resized(width, height)
}

// CreateGeometry validates mesh and uploads it through the backend.
func (r *RendererSystem) CreateGeometry(mesh *metadata.MeshData) (metadata.Geometry, error) {
	if err := mesh.Validate(); err != nil {
		core.LogError("invalid mesh `%s`: %s", mesh.Name, err)
		return metadata.Geometry{}, err
	}
	geometry, err := r.backend.CreateGeometry(mesh)
	if err != nil {
		return metadata.Geometry{}, errors.Wrapf(err, "upload mesh `%s`", mesh.Name)
	}
	r.geometries = append(r.geometries, geometry)
	core.LogDebug("geometry `%s` created with %d indices", geometry.Name, geometry.IndexCount)
	return geometry, nil
}

func (r *RendererSystem) ReloadProgram(vertexSource, fragmentSource string) error {
	if err := r.backend.ReloadProgram(vertexSource, fragmentSource); err != nil {
		return errors.Wrap(err, "reload shader program")
	}
	core.LogInfo("shader program reloaded")
	return nil
}

// DrawFrame begins a frame, traverses the packet's graph from Root with the
// view-projection as the initial transform and ends the frame. It returns
// the number of draws issued.
func (r *RendererSystem) DrawFrame(packet *RenderPacket) (int, error) {
	if err := r.backend.BeginFrame(packet.DeltaTime); err != nil {
		core.LogError(err.Error())
		return 0, err
	}
	count := 0
	if packet.Graph != nil {
		count = packet.Graph.Traverse(packet.Root, packet.ViewProjection, scene.DrawFunc(r.backend.Draw))
	}
	if err := r.backend.EndFrame(packet.DeltaTime); err != nil {
		core.LogError("RendererEndFrame failed. Application shutting down...")
		return count, err
	}
	r.drawCount = count
	return count, nil
}

// DrawCount returns the number of draws of the last completed frame.
func (r *RendererSystem) DrawCount() int {
	return r.drawCount
}
