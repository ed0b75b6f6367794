package testbed

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/spaghettifunk/walker/engine"
	"github.com/spaghettifunk/walker/engine/animation"
	"github.com/spaghettifunk/walker/engine/assets"
	"github.com/spaghettifunk/walker/engine/core"
	"github.com/spaghettifunk/walker/engine/path"
	"github.com/spaghettifunk/walker/engine/renderer"
	"github.com/spaghettifunk/walker/engine/renderer/components"
	"github.com/spaghettifunk/walker/engine/renderer/metadata"
	"github.com/spaghettifunk/walker/engine/scene"
	"github.com/spaghettifunk/walker/engine/systems"
)

// Rig part names the driver animates.
const (
	partTorso    = "torso"
	partLeftArm  = "left_arm"
	partRightArm = "right_arm"
	partLeftLeg  = "left_leg"
	partRightLeg = "right_leg"
)

type WalkerGame struct {
	*engine.Game
}

type gameState struct {
	graph   *scene.Graph
	root    scene.NodeID
	terrain scene.NodeID
	walker  map[string]scene.NodeID

	path   *path.Path
	driver *animation.Driver

	camera     components.CameraState
	controller *components.CameraController
	projection components.Projection

	width  uint32
	height uint32
}

func NewWalkerGame(config *engine.ApplicationConfig) *WalkerGame {
	wg := &WalkerGame{
		Game: &engine.Game{
			ApplicationConfig: config,
			State:             &gameState{},
		},
	}

	wg.FnInitialize = wg.Initialize
	wg.FnUpdate = wg.Update
	wg.FnRender = wg.Render
	wg.FnOnResize = wg.OnResize
	wg.FnShutdown = wg.Shutdown

	return wg
}

func (g *WalkerGame) state() *gameState {
	return g.State.(*gameState)
}

func (g *WalkerGame) Initialize() error {
	core.LogDebug("WalkerGame Initialize fn....")

	if g.Renderer == nil || g.Assets == nil || g.Geometry == nil {
		return errors.New("the engine is not yet initialized with all the systems")
	}

	state := g.state()
	config := g.ApplicationConfig

	state.graph = scene.NewGraph()
	state.root = state.graph.CreateNode("root")

	terrain, err := g.buildTerrain(state)
	if err != nil {
		return err
	}
	state.terrain = terrain

	rig, err := g.loadRig()
	if err != nil {
		return err
	}
	state.walker, err = systems.BuildRig(state.graph, state.root, rig, g.Geometry)
	if err != nil {
		return err
	}
	animated, err := animationRig(state.walker)
	if err != nil {
		return err
	}

	state.path, err = g.loadPath()
	if err != nil {
		return err
	}
	start := state.path.CurrentWaypoint(config.Path.Scale)
	torso := state.graph.Node(animated.Torso)
	torso.Position = mgl32.Vec3{start.X(), torso.Position.Y(), start.Y()}

	state.driver = animation.NewDriver(config.GaitSettings(), animated)
	state.camera = config.CameraState()
	state.controller = config.CameraController()

	g.Events.Register(core.EVENT_CODE_ASSET_CHANGED, g.onAssetChanged)

	core.LogInfo("walker ready: %d nodes, %d waypoints", state.graph.Len(), state.path.Len())
	return nil
}

func (g *WalkerGame) Update(deltaTime float64) error {
	state := g.state()

	state.driver.Update(state.graph, state.path, deltaTime)
	state.camera = state.controller.Update(state.camera, g.Input)

	if g.Input.Released(core.KEY_P) {
		core.LogInfo("camera %s", state.camera)
		core.LogInfo("scene graph\n%s", state.graph.Dump(state.root))
	}
	return nil
}

func (g *WalkerGame) Render(packet *renderer.RenderPacket, deltaTime float64) error {
	state := g.state()

	packet.DeltaTime = deltaTime
	packet.Graph = state.graph
	packet.Root = state.root
	packet.ViewProjection = components.ViewProjection(state.camera, state.projection)
	return nil
}

func (g *WalkerGame) OnResize(width uint32, height uint32) error {
	state := g.state()

	state.width = width
	state.height = height
	state.projection = g.ApplicationConfig.Projection(width, height)
	return nil
}

func (g *WalkerGame) Shutdown() error {
	core.LogDebug("WalkerGame Shutdown fn....")
	return nil
}

// buildTerrain loads the configured terrain model or falls back to the
// chequered grid.
func (g *WalkerGame) buildTerrain(state *gameState) (scene.NodeID, error) {
	config := g.ApplicationConfig
	terrain := state.graph.CreateNode("terrain")
	if err := state.graph.AddChild(state.root, terrain); err != nil {
		return scene.Nil, err
	}

	meshes, err := g.loadTerrainModel()
	if err != nil {
		core.LogWarn("terrain model unavailable, using grid: %s", err)
	}
	if len(meshes) == 0 {
		grid := systems.GenerateGridConfig(config.Render.GridColumns, config.Render.GridRows, config.Render.TileSize, config.GridColors(), "terrain_grid")
		meshes = []*metadata.MeshData{grid}
	}

	for i, mesh := range meshes {
		geometry, err := g.Geometry.CreateGeometry(mesh)
		if err != nil {
			return scene.Nil, err
		}
		// A node carries one geometry, so extra meshes get children.
		id := terrain
		if i > 0 {
			id = state.graph.CreateNode(mesh.Name)
			if err := state.graph.AddChild(terrain, id); err != nil {
				return scene.Nil, err
			}
		}
		if err := state.graph.SetGeometry(id, geometry); err != nil {
			return scene.Nil, err
		}
	}
	return terrain, nil
}

func (g *WalkerGame) loadTerrainModel() ([]*metadata.MeshData, error) {
	name := g.ApplicationConfig.Render.TerrainModel
	if name == "" {
		return nil, nil
	}
	resource, err := g.Assets.LoadAsset(name, nil)
	if err != nil {
		return nil, err
	}
	defer g.Assets.UnloadAsset(resource)
	meshes, ok := resource.Data.([]*metadata.MeshData)
	if !ok {
		return nil, errors.Errorf("asset `%s` is not a model", name)
	}
	return meshes, nil
}

func (g *WalkerGame) loadRig() (*metadata.RigConfig, error) {
	name := g.ApplicationConfig.Assets.Rig
	resource, err := g.Assets.LoadAsset(name, nil)
	if err != nil {
		return nil, err
	}
	rig, ok := resource.Data.(*metadata.RigConfig)
	if !ok {
		return nil, errors.Errorf("asset `%s` is not a rig", name)
	}
	return rig, nil
}

func (g *WalkerGame) loadPath() (*path.Path, error) {
	opts, err := g.ApplicationConfig.PathOptions()
	if err != nil {
		return nil, err
	}
	name := g.ApplicationConfig.Path.File
	resource, err := g.Assets.LoadAsset(name, opts)
	if err != nil {
		return nil, err
	}
	p, ok := resource.Data.(*path.Path)
	if !ok {
		return nil, errors.Errorf("asset `%s` is not a path", name)
	}
	return p, nil
}

// onAssetChanged swaps in the edited path file. A broken file keeps the
// current path.
func (g *WalkerGame) onAssetChanged(context core.EventContext) bool {
	asset, ok := context.Data.(assets.AssetInfo)
	if !ok || asset.Name != g.ApplicationConfig.Path.File {
		return false
	}
	p, err := g.loadPath()
	if err != nil {
		core.LogError("path reload failed: %s", err)
		return false
	}
	g.state().path = p
	core.LogInfo("path `%s` reloaded with %d waypoints", asset.Name, p.Len())
	return false
}

func animationRig(nodes map[string]scene.NodeID) (animation.Rig, error) {
	lookup := func(name string) (scene.NodeID, error) {
		id, ok := nodes[name]
		if !ok {
			return scene.Nil, errors.Wrapf(core.ErrInvalidNode, "rig has no `%s` part", name)
		}
		return id, nil
	}

	var rig animation.Rig
	var err error
	for _, part := range []struct {
		name string
		dst  *scene.NodeID
	}{
		{partTorso, &rig.Torso},
		{partLeftArm, &rig.LeftArm},
		{partRightArm, &rig.RightArm},
		{partLeftLeg, &rig.LeftLeg},
		{partRightLeg, &rig.RightLeg},
	} {
		if *part.dst, err = lookup(part.name); err != nil {
			return animation.Rig{}, err
		}
	}
	return rig, nil
}
