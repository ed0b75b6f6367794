package engine

import (
	"github.com/spaghettifunk/walker/engine/assets"
	"github.com/spaghettifunk/walker/engine/core"
	"github.com/spaghettifunk/walker/engine/renderer"
	"github.com/spaghettifunk/walker/engine/systems"
)

// Game is filled by the application. The engine sets the subsystem fields
// before calling FnInitialize.
type Game struct {
	ApplicationConfig *ApplicationConfig
	Renderer          *renderer.RendererSystem
	Geometry          *systems.GeometrySystem
	Assets            *assets.AssetManager
	Input             *core.Input
	Events            *core.EventBus
	State             interface{}
	FnInitialize      Initialize
	FnUpdate          Update
	FnRender          Render
	FnOnResize        OnResize
	FnShutdown        Shutdown
}

type Initialize func() error
type Update func(deltaTime float64) error
type Render func(packet *renderer.RenderPacket, deltaTime float64) error
type OnResize func(width uint32, height uint32) error
type Shutdown func() error
