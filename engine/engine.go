package engine

import (
	"context"

	"github.com/pkg/errors"
	"github.com/spaghettifunk/walker/engine/assets"
	"github.com/spaghettifunk/walker/engine/core"
	"github.com/spaghettifunk/walker/engine/renderer"
	"github.com/spaghettifunk/walker/engine/renderer/metadata"
	"github.com/spaghettifunk/walker/engine/systems"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
	// Engine released every subsystem
	EngineStageShutdown
)

// METRICS_INTERVAL is the number of seconds between two frame metrics logs.
const METRICS_INTERVAL float64 = 5.0

// Window is the platform surface the engine runs on.
type Window interface {
	core.KeySource
	Startup(applicationName string, x, y, width, height uint32, vsync bool) error
	Shutdown() error
	ShouldClose() bool
	SetShouldClose(value bool)
	SwapBuffers()
	PollEvents()
	// WaitEvents blocks until an event arrives or a short timeout passes.
	WaitEvents()
	GetAbsoluteTime() float64
	FramebufferSize() (uint32, uint32)
	OnResize(fn func(width, height uint32))
}

type Engine struct {
	currentStage Stage
	gameInstance *Game
	config       *ApplicationConfig
	isRunning    bool
	isSuspended  bool
	window       Window
	events       *core.EventBus
	input        *core.Input
	renderer     *renderer.RendererSystem
	geometry     *systems.GeometrySystem
	assetManager *assets.AssetManager
	metrics      *core.FrameMetrics
	width        uint32
	height       uint32
	clock        *core.Clock
	lastTime     float64
}

func New(g *Game, window Window, backend renderer.RendererBackend) (*Engine, error) {
	if g.ApplicationConfig == nil {
		g.ApplicationConfig = DefaultApplicationConfig()
	}

	am, err := assets.NewAssetManager()
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	events := core.NewEventBus()
	rs := renderer.New(backend)

	return &Engine{
		currentStage: EngineStageUninitialized,
		gameInstance: g,
		config:       g.ApplicationConfig,
		window:       window,
		events:       events,
		input:        core.NewInput(events),
		renderer:     rs,
		geometry:     systems.NewGeometrySystem(rs),
		assetManager: am,
		metrics:      core.NewFrameMetrics(),
		clock:        core.NewClock(),
		isRunning:    true,
		isSuspended:  false,
		width:        g.ApplicationConfig.Window.StartWidth,
		height:       g.ApplicationConfig.Window.StartHeight,
	}, nil
}

func (e *Engine) Stage() Stage {
	return e.currentStage
}

func (e *Engine) Initialize() error {
	e.currentStage = EngineStageInitializing

	// register some events
	e.events.Register(core.EVENT_CODE_APPLICATION_QUIT, e.onEvent)
	e.events.Register(core.EVENT_CODE_KEY_PRESSED, e.onKey)
	e.events.Register(core.EVENT_CODE_KEY_RELEASED, e.onKey)
	e.events.Register(core.EVENT_CODE_RESIZED, e.onResized)

	e.window.OnResize(func(width, height uint32) {
		e.events.Fire(core.EventContext{
			Type: core.EVENT_CODE_RESIZED,
			Data: &core.SystemEvent{WindowWidth: width, WindowHeight: height},
		})
	})

	wc := e.config.Window
	if err := e.window.Startup(wc.Name, wc.StartPosX, wc.StartPosY, wc.StartWidth, wc.StartHeight, wc.VSync); err != nil {
		return err
	}
	if w, h := e.window.FramebufferSize(); w > 0 && h > 0 {
		e.width, e.height = w, h
	}

	if err := e.renderer.Initialize(wc.Name, e.width, e.height); err != nil {
		return err
	}

	if err := e.assetManager.Initialize(e.config.Assets.Dir); err != nil {
		return err
	}

	if e.config.Assets.VertexShader != "" && e.config.Assets.FragmentShader != "" {
		if err := e.reloadShaders(); err != nil {
			return err
		}
	}

	e.gameInstance.Renderer = e.renderer
	e.gameInstance.Geometry = e.geometry
	e.gameInstance.Assets = e.assetManager
	e.gameInstance.Input = e.input
	e.gameInstance.Events = e.events

	if e.gameInstance.FnInitialize != nil {
		if err := e.gameInstance.FnInitialize(); err != nil {
			return err
		}
	}
	if e.gameInstance.FnOnResize != nil {
		if err := e.gameInstance.FnOnResize(e.width, e.height); err != nil {
			return err
		}
	}

	e.currentStage = EngineStageInitialized
	return nil
}

// Run drives the frame loop until the window closes, the application quit
// event fires or ctx is cancelled.
func (e *Engine) Run(ctx context.Context) error {
	if e.currentStage != EngineStageInitialized {
		return errors.Errorf("engine cannot run from stage %d", e.currentStage)
	}
	e.currentStage = EngineStageRunning

	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()

	var runningTime float64 = 0.0

	for e.isRunning {
		select {
		case <-ctx.Done():
			core.LogInfo("context cancelled, shutting down.")
			e.isRunning = false
			continue
		default:
		}
		if e.window.ShouldClose() {
			e.isRunning = false
			continue
		}

		if e.isSuspended {
			e.window.WaitEvents()
			continue
		}

		// Update clock and get delta time.
		e.clock.Update()
		var currentTime float64 = e.clock.Elapsed()
		var delta float64 = (currentTime - e.lastTime)
		var frameStartTime float64 = e.window.GetAbsoluteTime()

		e.input.Poll(e.window)
		if !e.isRunning {
			break
		}

		if e.gameInstance.FnUpdate != nil {
			if err := e.gameInstance.FnUpdate(delta); err != nil {
				core.LogError("Game update failed, shutting down.")
				return err
			}
		}

		packet := &renderer.RenderPacket{DeltaTime: delta}
		if e.gameInstance.FnRender != nil {
			if err := e.gameInstance.FnRender(packet, delta); err != nil {
				core.LogError("Game render failed, shutting down.")
				return err
			}
		}

		// Draw frame
		if _, err := e.renderer.DrawFrame(packet); err != nil {
			return err
		}
		e.window.SwapBuffers()
		e.window.PollEvents()

		// Figure out how long the frame took.
		var frameElapsedTime float64 = e.window.GetAbsoluteTime() - frameStartTime
		e.metrics.Update(frameElapsedTime)
		runningTime += frameElapsedTime
		if runningTime >= METRICS_INTERVAL {
			fps, ms := e.metrics.Frame()
			core.LogDebug("frame metrics: %.1f fps, %.3f ms, %d draws", fps, ms, e.renderer.DrawCount())
			runningTime = 0
		}

		e.drainAssetChanges()

		// Update last time
		e.lastTime = currentTime
	}

	return nil
}

func (e *Engine) Shutdown() error {
	if e.currentStage == EngineStageShutdown {
		return nil
	}
	e.currentStage = EngineStageShuttingDown

	if e.gameInstance.FnShutdown != nil {
		if err := e.gameInstance.FnShutdown(); err != nil {
			core.LogError(err.Error())
		}
	}
	e.events.Shutdown()
	e.assetManager.Shutdown()
	if err := e.renderer.Shutdown(); err != nil {
		return err
	}
	if err := e.window.Shutdown(); err != nil {
		return err
	}
	e.currentStage = EngineStageShutdown
	return nil
}

// GetFramebufferSize returns the width and height (in this order)
// of the application Framebuffer
func (e *Engine) GetFramebufferSize() (uint32, uint32) {
	return e.width, e.height
}

// drainAssetChanges handles every pending asset change without blocking.
func (e *Engine) drainAssetChanges() {
	for {
		select {
		case asset, ok := <-e.assetManager.Changes():
			if !ok {
				return
			}
			e.onAssetChanged(asset)
		default:
			return
		}
	}
}

func (e *Engine) onAssetChanged(asset assets.AssetInfo) {
	core.LogDebug("asset `%s` (%s) changed", asset.Name, asset.Type)
	if asset.Type == metadata.ResourceTypeShader && e.config.Assets.HotReload && e.isActiveShader(asset.Name) {
		if err := e.reloadShaders(); err != nil {
			// The previous program stays bound.
			core.LogError(err.Error())
		}
	}
	e.events.Fire(core.EventContext{
		Type: core.EVENT_CODE_ASSET_CHANGED,
		Data: asset,
	})
}

func (e *Engine) isActiveShader(name string) bool {
	return name == e.config.Assets.VertexShader || name == e.config.Assets.FragmentShader
}

func (e *Engine) reloadShaders() error {
	vs, err := e.loadShaderSource(e.config.Assets.VertexShader)
	if err != nil {
		return err
	}
	fs, err := e.loadShaderSource(e.config.Assets.FragmentShader)
	if err != nil {
		return err
	}
	return e.renderer.ReloadProgram(vs, fs)
}

func (e *Engine) loadShaderSource(name string) (string, error) {
	resource, err := e.assetManager.LoadAsset(name, nil)
	if err != nil {
		return "", err
	}
	defer e.assetManager.UnloadAsset(resource)
	source, ok := resource.Data.(string)
	if !ok {
		return "", errors.Errorf("asset `%s` is not a shader source", name)
	}
	return source, nil
}

func (e *Engine) onEvent(context core.EventContext) bool {
	switch context.Type {
	case core.EVENT_CODE_APPLICATION_QUIT:
		{
			core.LogInfo("EVENT_CODE_APPLICATION_QUIT recieved, shutting down.")
			e.isRunning = false
			e.window.SetShouldClose(true)
			return true
		}
	}
	return false
}

func (e *Engine) onKey(context core.EventContext) bool {
	ke, ok := context.Data.(*core.KeyEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return false
	}

	if context.Type == core.EVENT_CODE_KEY_PRESSED && ke.KeyCode == core.KEY_ESCAPE {
		// NOTE: Technically firing an event to itself, but there may be other listeners.
		e.events.Fire(core.EventContext{
			Type: core.EVENT_CODE_APPLICATION_QUIT,
		})
		// Block anything else from processing this.
		return true
	}
	return false
}

func (e *Engine) onResized(context core.EventContext) bool {
	se, ok := context.Data.(*core.SystemEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return false
	}

	width := se.WindowWidth
	height := se.WindowHeight

	// Check if different. If so, trigger a resize event.
	if width == e.width && height == e.height {
		return false
	}
	e.width = width
	e.height = height

	core.LogDebug("Window resize: %d, %d", width, height)

	// Handle minimization
	if width == 0 || height == 0 {
		core.LogInfo("Window minimized, suspending application.")
		e.isSuspended = true
		return true
	}
	if e.isSuspended {
		core.LogInfo("Window restored, resuming application.")
		e.isSuspended = false
		// The suspended time is not simulated.
		e.clock.Update()
		e.lastTime = e.clock.Elapsed()
	}

	if e.gameInstance.FnOnResize != nil {
		if err := e.gameInstance.FnOnResize(width, height); err != nil {
			core.LogError(err.Error())
		}
	}
	if err := e.renderer.OnResize(width, height); err != nil {
		core.LogError(err.Error())
	}
	return false
}
