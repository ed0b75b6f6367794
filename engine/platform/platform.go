package platform

import (
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"
	"github.com/spaghettifunk/walker/engine/core"
)

func init() {
	// GLFW event handling must run on the main OS thread
	runtime.LockOSThread()
}

var keyMap = map[core.KeyCode]glfw.Key{
	core.KEY_ENTER:    glfw.KeyEnter,
	core.KEY_TAB:      glfw.KeyTab,
	core.KEY_ESCAPE:   glfw.KeyEscape,
	core.KEY_SPACE:    glfw.KeySpace,
	core.KEY_LEFT:     glfw.KeyLeft,
	core.KEY_UP:       glfw.KeyUp,
	core.KEY_RIGHT:    glfw.KeyRight,
	core.KEY_DOWN:     glfw.KeyDown,
	core.KEY_LSHIFT:   glfw.KeyLeftShift,
	core.KEY_RSHIFT:   glfw.KeyRightShift,
	core.KEY_LCONTROL: glfw.KeyLeftControl,
	core.KEY_RCONTROL: glfw.KeyRightControl,
}

func init() {
	// Letters share their ASCII code on both sides.
	for k := core.KEY_A; k <= core.KEY_Z; k++ {
		keyMap[k] = glfw.Key(k)
	}
}

type Platform struct {
	Window    *glfw.Window
	onResize  func(width, height uint32)
	startTime float64
}

func New() (*Platform, error) {
	return &Platform{
		Window: nil,
	}, nil
}

// OnResize registers the function called when the framebuffer size changes.
func (p *Platform) OnResize(fn func(width, height uint32)) {
	p.onResize = fn
}

// Startup opens a window with an OpenGL 4.3 core context and makes the
// context current on the calling thread.
func (p *Platform) Startup(applicationName string, x uint32, y uint32, width uint32, height uint32, vsync bool) error {
	if err := glfw.Init(); err != nil {
		core.LogFatal("failed to initialize glfw: %s", err)
		return err
	}

	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Samples, 4)

	window, err := glfw.CreateWindow(int(width), int(height), applicationName, nil, nil)
	if err != nil {
		core.LogFatal("failed to create window: %s", err)
		glfw.Terminate()
		return errors.Wrap(err, "create window")
	}
	window.MakeContextCurrent()
	if vsync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
	p.Window = window

	p.Window.SetFramebufferSizeCallback(p.framebufferSizeCallback)
	p.Window.SetPos(int(x), int(y))
	p.Window.Show()

	p.startTime = glfw.GetTime()

	return nil
}

func (p *Platform) Shutdown() error {
	if p.Window != nil {
		p.Window.Destroy()
		p.Window = nil
	}
	glfw.Terminate()
	return nil
}

// IsKeyPressed polls the current state of key.
func (p *Platform) IsKeyPressed(key core.KeyCode) bool {
	k, ok := keyMap[key]
	if !ok || p.Window == nil {
		return false
	}
	return p.Window.GetKey(k) == glfw.Press
}

func (p *Platform) ShouldClose() bool {
	return p.Window == nil || p.Window.ShouldClose()
}

func (p *Platform) SetShouldClose(value bool) {
	if p.Window != nil {
		p.Window.SetShouldClose(value)
	}
}

func (p *Platform) SwapBuffers() {
	p.Window.SwapBuffers()
}

func (p *Platform) PollEvents() {
	glfw.PollEvents()
}

// SUSPENDED_WAIT_SECONDS bounds WaitEvents so the frame loop still sees
// cancellation while the window is minimized.
const SUSPENDED_WAIT_SECONDS float64 = 0.1

func (p *Platform) WaitEvents() {
	glfw.WaitEventsTimeout(SUSPENDED_WAIT_SECONDS)
}

// GetAbsoluteTime returns the seconds elapsed since Startup.
func (p *Platform) GetAbsoluteTime() float64 {
	return glfw.GetTime() - p.startTime
}

func (p *Platform) FramebufferSize() (uint32, uint32) {
	w, h := p.Window.GetFramebufferSize()
	return uint32(w), uint32(h)
}

func (p *Platform) framebufferSizeCallback(w *glfw.Window, width, height int) {
	if p.onResize != nil {
		p.onResize(uint32(width), uint32(height))
	}
}
