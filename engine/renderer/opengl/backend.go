// Package opengl is the OpenGL 4.3 core renderer backend. Every call must be
// made from the thread owning the current context.
package opengl

import (
	"github.com/go-gl/gl/v4.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/spaghettifunk/walker/engine/core"
	"github.com/spaghettifunk/walker/engine/renderer/metadata"
)

// DefaultClearColor is the background colour used unless WithClearColor
// overrides it.
var DefaultClearColor = mgl32.Vec4{0.39, 0.58, 0.92, 1.0}

type OpenGLRenderer struct {
	program      *Program
	meshes       map[uint32]*glMesh
	vertexSource string
	fragSource   string
	clearColor   mgl32.Vec4
	cullMode     metadata.FaceCullMode
	width        int32
	height       int32
}

type Option func(*OpenGLRenderer)

// WithShaders overrides the embedded shader sources used by Initialize.
func WithShaders(vertexSource, fragmentSource string) Option {
	return func(r *OpenGLRenderer) {
		r.vertexSource = vertexSource
		r.fragSource = fragmentSource
	}
}

// WithClearColor sets the background colour.
func WithClearColor(color mgl32.Vec4) Option {
	return func(r *OpenGLRenderer) {
		r.clearColor = color
	}
}

// WithCullMode selects the faces discarded before rasterization.
func WithCullMode(mode metadata.FaceCullMode) Option {
	return func(r *OpenGLRenderer) {
		r.cullMode = mode
	}
}

func New(opts ...Option) *OpenGLRenderer {
	r := &OpenGLRenderer{
		meshes:       make(map[uint32]*glMesh),
		vertexSource: DefaultVertexShader,
		fragSource:   DefaultFragmentShader,
		clearColor:   DefaultClearColor,
		cullMode:     metadata.FaceCullModeBack,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *OpenGLRenderer) Initialize(appName string, appWidth, appHeight uint32) error {
	if err := gl.Init(); err != nil {
		return errors.Wrap(err, "initialize OpenGL bindings")
	}
	core.LogInfo("%s running on %s (%s)", appName, gl.GoStr(gl.GetString(gl.RENDERER)), gl.GoStr(gl.GetString(gl.VERSION)))

	// Closest fragment wins.
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)

	applyCullMode(r.cullMode)

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	gl.ClearColor(r.clearColor[0], r.clearColor[1], r.clearColor[2], r.clearColor[3])

	program, err := LoadProgram(r.vertexSource, r.fragSource)
	if err != nil {
		return err
	}
	r.program = program
	r.program.Use()

	return r.Resized(appWidth, appHeight)
}

func (r *OpenGLRenderer) Shutdown() error {
	for id, m := range r.meshes {
		m.delete()
		delete(r.meshes, id)
	}
	if r.program != nil {
		r.program.Delete()
		r.program = nil
	}
	return nil
}

func (r *OpenGLRenderer) Resized(width, height uint32) error {
	r.width, r.height = int32(width), int32(height)
	gl.Viewport(0, 0, r.width, r.height)
	return nil
}

func (r *OpenGLRenderer) BeginFrame(deltaTime float64) error {
	if r.program == nil {
		return errors.New("no shader program bound")
	}
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	r.program.Use()
	return nil
}

func (r *OpenGLRenderer) EndFrame(deltaTime float64) error {
	gl.BindVertexArray(0)
	if code := gl.GetError(); code != gl.NO_ERROR {
		return errors.Errorf("OpenGL error 0x%x", code)
	}
	return nil
}

func (r *OpenGLRenderer) CreateGeometry(mesh *metadata.MeshData) (metadata.Geometry, error) {
	m := uploadMesh(mesh)
	if m.vao == 0 {
		return metadata.Geometry{}, errors.Errorf("failed to create vertex array for `%s`", mesh.Name)
	}
	r.meshes[m.vao] = m
	return metadata.Geometry{
		ID:         m.vao,
		IndexCount: uint32(m.indexCount),
		Name:       metadata.GeometryName(mesh.Name),
	}, nil
}

func (r *OpenGLRenderer) DestroyGeometry(geometry metadata.Geometry) {
	if m, ok := r.meshes[geometry.ID]; ok {
		m.delete()
		delete(r.meshes, geometry.ID)
	}
}

func (r *OpenGLRenderer) Draw(geometry metadata.Geometry, transform mgl32.Mat4) {
	m, ok := r.meshes[geometry.ID]
	if !ok {
		core.LogWarn("draw of unknown geometry `%s` (%d) skipped", geometry.Name, geometry.ID)
		return
	}
	r.program.SetTransform(transform)
	m.draw()
}

func (r *OpenGLRenderer) ReloadProgram(vertexSource, fragmentSource string) error {
	program, err := LoadProgram(vertexSource, fragmentSource)
	if err != nil {
		return err
	}
	if r.program != nil {
		r.program.Delete()
	}
	r.program = program
	r.vertexSource, r.fragSource = vertexSource, fragmentSource
	r.program.Use()
	return nil
}

func applyCullMode(mode metadata.FaceCullMode) {
	switch mode {
	case metadata.FaceCullModeNone:
		gl.Disable(gl.CULL_FACE)
		return
	case metadata.FaceCullModeFront:
		gl.CullFace(gl.FRONT)
	case metadata.FaceCullModeFrontAndBack:
		gl.CullFace(gl.FRONT_AND_BACK)
	default:
		gl.CullFace(gl.BACK)
	}
	gl.Enable(gl.CULL_FACE)
}
