package opengl

import (
	_ "embed"

	"github.com/go-gl/gl/v4.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/spaghettifunk/walker/engine/core"
)

//go:embed shaders/simple.vert
var DefaultVertexShader string

//go:embed shaders/simple.frag
var DefaultFragmentShader string

const (
	positionLocation  uint32 = 0
	colorLocation     uint32 = 1
	transformLocation int32  = 2
)

type Program struct {
	Id                           uint32
	VertexShader, FragmentShader uint32
}

func (p *Program) Use() {
	gl.UseProgram(p.Id)
}

func (p *Program) SetTransform(transform mgl32.Mat4) {
	gl.UniformMatrix4fv(transformLocation, 1, false, &transform[0])
}

func (p *Program) Delete() {
	gl.DetachShader(p.Id, p.VertexShader)
	gl.DetachShader(p.Id, p.FragmentShader)
	gl.DeleteProgram(p.Id)
	gl.DeleteShader(p.VertexShader)
	gl.DeleteShader(p.FragmentShader)
}

func LoadProgram(vertexShaderText, fragmentShaderText string) (*Program, error) {
	p := &Program{}

	vs, err := LoadShader(gl.VERTEX_SHADER, vertexShaderText)
	if err != nil {
		return nil, errors.Wrap(err, "vertex shader")
	}
	p.VertexShader = vs

	fs, err := LoadShader(gl.FRAGMENT_SHADER, fragmentShaderText)
	if err != nil {
		gl.DeleteShader(p.VertexShader)
		return nil, errors.Wrap(err, "fragment shader")
	}
	p.FragmentShader = fs

	p.Id = gl.CreateProgram()
	gl.AttachShader(p.Id, p.VertexShader)
	gl.AttachShader(p.Id, p.FragmentShader)
	gl.LinkProgram(p.Id)

	var isLinked int32
	gl.GetProgramiv(p.Id, gl.LINK_STATUS, &isLinked)
	if isLinked == gl.FALSE {
		var logSize int32
		gl.GetProgramiv(p.Id, gl.INFO_LOG_LENGTH, &logSize)
		buf := make([]uint8, logSize+1)
		gl.GetProgramInfoLog(p.Id, int32(len(buf)), &logSize, &buf[0])
		errString := string(buf[:logSize])
		core.LogError("failed to link program:\n%s", errString)

		p.Delete()
		return nil, errors.Errorf("failed to link program: %q", errString)
	}
	return p, nil
}

func LoadShader(xtype uint32, text string) (uint32, error) {
	shader := gl.CreateShader(xtype)
	csource, free := gl.Strs(text + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var success int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &success)
	if success == gl.FALSE {
		var logSize int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logSize)
		buf := make([]uint8, logSize+1)
		gl.GetShaderInfoLog(shader, int32(len(buf)), &logSize, &buf[0])
		errString := string(buf[:logSize])
		core.LogError("failed to compile shader:\n%s", errString)

		gl.DeleteShader(shader)
		return 0, errors.Errorf("failed to compile shader: %q", errString)
	}
	return shader, nil
}
