package engine

import (
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/spaghettifunk/walker/engine/animation"
	"github.com/spaghettifunk/walker/engine/core"
	"github.com/spaghettifunk/walker/engine/math"
	"github.com/spaghettifunk/walker/engine/path"
	"github.com/spaghettifunk/walker/engine/renderer/components"
	"github.com/spaghettifunk/walker/engine/renderer/metadata"
)

type WindowConfig struct {
	// The application name used in windowing, if applicable.
	Name string `toml:"name"`
	// Window starting position x axis, if applicable.
	StartPosX uint32 `toml:"start_pos_x"`
	// Window starting position y axis, if applicable.
	StartPosY uint32 `toml:"start_pos_y"`
	// Window starting width, if applicable.
	StartWidth uint32 `toml:"start_width"`
	// Window starting height, if applicable.
	StartHeight uint32 `toml:"start_height"`
	VSync       bool   `toml:"vsync"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type CameraConfig struct {
	Position []float32 `toml:"position"`
	Pitch    float32   `toml:"pitch"`
	Yaw      float32   `toml:"yaw"`
	// Units per frame.
	Speed float32 `toml:"speed"`
	// Radians per frame.
	RotationSpeed float32 `toml:"rotation_speed"`
	// Vertical field of view, in degrees.
	FovY float32 `toml:"fov_y"`
	Near float32 `toml:"near"`
	Far  float32 `toml:"far"`
}

type PathConfig struct {
	// Waypoint file, relative to the asset directory.
	File      string  `toml:"file"`
	Threshold float32 `toml:"threshold"`
	// "loop" or "clamp".
	EndMode string  `toml:"end_mode"`
	Scale   float32 `toml:"scale"`
}

type GaitConfig struct {
	Amplitude float32 `toml:"amplitude"`
	Speed     float32 `toml:"speed"`
	WalkSpeed float32 `toml:"walk_speed"`
}

type RenderConfig struct {
	// RGB or RGBA background colour.
	ClearColor []float32 `toml:"clear_color"`
	// "none", "front", "back" or "front_and_back".
	CullMode string `toml:"cull_mode"`
	// Terrain glTF model, relative to the asset directory. Empty uses the
	// procedural grid.
	TerrainModel string  `toml:"terrain_model"`
	GridColumns  uint32  `toml:"grid_columns"`
	GridRows     uint32  `toml:"grid_rows"`
	TileSize     float32 `toml:"tile_size"`
	// The two alternating tile colours, RGB or RGBA each.
	GridColors [][]float32 `toml:"grid_colors"`
}

type AssetsConfig struct {
	Dir string `toml:"dir"`
	// Rig description, relative to the asset directory.
	Rig string `toml:"rig"`
	// Shader stages reloaded when they change on disk. Empty keeps the
	// built-in program.
	VertexShader   string `toml:"vertex_shader"`
	FragmentShader string `toml:"fragment_shader"`
	HotReload      bool   `toml:"hot_reload"`
}

type ApplicationConfig struct {
	Window WindowConfig `toml:"window"`
	Log    LogConfig    `toml:"log"`
	Camera CameraConfig `toml:"camera"`
	Path   PathConfig   `toml:"path"`
	Gait   GaitConfig   `toml:"gait"`
	Render RenderConfig `toml:"render"`
	Assets AssetsConfig `toml:"assets"`
}

// DefaultApplicationConfig returns the configuration used for every value
// the config file leaves out.
func DefaultApplicationConfig() *ApplicationConfig {
	gait := animation.DefaultGait()
	return &ApplicationConfig{
		Window: WindowConfig{
			Name:        "Walker",
			StartPosX:   100,
			StartPosY:   100,
			StartWidth:  1280,
			StartHeight: 720,
			VSync:       true,
		},
		Log: LogConfig{Level: "info"},
		Camera: CameraConfig{
			Position:      []float32{0, 20, 60},
			Pitch:         -0.3,
			Speed:         0.5,
			RotationSpeed: 0.02,
			FovY:          60,
			Near:          0.1,
			Far:           1000,
		},
		Path: PathConfig{
			File:      "paths/coordinates_0.txt",
			Threshold: path.DefaultThreshold,
			EndMode:   path.ModeLoop.String(),
			Scale:     gait.PathScale,
		},
		Gait: GaitConfig{
			Amplitude: gait.Amplitude,
			Speed:     gait.Speed,
			WalkSpeed: gait.WalkSpeed,
		},
		Render: RenderConfig{
			ClearColor:  []float32{0.39, 0.58, 0.92, 1.0},
			CullMode:    metadata.FaceCullModeBack.String(),
			GridColumns: 20,
			GridRows:    20,
			TileSize:    5,
			GridColors:  [][]float32{{0.9, 0.9, 0.9, 1}, {0.2, 0.2, 0.2, 1}},
		},
		Assets: AssetsConfig{
			Dir:       "assets",
			Rig:       "rigs/walker.yaml",
			HotReload: true,
		},
	}
}

// LoadConfig decodes the TOML file at filename over the defaults.
func LoadConfig(filename string) (*ApplicationConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "read config `%s`", filename)
	}
	return ParseConfig(data)
}

func ParseConfig(data []byte) (*ApplicationConfig, error) {
	config := DefaultApplicationConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *ApplicationConfig) Validate() error {
	if c.Window.StartWidth == 0 || c.Window.StartHeight == 0 {
		return errors.Errorf("window size %dx%d must be positive", c.Window.StartWidth, c.Window.StartHeight)
	}
	if len(c.Camera.Position) != 3 {
		return errors.Errorf("camera position needs 3 components, has %d", len(c.Camera.Position))
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		return errors.Errorf("camera clip planes near=%v far=%v are invalid", c.Camera.Near, c.Camera.Far)
	}
	if c.Path.Threshold <= 0 {
		return errors.Errorf("path threshold %v must be positive", c.Path.Threshold)
	}
	if _, err := path.ParseEndMode(c.Path.EndMode); err != nil {
		return err
	}
	if _, err := metadata.ParseFaceCullMode(c.Render.CullMode); err != nil {
		return err
	}
	if !isColor(c.Render.ClearColor) {
		return errors.Errorf("clear colour needs 3 or 4 components, has %d", len(c.Render.ClearColor))
	}
	if len(c.Render.GridColors) != 2 {
		return errors.Errorf("grid needs 2 colours, has %d", len(c.Render.GridColors))
	}
	for _, color := range c.Render.GridColors {
		if !isColor(color) {
			return errors.Errorf("grid colour needs 3 or 4 components, has %d", len(color))
		}
	}
	return nil
}

func isColor(c []float32) bool {
	return len(c) == 3 || len(c) == 4
}

func toColor(c []float32) mgl32.Vec4 {
	color := mgl32.Vec4{1, 1, 1, 1}
	copy(color[:], c)
	return color
}

func (c *ApplicationConfig) ClearColor() mgl32.Vec4 {
	return toColor(c.Render.ClearColor)
}

func (c *ApplicationConfig) CullMode() metadata.FaceCullMode {
	mode, _ := metadata.ParseFaceCullMode(c.Render.CullMode)
	return mode
}

func (c *ApplicationConfig) GridColors() [2]mgl32.Vec4 {
	return [2]mgl32.Vec4{toColor(c.Render.GridColors[0]), toColor(c.Render.GridColors[1])}
}

func (c *ApplicationConfig) LogLevel() core.LogLevel {
	return core.ParseLogLevel(c.Log.Level)
}

// PathOptions translates the path section into path options.
func (c *ApplicationConfig) PathOptions() ([]path.Option, error) {
	mode, err := path.ParseEndMode(c.Path.EndMode)
	if err != nil {
		return nil, err
	}
	return []path.Option{path.WithThreshold(c.Path.Threshold), path.WithEndMode(mode)}, nil
}

// GaitSettings merges the gait section with the path scale.
func (c *ApplicationConfig) GaitSettings() animation.Gait {
	return animation.Gait{
		Amplitude: c.Gait.Amplitude,
		Speed:     c.Gait.Speed,
		WalkSpeed: c.Gait.WalkSpeed,
		PathScale: c.Path.Scale,
	}
}

func (c *ApplicationConfig) CameraState() components.CameraState {
	var position mgl32.Vec3
	copy(position[:], c.Camera.Position)
	return components.CameraState{
		Position: position,
		Pitch:    c.Camera.Pitch,
		Yaw:      c.Camera.Yaw,
	}
}

func (c *ApplicationConfig) CameraController() *components.CameraController {
	return components.NewCameraController(c.Camera.Speed, c.Camera.RotationSpeed)
}

// Projection builds the lens for a framebuffer of the given size.
func (c *ApplicationConfig) Projection(width, height uint32) components.Projection {
	aspect := float32(1)
	if height > 0 {
		aspect = float32(width) / float32(height)
	}
	return components.Projection{
		FovY:   math.DegToRad(c.Camera.FovY),
		Aspect: aspect,
		Near:   c.Camera.Near,
		Far:    c.Camera.Far,
	}
}
