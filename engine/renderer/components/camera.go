package components

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/walker/engine/core"
	"github.com/spaghettifunk/walker/engine/math"
)

/**
 * @brief The state of a free-fly camera. It carries no roll and pitch is
 * never clamped. The controller takes it by value and returns the
 * updated copy.
 */
type CameraState struct {
	Position mgl32.Vec3
	/** @brief Rotation around the X axis, in radians. */
	Pitch float32
	/** @brief Rotation around the Y axis, in radians. */
	Yaw float32
}

func (s CameraState) String() string {
	return fmt.Sprintf("position=(%.3f, %.3f, %.3f) pitch=%.3f yaw=%.3f",
		s.Position.X(), s.Position.Y(), s.Position.Z(), s.Pitch, s.Yaw)
}

// Forward is the view direction derived from pitch and yaw.
func (s CameraState) Forward() mgl32.Vec3 {
	sp, cp := math.Sin(s.Pitch), math.Cos(s.Pitch)
	sy, cy := math.Sin(s.Yaw), math.Cos(s.Yaw)
	return mgl32.Vec3{-sy * cp, sp, -cy * cp}
}

// Right is the strafe direction. It only depends on yaw.
func (s CameraState) Right() mgl32.Vec3 {
	return mgl32.Vec3{math.Cos(s.Yaw), 0, -math.Sin(s.Yaw)}
}

/** @brief The keys driving each camera motion. */
type CameraBindings struct {
	Forward   core.KeyCode
	Backward  core.KeyCode
	Left      core.KeyCode
	Right     core.KeyCode
	Up        core.KeyCode
	Down      core.KeyCode
	PitchUp   core.KeyCode
	PitchDown core.KeyCode
	YawLeft   core.KeyCode
	YawRight  core.KeyCode
}

func DefaultCameraBindings() CameraBindings {
	return CameraBindings{
		Forward:   core.KEY_W,
		Backward:  core.KEY_S,
		Left:      core.KEY_A,
		Right:     core.KEY_D,
		Up:        core.KEY_SPACE,
		Down:      core.KEY_LSHIFT,
		PitchUp:   core.KEY_UP,
		PitchDown: core.KEY_DOWN,
		YawLeft:   core.KEY_LEFT,
		YawRight:  core.KEY_RIGHT,
	}
}

/**
 * @brief Applies fixed per-frame deltas to a CameraState for each held key.
 * Deltas are not scaled by the frame time.
 */
type CameraController struct {
	/** @brief Translation per frame, in world units. */
	Speed float32
	/** @brief Rotation per frame, in radians. */
	RotationSpeed float32
	Bindings      CameraBindings
}

func NewCameraController(speed, rotationSpeed float32) *CameraController {
	return &CameraController{
		Speed:         speed,
		RotationSpeed: rotationSpeed,
		Bindings:      DefaultCameraBindings(),
	}
}

func (c *CameraController) Update(state CameraState, keys core.KeyState) CameraState {
	b := c.Bindings

	// Translation uses the orientation from the start of the frame.
	forward := state.Forward().Mul(c.Speed)
	right := state.Right().Mul(c.Speed)
	up := mgl32.Vec3{0, c.Speed, 0}

	if keys.IsKeyDown(b.Forward) {
		state.Position = state.Position.Add(forward)
	}
	if keys.IsKeyDown(b.Backward) {
		state.Position = state.Position.Sub(forward)
	}
	if keys.IsKeyDown(b.Right) {
		state.Position = state.Position.Add(right)
	}
	if keys.IsKeyDown(b.Left) {
		state.Position = state.Position.Sub(right)
	}
	if keys.IsKeyDown(b.Up) {
		state.Position = state.Position.Add(up)
	}
	if keys.IsKeyDown(b.Down) {
		state.Position = state.Position.Sub(up)
	}

	if keys.IsKeyDown(b.PitchUp) {
		state.Pitch += c.RotationSpeed
	}
	if keys.IsKeyDown(b.PitchDown) {
		state.Pitch -= c.RotationSpeed
	}
	if keys.IsKeyDown(b.YawLeft) {
		state.Yaw += c.RotationSpeed
	}
	if keys.IsKeyDown(b.YawRight) {
		state.Yaw -= c.RotationSpeed
	}
	return state
}

/** @brief Perspective lens parameters. FovY is in radians. */
type Projection struct {
	FovY   float32
	Aspect float32
	Near   float32
	Far    float32
}

func (p Projection) Matrix() mgl32.Mat4 {
	return mgl32.Perspective(p.FovY, p.Aspect, p.Near, p.Far)
}

// View is the inverse of the camera transform T(position)·Ry(yaw)·Rx(pitch).
func View(state CameraState) mgl32.Mat4 {
	return mgl32.HomogRotate3DX(-state.Pitch).
		Mul4(mgl32.HomogRotate3DY(-state.Yaw)).
		Mul4(mgl32.Translate3D(-state.Position.X(), -state.Position.Y(), -state.Position.Z()))
}

// ViewProjection is the initial transform handed to the scene traversal.
func ViewProjection(state CameraState, projection Projection) mgl32.Mat4 {
	return projection.Matrix().Mul4(View(state))
}
