// Package animation drives the walking character: limb swing and torso
// movement along a path.
package animation

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/walker/engine/core"
	"github.com/spaghettifunk/walker/engine/math"
	"github.com/spaghettifunk/walker/engine/path"
	"github.com/spaghettifunk/walker/engine/scene"
)

// Gait configures the walk cycle.
type Gait struct {
	// Amplitude is the peak limb swing, in radians.
	Amplitude float32
	// Speed is the angular frequency of the swing.
	Speed float32
	// WalkSpeed is the torso speed in world units per second.
	WalkSpeed float32
	// PathScale maps path file units to world units.
	PathScale float32
}

// DefaultGait returns the gait used when none is configured.
func DefaultGait() Gait {
	return Gait{
		Amplitude: 0.7,
		Speed:     3.3,
		WalkSpeed: 4.0,
		PathScale: 1.0,
	}
}

// Rig names the nodes the driver animates.
type Rig struct {
	Torso    scene.NodeID
	LeftArm  scene.NodeID
	RightArm scene.NodeID
	LeftLeg  scene.NodeID
	RightLeg scene.NodeID
}

// LimbPose holds the X rotation of each limb.
type LimbPose struct {
	LeftArm  float32
	RightArm float32
	LeftLeg  float32
	RightLeg float32
}

// LimbAngles returns the pose at simulation time t. Left arm and right leg
// swing together, right arm and left leg with the opposite sign.
func LimbAngles(gait Gait, t float64) LimbPose {
	swing := gait.Amplitude * math.Sin(gait.Speed*float32(t))
	return LimbPose{
		LeftArm:  swing,
		RightLeg: swing,
		RightArm: -swing,
		LeftLeg:  -swing,
	}
}

// Driver updates the rig once per frame.
type Driver struct {
	gait Gait
	rig  Rig
	time float64
}

func NewDriver(gait Gait, rig Rig) *Driver {
	return &Driver{gait: gait, rig: rig}
}

// Time returns the accumulated simulation time in seconds.
func (d *Driver) Time() float64 {
	return d.time
}

func (d *Driver) Gait() Gait {
	return d.gait
}

// Update advances simulation time by deltaTime and writes the new limb
// rotations and torso position/yaw into graph. It must run before the
// frame is traversed.
func (d *Driver) Update(graph *scene.Graph, p *path.Path, deltaTime float64) {
	d.time += deltaTime

	pose := LimbAngles(d.gait, d.time)
	setPitch(graph, d.rig.LeftArm, pose.LeftArm)
	setPitch(graph, d.rig.RightArm, pose.RightArm)
	setPitch(graph, d.rig.LeftLeg, pose.LeftLeg)
	setPitch(graph, d.rig.RightLeg, pose.RightLeg)

	torso := graph.Node(d.rig.Torso)
	if torso == nil || p == nil {
		return
	}

	target := p.CurrentWaypoint(d.gait.PathScale)
	heading := target.Sub(math.Ground(torso.Position))
	if heading.Len() > 0 {
		step := heading.Normalize().Mul(d.gait.WalkSpeed * float32(deltaTime))
		torso.Position = torso.Position.Add(mgl32.Vec3{step.X(), 0, step.Y()})
		torso.Rotation[1] = math.Atan2(heading.X(), heading.Y())
	}

	if p.HasWaypointBeenReached(math.Ground(torso.Position), d.gait.PathScale) {
		p.AdvanceToNextWaypoint()
		core.LogDebug("waypoint reached, next %d/%d", p.Cursor(), p.Len())
	}
}

func setPitch(graph *scene.Graph, id scene.NodeID, angle float32) {
	if n := graph.Node(id); n != nil {
		n.Rotation[0] = angle
	}
}
