// Package path holds the ordered waypoint list the walker follows.
package path

import (
	"bufio"
	"io"
	"strconv"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/spaghettifunk/walker/engine/core"
	"github.com/spaghettifunk/walker/engine/math"
)

// DefaultThreshold is the arrival distance, in world units.
const DefaultThreshold float32 = 0.5

// EndMode decides what advancing past the last waypoint does.
type EndMode uint8

const (
	// ModeLoop wraps the cursor back to the first waypoint.
	ModeLoop EndMode = iota
	// ModeClamp keeps the cursor on the last waypoint.
	ModeClamp
)

// ParseEndMode converts "loop" or "clamp" to an EndMode.
func ParseEndMode(s string) (EndMode, error) {
	switch s {
	case "", "loop":
		return ModeLoop, nil
	case "clamp":
		return ModeClamp, nil
	default:
		return ModeLoop, errors.Errorf("unknown path end mode %q", s)
	}
}

func (m EndMode) String() string {
	if m == ModeClamp {
		return "clamp"
	}
	return "loop"
}

// Path is an immutable sequence of 2D ground plane waypoints and a cursor
// that always points at one of them.
type Path struct {
	waypoints []mgl32.Vec2
	cursor    int
	threshold float32
	mode      EndMode
	finished  bool
}

type Option func(*Path)

// WithThreshold sets the arrival distance.
func WithThreshold(threshold float32) Option {
	return func(p *Path) {
		p.threshold = threshold
	}
}

// WithEndMode sets the behaviour past the last waypoint.
func WithEndMode(mode EndMode) Option {
	return func(p *Path) {
		p.mode = mode
	}
}

// New creates a path over a copy of waypoints with the cursor on the first.
func New(waypoints []mgl32.Vec2, opts ...Option) (*Path, error) {
	if len(waypoints) == 0 {
		return nil, core.ErrEmptyPath
	}
	p := &Path{
		waypoints: append([]mgl32.Vec2(nil), waypoints...),
		threshold: DefaultThreshold,
		mode:      ModeLoop,
	}
	for _, o := range opts {
		o(p)
	}
	return p, nil
}

// Load reads whitespace or line separated coordinate pairs from r.
func Load(r io.Reader, opts ...Option) (*Path, error) {
	waypoints, err := Parse(r)
	if err != nil {
		return nil, err
	}
	return New(waypoints, opts...)
}

// Parse reads numeric pairs, one waypoint per pair, with no header.
func Parse(r io.Reader) ([]mgl32.Vec2, error) {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)

	var values []float32
	for scanner.Scan() {
		token := scanner.Text()
		v, err := strconv.ParseFloat(token, 32)
		if err != nil {
			return nil, errors.Wrapf(core.ErrMalformedWaypoint, "token %d %q", len(values), token)
		}
		values = append(values, float32(v))
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading waypoints")
	}
	if len(values)%2 != 0 {
		return nil, errors.Wrapf(core.ErrMalformedWaypoint, "%d values do not form pairs", len(values))
	}
	if len(values) == 0 {
		return nil, core.ErrEmptyPath
	}

	waypoints := make([]mgl32.Vec2, 0, len(values)/2)
	for i := 0; i < len(values); i += 2 {
		waypoints = append(waypoints, mgl32.Vec2{values[i], values[i+1]})
	}
	return waypoints, nil
}

// CurrentWaypoint returns the waypoint under the cursor multiplied by scale.
func (p *Path) CurrentWaypoint(scale float32) mgl32.Vec2 {
	return p.waypoints[p.cursor].Mul(scale)
}

// HasWaypointBeenReached reports whether position is closer than the
// threshold to the scaled current waypoint.
func (p *Path) HasWaypointBeenReached(position mgl32.Vec2, scale float32) bool {
	return position.Sub(p.CurrentWaypoint(scale)).Len() < p.threshold
}

// AdvanceToNextWaypoint moves the cursor forward by one.
func (p *Path) AdvanceToNextWaypoint() {
	next := p.cursor + 1
	if next < len(p.waypoints) {
		p.cursor = next
		return
	}
	switch p.mode {
	case ModeClamp:
		p.cursor = math.Clamp(next, 0, len(p.waypoints)-1)
		p.finished = true
	default:
		p.cursor = 0
	}
}

// Finished reports whether a clamped path was advanced past its end.
func (p *Path) Finished() bool {
	return p.finished
}

func (p *Path) Cursor() int {
	return p.cursor
}

func (p *Path) Len() int {
	return len(p.waypoints)
}

func (p *Path) Threshold() float32 {
	return p.threshold
}

func (p *Path) Mode() EndMode {
	return p.mode
}

// Waypoints returns a copy of the unscaled waypoints.
func (p *Path) Waypoints() []mgl32.Vec2 {
	return append([]mgl32.Vec2(nil), p.waypoints...)
}
