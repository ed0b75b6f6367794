package metadata

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/spaghettifunk/walker/engine/core"
)

/**
 * @brief Describes one rigid part of a rig. Vectors are plain slices so
 * the YAML stays readable; use the accessors to get mgl32 values.
 */
type RigNodeConfig struct {
	Name string `yaml:"name"`
	/** @brief Name of the parent part. Empty attaches to the rig root. */
	Parent string `yaml:"parent"`
	/** @brief Box extent (width, height, depth). Empty means a grouping node. */
	Size []float32 `yaml:"size"`
	/** @brief Offset from the parent. */
	Position []float32 `yaml:"position"`
	/** @brief Pivot of the rotations, in the node's own frame. */
	ReferencePoint []float32 `yaml:"reference_point"`
	/** @brief RGBA colour of the box. */
	Color []float32 `yaml:"color"`
}

type RigConfig struct {
	Name  string          `yaml:"name"`
	Nodes []RigNodeConfig `yaml:"nodes"`
}

func (n *RigNodeConfig) HasGeometry() bool {
	return len(n.Size) > 0
}

func (n *RigNodeConfig) SizeVec() mgl32.Vec3 {
	return vec3(n.Size)
}

func (n *RigNodeConfig) PositionVec() mgl32.Vec3 {
	return vec3(n.Position)
}

func (n *RigNodeConfig) ReferencePointVec() mgl32.Vec3 {
	return vec3(n.ReferencePoint)
}

// ColorVec returns the colour, opaque white when unset. A missing alpha
// defaults to 1.
func (n *RigNodeConfig) ColorVec() mgl32.Vec4 {
	c := mgl32.Vec4{1, 1, 1, 1}
	copy(c[:], n.Color)
	return c
}

// Validate checks names, vector lengths and that parents are declared
// before their children.
func (r *RigConfig) Validate() error {
	seen := make(map[string]bool, len(r.Nodes))
	for i := range r.Nodes {
		n := &r.Nodes[i]
		if n.Name == "" {
			return errors.Errorf("rig `%s`: node %d has no name", r.Name, i)
		}
		if seen[n.Name] {
			return errors.Errorf("rig `%s`: duplicate node `%s`", r.Name, n.Name)
		}
		if n.Parent != "" && !seen[n.Parent] {
			return errors.Wrapf(core.ErrInvalidNode, "rig `%s`: node `%s` has undeclared parent `%s`", r.Name, n.Name, n.Parent)
		}
		for field, v := range map[string][]float32{"size": n.Size, "position": n.Position, "reference_point": n.ReferencePoint} {
			if len(v) != 0 && len(v) != 3 {
				return errors.Errorf("rig `%s`: node `%s` %s needs 3 components, has %d", r.Name, n.Name, field, len(v))
			}
		}
		if len(n.Color) != 0 && len(n.Color) != 3 && len(n.Color) != 4 {
			return errors.Errorf("rig `%s`: node `%s` color needs 3 or 4 components, has %d", r.Name, n.Name, len(n.Color))
		}
		seen[n.Name] = true
	}
	return nil
}

func vec3(v []float32) mgl32.Vec3 {
	var out mgl32.Vec3
	copy(out[:], v)
	return out
}
