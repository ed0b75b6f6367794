package metadata

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/spaghettifunk/walker/engine/core"
)

/**
 * @brief Vertex data for one logical sub mesh, ready for upload.
 * Positions are homogeneous, colours are RGBA, indices form a triangle list.
 */
type MeshData struct {
	Name      string
	Positions []mgl32.Vec4
	Colors    []mgl32.Vec4
	Indices   []uint32
}

// Validate checks the buffers agree with each other before they are uploaded.
func (m *MeshData) Validate() error {
	if len(m.Positions) == 0 || len(m.Indices) == 0 {
		return errors.Wrapf(core.ErrMeshLengthMismatch, "mesh %q: %d positions, %d indices", m.Name, len(m.Positions), len(m.Indices))
	}
	if len(m.Colors) != len(m.Positions) {
		return errors.Wrapf(core.ErrMeshLengthMismatch, "mesh %q: %d colours for %d positions", m.Name, len(m.Colors), len(m.Positions))
	}
	if len(m.Indices)%3 != 0 {
		return errors.Wrapf(core.ErrMeshLengthMismatch, "mesh %q: %d indices is not a triangle list", m.Name, len(m.Indices))
	}
	for i, idx := range m.Indices {
		if int(idx) >= len(m.Positions) {
			return errors.Wrapf(core.ErrIndexOutOfRange, "mesh %q: index %d at %d, %d positions", m.Name, idx, i, len(m.Positions))
		}
	}
	return nil
}

// Append merges other into m, offsetting its indices.
func (m *MeshData) Append(other *MeshData) {
	offset := uint32(len(m.Positions))
	m.Positions = append(m.Positions, other.Positions...)
	m.Colors = append(m.Colors, other.Colors...)
	for _, idx := range other.Indices {
		m.Indices = append(m.Indices, idx+offset)
	}
}

// FlatPositions returns the positions as a float slice for buffer upload.
func (m *MeshData) FlatPositions() []float32 {
	return flattenVec4(m.Positions)
}

// FlatColors returns the colours as a float slice for buffer upload.
func (m *MeshData) FlatColors() []float32 {
	return flattenVec4(m.Colors)
}

func flattenVec4(v []mgl32.Vec4) []float32 {
	out := make([]float32, 0, len(v)*4)
	for _, e := range v {
		out = append(out, e[0], e[1], e[2], e[3])
	}
	return out
}
