package systems

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/walker/engine/core"
	"github.com/spaghettifunk/walker/engine/renderer/metadata"
)

// GeometryCreator uploads mesh data and returns a drawable handle.
type GeometryCreator interface {
	CreateGeometry(mesh *metadata.MeshData) (metadata.Geometry, error)
}

/**
 * @brief Uploads geometry once per name. Acquiring a config whose name was
 * seen before returns the existing handle. Unnamed configs are always
 * uploaded.
 */
type GeometrySystem struct {
	creator GeometryCreator
	byName  map[string]metadata.Geometry
}

func NewGeometrySystem(creator GeometryCreator) *GeometrySystem {
	return &GeometrySystem{
		creator: creator,
		byName:  make(map[string]metadata.Geometry),
	}
}

func (gs *GeometrySystem) CreateGeometry(mesh *metadata.MeshData) (metadata.Geometry, error) {
	if mesh.Name != "" {
		if g, ok := gs.byName[mesh.Name]; ok {
			return g, nil
		}
	}
	g, err := gs.creator.CreateGeometry(mesh)
	if err != nil {
		return metadata.Geometry{}, err
	}
	if mesh.Name != "" {
		gs.byName[mesh.Name] = g
	}
	return g, nil
}

func (gs *GeometrySystem) Count() int {
	return len(gs.byName)
}

/**
 * @brief Generates an axis aligned box centred on the origin with one flat
 * colour. Faces wind counter clockwise seen from outside.
 * @param width The extent along x. Defaults to one when zero.
 * @param height The extent along y. Defaults to one when zero.
 * @param depth The extent along z. Defaults to one when zero.
 */
func GenerateBoxConfig(width, height, depth float32, color mgl32.Vec4, name string) *metadata.MeshData {
	if width == 0 {
		core.LogWarn("Width must be nonzero. Defaulting to one.")
		width = 1.0
	}
	if height == 0 {
		core.LogWarn("Height must be nonzero. Defaulting to one.")
		height = 1.0
	}
	if depth == 0 {
		core.LogWarn("Depth must be nonzero. Defaulting to one.")
		depth = 1
	}

	min_x, max_x := -width*0.5, width*0.5
	min_y, max_y := -height*0.5, height*0.5
	min_z, max_z := -depth*0.5, depth*0.5

	// Four corners per face, in the order used by faceIndices.
	faces := [6][4]mgl32.Vec3{
		// Front
		{{min_x, min_y, max_z}, {max_x, max_y, max_z}, {min_x, max_y, max_z}, {max_x, min_y, max_z}},
		// Back
		{{max_x, min_y, min_z}, {min_x, max_y, min_z}, {max_x, max_y, min_z}, {min_x, min_y, min_z}},
		// Left
		{{min_x, min_y, min_z}, {min_x, max_y, max_z}, {min_x, max_y, min_z}, {min_x, min_y, max_z}},
		// Right
		{{max_x, min_y, max_z}, {max_x, max_y, min_z}, {max_x, max_y, max_z}, {max_x, min_y, min_z}},
		// Bottom
		{{max_x, min_y, max_z}, {min_x, min_y, min_z}, {max_x, min_y, min_z}, {min_x, min_y, max_z}},
		// Top
		{{min_x, max_y, max_z}, {max_x, max_y, min_z}, {min_x, max_y, min_z}, {max_x, max_y, max_z}},
	}

	mesh := &metadata.MeshData{
		Name:      name,
		Positions: make([]mgl32.Vec4, 0, 24),
		Colors:    make([]mgl32.Vec4, 0, 24),
		Indices:   make([]uint32, 0, 36),
	}
	for _, face := range faces {
		appendQuad(mesh, face, color)
	}
	return mesh
}

/**
 * @brief Generates a flat chequered grid on the y=0 plane centred on the
 * origin, facing up.
 * @param columns The number of tiles along x. Defaults to one when zero.
 * @param rows The number of tiles along z. Defaults to one when zero.
 * @param tileSize The edge length of a tile. Defaults to one when zero.
 * @param colors The two alternating tile colours.
 */
func GenerateGridConfig(columns, rows uint32, tileSize float32, colors [2]mgl32.Vec4, name string) *metadata.MeshData {
	if columns < 1 {
		core.LogWarn("columns must be a positive number. Defaulting to one.")
		columns = 1
	}
	if rows < 1 {
		core.LogWarn("rows must be a positive number. Defaulting to one.")
		rows = 1
	}
	if tileSize == 0 {
		core.LogWarn("tileSize must be nonzero. Defaulting to one.")
		tileSize = 1.0
	}

	count := int(columns * rows)
	mesh := &metadata.MeshData{
		Name:      name,
		Positions: make([]mgl32.Vec4, 0, count*4),
		Colors:    make([]mgl32.Vec4, 0, count*4),
		Indices:   make([]uint32, 0, count*6),
	}

	half_width := float32(columns) * tileSize * 0.5
	half_depth := float32(rows) * tileSize * 0.5
	for z := uint32(0); z < rows; z++ {
		for x := uint32(0); x < columns; x++ {
			min_x := float32(x)*tileSize - half_width
			min_z := float32(z)*tileSize - half_depth
			max_x := min_x + tileSize
			max_z := min_z + tileSize

			appendQuad(mesh, [4]mgl32.Vec3{
				{min_x, 0, max_z}, {max_x, 0, min_z}, {min_x, 0, min_z}, {max_x, 0, max_z},
			}, colors[(x+z)%2])
		}
	}
	return mesh
}

// faceIndices splits a quad (v0, v1 opposite corners) in two triangles.
var faceIndices = [6]uint32{0, 1, 2, 0, 3, 1}

func appendQuad(mesh *metadata.MeshData, corners [4]mgl32.Vec3, color mgl32.Vec4) {
	offset := uint32(len(mesh.Positions))
	for _, c := range corners {
		mesh.Positions = append(mesh.Positions, c.Vec4(1))
		mesh.Colors = append(mesh.Colors, color)
	}
	for _, i := range faceIndices {
		mesh.Indices = append(mesh.Indices, offset+i)
	}
}
