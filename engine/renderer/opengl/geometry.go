package opengl

import (
	"github.com/go-gl/gl/v4.3-core/gl"
	"github.com/spaghettifunk/walker/engine/renderer/metadata"
)

// glMesh holds the device objects behind one Geometry handle.
type glMesh struct {
	vao        uint32
	positions  uint32
	colors     uint32
	elements   uint32
	indexCount int32
}

func uploadMesh(mesh *metadata.MeshData) *glMesh {
	m := &glMesh{indexCount: int32(len(mesh.Indices))}

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	positions := mesh.FlatPositions()
	gl.GenBuffers(1, &m.positions)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.positions)
	gl.BufferData(gl.ARRAY_BUFFER, 4*len(positions), gl.Ptr(positions), gl.STATIC_DRAW)
	gl.VertexAttribPointerWithOffset(positionLocation, 4, gl.FLOAT, false, 0, 0)
	gl.EnableVertexAttribArray(positionLocation)

	colors := mesh.FlatColors()
	gl.GenBuffers(1, &m.colors)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.colors)
	gl.BufferData(gl.ARRAY_BUFFER, 4*len(colors), gl.Ptr(colors), gl.STATIC_DRAW)
	gl.VertexAttribPointerWithOffset(colorLocation, 4, gl.FLOAT, false, 0, 0)
	gl.EnableVertexAttribArray(colorLocation)

	gl.GenBuffers(1, &m.elements)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.elements)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, 4*len(mesh.Indices), gl.Ptr(mesh.Indices), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, 0)
	return m
}

func (m *glMesh) draw() {
	gl.BindVertexArray(m.vao)
	gl.DrawElementsWithOffset(gl.TRIANGLES, m.indexCount, gl.UNSIGNED_INT, 0)
}

func (m *glMesh) delete() {
	gl.DeleteVertexArrays(1, &m.vao)
	gl.DeleteBuffers(1, &m.positions)
	gl.DeleteBuffers(1, &m.colors)
	gl.DeleteBuffers(1, &m.elements)
}
