// Package scene implements the scene graph: an arena of transform nodes
// whose world transforms are composed from the root down on traversal.
package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/walker/engine/math"
	"github.com/spaghettifunk/walker/engine/renderer/metadata"
)

// NodeID identifies a node in a Graph.
type NodeID int

// Nil represents an invalid NodeID.
const Nil NodeID = -1

// Node holds the local transform components of a scene node.
// Position, Rotation and ReferencePoint may be written freely between
// traversals; the world transform is only valid right after one.
type Node struct {
	Name string

	// Position is the translation in the parent frame.
	Position mgl32.Vec3
	// Rotation holds Euler angles in radians, applied X then Y then Z.
	Rotation mgl32.Vec3
	// ReferencePoint is the pivot the rotation is performed around.
	ReferencePoint mgl32.Vec3

	geometry metadata.Geometry
	world    mgl32.Mat4

	parent   NodeID
	children []NodeID
}

func newNode(name string) Node {
	return Node{
		Name:   name,
		world:  mgl32.Ident4(),
		parent: Nil,
	}
}

// LocalTransform returns T(position) · T(ref) · Rx · Ry · Rz · T(-ref).
func (n *Node) LocalTransform() mgl32.Mat4 {
	return math.PivotTransform(n.Position, n.ReferencePoint, n.Rotation)
}

// Geometry returns the geometry handle, the zero value for grouping nodes.
func (n *Node) Geometry() metadata.Geometry {
	return n.geometry
}

// IndexCount returns the number of indices drawn for the node.
func (n *Node) IndexCount() uint32 {
	return n.geometry.IndexCount
}

// IsRenderable reports whether traversal issues a draw for the node.
func (n *Node) IsRenderable() bool {
	return n.geometry.IndexCount > 0
}

// WorldTransform returns the transform computed by the last traversal.
func (n *Node) WorldTransform() mgl32.Mat4 {
	return n.world
}
