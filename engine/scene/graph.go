package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/spaghettifunk/walker/engine/core"
	"github.com/spaghettifunk/walker/engine/renderer/metadata"
)

// Graph owns every node of a scene. Nodes live as long as the graph.
type Graph struct {
	nodes []Node
}

func NewGraph() *Graph {
	return &Graph{}
}

// CreateNode adds a node with identity transform fields, no geometry and
// no children.
func (g *Graph) CreateNode(name string) NodeID {
	g.nodes = append(g.nodes, newNode(name))
	return NodeID(len(g.nodes) - 1)
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int {
	return len(g.nodes)
}

func (g *Graph) valid(id NodeID) bool {
	return id >= 0 && int(id) < len(g.nodes)
}

// Node returns the node identified by id, or nil for an unknown id.
// The pointer is invalidated by the next CreateNode.
func (g *Graph) Node(id NodeID) *Node {
	if !g.valid(id) {
		return nil
	}
	return &g.nodes[id]
}

// AddChild appends child to the children of parent.
func (g *Graph) AddChild(parent, child NodeID) error {
	if !g.valid(parent) || !g.valid(child) {
		return errors.Wrapf(core.ErrInvalidNode, "attach %d to %d", child, parent)
	}
	if g.nodes[child].parent != Nil {
		return errors.Wrapf(core.ErrAlreadyParented, "node %d (%q) is a child of %d", child, g.nodes[child].Name, g.nodes[child].parent)
	}
	for anc := parent; anc != Nil; anc = g.nodes[anc].parent {
		if anc == child {
			return errors.Wrapf(core.ErrCycleDetected, "node %d (%q) is an ancestor of %d", child, g.nodes[child].Name, parent)
		}
	}
	g.nodes[child].parent = parent
	g.nodes[parent].children = append(g.nodes[parent].children, child)
	return nil
}

// SetGeometry attaches geometry to a node. A handle must come with a
// positive index count and an empty handle with none.
func (g *Graph) SetGeometry(id NodeID, geometry metadata.Geometry) error {
	if !g.valid(id) {
		return errors.Wrapf(core.ErrInvalidNode, "set geometry on %d", id)
	}
	if (geometry.ID != 0) != (geometry.IndexCount > 0) {
		return errors.Wrapf(core.ErrInvalidGeometry, "node %d: handle %d with %d indices", id, geometry.ID, geometry.IndexCount)
	}
	g.nodes[id].geometry = geometry
	return nil
}

// Parent returns the parent of id, Nil for roots and unknown ids.
func (g *Graph) Parent(id NodeID) NodeID {
	if !g.valid(id) {
		return Nil
	}
	return g.nodes[id].parent
}

// Children returns the children of id in draw order.
func (g *Graph) Children(id NodeID) []NodeID {
	if !g.valid(id) {
		return nil
	}
	return g.nodes[id].children
}

// Find returns the first node named name, or Nil.
func (g *Graph) Find(name string) NodeID {
	for i := range g.nodes {
		if g.nodes[i].Name == name {
			return NodeID(i)
		}
	}
	return Nil
}

// WorldTransform returns the world transform of id as of the last traversal.
func (g *Graph) WorldTransform(id NodeID) mgl32.Mat4 {
	if !g.valid(id) {
		return mgl32.Ident4()
	}
	return g.nodes[id].world
}
