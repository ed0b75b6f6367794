package scene

import (
	"fmt"
	"strings"

	"github.com/davecgh/go-spew/spew"
)

// NodeDump is the printable form of a node used by Dump.
type NodeDump struct {
	ID             NodeID
	Name           string
	Position       [3]float32
	Rotation       [3]float32
	ReferencePoint [3]float32
	IndexCount     uint32
	Children       []NodeDump
}

func (g *Graph) dump(id NodeID) NodeDump {
	n := &g.nodes[id]
	d := NodeDump{
		ID:             id,
		Name:           n.Name,
		Position:       n.Position,
		Rotation:       n.Rotation,
		ReferencePoint: n.ReferencePoint,
		IndexCount:     n.geometry.IndexCount,
	}
	for _, c := range n.children {
		d.Children = append(d.Children, g.dump(c))
	}
	return d
}

// Dump returns a readable description of the tree under root.
func (g *Graph) Dump(root NodeID) string {
	if !g.valid(root) {
		return fmt.Sprintf("<invalid node %d>", root)
	}
	cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true}
	return cfg.Sdump(g.dump(root))
}

// Outline returns one line per node, indented by depth.
func (g *Graph) Outline(root NodeID) string {
	var sb strings.Builder
	var walk func(id NodeID, depth int)
	walk = func(id NodeID, depth int) {
		n := &g.nodes[id]
		fmt.Fprintf(&sb, "%s%s (%d)\n", strings.Repeat("  ", depth), n.Name, id)
		for _, c := range n.children {
			walk(c, depth+1)
		}
	}
	if g.valid(root) {
		walk(root, 0)
	}
	return sb.String()
}
