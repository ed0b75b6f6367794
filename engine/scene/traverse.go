package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/walker/engine/renderer/metadata"
)

// DrawSink receives one call per renderable node, in pre-order.
type DrawSink interface {
	Draw(geometry metadata.Geometry, transform mgl32.Mat4)
}

// DrawFunc adapts a function to DrawSink.
type DrawFunc func(geometry metadata.Geometry, transform mgl32.Mat4)

func (f DrawFunc) Draw(geometry metadata.Geometry, transform mgl32.Mat4) {
	f(geometry, transform)
}

type visit struct {
	node   NodeID
	parent mgl32.Mat4
}

// Traverse walks the tree under root depth first, storing on every node
// parentTransform·local and drawing the renderable ones. Parents are drawn
// before their children and siblings in insertion order. No depth sorting
// is done, so overlapping transparent geometry may blend out of order.
// It returns the number of draw calls issued. sink may be nil to only
// refresh world transforms.
func (g *Graph) Traverse(root NodeID, parentTransform mgl32.Mat4, sink DrawSink) int {
	if !g.valid(root) {
		return 0
	}
	draws := 0
	stack := []visit{{node: root, parent: parentTransform}}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := &g.nodes[v.node]
		n.world = v.parent.Mul4(n.LocalTransform())
		if n.IsRenderable() && sink != nil {
			sink.Draw(n.geometry, n.world)
			draws++
		}
		// Reverse push keeps the first child on top of the stack.
		for i := len(n.children) - 1; i >= 0; i-- {
			stack = append(stack, visit{node: n.children[i], parent: n.world})
		}
	}
	return draws
}
