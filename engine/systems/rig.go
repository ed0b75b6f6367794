package systems

import (
	"github.com/pkg/errors"
	"github.com/spaghettifunk/walker/engine/core"
	"github.com/spaghettifunk/walker/engine/renderer/metadata"
	"github.com/spaghettifunk/walker/engine/scene"
)

// BuildRig instantiates rig under parent. Each part becomes a node named
// after it, with a box geometry when it has a size. Parts without a parent
// attach to parent. It returns the created nodes by name.
func BuildRig(graph *scene.Graph, parent scene.NodeID, rig *metadata.RigConfig, creator GeometryCreator) (map[string]scene.NodeID, error) {
	if err := rig.Validate(); err != nil {
		return nil, err
	}
	if graph.Node(parent) == nil {
		return nil, errors.Wrapf(core.ErrInvalidNode, "rig `%s` parent %d", rig.Name, parent)
	}

	nodes := make(map[string]scene.NodeID, len(rig.Nodes))
	for i := range rig.Nodes {
		part := &rig.Nodes[i]

		id := graph.CreateNode(part.Name)
		n := graph.Node(id)
		n.Position = part.PositionVec()
		n.ReferencePoint = part.ReferencePointVec()

		if part.HasGeometry() {
			size := part.SizeVec()
			mesh := GenerateBoxConfig(size.X(), size.Y(), size.Z(), part.ColorVec(), rig.Name+"_"+part.Name)
			geometry, err := creator.CreateGeometry(mesh)
			if err != nil {
				return nil, errors.Wrapf(err, "rig `%s` part `%s`", rig.Name, part.Name)
			}
			if err := graph.SetGeometry(id, geometry); err != nil {
				return nil, errors.Wrapf(err, "rig `%s` part `%s`", rig.Name, part.Name)
			}
		}

		attach := parent
		if part.Parent != "" {
			attach = nodes[part.Parent]
		}
		if err := graph.AddChild(attach, id); err != nil {
			return nil, errors.Wrapf(err, "rig `%s` part `%s`", rig.Name, part.Name)
		}
		nodes[part.Name] = id
	}
	core.LogDebug("rig `%s` built with %d nodes", rig.Name, len(nodes))
	return nodes, nil
}
