package loaders

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/spaghettifunk/walker/engine/core"
	"github.com/spaghettifunk/walker/engine/renderer/metadata"
)

// ModelLoader reads a glTF 2.0 file (.gltf or .glb). Every mesh becomes one
// MeshData with all its triangle primitives merged. params may be an
// mgl32.Vec4 used as colour for primitives without COLOR_0.
// Data is a []*metadata.MeshData.
type ModelLoader struct{}

var defaultModelColor = mgl32.Vec4{1, 1, 1, 1}

func (ml *ModelLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(err, "stat model `%s`", path)
	}

	doc, err := gltf.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open model `%s`", path)
	}

	color := defaultModelColor
	if params != nil {
		c, ok := params.(mgl32.Vec4)
		if !ok {
			return nil, errors.Errorf("model loader: unexpected params %T", params)
		}
		color = c
	}

	meshes, err := ReadMeshes(doc, color)
	if err != nil {
		return nil, errors.Wrapf(err, "model `%s`", path)
	}
	return &metadata.Resource{
		Type:     metadata.ResourceTypeModel,
		Name:     filepath.Base(path),
		FullPath: path,
		DataSize: uint64(info.Size()),
		Data:     meshes,
	}, nil
}

func (ml *ModelLoader) Unload(*metadata.Resource) error {
	return nil
}

// ReadMeshes converts the document meshes into upload ready MeshData.
func ReadMeshes(doc *gltf.Document, color mgl32.Vec4) ([]*metadata.MeshData, error) {
	meshes := make([]*metadata.MeshData, 0, len(doc.Meshes))
	for iMesh, mesh := range doc.Meshes {
		name := mesh.Name
		if name == "" {
			name = fmt.Sprintf("mesh_%d", iMesh)
		}
		data := &metadata.MeshData{Name: name}

		for iPrimitive, primitive := range mesh.Primitives {
			if primitive.Mode != gltf.PrimitiveTriangles {
				core.LogWarn("mesh `%s` primitive %d: mode %v skipped", name, iPrimitive, primitive.Mode)
				continue
			}
			if primitive.Indices == nil {
				core.LogWarn("mesh `%s` primitive %d has no indices", name, iPrimitive)
				continue
			}
			part, err := readPrimitive(doc, primitive, color)
			if err != nil {
				return nil, errors.Wrapf(err, "mesh `%s` primitive %d", name, iPrimitive)
			}
			data.Append(part)
		}

		if len(data.Indices) == 0 {
			continue
		}
		if err := data.Validate(); err != nil {
			return nil, err
		}
		meshes = append(meshes, data)
	}
	if len(meshes) == 0 {
		return nil, errors.Wrap(core.ErrMeshLengthMismatch, "no triangle mesh in document")
	}
	return meshes, nil
}

func readPrimitive(doc *gltf.Document, primitive *gltf.Primitive, color mgl32.Vec4) (*metadata.MeshData, error) {
	positionAccessor, ok := primitive.Attributes["POSITION"]
	if !ok {
		return nil, errors.New("missing POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[positionAccessor], nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read positions")
	}
	indices, err := modeler.ReadIndices(doc, doc.Accessors[*primitive.Indices], nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read indices")
	}

	part := &metadata.MeshData{
		Positions: make([]mgl32.Vec4, len(positions)),
		Colors:    make([]mgl32.Vec4, len(positions)),
		Indices:   indices,
	}
	for i, p := range positions {
		part.Positions[i] = mgl32.Vec4{p[0], p[1], p[2], 1}
		part.Colors[i] = color
	}

	if colorAccessor, ok := primitive.Attributes["COLOR_0"]; ok {
		colors, err := modeler.ReadColor(doc, doc.Accessors[colorAccessor], nil)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read colors")
		}
		if len(colors) != len(positions) {
			return nil, errors.Wrapf(core.ErrMeshLengthMismatch, "%d colors for %d positions", len(colors), len(positions))
		}
		for i, c := range colors {
			part.Colors[i] = mgl32.Vec4{
				float32(c[0]) / 255, float32(c[1]) / 255, float32(c[2]) / 255, float32(c[3]) / 255,
			}
		}
	}
	return part, nil
}
