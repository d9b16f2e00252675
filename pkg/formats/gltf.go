package formats

import (
	"errors"
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// glTF loading errors.
var (
	ErrNoPosition      = errors.New("primitive has no POSITION attribute")
	ErrUnsupportedMode = errors.New("only triangle-list primitives are supported")
	ErrNoTriangles     = errors.New("document contains no triangle primitives")
)

// LoadGLTF opens a .gltf or .glb file and expands every triangle primitive of
// every mesh into one flat vertex stream, in document order. Node transforms
// are not applied; placement comes from the scene's model instances.
func LoadGLTF(path string) ([]Vertex, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", path, err)
	}

	var out []Vertex
	for mi, mesh := range doc.Meshes {
		for pi, prim := range mesh.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				return nil, fmt.Errorf("%s: mesh %d primitive %d: %w", path, mi, pi, ErrUnsupportedMode)
			}
			verts, err := readPrimitive(doc, prim)
			if err != nil {
				return nil, fmt.Errorf("%s: mesh %d primitive %d: %w", path, mi, pi, err)
			}
			out = append(out, verts...)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoTriangles)
	}
	return out, nil
}

func readPrimitive(doc *gltf.Document, prim *gltf.Primitive) ([]Vertex, error) {
	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, ErrNoPosition
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}

	var normals [][3]float32
	if idx, ok := prim.Attributes["NORMAL"]; ok {
		if normals, err = modeler.ReadNormal(doc, doc.Accessors[idx], nil); err != nil {
			return nil, fmt.Errorf("normals: %w", err)
		}
	}

	var uvs [][2]float32
	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		if uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil); err != nil {
			return nil, fmt.Errorf("texcoords: %w", err)
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		if indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil); err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
	}

	return expandIndexed(positions, normals, uvs, indices)
}

// expandIndexed turns an indexed triangle list into duplicated vertices.
// A nil index list means the attributes are already in triangle order.
// Missing normals or texcoords become zero, matching unspecified OBJ slots.
func expandIndexed(positions, normals [][3]float32, uvs [][2]float32, indices []uint32) ([]Vertex, error) {
	if indices == nil {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	// Trailing indices that do not form a whole triangle are dropped.
	indices = indices[:len(indices)-len(indices)%3]

	out := make([]Vertex, 0, len(indices))
	for _, idx := range indices {
		i := int(idx)
		if i >= len(positions) {
			return nil, fmt.Errorf("%w: position %d of %d", ErrIndexRange, i, len(positions))
		}
		v := Vertex{Position: positions[i]}
		if i < len(normals) {
			v.Normal = normals[i]
		}
		if i < len(uvs) {
			v.TexCoord = uvs[i]
		}
		out = append(out, v)
	}
	return out, nil
}
