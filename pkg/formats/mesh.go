package formats

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Faultbox/penumbra/pkg/math"
)

// Vertex is one corner of a triangle as uploaded to the GPU.
// The layout is fixed: position at byte 0, normal at 12, texcoord at 24.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
}

// MeshInfo summarises a vertex stream.
type MeshInfo struct {
	Vertices  int
	Triangles int
	Min       math.Vec3
	Max       math.Vec3
}

// Summarize computes counts and the axis-aligned bounds of a vertex stream.
func Summarize(vertices []Vertex) MeshInfo {
	info := MeshInfo{
		Vertices:  len(vertices),
		Triangles: len(vertices) / 3,
	}
	for i, v := range vertices {
		p := math.V3(v.Position)
		if i == 0 {
			info.Min, info.Max = p, p
			continue
		}
		info.Min = info.Min.Min(p)
		info.Max = info.Max.Max(p)
	}
	return info
}

// String returns a one-line description.
func (m MeshInfo) String() string {
	return fmt.Sprintf("%d vertices, %d triangles, bounds %v..%v",
		m.Vertices, m.Triangles, m.Min, m.Max)
}

// LoadMesh reads a geometry file, choosing the parser from its extension:
// .gltf and .glb go through the glTF loader, everything else is read as OBJ.
func LoadMesh(path string) ([]Vertex, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gltf", ".glb":
		return LoadGLTF(path)
	default:
		return LoadOBJ(path)
	}
}
