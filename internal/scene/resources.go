package scene

import (
	"fmt"
	"image"

	"github.com/Faultbox/penumbra/pkg/formats"
)

// GeometryFactory uploads a vertex stream and returns its GPU handle.
type GeometryFactory func(vertices []formats.Vertex) (Geometry, error)

// SamplerFactory uploads an image and returns its GPU handle.
type SamplerFactory func(img *image.RGBA) (Sampler, error)

// Upload creates the GPU side of every mesh, then every texture. Each mesh
// and texture is uploaded once no matter how many models use it. If any
// upload fails, everything created so far is released.
func (s *Scene) Upload(newGeometry GeometryFactory, newSampler SamplerFactory) error {
	for i := range s.Meshes {
		m := &s.Meshes[i]
		if m.Buffer != nil {
			continue
		}
		buf, err := newGeometry(m.Vertices)
		if err != nil {
			s.Release()
			return fmt.Errorf("uploading mesh %q: %w", m.ID, err)
		}
		m.Buffer = buf
	}

	for i := range s.Textures {
		t := &s.Textures[i]
		if t.Sampler != nil {
			continue
		}
		smp, err := newSampler(t.Image)
		if err != nil {
			s.Release()
			return fmt.Errorf("uploading texture %q: %w", t.ID, err)
		}
		t.Sampler = smp
	}
	return nil
}

// Release frees GPU resources in reverse allocation order: textures last to
// first, then meshes last to first. Calling it again is a no-op.
func (s *Scene) Release() {
	for i := len(s.Textures) - 1; i >= 0; i-- {
		if s.Textures[i].Sampler != nil {
			s.Textures[i].Sampler.Release()
			s.Textures[i].Sampler = nil
		}
	}
	for i := len(s.Meshes) - 1; i >= 0; i-- {
		if s.Meshes[i].Buffer != nil {
			s.Meshes[i].Buffer.Release()
			s.Meshes[i].Buffer = nil
		}
	}
}
