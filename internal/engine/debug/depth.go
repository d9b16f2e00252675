package debug

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/Faultbox/penumbra/pkg/formats"
)

// DepthReader reads back one layer of a layered depth texture.
type DepthReader interface {
	ReadLayer(layer int) ([]float32, error)
}

// DepthToGray converts bottom-up depth values in [0,1] to a top-down
// greyscale image. With stretch set, the occupied depth range is mapped to
// the full 0..255 range, which makes perspective depth readable.
func DepthToGray(depth []float32, width, height int, stretch bool) (*image.Gray, error) {
	if len(depth) != width*height {
		return nil, fmt.Errorf("depth data size mismatch: expected %d, got %d", width*height, len(depth))
	}

	lo, hi := float32(0), float32(1)
	if stretch {
		lo, hi = depthRange(depth)
	}
	scale := float32(255)
	if hi > lo {
		scale = 255 / (hi - lo)
	}

	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		src := depth[(height-1-y)*width : (height-y)*width]
		dst := img.Pix[y*img.Stride : y*img.Stride+width]
		for x, d := range src {
			v := (d - lo) * scale
			switch {
			case v < 0:
				v = 0
			case v > 255:
				v = 255
			}
			dst[x] = uint8(v + 0.5)
		}
	}
	return img, nil
}

// depthRange returns the nearest drawn depth and the cleared depth 1, or
// 0 and 1 when nothing was drawn.
func depthRange(depth []float32) (lo, hi float32) {
	lo = 1
	for _, d := range depth {
		if d < lo {
			lo = d
		}
	}
	if lo >= 1 {
		return 0, 1
	}
	return lo, 1
}

// DumpDepthLayers writes layers 0..count-1 to dir as shadow_layer_<i>.tga
// and returns the written paths.
func DumpDepthLayers(r DepthReader, count, width, height int, dir string, stretch bool) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating dump dir: %w", err)
	}

	paths := make([]string, 0, count)
	for i := 0; i < count; i++ {
		depth, err := r.ReadLayer(i)
		if err != nil {
			return paths, fmt.Errorf("reading layer %d: %w", i, err)
		}
		img, err := DepthToGray(depth, width, height, stretch)
		if err != nil {
			return paths, fmt.Errorf("layer %d: %w", i, err)
		}

		path := filepath.Join(dir, fmt.Sprintf("shadow_layer_%d.tga", i))
		if err := writeGrayTGA(path, img); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeGrayTGA(path string, img *image.Gray) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := formats.EncodeGrayTGA(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}
