package debug

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Faultbox/penumbra/pkg/formats"
)

func TestPixelsToRGBA_Flips(t *testing.T) {
	// 1x2 image: bottom row red, top row blue.
	pixels := []byte{
		255, 0, 0, 255,
		0, 0, 255, 255,
	}
	img, err := PixelsToRGBA(pixels, 1, 2)
	if err != nil {
		t.Fatalf("PixelsToRGBA failed: %v", err)
	}
	if c := img.RGBAAt(0, 0); c.B != 255 {
		t.Errorf("top row should be blue, got %v", c)
	}
	if c := img.RGBAAt(0, 1); c.R != 255 {
		t.Errorf("bottom row should be red, got %v", c)
	}
}

func TestPixelsToRGBA_SizeMismatch(t *testing.T) {
	if _, err := PixelsToRGBA(make([]byte, 7), 1, 2); err == nil {
		t.Error("expected size mismatch error")
	}
}

func TestCaptureFromPixels(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	sc := NewScreenshotCapture(dir, "penumbra")
	sc.now = func() time.Time { return time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC) }

	path, err := sc.CaptureFromPixels(make([]byte, 4*4*4), 4, 4)
	if err != nil {
		t.Fatalf("capture failed: %v", err)
	}
	if want := filepath.Join(dir, "penumbra_2024-03-01_12-30-00.png"); path != want {
		t.Errorf("path: got %s, want %s", path, want)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("screenshot not written: %v", err)
	}

	second, err := sc.CaptureFromPixels(make([]byte, 4*4*4), 4, 4)
	if err != nil {
		t.Fatalf("second capture failed: %v", err)
	}
	if want := filepath.Join(dir, "penumbra_2024-03-01_12-30-00_1.png"); second != want {
		t.Errorf("same-second capture: got %s, want %s", second, want)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file left behind")
	}
}

func TestDepthToGray(t *testing.T) {
	// 2x2, bottom row first.
	depth := []float32{
		0, 1,
		0.5, 0.25,
	}
	img, err := DepthToGray(depth, 2, 2, false)
	if err != nil {
		t.Fatalf("DepthToGray failed: %v", err)
	}
	want := [][]uint8{
		{128, 64},
		{0, 255},
	}
	for y, row := range want {
		for x, v := range row {
			if got := img.GrayAt(x, y).Y; got != v {
				t.Errorf("(%d,%d): got %d, want %d", x, y, got, v)
			}
		}
	}
}

func TestDepthToGray_Stretch(t *testing.T) {
	depth := []float32{0.9, 0.95, 1, 1}
	img, err := DepthToGray(depth, 4, 1, true)
	if err != nil {
		t.Fatalf("DepthToGray failed: %v", err)
	}
	if got := img.GrayAt(0, 0).Y; got != 0 {
		t.Errorf("nearest depth should map to 0, got %d", got)
	}
	if got := img.GrayAt(1, 0).Y; got < 126 || got > 129 {
		t.Errorf("midpoint should map near 128, got %d", got)
	}
	if got := img.GrayAt(3, 0).Y; got != 255 {
		t.Errorf("cleared depth should map to 255, got %d", got)
	}
}

func TestDepthToGray_StretchEmpty(t *testing.T) {
	img, err := DepthToGray([]float32{1, 1}, 2, 1, true)
	if err != nil {
		t.Fatalf("DepthToGray failed: %v", err)
	}
	if img.GrayAt(0, 0).Y != 255 {
		t.Errorf("empty layer should stay white, got %d", img.GrayAt(0, 0).Y)
	}
}

type fakeDepth struct {
	layers [][]float32
}

func (f fakeDepth) ReadLayer(i int) ([]float32, error) {
	if i >= len(f.layers) {
		return nil, errors.New("no such layer")
	}
	return f.layers[i], nil
}

func TestDumpDepthLayers(t *testing.T) {
	dir := t.TempDir()
	r := fakeDepth{layers: [][]float32{
		{0, 0.5, 1, 1},
		{1, 1, 1, 0},
	}}

	paths, err := DumpDepthLayers(r, 2, 2, 2, dir, false)
	if err != nil {
		t.Fatalf("dump failed: %v", err)
	}
	if len(paths) != 2 || filepath.Base(paths[1]) != "shadow_layer_1.tga" {
		t.Fatalf("paths: got %v", paths)
	}

	data, err := os.ReadFile(paths[0])
	if err != nil {
		t.Fatalf("read dump: %v", err)
	}
	if data[2] != formats.TGATypeGrayscale || data[16] != 8 {
		t.Errorf("header: type %d, bpp %d", data[2], data[16])
	}
	// Bottom-up TGA rows reproduce the GL read-back order.
	if got := data[18:22]; got[0] != 0 || got[1] != 128 || got[2] != 255 || got[3] != 255 {
		t.Errorf("pixel data: got %v", got)
	}
}

func TestDumpDepthLayers_ReadError(t *testing.T) {
	paths, err := DumpDepthLayers(fakeDepth{layers: [][]float32{{1}}}, 2, 1, 1, t.TempDir(), false)
	if err == nil {
		t.Fatal("expected error for missing layer")
	}
	if len(paths) != 1 {
		t.Errorf("layers written before the error should be reported, got %v", paths)
	}
}
