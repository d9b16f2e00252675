package texture

import (
	"image"
	"image/color"
	"testing"
)

func TestFloorPow2(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, 1},
		{1, 1},
		{2, 2},
		{3, 2},
		{255, 128},
		{256, 256},
		{1000, 512},
	}
	for _, tt := range tests {
		if got := FloorPow2(tt.in); got != tt.want {
			t.Errorf("FloorPow2(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestFlipVertical(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 3))
	for y := 0; y < 3; y++ {
		img.Set(0, y, color.RGBA{R: uint8(y), A: 255})
	}
	out := FlipVertical(img)
	for y := 0; y < 3; y++ {
		if got := out.RGBAAt(0, y).R; got != uint8(2-y) {
			t.Errorf("row %d: got R=%d, want %d", y, got, 2-y)
		}
	}
}

func TestFlipVertical_SubImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{G: 200, A: 255})
	sub := img.SubImage(image.Rect(1, 1, 3, 3)).(*image.RGBA)

	out := FlipVertical(sub)
	if out.Bounds() != image.Rect(0, 0, 2, 2) {
		t.Fatalf("bounds: got %v", out.Bounds())
	}
	if got := out.RGBAAt(0, 1).G; got != 200 {
		t.Errorf("top-left of sub image should land bottom-left, got G=%d", got)
	}
}

func TestPrepare_ResamplesToPow2(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 70))
	out := Prepare(img)
	if out.Bounds().Dx() != 64 || out.Bounds().Dy() != 64 {
		t.Errorf("size: got %v, want 64x64", out.Bounds().Size())
	}
}

func TestPrepare_KeepsPow2Size(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 16, 8))
	img.Set(0, 0, color.RGBA{B: 9, A: 255})
	out := Prepare(img)
	if out.Bounds().Dx() != 16 || out.Bounds().Dy() != 8 {
		t.Fatalf("size: got %v, want 16x8", out.Bounds().Size())
	}
	if got := out.RGBAAt(0, 7).B; got != 9 {
		t.Errorf("expected flipped pixel at (0,7), got B=%d", got)
	}
}

func TestNew_Empty(t *testing.T) {
	if _, err := New(nil); err != ErrEmptyImage {
		t.Errorf("expected ErrEmptyImage, got %v", err)
	}
}
