// Package texture uploads decoded images as OpenGL 2D textures.
package texture

import (
	"errors"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"
	"golang.org/x/image/draw"

	"github.com/Faultbox/penumbra/internal/logger"
)

// ErrEmptyImage is returned for nil or zero-sized images.
var ErrEmptyImage = errors.New("texture: empty image")

// Texture is an uploaded 2D texture with mipmaps.
type Texture struct {
	ID     uint32
	Width  int
	Height int
}

// New prepares img with Prepare and uploads the result.
func New(img *image.RGBA) (*Texture, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	src := img.Bounds()
	img = Prepare(img)
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if w != src.Dx() || h != src.Dy() {
		logger.Debug("texture resampled",
			zap.Int("from_w", src.Dx()), zap.Int("from_h", src.Dy()),
			zap.Int("to_w", w), zap.Int("to_h", h))
	}

	t := &Texture{Width: w, Height: h}
	gl.GenTextures(1, &t.ID)
	gl.BindTexture(gl.TEXTURE_2D, t.ID)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(w), int32(h), 0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pix[0]))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return t, nil
}

// Bind binds the texture to the given texture unit.
func (t *Texture) Bind(unit uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, t.ID)
}

// Release deletes the texture. Calling it twice is safe.
func (t *Texture) Release() {
	if t.ID != 0 {
		gl.DeleteTextures(1, &t.ID)
		t.ID = 0
	}
}

// Prepare returns img flipped to bottom-up row order, resampled down to the
// largest power-of-two size that fits. Row 0 of the result is the bottom of
// the picture, which is where GL expects texture coordinate t = 0.
func Prepare(img *image.RGBA) *image.RGBA {
	b := img.Bounds()
	w, h := FloorPow2(b.Dx()), FloorPow2(b.Dy())
	if w != b.Dx() || h != b.Dy() {
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
		img = dst
	}
	return FlipVertical(img)
}

// FlipVertical returns a copy of img with its rows in reverse order.
func FlipVertical(img *image.RGBA) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	row := b.Dx() * 4
	for y := 0; y < b.Dy(); y++ {
		src := img.PixOffset(b.Min.X, b.Max.Y-1-y)
		dst := out.PixOffset(0, y)
		copy(out.Pix[dst:dst+row], img.Pix[src:src+row])
	}
	return out
}

// FloorPow2 returns the largest power of two not greater than n, or 1 for
// n < 1.
func FloorPow2(n int) int {
	p := 1
	for p*2 <= n {
		p *= 2
	}
	return p
}
