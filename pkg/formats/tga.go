package formats

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
)

// TGA image type constants.
const (
	TGATypeTrueColor    = 2  // Uncompressed true-color
	TGATypeGrayscale    = 3  // Uncompressed black and white
	TGATypeTrueColorRLE = 10 // RLE compressed true-color
)

const tgaHeaderSize = 18

// TGA errors.
var (
	ErrTGATruncated   = errors.New("truncated TGA data")
	ErrTGAUnsupported = errors.New("unsupported TGA variant")
)

// DecodeTGA decodes uncompressed or RLE true-color and uncompressed
// grayscale TGA images.
func DecodeTGA(data []byte) (image.Image, error) {
	if len(data) < tgaHeaderSize {
		return nil, ErrTGATruncated
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	// Bit 5 of the descriptor selects top-to-bottom row order.
	topToBottom := data[17]&0x20 != 0

	if colorMapType != 0 {
		return nil, fmt.Errorf("%w: color-mapped", ErrTGAUnsupported)
	}

	offset := tgaHeaderSize + idLength
	if offset > len(data) {
		return nil, ErrTGATruncated
	}
	pixels := data[offset:]

	row := func(y int) int {
		if topToBottom {
			return y
		}
		return height - 1 - y
	}

	switch imageType {
	case TGATypeGrayscale:
		if bpp != 8 {
			return nil, fmt.Errorf("%w: %d-bit grayscale", ErrTGAUnsupported, bpp)
		}
		if len(pixels) < width*height {
			return nil, ErrTGATruncated
		}
		img := image.NewGray(image.Rect(0, 0, width, height))
		for y := 0; y < height; y++ {
			copy(img.Pix[row(y)*img.Stride:], pixels[y*width:(y+1)*width])
		}
		return img, nil

	case TGATypeTrueColor, TGATypeTrueColorRLE:
		if bpp != 24 && bpp != 32 {
			return nil, fmt.Errorf("%w: %d-bit true-color", ErrTGAUnsupported, bpp)
		}
		img := image.NewRGBA(image.Rect(0, 0, width, height))
		bytesPerPixel := bpp / 8
		put := func(i int, px []byte) {
			c := color.RGBA{R: px[2], G: px[1], B: px[0], A: 255}
			if bytesPerPixel == 4 {
				c.A = px[3]
			}
			img.SetRGBA(i%width, row(i/width), c)
		}

		if imageType == TGATypeTrueColor {
			if len(pixels) < width*height*bytesPerPixel {
				return nil, ErrTGATruncated
			}
			for i := 0; i < width*height; i++ {
				put(i, pixels[i*bytesPerPixel:])
			}
			return img, nil
		}

		if err := decodeTGARLE(pixels, width*height, bytesPerPixel, put); err != nil {
			return nil, err
		}
		return img, nil

	default:
		return nil, fmt.Errorf("%w: type %d", ErrTGAUnsupported, imageType)
	}
}

// decodeTGARLE walks RLE packets and hands each decoded pixel to put.
func decodeTGARLE(data []byte, pixelCount, bytesPerPixel int, put func(int, []byte)) error {
	pixelIdx := 0
	dataIdx := 0

	for pixelIdx < pixelCount {
		if dataIdx >= len(data) {
			return ErrTGATruncated
		}
		packet := data[dataIdx]
		dataIdx++
		count := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			// Run packet: one pixel repeated.
			if dataIdx+bytesPerPixel > len(data) {
				return ErrTGATruncated
			}
			px := data[dataIdx : dataIdx+bytesPerPixel]
			dataIdx += bytesPerPixel
			for i := 0; i < count && pixelIdx < pixelCount; i++ {
				put(pixelIdx, px)
				pixelIdx++
			}
			continue
		}

		// Raw packet: count literal pixels.
		for i := 0; i < count && pixelIdx < pixelCount; i++ {
			if dataIdx+bytesPerPixel > len(data) {
				return ErrTGATruncated
			}
			put(pixelIdx, data[dataIdx:dataIdx+bytesPerPixel])
			dataIdx += bytesPerPixel
			pixelIdx++
		}
	}

	return nil
}

// EncodeGrayTGA writes img as an uncompressed 8-bit grayscale TGA with the
// default bottom-left origin.
func EncodeGrayTGA(w io.Writer, img *image.Gray) error {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	if width > 0xFFFF || height > 0xFFFF {
		return fmt.Errorf("%w: %dx%d too large", ErrTGAUnsupported, width, height)
	}

	var header [tgaHeaderSize]byte
	header[2] = TGATypeGrayscale
	header[12] = byte(width)
	header[13] = byte(width >> 8)
	header[14] = byte(height)
	header[15] = byte(height >> 8)
	header[16] = 8

	bw := bufio.NewWriter(w)
	if _, err := bw.Write(header[:]); err != nil {
		return err
	}
	for y := height - 1; y >= 0; y-- {
		start := img.PixOffset(b.Min.X, b.Min.Y+y)
		if _, err := bw.Write(img.Pix[start : start+width]); err != nil {
			return err
		}
	}
	return bw.Flush()
}
