package raster

import (
	"bytes"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Channels is the number of color channels stored per pixel.
const Channels = 3

// Image is an 8-bit RGB pixel buffer.
//
// Pix holds Channels bytes per pixel in row-major order, so the pixel at
// (x, y) starts at Pix[(y*Width+x)*Channels]. Width and Height are positive
// for every Image produced by this package.
//
// Image implements image.Image so it can be handed to any function of the
// standard image ecosystem; NRGBA returns a copy in the layout most imaging
// libraries process fastest.
type Image struct {
	Width  int
	Height int
	Pix    []uint8
}

// New allocates a black image of the given size.
func New(width, height int) *Image {
	return &Image{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*Channels),
	}
}

// FromImage converts any image.Image into an RGB Image.
//
// The source is read through its non-premultiplied color values and the
// alpha channel is dropped. The result always starts at (0, 0) regardless
// of the source bounds.
func FromImage(src image.Image) *Image {
	nrgba, ok := src.(*image.NRGBA)
	if !ok || nrgba.Rect.Min != (image.Point{}) {
		nrgba = imaging.Clone(src)
	}

	w := nrgba.Rect.Dx()
	h := nrgba.Rect.Dy()
	out := New(w, h)

	for y := 0; y < h; y++ {
		srcRow := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+w*4]
		dstRow := out.Pix[y*w*Channels : (y+1)*w*Channels]
		for x := 0; x < w; x++ {
			dstRow[x*3+0] = srcRow[x*4+0]
			dstRow[x*3+1] = srcRow[x*4+1]
			dstRow[x*3+2] = srcRow[x*4+2]
		}
	}

	return out
}

// NRGBA returns an opaque *image.NRGBA copy of the image.
func (m *Image) NRGBA() *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, m.Width, m.Height))
	for i, j := 0, 0; i < len(m.Pix); i, j = i+3, j+4 {
		dst.Pix[j+0] = m.Pix[i+0]
		dst.Pix[j+1] = m.Pix[i+1]
		dst.Pix[j+2] = m.Pix[i+2]
		dst.Pix[j+3] = 0xff
	}
	return dst
}

// Clone returns a deep copy that shares no memory with m.
func (m *Image) Clone() *Image {
	pix := make([]uint8, len(m.Pix))
	copy(pix, m.Pix)
	return &Image{Width: m.Width, Height: m.Height, Pix: pix}
}

// Equal reports whether both images have the same size and pixel content.
func (m *Image) Equal(other *Image) bool {
	if m == nil || other == nil {
		return m == other
	}
	return m.Width == other.Width && m.Height == other.Height && bytes.Equal(m.Pix, other.Pix)
}

// PixOffset returns the index of the first byte of the pixel at (x, y).
func (m *Image) PixOffset(x, y int) int {
	return (y*m.Width + x) * Channels
}

// RGB returns the channel values of the pixel at (x, y).
// Out-of-range coordinates return black.
func (m *Image) RGB(x, y int) (r, g, b uint8) {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return 0, 0, 0
	}
	i := m.PixOffset(x, y)
	return m.Pix[i], m.Pix[i+1], m.Pix[i+2]
}

// ColorModel implements image.Image.
func (m *Image) ColorModel() color.Model { return color.RGBAModel }

// Bounds implements image.Image.
func (m *Image) Bounds() image.Rectangle { return image.Rect(0, 0, m.Width, m.Height) }

// At implements image.Image.
func (m *Image) At(x, y int) color.Color {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return color.RGBA{}
	}
	r, g, b := m.RGB(x, y)
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}
