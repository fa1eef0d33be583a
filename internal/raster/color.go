package raster

import (
	"fmt"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// RGBColor represents an RGB color with 8-bit components (0-255).
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-359 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorResult contains a pixel color in several representations.
type ColorResult struct {
	X   int      `json:"x"`   // X coordinate that was sampled
	Y   int      `json:"y"`   // Y coordinate that was sampled
	Hex string   `json:"hex"` // Hex format "#RRGGBB"
	RGB RGBColor `json:"rgb"` // RGB components
	HSL HSLColor `json:"hsl"` // HSL representation
}

// SampleColor returns the color of the pixel at (x, y).
//
// Valid coordinates are 0 to Width-1 and 0 to Height-1; anything else is
// an error.
func SampleColor(img *Image, x, y int) (*ColorResult, error) {
	if x < 0 || x >= img.Width || y < 0 || y >= img.Height {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds", x, y)
	}

	r, g, b := img.RGB(x, y)
	c := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	h, s, l := c.Hsl()

	return &ColorResult{
		X:   x,
		Y:   y,
		Hex: fmt.Sprintf("#%02X%02X%02X", r, g, b),
		RGB: RGBColor{R: r, G: g, B: b},
		HSL: HSLColor{
			H: int(math.Round(h)) % 360,
			S: int(math.Round(s * 100)),
			L: int(math.Round(l * 100)),
		},
	}, nil
}
