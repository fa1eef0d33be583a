package raster

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Translate pastes img onto a black canvas of the same size with its
// top-left corner at (dx, dy). Pixels moved past the canvas edge are lost
// and uncovered pixels stay black; nothing wraps around.
func Translate(img *Image, dx, dy int) *Image {
	canvas := imaging.New(img.Width, img.Height, color.Black)
	return FromImage(imaging.Paste(canvas, img.NRGBA(), image.Pt(dx, dy)))
}

// Rotate rotates img counter-clockwise by angle degrees about its center.
//
// The output canvas grows to hold the whole rotated image, so for angles
// that are not multiples of 180 the dimensions change. Uncovered corners
// are filled with bg. Multiples of 90 degrees are exact pixel permutations.
func Rotate(img *Image, angle float64, bg color.Color) *Image {
	return FromImage(imaging.Rotate(img.NRGBA(), angle, bg))
}

// Resize resamples img to exactly width x height using a Lanczos filter.
// The aspect ratio is not preserved.
func Resize(img *Image, width, height int) (*Image, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("invalid size %dx%d: both dimensions must be at least 1", width, height)
	}
	return FromImage(imaging.Resize(img.NRGBA(), width, height, imaging.Lanczos)), nil
}

// Mirror flips img left to right.
func Mirror(img *Image) *Image {
	return FromImage(imaging.FlipH(img.NRGBA()))
}

// Crop extracts the region (x1,y1)-(x2,y2) from img, where (x2,y2) is
// exclusive. The region must lie inside the image and have a positive area.
func Crop(img *Image, x1, y1, x2, y2 int) (*Image, error) {
	if x1 < 0 || y1 < 0 || x2 > img.Width || y2 > img.Height {
		return nil, fmt.Errorf("crop region (%d,%d)-(%d,%d) outside image bounds (0,0)-(%d,%d)",
			x1, y1, x2, y2, img.Width, img.Height)
	}
	if x1 >= x2 || y1 >= y2 {
		return nil, fmt.Errorf("invalid crop region: x1 must be < x2, y1 must be < y2")
	}

	return FromImage(imaging.Crop(img.NRGBA(), image.Rect(x1, y1, x2, y2))), nil
}

// Thumbnail downsizes img so that neither dimension exceeds maxSize,
// preserving the aspect ratio. Images that already fit are returned as a
// copy. A maxSize below 1 disables the limit.
func Thumbnail(img *Image, maxSize int) *Image {
	if maxSize < 1 || (img.Width <= maxSize && img.Height <= maxSize) {
		return img.Clone()
	}
	return FromImage(imaging.Fit(img.NRGBA(), maxSize, maxSize, imaging.Lanczos))
}
