// Package raster provides the in-memory image type and the pure pixel
// operations of the editor.
//
// Every function in this package takes an *Image and returns a new *Image;
// inputs are never modified. All images carry exactly three 8-bit channels
// (RGB) stored row-major, so a decoded file with alpha, a palette or a
// grayscale color model is normalized on the way in.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with the origin at the top-left corner:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive (bottom-right)
//
// # Operations
//
// Geometric:
//   - Translate: paste onto a same-size black canvas at an offset
//   - Rotate: counter-clockwise about the center, canvas expands
//   - Resize: Lanczos resampling to an exact width and height
//   - Mirror: left-right flip
//   - Crop: extract a rectangular region
//
// Photometric:
//   - Equalize: per-channel histogram equalization
//   - Smooth: box, Gaussian or median filtering
//
// # Codec
//
// Decode accepts PNG, JPEG and BMP data. Output is always PNG (EncodePNG,
// WriteFile), which is lossless for 8-bit RGB.
//
// # Thread Safety
//
// Images are immutable by convention once returned from this package, so
// they may be shared between goroutines for reading. Callers that write to
// Pix directly must synchronize themselves.
package raster
