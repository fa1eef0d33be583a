package raster

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp" // Register BMP format decoder
)

// ErrUnsupportedFormat is returned by Decode for data in a format the editor
// does not accept, even when the Go image registry could decode it.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// supportedFormats maps image registry format names to the accepted inputs.
var supportedFormats = map[string]bool{
	"png":  true,
	"jpeg": true,
	"bmp":  true,
}

// Decode parses PNG, JPEG or BMP data into an RGB Image.
//
// Returns:
//   - *Image: The decoded image, normalized to three channels.
//   - string: The detected format name ("png", "jpeg" or "bmp").
//   - error: Non-nil if the data is not a decodable image, is in another
//     format (ErrUnsupportedFormat), or has an empty size.
func Decode(data []byte) (*Image, string, error) {
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	if !supportedFormats[format] {
		return nil, format, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if src.Bounds().Empty() {
		return nil, format, fmt.Errorf("image has empty bounds %v", src.Bounds())
	}
	return FromImage(src), format, nil
}

// FormatFromExtension returns the format name implied by a file extension.
//
// Detection is case-insensitive and based on the extension only:
//   - ".png" -> "png"
//   - ".jpg", ".jpeg" -> "jpeg"
//   - ".bmp" -> "bmp"
//
// The second result is false for any other extension.
func FormatFromExtension(path string) (string, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "png", true
	case ".jpg", ".jpeg":
		return "jpeg", true
	case ".bmp":
		return "bmp", true
	}
	return "", false
}

// EncodePNG writes img to w as a PNG.
func EncodePNG(w io.Writer, img *Image) error {
	if err := imaging.Encode(w, img.NRGBA(), imaging.PNG); err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}
	return nil
}

// WriteFile encodes img as PNG into the file at path, creating or
// truncating it. The extension of path is not consulted.
func WriteFile(path string, img *Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close file: %w", cerr)
		}
	}()

	return EncodePNG(f, img)
}
