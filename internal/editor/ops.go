package editor

import (
	"fmt"
	"math"

	"github.com/ironsheep/image-editor-mcp/internal/raster"
)

// Kind identifies an operation type.
type Kind string

const (
	KindTranslate Kind = "translate"
	KindRotate    Kind = "rotate"
	KindResize    Kind = "resize"
	KindMirror    Kind = "mirror"
	KindCrop      Kind = "crop"
	KindEqualize  Kind = "equalize"
	KindSmooth    Kind = "smooth"
)

// Parameter limits enforced by Apply.
const (
	MaxTranslateOffset = 500
	MaxRotateAngle     = 360.0

	// MaxResizePixels bounds Width*Height of a resize target (64 megapixels).
	MaxResizePixels = 1 << 26
)

// Op is a transformation request for Engine.Apply. The set of operations is
// closed: Translate, Rotate, Resize, Mirror, Crop, Equalize and Smooth.
type Op interface {
	Kind() Kind

	// validate checks the parameters against the current image.
	validate(cur *raster.Image) error

	// apply computes the transformed image. It must not modify cur.
	apply(cur *raster.Image, opts *Options) (*raster.Image, error)
}

// Translate moves the image by (DX, DY) on a same-size black canvas.
type Translate struct {
	DX int `json:"dx"`
	DY int `json:"dy"`
}

func (Translate) Kind() Kind { return KindTranslate }

func (o Translate) validate(*raster.Image) error {
	if err := checkRange(KindTranslate, "dx", o.DX, -MaxTranslateOffset, MaxTranslateOffset); err != nil {
		return err
	}
	return checkRange(KindTranslate, "dy", o.DY, -MaxTranslateOffset, MaxTranslateOffset)
}

func (o Translate) apply(cur *raster.Image, _ *Options) (*raster.Image, error) {
	return raster.Translate(cur, o.DX, o.DY), nil
}

// Rotate turns the image counter-clockwise by Angle degrees, expanding the
// canvas.
type Rotate struct {
	Angle float64 `json:"angle"`
}

func (Rotate) Kind() Kind { return KindRotate }

func (o Rotate) validate(*raster.Image) error {
	if math.IsNaN(o.Angle) || math.IsInf(o.Angle, 0) {
		return &ValidationError{Op: KindRotate, Param: "angle", Reason: "must be a finite number"}
	}
	if o.Angle < -MaxRotateAngle || o.Angle > MaxRotateAngle {
		return &ValidationError{
			Op:     KindRotate,
			Param:  "angle",
			Reason: fmt.Sprintf("%g outside [%g, %g]", o.Angle, -MaxRotateAngle, MaxRotateAngle),
		}
	}
	return nil
}

func (o Rotate) apply(cur *raster.Image, opts *Options) (*raster.Image, error) {
	return raster.Rotate(cur, o.Angle, opts.Background), nil
}

// Resize resamples the image to exactly Width x Height.
type Resize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (Resize) Kind() Kind { return KindResize }

func (o Resize) validate(*raster.Image) error {
	if o.Width < 1 {
		return &ValidationError{Op: KindResize, Param: "width", Reason: fmt.Sprintf("%d is less than 1", o.Width)}
	}
	if o.Height < 1 {
		return &ValidationError{Op: KindResize, Param: "height", Reason: fmt.Sprintf("%d is less than 1", o.Height)}
	}
	// Width*Height can overflow int; compare by division.
	if o.Width > MaxResizePixels/o.Height {
		return &ValidationError{
			Op:     KindResize,
			Reason: fmt.Sprintf("%dx%d exceeds the limit of %d pixels", o.Width, o.Height, MaxResizePixels),
		}
	}
	return nil
}

func (o Resize) apply(cur *raster.Image, _ *Options) (*raster.Image, error) {
	return raster.Resize(cur, o.Width, o.Height)
}

// Mirror flips the image left to right.
type Mirror struct{}

func (Mirror) Kind() Kind { return KindMirror }

func (Mirror) validate(*raster.Image) error { return nil }

func (Mirror) apply(cur *raster.Image, _ *Options) (*raster.Image, error) {
	return raster.Mirror(cur), nil
}

// Crop keeps the region (X1,Y1)-(X2,Y2) of the current image, with X2 and
// Y2 exclusive. Each coordinate must lie within the current bounds and the
// region must have a positive area.
type Crop struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

func (Crop) Kind() Kind { return KindCrop }

func (o Crop) validate(cur *raster.Image) error {
	checks := []struct {
		name     string
		v, limit int
	}{
		{"x1", o.X1, cur.Width},
		{"y1", o.Y1, cur.Height},
		{"x2", o.X2, cur.Width},
		{"y2", o.Y2, cur.Height},
	}
	for _, c := range checks {
		if err := checkRange(KindCrop, c.name, c.v, 0, c.limit); err != nil {
			return err
		}
	}

	if o.X2 <= o.X1 || o.Y2 <= o.Y1 {
		return &ValidationError{
			Op:     KindCrop,
			Reason: fmt.Sprintf("region (%d,%d)-(%d,%d) has no area: x2 must be > x1 and y2 must be > y1", o.X1, o.Y1, o.X2, o.Y2),
		}
	}
	return nil
}

func (o Crop) apply(cur *raster.Image, _ *Options) (*raster.Image, error) {
	return raster.Crop(cur, o.X1, o.Y1, o.X2, o.Y2)
}

// Equalize equalizes the histogram of each color channel independently.
type Equalize struct{}

func (Equalize) Kind() Kind { return KindEqualize }

func (Equalize) validate(*raster.Image) error { return nil }

func (Equalize) apply(cur *raster.Image, _ *Options) (*raster.Image, error) {
	return raster.Equalize(cur), nil
}

// Smooth applies a smoothing filter selected by name: Average, Gaussian,
// Median or Bilateral (an alias of Gaussian).
type Smooth struct {
	Method string `json:"method"`
}

func (Smooth) Kind() Kind { return KindSmooth }

func (o Smooth) validate(*raster.Image) error {
	if _, err := raster.ParseSmoothMethod(o.Method); err != nil {
		return &ValidationError{Op: KindSmooth, Param: "method", Reason: err.Error()}
	}
	return nil
}

func (o Smooth) apply(cur *raster.Image, _ *Options) (*raster.Image, error) {
	m, err := raster.ParseSmoothMethod(o.Method)
	if err != nil {
		return nil, err
	}
	return raster.Smooth(cur, m)
}

// isNilOp reports whether op is nil or a nil pointer to one of the
// operation structs.
func isNilOp(op Op) bool {
	switch o := op.(type) {
	case nil:
		return true
	case *Translate:
		return o == nil
	case *Rotate:
		return o == nil
	case *Resize:
		return o == nil
	case *Mirror:
		return o == nil
	case *Crop:
		return o == nil
	case *Equalize:
		return o == nil
	case *Smooth:
		return o == nil
	}
	return false
}

func checkRange(op Kind, param string, v, lo, hi int) error {
	if v < lo || v > hi {
		return &ValidationError{Op: op, Param: param, Reason: fmt.Sprintf("%d outside [%d, %d]", v, lo, hi)}
	}
	return nil
}
