package raster

import (
	"fmt"
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/histogram"
	"github.com/disintegration/gift"
	"github.com/disintegration/imaging"
)

// Equalize applies histogram equalization to each color channel
// independently. Because the channels are remapped separately the color
// balance may shift.
//
// A channel whose values all fall into a single bin, or whose histogram is
// too sparse to produce a non-zero step, is left unchanged.
func Equalize(img *Image) *Image {
	src := img.NRGBA()
	hist := histogram.NewRGBAHistogram(src)

	lutR := equalizeLUT(hist.R.Bins)
	lutG := equalizeLUT(hist.G.Bins)
	lutB := equalizeLUT(hist.B.Bins)

	out := adjust.Apply(src, func(c color.RGBA) color.RGBA {
		return color.RGBA{R: lutR[c.R], G: lutG[c.G], B: lutB[c.B], A: c.A}
	})
	return FromImage(out)
}

// equalizeLUT builds the lookup table for one channel from its 256-bin
// histogram. The step is the pixel count excluding the last populated bin,
// divided over 255 output levels; each input level maps to the cumulative
// count below it (offset by half a step) divided by the step.
func equalizeLUT(bins []int) [256]uint8 {
	var lut [256]uint8
	for i := range lut {
		lut[i] = uint8(i)
	}

	total, populated, last := 0, 0, 0
	for _, n := range bins {
		if n > 0 {
			total += n
			populated++
			last = n
		}
	}
	if populated <= 1 {
		return lut
	}

	step := (total - last) / 255
	if step == 0 {
		return lut
	}

	n := step / 2
	for i := 0; i < 256 && i < len(bins); i++ {
		v := n / step
		if v > 255 {
			v = 255
		}
		lut[i] = uint8(v)
		n += bins[i]
	}
	return lut
}

// SmoothMethod names a smoothing filter.
type SmoothMethod string

const (
	// SmoothAverage is a 5x5 box blur (radius 2).
	SmoothAverage SmoothMethod = "Average"
	// SmoothGaussian is a Gaussian blur with sigma 2.
	SmoothGaussian SmoothMethod = "Gaussian"
	// SmoothMedian is a 3x3 median filter taken per channel.
	SmoothMedian SmoothMethod = "Median"
	// SmoothBilateral is an alias of SmoothGaussian. No edge-preserving
	// bilateral filter is performed.
	SmoothBilateral SmoothMethod = "Bilateral"
)

const (
	boxRadius     = 2.0
	gaussianSigma = 2.0
	medianSize    = 3
)

// SmoothMethods lists the accepted method names in display order.
var SmoothMethods = []SmoothMethod{SmoothAverage, SmoothGaussian, SmoothMedian, SmoothBilateral}

// legacyMethodNames maps the Spanish menu labels still sent by older clients.
var legacyMethodNames = map[string]SmoothMethod{
	"Promedio":  SmoothAverage,
	"Gaussiano": SmoothGaussian,
	"Mediana":   SmoothMedian,
}

// ParseSmoothMethod resolves a method name. Names are case-sensitive; the
// Spanish labels Promedio, Gaussiano and Mediana are accepted as aliases.
func ParseSmoothMethod(name string) (SmoothMethod, error) {
	for _, m := range SmoothMethods {
		if string(m) == name {
			return m, nil
		}
	}
	if m, ok := legacyMethodNames[name]; ok {
		return m, nil
	}
	return "", fmt.Errorf("unknown smoothing method: %q", name)
}

// Smooth applies the named smoothing filter. The image size is unchanged.
func Smooth(img *Image, method SmoothMethod) (*Image, error) {
	src := img.NRGBA()

	switch method {
	case SmoothAverage:
		return FromImage(blur.Box(src, boxRadius)), nil
	case SmoothGaussian, SmoothBilateral:
		return FromImage(imaging.Blur(src, gaussianSigma)), nil
	case SmoothMedian:
		return FromImage(medianFilter(src)), nil
	default:
		return nil, fmt.Errorf("unknown smoothing method: %q", method)
	}
}

// medianFilter replaces each channel value with the median of that channel
// over the 3x3 neighborhood. Edge pixels are replicated outward.
func medianFilter(src *image.NRGBA) *image.NRGBA {
	g := gift.New(gift.Median(medianSize, false))
	dst := image.NewNRGBA(g.Bounds(src.Bounds()))
	g.Draw(dst, src)
	return dst
}
