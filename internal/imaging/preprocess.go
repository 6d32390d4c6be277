package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Filter selects the resampling quality used when downscaling.
type Filter int

const (
	// FilterLanczos is a high-quality resampling filter. Slower, but
	// preserves glyph edges; used by the accuracy-first profile.
	FilterLanczos Filter = iota

	// FilterNearest is nearest-neighbor resampling. Fast and rough;
	// used by the latency-first screen-capture profile.
	FilterNearest
)

func (f Filter) resample() imaging.ResampleFilter {
	switch f {
	case FilterNearest:
		return imaging.NearestNeighbor
	default:
		return imaging.Lanczos
	}
}

// FitWithin downscales img so both dimensions are at most max pixels,
// preserving aspect ratio. Images already within the cap are returned
// unchanged; FitWithin never upscales.
func FitWithin(img image.Image, max int, filter Filter) image.Image {
	bounds := img.Bounds()
	if bounds.Dx() <= max && bounds.Dy() <= max {
		return img
	}
	return imaging.Fit(img, max, max, filter.resample())
}

// ToRGB returns img converted to a 3-channel (plus alpha) color image.
func ToRGB(img image.Image) image.Image {
	return imaging.Clone(img)
}

// ToGray returns img converted to grayscale.
func ToGray(img image.Image) image.Image {
	return imaging.Grayscale(img)
}

// EnhanceDocument boosts contrast and sharpens glyph edges. Intended
// for photographed or scanned documents before accuracy-first
// extraction.
func EnhanceDocument(img image.Image) image.Image {
	return effect.Sharpen(adjust.Contrast(img, 0.15))
}

// darkSampleTarget caps how many pixels MeanLightness inspects.
const darkSampleTarget = 4096

// MeanLightness estimates the perceptual lightness of img in [0, 1]
// by sampling pixels on a sparse grid and averaging their CIE Lab L
// component.
func MeanLightness(img image.Image) float64 {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return 1
	}

	step := 1
	for (w/step)*(h/step) > darkSampleTarget {
		step++
	}

	var sum float64
	var n int
	for y := bounds.Min.Y; y < bounds.Max.Y; y += step {
		for x := bounds.Min.X; x < bounds.Max.X; x += step {
			c, ok := colorful.MakeColor(img.At(x, y))
			if !ok {
				continue // fully transparent pixel
			}
			l, _, _ := c.Lab()
			sum += l
			n++
		}
	}
	if n == 0 {
		return 1
	}
	return sum / float64(n)
}

// InvertIfDark returns an inverted copy of img when its mean lightness
// falls below threshold, along with whether inversion happened.
// Dark-theme screen captures recognize far better as dark-on-light.
func InvertIfDark(img image.Image, threshold float64) (image.Image, bool) {
	if MeanLightness(img) >= threshold {
		return img, false
	}
	return imaging.Invert(img), true
}
