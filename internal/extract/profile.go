package extract

import (
	"time"

	"ocrguard/internal/imaging"
	"ocrguard/internal/ocr"
)

// fastWhitelist restricts the latency-first profile to alphanumerics
// plus common punctuation; narrowing the search space speeds the
// engine up considerably at the cost of non-whitelisted content.
const fastWhitelist = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789.,!?:;()[]{}/-@#$%^&*+=<>~`\"' "

// darkLightnessThreshold is the mean perceptual lightness below which
// a screen capture is considered dark-themed and inverted before OCR.
const darkLightnessThreshold = 0.35

// Profile is a named preprocessing and engine-configuration
// combination trading accuracy for latency or vice versa.
type Profile struct {
	// Name identifies the profile in logs and results.
	Name string

	// Timeout bounds each engine invocation. Must be positive.
	Timeout time.Duration

	// MaxDimension caps both image dimensions; larger images are
	// downscaled preserving aspect ratio before recognition.
	MaxDimension int

	// Filter selects the downscale resampling quality.
	Filter imaging.Filter

	// Grayscale converts the image to a single channel before
	// recognition instead of 3-channel color.
	Grayscale bool

	// InvertDark inverts dark-themed captures before recognition.
	InvertDark bool

	// Enhance applies document contrast/sharpen enhancement before
	// recognition.
	Enhance bool

	// Segmentation selects the engine's page segmentation strategy.
	Segmentation ocr.Segmentation

	// Whitelist restricts recognition to the listed characters.
	// Empty means unrestricted.
	Whitelist string
}

// Accurate returns the accuracy-first profile for document-like
// images: color input, 2000px cap with Lanczos resampling, whole-block
// segmentation, 15s timeout.
func Accurate() Profile {
	return Profile{
		Name:         "accurate",
		Timeout:      15 * time.Second,
		MaxDimension: 2000,
		Filter:       imaging.FilterLanczos,
		Segmentation: ocr.SegmentBlock,
	}
}

// Fast returns the latency-first profile for repeated screen
// captures: grayscale input, 1500px cap with nearest-neighbor
// resampling, single-word segmentation over a character whitelist,
// 8s timeout. Fails on multi-line or non-whitelisted content.
func Fast() Profile {
	return Profile{
		Name:         "fast",
		Timeout:      8 * time.Second,
		MaxDimension: 1500,
		Filter:       imaging.FilterNearest,
		Grayscale:    true,
		InvertDark:   true,
		Segmentation: ocr.SegmentWord,
		Whitelist:    fastWhitelist,
	}
}
