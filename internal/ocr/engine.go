package ocr

import "image"

// Segmentation selects the page segmentation strategy the engine uses
// when analyzing an image.
type Segmentation int

const (
	// SegmentBlock treats the image as a single uniform block of
	// text. Suited to document-like images; the accuracy-first
	// default.
	SegmentBlock Segmentation = iota

	// SegmentWord treats the image as a single word. Much faster,
	// but fails on multi-line content; used by the latency-first
	// screen-capture profile.
	SegmentWord
)

// String returns a human-readable name for the segmentation mode.
func (s Segmentation) String() string {
	switch s {
	case SegmentWord:
		return "word"
	default:
		return "block"
	}
}

// Config describes one recognition request.
type Config struct {
	// Language is the engine language code (e.g. "eng"). Empty
	// selects English.
	Language string

	// Segmentation selects the page segmentation strategy.
	Segmentation Segmentation

	// Whitelist restricts recognition to the listed characters.
	// Empty means unrestricted.
	Whitelist string
}

// Engine is a blocking, synchronous OCR engine. Recognize must be
// safe to invoke from a worker goroutine; it is not expected to honor
// cancellation, so callers bound it with a guard.Guard instead.
type Engine interface {
	Recognize(img image.Image, cfg Config) (string, error)
}
