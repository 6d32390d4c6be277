package extract

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"
	"time"

	"go.uber.org/zap"

	"ocrguard/internal/guard"
	"ocrguard/internal/imaging"
	"ocrguard/internal/ocr"
)

// Result is the outcome of one extraction. Extraction is best-effort:
// Result carries failure information instead of an error return, and
// callers are expected to tolerate misses.
//
// Succeeded with an empty Text means the engine completed and found no
// text, which is representable distinctly from a failed extraction.
type Result struct {
	// Text is the trimmed recognized text. Empty on failure, and on
	// success when the image contains no recognizable text.
	Text string

	// Succeeded reports whether the engine completed within the
	// bound without error.
	Succeeded bool

	// Err holds the underlying failure: guard.ErrTimeout (wrapped)
	// for an exceeded bound, the engine's error otherwise. Nil when
	// Succeeded.
	Err error

	// Elapsed is the wall-clock duration of the extraction attempt,
	// preprocessing included.
	Elapsed time.Duration
}

// Found reports whether extraction produced non-empty text. This is
// the conflated view the original callers used: an empty-but-valid
// result and a failure both read as "no text extracted".
func (r Result) Found() bool {
	return r.Succeeded && r.Text != ""
}

// Options holds the collaborators an Extractor needs. Zero values
// select production defaults.
type Options struct {
	// Engine performs recognition. Nil selects the Tesseract engine.
	Engine ocr.Engine

	// Inspector tracks helper processes for timeout cleanup. Nil
	// selects a process-table inspector matching "tesseract".
	Inspector guard.ProcessInspector

	// Grace bounds the cleanup wait per terminated helper process.
	Grace time.Duration

	// Logger receives extraction warnings. Nil selects a no-op
	// logger.
	Logger *zap.Logger

	// Language is the engine language code. Empty selects English.
	Language string
}

func (o Options) withDefaults() Options {
	if o.Engine == nil {
		o.Engine = ocr.NewTesseract()
	}
	if o.Inspector == nil {
		o.Inspector = guard.NewPsInspector("tesseract")
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Language == "" {
		o.Language = "eng"
	}
	return o
}

// Extractor runs timeout-protected text extraction with a fixed
// profile. All per-call state is local to Extract, so an Extractor is
// safe for concurrent use.
type Extractor struct {
	profile Profile
	engine  ocr.Engine
	guard   *guard.Guard
	log     *zap.Logger
	lang    string
}

// New creates an Extractor for the given profile.
func New(profile Profile, opts Options) (*Extractor, error) {
	opts = opts.withDefaults()

	g, err := guard.New(guard.Config{
		Timeout:   profile.Timeout,
		Grace:     opts.Grace,
		Inspector: opts.Inspector,
		Logger:    opts.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("extract: profile %q: %w", profile.Name, err)
	}

	return &Extractor{
		profile: profile,
		engine:  opts.Engine,
		guard:   g,
		log:     opts.Logger,
		lang:    opts.Language,
	}, nil
}

// Profile returns the extractor's profile.
func (e *Extractor) Profile() Profile {
	return e.profile
}

// Extract preprocesses img per the profile and runs the engine under
// timeout protection. It never returns an error to the caller: a
// timeout or engine failure is logged as a warning and flattened into
// a failed Result.
func (e *Extractor) Extract(ctx context.Context, img image.Image) Result {
	start := time.Now()

	prepared := e.Preprocess(img)
	cfg := ocr.Config{
		Language:     e.lang,
		Segmentation: e.profile.Segmentation,
		Whitelist:    e.profile.Whitelist,
	}

	text, err := guard.Run(ctx, e.guard, func() (string, error) {
		return e.engine.Recognize(prepared, cfg)
	})
	elapsed := time.Since(start)

	if err != nil {
		if errors.Is(err, guard.ErrTimeout) {
			e.log.Warn("text extraction timed out",
				zap.String("profile", e.profile.Name),
				zap.Duration("timeout", e.profile.Timeout))
		} else {
			e.log.Warn("text extraction failed",
				zap.String("profile", e.profile.Name),
				zap.Error(err))
		}
		return Result{Err: err, Elapsed: elapsed}
	}

	return Result{
		Text:      strings.TrimSpace(text),
		Succeeded: true,
		Elapsed:   elapsed,
	}
}

// ExtractPath loads the image at path and extracts text from it. Load
// failures are flattened into a failed Result like any other error.
func (e *Extractor) ExtractPath(ctx context.Context, path string) Result {
	start := time.Now()
	img, err := imaging.Load(path)
	if err != nil {
		e.log.Warn("text extraction failed",
			zap.String("profile", e.profile.Name),
			zap.String("path", path),
			zap.Error(err))
		return Result{Err: err, Elapsed: time.Since(start)}
	}
	res := e.Extract(ctx, img)
	res.Elapsed = time.Since(start)
	return res
}

// Preprocess applies the profile's conversion, inversion, downscale,
// and enhancement steps, in that order. Extract calls it before
// recognition; it is exported so callers can preview the image the
// engine would see.
func (e *Extractor) Preprocess(img image.Image) image.Image {
	out := img
	if e.profile.Grayscale {
		out = imaging.ToGray(out)
	} else {
		out = imaging.ToRGB(out)
	}
	if e.profile.InvertDark {
		out, _ = imaging.InvertIfDark(out, darkLightnessThreshold)
	}
	out = imaging.FitWithin(out, e.profile.MaxDimension, e.profile.Filter)
	if e.profile.Enhance {
		out = imaging.EnhanceDocument(out)
	}
	return out
}
