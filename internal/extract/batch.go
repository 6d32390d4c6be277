package extract

import (
	"context"
	"image"
	"time"

	"go.uber.org/zap"
)

// fastBatchTimeoutRatio derates the per-image timeout for the fast
// profile inside a batch; screen captures that need longer than this
// are not worth the wait in bulk runs.
const fastBatchTimeoutRatio = 0.8

// BatchResult is the outcome for one image in a batch, in input order.
type BatchResult struct {
	// Index is the image's position in the input sequence.
	Index int `json:"index"`

	// Text is the extracted text, when any was found.
	Text string `json:"text,omitempty"`

	// Succeeded reports whether extraction produced text for this
	// image.
	Succeeded bool `json:"succeeded"`

	// Error describes the failure, when one occurred. Empty when the
	// engine completed but found no text.
	Error string `json:"error,omitempty"`
}

// BatchExtractor applies a profile over an ordered sequence of images
// without one failure aborting the rest.
type BatchExtractor struct {
	accurate *Extractor
	fast     *Extractor
	log      *zap.Logger
}

// NewBatch creates a BatchExtractor whose accurate profile uses
// perImageTimeout and whose fast profile uses 80% of it.
func NewBatch(perImageTimeout time.Duration, opts Options) (*BatchExtractor, error) {
	accurateProfile := Accurate()
	accurateProfile.Timeout = perImageTimeout

	fastProfile := Fast()
	fastProfile.Timeout = time.Duration(float64(perImageTimeout) * fastBatchTimeoutRatio)

	accurate, err := New(accurateProfile, opts)
	if err != nil {
		return nil, err
	}
	fast, err := New(fastProfile, opts)
	if err != nil {
		return nil, err
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &BatchExtractor{accurate: accurate, fast: fast, log: log}, nil
}

// NewBatchFromExtractors builds a BatchExtractor over pre-configured
// extractors, one per profile.
func NewBatchFromExtractors(accurate, fast *Extractor, log *zap.Logger) *BatchExtractor {
	if log == nil {
		log = zap.NewNop()
	}
	return &BatchExtractor{accurate: accurate, fast: fast, log: log}
}

// Process extracts text from each image in order, one result per
// input. Images are processed strictly sequentially; a timeout or
// engine failure on one image is recorded in its entry and processing
// continues with the next.
func (b *BatchExtractor) Process(ctx context.Context, images []image.Image, fastMode bool) []BatchResult {
	ex := b.pick(fastMode)
	results := make([]BatchResult, 0, len(images))

	for i, img := range images {
		b.log.Debug("batch item",
			zap.Int("index", i),
			zap.Int("total", len(images)),
			zap.String("profile", ex.Profile().Name))

		res := ex.Extract(ctx, img)
		results = append(results, toBatchResult(i, res))
	}
	return results
}

// ProcessPaths is Process over image file paths; a file that cannot be
// loaded is recorded as a failed entry.
func (b *BatchExtractor) ProcessPaths(ctx context.Context, paths []string, fastMode bool) []BatchResult {
	ex := b.pick(fastMode)
	results := make([]BatchResult, 0, len(paths))

	for i, path := range paths {
		b.log.Debug("batch item",
			zap.Int("index", i),
			zap.Int("total", len(paths)),
			zap.String("path", path),
			zap.String("profile", ex.Profile().Name))

		res := ex.ExtractPath(ctx, path)
		results = append(results, toBatchResult(i, res))
	}
	return results
}

func (b *BatchExtractor) pick(fastMode bool) *Extractor {
	if fastMode {
		return b.fast
	}
	return b.accurate
}

func toBatchResult(index int, res Result) BatchResult {
	entry := BatchResult{
		Index:     index,
		Succeeded: res.Found(),
	}
	if res.Found() {
		entry.Text = res.Text
	}
	if res.Err != nil {
		entry.Error = res.Err.Error()
	}
	return entry
}
