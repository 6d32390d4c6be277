package extract

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ocrguard/internal/guard"
	"ocrguard/internal/ocr"
)

// widthKeyedEngine fails recognition for images of a marker width and
// otherwise returns text naming the width it saw, so batch tests can
// tell entries apart.
type widthKeyedEngine struct {
	failWidth int
}

func (e *widthKeyedEngine) Recognize(img image.Image, _ ocr.Config) (string, error) {
	w := img.Bounds().Dx()
	if w == e.failWidth {
		return "", errors.New("corrupt payload")
	}
	return fmt.Sprintf("text-%d", w), nil
}

func newTestBatch(t *testing.T, engine ocr.Engine) *BatchExtractor {
	t.Helper()
	b, err := NewBatch(time.Second, Options{
		Engine:    engine,
		Inspector: guard.NopInspector{},
	})
	require.NoError(t, err)
	return b
}

func TestNewBatchDeratesFastTimeout(t *testing.T) {
	b := newTestBatch(t, &stubEngine{})
	assert.Equal(t, time.Second, b.accurate.Profile().Timeout)
	assert.Equal(t, 800*time.Millisecond, b.fast.Profile().Timeout)
}

func TestProcessIsolatesFailures(t *testing.T) {
	// Image at index 2 carries the failing marker width.
	images := []image.Image{
		testImage(101, 50, color.White),
		testImage(102, 50, color.White),
		testImage(666, 50, color.White),
		testImage(104, 50, color.White),
	}
	b := newTestBatch(t, &widthKeyedEngine{failWidth: 666})

	results := b.Process(context.Background(), images, false)
	require.Len(t, results, len(images))

	for i, r := range results {
		assert.Equal(t, i, r.Index, "results must preserve input order")
	}

	assert.True(t, results[0].Succeeded)
	assert.Equal(t, "text-101", results[0].Text)
	assert.True(t, results[1].Succeeded)
	assert.False(t, results[2].Succeeded)
	assert.Contains(t, results[2].Error, "corrupt payload")
	assert.True(t, results[3].Succeeded, "failure must not abort later items")
	assert.Equal(t, "text-104", results[3].Text)
}

func TestProcessEmptyInput(t *testing.T) {
	b := newTestBatch(t, &stubEngine{text: "ok"})
	results := b.Process(context.Background(), nil, true)
	assert.Empty(t, results)
}

func TestProcessFastModeUsesFastProfile(t *testing.T) {
	engine := &stubEngine{text: "ok"}
	b := newTestBatch(t, engine)

	b.Process(context.Background(), []image.Image{testImage(10, 10, color.White)}, true)
	assert.Equal(t, ocr.SegmentWord, engine.lastConfig().Segmentation)

	b.Process(context.Background(), []image.Image{testImage(10, 10, color.White)}, false)
	assert.Equal(t, ocr.SegmentBlock, engine.lastConfig().Segmentation)
}

func TestProcessEmptyTextCountsAsMiss(t *testing.T) {
	b := newTestBatch(t, &stubEngine{text: "   "})
	results := b.Process(context.Background(), []image.Image{testImage(10, 10, color.White)}, false)

	require.Len(t, results, 1)
	assert.False(t, results[0].Succeeded)
	assert.Empty(t, results[0].Error, "no text is a miss, not an error")
}

func TestProcessPathsRecordsUnreadableFiles(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.png")
	f, err := os.Create(good)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, testImage(20, 20, color.White)))
	require.NoError(t, f.Close())

	missing := filepath.Join(dir, "missing.png")

	b := newTestBatch(t, &stubEngine{text: "hello"})
	results := b.ProcessPaths(context.Background(), []string{good, missing, good}, false)
	require.Len(t, results, 3)

	assert.True(t, results[0].Succeeded)
	assert.Equal(t, "hello", results[0].Text)
	assert.False(t, results[1].Succeeded)
	assert.NotEmpty(t, results[1].Error)
	assert.True(t, results[2].Succeeded)
}
