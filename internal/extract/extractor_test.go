package extract

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ocrguard/internal/guard"
	"ocrguard/internal/ocr"
)

// stubEngine returns canned text or an error and records what it was
// asked to recognize.
type stubEngine struct {
	mu    sync.Mutex
	text  string
	err   error
	block chan struct{} // non-nil: Recognize waits until closed
	imgs  []image.Image
	cfgs  []ocr.Config
}

func (s *stubEngine) Recognize(img image.Image, cfg ocr.Config) (string, error) {
	s.mu.Lock()
	s.imgs = append(s.imgs, img)
	s.cfgs = append(s.cfgs, cfg)
	block := s.block
	s.mu.Unlock()

	if block != nil {
		<-block
	}
	return s.text, s.err
}

func (s *stubEngine) lastImage() image.Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.imgs[len(s.imgs)-1]
}

func (s *stubEngine) lastConfig() ocr.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfgs[len(s.cfgs)-1]
}

func testImage(w, h int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

func newTestExtractor(t *testing.T, profile Profile, engine ocr.Engine) *Extractor {
	t.Helper()
	e, err := New(profile, Options{
		Engine:    engine,
		Inspector: guard.NopInspector{},
	})
	require.NoError(t, err)
	return e
}

func TestNewRejectsInvalidTimeout(t *testing.T) {
	profile := Accurate()
	profile.Timeout = 0
	_, err := New(profile, Options{Engine: &stubEngine{}})
	require.Error(t, err)
}

func TestExtractTrimsRecognizedText(t *testing.T) {
	engine := &stubEngine{text: "  TIMEOUT FIX TEST \n\n"}
	e := newTestExtractor(t, Accurate(), engine)

	res := e.Extract(context.Background(), testImage(400, 100, color.White))
	require.True(t, res.Succeeded)
	assert.Equal(t, "TIMEOUT FIX TEST", res.Text)
	assert.True(t, res.Found())
	assert.NoError(t, res.Err)
	assert.Greater(t, res.Elapsed, time.Duration(0))
}

func TestExtractEmptyTextIsValidButNotFound(t *testing.T) {
	engine := &stubEngine{text: "   \n"}
	e := newTestExtractor(t, Accurate(), engine)

	res := e.Extract(context.Background(), testImage(50, 50, color.White))
	assert.True(t, res.Succeeded, "empty output is still a completed extraction")
	assert.Empty(t, res.Text)
	assert.False(t, res.Found())
}

func TestExtractFlattensEngineError(t *testing.T) {
	engineErr := errors.New("internal engine crash")
	engine := &stubEngine{err: engineErr}
	e := newTestExtractor(t, Accurate(), engine)

	res := e.Extract(context.Background(), testImage(50, 50, color.White))
	assert.False(t, res.Succeeded)
	assert.ErrorIs(t, res.Err, engineErr)
	assert.False(t, res.Found())
}

func TestExtractFlattensTimeout(t *testing.T) {
	profile := Accurate()
	profile.Timeout = 30 * time.Millisecond

	engine := &stubEngine{block: make(chan struct{})}
	defer close(engine.block)
	e := newTestExtractor(t, profile, engine)

	start := time.Now()
	res := e.Extract(context.Background(), testImage(50, 50, color.White))

	assert.False(t, res.Succeeded)
	assert.ErrorIs(t, res.Err, guard.ErrTimeout)
	assert.Less(t, time.Since(start), time.Second)
}

func TestExtractAccurateDownscalesOversizedInput(t *testing.T) {
	engine := &stubEngine{text: "ok"}
	e := newTestExtractor(t, Accurate(), engine)

	e.Extract(context.Background(), testImage(4000, 1000, color.White))

	got := engine.lastImage().Bounds()
	assert.LessOrEqual(t, got.Dx(), 2000)
	assert.LessOrEqual(t, got.Dy(), 2000)
	assert.InDelta(t, 2000, got.Dx(), 1)
	assert.InDelta(t, 500, got.Dy(), 1)
}

func TestExtractFastDownscalesToSmallerCap(t *testing.T) {
	engine := &stubEngine{text: "ok"}
	e := newTestExtractor(t, Fast(), engine)

	e.Extract(context.Background(), testImage(3000, 900, color.White))

	got := engine.lastImage().Bounds()
	assert.InDelta(t, 1500, got.Dx(), 1)
	assert.InDelta(t, 450, got.Dy(), 1)
}

func TestExtractLeavesSmallImagesUnscaled(t *testing.T) {
	engine := &stubEngine{text: "ok"}
	e := newTestExtractor(t, Accurate(), engine)

	e.Extract(context.Background(), testImage(400, 100, color.White))

	got := engine.lastImage().Bounds()
	assert.Equal(t, 400, got.Dx())
	assert.Equal(t, 100, got.Dy())
}

func TestExtractFastConvertsToGrayscale(t *testing.T) {
	engine := &stubEngine{text: "ok"}
	e := newTestExtractor(t, Fast(), engine)

	e.Extract(context.Background(), testImage(100, 100, color.RGBA{R: 220, G: 40, B: 90, A: 255}))

	r, g, b, _ := engine.lastImage().At(50, 50).RGBA()
	assert.Equal(t, r, g)
	assert.Equal(t, g, b)
}

func TestExtractProfilesConfigureEngine(t *testing.T) {
	engine := &stubEngine{text: "ok"}

	accurate := newTestExtractor(t, Accurate(), engine)
	accurate.Extract(context.Background(), testImage(10, 10, color.White))
	cfg := engine.lastConfig()
	assert.Equal(t, ocr.SegmentBlock, cfg.Segmentation)
	assert.Empty(t, cfg.Whitelist)
	assert.Equal(t, "eng", cfg.Language)

	fast := newTestExtractor(t, Fast(), engine)
	fast.Extract(context.Background(), testImage(10, 10, color.White))
	cfg = engine.lastConfig()
	assert.Equal(t, ocr.SegmentWord, cfg.Segmentation)
	assert.Contains(t, cfg.Whitelist, "0123456789")
}

func TestExtractIsIdempotent(t *testing.T) {
	engine := &stubEngine{text: "SAME TEXT"}
	e := newTestExtractor(t, Accurate(), engine)
	img := testImage(80, 40, color.White)

	first := e.Extract(context.Background(), img)
	second := e.Extract(context.Background(), img)
	assert.Equal(t, first.Text, second.Text)
	assert.Equal(t, first.Succeeded, second.Succeeded)
}

func TestExtractPathMissingFile(t *testing.T) {
	engine := &stubEngine{text: "ok"}
	e := newTestExtractor(t, Accurate(), engine)

	res := e.ExtractPath(context.Background(), "/does/not/exist.png")
	assert.False(t, res.Succeeded)
	assert.Error(t, res.Err)
}
