package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/otiai10/gosseract/v2"
)

// Tesseract is an Engine backed by the native Tesseract library via
// gosseract. Each Recognize call creates and closes its own client, so
// a single Tesseract value is safe for concurrent use.
type Tesseract struct{}

// NewTesseract creates a Tesseract engine. Tesseract and its language
// data must be installed on the system (e.g. tesseract-ocr and
// tesseract-ocr-eng on Debian/Ubuntu).
func NewTesseract() *Tesseract {
	return &Tesseract{}
}

// Recognize runs Tesseract over img with the given configuration and
// returns the raw recognized text.
//
// The image is handed to Tesseract as an in-memory PNG encoding; no
// temporary files are created. This call blocks for the full duration
// of recognition and cannot be cancelled; wrap it in a guard.Guard to
// bound it.
func (t *Tesseract) Recognize(img image.Image, cfg Config) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	lang := cfg.Language
	if lang == "" {
		lang = "eng"
	}
	if err := client.SetLanguage(lang); err != nil {
		return "", fmt.Errorf("failed to set language: %w", err)
	}

	if err := client.SetPageSegMode(cfg.Segmentation.pageSegMode()); err != nil {
		return "", fmt.Errorf("failed to set segmentation mode: %w", err)
	}

	if cfg.Whitelist != "" {
		if err := client.SetWhitelist(cfg.Whitelist); err != nil {
			return "", fmt.Errorf("failed to set character whitelist: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return text, nil
}

func (s Segmentation) pageSegMode() gosseract.PageSegMode {
	switch s {
	case SegmentWord:
		return gosseract.PSM_SINGLE_WORD
	default:
		return gosseract.PSM_SINGLE_BLOCK
	}
}

// Version returns the installed Tesseract version string.
func Version() string {
	client := gosseract.NewClient()
	defer client.Close()
	return client.Version()
}

// Info contains information about the OCR subsystem.
type Info struct {
	Available bool   `json:"available"`
	Version   string `json:"version,omitempty"`
	Backend   string `json:"backend"`
	Error     string `json:"error,omitempty"`
}

// GetInfo probes OCR availability by running a recognition pass over a
// tiny blank image. A failure usually means missing language data.
func GetInfo() Info {
	info := Info{Backend: "gosseract", Version: Version()}

	probe := image.NewGray(image.Rect(0, 0, 8, 8))
	if _, err := NewTesseract().Recognize(probe, Config{}); err != nil {
		info.Error = err.Error()
		return info
	}
	info.Available = true
	return info
}
