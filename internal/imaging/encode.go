package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
)

// PNGMimeType is the MIME type of encoded preview images.
const PNGMimeType = "image/png"

// EncodePNGBase64 encodes img as a base64 PNG string, the form the MCP
// protocol carries image payloads in.
func EncodePNGBase64(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode png: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
