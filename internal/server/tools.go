package server

// Tool represents an MCP tool definition.
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// GetToolDefinitions returns all available tools.
func GetToolDefinitions() []Tool {
	pathProperty := map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}

	return []Tool{
		// Text Extraction
		{
			Name:        "text_extract",
			Description: "Extract text from an image with the accuracy-first profile. Best for documents, scans, and photos of pages. Extraction is best-effort: a timeout or engine failure yields succeeded=false, never a crash.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "text_extract_fast",
			Description: "Extract text from an image with the latency-first profile. Tuned for screen captures and repeated polling; restricted to single words over a character whitelist, so multi-line content will miss.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "text_extract_batch",
			Description: "Extract text from a sequence of images, one result per input in input order. A failure on one image never aborts the rest.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"paths": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Absolute paths to the image files, processed in order",
					},
					"fast_mode": map[string]interface{}{
						"type":        "boolean",
						"description": "Use the latency-first profile instead of the accuracy-first one",
					},
				},
				"required": []string{"paths"},
			},
		},

		// Image Inspection
		{
			Name:        "image_info",
			Description: "Return an image's dimensions, format, and file size. Useful for sizing and routing images before extraction.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "preprocess_preview",
			Description: "Run profile preprocessing on an image without OCR and return the processed image as base64 PNG, with before/after dimensions and the downscale cap in effect.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"fast": map[string]interface{}{
						"type":        "boolean",
						"description": "Preview the latency-first profile instead of the accuracy-first one",
					},
				},
				"required": []string{"path"},
			},
		},

		// Diagnostics
		{
			Name:        "ocr_status",
			Description: "Report OCR engine availability and version.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
	}
}
