package server

import (
	"context"
	"encoding/json"
	"fmt"

	"ocrguard/internal/extract"
	"ocrguard/internal/imaging"
	"ocrguard/internal/ocr"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "text_extract").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the
// specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Text Extraction
	case "text_extract":
		return s.handleTextExtract(args, s.accurate)
	case "text_extract_fast":
		return s.handleTextExtract(args, s.fast)
	case "text_extract_batch":
		return s.handleTextExtractBatch(args)

	// Image Inspection
	case "image_info":
		return s.handleImageInfo(args)
	case "preprocess_preview":
		return s.handlePreprocessPreview(args)

	// Diagnostics
	case "ocr_status":
		return ocr.GetInfo(), nil

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Text Extraction Handlers ===

type extractArgs struct {
	Path string `json:"path"`
}

// ExtractResponse is the wire form of one extraction outcome.
type ExtractResponse struct {
	Text      string `json:"text"`
	Succeeded bool   `json:"succeeded"`
	ElapsedMS int64  `json:"elapsed_ms"`
	Error     string `json:"error,omitempty"`
}

func (s *Server) handleTextExtract(args json.RawMessage, ex *extract.Extractor) (interface{}, error) {
	var a extractArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	res := ex.Extract(context.Background(), img)
	resp := ExtractResponse{
		Text:      res.Text,
		Succeeded: res.Succeeded,
		ElapsedMS: res.Elapsed.Milliseconds(),
	}
	if res.Err != nil {
		resp.Error = res.Err.Error()
	}
	return resp, nil
}

type extractBatchArgs struct {
	Paths    []string `json:"paths"`
	FastMode bool     `json:"fast_mode"`
}

// BatchResponse is the wire form of a batch outcome.
type BatchResponse struct {
	Results   []extract.BatchResult `json:"results"`
	Processed int                   `json:"processed"`
	Succeeded int                   `json:"succeeded"`
}

func (s *Server) handleTextExtractBatch(args json.RawMessage) (interface{}, error) {
	var a extractBatchArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if len(a.Paths) == 0 {
		return nil, fmt.Errorf("paths must not be empty")
	}

	results := s.batch.ProcessPaths(context.Background(), a.Paths, a.FastMode)

	succeeded := 0
	for _, r := range results {
		if r.Succeeded {
			succeeded++
		}
	}
	return BatchResponse{
		Results:   results,
		Processed: len(results),
		Succeeded: succeeded,
	}, nil
}

// === Image Inspection Handlers ===

func (s *Server) handleImageInfo(args json.RawMessage) (interface{}, error) {
	var a extractArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadInfo(s.cache, a.Path)
}

type preprocessPreviewArgs struct {
	Path string `json:"path"`
	Fast bool   `json:"fast"`
}

// PreprocessPreviewResponse reports the dimensions an image would be
// recognized at after profile preprocessing, plus the processed image
// itself for visual inspection.
type PreprocessPreviewResponse struct {
	Profile         string `json:"profile"`
	OriginalWidth   int    `json:"original_width"`
	OriginalHeight  int    `json:"original_height"`
	ProcessedWidth  int    `json:"processed_width"`
	ProcessedHeight int    `json:"processed_height"`
	MaxDimension    int    `json:"max_dimension"`
	ImageBase64     string `json:"image_base64"`
	MimeType        string `json:"mime_type"`
}

func (s *Server) handlePreprocessPreview(args json.RawMessage) (interface{}, error) {
	var a preprocessPreviewArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	ex := s.accurate
	if a.Fast {
		ex = s.fast
	}
	processed := ex.Preprocess(img)
	encoded, err := imaging.EncodePNGBase64(processed)
	if err != nil {
		return nil, err
	}

	return PreprocessPreviewResponse{
		Profile:         ex.Profile().Name,
		OriginalWidth:   img.Bounds().Dx(),
		OriginalHeight:  img.Bounds().Dy(),
		ProcessedWidth:  processed.Bounds().Dx(),
		ProcessedHeight: processed.Bounds().Dy(),
		MaxDimension:    ex.Profile().MaxDimension,
		ImageBase64:     encoded,
		MimeType:        imaging.PNGMimeType,
	}, nil
}
