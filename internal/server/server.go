package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"ocrguard/internal/config"
	"ocrguard/internal/extract"
	"ocrguard/internal/guard"
	"ocrguard/internal/imaging"
	"ocrguard/internal/ocr"
)

// Server exposes timeout-protected text extraction as MCP tools over
// stdio.
type Server struct {
	cache    *imaging.Cache
	accurate *extract.Extractor
	fast     *extract.Extractor
	batch    *extract.BatchExtractor
	log      *zap.Logger
}

// MCPRequest represents an incoming JSON-RPC request.
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response.
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error.
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Options holds optional Server collaborators; zero values select
// production defaults. Tests inject a stub engine here.
type Options struct {
	Engine    ocr.Engine
	Inspector guard.ProcessInspector
	Logger    *zap.Logger
}

// New creates a Server wired from cfg.
func New(cfg *config.Config, opts Options) (*Server, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	var inspector guard.ProcessInspector
	switch {
	case opts.Inspector != nil:
		inspector = opts.Inspector
	case cfg.Cleanup.Enabled:
		inspector = guard.NewPsInspector(cfg.Cleanup.ProcessName)
	default:
		inspector = guard.NopInspector{}
	}

	extractOpts := extract.Options{
		Engine:    opts.Engine,
		Inspector: inspector,
		Grace:     cfg.GraceDuration(),
		Logger:    log,
		Language:  cfg.OCR.Language,
	}

	accurateProfile := extract.Accurate()
	accurateProfile.Timeout = cfg.AccurateTimeoutDuration()
	accurateProfile.Enhance = cfg.OCR.Enhance
	accurate, err := extract.New(accurateProfile, extractOpts)
	if err != nil {
		return nil, err
	}

	fastProfile := extract.Fast()
	fastProfile.Timeout = cfg.FastTimeoutDuration()
	fast, err := extract.New(fastProfile, extractOpts)
	if err != nil {
		return nil, err
	}

	batch, err := extract.NewBatch(cfg.BatchTimeoutDuration(), extractOpts)
	if err != nil {
		return nil, err
	}

	return &Server{
		cache:    imaging.NewCache(),
		accurate: accurate,
		fast:     fast,
		batch:    batch,
		log:      log,
	}, nil
}

// Run serves the MCP protocol on stdin/stdout until EOF. Diagnostics
// go to the logger (stderr); stdout carries only protocol frames.
func (s *Server) Run() error {
	return s.serve(os.Stdin, os.Stdout)
}

func (s *Server) serve(in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	// Batch requests carry many paths; allow large frames.
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	encoder := json.NewEncoder(out)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			s.log.Warn("failed to parse request", zap.Error(err))
			continue
		}

		resp := s.handleRequest(&req)
		if resp != nil {
			if err := encoder.Encode(resp); err != nil {
				s.log.Warn("failed to encode response", zap.Error(err))
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}
	return nil
}

// handleRequest routes requests to the appropriate handlers.
func (s *Server) handleRequest(req *MCPRequest) *MCPResponse {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		// Client acknowledgment, no response needed.
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &MCPError{
				Code:    -32601,
				Message: fmt.Sprintf("Method not found: %s", req.Method),
			},
		}
	}
}

func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    "ocrguard",
				"version": "0.1.0",
			},
		},
	}
}

func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
