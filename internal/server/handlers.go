package server

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"os"

	"github.com/ironsheep/leptess/internal/imaging"
	"github.com/ironsheep/leptess/internal/leptonica"
	"github.com/ironsheep/leptess/internal/ocr"
	"github.com/ironsheep/leptess/internal/tesseract"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_clip").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
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

	result, err := s.executeTool(context.Background(), params.Name, params.Arguments)
	if err != nil {
		s.logger.Debug("tool failed", "tool", params.Name, "error", err)
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

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Loads images from cache as needed
//  4. Calls the appropriate imaging/ocr function
//  5. Returns the result or error
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Image operations
	case "image_load":
		return s.handleImageLoad(args)
	case "image_clip":
		return s.handleImageClip(args)
	case "image_write":
		return s.handleImageWrite(args)

	// OCR operations
	case "image_ocr_full":
		return s.handleImageOCRFull(ctx, args)
	case "image_ocr_region":
		return s.handleImageOCRRegion(ctx, args)
	case "image_text_regions":
		return s.handleImageTextRegions(ctx, args)
	case "ocr_info":
		return s.handleOCRInfo(args)

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
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		return fmt.Errorf("missing arguments")
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// rectArgs is the x1/y1/x2/y2 rectangle shared by several tools.
type rectArgs struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

func (r rectArgs) rect() image.Rectangle {
	return image.Rect(r.X1, r.Y1, r.X2, r.Y2)
}

// === Image Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

type imageClipArgs struct {
	Path   string  `json:"path"`
	Region string  `json:"region"`
	Scale  float64 `json:"scale"`
	rectArgs
}

func (s *Server) handleImageClip(args json.RawMessage) (interface{}, error) {
	var a imageClipArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	pix, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	defer pix.Close()

	rect := a.rect()
	if a.Region != "" {
		rect, err = imaging.QuadrantRect(pix.Width(), pix.Height(), a.Region)
		if err != nil {
			return nil, err
		}
	}
	return imaging.Crop(pix, rect, a.Scale)
}

type imageWriteArgs struct {
	Path   string `json:"path"`
	Output string `json:"output"`
	Format string `json:"format"`
}

// WriteResult describes an image written by image_write.
type WriteResult struct {
	Output        string `json:"output"`
	Format        string `json:"format"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	FileSizeBytes int64  `json:"file_size_bytes"`
}

func (s *Server) handleImageWrite(args json.RawMessage) (interface{}, error) {
	var a imageWriteArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Output == "" {
		return nil, fmt.Errorf("output is required")
	}

	format := leptonica.FormatFromPath(a.Output)
	if a.Format != "" {
		f, err := leptonica.ParseFormat(a.Format)
		if err != nil {
			return nil, err
		}
		format = f
	}

	pix, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	defer pix.Close()

	if err := pix.Write(a.Output, format); err != nil {
		return nil, err
	}
	// A cached decode of the old file contents is now stale.
	s.cache.Evict(a.Output)

	stat, err := os.Stat(a.Output)
	if err != nil {
		return nil, fmt.Errorf("failed to stat output: %w", err)
	}
	return &WriteResult{
		Output:        a.Output,
		Format:        format.String(),
		Width:         pix.Width(),
		Height:        pix.Height(),
		FileSizeBytes: stat.Size(),
	}, nil
}

// === OCR Handlers ===

// recognize runs OCR on the pool, or on a one-off engine when language
// differs from the pool's.
func (s *Server) recognize(ctx context.Context, path string, region image.Rectangle, language string) (*ocr.OCRResult, error) {
	pix, err := s.cache.Load(path)
	if err != nil {
		return nil, err
	}
	defer pix.Close()

	if language != "" && language != s.opts.Language {
		opts := s.opts
		opts.Language = language
		return ocr.ExtractTextFromRegion(pix, region, opts)
	}

	pool, err := s.ocrPool()
	if err != nil {
		return nil, err
	}
	return pool.Recognize(ctx, pix, region)
}

type imageOCRFullArgs struct {
	Path     string `json:"path"`
	Language string `json:"language"`
}

func (s *Server) handleImageOCRFull(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageOCRFullArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return s.recognize(ctx, a.Path, image.Rectangle{}, a.Language)
}

type imageOCRRegionArgs struct {
	Path     string `json:"path"`
	Language string `json:"language"`
	rectArgs
}

func (s *Server) handleImageOCRRegion(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageOCRRegionArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	rect := a.rect()
	if rect.Empty() {
		return nil, fmt.Errorf("%w: region %v is empty", leptonica.ErrGeometryInvalid, rect)
	}
	return s.recognize(ctx, a.Path, rect, a.Language)
}

type imageTextRegionsArgs struct {
	Path          string  `json:"path"`
	Level         string  `json:"level"`
	MinConfidence float64 `json:"min_confidence"`
}

func (s *Server) handleImageTextRegions(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageTextRegionsArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Level == "" {
		a.Level = "block"
	}
	level, ok := tesseract.ParseLevel(a.Level)
	if !ok {
		return nil, fmt.Errorf("unknown level %q", a.Level)
	}
	if a.MinConfidence < 0 || a.MinConfidence > 1 {
		return nil, fmt.Errorf("min_confidence %.2f out of range (0-1)", a.MinConfidence)
	}

	pix, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	defer pix.Close()

	pool, err := s.ocrPool()
	if err != nil {
		return nil, err
	}
	return pool.DetectTextRegions(ctx, pix, level, a.MinConfidence)
}

func (s *Server) handleOCRInfo(json.RawMessage) (interface{}, error) {
	return ocr.GetOCRInfo(s.opts), nil
}
