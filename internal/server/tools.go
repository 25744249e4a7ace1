package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

func coordinateProperties(props map[string]interface{}) map[string]interface{} {
	props["x1"] = map[string]interface{}{
		"type":        "integer",
		"description": "Left edge X coordinate (0-based)",
	}
	props["y1"] = map[string]interface{}{
		"type":        "integer",
		"description": "Top edge Y coordinate (0-based)",
	}
	props["x2"] = map[string]interface{}{
		"type":        "integer",
		"description": "Right edge X coordinate (exclusive)",
	}
	props["y2"] = map[string]interface{}{
		"type":        "integer",
		"description": "Bottom edge Y coordinate (exclusive)",
	}
	return props
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Image operations
		{
			Name:        "image_load",
			Description: "Load an image file through Leptonica and return its dimensions, bit depth, format and resolution.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_clip",
			Description: "Clip a rectangular region from an image and return it as base64-encoded PNG. Give either x1/y1/x2/y2 or a named region. The region must lie inside the image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": coordinateProperties(map[string]interface{}{
					"path": pathProperty(),
					"region": map[string]interface{}{
						"type":        "string",
						"description": "Named region, used instead of coordinates",
						"enum": []string{
							"top-left", "top-right", "bottom-left", "bottom-right",
							"top-half", "bottom-half", "left-half", "right-half", "center",
						},
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor (e.g., 2.0 to double size). Default 1.0",
						"default":     1.0,
					},
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_write",
			Description: "Re-encode an image to another file. The format is taken from the output extension unless given.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"output": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path of the file to write",
					},
					"format": map[string]interface{}{
						"type":        "string",
						"description": "Encoding name such as png, jpeg, tiff, tiff-g4, bmp, pnm or webp",
					},
				},
				"required": []string{"path", "output"},
			},
		},

		// OCR operations
		{
			Name:        "image_ocr_full",
			Description: "Extract all text from an image with Tesseract. Returns the text, the mean confidence and every word with its bounding box.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"language": map[string]interface{}{
						"type":        "string",
						"description": "Tesseract language code (e.g., eng, deu, eng+fra). Default is the server language",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_ocr_region",
			Description: "Extract text from a rectangular region of an image. Word bounds are reported in full-image coordinates.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": coordinateProperties(map[string]interface{}{
					"path": pathProperty(),
					"language": map[string]interface{}{
						"type":        "string",
						"description": "Tesseract language code. Default is the server language",
					},
				}),
				"required": []string{"path", "x1", "y1", "x2", "y2"},
			},
		},
		{
			Name:        "image_text_regions",
			Description: "Find where text is located without returning the text: bounding boxes and confidences at the chosen layout level.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"level": map[string]interface{}{
						"type":        "string",
						"description": "Layout level (default block)",
						"enum":        []string{"block", "paragraph", "textline", "word", "symbol"},
						"default":     "block",
					},
					"min_confidence": map[string]interface{}{
						"type":        "number",
						"description": "Drop regions below this confidence, 0.0 to 1.0 (default 0)",
						"default":     0.0,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "ocr_info",
			Description: "Report the Tesseract and Leptonica versions, the tessdata path and the installed languages.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
