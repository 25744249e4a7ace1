package server

import (
	"slices"
	"testing"

	"github.com/ironsheep/leptess/internal/imaging"
	"github.com/ironsheep/leptess/internal/tesseract"
)

func toolByName(t *testing.T, name string) Tool {
	t.Helper()
	for _, tool := range GetToolDefinitions() {
		if tool.Name == name {
			return tool
		}
	}
	t.Fatalf("tool %s not found", name)
	return Tool{}
}

func requiredOf(t *testing.T, tool Tool) []string {
	t.Helper()
	required, ok := tool.InputSchema["required"].([]string)
	if !ok {
		t.Fatalf("%s: required should be a string slice", tool.Name)
	}
	return required
}

func TestGetToolDefinitions(t *testing.T) {
	expectedTools := []string{
		"image_load",
		"image_clip",
		"image_write",
		"image_ocr_full",
		"image_ocr_region",
		"image_text_regions",
		"ocr_info",
	}

	tools := GetToolDefinitions()
	if len(tools) != len(expectedTools) {
		t.Errorf("tool count: got %d, want %d", len(tools), len(expectedTools))
	}

	seen := make(map[string]bool)
	for _, tool := range tools {
		if seen[tool.Name] {
			t.Errorf("duplicate tool %s", tool.Name)
		}
		seen[tool.Name] = true
	}
	for _, name := range expectedTools {
		if !seen[name] {
			t.Errorf("Expected tool %s not found", name)
		}
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	tools := GetToolDefinitions()

	for _, tool := range tools {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}
			if tool.InputSchema["type"] != "object" {
				t.Errorf("InputSchema type: got %v, want 'object'", tool.InputSchema["type"])
			}

			props, ok := tool.InputSchema["properties"].(map[string]interface{})
			if !ok {
				t.Fatal("InputSchema properties should be a map")
			}

			// Every required parameter must be described.
			if _, ok := tool.InputSchema["required"]; !ok {
				return
			}
			for _, r := range requiredOf(t, tool) {
				if _, ok := props[r]; !ok {
					t.Errorf("required parameter %s has no property", r)
				}
			}
		})
	}
}

func TestToolDefinitions_RequiredPath(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		if tool.Name == "ocr_info" {
			continue
		}
		t.Run(tool.Name, func(t *testing.T) {
			if !slices.Contains(requiredOf(t, tool), "path") {
				t.Error("Tool should require 'path' parameter")
			}
		})
	}
}

func TestToolDefinitions_OCRRegionCoordinates(t *testing.T) {
	required := requiredOf(t, toolByName(t, "image_ocr_region"))
	for _, r := range []string{"path", "x1", "y1", "x2", "y2"} {
		if !slices.Contains(required, r) {
			t.Errorf("image_ocr_region should require '%s' parameter", r)
		}
	}

	// image_clip accepts coordinates or a named region, so only path is required.
	if got := requiredOf(t, toolByName(t, "image_clip")); !slices.Equal(got, []string{"path"}) {
		t.Errorf("image_clip required: got %v", got)
	}
}

func TestToolDefinitions_ClipRegionsMatchQuadrants(t *testing.T) {
	props := toolByName(t, "image_clip").InputSchema["properties"].(map[string]interface{})
	regionProp, ok := props["region"].(map[string]interface{})
	if !ok {
		t.Fatal("region property should exist and be a map")
	}
	enum, ok := regionProp["enum"].([]string)
	if !ok {
		t.Fatal("region should have enum")
	}

	// Every advertised region must be accepted by the clipper.
	for _, region := range enum {
		if _, err := imaging.QuadrantRect(100, 100, region); err != nil {
			t.Errorf("region %q rejected: %v", region, err)
		}
	}
}

func TestToolDefinitions_LevelsParse(t *testing.T) {
	props := toolByName(t, "image_text_regions").InputSchema["properties"].(map[string]interface{})
	levelProp := props["level"].(map[string]interface{})

	for _, name := range levelProp["enum"].([]string) {
		if _, ok := tesseract.ParseLevel(name); !ok {
			t.Errorf("level %q not understood by ParseLevel", name)
		}
	}
	if levelProp["default"] != "block" {
		t.Errorf("level default: got %v", levelProp["default"])
	}
}

func TestToolDefinitions_OptionalDefaults(t *testing.T) {
	toolDefaults := map[string]map[string]interface{}{
		"image_clip":         {"scale": 1.0},
		"image_text_regions": {"min_confidence": 0.0, "level": "block"},
	}

	for toolName, expectedDefaults := range toolDefaults {
		props := toolByName(t, toolName).InputSchema["properties"].(map[string]interface{})

		for paramName, expectedDefault := range expectedDefaults {
			param, ok := props[paramName].(map[string]interface{})
			if !ok {
				t.Errorf("%s.%s: parameter not found or not a map", toolName, paramName)
				continue
			}
			if actual, ok := param["default"]; !ok || actual != expectedDefault {
				t.Errorf("%s.%s: default got %v, want %v", toolName, paramName, actual, expectedDefault)
			}
		}
	}
}

func TestHandleToolsList(t *testing.T) {
	s := newTestServer(t)
	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
	}

	resp := s.handleToolsList(req)

	if resp == nil {
		t.Fatal("handleToolsList returned nil")
	}
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}

	toolsList, ok := result["tools"].([]Tool)
	if !ok {
		t.Fatal("tools should be a slice of Tool")
	}

	expected := GetToolDefinitions()
	if len(toolsList) != len(expected) {
		t.Errorf("Tool count: got %d, want %d", len(toolsList), len(expected))
	}
}
