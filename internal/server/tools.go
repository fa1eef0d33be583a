package server

import "github.com/ironsheep/image-editor-mcp/internal/raster"

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func noArgsSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
	}
}

func smoothMethodNames() []string {
	names := make([]string, len(raster.SmoothMethods))
	for i, m := range raster.SmoothMethods {
		names[i] = string(m)
	}
	return names
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Session
		{
			Name:        "editor_open",
			Description: "Open a PNG, JPEG or BMP file as the image being edited. The image is downsized to fit within 500x500 and the undo history is cleared.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "editor_save",
			Description: "Save the current image as PNG. A path without extension gets .png appended.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Destination file path",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "editor_undo",
			Description: "Undo the most recent transformation. Does nothing when there is nothing to undo.",
			InputSchema: noArgsSchema(),
		},
		{
			Name:        "editor_status",
			Description: "Report whether an image is loaded, its dimensions and the undo depth.",
			InputSchema: noArgsSchema(),
		},
		{
			Name:        "editor_preview",
			Description: "Return the current image as base64-encoded PNG, downsized to fit within max_size.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"max_size": map[string]interface{}{
						"type":        "integer",
						"description": "Largest width or height of the preview (default 500)",
						"default":     defaultPreviewSize,
					},
				},
			},
		},
		{
			Name:        "editor_sample_color",
			Description: "Get the exact color value of the current image at a pixel coordinate.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based, from left)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based, from top)",
					},
				},
				"required": []string{"x", "y"},
			},
		},

		// Geometric transformations
		{
			Name:        "editor_translate",
			Description: "Shift the image by (dx, dy) on a same-size black canvas. Pixels moved off the canvas are lost.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"dx": map[string]interface{}{"type": "integer", "minimum": -500, "maximum": 500, "description": "Horizontal offset in pixels"},
					"dy": map[string]interface{}{"type": "integer", "minimum": -500, "maximum": 500, "description": "Vertical offset in pixels"},
				},
				"required": []string{"dx", "dy"},
			},
		},
		{
			Name:        "editor_rotate",
			Description: "Rotate the image counter-clockwise about its center. The canvas expands to fit.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"angle": map[string]interface{}{"type": "number", "minimum": -360, "maximum": 360, "description": "Rotation angle in degrees"},
				},
				"required": []string{"angle"},
			},
		},
		{
			Name:        "editor_resize",
			Description: "Resample the image to an exact width and height with a Lanczos filter. The aspect ratio is not preserved.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"width":  map[string]interface{}{"type": "integer", "minimum": 1, "description": "New width in pixels"},
					"height": map[string]interface{}{"type": "integer", "minimum": 1, "description": "New height in pixels"},
				},
				"required": []string{"width", "height"},
			},
		},
		{
			Name:        "editor_mirror",
			Description: "Flip the image left to right.",
			InputSchema: noArgsSchema(),
		},
		{
			Name:        "editor_crop",
			Description: "Keep only a rectangular region of the image. (x1,y1) is the inclusive top-left corner, (x2,y2) the exclusive bottom-right corner.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"x1": map[string]interface{}{"type": "integer", "description": "Left edge X coordinate (0-based)"},
					"y1": map[string]interface{}{"type": "integer", "description": "Top edge Y coordinate (0-based)"},
					"x2": map[string]interface{}{"type": "integer", "description": "Right edge X coordinate (exclusive)"},
					"y2": map[string]interface{}{"type": "integer", "description": "Bottom edge Y coordinate (exclusive)"},
				},
				"required": []string{"x1", "y1", "x2", "y2"},
			},
		},

		// Photometric transformations
		{
			Name:        "editor_equalize",
			Description: "Equalize the histogram of each color channel independently. May shift the color balance.",
			InputSchema: noArgsSchema(),
		},
		{
			Name:        "editor_smooth",
			Description: "Smooth the image. Average is a 5x5 box blur, Gaussian uses sigma 2, Median a 3x3 window. Bilateral currently applies the Gaussian filter.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"method": map[string]interface{}{
						"type":        "string",
						"enum":        smoothMethodNames(),
						"description": "Smoothing filter",
					},
				},
				"required": []string{"method"},
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
