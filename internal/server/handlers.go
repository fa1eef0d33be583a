package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/image-editor-mcp/internal/editor"
	"github.com/ironsheep/image-editor-mcp/internal/raster"
)

const defaultPreviewSize = 500

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "editor_open", "editor_rotate").
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

	log := s.logger.WithField("tool", params.Name)
	log.Debug("Executing tool")

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		log.WithFields(logrus.Fields{
			"validation": editor.IsValidation(err),
		}).WithError(err).Warn("Tool execution failed")
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
// Transformation tools decode their arguments into the matching editor.Op
// and leave all range checking to the engine.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Session
	case "editor_open":
		return s.handleOpen(args)
	case "editor_save":
		return s.handleSave(args)
	case "editor_undo":
		return s.handleUndo()
	case "editor_status":
		return s.engine.Status(), nil
	case "editor_preview":
		return s.handlePreview(args)
	case "editor_sample_color":
		return s.handleSampleColor(args)

	// Geometric transformations
	case "editor_translate":
		var op editor.Translate
		return s.applyOp(args, &op, "dx", "dy")
	case "editor_rotate":
		var op editor.Rotate
		return s.applyOp(args, &op, "angle")
	case "editor_resize":
		var op editor.Resize
		return s.applyOp(args, &op, "width", "height")
	case "editor_mirror":
		var op editor.Mirror
		return s.applyOp(args, &op)
	case "editor_crop":
		var op editor.Crop
		return s.applyOp(args, &op, "x1", "y1", "x2", "y2")

	// Photometric transformations
	case "editor_equalize":
		var op editor.Equalize
		return s.applyOp(args, &op)
	case "editor_smooth":
		var op editor.Smooth
		return s.applyOp(args, &op, "method")

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

// decodeArgs unmarshals tool arguments, treating missing arguments as {}.
func decodeArgs(args json.RawMessage, v interface{}) error {
	trimmed := bytes.TrimSpace(args)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(trimmed, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// missingArg returns the first of names absent from args, or "" when all
// are present. An explicit null counts as absent.
func missingArg(args json.RawMessage, names ...string) (string, error) {
	var fields map[string]json.RawMessage
	if err := decodeArgs(args, &fields); err != nil {
		return "", err
	}
	for _, name := range names {
		v, ok := fields[name]
		if !ok || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			return name, nil
		}
	}
	return "", nil
}

// === Session Handlers ===

type pathArgs struct {
	Path string `json:"path"`
}

// OpenResult describes a freshly opened image.
type OpenResult struct {
	Path   string        `json:"path"`
	Format string        `json:"format"`
	Status editor.Status `json:"status"`
}

func (s *Server) handleOpen(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errors.New("path is required")
	}
	format, ok := raster.FormatFromExtension(a.Path)
	if !ok {
		return nil, fmt.Errorf("unsupported file type %q: expected .png, .jpg, .jpeg or .bmp", filepath.Ext(a.Path))
	}

	data, err := os.ReadFile(a.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	if _, err := s.engine.Load(data); err != nil {
		return nil, err
	}

	status := s.engine.Status()
	s.logger.WithFields(logrus.Fields{
		"path":   a.Path,
		"width":  status.Width,
		"height": status.Height,
	}).Info("Image opened")

	return &OpenResult{Path: a.Path, Format: format, Status: status}, nil
}

// SaveResult describes a written file.
type SaveResult struct {
	Path   string `json:"path"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

func (s *Server) handleSave(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	path, err := savePath(a.Path)
	if err != nil {
		return nil, err
	}
	if err := s.engine.Save(path); err != nil {
		return nil, err
	}

	status := s.engine.Status()
	s.logger.WithField("path", path).Info("Image saved")
	return &SaveResult{Path: path, Width: status.Width, Height: status.Height}, nil
}

// savePath appends .png to paths without an extension and rejects any
// extension other than .png.
func savePath(path string) (string, error) {
	if path == "" {
		return "", errors.New("path is required")
	}
	switch ext := filepath.Ext(path); {
	case ext == "":
		return path + ".png", nil
	case strings.EqualFold(ext, ".png"):
		return path, nil
	default:
		return "", fmt.Errorf("unsupported output type %q: images are saved as .png", ext)
	}
}

// UndoResult reports the outcome of an undo request.
type UndoResult struct {
	Undone  bool          `json:"undone"`
	Message string        `json:"message,omitempty"`
	Status  editor.Status `json:"status"`
}

func (s *Server) handleUndo() (interface{}, error) {
	_, err := s.engine.Undo()
	switch {
	case errors.Is(err, editor.ErrEmptyHistory):
		return &UndoResult{Undone: false, Message: err.Error(), Status: s.engine.Status()}, nil
	case err != nil:
		return nil, err
	}
	return &UndoResult{Undone: true, Status: s.engine.Status()}, nil
}

type previewArgs struct {
	MaxSize int `json:"max_size"`
}

// PreviewResult contains the current image encoded for display.
type PreviewResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

func (s *Server) handlePreview(args json.RawMessage) (interface{}, error) {
	var a previewArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.MaxSize == 0 {
		a.MaxSize = defaultPreviewSize
	}
	if a.MaxSize < 1 {
		return nil, fmt.Errorf("max_size must be positive, got %d", a.MaxSize)
	}

	cur := s.engine.Current()
	if cur == nil {
		return nil, editor.ErrNoImage
	}
	thumb := raster.Thumbnail(cur, a.MaxSize)

	var buf bytes.Buffer
	if err := raster.EncodePNG(&buf, thumb); err != nil {
		return nil, err
	}

	return &PreviewResult{
		Width:       thumb.Width,
		Height:      thumb.Height,
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

type sampleColorArgs struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (s *Server) handleSampleColor(args json.RawMessage) (interface{}, error) {
	missing, err := missingArg(args, "x", "y")
	if err != nil {
		return nil, err
	}
	if missing != "" {
		return nil, fmt.Errorf("%s is required", missing)
	}
	var a sampleColorArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	cur := s.engine.Current()
	if cur == nil {
		return nil, editor.ErrNoImage
	}
	return raster.SampleColor(cur, a.X, a.Y)
}

// === Transformation Handlers ===

// ApplyResult reports a completed transformation.
type ApplyResult struct {
	Operation editor.Kind   `json:"operation"`
	Status    editor.Status `json:"status"`
}

// applyOp checks that every required argument is present, decodes args into
// op and applies it to the engine.
func (s *Server) applyOp(args json.RawMessage, op editor.Op, required ...string) (interface{}, error) {
	missing, err := missingArg(args, required...)
	if err != nil {
		return nil, &editor.ValidationError{Op: op.Kind(), Reason: err.Error()}
	}
	if missing != "" {
		return nil, &editor.ValidationError{Op: op.Kind(), Param: missing, Reason: "is required"}
	}
	if err := decodeArgs(args, op); err != nil {
		return nil, &editor.ValidationError{Op: op.Kind(), Reason: err.Error()}
	}
	if _, err := s.engine.Apply(op); err != nil {
		return nil, err
	}

	status := s.engine.Status()
	s.logger.WithFields(logrus.Fields{
		"operation":     op.Kind(),
		"width":         status.Width,
		"height":        status.Height,
		"history_depth": status.HistoryDepth,
	}).Debug("Transformation applied")

	return &ApplyResult{Operation: op.Kind(), Status: status}, nil
}
