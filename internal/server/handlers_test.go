package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ironsheep/image-editor-mcp/internal/raster"
)

// createTestImageFile writes a PNG whose left half is red and right half
// blue, returning its path
func createTestImageFile(t *testing.T, width, height int) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x < width/2 {
				img.Set(x, y, color.RGBA{255, 0, 0, 255})
			} else {
				img.Set(x, y, color.RGBA{0, 0, 255, 255})
			}
		}
	}

	path := filepath.Join(t.TempDir(), "input.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

// callTool sends a tools/call request and returns the response
func callTool(t *testing.T, s *Server, name string, args interface{}) *MCPResponse {
	t.Helper()

	params := map[string]interface{}{"name": name}
	if args != nil {
		params["arguments"] = args
	}
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		t.Fatalf("failed to marshal params: %v", err)
	}

	resp := s.handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  paramsJSON,
	})
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	return resp
}

// decodeToolResult unmarshals the text content of a successful tool response
func decodeToolResult(t *testing.T, resp *MCPResponse, v interface{}) {
	t.Helper()

	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v (%v)", resp.Error.Message, resp.Error.Data)
	}
	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	content, ok := result["content"].([]map[string]interface{})
	if !ok || len(content) != 1 {
		t.Fatal("Result should contain one content item")
	}
	if content[0]["type"] != "text" {
		t.Errorf("content type: got %v, want text", content[0]["type"])
	}
	text, _ := content[0]["text"].(string)
	if err := json.Unmarshal([]byte(text), v); err != nil {
		t.Fatalf("failed to decode tool result %q: %v", text, err)
	}
}

// openedServer returns a server with a width x height test image open
func openedServer(t *testing.T, width, height int) *Server {
	t.Helper()
	s := newTestServer()
	resp := callTool(t, s, "editor_open", map[string]interface{}{"path": createTestImageFile(t, width, height)})
	if resp.Error != nil {
		t.Fatalf("editor_open failed: %v", resp.Error.Data)
	}
	return s
}

func TestHandleToolsCall_Open(t *testing.T) {
	s := newTestServer()
	path := createTestImageFile(t, 800, 400)

	var result OpenResult
	decodeToolResult(t, callTool(t, s, "editor_open", map[string]interface{}{"path": path}), &result)

	if result.Path != path {
		t.Errorf("Path: got %s, want %s", result.Path, path)
	}
	if result.Format != "png" {
		t.Errorf("Format: got %s, want png", result.Format)
	}
	if !result.Status.Loaded || result.Status.Width != 500 || result.Status.Height != 250 {
		t.Errorf("Status: got %+v, want loaded 500x250", result.Status)
	}
	if result.Status.HistoryDepth != 0 {
		t.Errorf("HistoryDepth: got %d, want 0", result.Status.HistoryDepth)
	}
}

func TestHandleToolsCall_OpenErrors(t *testing.T) {
	dir := t.TempDir()
	notImage := filepath.Join(dir, "garbage.png")
	if err := os.WriteFile(notImage, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	tests := []struct {
		name string
		args interface{}
	}{
		{"missing path", map[string]interface{}{}},
		{"no arguments", nil},
		{"unsupported extension", map[string]interface{}{"path": filepath.Join(dir, "image.gif")}},
		{"nonexistent file", map[string]interface{}{"path": filepath.Join(dir, "missing.png")}},
		{"undecodable file", map[string]interface{}{"path": notImage}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := callTool(t, newTestServer(), "editor_open", tt.args)
			if resp.Error == nil {
				t.Fatal("Expected error")
			}
			if resp.Error.Code != -32000 {
				t.Errorf("Error code: got %d, want -32000", resp.Error.Code)
			}
		})
	}
}

func TestHandleToolsCall_OperationsRequireImage(t *testing.T) {
	tests := []struct {
		name string
		args interface{}
	}{
		{"editor_translate", map[string]interface{}{"dx": 1, "dy": 1}},
		{"editor_rotate", map[string]interface{}{"angle": 90}},
		{"editor_resize", map[string]interface{}{"width": 10, "height": 10}},
		{"editor_mirror", nil},
		{"editor_crop", map[string]interface{}{"x1": 0, "y1": 0, "x2": 1, "y2": 1}},
		{"editor_equalize", nil},
		{"editor_smooth", map[string]interface{}{"method": "Median"}},
		{"editor_save", map[string]interface{}{"path": filepath.Join(t.TempDir(), "out.png")}},
		{"editor_preview", nil},
		{"editor_sample_color", map[string]interface{}{"x": 0, "y": 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := callTool(t, newTestServer(), tt.name, tt.args)
			if resp.Error == nil {
				t.Fatal("Expected error without an open image")
			}
			if resp.Error.Data != "no image loaded" {
				t.Errorf("Error data: got %v, want 'no image loaded'", resp.Error.Data)
			}
		})
	}
}

func TestHandleToolsCall_ApplyAndUndo(t *testing.T) {
	s := openedServer(t, 100, 60)

	var applied ApplyResult
	decodeToolResult(t, callTool(t, s, "editor_rotate", map[string]interface{}{"angle": 90}), &applied)

	if applied.Operation != "rotate" {
		t.Errorf("Operation: got %s, want rotate", applied.Operation)
	}
	if applied.Status.Width != 60 || applied.Status.Height != 100 {
		t.Errorf("dimensions after rotate: got %dx%d, want 60x100", applied.Status.Width, applied.Status.Height)
	}
	if applied.Status.HistoryDepth != 1 {
		t.Errorf("HistoryDepth: got %d, want 1", applied.Status.HistoryDepth)
	}

	var undone UndoResult
	decodeToolResult(t, callTool(t, s, "editor_undo", nil), &undone)

	if !undone.Undone {
		t.Error("Undone should be true")
	}
	if undone.Status.Width != 100 || undone.Status.Height != 60 || undone.Status.HistoryDepth != 0 {
		t.Errorf("Status after undo: got %+v", undone.Status)
	}
}

func TestHandleToolsCall_UndoEmpty(t *testing.T) {
	for _, s := range []*Server{newTestServer(), openedServer(t, 20, 20)} {
		var result UndoResult
		decodeToolResult(t, callTool(t, s, "editor_undo", nil), &result)

		if result.Undone {
			t.Error("Undone should be false with an empty history")
		}
		if result.Message == "" {
			t.Error("Message should explain that nothing was undone")
		}
	}
}

func TestHandleToolsCall_AllOperations(t *testing.T) {
	s := openedServer(t, 120, 90)

	steps := []struct {
		name         string
		args         interface{}
		wantW, wantH int
	}{
		{"editor_translate", map[string]interface{}{"dx": 10, "dy": -5}, 120, 90},
		{"editor_mirror", nil, 120, 90},
		{"editor_resize", map[string]interface{}{"width": 80, "height": 60}, 80, 60},
		{"editor_crop", map[string]interface{}{"x1": 10, "y1": 10, "x2": 50, "y2": 40}, 40, 30},
		{"editor_equalize", nil, 40, 30},
		{"editor_smooth", map[string]interface{}{"method": "Average"}, 40, 30},
		{"editor_smooth", map[string]interface{}{"method": "Gaussiano"}, 40, 30},
		{"editor_rotate", map[string]interface{}{"angle": 180}, 40, 30},
	}

	for i, step := range steps {
		var result ApplyResult
		decodeToolResult(t, callTool(t, s, step.name, step.args), &result)

		if result.Status.Width != step.wantW || result.Status.Height != step.wantH {
			t.Errorf("%s: got %dx%d, want %dx%d", step.name, result.Status.Width, result.Status.Height, step.wantW, step.wantH)
		}
		if result.Status.HistoryDepth != i+1 {
			t.Errorf("%s: HistoryDepth got %d, want %d", step.name, result.Status.HistoryDepth, i+1)
		}
	}
}

func TestHandleToolsCall_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		tool string
		args interface{}
	}{
		{"rotate too far", "editor_rotate", map[string]interface{}{"angle": 361}},
		{"translate too far", "editor_translate", map[string]interface{}{"dx": 501, "dy": 0}},
		{"resize zero", "editor_resize", map[string]interface{}{"width": 0, "height": 10}},
		{"resize beyond pixel limit", "editor_resize", map[string]interface{}{"width": 1 << 40, "height": 1 << 40}},
		{"crop outside", "editor_crop", map[string]interface{}{"x1": 0, "y1": 0, "x2": 500, "y2": 10}},
		{"crop empty", "editor_crop", map[string]interface{}{"x1": 5, "y1": 5, "x2": 5, "y2": 10}},
		{"smooth unknown", "editor_smooth", map[string]interface{}{"method": "Foo"}},
		{"wrong argument type", "editor_rotate", map[string]interface{}{"angle": "ninety"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := openedServer(t, 50, 40)

			resp := callTool(t, s, tt.tool, tt.args)
			if resp.Error == nil {
				t.Fatal("Expected error")
			}
			if resp.Error.Code != -32000 {
				t.Errorf("Error code: got %d, want -32000", resp.Error.Code)
			}

			status := s.engine.Status()
			if status.HistoryDepth != 0 || status.Width != 50 || status.Height != 40 {
				t.Errorf("rejected operation changed state: %+v", status)
			}
		})
	}
}

func TestHandleToolsCall_MissingArguments(t *testing.T) {
	tests := []struct {
		tool      string
		args      interface{}
		wantError string
	}{
		{"editor_translate", map[string]interface{}{}, "invalid translate parameter dx: is required"},
		{"editor_translate", map[string]interface{}{"dx": 10}, "invalid translate parameter dy: is required"},
		{"editor_translate", map[string]interface{}{"dx": 10, "dy": nil}, "invalid translate parameter dy: is required"},
		{"editor_rotate", nil, "invalid rotate parameter angle: is required"},
		{"editor_rotate", map[string]interface{}{}, "invalid rotate parameter angle: is required"},
		{"editor_resize", map[string]interface{}{"width": 20}, "invalid resize parameter height: is required"},
		{"editor_crop", map[string]interface{}{"x1": 0, "y1": 0, "x2": 10}, "invalid crop parameter y2: is required"},
		{"editor_smooth", map[string]interface{}{}, "invalid smooth parameter method: is required"},
		{"editor_sample_color", map[string]interface{}{"x": 1}, "y is required"},
	}

	for _, tt := range tests {
		t.Run(tt.wantError, func(t *testing.T) {
			s := openedServer(t, 50, 40)

			resp := callTool(t, s, tt.tool, tt.args)
			if resp.Error == nil {
				t.Fatal("Expected error for missing argument")
			}
			if resp.Error.Data != tt.wantError {
				t.Errorf("Error data: got %v, want %q", resp.Error.Data, tt.wantError)
			}
			if s.engine.HistoryLen() != 0 {
				t.Errorf("HistoryLen: got %d, want 0", s.engine.HistoryLen())
			}
		})
	}
}

func TestMissingArg(t *testing.T) {
	tests := []struct {
		args string
		want string
	}{
		{`{"dx": 0, "dy": 0}`, ""},
		{`{"dy": 3}`, "dx"},
		{`{"dx": 3, "dy": null}`, "dy"},
		{``, "dx"},
		{`null`, "dx"},
	}

	for _, tt := range tests {
		got, err := missingArg(json.RawMessage(tt.args), "dx", "dy")
		if err != nil {
			t.Fatalf("missingArg(%q) failed: %v", tt.args, err)
		}
		if got != tt.want {
			t.Errorf("missingArg(%q): got %q, want %q", tt.args, got, tt.want)
		}
	}

	if _, err := missingArg(json.RawMessage(`[1]`), "dx"); err == nil {
		t.Error("missingArg should fail for non-object arguments")
	}
}

func TestHandleToolsCall_Save(t *testing.T) {
	s := openedServer(t, 64, 32)
	dir := t.TempDir()

	tests := []struct {
		name     string
		path     string
		wantPath string
	}{
		{"png extension", filepath.Join(dir, "a.png"), filepath.Join(dir, "a.png")},
		{"upper-case extension", filepath.Join(dir, "b.PNG"), filepath.Join(dir, "b.PNG")},
		{"no extension", filepath.Join(dir, "c"), filepath.Join(dir, "c.png")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var result SaveResult
			decodeToolResult(t, callTool(t, s, "editor_save", map[string]interface{}{"path": tt.path}), &result)

			if result.Path != tt.wantPath {
				t.Errorf("Path: got %s, want %s", result.Path, tt.wantPath)
			}
			if result.Width != 64 || result.Height != 32 {
				t.Errorf("dimensions: got %dx%d, want 64x32", result.Width, result.Height)
			}

			data, err := os.ReadFile(tt.wantPath)
			if err != nil {
				t.Fatalf("saved file missing: %v", err)
			}
			img, format, err := raster.Decode(data)
			if err != nil {
				t.Fatalf("saved file does not decode: %v", err)
			}
			if format != "png" || !img.Equal(s.engine.Current()) {
				t.Error("saved file should be a PNG of the current image")
			}
		})
	}
}

func TestSavePath(t *testing.T) {
	tests := []struct {
		path    string
		want    string
		wantErr bool
	}{
		{"/tmp/out.png", "/tmp/out.png", false},
		{"/tmp/out.Png", "/tmp/out.Png", false},
		{"/tmp/out", "/tmp/out.png", false},
		{"/tmp/out.jpg", "", true},
		{"/tmp/out.bmp", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := savePath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("savePath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("savePath(%q): got %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestHandleToolsCall_Preview(t *testing.T) {
	s := openedServer(t, 400, 200)

	tests := []struct {
		name         string
		args         interface{}
		wantW, wantH int
	}{
		{"default size", nil, 400, 200},
		{"downsized", map[string]interface{}{"max_size": 100}, 100, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var result PreviewResult
			decodeToolResult(t, callTool(t, s, "editor_preview", tt.args), &result)

			if result.MimeType != "image/png" {
				t.Errorf("MimeType: got %s, want image/png", result.MimeType)
			}
			if result.Width != tt.wantW || result.Height != tt.wantH {
				t.Errorf("dimensions: got %dx%d, want %dx%d", result.Width, result.Height, tt.wantW, tt.wantH)
			}

			data, err := base64.StdEncoding.DecodeString(result.ImageBase64)
			if err != nil {
				t.Fatalf("invalid base64: %v", err)
			}
			img, err := png.Decode(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("preview is not a PNG: %v", err)
			}
			if img.Bounds().Dx() != tt.wantW || img.Bounds().Dy() != tt.wantH {
				t.Errorf("decoded preview: got %v", img.Bounds())
			}
		})
	}

	if s.engine.HistoryLen() != 0 {
		t.Error("preview should not record history")
	}
}

func TestHandleToolsCall_PreviewInvalidSize(t *testing.T) {
	s := openedServer(t, 20, 20)

	resp := callTool(t, s, "editor_preview", map[string]interface{}{"max_size": -5})
	if resp.Error == nil {
		t.Error("Expected error for negative max_size")
	}
}

func TestHandleToolsCall_SampleColor(t *testing.T) {
	s := openedServer(t, 100, 100)

	var result raster.ColorResult
	decodeToolResult(t, callTool(t, s, "editor_sample_color", map[string]interface{}{"x": 10, "y": 50}), &result)
	if result.Hex != "#FF0000" {
		t.Errorf("left half: got %s, want #FF0000", result.Hex)
	}

	decodeToolResult(t, callTool(t, s, "editor_mirror", nil), &ApplyResult{})
	decodeToolResult(t, callTool(t, s, "editor_sample_color", map[string]interface{}{"x": 10, "y": 50}), &result)
	if result.Hex != "#0000FF" {
		t.Errorf("left half after mirror: got %s, want #0000FF", result.Hex)
	}

	resp := callTool(t, s, "editor_sample_color", map[string]interface{}{"x": 100, "y": 0})
	if resp.Error == nil {
		t.Error("Expected error for out-of-bounds coordinates")
	}
}

func TestHandleToolsCall_Status(t *testing.T) {
	s := newTestServer()

	var status map[string]interface{}
	decodeToolResult(t, callTool(t, s, "editor_status", nil), &status)
	if status["loaded"] != false {
		t.Errorf("loaded: got %v, want false", status["loaded"])
	}

	s = openedServer(t, 30, 20)
	decodeToolResult(t, callTool(t, s, "editor_status", nil), &status)
	if status["loaded"] != true || status["width"] != float64(30) || status["channels"] != float64(3) {
		t.Errorf("status: got %v", status)
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := newTestServer()
	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  json.RawMessage(`"not an object"`),
	}

	resp := s.handleRequest(req)

	if resp.Error == nil {
		t.Fatal("Expected error for invalid params")
	}
	if resp.Error.Code != -32602 {
		t.Errorf("Error code: got %d, want -32602", resp.Error.Code)
	}
}

func TestExecuteTool_UnknownTool(t *testing.T) {
	s := newTestServer()

	if _, err := s.executeTool("image_ocr_full", json.RawMessage(`{}`)); err == nil {
		t.Error("Expected error for unknown tool")
	}
}

func TestDecodeArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    string
		wantErr bool
	}{
		{"empty", "", false},
		{"null", "null", false},
		{"whitespace", "  ", false},
		{"object", `{"x": 3, "y": 4}`, false},
		{"array", `[1, 2]`, true},
		{"malformed", `{"x":`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a sampleColorArgs
			err := decodeArgs(json.RawMessage(tt.args), &a)
			if (err != nil) != tt.wantErr {
				t.Errorf("decodeArgs(%q) error = %v, wantErr %v", tt.args, err, tt.wantErr)
			}
		})
	}
}
