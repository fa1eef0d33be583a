// Package server implements the MCP (Model Context Protocol) server that
// exposes the image editor as a set of tools.
//
// The server is the presentation boundary of the editor: it decodes tool
// arguments into editor operations, forwards them to a single
// editor.Engine, and renders results or failures as JSON-RPC responses. It
// never touches pixel data itself.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Session:
//   - editor_open: Open a PNG, JPEG or BMP file (clears undo history)
//   - editor_save: Save the current image as PNG
//   - editor_undo: Undo the last transformation
//   - editor_status: Loaded flag, dimensions, undo depth
//   - editor_preview: Current image as base64 PNG thumbnail
//   - editor_sample_color: Color at a pixel
//
// Geometric transformations:
//   - editor_translate, editor_rotate, editor_resize, editor_mirror, editor_crop
//
// Photometric transformations:
//   - editor_equalize, editor_smooth
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// An undo with nothing to undo is not an error: the result carries
// "undone": false.
//
// # Usage
//
//	eng := editor.New(editor.Options{})
//	srv := server.New(eng, logger)
//	if err := srv.Run(); err != nil {
//	    logger.Fatal(err)
//	}
package server
