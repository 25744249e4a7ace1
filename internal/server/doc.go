// Package server implements an MCP (Model Context Protocol) server exposing
// the Leptonica image tools and Tesseract OCR.
//
// # Protocol
//
// The server speaks JSON-RPC 2.0, one message per line:
//   - Input: requests on stdin (or any io.Reader passed to Serve)
//   - Output: responses on stdout
//
// Supported methods are initialize, notifications/initialized, ping,
// tools/list and tools/call.
//
// # Tools
//
// Image:
//   - image_load: dimensions, depth, format and resolution
//   - image_clip: rectangle or named region as base64 PNG
//   - image_write: re-encode to another file and format
//
// OCR:
//   - image_ocr_full: all text with word boxes
//   - image_ocr_region: text inside a rectangle
//   - image_text_regions: text locations at a layout level
//   - ocr_info: library versions and installed languages
//
// # Images and engines
//
// Decoded images are cached by path for the life of the server; image_write
// evicts its output path. OCR engines live in an ocr.Pool that is started by
// the first OCR call, so image tools keep working on hosts without language
// data.
//
// # Errors
//
// Tool failures are JSON-RPC errors with code -32000 and the Go error string
// in data. Malformed params give -32602, unparsable lines -32700.
//
// # Usage
//
//	srv := server.New(server.Options{OCR: cfg.OCROptions(), Workers: cfg.Workers})
//	defer srv.Close()
//	if err := srv.Run(); err != nil {
//	    return err
//	}
package server
