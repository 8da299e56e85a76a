// Package server implements the MCP (Model Context Protocol) server for the
// raster engine.
//
// This package provides a JSON-RPC 2.0 server that exposes image loading,
// sampling, filtering, resampling and compositing through the MCP protocol.
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
//   - raster_info: dimensions, detected format, transparency, mean luminance
//   - raster_sample: point, bilinear or Gaussian samples at fractional positions
//   - raster_process: run a chain of operations (gamma, brighten, contrast,
//     noise, extract, blur, sharpen, edge, scale) and write the result
//   - raster_composite: alpha "over" of two equally sized images
//   - raster_copy_channel: move one channel between equally sized images
//   - raster_convert: re-encode in another format
//
// Tools that write an image accept format, quality, lossless and plain
// arguments. Without format the output path's extension decides.
//
// # Image Caching
//
// Decoded images are cached by path for the lifetime of the process. Tools
// always work on private copies, and writing to a path evicts its cached
// entry.
//
// # Error Handling
//
// Errors are returned as JSON-RPC error responses:
//   - -32700: the request line is not JSON
//   - -32601: unknown method
//   - -32602: malformed or missing tool arguments
//   - -32000: the tool ran and failed (unreadable file, size mismatch, ...)
//
// The data field carries the Go error string.
package server
