package server

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ironsheep/raster-tools/internal/codec"
	"github.com/ironsheep/raster-tools/internal/raster"
)

// createTestImageFile writes a uniformly coloured image into a temporary
// directory and returns its path.
func createTestImageFile(t *testing.T, name string, width, height int, p raster.Pixel) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if _, err := codec.WriteFile(path, raster.NewFilled(width, height, p), codec.FormatUnknown, nil); err != nil {
		t.Fatalf("failed to write test image: %v", err)
	}
	return path
}

func callTool(t *testing.T, s *Server, name string, args map[string]interface{}) *MCPResponse {
	t.Helper()
	paramsJSON, err := json.Marshal(map[string]interface{}{
		"name":      name,
		"arguments": args,
	})
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

// decodeResult unpacks the JSON text content of a successful tool call.
func decodeResult(t *testing.T, resp *MCPResponse, v interface{}) {
	t.Helper()
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %+v", resp.Error)
	}
	result := resp.Result.(map[string]interface{})
	content := result["content"].([]map[string]interface{})
	if len(content) != 1 || content[0]["type"] != "text" {
		t.Fatalf("unexpected content: %v", content)
	}
	if err := json.Unmarshal([]byte(content[0]["text"].(string)), v); err != nil {
		t.Fatalf("failed to decode tool result: %v", err)
	}
}

func wantError(t *testing.T, resp *MCPResponse, code int) {
	t.Helper()
	if resp.Error == nil {
		t.Fatalf("expected error code %d, got result %v", code, resp.Result)
	}
	if resp.Error.Code != code {
		t.Errorf("error code: got %d, want %d (%v)", resp.Error.Code, code, resp.Error.Data)
	}
}

func TestHandleToolsCall_RasterInfo(t *testing.T) {
	s := New(Config{})
	path := createTestImageFile(t, "red.png", 100, 80, raster.RGBA(1, 0, 0, 1))

	var info struct {
		Width    int     `json:"width"`
		Height   int     `json:"height"`
		Format   string  `json:"format"`
		HasAlpha bool    `json:"has_alpha"`
		Mean     float64 `json:"mean_luminance"`
	}
	decodeResult(t, callTool(t, s, "raster_info", map[string]interface{}{"path": path}), &info)

	if info.Width != 100 || info.Height != 80 {
		t.Errorf("size: got %dx%d, want 100x80", info.Width, info.Height)
	}
	if info.Format != "png" {
		t.Errorf("format: got %s, want png", info.Format)
	}
	if info.HasAlpha {
		t.Error("opaque image reported alpha")
	}
	if info.Mean < 0.29 || info.Mean > 0.31 {
		t.Errorf("mean luminance: got %g, want about 0.299", info.Mean)
	}
}

func TestHandleToolsCall_NonExistentFile(t *testing.T) {
	s := New(Config{})
	resp := callTool(t, s, "raster_info", map[string]interface{}{"path": "/nonexistent/image.png"})
	wantError(t, resp, codeToolFailed)
}

func TestHandleToolsCall_UnknownTool(t *testing.T) {
	s := New(Config{})
	wantError(t, callTool(t, s, "image_ocr_full", map[string]interface{}{}), codeToolFailed)
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := New(Config{})
	resp := s.handleToolsCall(&MCPRequest{JSONRPC: "2.0", ID: 1, Params: json.RawMessage(`[1,2]`)})
	wantError(t, resp, codeInvalidParams)
}

func TestHandleToolsCall_ArgumentErrors(t *testing.T) {
	s := New(Config{})
	path := createTestImageFile(t, "in.ppm", 4, 4, raster.Gray(0.5))
	out := filepath.Join(t.TempDir(), "out.png")

	tests := []struct {
		name string
		tool string
		args map[string]interface{}
	}{
		{"missing path", "raster_info", map[string]interface{}{}},
		{"no points", "raster_sample", map[string]interface{}{"path": path}},
		{"bad method", "raster_sample", map[string]interface{}{
			"path": path, "method": "cubic", "points": []map[string]interface{}{{"x": 0, "y": 0}},
		}},
		{"no steps", "raster_process", map[string]interface{}{"path": path, "output": out}},
		{"bad step", "raster_process", map[string]interface{}{"path": path, "output": out, "steps": []string{"gamma:-2"}}},
		{"bad format", "raster_convert", map[string]interface{}{"path": path, "output": out, "format": "xcf"}},
		{"bad channel", "raster_copy_channel", map[string]interface{}{
			"path": path, "source": path, "output": out, "from": "cyan", "to": "red",
		}},
		{"bad operation", "raster_composite", map[string]interface{}{
			"bottom": path, "top": path, "output": out, "operation": "multiply",
		}},
		{"wrong type", "raster_sample", map[string]interface{}{"path": 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wantError(t, callTool(t, s, tt.tool, tt.args), codeInvalidParams)
		})
	}

	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Errorf("no output should be written, stat error: %v", err)
	}
}

func TestHandleToolsCall_RasterSample(t *testing.T) {
	s := New(Config{})

	img := raster.New(2, 1)
	img.SetPixel(0, 0, raster.RGBA(0, 0, 0, 1))
	img.SetPixel(1, 0, raster.RGBA(1, 1, 1, 1))
	path := filepath.Join(t.TempDir(), "ramp.png")
	if _, err := codec.WriteFile(path, img, codec.FormatUnknown, nil); err != nil {
		t.Fatal(err)
	}

	var result SampleResult
	decodeResult(t, callTool(t, s, "raster_sample", map[string]interface{}{
		"path":   path,
		"method": "bilinear",
		"points": []map[string]interface{}{
			{"x": 0, "y": 0, "label": "left"},
			{"x": 0.5, "y": 0},
			{"x": 7, "y": -3},
		},
	}), &result)

	if result.Method != "bilinear" || result.Width != 2 || result.Height != 1 {
		t.Errorf("header: got %+v", result)
	}
	if len(result.Samples) != 3 {
		t.Fatalf("got %d samples, want 3", len(result.Samples))
	}
	if result.Samples[0].Label != "left" || result.Samples[0].Color.Hex != "#000000" {
		t.Errorf("first sample: %+v", result.Samples[0])
	}
	mid := result.Samples[1].Color
	if mid.Value.R != 0.5 || mid.RGBA.R != 128 || mid.HSL.L != 50 {
		t.Errorf("midpoint: %+v", mid)
	}
	if result.Samples[2].Color.Hex != "#ffffff" {
		t.Errorf("out-of-range sample should clamp to the edge: %+v", result.Samples[2])
	}
}

func TestHandleToolsCall_RasterProcess(t *testing.T) {
	s := New(Config{})
	path := createTestImageFile(t, "in.ppm", 8, 6, raster.RGBA(1, 0, 0, 1))
	out := filepath.Join(t.TempDir(), "out.txt")

	var result WriteResult
	decodeResult(t, callTool(t, s, "raster_process", map[string]interface{}{
		"path":   path,
		"output": out,
		"steps":  []string{"brighten:0.5", "scale:0.5,point"},
	}), &result)

	if result.Format != codec.FormatTXT || result.Width != 4 || result.Height != 3 {
		t.Errorf("result: %+v", result)
	}
	if len(result.Steps) != 2 || result.Steps[1] != "scale:0.5,0.5,point" {
		t.Errorf("steps: %v", result.Steps)
	}

	img, _, err := codec.ReadFile(out)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if got := img.Pixel(2, 1); got != raster.RGBA(0.5, 0, 0, 1) {
		t.Errorf("pixel: got %v, want (0.5, 0, 0, 1)", got)
	}
}

func TestHandleToolsCall_RasterProcessOversizedScale(t *testing.T) {
	s := New(Config{})
	path := createTestImageFile(t, "in.ppm", 2, 2, raster.Gray(0.5))
	out := filepath.Join(t.TempDir(), "out.png")

	for _, step := range []string{"scale:1e10", "scale:1e300,point"} {
		t.Run(step, func(t *testing.T) {
			resp := callTool(t, s, "raster_process", map[string]interface{}{
				"path":   path,
				"output": out,
				"steps":  []string{step},
			})
			wantError(t, resp, codeToolFailed)
		})
	}

	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Errorf("no output should be written, stat error: %v", err)
	}
}

func TestHandleToolsCall_RasterProcessSeededNoise(t *testing.T) {
	s := New(Config{})
	path := createTestImageFile(t, "gray.txt", 5, 5, raster.Gray(0.5))
	dir := t.TempDir()

	run := func(name string) *raster.Image {
		out := filepath.Join(dir, name)
		resp := callTool(t, s, "raster_process", map[string]interface{}{
			"path":   path,
			"output": out,
			"steps":  []string{"noise:0.3"},
			"seed":   42,
		})
		var result WriteResult
		decodeResult(t, resp, &result)
		img, _, err := codec.ReadFile(out)
		if err != nil {
			t.Fatal(err)
		}
		return img
	}

	a, b := run("a.txt"), run("b.txt")
	for i, p := range a.Pixels() {
		if p != b.Pixels()[i] {
			t.Fatalf("pixel %d differs between seeded runs: %v vs %v", i, p, b.Pixels()[i])
		}
	}
}

func TestHandleToolsCall_RasterComposite(t *testing.T) {
	s := New(Config{})
	bottom := createTestImageFile(t, "bottom.png", 3, 3, raster.RGBA(0, 0, 1, 1))
	top := createTestImageFile(t, "top.png", 3, 3, raster.RGBA(1, 0, 0, 1))
	out := filepath.Join(t.TempDir(), "out.png")

	var result WriteResult
	decodeResult(t, callTool(t, s, "raster_composite", map[string]interface{}{
		"bottom": bottom, "top": top, "output": out,
	}), &result)

	img, _, err := codec.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if got := img.Pixel(1, 1); got != raster.RGBA(1, 0, 0, 1) {
		t.Errorf("opaque top should occlude: got %v", got)
	}

	small := createTestImageFile(t, "small.png", 2, 2, raster.RGBA(1, 0, 0, 1))
	resp := callTool(t, s, "raster_composite", map[string]interface{}{
		"bottom": bottom, "top": small, "output": out,
	})
	wantError(t, resp, codeToolFailed)
}

func TestHandleToolsCall_RasterCopyChannel(t *testing.T) {
	s := New(Config{})
	dst := createTestImageFile(t, "dst.ppm", 2, 2, raster.RGBA(0, 0, 0, 1))
	src := createTestImageFile(t, "src.ppm", 2, 2, raster.RGBA(1, 0, 0, 1))
	out := filepath.Join(t.TempDir(), "out.ppm")

	var result WriteResult
	decodeResult(t, callTool(t, s, "raster_copy_channel", map[string]interface{}{
		"path": dst, "source": src, "output": out, "from": "red", "to": "blue",
	}), &result)

	img, _, err := codec.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if got := img.Pixel(0, 0); got != raster.RGBA(0, 0, 1, 1) {
		t.Errorf("got %v, want (0, 0, 1, 1)", got)
	}

	other := createTestImageFile(t, "wide.ppm", 3, 2, raster.RGBA(1, 0, 0, 1))
	wantError(t, callTool(t, s, "raster_copy_channel", map[string]interface{}{
		"path": dst, "source": other, "output": out, "from": "red", "to": "blue",
	}), codeToolFailed)
}

func TestHandleToolsCall_RasterConvert(t *testing.T) {
	s := New(Config{})
	path := createTestImageFile(t, "in.ppm", 3, 2, raster.RGBA(0, 1, 0, 1))
	out := filepath.Join(t.TempDir(), "out.img")

	var result WriteResult
	decodeResult(t, callTool(t, s, "raster_convert", map[string]interface{}{
		"path": path, "output": out, "format": "bmp",
	}), &result)
	if result.Format != codec.FormatBMP {
		t.Errorf("format: got %v, want bmp", result.Format)
	}

	var info codec.ImageInfo
	decodeResult(t, callTool(t, s, "raster_info", map[string]interface{}{"path": out}), &info)
	if info.Width != 3 || info.Height != 2 {
		t.Errorf("converted size: %dx%d", info.Width, info.Height)
	}
}

func TestHandleToolsCall_OutputEvictsCache(t *testing.T) {
	s := New(Config{})
	path := createTestImageFile(t, "img.png", 2, 2, raster.Gray(0))

	var before codec.ImageInfo
	decodeResult(t, callTool(t, s, "raster_info", map[string]interface{}{"path": path}), &before)

	var result WriteResult
	decodeResult(t, callTool(t, s, "raster_process", map[string]interface{}{
		"path": path, "output": path, "steps": []string{"scale:2,point"},
	}), &result)

	var after codec.ImageInfo
	decodeResult(t, callTool(t, s, "raster_info", map[string]interface{}{"path": path}), &after)
	if after.Width != 4 || before.Width != 2 {
		t.Errorf("widths: before %d, after %d", before.Width, after.Width)
	}
}
