package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/ironsheep/raster-tools/internal/codec"
	"github.com/ironsheep/raster-tools/internal/pipeline"
	"github.com/ironsheep/raster-tools/internal/raster"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "raster_info", "raster_process").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// errInvalidArguments marks argument problems found before any image work.
var errInvalidArguments = errors.New("invalid arguments")

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Malformed parameters return code -32602; tool failures return -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		if s.cfg.Debug {
			log.Printf("tool %s failed: %v", params.Name, err)
		}
		if errors.Is(err, errInvalidArguments) {
			return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
		}
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
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
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "raster_info":
		return s.handleRasterInfo(args)
	case "raster_sample":
		return s.handleRasterSample(args)
	case "raster_process":
		return s.handleRasterProcess(args)
	case "raster_composite":
		return s.handleRasterComposite(args)
	case "raster_copy_channel":
		return s.handleRasterCopyChannel(args)
	case "raster_convert":
		return s.handleRasterConvert(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	e := &MCPError{
		Code:    code,
		Message: message,
	}
	if data != "" {
		e.Data = data
	}
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   e,
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		args = []byte("{}")
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidArguments, err)
	}
	return nil
}

func requirePaths(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			return fmt.Errorf("%w: %s is required", errInvalidArguments, pairs[i])
		}
	}
	return nil
}

// === Output ===

// encodeArgs are accepted by every tool that writes an image.
type encodeArgs struct {
	Format   string `json:"format"`
	Quality  int    `json:"quality"`
	Lossless bool   `json:"lossless"`
	Plain    bool   `json:"plain"`
}

func (a encodeArgs) format() (codec.Format, error) {
	if a.Format == "" {
		return codec.FormatUnknown, nil
	}
	f, err := codec.ParseFormat(a.Format)
	if err != nil {
		return f, fmt.Errorf("%w: %v", errInvalidArguments, err)
	}
	return f, nil
}

func (a encodeArgs) options() *codec.Options {
	return &codec.Options{
		JPEGQuality:  a.Quality,
		WebPQuality:  float32(a.Quality),
		WebPLossless: a.Lossless,
		PPMPlain:     a.Plain,
	}
}

// WriteResult describes an image written by a tool.
type WriteResult struct {
	Output string       `json:"output"`
	Format codec.Format `json:"format"`
	Width  int          `json:"width"`
	Height int          `json:"height"`
	Steps  []string     `json:"steps,omitempty"`
}

// save writes img to path and drops any cached copy of that path so later
// tool calls see the new content.
func (s *Server) save(path string, img *raster.Image, enc encodeArgs) (*WriteResult, error) {
	f, err := enc.format()
	if err != nil {
		return nil, err
	}
	f, err = codec.WriteFile(path, img, f, enc.options())
	if err != nil {
		return nil, err
	}
	s.cache.Evict(path)
	return &WriteResult{
		Output: path,
		Format: f,
		Width:  img.Width(),
		Height: img.Height(),
	}, nil
}

// === raster_info ===

type rasterInfoArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleRasterInfo(args json.RawMessage) (interface{}, error) {
	var a rasterInfoArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := requirePaths("path", a.Path); err != nil {
		return nil, err
	}
	return codec.LoadImageInfo(s.cache, a.Path)
}

// === raster_sample ===

type samplePoint struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Label string  `json:"label,omitempty"`
}

type rasterSampleArgs struct {
	Path   string        `json:"path"`
	Points []samplePoint `json:"points"`
	Method string        `json:"method"`
	SigmaX float64       `json:"sigma_x"`
	SigmaY float64       `json:"sigma_y"`
}

// LabeledSample is one sampled position.
type LabeledSample struct {
	Label string      `json:"label,omitempty"`
	X     float64     `json:"x"`
	Y     float64     `json:"y"`
	Color ColorResult `json:"color"`
}

// SampleResult lists samples in the order the points were given.
type SampleResult struct {
	Method  string          `json:"method"`
	Width   int             `json:"width"`
	Height  int             `json:"height"`
	Samples []LabeledSample `json:"samples"`
}

func (s *Server) handleRasterSample(args json.RawMessage) (interface{}, error) {
	var a rasterSampleArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := requirePaths("path", a.Path); err != nil {
		return nil, err
	}
	if len(a.Points) == 0 {
		return nil, fmt.Errorf("%w: at least one point is required", errInvalidArguments)
	}
	if a.Method == "" {
		a.Method = "point"
	}
	method, err := raster.ParseSamplingMethod(a.Method)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidArguments, err)
	}
	if a.SigmaX == 0 {
		a.SigmaX = 1
	}
	if a.SigmaY == 0 {
		a.SigmaY = a.SigmaX
	}

	img, _, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	result := &SampleResult{
		Method:  method.String(),
		Width:   img.Width(),
		Height:  img.Height(),
		Samples: make([]LabeledSample, len(a.Points)),
	}
	for i, p := range a.Points {
		result.Samples[i] = LabeledSample{
			Label: p.Label,
			X:     p.X,
			Y:     p.Y,
			Color: newColorResult(img.Sample(p.X, p.Y, method, a.SigmaX, a.SigmaY)),
		}
	}
	return result, nil
}

// === raster_process ===

type rasterProcessArgs struct {
	encodeArgs
	Path   string   `json:"path"`
	Output string   `json:"output"`
	Steps  []string `json:"steps"`
	Seed   *uint64  `json:"seed"`
}

func (s *Server) handleRasterProcess(args json.RawMessage) (interface{}, error) {
	var a rasterProcessArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := requirePaths("path", a.Path, "output", a.Output); err != nil {
		return nil, err
	}
	if len(a.Steps) == 0 {
		return nil, fmt.Errorf("%w: at least one step is required", errInvalidArguments)
	}
	steps, err := pipeline.ParseSteps(a.Steps)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidArguments, err)
	}

	img, _, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	if err := pipeline.Apply(img, steps, pipeline.Options{Rand: s.noiseRand(a.Seed)}); err != nil {
		return nil, fmt.Errorf("failed to process image: %w", err)
	}

	result, err := s.save(a.Output, img, a.encodeArgs)
	if err != nil {
		return nil, err
	}
	for _, step := range steps {
		result.Steps = append(result.Steps, step.String())
	}
	return result, nil
}

// === raster_composite ===

type rasterCompositeArgs struct {
	encodeArgs
	Bottom    string `json:"bottom"`
	Top       string `json:"top"`
	Output    string `json:"output"`
	Operation string `json:"operation"`
}

func (s *Server) handleRasterComposite(args json.RawMessage) (interface{}, error) {
	var a rasterCompositeArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := requirePaths("bottom", a.Bottom, "top", a.Top, "output", a.Output); err != nil {
		return nil, err
	}
	op, err := raster.ParseCompositeOperation(a.Operation)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidArguments, err)
	}

	bottom, _, err := s.cache.Load(a.Bottom)
	if err != nil {
		return nil, err
	}
	top, _, err := s.cache.Load(a.Top)
	if err != nil {
		return nil, err
	}
	if err := bottom.Composite(top, op); err != nil {
		return nil, fmt.Errorf("failed to composite: %w", err)
	}
	return s.save(a.Output, bottom, a.encodeArgs)
}

// === raster_copy_channel ===

type rasterCopyChannelArgs struct {
	encodeArgs
	Path   string `json:"path"`
	Source string `json:"source"`
	Output string `json:"output"`
	From   string `json:"from"`
	To     string `json:"to"`
}

func (s *Server) handleRasterCopyChannel(args json.RawMessage) (interface{}, error) {
	var a rasterCopyChannelArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := requirePaths("path", a.Path, "source", a.Source, "output", a.Output); err != nil {
		return nil, err
	}
	from, err := raster.ParseChannel(a.From)
	if err != nil {
		return nil, fmt.Errorf("%w: from: %v", errInvalidArguments, err)
	}
	to, err := raster.ParseChannel(a.To)
	if err != nil {
		return nil, fmt.Errorf("%w: to: %v", errInvalidArguments, err)
	}

	dst, _, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	src, _, err := s.cache.Load(a.Source)
	if err != nil {
		return nil, err
	}
	if err := dst.CopyChannel(src, from, to); err != nil {
		return nil, fmt.Errorf("failed to copy channel: %w", err)
	}
	return s.save(a.Output, dst, a.encodeArgs)
}

// === raster_convert ===

type rasterConvertArgs struct {
	encodeArgs
	Path   string `json:"path"`
	Output string `json:"output"`
}

func (s *Server) handleRasterConvert(args json.RawMessage) (interface{}, error) {
	var a rasterConvertArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := requirePaths("path", a.Path, "output", a.Output); err != nil {
		return nil, err
	}
	img, _, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return s.save(a.Output, img, a.encodeArgs)
}
