package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
	}
}

// encodeProperties are shared by every tool that writes an image.
func encodeProperties(props map[string]interface{}) map[string]interface{} {
	props["format"] = map[string]interface{}{
		"type":        "string",
		"description": "Output format. Defaults to the output path's extension.",
		"enum":        []string{"bmp", "ppm", "jpeg", "png", "gif", "tiff", "webp", "txt"},
	}
	props["quality"] = map[string]interface{}{
		"type":        "integer",
		"description": "JPEG or lossy WebP quality, 1-100. Default 75",
		"default":     75,
	}
	props["lossless"] = map[string]interface{}{
		"type":        "boolean",
		"description": "Write lossless WebP",
	}
	props["plain"] = map[string]interface{}{
		"type":        "boolean",
		"description": "Write ASCII (P3) instead of binary (P6) PPM",
	}
	return props
}

var channelEnum = []string{"red", "green", "blue", "alpha"}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "raster_info",
			Description: "Load an image file and report its dimensions, detected format, whether it has transparency and its mean luminance.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the image file"),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "raster_sample",
			Description: "Sample an image at continuous coordinates using point, bilinear or Gaussian reconstruction. Coordinates may be fractional or outside the image; integer values hit pixel centres.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the image file"),
					"points": map[string]interface{}{
						"type":        "array",
						"description": "Positions to sample",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"x":     map[string]interface{}{"type": "number"},
								"y":     map[string]interface{}{"type": "number"},
								"label": map[string]interface{}{"type": "string"},
							},
							"required": []string{"x", "y"},
						},
					},
					"method": map[string]interface{}{
						"type":        "string",
						"description": "Reconstruction method. Default point",
						"enum":        []string{"point", "bilinear", "gaussian"},
					},
					"sigma_x": map[string]interface{}{
						"type":        "number",
						"description": "Horizontal Gaussian bandwidth in pixels. Default 1",
					},
					"sigma_y": map[string]interface{}{
						"type":        "number",
						"description": "Vertical Gaussian bandwidth in pixels. Default sigma_x",
					},
				},
				"required": []string{"path", "points"},
			},
		},
		{
			Name:        "raster_process",
			Description: "Apply a chain of operations to an image and write the result. Steps run in order; if any step is invalid nothing is written. Step syntax: gamma:E, brighten:F, contrast:F, noise:M, extract:CHANNEL, blur:SIGMA, sharpen, edge, scale:SX[,SY][,METHOD].",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": encodeProperties(map[string]interface{}{
					"path":   pathProperty("Absolute path to the input image"),
					"output": pathProperty("Absolute path for the processed image"),
					"steps": map[string]interface{}{
						"type":        "array",
						"description": "Operations in compact form, e.g. [\"gamma:2.2\", \"blur:1.5\", \"scale:0.5,0.5,gaussian\"]",
						"items":       map[string]interface{}{"type": "string"},
					},
					"seed": map[string]interface{}{
						"type":        "integer",
						"description": "Seed for noise steps, for reproducible output",
					},
				}),
				"required": []string{"path", "output", "steps"},
			},
		},
		{
			Name:        "raster_composite",
			Description: "Composite a top image over a bottom image of the same size with the standard alpha over rule, and write the result.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": encodeProperties(map[string]interface{}{
					"bottom": pathProperty("Absolute path to the bottom image"),
					"top":    pathProperty("Absolute path to the top image"),
					"output": pathProperty("Absolute path for the composited image"),
					"operation": map[string]interface{}{
						"type":        "string",
						"description": "Compositing operator. Default over",
						"enum":        []string{"over"},
					},
				}),
				"required": []string{"bottom", "top", "output"},
			},
		},
		{
			Name:        "raster_copy_channel",
			Description: "Copy one channel of a source image into a channel of a destination image of the same size, and write the result.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": encodeProperties(map[string]interface{}{
					"path":   pathProperty("Absolute path to the destination image"),
					"source": pathProperty("Absolute path to the image supplying the channel"),
					"output": pathProperty("Absolute path for the result"),
					"from": map[string]interface{}{
						"type":        "string",
						"description": "Channel read from the source",
						"enum":        channelEnum,
					},
					"to": map[string]interface{}{
						"type":        "string",
						"description": "Channel written in the destination",
						"enum":        channelEnum,
					},
				}),
				"required": []string{"path", "source", "output", "from", "to"},
			},
		},
		{
			Name:        "raster_convert",
			Description: "Re-encode an image in another format. The input format is detected from the file content.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": encodeProperties(map[string]interface{}{
					"path":   pathProperty("Absolute path to the input image"),
					"output": pathProperty("Absolute path for the converted image"),
				}),
				"required": []string{"path", "output"},
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
