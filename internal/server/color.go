package server

import (
	"math"

	"github.com/ironsheep/raster-tools/internal/raster"
)

// RGBAColor represents a colour with 8-bit components, as it would be
// written to an 8-bit file.
type RGBAColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// HSLColor represents a colour in HSL (Hue, Saturation, Lightness) space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorResult contains one sampled colour in several representations.
//
//   - Value: the exact floating-point channels, possibly outside [0,1]
//   - Hex: "#rrggbb" of the clamped colour, without alpha
//   - RGBA: the clamped colour quantized to 8 bits per channel
//   - HSL: the clamped colour in HSL space
type ColorResult struct {
	Value     raster.Pixel `json:"value"`
	Hex       string       `json:"hex"`
	RGBA      RGBAColor    `json:"rgba"`
	HSL       HSLColor     `json:"hsl"`
	Luminance float64      `json:"luminance"`
}

func newColorResult(p raster.Pixel) ColorResult {
	c := p.Color()
	q := raster.Quantize(p)
	h, s, l := c.Hsl()
	if math.IsNaN(h) {
		h = 0
	}
	return ColorResult{
		Value: p,
		Hex:   c.Hex(),
		RGBA:  RGBAColor{R: q.R, G: q.G, B: q.B, A: q.A},
		HSL: HSLColor{
			H: int(math.Round(h)) % 360,
			S: int(math.Round(s * 100)),
			L: int(math.Round(l * 100)),
		},
		Luminance: p.Clamp().Luminance(),
	}
}
