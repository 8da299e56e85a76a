package raster

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// Gamma exponents used to move into and out of linear light around the
// neighbourhood filters.
const (
	encodeGamma = 2.2
	decodeGamma = 1 / 2.2
)

// ApplyGamma raises the red, green and blue channels of every pixel to
// exponent. Alpha is untouched.
//
// A negative exponent is logged and returns an error wrapping
// ErrInvalidArgument without modifying the image. An exponent of zero maps
// every channel to 1, following math.Pow.
func (img *Image) ApplyGamma(exponent float64) error {
	if exponent < 0 {
		logger.Printf("gamma exponent (%g) negative", exponent)
		return fmt.Errorf("%w: gamma exponent %g is negative", ErrInvalidArgument, exponent)
	}
	img.applyGamma(exponent)
	return nil
}

// applyGamma is ApplyGamma without the argument check, for callers whose
// exponent is a known non-negative constant.
func (img *Image) applyGamma(exponent float64) {
	img.mapPixels(func(p Pixel) Pixel {
		p.R = math.Pow(p.R, exponent)
		p.G = math.Pow(p.G, exponent)
		p.B = math.Pow(p.B, exponent)
		return p
	})
}

// Brighten multiplies the red, green and blue channels of every pixel by
// factor and clamps. Alpha keeps its value.
func (img *Image) Brighten(factor float64) {
	img.mapPixels(func(p Pixel) Pixel {
		a := p.A
		p = p.Scale(factor)
		p.A = a
		return p.Clamp()
	})
}

// ChangeContrast interpolates each pixel against an opaque gray at the
// image's mean luminance: factor 1 is the identity, 0 yields a flat gray,
// values above 1 boost contrast and negative values invert.
func (img *Image) ChangeContrast(factor float64) {
	gray := Gray(img.MeanLuminance())
	img.mapPixels(func(p Pixel) Pixel {
		return gray.Lerp(p, factor).Clamp()
	})
}

// AddNoise perturbs the red, green and blue channels of every pixel by
// magnitude*(u-0.5), with u drawn from rng independently per channel, then
// clamps. A nil rng uses a randomly seeded source.
//
// Pixels are visited in row-major order so a seeded rng gives reproducible
// output.
func (img *Image) AddNoise(magnitude float64, rng *rand.Rand) {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	for i, p := range img.pixels {
		p.R += magnitude * (rng.Float64() - 0.5)
		p.G += magnitude * (rng.Float64() - 0.5)
		p.B += magnitude * (rng.Float64() - 0.5)
		img.pixels[i] = p.Clamp()
	}
}

// ExtractChannel zeroes every colour channel except c in every pixel. Alpha
// keeps its value so an extracted opaque image stays opaque; extracting Alpha
// zeroes red, green and blue.
func (img *Image) ExtractChannel(c Channel) error {
	if !c.Valid() {
		logger.Printf("invalid channel (%d)", int(c))
		return fmt.Errorf("%w: channel %d", ErrInvalidArgument, int(c))
	}
	img.mapPixels(func(p Pixel) Pixel {
		return Pixel{A: p.A}.SetChannel(c, p.Channel(c))
	})
	return nil
}

// CopyChannel sets channel to of every pixel to channel from of the pixel at
// the same position in src.
//
// The images must have identical dimensions; otherwise ErrDimensionMismatch
// is returned and no pixel is modified.
func (img *Image) CopyChannel(src *Image, from, to Channel) error {
	if !img.SameSize(src) {
		return fmt.Errorf("failed to copy channel: %w: source %dx%d, destination %dx%d",
			ErrDimensionMismatch, src.width, src.height, img.width, img.height)
	}
	if !from.Valid() || !to.Valid() {
		return fmt.Errorf("%w: channel copy %d -> %d", ErrInvalidArgument, int(from), int(to))
	}
	w := img.width
	forEachRow(img.height, func(y int) {
		for x := y * w; x < (y+1)*w; x++ {
			img.pixels[x] = img.pixels[x].SetChannel(to, src.pixels[x].Channel(from))
		}
	})
	return nil
}
