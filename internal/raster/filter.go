package raster

import (
	"fmt"
	"math"
)

// Sharpen extrapolates this far from the blurred image towards the original.
const sharpenStrength = 2.0

// Blur radius used by Sharpen.
const sharpenSigma = 2.0

// filter replaces every pixel with fn(src, x, y), where src is the image as it
// was before the call. fn must treat src as read-only.
func (img *Image) filter(fn func(src *Image, x, y int) Pixel) {
	src := &Image{width: img.width, height: img.height, pixels: img.pixels}
	dst := make([]Pixel, len(img.pixels))
	w := img.width
	forEachRow(img.height, func(y int) {
		for x := 0; x < w; x++ {
			dst[y*w+x] = fn(src, x, y)
		}
	})
	img.pixels = dst
}

// gaussianTable holds exp(-(dx²+dy²)/(2σ²)) for 0 <= dx, dy <= size, so a
// lookup at (|dx|, |dy|) covers all four quadrants of the window.
type gaussianTable struct {
	size    int
	weights []float64
}

// newGaussianTable builds the table for sigma. Offsets beyond limit are never
// looked up, so the table stops there.
func newGaussianTable(sigma float64, limit int) *gaussianTable {
	size := min(kernelRadius(sigma), max(limit, 1))
	t := &gaussianTable{size: size, weights: make([]float64, (size+1)*(size+1))}
	for dy := 0; dy <= size; dy++ {
		for dx := 0; dx <= size; dx++ {
			d2 := float64(dx*dx + dy*dy)
			t.weights[dy*(size+1)+dx] = math.Exp(-d2 / (2 * sigma * sigma))
		}
	}
	return t
}

func (t *gaussianTable) at(dx, dy int) float64 {
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return t.weights[dy*(t.size+1)+dx]
}

// Blur convolves the image with a normalized Gaussian of standard deviation
// sigma. A sigma of zero returns immediately.
//
// The convolution runs on gamma-encoded values (exponent 2.2) and the result
// is decoded again (exponent 1/2.2). The window is clipped at the image border
// and normalized by the weights actually used. Alpha is not blurred: every
// output pixel keeps its own alpha.
//
// A NaN or infinite sigma returns an error wrapping ErrInvalidArgument.
func (img *Image) Blur(sigma float64) error {
	if sigma == 0 {
		return nil
	}
	if math.IsNaN(sigma) || math.IsInf(sigma, 0) {
		logger.Printf("blur sigma (%g) not finite", sigma)
		return fmt.Errorf("%w: blur sigma %g", ErrInvalidArgument, sigma)
	}
	img.blur(sigma)
	return nil
}

// blur is Blur for a finite, non-zero sigma.
func (img *Image) blur(sigma float64) {
	if len(img.pixels) == 0 {
		return
	}

	img.applyGamma(encodeGamma)

	kernel := newGaussianTable(sigma, max(img.width, img.height))
	size := kernel.size
	img.filter(func(src *Image, x0, y0 int) Pixel {
		var sum Pixel
		var total float64
		for y := max(y0-size, 0); y < min(y0+size+1, src.height); y++ {
			row := src.pixels[y*src.width:]
			for x := max(x0-size, 0); x < min(x0+size+1, src.width); x++ {
				g := kernel.at(x-x0, y-y0)
				sum = sum.Add(row[x].Scale(g))
				total += g
			}
		}
		out := sum.Scale(1 / total)
		out.A = src.pixels[y0*src.width+x0].A
		return out
	})

	img.applyGamma(decodeGamma)
}

// Sharpen applies an unsharp mask: each pixel moves away from a copy of the
// image blurred with sigma 2, by the same amount as its difference from it.
// The result is clamped.
func (img *Image) Sharpen() {
	blurred := img.Clone()
	blurred.blur(sharpenSigma)
	for i, p := range img.pixels {
		img.pixels[i] = blurred.pixels[i].Lerp(p, sharpenStrength).Clamp()
	}
}

// EdgeDetect replaces the image with the response of a 3x3 Laplacian computed
// in gamma-encoded space.
//
// Each neighbour inside the image contributes with weight -1 and the centre is
// weighted by the number of contributing neighbours (8 away from the border),
// so a constant region responds with exactly zero everywhere. The sum is
// divided by 8 plus the neighbour count. Negative responses clamp to zero
// before gamma decoding, and every output pixel is opaque.
func (img *Image) EdgeDetect() {
	if len(img.pixels) == 0 {
		return
	}

	img.applyGamma(encodeGamma)

	img.filter(func(src *Image, x0, y0 int) Pixel {
		centre := src.pixels[y0*src.width+x0]
		// Accumulate centre-minus-neighbour differences, which is the same sum
		// as n*centre - Σ neighbours but exactly zero on flat regions.
		var sum Pixel
		n := 0
		for y := y0 - 1; y <= y0+1; y++ {
			if y < 0 || y >= src.height {
				continue
			}
			for x := x0 - 1; x <= x0+1; x++ {
				if x < 0 || x >= src.width || (x == x0 && y == y0) {
					continue
				}
				sum = sum.Add(centre.Add(src.pixels[y*src.width+x].Scale(-1)))
				n++
			}
		}
		out := sum.Scale(1 / float64(8+n))
		out.A = 1
		return out.Clamp()
	})

	img.applyGamma(decodeGamma)
}
