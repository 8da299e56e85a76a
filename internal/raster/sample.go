package raster

import (
	"fmt"
	"math"
)

// SamplingMethod selects how Sample reconstructs a colour between pixel centres.
type SamplingMethod int

// Sampling methods.
const (
	PointSampling SamplingMethod = iota
	BilinearSampling
	GaussianSampling
)

func (m SamplingMethod) String() string {
	switch m {
	case PointSampling:
		return "point"
	case BilinearSampling:
		return "bilinear"
	case GaussianSampling:
		return "gaussian"
	default:
		return fmt.Sprintf("sampling(%d)", int(m))
	}
}

// ParseSamplingMethod converts "point", "bilinear" or "gaussian" to a
// SamplingMethod.
func ParseSamplingMethod(name string) (SamplingMethod, error) {
	switch name {
	case "point", "nearest":
		return PointSampling, nil
	case "bilinear", "linear":
		return BilinearSampling, nil
	case "gaussian":
		return GaussianSampling, nil
	default:
		return 0, fmt.Errorf("%w: unknown sampling method %q", ErrInvalidArgument, name)
	}
}

// Sample evaluates the image at the continuous coordinate (x, y), which may
// lie outside the image.
//
// Parameters:
//   - x, y: position in pixel units; integer values hit pixel centres.
//   - method: reconstruction policy.
//   - sigmaX, sigmaY: Gaussian bandwidth per axis, only read by
//     GaussianSampling.
//
// Point sampling rounds to the nearest pixel and clamps each axis into range.
// Bilinear sampling blends the four surrounding pixels. Gaussian sampling
// takes a normalized weighted average over a window of radius
// max(1, round(3*sigma)) clipped to the image, so windows at the border are
// still correctly normalized.
//
// An unknown method is logged and yields opaque black, as does sampling an
// empty image.
func (img *Image) Sample(x, y float64, method SamplingMethod, sigmaX, sigmaY float64) Pixel {
	if len(img.pixels) == 0 {
		return Black
	}
	switch method {
	case PointSampling:
		return img.samplePoint(x, y)
	case BilinearSampling:
		return img.sampleBilinear(x, y)
	case GaussianSampling:
		return img.sampleGaussian(x, y, sigmaX, sigmaY)
	default:
		logger.Printf("invalid sampling method (%d)", int(method))
		return Black
	}
}

func (img *Image) samplePoint(x, y float64) Pixel {
	xi := clampIndex(int(math.Round(x)), img.width)
	yi := clampIndex(int(math.Round(y)), img.height)
	return img.pixels[yi*img.width+xi]
}

func (img *Image) sampleBilinear(x, y float64) Pixel {
	xlow := clampIndex(int(math.Floor(x)), img.width)
	xhigh := clampIndex(int(math.Ceil(x)), img.width)
	ylow := clampIndex(int(math.Floor(y)), img.height)
	yhigh := clampIndex(int(math.Ceil(y)), img.height)

	fx := clampUnit(x - float64(xlow))
	fy := clampUnit(y - float64(ylow))
	if xlow == xhigh {
		fx = 0
	}
	if ylow == yhigh {
		fy = 0
	}

	w := img.width
	top := img.pixels[ylow*w+xlow].Lerp(img.pixels[ylow*w+xhigh], fx)
	bottom := img.pixels[yhigh*w+xlow].Lerp(img.pixels[yhigh*w+xhigh], fx)
	return top.Lerp(bottom, fy)
}

func (img *Image) sampleGaussian(x, y, sigmaX, sigmaY float64) Pixel {
	if sigmaX <= 0 || sigmaY <= 0 || math.IsNaN(sigmaX) || math.IsNaN(sigmaY) {
		return img.samplePoint(x, y)
	}

	cx := int(math.Round(x))
	cy := int(math.Round(y))
	rx := kernelRadius(sigmaX)
	ry := kernelRadius(sigmaY)

	x0, x1 := max(cx-rx, 0), min(cx+rx+1, img.width)
	y0, y1 := max(cy-ry, 0), min(cy+ry+1, img.height)

	var sum Pixel
	var total float64
	for yy := y0; yy < y1; yy++ {
		dy := float64(yy) - y
		wy := math.Exp(-dy * dy / (2 * sigmaY * sigmaY))
		row := img.pixels[yy*img.width:]
		for xx := x0; xx < x1; xx++ {
			dx := float64(xx) - x
			g := wy * math.Exp(-dx*dx/(2*sigmaX*sigmaX))
			sum = sum.Add(row[xx].Scale(g))
			total += g
		}
	}

	// Window entirely outside the image, or every weight underflowed.
	if total == 0 {
		return img.samplePoint(x, y)
	}
	return sum.Scale(1 / total)
}

// kernelRadius returns max(1, round(3*sigma)), capped at MaxPixels.
func kernelRadius(sigma float64) int {
	r := math.Round(3 * math.Abs(sigma))
	switch {
	case r < 1:
		return 1
	case r > MaxPixels:
		return MaxPixels
	}
	return int(r)
}

// clampIndex constrains i to [0, n-1].
func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
