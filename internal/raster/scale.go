package raster

import (
	"fmt"
	"math"
)

// Bandwidth used for an axis that is being enlarged.
const enlargeSigma = 0.5

// Scale resamples the image to round(sx*Width()) by round(sy*Height()) pixels.
//
// Each destination pixel centre is mapped back into the source so that pixel
// centres, not corners, line up, and the colour there is read with Sample
// using method. For GaussianSampling the bandwidth adapts per axis: a shrunk
// axis uses sigma = 1/(3*scale) to widen the footprint against aliasing, an
// enlarged axis uses 0.5.
//
// Non-positive or non-finite factors, unknown methods and results over
// MaxPixels are logged and return an error wrapping ErrInvalidArgument without
// modifying the image.
func (img *Image) Scale(sx, sy float64, method SamplingMethod) error {
	if !validScale(sx) || !validScale(sy) {
		logger.Printf("invalid scale factors (%g, %g)", sx, sy)
		return fmt.Errorf("%w: scale factors %g x %g", ErrInvalidArgument, sx, sy)
	}
	if method < PointSampling || method > GaussianSampling {
		logger.Printf("invalid sampling method (%d)", int(method))
		return fmt.Errorf("%w: sampling method %d", ErrInvalidArgument, int(method))
	}

	fw := math.Round(sx * float64(img.width))
	fh := math.Round(sy * float64(img.height))
	if err := CheckSize(fw, fh); err != nil {
		logger.Printf("scaled size (%g, %g) too large", fw, fh)
		return err
	}

	orig := img.Clone()
	width, height := int(fw), int(fh)
	img.width, img.height = width, height
	img.pixels = make([]Pixel, width*height)
	if len(img.pixels) == 0 || len(orig.pixels) == 0 {
		return nil
	}

	ratioX := float64(orig.width) / float64(width)
	ratioY := float64(orig.height) / float64(height)
	offsetX := 0.5*ratioX - 0.5
	offsetY := 0.5*ratioY - 0.5
	sigmaX := scaleSigma(sx)
	sigmaY := scaleSigma(sy)

	forEachRow(height, func(y int) {
		srcY := ratioY*float64(y) + offsetY
		for x := 0; x < width; x++ {
			srcX := ratioX*float64(x) + offsetX
			img.pixels[y*width+x] = orig.Sample(srcX, srcY, method, sigmaX, sigmaY)
		}
	})
	return nil
}

// scaleSigma picks the Gaussian bandwidth for one axis scaled by s.
func scaleSigma(s float64) float64 {
	if s > 1 {
		return enlargeSigma
	}
	return 1 / (3 * s)
}

func validScale(s float64) bool {
	return s > 0 && !math.IsInf(s, 0) && !math.IsNaN(s)
}
