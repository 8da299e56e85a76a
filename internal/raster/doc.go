// Package raster implements the floating-point RGBA pixel engine.
//
// An Image owns a dense buffer of Pixel values. Every channel is a float64
// nominally in [0,1]; intermediate arithmetic (noise, kernel accumulation,
// extrapolation) may leave that range until Pixel.Clamp saturates it.
//
// # Coordinate System
//
// Storage is row-major with the origin at the top-left corner:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - The pixel at (x, y) lives at offset y*Width()+x
//
// Every operation in this package, including the neighbourhood filters that
// walk the buffer by rows, uses that single mapping.
//
// # Operations
//
// Point transforms map each pixel independently: ApplyGamma, Brighten,
// ChangeContrast, AddNoise, ExtractChannel and CopyChannel.
//
// Sample evaluates a colour at a continuous coordinate using point, bilinear
// or Gaussian reconstruction. Scale resamples the whole image through Sample.
//
// Blur, Sharpen and EdgeDetect are convolution filters. Each reads from an
// immutable snapshot of the pre-filter pixels and writes a fresh destination
// buffer, so no output pixel ever observes an already-updated neighbour.
//
// Composite blends another image of the same size over this one.
//
// # Concurrency
//
// An Image is not safe for concurrent mutation. Internally, whole-image passes
// are split by rows across goroutines; each worker writes a disjoint band of
// the destination and only reads the snapshot, and the call returns after all
// workers finish.
//
// # Error Handling
//
// Bad numeric arguments never panic. A negative gamma exponent or a
// non-positive scale factor is logged, leaves the image untouched, and returns
// an error wrapping ErrInvalidArgument. Structural problems such as copying a
// channel between differently sized images return ErrDimensionMismatch before
// any pixel is modified.
package raster
