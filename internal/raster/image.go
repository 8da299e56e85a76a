package raster

import (
	"fmt"
	"math"

	"github.com/anthonynsimon/bild/parallel"
)

// Image is a dense width*height grid of Pixels stored row-major.
//
// The zero value is an empty 0x0 image. An Image is exclusively owned by its
// caller; Clone produces an independent copy.
type Image struct {
	width  int
	height int
	pixels []Pixel
}

// MaxPixels bounds the pixel count of any image, and each of its dimensions.
const MaxPixels = 1 << 28

// CheckSize reports whether a width*height image may be allocated. It returns
// an error wrapping ErrInvalidArgument for negative dimensions or more than
// MaxPixels pixels.
func CheckSize(width, height float64) error {
	switch {
	case math.IsNaN(width) || math.IsNaN(height) || width < 0 || height < 0:
		return fmt.Errorf("%w: dimensions %gx%g", ErrInvalidArgument, width, height)
	case width > MaxPixels || height > MaxPixels || width*height > MaxPixels:
		return fmt.Errorf("%w: %gx%g image exceeds %d pixels", ErrInvalidArgument, width, height, MaxPixels)
	}
	return nil
}

// New returns a width*height image with every pixel zero (transparent black).
// Negative dimensions are treated as zero. Sizes over MaxPixels are logged
// and yield an empty image.
func New(width, height int) *Image {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	if err := CheckSize(float64(width), float64(height)); err != nil {
		logger.Print(err)
		width, height = 0, 0
	}
	return &Image{
		width:  width,
		height: height,
		pixels: make([]Pixel, width*height),
	}
}

// NewFilled returns a width*height image with every pixel set to p.
func NewFilled(width, height int, p Pixel) *Image {
	img := New(width, height)
	for i := range img.pixels {
		img.pixels[i] = p
	}
	return img
}

// NewFromPixels returns an image holding a copy of pixels, which must be in
// row-major order and contain exactly width*height entries.
func NewFromPixels(width, height int, pixels []Pixel) (*Image, error) {
	if err := CheckSize(float64(width), float64(height)); err != nil {
		return nil, err
	}
	if len(pixels) != width*height {
		return nil, fmt.Errorf("%w: %d pixels for a %dx%d image", ErrDimensionMismatch, len(pixels), width, height)
	}
	img := New(width, height)
	copy(img.pixels, pixels)
	return img, nil
}

// Width returns the image width in pixels.
func (img *Image) Width() int { return img.width }

// Height returns the image height in pixels.
func (img *Image) Height() int { return img.height }

// Len returns the number of pixels, always Width()*Height().
func (img *Image) Len() int { return len(img.pixels) }

// SameSize reports whether img and other have identical dimensions.
func (img *Image) SameSize(other *Image) bool {
	return img.width == other.width && img.height == other.height
}

// Pixel returns the pixel at (x, y). It panics if the coordinate is out of range.
func (img *Image) Pixel(x, y int) Pixel {
	return img.pixels[img.offset(x, y)]
}

// SetPixel stores p at (x, y). It panics if the coordinate is out of range.
func (img *Image) SetPixel(x, y int, p Pixel) {
	img.pixels[img.offset(x, y)] = p
}

// Pixels returns a row-major copy of the pixel buffer.
func (img *Image) Pixels() []Pixel {
	out := make([]Pixel, len(img.pixels))
	copy(out, img.pixels)
	return out
}

// Clone returns a deep copy of img.
func (img *Image) Clone() *Image {
	return &Image{
		width:  img.width,
		height: img.height,
		pixels: img.Pixels(),
	}
}

// Assign replaces img's size and buffer with a copy of other's.
func (img *Image) Assign(other *Image) {
	img.width = other.width
	img.height = other.height
	img.pixels = other.Pixels()
}

// MeanLuminance returns the average Luminance over all pixels, or 0 for an
// empty image.
func (img *Image) MeanLuminance() float64 {
	if len(img.pixels) == 0 {
		return 0
	}
	var sum float64
	for _, p := range img.pixels {
		sum += p.Luminance()
	}
	return sum / float64(len(img.pixels))
}

func (img *Image) offset(x, y int) int {
	if x < 0 || x >= img.width || y < 0 || y >= img.height {
		panic(fmt.Sprintf("raster: coordinate (%d,%d) outside %dx%d image", x, y, img.width, img.height))
	}
	return y*img.width + x
}

// forEachRow calls fn for every row index, spreading rows across goroutines.
// fn must only write pixels in its own row.
func forEachRow(height int, fn func(y int)) {
	parallel.Line(height, func(start, end int) {
		for y := start; y < end; y++ {
			fn(y)
		}
	})
}

// mapPixels replaces every pixel with fn(pixel).
func (img *Image) mapPixels(fn func(Pixel) Pixel) {
	w := img.width
	forEachRow(img.height, func(y int) {
		row := img.pixels[y*w : (y+1)*w]
		for x := range row {
			row[x] = fn(row[x])
		}
	})
}
