package raster

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// FromImage converts any image.Image to a raster Image with channels scaled to
// [0,1]. Colour channels are un-premultiplied, and sources without an alpha
// channel come out opaque.
func FromImage(src image.Image) *Image {
	nrgba := imaging.Clone(src)
	b := nrgba.Bounds()
	img := New(b.Dx(), b.Dy())
	forEachRow(img.height, func(y int) {
		line := nrgba.Pix[y*nrgba.Stride:]
		for x := 0; x < img.width; x++ {
			s := line[x*4 : x*4+4]
			img.pixels[y*img.width+x] = Pixel{
				R: float64(s[0]) / 255,
				G: float64(s[1]) / 255,
				B: float64(s[2]) / 255,
				A: float64(s[3]) / 255,
			}
		}
	})
	return img
}

// ToNRGBA quantizes the image to 8-bit non-premultiplied RGBA. Channels are
// clamped to [0,1] and rounded to the nearest level.
func (img *Image) ToNRGBA() *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, img.width, img.height))
	forEachRow(img.height, func(y int) {
		line := out.Pix[y*out.Stride:]
		for x := 0; x < img.width; x++ {
			c := Quantize(img.pixels[y*img.width+x])
			copy(line[x*4:x*4+4], []uint8{c.R, c.G, c.B, c.A})
		}
	})
	return out
}

// Quantize converts p to an 8-bit colour, clamping out-of-range channels.
func Quantize(p Pixel) color.NRGBA {
	p = p.Clamp()
	return color.NRGBA{
		R: quantize8(p.R),
		G: quantize8(p.G),
		B: quantize8(p.B),
		A: quantize8(p.A),
	}
}

func quantize8(v float64) uint8 {
	if math.IsNaN(v) {
		return 0
	}
	return uint8(math.Round(v * 255))
}
