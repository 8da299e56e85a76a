package raster

import (
	"image"
	"image/color"
	"testing"
)

func TestFromImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	src.Set(0, 0, color.RGBA{255, 0, 0, 255})
	src.Set(1, 0, color.RGBA{128, 0, 0, 128}) // premultiplied half-transparent red
	src.Set(2, 1, color.RGBA{0, 0, 255, 255})

	img := FromImage(src)
	if img.Width() != 3 || img.Height() != 2 {
		t.Fatalf("dimensions: got %dx%d, want 3x2", img.Width(), img.Height())
	}
	if got := img.Pixel(0, 0); got != RGBA(1, 0, 0, 1) {
		t.Errorf("(0,0): got %v", got)
	}
	if got := img.Pixel(1, 0); !approxEqual(got.R, 1, 1e-12) || !approxEqual(got.A, 128.0/255, 1e-12) {
		t.Errorf("(1,0): got %v, want un-premultiplied red", got)
	}
	if got := img.Pixel(2, 1); got != RGBA(0, 0, 1, 1) {
		t.Errorf("(2,1): got %v", got)
	}
}

func TestFromImage_OffsetBounds(t *testing.T) {
	src := image.NewGray(image.Rect(10, 20, 14, 22))
	src.SetGray(10, 20, color.Gray{Y: 255})
	img := FromImage(src)
	if img.Width() != 4 || img.Height() != 2 {
		t.Fatalf("dimensions: got %dx%d, want 4x2", img.Width(), img.Height())
	}
	if got := img.Pixel(0, 0); got != Gray(1) {
		t.Errorf("origin pixel: got %v, want white", got)
	}
	if got := img.Pixel(1, 0); got != Gray(0) {
		t.Errorf("(1,0): got %v, want opaque black", got)
	}
}

func TestToNRGBA_RoundTrip(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			src.SetNRGBA(x, y, color.NRGBA{uint8(x * 16), uint8(y * 16), uint8(x*y + 3), uint8(255 - x)})
		}
	}
	got := FromImage(src).ToNRGBA()
	for i := range src.Pix {
		if got.Pix[i] != src.Pix[i] {
			t.Fatalf("byte %d: got %d, want %d", i, got.Pix[i], src.Pix[i])
		}
	}
}

func TestQuantize_Clamps(t *testing.T) {
	got := Quantize(RGBA(1.5, -0.2, 0.5, 1))
	want := color.NRGBA{255, 0, 128, 255}
	if got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}
