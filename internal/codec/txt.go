package codec

import (
	"bufio"
	"bytes"
	"fmt"
	"image"
	"io"
	"math"
	"strconv"

	"github.com/ironsheep/raster-tools/internal/raster"
)

// decodeTXT reads the plain-text raster: "width height channels" followed by
// channels values per pixel, top row first. One channel is gray, two are gray
// and alpha, three are RGB and four RGBA. Values are clamped to [0,1].
func decodeTXT(data []byte) (*raster.Image, error) {
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Split(bufio.ScanWords)

	next := func(what string) (string, error) {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return "", fmt.Errorf("%w: %v", ErrMalformed, err)
			}
			return "", fmt.Errorf("%w: missing %s", ErrTruncated, what)
		}
		return sc.Text(), nil
	}
	header := make([]int, 3)
	for i, what := range []string{"width", "height", "channel count"} {
		tok, err := next(what)
		if err != nil {
			return nil, err
		}
		v, err := strconv.Atoi(tok)
		if err != nil || v < 0 {
			return nil, fmt.Errorf("%w: bad %s %q", ErrMalformed, what, tok)
		}
		header[i] = v
	}
	width, height, channels := header[0], header[1], header[2]
	if channels < 1 || channels > raster.NumChannels {
		return nil, fmt.Errorf("%w: %d channels", ErrUnsupported, channels)
	}
	if err := checkConfig(image.Config{Width: width, Height: height}); err != nil {
		return nil, err
	}
	// Each value needs at least two bytes including its separator.
	if width > len(data) || height > len(data) || width*height*channels > len(data)/2+1 {
		return nil, fmt.Errorf("%w: %dx%dx%d values in %d bytes", ErrTruncated, width, height, channels, len(data))
	}

	pixels := make([]raster.Pixel, width*height)
	var v [raster.NumChannels]float64
	for i := range pixels {
		for c := 0; c < channels; c++ {
			tok, err := next("pixel value")
			if err != nil {
				return nil, err
			}
			f, err := strconv.ParseFloat(tok, 64)
			if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
				return nil, fmt.Errorf("%w: bad value %q at pixel %d", ErrMalformed, tok, i)
			}
			v[c] = f
		}
		var p raster.Pixel
		switch channels {
		case 1:
			p = raster.Gray(v[0])
		case 2:
			p = raster.RGBA(v[0], v[0], v[0], v[1])
		case 3:
			p = raster.RGBA(v[0], v[1], v[2], 1)
		default:
			p = raster.RGBA(v[0], v[1], v[2], v[3])
		}
		pixels[i] = p.Clamp()
	}
	return raster.NewFromPixels(width, height, pixels)
}

// encodeTXT writes all four channels of every pixel with the shortest decimal
// form that parses back to the same clamped value.
func encodeTXT(w io.Writer, img *raster.Image) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %d %d\n", img.Width(), img.Height(), raster.NumChannels)
	for _, p := range img.Pixels() {
		p = p.Clamp()
		for c := raster.Red; c <= raster.Alpha; c++ {
			if c > raster.Red {
				bw.WriteByte(' ')
			}
			bw.WriteString(strconv.FormatFloat(p.Channel(c), 'g', -1, 64))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
