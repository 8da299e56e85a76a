package codec

import (
	"bufio"
	"fmt"
	"image"
	"io"
	"strconv"

	"github.com/ironsheep/raster-tools/internal/raster"
)

const maxPPMValue = 65535

// pnmScanner reads whitespace-separated header and ASCII raster tokens,
// skipping '#' comments.
type pnmScanner struct {
	data []byte
	pos  int
}

func (s *pnmScanner) skipSpace() {
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		switch {
		case c == '#':
			for s.pos < len(s.data) && s.data[s.pos] != '\n' && s.data[s.pos] != '\r' {
				s.pos++
			}
		case isSpace(c):
			s.pos++
		default:
			return
		}
	}
}

func (s *pnmScanner) int(what string) (int, error) {
	s.skipSpace()
	start := s.pos
	for s.pos < len(s.data) && !isSpace(s.data[s.pos]) && s.data[s.pos] != '#' {
		s.pos++
	}
	if start == s.pos {
		return 0, fmt.Errorf("%w: missing %s", ErrTruncated, what)
	}
	v, err := strconv.Atoi(string(s.data[start:s.pos]))
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%w: bad %s %q", ErrMalformed, what, s.data[start:s.pos])
	}
	return v, nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

// decodePPM reads P2/P5 graymaps and P3/P6 pixmaps. The first pixel in the
// file is the top-left corner.
func decodePPM(data []byte) (*raster.Image, error) {
	if len(data) < 2 || data[0] != 'P' {
		return nil, fmt.Errorf("%w: missing P magic number", ErrMalformed)
	}
	var channels int
	var binary bool
	switch data[1] {
	case '2':
		channels, binary = 1, false
	case '3':
		channels, binary = 3, false
	case '5':
		channels, binary = 1, true
	case '6':
		channels, binary = 3, true
	case '1', '4':
		return nil, fmt.Errorf("%w: bitmap P%c", ErrUnsupported, data[1])
	default:
		return nil, fmt.Errorf("%w: magic number P%c", ErrMalformed, data[1])
	}

	s := &pnmScanner{data: data, pos: 2}
	width, err := s.int("width")
	if err != nil {
		return nil, err
	}
	height, err := s.int("height")
	if err != nil {
		return nil, err
	}
	maxval, err := s.int("maxval")
	if err != nil {
		return nil, err
	}
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrMalformed, width, height)
	}
	if maxval == 0 || maxval > maxPPMValue {
		return nil, fmt.Errorf("%w: maxval %d", ErrUnsupported, maxval)
	}

	if err := checkConfig(image.Config{Width: width, Height: height}); err != nil {
		return nil, err
	}
	// Every sample occupies at least one byte, which bounds the allocation.
	if width > len(data) || height > len(data) || width*height*channels > len(data) {
		return nil, fmt.Errorf("%w: %dx%d image in %d bytes", ErrTruncated, width, height, len(data))
	}
	samples := width * height * channels

	var values []int
	if binary {
		values, err = readBinarySamples(s, samples, maxval)
	} else {
		values, err = readASCIISamples(s, samples, maxval)
	}
	if err != nil {
		return nil, err
	}

	full := float64(maxval)
	pixels := make([]raster.Pixel, width*height)
	for i := range pixels {
		if channels == 1 {
			pixels[i] = raster.Gray(float64(values[i]) / full)
			continue
		}
		v := values[i*3 : i*3+3]
		pixels[i] = raster.RGBA(float64(v[0])/full, float64(v[1])/full, float64(v[2])/full, 1)
	}
	return raster.NewFromPixels(width, height, pixels)
}

func readBinarySamples(s *pnmScanner, samples, maxval int) ([]int, error) {
	// Exactly one whitespace byte separates the header from the raster.
	if s.pos >= len(s.data) || !isSpace(s.data[s.pos]) {
		return nil, fmt.Errorf("%w: missing raster separator", ErrTruncated)
	}
	raw := s.data[s.pos+1:]

	size := 1
	if maxval > 255 {
		size = 2
	}
	if len(raw) < samples*size {
		return nil, fmt.Errorf("%w: have %d raster bytes, need %d", ErrTruncated, len(raw), samples*size)
	}

	values := make([]int, samples)
	for i := range values {
		var v int
		if size == 1 {
			v = int(raw[i])
		} else {
			v = int(raw[2*i])<<8 | int(raw[2*i+1])
		}
		if v > maxval {
			return nil, fmt.Errorf("%w: sample %d exceeds maxval %d", ErrMalformed, v, maxval)
		}
		values[i] = v
	}
	return values, nil
}

func readASCIISamples(s *pnmScanner, samples, maxval int) ([]int, error) {
	// Every ASCII sample takes at least two bytes including its separator.
	if samples > (len(s.data)-s.pos+1)/2 {
		return nil, fmt.Errorf("%w: need %d samples", ErrTruncated, samples)
	}
	values := make([]int, samples)
	for i := range values {
		v, err := s.int("sample")
		if err != nil {
			return nil, err
		}
		if v > maxval {
			return nil, fmt.Errorf("%w: sample %d exceeds maxval %d", ErrMalformed, v, maxval)
		}
		values[i] = v
	}
	return values, nil
}

// encodePPM writes an 8-bit pixmap, binary P6 by default or ASCII P3 when
// plain is set. Alpha is dropped.
func encodePPM(w io.Writer, img *raster.Image, plain bool) error {
	if img.Len() == 0 {
		return fmt.Errorf("%w: empty image", ErrUnsupported)
	}
	bw := bufio.NewWriter(w)
	magic := "P6"
	if plain {
		magic = "P3"
	}
	fmt.Fprintf(bw, "%s\n%d %d\n255\n", magic, img.Width(), img.Height())

	for y := 0; y < img.Height(); y++ {
		for x := 0; x < img.Width(); x++ {
			c := raster.Quantize(img.Pixel(x, y))
			if !plain {
				bw.Write([]byte{c.R, c.G, c.B})
				continue
			}
			sep := byte(' ')
			if (x+1)%4 == 0 || x == img.Width()-1 {
				sep = '\n'
			}
			fmt.Fprintf(bw, "%d %d %d%c", c.R, c.G, c.B, sep)
		}
	}
	return bw.Flush()
}
