package codec

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"os"

	"github.com/ironsheep/raster-tools/internal/raster"
)

var (
	// ErrUnknownFormat reports a format that could not be identified.
	ErrUnknownFormat = errors.New("unknown image format")

	// ErrMalformed reports content that violates its format.
	ErrMalformed = errors.New("malformed image data")

	// ErrUnsupported reports a valid file using a feature this package does
	// not implement, such as an unusual bit depth.
	ErrUnsupported = errors.New("unsupported image feature")

	// ErrTruncated reports data that ends before the image is complete.
	ErrTruncated = errors.New("truncated image data")
)

// DecodeError describes a failure to decode image bytes.
type DecodeError struct {
	Format Format
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode %s image: %v", e.Format, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// EncodeError describes a failure to encode an image.
type EncodeError struct {
	Format Format
	Err    error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("failed to encode %s image: %v", e.Format, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// Options tunes encoding. The zero value selects the defaults.
type Options struct {
	// JPEGQuality is the JPEG quality, 1-100. Zero means 75.
	JPEGQuality int

	// WebPQuality is the lossy WebP quality, 0-100. Zero means 75.
	WebPQuality float32

	// WebPLossless selects lossless WebP encoding.
	WebPLossless bool

	// PPMPlain writes ASCII P3 instead of binary P6.
	PPMPlain bool
}

const defaultQuality = 75

func (o *Options) jpegQuality() int {
	if o == nil || o.JPEGQuality <= 0 {
		return defaultQuality
	}
	return min(o.JPEGQuality, 100)
}

func (o *Options) webpQuality() float32 {
	if o == nil || o.WebPQuality <= 0 {
		return defaultQuality
	}
	return min(o.WebPQuality, 100)
}

// Decode converts encoded bytes to an image. With FormatUnknown the format is
// detected with Sniff. An explicit format that contradicts a recognizable
// signature is rejected.
//
// Returns the decoded image and the format actually used. Every error is a
// *DecodeError.
func Decode(data []byte, f Format) (*raster.Image, Format, error) {
	sniffed := Sniff(data)
	if f == FormatUnknown {
		f = sniffed
	}
	if sniffed != FormatUnknown && sniffed != FormatTXT && f != FormatTXT && sniffed != f {
		return nil, f, &DecodeError{Format: f, Err: fmt.Errorf("%w: content is %s", ErrMalformed, sniffed)}
	}

	var (
		img *raster.Image
		err error
	)
	switch f {
	case FormatBMP:
		img, err = decodeBMP(data)
	case FormatPPM:
		img, err = decodePPM(data)
	case FormatTXT:
		img, err = decodeTXT(data)
	case FormatWebP:
		img, err = decodeWebP(data)
	case FormatJPEG, FormatPNG, FormatGIF, FormatTIFF:
		img, err = decodeImaging(data)
	default:
		err = ErrUnknownFormat
	}
	if err != nil {
		return nil, f, &DecodeError{Format: f, Err: err}
	}
	return img, f, nil
}

// Encode writes img to w in format f. Every error is an *EncodeError.
func Encode(w io.Writer, img *raster.Image, f Format, opts *Options) error {
	var err error
	switch f {
	case FormatBMP:
		err = encodeBMP(w, img)
	case FormatPPM:
		err = encodePPM(w, img, opts != nil && opts.PPMPlain)
	case FormatTXT:
		err = encodeTXT(w, img)
	case FormatWebP:
		err = encodeWebP(w, img, opts)
	case FormatJPEG, FormatPNG, FormatGIF, FormatTIFF:
		err = encodeImaging(w, img, f, opts)
	default:
		err = ErrUnknownFormat
	}
	if err != nil {
		return &EncodeError{Format: f, Err: err}
	}
	return nil
}

// EncodeBytes is Encode into a new byte slice.
func EncodeBytes(img *raster.Image, f Format, opts *Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, img, f, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReadFile decodes the image stored at path. The format comes from the
// file's content; the extension is only consulted when the content has no
// recognizable signature.
func ReadFile(path string) (*raster.Image, Format, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, FormatUnknown, fmt.Errorf("failed to read image: %w", err)
	}
	f := Sniff(data)
	if f == FormatUnknown {
		f, _ = FormatFromPath(path)
	}
	return Decode(data, f)
}

// WriteFile encodes img in format f and writes it to path. With
// FormatUnknown the format is chosen from the path's extension.
func WriteFile(path string, img *raster.Image, f Format, opts *Options) (Format, error) {
	if f == FormatUnknown {
		var err error
		if f, err = FormatFromPath(path); err != nil {
			return f, &EncodeError{Format: f, Err: err}
		}
	}
	data, err := EncodeBytes(img, f, opts)
	if err != nil {
		return f, err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return f, fmt.Errorf("failed to write image: %w", err)
	}
	return f, nil
}

// checkConfig rejects images whose header declares more pixels than the
// engine accepts, before any raster is allocated.
func checkConfig(cfg image.Config) error {
	if err := raster.CheckSize(float64(cfg.Width), float64(cfg.Height)); err != nil {
		return fmt.Errorf("%w: %v", ErrUnsupported, err)
	}
	return nil
}

// classify wraps an error from a third-party decoder with the matching
// sentinel.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, io.EOF):
		return fmt.Errorf("%w: %v", ErrTruncated, err)
	default:
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
}
