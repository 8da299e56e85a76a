package codec

import (
	"bytes"
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/raster-tools/internal/raster"
)

// decodeImaging handles the formats registered with the standard image
// package, applying any EXIF orientation tag.
func decodeImaging(data []byte) (*raster.Image, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, classify(err)
	}
	if err := checkConfig(cfg); err != nil {
		return nil, err
	}
	m, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, classify(err)
	}
	return raster.FromImage(m), nil
}

func encodeImaging(w io.Writer, img *raster.Image, f Format, opts *Options) error {
	format, ok := imagingFormat(f)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownFormat, f)
	}
	if img.Len() == 0 {
		return fmt.Errorf("%w: empty image", ErrUnsupported)
	}
	return imaging.Encode(w, img.ToNRGBA(), format, imaging.JPEGQuality(opts.jpegQuality()))
}
