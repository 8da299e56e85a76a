package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"golang.org/x/image/bmp"

	"github.com/ironsheep/raster-tools/internal/raster"
)

func decodeBMP(data []byte) (*raster.Image, error) {
	cfg, err := bmp.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, classifyBMP(err)
	}
	if err := checkConfig(cfg); err != nil {
		return nil, err
	}
	m, err := bmp.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, classifyBMP(err)
	}
	return raster.FromImage(m), nil
}

func classifyBMP(err error) error {
	if errors.Is(err, bmp.ErrUnsupported) {
		return fmt.Errorf("%w: %v", ErrUnsupported, err)
	}
	return classify(err)
}

// encodeBMP writes 24-bit rows for opaque images and 32-bit rows otherwise.
func encodeBMP(w io.Writer, img *raster.Image) error {
	if img.Len() == 0 {
		return fmt.Errorf("%w: empty image", ErrUnsupported)
	}
	return bmp.Encode(w, img.ToNRGBA())
}
