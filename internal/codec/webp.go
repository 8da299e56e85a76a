package codec

import (
	"bytes"
	"fmt"
	"io"

	"github.com/chai2010/webp"

	"github.com/ironsheep/raster-tools/internal/raster"
)

func decodeWebP(data []byte) (*raster.Image, error) {
	cfg, err := webp.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, classify(err)
	}
	if err := checkConfig(cfg); err != nil {
		return nil, err
	}
	m, err := webp.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, classify(err)
	}
	return raster.FromImage(m), nil
}

func encodeWebP(w io.Writer, img *raster.Image, opts *Options) error {
	if img.Len() == 0 {
		return fmt.Errorf("%w: empty image", ErrUnsupported)
	}
	return webp.Encode(w, img.ToNRGBA(), &webp.Options{
		Lossless: opts != nil && opts.WebPLossless,
		Quality:  opts.webpQuality(),
		Exact:    true,
	})
}
