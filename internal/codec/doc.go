// Package codec converts between encoded image bytes and raster.Image.
//
// Each container format is selected explicitly with a Format value, or
// detected from the leading bytes with Sniff. File extensions are only
// consulted by FormatFromPath, which callers use to pick an output format;
// decoding never trusts a file name over its content.
//
// # Supported Formats
//
//   - BMP: via golang.org/x/image/bmp (24-bit and 32-bit, paletted input)
//   - PPM/PGM: P2, P3, P5 and P6 with maxval up to 65535; encodes P6, or P3
//     with Options.PPMPlain
//   - JPEG, PNG, GIF, TIFF: via github.com/disintegration/imaging, with EXIF
//     auto-orientation on decode
//   - WebP: via github.com/chai2010/webp
//   - TXT: a plain-text raster, "width height channels" followed by one value
//     per channel per pixel, top row first
//
// # Value Ranges
//
// Decoded channels are always in [0,1]; formats without alpha decode as
// opaque. Encoding clamps every channel to [0,1] before quantizing, and
// 8-bit formats round to the nearest level so that decoding and re-encoding
// an 8-bit file reproduces it exactly.
//
// # Errors
//
// Decode failures are reported as *DecodeError and encode failures as
// *EncodeError. Both wrap one of ErrUnknownFormat, ErrMalformed,
// ErrUnsupported or ErrTruncated, so callers can branch with errors.Is.
// No partially decoded image is ever returned.
package codec
