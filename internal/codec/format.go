package codec

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// Format identifies an image container format.
type Format int

// Supported formats.
const (
	FormatUnknown Format = iota
	FormatBMP
	FormatPPM
	FormatJPEG
	FormatPNG
	FormatGIF
	FormatTIFF
	FormatWebP
	FormatTXT
)

var formatNames = map[Format]string{
	FormatUnknown: "unknown",
	FormatBMP:     "bmp",
	FormatPPM:     "ppm",
	FormatJPEG:    "jpeg",
	FormatPNG:     "png",
	FormatGIF:     "gif",
	FormatTIFF:    "tiff",
	FormatWebP:    "webp",
	FormatTXT:     "txt",
}

// String returns the lower-case format name.
func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("format(%d)", int(f))
}

// MarshalText implements encoding.TextMarshaler so formats appear by name in
// JSON results.
func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Format) UnmarshalText(text []byte) error {
	if string(text) == FormatUnknown.String() {
		*f = FormatUnknown
		return nil
	}
	parsed, err := ParseFormat(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// MimeType returns the media type for f.
func (f Format) MimeType() string {
	switch f {
	case FormatBMP:
		return "image/bmp"
	case FormatPPM:
		return "image/x-portable-pixmap"
	case FormatJPEG:
		return "image/jpeg"
	case FormatPNG:
		return "image/png"
	case FormatGIF:
		return "image/gif"
	case FormatTIFF:
		return "image/tiff"
	case FormatWebP:
		return "image/webp"
	case FormatTXT:
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}

// ParseFormat converts a format name or extension ("png", ".jpg", "pgm") to
// a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "bmp":
		return FormatBMP, nil
	case "ppm", "pgm", "pnm":
		return FormatPPM, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "png":
		return FormatPNG, nil
	case "gif":
		return FormatGIF, nil
	case "tif", "tiff":
		return FormatTIFF, nil
	case "webp":
		return FormatWebP, nil
	case "txt":
		return FormatTXT, nil
	default:
		return FormatUnknown, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// FormatFromPath picks a format from a file name's extension.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return FormatUnknown, fmt.Errorf("%w: %s has no extension", ErrUnknownFormat, path)
	}
	return ParseFormat(ext)
}

// Sniff identifies the format of data from its leading bytes. It returns
// FormatUnknown if nothing matches.
func Sniff(data []byte) Format {
	switch {
	case bytes.HasPrefix(data, []byte("BM")):
		return FormatBMP
	case len(data) >= 2 && data[0] == 'P' && strings.IndexByte("2356", data[1]) >= 0:
		return FormatPPM
	case bytes.HasPrefix(data, []byte{0xFF, 0xD8, 0xFF}):
		return FormatJPEG
	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return FormatPNG
	case bytes.HasPrefix(data, []byte("GIF87a")), bytes.HasPrefix(data, []byte("GIF89a")):
		return FormatGIF
	case bytes.HasPrefix(data, []byte("II*\x00")), bytes.HasPrefix(data, []byte("MM\x00*")):
		return FormatTIFF
	case len(data) >= 12 && bytes.HasPrefix(data, []byte("RIFF")) && string(data[8:12]) == "WEBP":
		return FormatWebP
	}
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] >= '0' && trimmed[0] <= '9' {
		return FormatTXT
	}
	return FormatUnknown
}

// imagingFormat maps the formats handled by disintegration/imaging.
func imagingFormat(f Format) (imaging.Format, bool) {
	switch f {
	case FormatJPEG:
		return imaging.JPEG, true
	case FormatPNG:
		return imaging.PNG, true
	case FormatGIF:
		return imaging.GIF, true
	case FormatTIFF:
		return imaging.TIFF, true
	default:
		return 0, false
	}
}
