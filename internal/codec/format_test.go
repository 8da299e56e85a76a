package codec

import (
	"errors"
	"testing"
)

func TestSniff(t *testing.T) {
	tests := []struct {
		name string
		data string
		want Format
	}{
		{"bmp", "BM\x36\x00\x00\x00", FormatBMP},
		{"binary ppm", "P6\n2 2\n255\n", FormatPPM},
		{"ascii ppm", "P3 1 1 255 0 0 0", FormatPPM},
		{"graymap", "P5\n1 1\n255\n\x00", FormatPPM},
		{"jpeg", "\xFF\xD8\xFF\xE0", FormatJPEG},
		{"png", "\x89PNG\r\n\x1a\n....", FormatPNG},
		{"gif", "GIF89a", FormatGIF},
		{"tiff little endian", "II*\x00", FormatTIFF},
		{"tiff big endian", "MM\x00*", FormatTIFF},
		{"webp", "RIFF\x00\x00\x00\x00WEBPVP8 ", FormatWebP},
		{"txt", "  2 2 4\n0 0 0 1\n", FormatTXT},
		{"bitmap pbm", "P1\n1 1\n0", FormatUnknown},
		{"riff without webp", "RIFF\x00\x00\x00\x00WAVE", FormatUnknown},
		{"empty", "", FormatUnknown},
		{"garbage", "hello", FormatUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sniff([]byte(tt.data)); got != tt.want {
				t.Errorf("Sniff: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"bmp":   FormatBMP,
		".PPM":  FormatPPM,
		"pgm":   FormatPPM,
		"jpg":   FormatJPEG,
		".jpeg": FormatJPEG,
		"png":   FormatPNG,
		"gif":   FormatGIF,
		"tif":   FormatTIFF,
		"webp":  FormatWebP,
		".txt":  FormatTXT,
	}
	for name, want := range tests {
		got, err := ParseFormat(name)
		if err != nil {
			t.Errorf("ParseFormat(%q): %v", name, err)
			continue
		}
		if got != want {
			t.Errorf("ParseFormat(%q): got %v, want %v", name, got, want)
		}
	}

	if _, err := ParseFormat("xcf"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("ParseFormat(xcf): got %v, want ErrUnknownFormat", err)
	}
}

func TestFormatFromPath(t *testing.T) {
	f, err := FormatFromPath("/tmp/out/photo.JPG")
	if err != nil {
		t.Fatalf("FormatFromPath: %v", err)
	}
	if f != FormatJPEG {
		t.Errorf("got %v, want jpeg", f)
	}

	if _, err := FormatFromPath("/tmp/out/noext"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("no extension: got %v, want ErrUnknownFormat", err)
	}
}

func TestFormat_Names(t *testing.T) {
	if got := FormatPNG.String(); got != "png" {
		t.Errorf("String: got %s", got)
	}
	if got := FormatWebP.MimeType(); got != "image/webp" {
		t.Errorf("MimeType: got %s", got)
	}
	if got := Format(99).String(); got != "format(99)" {
		t.Errorf("String of unknown value: got %s", got)
	}

	text, err := FormatTXT.MarshalText()
	if err != nil || string(text) != "txt" {
		t.Errorf("MarshalText: got %q, %v", text, err)
	}

	var f Format
	if err := f.UnmarshalText([]byte("jpeg")); err != nil || f != FormatJPEG {
		t.Errorf("UnmarshalText(jpeg): got %v, %v", f, err)
	}
	if err := f.UnmarshalText([]byte("unknown")); err != nil || f != FormatUnknown {
		t.Errorf("UnmarshalText(unknown): got %v, %v", f, err)
	}
	if err := f.UnmarshalText([]byte("xcf")); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("UnmarshalText(xcf): got %v, want ErrUnknownFormat", err)
	}
}
