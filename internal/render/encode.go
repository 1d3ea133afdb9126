package render

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
)

// Format names an image encoding.
type Format string

const (
	PNG Format = "png"
	BMP Format = "bmp"
)

// ErrUnknownFormat reports an unsupported image format or extension.
var ErrUnknownFormat = errors.New("unknown image format")

// ParseFormat resolves "png" or "bmp", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimPrefix(s, "."))); f {
	case PNG, BMP:
		return f, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownFormat)
}

// FormatFromPath picks the format matching the file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// Encode writes img to w in the given format.
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case PNG:
		return png.Encode(w, img)
	case BMP:
		return bmp.Encode(w, img)
	}
	return fmt.Errorf("%q: %w", f, ErrUnknownFormat)
}

// WriteImage encodes img to path, choosing the format from its extension.
func WriteImage(path string, img image.Image) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Encode(out, img, f); err != nil {
		out.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return out.Close()
}
