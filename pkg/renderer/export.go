package renderer

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

// ErrUnsupportedFormat is returned when the output extension has no encoder
var ErrUnsupportedFormat = errors.New("unsupported image format")

// SaveImage encodes img to path, choosing BMP or PNG from the extension
func SaveImage(img image.Image, path string) error {
	var encode func(w io.Writer, m image.Image) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bmp":
		encode = bmp.Encode
	case ".png":
		encode = png.Encode
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	if err := encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}
