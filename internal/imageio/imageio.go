// Package imageio reads external images for import and writes the grid out as
// an 8-bit gray raster.
package imageio

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// DefaultExt is appended to export paths that have no extension.
const DefaultExt = ".png"

// DecodeError reports an import that could not be read or decoded.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to import %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// WriteError reports an export that could not be encoded or written.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to export %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Load decodes the image at path. PNG, JPEG, GIF, BMP and TIFF are registered.
func Load(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: fmt.Errorf("failed to decode image: %w", err)}
	}
	return img, nil
}

// Save writes img to path, choosing the encoder from the extension.
// A path without an extension gets DefaultExt. The path actually written is
// returned.
func Save(path string, img *image.Gray) (string, error) {
	if filepath.Ext(path) == "" {
		path += DefaultExt
	}
	ext := strings.ToLower(filepath.Ext(path))
	if !IsExportFormat(ext) {
		return path, &WriteError{Path: path, Err: fmt.Errorf("unsupported format %q", ext)}
	}

	file, err := os.Create(path)
	if err != nil {
		return path, &WriteError{Path: path, Err: err}
	}
	if err := Encode(file, ext, img); err != nil {
		file.Close()
		return path, &WriteError{Path: path, Err: err}
	}
	if err := file.Close(); err != nil {
		return path, &WriteError{Path: path, Err: err}
	}
	return path, nil
}

// Encode writes img to w in the format named by ext.
func Encode(w io.Writer, ext string, img *image.Gray) error {
	switch strings.ToLower(ext) {
	case ".png":
		return png.Encode(w, img)
	case ".bmp":
		return bmp.Encode(w, img)
	case ".tif", ".tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Uncompressed})
	default:
		return fmt.Errorf("unsupported format %q", ext)
	}
}

// ImportFormats returns the extensions accepted by Load.
func ImportFormats() []string {
	return []string{".png", ".jpg", ".jpeg", ".bmp", ".gif", ".tif", ".tiff"}
}

// ExportFormats returns the extensions accepted by Save.
func ExportFormats() []string {
	return []string{".png", ".bmp", ".tif", ".tiff"}
}

// IsImportFormat checks if the given path has an importable extension.
func IsImportFormat(path string) bool {
	return hasExt(path, ImportFormats())
}

// IsExportFormat checks if the given path or extension is exportable.
func IsExportFormat(path string) bool {
	return hasExt(path, ExportFormats())
}

func hasExt(path string, formats []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range formats {
		if ext == format {
			return true
		}
	}
	return false
}
