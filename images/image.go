// Package images - Image formats, shapes and codecs.
package images

import (
	"path/filepath"
	"strings"
)

// ImageFormat represents supported image formats
type ImageFormat string

// ImageFormat constants
const (
	// FormatJPEG is the JPEG image format.
	FormatJPEG ImageFormat = "jpeg"
	// FormatJFIF is a JPEG stored under the legacy .jfif extension.
	FormatJFIF ImageFormat = "jfif"
	// FormatWebP is the WebP image format.
	FormatWebP ImageFormat = "webp"
	// FormatPNG is the PNG image format.
	FormatPNG ImageFormat = "png"
	// FormatBMP is the BMP image format.
	FormatBMP ImageFormat = "bmp"
	// FormatGIF is the GIF image format.
	FormatGIF ImageFormat = "gif"
	// FormatTIFF is the TIFF image format.
	FormatTIFF ImageFormat = "tiff"
	// FormatUnknown is returned for extensions we do not recognize.
	FormatUnknown ImageFormat = ""
)

var extensionFormats = map[string]ImageFormat{
	".jpg":  FormatJPEG,
	".jpeg": FormatJPEG,
	".jpe":  FormatJPEG,
	".jfif": FormatJFIF,
	".png":  FormatPNG,
	".webp": FormatWebP,
	".bmp":  FormatBMP,
	".gif":  FormatGIF,
	".tif":  FormatTIFF,
	".tiff": FormatTIFF,
}

// FormatFromPath returns the image format implied by the file extension.
// Matching is case-insensitive.
func FormatFromPath(path string) ImageFormat {
	return extensionFormats[strings.ToLower(filepath.Ext(path))]
}
