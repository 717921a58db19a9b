package util

import (
	"fmt"
	"os"

	"github.com/nvr-ai/go-pest/images"
)

// ImageFile represents an image file.
type ImageFile struct {
	// Path is the path to the image file.
	Path string
	// Data is the raw bytes of the image file.
	Data []byte
	// Format is the container format implied by the extension.
	Format images.ImageFormat
}

// LoadImageFile reads a single image file.
//
// Arguments:
// - path: Path to the image file.
//
// Returns:
// - *ImageFile: The raw bytes of the image file.
// - error: "image not found: <path>" when the file does not exist, otherwise
// the read error.
func LoadImageFile(path string) (*ImageFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("image not found: %s", path)
		}
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("image path is a directory: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return &ImageFile{
		Path:   path,
		Data:   data,
		Format: images.FormatFromPath(path),
	}, nil
}
