package images

import (
	"bytes"
	"image"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"

	// Registers WebP with image.Decode; imaging registers the rest.
	_ "golang.org/x/image/webp"
)

// Decode decodes an encoded image, rotating it according to its EXIF
// orientation tag so that boxes line up with what a viewer shows.
//
// Arguments:
//   - data: The raw bytes of the image file.
//
// Returns:
//   - image.Image: The decoded image.
//   - error: An error if the bytes are empty or not a supported format.
func Decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, errors.New("image data is empty")
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrap(err, "image decoding failed")
	}

	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, errors.Errorf("invalid image dimensions: %dx%d", bounds.Dx(), bounds.Dy())
	}

	return img, nil
}
