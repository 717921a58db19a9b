package images

import (
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// NormalizedJPEGQuality matches the default quality of the encoder the
// packaged model was validated against.
const NormalizedJPEGQuality = 75

// NormalizeImage converts legacy .jfif files into a sibling .jpg file that the
// rest of the pipeline accepts, returning the path that should be read.
//
// Any other path is returned unchanged and nothing is written. The converted
// file keeps the stored pixel orientation, and an existing .jpg with the same
// stem is overwritten.
//
// Arguments:
//   - path: The image path given on the command line.
//
// Returns:
//   - string: The path to read, either the input or the converted .jpg.
//   - error: Decode or write failures.
func NormalizeImage(path string) (string, error) {
	if FormatFromPath(path) != FormatJFIF {
		return path, nil
	}

	img, err := imaging.Open(path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to open %s", path)
	}

	target := strings.TrimSuffix(path, filepath.Ext(path)) + ".jpg"
	if err := imaging.Save(img, target, imaging.JPEGQuality(NormalizedJPEGQuality)); err != nil {
		return "", errors.Wrapf(err, "failed to write %s", target)
	}

	return target, nil
}
