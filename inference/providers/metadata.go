// Package providers - ONNX model metadata.
package providers

import (
	"fmt"
	"regexp"
	"strconv"

	ort "github.com/yalue/onnxruntime_go"
)

const (
	// MetadataNamesKey holds the class label dict of Ultralytics exports.
	MetadataNamesKey = "names"
	// MetadataImageSizeKey holds the training input size, e.g. "[640, 640]".
	MetadataImageSizeKey = "imgsz"
)

// ModelMetadata is the subset of the model's custom metadata the pipeline uses.
type ModelMetadata struct {
	// Names is the raw class label dict, empty when absent.
	Names string
	// ImageHeight is the input height declared by the exporter, zero when absent.
	ImageHeight int
	// ImageWidth is the input width declared by the exporter, zero when absent.
	ImageWidth int
}

// ReadModelMetadata reads the custom metadata map of an ONNX model.
//
// Arguments:
//   - modelPath: The path to the ONNX model file.
//
// Returns:
//   - *ModelMetadata: The parsed metadata. Missing keys leave zero values.
//   - error: If the metadata cannot be read or a present key is malformed.
func ReadModelMetadata(modelPath string) (*ModelMetadata, error) {
	meta, err := ort.GetModelMetadata(modelPath)
	if err != nil {
		return nil, fmt.Errorf("error reading model metadata: %w", err)
	}
	defer meta.Destroy()

	out := &ModelMetadata{}

	names, ok, err := meta.LookupCustomMetadataMap(MetadataNamesKey)
	if err != nil {
		return nil, fmt.Errorf("error reading %q metadata: %w", MetadataNamesKey, err)
	}
	if ok {
		out.Names = names
	}

	imgsz, ok, err := meta.LookupCustomMetadataMap(MetadataImageSizeKey)
	if err != nil {
		return nil, fmt.Errorf("error reading %q metadata: %w", MetadataImageSizeKey, err)
	}
	if ok {
		h, w, err := ParseImageSize(imgsz)
		if err != nil {
			return nil, err
		}
		out.ImageHeight, out.ImageWidth = h, w
	}

	return out, nil
}

var sizeValue = regexp.MustCompile(`\d+`)

// ParseImageSize parses an "imgsz" value. Both "[h, w]" and a single "s" are
// accepted.
//
// Returns:
//   - int: The height.
//   - int: The width.
//   - error: If the value holds no sizes or more than two.
func ParseImageSize(value string) (int, int, error) {
	parts := sizeValue.FindAllString(value, -1)
	sizes := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid image size %q: %w", value, err)
		}
		sizes = append(sizes, n)
	}

	switch len(sizes) {
	case 1:
		return sizes[0], sizes[0], nil
	case 2:
		return sizes[0], sizes[1], nil
	default:
		return 0, 0, fmt.Errorf("invalid image size %q", value)
	}
}
