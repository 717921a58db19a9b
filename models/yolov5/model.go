// Package yolov5 - YOLOv5 anchor-based detection head.
package yolov5

import (
	"image"

	"github.com/nvr-ai/go-pest/models/model"
	"github.com/nvr-ai/go-pest/models/model/preprocess"
)

// YOLOv5 is the instance of the YOLOv5 model.
type YOLOv5 struct {
	options      model.BaseModel
	preprocessor *preprocess.Preprocessor
}

// Options returns the options for the YOLOv5 model.
//
// Returns:
//   - The options for the YOLOv5 model.
func (m *YOLOv5) Options() model.BaseModel {
	return m.options
}

// PreProcess letterboxes the image into the model input tensor.
func (m *YOLOv5) PreProcess(img image.Image) (*preprocess.PreprocessingResult, error) {
	return m.preprocessor.Preprocess(img)
}

// NewModel creates a new model.
//
// Arguments:
//   - args: The arguments for creating a new model.
//
// Returns:
//   - The model.
func NewModel(args model.NewModelArgs) (*YOLOv5, error) {
	args.Name = model.ModelNameYOLOv5
	options := args.Resolve(model.ModelFamilyYOLO)

	return &YOLOv5{
		options:      options,
		preprocessor: preprocess.NewPreprocessor(preprocess.GetYOLOv5Config(options.InputWidth, options.InputHeight)),
	}, nil
}
