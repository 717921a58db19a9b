// Package yolov8 - Ultralytics anchor-free detection head.
package yolov8

import (
	"image"

	"github.com/nvr-ai/go-pest/models/model"
	"github.com/nvr-ai/go-pest/models/model/preprocess"
)

// YOLOv8 is the instance of the YOLOv8 model.
type YOLOv8 struct {
	options      model.BaseModel
	preprocessor *preprocess.Preprocessor
}

// NewModel creates a new model.
//
// Arguments:
//   - args: The arguments for creating a new model.
//
// Returns:
//   - The model.
func NewModel(args model.NewModelArgs) (*YOLOv8, error) {
	args.Name = model.ModelNameYOLOv8
	options := args.Resolve(model.ModelFamilyYOLO)

	return &YOLOv8{
		options:      options,
		preprocessor: preprocess.NewPreprocessor(preprocess.GetYOLOv8Config(options.InputWidth, options.InputHeight)),
	}, nil
}

// Options returns the options for the YOLOv8 model.
func (m *YOLOv8) Options() model.BaseModel {
	return m.options
}

// PreProcess letterboxes the image into the model input tensor.
func (m *YOLOv8) PreProcess(img image.Image) (*preprocess.PreprocessingResult, error) {
	return m.preprocessor.Preprocess(img)
}
