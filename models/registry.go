// Package models - registry for models.
package models

import (
	"fmt"

	"github.com/nvr-ai/go-pest/models/model"
	"github.com/nvr-ai/go-pest/models/yolov5"
	"github.com/nvr-ai/go-pest/models/yolov8"
)

// NewModel creates a new detection model instance based on the specified model name.
//
// This factory function is the entry point for model creation, routing requests
// to the model-specific constructors. An empty name selects YOLOv8, the head
// produced by current Ultralytics exports.
//
// Arguments:
//   - args: Configuration parameters specifying the model type and location.
//
// Returns:
//   - model.Model: A fully configured model instance implementing the Model interface.
//   - error: An error if the model type is unsupported.
//
// Example:
//
//	detectionModel, err := NewModel(model.NewModelArgs{
//	    Name: model.ModelNameYOLOv8,
//	    Path: "best.onnx",
//	})
//	if err != nil {
//	    return err
//	}
func NewModel(args model.NewModelArgs) (model.Model, error) {
	switch args.Name {
	case model.ModelNameYOLOv8, "":
		m, err := yolov8.NewModel(args)
		if err != nil {
			return nil, err
		}
		return m, nil
	case model.ModelNameYOLOv5:
		m, err := yolov5.NewModel(args)
		if err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unsupported model name: %s", args.Name)
	}
}
