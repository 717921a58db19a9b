// Package model - Definitions shared by every detection model family.
package model

import (
	"image"

	"github.com/nvr-ai/go-pest/models/model/preprocess"
	"github.com/nvr-ai/go-pest/models/postprocess"
)

// Family is the family of models.
type Family string

const (
	// ModelFamilyYOLO is the YOLO model family.
	ModelFamilyYOLO Family = "yolo"
)

// Name is the unique identifier of a model.
type Name string

const (
	// ModelNameYOLOv8 is the anchor-free Ultralytics head (YOLOv8 and later,
	// including YOLOv5u exports).
	ModelNameYOLOv8 Name = "yolov8"
	// ModelNameYOLOv5 is the anchor-based head with an objectness column.
	ModelNameYOLOv5 Name = "yolov5"
)

// DefaultConfidenceThreshold is the score at or below which candidates are dropped
// before NMS.
const DefaultConfidenceThreshold float32 = 0.25

// DefaultInputSize is used when neither the model nor the config declares an
// input size.
const DefaultInputSize = 640

// BaseModel is the base model for all models.
type BaseModel struct {
	Name                Name
	Family              Family
	Path                string
	InputWidth          int
	InputHeight         int
	ConfidenceThreshold float32
	NMS                 *postprocess.NMSConfig
}

// Model is a detection model that knows how to prepare its input tensor and
// decode its output tensor.
type Model interface {
	// Options returns the resolved model settings.
	Options() BaseModel
	// PreProcess turns a decoded image into the model input tensor.
	PreProcess(img image.Image) (*preprocess.PreprocessingResult, error)
	// PostProcess decodes the raw output tensor into detections in original
	// image coordinates, sorted by descending score.
	PostProcess(output []float32, shape []int64, frame *preprocess.PreprocessingResult) ([]postprocess.Result, error)
}

// NewModelArgs is the arguments for creating a new model.
type NewModelArgs struct {
	Name                Name                   `json:"name"                 yaml:"name"`
	Path                string                 `json:"path"                 yaml:"path"`
	NMS                 *postprocess.NMSConfig `json:"nms"                  yaml:"nms"`
	ConfidenceThreshold float32                `json:"confidence_threshold" yaml:"confidence_threshold"`
	InputWidth          int                    `json:"input_width"          yaml:"input_width"`
	InputHeight         int                    `json:"input_height"         yaml:"input_height"`
}

// Resolve fills unset arguments with defaults and returns the base settings.
func (a NewModelArgs) Resolve(family Family) BaseModel {
	base := BaseModel{
		Name:                a.Name,
		Family:              family,
		Path:                a.Path,
		InputWidth:          a.InputWidth,
		InputHeight:         a.InputHeight,
		ConfidenceThreshold: a.ConfidenceThreshold,
		NMS:                 a.NMS,
	}
	if base.InputWidth <= 0 {
		base.InputWidth = DefaultInputSize
	}
	if base.InputHeight <= 0 {
		base.InputHeight = DefaultInputSize
	}
	if base.ConfidenceThreshold <= 0 {
		base.ConfidenceThreshold = DefaultConfidenceThreshold
	}
	if base.NMS == nil {
		base.NMS = postprocess.DefaultNMSConfig()
	}
	return base
}
