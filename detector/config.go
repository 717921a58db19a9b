package detector

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nvr-ai/go-pest/inference/providers"
	"github.com/nvr-ai/go-pest/models/model"
	"github.com/nvr-ai/go-pest/models/postprocess"
)

const (
	// DefaultModelFile is the model looked up next to the executable.
	DefaultModelFile = "best.onnx"
	// ModelPathEnv overrides the model path.
	ModelPathEnv = "PEST_MODEL_PATH"
)

// Config represents the configuration for the pest detector.
type Config struct {
	// ModelPath is the ONNX model file.
	ModelPath string `json:"model_path" yaml:"model_path"`
	// Model selects the detection head: yolov8 or yolov5.
	Model model.Name `json:"model" yaml:"model"`
	// ConfidenceThreshold drops candidates scoring below it.
	ConfidenceThreshold float32 `json:"confidence_threshold" yaml:"confidence_threshold"`
	// IoUThreshold is the overlap above which NMS suppresses a box.
	IoUThreshold float32 `json:"iou_threshold" yaml:"iou_threshold"`
	// MaxDetections caps the detections kept after NMS.
	MaxDetections int `json:"max_detections" yaml:"max_detections"`
	// Labels overrides the class names stored in the model.
	Labels []string `json:"labels" yaml:"labels"`
	// InputSize forces a square model input. Zero reads it from the model.
	InputSize int `json:"input_size" yaml:"input_size"`
	// Runtime configures the ONNX Runtime provider.
	Runtime providers.Config `json:"runtime" yaml:"runtime"`
}

// DefaultModelPath returns best.onnx next to the running executable, or in
// the working directory when the executable cannot be located.
func DefaultModelPath() string {
	exe, err := os.Executable()
	if err != nil {
		return DefaultModelFile
	}
	return filepath.Join(filepath.Dir(exe), DefaultModelFile)
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	nms := postprocess.DefaultNMSConfig()
	return Config{
		ModelPath:           DefaultModelPath(),
		Model:               model.ModelNameYOLOv8,
		ConfidenceThreshold: model.DefaultConfidenceThreshold,
		IoUThreshold:        nms.IoUThreshold,
		MaxDetections:       nms.MaxDetections,
		Runtime: providers.Config{
			Backend:      providers.CPUProviderBackend,
			Optimization: providers.DefaultOptimizationConfig(),
		},
	}
}

// Validate checks the thresholds and paths.
func (c Config) Validate() error {
	if c.ModelPath == "" {
		return fmt.Errorf("model_path is required")
	}
	if c.ConfidenceThreshold <= 0 || c.ConfidenceThreshold > 1 {
		return fmt.Errorf("confidence_threshold must be in (0, 1], got %g", c.ConfidenceThreshold)
	}
	if c.IoUThreshold <= 0 || c.IoUThreshold > 1 {
		return fmt.Errorf("iou_threshold must be in (0, 1], got %g", c.IoUThreshold)
	}
	if c.MaxDetections < 0 {
		return fmt.Errorf("max_detections must not be negative, got %d", c.MaxDetections)
	}
	if c.InputSize < 0 || c.InputSize%32 != 0 {
		return fmt.Errorf("input_size must be a multiple of 32, got %d", c.InputSize)
	}
	return nil
}

// ModelArgs converts the config into model construction arguments.
func (c Config) ModelArgs() model.NewModelArgs {
	return model.NewModelArgs{
		Name:                c.Model,
		Path:                c.ModelPath,
		ConfidenceThreshold: c.ConfidenceThreshold,
		InputWidth:          c.InputSize,
		InputHeight:         c.InputSize,
		NMS: &postprocess.NMSConfig{
			IoUThreshold:  c.IoUThreshold,
			ClassAware:    true,
			MaxDetections: c.MaxDetections,
		},
	}
}
