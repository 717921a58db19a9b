// Package detector - counts pests in a single image.
package detector

import (
	"context"
	"fmt"

	"github.com/nvr-ai/go-pest/images"
	"github.com/nvr-ai/go-pest/inference"
	"github.com/nvr-ai/go-pest/profiler"
	"github.com/nvr-ai/go-pest/util"
	"go.uber.org/zap"
)

// EngineFactory loads a model for one detection run.
type EngineFactory func(cfg Config) (inference.Engine, error)

// Option customizes a Detector.
type Option func(*Detector)

// WithEngineFactory replaces the ONNX Runtime engine.
func WithEngineFactory(factory EngineFactory) Option {
	return func(d *Detector) {
		d.newEngine = factory
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(d *Detector) {
		d.log = log
	}
}

// Detector encapsulates the pest counting pipeline.
type Detector struct {
	config    Config
	log       *zap.Logger
	newEngine EngineFactory

	// Profiler records the duration of each stage.
	Profiler *profiler.RuntimeProfiler
}

// New creates a new detector.
//
// Arguments:
//   - config: The detector configuration.
//   - opts: Optional overrides.
//
// Returns:
//   - *Detector: The detector.
//   - error: If the configuration is invalid.
func New(config Config, opts ...Option) (*Detector, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	d := &Detector{
		config:    config,
		log:       zap.NewNop(),
		newEngine: NewEngine,
		Profiler:  profiler.NewRuntimeProfiler(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// NewEngine loads the configured model on the CPU provider.
func NewEngine(cfg Config) (inference.Engine, error) {
	return inference.NewEngineBuilder().
		WithProvider(cfg.Runtime).
		WithModel(cfg.ModelArgs()).
		WithLabels(cfg.Labels).
		Build()
}

// Detect runs the model on the image at path and returns per-label counts in
// the order labels first appear among the detections, which are ordered by
// descending confidence.
//
// The model is loaded for this call and released before it returns. A .jfif
// input is first converted to a sibling .jpg.
//
// Arguments:
//   - ctx: The context for the prediction.
//   - path: The image path.
//
// Returns:
//   - []PestCount: One entry per detected label; empty, never nil, when
//     nothing is found.
//   - error: Any failure in model loading, reading, decoding or inference.
func (d *Detector) Detect(ctx context.Context, path string) ([]PestCount, error) {
	defer d.logStages()

	stop := d.Profiler.StartOperation("model_load")
	engine, err := d.newEngine(d.config)
	stop()
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := engine.Close(); cerr != nil {
			d.log.Warn("failed to release model", zap.Error(cerr))
		}
	}()

	stop = d.Profiler.StartOperation("normalize")
	resolved, err := images.NormalizeImage(path)
	stop()
	if err != nil {
		return nil, err
	}
	if resolved != path {
		d.log.Info("converted image", zap.String("from", path), zap.String("to", resolved))
	}

	stop = d.Profiler.StartOperation("decode")
	file, err := util.LoadImageFile(resolved)
	if err != nil {
		stop()
		return nil, err
	}
	d.log.Debug("loaded image",
		zap.String("path", file.Path),
		zap.String("format", string(file.Format)),
		zap.Int("bytes", len(file.Data)),
	)
	img, err := images.Decode(file.Data)
	stop()
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", resolved, err)
	}

	stop = d.Profiler.StartOperation("inference")
	results, err := engine.Predict(ctx, img)
	stop()
	if err != nil {
		return nil, err
	}

	labels := engine.Labels()
	detections := make([]Detection, 0, len(results))
	for _, r := range results {
		name, err := labels.Name(r.Class)
		if err != nil {
			return nil, err
		}
		detections = append(detections, Detection{Label: name, Confidence: float64(r.Score)})
	}

	counts := Aggregate(detections)
	d.log.Info("detection finished",
		zap.String("image", resolved),
		zap.Int("detections", len(detections)),
		zap.Int("labels", len(counts)),
	)
	return counts, nil
}

func (d *Detector) logStages() {
	if !d.log.Core().Enabled(zap.DebugLevel) {
		return
	}
	for _, stats := range d.Profiler.Report() {
		d.log.Debug("stage", zap.Object("operation", stats))
	}
	d.log.Debug("memory", zap.String("heap_in_use", profiler.HeapInUse()))
}
