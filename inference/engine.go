// Package inference - Inference engine interface and implementations.
package inference

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/nvr-ai/go-pest/inference/providers"
	"github.com/nvr-ai/go-pest/models"
	"github.com/nvr-ai/go-pest/models/model"
	"github.com/nvr-ai/go-pest/models/postprocess"
)

// Engine defines the interface for ML inference engines.
type Engine interface {
	// Predict runs the model on a decoded image and returns detections in
	// original image coordinates, sorted by descending score.
	Predict(ctx context.Context, img image.Image) ([]postprocess.Result, error)
	// Labels returns the class table of the loaded model.
	Labels() *models.OutputClassSet
	// Close releases the session and the runtime environment.
	Close() error
}

// runner executes the loaded graph.
type runner interface {
	Run(ctx context.Context, data []float32, shape []int64) ([]float32, []int64, error)
	Close() error
}

// EngineBuilder builds an Engine with a fluent API. The first error is latched
// and returned from Build.
type EngineBuilder struct {
	provider providers.ExecutionProvider
	model    model.Model
	session  *providers.Session
	labels   []string
	err      error
}

// NewEngineBuilder creates a new engine builder.
//
// Returns:
//   - *EngineBuilder: The engine builder.
func NewEngineBuilder() *EngineBuilder {
	return &EngineBuilder{}
}

// WithProvider sets the provider for the engine.
//
// Arguments:
//   - args: The provider configuration.
//
// Returns:
//   - *EngineBuilder: The engine builder.
func (b *EngineBuilder) WithProvider(args providers.Config) *EngineBuilder {
	if b.HasError() {
		return b
	}

	provider, err := providers.NewProvider(args)
	if err != nil {
		b.err = err
		return b
	}
	b.provider = provider
	return b
}

// WithLabels overrides the class labels stored in the model metadata.
//
// Arguments:
//   - labels: Class names ordered by class index.
//
// Returns:
//   - *EngineBuilder: The engine builder.
func (b *EngineBuilder) WithLabels(labels []string) *EngineBuilder {
	b.labels = labels
	return b
}

// WithModel loads the model into a session on the configured provider.
//
// Input sizes left unset in args are taken from the graph, then from the
// exporter metadata.
//
// Arguments:
//   - args: The model arguments.
//
// Returns:
//   - *EngineBuilder: The engine builder.
func (b *EngineBuilder) WithModel(args model.NewModelArgs) *EngineBuilder {
	if b.HasError() {
		return b
	}
	if b.provider == nil {
		b.err = errors.New("provider must be configured before the model")
		return b
	}

	session, err := providers.NewSession(b.provider, providers.NewSessionArgs{
		ModelPath: args.Path,
	})
	if err != nil {
		b.err = err
		return b
	}

	if args.InputWidth <= 0 || args.InputHeight <= 0 {
		h, w := session.InputSize()
		if args.InputHeight <= 0 {
			args.InputHeight = h
		}
		if args.InputWidth <= 0 {
			args.InputWidth = w
		}
	}

	m, err := models.NewModel(args)
	if err != nil {
		_ = session.Close()
		b.err = err
		return b
	}

	b.model = m
	b.session = session
	return b
}

// HasError checks if the engine builder has errors.
//
// Returns:
//   - bool: True if there are errors, false otherwise.
func (b *EngineBuilder) HasError() bool {
	return b.err != nil
}

// Build builds the engine.
//
// Returns:
//   - Engine: The engine.
//   - error: The error if any.
func (b *EngineBuilder) Build() (Engine, error) {
	if b.HasError() {
		return nil, b.err
	}
	if b.provider == nil {
		return nil, errors.New("provider not configured")
	}
	if b.model == nil || b.session == nil {
		return nil, errors.New("model not configured")
	}

	labels, err := b.resolveLabels()
	if err != nil {
		_ = b.session.Close()
		return nil, err
	}

	return &engine{
		model:   b.model,
		runner:  b.session,
		labels:  labels,
		release: providers.DestroyEnvironment,
	}, nil
}

func (b *EngineBuilder) resolveLabels() (*models.OutputClassSet, error) {
	if len(b.labels) > 0 {
		return models.NewOutputClassSet(b.labels), nil
	}
	if b.session.Metadata == nil || b.session.Metadata.Names == "" {
		return nil, fmt.Errorf("model %s carries no class names; set labels in the config", b.model.Options().Path)
	}
	return models.ParseNames(b.session.Metadata.Names)
}

// engine implements the Engine interface.
type engine struct {
	model   model.Model
	runner  runner
	labels  *models.OutputClassSet
	release func() error
}

// Predict predicts the output of the model.
//
// Arguments:
//   - ctx: The context for the prediction.
//   - img: The image to predict.
//
// Returns:
//   - []postprocess.Result: The detections.
//   - error: The error if any.
func (e *engine) Predict(ctx context.Context, img image.Image) ([]postprocess.Result, error) {
	frame, err := e.model.PreProcess(img)
	if err != nil {
		return nil, fmt.Errorf("preprocess failed: %w", err)
	}

	output, shape, err := e.runner.Run(ctx, frame.Data, frame.Shape)
	if err != nil {
		return nil, err
	}

	return e.model.PostProcess(output, shape, frame)
}

func (e *engine) Labels() *models.OutputClassSet {
	return e.labels
}

func (e *engine) Close() error {
	err := e.runner.Close()
	if e.release != nil {
		if rerr := e.release(); rerr != nil && err == nil {
			err = rerr
		}
	}
	return err
}
