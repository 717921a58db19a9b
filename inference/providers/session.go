// Package providers - Inference sessions.
package providers

import (
	"context"
	"fmt"
	"os"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

var environmentMu sync.Mutex

// InitializeEnvironment loads the ONNX Runtime shared library and prepares the
// native environment. It is a no-op once the environment is initialized.
//
// Arguments:
//   - libPath: The path to the shared library.
//
// Returns:
//   - error: If the environment cannot be initialized.
func InitializeEnvironment(libPath string) error {
	environmentMu.Lock()
	defer environmentMu.Unlock()

	if ort.IsInitialized() {
		return nil
	}

	// Point ONNX Runtime to the exact shared library path (overrides default search).
	ort.SetSharedLibraryPath(libPath)

	if err := ort.InitializeEnvironment(); err != nil {
		return fmt.Errorf("error initializing ORT environment: %w", err)
	}
	return nil
}

// DestroyEnvironment releases the native environment if it was initialized.
func DestroyEnvironment() error {
	environmentMu.Lock()
	defer environmentMu.Unlock()

	if !ort.IsInitialized() {
		return nil
	}
	if err := ort.DestroyEnvironment(); err != nil {
		return fmt.Errorf("error destroying ORT environment: %w", err)
	}
	return nil
}

// Session represents a model session from the onnxruntime.
type Session struct {
	session *ort.DynamicAdvancedSession

	// InputName is the name of the image input.
	InputName string
	// OutputName is the name of the detection output.
	OutputName string
	// InputShape is the declared input shape. Dynamic dimensions are -1.
	InputShape []int64
	// Metadata is the model's custom metadata.
	Metadata *ModelMetadata
}

// Close releases the resources associated with the Session.
func (s *Session) Close() error {
	if s.session != nil {
		err := s.session.Destroy()
		if err != nil {
			return fmt.Errorf("error destroying ORT session: %w", err)
		}
		s.session = nil
	}

	return nil
}

// NewSessionArgs represents the arguments for creating a new ONNX session.
type NewSessionArgs struct {
	// The path to the ONNX model file.
	ModelPath string
}

// NewSession creates a new ONNX Runtime session.
//
// Order of operations:
//  1. Model check: The model file must exist.
//  2. Library path check: Ensures native runtime is accessible.
//  3. Environment setup: Loads the native library once per process.
//  4. Graph inspection: Reads input/output names and the custom metadata.
//  5. Session options: Threading and graph optimization from the provider.
//  6. Session creation: Loads the model into a dynamic session whose output
//     tensor is allocated by the runtime on every run.
//
// Arguments:
//   - provider: The provider for the session.
//   - args: The arguments for the session.
//
// Returns:
//   - *Session: The runnable session.
//   - error: An error if the session creation fails.
func NewSession(provider ExecutionProvider, args NewSessionArgs) (*Session, error) {
	if _, err := os.Stat(args.ModelPath); err != nil {
		return nil, fmt.Errorf("model not found: %s", args.ModelPath)
	}

	libPath, err := GetSharedLibPath(provider.LibraryPath())
	if err != nil {
		return nil, err
	}

	if err := InitializeEnvironment(libPath); err != nil {
		return nil, err
	}

	inputs, outputs, err := ort.GetInputOutputInfo(args.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("error reading model inputs and outputs: %w", err)
	}
	if len(inputs) != 1 {
		return nil, fmt.Errorf("expected exactly one model input, got %d", len(inputs))
	}
	if len(outputs) == 0 {
		return nil, fmt.Errorf("model declares no outputs")
	}

	metadata, err := ReadModelMetadata(args.ModelPath)
	if err != nil {
		return nil, err
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("error creating ORT session options: %w", err)
	}
	defer options.Destroy()

	if err := provider.Configure(options); err != nil {
		return nil, fmt.Errorf("error configuring %s provider: %w", provider.Backend(), err)
	}

	session, err := ort.NewDynamicAdvancedSession(
		args.ModelPath,
		[]string{inputs[0].Name},
		[]string{outputs[0].Name},
		options,
	)
	if err != nil {
		return nil, fmt.Errorf("error creating ORT session: %w", err)
	}

	return &Session{
		session:    session,
		InputName:  inputs[0].Name,
		OutputName: outputs[0].Name,
		InputShape: []int64(inputs[0].Dimensions),
		Metadata:   metadata,
	}, nil
}

// InputSize returns the fixed input height and width declared by the graph,
// falling back to the exporter metadata. Zero means unknown.
func (s *Session) InputSize() (int, int) {
	if len(s.InputShape) == 4 && s.InputShape[2] > 0 && s.InputShape[3] > 0 {
		return int(s.InputShape[2]), int(s.InputShape[3])
	}
	if s.Metadata != nil {
		return s.Metadata.ImageHeight, s.Metadata.ImageWidth
	}
	return 0, 0
}

// Run executes the model on one input tensor.
//
// Arguments:
//   - ctx: Checked before the run starts.
//   - data: The input tensor data.
//   - shape: The input tensor shape.
//
// Returns:
//   - []float32: A copy of the first output's data.
//   - []int64: The first output's shape.
//   - error: If the session is closed or the run fails.
func (s *Session) Run(ctx context.Context, data []float32, shape []int64) ([]float32, []int64, error) {
	if s.session == nil {
		return nil, nil, fmt.Errorf("session is closed")
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	input, err := ort.NewTensor(ort.NewShape(shape...), data)
	if err != nil {
		return nil, nil, fmt.Errorf("error creating input tensor: %w", err)
	}
	defer input.Destroy()

	outputs := []ort.Value{nil}
	if err := s.session.Run([]ort.Value{input}, outputs); err != nil {
		return nil, nil, fmt.Errorf("error running inference: %w", err)
	}
	defer outputs[0].Destroy()

	tensor, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, nil, fmt.Errorf("unexpected output type %T", outputs[0])
	}

	out := make([]float32, len(tensor.GetData()))
	copy(out, tensor.GetData())

	return out, []int64(tensor.GetShape()), nil
}
