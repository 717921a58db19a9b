// Package providers - Provider interface for execution providers.
package providers

import (
	"fmt"

	ort "github.com/yalue/onnxruntime_go"
)

// ProviderBackend represents different ONNX Runtime execution providers.
type ProviderBackend string

const (
	// CPUProviderBackend runs inference on the default CPU execution provider.
	CPUProviderBackend ProviderBackend = "cpu"
)

// ProviderOptions is a marker interface for provider-specific config.
type ProviderOptions interface {
	isProviderOptions()
}

// Config selects and configures the execution provider.
type Config struct {
	// Backend specifies the backend to use. Empty selects the CPU.
	Backend ProviderBackend `json:"backend" yaml:"backend"`

	// LibraryPath overrides the ONNX Runtime shared library location.
	LibraryPath string `json:"library_path" yaml:"library_path"`

	// Optimization holds the session settings.
	Optimization OptimizationConfig `json:"optimization" yaml:"optimization"`
}

// ExecutionProvider represents the contract that all execution providers must implement.
type ExecutionProvider interface {
	// Backend identifies the provider.
	Backend() ProviderBackend
	// Options returns the provider-specific options.
	Options() ProviderOptions
	// LibraryPath returns the configured shared library override, if any.
	LibraryPath() string
	// Configure applies the provider to session options.
	Configure(options *ort.SessionOptions) error
}

// NewProvider creates a new provider based on the required backend.
//
// Arguments:
//   - config: The provider configuration.
//
// Returns:
//   - ExecutionProvider: The new provider.
//   - error: An error if the backend is not supported.
func NewProvider(config Config) (ExecutionProvider, error) {
	switch config.Backend {
	case CPUProviderBackend, "":
		return NewCPUProvider(CPUOptions{
			LibraryPath:  config.LibraryPath,
			Optimization: config.Optimization,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported provider backend: %s", config.Backend)
	}
}
