// Package providers - CPU based execution provider.
package providers

import ort "github.com/yalue/onnxruntime_go"

// CPUOptions configures the CPU execution provider.
type CPUOptions struct {
	LibraryPath  string
	Optimization OptimizationConfig
}

func (CPUOptions) isProviderOptions() {}

// CPUProvider represents the CPU execution provider.
type CPUProvider struct {
	options CPUOptions
}

// NewCPUProvider creates a new CPU provider.
func NewCPUProvider(options CPUOptions) *CPUProvider {
	if options.Optimization == (OptimizationConfig{}) {
		options.Optimization = DefaultOptimizationConfig()
	}
	return &CPUProvider{options: options}
}

// Backend returns CPUProviderBackend.
func (p *CPUProvider) Backend() ProviderBackend {
	return CPUProviderBackend
}

// Options returns the CPU options.
func (p *CPUProvider) Options() ProviderOptions {
	return p.options
}

// LibraryPath returns the configured shared library override.
func (p *CPUProvider) LibraryPath() string {
	return p.options.LibraryPath
}

// Configure applies the optimization settings. The CPU provider is the runtime
// default, so no provider is appended.
func (p *CPUProvider) Configure(options *ort.SessionOptions) error {
	return p.options.Optimization.Apply(options)
}
