// Package providers - ONNX Runtime session optimization settings.
package providers

import (
	"fmt"
	"runtime"
	"strings"

	ort "github.com/yalue/onnxruntime_go"
)

// OptimizationConfig contains the ONNX Runtime session settings that apply to
// CPU execution.
type OptimizationConfig struct {
	// GraphOptimizationLevel controls the level of graph optimization: one of
	// "disable", "basic", "extended" or "all".
	GraphOptimizationLevel string `json:"graph_optimization_level" yaml:"graph_optimization_level"`

	// Parallel runs independent graph nodes concurrently.
	Parallel bool `json:"parallel" yaml:"parallel"`

	// IntraOpNumThreads sets threads for parallelizing ops. Zero lets the
	// runtime decide.
	IntraOpNumThreads int `json:"intra_op_num_threads" yaml:"intra_op_num_threads"`

	// InterOpNumThreads sets threads for parallelizing independent ops. Zero
	// lets the runtime decide.
	InterOpNumThreads int `json:"inter_op_num_threads" yaml:"inter_op_num_threads"`
}

// DefaultOptimizationConfig returns the configuration used when none is given.
//
// A single image is run per process, so the sequential executor with half the
// cores for intra-op work is enough.
func DefaultOptimizationConfig() OptimizationConfig {
	return OptimizationConfig{
		GraphOptimizationLevel: "all",
		Parallel:               false,
		IntraOpNumThreads:      maxInt(1, runtime.NumCPU()/2),
		InterOpNumThreads:      1,
	}
}

// GraphLevel resolves the configured graph optimization level.
//
// Returns:
//   - ort.GraphOptimizationLevel: The runtime level.
//   - error: If the level name is unknown.
func (c OptimizationConfig) GraphLevel() (ort.GraphOptimizationLevel, error) {
	switch strings.ToLower(c.GraphOptimizationLevel) {
	case "disable", "none":
		return ort.GraphOptimizationLevelDisableAll, nil
	case "basic":
		return ort.GraphOptimizationLevelEnableBasic, nil
	case "extended":
		return ort.GraphOptimizationLevelEnableExtended, nil
	case "all", "":
		return ort.GraphOptimizationLevelEnableAll, nil
	default:
		return ort.GraphOptimizationLevelEnableAll, fmt.Errorf(
			"unknown graph optimization level %q",
			c.GraphOptimizationLevel,
		)
	}
}

// ExecutionMode returns the executor selected by Parallel.
func (c OptimizationConfig) ExecutionMode() ort.ExecutionMode {
	if c.Parallel {
		return ort.ExecutionModeParallel
	}
	return ort.ExecutionModeSequential
}

// Apply writes the settings onto session options.
//
// Arguments:
//   - options: The session options to configure.
//
// Returns:
//   - error: If any setting is rejected by the runtime.
func (c OptimizationConfig) Apply(options *ort.SessionOptions) error {
	level, err := c.GraphLevel()
	if err != nil {
		return err
	}
	if err := options.SetGraphOptimizationLevel(level); err != nil {
		return fmt.Errorf("failed to set graph optimization level: %w", err)
	}

	if err := options.SetExecutionMode(c.ExecutionMode()); err != nil {
		return fmt.Errorf("failed to set execution mode: %w", err)
	}

	if c.IntraOpNumThreads > 0 {
		if err := options.SetIntraOpNumThreads(c.IntraOpNumThreads); err != nil {
			return fmt.Errorf("failed to set intra-op threads: %w", err)
		}
	}
	if c.InterOpNumThreads > 0 {
		if err := options.SetInterOpNumThreads(c.InterOpNumThreads); err != nil {
			return fmt.Errorf("failed to set inter-op threads: %w", err)
		}
	}

	return nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
