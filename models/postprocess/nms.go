// Package postprocess - provides Non-Maximum Suppression for detection results.
package postprocess

import (
	"github.com/nvr-ai/go-pest/images"
)

// NMSConfig defines parameters for Non-Maximum Suppression.
type NMSConfig struct {
	IoUThreshold  float32 `json:"iou_threshold"  yaml:"iou_threshold"`  // Overlap threshold for suppression.
	ClassAware    bool    `json:"class_aware"    yaml:"class_aware"`    // If true, suppress only within same class.
	MaxDetections int     `json:"max_detections" yaml:"max_detections"` // Upper bound on kept boxes, 0 means unbounded.
}

// DefaultNMSConfig returns the thresholds the packaged models were tuned with.
func DefaultNMSConfig() *NMSConfig {
	return &NMSConfig{
		IoUThreshold:  0.7,
		ClassAware:    true,
		MaxDetections: 300,
	}
}

// ApplyGreedyNMS performs standard greedy Non-Maximum Suppression.
//
// The input is sorted by descending score first, so the output is always in
// descending score order.
//
// Arguments:
//   - detections: Candidate detections in any order.
//   - config: NMS configuration.
//
// Returns:
//   - Filtered slice of detections. If no detections are provided, returns an empty slice.
func ApplyGreedyNMS(detections []Result, config *NMSConfig) []Result {
	n := len(detections)
	if n == 0 {
		return []Result{}
	}
	if config == nil {
		config = DefaultNMSConfig()
	}

	SortByScore(detections)

	filtered := make([]Result, 0, n)
	used := make([]bool, n)

	for i := 0; i < n; i++ {
		if used[i] {
			continue
		}
		if config.MaxDetections > 0 && len(filtered) >= config.MaxDetections {
			break
		}

		anchor := detections[i]
		filtered = append(filtered, anchor)
		used[i] = true

		for j := i + 1; j < n; j++ {
			if used[j] {
				continue
			}
			if config.ClassAware && anchor.Class != detections[j].Class {
				continue
			}

			// Suppress if IoU exceeds threshold
			if images.CalculateIoU(anchor.Box, detections[j].Box) > config.IoUThreshold {
				used[j] = true
			}
		}
	}

	return filtered
}
