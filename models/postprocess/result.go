// Package postprocess - Postprocessing utilities for models.
package postprocess

import (
	"sort"

	"github.com/nvr-ai/go-pest/images"
)

// Result represents a single detection result.
type Result struct {
	// The bounding box of the result, in original image pixels.
	Box images.Rect
	// The confidence score of the result.
	Score float32
	// The predicted class index of the result.
	Class int
}

// SortByScore orders results by descending score. Ties keep their input order.
func SortByScore(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
}
