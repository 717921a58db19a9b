// Package yolov8 - postprocess YOLOv8 model outputs.
package yolov8

import (
	"github.com/nvr-ai/go-pest/images"
	"github.com/nvr-ai/go-pest/models/model/preprocess"
	"github.com/nvr-ai/go-pest/models/postprocess"
	"github.com/pkg/errors"
)

// boxValues is the number of leading box values per candidate (cx, cy, w, h).
const boxValues = 4

// PostProcess postprocesses the output of the YOLOv8 model.
//
// Each candidate row is cx, cy, w, h followed by one score per class. The best
// class is kept when its score exceeds the confidence threshold, overlapping
// boxes are suppressed, and the survivors are mapped back onto the original
// image.
//
// Arguments:
//   - output: The output of the YOLOv8 model.
//   - shape: The output tensor shape.
//   - frame: The preprocessing metadata of the input.
//
// Returns:
//   - A slice of postprocessed results sorted by descending score.
//   - error if the output cannot be decoded.
func (m *YOLOv8) PostProcess(
	output []float32,
	shape []int64,
	frame *preprocess.PreprocessingResult,
) ([]postprocess.Result, error) {
	data, numRows, numCols, err := postprocess.Rows(output, shape)
	if err != nil {
		return nil, err
	}
	if numCols <= boxValues {
		return nil, errors.Errorf("yolov8 output needs more than %d values per row, got %d", boxValues, numCols)
	}

	threshold := m.options.ConfidenceThreshold
	results := make([]postprocess.Result, 0, 64)

	for i := 0; i < numRows; i++ {
		row := data[i*numCols : (i+1)*numCols]

		classID := -1
		maxScore := float32(0)
		for j, score := range row[boxValues:] {
			if classID < 0 || score > maxScore {
				maxScore = score
				classID = j
			}
		}
		if maxScore <= threshold {
			continue
		}

		results = append(results, postprocess.Result{
			Box:   images.FromCenter(row[0], row[1], row[2], row[3]),
			Score: maxScore,
			Class: classID,
		})
	}

	results = postprocess.ApplyGreedyNMS(results, m.options.NMS)
	if frame != nil {
		for i := range results {
			results[i].Box = frame.ToOriginal(results[i].Box)
		}
	}

	return results, nil
}
