// Package yolov5 - postprocess YOLOv5 model outputs.
package yolov5

import (
	"github.com/nvr-ai/go-pest/images"
	"github.com/nvr-ai/go-pest/models/model/preprocess"
	"github.com/nvr-ai/go-pest/models/postprocess"
	"github.com/pkg/errors"
)

// headValues is the number of leading values per candidate (cx, cy, w, h, obj).
const headValues = 5

// PostProcess postprocesses the output of the YOLOv5 model.
//
// Arguments:
//   - output: The output of the YOLOv5 model.
//   - shape: The output tensor shape.
//   - frame: The preprocessing metadata of the input.
//
// Returns:
//   - A slice of postprocessed results sorted by descending score.
//   - error if the output cannot be decoded.
func (m *YOLOv5) PostProcess(
	output []float32,
	shape []int64,
	frame *preprocess.PreprocessingResult,
) ([]postprocess.Result, error) {
	data, numRows, numCols, err := postprocess.Rows(output, shape)
	if err != nil {
		return nil, err
	}
	if numCols <= headValues {
		return nil, errors.Errorf("yolov5 output needs more than %d values per row, got %d", headValues, numCols)
	}

	threshold := m.options.ConfidenceThreshold
	results := make([]postprocess.Result, 0, 64)

	for i := 0; i < numRows; i++ {
		offset := i * numCols
		objConf := data[offset+4]
		if objConf <= threshold {
			continue
		}

		classID := 0
		maxScore := float32(0)
		for j := headValues; j < numCols; j++ {
			score := data[offset+j]
			if score > maxScore {
				maxScore = score
				classID = j - headValues
			}
		}

		finalScore := objConf * maxScore
		if finalScore <= threshold {
			continue
		}

		results = append(results, postprocess.Result{
			Box:   images.FromCenter(data[offset+0], data[offset+1], data[offset+2], data[offset+3]),
			Score: finalScore,
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
