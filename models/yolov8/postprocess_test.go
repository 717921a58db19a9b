package yolov8

import (
	"image"
	"testing"

	"github.com/nvr-ai/go-pest/models/model"
	"github.com/nvr-ai/go-pest/models/model/preprocess"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// channelFirst lays candidate rows out the way Ultralytics exports them:
// [1, values, candidates]. Empty candidates are appended so the candidate
// axis stays the longer one, as it is for real heads.
func channelFirst(rows [][]float32) ([]float32, []int64) {
	numCols := len(rows[0])
	for len(rows) <= numCols {
		rows = append(rows, make([]float32, numCols))
	}
	numRows := len(rows)
	out := make([]float32, numRows*numCols)
	for r, row := range rows {
		for c, v := range row {
			out[c*numRows+r] = v
		}
	}
	return out, []int64{1, int64(numCols), int64(numRows)}
}

func identityFrame(w, h int) *preprocess.PreprocessingResult {
	return &preprocess.PreprocessingResult{
		OriginalWidth:  w,
		OriginalHeight: h,
		ScaleX:         1,
		ScaleY:         1,
	}
}

func newTestModel(t *testing.T) *YOLOv8 {
	t.Helper()
	m, err := NewModel(model.NewModelArgs{Path: "best.onnx"})
	require.NoError(t, err)
	return m
}

func TestNewModelDefaults(t *testing.T) {
	m := newTestModel(t)
	opts := m.Options()

	assert.Equal(t, model.ModelNameYOLOv8, opts.Name)
	assert.Equal(t, model.ModelFamilyYOLO, opts.Family)
	assert.Equal(t, 640, opts.InputWidth)
	assert.Equal(t, 640, opts.InputHeight)
	assert.InDelta(t, 0.25, opts.ConfidenceThreshold, 1e-6)
	require.NotNil(t, opts.NMS)
	assert.InDelta(t, 0.7, opts.NMS.IoUThreshold, 1e-6)
	assert.Equal(t, 640, m.preprocessor.Config().InputWidth)
}

func TestNewModelInputSize(t *testing.T) {
	m, err := NewModel(model.NewModelArgs{InputWidth: 320, InputHeight: 256})
	require.NoError(t, err)

	frame, err := m.PreProcess(image.NewRGBA(image.Rect(0, 0, 100, 50)))
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3, 256, 320}, frame.Shape)
}

func TestPostProcessDecodesChannelFirst(t *testing.T) {
	m := newTestModel(t)

	output, shape := channelFirst([][]float32{
		// cx, cy, w, h, class0, class1
		{100, 100, 20, 20, 0.9, 0.1},
		{102, 101, 20, 20, 0.8, 0.1}, // overlaps the first, same class
		{300, 300, 40, 40, 0.1, 0.6},
		{500, 500, 10, 10, 0.1, 0.2}, // below threshold
	})

	results, err := m.PostProcess(output, shape, identityFrame(640, 640))
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, 0, results[0].Class)
	assert.InDelta(t, 0.9, results[0].Score, 1e-6)
	assert.InDelta(t, 90, results[0].Box.X1, 1e-4)
	assert.InDelta(t, 110, results[0].Box.Y2, 1e-4)

	assert.Equal(t, 1, results[1].Class)
	assert.InDelta(t, 0.6, results[1].Score, 1e-6)
}

func TestPostProcessRowMajor(t *testing.T) {
	m := newTestModel(t)

	output := []float32{
		50, 50, 10, 10, 0.3, 0.7,
		60, 60, 10, 10, 0.1, 0.1,
		70, 70, 10, 10, 0.1, 0.1,
		80, 80, 10, 10, 0.1, 0.1,
		90, 90, 10, 10, 0.1, 0.1,
		95, 95, 10, 10, 0.1, 0.1,
		99, 99, 10, 10, 0.1, 0.1,
	}

	results, err := m.PostProcess(output, []int64{1, 7, 6}, identityFrame(640, 640))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 1, results[0].Class)
}

func TestPostProcessDropsScoreAtThreshold(t *testing.T) {
	m := newTestModel(t)

	output, shape := channelFirst([][]float32{
		{100, 100, 20, 20, 0.25, 0.1},
		{300, 300, 20, 20, 0.1, 0.26},
	})

	results, err := m.PostProcess(output, shape, identityFrame(640, 640))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 1, results[0].Class)
}

func TestPostProcessMapsToOriginal(t *testing.T) {
	m := newTestModel(t)

	// 1280x960 letterboxed into 640x640: scale 0.5, 80 pixels of top padding.
	frame := &preprocess.PreprocessingResult{
		OriginalWidth:  1280,
		OriginalHeight: 960,
		ScaleX:         0.5,
		ScaleY:         0.5,
		PadTop:         80,
	}
	output, shape := channelFirst([][]float32{
		{320, 320, 100, 100, 0.95},
	})

	results, err := m.PostProcess(output, shape, frame)
	require.NoError(t, err)
	require.Len(t, results, 1)

	box := results[0].Box
	assert.InDelta(t, 540, box.X1, 1e-3)
	assert.InDelta(t, 380, box.Y1, 1e-3)
	assert.InDelta(t, 740, box.X2, 1e-3)
	assert.InDelta(t, 580, box.Y2, 1e-3)
}

func TestPostProcessNoCandidates(t *testing.T) {
	m := newTestModel(t)

	output, shape := channelFirst([][]float32{
		{10, 10, 5, 5, 0.01, 0.02},
	})

	results, err := m.PostProcess(output, shape, identityFrame(640, 640))
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestPostProcessRejectsNarrowRows(t *testing.T) {
	m := newTestModel(t)

	_, err := m.PostProcess([]float32{1, 2, 3, 4, 5, 6, 7, 8}, []int64{1, 2, 4}, nil)
	assert.Error(t, err)
}
