package postprocess

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowsTransposesChannelFirst(t *testing.T) {
	// 2 values x 3 candidates, channel first.
	output := []float32{
		1, 2, 3,
		4, 5, 6,
	}

	data, rows, cols, err := Rows(output, []int64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, 3, rows)
	assert.Equal(t, 2, cols)
	assert.Equal(t, []float32{1, 4, 2, 5, 3, 6}, data)

	// The input is not modified.
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6}, output)
}

func TestRowsKeepsRowMajor(t *testing.T) {
	output := []float32{1, 2, 3, 4, 5, 6}

	data, rows, cols, err := Rows(output, []int64{3, 2})
	require.NoError(t, err)
	assert.Equal(t, 3, rows)
	assert.Equal(t, 2, cols)
	assert.Equal(t, output, data)
}

func TestRowsRejectsBadShapes(t *testing.T) {
	_, _, _, err := Rows([]float32{1, 2, 3}, []int64{1, 2, 2})
	assert.Error(t, err)

	_, _, _, err = Rows([]float32{1, 2, 3, 4}, []int64{2, 1, 2})
	assert.Error(t, err)

	_, _, _, err = Rows([]float32{1, 2}, []int64{2})
	assert.Error(t, err)
}

func TestRowsRejectsSquareShapes(t *testing.T) {
	_, _, _, err := Rows(make([]float32, 36), []int64{1, 6, 6})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "square")

	_, _, _, err = Rows(make([]float32, 4), []int64{2, 2})
	assert.Error(t, err)
}
