package detector

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateEmpty(t *testing.T) {
	counts := Aggregate(nil)
	assert.NotNil(t, counts)
	assert.Empty(t, counts)
}

func TestAggregateIndependentLabels(t *testing.T) {
	counts := Aggregate([]Detection{
		{Label: "mite", Confidence: 0.91},
		{Label: "aphid", Confidence: 0.5},
		{Label: "mite", Confidence: 0.87},
		{Label: "aphid", Confidence: 0.4},
		{Label: "aphid", Confidence: 0.3},
	})

	assert.Equal(t, []PestCount{
		{Pest: "mite", Count: 2, AvgConfidence: 0.89},
		{Pest: "aphid", Count: 3, AvgConfidence: 0.4},
	}, counts)
}

func TestRoundConfidence(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0.8333333, 0.83},
		{0.876, 0.88},
		{1, 1},
		{0, 0},
		// 0.125 is exact in binary and rounds half to even.
		{0.125, 0.12},
		// 0.675 is stored just above the midpoint.
		{0.675, 0.68},
		// 2.675 and 0.285 are stored just below it.
		{2.675, 2.67},
		{0.285, 0.28},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RoundConfidence(tt.in), "round(%v)", tt.in)
	}
}

func TestWriteReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteReport(&buf, []PestCount{{Pest: "aphid", Count: 2, AvgConfidence: 0.85}}))
	assert.JSONEq(t, `[{"pest":"aphid","count":2,"avg_confidence":0.85}]`, buf.String())
}

func TestWriteError(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteError(&buf, errors.New("image not found: <leaf>.jpg")))
	assert.Equal(t, `{"error":"image not found: <leaf>.jpg"}`+"\n", buf.String())
}
