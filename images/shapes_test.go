package images

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestIoU_Correctness validates the IoU implementation against known test cases
func TestIoU_Correctness(t *testing.T) {
	tests := []struct {
		name     string
		r1       Rect
		r2       Rect
		expected float32
	}{
		{
			name:     "Identical rectangles",
			r1:       Rect{0, 0, 100, 100},
			r2:       Rect{0, 0, 100, 100},
			expected: 1.0,
		},
		{
			name:     "No overlap",
			r1:       Rect{0, 0, 100, 100},
			r2:       Rect{200, 200, 300, 300},
			expected: 0.0,
		},
		{
			name:     "Touching edges",
			r1:       Rect{0, 0, 100, 100},
			r2:       Rect{100, 0, 200, 100},
			expected: 0.0,
		},
		{
			name:     "Half overlap",
			r1:       Rect{0, 0, 100, 100},
			r2:       Rect{50, 0, 150, 100},
			expected: 5000.0 / 15000.0,
		},
		{
			name:     "Corner overlap",
			r1:       Rect{0, 0, 10, 10},
			r2:       Rect{5, 5, 15, 15},
			expected: 25.0 / 175.0,
		},
		{
			name:     "Contained",
			r1:       Rect{0, 0, 100, 100},
			r2:       Rect{25, 25, 75, 75},
			expected: 0.25,
		},
		{
			name:     "Degenerate",
			r1:       Rect{10, 10, 10, 10},
			r2:       Rect{10, 10, 10, 10},
			expected: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, CalculateIoU(tt.r1, tt.r2), 0.001)
			// IoU is symmetric.
			assert.InDelta(t, tt.expected, CalculateIoU(tt.r2, tt.r1), 0.001)
		})
	}
}

func TestRectClip(t *testing.T) {
	r := Rect{X1: -5, Y1: 10, X2: 700, Y2: 500}.Clip(640, 480)
	assert.Equal(t, Rect{X1: 0, Y1: 10, X2: 640, Y2: 480}, r)
}

func TestFromCenter(t *testing.T) {
	r := FromCenter(50, 40, 20, 10)
	assert.Equal(t, Rect{X1: 40, Y1: 35, X2: 60, Y2: 45}, r)
	assert.Equal(t, float32(200), r.Area())
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatJFIF, FormatFromPath("/tmp/leaf.jfif"))
	assert.Equal(t, FormatJFIF, FormatFromPath("/tmp/LEAF.JFIF"))
	assert.Equal(t, FormatJPEG, FormatFromPath("leaf.jpg"))
	assert.Equal(t, FormatWebP, FormatFromPath("leaf.webp"))
	assert.Equal(t, FormatUnknown, FormatFromPath("leaf"))
}
