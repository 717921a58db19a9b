package preprocess

// Tests for letterbox preprocessing. They check the tensor layout, the scale
// and padding bookkeeping, and that boxes map back onto the original image.

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/nvr-ai/go-pest/images"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solidImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestPreprocessLetterboxLandscape(t *testing.T) {
	p := NewPreprocessor(GetYOLOv8Config(640, 640))

	result, err := p.Preprocess(solidImage(800, 600, color.RGBA{255, 0, 0, 255}))
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 3, 640, 640}, result.Shape)
	assert.Len(t, result.Data, 3*640*640)
	assert.Equal(t, 800, result.OriginalWidth)
	assert.Equal(t, 600, result.OriginalHeight)
	assert.InDelta(t, 0.8, result.ScaleX, 1e-9)
	assert.InDelta(t, 0.8, result.ScaleY, 1e-9)
	// 800x600 -> 640x480, 160 rows of padding split evenly.
	assert.Equal(t, 0, result.PadLeft)
	assert.Equal(t, 80, result.PadTop)

	plane := 640 * 640
	// Top padding row is gray (114/255) in every channel.
	for c := 0; c < 3; c++ {
		assert.InDelta(t, 114.0/255.0, result.Data[c*plane], 1e-6)
	}
	// Centre pixel is red.
	centre := 320*640 + 320
	assert.InDelta(t, 1.0, result.Data[centre], 0.01)
	assert.InDelta(t, 0.0, result.Data[plane+centre], 0.01)
	assert.InDelta(t, 0.0, result.Data[2*plane+centre], 0.01)
}

func TestPreprocessLetterboxPortrait(t *testing.T) {
	p := NewPreprocessor(GetYOLOv8Config(640, 640))

	result, err := p.Preprocess(solidImage(300, 600, color.White))
	require.NoError(t, err)

	expectedScale := math.Min(640.0/300.0, 640.0/600.0)
	assert.InDelta(t, expectedScale, result.ScaleX, 1e-9)
	assert.Equal(t, 0, result.PadTop)
	// 300 * 640/600 = 320 wide, 320 columns of padding.
	assert.Equal(t, 160, result.PadLeft)
}

func TestPreprocessValuesInRange(t *testing.T) {
	p := NewPreprocessor(GetYOLOv8Config(320, 320))

	img := image.NewRGBA(image.Rect(0, 0, 100, 50))
	for y := 0; y < 50; y++ {
		for x := 0; x < 100; x++ {
			img.Set(x, y, color.RGBA{uint8(x * 2), uint8(y * 5), 0, 255})
		}
	}

	result, err := p.Preprocess(img)
	require.NoError(t, err)
	for _, v := range result.Data {
		assert.GreaterOrEqual(t, v, float32(0))
		assert.LessOrEqual(t, v, float32(1))
	}
}

func TestImageToTensorPlanarRGB(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{255, 0, 51, 255})
	img.Set(1, 0, color.RGBA{0, 102, 255, 255})

	tensor := imageToTensor(img)
	require.Len(t, tensor, 6)
	// R plane, then G, then B.
	assert.InDeltaSlice(t, []float32{1, 0, 0, 0.4, 0.2, 1}, tensor, 1e-6)
}

func TestPreprocessStretch(t *testing.T) {
	config := GetYOLOv8Config(64, 64)
	config.KeepAspectRatio = false
	p := NewPreprocessor(config)

	result, err := p.Preprocess(solidImage(128, 32, color.Black))
	require.NoError(t, err)
	assert.InDelta(t, 0.5, result.ScaleX, 1e-9)
	assert.InDelta(t, 2.0, result.ScaleY, 1e-9)
	assert.Equal(t, 0, result.PadLeft)
	assert.Equal(t, 0, result.PadTop)
}

func TestPreprocessRejectsInvalidInput(t *testing.T) {
	p := NewPreprocessor(GetYOLOv8Config(640, 640))

	_, err := p.Preprocess(nil)
	assert.Error(t, err)

	_, err = p.Preprocess(image.NewRGBA(image.Rect(0, 0, 0, 0)))
	assert.Error(t, err)

	bad := NewPreprocessor(GetYOLOv8Config(0, 640))
	_, err = bad.Preprocess(solidImage(10, 10, color.White))
	assert.Error(t, err)
}

func TestToOriginalUndoesLetterbox(t *testing.T) {
	result := &PreprocessingResult{
		OriginalWidth:  800,
		OriginalHeight: 600,
		ScaleX:         0.8,
		ScaleY:         0.8,
		PadLeft:        0,
		PadTop:         80,
	}

	box := result.ToOriginal(images.Rect{X1: 80, Y1: 160, X2: 160, Y2: 240})
	assert.InDelta(t, 100, box.X1, 1e-3)
	assert.InDelta(t, 100, box.Y1, 1e-3)
	assert.InDelta(t, 200, box.X2, 1e-3)
	assert.InDelta(t, 200, box.Y2, 1e-3)

	// Boxes reaching into the padding are clipped to the image.
	clipped := result.ToOriginal(images.Rect{X1: -10, Y1: 0, X2: 700, Y2: 640})
	assert.Equal(t, images.Rect{X1: 0, Y1: 0, X2: 800, Y2: 600}, clipped)
}

func BenchmarkPreprocessYOLOv8(b *testing.B) {
	img := image.NewRGBA(image.Rect(0, 0, 1920, 1080))
	p := NewPreprocessor(GetYOLOv8Config(640, 640))

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := p.Preprocess(img); err != nil {
			b.Fatal(err)
		}
	}
}
