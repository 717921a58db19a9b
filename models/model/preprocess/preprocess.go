package preprocess

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/nfnt/resize"
	"github.com/nvr-ai/go-pest/images"
	"github.com/pkg/errors"
)

// ModelConfig defines preprocessing configuration for a specific model.
type ModelConfig struct {
	// Name of the model for debugging purposes.
	Name string
	// InputWidth is the expected width of the model input.
	InputWidth int
	// InputHeight is the expected height of the model input.
	InputHeight int
	// KeepAspectRatio if true, maintains aspect ratio with letterboxing.
	KeepAspectRatio bool
	// LetterboxColor is the color used for letterbox padding (default black).
	LetterboxColor color.Color
	// Interpolation is the resampling filter used when resizing.
	Interpolation resize.InterpolationFunction
}

// PreprocessingResult contains the preprocessed image data and metadata.
type PreprocessingResult struct {
	// Data is the preprocessed float32 tensor data.
	Data []float32
	// OriginalWidth is the original image width before preprocessing.
	OriginalWidth int
	// OriginalHeight is the original image height before preprocessing.
	OriginalHeight int
	// ScaleX is the horizontal scaling factor applied.
	ScaleX float64
	// ScaleY is the vertical scaling factor applied.
	ScaleY float64
	// PadLeft is the left padding applied for letterboxing.
	PadLeft int
	// PadTop is the top padding applied for letterboxing.
	PadTop int
	// Shape contains the tensor shape [N, C, H, W].
	Shape []int64
}

// ToOriginal maps a box from model input space back onto the original image,
// undoing the letterbox and clipping to the image bounds.
//
// Arguments:
// - box: A box in model input pixels.
//
// Returns:
// - The box in original image pixels.
func (r *PreprocessingResult) ToOriginal(box images.Rect) images.Rect {
	padX := float32(r.PadLeft)
	padY := float32(r.PadTop)
	sx := float32(r.ScaleX)
	sy := float32(r.ScaleY)

	return images.Rect{
		X1: (box.X1 - padX) / sx,
		Y1: (box.Y1 - padY) / sy,
		X2: (box.X2 - padX) / sx,
		Y2: (box.Y2 - padY) / sy,
	}.Clip(r.OriginalWidth, r.OriginalHeight)
}

// Preprocessor handles image preprocessing for ONNX models.
type Preprocessor struct {
	config *ModelConfig
}

// NewPreprocessor creates a new preprocessor with the given configuration.
//
// Arguments:
// - config: The model-specific preprocessing configuration.
//
// Returns:
// - A configured Preprocessor instance.
//
// @example
//
//	config := GetYOLOv8Config(640, 640)
//	preprocessor := NewPreprocessor(config)
func NewPreprocessor(config *ModelConfig) *Preprocessor {
	if config.LetterboxColor == nil {
		config.LetterboxColor = color.Black
	}

	return &Preprocessor{config: config}
}

// Config returns the configuration the preprocessor was built with.
func (p *Preprocessor) Config() *ModelConfig {
	return p.config
}

// Preprocess performs all necessary preprocessing steps on a decoded image.
//
// Arguments:
// - img: The decoded input image.
//
// Returns:
// - PreprocessingResult containing the preprocessed tensor and metadata.
// - error if preprocessing fails.
//
// @example
//
//	result, err := preprocessor.Preprocess(img)
//	if err != nil {
//	    return err
//	}
//	tensor := result.Data
func (p *Preprocessor) Preprocess(img image.Image) (*PreprocessingResult, error) {
	if err := p.validateInput(img); err != nil {
		return nil, errors.Wrap(err, "input validation failed")
	}

	originalWidth := img.Bounds().Dx()
	originalHeight := img.Bounds().Dy()

	resizedImg, scaleX, scaleY, padLeft, padTop := p.resizeImage(img)

	tensor := imageToTensor(resizedImg)
	shape := []int64{1, tensorChannels, int64(p.config.InputHeight), int64(p.config.InputWidth)}

	return &PreprocessingResult{
		Data:           tensor,
		OriginalWidth:  originalWidth,
		OriginalHeight: originalHeight,
		ScaleX:         scaleX,
		ScaleY:         scaleY,
		PadLeft:        padLeft,
		PadTop:         padTop,
		Shape:          shape,
	}, nil
}

func (p *Preprocessor) validateInput(img image.Image) error {
	if img == nil {
		return errors.New("image is nil")
	}
	if img.Bounds().Dx() <= 0 || img.Bounds().Dy() <= 0 {
		return errors.Errorf("invalid image dimensions: %dx%d", img.Bounds().Dx(), img.Bounds().Dy())
	}
	if p.config.InputWidth <= 0 || p.config.InputHeight <= 0 {
		return errors.Errorf("invalid model input size: %dx%d", p.config.InputWidth, p.config.InputHeight)
	}
	return nil
}

// resizeImage resizes the image to the model's input dimensions.
//
// With KeepAspectRatio the image is scaled by min(W/w, H/h), centered, and the
// borders are filled with LetterboxColor. Padding is split as
// round(d/2 - 0.1) before and the remainder after, so odd remainders put the
// extra pixel on the bottom/right.
//
// Returns:
// - The resized image.
// - scaleX: Horizontal scaling factor.
// - scaleY: Vertical scaling factor.
// - padLeft: Left padding for letterboxing.
// - padTop: Top padding for letterboxing.
func (p *Preprocessor) resizeImage(img image.Image) (image.Image, float64, float64, int, int) {
	bounds := img.Bounds()
	srcWidth := bounds.Dx()
	srcHeight := bounds.Dy()
	dstWidth := p.config.InputWidth
	dstHeight := p.config.InputHeight

	if !p.config.KeepAspectRatio {
		resized := resize.Resize(uint(dstWidth), uint(dstHeight), img, p.config.Interpolation)
		scaleX := float64(dstWidth) / float64(srcWidth)
		scaleY := float64(dstHeight) / float64(srcHeight)
		return resized, scaleX, scaleY, 0, 0
	}

	scale := math.Min(float64(dstWidth)/float64(srcWidth), float64(dstHeight)/float64(srcHeight))

	newWidth := int(math.RoundToEven(float64(srcWidth) * scale))
	newHeight := int(math.RoundToEven(float64(srcHeight) * scale))
	newWidth = max(1, min(newWidth, dstWidth))
	newHeight = max(1, min(newHeight, dstHeight))

	var resized image.Image = img
	if newWidth != srcWidth || newHeight != srcHeight {
		resized = resize.Resize(uint(newWidth), uint(newHeight), img, p.config.Interpolation)
	}

	padLeft := int(math.Round(float64(dstWidth-newWidth)/2 - 0.1))
	padTop := int(math.Round(float64(dstHeight-newHeight)/2 - 0.1))

	letterboxed := image.NewRGBA(image.Rect(0, 0, dstWidth, dstHeight))
	draw.Draw(letterboxed, letterboxed.Bounds(), &image.Uniform{p.config.LetterboxColor}, image.Point{}, draw.Src)
	draw.Draw(letterboxed, image.Rect(padLeft, padTop, padLeft+newWidth, padTop+newHeight),
		resized, resized.Bounds().Min, draw.Src)

	return letterboxed, scale, scale, padLeft, padTop
}

// tensorChannels is the RGB channel count of every model input.
const tensorChannels = 3

// imageToTensor converts an image to a planar RGB float32 tensor scaled to [0, 1].
func imageToTensor(img image.Image) []float32 {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	plane := width * height

	tensor := make([]float32, plane*tensorChannels)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			i := y*width + x
			tensor[i] = float32(uint8(r>>8)) / 255.0
			tensor[plane+i] = float32(uint8(g>>8)) / 255.0
			tensor[2*plane+i] = float32(uint8(b>>8)) / 255.0
		}
	}

	return tensor
}

// GetYOLOv8Config returns the standard configuration for Ultralytics exports.
//
// Arguments:
// - width: The model input width (typically 640).
// - height: The model input height (typically 640).
//
// Returns:
// - A configured ModelConfig for YOLOv8-style models.
//
// @example
// config := GetYOLOv8Config(640, 640)
// preprocessor := NewPreprocessor(config)
func GetYOLOv8Config(width, height int) *ModelConfig {
	return &ModelConfig{
		Name:            "yolov8",
		InputWidth:      width,
		InputHeight:     height,
		KeepAspectRatio: true,
		LetterboxColor:  color.RGBA{114, 114, 114, 255},
		Interpolation:   resize.Bilinear,
	}
}

// GetYOLOv5Config returns the standard configuration for YOLOv5 exports,
// which share the YOLOv8 input contract.
func GetYOLOv5Config(width, height int) *ModelConfig {
	config := GetYOLOv8Config(width, height)
	config.Name = "yolov5"
	return config
}
