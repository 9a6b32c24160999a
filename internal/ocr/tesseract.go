// Package ocr recognizes the drawn digit with Tesseract as an alternative to
// a trained network.
package ocr

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"digit-canvas/internal/grid"
	"digit-canvas/internal/predict"

	"github.com/otiai10/gosseract/v2"
	"gocv.io/x/gocv"
)

// Digits is the Tesseract whitelist.
const Digits = "0123456789"

const (
	// border keeps strokes that touch the grid edge away from the image edge.
	border = 4
	// upscale brings the 36px padded grid to the ~150px Tesseract prefers.
	upscale = 4.0
)

// Engine provides digit recognition using Tesseract.
type Engine struct {
	client *gosseract.Client
}

var _ predict.Classifier = (*Engine)(nil)

// NewEngine creates a Tesseract client configured for a single digit.
func NewEngine() (*Engine, error) {
	client := gosseract.NewClient()

	if err := client.SetLanguage("eng"); err != nil {
		client.Close()
		return nil, &predict.ModelLoadError{Path: "tesseract:eng", Err: err}
	}

	// A lone digit is not a dictionary word.
	_ = client.SetVariable("load_system_dawg", "false")
	_ = client.SetVariable("load_freq_dawg", "false")

	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_CHAR); err != nil {
		client.Close()
		return nil, &predict.ModelLoadError{Path: "tesseract", Err: fmt.Errorf("failed to set PSM: %w", err)}
	}
	if err := client.SetWhitelist(Digits); err != nil {
		client.Close()
		return nil, &predict.ModelLoadError{Path: "tesseract", Err: fmt.Errorf("failed to set whitelist: %w", err)}
	}

	return &Engine{client: client}, nil
}

// Close releases OCR resources.
func (e *Engine) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}

// Classify recognizes the digit in the tensor and spreads the recognizer's
// confidence into a distribution.
func (e *Engine) Classify(in grid.Tensor) (predict.Probabilities, error) {
	gray := in.Gray()
	mat, err := gocv.NewMatFromBytes(gray.Rect.Dy(), gray.Rect.Dx(), gocv.MatTypeCV8UC1, gray.Pix)
	if err != nil {
		return predict.Probabilities{}, fmt.Errorf("failed to convert drawing: %w", err)
	}
	defer mat.Close()

	processed := preprocessForOCR(mat)
	defer processed.Close()

	buf, err := gocv.IMEncode(gocv.PNGFileExt, processed)
	if err != nil {
		return predict.Probabilities{}, fmt.Errorf("failed to encode image: %w", err)
	}
	defer buf.Close()

	if err := e.client.SetImageFromBytes(buf.GetBytes()); err != nil {
		return predict.Probabilities{}, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := e.client.GetBoundingBoxes(gosseract.RIL_SYMBOL)
	if err != nil {
		return predict.Probabilities{}, fmt.Errorf("OCR failed: %w", err)
	}

	for _, box := range boxes {
		if symbol := strings.TrimSpace(box.Word); symbol != "" {
			return SymbolDistribution(symbol, box.Confidence), nil
		}
	}
	return predict.Uniform(), nil
}

// preprocessForOCR turns light-on-dark grid ink into a padded, upscaled,
// dark-on-light image.
func preprocessForOCR(src gocv.Mat) gocv.Mat {
	padded := gocv.NewMat()
	gocv.CopyMakeBorder(src, &padded, border, border, border, border,
		gocv.BorderConstant, color.RGBA{A: 255})
	defer padded.Close()

	scaled := gocv.NewMat()
	gocv.Resize(padded, &scaled, image.Point{}, upscale, upscale, gocv.InterpolationCubic)
	defer scaled.Close()

	binary := gocv.NewMat()
	gocv.Threshold(scaled, &binary, 0, 255, gocv.ThresholdBinary|gocv.ThresholdOtsu)
	defer binary.Close()

	// Tesseract expects dark text on a light background
	inverted := gocv.NewMat()
	gocv.BitwiseNot(binary, &inverted)
	return inverted
}

// SymbolDistribution gives the recognized digit confidence/100 (never less
// than the uniform share) and spreads the rest evenly. Anything that is not a
// single digit yields the uniform distribution.
func SymbolDistribution(symbol string, confidence float64) predict.Probabilities {
	if len(symbol) != 1 || symbol[0] < '0' || symbol[0] > '9' {
		return predict.Uniform()
	}
	conf := confidence / 100
	if conf < 1.0/predict.Classes {
		conf = 1.0 / predict.Classes
	}
	if conf > 1 {
		conf = 1
	}

	var p predict.Probabilities
	rest := (1 - conf) / (predict.Classes - 1)
	for i := range p {
		p[i] = rest
	}
	p[symbol[0]-'0'] = conf
	return p
}
