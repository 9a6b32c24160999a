// Package chart renders a probability distribution as a bar chart.
package chart

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"digit-canvas/internal/predict"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Default output size.
const (
	Width  = 6 * vg.Inch
	Height = 4 * vg.Inch
)

// Formats returns the file extensions Save accepts.
func Formats() []string {
	return []string{".png", ".svg", ".pdf"}
}

var (
	barColor  = color.NRGBA{R: 0x90, G: 0x90, B: 0x90, A: 0xFF}
	bestColor = color.NRGBA{R: 0x2E, G: 0x7D, B: 0x32, A: 0xFF}
)

// New builds the bar chart for p. The most likely digit is drawn in the
// accent color.
func New(p predict.Probabilities) (*plot.Plot, error) {
	pl := plot.New()
	best, prob := p.Best()
	pl.Title.Text = fmt.Sprintf("Prediction: %s", p)
	pl.X.Label.Text = "Digit"
	pl.Y.Label.Text = "Probability"
	pl.Y.Min = 0
	pl.Y.Max = 1

	values := make(plotter.Values, predict.Classes)
	highlight := make(plotter.Values, predict.Classes)
	copy(values, p[:])
	highlight[best] = prob

	width := vg.Points(20)
	bars, err := plotter.NewBarChart(values, width)
	if err != nil {
		return nil, fmt.Errorf("failed to create bar chart: %w", err)
	}
	bars.Color = barColor
	bars.LineStyle.Width = vg.Length(0)

	top, err := plotter.NewBarChart(highlight, width)
	if err != nil {
		return nil, fmt.Errorf("failed to create bar chart: %w", err)
	}
	top.Color = bestColor
	top.LineStyle.Width = vg.Length(0)

	pl.Add(plotter.NewGrid(), bars, top)

	names := make([]string, predict.Classes)
	for i := range names {
		names[i] = strconv.Itoa(i)
	}
	pl.NominalX(names...)
	return pl, nil
}

// Save writes the chart for p to path. The format follows the extension;
// a path without one gets ".png".
func Save(path string, p predict.Probabilities) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		path += ".png"
		ext = ".png"
	}
	if !IsFormat(ext) {
		return path, fmt.Errorf("unsupported chart format %q", ext)
	}

	f, err := os.Create(path)
	if err != nil {
		return path, fmt.Errorf("failed to create chart %s: %w", path, err)
	}
	if err := WriteTo(f, ext[1:], p); err != nil {
		f.Close()
		_ = os.Remove(path)
		return path, err
	}
	if err := f.Close(); err != nil {
		return path, fmt.Errorf("failed to save chart %s: %w", path, err)
	}
	return path, nil
}

// WriteTo renders the chart for p to w in the given format ("png", "svg",
// "pdf").
func WriteTo(w io.Writer, format string, p predict.Probabilities) error {
	if !IsFormat("." + format) {
		return fmt.Errorf("unsupported chart format %q", format)
	}
	pl, err := New(p)
	if err != nil {
		return err
	}
	wt, err := pl.WriterTo(Width, Height, format)
	if err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write chart: %w", err)
	}
	return nil
}

// IsFormat reports whether ext (with leading dot) is a supported chart format.
func IsFormat(ext string) bool {
	ext = strings.ToLower(ext)
	for _, f := range Formats() {
		if f == ext {
			return true
		}
	}
	return false
}
