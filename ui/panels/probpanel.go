// Package panels provides the side panels of the main window.
package panels

import (
	"fmt"
	"strconv"

	"digit-canvas/internal/app"
	"digit-canvas/internal/predict"
	"digit-canvas/pkg/colorutil"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const (
	circleSize = 40
	blankBest  = "No prediction"
)

// probabilityRow is one rank: a circle shaded by the probability, the digit
// holding that rank, and the percentage.
type probabilityRow struct {
	circle  *fynecanvas.Circle
	digit   *widget.Label
	percent *widget.Label
}

// ProbabilityPanel shows the classifier's distribution as a list ranked from
// most to least likely. A darker circle means a more likely digit. With no
// prediction the rows list the digits 0-9.
type ProbabilityPanel struct {
	rows      [predict.Classes]probabilityRow
	best      *widget.Label
	container *fyne.Container
}

// NewProbabilityPanel creates the panel in its blank state and subscribes it
// to the session's prediction events.
func NewProbabilityPanel(session *app.Session) *ProbabilityPanel {
	pp := &ProbabilityPanel{}

	list := container.NewVBox()
	for i := range pp.rows {
		circle := fynecanvas.NewCircle(colorutil.White)
		circle.StrokeColor = colorutil.Black
		circle.StrokeWidth = 1
		pp.rows[i] = probabilityRow{
			circle:  circle,
			digit:   widget.NewLabelWithStyle(strconv.Itoa(i), fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
			percent: widget.NewLabel(""),
		}
		swatch := container.NewGridWrap(fyne.NewSize(circleSize, circleSize), circle)
		list.Add(container.NewHBox(swatch, pp.rows[i].digit, pp.rows[i].percent))
	}

	pp.best = widget.NewLabelWithStyle(blankBest, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	pp.container = container.NewBorder(nil, pp.best, nil, nil, list)

	session.On(app.EventPrediction, func(data interface{}) {
		if p, ok := data.(predict.Probabilities); ok {
			pp.SetProbabilities(p)
		}
	})
	session.On(app.EventPredictionCleared, func(interface{}) {
		pp.Blank()
	})
	return pp
}

// Container returns the panel for embedding in layouts.
func (pp *ProbabilityPanel) Container() fyne.CanvasObject {
	return pp.container
}

// SetProbabilities reorders the rows by rank and repaints them and the
// best-guess label.
func (pp *ProbabilityPanel) SetProbabilities(p predict.Probabilities) {
	for i, digit := range p.Ranked() {
		row := pp.rows[i]
		row.circle.FillColor = colorutil.Gray(p.Shade(digit))
		row.circle.Refresh()
		row.digit.SetText(strconv.Itoa(digit))
		row.percent.SetText(fmt.Sprintf("%.2f%%", p[digit]*100))
	}
	pp.best.SetText(p.String())
}

// Blank resets the panel to the no-prediction state: white circles and no
// numbers.
func (pp *ProbabilityPanel) Blank() {
	for i := range pp.rows {
		row := pp.rows[i]
		row.circle.FillColor = colorutil.White
		row.circle.Refresh()
		row.digit.SetText(strconv.Itoa(i))
		row.percent.SetText("")
	}
	pp.best.SetText(blankBest)
}
