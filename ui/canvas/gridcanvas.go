// Package canvas provides the drawable 28x28 grid widget.
package canvas

import (
	"image"
	"math"

	"digit-canvas/internal/app"
	"digit-canvas/internal/grid"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// GridCanvas shows the session grid magnified and turns pointer presses and
// drags into brush stamps.
type GridCanvas struct {
	widget.BaseWidget

	session   *app.Session
	pixelSize float32

	// img mirrors the grid one pixel per cell; the raster scales it up.
	img    *image.Gray
	raster *fynecanvas.Raster

	// Last stamped cell during a drag, so resting on one cell does not
	// re-run the classifier for an identical grid.
	last    grid.Cell
	hasLast bool

	onError func(err error)
}

var (
	_ fyne.Draggable    = (*GridCanvas)(nil)
	_ desktop.Mouseable = (*GridCanvas)(nil)
)

// NewGridCanvas creates the widget for session with each cell drawn
// pixelSize units wide.
func NewGridCanvas(session *app.Session, pixelSize int) *GridCanvas {
	gc := &GridCanvas{
		session:   session,
		pixelSize: float32(pixelSize),
		img:       session.Grid().Image(),
	}

	gc.raster = fynecanvas.NewRaster(func(w, h int) image.Image { return gc.img })
	gc.raster.ScaleMode = fynecanvas.ImageScalePixels
	gc.raster.SetMinSize(gc.MinSize())

	session.On(app.EventGridChanged, func(data interface{}) {
		if change, ok := data.(app.GridChange); ok {
			gc.sync(change)
		}
	})

	gc.ExtendBaseWidget(gc)
	return gc
}

// SetOnError sets the callback for failed classification cycles.
func (gc *GridCanvas) SetOnError(fn func(err error)) {
	gc.onError = fn
}

// MinSize keeps every cell pixelSize units square.
func (gc *GridCanvas) MinSize() fyne.Size {
	side := gc.pixelSize * grid.Size
	return fyne.NewSize(side, side)
}

func (gc *GridCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(gc.raster)
}

// MouseDown stamps on press so a single click leaves ink.
func (gc *GridCanvas) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	gc.hasLast = false
	gc.stampAt(ev.Position)
}

func (gc *GridCanvas) MouseUp(*desktop.MouseEvent) {}

// Dragged stamps at every pointer position reported during a drag.
func (gc *GridCanvas) Dragged(ev *fyne.DragEvent) {
	gc.stampAt(ev.Position)
}

func (gc *GridCanvas) DragEnd() {
	gc.hasLast = false
}

func (gc *GridCanvas) stampAt(pos fyne.Position) {
	row, col := cellAt(pos, gc.cellSize())
	cell := grid.Cell{Row: row, Col: col}
	if gc.hasLast && gc.last == cell {
		return
	}
	gc.last, gc.hasLast = cell, true

	if err := gc.session.Stamp(row, col); err != nil && gc.onError != nil {
		gc.onError(err)
	}
}

// cellSize is the on-screen width of one cell. The widget may be laid out
// larger than its minimum.
func (gc *GridCanvas) cellSize() float32 {
	if w := gc.Size().Width; w > 0 {
		return w / grid.Size
	}
	return gc.pixelSize
}

// sync copies the changed cells into the backing image and repaints.
func (gc *GridCanvas) sync(change app.GridChange) {
	g := gc.session.Grid()
	if change.Full {
		copy(gc.img.Pix, g.Image().Pix)
	} else {
		for _, c := range change.Cells {
			gc.img.Pix[gc.img.PixOffset(c.Col, c.Row)] = g.At(c.Row, c.Col)
		}
	}
	gc.raster.Refresh()
}

// cellAt maps a position in widget coordinates to a grid cell. Positions
// left of or above the widget map to negative indices.
func cellAt(pos fyne.Position, cellSize float32) (row, col int) {
	row = int(math.Floor(float64(pos.Y / cellSize)))
	col = int(math.Floor(float64(pos.X / cellSize)))
	return row, col
}
