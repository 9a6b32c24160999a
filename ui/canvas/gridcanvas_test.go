package canvas

import (
	"testing"

	"digit-canvas/internal/app"
	"digit-canvas/internal/grid"
	"digit-canvas/internal/predict"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingClassifier struct{ calls int }

func (c *countingClassifier) Classify(grid.Tensor) (predict.Probabilities, error) {
	c.calls++
	return predict.Uniform(), nil
}

func (c *countingClassifier) Close() error { return nil }

func newTestCanvas(t *testing.T) (*GridCanvas, *app.Session, *countingClassifier) {
	t.Helper()
	test.NewTempApp(t)

	clf := &countingClassifier{}
	session := app.NewSession(clf)
	gc := NewGridCanvas(session, 10)
	gc.Resize(gc.MinSize())
	return gc, session, clf
}

func press(gc *GridCanvas, x, y float32) {
	gc.MouseDown(&desktop.MouseEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)},
		Button:     desktop.MouseButtonPrimary,
	})
}

func drag(gc *GridCanvas, x, y float32) {
	gc.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)}})
}

func TestCellAt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		pos      fyne.Position
		row, col int
	}{
		{"origin", fyne.NewPos(0, 0), 0, 0},
		{"inside first cell", fyne.NewPos(19.9, 19.9), 0, 0},
		{"x is column", fyne.NewPos(45, 5), 0, 2},
		{"y is row", fyne.NewPos(5, 45), 2, 0},
		{"last cell", fyne.NewPos(559, 559), 27, 27},
		{"past the edge", fyne.NewPos(560, 10), 0, 28},
		{"negative", fyne.NewPos(-1, -1), -1, -1},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			row, col := cellAt(tt.pos, 20)
			assert.Equal(t, tt.row, row)
			assert.Equal(t, tt.col, col)
		})
	}
}

func TestMinSize(t *testing.T) {
	gc, _, _ := newTestCanvas(t)
	assert.Equal(t, fyne.NewSize(280, 280), gc.MinSize())
}

func TestPressStampsAndMirrors(t *testing.T) {
	gc, session, clf := newTestCanvas(t)

	press(gc, 55, 35) // row 3, col 5
	assert.Equal(t, 1, clf.calls)
	assert.Equal(t, uint8(255), session.Grid().At(3, 5))
	assert.Equal(t, uint8(255), gc.img.GrayAt(5, 3).Y)
	assert.Equal(t, uint8(167), gc.img.GrayAt(4, 3).Y)
	assert.Equal(t, uint8(167), gc.img.GrayAt(5, 2).Y)
	assert.Equal(t, uint8(51), gc.img.GrayAt(4, 2).Y)
}

func TestSecondaryButtonIgnored(t *testing.T) {
	gc, session, clf := newTestCanvas(t)

	gc.MouseDown(&desktop.MouseEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(55, 35)},
		Button:     desktop.MouseButtonSecondary,
	})
	assert.Zero(t, clf.calls)
	assert.True(t, session.Grid().IsBlank())
}

func TestDragSkipsRepeatedCell(t *testing.T) {
	gc, session, clf := newTestCanvas(t)

	press(gc, 105, 105)
	drag(gc, 108, 102) // same cell
	drag(gc, 115, 105) // next column
	gc.DragEnd()
	assert.Equal(t, 2, clf.calls)
	assert.Equal(t, uint8(255), session.Grid().At(10, 11))

	drag(gc, 115, 105)
	assert.Equal(t, 3, clf.calls, "a new drag starts fresh")
}

func TestDragOutsideIsNoop(t *testing.T) {
	gc, session, clf := newTestCanvas(t)

	drag(gc, -15, 50)
	drag(gc, 50, 300)
	assert.Zero(t, clf.calls)
	assert.True(t, session.Grid().IsBlank())
}

func TestClearAndImportResync(t *testing.T) {
	gc, session, _ := newTestCanvas(t)

	press(gc, 55, 35)
	require.NoError(t, session.Clear())
	for _, v := range gc.img.Pix {
		require.Zero(t, v)
	}

	full := grid.New()
	for r := 0; r < grid.Size; r++ {
		for c := 0; c < grid.Size; c++ {
			full.SetMax(r, c, 200)
		}
	}
	require.NoError(t, session.ImportImage(full.Image()))
	assert.Equal(t, uint8(200), gc.img.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(200), gc.img.GrayAt(27, 27).Y)
}
