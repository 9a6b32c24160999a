// Package grid provides the drawing surface: a fixed 28x28 intensity matrix,
// the brush that paints it, and its conversion to classifier input.
package grid

import (
	"errors"
	"fmt"
	"image"
)

// Size is the width and height of the grid in cells. It matches the input
// resolution the classifier was trained on.
const Size = 28

// ErrSize is returned when an image of the wrong dimensions is loaded.
var ErrSize = errors.New("image is not 28x28")

// Cell identifies a single grid position.
type Cell struct {
	Row int
	Col int
}

// Grid holds one intensity value (0-255) per cell.
type Grid struct {
	cells [Size][Size]uint8
}

// New creates a zero-filled grid.
func New() *Grid {
	return &Grid{}
}

// InBounds reports whether (row, col) lies on the grid.
func InBounds(row, col int) bool {
	return row >= 0 && row < Size && col >= 0 && col < Size
}

// At returns the intensity at (row, col), or 0 outside the grid.
func (g *Grid) At(row, col int) uint8 {
	if !InBounds(row, col) {
		return 0
	}
	return g.cells[row][col]
}

// SetMax raises the cell at (row, col) to value if value is larger.
// Coordinates outside the grid are ignored.
func (g *Grid) SetMax(row, col int, value uint8) {
	if !InBounds(row, col) {
		return
	}
	if value > g.cells[row][col] {
		g.cells[row][col] = value
	}
}

// Reset clears every cell to 0.
func (g *Grid) Reset() {
	g.cells = [Size][Size]uint8{}
}

// Load replaces the grid contents with a 28x28 gray image.
// The grid is left untouched if the image has the wrong size.
func (g *Grid) Load(img *image.Gray) error {
	b := img.Bounds()
	if b.Dx() != Size || b.Dy() != Size {
		return fmt.Errorf("failed to load %dx%d image: %w", b.Dx(), b.Dy(), ErrSize)
	}
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			g.cells[row][col] = img.GrayAt(b.Min.X+col, b.Min.Y+row).Y
		}
	}
	return nil
}

// Image returns the grid as a gray image with pixel (col, row) = cell (row, col).
func (g *Grid) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, Size, Size))
	for row := 0; row < Size; row++ {
		copy(img.Pix[row*img.Stride:row*img.Stride+Size], g.cells[row][:])
	}
	return img
}

// IsBlank reports whether every cell is zero.
func (g *Grid) IsBlank() bool {
	for row := range g.cells {
		for _, v := range g.cells[row] {
			if v != 0 {
				return false
			}
		}
	}
	return true
}
