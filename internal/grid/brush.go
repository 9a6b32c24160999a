package grid

import "math"

// BrushStamp is the ink weight applied around the pointer, indexed by
// [rowOffset+1][colOffset+1]. Only the center and its upper-left neighbors
// receive ink; the right column and bottom row are zero.
var BrushStamp = [3][3]float64{
	{0.2, 0.658, 0.0},
	{0.658, 1.0, 0.0},
	{0.0, 0.0, 0.0},
}

// Stamp paints the brush centered on (row, col) and returns the in-bounds
// cells it visited.
func Stamp(g *Grid, row, col int) []Cell {
	touched := make([]Cell, 0, 9)
	for di := -1; di <= 1; di++ {
		for dj := -1; dj <= 1; dj++ {
			r, c := row+di, col+dj
			g.SetMax(r, c, stampIntensity(BrushStamp[di+1][dj+1]))
			if InBounds(r, c) {
				touched = append(touched, Cell{Row: r, Col: c})
			}
		}
	}
	return touched
}

// stampIntensity truncates 255*weight, so 0.658 gives 167.
func stampIntensity(weight float64) uint8 {
	return uint8(math.Floor(255 * weight))
}
