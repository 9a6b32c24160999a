// Package colorutil provides shared colors for the digit canvas.
package colorutil

import "image/color"

// Common colors used throughout the application.
var (
	Black  = color.NRGBA{R: 0, G: 0, B: 0, A: 255}
	White  = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	Accent = color.NRGBA{R: 0x2E, G: 0x7D, B: 0x32, A: 0xFF}
)

// Gray returns an opaque gray of level v.
func Gray(v uint8) color.NRGBA {
	return color.NRGBA{R: v, G: v, B: v, A: 255}
}
