package grid

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// Scale divides cell intensities when building classifier input.
const Scale = 255.0

// Tensor is classifier input in NHWC order: one image, 28 rows, 28 columns,
// one channel.
type Tensor struct {
	Shape [4]int
	Data  []float32
}

// InputShape is the shape every Tensor produced by ToModelInput has.
var InputShape = [4]int{1, Size, Size, 1}

// ToModelInput normalizes the grid to [0,1] and lays it out as (1,28,28,1).
func (g *Grid) ToModelInput() Tensor {
	data := make([]float32, 0, Size*Size)
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			data = append(data, float32(float64(g.cells[row][col])/Scale))
		}
	}
	return Tensor{Shape: InputShape, Data: data}
}

// At returns the value at (row, col) of the single image and channel.
func (t Tensor) At(row, col int) float32 {
	return t.Data[row*t.Shape[2]+col]
}

// Gray converts the tensor back to 8-bit intensities.
func (t Tensor) Gray() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, t.Shape[2], t.Shape[1]))
	for i, v := range t.Data {
		switch {
		case v <= 0:
			img.Pix[i] = 0
		case v >= 1:
			img.Pix[i] = 255
		default:
			img.Pix[i] = uint8(v*Scale + 0.5)
		}
	}
	return img
}

// FromImage converts any decoded image to a single luma channel and resizes
// it to 28x28 with bilinear resampling.
func FromImage(src image.Image) *image.Gray {
	b := src.Bounds()
	luma := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(luma, luma.Bounds(), &image.Uniform{C: color.Black}, image.Point{}, draw.Src)
	draw.Draw(luma, luma.Bounds(), src, b.Min, draw.Over)

	if b.Dx() == Size && b.Dy() == Size {
		return luma
	}
	dst := image.NewGray(image.Rect(0, 0, Size, Size))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), luma, luma.Bounds(), xdraw.Src, nil)
	return dst
}
