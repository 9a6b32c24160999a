package app

import (
	"image/color"

	"digit-canvas/pkg/colorutil"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// CanvasTheme is the application theme: the default theme with a green
// accent and a light background so the black grid stands out.
type CanvasTheme struct{}

var _ fyne.Theme = (*CanvasTheme)(nil)

func (t *CanvasTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary:
		return colorutil.Accent
	case theme.ColorNameBackground:
		return color.NRGBA{R: 0xF4, G: 0xF4, B: 0xF4, A: 0xFF}
	case theme.ColorNameForeground:
		return color.NRGBA{R: 0x21, G: 0x21, B: 0x21, A: 0xFF}
	default:
		return theme.DefaultTheme().Color(name, variant)
	}
}

func (t *CanvasTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *CanvasTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *CanvasTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameText:
		return 15 // Percentages readable next to 40px circles
	default:
		return theme.DefaultTheme().Size(name)
	}
}
