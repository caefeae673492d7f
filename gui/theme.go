package gui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

var colorQuakeRust = &color.NRGBA{R: 0xA0, G: 0x52, B: 0x2D, A: 0xff}

// LauncherTheme keeps the default look with the launcher's accent color and an optional forced variant.
type LauncherTheme struct {
	fyne.Theme
	variant *fyne.ThemeVariant // nil follows the system
}

// NewTheme builds the theme named by the "theme" app preference: "Light", "Dark" or anything else for system.
func NewTheme(name string) *LauncherTheme {
	t := &LauncherTheme{Theme: theme.DefaultTheme()}
	switch name {
	case "Light":
		v := theme.VariantLight
		t.variant = &v
	case "Dark":
		v := theme.VariantDark
		t.variant = &v
	}
	return t
}

func (t *LauncherTheme) Color(name fyne.ThemeColorName, v fyne.ThemeVariant) color.Color {
	if t.variant != nil {
		v = *t.variant
	}
	switch name {
	case theme.ColorNamePrimary, theme.ColorNameFocus:
		return colorQuakeRust
	case theme.ColorNameSeparator:
		if v == theme.VariantDark {
			return &color.NRGBA{R: 0x4A, G: 0x4A, B: 0x4A, A: 0xff}
		}
		return &color.NRGBA{R: 0xD0, G: 0xD0, B: 0xD0, A: 0xff}
	}
	return t.Theme.Color(name, v)
}
