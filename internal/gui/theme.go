package gui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// Monitor-style dark palette
var (
	ColorBackground      = color.NRGBA{R: 0x12, G: 0x17, B: 0x1C, A: 0xFF} // #12171C
	ColorCardBackground  = color.NRGBA{R: 0x1B, G: 0x23, B: 0x2B, A: 0xFF} // #1B232B
	ColorPrimaryAccent   = color.NRGBA{R: 0x3D, G: 0xDC, B: 0x97, A: 0xFF} // #3DDC97 trace green
	ColorHover           = color.NRGBA{R: 0x2F, G: 0xB8, B: 0x7D, A: 0xFF} // #2FB87D
	ColorSuccess         = color.NRGBA{R: 0x3D, G: 0xDC, B: 0x97, A: 0xFF}
	ColorWarning         = color.NRGBA{R: 0xFF, G: 0xC8, B: 0x57, A: 0xFF} // #FFC857
	ColorError           = color.NRGBA{R: 0xFF, G: 0x5A, B: 0x5F, A: 0xFF} // #FF5A5F
	ColorTextPrimary     = color.NRGBA{R: 0xE6, G: 0xED, B: 0xF3, A: 0xFF} // #E6EDF3
	ColorTextSecondary   = color.NRGBA{R: 0x8B, G: 0x98, B: 0xA5, A: 0xFF} // #8B98A5
	ColorDisabled        = color.NRGBA{R: 0x4A, G: 0x55, B: 0x60, A: 0xFF} // #4A5560
	ColorInputBackground = color.NRGBA{R: 0x22, G: 0x2C, B: 0x36, A: 0xFF} // #222C36
	ColorBorder          = color.NRGBA{R: 0x34, G: 0x40, B: 0x4C, A: 0xFF} // #34404C
	ColorStepInactive    = ColorBorder
	ColorStatusGreen     = color.NRGBA{R: 0x40, G: 0xC0, B: 0x57, A: 0xFF} // #40C057
	ColorStatusRed       = color.NRGBA{R: 0xFA, G: 0x52, B: 0x52, A: 0xFF} // #FA5252
)

// MonitorTheme is the dark theme of the converter window
type MonitorTheme struct{}

var _ fyne.Theme = (*MonitorTheme)(nil)

var themeColors = map[fyne.ThemeColorName]color.Color{
	theme.ColorNameBackground:        ColorBackground,
	theme.ColorNameButton:            ColorPrimaryAccent,
	theme.ColorNameDisabledButton:    ColorDisabled,
	theme.ColorNameDisabled:          ColorDisabled,
	theme.ColorNameError:             ColorError,
	theme.ColorNameFocus:             ColorPrimaryAccent,
	theme.ColorNameForeground:        ColorTextPrimary,
	theme.ColorNameHeaderBackground:  ColorCardBackground,
	theme.ColorNameHover:             ColorHover,
	theme.ColorNameHyperlink:         ColorPrimaryAccent,
	theme.ColorNameInputBackground:   ColorInputBackground,
	theme.ColorNameInputBorder:       ColorBorder,
	theme.ColorNameMenuBackground:    ColorCardBackground,
	theme.ColorNameOverlayBackground: ColorCardBackground,
	theme.ColorNamePlaceHolder:       ColorTextSecondary,
	theme.ColorNamePrimary:           ColorPrimaryAccent,
	theme.ColorNameScrollBar:         ColorBorder,
	theme.ColorNameSelection:         color.NRGBA{R: 0x3D, G: 0xDC, B: 0x97, A: 0x55},
	theme.ColorNameSeparator:         ColorBorder,
	theme.ColorNameShadow:            color.NRGBA{A: 0x66},
	theme.ColorNameSuccess:           ColorSuccess,
	theme.ColorNameWarning:           ColorWarning,
}

// Color returns the color for the given theme color name
func (m *MonitorTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if c, ok := themeColors[name]; ok {
		return c
	}
	return theme.DefaultTheme().Color(name, theme.VariantDark)
}

// Font returns the font for the given text style
func (m *MonitorTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

// Icon returns the icon for the given icon name
func (m *MonitorTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

// Size returns the size for the given size name
func (m *MonitorTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		return 8
	case theme.SizeNameInnerPadding:
		return 10
	case theme.SizeNameText:
		return 14
	case theme.SizeNameHeadingText:
		return 20
	case theme.SizeNameInputBorder:
		return 2
	default:
		return theme.DefaultTheme().Size(name)
	}
}
