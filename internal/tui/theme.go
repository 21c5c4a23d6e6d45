package tui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// Theme names stored in the session's theme preference.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// applyTheme sets the tview palette for the given preference. Unknown values
// fall back to dark. Primitives pick the palette up as they redraw.
func applyTheme(name string) {
	switch name {
	case ThemeLight:
		tview.Styles.PrimitiveBackgroundColor = tcell.ColorWhite
		tview.Styles.ContrastBackgroundColor = tcell.ColorSilver
		tview.Styles.MoreContrastBackgroundColor = tcell.ColorLightGray
		tview.Styles.PrimaryTextColor = tcell.ColorBlack
		tview.Styles.SecondaryTextColor = tcell.ColorDarkSlateGray
		tview.Styles.BorderColor = tcell.ColorDarkBlue
		tview.Styles.TitleColor = tcell.ColorDarkMagenta
	default:
		tview.Styles.PrimitiveBackgroundColor = tcell.ColorBlack
		tview.Styles.ContrastBackgroundColor = tcell.ColorDarkSlateGray
		tview.Styles.MoreContrastBackgroundColor = tcell.ColorDarkSlateGray
		tview.Styles.PrimaryTextColor = tcell.ColorCadetBlue
		tview.Styles.SecondaryTextColor = tcell.ColorWhite
		tview.Styles.BorderColor = tcell.ColorDodgerBlue
		tview.Styles.TitleColor = tcell.ColorFuchsia
	}
}

// nextTheme returns the other theme.
func nextTheme(current string) string {
	if current == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}
