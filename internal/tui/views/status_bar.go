package views

import (
	"fmt"
	"time"

	"github.com/rivo/tview"
)

// StatusBar shows the profile, connection state, key hints and flashes.
type StatusBar struct {
	*tview.TextView
	profile string
	state   string
	hints   string
	flash   string
}

// NewStatusBar creates the status bar.
func NewStatusBar() *StatusBar {
	tv := tview.NewTextView().SetDynamicColors(true)
	tv.SetBackgroundColor(tview.Styles.MoreContrastBackgroundColor)
	return &StatusBar{TextView: tv}
}

// SetProfile updates the profile segment.
func (sb *StatusBar) SetProfile(name string) {
	sb.profile = name
	sb.render()
}

// SetState updates the connection-state segment.
func (sb *StatusBar) SetState(state string) {
	sb.state = state
	sb.render()
}

// SetHints updates the key-hint segment.
func (sb *StatusBar) SetHints(hints string) {
	sb.hints = hints
	sb.render()
}

// SetFlash sets a transient message segment.
func (sb *StatusBar) SetFlash(msg string) {
	sb.flash = msg
	sb.render()
}

func (sb *StatusBar) render() {
	sb.Clear()

	line := fmt.Sprintf(" [::b]%s[-:-:-] | %s | %s", sb.profile, sb.state, time.Now().Format("15:04"))
	if sb.hints != "" {
		line += " | " + sb.hints
	}
	if sb.flash != "" {
		line += fmt.Sprintf(" | [yellow]%s[-]", sb.flash)
	}
	fmt.Fprint(sb, line)
}
