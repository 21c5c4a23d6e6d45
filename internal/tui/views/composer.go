package views

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// Composer is the message input line. Valid input is handed to the onSend
// callback and the field is cleared only after a successful send, so failed
// sends keep the typed text for retry.
type Composer struct {
	*tview.InputField
	onSend func(text string)
}

// NewComposer creates the composer input.
func NewComposer() *Composer {
	input := tview.NewInputField().
		SetLabel(" > ").
		SetFieldWidth(0)

	c := &Composer{InputField: input}
	input.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter && c.onSend != nil {
			c.onSend(c.GetText())
		}
	})
	return c
}

// SetOnSend sets the send callback.
func (c *Composer) SetOnSend(fn func(text string)) {
	c.onSend = fn
}
