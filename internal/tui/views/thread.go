package views

import (
	"fmt"

	"github.com/rivo/tview"

	"github.com/dvmonroy/amora/internal/api"
)

// Thread renders the open conversation's messages, oldest first.
type Thread struct {
	*tview.TextView
}

// NewThread creates the message view.
func NewThread() *Thread {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWordWrap(true)
	tv.SetBorder(true).SetTitle(" Messages ")
	return &Thread{TextView: tv}
}

// SetPeerName updates the title with the other participant's name.
func (t *Thread) SetPeerName(name string) {
	t.SetTitle(fmt.Sprintf(" %s ", sanitizeForTerminal(name)))
}

// Update re-renders the full message list. Messages arrive in creation
// order already, so they print top to bottom.
func (t *Thread) Update(msgs []api.Message, viewerID, peerName string) {
	t.Clear()

	for _, m := range msgs {
		sender := peerName
		if m.SenderID == viewerID {
			sender = "You"
		}
		ts := formatTimestamp(m.CreatedAt)
		fmt.Fprintf(t, "[::b]%s[-:-:-] [::d]%s[-:-:-]\n%s\n\n",
			sanitizeForTerminal(sender), ts, sanitizeForTerminal(m.Content))
	}

	t.ScrollToEnd()
}
