package views

import (
	"github.com/rivo/tview"

	"github.com/dvmonroy/amora/internal/api"
)

// Requests lists the pending friend requests awaiting a decision.
type Requests struct {
	*tview.Table
	reqs []api.FriendRequest
}

// NewRequests creates the pending-requests table.
func NewRequests() *Requests {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false)
	table.SetBorder(true).SetTitle(" Friend requests ")
	return &Requests{Table: table}
}

// Update refreshes the table from the given requests.
func (r *Requests) Update(reqs []api.FriendRequest) {
	r.reqs = reqs
	r.Clear()

	r.SetCell(0, 0, tview.NewTableCell(" From").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))
	r.SetCell(0, 1, tview.NewTableCell(" Received").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))

	for i, req := range reqs {
		name := req.Sender.DisplayName()
		if name == "User" && req.SenderID != "" {
			name = req.SenderID
		}
		r.SetCell(i+1, 0, tview.NewTableCell(" "+sanitizeForTerminal(name)).SetMaxWidth(30).SetExpansion(1))
		r.SetCell(i+1, 1, tview.NewTableCell(" "+formatTimestamp(req.CreatedAt)).SetMaxWidth(12))
	}
}

// Selected returns the request under the cursor, or nil.
func (r *Requests) Selected() *api.FriendRequest {
	row, _ := r.GetSelection()
	idx := row - 1
	if idx >= 0 && idx < len(r.reqs) {
		return &r.reqs[idx]
	}
	return nil
}
