package views

import (
	"github.com/rivo/tview"

	"github.com/dvmonroy/amora/internal/api"
)

// ContactList shows the contacts the viewer has not talked to yet.
type ContactList struct {
	*tview.Table
	users []api.User
}

// NewContactList creates the contact table.
func NewContactList() *ContactList {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false)
	table.SetBorder(true).SetTitle(" New people ")
	return &ContactList{Table: table}
}

// Update refreshes the table from the given users.
func (cl *ContactList) Update(users []api.User) {
	cl.users = users
	cl.Clear()

	cl.SetCell(0, 0, tview.NewTableCell(" Name").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))
	cl.SetCell(0, 1, tview.NewTableCell(" Bio").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))

	for i, u := range users {
		cl.SetCell(i+1, 0, tview.NewTableCell(" "+sanitizeForTerminal(u.DisplayName())).SetMaxWidth(30).SetExpansion(1))
		cl.SetCell(i+1, 1, tview.NewTableCell(" "+sanitizeForTerminal(u.Bio)).SetMaxWidth(50).SetExpansion(2))
	}
}

// Selected returns the user under the cursor, or nil.
func (cl *ContactList) Selected() *api.User {
	row, _ := cl.GetSelection()
	idx := row - 1
	if idx >= 0 && idx < len(cl.users) {
		return &cl.users[idx]
	}
	return nil
}
