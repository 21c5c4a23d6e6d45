package views

import (
	"strings"

	"github.com/rivo/tview"

	"github.com/dvmonroy/amora/internal/api"
)

// Suggestions lists people the viewer might want to send a request to.
type Suggestions struct {
	*tview.Table
	users []api.User
}

// NewSuggestions creates the suggestions table.
func NewSuggestions() *Suggestions {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false)
	table.SetBorder(true).SetTitle(" Suggestions ")
	return &Suggestions{Table: table}
}

// Update refreshes the table from the given users.
func (s *Suggestions) Update(users []api.User) {
	s.users = users
	s.Clear()

	s.SetCell(0, 0, tview.NewTableCell(" Name").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))
	s.SetCell(0, 1, tview.NewTableCell(" Interests").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))

	for i, u := range users {
		s.SetCell(i+1, 0, tview.NewTableCell(" "+sanitizeForTerminal(u.DisplayName())).SetMaxWidth(30).SetExpansion(1))
		s.SetCell(i+1, 1, tview.NewTableCell(" "+sanitizeForTerminal(strings.Join(u.Interests, ", "))).SetMaxWidth(50).SetExpansion(2))
	}
}

// Selected returns the user under the cursor, or nil.
func (s *Suggestions) Selected() *api.User {
	row, _ := s.GetSelection()
	idx := row - 1
	if idx >= 0 && idx < len(s.users) {
		return &s.users[idx]
	}
	return nil
}
