package views

import (
	"fmt"
	"time"

	"github.com/rivo/tview"

	"github.com/dvmonroy/amora/internal/contacts"
)

// ChatList is the recent-conversations table on the home page.
type ChatList struct {
	*tview.Table
	rows []contacts.Conversation
}

// NewChatList creates the conversation table.
func NewChatList() *ChatList {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false)
	table.SetBorder(true).SetTitle(" Conversations ")
	return &ChatList{Table: table}
}

// Update refreshes the table from the given rows.
func (cl *ChatList) Update(rows []contacts.Conversation) {
	cl.rows = rows
	cl.Clear()

	cl.SetCell(0, 0, tview.NewTableCell(" Name").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))
	cl.SetCell(0, 1, tview.NewTableCell(" Last message").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))
	cl.SetCell(0, 2, tview.NewTableCell(" Time").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))

	for i, r := range rows {
		name := sanitizeForTerminal(r.Other.DisplayName())
		if r.Unread > 0 {
			name = fmt.Sprintf("* %s (%d)", name, r.Unread)
		}
		preview := sanitizeForTerminal(r.LastMessage)
		if preview == "" {
			preview = "No messages yet"
		}
		cl.SetCell(i+1, 0, tview.NewTableCell(" "+name).SetMaxWidth(30).SetExpansion(1))
		cl.SetCell(i+1, 1, tview.NewTableCell(" "+preview).SetMaxWidth(40).SetExpansion(2))
		cl.SetCell(i+1, 2, tview.NewTableCell(" "+formatTimestamp(r.LastAt)).SetMaxWidth(12))
	}
}

// Selected returns the conversation under the cursor, or nil.
func (cl *ChatList) Selected() *contacts.Conversation {
	row, _ := cl.GetSelection()
	idx := row - 1 // header
	if idx >= 0 && idx < len(cl.rows) {
		return &cl.rows[idx]
	}
	return nil
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	now := time.Now()
	if t.Year() == now.Year() && t.YearDay() == now.YearDay() {
		return t.Format("15:04")
	}
	return t.Format("01/02")
}
