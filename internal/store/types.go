package store

import "time"

// ChatSummary is one cached row of the conversation list: the conversation
// id, the other participant, and enough of the last message to render a
// list entry without hitting the network.
type ChatSummary struct {
	ID            string
	OtherID       string
	OtherName     string
	LastMessage   string
	LastMessageAt time.Time
	UnreadCount   int
	UpdatedAt     time.Time
}

// CachedMessage is one cached message row.
type CachedMessage struct {
	ChatID    string
	MsgID     string
	SenderID  string
	Content   string
	Read      bool
	CreatedAt time.Time
}
