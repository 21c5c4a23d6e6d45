// Package contacts builds the people surfaces of the client: the unified
// contact list merged from friends and matches, the recent-conversation list,
// and the set of contacts the viewer has not talked to yet.
package contacts

import (
	"strings"
	"time"

	"github.com/dvmonroy/amora/internal/api"
)

// Conversation is one row of the recent-conversations list: the conversation,
// the participant across from the viewer, and a preview of the last message.
type Conversation struct {
	ChatID      string
	Other       api.User
	LastMessage string
	LastAt      time.Time
	Unread      int
}

// Merge concatenates contact lists and deduplicates by user id. The first
// occurrence of an id wins, so list order controls which copy of a user's
// profile survives.
func Merge(lists ...[]api.User) []api.User {
	seen := make(map[string]bool)
	var out []api.User
	for _, list := range lists {
		for _, u := range list {
			if u.ID == "" || seen[u.ID] {
				continue
			}
			seen[u.ID] = true
			out = append(out, u)
		}
	}
	return out
}

// Recent projects the viewer's conversations into list rows, one per
// conversation, in the order the backend returned them. A conversation with
// no messages yet still gets a row, with a zero-value last message.
func Recent(chats []api.Chat, viewerID string) []Conversation {
	var out []Conversation
	for _, c := range chats {
		unread := 0
		for _, m := range c.Messages {
			if m.SenderID != viewerID && !m.ReadFor(viewerID) {
				unread++
			}
		}

		var other api.User
		for _, p := range c.Participants {
			if p.ID != viewerID {
				other = p
				break
			}
		}

		row := Conversation{ChatID: c.ID, Other: other, Unread: unread}
		if n := len(c.Messages); n > 0 {
			last := c.Messages[n-1]
			row.LastMessage = last.Content
			row.LastAt = last.CreatedAt
		}
		out = append(out, row)
	}
	return out
}

// WithoutConversation returns the contacts that do not yet share a
// conversation with the viewer, preserving contact order.
func WithoutConversation(contacts []api.User, chats []api.Chat, viewerID string) []api.User {
	inChat := make(map[string]bool)
	for _, c := range chats {
		for _, p := range c.Participants {
			if p.ID != viewerID {
				inChat[p.ID] = true
			}
		}
	}

	var out []api.User
	for _, u := range contacts {
		if !inChat[u.ID] {
			out = append(out, u)
		}
	}
	return out
}

// FilterByName returns the contacts whose display name contains query,
// case-insensitively. An empty query returns the input unchanged.
func FilterByName(contacts []api.User, query string) []api.User {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return contacts
	}
	var out []api.User
	for _, u := range contacts {
		if strings.Contains(strings.ToLower(u.DisplayName()), query) {
			out = append(out, u)
		}
	}
	return out
}

// FilterConversations is FilterByName over conversation rows, matching on
// the other participant's display name.
func FilterConversations(convs []Conversation, query string) []Conversation {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return convs
	}
	var out []Conversation
	for _, c := range convs {
		if strings.Contains(strings.ToLower(c.Other.DisplayName()), query) {
			out = append(out, c)
		}
	}
	return out
}
