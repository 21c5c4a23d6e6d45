package contacts

import (
	"testing"
	"time"

	"github.com/dvmonroy/amora/internal/api"
)

func ids(users []api.User) []string {
	out := make([]string, 0, len(users))
	for _, u := range users {
		out = append(out, u.ID)
	}
	return out
}

func TestMergeDeduplicatesFirstWins(t *testing.T) {
	friends := []api.User{{ID: "1", Name: "Ana"}, {ID: "2", Name: "Bia friend"}}
	matches := []api.User{{ID: "2", Name: "Bia match"}, {ID: "3", Name: "Caio"}}

	got := Merge(friends, matches)

	want := []string{"1", "2", "3"}
	gotIDs := ids(got)
	if len(gotIDs) != len(want) {
		t.Fatalf("expected %v, got %v", want, gotIDs)
	}
	for i := range want {
		if gotIDs[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, gotIDs)
		}
	}
	// The friend copy of user 2 survives.
	if got[1].Name != "Bia friend" {
		t.Errorf("first occurrence must win, got %q", got[1].Name)
	}
}

func TestMergeSkipsEmptyIDs(t *testing.T) {
	got := Merge([]api.User{{ID: ""}, {ID: "1"}})
	if len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("expected only user 1, got %v", ids(got))
	}
}

func TestRecentKeepsBackendOrder(t *testing.T) {
	// The backend owns the ordering. A newer message in a later chat must
	// not move that chat up, and a chat with no messages still gets a row.
	chats := []api.Chat{
		{
			ID:           "old",
			Participants: []api.User{{ID: "me"}, {ID: "u2", Name: "Ana"}},
			Messages:     []api.Message{{Content: "early", CreatedAt: time.UnixMilli(1000)}},
		},
		{
			ID:           "empty",
			Participants: []api.User{{ID: "me"}, {ID: "u3", Name: "Caio"}},
		},
		{
			ID:           "new",
			Participants: []api.User{{ID: "me"}, {ID: "u4", Name: "Bia"}},
			Messages:     []api.Message{{Content: "late", CreatedAt: time.UnixMilli(2000)}},
		},
	}

	got := Recent(chats, "me")
	if len(got) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(got))
	}
	for i, want := range []string{"old", "empty", "new"} {
		if got[i].ChatID != want {
			t.Fatalf("row %d = %s, want %s (backend order must survive)", i, got[i].ChatID, want)
		}
	}
	if got[1].Other.Name != "Caio" || got[1].LastMessage != "" || !got[1].LastAt.IsZero() {
		t.Errorf("empty conversation row = %+v, want zero-value last message", got[1])
	}
	if got[2].Other.Name != "Bia" || got[2].LastMessage != "late" {
		t.Errorf("wrong row content: %+v", got[2])
	}
}

func TestRecentUnreadCountsOnlyIncomingUnread(t *testing.T) {
	chats := []api.Chat{{
		ID:           "c1",
		Participants: []api.User{{ID: "me"}, {ID: "u2"}},
		Messages: []api.Message{
			{SenderID: "me", Content: "mine unread"},
			{SenderID: "u2", Content: "theirs unread"},
			{SenderID: "u2", Content: "theirs read", Read: true},
			{SenderID: "u2", Content: "read by me", ReadBy: []string{"me"}},
		},
	}}

	got := Recent(chats, "me")
	if len(got) != 1 || got[0].Unread != 1 {
		t.Fatalf("expected unread 1, got %+v", got)
	}
}

func TestWithoutConversation(t *testing.T) {
	contacts := []api.User{{ID: "1"}, {ID: "2"}, {ID: "3"}}
	chats := []api.Chat{{
		ID:           "c1",
		Participants: []api.User{{ID: "me"}, {ID: "2"}},
	}}

	got := WithoutConversation(contacts, chats, "me")
	gotIDs := ids(got)
	if len(gotIDs) != 2 || gotIDs[0] != "1" || gotIDs[1] != "3" {
		t.Fatalf("expected [1 3], got %v", gotIDs)
	}
}

func TestFilterByName(t *testing.T) {
	contacts := []api.User{
		{ID: "1", FullName: "Ana Clara"},
		{ID: "2", Name: "Bruno"},
		{ID: "3", Username: "anabela"},
	}

	cases := []struct {
		query string
		want  []string
	}{
		{"ana", []string{"1", "3"}},
		{"BRUNO", []string{"2"}},
		{"", []string{"1", "2", "3"}},
		{"  ", []string{"1", "2", "3"}},
		{"zz", nil},
	}
	for _, tc := range cases {
		got := ids(FilterByName(contacts, tc.query))
		if len(got) != len(tc.want) {
			t.Errorf("query %q: expected %v, got %v", tc.query, tc.want, got)
			continue
		}
		for i := range tc.want {
			if got[i] != tc.want[i] {
				t.Errorf("query %q: expected %v, got %v", tc.query, tc.want, got)
			}
		}
	}
}

func TestFilterConversations(t *testing.T) {
	convs := []Conversation{
		{ChatID: "c1", Other: api.User{FullName: "Ana Clara"}},
		{ChatID: "c2", Other: api.User{Name: "Bruno"}},
	}

	got := FilterConversations(convs, "ana")
	if len(got) != 1 || got[0].ChatID != "c1" {
		t.Fatalf("expected [c1], got %+v", got)
	}
	if got := FilterConversations(convs, ""); len(got) != 2 {
		t.Fatalf("empty query must pass everything through, got %d rows", len(got))
	}
}
