package chat

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/dvmonroy/amora/internal/api"
	"github.com/dvmonroy/amora/internal/store"
)

// fakeAPI is an in-memory chat backend for tests.
type fakeAPI struct {
	mu    sync.Mutex
	chats map[string]*api.Chat
	msgs  map[string][]api.Message

	nextChat int
	nextMsg  int

	messagesErr error
	sendErr     error
	markReadErr error
	sendHook    func()

	getCalls      int
	createCalls   int
	messagesCalls int
	sendCalls     int
	markReadCalls []string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		chats: make(map[string]*api.Chat),
		msgs:  make(map[string][]api.Message),
	}
}

func (f *fakeAPI) Get(_ context.Context, chatID string) (*api.Chat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	chat, ok := f.chats[chatID]
	if !ok {
		return nil, fmt.Errorf("GET /chat/%s: %w", chatID, api.ErrNotFound)
	}
	cp := *chat
	return &cp, nil
}

func (f *fakeAPI) GetOrCreate(_ context.Context, participantIDs []string) (*api.Chat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++

	key := append([]string(nil), participantIDs...)
	sort.Strings(key)
	for _, c := range f.chats {
		ids := make([]string, 0, len(c.Participants))
		for _, p := range c.Participants {
			ids = append(ids, p.ID)
		}
		sort.Strings(ids)
		if fmt.Sprint(ids) == fmt.Sprint(key) {
			cp := *c
			return &cp, nil
		}
	}

	f.nextChat++
	chat := &api.Chat{ID: fmt.Sprintf("c%d", f.nextChat)}
	for _, id := range participantIDs {
		chat.Participants = append(chat.Participants, api.User{ID: id})
	}
	f.chats[chat.ID] = chat
	cp := *chat
	return &cp, nil
}

func (f *fakeAPI) Messages(_ context.Context, chatID string) ([]api.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messagesCalls++
	if f.messagesErr != nil {
		return nil, f.messagesErr
	}
	return append([]api.Message(nil), f.msgs[chatID]...), nil
}

func (f *fakeAPI) Send(_ context.Context, chatID, senderID, content string) (*api.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sendCalls++
	if f.sendHook != nil {
		f.sendHook()
	}
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.nextMsg++
	msg := api.Message{
		ID:       fmt.Sprintf("m%d", f.nextMsg),
		ChatID:   chatID,
		SenderID: senderID,
		Content:  content,
	}
	f.msgs[chatID] = append(f.msgs[chatID], msg)
	return &msg, nil
}

func (f *fakeAPI) MarkRead(_ context.Context, chatID, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.markReadCalls = append(f.markReadCalls, chatID+":"+userID)
	return f.markReadErr
}

func (f *fakeAPI) seedChat(chatID string, participants ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	chat := &api.Chat{ID: chatID}
	for _, id := range participants {
		chat.Participants = append(chat.Participants, api.User{ID: id})
	}
	f.chats[chatID] = chat
}

func (f *fakeAPI) seedMessages(chatID string, msgs ...api.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs[chatID] = append([]api.Message(nil), msgs...)
}

// fakeCache records cache writes in memory.
type fakeCache struct {
	mu        sync.Mutex
	messages  map[string][]store.CachedMessage
	summaries map[string]store.ChatSummary
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		messages:  make(map[string][]store.CachedMessage),
		summaries: make(map[string]store.ChatSummary),
	}
}

func (f *fakeCache) ReplaceMessages(_ context.Context, chatID string, msgs []store.CachedMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages[chatID] = append([]store.CachedMessage(nil), msgs...)
	return nil
}

func (f *fakeCache) UpsertChatSummary(_ context.Context, s store.ChatSummary) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.summaries[s.ID] = s
	return nil
}

func (f *fakeCache) summary(chatID string) (store.ChatSummary, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.summaries[chatID]
	return s, ok
}
