package repository

import (
	"context"
	"sync"
)

// ChatStore remembers the Telegram chats that talked to the bot, so the
// daily digest knows where to go.
type ChatStore struct {
	kv *KV
	mu sync.Mutex
}

func NewChatStore(kv *KV) *ChatStore {
	return &ChatStore{kv: kv}
}

func (s *ChatStore) List(ctx context.Context) ([]int64, error) {
	var chats []int64
	if err := s.kv.loadJSON(ctx, keyChats, &chats); err != nil {
		return nil, err
	}
	return chats, nil
}

// Remember registers a chat once; repeated calls are no-ops.
func (s *ChatStore) Remember(ctx context.Context, chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	chats, err := s.List(ctx)
	if err != nil {
		return err
	}
	for _, id := range chats {
		if id == chatID {
			return nil
		}
	}
	chats = append(chats, chatID)
	return s.kv.saveJSON(ctx, keyChats, chats)
}
