// Package memory implements message persistence in process memory,
// suitable for development and tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/roshanis/bandhubol/internal/analysis/mood"
	"github.com/roshanis/bandhubol/internal/model/chat"
	"github.com/roshanis/bandhubol/internal/service/conversation"
)

// Store holds every conversation's messages keyed by user/avatar pair.
type Store struct {
	mu       sync.RWMutex
	messages map[string][]chat.Message
}

// NewStore bootstraps an empty in-memory store.
func NewStore() *Store {
	return &Store{messages: make(map[string][]chat.Message)}
}

// Conversation binds the store to one user/avatar pair, satisfying the
// conversation core's MessagePersistence contract.
func (s *Store) Conversation(userID, avatarID string) conversation.MessagePersistence {
	return &conversationStore{store: s, userID: userID, avatarID: avatarID}
}

func key(userID, avatarID string) string {
	return userID + "/" + avatarID
}

type conversationStore struct {
	store    *Store
	userID   string
	avatarID string
}

// FetchRecentMessages returns up to limit messages in chronological order.
func (c *conversationStore) FetchRecentMessages(_ context.Context, userID, avatarID string, limit int) ([]chat.Message, error) {
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()

	stored := c.store.messages[key(userID, avatarID)]
	messages := append([]chat.Message(nil), stored...)
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})

	if limit >= 0 && len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}
	return messages, nil
}

// SaveMessagePair appends both turn messages to the bound conversation.
func (c *conversationStore) SaveMessagePair(_ context.Context, userMessage, assistantMessage chat.Message, _ mood.Tag) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	k := key(c.userID, c.avatarID)
	c.store.messages[k] = append(c.store.messages[k], userMessage, assistantMessage)
	return nil
}
