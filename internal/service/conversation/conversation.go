// Package conversation implements the turn pipeline: prompt construction,
// mood inference, and orchestration over injected model and store backends.
package conversation

import (
	"context"
	"errors"
	"time"

	"github.com/roshanis/bandhubol/internal/analysis/mood"
	"github.com/roshanis/bandhubol/internal/model/chat"
)

// DefaultMaxHistory bounds the prompt history window when no override is set.
const DefaultMaxHistory = 20

var (
	ErrEmptyInput     = errors.New("user input is required")
	ErrAvatarRequired = errors.New("avatar persona is required")
	ErrModelRequired  = errors.New("language model client is required")
	ErrStoreRequired  = errors.New("message store is required")
)

// Clock returns the current instant. Injectable so tests can pin timestamps.
type Clock func() time.Time

// LanguageModelClient is the single capability the orchestrator needs from a
// model provider. Implementations must fail, not return empty, when the
// underlying provider produces no content.
type LanguageModelClient interface {
	Chat(ctx context.Context, prompt []chat.PromptMessage) (string, error)
}

// MessagePersistence recalls recent history and stores turn output.
// Retrieval is chronological ascending regardless of underlying storage
// order. Implementations may downgrade read failures to an empty history;
// write failures always surface.
type MessagePersistence interface {
	FetchRecentMessages(ctx context.Context, userID, avatarID string, limit int) ([]chat.Message, error)
	SaveMessagePair(ctx context.Context, userMessage, assistantMessage chat.Message, tag mood.Tag) error
}
