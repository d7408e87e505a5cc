package conversation

import (
	"context"
	"fmt"

	"github.com/roshanis/bandhubol/internal/model/avatar"
	"github.com/roshanis/bandhubol/internal/model/chat"
)

// StoredTurnInput is TurnInput minus the history, which is fetched from the
// store. Language is optional; when empty the user's stored preference wins,
// then the avatar's default.
type StoredTurnInput struct {
	User               chat.UserContext
	Avatar             avatar.Persona
	UserInput          string
	Language           chat.LanguagePreference
	SafetyInstructions string
	MaxHistory         *int
	// FetchLimit overrides how many messages are read back before the turn.
	// Nil falls back to MaxHistory, then DefaultMaxHistory.
	FetchLimit *int
}

// StoredTurnDeps injects the persistence-backed turn collaborators.
type StoredTurnDeps struct {
	LLM   LanguageModelClient
	Store MessagePersistence
	Now   Clock
}

// RunStoredTurn wraps RunTurn with fetch-before and save-after calls against
// the injected store. When the save fails, the already-computed result is
// returned alongside the error so the caller can decide whether to retry,
// surface the failure, or degrade to a non-persisted response.
func RunStoredTurn(ctx context.Context, in StoredTurnInput, deps StoredTurnDeps) (*TurnResult, error) {
	if deps.Store == nil {
		return nil, ErrStoreRequired
	}

	// Explicit caller preference > user's stored preference > avatar default.
	language := in.Language
	if language == "" {
		language = in.User.PreferredLanguage
	}
	if language == "" {
		language = in.Avatar.DefaultLanguage
	}

	limit := DefaultMaxHistory
	if in.MaxHistory != nil {
		limit = *in.MaxHistory
	}
	if in.FetchLimit != nil {
		limit = *in.FetchLimit
	}

	history, err := deps.Store.FetchRecentMessages(ctx, in.User.ID, in.Avatar.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch recent messages: %w", err)
	}

	result, err := RunTurn(ctx, TurnInput{
		User:               in.User,
		Avatar:             in.Avatar,
		ExistingMessages:   history,
		UserInput:          in.UserInput,
		Language:           language,
		SafetyInstructions: in.SafetyInstructions,
		MaxHistory:         in.MaxHistory,
	}, TurnDeps{LLM: deps.LLM, Now: deps.Now})
	if err != nil {
		return nil, err
	}

	if err := deps.Store.SaveMessagePair(ctx, result.UserMessage, result.AssistantMessage, result.MoodTag); err != nil {
		return result, fmt.Errorf("save message pair: %w", err)
	}

	return result, nil
}
