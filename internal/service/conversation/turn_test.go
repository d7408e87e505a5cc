package conversation_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roshanis/bandhubol/internal/analysis/mood"
	"github.com/roshanis/bandhubol/internal/model/chat"
	"github.com/roshanis/bandhubol/internal/service/conversation"
)

type stubLLM struct {
	reply     string
	err       error
	gotPrompt []chat.PromptMessage
}

func (s *stubLLM) Chat(_ context.Context, prompt []chat.PromptMessage) (string, error) {
	s.gotPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func fixedClock() conversation.Clock {
	fixed := time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC)
	return func() time.Time { return fixed }
}

func TestRunTurnProducesMessagePair(t *testing.T) {
	llm := &stubLLM{reply: "This is a test response."}
	clock := fixedClock()

	result, err := conversation.RunTurn(context.Background(), conversation.TurnInput{
		User:      chat.UserContext{ID: "u1"},
		Avatar:    testAvatar(),
		UserInput: "hello there",
		Language:  chat.LanguageEnglish,
	}, conversation.TurnDeps{LLM: llm, Now: clock})

	require.NoError(t, err)
	assert.Equal(t, "This is a test response.", result.AssistantMessage.Content)
	assert.Equal(t, "hello there", result.UserMessage.Content)
	assert.Equal(t, chat.RoleUser, result.UserMessage.Role)
	assert.Equal(t, chat.RoleAssistant, result.AssistantMessage.Role)

	// Both messages share the injected clock's instant.
	assert.Equal(t, clock().UTC(), result.UserMessage.CreatedAt)
	assert.Equal(t, result.UserMessage.CreatedAt, result.AssistantMessage.CreatedAt)

	// The mood tag is attached only to the user message.
	assert.Equal(t, mood.Neutral, result.MoodTag)
	assert.Equal(t, mood.Neutral, result.UserMessage.MoodTag)
	assert.Empty(t, result.AssistantMessage.MoodTag)

	assert.NotEmpty(t, result.UserMessage.ID)
	assert.NotEmpty(t, result.AssistantMessage.ID)
	assert.NotEqual(t, result.UserMessage.ID, result.AssistantMessage.ID)
}

func TestRunTurnClassifiesInput(t *testing.T) {
	llm := &stubLLM{reply: "I'm here for you."}

	result, err := conversation.RunTurn(context.Background(), conversation.TurnInput{
		User:      chat.UserContext{ID: "u1"},
		Avatar:    testAvatar(),
		UserInput: "I feel so lonely, like no one is here for me.",
		Language:  chat.LanguageEnglish,
	}, conversation.TurnDeps{LLM: llm, Now: fixedClock()})

	require.NoError(t, err)
	assert.Equal(t, mood.Lonely, result.MoodTag)
}

func TestRunTurnPromptIncludesHistoryAndNewMessage(t *testing.T) {
	llm := &stubLLM{reply: "ok"}
	history := []chat.Message{{
		ID:        "old",
		Role:      chat.RoleAssistant,
		Content:   "earlier reply",
		CreatedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}}

	_, err := conversation.RunTurn(context.Background(), conversation.TurnInput{
		User:             chat.UserContext{ID: "u1"},
		Avatar:           testAvatar(),
		ExistingMessages: history,
		UserInput:        "what next?",
		Language:         chat.LanguageEnglish,
	}, conversation.TurnDeps{LLM: llm, Now: fixedClock()})

	require.NoError(t, err)
	require.Len(t, llm.gotPrompt, 5)
	assert.Equal(t, "earlier reply", llm.gotPrompt[3].Content)
	assert.Equal(t, "what next?", llm.gotPrompt[4].Content)
	assert.Equal(t, chat.PromptUser, llm.gotPrompt[4].Role)
}

func TestRunTurnValidation(t *testing.T) {
	deps := conversation.TurnDeps{LLM: &stubLLM{reply: "ok"}}

	_, err := conversation.RunTurn(context.Background(), conversation.TurnInput{
		User:   chat.UserContext{ID: "u1"},
		Avatar: testAvatar(),
	}, deps)
	assert.ErrorIs(t, err, conversation.ErrEmptyInput)

	_, err = conversation.RunTurn(context.Background(), conversation.TurnInput{
		User:      chat.UserContext{ID: "u1"},
		UserInput: "hello",
	}, deps)
	assert.ErrorIs(t, err, conversation.ErrAvatarRequired)

	_, err = conversation.RunTurn(context.Background(), conversation.TurnInput{
		User:      chat.UserContext{ID: "u1"},
		Avatar:    testAvatar(),
		UserInput: "hello",
	}, conversation.TurnDeps{})
	assert.ErrorIs(t, err, conversation.ErrModelRequired)
}

func TestRunTurnModelFailurePropagates(t *testing.T) {
	upstream := errors.New("provider unavailable")
	llm := &stubLLM{err: upstream}

	result, err := conversation.RunTurn(context.Background(), conversation.TurnInput{
		User:      chat.UserContext{ID: "u1"},
		Avatar:    testAvatar(),
		UserInput: "hello",
	}, conversation.TurnDeps{LLM: llm, Now: fixedClock()})

	assert.Nil(t, result)
	// Propagated unmodified, not wrapped or masked.
	assert.Equal(t, upstream, err)
}
