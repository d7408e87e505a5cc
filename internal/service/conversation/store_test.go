package conversation_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roshanis/bandhubol/internal/analysis/mood"
	"github.com/roshanis/bandhubol/internal/model/chat"
	"github.com/roshanis/bandhubol/internal/service/conversation"
)

type fakeStore struct {
	history []chat.Message

	fetchErr error
	saveErr  error

	fetchedUserID   string
	fetchedAvatarID string
	fetchedLimit    int

	savedUser      *chat.Message
	savedAssistant *chat.Message
	savedTag       mood.Tag
}

func (f *fakeStore) FetchRecentMessages(_ context.Context, userID, avatarID string, limit int) ([]chat.Message, error) {
	f.fetchedUserID = userID
	f.fetchedAvatarID = avatarID
	f.fetchedLimit = limit
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.history, nil
}

func (f *fakeStore) SaveMessagePair(_ context.Context, userMessage, assistantMessage chat.Message, tag mood.Tag) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.savedUser = &userMessage
	f.savedAssistant = &assistantMessage
	f.savedTag = tag
	return nil
}

func storedInput() conversation.StoredTurnInput {
	return conversation.StoredTurnInput{
		User:      chat.UserContext{ID: "user-7", PreferredLanguage: chat.LanguageHindi},
		Avatar:    testAvatar(),
		UserInput: "hello again",
	}
}

func TestRunStoredTurnFetchesWithDefaults(t *testing.T) {
	store := &fakeStore{}
	llm := &stubLLM{reply: "ok"}

	_, err := conversation.RunStoredTurn(context.Background(), storedInput(),
		conversation.StoredTurnDeps{LLM: llm, Store: store, Now: fixedClock()})

	require.NoError(t, err)
	assert.Equal(t, "user-7", store.fetchedUserID)
	assert.Equal(t, "riya", store.fetchedAvatarID)
	assert.Equal(t, conversation.DefaultMaxHistory, store.fetchedLimit)
}

func TestRunStoredTurnFetchLimitPrecedence(t *testing.T) {
	store := &fakeStore{}
	llm := &stubLLM{reply: "ok"}

	in := storedInput()
	in.MaxHistory = intPtr(5)
	_, err := conversation.RunStoredTurn(context.Background(), in,
		conversation.StoredTurnDeps{LLM: llm, Store: store, Now: fixedClock()})
	require.NoError(t, err)
	assert.Equal(t, 5, store.fetchedLimit)

	in.FetchLimit = intPtr(7)
	_, err = conversation.RunStoredTurn(context.Background(), in,
		conversation.StoredTurnDeps{LLM: llm, Store: store, Now: fixedClock()})
	require.NoError(t, err)
	assert.Equal(t, 7, store.fetchedLimit)
}

func TestRunStoredTurnSavesExactTurnOutput(t *testing.T) {
	store := &fakeStore{history: []chat.Message{{
		ID:        "old",
		Role:      chat.RoleUser,
		Content:   "earlier",
		CreatedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}}}
	llm := &stubLLM{reply: "nice to hear from you"}

	result, err := conversation.RunStoredTurn(context.Background(), storedInput(),
		conversation.StoredTurnDeps{LLM: llm, Store: store, Now: fixedClock()})

	require.NoError(t, err)
	require.NotNil(t, store.savedUser)
	assert.Equal(t, result.UserMessage, *store.savedUser)
	assert.Equal(t, result.AssistantMessage, *store.savedAssistant)
	assert.Equal(t, result.MoodTag, store.savedTag)

	// Fetched history flows into the prompt ahead of the new message.
	require.Len(t, llm.gotPrompt, 5)
	assert.Equal(t, "earlier", llm.gotPrompt[3].Content)
	assert.Equal(t, "hello again", llm.gotPrompt[4].Content)
}

func TestRunStoredTurnLanguagePrecedence(t *testing.T) {
	store := &fakeStore{}
	llm := &stubLLM{reply: "ok"}

	// Explicit caller preference wins over the user's stored preference.
	in := storedInput()
	in.Language = chat.LanguageEnglish
	_, err := conversation.RunStoredTurn(context.Background(), in,
		conversation.StoredTurnDeps{LLM: llm, Store: store, Now: fixedClock()})
	require.NoError(t, err)
	assert.Contains(t, strings.ToLower(llm.gotPrompt[2].Content), "english")

	// No caller preference: the user's stored preference applies.
	in.Language = ""
	_, err = conversation.RunStoredTurn(context.Background(), in,
		conversation.StoredTurnDeps{LLM: llm, Store: store, Now: fixedClock()})
	require.NoError(t, err)
	assert.Contains(t, strings.ToLower(llm.gotPrompt[2].Content), "hindi")

	// Neither set: the avatar default applies.
	in.User.PreferredLanguage = ""
	_, err = conversation.RunStoredTurn(context.Background(), in,
		conversation.StoredTurnDeps{LLM: llm, Store: store, Now: fixedClock()})
	require.NoError(t, err)
	assert.Contains(t, strings.ToLower(llm.gotPrompt[2].Content), "hinglish")
}

func TestRunStoredTurnFetchFailurePropagates(t *testing.T) {
	store := &fakeStore{fetchErr: errors.New("read timeout")}

	result, err := conversation.RunStoredTurn(context.Background(), storedInput(),
		conversation.StoredTurnDeps{LLM: &stubLLM{reply: "ok"}, Store: store, Now: fixedClock()})

	assert.Nil(t, result)
	assert.ErrorContains(t, err, "fetch recent messages")
}

func TestRunStoredTurnSaveFailureKeepsResult(t *testing.T) {
	store := &fakeStore{saveErr: errors.New("write refused")}

	result, err := conversation.RunStoredTurn(context.Background(), storedInput(),
		conversation.StoredTurnDeps{LLM: &stubLLM{reply: "still here"}, Store: store, Now: fixedClock()})

	require.Error(t, err)
	assert.ErrorContains(t, err, "save message pair")
	// The computed turn is handed back so the caller can decide what to do.
	require.NotNil(t, result)
	assert.Equal(t, "still here", result.AssistantMessage.Content)
}

func TestRunStoredTurnRequiresStore(t *testing.T) {
	_, err := conversation.RunStoredTurn(context.Background(), storedInput(),
		conversation.StoredTurnDeps{LLM: &stubLLM{reply: "ok"}})
	assert.ErrorIs(t, err, conversation.ErrStoreRequired)
}
