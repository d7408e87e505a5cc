package chat_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roshanis/bandhubol/internal/analysis/mood"
	"github.com/roshanis/bandhubol/internal/handler/chat"
	"github.com/roshanis/bandhubol/internal/model/avatar"
	chatmodel "github.com/roshanis/bandhubol/internal/model/chat"
	"github.com/roshanis/bandhubol/internal/service/conversation"
	"github.com/roshanis/bandhubol/internal/store/memory"
)

type stubLLM struct {
	reply     string
	err       error
	gotPrompt []chatmodel.PromptMessage
}

func (s *stubLLM) Chat(_ context.Context, prompt []chatmodel.PromptMessage) (string, error) {
	s.gotPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func newTestServer(t *testing.T, llm conversation.LanguageModelClient, stores chat.StoreProvider) *httptest.Server {
	t.Helper()
	avatars := avatar.NewMemoryStore(avatar.Seed())
	handler := chat.New(llm, stores, avatars, zerolog.Nop())

	r := chi.NewRouter()
	handler.RegisterRoutes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func postTurn(t *testing.T, srv *httptest.Server, req chat.TurnRequest) *http.Response {
	t.Helper()
	body, err := json.Marshal(req)
	require.NoError(t, err)

	resp, err := http.Post(srv.URL+"/chat", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeResult(t *testing.T, resp *http.Response) conversation.TurnResult {
	t.Helper()
	var result conversation.TurnResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return result
}

func TestHandleTurnStateless(t *testing.T) {
	llm := &stubLLM{reply: "Arre, I am here for you."}
	srv := newTestServer(t, llm, nil)

	resp := postTurn(t, srv, chat.TurnRequest{
		Message:  "I feel so lonely today",
		AvatarID: "riya",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	result := decodeResult(t, resp)
	assert.Equal(t, mood.Lonely, result.MoodTag)
	assert.Equal(t, "I feel so lonely today", result.UserMessage.Content)
	assert.Equal(t, "Arre, I am here for you.", result.AssistantMessage.Content)
}

func TestHandleTurnValidation(t *testing.T) {
	llm := &stubLLM{reply: "hello"}
	srv := newTestServer(t, llm, nil)

	cases := []struct {
		name string
		req  chat.TurnRequest
	}{
		{name: "missing message", req: chat.TurnRequest{AvatarID: "riya"}},
		{name: "blank message", req: chat.TurnRequest{Message: "   ", AvatarID: "riya"}},
		{name: "unknown avatar", req: chat.TurnRequest{Message: "hi", AvatarID: "nobody"}},
		{name: "missing avatar", req: chat.TurnRequest{Message: "hi"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := postTurn(t, srv, tc.req)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestHandleTurnInvalidBody(t *testing.T) {
	srv := newTestServer(t, &stubLLM{reply: "hi"}, nil)

	resp, err := http.Post(srv.URL+"/chat", "application/json", bytes.NewReader([]byte("{not json")))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleTurnModelUnavailable(t *testing.T) {
	srv := newTestServer(t, nil, nil)

	resp := postTurn(t, srv, chat.TurnRequest{Message: "hi", AvatarID: "riya"})
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestHandleTurnModelFailure(t *testing.T) {
	llm := &stubLLM{err: errors.New("upstream unavailable")}
	srv := newTestServer(t, llm, nil)

	resp := postTurn(t, srv, chat.TurnRequest{Message: "hi", AvatarID: "riya"})
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestHandleTurnPersistsHistory(t *testing.T) {
	llm := &stubLLM{reply: "I remember."}
	store := memory.NewStore()
	srv := newTestServer(t, llm, store)

	first := postTurn(t, srv, chat.TurnRequest{
		Message:  "my cat is named Chintu",
		AvatarID: "riya",
		UserID:   "user-1",
	})
	require.Equal(t, http.StatusOK, first.StatusCode)

	second := postTurn(t, srv, chat.TurnRequest{
		Message:  "what is my cat named?",
		AvatarID: "riya",
		UserID:   "user-1",
	})
	require.Equal(t, http.StatusOK, second.StatusCode)

	// The second prompt carries both messages of the first turn plus the
	// new user message after the system preamble.
	var contents []string
	for _, m := range llm.gotPrompt {
		if m.Role != chatmodel.PromptSystem {
			contents = append(contents, m.Content)
		}
	}
	require.Len(t, contents, 3)
	assert.Equal(t, "my cat is named Chintu", contents[0])
	assert.Equal(t, "I remember.", contents[1])
	assert.Equal(t, "what is my cat named?", contents[2])
}

func TestHandleTurnSeparateUsersDoNotShareHistory(t *testing.T) {
	llm := &stubLLM{reply: "hello"}
	store := memory.NewStore()
	srv := newTestServer(t, llm, store)

	resp := postTurn(t, srv, chat.TurnRequest{Message: "first", AvatarID: "riya", UserID: "user-a"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = postTurn(t, srv, chat.TurnRequest{Message: "second", AvatarID: "riya", UserID: "user-b"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var nonSystem int
	for _, m := range llm.gotPrompt {
		if m.Role != chatmodel.PromptSystem {
			nonSystem++
		}
	}
	assert.Equal(t, 1, nonSystem)
}
