package chat

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/roshanis/bandhubol/internal/model/avatar"
	chatmodel "github.com/roshanis/bandhubol/internal/model/chat"
	"github.com/roshanis/bandhubol/internal/service/conversation"
	"github.com/roshanis/bandhubol/pkg/utils"
)

const anonymousUserID = "anonymous-user"

// StoreProvider hands out a per-conversation persistence binding.
type StoreProvider interface {
	Conversation(userID, avatarID string) conversation.MessagePersistence
}

// Handler serves conversation turns over HTTP and websocket.
type Handler struct {
	llm     conversation.LanguageModelClient
	stores  StoreProvider
	avatars avatar.Store
	log     zerolog.Logger
}

// New creates the chat handler. A nil store provider selects stateless mode.
func New(llm conversation.LanguageModelClient, stores StoreProvider, avatars avatar.Store, logger zerolog.Logger) *Handler {
	return &Handler{
		llm:     llm,
		stores:  stores,
		avatars: avatars,
		log:     logger,
	}
}

// RegisterRoutes registers the chat routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleTurn)
	r.Get("/chat/ws", h.handleWebsocket)
}

// TurnRequest is the wire form of one conversation turn request.
type TurnRequest struct {
	Message            string                       `json:"message"`
	AvatarID           string                       `json:"avatarId"`
	UserID             string                       `json:"userId,omitempty"`
	UserName           string                       `json:"userName,omitempty"`
	LanguagePreference chatmodel.LanguagePreference `json:"languagePreference,omitempty"`
}

func (h *Handler) handleTurn(w http.ResponseWriter, r *http.Request) {
	var req TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, status, errMsg := h.runTurn(r, req)
	if errMsg != "" {
		utils.RespondError(w, status, errMsg)
		return
	}
	utils.RespondJSON(w, status, result)
}

// runTurn validates the request and executes the turn, persisted when a
// store is configured. It returns the result or an error message plus the
// HTTP status to surface.
func (h *Handler) runTurn(r *http.Request, req TurnRequest) (*conversation.TurnResult, int, string) {
	if h.llm == nil {
		return nil, http.StatusServiceUnavailable, "language model unavailable"
	}
	if strings.TrimSpace(req.Message) == "" {
		return nil, http.StatusBadRequest, "message is required"
	}

	persona, ok := h.avatars.FindByID(req.AvatarID)
	if !ok {
		return nil, http.StatusBadRequest, "valid avatarId is required"
	}

	userID := req.UserID
	if userID == "" {
		userID = anonymousUserID
	}
	user := chatmodel.UserContext{
		ID:                userID,
		Name:              req.UserName,
		PreferredLanguage: req.LanguagePreference,
	}

	ctx := r.Context()

	if h.stores != nil {
		result, err := conversation.RunStoredTurn(ctx, conversation.StoredTurnInput{
			User:      user,
			Avatar:    persona,
			UserInput: req.Message,
			Language:  req.LanguagePreference,
		}, conversation.StoredTurnDeps{
			LLM:   h.llm,
			Store: h.stores.Conversation(userID, persona.ID),
		})
		if err != nil {
			if result != nil {
				// The model replied but the save failed. Degrade to a
				// non-persisted response rather than losing the turn.
				h.log.Error().Err(err).Str("user", userID).Str("avatar", persona.ID).
					Msg("persisting turn failed, returning unsaved result")
				return result, http.StatusOK, ""
			}
			return nil, h.turnErrorStatus(err), "failed to process message"
		}
		return result, http.StatusOK, ""
	}

	result, err := conversation.RunTurn(ctx, conversation.TurnInput{
		User:      user,
		Avatar:    persona,
		UserInput: req.Message,
		Language:  req.LanguagePreference,
	}, conversation.TurnDeps{LLM: h.llm})
	if err != nil {
		return nil, h.turnErrorStatus(err), "failed to process message"
	}
	return result, http.StatusOK, ""
}

func (h *Handler) turnErrorStatus(err error) int {
	h.log.Error().Err(err).Msg("conversation turn failed")
	if errors.Is(err, conversation.ErrEmptyInput) || errors.Is(err, conversation.ErrAvatarRequired) {
		return http.StatusBadRequest
	}
	return http.StatusBadGateway
}
