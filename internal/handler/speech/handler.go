package speech

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/roshanis/bandhubol/internal/service/speech"
	"github.com/roshanis/bandhubol/pkg/utils"
)

// Handler exposes text-to-speech over HTTP.
type Handler struct {
	tts *speech.Client
	log zerolog.Logger
}

// New creates the speech handler.
func New(tts *speech.Client, logger zerolog.Logger) *Handler {
	return &Handler{tts: tts, log: logger}
}

// RegisterRoutes registers the speech routes. GET is supported for quick
// manual testing from a browser.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/tts", h.handleSynthesize)
	r.Get("/tts", h.handleSynthesizeQuery)
}

type ttsRequest struct {
	Text     string `json:"text"`
	AvatarID string `json:"avatarId"`
}

func (h *Handler) handleSynthesize(w http.ResponseWriter, r *http.Request) {
	var req ttsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.synthesize(w, r, req)
}

func (h *Handler) handleSynthesizeQuery(w http.ResponseWriter, r *http.Request) {
	req := ttsRequest{
		Text:     r.URL.Query().Get("text"),
		AvatarID: r.URL.Query().Get("avatarId"),
	}
	if req.AvatarID == "" {
		req.AvatarID = "riya"
	}
	h.synthesize(w, r, req)
}

func (h *Handler) synthesize(w http.ResponseWriter, r *http.Request, req ttsRequest) {
	if req.Text == "" {
		utils.RespondError(w, http.StatusBadRequest, "text is required")
		return
	}
	if req.AvatarID == "" {
		utils.RespondError(w, http.StatusBadRequest, "avatarId is required")
		return
	}

	audio, err := h.tts.SpeakAsAvatar(r.Context(), req.AvatarID, req.Text)
	if err != nil {
		h.log.Error().Err(err).Str("avatar", req.AvatarID).Msg("speech synthesis failed")
		utils.RespondError(w, http.StatusBadGateway, "failed to generate speech")
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(audio)))
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(audio); err != nil {
		h.log.Warn().Err(err).Msg("writing audio response failed")
	}
}
