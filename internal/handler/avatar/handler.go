package avatar

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/roshanis/bandhubol/internal/model/avatar"
	"github.com/roshanis/bandhubol/pkg/utils"
)

// Handler exposes the avatar registry over HTTP.
type Handler struct {
	avatars avatar.Store
}

// New creates the avatar handler.
func New(avatars avatar.Store) *Handler {
	return &Handler{avatars: avatars}
}

// RegisterRoutes registers the avatar routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/avatars", h.handleListAvatars)
}

func (h *Handler) handleListAvatars(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.avatars.List())
}
