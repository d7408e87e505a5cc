package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	avatarHandler "github.com/roshanis/bandhubol/internal/handler/avatar"
	chatHandler "github.com/roshanis/bandhubol/internal/handler/chat"
	speechHandler "github.com/roshanis/bandhubol/internal/handler/speech"
	"github.com/roshanis/bandhubol/internal/middleware"
	avatarModel "github.com/roshanis/bandhubol/internal/model/avatar"
	"github.com/roshanis/bandhubol/internal/service/conversation"
	speechService "github.com/roshanis/bandhubol/internal/service/speech"
	"github.com/roshanis/bandhubol/pkg/utils"
)

// NewRouter wires HTTP routes to core services. llm, stores, and tts may be
// nil; the affected routes degrade or report unavailable.
func NewRouter(
	avatars avatarModel.Store,
	llm conversation.LanguageModelClient,
	stores chatHandler.StoreProvider,
	tts *speechService.Client,
	logger zerolog.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(api chi.Router) {
		avatarHandler.New(avatars).RegisterRoutes(api)
		chatHandler.New(llm, stores, avatars, logger).RegisterRoutes(api)

		if tts != nil {
			speechHandler.New(tts, logger).RegisterRoutes(api)
		}
	})

	return r
}
