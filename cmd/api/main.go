package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/roshanis/bandhubol/internal/config"
	"github.com/roshanis/bandhubol/internal/handler"
	chatHandler "github.com/roshanis/bandhubol/internal/handler/chat"
	"github.com/roshanis/bandhubol/internal/model/avatar"
	"github.com/roshanis/bandhubol/internal/service/ai"
	"github.com/roshanis/bandhubol/internal/service/conversation"
	"github.com/roshanis/bandhubol/internal/service/speech"
	"github.com/roshanis/bandhubol/internal/store/memory"
	mongostore "github.com/roshanis/bandhubol/internal/store/mongo"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("no .env file, using system environment only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	avatars := avatar.NewMemoryStore(avatar.Seed())

	llm := newModelClient(ctx, cfg.AI)

	stores, cleanup := newStoreProvider(ctx, cfg.Store)
	defer cleanup()

	var tts *speech.Client
	if cfg.Speech.Enabled {
		tts, err = speech.NewClient(speech.Config{
			APIKey:  cfg.Speech.APIKey,
			BaseURL: cfg.Speech.BaseURL,
			Voices:  avatarVoices(cfg.Speech, avatars.List()),
		}, log.Logger)
		if err != nil {
			log.Warn().Err(err).Msg("failed to initialize speech client, continuing without TTS")
		} else {
			log.Info().Msg("speech client initialized")
		}
	} else {
		log.Info().Msg("ELEVENLABS_API_KEY not set, TTS disabled")
	}

	router := handler.NewRouter(avatars, llm, stores, tts, log.Logger)

	startServer(ctx, cfg.Server, router)
}

// newModelClient selects the configured language model backend. A nil return
// leaves the chat routes reporting unavailable.
func newModelClient(ctx context.Context, cfg config.AIConfig) conversation.LanguageModelClient {
	if !cfg.Enabled() {
		log.Warn().Str("provider", cfg.Provider).Msg("model credentials not configured, chat disabled")
		return nil
	}

	switch cfg.Provider {
	case config.ProviderArk:
		chatModel, err := cfg.NewChatModel(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("failed to initialize ark model, chat disabled")
			return nil
		}
		log.Info().Str("model", cfg.ArkModel).Msg("ark model client initialized")
		return ai.NewArkClient(chatModel)
	default:
		client, err := ai.NewOpenAIClient(ai.OpenAIConfig{
			APIKey:      cfg.OpenAIAPIKey,
			Model:       cfg.OpenAIModel,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
		})
		if err != nil {
			log.Warn().Err(err).Msg("failed to initialize openai client, chat disabled")
			return nil
		}
		log.Info().Str("model", cfg.OpenAIModel).Msg("openai model client initialized")
		return client
	}
}

// newStoreProvider connects MongoDB when configured and falls back to the
// in-memory store otherwise.
func newStoreProvider(ctx context.Context, cfg config.StoreConfig) (chatHandler.StoreProvider, func()) {
	if !cfg.Enabled {
		log.Info().Msg("MONGODB_URI not set, using in-memory message store")
		return memory.NewStore(), func() {}
	}

	client, err := mongostore.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Warn().Err(err).Msg("mongodb unavailable, falling back to in-memory message store")
		return memory.NewStore(), func() {}
	}

	log.Info().Str("database", cfg.Database).Msg("mongodb message store initialized")
	cleanup := func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			log.Warn().Err(err).Msg("mongodb disconnect failed")
		}
	}
	return mongostore.NewStore(client.Database(cfg.Database), log.Logger), cleanup
}

func avatarVoices(cfg config.SpeechConfig, personas []avatar.Persona) map[string]string {
	voices := make(map[string]string, len(personas))
	for _, p := range personas {
		if override, ok := cfg.VoiceOverride(p.ID); ok {
			voices[p.ID] = override
			continue
		}
		if p.VoiceID != "" {
			voices[p.ID] = p.VoiceID
		}
	}
	return voices
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Info().Str("addr", serverCfg.Addr).Msg("BandhuBol backend listening")
	if err := runServer(ctx, srv); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
