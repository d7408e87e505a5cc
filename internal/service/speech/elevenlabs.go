// Package speech converts companion replies to audio through ElevenLabs.
package speech

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

const (
	defaultBaseURL = "https://api.elevenlabs.io"
	// Multilingual model for Hindi/Hinglish support.
	defaultModelID = "eleven_multilingual_v2"
)

// Config holds the ElevenLabs client settings. Voices maps avatar ids to
// ElevenLabs voice ids.
type Config struct {
	APIKey  string
	BaseURL string
	Voices  map[string]string
}

// VoiceSettings tunes synthesis per request.
type VoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

// DefaultVoiceSettings mirrors the product's tuned defaults.
func DefaultVoiceSettings() VoiceSettings {
	return VoiceSettings{
		Stability:       0.5,
		SimilarityBoost: 0.75,
		Style:           0.5,
		UseSpeakerBoost: true,
	}
}

// Client is a thin HTTP text-to-speech client.
type Client struct {
	http   *resty.Client
	apiKey string
	voices map[string]string
	log    zerolog.Logger
}

// NewClient creates an ElevenLabs client. The API key is required.
func NewClient(cfg Config, logger zerolog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("elevenlabs api key is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		http:   resty.New().SetBaseURL(baseURL),
		apiKey: cfg.APIKey,
		voices: cfg.Voices,
		log:    logger,
	}, nil
}

// Synthesize converts text to speech with an explicit voice id and returns
// the raw audio bytes (mpeg).
func (c *Client) Synthesize(ctx context.Context, text, voiceID string, settings VoiceSettings) ([]byte, error) {
	if text == "" {
		return nil, errors.New("text is required")
	}
	if voiceID == "" {
		return nil, errors.New("voice id is required")
	}

	body := map[string]any{
		"text":           text,
		"model_id":       defaultModelID,
		"voice_settings": settings,
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("xi-api-key", c.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post("/v1/text-to-speech/" + voiceID)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("elevenlabs returned %s: %s", resp.Status(), resp.String())
	}

	c.log.Debug().Str("voice", voiceID).Int("bytes", len(resp.Body())).Msg("synthesized speech")
	return resp.Body(), nil
}

// SpeakAsAvatar synthesizes with the voice configured for the avatar.
func (c *Client) SpeakAsAvatar(ctx context.Context, avatarID, text string) ([]byte, error) {
	voiceID, ok := c.voices[avatarID]
	if !ok {
		return nil, fmt.Errorf("no voice configured for avatar %q", avatarID)
	}
	return c.Synthesize(ctx, text, voiceID, DefaultVoiceSettings())
}
