// Command ttstester exercises the ElevenLabs client from the terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/roshanis/bandhubol/internal/config"
	"github.com/roshanis/bandhubol/internal/model/avatar"
	"github.com/roshanis/bandhubol/internal/service/speech"
)

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("no .env file, using system environment only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	if !cfg.Speech.Enabled {
		log.Fatal().Msg("speech is not enabled, set ELEVENLABS_API_KEY first")
	}

	text := flag.String("text", "", "text to synthesize")
	avatarID := flag.String("avatar", "riya", "avatar id whose voice to use")
	outputPath := flag.String("out", "", "output audio file path (default <avatar>.mp3)")
	timeout := flag.Duration("timeout", 45*time.Second, "request timeout")
	flag.Parse()

	if *text == "" {
		flag.Usage()
		log.Fatal().Msg("provide text with -text")
	}

	voices := make(map[string]string)
	for _, p := range avatar.Seed() {
		if override, ok := cfg.Speech.VoiceOverride(p.ID); ok {
			voices[p.ID] = override
		} else {
			voices[p.ID] = p.VoiceID
		}
	}

	client, err := speech.NewClient(speech.Config{
		APIKey:  cfg.Speech.APIKey,
		BaseURL: cfg.Speech.BaseURL,
		Voices:  voices,
	}, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create speech client")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	audio, err := client.SpeakAsAvatar(ctx, *avatarID, *text)
	if err != nil {
		log.Fatal().Err(err).Msg("synthesis failed")
	}

	out := *outputPath
	if out == "" {
		out = fmt.Sprintf("%s.mp3", *avatarID)
	}
	if err := os.WriteFile(out, audio, 0o644); err != nil {
		log.Fatal().Err(err).Msg("failed to write audio file")
	}

	log.Info().Str("file", out).Int("bytes", len(audio)).Msg("audio written")
}
