package chat

import "github.com/roshanis/bandhubol/internal/analysis/mood"

// UserContext describes the person on the other side of the conversation.
// Owned by the caller and immutable for the duration of a turn.
type UserContext struct {
	ID                string             `json:"id"`
	Name              string             `json:"name,omitempty"`
	PreferredLanguage LanguagePreference `json:"preferredLanguage,omitempty"`
	LastMood          mood.Tag           `json:"lastMood,omitempty"`
}
