package chat

import (
	"time"

	"github.com/roshanis/bandhubol/internal/analysis/mood"
)

// Role identifies who authored a stored conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// PromptRole covers the roles accepted by language model providers.
type PromptRole string

const (
	PromptSystem    PromptRole = "system"
	PromptUser      PromptRole = "user"
	PromptAssistant PromptRole = "assistant"
)

// LanguagePreference selects the language the companion replies in.
type LanguagePreference string

const (
	LanguageEnglish  LanguagePreference = "en"
	LanguageHindi    LanguagePreference = "hi"
	LanguageHinglish LanguagePreference = "hinglish"
)

// Message persists one side of a conversation turn for history and audit.
// The mood tag is set only on user messages.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	MoodTag   mood.Tag  `json:"moodTag,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// PromptMessage is the flattened, persona-free representation sent to the
// language model. Derived and transient, never persisted.
type PromptMessage struct {
	Role    PromptRole `json:"role"`
	Content string     `json:"content"`
}
