package conversation

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/roshanis/bandhubol/internal/analysis/mood"
	"github.com/roshanis/bandhubol/internal/model/avatar"
	"github.com/roshanis/bandhubol/internal/model/chat"
)

// TurnInput is the caller-owned context for one conversation turn.
type TurnInput struct {
	User               chat.UserContext
	Avatar             avatar.Persona
	ExistingMessages   []chat.Message
	UserInput          string
	Language           chat.LanguagePreference
	SafetyInstructions string
	MaxHistory         *int
}

// TurnResult pairs the two produced messages with the inferred mood tag.
// Both messages share one creation timestamp; the tag is attached only to
// the user message.
type TurnResult struct {
	UserMessage      chat.Message `json:"userMessage"`
	AssistantMessage chat.Message `json:"assistantMessage"`
	MoodTag          mood.Tag     `json:"moodTag"`
}

// TurnDeps injects the turn collaborators. Now defaults to wall clock.
type TurnDeps struct {
	LLM LanguageModelClient
	Now Clock
}

// RunTurn executes one user-input to assistant-response cycle: classify the
// input, build the prompt over history plus the new user message, invoke the
// model, and assemble the result. Single pass, no retries, no shared state.
// A model failure propagates unmodified and no message is synthesized.
func RunTurn(ctx context.Context, in TurnInput, deps TurnDeps) (*TurnResult, error) {
	if strings.TrimSpace(in.UserInput) == "" {
		return nil, ErrEmptyInput
	}
	if in.Avatar.ID == "" {
		return nil, ErrAvatarRequired
	}
	if deps.LLM == nil {
		return nil, ErrModelRequired
	}

	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}
	createdAt := now().UTC()

	tag := mood.InferMoodTag(in.UserInput)

	userMessage := chat.Message{
		ID:        uuid.NewString(),
		Role:      chat.RoleUser,
		Content:   in.UserInput,
		MoodTag:   tag,
		CreatedAt: createdAt,
	}

	all := make([]chat.Message, 0, len(in.ExistingMessages)+1)
	all = append(all, in.ExistingMessages...)
	all = append(all, userMessage)

	prompt := BuildPrompt(PromptInput{
		User:               in.User,
		Avatar:             in.Avatar,
		Messages:           all,
		Language:           in.Language,
		SafetyInstructions: in.SafetyInstructions,
		MaxHistory:         in.MaxHistory,
	})

	reply, err := deps.LLM.Chat(ctx, prompt)
	if err != nil {
		return nil, err
	}

	assistantMessage := chat.Message{
		ID:        uuid.NewString(),
		Role:      chat.RoleAssistant,
		Content:   reply,
		CreatedAt: createdAt,
	}

	return &TurnResult{
		UserMessage:      userMessage,
		AssistantMessage: assistantMessage,
		MoodTag:          tag,
	}, nil
}
