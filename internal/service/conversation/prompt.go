package conversation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/roshanis/bandhubol/internal/model/avatar"
	"github.com/roshanis/bandhubol/internal/model/chat"
)

const baseSystemPrompt = "You are an empathetic, non-judgmental AI companion called BandhuBol. " +
	"You provide emotional support, gentle reflections, and sensible, ethical relationship guidance. " +
	"You are not a therapist, doctor, or lawyer and must not present yourself as one."

// PromptInput carries everything the builder needs. The builder itself is
// pure: no network, no clock, identical inputs yield identical output.
type PromptInput struct {
	User               chat.UserContext
	Avatar             avatar.Persona
	Messages           []chat.Message
	Language           chat.LanguagePreference
	SafetyInstructions string
	// MaxHistory bounds the history window; nil means DefaultMaxHistory.
	// Zero is honored and yields system messages only.
	MaxHistory *int
}

// BuildPrompt assembles the ordered system and history sequence sent to the
// language model: base identity, persona, language directive, optional safety
// instructions, then the most recent history in chronological order. Mood
// tags and ids are dropped; the model never sees internal metadata.
func BuildPrompt(in PromptInput) []chat.PromptMessage {
	maxHistory := DefaultMaxHistory
	if in.MaxHistory != nil {
		maxHistory = *in.MaxHistory
	}
	if maxHistory < 0 {
		maxHistory = 0
	}

	prompt := make([]chat.PromptMessage, 0, maxHistory+4)

	prompt = append(prompt, chat.PromptMessage{
		Role:    chat.PromptSystem,
		Content: baseSystemPrompt,
	})

	prompt = append(prompt, chat.PromptMessage{
		Role: chat.PromptSystem,
		Content: fmt.Sprintf("You are speaking as the avatar %q. %s Your speaking style is: %s.",
			in.Avatar.Name, in.Avatar.ShortDescription, in.Avatar.SpeakingStyle),
	})

	prompt = append(prompt, chat.PromptMessage{
		Role:    chat.PromptSystem,
		Content: languageDirective(in.Language, in.User.Name),
	})

	if strings.TrimSpace(in.SafetyInstructions) != "" {
		prompt = append(prompt, chat.PromptMessage{
			Role:    chat.PromptSystem,
			Content: in.SafetyInstructions,
		})
	}

	history := append([]chat.Message(nil), in.Messages...)
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].CreatedAt.Before(history[j].CreatedAt)
	})
	if len(history) > maxHistory {
		history = history[len(history)-maxHistory:]
	}

	for _, msg := range history {
		prompt = append(prompt, chat.PromptMessage{
			Role:    chat.PromptRole(msg.Role),
			Content: msg.Content,
		})
	}

	return prompt
}

func languageDirective(language chat.LanguagePreference, userName string) string {
	namePart := ""
	if userName != "" {
		namePart = fmt.Sprintf(" When you address the user, you can use their name %q naturally.", userName)
	}

	switch language {
	case chat.LanguageHindi:
		return "Respond primarily in natural, conversational Hindi, " +
			"using a warm and respectful tone suitable for Indian users." + namePart
	case chat.LanguageHinglish:
		return "Respond in natural Hinglish (a mix of Hindi and English) " +
			"the way close Indian friends talk to each other: casual, kind, and emotionally aware." + namePart
	default:
		return "Respond primarily in natural, conversational English with a warm, emotionally intelligent tone." + namePart
	}
}
