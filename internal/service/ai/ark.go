package ai

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/roshanis/bandhubol/internal/model/chat"
)

// ArkClient runs prompts through a Volcengine Ark chat model. The model
// instance comes from config.AIConfig.NewChatModel.
type ArkClient struct {
	chatModel model.ChatModel
}

// NewArkClient wraps an eino chat model as a LanguageModelClient.
func NewArkClient(chatModel model.ChatModel) *ArkClient {
	return &ArkClient{chatModel: chatModel}
}

// Chat sends the prompt sequence and returns the generated text.
func (c *ArkClient) Chat(ctx context.Context, prompt []chat.PromptMessage) (string, error) {
	messages := make([]*schema.Message, 0, len(prompt))
	for _, msg := range prompt {
		switch msg.Role {
		case chat.PromptSystem:
			messages = append(messages, schema.SystemMessage(msg.Content))
		case chat.PromptAssistant:
			messages = append(messages, schema.AssistantMessage(msg.Content, nil))
		default:
			messages = append(messages, schema.UserMessage(msg.Content))
		}
	}

	out, err := c.chatModel.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("generate ark completion: %w", err)
	}

	if out == nil || out.Content == "" {
		return "", ErrEmptyCompletion
	}
	return out.Content, nil
}
