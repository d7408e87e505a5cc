package ai

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/roshanis/bandhubol/internal/model/chat"
)

const defaultOpenAIModel = "gpt-4o-mini"

// OpenAIConfig holds the OpenAI chat completion settings.
type OpenAIConfig struct {
	APIKey      string
	Model       string
	MaxTokens   *int
	Temperature *float64
}

// OpenAIClient adapts the OpenAI chat completion API to the conversation
// core's LanguageModelClient contract.
type OpenAIClient struct {
	client      *openai.Client
	model       string
	maxTokens   *int
	temperature *float64
}

// NewOpenAIClient creates an OpenAI-backed model client.
func NewOpenAIClient(cfg OpenAIConfig) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai api key is required")
	}

	model := cfg.Model
	if model == "" {
		model = defaultOpenAIModel
	}

	return &OpenAIClient{
		client:      openai.NewClient(cfg.APIKey),
		model:       model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}, nil
}

// Chat sends the prompt sequence and returns the completion text.
func (c *OpenAIClient) Chat(ctx context.Context, prompt []chat.PromptMessage) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(prompt))
	for _, msg := range prompt {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openAIRole(msg.Role),
			Content: msg.Content,
		})
	}

	req := openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: messages,
	}
	if c.maxTokens != nil {
		req.MaxTokens = *c.maxTokens
	}
	if c.temperature != nil {
		req.Temperature = float32(*c.temperature)
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("create chat completion: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}

func openAIRole(role chat.PromptRole) string {
	switch role {
	case chat.PromptSystem:
		return openai.ChatMessageRoleSystem
	case chat.PromptAssistant:
		return openai.ChatMessageRoleAssistant
	default:
		return openai.ChatMessageRoleUser
	}
}
