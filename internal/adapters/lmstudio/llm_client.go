package lmstudio

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Client is an implementation of the core.LLMClient interface talking to an
// LM Studio server through its OpenAI-compatible chat completion API
type Client struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
	logger      *zap.Logger
}

// NewClient creates a new LM Studio client. LM Studio ignores the API key but
// the OpenAI client requires one to be set
func NewClient(baseURL, model string, maxTokens int, temperature float32, logger *zap.Logger) *Client {
	cfg := openai.DefaultConfig("lm-studio")
	cfg.BaseURL = baseURL

	return &Client{
		client:      openai.NewClientWithConfig(cfg),
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		logger:      logger,
	}
}

// Generate sends the prompt as a single-turn chat completion and returns the
// raw response text
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion with LM Studio: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from LM Studio")
	}

	content := resp.Choices[0].Message.Content
	c.logger.Debug("LM Studio generation complete",
		zap.String("model", c.model),
		zap.Int("response_size", len(content)))

	return content, nil
}

// Ping checks availability by listing the loaded models
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.client.ListModels(ctx); err != nil {
		return fmt.Errorf("lm studio is not reachable: %w", err)
	}
	return nil
}

// Name identifies the backend and model
func (c *Client) Name() string {
	return "lmstudio/" + c.model
}
