package llamacpp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// Client is an implementation of the core.LLMClient interface talking to a
// llama.cpp server's /completion endpoint
type Client struct {
	httpClient  *http.Client
	baseURL     string
	maxTokens   int
	temperature float32
	logger      *zap.Logger
}

// completionRequest is the llama.cpp /completion request body
type completionRequest struct {
	Prompt      string   `json:"prompt"`
	NPredict    int      `json:"n_predict"`
	Temperature float32  `json:"temperature"`
	Stop        []string `json:"stop"`
}

// completionResponse is the llama.cpp response
type completionResponse struct {
	Content string `json:"content"`
}

// NewClient creates a new llama.cpp client
func NewClient(baseURL string, maxTokens int, temperature float32, logger *zap.Logger) *Client {
	return &Client{
		httpClient:  &http.Client{},
		baseURL:     baseURL,
		maxTokens:   maxTokens,
		temperature: temperature,
		logger:      logger,
	}
}

// Generate sends the prompt to the llama.cpp server and returns the raw
// response text
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(completionRequest{
		Prompt:      prompt,
		NPredict:    c.maxTokens,
		Temperature: c.temperature,
		Stop:        []string{"</s>", "\n\n"},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/completion", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call llama.cpp server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("llama.cpp server error: status %d", resp.StatusCode)
	}

	var completion completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", fmt.Errorf("failed to decode llama.cpp response: %w", err)
	}

	c.logger.Debug("llama.cpp generation complete",
		zap.Int("response_size", len(completion.Content)))

	return completion.Content, nil
}

// Ping checks availability via the /health endpoint
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("llama.cpp server is not reachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("llama.cpp server error: status %d", resp.StatusCode)
	}
	return nil
}

// Name identifies the backend
func (c *Client) Name() string {
	return "llamacpp"
}
