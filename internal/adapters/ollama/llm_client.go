package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// Client is an implementation of the core.LLMClient interface talking to an
// Ollama server's /api/generate endpoint
type Client struct {
	httpClient  *http.Client
	baseURL     string
	model       string
	maxTokens   int
	temperature float32
	logger      *zap.Logger
}

// generateRequest is the Ollama /api/generate request body
type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	NumPredict  int     `json:"num_predict"`
	Temperature float32 `json:"temperature"`
}

// generateResponse is the non-streaming Ollama response
type generateResponse struct {
	Response string `json:"response"`
}

// NewClient creates a new Ollama client
func NewClient(baseURL, model string, maxTokens int, temperature float32, logger *zap.Logger) *Client {
	return &Client{
		httpClient:  &http.Client{},
		baseURL:     baseURL,
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		logger:      logger,
	}
}

// Generate sends the prompt to Ollama and returns the raw response text
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
		Options: generateOptions{
			NumPredict:  c.maxTokens,
			Temperature: c.temperature,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call Ollama: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama API error: status %d", resp.StatusCode)
	}

	var generated generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&generated); err != nil {
		return "", fmt.Errorf("failed to decode Ollama response: %w", err)
	}

	c.logger.Debug("Ollama generation complete",
		zap.String("model", c.model),
		zap.Int("response_size", len(generated.Response)))

	return generated.Response, nil
}

// Ping checks availability via the /api/tags endpoint
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ollama is not reachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama API error: status %d", resp.StatusCode)
	}
	return nil
}

// Name identifies the backend and model
func (c *Client) Name() string {
	return "ollama/" + c.model
}
