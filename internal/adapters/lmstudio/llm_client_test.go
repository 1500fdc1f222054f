package lmstudio

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chatServer(t *testing.T, handler func(openai.ChatCompletionRequest) openai.ChatCompletionResponse) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)

		var req openai.ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(handler(req))
	}))
}

func TestClient_Generate(t *testing.T) {
	var gotReq openai.ChatCompletionRequest
	server := chatServer(t, func(req openai.ChatCompletionRequest) openai.ChatCompletionResponse {
		gotReq = req
		return openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Content: `{"passwords":[]}`}},
			},
		}
	})
	defer server.Close()

	client := NewClient(server.URL, "llama-3.1-8b-instruct", 500, 0.1, zap.NewNop())
	response, err := client.Generate(context.Background(), "analyze this email")
	require.NoError(t, err)
	assert.Equal(t, `{"passwords":[]}`, response)

	assert.Equal(t, "llama-3.1-8b-instruct", gotReq.Model)
	require.Len(t, gotReq.Messages, 1)
	assert.Equal(t, openai.ChatMessageRoleUser, gotReq.Messages[0].Role)
	assert.Equal(t, "analyze this email", gotReq.Messages[0].Content)
	assert.Equal(t, 500, gotReq.MaxTokens)
}

func TestClient_GenerateEmptyChoices(t *testing.T) {
	server := chatServer(t, func(openai.ChatCompletionRequest) openai.ChatCompletionResponse {
		return openai.ChatCompletionResponse{}
	})
	defer server.Close()

	client := NewClient(server.URL, "llama-3.1-8b-instruct", 500, 0.1, zap.NewNop())
	_, err := client.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty response")
}

func TestClient_GenerateUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(server.URL, "llama-3.1-8b-instruct", 500, 0.1, zap.NewNop())
	_, err := client.Generate(context.Background(), "prompt")
	assert.Error(t, err)
}

func TestClient_Ping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/models", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"object":"list","data":[]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "llama-3.1-8b-instruct", 500, 0.1, zap.NewNop())
	assert.NoError(t, client.Ping(context.Background()))
}

func TestClient_Name(t *testing.T) {
	client := NewClient("http://localhost:1234/v1", "llama-3.1-8b-instruct", 500, 0.1, zap.NewNop())
	assert.Equal(t, "lmstudio/llama-3.1-8b-instruct", client.Name())
}
