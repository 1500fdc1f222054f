package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestClient_Generate(t *testing.T) {
	var gotReq generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/generate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		json.NewEncoder(w).Encode(generateResponse{Response: `{"passwords":[]}`})
	}))
	defer server.Close()

	client := NewClient(server.URL, "llama3.1", 500, 0.1, zap.NewNop())
	response, err := client.Generate(context.Background(), "analyze this email")
	require.NoError(t, err)
	assert.Equal(t, `{"passwords":[]}`, response)

	assert.Equal(t, "llama3.1", gotReq.Model)
	assert.Equal(t, "analyze this email", gotReq.Prompt)
	assert.False(t, gotReq.Stream)
	assert.Equal(t, 500, gotReq.Options.NumPredict)
	assert.InDelta(t, 0.1, gotReq.Options.Temperature, 0.001)
}

func TestClient_GenerateServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, "llama3.1", 500, 0.1, zap.NewNop())
	_, err := client.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestClient_GenerateUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(server.URL, "llama3.1", 500, 0.1, zap.NewNop())
	_, err := client.Generate(context.Background(), "prompt")
	assert.Error(t, err)
}

func TestClient_Ping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/tags", r.URL.Path)
		w.Write([]byte(`{"models":[]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "llama3.1", 500, 0.1, zap.NewNop())
	assert.NoError(t, client.Ping(context.Background()))
}

func TestClient_PingDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(server.URL, "llama3.1", 500, 0.1, zap.NewNop())
	assert.Error(t, client.Ping(context.Background()))
}

func TestClient_Name(t *testing.T) {
	client := NewClient("http://localhost:11434", "llama3.1", 500, 0.1, zap.NewNop())
	assert.Equal(t, "ollama/llama3.1", client.Name())
}
