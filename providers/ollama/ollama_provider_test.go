package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/morler/repolens/providers/models"
	ollama "github.com/ollama/ollama/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)

		var body ollama.ChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "llama-test", body.Model)
		require.NotNil(t, body.Stream)
		assert.False(t, *body.Stream)
		assert.EqualValues(t, 128, body.Options["num_predict"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"llama-test","message":{"role":"assistant","content":"# Report"},"done":true,"prompt_eval_count":9,"eval_count":4}`))
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(&OllamaConfig{BaseURL: server.URL, Model: "llama-test"})
	require.NoError(t, err)

	completion, err := provider.Generate(context.Background(), "describe", 128)
	require.NoError(t, err)

	assert.Equal(t, "# Report", completion.Text)
	assert.Equal(t, 9, completion.InputTokens)
	assert.Equal(t, 4, completion.OutputTokens)
}

func TestGenerate_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"model 'llama-test' not found"}`))
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(&OllamaConfig{BaseURL: server.URL, Model: "llama-test"})
	require.NoError(t, err)

	_, err = provider.Generate(context.Background(), "describe", 128)

	var serviceErr *models.ServiceError
	require.ErrorAs(t, err, &serviceErr)
	assert.Equal(t, http.StatusNotFound, serviceErr.StatusCode)
	assert.Contains(t, serviceErr.Message, "not found")
	assert.False(t, models.IsTransient(err))
}

func TestNewOllamaProvider_InvalidURL(t *testing.T) {
	_, err := NewOllamaProvider(&OllamaConfig{BaseURL: "http://[::1", Model: "m"})
	assert.Error(t, err)
}
