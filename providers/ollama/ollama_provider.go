package ollama

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/morler/repolens/providers/contracts"
	"github.com/morler/repolens/providers/models"
	ollama "github.com/ollama/ollama/api"
)

const (
	providerName   = "ollama"
	defaultBaseURL = "http://localhost:11434"
)

// OllamaConfig implements the report provider for a local Ollama server.
type OllamaConfig struct {
	BaseURL    string
	Model      string
	HTTPClient *http.Client

	client *ollama.Client
}

// NewOllamaProvider initializes a new Ollama provider.
func NewOllamaProvider(config *OllamaConfig) (contracts.IReportProvider, error) {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid ollama base url %q: %w", baseURL, err)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &OllamaConfig{
		BaseURL:    base.String(),
		Model:      config.Model,
		HTTPClient: httpClient,
		client:     ollama.NewClient(base, httpClient),
	}, nil
}

func (ollamaProvider *OllamaConfig) Name() string {
	return providerName
}

func (ollamaProvider *OllamaConfig) Generate(ctx context.Context, prompt string, maxTokens int) (*models.Completion, error) {
	stream := false
	req := &ollama.ChatRequest{
		Model: ollamaProvider.Model,
		Messages: []ollama.Message{
			{Role: "user", Content: prompt},
		},
		Stream: &stream,
		Options: map[string]interface{}{
			"num_predict": maxTokens,
		},
	}

	var content strings.Builder
	var completion models.Completion

	err := ollamaProvider.client.Chat(ctx, req, func(res ollama.ChatResponse) error {
		content.WriteString(res.Message.Content)
		if res.Done {
			completion.InputTokens = res.PromptEvalCount
			completion.OutputTokens = res.EvalCount
		}
		return nil
	})
	if err != nil {
		var statusErr ollama.StatusError
		if errors.As(err, &statusErr) {
			return nil, &models.ServiceError{
				Provider:   providerName,
				StatusCode: statusErr.StatusCode,
				Message:    statusErr.ErrorMessage,
				Transient:  models.TransientStatus(statusErr.StatusCode),
				Err:        err,
			}
		}
		return nil, &models.ServiceError{Provider: providerName, Transient: models.IsTransient(err), Err: err}
	}

	if content.Len() == 0 {
		return nil, &models.ServiceError{Provider: providerName, Message: "response contained no text"}
	}

	completion.Text = content.String()
	return &completion, nil
}
