package openai

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/morler/repolens/providers/contracts"
	"github.com/morler/repolens/providers/models"
	goopenai "github.com/sashabaranov/go-openai"
)

const (
	providerName   = "openai"
	defaultBaseURL = "https://api.openai.com/v1"
)

// OpenAIConfig implements the report provider for OpenAI-compatible chat completion APIs.
type OpenAIConfig struct {
	BaseURL    string
	Model      string
	ApiKey     string
	HTTPClient *http.Client

	client *goopenai.Client
}

// NewOpenAIProvider initializes a new OpenAI provider.
func NewOpenAIProvider(config *OpenAIConfig) contracts.IReportProvider {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	clientConfig := goopenai.DefaultConfig(config.ApiKey)
	clientConfig.BaseURL = strings.TrimRight(baseURL, "/")
	if config.HTTPClient != nil {
		clientConfig.HTTPClient = config.HTTPClient
	}

	return &OpenAIConfig{
		BaseURL:    clientConfig.BaseURL,
		Model:      config.Model,
		ApiKey:     config.ApiKey,
		HTTPClient: config.HTTPClient,
		client:     goopenai.NewClientWithConfig(clientConfig),
	}
}

func (openAIProvider *OpenAIConfig) Name() string {
	return providerName
}

func (openAIProvider *OpenAIConfig) Generate(ctx context.Context, prompt string, maxTokens int) (*models.Completion, error) {
	resp, err := openAIProvider.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:     openAIProvider.Model,
		MaxTokens: maxTokens,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return nil, classifyError(err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, &models.ServiceError{Provider: providerName, Message: "response contained no text"}
	}

	return &models.Completion{
		Text:         resp.Choices[0].Message.Content,
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
	}, nil
}

func classifyError(err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return &models.ServiceError{
			Provider:   providerName,
			StatusCode: apiErr.HTTPStatusCode,
			Message:    apiErr.Message,
			Transient:  models.TransientStatus(apiErr.HTTPStatusCode),
			Err:        err,
		}
	}

	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		return &models.ServiceError{
			Provider:   providerName,
			StatusCode: reqErr.HTTPStatusCode,
			Transient:  models.TransientStatus(reqErr.HTTPStatusCode),
			Err:        err,
		}
	}

	return &models.ServiceError{Provider: providerName, Transient: models.IsTransient(err), Err: err}
}
