package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	anthropic_models "github.com/morler/repolens/providers/anthropic/models"
	"github.com/morler/repolens/providers/contracts"
	"github.com/morler/repolens/providers/models"
)

const (
	providerName     = "anthropic"
	defaultBaseURL   = "https://api.anthropic.com"
	anthropicVersion = "2023-06-01"
)

// AnthropicConfig implements the report provider for the Anthropic Messages API.
type AnthropicConfig struct {
	BaseURL    string
	Model      string
	ApiKey     string
	HTTPClient *http.Client
}

// NewAnthropicProvider initializes a new Anthropic provider.
func NewAnthropicProvider(config *AnthropicConfig) contracts.IReportProvider {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &AnthropicConfig{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Model:      config.Model,
		ApiKey:     config.ApiKey,
		HTTPClient: httpClient,
	}
}

func (anthropicProvider *AnthropicConfig) Name() string {
	return providerName
}

func (anthropicProvider *AnthropicConfig) Generate(ctx context.Context, prompt string, maxTokens int) (*models.Completion, error) {
	reqBody := anthropic_models.AnthropicMessagesRequest{
		Model:     anthropicProvider.Model,
		MaxTokens: maxTokens,
		Messages: []anthropic_models.Message{
			{Role: "user", Content: prompt},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("error marshalling request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, anthropicProvider.BaseURL+"/v1/messages", bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", anthropicProvider.ApiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := anthropicProvider.HTTPClient.Do(req)
	if err != nil {
		return nil, &models.ServiceError{Provider: providerName, Message: "error sending request", Transient: true, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &models.ServiceError{Provider: providerName, StatusCode: resp.StatusCode, Message: "error reading response", Transient: true, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		message := strings.TrimSpace(string(body))
		var apiError models.AIError
		if err := json.Unmarshal(body, &apiError); err == nil && apiError.Error.Message != "" {
			message = apiError.Error.Message
		}
		return nil, &models.ServiceError{
			Provider:   providerName,
			StatusCode: resp.StatusCode,
			Message:    message,
			Transient:  models.TransientStatus(resp.StatusCode),
		}
	}

	var response anthropic_models.AnthropicMessagesResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, &models.ServiceError{Provider: providerName, StatusCode: resp.StatusCode, Message: "malformed response", Err: err}
	}

	var text strings.Builder
	for _, block := range response.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return nil, &models.ServiceError{Provider: providerName, StatusCode: resp.StatusCode, Message: "response contained no text"}
	}

	return &models.Completion{
		Text:         text.String(),
		InputTokens:  response.Usage.InputTokens,
		OutputTokens: response.Usage.OutputTokens,
	}, nil
}
