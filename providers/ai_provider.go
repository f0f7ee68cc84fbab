package providers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/morler/repolens/providers/anthropic"
	"github.com/morler/repolens/providers/contracts"
	"github.com/morler/repolens/providers/ollama"
	"github.com/morler/repolens/providers/openai"
)

var ErrUnknownProvider = errors.New("unknown AI provider")

// AIProviderConfig selects and tunes the generation service.
type AIProviderConfig struct {
	Provider       string        `mapstructure:"provider"`
	BaseURL        string        `mapstructure:"base_url"`
	Model          string        `mapstructure:"model"`
	ApiKey         string        `mapstructure:"api_key"`
	MaxTokens      int           `mapstructure:"max_tokens"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	Retries        int           `mapstructure:"retries"`
	RetryDelay     time.Duration `mapstructure:"retry_delay"`
}

// RequiresApiKey reports whether the named provider needs a credential.
func RequiresApiKey(provider string) bool {
	return strings.ToLower(provider) != "ollama"
}

// IsKnownProvider reports whether NewProvider can build the named provider.
func IsKnownProvider(provider string) bool {
	switch strings.ToLower(provider) {
	case "anthropic", "openai", "ollama":
		return true
	}
	return false
}

// NewProvider builds the provider named in config.
func NewProvider(config *AIProviderConfig) (contracts.IReportProvider, error) {
	httpClient := &http.Client{}

	switch strings.ToLower(config.Provider) {
	case "anthropic":
		return anthropic.NewAnthropicProvider(&anthropic.AnthropicConfig{
			BaseURL:    config.BaseURL,
			Model:      config.Model,
			ApiKey:     config.ApiKey,
			HTTPClient: httpClient,
		}), nil
	case "openai":
		return openai.NewOpenAIProvider(&openai.OpenAIConfig{
			BaseURL:    config.BaseURL,
			Model:      config.Model,
			ApiKey:     config.ApiKey,
			HTTPClient: httpClient,
		}), nil
	case "ollama":
		return ollama.NewOllamaProvider(&ollama.OllamaConfig{
			BaseURL:    config.BaseURL,
			Model:      config.Model,
			HTTPClient: httpClient,
		})
	default:
		return nil, fmt.Errorf("%w: %q (expected 'anthropic', 'openai' or 'ollama')", ErrUnknownProvider, config.Provider)
	}
}
