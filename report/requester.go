package report

import (
	"context"
	"fmt"
	"time"

	"github.com/morler/repolens/providers"
	"github.com/morler/repolens/providers/contracts"
	provider_models "github.com/morler/repolens/providers/models"
	"github.com/morler/repolens/scanner/models"
	token_contracts "github.com/morler/repolens/token_management/contracts"
	"go.uber.org/zap"
)

// Requester turns snapshots into report text through a provider, degrading to a
// local fallback report when the provider fails.
type Requester struct {
	provider contracts.IReportProvider
	config   providers.AIProviderConfig
	options  Options
	tokens   token_contracts.ITokenManagement
	logger   *zap.Logger
}

// NewRequester creates a Requester. tokens and logger may be nil.
func NewRequester(provider contracts.IReportProvider, config providers.AIProviderConfig, options Options, tokens token_contracts.ITokenManagement, logger *zap.Logger) *Requester {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Requester{
		provider: provider,
		config:   config,
		options:  options,
		tokens:   tokens,
		logger:   logger.Named("report"),
	}
}

// RequestReport returns the provider's report, or the fallback report when every attempt
// fails. The returned error is non-nil only when ctx itself is done.
func (r *Requester) RequestReport(ctx context.Context, snapshot *models.ProjectSnapshot) (string, error) {
	prompt := BuildPrompt(snapshot, r.options)
	attempts := r.config.Retries + 1
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; ; attempt++ {
		completion, err := r.generate(ctx, prompt)
		if err == nil {
			if r.tokens != nil {
				r.tokens.UsedTokens(completion.InputTokens, completion.OutputTokens)
			}
			return completion.Text, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}

		lastErr = err
		if attempt >= attempts || !provider_models.IsTransient(err) {
			break
		}

		r.logger.Warn("report request failed, retrying",
			zap.String("provider", r.provider.Name()),
			zap.Int("attempt", attempt),
			zap.Error(err))

		if err := sleepContext(ctx, r.config.RetryDelay); err != nil {
			return "", err
		}
	}

	r.logger.Warn("report request failed, using fallback report",
		zap.String("provider", r.provider.Name()),
		zap.Error(lastErr))

	return fmt.Sprintf("❌ API request failed: %v\n\nProviding a basic analysis instead.\n\n%s", lastErr, Fallback(snapshot)), nil
}

func (r *Requester) generate(ctx context.Context, prompt string) (*provider_models.Completion, error) {
	if r.config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.RequestTimeout)
		defer cancel()
	}
	return r.provider.Generate(ctx, prompt, r.config.MaxTokens)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
