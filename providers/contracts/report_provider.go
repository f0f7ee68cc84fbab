package contracts

import (
	"context"

	"github.com/morler/repolens/providers/models"
)

// IReportProvider turns a prompt into generated text. Implementations do not retry
// or fall back; callers decide what a failure means.
type IReportProvider interface {
	Name() string
	Generate(ctx context.Context, prompt string, maxTokens int) (*models.Completion, error)
}
