package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/morler/repolens/providers"
	provider_models "github.com/morler/repolens/providers/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubProvider returns the queued results in order and records every prompt.
type stubProvider struct {
	results   []stubResult
	prompts   []string
	maxTokens []int
}

type stubResult struct {
	completion *provider_models.Completion
	err        error
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Generate(ctx context.Context, prompt string, maxTokens int) (*provider_models.Completion, error) {
	p.prompts = append(p.prompts, prompt)
	p.maxTokens = append(p.maxTokens, maxTokens)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	result := p.results[0]
	if len(p.results) > 1 {
		p.results = p.results[1:]
	}
	return result.completion, result.err
}

type recordingTokens struct {
	input, output int
}

func (r *recordingTokens) UsedTokens(inputToken int, outputToken int) {
	r.input += inputToken
	r.output += outputToken
}

func (r *recordingTokens) GetCurrentTokenUsage() (int, int, int) {
	return r.input + r.output, r.input, r.output
}

func (r *recordingTokens) DisplayTokens(string, string) {}

func testConfig(retries int) providers.AIProviderConfig {
	return providers.AIProviderConfig{
		Provider:       "stub",
		Model:          "stub-model",
		MaxTokens:      4000,
		RequestTimeout: time.Second,
		Retries:        retries,
	}
}

var errTransient = &provider_models.ServiceError{Provider: "stub", StatusCode: 503, Message: "unavailable", Transient: true}

func TestRequestReport_Success(t *testing.T) {
	provider := &stubProvider{results: []stubResult{
		{completion: &provider_models.Completion{Text: "# Report", InputTokens: 120, OutputTokens: 30}},
	}}
	tokens := &recordingTokens{}
	snapshot := sampleSnapshot()

	report, err := NewRequester(provider, testConfig(1), DefaultOptions(), tokens, nil).RequestReport(context.Background(), snapshot)
	require.NoError(t, err)

	assert.Equal(t, "# Report", report)
	require.Len(t, provider.prompts, 1)
	assert.Equal(t, BuildPrompt(snapshot, DefaultOptions()), provider.prompts[0])
	assert.Equal(t, []int{4000}, provider.maxTokens)

	total, input, output := tokens.GetCurrentTokenUsage()
	assert.Equal(t, 150, total)
	assert.Equal(t, 120, input)
	assert.Equal(t, 30, output)
}

func TestRequestReport_FallbackOnFailure(t *testing.T) {
	provider := &stubProvider{results: []stubResult{
		{err: &provider_models.ServiceError{Provider: "stub", Message: "connection refused", Transient: true}},
	}}
	snapshot := sampleSnapshot()

	report, err := NewRequester(provider, testConfig(0), DefaultOptions(), nil, nil).RequestReport(context.Background(), snapshot)
	require.NoError(t, err)

	assert.Contains(t, report, "API request failed")
	assert.Contains(t, report, "connection refused")
	assert.Contains(t, report, Fallback(snapshot))
	assert.Len(t, provider.prompts, 1)
}

func TestRequestReport_RetriesTransientFailure(t *testing.T) {
	provider := &stubProvider{results: []stubResult{
		{err: errTransient},
		{completion: &provider_models.Completion{Text: "second time lucky"}},
	}}

	report, err := NewRequester(provider, testConfig(1), DefaultOptions(), nil, nil).RequestReport(context.Background(), sampleSnapshot())
	require.NoError(t, err)

	assert.Equal(t, "second time lucky", report)
	assert.Len(t, provider.prompts, 2)
}

func TestRequestReport_RetryBudgetIsBounded(t *testing.T) {
	provider := &stubProvider{results: []stubResult{{err: errTransient}}}

	report, err := NewRequester(provider, testConfig(2), DefaultOptions(), nil, nil).RequestReport(context.Background(), sampleSnapshot())
	require.NoError(t, err)

	assert.Contains(t, report, "Basic Project Analysis")
	assert.Len(t, provider.prompts, 3)
}

func TestRequestReport_DoesNotRetryPermanentFailure(t *testing.T) {
	provider := &stubProvider{results: []stubResult{
		{err: &provider_models.ServiceError{Provider: "stub", StatusCode: 401, Message: "invalid x-api-key"}},
		{completion: &provider_models.Completion{Text: "unreachable"}},
	}}

	report, err := NewRequester(provider, testConfig(3), DefaultOptions(), nil, nil).RequestReport(context.Background(), sampleSnapshot())
	require.NoError(t, err)

	assert.Contains(t, report, "invalid x-api-key")
	assert.Contains(t, report, "Basic Project Analysis")
	assert.Len(t, provider.prompts, 1)
}

func TestRequestReport_MalformedResponseFallsBack(t *testing.T) {
	provider := &stubProvider{results: []stubResult{
		{err: &provider_models.ServiceError{Provider: "stub", Message: "malformed response", Err: errors.New("unexpected EOF")}},
	}}

	report, err := NewRequester(provider, testConfig(1), DefaultOptions(), nil, nil).RequestReport(context.Background(), sampleSnapshot())
	require.NoError(t, err)

	assert.Contains(t, report, "malformed response")
	assert.Len(t, provider.prompts, 1)
}

func TestRequestReport_CancelledContext(t *testing.T) {
	provider := &stubProvider{results: []stubResult{{completion: &provider_models.Completion{Text: "never"}}}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := NewRequester(provider, testConfig(1), DefaultOptions(), nil, nil).RequestReport(ctx, sampleSnapshot())

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, report)
}

func TestRequestReport_CancelledDuringRetryDelay(t *testing.T) {
	provider := &stubProvider{results: []stubResult{{err: errTransient}}}
	config := testConfig(1)
	config.RetryDelay = time.Minute

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	report, err := NewRequester(provider, config, DefaultOptions(), nil, nil).RequestReport(ctx, sampleSnapshot())

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Empty(t, report)
	assert.Len(t, provider.prompts, 1)
}
