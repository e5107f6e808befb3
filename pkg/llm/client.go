// Package llm provides a provider-neutral completion client for the model
// providers the agent supports (Anthropic, DeepSeek).
package llm

import (
	"context"
	"errors"

	sdk "github.com/anthropics/anthropic-sdk-go"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Client defines the single-turn completion operation the pipeline depends on.
type Client interface {
	// Provider names the backing API, e.g. "anthropic" or "deepseek".
	Provider() string
	Complete(ctx context.Context, req Request) (*Response, error)
}

// Request is a single-turn completion request. The model is fixed at client
// construction so callers stay provider-agnostic.
type Request struct {
	System      string
	Prompt      string
	MaxTokens   int64
	Temperature *float64
}

// Response is the provider-neutral completion result.
type Response struct {
	Text       string
	Model      string
	StopReason string
	Usage      Usage
}

// Usage tracks token consumption for one call.
type Usage struct {
	InputTokens  int64
	OutputTokens int64
}

// defaultMaxTokens matches the per-field reply budget when a request does not
// set one. Anthropic rejects requests without max_tokens.
const defaultMaxTokens = 500

// modelPricing holds per-million-token pricing for known models.
var modelPricing = map[string][2]float64{
	// model → {input $/MTok, output $/MTok}
	"claude-haiku-4-5-20251001":  {0.80, 4.00},
	"claude-sonnet-4-5-20250929": {3.00, 15.00},
	"deepseek-chat":              {0.27, 1.10},
	"deepseek-reasoner":          {0.55, 2.19},
}

// EstimateCost computes an estimated cost in USD from a Usage and model ID.
// Returns 0 for unknown models.
func (u Usage) EstimateCost(model string) float64 {
	pricing, ok := modelPricing[model]
	if !ok {
		return 0
	}
	inCost := (float64(u.InputTokens) / 1e6) * pricing[0]
	outCost := (float64(u.OutputTokens) / 1e6) * pricing[1]
	return inCost + outCost
}

// LogCost logs token usage and estimated cost with structured zap fields.
func (u Usage) LogCost(model, phase string) {
	zap.L().Info("cost attribution",
		zap.String("model", model),
		zap.String("phase", phase),
		zap.Int64("input_tokens", u.InputTokens),
		zap.Int64("output_tokens", u.OutputTokens),
		zap.Float64("estimated_cost_usd", u.EstimateCost(model)),
	)
}

// StatusCode extracts the HTTP status from a provider SDK error chain.
// The second return is false when the error carries no status.
func StatusCode(err error) (int, bool) {
	var ae *sdk.Error
	if errors.As(err, &ae) {
		return ae.StatusCode, true
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode, true
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode, true
	}
	return 0, false
}
