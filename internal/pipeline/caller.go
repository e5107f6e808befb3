package pipeline

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/tlweave2/AI-Job-Application-Agent/internal/config"
	"github.com/tlweave2/AI-Job-Application-Agent/internal/model"
	"github.com/tlweave2/AI-Job-Application-Agent/internal/resilience"
	"github.com/tlweave2/AI-Job-Application-Agent/pkg/llm"
)

// modelCaller funnels every model call of a run through one rate limiter,
// one retry policy, and one circuit breaker, and accumulates token usage
// across the classification and generation stages.
type modelCaller struct {
	client  llm.Client
	limiter *rate.Limiter
	breaker *resilience.CircuitBreaker
	timeout time.Duration
	retry   resilience.RetryConfig

	mu        sync.Mutex
	usage     llm.Usage
	lastModel string
	attempts  int
	successes int
}

func newModelCaller(client llm.Client, cfg config.FillConfig) *modelCaller {
	rps := rate.Limit(cfg.RequestsPerSecond)
	if cfg.RequestsPerSecond <= 0 {
		rps = rate.Inf
	}
	burst := cfg.MaxConcurrency
	if burst < 1 {
		burst = 1
	}
	timeout := cfg.PerCallTimeout()
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	retry := resilience.DefaultRetryConfig()
	if cfg.RetryLimit > 0 {
		retry.MaxAttempts = cfg.RetryLimit
	}
	retry.OnRetry = resilience.RetryLogger(client.Provider(), "complete")

	bcfg := resilience.DefaultCircuitBreakerConfig()
	bcfg.OnStateChange = func(from, to resilience.CircuitState) {
		zap.L().Warn("circuit state change",
			zap.String("provider", client.Provider()),
			zap.Stringer("from", from),
			zap.Stringer("to", to),
		)
	}

	return &modelCaller{
		client:  client,
		limiter: rate.NewLimiter(rps, burst),
		breaker: resilience.NewCircuitBreaker(bcfg),
		timeout: timeout,
		retry:   retry,
	}
}

// complete runs one completion through the limiter, breaker, and retry
// policy. The per-call timeout applies to the provider call only, so time
// spent queued at the limiter never counts against it.
func (c *modelCaller) complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	resp, err := resilience.DoVal(ctx, c.retry, func(ctx context.Context) (*llm.Response, error) {
		c.mu.Lock()
		c.attempts++
		c.mu.Unlock()

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		return resilience.ExecuteVal(ctx, c.breaker, func(ctx context.Context) (*llm.Response, error) {
			callCtx, cancel := context.WithTimeout(ctx, c.timeout)
			defer cancel()

			resp, err := c.client.Complete(callCtx, req)
			if err != nil {
				if status, ok := llm.StatusCode(err); ok && resilience.IsTransientHTTPStatus(status) {
					return nil, resilience.NewTransportError(c.client.Provider(), status, err)
				}
				return nil, err
			}
			return resp, nil
		})
	})
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.successes++
	c.usage.InputTokens += resp.Usage.InputTokens
	c.usage.OutputTokens += resp.Usage.OutputTokens
	c.lastModel = resp.Model
	c.mu.Unlock()

	return resp, nil
}

// totalUsage returns the tokens consumed so far across all calls.
func (c *modelCaller) totalUsage() model.TokenUsage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return model.TokenUsage{
		InputTokens:  c.usage.InputTokens,
		OutputTokens: c.usage.OutputTokens,
	}
}

// neverSucceeded reports whether calls were attempted and all of them failed,
// which distinguishes a dead provider from a run that needed no model at all.
func (c *modelCaller) neverSucceeded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attempts > 0 && c.successes == 0
}

// logCost emits the cost attribution line for the run. No-op when no call
// succeeded, since there is nothing to attribute.
func (c *modelCaller) logCost(phase string) {
	c.mu.Lock()
	usage, last := c.usage, c.lastModel
	c.mu.Unlock()
	if last == "" {
		return
	}
	usage.LogCost(last, phase)
}

func floatPtr(v float64) *float64 { return &v }
