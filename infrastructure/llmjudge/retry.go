package llmjudge

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/TomokiIshimine/llm-qualitative-sort/internal/domain"
	"github.com/TomokiIshimine/llm-qualitative-sort/internal/ports"
)

// RetryConfig controls RetryingJudge's exponential backoff.
type RetryConfig struct {
	MaxAttempts   int
	BaseDelay     time.Duration
	MaxDelay      time.Duration
	JitterPercent float64
}

// DefaultRetryConfig returns sensible defaults: three retries, starting at
// one second, capped at thirty seconds, with 10% jitter.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:   3,
		BaseDelay:     1 * time.Second,
		MaxDelay:      30 * time.Second,
		JitterPercent: 0.1,
	}
}

// RetryingJudge wraps a ports.Judge and retries transient failures with
// exponential backoff and jitter. It never retries a context cancellation.
type RetryingJudge struct {
	judge  ports.Judge
	config RetryConfig
}

// NewRetryingJudge wraps judge with the given retry configuration.
func NewRetryingJudge(judge ports.Judge, config RetryConfig) *RetryingJudge {
	return &RetryingJudge{judge: judge, config: config}
}

// Compare implements ports.Judge.
func (r *RetryingJudge) Compare(ctx context.Context, first, second, criteria string) (domain.ComparisonResult, error) {
	var lastErr error
	for attempt := 0; attempt <= r.config.MaxAttempts; attempt++ {
		result, err := r.judge.Compare(ctx, first, second, criteria)
		if err == nil {
			return result, nil
		}

		lastErr = err
		if attempt == r.config.MaxAttempts || !isRetryableError(err) {
			break
		}

		select {
		case <-ctx.Done():
			return domain.ComparisonResult{}, fmt.Errorf("llmjudge: context cancelled during retry: %w", ctx.Err())
		case <-time.After(r.calculateRetryDelay(attempt)):
		}
	}

	return domain.ComparisonResult{}, fmt.Errorf("llmjudge: comparison failed after %d attempts: %w", r.config.MaxAttempts+1, lastErr)
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	for _, pattern := range []string{
		"rate limit", "too many requests", "timeout", "connection refused",
		"connection reset", "temporary failure", "service unavailable",
		"internal server error", "bad gateway", "gateway timeout", "network",
	} {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}

func (r *RetryingJudge) calculateRetryDelay(attempt int) time.Duration {
	delay := r.config.BaseDelay * time.Duration(1<<attempt)
	if delay > r.config.MaxDelay {
		delay = r.config.MaxDelay
	}

	jitter := int64(float64(delay) * r.config.JitterPercent)
	if jitter > 0 {
		delay += time.Duration(rand.Int64N(2*jitter) - jitter)
	}

	if delay < r.config.BaseDelay {
		return r.config.BaseDelay
	}
	return delay
}
