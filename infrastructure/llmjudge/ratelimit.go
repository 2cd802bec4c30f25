package llmjudge

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/TomokiIshimine/llm-qualitative-sort/internal/domain"
	"github.com/TomokiIshimine/llm-qualitative-sort/internal/ports"
)

// RateLimitedJudge wraps a ports.Judge with token-bucket pacing so bursts of
// scheduled comparisons cannot exceed a provider's sustained rate limit.
type RateLimitedJudge struct {
	next    ports.Judge
	limiter *rate.Limiter
}

// NewRateLimitedJudge wraps next with a limiter allowing limit requests per
// second on average, with burst allowed above that rate momentarily.
func NewRateLimitedJudge(next ports.Judge, limit rate.Limit, burst int) *RateLimitedJudge {
	return &RateLimitedJudge{next: next, limiter: rate.NewLimiter(limit, burst)}
}

// Compare implements ports.Judge, blocking until a token is available.
func (j *RateLimitedJudge) Compare(ctx context.Context, first, second, criteria string) (domain.ComparisonResult, error) {
	if err := j.limiter.Wait(ctx); err != nil {
		return domain.ComparisonResult{}, fmt.Errorf("llmjudge: rate limit: %w", err)
	}
	return j.next.Compare(ctx, first, second, criteria)
}
