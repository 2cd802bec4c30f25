package llmjudge

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TomokiIshimine/llm-qualitative-sort/internal/domain"
)

type flakyJudge struct {
	failuresLeft int
	err          error
	calls        int
}

func (f *flakyJudge) Compare(_ context.Context, first, second, _ string) (domain.ComparisonResult, error) {
	f.calls++
	if f.failuresLeft > 0 {
		f.failuresLeft--
		return domain.ComparisonResult{}, f.err
	}
	return domain.ComparisonResult{Winner: domain.RelativeA}, nil
}

func TestRetryingJudge_RecoversAfterTransientFailures(t *testing.T) {
	inner := &flakyJudge{failuresLeft: 2, err: errors.New("connection reset by peer")}
	j := NewRetryingJudge(inner, RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, JitterPercent: 0})

	result, err := j.Compare(context.Background(), "a", "b", "max")
	require.NoError(t, err)
	assert.Equal(t, domain.RelativeA, result.Winner)
	assert.Equal(t, 3, inner.calls)
}

func TestRetryingJudge_GivesUpOnNonRetryableError(t *testing.T) {
	inner := &flakyJudge{failuresLeft: 5, err: errors.New("invalid winner token")}
	j := NewRetryingJudge(inner, RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond})

	_, err := j.Compare(context.Background(), "a", "b", "max")
	require.Error(t, err)
	assert.Equal(t, 1, inner.calls)
}

func TestRetryingJudge_ExhaustsAttempts(t *testing.T) {
	inner := &flakyJudge{failuresLeft: 10, err: errors.New("timeout")}
	j := NewRetryingJudge(inner, RetryConfig{MaxAttempts: 2, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond})

	_, err := j.Compare(context.Background(), "a", "b", "max")
	require.Error(t, err)
	assert.Equal(t, 3, inner.calls) // initial attempt + 2 retries
}
