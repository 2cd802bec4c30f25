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

type alwaysFailJudge struct{ calls int }

func (a *alwaysFailJudge) Compare(_ context.Context, _, _, _ string) (domain.ComparisonResult, error) {
	a.calls++
	return domain.ComparisonResult{}, errors.New("downstream error")
}

func TestCircuitBreakerJudge_OpensAfterThreshold(t *testing.T) {
	inner := &alwaysFailJudge{}
	j := NewCircuitBreakerJudge(inner, 2, time.Hour)

	_, err := j.Compare(context.Background(), "a", "b", "max")
	require.Error(t, err)
	assert.Equal(t, "closed", j.State())

	_, err = j.Compare(context.Background(), "a", "b", "max")
	require.Error(t, err)
	assert.Equal(t, "open", j.State())

	_, err = j.Compare(context.Background(), "a", "b", "max")
	require.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, 2, inner.calls, "open circuit must not reach the downstream judge")
}

func TestCircuitBreakerJudge_ClosesOnSuccessAfterCooldown(t *testing.T) {
	inner := &flakyJudge{failuresLeft: 1, err: errors.New("boom")}
	j := NewCircuitBreakerJudge(inner, 1, time.Nanosecond)

	_, err := j.Compare(context.Background(), "a", "b", "max")
	require.Error(t, err)
	assert.Equal(t, "open", j.State())

	time.Sleep(time.Millisecond)

	result, err := j.Compare(context.Background(), "a", "b", "max")
	require.NoError(t, err)
	assert.Equal(t, domain.RelativeA, result.Winner)
	assert.Equal(t, "closed", j.State())
}
