package llmjudge

import (
	"context"
	"testing"

	"golang.org/x/time/rate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitedJudge_AllowsBurst(t *testing.T) {
	inner := NewMockJudge(AlwaysPrefersFirst)
	j := NewRateLimitedJudge(inner, rate.Limit(1000), 5)

	for i := 0; i < 5; i++ {
		_, err := j.Compare(context.Background(), "a", "b", "max")
		require.NoError(t, err)
	}
	assert.Equal(t, 5, inner.Calls())
}

func TestRateLimitedJudge_RespectsContextCancellation(t *testing.T) {
	inner := NewMockJudge(AlwaysPrefersFirst)
	j := NewRateLimitedJudge(inner, rate.Limit(0.001), 1)

	_, err := j.Compare(context.Background(), "a", "b", "max") // consumes the single burst token
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = j.Compare(ctx, "a", "b", "max")
	require.Error(t, err)
}
