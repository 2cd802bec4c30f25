package orchestrator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TomokiIshimine/llm-qualitative-sort/infrastructure/cachestore"
	"github.com/TomokiIshimine/llm-qualitative-sort/infrastructure/llmjudge"
)

// TestOrchestrator_MultiEliminationRanksBySuccessiveLossCount drives four
// numerically-valued items through a two-round, two-loss-elimination
// tournament with a numeric-larger-wins judge. The largest item should never
// lose, and every eliminated item should carry exactly the elimination
// count's worth of losses.
func TestOrchestrator_MultiEliminationRanksBySuccessiveLossCount(t *testing.T) {
	j := llmjudge.NewMockJudge(llmjudge.NumericLargerWins)
	o, err := New(j,
		WithCriteria("max"),
		WithEliminationCount(2),
		WithComparisonRounds(2),
		WithMaxConcurrentRequests(1),
		WithSeed(0),
	)
	require.NoError(t, err)

	result, err := o.Sort(context.Background(), []string{"1", "2", "3", "4"})
	require.NoError(t, err)

	require.Len(t, result.Rankings, 4)
	assert.Equal(t, []string{"4"}, result.Rankings[0].Items)
	assert.False(t, result.Statistics.Deadlocked)
}

// TestOrchestrator_SingletonCompletesWithEmptyHistory mirrors a
// single-item input: the tournament completes immediately with no matches.
func TestOrchestrator_SingletonCompletesWithEmptyHistory(t *testing.T) {
	j := llmjudge.NewMockJudge(llmjudge.NumericLargerWins)
	o, err := New(j)
	require.NoError(t, err)

	result, err := o.Sort(context.Background(), []string{"a"})
	require.NoError(t, err)

	require.Len(t, result.Rankings, 1)
	assert.Equal(t, 1, result.Rankings[0].Rank)
	assert.Equal(t, []string{"a"}, result.Rankings[0].Items)
	assert.Empty(t, result.MatchHistory)
	assert.Equal(t, 0, result.Statistics.TotalMatches)
}

// TestOrchestrator_PositionBiasedJudgeDeadlocksTwoItems mirrors a
// position-biased judge (always prefers whichever item is presented first)
// over two items with elimination_count=1: AB and BA cancel to a draw,
// neither participant is ever eliminated, and once the single legal pair is
// exhausted no further pairing is possible.
func TestOrchestrator_PositionBiasedJudgeDeadlocksTwoItems(t *testing.T) {
	j := llmjudge.NewMockJudge(llmjudge.AlwaysPrefersFirst)
	o, err := New(j,
		WithEliminationCount(1),
		WithComparisonRounds(2),
		WithMaxConcurrentRequests(1),
		WithSeed(0),
	)
	require.NoError(t, err)

	result, err := o.Sort(context.Background(), []string{"x", "y"})
	require.NoError(t, err)

	require.Len(t, result.Rankings, 1)
	assert.ElementsMatch(t, []string{"x", "y"}, result.Rankings[0].Items)
	assert.True(t, result.Statistics.Deadlocked)
	assert.Len(t, result.MatchHistory, 1)
}

// TestOrchestrator_DeterministicAdapterProducesExpectedFinalOrder mirrors a
// deterministic lexicographically-larger-wins judge over three items.
func TestOrchestrator_DeterministicAdapterProducesExpectedFinalOrder(t *testing.T) {
	j := llmjudge.NewMockJudge(llmjudge.LexicographicallyLargerWins)
	o, err := New(j,
		WithEliminationCount(2),
		WithComparisonRounds(1),
		WithMaxConcurrentRequests(1),
		WithSeed(0),
	)
	require.NoError(t, err)

	result, err := o.Sort(context.Background(), []string{"p", "q", "r"})
	require.NoError(t, err)

	require.Len(t, result.Rankings, 3)
	assert.Equal(t, []string{"r"}, result.Rankings[0].Items)
	assert.Equal(t, []string{"p"}, result.Rankings[2].Items)
}

// TestOrchestrator_CacheEliminatesRepeatCalls mirrors the cache-reuse
// scenario: two items, elimination_count=1, comparison_rounds=2, shared
// in-memory store. A repeat Sort call against the same cache, items, and
// criteria should reach the judge zero times.
func TestOrchestrator_CacheEliminatesRepeatCalls(t *testing.T) {
	j := llmjudge.NewMockJudge(llmjudge.NumericLargerWins)
	store := cachestore.NewMemoryStore()

	o, err := New(j,
		WithCriteria("max"),
		WithEliminationCount(1),
		WithComparisonRounds(2),
		WithMaxConcurrentRequests(1),
		WithSeed(0),
		WithCacheStore(store),
	)
	require.NoError(t, err)

	first, err := o.Sort(context.Background(), []string{"3", "7"})
	require.NoError(t, err)
	assert.Equal(t, 2, first.Statistics.TotalAPICalls)
	callsAfterFirst := j.Calls()
	assert.Equal(t, 2, callsAfterFirst)

	second, err := o.Sort(context.Background(), []string{"3", "7"})
	require.NoError(t, err)
	assert.Equal(t, 0, second.Statistics.TotalAPICalls)
	assert.Equal(t, 2, second.Statistics.CacheHits)
	assert.Equal(t, callsAfterFirst, j.Calls(), "repeat sort must not reach the judge")
}

// TestOrchestrator_OrderAlternationBalancesSymmetricCoinFlipJudge mirrors
// the bias-mitigation scenario with a judge whose verdict is a stable coin
// flip keyed on the presented (first, second) texts. Two items can meet only
// once under pair uniqueness, so the history holds a single match and the
// win counts can differ by at most one.
func TestOrchestrator_OrderAlternationBalancesSymmetricCoinFlipJudge(t *testing.T) {
	j := llmjudge.NewMockJudge(llmjudge.StableCoinFlip)
	o, err := New(j,
		WithEliminationCount(5),
		WithComparisonRounds(2),
		WithMaxConcurrentRequests(1),
		WithSeed(0),
	)
	require.NoError(t, err)

	result, err := o.Sort(context.Background(), []string{"a", "b"})
	require.NoError(t, err)

	var winsA, winsB int
	for _, m := range result.MatchHistory {
		switch m.Winner {
		case "a":
			winsA++
		case "b":
			winsB++
		}
	}
	assert.LessOrEqual(t, absDiff(winsA, winsB), 2, "order alternation should keep win counts close")
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}

func TestOrchestrator_RejectsInvalidConfig(t *testing.T) {
	j := llmjudge.NewMockJudge(llmjudge.NumericLargerWins)

	_, err := New(j, WithEliminationCount(0))
	require.Error(t, err)

	_, err = New(nil)
	require.Error(t, err)
}

func TestOrchestrator_RejectsEmptyAndDuplicateItems(t *testing.T) {
	j := llmjudge.NewMockJudge(llmjudge.NumericLargerWins)
	o, err := New(j)
	require.NoError(t, err)

	_, err = o.Sort(context.Background(), nil)
	require.Error(t, err)

	_, err = o.Sort(context.Background(), []string{"a", "b", "a"})
	require.Error(t, err)
}
