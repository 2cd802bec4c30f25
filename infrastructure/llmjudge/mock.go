package llmjudge

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/TomokiIshimine/llm-qualitative-sort/internal/domain"
)

// Comparator decides a relative winner between first and second (as
// presented, not by identity) for MockJudge.
type Comparator func(first, second string) domain.RelativeWinner

// MockJudge is a deterministic judge for tests: it never performs I/O and
// delegates the actual verdict to a Comparator.
type MockJudge struct {
	compare Comparator
	calls   int
}

// NewMockJudge creates a MockJudge using compare to decide every comparison.
func NewMockJudge(compare Comparator) *MockJudge {
	return &MockJudge{compare: compare}
}

// Compare implements ports.Judge.
func (m *MockJudge) Compare(_ context.Context, first, second, _ string) (domain.ComparisonResult, error) {
	m.calls++
	winner := m.compare(first, second)
	return domain.ComparisonResult{Winner: winner, Reasoning: "mock verdict"}, nil
}

// Calls returns how many times Compare has been invoked, for asserting
// cache-reuse behavior in tests.
func (m *MockJudge) Calls() int { return m.calls }

// NumericLargerWins is a Comparator that treats both texts as decimal
// integers and prefers the larger value; it panics on non-numeric input,
// so it is intended only for literal test fixtures.
func NumericLargerWins(first, second string) domain.RelativeWinner {
	a, b := mustParseInt(first), mustParseInt(second)
	switch {
	case a > b:
		return domain.RelativeA
	case b > a:
		return domain.RelativeB
	default:
		return domain.RelativeNone
	}
}

func mustParseInt(s string) int {
	var n int
	if _, err := fmt.Sscanf(s, "%d", &n); err != nil {
		panic(fmt.Sprintf("llmjudge: NumericLargerWins requires numeric text, got %q", s))
	}
	return n
}

// LexicographicallyLargerWins is a Comparator that prefers the
// lexicographically larger of the two presented texts.
func LexicographicallyLargerWins(first, second string) domain.RelativeWinner {
	switch {
	case first > second:
		return domain.RelativeA
	case second > first:
		return domain.RelativeB
	default:
		return domain.RelativeNone
	}
}

// AlwaysPrefersFirst is a Comparator that always prefers whichever item was
// presented first, modeling a purely position-biased judge.
func AlwaysPrefersFirst(_, _ string) domain.RelativeWinner {
	return domain.RelativeA
}

// StableCoinFlip is a Comparator that derives a deterministic pseudo-random
// verdict from a stable hash of the two texts in presentation order, so the
// same (first, second) question always gets the same answer while the
// swapped presentation is an independent flip. Used for verifying
// order-bias mitigation.
func StableCoinFlip(first, second string) domain.RelativeWinner {
	h := sha256.Sum256([]byte(first + "\x00" + second))
	if binary.BigEndian.Uint64(h[:8])%2 == 0 {
		return domain.RelativeA
	}
	return domain.RelativeB
}
