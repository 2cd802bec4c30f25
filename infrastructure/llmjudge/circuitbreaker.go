package llmjudge

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/TomokiIshimine/llm-qualitative-sort/internal/domain"
	"github.com/TomokiIshimine/llm-qualitative-sort/internal/ports"
)

// ErrCircuitOpen indicates the circuit breaker rejected a comparison because
// the wrapped judge has recently failed too many times in a row.
var ErrCircuitOpen = errors.New("llmjudge: circuit breaker is open")

// breakerState is the circuit breaker's internal state.
type breakerState int

const (
	stateClosed breakerState = iota
	stateOpen
	stateHalfOpen
)

// CircuitBreakerJudge wraps a ports.Judge and fails fast once it has seen
// maxFailures consecutive errors, retrying only after cooldown has elapsed.
// ErrCircuitOpen surfaces as an ordinary comparison error — the match runner
// treats it exactly like any other round failure (winner=none), never fatal.
type CircuitBreakerJudge struct {
	next ports.Judge

	mu           sync.Mutex
	state        breakerState
	failureCount int
	maxFailures  int
	cooldown     time.Duration
	lastFailure  time.Time
}

// NewCircuitBreakerJudge wraps next, opening the circuit after maxFailures
// consecutive failures and attempting recovery after cooldown.
func NewCircuitBreakerJudge(next ports.Judge, maxFailures int, cooldown time.Duration) *CircuitBreakerJudge {
	return &CircuitBreakerJudge{next: next, maxFailures: maxFailures, cooldown: cooldown}
}

// Compare implements ports.Judge.
func (j *CircuitBreakerJudge) Compare(ctx context.Context, first, second, criteria string) (domain.ComparisonResult, error) {
	j.mu.Lock()
	if j.state == stateOpen {
		if time.Since(j.lastFailure) < j.cooldown {
			j.mu.Unlock()
			return domain.ComparisonResult{}, ErrCircuitOpen
		}
		j.state = stateHalfOpen
	}
	j.mu.Unlock()

	result, err := j.next.Compare(ctx, first, second, criteria)

	j.mu.Lock()
	defer j.mu.Unlock()
	if err != nil {
		j.failureCount++
		j.lastFailure = time.Now()
		if j.state == stateHalfOpen || j.failureCount >= j.maxFailures {
			j.state = stateOpen
		}
		return domain.ComparisonResult{}, err
	}
	j.failureCount = 0
	j.state = stateClosed
	return result, nil
}

// State reports the breaker's current state, for diagnostics and tests.
func (j *CircuitBreakerJudge) State() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	switch j.state {
	case stateOpen:
		return "open"
	case stateHalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}
