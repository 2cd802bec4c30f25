// Package ports defines the interfaces that separate the core engine
// (domain, tournament, cache facade, match runner, dispatcher, orchestrator,
// event bus) from its external collaborators. Nothing in this package does
// I/O; it only describes the shape of things that do.
package ports

import (
	"context"
	"time"

	"github.com/TomokiIshimine/llm-qualitative-sort/internal/domain"
)

// Judge defines the contract for an external LLM comparison transport. An
// implementation receives two pieces of text in presentation order and the
// evaluation criteria, and reports which one it prefers, relative to that
// presentation order.
//
// Implementations may fail for any reason (timeouts, rate limits, malformed
// model output); failures are surfaced to the match runner as a round error
// and never abort the enclosing match.
type Judge interface {
	Compare(ctx context.Context, first, second, criteria string) (domain.ComparisonResult, error)
}

// CacheStore defines the contract for a comparison-result cache backend.
// Keys are opaque content hashes produced by the cache facade; the store
// never inspects or derives meaning from a key's structure.
//
// A cache error is never fatal to a Sort call: the facade treats a Get
// error as a miss and swallows a Put error, optionally reporting either
// through the event bus.
type CacheStore interface {
	Get(ctx context.Context, key string) (domain.ComparisonResult, bool, error)
	Put(ctx context.Context, key string, result domain.ComparisonResult) error
}

// MetricsCollector defines optional observability hooks that the match
// runner and the dispatcher call while a Sort runs. The core never requires a non-nil
// collector; every call site on a nil MetricsCollector is a no-op.
type MetricsCollector interface {
	RecordAPICall(provider string)
	RecordCacheHit()
	RecordCacheMiss()
	RecordMatchLatency(d time.Duration)
	RecordDispatcherInFlight(n int)
}
