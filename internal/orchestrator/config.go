package orchestrator

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/TomokiIshimine/llm-qualitative-sort/internal/events"
	"github.com/TomokiIshimine/llm-qualitative-sort/internal/ports"
)

// config holds everything one Sort call needs beyond the items themselves.
// Validated via go-playground/validator before any match runs.
type config struct {
	Criteria               string `validate:"required"`
	EliminationCount       int    `validate:"min=1"`
	ComparisonRounds       int    `validate:"min=1"`
	MaxConcurrentRequests  int    `validate:"min=1"`
	Seed                   *int64

	store   ports.CacheStore
	metrics ports.MetricsCollector
	sink    events.Sink
}

func defaultConfig() config {
	return config{
		Criteria:              "overall quality",
		EliminationCount:      2,
		ComparisonRounds:      2,
		MaxConcurrentRequests: 10,
	}
}

func validateConfig(cfg config) error {
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}

// Option configures an Orchestrator at construction time.
type Option func(*config)

// WithCriteria sets the natural-language comparison criterion passed to the
// judge on every round.
func WithCriteria(criteria string) Option {
	return func(c *config) { c.Criteria = criteria }
}

// WithEliminationCount sets how many losses eliminate a participant.
func WithEliminationCount(n int) Option {
	return func(c *config) { c.EliminationCount = n }
}

// WithComparisonRounds sets how many rounds are run per scheduled pairing.
func WithComparisonRounds(n int) Option {
	return func(c *config) { c.ComparisonRounds = n }
}

// WithMaxConcurrentRequests sets the Dispatcher's gate capacity.
func WithMaxConcurrentRequests(n int) Option {
	return func(c *config) { c.MaxConcurrentRequests = n }
}

// WithSeed pins the pairing PRNG for deterministic, reproducible runs.
func WithSeed(seed int64) Option {
	return func(c *config) { c.Seed = &seed }
}

// WithCacheStore attaches a backend for the comparison cache. Without one,
// every comparison reaches the judge.
func WithCacheStore(store ports.CacheStore) Option {
	return func(c *config) { c.store = store }
}

// WithMetrics attaches an optional observability collector.
func WithMetrics(collector ports.MetricsCollector) Option {
	return func(c *config) { c.metrics = collector }
}

// WithEventSink attaches a progress sink. Without one, progress events are
// computed but discarded.
func WithEventSink(sink events.Sink) Option {
	return func(c *config) { c.sink = sink }
}
