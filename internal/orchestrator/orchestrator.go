// Package orchestrator drives one Sort call end to end: validates input and
// configuration, repeatedly asks the tournament engine for the next batch of
// pairings, runs each batch's matches concurrently behind a shared
// dispatcher gate, and assembles the final ranked result.
package orchestrator

import (
	"context"
	"fmt"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"go.opentelemetry.io/otel/attribute"

	"github.com/TomokiIshimine/llm-qualitative-sort/internal/cache"
	"github.com/TomokiIshimine/llm-qualitative-sort/internal/dispatch"
	"github.com/TomokiIshimine/llm-qualitative-sort/internal/domain"
	"github.com/TomokiIshimine/llm-qualitative-sort/internal/events"
	"github.com/TomokiIshimine/llm-qualitative-sort/internal/judge"
	"github.com/TomokiIshimine/llm-qualitative-sort/internal/ports"
	"github.com/TomokiIshimine/llm-qualitative-sort/internal/telemetry"
	"github.com/TomokiIshimine/llm-qualitative-sort/internal/tournament"
)

// Orchestrator runs the full tournament for one set of items against one
// judge. Build one with New and reuse it across multiple Sort calls; each
// call gets its own tournament engine and dispatcher.
type Orchestrator struct {
	judge ports.Judge
	cfg   config
}

// New creates an Orchestrator backed by judge, applying opts over sensible
// defaults. It fails if the resulting configuration violates any bound
// (criteria non-empty, elimination_count/comparison_rounds/max_concurrent
// all >= 1).
func New(j ports.Judge, opts ...Option) (*Orchestrator, error) {
	if j == nil {
		return nil, fmt.Errorf("%w: judge must not be nil", domain.ErrInvalidConfig)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidConfig, err)
	}

	return &Orchestrator{judge: j, cfg: cfg}, nil
}

// Sort runs a full multi-elimination tournament over items and returns the
// final rankings, complete match history, and run statistics. It returns an
// error only for precondition failures (empty/duplicate items), context
// cancellation, or an ErrInvariantViolation from recording a result; a
// deadlocked tournament is reported through
// Statistics.Deadlocked, never as an error.
func (o *Orchestrator) Sort(ctx context.Context, items []string) (result domain.SortResult, err error) {
	ctx, span := telemetry.StartSpan(ctx, "orchestrator.Orchestrator.Sort",
		attribute.Int("item_count", len(items)),
		attribute.Int("elimination_count", o.cfg.EliminationCount),
		attribute.Int("comparison_rounds", o.cfg.ComparisonRounds),
	)
	defer func() { telemetry.EndWithError(span, err) }()

	start := time.Now()

	engine, err := tournament.New(items, o.cfg.EliminationCount, o.cfg.Seed)
	if err != nil {
		return domain.SortResult{}, err
	}

	bus := events.NewBus(o.cfg.sink)
	warnNearDuplicates(items, bus)

	cacheFacade := cache.New(o.cfg.store, func(msg string) {
		bus.Emit(events.ProgressEvent{Kind: events.KindWarn, Message: msg})
	})
	gate := dispatch.New(o.cfg.MaxConcurrentRequests, o.cfg.metrics)
	runner := judge.New(judge.Config{
		Judge:            o.judge,
		Cache:            cacheFacade,
		Dispatcher:       gate,
		Bus:              bus,
		Metrics:          o.cfg.metrics,
		Criteria:         o.cfg.Criteria,
		ComparisonRounds: o.cfg.ComparisonRounds,
	})

	estimatedTotal := estimatedTotalMatches(len(items), o.cfg.EliminationCount)
	stats := domain.Statistics{}
	var history []domain.MatchResult

	bus.Emit(events.ProgressEvent{
		Kind:      events.KindBatchStart,
		Message:   "tournament started",
		Completed: 0,
		Total:     estimatedTotal,
	})

	for !engine.IsComplete() {
		if err := ctx.Err(); err != nil {
			return domain.SortResult{}, err
		}

		batch := engine.NextMatches()
		if len(batch) == 0 {
			break // deadlock: engine.Deadlocked() carries the reason
		}

		results, err := o.runBatch(ctx, runner, bus, batch)
		if err != nil {
			return domain.SortResult{}, err
		}

		for i, result := range results {
			req := batch[i]
			if err := engine.RecordResult(req.A, req.B, result.Winner); err != nil {
				return domain.SortResult{}, fmt.Errorf("%w: %s", domain.ErrInvariantViolation, err)
			}
			history = append(history, result)
			stats.TotalMatches++
			for _, round := range result.Rounds {
				if round.Cached {
					stats.CacheHits++
				} else {
					stats.TotalAPICalls++
				}
			}
		}

		bus.Emit(events.ProgressEvent{
			Kind:      events.KindRoundEnd,
			Message:   "batch complete",
			Completed: stats.TotalMatches,
			Total:     estimatedTotal,
		})
	}

	stats.Deadlocked = engine.Deadlocked()
	stats.ElapsedTime = time.Since(start)

	bus.Emit(events.ProgressEvent{
		Kind:      events.KindComplete,
		Message:   "tournament complete",
		Completed: stats.TotalMatches,
		Total:     estimatedTotal,
	})

	return domain.SortResult{
		Rankings:     engine.Rankings(),
		MatchHistory: history,
		Statistics:   stats,
	}, nil
}

// runBatch runs every request in batch concurrently, one goroutine per
// request with no errgroup limit; only the judge calls are bounded, by the
// shared dispatcher gate each goroutine blocks on before doing I/O. It awaits the
// whole batch before returning, the batch barrier that keeps pairing
// decisions stable.
func (o *Orchestrator) runBatch(ctx context.Context, runner *judge.Runner, bus *events.Bus, batch []domain.MatchRequest) ([]domain.MatchResult, error) {
	results := make([]domain.MatchResult, len(batch))

	g, gctx := errgroup.WithContext(ctx)
	for i, req := range batch {
		i, req := i, req
		g.Go(func() error {
			bus.Emit(events.ProgressEvent{
				Kind:    events.KindMatchStart,
				Message: fmt.Sprintf("%s vs %s", req.A, req.B),
				Data:    map[string]any{"item_a": req.A, "item_b": req.B},
			})

			result, err := runner.Run(gctx, req)
			if err != nil {
				return err
			}
			results[i] = result

			bus.Emit(events.ProgressEvent{
				Kind:    events.KindMatchEnd,
				Message: fmt.Sprintf("%s vs %s -> %q", req.A, req.B, result.Winner),
				Data:    map[string]any{"item_a": req.A, "item_b": req.B, "winner": result.Winner},
			})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// estimatedTotalMatches is a non-binding progress-denominator heuristic,
// ceil(n*eliminationCount/2). It is not a bound: the number of matches
// actually played can be lower or higher than this estimate.
func estimatedTotalMatches(n, eliminationCount int) int {
	return int(math.Ceil(float64(n*eliminationCount) / 2.0))
}
