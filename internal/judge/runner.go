// Package judge runs one scheduled pairing to completion: it owns the
// per-round cache lookup, the dispatcher-gated LLM call, presentation-order
// alternation, and the relative-to-identity winner translation that turns a
// judge's opinion into a MatchResult.
package judge

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/TomokiIshimine/llm-qualitative-sort/internal/cache"
	"github.com/TomokiIshimine/llm-qualitative-sort/internal/dispatch"
	"github.com/TomokiIshimine/llm-qualitative-sort/internal/domain"
	"github.com/TomokiIshimine/llm-qualitative-sort/internal/events"
	"github.com/TomokiIshimine/llm-qualitative-sort/internal/ports"
	"github.com/TomokiIshimine/llm-qualitative-sort/internal/telemetry"
)

// Runner executes MatchRequests against a Judge, consulting a Cache facade
// first and the Dispatcher's concurrency gate on a miss.
type Runner struct {
	judge      ports.Judge
	cacheF     *cache.Facade
	dispatcher *dispatch.Dispatcher
	bus        *events.Bus
	metrics    ports.MetricsCollector

	criteria         string
	comparisonRounds int
}

// Config bundles the collaborators and per-call settings a Runner needs.
// Cache, Bus, and Metrics may be nil.
type Config struct {
	Judge            ports.Judge
	Cache            *cache.Facade
	Dispatcher       *dispatch.Dispatcher
	Bus              *events.Bus
	Metrics          ports.MetricsCollector
	Criteria         string
	ComparisonRounds int
}

// New creates a Runner from cfg. ComparisonRounds must be >= 1.
func New(cfg Config) *Runner {
	rounds := cfg.ComparisonRounds
	if rounds < 1 {
		rounds = 1
	}
	return &Runner{
		judge:            cfg.Judge,
		cacheF:           cfg.Cache,
		dispatcher:       cfg.Dispatcher,
		bus:              cfg.Bus,
		metrics:          cfg.Metrics,
		criteria:         cfg.Criteria,
		comparisonRounds: rounds,
	}
}

// orderForRound returns "AB" for even round indices and "BA" for odd ones,
// so presentation order alternates starting with "AB". An odd
// comparisonRounds therefore yields one more "AB" round than "BA".
func orderForRound(i int) domain.Order {
	if i%2 == 0 {
		return domain.OrderAB
	}
	return domain.OrderBA
}

// identityWinner maps a judge's relative verdict back to the item identity,
// given which item was presented first under order.
func identityWinner(itemA, itemB string, order domain.Order, relative domain.RelativeWinner) string {
	firstPresented, secondPresented := itemA, itemB
	if order == domain.OrderBA {
		firstPresented, secondPresented = itemB, itemA
	}
	switch relative {
	case domain.RelativeA:
		return firstPresented
	case domain.RelativeB:
		return secondPresented
	default:
		return ""
	}
}

// Run executes every configured round for req sequentially — sequentially
// because a cache write from round i must be visible to round i+1 should the
// same order recur — and tallies identity winners by simple majority. A
// strict tie, including the all-rounds-errored case, yields a draw.
func (r *Runner) Run(ctx context.Context, req domain.MatchRequest) (result domain.MatchResult, err error) {
	ctx, span := telemetry.StartSpan(ctx, "judge.Runner.Run",
		attribute.String("item_a.hash", telemetry.ItemHash(req.A)),
		attribute.String("item_b.hash", telemetry.ItemHash(req.B)),
		attribute.Int("comparison_rounds", r.comparisonRounds),
	)
	defer func() { telemetry.EndWithError(span, err) }()

	start := time.Now()
	defer func() {
		if r.metrics != nil {
			r.metrics.RecordMatchLatency(time.Since(start))
		}
	}()

	result = domain.MatchResult{
		ItemA:  req.A,
		ItemB:  req.B,
		Rounds: make([]domain.RoundResult, 0, r.comparisonRounds),
	}

	tally := make(map[string]int, 2)

	for i := 0; i < r.comparisonRounds; i++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		order := orderForRound(i)
		roundResult, winnerIdentity := r.runRound(ctx, req.A, req.B, order)
		result.Rounds = append(result.Rounds, roundResult)
		if winnerIdentity != "" {
			tally[winnerIdentity]++
		}
	}

	result.Winner = majority(req.A, req.B, tally)
	return result, nil
}

// runRound executes a single comparison round, consulting the cache before
// dispatching to the judge. It never returns an error: a judge failure
// degrades to an undecided round rather than aborting the match.
func (r *Runner) runRound(ctx context.Context, itemA, itemB string, order domain.Order) (domain.RoundResult, string) {
	first, second := itemA, itemB
	if order == domain.OrderBA {
		first, second = itemB, itemA
	}

	if r.cacheF != nil {
		if cached, ok := r.cacheF.Get(ctx, itemA, itemB, r.criteria, order); ok {
			if r.metrics != nil {
				r.metrics.RecordCacheHit()
			}
			return domain.RoundResult{
				Order:     order,
				Winner:    cached.Winner,
				Reasoning: cached.Reasoning,
				Cached:    true,
			}, identityWinner(itemA, itemB, order, cached.Winner)
		}
		if r.metrics != nil {
			r.metrics.RecordCacheMiss()
		}
	}

	var result domain.ComparisonResult
	called := false
	call := func(ctx context.Context) error {
		called = true
		ctx, span := telemetry.StartSpan(ctx, "judge.Runner.compare",
			attribute.String("order", string(order)),
		)
		var err error
		result, err = r.judge.Compare(ctx, first, second, r.criteria)
		telemetry.EndWithError(span, err)
		return err
	}

	var err error
	if r.dispatcher != nil {
		err = r.dispatcher.Run(ctx, call)
	} else {
		err = call(ctx)
	}
	if r.metrics != nil && called {
		r.metrics.RecordAPICall(fmt.Sprintf("%T", r.judge))
	}

	if err != nil {
		r.emitWarn("comparison failed, round scored as undecided: " + err.Error())
		return domain.RoundResult{Order: order, Winner: domain.RelativeNone}, ""
	}

	if r.cacheF != nil {
		r.cacheF.Put(ctx, itemA, itemB, r.criteria, order, result)
	}

	return domain.RoundResult{
		Order:     order,
		Winner:    result.Winner,
		Reasoning: result.Reasoning,
	}, identityWinner(itemA, itemB, order, result.Winner)
}

// majority returns whichever of itemA/itemB has strictly more round wins in
// tally, or "" for a strict tie (including zero decisive rounds).
func majority(itemA, itemB string, tally map[string]int) string {
	wa, wb := tally[itemA], tally[itemB]
	switch {
	case wa > wb:
		return itemA
	case wb > wa:
		return itemB
	default:
		return ""
	}
}

func (r *Runner) emitWarn(msg string) {
	if r.bus == nil {
		return
	}
	r.bus.Emit(events.ProgressEvent{Kind: events.KindWarn, Message: msg})
}
