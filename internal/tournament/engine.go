// Package tournament implements the multi-elimination pairing engine: pure,
// in-memory bookkeeping with no I/O and no suspension points, so it can be
// called directly from the orchestrator's control flow without ever
// yielding.
package tournament

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/TomokiIshimine/llm-qualitative-sort/internal/domain"
)

// pairKey is the unordered, canonical key for a match history lookup.
type pairKey struct{ a, b string }

func newPairKey(a, b string) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a, b}
}

// Engine is the multi-elimination tournament engine. It owns participant
// bookkeeping and pairing decisions; it never calls a judge, a cache, or the
// event bus. The orchestrator drives it one batch at a time.
type Engine struct {
	eliminationCount int
	rng              *rand.Rand

	order        []string // insertion order, for deterministic ranking ties
	participants map[string]*domain.Participant
	history      map[pairKey]struct{}

	round      int
	deadlocked bool
}

// New creates an Engine for the given items. It fails if items are empty,
// contain a duplicate (by exact text equality), or eliminationCount < 1.
// When seed is non-nil, pairing becomes fully deterministic for that seed;
// otherwise a process-random source is used.
func New(items []string, eliminationCount int, seed *int64) (*Engine, error) {
	ve := domain.NewValidationError()

	if len(items) == 0 {
		ve.AddCause(domain.ErrEmptyItems)
	}
	if eliminationCount < 1 {
		ve.AddCause(fmt.Errorf("%w: elimination_count must be >= 1, got %d", domain.ErrInvalidConfig, eliminationCount))
	}

	participants := make(map[string]*domain.Participant, len(items))
	order := make([]string, 0, len(items))
	for _, item := range items {
		if _, exists := participants[item]; exists {
			ve.AddCause(fmt.Errorf("%w: %q", domain.ErrDuplicateItem, item))
			continue
		}
		participants[item] = &domain.Participant{Item: item}
		order = append(order, item)
	}

	if ve.HasErrors() {
		return nil, ve
	}

	var rng *rand.Rand
	if seed != nil {
		rng = rand.New(rand.NewSource(*seed))
	} else {
		rng = rand.New(rand.NewSource(cryptoFallbackSeed()))
	}

	return &Engine{
		eliminationCount: eliminationCount,
		rng:              rng,
		order:            order,
		participants:     participants,
		history:          make(map[pairKey]struct{}),
	}, nil
}

// activeParticipants returns non-eliminated participants in deterministic
// (insertion) order, so that downstream shuffling is the only source of
// nondeterminism.
func (e *Engine) activeParticipants() []*domain.Participant {
	active := make([]*domain.Participant, 0, len(e.order))
	for _, item := range e.order {
		p := e.participants[item]
		if !p.IsEliminated(e.eliminationCount) {
			active = append(active, p)
		}
	}
	return active
}

// IsComplete reports whether fewer than two active participants remain.
func (e *Engine) IsComplete() bool {
	return len(e.activeParticipants()) < 2
}

// Deadlocked reports whether the most recent call to NextMatches found more
// than one active participant but could not legally pair any of them.
func (e *Engine) Deadlocked() bool { return e.deadlocked }

// alreadyPlayed reports whether the unordered pair {a, b} appears in match
// history.
func (e *Engine) alreadyPlayed(a, b string) bool {
	_, ok := e.history[newPairKey(a, b)]
	return ok
}

// NextMatches partitions active participants into loss-count brackets,
// shuffles each bracket deterministically, greedily pairs while rejecting
// any pair already present in match history, and carries an unpaired
// singleton into the next bracket.
func (e *Engine) NextMatches() []domain.MatchRequest {
	e.deadlocked = false

	active := e.activeParticipants()
	if len(active) < 2 {
		return nil
	}

	brackets := bucketByLosses(active)
	lossCounts := make([]int, 0, len(brackets))
	for losses := range brackets {
		lossCounts = append(lossCounts, losses)
	}
	sort.Ints(lossCounts)

	var matches []domain.MatchRequest
	var carry []*domain.Participant

	for _, losses := range lossCounts {
		working := append(carry, brackets[losses]...)
		carry = nil
		e.shuffle(working)

		paired := make([]bool, len(working))
		for i := range working {
			if paired[i] {
				continue
			}
			partnerIdx := -1
			for j := i + 1; j < len(working); j++ {
				if paired[j] {
					continue
				}
				if !e.alreadyPlayed(working[i].Item, working[j].Item) {
					partnerIdx = j
					break
				}
			}
			if partnerIdx == -1 {
				// No legal partner remains in this bracket; carry forward.
				carry = append(carry, working[i])
				continue
			}
			paired[i] = true
			paired[partnerIdx] = true
			matches = append(matches, domain.MatchRequest{
				A:     working[i].Item,
				B:     working[partnerIdx].Item,
				Round: e.round,
			})
		}
	}

	// A leftover singleton after the final bracket waits for a later round;
	// it is not scheduled this round.
	if len(matches) == 0 && len(carry) > 0 {
		if len(active) > 1 {
			e.deadlocked = true
		}
		return nil
	}

	e.round++
	return matches
}

// shuffle performs an in-place Fisher-Yates shuffle using the engine's PRNG,
// giving deterministic pairing for a fixed seed and completion order.
func (e *Engine) shuffle(participants []*domain.Participant) {
	e.rng.Shuffle(len(participants), func(i, j int) {
		participants[i], participants[j] = participants[j], participants[i]
	})
}

func bucketByLosses(active []*domain.Participant) map[int][]*domain.Participant {
	brackets := make(map[int][]*domain.Participant)
	for _, p := range active {
		brackets[p.Losses] = append(brackets[p.Losses], p)
	}
	return brackets
}

// RecordResult mutates win/loss counts for the pair {a, b} and appends the
// pair to match history. winner must be a, b, or "" for a draw. A draw
// increments neither participant's win/loss count.
func (e *Engine) RecordResult(a, b, winner string) error {
	pa, ok := e.participants[a]
	if !ok {
		return fmt.Errorf("%w: unknown participant %q", domain.ErrInvariantViolation, a)
	}
	pb, ok := e.participants[b]
	if !ok {
		return fmt.Errorf("%w: unknown participant %q", domain.ErrInvariantViolation, b)
	}

	key := newPairKey(a, b)
	if _, played := e.history[key]; played {
		return fmt.Errorf("%w: pair {%s, %s} already played", domain.ErrInvariantViolation, a, b)
	}

	switch winner {
	case "":
		// Draw: neither side's wins/losses change.
	case a:
		pa.Wins++
		pb.Losses++
	case b:
		pb.Wins++
		pa.Losses++
	default:
		return fmt.Errorf("%w: winner %q is neither %q nor %q", domain.ErrInvariantViolation, winner, a, b)
	}

	e.history[key] = struct{}{}
	return nil
}

// Rankings computes the competition ranking: sort all participants by wins
// descending, group ties, and assign dense-skip ranks (a tie of size k at
// rank r is followed by rank r+k). Valid to call at any time, not only
// after IsComplete.
func (e *Engine) Rankings() []domain.RankGroup {
	all := make([]*domain.Participant, 0, len(e.order))
	for _, item := range e.order {
		all = append(all, e.participants[item])
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Wins > all[j].Wins })

	var groups []domain.RankGroup
	rank := 1
	i := 0
	for i < len(all) {
		wins := all[i].Wins
		j := i
		var items []string
		for j < len(all) && all[j].Wins == wins {
			items = append(items, all[j].Item)
			j++
		}
		groups = append(groups, domain.RankGroup{Rank: rank, Items: items})
		rank += len(items)
		i = j
	}
	return groups
}

// Participant returns a copy of the participant record for item, for
// callers (the orchestrator) that need to report current win/loss counts
// without exposing the engine's mutable internals.
func (e *Engine) Participant(item string) (domain.Participant, bool) {
	p, ok := e.participants[item]
	if !ok {
		return domain.Participant{}, false
	}
	return *p, true
}
