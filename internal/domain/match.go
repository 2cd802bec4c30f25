package domain

import "time"

// Order identifies which participant was presented first to the judge for
// a single comparison round. It is part of the cache key because LLM judges
// are order-sensitive.
type Order string

// The two legal presentation orders for a round.
const (
	OrderAB Order = "AB"
	OrderBA Order = "BA"
)

// RelativeWinner is the judge's verdict expressed relative to presentation
// order, not participant identity. An empty RelativeWinner means the judge
// could not decide.
type RelativeWinner string

// The three legal relative winners a judge may report.
const (
	RelativeA    RelativeWinner = "A"
	RelativeB    RelativeWinner = "B"
	RelativeNone RelativeWinner = ""
)

// MatchRequest is an unordered pair of participants scheduled together for
// one round of the tournament. Two MatchRequests sharing the same unordered
// pair of items are forbidden across the lifetime of a tournament.
type MatchRequest struct {
	A, B  string
	Round int
}

// ComparisonResult is what a judge returns for a single presentation order.
// Winner is relative to presentation order; Raw carries the judge's opaque
// response payload for diagnostics and is never interpreted by the core.
type ComparisonResult struct {
	Winner    RelativeWinner
	Reasoning string
	Raw       any
}

// RoundResult records one comparison round of a match, after the judge's
// relative winner has been preserved for diagnostic fidelity. Identity
// winner translation happens separately in the match runner.
type RoundResult struct {
	Order     Order
	Winner    RelativeWinner
	Reasoning string
	Cached    bool
}

// MatchResult is the outcome of running every configured round between two
// items. Winner is "" for a draw, otherwise equal to ItemA or ItemB.
type MatchResult struct {
	ItemA, ItemB string
	Winner       string
	Rounds       []RoundResult
}

// RankGroup is a set of participants tied at the same competition rank.
type RankGroup struct {
	Rank  int
	Items []string
}

// Statistics summarizes one Sort call's resource usage and outcome.
type Statistics struct {
	TotalMatches   int
	TotalAPICalls  int
	CacheHits      int
	ElapsedTime    time.Duration
	// Deadlocked is true when the tournament engine could not legally pair
	// the remaining active participants and terminated early.
	Deadlocked bool
}

// SortResult is the complete, public output of one Sort call.
type SortResult struct {
	Rankings     []RankGroup
	MatchHistory []MatchResult
	Statistics   Statistics
}
