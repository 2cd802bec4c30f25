// Package cache implements the order-sensitive comparison cache facade: a
// pure key function plus a thin wrapper around a ports.CacheStore backend
// that treats every backend error as non-fatal.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/TomokiIshimine/llm-qualitative-sort/internal/domain"
	"github.com/TomokiIshimine/llm-qualitative-sort/internal/ports"
)

// keySeparator terminates each field in the pre-hash tuple. Fields are not
// length-prefixed or escaped, so two distinct tuples hash identically only
// if a field itself contains this separator byte; a fixed, rare separator
// plus the fixed field count keeps that case out of ordinary text.
const keySeparator = "\x1f"

// Key computes the cache key for one comparison question, given which item
// was presented first and which second. The presentation order is already
// baked into first/second by the time Key is called — there is no separate
// order tag to hash — so (A,B,"AB") and (B,A,"BA") naturally collide (both
// resolve to first="A", second="B") while (A,B,"AB") and (A,B,"BA") do not
// (the latter resolves to first="B", second="A").
func Key(first, second, criteria string) string {
	h := sha256.New()
	// Write each field with its own separator-delimited frame so that, for
	// example, ("ab", "c", ...) and ("a", "bc", ...) cannot collide purely
	// from concatenation.
	for _, field := range []string{first, second, criteria} {
		h.Write([]byte(field))
		h.Write([]byte(keySeparator))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// CanonicalOrder resolves (a, b, order) to the (first, second) pair as they
// are actually presented to the judge, so that Key only ever sees physical
// presentation order, never a leftover order tag.
func CanonicalOrder(a, b string, order domain.Order) (first, second string) {
	if order == domain.OrderAB {
		return a, b
	}
	return b, a
}

// WarnFunc receives a human-readable description of a non-fatal cache
// failure. The facade never raises these; it only reports them for
// observability.
type WarnFunc func(msg string)

// Facade is the Match runner's only view of caching. It never returns an
// error: storage failures degrade to a miss on Get and are dropped on Put.
type Facade struct {
	store ports.CacheStore
	warn  WarnFunc
}

// New creates a Facade over the given backend. store may be nil, in which
// case every Get misses and every Put is a no-op — callers can always hold
// a Facade even when no cache backend was configured.
func New(store ports.CacheStore, warn WarnFunc) *Facade {
	if warn == nil {
		warn = func(string) {}
	}
	return &Facade{store: store, warn: warn}
}

// Get looks up the comparison for (a, b, criteria) presented in order. The
// boolean result is true only on a genuine hit; any backend error is
// treated identically to a miss.
func (f *Facade) Get(ctx context.Context, a, b, criteria string, order domain.Order) (domain.ComparisonResult, bool) {
	if f.store == nil {
		return domain.ComparisonResult{}, false
	}

	first, second := CanonicalOrder(a, b, order)
	key := Key(first, second, criteria)

	result, ok, err := f.store.Get(ctx, key)
	if err != nil {
		f.warn("cache get failed, treating as miss: " + err.Error())
		return domain.ComparisonResult{}, false
	}
	return result, ok
}

// Put stores the comparison for (a, b, criteria) presented in order. Any
// backend error is swallowed after a warning.
func (f *Facade) Put(ctx context.Context, a, b, criteria string, order domain.Order, result domain.ComparisonResult) {
	if f.store == nil {
		return
	}

	first, second := CanonicalOrder(a, b, order)
	key := Key(first, second, criteria)

	if err := f.store.Put(ctx, key, result); err != nil {
		f.warn("cache put failed, discarding: " + err.Error())
	}
}
