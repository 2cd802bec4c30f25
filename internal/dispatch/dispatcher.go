// Package dispatch bounds how many outbound judge calls may be in flight at
// once, independent of how many matches or rounds the orchestrator has
// scheduled concurrently in a given batch.
package dispatch

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"

	"github.com/TomokiIshimine/llm-qualitative-sort/internal/ports"
)

// Dispatcher gates concurrent access to a limited resource (outbound LLM
// requests) using a weighted semaphore. One Dispatcher is created per Sort
// call and shared by every match the orchestrator runs concurrently.
type Dispatcher struct {
	sem      *semaphore.Weighted
	metrics  ports.MetricsCollector
	inFlight atomic.Int64
}

// New creates a Dispatcher that allows at most maxConcurrent callers through
// Run at any time. maxConcurrent must be >= 1. metrics may be nil.
func New(maxConcurrent int, metrics ports.MetricsCollector) *Dispatcher {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Dispatcher{sem: semaphore.NewWeighted(int64(maxConcurrent)), metrics: metrics}
}

// Run acquires one slot, invokes fn, and releases the slot before returning.
// It blocks until a slot is available or ctx is cancelled, in which case it
// returns ctx's error without calling fn. The number of slots currently held
// is reported to metrics on both acquire and release.
func (d *Dispatcher) Run(ctx context.Context, fn func(context.Context) error) error {
	if err := d.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	d.reportInFlight(d.inFlight.Add(1))
	defer func() {
		d.reportInFlight(d.inFlight.Add(-1))
		d.sem.Release(1)
	}()

	return fn(ctx)
}

func (d *Dispatcher) reportInFlight(n int64) {
	if d.metrics != nil {
		d.metrics.RecordDispatcherInFlight(int(n))
	}
}
