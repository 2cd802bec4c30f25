package dispatch

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_BoundsConcurrency(t *testing.T) {
	d := New(2, nil)

	var inFlight, maxInFlight int32
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := d.Run(context.Background(), func(ctx context.Context) error {
				n := atomic.AddInt32(&inFlight, 1)
				for {
					cur := atomic.LoadInt32(&maxInFlight)
					if n <= cur || atomic.CompareAndSwapInt32(&maxInFlight, cur, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				atomic.AddInt32(&inFlight, -1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, int(atomic.LoadInt32(&maxInFlight)), 2)
}

func TestDispatcher_ContextCancelledBeforeAcquire(t *testing.T) {
	d := New(1, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := d.Run(ctx, func(ctx context.Context) error {
		called = true
		return nil
	})

	require.Error(t, err)
	assert.False(t, called)
}

func TestDispatcher_PropagatesFnError(t *testing.T) {
	d := New(1, nil)
	sentinel := assert.AnError

	err := d.Run(context.Background(), func(ctx context.Context) error {
		return sentinel
	})

	assert.ErrorIs(t, err, sentinel)
}

func TestDispatcher_ZeroOrNegativeTreatedAsOne(t *testing.T) {
	d := New(0, nil)
	err := d.Run(context.Background(), func(ctx context.Context) error { return nil })
	assert.NoError(t, err)
}

// recordingMetrics captures every RecordDispatcherInFlight call.
type recordingMetrics struct {
	inFlight []int
}

func (m *recordingMetrics) RecordAPICall(string)             {}
func (m *recordingMetrics) RecordCacheHit()                  {}
func (m *recordingMetrics) RecordCacheMiss()                 {}
func (m *recordingMetrics) RecordMatchLatency(time.Duration) {}
func (m *recordingMetrics) RecordDispatcherInFlight(n int)   { m.inFlight = append(m.inFlight, n) }

func TestDispatcher_ReportsInFlightToMetrics(t *testing.T) {
	m := &recordingMetrics{}
	d := New(1, m)

	err := d.Run(context.Background(), func(ctx context.Context) error { return nil })
	require.NoError(t, err)

	require.Len(t, m.inFlight, 2, "one report on acquire, one on release")
	assert.Equal(t, 1, m.inFlight[0])
	assert.Equal(t, 0, m.inFlight[1])
}
