// Package events delivers structured progress updates from a running sort
// to a caller-supplied sink without letting the sink's misbehavior affect
// the sort itself.
package events

import (
	"fmt"
	"log"
)

// Kind identifies the category of a ProgressEvent.
type Kind string

// The event kinds the orchestrator emits over the lifetime of one Sort call.
const (
	KindBatchStart Kind = "BATCH_START"
	KindMatchStart Kind = "MATCH_START"
	KindMatchEnd   Kind = "MATCH_END"
	KindRoundEnd   Kind = "ROUND_END"
	KindWarn       Kind = "WARN"
	KindComplete   Kind = "COMPLETE"
)

// ProgressEvent is the payload delivered to a Sink. Completed and Total
// describe progress against the orchestrator's estimated total match count;
// Data carries kind-specific detail (item names, match winner, similarity).
type ProgressEvent struct {
	Kind      Kind
	Message   string
	Completed int
	Total     int
	Data      map[string]any
}

// Sink receives progress events. Implementations must not block for long
// and must not panic; Bus.Emit recovers a panicking sink but a sink that
// blocks indefinitely will stall its caller, since Emit calls Handle
// synchronously. Emit is not serialized: during a batch, MATCH_START,
// MATCH_END and WARN events are emitted from the goroutines running that
// batch's matches, so Handle may be called concurrently.
type Sink interface {
	Handle(ProgressEvent)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ProgressEvent)

// Handle implements Sink.
func (f SinkFunc) Handle(evt ProgressEvent) { f(evt) }

// Bus wraps an optional Sink, making event emission nil-safe and
// panic-safe. A Bus with a nil sink silently discards every event.
type Bus struct {
	sink Sink
}

// NewBus creates a Bus around sink. sink may be nil.
func NewBus(sink Sink) *Bus {
	return &Bus{sink: sink}
}

// Emit delivers evt to the underlying sink, if any. A panicking sink is
// recovered and logged rather than propagated, so a broken sink can never
// abort an in-progress sort.
func (b *Bus) Emit(evt ProgressEvent) {
	if b == nil || b.sink == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("events: sink panicked handling %s: %v", evt.Kind, r)
		}
	}()
	b.sink.Handle(evt)
}

// String renders an event for diagnostic logging.
func (e ProgressEvent) String() string {
	return fmt.Sprintf("%s: %s (%d/%d)", e.Kind, e.Message, e.Completed, e.Total)
}
