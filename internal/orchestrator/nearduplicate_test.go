package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/TomokiIshimine/llm-qualitative-sort/internal/events"
)

func TestWarnNearDuplicates_FlagsSimilarDistinctItems(t *testing.T) {
	var warnings []events.ProgressEvent
	bus := events.NewBus(events.SinkFunc(func(evt events.ProgressEvent) {
		if evt.Kind == events.KindWarn {
			warnings = append(warnings, evt)
		}
	}))

	warnNearDuplicates([]string{"The quick brown fox", "The quick brown fox.", "an unrelated item"}, bus)

	assert.Len(t, warnings, 1)
}

func TestWarnNearDuplicates_IgnoresDissimilarItems(t *testing.T) {
	var warnings []events.ProgressEvent
	bus := events.NewBus(events.SinkFunc(func(evt events.ProgressEvent) {
		warnings = append(warnings, evt)
	}))

	warnNearDuplicates([]string{"alpha", "completely different text", "zzz"}, bus)

	assert.Empty(t, warnings)
}

func TestSimilarity_CaseInsensitive(t *testing.T) {
	assert.Equal(t, 1.0, similarity("Item", "item"))
}
