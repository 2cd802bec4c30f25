package orchestrator

import (
	"fmt"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"

	"github.com/TomokiIshimine/llm-qualitative-sort/internal/events"
)

// foldCaser is a package-level Unicode case folder, reused across calls.
var foldCaser = cases.Fold()

// nearDuplicateThreshold is the similarity score, out of 1.0, at or above which
// two distinct items are flagged as suspiciously similar.
const nearDuplicateThreshold = 0.92

// warnNearDuplicates flags items that are distinct by exact text equality
// (legal input) but similar enough that a caller likely meant them as one
// item. Purely advisory: it never blocks a run, it only emits a WARN event
// per suspicious pair.
func warnNearDuplicates(items []string, bus *events.Bus) {
	for i := 0; i < len(items); i++ {
		for j := i + 1; j < len(items); j++ {
			score := similarity(items[i], items[j])
			if score >= nearDuplicateThreshold {
				bus.Emit(events.ProgressEvent{
					Kind:    events.KindWarn,
					Message: fmt.Sprintf("items %q and %q are near-duplicates (similarity %.2f)", items[i], items[j], score),
					Data:    map[string]any{"item_a": items[i], "item_b": items[j], "similarity": score},
				})
			}
		}
	}
}

// similarity returns a Levenshtein-based similarity score between 0.0 and
// 1.0, computed on case-folded text so "Item" and "item" still score 1.0.
func similarity(a, b string) float64 {
	a = foldCaser.String(a)
	b = foldCaser.String(b)
	if a == b {
		return 1.0
	}

	distance := levenshtein.ComputeDistance(a, b)
	maxLen := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > maxLen {
		maxLen = n
	}
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(distance)/float64(maxLen)
}
