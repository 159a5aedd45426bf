package contextwindow

import (
	"sort"

	"github.com/mayanksingh09/ollama-mcp-client-sub000/messages"
	"github.com/mayanksingh09/ollama-mcp-client-sub000/tokens"
)

// hybridStrategy splits the budget in half: the sliding strategy fills one
// half with recent messages, the importance strategy fills the other from
// whatever the first pass left behind. Deduplication is by original index,
// never by object identity, so structurally equal messages at different
// positions stay distinct; the union is restored to chronological order.
type hybridStrategy struct {
	est        tokens.Estimator
	sliding    *slidingStrategy
	importance *importanceStrategy
}

func (s *hybridStrategy) Name() string { return StrategyHybrid }

func (s *hybridStrategy) Truncate(w Window) []messages.Entry {
	half := w.Budget / 2

	slidingPick := s.sliding.Truncate(Window{Entries: w.Entries, Budget: half, Model: w.Model})
	taken := indexSet(w.Entries, slidingPick)

	var leftover []messages.Entry
	leftoverIdx := make([]int, 0, len(w.Entries))
	for i, e := range w.Entries {
		if _, ok := taken[i]; ok {
			continue
		}
		leftover = append(leftover, e)
		leftoverIdx = append(leftoverIdx, i)
	}

	importancePick := s.importance.Truncate(Window{Entries: leftover, Budget: w.Budget - half, Model: w.Model})
	for i := range indexSet(leftover, importancePick) {
		taken[leftoverIdx[i]] = struct{}{}
	}

	indices := make([]int, 0, len(taken))
	for i := range taken {
		indices = append(indices, i)
	}
	sort.Ints(indices)

	result := make([]messages.Entry, 0, len(indices))
	for _, i := range indices {
		result = append(result, w.Entries[i])
	}
	return result
}

func (s *hybridStrategy) Summarize(entries []messages.Entry) messages.Entry {
	return summarizeSpan(entries)
}

// indexSet maps each picked entry back to its original index by id, which is
// unique per entry regardless of structural equality.
func indexSet(original, picked []messages.Entry) map[int]struct{} {
	byID := make(map[string]int, len(original))
	for i, e := range original {
		// First occurrence wins; duplicate ids cannot happen for entries
		// created through messages.NewEntry.
		if _, ok := byID[e.ID]; !ok {
			byID[e.ID] = i
		}
	}
	set := make(map[int]struct{}, len(picked))
	for _, e := range picked {
		if i, ok := byID[e.ID]; ok {
			set[i] = struct{}{}
		}
	}
	return set
}
