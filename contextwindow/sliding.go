package contextwindow

import (
	"slices"

	"github.com/mayanksingh09/ollama-mcp-client-sub000/messages"
	"github.com/mayanksingh09/ollama-mcp-client-sub000/tokens"
)

// slidingStrategy keeps every system message, then fills the remaining
// budget with the most recent non-system messages, newest first.
type slidingStrategy struct {
	est tokens.Estimator
}

func (s *slidingStrategy) Name() string { return StrategySliding }

func (s *slidingStrategy) Truncate(w Window) []messages.Entry {
	systems, rest, restIdx := splitByRole(w.Entries)

	// System messages are retained even when they alone exceed the budget;
	// losing instructions is worse than overflowing, and the host sees the
	// overflow in the returned window's token count.
	used := s.est.EstimateEntries(systems)

	type pick struct {
		idx   int
		entry messages.Entry
	}
	var picks []pick
	for i := len(rest) - 1; i >= 0; i-- {
		cost := s.est.EstimateEntries([]messages.Entry{rest[i]})
		if used+cost > w.Budget {
			break
		}
		used += cost
		picks = append(picks, pick{idx: restIdx[i], entry: rest[i]})
	}

	// Reassemble in original chronological order.
	result := slices.Clone(systems)
	for i := len(picks) - 1; i >= 0; i-- {
		result = append(result, picks[i].entry)
	}
	return result
}

func (s *slidingStrategy) Summarize(entries []messages.Entry) messages.Entry {
	return summarizeSpan(entries)
}
