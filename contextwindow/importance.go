package contextwindow

import (
	"sort"
	"strings"

	"github.com/mayanksingh09/ollama-mcp-client-sub000/messages"
	"github.com/mayanksingh09/ollama-mcp-client-sub000/tokens"
)

// importanceStrategy scores every message and greedily keeps the highest
// scoring ones that still fit the budget, then restores chronological order.
type importanceStrategy struct {
	est tokens.Estimator
}

func (s *importanceStrategy) Name() string { return StrategyImportance }

// scoreEntry computes the importance of one entry. The weights are part of
// the bridge's compatibility contract and must not be tuned casually:
// system role +100, linear recency up to +50, tool calls +30, error
// mentions +20, importance markers +25, length over 500 chars +10.
func scoreEntry(e messages.Entry, idx, total int) float64 {
	score := 0.0
	if e.Role == messages.RoleSystem {
		score += 100
	}
	if total > 1 {
		score += 50 * float64(idx) / float64(total-1)
	}
	if e.HasToolCalls() {
		score += 30
	}
	if strings.Contains(e.Content, "error") || strings.Contains(e.Content, "Error") {
		score += 20
	}
	if strings.Contains(e.Content, "important") || strings.Contains(e.Content, "critical") {
		score += 25
	}
	if len(e.Content) > 500 {
		score += 10
	}
	return score
}

func (s *importanceStrategy) Truncate(w Window) []messages.Entry {
	type scored struct {
		idx   int
		score float64
	}
	ranked := make([]scored, len(w.Entries))
	for i, e := range w.Entries {
		ranked[i] = scored{idx: i, score: scoreEntry(e, i, len(w.Entries))}
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		if ranked[a].score != ranked[b].score {
			return ranked[a].score > ranked[b].score
		}
		// Equal scores: prefer the newer message.
		return ranked[a].idx > ranked[b].idx
	})

	used := 0
	selected := make([]int, 0, len(ranked))
	for _, r := range ranked {
		cost := s.est.EstimateEntries([]messages.Entry{w.Entries[r.idx]})
		if used+cost > w.Budget {
			continue
		}
		used += cost
		selected = append(selected, r.idx)
	}

	sort.Ints(selected)
	result := make([]messages.Entry, 0, len(selected))
	for _, idx := range selected {
		result = append(result, w.Entries[idx])
	}
	return result
}

func (s *importanceStrategy) Summarize(entries []messages.Entry) messages.Entry {
	return summarizeSpan(entries)
}
