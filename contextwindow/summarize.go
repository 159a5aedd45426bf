package contextwindow

import (
	"slices"

	"github.com/mayanksingh09/ollama-mcp-client-sub000/messages"
	"github.com/mayanksingh09/ollama-mcp-client-sub000/tokens"
)

// minSummarizable is the non-system message count below which summarization
// is a no-op; collapsing a tiny history loses more than it saves.
const minSummarizable = 4

// summarizeStrategy collapses the older ~70% of non-system history into one
// synthetic system message and keeps the recent ~30% verbatim.
type summarizeStrategy struct {
	est tokens.Estimator
}

func (s *summarizeStrategy) Name() string { return StrategySummarize }

func (s *summarizeStrategy) Truncate(w Window) []messages.Entry {
	systems, rest, _ := splitByRole(w.Entries)
	if len(rest) < minSummarizable {
		return slices.Clone(w.Entries)
	}

	split := len(rest) * 7 / 10
	old, recent := rest[:split], rest[split:]
	summary := s.Summarize(old)

	result := make([]messages.Entry, 0, len(systems)+1+len(recent))
	result = append(result, systems...)
	result = append(result, summary)
	result = append(result, recent...)
	return result
}

func (s *summarizeStrategy) Summarize(entries []messages.Entry) messages.Entry {
	return summarizeSpan(entries)
}
