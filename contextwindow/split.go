package contextwindow

import (
	"github.com/mayanksingh09/ollama-mcp-client-sub000/messages"
)

// ContinuationMarker prefixes every part after the first produced by
// SplitMessage, so the model can tell a continuation from a fresh message.
const ContinuationMarker = "(continued) "

// SplitMessage chops one oversized entry into ordered parts, each sized to
// partBudget tokens, using the estimator's chars-per-token ratio. Parts
// after the first are prefixed with ContinuationMarker; concatenating the
// parts' contents minus the markers reconstructs the original exactly.
func (m *Manager) SplitMessage(entry messages.Entry, partBudget int) []messages.Entry {
	if partBudget <= 0 {
		return []messages.Entry{entry}
	}

	ratio := 4
	if r, ok := m.estimator.(interface{ Ratio() int }); ok {
		ratio = r.Ratio()
	}
	maxChars := partBudget * ratio
	if maxChars <= 0 || len(entry.Content) <= maxChars {
		return []messages.Entry{entry}
	}

	var chunks []string
	var current []rune
	size := 0
	for _, r := range entry.Content {
		current = append(current, r)
		size += len(string(r))
		if size >= maxChars {
			chunks = append(chunks, string(current))
			current, size = nil, 0
		}
	}
	if len(current) > 0 {
		chunks = append(chunks, string(current))
	}

	parts := make([]messages.Entry, 0, len(chunks))
	for i, chunk := range chunks {
		content := chunk
		if i > 0 {
			content = ContinuationMarker + chunk
		}
		part := messages.NewEntry(entry.Role, content)
		part.Metadata = entry.Metadata
		part.Tokens = m.estimator.EstimateEntries([]messages.Entry{part})
		parts = append(parts, part)
	}
	return parts
}
