package contextwindow

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/mayanksingh09/ollama-mcp-client-sub000/messages"
)

// Strategy names, in registration order.
const (
	StrategySliding    = "sliding"
	StrategySummarize  = "summarize"
	StrategyImportance = "importance"
	StrategyHybrid     = "hybrid"
)

// Strategy reshapes an over-budget window. Implementations are pure over
// their input: they return new slices and never mutate the window's entries.
type Strategy interface {
	Name() string
	// Truncate returns a message list fitted to the window's budget.
	Truncate(w Window) []messages.Entry
	// Summarize collapses a span of entries into one synthetic system entry.
	Summarize(entries []messages.Entry) messages.Entry
}

// splitByRole partitions entries into system and non-system lists while
// remembering each non-system entry's original index.
func splitByRole(entries []messages.Entry) (systems []messages.Entry, rest []messages.Entry, restIdx []int) {
	for i, e := range entries {
		if e.Role == messages.RoleSystem {
			systems = append(systems, e)
		} else {
			rest = append(rest, e)
			restIdx = append(restIdx, i)
		}
	}
	return systems, rest, restIdx
}

// summarizeSpan is the shared summary builder: one synthetic system entry
// naming discussed topics and the tools used across the span.
func summarizeSpan(entries []messages.Entry) messages.Entry {
	topics := collectTopics(entries, 6)
	toolSet := map[string]struct{}{}
	for _, e := range entries {
		for _, c := range e.ToolCalls {
			toolSet[c.ToolName] = struct{}{}
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "[Conversation summary] %d earlier messages were condensed.", len(entries))
	if len(topics) > 0 {
		sb.WriteString(" Topics discussed: " + strings.Join(topics, ", ") + ".")
	}
	if len(toolSet) > 0 {
		names := make([]string, 0, len(toolSet))
		for n := range toolSet {
			names = append(names, n)
		}
		sort.Strings(names)
		sb.WriteString(" Tools used: " + strings.Join(names, ", ") + ".")
	}
	return messages.NewEntry(messages.RoleSystem, sb.String())
}

// collectTopics pulls up to max distinct significant words (six letters or
// longer) from the span, in first-seen order, as a cheap topic fingerprint.
func collectTopics(entries []messages.Entry, max int) []string {
	seen := map[string]struct{}{}
	var topics []string
	for _, e := range entries {
		for _, word := range strings.FieldsFunc(e.Content, func(r rune) bool {
			return !unicode.IsLetter(r)
		}) {
			if len(word) < 6 {
				continue
			}
			lowered := strings.ToLower(word)
			if _, ok := seen[lowered]; ok {
				continue
			}
			seen[lowered] = struct{}{}
			topics = append(topics, lowered)
			if len(topics) >= max {
				return topics
			}
		}
	}
	return topics
}
