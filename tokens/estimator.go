// Package tokens estimates the token cost of text and conversation entries.
//
// The default estimator uses the common 1 token ≈ 4 characters heuristic.
// That is good enough to drive summarization thresholds and window trimming,
// but not for billing; hosts with a real tokenizer plug it in through the
// Estimator interface and every other component picks it up unchanged.
package tokens

import (
	"github.com/goccy/go-json"

	"github.com/mayanksingh09/ollama-mcp-client-sub000/messages"
)

// Estimator estimates token counts for raw text and conversation entries.
type Estimator interface {
	Estimate(text string) int
	EstimateEntries(entries []messages.Entry) int
}

// entryOverhead approximates the per-message cost of role markers and
// separators in a chat template.
const entryOverhead = 4

// CharEstimator estimates tokens using a characters-per-token ratio.
type CharEstimator struct {
	CharsPerToken int // defaults to 4 if zero or negative
}

var _ Estimator = CharEstimator{}

// Ratio returns the effective characters-per-token ratio.
func (e CharEstimator) Ratio() int {
	if e.CharsPerToken <= 0 {
		return 4
	}
	return e.CharsPerToken
}

// Estimate returns the approximate token count of text. Non-empty text
// always costs at least one token.
func (e CharEstimator) Estimate(text string) int {
	if len(text) == 0 {
		return 0
	}
	n := len(text) / e.Ratio()
	if n == 0 {
		n = 1
	}
	return n
}

// EstimateEntries sums the estimated cost of each entry: a fixed per-entry
// overhead, the content, and the serialized size of any tool-call records.
func (e CharEstimator) EstimateEntries(entries []messages.Entry) int {
	total := 0
	for _, entry := range entries {
		total += entryOverhead
		total += e.Estimate(entry.Content)
		for _, call := range entry.ToolCalls {
			if b, err := json.Marshal(call); err == nil {
				total += e.Estimate(string(b))
			}
		}
	}
	return total
}
