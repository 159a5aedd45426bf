package tokens

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mayanksingh09/ollama-mcp-client-sub000/messages"
)

func TestCharEstimatorEstimate(t *testing.T) {
	est := CharEstimator{}

	assert.Equal(t, 0, est.Estimate(""))
	assert.Equal(t, 1, est.Estimate("hi"), "non-empty text costs at least one token")
	assert.Equal(t, 10, est.Estimate(strings.Repeat("x", 40)))

	t.Run("custom ratio", func(t *testing.T) {
		halved := CharEstimator{CharsPerToken: 2}
		assert.Equal(t, 2, halved.Ratio())
		assert.Equal(t, 20, halved.Estimate(strings.Repeat("x", 40)))
	})

	t.Run("non-positive ratio falls back to four", func(t *testing.T) {
		assert.Equal(t, 4, CharEstimator{CharsPerToken: -1}.Ratio())
	})
}

func TestCharEstimatorEstimateEntries(t *testing.T) {
	est := CharEstimator{}

	entry := messages.NewEntry(messages.RoleUser, strings.Repeat("x", 40))
	assert.Equal(t, 14, est.EstimateEntries([]messages.Entry{entry}), "overhead plus content")

	t.Run("tool calls add their serialized size", func(t *testing.T) {
		withCall := entry
		withCall.ToolCalls = []messages.ToolCallRecord{
			messages.NewToolCallRecord("get_weather", map[string]any{"location": "Paris"}),
		}
		plain := est.EstimateEntries([]messages.Entry{entry})
		loaded := est.EstimateEntries([]messages.Entry{withCall})
		assert.Greater(t, loaded, plain)
	})

	t.Run("empty list", func(t *testing.T) {
		assert.Equal(t, 0, est.EstimateEntries(nil))
	})
}
