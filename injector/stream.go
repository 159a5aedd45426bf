package injector

import (
	"fmt"
	"strings"
)

// StreamAccumulator collects result chunks arriving incrementally from one
// or more tools, inserting a marker whenever the active tool changes.
// Partial reads are non-destructive; Finalize returns everything and resets.
type StreamAccumulator struct {
	sb       strings.Builder
	lastTool string
}

// NewStreamAccumulator returns an empty accumulator.
func NewStreamAccumulator() *StreamAccumulator {
	return &StreamAccumulator{}
}

// Add appends a chunk attributed to toolName, preceding it with a
// [Streaming from: X] marker when the tool changed since the last chunk.
func (a *StreamAccumulator) Add(toolName, chunk string) {
	if toolName != a.lastTool {
		if a.sb.Len() > 0 {
			a.sb.WriteByte('\n')
		}
		fmt.Fprintf(&a.sb, "[Streaming from: %s]\n", toolName)
		a.lastTool = toolName
	}
	a.sb.WriteString(chunk)
}

// Partial returns the accumulated text so far without consuming it.
func (a *StreamAccumulator) Partial() string {
	return a.sb.String()
}

// Finalize returns the accumulated text and resets the accumulator.
func (a *StreamAccumulator) Finalize() string {
	out := a.sb.String()
	a.sb.Reset()
	a.lastTool = ""
	return out
}
