package parser

import (
	"regexp"
	"strings"

	"github.com/goccy/go-json"

	"github.com/mayanksingh09/ollama-mcp-client-sub000/tool"
)

const (
	markdownLineConfidence = 0.9
	markdownBoldConfidence = 0.85
)

var (
	markdownLineRe = regexp.MustCompile(`(?m)^\s*TOOL_CALL:\s*([\w.\-]+)\s*\n\s*ARGUMENTS:\s*(\{[^\n]*\})\s*$`)
	markdownBoldRe = regexp.MustCompile("(?s)\\*\\*Tool:\\*\\*\\s*([\\w.\\-]+).*?\\*\\*Arguments:\\*\\*\\s*```(?:json)?\\s*(.*?)```")
)

// markdownStrategy reads TOOL_CALL:/ARGUMENTS: line pairs and
// **Tool:**/**Arguments:** blocks.
type markdownStrategy struct{}

func (s *markdownStrategy) Name() string { return "markdown" }

func (s *markdownStrategy) CanParse(text string) bool {
	return strings.Contains(text, "TOOL_CALL:") || strings.Contains(text, "**Tool:**")
}

func (s *markdownStrategy) Parse(text string, catalog tool.Catalog) ([]ParsedCall, error) {
	var calls []ParsedCall

	for _, m := range markdownLineRe.FindAllStringSubmatch(text, -1) {
		if c, ok := markdownCall(m[1], m[2], m[0], markdownLineConfidence, catalog); ok {
			calls = append(calls, c)
		}
	}
	for _, m := range markdownBoldRe.FindAllStringSubmatch(text, -1) {
		if c, ok := markdownCall(m[1], m[2], m[0], markdownBoldConfidence, catalog); ok {
			calls = append(calls, c)
		}
	}
	return calls, nil
}

func markdownCall(name, rawArgs, rawMatch string, confidence float64, catalog tool.Catalog) (ParsedCall, bool) {
	name = strings.TrimSpace(name)
	if !catalog.Has(name) {
		return ParsedCall{}, false
	}
	args := map[string]any{}
	// Unparseable argument JSON degrades to an empty argument set; the
	// formatter reports the missing required fields downstream.
	_ = json.Unmarshal([]byte(strings.TrimSpace(rawArgs)), &args)
	return ParsedCall{
		ToolName:   name,
		Arguments:  args,
		Confidence: clamp01(confidence),
		RawMatch:   rawMatch,
	}, true
}
