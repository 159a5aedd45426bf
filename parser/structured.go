package parser

import (
	"regexp"
	"strings"

	"github.com/goccy/go-json"

	"github.com/mayanksingh09/ollama-mcp-client-sub000/tool"
)

const (
	structuredActionConfidence = 0.75
	structuredToolConfidence   = 0.7
)

var (
	structuredActionRe = regexp.MustCompile(`(?m)^\s*Action:\s*([\w.\-]+)\s*\n\s*Action Input:\s*(.+)$`)
	structuredToolRe   = regexp.MustCompile(`(?m)^\s*Tool:\s*([\w.\-]+)\s*\n\s*Input:\s*(.+)$`)
)

// structuredStrategy reads ReAct-style "Action:/Action Input:" and
// "Tool:/Input:" pairs.
type structuredStrategy struct{}

func (s *structuredStrategy) Name() string { return "structured" }

func (s *structuredStrategy) CanParse(text string) bool {
	return strings.Contains(text, "Action:") ||
		(strings.Contains(text, "Tool:") && strings.Contains(text, "Input:"))
}

func (s *structuredStrategy) Parse(text string, catalog tool.Catalog) ([]ParsedCall, error) {
	var calls []ParsedCall
	for _, m := range structuredActionRe.FindAllStringSubmatch(text, -1) {
		if c, ok := structuredCall(m[1], m[2], m[0], structuredActionConfidence, catalog); ok {
			calls = append(calls, c)
		}
	}
	for _, m := range structuredToolRe.FindAllStringSubmatch(text, -1) {
		if c, ok := structuredCall(m[1], m[2], m[0], structuredToolConfidence, catalog); ok {
			calls = append(calls, c)
		}
	}
	return calls, nil
}

func structuredCall(name, input, rawMatch string, confidence float64, catalog tool.Catalog) (ParsedCall, bool) {
	name = strings.TrimSpace(name)
	if !catalog.Has(name) {
		return ParsedCall{}, false
	}
	return ParsedCall{
		ToolName:   name,
		Arguments:  structuredArguments(strings.TrimSpace(input)),
		Confidence: clamp01(confidence),
		RawMatch:   rawMatch,
	}, true
}

// structuredArguments reads an input line as JSON, then as comma-separated
// k:v pairs, then wraps the raw string.
func structuredArguments(input string) map[string]any {
	args := map[string]any{}
	if err := json.Unmarshal([]byte(input), &args); err == nil {
		return args
	}

	pairs := strings.Split(input, ",")
	kv := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		k, v, found := strings.Cut(pair, ":")
		if !found {
			kv = nil
			break
		}
		kv[strings.TrimSpace(k)] = jsonOrString(strings.TrimSpace(v))
	}
	if len(kv) > 0 {
		return kv
	}
	return map[string]any{"input": input}
}
