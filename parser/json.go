package parser

import (
	"regexp"
	"strings"

	"github.com/goccy/go-json"
	"github.com/tidwall/gjson"

	"github.com/mayanksingh09/ollama-mcp-client-sub000/tool"
)

const jsonConfidence = 0.9

var (
	fencedJSONRe = regexp.MustCompile("(?s)```json\\s*(.*?)```")
	// inlineCallRe matches a {"tool_name": ...} object with at most one
	// level of nesting, enough for an inline arguments object.
	inlineCallRe = regexp.MustCompile(`\{(?:[^{}]|\{[^{}]*\})*"tool_name"(?:[^{}]|\{[^{}]*\})*\}`)
)

// jsonStrategy reads fenced ```json blocks (bare call objects, arrays of
// calls, or {"tool_calls": [...]} envelopes) plus inline
// {"tool_name": ...} fragments outside any fence.
type jsonStrategy struct{}

func (s *jsonStrategy) Name() string { return "json" }

func (s *jsonStrategy) CanParse(text string) bool {
	return strings.Contains(text, "```json") || strings.Contains(text, `"tool_name"`)
}

func (s *jsonStrategy) Parse(text string, catalog tool.Catalog) ([]ParsedCall, error) {
	var calls []ParsedCall

	remainder := text
	for _, block := range fencedJSONRe.FindAllStringSubmatch(text, -1) {
		calls = append(calls, callsFromJSON(block[1], catalog)...)
		remainder = strings.Replace(remainder, block[0], "", 1)
	}

	// Inline fragments only outside the fenced blocks, to avoid doubling up.
	for _, fragment := range inlineCallRe.FindAllString(remainder, -1) {
		calls = append(calls, callsFromJSON(fragment, catalog)...)
	}
	return calls, nil
}

// callsFromJSON interprets one JSON document as zero or more candidates.
func callsFromJSON(raw string, catalog tool.Catalog) []ParsedCall {
	doc := gjson.Parse(strings.TrimSpace(raw))
	switch {
	case doc.IsArray():
		var calls []ParsedCall
		doc.ForEach(func(_, elem gjson.Result) bool {
			if c, ok := callFromObject(elem, catalog); ok {
				calls = append(calls, c)
			}
			return true
		})
		return calls
	case doc.Get("tool_calls").IsArray():
		var calls []ParsedCall
		doc.Get("tool_calls").ForEach(func(_, elem gjson.Result) bool {
			if c, ok := callFromObject(elem, catalog); ok {
				calls = append(calls, c)
			}
			return true
		})
		return calls
	case doc.IsObject():
		if c, ok := callFromObject(doc, catalog); ok {
			return []ParsedCall{c}
		}
	}
	return nil
}

func callFromObject(obj gjson.Result, catalog tool.Catalog) (ParsedCall, bool) {
	name := obj.Get("tool_name").String()
	if name == "" {
		name = obj.Get("name").String()
	}
	if name == "" || !catalog.Has(name) {
		return ParsedCall{}, false
	}

	args := map[string]any{}
	for _, key := range []string{"arguments", "args", "parameters"} {
		if v := obj.Get(key); v.IsObject() {
			if err := json.Unmarshal([]byte(v.Raw), &args); err == nil {
				break
			}
		}
	}
	return ParsedCall{
		ToolName:   name,
		Arguments:  args,
		Confidence: clamp01(jsonConfidence),
		RawMatch:   obj.Raw,
	}, true
}
