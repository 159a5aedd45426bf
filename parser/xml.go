package parser

import (
	"regexp"
	"strings"

	"github.com/goccy/go-json"

	"github.com/mayanksingh09/ollama-mcp-client-sub000/tool"
)

const (
	xmlToolCallConfidence = 0.85
	xmlFunctionConfidence = 0.8
)

// Models emit pseudo-XML fragments, frequently unbalanced or interleaved
// with prose, so these are regexp matches rather than an XML decoder.
var (
	xmlToolCallRe = regexp.MustCompile(`(?s)<tool_call>\s*<name>(.*?)</name>\s*<arguments>(.*?)</arguments>\s*</tool_call>`)
	xmlFunctionRe = regexp.MustCompile(`<function\s+name="([^"]+)"\s+args="([^"]*)"\s*/?>`)
	xmlParamRe    = regexp.MustCompile(`(?s)<param\s+name="([^"]+)">(.*?)</param>`)
)

var xmlUnescaper = strings.NewReplacer(
	"&quot;", `"`,
	"&lt;", "<",
	"&gt;", ">",
	"&amp;", "&",
)

// xmlStrategy reads <tool_call><name>..</name><arguments>..</arguments>
// blocks and self-closing <function name=".." args=".."> tags.
type xmlStrategy struct{}

func (s *xmlStrategy) Name() string { return "xml" }

func (s *xmlStrategy) CanParse(text string) bool {
	return strings.Contains(text, "<tool_call>") || strings.Contains(text, "<function ")
}

func (s *xmlStrategy) Parse(text string, catalog tool.Catalog) ([]ParsedCall, error) {
	var calls []ParsedCall

	for _, m := range xmlToolCallRe.FindAllStringSubmatch(text, -1) {
		name := strings.TrimSpace(m[1])
		if !catalog.Has(name) {
			continue
		}
		calls = append(calls, ParsedCall{
			ToolName:   name,
			Arguments:  xmlArguments(m[2]),
			Confidence: clamp01(xmlToolCallConfidence),
			RawMatch:   m[0],
		})
	}

	for _, m := range xmlFunctionRe.FindAllStringSubmatch(text, -1) {
		name := strings.TrimSpace(m[1])
		if !catalog.Has(name) {
			continue
		}
		args := map[string]any{}
		raw := xmlUnescaper.Replace(m[2])
		if err := json.Unmarshal([]byte(raw), &args); err != nil && raw != "" {
			args = map[string]any{"input": raw}
		}
		calls = append(calls, ParsedCall{
			ToolName:   name,
			Arguments:  args,
			Confidence: clamp01(xmlFunctionConfidence),
			RawMatch:   m[0],
		})
	}
	return calls, nil
}

// xmlArguments interprets an <arguments> body: JSON first, then nested
// <param> tags, then a bare string wrapped as input.
func xmlArguments(body string) map[string]any {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return map[string]any{}
	}

	args := map[string]any{}
	if err := json.Unmarshal([]byte(trimmed), &args); err == nil {
		return args
	}

	params := xmlParamRe.FindAllStringSubmatch(trimmed, -1)
	if len(params) > 0 {
		args = make(map[string]any, len(params))
		for _, p := range params {
			args[p[1]] = jsonOrString(strings.TrimSpace(p[2]))
		}
		return args
	}

	return map[string]any{"input": trimmed}
}

// jsonOrString attempts to read a value as JSON before falling back to the
// raw string.
func jsonOrString(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		return v
	}
	return raw
}
