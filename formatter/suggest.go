package formatter

import (
	"strings"

	"github.com/mayanksingh09/ollama-mcp-client-sub000/parser"
	"github.com/mayanksingh09/ollama-mcp-client-sub000/tool"
)

// SuggestCorrections offers a best-effort repaired argument set for
// diagnostics and self-correction prompts: declared defaults are filled in,
// strings close to an enum member are snapped to it, and out-of-range
// numbers are clamped. The suggestion is advisory only; it is never
// substituted into a dispatched call.
func (f *Formatter) SuggestCorrections(call parser.ParsedCall, def tool.Definition) map[string]any {
	suggestion := make(map[string]any, len(call.Arguments))
	for k, v := range call.Arguments {
		suggestion[k] = v
	}
	schema := def.InputSchema
	if schema == nil {
		return suggestion
	}

	for name, prop := range schema.Properties {
		value, present := suggestion[name]
		if !present {
			if prop.Default != nil {
				suggestion[name] = prop.Default
			}
			continue
		}

		if coerced, ok := f.coerce(value, prop.Type); ok {
			value = coerced
			suggestion[name] = coerced
		}

		if s, ok := value.(string); ok && len(prop.Enum) > 0 && !enumContains(prop.Enum, s) {
			if snapped, ok := nearestEnum(s, prop.Enum); ok {
				suggestion[name] = snapped
			}
		}

		if n, ok := value.(float64); ok {
			if prop.Minimum != nil && n < *prop.Minimum {
				suggestion[name] = *prop.Minimum
			}
			if prop.Maximum != nil && n > *prop.Maximum {
				suggestion[name] = *prop.Maximum
			}
		}
	}
	return suggestion
}

// nearestEnum snaps a string to an enum member that matches
// case-insensitively or sits within edit distance two.
func nearestEnum(s string, enum []any) (any, bool) {
	lowered := strings.ToLower(s)
	for _, e := range enum {
		es, ok := e.(string)
		if !ok {
			continue
		}
		if strings.ToLower(es) == lowered {
			return e, true
		}
	}
	for _, e := range enum {
		es, ok := e.(string)
		if !ok {
			continue
		}
		if editDistance(lowered, strings.ToLower(es)) <= 2 {
			return e, true
		}
	}
	return nil, false
}

func editDistance(a, b string) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
