package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/mayanksingh09/ollama-mcp-client-sub000/tool"
)

// ExtractArguments pulls argument values for a tool's declared properties
// out of free text. For each property it tries, in order: a quoted
// JSON-style pair, a "prop: value" or "prop = value" pair, and a
// "with prop value" phrase; the first hit is type-coerced per the property's
// declared type. Properties with no match are simply absent.
//
// The decision engine reuses this for implicit candidates, so it lives here
// next to the natural-language strategy that defines its behavior.
func ExtractArguments(text string, def tool.Definition) map[string]any {
	args := map[string]any{}
	if def.InputSchema == nil {
		return args
	}
	for name, prop := range def.InputSchema.Properties {
		raw, ok := findValue(text, name)
		if !ok {
			continue
		}
		args[name] = coerceExtracted(raw, prop.Type)
	}
	return args
}

func findValue(text, prop string) (string, bool) {
	quoted := regexp.MustCompile(fmt.Sprintf(`(?i)"%s"\s*:\s*"([^"]*)"`, regexp.QuoteMeta(prop)))
	if m := quoted.FindStringSubmatch(text); m != nil {
		return m[1], true
	}
	pairQuoted := regexp.MustCompile(fmt.Sprintf(`(?i)\b%s\s*[:=]\s*"([^"]*)"`, regexp.QuoteMeta(prop)))
	if m := pairQuoted.FindStringSubmatch(text); m != nil {
		return m[1], true
	}
	pair := regexp.MustCompile(fmt.Sprintf(`(?i)\b%s\s*[:=]\s*([^\s,.;]+)`, regexp.QuoteMeta(prop)))
	if m := pair.FindStringSubmatch(text); m != nil {
		return m[1], true
	}
	with := regexp.MustCompile(fmt.Sprintf(`(?i)\bwith\s+%s\s+([^\s,.;]+)`, regexp.QuoteMeta(prop)))
	if m := with.FindStringSubmatch(text); m != nil {
		return m[1], true
	}
	return "", false
}

// coerceExtracted converts a raw captured string to the property's declared
// type, keeping the string form when conversion fails; the formatter is the
// component that reports coercion problems.
func coerceExtracted(raw, typ string) any {
	switch typ {
	case tool.TypeNumber:
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f
		}
	case tool.TypeInteger:
		if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return float64(i)
		}
	case tool.TypeBoolean:
		if b, err := strconv.ParseBool(strings.ToLower(raw)); err == nil {
			return b
		}
	case tool.TypeArray, tool.TypeObject:
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err == nil {
			return v
		}
	}
	return raw
}
