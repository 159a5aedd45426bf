package jsonx

import (
	"sort"
	"strings"

	"github.com/goccy/go-json"
)

// ToDynamicJSON converts any Go value to a dynamic JSON object represented as
// a map[string]any. It first marshals the input value to JSON bytes and then
// unmarshals those bytes into a map. If either step fails, an error is returned.
//
// Parameters:
//   - val: The input value of any type to be converted to a dynamic JSON object.
//
// Returns:
//   - map[string]any: A map representing the dynamic JSON object.
//   - error: An error if the conversion fails, otherwise nil.
func ToDynamicJSON(val any) (map[string]any, error) {
	result := make(map[string]any)
	b, err := json.Marshal(val)
	if err != nil {
		return nil, err
	}
	if err = json.Unmarshal(b, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Canonical renders a value as deterministic JSON: object keys are emitted in
// sorted order at every nesting level, so two structurally equal values always
// produce the same string. It is used as the stable half of deduplication keys.
//
// Marshaling failures degrade to an empty object rather than an error, since
// callers use the result only as a comparison key.
func Canonical(val any) string {
	var sb strings.Builder
	writeCanonical(&sb, normalize(val))
	return sb.String()
}

// normalize round-trips val through JSON so that all maps become
// map[string]any and all numbers become float64, independent of the
// original Go types.
func normalize(val any) any {
	b, err := json.Marshal(val)
	if err != nil {
		return map[string]any{}
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return map[string]any{}
	}
	return out
}

func writeCanonical(sb *strings.Builder, val any) {
	switch v := val.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sb.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				sb.WriteByte(',')
			}
			kb, _ := json.Marshal(k)
			sb.Write(kb)
			sb.WriteByte(':')
			writeCanonical(sb, v[k])
		}
		sb.WriteByte('}')
	case []any:
		sb.WriteByte('[')
		for i, e := range v {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeCanonical(sb, e)
		}
		sb.WriteByte(']')
	default:
		b, err := json.Marshal(v)
		if err != nil {
			sb.WriteString("null")
			return
		}
		sb.Write(b)
	}
}
