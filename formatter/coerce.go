package formatter

import (
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/mayanksingh09/ollama-mcp-client-sub000/tool"
)

// coerce attempts a safe conversion of value to the declared type. The
// second return is false when conversion is impossible; the caller records
// that as a validation error, never a panic.
func (f *Formatter) coerce(value any, typ string) (any, bool) {
	// Integers skip the fast path: a float64 satisfies matchesType but may
	// still carry a fractional part.
	if typ == tool.TypeInteger {
		if n, ok := value.(float64); ok {
			return n, n == math.Trunc(n)
		}
	}
	if typ == "" || matchesType(value, typ) {
		return value, true
	}
	if f.strictTypes {
		return nil, false
	}

	switch typ {
	case tool.TypeNumber:
		return coerceNumber(value)
	case tool.TypeInteger:
		n, ok := coerceNumber(value)
		if !ok {
			return nil, false
		}
		if f, isFloat := n.(float64); isFloat && f != math.Trunc(f) {
			return nil, false
		}
		return n, true
	case tool.TypeString:
		return coerceString(value)
	case tool.TypeBoolean:
		return coerceBool(value)
	case tool.TypeArray:
		if s, ok := value.(string); ok {
			var arr []any
			if err := json.Unmarshal([]byte(s), &arr); err == nil {
				return arr, true
			}
		}
		return nil, false
	case tool.TypeObject:
		if s, ok := value.(string); ok {
			var obj map[string]any
			if err := json.Unmarshal([]byte(s), &obj); err == nil {
				return obj, true
			}
		}
		return nil, false
	default:
		return value, true
	}
}

func coerceNumber(value any) (any, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case bool:
		if v {
			return float64(1), true
		}
		return float64(0), true
	case string:
		if n, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return n, true
		}
		// JSON-parse then fallback: handles quoted or padded numerics.
		var n float64
		if err := json.Unmarshal([]byte(v), &n); err == nil {
			return n, true
		}
		return nil, false
	default:
		return nil, false
	}
}

func coerceString(value any) (any, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	case []any, map[string]any:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, false
		}
		return string(b), true
	default:
		return nil, false
	}
}

func coerceBool(value any) (any, bool) {
	switch v := value.(type) {
	case bool:
		return v, true
	case float64:
		return v != 0, true
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes", "1":
			return true, true
		case "false", "no", "0":
			return false, true
		}
		return nil, false
	default:
		return nil, false
	}
}
