package formatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mayanksingh09/ollama-mcp-client-sub000/parser"
	"github.com/mayanksingh09/ollama-mcp-client-sub000/tool"
)

func calcDef(t *testing.T) tool.Definition {
	t.Helper()
	return tool.Must(tool.New("calculator",
		tool.WithDescription("Calculate the result of arithmetic expressions"),
		tool.WithProperty("a", tool.Property{Type: tool.TypeNumber}, true),
		tool.WithProperty("b", tool.Property{Type: tool.TypeNumber}, true),
	))
}

func call(name string, args map[string]any) parser.ParsedCall {
	return parser.ParsedCall{ToolName: name, Arguments: args, Confidence: 0.9}
}

func TestValidateAndFormat(t *testing.T) {
	f, err := New()
	require.NoError(t, err)

	t.Run("valid call passes", func(t *testing.T) {
		out := f.ValidateAndFormat(call("calculator", map[string]any{"a": float64(5), "b": float64(3)}), calcDef(t))
		assert.True(t, out.Validated)
		assert.Empty(t, out.Errors)
	})

	t.Run("string numerics coerce", func(t *testing.T) {
		out := f.ValidateAndFormat(call("calculator", map[string]any{"a": "42", "b": " 3.5 "}), calcDef(t))
		require.True(t, out.Validated)
		assert.Equal(t, float64(42), out.Arguments["a"])
		assert.Equal(t, 3.5, out.Arguments["b"])
	})

	t.Run("bool coerces to number", func(t *testing.T) {
		out := f.ValidateAndFormat(call("calculator", map[string]any{"a": true, "b": false}), calcDef(t))
		require.True(t, out.Validated)
		assert.Equal(t, float64(1), out.Arguments["a"])
		assert.Equal(t, float64(0), out.Arguments["b"])
	})

	t.Run("unconvertible string is an error, not a panic", func(t *testing.T) {
		out := f.ValidateAndFormat(call("calculator", map[string]any{"a": "banana", "b": float64(1)}), calcDef(t))
		assert.False(t, out.Validated)
		require.Len(t, out.Errors, 1)
		assert.Contains(t, out.Errors[0], `property "a"`)
	})

	t.Run("missing required properties reported individually", func(t *testing.T) {
		out := f.ValidateAndFormat(call("calculator", map[string]any{}), calcDef(t))
		assert.False(t, out.Validated)
		assert.Len(t, out.Errors, 2)
	})

	t.Run("unknown property rejected when additionals are disallowed", func(t *testing.T) {
		def := calcDef(t)
		def.InputSchema.AdditionalProperties = tool.Bool(false)
		out := f.ValidateAndFormat(call("calculator", map[string]any{"a": float64(1), "b": float64(2), "mode": "fast"}), def)
		assert.False(t, out.Validated)
		require.Len(t, out.Errors, 1)
		assert.Contains(t, out.Errors[0], `"mode"`)
	})

	t.Run("unknown property tolerated by default", func(t *testing.T) {
		out := f.ValidateAndFormat(call("calculator", map[string]any{"a": float64(1), "b": float64(2), "mode": "fast"}), calcDef(t))
		assert.True(t, out.Validated)
	})

	t.Run("no schema passes through", func(t *testing.T) {
		def := tool.Must(tool.New("ping"))
		out := f.ValidateAndFormat(call("ping", map[string]any{"anything": 1}), def)
		assert.True(t, out.Validated)
	})

	t.Run("defaults fill absent optionals", func(t *testing.T) {
		def := tool.Must(tool.New("search",
			tool.WithProperty("query", tool.Property{Type: tool.TypeString}, true),
			tool.WithProperty("limit", tool.Property{Type: tool.TypeInteger, Default: float64(10)}, false),
		))
		out := f.ValidateAndFormat(call("search", map[string]any{"query": "go"}), def)
		require.True(t, out.Validated)
		assert.Equal(t, float64(10), out.Arguments["limit"])
	})
}

func TestValidateConstraints(t *testing.T) {
	f, err := New()
	require.NoError(t, err)

	t.Run("enum", func(t *testing.T) {
		def := tool.Must(tool.New("units",
			tool.WithProperty("unit", tool.Property{Type: tool.TypeString, Enum: []any{"celsius", "fahrenheit"}}, true),
		))
		ok := f.ValidateAndFormat(call("units", map[string]any{"unit": "celsius"}), def)
		assert.True(t, ok.Validated)

		bad := f.ValidateAndFormat(call("units", map[string]any{"unit": "kelvin"}), def)
		assert.False(t, bad.Validated)
	})

	t.Run("numeric range", func(t *testing.T) {
		def := tool.Must(tool.New("vol",
			tool.WithProperty("level", tool.Property{
				Type:    tool.TypeNumber,
				Minimum: tool.Float64(0),
				Maximum: tool.Float64(11),
			}, true),
		))
		bad := f.ValidateAndFormat(call("vol", map[string]any{"level": float64(12)}), def)
		assert.False(t, bad.Validated)
		assert.Contains(t, bad.Errors[0], "above maximum")
	})

	t.Run("string length and pattern", func(t *testing.T) {
		def := tool.Must(tool.New("code",
			tool.WithProperty("iso", tool.Property{
				Type:      tool.TypeString,
				MinLength: tool.Int(2),
				MaxLength: tool.Int(2),
				Pattern:   "^[A-Z]{2}$",
			}, true),
		))
		ok := f.ValidateAndFormat(call("code", map[string]any{"iso": "DE"}), def)
		assert.True(t, ok.Validated)

		bad := f.ValidateAndFormat(call("code", map[string]any{"iso": "deu"}), def)
		assert.False(t, bad.Validated)
		assert.Len(t, bad.Errors, 2, "length and pattern both reported")
	})

	t.Run("array item types", func(t *testing.T) {
		def := tool.Must(tool.New("tags",
			tool.WithProperty("names", tool.Property{
				Type:  tool.TypeArray,
				Items: &tool.Property{Type: tool.TypeString},
			}, true),
		))
		bad := f.ValidateAndFormat(call("tags", map[string]any{"names": []any{"a", float64(2)}}), def)
		assert.False(t, bad.Validated)
		assert.Contains(t, bad.Errors[0], "item 1")
	})
}

func TestStrictTypes(t *testing.T) {
	f, err := New(WithStrictTypes(true))
	require.NoError(t, err)

	out := f.ValidateAndFormat(call("calculator", map[string]any{"a": "42", "b": float64(1)}), calcDef(t))
	assert.False(t, out.Validated)
	assert.Contains(t, out.Errors[0], "cannot convert")
}

func TestFormatForMCP(t *testing.T) {
	f, err := New()
	require.NoError(t, err)

	_, err = f.FormatForMCP(call("calculator", map[string]any{"a": "x", "b": float64(1)}), calcDef(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed validation")

	out, err := f.FormatForMCP(call("calculator", map[string]any{"a": float64(1), "b": float64(2)}), calcDef(t))
	require.NoError(t, err)
	assert.True(t, out.Validated)
}

func TestFormatBatch(t *testing.T) {
	f, err := New()
	require.NoError(t, err)
	catalog := tool.Catalog{calcDef(t)}

	t.Run("unknown tool aborts", func(t *testing.T) {
		_, err := f.FormatBatch([]parser.ParsedCall{call("nope", nil)}, catalog)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnknownTool)
	})

	t.Run("partial validity is not an error", func(t *testing.T) {
		out, err := f.FormatBatch([]parser.ParsedCall{
			call("calculator", map[string]any{"a": float64(1), "b": float64(2)}),
			call("calculator", map[string]any{"a": "x", "b": float64(2)}),
		}, catalog)
		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.True(t, out[0].Validated)
		assert.False(t, out[1].Validated)
	})

	t.Run("all invalid is an error", func(t *testing.T) {
		out, err := f.FormatBatch([]parser.ParsedCall{
			call("calculator", map[string]any{"a": "x", "b": "y"}),
		}, catalog)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrAllInvalid)
		assert.Len(t, out, 1, "formatted calls still returned for diagnostics")
	})

	t.Run("empty batch", func(t *testing.T) {
		out, err := f.FormatBatch(nil, catalog)
		require.NoError(t, err)
		assert.Nil(t, out)
	})
}

func TestCoerceInteger(t *testing.T) {
	f, err := New()
	require.NoError(t, err)
	def := tool.Must(tool.New("page",
		tool.WithProperty("n", tool.Property{Type: tool.TypeInteger}, true),
	))

	out := f.ValidateAndFormat(call("page", map[string]any{"n": "7"}), def)
	require.True(t, out.Validated)
	assert.Equal(t, float64(7), out.Arguments["n"])

	frac := f.ValidateAndFormat(call("page", map[string]any{"n": 7.5}), def)
	assert.False(t, frac.Validated, "fractional values never silently truncate to integers")
}

func TestSuggestCorrections(t *testing.T) {
	f, err := New()
	require.NoError(t, err)

	def := tool.Must(tool.New("weather",
		tool.WithProperty("unit", tool.Property{
			Type: tool.TypeString,
			Enum: []any{"celsius", "fahrenheit"},
		}, false),
		tool.WithProperty("days", tool.Property{
			Type:    tool.TypeNumber,
			Minimum: tool.Float64(1),
			Maximum: tool.Float64(14),
		}, false),
		tool.WithProperty("format", tool.Property{Type: tool.TypeString, Default: "short"}, false),
	))

	suggestion := f.SuggestCorrections(call("weather", map[string]any{
		"unit": "Celsius",
		"days": float64(30),
	}), def)

	assert.Equal(t, "celsius", suggestion["unit"], "case-insensitive enum snap")
	assert.Equal(t, float64(14), suggestion["days"], "clamped to maximum")
	assert.Equal(t, "short", suggestion["format"], "default filled in")

	t.Run("near-miss enum snaps within edit distance two", func(t *testing.T) {
		s := f.SuggestCorrections(call("weather", map[string]any{"unit": "celsus"}), def)
		assert.Equal(t, "celsius", s["unit"])
	})

	t.Run("far values stay untouched", func(t *testing.T) {
		s := f.SuggestCorrections(call("weather", map[string]any{"unit": "kelvin"}), def)
		assert.Equal(t, "kelvin", s["unit"])
	})
}
