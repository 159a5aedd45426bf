package jsonx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDynamicJSON(t *testing.T) {
	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	m, err := ToDynamicJSON(payload{Name: "x", Count: 2})
	require.NoError(t, err)
	assert.Equal(t, "x", m["name"])
	assert.Equal(t, float64(2), m["count"])

	t.Run("non-object input fails", func(t *testing.T) {
		_, err := ToDynamicJSON("just a string")
		assert.Error(t, err)
	})
}

func TestCanonical(t *testing.T) {
	t.Run("key order is deterministic", func(t *testing.T) {
		a := Canonical(map[string]any{"b": 1, "a": 2})
		assert.Equal(t, `{"a":2,"b":1}`, a)
	})

	t.Run("structural equality yields equal strings", func(t *testing.T) {
		a := Canonical(map[string]any{"loc": "Paris", "n": float64(3)})
		b := Canonical(map[string]any{"n": 3, "loc": "Paris"})
		assert.Equal(t, a, b, "ints normalize to float64 via JSON")
	})

	t.Run("nested values", func(t *testing.T) {
		s := Canonical(map[string]any{
			"outer": map[string]any{"z": true, "a": []any{1, "x"}},
		})
		assert.Equal(t, `{"outer":{"a":[1,"x"],"z":true}}`, s)
	})

	t.Run("nil and empty", func(t *testing.T) {
		assert.Equal(t, "{}", Canonical(map[string]any{}))
		assert.Equal(t, "null", Canonical(nil))
	})
}
