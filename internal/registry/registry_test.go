package registry

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	r := New[int]()

	_, ok := r.Get("a")
	assert.False(t, ok)

	r.Add("a", 1)
	got, ok := r.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, got)

	t.Run("add replaces", func(t *testing.T) {
		r.Add("a", 2)
		got, _ := r.Get("a")
		assert.Equal(t, 2, got)
	})

	t.Run("get or add", func(t *testing.T) {
		v, loaded := r.GetOrAdd("b", func() int { return 7 })
		assert.Equal(t, 7, v)
		assert.False(t, loaded)

		v, loaded = r.GetOrAdd("b", func() int { return 99 })
		assert.Equal(t, 7, v)
		assert.True(t, loaded)
	})

	t.Run("names", func(t *testing.T) {
		names := r.Names()
		sort.Strings(names)
		assert.Equal(t, []string{"a", "b"}, names)
	})

	t.Run("del", func(t *testing.T) {
		r.Del("a")
		_, ok := r.Get("a")
		assert.False(t, ok)
	})
}
