package tool

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	def, err := New("get_weather",
		WithDescription("Get the current weather"),
		WithProperty("location", Property{Type: TypeString, Description: "City name"}, true),
		WithProperty("unit", Property{Type: TypeString, Enum: []any{"celsius", "fahrenheit"}}, false),
	)
	require.NoError(t, err)

	assert.Equal(t, "get_weather", def.Name)
	assert.Equal(t, "Get the current weather", def.Description)
	require.NotNil(t, def.InputSchema)
	assert.Len(t, def.InputSchema.Properties, 2)
	assert.True(t, def.InputSchema.IsRequired("location"))
	assert.False(t, def.InputSchema.IsRequired("unit"))

	t.Run("empty name rejected", func(t *testing.T) {
		_, err := New("")
		assert.Error(t, err)
	})

	t.Run("empty property name rejected", func(t *testing.T) {
		_, err := New("x", WithProperty("", Property{Type: TypeString}, false))
		assert.Error(t, err)
	})

	t.Run("required is not duplicated", func(t *testing.T) {
		def, err := New("x",
			WithProperty("p", Property{Type: TypeString}, true),
			WithProperty("p", Property{Type: TypeNumber}, true),
		)
		require.NoError(t, err)
		assert.Equal(t, []string{"p"}, def.InputSchema.Required)
	})
}

func TestCatalog(t *testing.T) {
	catalog := Catalog{
		Must(New("alpha")),
		Must(New("beta")),
	}

	got, ok := catalog.Find("beta")
	require.True(t, ok)
	assert.Equal(t, "beta", got.Name)

	_, ok = catalog.Find("gamma")
	assert.False(t, ok)

	assert.True(t, catalog.Has("alpha"))
	assert.Equal(t, []string{"alpha", "beta"}, catalog.Names())
}

func TestInputSchemaAllowsAdditional(t *testing.T) {
	var nilSchema *InputSchema
	assert.True(t, nilSchema.AllowsAdditional())
	assert.True(t, (&InputSchema{}).AllowsAdditional())
	assert.False(t, (&InputSchema{AdditionalProperties: Bool(false)}).AllowsAdditional())
}

func addNumbers(a float64, b float64) float64 { return a + b }

func TestFromFunction(t *testing.T) {
	def, err := FromFunction(addNumbers,
		WithName("add"),
		WithDescription("Add two numbers"),
		WithParameters("a", "b"),
	)
	require.NoError(t, err)

	assert.Equal(t, "add", def.Name)
	require.NotNil(t, def.InputSchema)
	require.Len(t, def.InputSchema.Properties, 2)
	assert.Equal(t, TypeNumber, def.InputSchema.Properties["a"].Type)
	assert.Equal(t, TypeNumber, def.InputSchema.Properties["b"].Type)
	assert.True(t, def.InputSchema.IsRequired("a"))
	assert.True(t, def.InputSchema.IsRequired("b"))

	t.Run("positional names by default", func(t *testing.T) {
		def, err := FromFunction(func(s string, n int, ok bool) {})
		require.NoError(t, err)
		assert.Equal(t, TypeString, def.InputSchema.Properties["param0"].Type)
		assert.Equal(t, TypeInteger, def.InputSchema.Properties["param1"].Type)
		assert.Equal(t, TypeBoolean, def.InputSchema.Properties["param2"].Type)
	})

	t.Run("slices become arrays", func(t *testing.T) {
		def, err := FromFunction(func(tags []string) {})
		require.NoError(t, err)
		p := def.InputSchema.Properties["param0"]
		assert.Equal(t, TypeArray, p.Type)
		require.NotNil(t, p.Items)
		assert.Equal(t, TypeString, p.Items.Type)
	})

	t.Run("non-function rejected", func(t *testing.T) {
		_, err := FromFunction(42)
		assert.Error(t, err)
	})

	t.Run("derives a name from the symbol", func(t *testing.T) {
		def, err := FromFunction(addNumbers)
		require.NoError(t, err)
		assert.NotEmpty(t, def.Name)
	})
}

type searchOptions struct {
	Query string `json:"query" jsonschema:"description=The search query"`
	Limit int    `json:"limit,omitempty"`
}

func TestObjectSchema(t *testing.T) {
	schema := ObjectSchema(reflect.TypeOf(searchOptions{}))
	require.NotNil(t, schema)
	require.Contains(t, schema.Properties, "query")
	assert.Equal(t, TypeString, schema.Properties["query"].Type)
	assert.Contains(t, schema.Properties, "limit")
	assert.Contains(t, schema.Required, "query")
}
