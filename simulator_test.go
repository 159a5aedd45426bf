package bridge

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mayanksingh09/ollama-mcp-client-sub000/tool"
)

func demoCatalog(t *testing.T) tool.Catalog {
	t.Helper()
	return tool.Catalog{
		tool.Must(tool.New("get_weather",
			tool.WithDescription("Get the current weather for a location"),
			tool.WithProperty("location", tool.Property{Type: tool.TypeString}, true),
		)),
		tool.Must(tool.New("calculator",
			tool.WithDescription("Calculate the result of arithmetic expressions"),
			tool.WithProperty("a", tool.Property{Type: tool.TypeNumber}, true),
			tool.WithProperty("b", tool.Property{Type: tool.TypeNumber}, true),
		)),
	}
}

func TestBuildSystemPrompt(t *testing.T) {
	catalog := demoCatalog(t)

	t.Run("markdown default", func(t *testing.T) {
		sim, err := NewSimulator()
		require.NoError(t, err)

		prompt := sim.BuildSystemPrompt(catalog)
		assert.Contains(t, prompt, "get_weather")
		assert.Contains(t, prompt, "calculator")
		assert.Contains(t, prompt, "input schema")
		assert.Contains(t, prompt, "TOOL_CALL:")
		assert.Contains(t, prompt, "Example:", "few-shot examples on by default")
		assert.Contains(t, prompt, "Never invent tool names")
		assert.NotContains(t, prompt, "step by step")
	})

	t.Run("json syntax", func(t *testing.T) {
		sim, err := NewSimulator(WithSyntax(SyntaxJSON))
		require.NoError(t, err)
		prompt := sim.BuildSystemPrompt(catalog)
		assert.Contains(t, prompt, "```json")
		assert.NotContains(t, prompt, "TOOL_CALL:")
	})

	t.Run("xml syntax", func(t *testing.T) {
		sim, err := NewSimulator(WithSyntax(SyntaxXML))
		require.NoError(t, err)
		prompt := sim.BuildSystemPrompt(catalog)
		assert.Contains(t, prompt, "<tool_call>")
	})

	t.Run("chain of thought scaffold", func(t *testing.T) {
		sim, err := NewSimulator(WithChainOfThought(true))
		require.NoError(t, err)
		assert.Contains(t, sim.BuildSystemPrompt(catalog), "step by step")
	})

	t.Run("few-shot off", func(t *testing.T) {
		sim, err := NewSimulator(WithFewShot(false))
		require.NoError(t, err)
		assert.NotContains(t, sim.BuildSystemPrompt(catalog), "Example:")
	})

	t.Run("unknown syntax rejected", func(t *testing.T) {
		_, err := NewSimulator(WithSyntax(Syntax("yaml")))
		assert.Error(t, err)
	})
}

func TestPostProcess(t *testing.T) {
	catalog := demoCatalog(t)
	sim, err := NewSimulator()
	require.NoError(t, err)

	t.Run("canonical responses pass through untouched", func(t *testing.T) {
		text := "TOOL_CALL: calculator\nARGUMENTS: {\"a\": 5, \"b\": 3}"
		out, d := sim.PostProcess(text, catalog)
		assert.Equal(t, text, out)
		assert.True(t, d.ShouldInvoke)
	})

	t.Run("implicit invocation is normalized", func(t *testing.T) {
		text := "Use the calculator to add 5 and 3"
		out, d := sim.PostProcess(text, catalog)
		require.True(t, d.ShouldInvoke)
		assert.True(t, strings.HasPrefix(out, text))
		assert.Contains(t, out, "[Normalized tool calls]")
		assert.Contains(t, out, "TOOL_CALL: calculator")
	})

	t.Run("plain prose is untouched", func(t *testing.T) {
		text := "The Eiffel Tower is 330 metres tall."
		out, d := sim.PostProcess(text, catalog)
		assert.Equal(t, text, out)
		assert.False(t, d.ShouldInvoke)
	})
}

func TestSimulatorAccessors(t *testing.T) {
	sim, err := NewSimulator()
	require.NoError(t, err)
	assert.NotNil(t, sim.Engine())
	assert.NotNil(t, sim.Formatter())
	assert.NotNil(t, sim.Injector())
	assert.NotNil(t, sim.Manager())
}

func TestCatalogs(t *testing.T) {
	c := NewCatalogs()
	c.Register("weather", demoCatalog(t))
	c.Register("empty", nil)

	got, ok := c.Lookup("weather")
	require.True(t, ok)
	assert.True(t, got.Has("get_weather"))

	assert.Equal(t, []string{"empty", "weather"}, c.Names())

	c.Remove("empty")
	_, ok = c.Lookup("empty")
	assert.False(t, ok)
	assert.Equal(t, []string{"weather"}, c.Names())
}
