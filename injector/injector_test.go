package injector

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func textResult(text string) Result {
	return Result{Content: []ContentItem{{Type: ContentText, Text: text}}}
}

func TestInjectResultText(t *testing.T) {
	i, err := New()
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		out := i.InjectResult(textResult("18°C, partly cloudy"), "get_weather")
		assert.Equal(t, "[Tool: get_weather]\n18°C, partly cloudy", out)
	})

	t.Run("error result", func(t *testing.T) {
		r := textResult("location not found")
		r.IsError = true
		out := i.InjectResult(r, "get_weather")
		assert.Equal(t, "[Tool Error: get_weather]\nlocation not found", out)
	})

	t.Run("image and resource items", func(t *testing.T) {
		r := Result{Content: []ContentItem{
			{Type: ContentImage, MimeType: "image/png"},
			{Type: ContentResource, URI: "file:///tmp/report.txt", Text: "report body"},
		}}
		out := i.InjectResult(r, "reader")
		assert.Contains(t, out, "[Image: image/png]")
		assert.Contains(t, out, "[Resource: file:///tmp/report.txt]")
		assert.Contains(t, out, "report body")
	})

	t.Run("without tool name", func(t *testing.T) {
		bare, err := New(WithToolName(false))
		require.NoError(t, err)
		out := bare.InjectResult(textResult("42"), "calculator")
		assert.Equal(t, "42", out)
	})

	t.Run("metadata line", func(t *testing.T) {
		withMeta, err := New(WithMetadata(true))
		require.NoError(t, err)
		r := textResult("42")
		r.Metadata = map[string]any{"elapsed_ms": 3}
		out := withMeta.InjectResult(r, "calculator")
		assert.Contains(t, out, "Metadata:")
	})
}

func TestInjectResultJSON(t *testing.T) {
	i, err := New(WithFormat(FormatJSON))
	require.NoError(t, err)

	r := Result{
		Content: []ContentItem{
			{Type: ContentText, Text: "sunny"},
			{Type: ContentImage, MimeType: "image/jpeg"},
		},
	}
	out := i.InjectResult(r, "get_weather")

	doc := gjson.Parse(out)
	assert.Equal(t, "get_weather", doc.Get("tool").String())
	assert.False(t, doc.Get("is_error").Bool())
	assert.Equal(t, "sunny", doc.Get("content.0.text").String())
	assert.Equal(t, "image/jpeg", doc.Get("content.1.mime_type").String())
}

func TestInjectResultXML(t *testing.T) {
	i, err := New(WithFormat(FormatXML))
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		out := i.InjectResult(textResult("a < b"), "compare")
		assert.Contains(t, out, `<tool_result tool="compare">`)
		assert.Contains(t, out, "<text>a &lt; b</text>")
		assert.Contains(t, out, "</tool_result>")
	})

	t.Run("error uses its own tag", func(t *testing.T) {
		r := textResult("boom")
		r.IsError = true
		out := i.InjectResult(r, "compare")
		assert.Contains(t, out, `<tool_error tool="compare">`)
	})
}

func TestTruncation(t *testing.T) {
	i, err := New(WithMaxTextLength(10))
	require.NoError(t, err)

	out := i.InjectResult(textResult("0123456789abcdef"), "reader")
	assert.Contains(t, out, "0123456789...")
	assert.NotContains(t, out, "abcdef")
}

func TestInjectBatch(t *testing.T) {
	i, err := New()
	require.NoError(t, err)

	out := i.InjectBatch([]BatchItem{
		{ToolName: "calculator", Result: textResult("8")},
		{ToolName: "get_weather", Result: textResult("sunny")},
	})
	parts := strings.Split(out, "\n\n")
	require.Len(t, parts, 2)
	assert.Contains(t, parts[0], "calculator")
	assert.Contains(t, parts[1], "get_weather")
}

func TestInjectIntoContext(t *testing.T) {
	i, err := New()
	require.NoError(t, err)

	t.Run("after the last thinking line", func(t *testing.T) {
		context := "Let me check the weather.\nHere is what I know so far."
		out := i.InjectIntoContext(textResult("sunny"), "get_weather", context)

		lines := strings.Split(out, "\n")
		require.Greater(t, len(lines), 3)
		assert.Equal(t, "Let me check the weather.", lines[0])
		assert.Equal(t, "--- Tool Results ---", lines[1])
		assert.Equal(t, "Here is what I know so far.", lines[len(lines)-1])
		assert.Contains(t, out, "--- End Results ---")
	})

	t.Run("defaults to the end without a marker", func(t *testing.T) {
		context := "Final answer coming up."
		out := i.InjectIntoContext(textResult("8"), "calculator", context)
		assert.True(t, strings.HasPrefix(out, "Final answer coming up.\n--- Tool Results ---"))
	})

	t.Run("preserve structure appends verbatim", func(t *testing.T) {
		p, err := New(WithPreserveStructure(true))
		require.NoError(t, err)
		out := p.InjectIntoContext(textResult("8"), "calculator", "context body")
		assert.True(t, strings.HasPrefix(out, "context body\n--- Tool Results ---\n"))
		assert.NotContains(t, out, "--- End Results ---")
	})
}

func TestUnknownFormatRejected(t *testing.T) {
	_, err := New(WithFormat(Format("yaml")))
	assert.Error(t, err)
}

func TestStreamAccumulator(t *testing.T) {
	a := NewStreamAccumulator()
	a.Add("search", "partial resu")
	a.Add("search", "lts here")
	a.Add("summarize", "a summary")

	partial := a.Partial()
	assert.Contains(t, partial, "[Streaming from: search]\npartial results here")
	assert.Contains(t, partial, "[Streaming from: summarize]\na summary")
	assert.Equal(t, partial, a.Partial(), "Partial does not consume")

	final := a.Finalize()
	assert.Equal(t, partial, final)
	assert.Empty(t, a.Partial(), "Finalize resets")
}
