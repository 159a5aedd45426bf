// Package injector folds tool results back into the conversation in a form
// the model can keep reasoning over: plain text, JSON, or XML, with a
// dedicated error rendering in each format.
//
// When given the running narrative, the injector looks for the model's last
// "thinking out loud" line and inserts a bounded results block right after
// it, so the model reads its own reasoning followed by the evidence; without
// a marker the results land at the end.
package injector

import (
	"fmt"
	"strings"

	"github.com/fogfish/opts"
	"github.com/tidwall/sjson"
)

// Format selects the rendering of injected results.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatXML  Format = "xml"
)

// Content item types, matching the external dispatcher's result shape.
const (
	ContentText     = "text"
	ContentImage    = "image"
	ContentResource = "resource"
)

// ContentItem is one piece of a tool result.
type ContentItem struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	MimeType string `json:"mime_type,omitempty"`
	URI      string `json:"uri,omitempty"`
}

// Result is the dispatcher's answer for one tool call. The bridge only
// consumes this shape; it never constructs results itself.
type Result struct {
	Content  []ContentItem  `json:"content"`
	IsError  bool           `json:"is_error,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

const (
	resultsBanner = "--- Tool Results ---"
	resultsFooter = "--- End Results ---"
	ellipsis      = "..."
)

// thinkingMarkers identify a line where the model was reasoning toward a
// tool use; results are merged immediately after the last such line.
var thinkingMarkers = []string{"thinking", "analyzing", "let me", "i will", "i'll", "i need to"}

// Injector renders tool results per its configuration.
type Injector struct {
	format            Format
	includeToolName   bool
	includeMetadata   bool
	preserveStructure bool
	maxTextLength     int
}

// Option configures an Injector.
type Option = opts.Option[Injector]

// WithFormat selects text, json or xml rendering.
func WithFormat(f Format) Option {
	return opts.Type[Injector](func(i *Injector) error {
		switch f {
		case FormatText, FormatJSON, FormatXML:
			i.format = f
			return nil
		default:
			return fmt.Errorf("unknown injection format %q", f)
		}
	})
}

// WithToolName toggles the [Tool: name] tag on text output.
func WithToolName(v bool) Option {
	return opts.Type[Injector](func(i *Injector) error {
		i.includeToolName = v
		return nil
	})
}

// WithMetadata toggles the trailing metadata line.
func WithMetadata(v bool) Option {
	return opts.Type[Injector](func(i *Injector) error {
		i.includeMetadata = v
		return nil
	})
}

// WithPreserveStructure appends results verbatim after a banner instead of
// searching the context for a merge point.
func WithPreserveStructure(v bool) Option {
	return opts.Type[Injector](func(i *Injector) error {
		i.preserveStructure = v
		return nil
	})
}

// WithMaxTextLength caps each rendered text item; longer text is truncated
// with an ellipsis marker.
func WithMaxTextLength(n int) Option {
	return opts.Type[Injector](func(i *Injector) error {
		if n <= 0 {
			return fmt.Errorf("max text length must be positive, got %d", n)
		}
		i.maxTextLength = n
		return nil
	})
}

// New builds an injector. Defaults: text format, tool-name tag on,
// metadata off, 4000-character text cap.
func New(options ...Option) (*Injector, error) {
	i := &Injector{
		format:          FormatText,
		includeToolName: true,
		maxTextLength:   4000,
	}
	if err := opts.Apply(i, options); err != nil {
		return nil, err
	}
	return i, nil
}

// InjectResult renders one tool result in the configured format.
func (i *Injector) InjectResult(result Result, toolName string) string {
	switch i.format {
	case FormatJSON:
		return i.renderJSON(result, toolName)
	case FormatXML:
		return i.renderXML(result, toolName)
	default:
		return i.renderText(result, toolName)
	}
}

// InjectBatch renders several results in order, separated by blank lines.
type BatchItem struct {
	ToolName string
	Result   Result
}

// InjectBatch renders each item and joins them.
func (i *Injector) InjectBatch(items []BatchItem) string {
	parts := make([]string, len(items))
	for idx, item := range items {
		parts[idx] = i.InjectResult(item.Result, item.ToolName)
	}
	return strings.Join(parts, "\n\n")
}

// InjectIntoContext merges a rendered result into the running narrative.
// With preserveStructure the result is appended verbatim after a banner;
// otherwise it is inserted as a bounded block right after the model's last
// thinking line, defaulting to the end when no marker is found.
func (i *Injector) InjectIntoContext(result Result, toolName, context string) string {
	rendered := i.InjectResult(result, toolName)
	if i.preserveStructure {
		return context + "\n" + resultsBanner + "\n" + rendered
	}

	block := resultsBanner + "\n" + rendered + "\n" + resultsFooter
	lines := strings.Split(context, "\n")
	insertAt := len(lines)
	for li := len(lines) - 1; li >= 0; li-- {
		lowered := strings.ToLower(lines[li])
		for _, marker := range thinkingMarkers {
			if strings.Contains(lowered, marker) {
				insertAt = li + 1
				break
			}
		}
		if insertAt != len(lines) {
			break
		}
	}

	merged := make([]string, 0, len(lines)+1)
	merged = append(merged, lines[:insertAt]...)
	merged = append(merged, block)
	merged = append(merged, lines[insertAt:]...)
	return strings.Join(merged, "\n")
}

func (i *Injector) renderText(result Result, toolName string) string {
	var sb strings.Builder
	if i.includeToolName {
		if result.IsError {
			fmt.Fprintf(&sb, "[Tool Error: %s]\n", toolName)
		} else {
			fmt.Fprintf(&sb, "[Tool: %s]\n", toolName)
		}
	} else if result.IsError {
		sb.WriteString("[Tool Error]\n")
	}

	for _, item := range result.Content {
		switch item.Type {
		case ContentImage:
			fmt.Fprintf(&sb, "[Image: %s]\n", item.MimeType)
		case ContentResource:
			fmt.Fprintf(&sb, "[Resource: %s]\n", item.URI)
			if item.Text != "" {
				sb.WriteString(i.truncate(item.Text) + "\n")
			}
		default:
			sb.WriteString(i.truncate(item.Text) + "\n")
		}
	}

	if i.includeMetadata && len(result.Metadata) > 0 {
		fmt.Fprintf(&sb, "Metadata: %v\n", result.Metadata)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// renderJSON builds the document incrementally so content items keep their
// order and truncation applies per item.
func (i *Injector) renderJSON(result Result, toolName string) string {
	doc := "{}"
	doc, _ = sjson.Set(doc, "tool", toolName)
	doc, _ = sjson.Set(doc, "is_error", result.IsError)
	for idx, item := range result.Content {
		prefix := fmt.Sprintf("content.%d.", idx)
		doc, _ = sjson.Set(doc, prefix+"type", item.Type)
		switch item.Type {
		case ContentImage:
			doc, _ = sjson.Set(doc, prefix+"mime_type", item.MimeType)
		case ContentResource:
			doc, _ = sjson.Set(doc, prefix+"uri", item.URI)
			if item.Text != "" {
				doc, _ = sjson.Set(doc, prefix+"text", i.truncate(item.Text))
			}
		default:
			doc, _ = sjson.Set(doc, prefix+"text", i.truncate(item.Text))
		}
	}
	if i.includeMetadata && len(result.Metadata) > 0 {
		doc, _ = sjson.Set(doc, "metadata", result.Metadata)
	}
	return doc
}

func (i *Injector) renderXML(result Result, toolName string) string {
	var sb strings.Builder
	tag := "tool_result"
	if result.IsError {
		tag = "tool_error"
	}
	fmt.Fprintf(&sb, "<%s tool=%q>\n", tag, toolName)
	for _, item := range result.Content {
		switch item.Type {
		case ContentImage:
			fmt.Fprintf(&sb, "  <image mime_type=%q/>\n", item.MimeType)
		case ContentResource:
			fmt.Fprintf(&sb, "  <resource uri=%q>%s</resource>\n", item.URI, escapeXML(i.truncate(item.Text)))
		default:
			fmt.Fprintf(&sb, "  <text>%s</text>\n", escapeXML(i.truncate(item.Text)))
		}
	}
	if i.includeMetadata && len(result.Metadata) > 0 {
		fmt.Fprintf(&sb, "  <metadata>%v</metadata>\n", result.Metadata)
	}
	fmt.Fprintf(&sb, "</%s>", tag)
	return sb.String()
}

func (i *Injector) truncate(text string) string {
	if len(text) <= i.maxTextLength {
		return text
	}
	return text[:i.maxTextLength] + ellipsis
}

func escapeXML(s string) string {
	return strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
	).Replace(s)
}
