package parser

import (
	"fmt"
	"strings"

	"github.com/mayanksingh09/ollama-mcp-client-sub000/tool"
)

// ParsedCall is one candidate tool invocation extracted from model text.
type ParsedCall struct {
	ToolName   string
	Arguments  map[string]any
	Confidence float64
	// RawMatch preserves the matched substring for provenance/debugging.
	RawMatch string
}

// Strategy is one way of reading tool calls out of text. CanParse is a cheap
// probe; Parse does the work. Strategies must be deterministic: the same
// text and catalog always yield the same candidates.
type Strategy interface {
	Name() string
	CanParse(text string) bool
	Parse(text string, catalog tool.Catalog) ([]ParsedCall, error)
}

// Parser runs the strategy chain in its fixed registration order.
type Parser struct {
	strategies []Strategy
	fallback   Strategy
}

// New builds a parser with the built-in chain: json, xml, markdown,
// structured, and the natural-language strategy as fallback.
func New() *Parser {
	return &Parser{
		strategies: []Strategy{
			&jsonStrategy{},
			&xmlStrategy{},
			&markdownStrategy{},
			&structuredStrategy{},
		},
		fallback: &naturalStrategy{},
	}
}

// Strategies returns the chain in order, fallback last, for diagnostics.
func (p *Parser) Strategies() []Strategy {
	out := append([]Strategy{}, p.strategies...)
	return append(out, p.fallback)
}

// Parse extracts candidates from text. The first strategy that claims the
// text and yields candidates wins; failures inside a strategy are caught,
// and an aggregate error surfaces only when every strategy that ran failed
// outright and nothing was extracted.
func (p *Parser) Parse(text string, catalog tool.Catalog) ([]ParsedCall, error) {
	var failures []error
	attempted := 0
	for _, s := range p.strategies {
		if !s.CanParse(text) {
			continue
		}
		attempted++
		calls, err := s.Parse(text, catalog)
		if err != nil {
			failures = append(failures, fmt.Errorf("%s: %w", s.Name(), err))
			continue
		}
		if len(calls) > 0 {
			return calls, nil
		}
	}

	attempted++
	calls, err := p.fallback.Parse(text, catalog)
	if err != nil {
		failures = append(failures, fmt.Errorf("%s: %w", p.fallback.Name(), err))
	}
	if len(calls) > 0 {
		return calls, nil
	}

	if len(failures) > 0 && len(failures) == attempted {
		return nil, &ParseError{Text: truncateText(text, 200), Failures: failures}
	}
	return calls, nil
}

// ParseError aggregates per-strategy failures when nothing could be
// extracted at all.
type ParseError struct {
	// Text holds the first 200 characters of the offending input.
	Text     string
	Failures []error
}

func (e *ParseError) Error() string {
	parts := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		parts[i] = f.Error()
	}
	return fmt.Sprintf("no strategy could parse %q: %s", e.Text, strings.Join(parts, "; "))
}

func (e *ParseError) Unwrap() []error { return e.Failures }

func truncateText(text string, max int) string {
	if len(text) <= max {
		return text
	}
	return text[:max]
}

// clamp01 confines a confidence score to [0,1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
