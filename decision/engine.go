package decision

import (
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/fogfish/opts"

	"github.com/mayanksingh09/ollama-mcp-client-sub000/messages"
	"github.com/mayanksingh09/ollama-mcp-client-sub000/parser"
	"github.com/mayanksingh09/ollama-mcp-client-sub000/pkg/jsonx"
	"github.com/mayanksingh09/ollama-mcp-client-sub000/pkg/slogx"
	"github.com/mayanksingh09/ollama-mcp-client-sub000/tool"
)

const (
	defaultThreshold = 0.5
	defaultMaxTools  = 3
	// chainPenalty discounts calls found after a connector word relative to
	// what they would score stand-alone.
	chainPenalty = 0.8
	// recentHistoryDepth bounds how far back the history bonus looks.
	recentHistoryDepth = 5
)

// chainConnectorRe splits model text at sequencing phrases. Longer
// alternatives come first so "and then" is not consumed as "then".
var chainConnectorRe = regexp.MustCompile(`(?i)\b(?:and then|after that|followed by|afterwards|then|next)\b`)

// Decision is the engine's verdict for one model response.
type Decision struct {
	// ShouldInvoke is true when the top candidate clears the threshold.
	ShouldInvoke bool
	// Calls is the ranked, deduplicated candidate list, best first.
	Calls []parser.ParsedCall
	// Reasoning is a human-readable account of the decision.
	Reasoning string
	// Confidence is the mean confidence of the selected calls.
	Confidence float64
}

// Observer is called with every produced decision; it replaces any ambient
// event emission so the engine stays callable without a process event bus.
type Observer func(Decision)

// Engine merges explicit parses with implicit intent detection and ranks
// the result. Not safe for concurrent use; one engine per session.
type Engine struct {
	parser          *parser.Parser
	threshold       float64
	maxTools        int
	requireExplicit bool
	enableChaining  bool
	observer        Observer
	usage           *usageHistory
}

// Option configures an Engine.
type Option = opts.Option[Engine]

// WithThreshold sets the minimum top-candidate confidence for ShouldInvoke.
func WithThreshold(v float64) Option {
	return opts.Type[Engine](func(e *Engine) error {
		if v < 0 || v > 1 {
			return fmt.Errorf("threshold must be in [0,1], got %v", v)
		}
		e.threshold = v
		return nil
	})
}

// WithMaxTools caps the number of ranked calls returned per decision.
func WithMaxTools(n int) Option {
	return opts.Type[Engine](func(e *Engine) error {
		if n <= 0 {
			return fmt.Errorf("max tools must be positive, got %d", n)
		}
		e.maxTools = n
		return nil
	})
}

// WithRequireExplicit short-circuits to "no invocation" when the parser
// finds no explicit call, disabling implicit-only invocations.
func WithRequireExplicit(v bool) Option {
	return opts.Type[Engine](func(e *Engine) error {
		e.requireExplicit = v
		return nil
	})
}

// WithChaining toggles connector-word chaining.
func WithChaining(v bool) Option {
	return opts.Type[Engine](func(e *Engine) error {
		e.enableChaining = v
		return nil
	})
}

// WithObserver registers a decision callback.
func WithObserver(fn Observer) Option {
	return opts.Type[Engine](func(e *Engine) error {
		e.observer = fn
		return nil
	})
}

// WithParser substitutes the response parser.
func WithParser(p *parser.Parser) Option {
	return opts.Type[Engine](func(e *Engine) error {
		e.parser = p
		return nil
	})
}

// NewEngine builds an engine with chaining enabled, threshold 0.5 and at
// most three calls per decision.
func NewEngine(options ...Option) (*Engine, error) {
	e := &Engine{
		parser:         parser.New(),
		threshold:      defaultThreshold,
		maxTools:       defaultMaxTools,
		enableChaining: true,
		usage:          newUsageHistory(),
	}
	if err := opts.Apply(e, options); err != nil {
		return nil, err
	}
	return e, nil
}

// UsageSnapshot returns recorded tool usage, most used first.
func (e *Engine) UsageSnapshot() []UsageStat {
	return e.usage.snapshot()
}

// candidate pairs a parsed call with its provenance for ranking and the
// reasoning string.
type candidate struct {
	call   parser.ParsedCall
	origin string // "explicit", "implicit" or "chained"
}

// AnalyzeResponse produces the ranked decision for one model response.
// Recent conversation entries may be supplied to inform the usage bonus;
// they are read, never modified.
func (e *Engine) AnalyzeResponse(text string, catalog tool.Catalog, history ...messages.Entry) Decision {
	explicit, err := e.parser.Parse(text, catalog)
	if err != nil {
		slog.Debug("response parse produced no candidates", slogx.Error(err))
	}
	if e.requireExplicit && len(explicit) == 0 {
		return e.finish(Decision{Reasoning: "no explicit tool call found and explicit calls are required"})
	}

	var cands []candidate
	for _, c := range explicit {
		cands = append(cands, candidate{call: c, origin: "explicit"})
	}
	cands = append(cands, e.implicitCandidates(text, catalog, history)...)
	if e.enableChaining {
		cands = append(cands, e.chainedCandidates(text, catalog)...)
	}

	ranked := e.rank(cands)
	if len(ranked) > e.maxTools {
		ranked = ranked[:e.maxTools]
	}

	d := Decision{}
	for _, c := range ranked {
		d.Calls = append(d.Calls, c.call)
		d.Confidence += c.call.Confidence
	}
	if len(ranked) > 0 {
		d.Confidence /= float64(len(ranked))
		d.ShouldInvoke = ranked[0].call.Confidence >= e.threshold
	}
	d.Reasoning = e.explain(ranked)

	for _, c := range ranked {
		e.usage.record(c.call.ToolName)
	}
	return e.finish(d)
}

func (e *Engine) finish(d Decision) Decision {
	slog.Debug("tool decision",
		slog.Bool("invoke", d.ShouldInvoke),
		slog.Int("candidates", len(d.Calls)),
		slogx.Confidence(d.Confidence),
	)
	if e.observer != nil {
		e.observer(d)
	}
	return d
}

// implicitCandidates scores every catalog tool against the text and admits
// those above the implicit threshold, with arguments inferred from the text
// plus schema defaults and required-field synthesis.
func (e *Engine) implicitCandidates(text string, catalog tool.Catalog, history []messages.Entry) []candidate {
	lowered := strings.ToLower(text)
	var cands []candidate
	for _, def := range catalog {
		score := scoreImplicit(lowered, def, e.usageBonus(def.Name, history))
		if score <= implicitThreshold {
			continue
		}
		args := parser.ExtractArguments(text, def)
		synthesizeArguments(args, def)
		cands = append(cands, candidate{
			call: parser.ParsedCall{
				ToolName:   def.Name,
				Arguments:  args,
				Confidence: score,
				RawMatch:   text,
			},
			origin: "implicit",
		})
	}
	return cands
}

// usageBonus combines the engine's own usage history with any supplied
// recent entries, capped at the documented maximum.
func (e *Engine) usageBonus(name string, history []messages.Entry) float64 {
	bonus := 0.05 * float64(e.usage.count(name))
	start := len(history) - recentHistoryDepth
	if start < 0 {
		start = 0
	}
	for _, entry := range history[start:] {
		for _, call := range entry.ToolCalls {
			if call.ToolName == name {
				bonus += 0.1
			}
		}
	}
	if bonus > maxUsageBonus {
		bonus = maxUsageBonus
	}
	return bonus
}

// synthesizeArguments fills declared defaults and zero-values for required
// properties an implicit candidate could not extract from the text.
func synthesizeArguments(args map[string]any, def tool.Definition) {
	if def.InputSchema == nil {
		return
	}
	for name, prop := range def.InputSchema.Properties {
		if _, ok := args[name]; ok {
			continue
		}
		if prop.Default != nil {
			args[name] = prop.Default
			continue
		}
		if !def.InputSchema.IsRequired(name) {
			continue
		}
		switch prop.Type {
		case tool.TypeNumber, tool.TypeInteger:
			args[name] = float64(0)
		case tool.TypeBoolean:
			args[name] = false
		case tool.TypeArray:
			args[name] = []any{}
		case tool.TypeObject:
			args[name] = map[string]any{}
		default:
			args[name] = ""
		}
	}
}

// chainedCandidates re-parses each text segment after a connector word and
// discounts whatever it finds.
func (e *Engine) chainedCandidates(text string, catalog tool.Catalog) []candidate {
	locs := chainConnectorRe.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}

	var cands []candidate
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		segment := text[loc[1]:end]
		calls, err := e.parser.Parse(segment, catalog)
		if err != nil {
			continue
		}
		for _, c := range calls {
			c.Confidence = clamp01(c.Confidence * chainPenalty)
			cands = append(cands, candidate{call: c, origin: "chained"})
		}
	}
	return cands
}

// rank deduplicates by (tool name, canonical arguments) keeping the higher
// confidence, then sorts by confidence descending with historical usage
// count breaking ties.
func (e *Engine) rank(cands []candidate) []candidate {
	best := map[string]candidate{}
	var order []string
	for _, c := range cands {
		key := c.call.ToolName + "\x00" + jsonx.Canonical(c.call.Arguments)
		old, seen := best[key]
		if !seen {
			order = append(order, key)
		}
		if !seen || c.call.Confidence > old.call.Confidence {
			best[key] = c
		}
	}

	ranked := make([]candidate, 0, len(order))
	for _, key := range order {
		ranked = append(ranked, best[key])
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		if ranked[a].call.Confidence != ranked[b].call.Confidence {
			return ranked[a].call.Confidence > ranked[b].call.Confidence
		}
		ua := e.usage.count(ranked[a].call.ToolName)
		ub := e.usage.count(ranked[b].call.ToolName)
		if ua != ub {
			return ua > ub
		}
		return ranked[a].call.ToolName < ranked[b].call.ToolName
	})
	return ranked
}

// explain builds the human-readable reasoning string.
func (e *Engine) explain(ranked []candidate) string {
	if len(ranked) == 0 {
		return "no tool invocation detected; responding conversationally"
	}
	parts := make([]string, len(ranked))
	for i, c := range ranked {
		parts[i] = fmt.Sprintf("%s (%.2f %s, %s)", c.call.ToolName, c.call.Confidence, tier(c.call.Confidence), c.origin)
	}
	verdict := "below"
	if ranked[0].call.Confidence >= e.threshold {
		verdict = "meets"
	}
	return fmt.Sprintf("%d candidate(s): %s; top confidence %s threshold %.2f",
		len(ranked), strings.Join(parts, ", "), verdict, e.threshold)
}

func tier(conf float64) string {
	switch {
	case conf >= 0.8:
		return "high"
	case conf >= 0.5:
		return "medium"
	default:
		return "low"
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
