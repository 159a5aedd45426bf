package bridge

import (
	"fmt"
	"strings"

	"github.com/fogfish/opts"
	"github.com/goccy/go-json"

	"github.com/mayanksingh09/ollama-mcp-client-sub000/contextwindow"
	"github.com/mayanksingh09/ollama-mcp-client-sub000/decision"
	"github.com/mayanksingh09/ollama-mcp-client-sub000/formatter"
	"github.com/mayanksingh09/ollama-mcp-client-sub000/injector"
	"github.com/mayanksingh09/ollama-mcp-client-sub000/messages"
	"github.com/mayanksingh09/ollama-mcp-client-sub000/pkg/stdx"
	"github.com/mayanksingh09/ollama-mcp-client-sub000/tool"
)

// Syntax selects which canonical call syntax the simulator teaches the
// model. All three carry the parser's highest confidences; markdown is the
// default because small models reproduce it most reliably.
type Syntax string

const (
	SyntaxMarkdown Syntax = "markdown"
	SyntaxJSON     Syntax = "json"
	SyntaxXML      Syntax = "xml"
)

// Simulator is the top-level orchestrator: it builds the system prompt
// (tool catalog, call-syntax instructions, few-shot examples, optional
// chain-of-thought scaffold) and normalizes responses that implied a tool
// call without using canonical syntax.
type Simulator struct {
	engine         *decision.Engine
	formatter      *formatter.Formatter
	injector       *injector.Injector
	manager        *contextwindow.Manager
	syntax         Syntax
	fewShot        bool
	chainOfThought bool
}

// Option configures a Simulator.
type Option = opts.Option[Simulator]

// WithSyntax selects the canonical syntax taught in the system prompt.
func WithSyntax(s Syntax) Option {
	return opts.Type[Simulator](func(sim *Simulator) error {
		switch s {
		case SyntaxMarkdown, SyntaxJSON, SyntaxXML:
			sim.syntax = s
			return nil
		default:
			return fmt.Errorf("unknown call syntax %q", s)
		}
	})
}

// WithFewShot toggles few-shot examples in the system prompt.
func WithFewShot(v bool) Option {
	return opts.Type[Simulator](func(sim *Simulator) error {
		sim.fewShot = v
		return nil
	})
}

// WithChainOfThought adds a reasoning scaffold to the system prompt.
func WithChainOfThought(v bool) Option {
	return opts.Type[Simulator](func(sim *Simulator) error {
		sim.chainOfThought = v
		return nil
	})
}

// WithEngine substitutes the decision engine.
func WithEngine(e *decision.Engine) Option {
	return opts.Type[Simulator](func(sim *Simulator) error {
		sim.engine = e
		return nil
	})
}

// WithFormatter substitutes the call formatter.
func WithFormatter(f *formatter.Formatter) Option {
	return opts.Type[Simulator](func(sim *Simulator) error {
		sim.formatter = f
		return nil
	})
}

// WithInjector substitutes the result injector.
func WithInjector(i *injector.Injector) Option {
	return opts.Type[Simulator](func(sim *Simulator) error {
		sim.injector = i
		return nil
	})
}

// WithManager substitutes the context-window manager.
func WithManager(m *contextwindow.Manager) Option {
	return opts.Type[Simulator](func(sim *Simulator) error {
		sim.manager = m
		return nil
	})
}

// NewSimulator builds a simulator with default collaborators: markdown
// syntax, few-shot examples on, chain-of-thought off.
func NewSimulator(options ...Option) (*Simulator, error) {
	sim := &Simulator{
		syntax:  SyntaxMarkdown,
		fewShot: true,
	}
	if err := opts.Apply(sim, options); err != nil {
		return nil, err
	}
	if sim.engine == nil {
		sim.engine = stdx.Must1(decision.NewEngine())
	}
	if sim.formatter == nil {
		sim.formatter = stdx.Must1(formatter.New())
	}
	if sim.injector == nil {
		sim.injector = stdx.Must1(injector.New())
	}
	if sim.manager == nil {
		sim.manager = stdx.Must1(contextwindow.NewManager())
	}
	return sim, nil
}

// Engine returns the simulator's decision engine.
func (s *Simulator) Engine() *decision.Engine { return s.engine }

// Formatter returns the simulator's call formatter.
func (s *Simulator) Formatter() *formatter.Formatter { return s.formatter }

// Injector returns the simulator's result injector.
func (s *Simulator) Injector() *injector.Injector { return s.injector }

// Manager returns the simulator's context-window manager.
func (s *Simulator) Manager() *contextwindow.Manager { return s.manager }

// BuildSystemPrompt renders the prompt that teaches the model to call the
// catalog's tools using the configured canonical syntax.
func (s *Simulator) BuildSystemPrompt(catalog tool.Catalog) string {
	var sb strings.Builder
	sb.WriteString("You are a helpful assistant with access to the following tools.\n\n")
	sb.WriteString("Available tools:\n")
	for _, def := range catalog {
		fmt.Fprintf(&sb, "- %s: %s\n", def.Name, def.Description)
		if def.InputSchema != nil {
			if schema, err := json.Marshal(def.InputSchema); err == nil {
				fmt.Fprintf(&sb, "  input schema: %s\n", schema)
			}
		}
	}
	sb.WriteString("\n")
	sb.WriteString(s.syntaxInstructions())
	if s.fewShot {
		sb.WriteString("\n" + s.fewShotExamples())
	}
	if s.chainOfThought {
		sb.WriteString("\nBefore calling a tool, reason step by step about which tool fits " +
			"and what each argument should be. Keep the reasoning brief, then emit the call.\n")
	}
	sb.WriteString("\nIf no tool is needed, answer normally. Never invent tool names.\n")
	return sb.String()
}

func (s *Simulator) syntaxInstructions() string {
	switch s.syntax {
	case SyntaxJSON:
		return "To call a tool, reply with a fenced json block:\n" +
			"```json\n{\"tool_name\": \"<name>\", \"arguments\": {<args>}}\n```\n"
	case SyntaxXML:
		return "To call a tool, reply with:\n" +
			"<tool_call><name><name></name><arguments>{<args>}</arguments></tool_call>\n"
	default:
		return "To call a tool, reply with exactly two lines:\n" +
			"TOOL_CALL: <name>\nARGUMENTS: {<args as JSON>}\n"
	}
}

func (s *Simulator) fewShotExamples() string {
	switch s.syntax {
	case SyntaxJSON:
		return "Example:\nUser: What's the weather in Paris?\nAssistant:\n" +
			"```json\n{\"tool_name\": \"get_weather\", \"arguments\": {\"location\": \"Paris\"}}\n```\n"
	case SyntaxXML:
		return "Example:\nUser: What's the weather in Paris?\nAssistant:\n" +
			"<tool_call><name>get_weather</name><arguments>{\"location\": \"Paris\"}</arguments></tool_call>\n"
	default:
		return "Example:\nUser: What's the weather in Paris?\nAssistant:\n" +
			"TOOL_CALL: get_weather\nARGUMENTS: {\"location\": \"Paris\"}\n"
	}
}

// PostProcess analyzes a raw model response. When the response implies a
// tool call but used no canonical syntax, the detected calls are appended
// in canonical TOOL_CALL form so the normalized turn can be re-fed or
// logged; the decision is returned either way.
func (s *Simulator) PostProcess(text string, catalog tool.Catalog, history ...messages.Entry) (string, decision.Decision) {
	d := s.engine.AnalyzeResponse(text, catalog, history...)
	if !d.ShouldInvoke || hasCanonicalSyntax(text) {
		return text, d
	}

	var sb strings.Builder
	sb.WriteString(text)
	sb.WriteString("\n\n[Normalized tool calls]\n")
	for _, call := range d.Calls {
		args, err := json.Marshal(call.Arguments)
		if err != nil {
			args = []byte("{}")
		}
		fmt.Fprintf(&sb, "TOOL_CALL: %s\nARGUMENTS: %s\n", call.ToolName, args)
	}
	return sb.String(), d
}

// hasCanonicalSyntax reports whether text already contains one of the
// high-confidence call syntaxes.
func hasCanonicalSyntax(text string) bool {
	return strings.Contains(text, "```json") ||
		strings.Contains(text, "TOOL_CALL:") ||
		strings.Contains(text, "<tool_call>")
}
