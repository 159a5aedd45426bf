// Package formatter validates and type-coerces parsed tool calls against
// their tools' declared schemas, producing calls ready for the external
// dispatch protocol.
//
// Validation never panics and never stops at the first problem: every
// violation in a call is collected as a distinct human-readable string so a
// self-correction prompt can list them all. Errors are raised only at the
// FormatForMCP/FormatBatch boundary, when there is no valid result to hand
// over at all.
package formatter

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/fogfish/opts"

	"github.com/mayanksingh09/ollama-mcp-client-sub000/parser"
	"github.com/mayanksingh09/ollama-mcp-client-sub000/pkg/slogx"
	"github.com/mayanksingh09/ollama-mcp-client-sub000/tool"
)

// ErrUnknownTool reports a call naming a tool absent from the catalog. That
// is a catalog/bridge desync, not a model quirk, so it is an error rather
// than a validation string.
var ErrUnknownTool = errors.New("unknown tool")

// ErrAllInvalid reports a batch in which no call validated.
var ErrAllInvalid = errors.New("no call in batch passed validation")

// FormattedCall is the terminal artifact handed to the dispatch layer.
type FormattedCall struct {
	ToolName  string         `json:"tool_name"`
	Arguments map[string]any `json:"arguments"`
	Validated bool           `json:"validated"`
	Errors    []string       `json:"errors,omitempty"`
}

// Formatter validates calls against tool schemas.
type Formatter struct {
	strictTypes bool
}

// Option configures a Formatter.
type Option = opts.Option[Formatter]

// WithStrictTypes disables type coercion: a string "42" against a number
// property becomes a validation error instead of 42.
func WithStrictTypes(v bool) Option {
	return opts.Type[Formatter](func(f *Formatter) error {
		f.strictTypes = v
		return nil
	})
}

// New builds a formatter. The default coerces where safely possible.
func New(options ...Option) (*Formatter, error) {
	f := &Formatter{}
	if err := opts.Apply(f, options); err != nil {
		return nil, err
	}
	return f, nil
}

// ValidateAndFormat checks a parsed call against the tool's schema,
// coercing argument types where safely possible. A tool without a schema
// passes its arguments through unchanged.
func (f *Formatter) ValidateAndFormat(call parser.ParsedCall, def tool.Definition) FormattedCall {
	out := FormattedCall{ToolName: def.Name}
	schema := def.InputSchema
	if schema == nil {
		out.Arguments = call.Arguments
		out.Validated = true
		return out
	}

	args := make(map[string]any, len(call.Arguments))
	for k, v := range call.Arguments {
		args[k] = v
	}

	for _, required := range schema.Required {
		if _, ok := args[required]; !ok {
			out.Errors = append(out.Errors, fmt.Sprintf("missing required property %q", required))
		}
	}

	for name, value := range args {
		prop, declared := schema.Properties[name]
		if !declared {
			if !schema.AllowsAdditional() {
				out.Errors = append(out.Errors, fmt.Sprintf("unknown property %q is not allowed", name))
			}
			continue
		}

		coerced, ok := f.coerce(value, prop.Type)
		if !ok {
			out.Errors = append(out.Errors, fmt.Sprintf("property %q: cannot convert %T to %s", name, value, prop.Type))
			continue
		}
		args[name] = coerced
		out.Errors = append(out.Errors, checkConstraints(name, coerced, prop)...)
	}

	// Declared defaults fill in for absent optional properties.
	for name, prop := range schema.Properties {
		if _, ok := args[name]; !ok && prop.Default != nil {
			args[name] = prop.Default
		}
	}

	out.Arguments = args
	out.Validated = len(out.Errors) == 0
	return out
}

// FormatForMCP validates one call and errors if validation fails.
func (f *Formatter) FormatForMCP(call parser.ParsedCall, def tool.Definition) (FormattedCall, error) {
	out := f.ValidateAndFormat(call, def)
	if !out.Validated {
		return out, fmt.Errorf("call to %s failed validation: %s", def.Name, strings.Join(out.Errors, "; "))
	}
	return out, nil
}

// FormatBatch validates many calls against the catalog. A call naming an
// unknown tool aborts immediately with ErrUnknownTool; otherwise every call
// is formatted, and an error is returned only when none validated.
func (f *Formatter) FormatBatch(calls []parser.ParsedCall, catalog tool.Catalog) ([]FormattedCall, error) {
	if len(calls) == 0 {
		return nil, nil
	}
	out := make([]FormattedCall, 0, len(calls))
	valid := 0
	for _, call := range calls {
		def, ok := catalog.Find(call.ToolName)
		if !ok {
			slog.Warn("call names a tool missing from the catalog", slogx.Tool(call.ToolName))
			return nil, fmt.Errorf("%w: %s", ErrUnknownTool, call.ToolName)
		}
		formatted := f.ValidateAndFormat(call, def)
		if formatted.Validated {
			valid++
		}
		out = append(out, formatted)
	}
	if valid == 0 {
		details := make([]string, 0, len(out))
		for _, fc := range out {
			details = append(details, fmt.Sprintf("%s: %s", fc.ToolName, strings.Join(fc.Errors, "; ")))
		}
		return out, fmt.Errorf("%w (%s)", ErrAllInvalid, strings.Join(details, " | "))
	}
	return out, nil
}

// checkConstraints applies enum, range, length, pattern and item checks to
// one already-coerced value.
func checkConstraints(name string, value any, prop tool.Property) []string {
	var errs []string

	if len(prop.Enum) > 0 && !enumContains(prop.Enum, value) {
		errs = append(errs, fmt.Sprintf("property %q: value %v is not one of the allowed values", name, value))
	}

	if n, ok := value.(float64); ok {
		if prop.Minimum != nil && n < *prop.Minimum {
			errs = append(errs, fmt.Sprintf("property %q: %v is below minimum %v", name, n, *prop.Minimum))
		}
		if prop.Maximum != nil && n > *prop.Maximum {
			errs = append(errs, fmt.Sprintf("property %q: %v is above maximum %v", name, n, *prop.Maximum))
		}
	}

	if s, ok := value.(string); ok {
		if prop.MinLength != nil && len(s) < *prop.MinLength {
			errs = append(errs, fmt.Sprintf("property %q: length %d is below minLength %d", name, len(s), *prop.MinLength))
		}
		if prop.MaxLength != nil && len(s) > *prop.MaxLength {
			errs = append(errs, fmt.Sprintf("property %q: length %d exceeds maxLength %d", name, len(s), *prop.MaxLength))
		}
		if prop.Pattern != "" {
			re, err := regexp.Compile(prop.Pattern)
			if err != nil {
				errs = append(errs, fmt.Sprintf("property %q: schema pattern %q does not compile", name, prop.Pattern))
			} else if !re.MatchString(s) {
				errs = append(errs, fmt.Sprintf("property %q: value does not match pattern %q", name, prop.Pattern))
			}
		}
	}

	if items, ok := value.([]any); ok && prop.Items != nil {
		for i, item := range items {
			if !matchesType(item, prop.Items.Type) {
				errs = append(errs, fmt.Sprintf("property %q: item %d is not of type %s", name, i, prop.Items.Type))
			}
		}
	}

	return errs
}

func enumContains(enum []any, value any) bool {
	for _, e := range enum {
		if fmt.Sprint(e) == fmt.Sprint(value) {
			return true
		}
	}
	return false
}

func matchesType(v any, typ string) bool {
	switch typ {
	case tool.TypeString:
		_, ok := v.(string)
		return ok
	case tool.TypeNumber, tool.TypeInteger:
		_, ok := v.(float64)
		return ok
	case tool.TypeBoolean:
		_, ok := v.(bool)
		return ok
	case tool.TypeArray:
		_, ok := v.([]any)
		return ok
	case tool.TypeObject:
		_, ok := v.(map[string]any)
		return ok
	default:
		return true
	}
}
