package tool

import (
	"fmt"

	"github.com/fogfish/opts"

	"github.com/mayanksingh09/ollama-mcp-client-sub000/pkg/stdx"
)

// Definition describes one externally declared tool: its name, description,
// and input schema. The bridge never mutates a definition; it is read-only
// catalog input revalidated on every call.
type Definition struct {
	Name        string
	Description string
	InputSchema *InputSchema

	// Parameters optionally renames positional parameters discovered by
	// FromFunction ("param0", "param1", ...) to meaningful names.
	Parameters map[string]string
}

// Option configures a Definition during construction.
type Option = opts.Option[Definition]

// WithName overrides the definition's name. Mostly useful with FromFunction,
// where the default name comes from the function symbol.
var WithName = opts.ForName[Definition, string]("Name")

// WithDescription sets the definition's description.
var WithDescription = opts.ForName[Definition, string]("Description")

// WithSchema sets the whole input schema at once.
var WithSchema = opts.ForName[Definition, *InputSchema]("InputSchema")

// WithProperty adds a single property to the input schema, creating the
// schema if needed, and marks it required when required is true.
func WithProperty(name string, p Property, required bool) Option {
	return opts.Type[Definition](func(d *Definition) error {
		if name == "" {
			return fmt.Errorf("property name cannot be empty")
		}
		if d.InputSchema == nil {
			d.InputSchema = &InputSchema{}
		}
		if d.InputSchema.Properties == nil {
			d.InputSchema.Properties = make(map[string]Property)
		}
		d.InputSchema.Properties[name] = p
		if required && !d.InputSchema.IsRequired(name) {
			d.InputSchema.Required = append(d.InputSchema.Required, name)
		}
		return nil
	})
}

// WithParameters assigns names to the positional parameters FromFunction
// discovers, in order.
func WithParameters(names ...string) Option {
	return opts.Type[Definition](func(d *Definition) error {
		d.Parameters = make(map[string]string, len(names))
		for i, n := range names {
			d.Parameters[fmt.Sprintf("param%d", i)] = n
		}
		return nil
	})
}

// New builds a tool definition with the given name and options.
func New(name string, options ...Option) (Definition, error) {
	if name == "" {
		return Definition{}, fmt.Errorf("tool name cannot be empty")
	}
	def := Definition{Name: name}
	if err := opts.Apply(&def, options); err != nil {
		return Definition{}, err
	}
	return def, nil
}

// Must wraps New and panics on error.
func Must(def Definition, err error) Definition {
	return stdx.Must1(def, err)
}

// Catalog is the ordered set of tools available for a turn.
type Catalog []Definition

// Find returns the definition with the given name, if present.
func (c Catalog) Find(name string) (Definition, bool) {
	for _, d := range c {
		if d.Name == name {
			return d, true
		}
	}
	return Definition{}, false
}

// Has reports whether a tool with the given name is in the catalog.
func (c Catalog) Has(name string) bool {
	_, ok := c.Find(name)
	return ok
}

// Names returns the tool names in catalog order.
func (c Catalog) Names() []string {
	names := make([]string, len(c))
	for i, d := range c {
		names[i] = d.Name
	}
	return names
}
