package tool

import (
	"fmt"
	"reflect"

	"github.com/fogfish/opts"
	"github.com/invopop/jsonschema"

	"github.com/mayanksingh09/ollama-mcp-client-sub000/pkg/reflectx"
	"github.com/mayanksingh09/ollama-mcp-client-sub000/pkg/stdx"
)

var structReflector = jsonschema.Reflector{
	AllowAdditionalProperties: true,
	DoNotReference:            true,
}

// FromFunction derives a tool definition from a Go function: each input
// parameter becomes a required schema property named "paramN" (rename them
// with WithParameters), typed from the Go type. Struct and map parameters
// are reflected into object schemas.
//
// The function itself is not retained; only its shape matters to the bridge,
// since dispatch happens in the external tool server.
func FromFunction(f any, options ...Option) (Definition, error) {
	if !reflectx.IsFunction(f) {
		return Definition{}, fmt.Errorf("provided value is not a function")
	}

	def := Definition{}
	if err := opts.Apply(&def, options); err != nil {
		return Definition{}, err
	}
	if def.Name == "" {
		def.Name = reflectx.FunctionName(f)
	}

	typ := reflect.TypeOf(f)
	schema := &InputSchema{Properties: make(map[string]Property)}
	for i := 0; i < typ.NumIn(); i++ {
		name := fmt.Sprintf("param%d", i)
		if def.Parameters != nil {
			if p, ok := def.Parameters[name]; ok {
				name = p
			}
		}
		schema.Properties[name] = propertyFromType(typ.In(i))
		schema.Required = append(schema.Required, name)
	}
	if len(schema.Properties) > 0 && def.InputSchema == nil {
		def.InputSchema = schema
	}
	return def, nil
}

// MustFromFunction wraps FromFunction and panics on error.
func MustFromFunction(f any, options ...Option) Definition {
	return stdx.Must1(FromFunction(f, options...))
}

func propertyFromType(t reflect.Type) Property {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return Property{Type: TypeString}
	case reflect.Bool:
		return Property{Type: TypeBoolean}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Property{Type: TypeInteger}
	case reflect.Float32, reflect.Float64:
		return Property{Type: TypeNumber}
	case reflect.Slice, reflect.Array:
		items := propertyFromType(t.Elem())
		return Property{Type: TypeArray, Items: &items}
	case reflect.Struct, reflect.Map:
		return objectProperty(t)
	default:
		return Property{Type: TypeObject}
	}
}

// objectProperty reflects a struct or map type through the jsonschema
// reflector and flattens the result into the bridge's schema subset.
func objectProperty(t reflect.Type) Property {
	reflected := structReflector.ReflectFromType(t)
	return fromJSONSchema(reflected)
}

func fromJSONSchema(s *jsonschema.Schema) Property {
	if s == nil {
		return Property{Type: TypeObject}
	}
	p := Property{
		Type:        s.Type,
		Description: s.Description,
		Pattern:     s.Pattern,
	}
	if p.Type == "" {
		p.Type = TypeObject
	}
	if len(s.Enum) > 0 {
		p.Enum = append([]any(nil), s.Enum...)
	}
	if s.Items != nil {
		items := fromJSONSchema(s.Items)
		p.Items = &items
	}
	return p
}

// ObjectSchema reflects a struct type into a full InputSchema, preserving
// the reflector's property order. Useful when a tool takes one options
// struct rather than positional parameters.
func ObjectSchema(t reflect.Type) *InputSchema {
	reflected := structReflector.ReflectFromType(t)
	schema := &InputSchema{Properties: make(map[string]Property)}
	if reflected.Properties != nil {
		for pair := reflected.Properties.Oldest(); pair != nil; pair = pair.Next() {
			schema.Properties[pair.Key] = fromJSONSchema(pair.Value)
		}
	}
	schema.Required = append(schema.Required, reflected.Required...)
	return schema
}
