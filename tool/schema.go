package tool

// Property type names, matching JSON Schema's primitive vocabulary.
const (
	TypeString  = "string"
	TypeNumber  = "number"
	TypeInteger = "integer"
	TypeBoolean = "boolean"
	TypeArray   = "array"
	TypeObject  = "object"
)

// Property describes a single argument in a tool's input schema. Only the
// subset of JSON Schema the external protocol carries is modeled; anything
// else a server declares is ignored rather than rejected.
type Property struct {
	Type        string    `json:"type,omitempty"`
	Description string    `json:"description,omitempty"`
	Enum        []any     `json:"enum,omitempty"`
	Minimum     *float64  `json:"minimum,omitempty"`
	Maximum     *float64  `json:"maximum,omitempty"`
	MinLength   *int      `json:"minLength,omitempty"`
	MaxLength   *int      `json:"maxLength,omitempty"`
	Pattern     string    `json:"pattern,omitempty"`
	Items       *Property `json:"items,omitempty"`
	Default     any       `json:"default,omitempty"`
}

// InputSchema is the declared shape of a tool's arguments.
type InputSchema struct {
	Properties           map[string]Property `json:"properties,omitempty"`
	Required             []string            `json:"required,omitempty"`
	AdditionalProperties *bool               `json:"additionalProperties,omitempty"`
}

// IsRequired reports whether the named property appears in the Required list.
func (s *InputSchema) IsRequired(name string) bool {
	if s == nil {
		return false
	}
	for _, r := range s.Required {
		if r == name {
			return true
		}
	}
	return false
}

// AllowsAdditional reports whether properties outside Properties are
// permitted. JSON Schema's default is permissive, so a nil flag means yes.
func (s *InputSchema) AllowsAdditional() bool {
	if s == nil || s.AdditionalProperties == nil {
		return true
	}
	return *s.AdditionalProperties
}

// Float64 is a convenience for building Minimum/Maximum bounds inline.
func Float64(v float64) *float64 { return &v }

// Int is a convenience for building MinLength/MaxLength bounds inline.
func Int(v int) *int { return &v }

// Bool is a convenience for the AdditionalProperties flag.
func Bool(v bool) *bool { return &v }
