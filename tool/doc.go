// Package tool models the external tool catalog the bridge validates
// against: tool definitions, their JSON-Schema-like input shapes, and
// helpers for declaring tools from plain Go functions.
//
// The catalog is read-only input. Every parsing strategy and the decision
// engine filter candidate calls against it, which makes it the single
// authoritative guard against hallucinated tool names; the formatter then
// checks and coerces arguments against each definition's InputSchema.
//
// Tools can be declared two ways:
//
//	weather := tool.Must(tool.New("get_weather",
//		tool.WithDescription("Look up current weather"),
//		tool.WithProperty("location", tool.Property{Type: tool.TypeString}, true),
//	))
//
// or reflected from a function, where parameter schemas are derived from the
// Go types:
//
//	add := tool.MustFromFunction(func(a, b float64) float64 { return a + b },
//		tool.WithName("calculator"),
//		tool.WithParameters("a", "b"),
//	)
package tool
