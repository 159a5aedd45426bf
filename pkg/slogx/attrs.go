package slogx

import (
	"fmt"
	"log/slog"
)

// Error returns a slog.Attr representing the provided error.
// The attribute key is "error" and the value is the error's message.
//
// Parameters:
//   - err: The error to be converted into a slog.Attr.
//
// Returns:
//   - slog.Attr: An attribute with the key "error" and the error's message as the value.
func Error(err error) slog.Attr {
	return slog.String("error", err.Error())
}

// Stringer creates a slog.Attr with the provided key and the string
// representation of the given fmt.Stringer value.
//
// Parameters:
//   - key: A string representing the key for the attribute.
//   - value: An object that implements the fmt.Stringer interface.
//
// Returns:
//   - slog.Attr: An attribute containing the key and the string representation of the value.
func Stringer(key string, value fmt.Stringer) slog.Attr {
	return slog.String(key, value.String())
}

// Tool creates a slog.Attr for a tool name. Tool-call log lines across the
// bridge use the same key so they can be correlated.
//
// Parameters:
//   - name: The name of the tool.
//
// Returns:
//
//	A slog.Attr containing the tool name under the key "tool".
func Tool(name string) slog.Attr {
	return slog.String("tool", name)
}

// Confidence creates a slog.Attr for a parser or decision confidence score.
//
// Parameters:
//   - score: The confidence value in [0,1].
//
// Returns:
//
//	A slog.Attr containing the score under the key "confidence".
func Confidence(score float64) slog.Attr {
	return slog.Float64("confidence", score)
}
