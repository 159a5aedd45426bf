package reflectx

import (
	"reflect"
	"runtime"
	"strings"
)

// IsFunction reports whether the provided value is a function.
func IsFunction(fn any) bool {
	if fn == nil {
		return false
	}
	return reflect.TypeOf(fn).Kind() == reflect.Func
}

// FunctionName resolves a human-readable name for a function value.
// Named function types report their type name; plain functions and methods
// report the trailing element of their runtime symbol with any method-value
// suffix stripped. Non-functions report the empty string.
func FunctionName(fn any) string {
	if !IsFunction(fn) {
		return ""
	}

	val := reflect.ValueOf(fn)
	typ := val.Type()

	if typ.Name() != "" {
		return typ.String()
	}

	rf := runtime.FuncForPC(val.Pointer())
	if rf == nil {
		return typ.String()
	}
	name := rf.Name()
	if lastDot := strings.LastIndex(name, "."); lastDot >= 0 {
		name = strings.TrimSuffix(name[lastDot+1:], "-fm")
	}
	return name
}
