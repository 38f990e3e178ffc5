package cond

import (
	"reflect"
)

// TypeOf returns the declared value type for T.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}

// IsInstanceOf reports whether v may be assigned to an attribute declared
// with type t. Nil values are always accepted. A pointer to an assignable
// value is accepted as well.
func IsInstanceOf(t reflect.Type, v any) bool {
	if v == nil {
		return true
	}
	if t == nil {
		return false
	}
	vt := reflect.TypeOf(v)
	if vt.AssignableTo(t) {
		return true
	}
	return vt.Kind() == reflect.Pointer && vt.Elem().AssignableTo(t)
}

// typeName is the short name of a declared type, e.g. "string" or "Time".
func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	if name := t.Name(); name != "" {
		return name
	}
	return t.String()
}
