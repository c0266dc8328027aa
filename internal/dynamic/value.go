// Package dynamic implements the dynamically typed value carried by loom
// scripts: variables, function arguments, module exports.
package dynamic

import (
	"fmt"
	"math"
	"strings"
)

// Kind is the runtime tag of a Value.
type Kind int

const (
	Unit Kind = iota
	Bool
	Int
	Float
	String
	Array
	Module
	Custom
)

var kindNames = [...]string{
	Unit:   "()",
	Bool:   "bool",
	Int:    "i64",
	Float:  "f64",
	String: "string",
	Array:  "array",
	Module: "module",
	Custom: "custom",
}

func (k Kind) String() string { return kindNames[k] }

// Namespace is implemented by module values embedded in a Value. The
// dynamic package cannot depend on the module package, so the tag check goes
// through this interface.
type Namespace interface {
	CloneNamespace() Namespace
}

// Value is a dynamically typed script value. The zero Value is unit.
type Value struct {
	val any
}

// ArrayValue is the backing type of array values.
type ArrayValue []Value

// UnitValue returns the unit value `()`.
func UnitValue() Value { return Value{} }

// From wraps a Go value. Integer and float widths are normalized to int64 and
// float64 so that type ids of script values stay canonical. Unsigned values
// above math.MaxInt64 do not fit an i64 and keep their Go type.
func From(v any) Value {
	switch x := v.(type) {
	case nil:
		return Value{}
	case Value:
		return x
	case *Value:
		if x == nil {
			return Value{}
		}
		return *x
	case int:
		return Value{int64(x)}
	case int8:
		return Value{int64(x)}
	case int16:
		return Value{int64(x)}
	case int32:
		return Value{int64(x)}
	case uint:
		if uint64(x) > math.MaxInt64 {
			return Value{x}
		}
		return Value{int64(x)}
	case uint8:
		return Value{int64(x)}
	case uint16:
		return Value{int64(x)}
	case uint32:
		return Value{int64(x)}
	case uint64:
		if x > math.MaxInt64 {
			return Value{x}
		}
		return Value{int64(x)}
	case float32:
		return Value{float64(x)}
	case []Value:
		return Value{ArrayValue(x)}
	default:
		return Value{v}
	}
}

func (v Value) Kind() Kind {
	switch v.val.(type) {
	case nil:
		return Unit
	case bool:
		return Bool
	case int64:
		return Int
	case float64:
		return Float
	case string:
		return String
	case ArrayValue:
		return Array
	case Namespace:
		return Module
	default:
		return Custom
	}
}

// Any returns the wrapped Go value, nil for unit.
func (v Value) Any() any { return v.val }

func (v Value) IsUnit() bool { return v.val == nil }

func (v Value) TypeID() TypeID { return TypeIDOf(v.val) }

// TypeName is the name shown to script authors.
func (v Value) TypeName() string {
	if k := v.Kind(); k != Custom {
		return k.String()
	}
	return v.TypeID().String()
}

// Clone copies arrays element by element and deep-copies embedded modules.
// Custom host values are shared.
func (v Value) Clone() Value {
	switch x := v.val.(type) {
	case ArrayValue:
		out := make(ArrayValue, len(x))
		for i, e := range x {
			out[i] = e.Clone()
		}
		return Value{out}
	case Namespace:
		return Value{x.CloneNamespace()}
	default:
		return v
	}
}

// Cast returns the wrapped value as T.
func Cast[T any](v Value) (T, bool) {
	t, ok := v.val.(T)
	return t, ok
}

// MustCast is Cast for callers that already checked the type id.
func MustCast[T any](v Value) T {
	t, ok := v.val.(T)
	if !ok {
		panic(fmt.Sprintf("dynamic: cannot cast %s to %s", v.TypeName(), TypeOf[T]()))
	}
	return t
}

func (v Value) AsBool() (bool, bool)           { return Cast[bool](v) }
func (v Value) AsInt() (int64, bool)           { return Cast[int64](v) }
func (v Value) AsFloat() (float64, bool)       { return Cast[float64](v) }
func (v Value) AsString() (string, bool)       { return Cast[string](v) }
func (v Value) AsArray() (ArrayValue, bool)    { return Cast[ArrayValue](v) }
func (v Value) AsNamespace() (Namespace, bool) { return Cast[Namespace](v) }

// Truthy reports whether v counts as true in a condition. Only booleans are
// accepted; the second result is false for any other kind.
func (v Value) Truthy() (bool, bool) {
	b, ok := v.val.(bool)
	return b, ok
}

// Equal compares two values structurally. Ints and floats compare by numeric
// value; modules and custom values compare by identity.
func Equal(a, b Value) bool {
	switch x := a.val.(type) {
	case nil:
		return b.val == nil
	case int64:
		switch y := b.val.(type) {
		case int64:
			return x == y
		case float64:
			return float64(x) == y
		}
		return false
	case float64:
		switch y := b.val.(type) {
		case float64:
			return x == y
		case int64:
			return x == float64(y)
		}
		return false
	case ArrayValue:
		y, ok := b.val.(ArrayValue)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	default:
		defer func() { _ = recover() }()
		return a.val == b.val
	}
}

func (v Value) String() string {
	switch x := v.val.(type) {
	case nil:
		return "()"
	case string:
		return x
	case ArrayValue:
		parts := make([]string, len(x))
		for i, e := range x {
			if s, ok := e.val.(string); ok {
				parts[i] = fmt.Sprintf("%q", s)
				continue
			}
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
