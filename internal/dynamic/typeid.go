package dynamic

import "reflect"

// TypeID identifies the runtime type of a value. Native function parameter
// lists and type iterators are keyed by it.
type TypeID struct {
	t reflect.Type
}

// TypeOf returns the TypeID of T.
func TypeOf[T any]() TypeID {
	return TypeID{t: reflect.TypeFor[T]()}
}

// TypeIDOf returns the TypeID of a Go value; nil maps to the unit type.
func TypeIDOf(v any) TypeID {
	if v == nil {
		return TypeID{}
	}
	return TypeID{t: reflect.TypeOf(v)}
}

func (id TypeID) IsUnit() bool { return id.t == nil }

// Key is the stable textual form fed to the qualifier hash.
func (id TypeID) Key() string {
	if id.t == nil {
		return "()"
	}
	if id.t.Name() != "" && id.t.PkgPath() != "" {
		return id.t.PkgPath() + "." + id.t.Name()
	}
	return id.t.String()
}

func (id TypeID) String() string {
	if id.t == nil {
		return "()"
	}
	return id.t.String()
}

// TypeIDs returns the type ids of a list of values, in order.
func TypeIDs(values []Value) []TypeID {
	ids := make([]TypeID, len(values))
	for i, v := range values {
		ids[i] = v.TypeID()
	}
	return ids
}
