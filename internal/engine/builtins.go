package engine

import (
	"fmt"
	"iter"
	"unicode/utf8"

	"loom/internal/dynamic"
	"loom/internal/module"
)

// Range is the value of `range(from, to)`: the integers from from up to, but
// not including, to.
type Range struct {
	From, To int64
}

func (r Range) String() string { return fmt.Sprintf("%d..%d", r.From, r.To) }

var typeNames = map[dynamic.TypeID]string{
	dynamic.TypeIDOf(nil):                "()",
	dynamic.TypeOf[bool]():               "bool",
	dynamic.TypeOf[int64]():              "i64",
	dynamic.TypeOf[float64]():            "f64",
	dynamic.TypeOf[string]():             "string",
	dynamic.TypeOf[dynamic.ArrayValue](): "array",
	dynamic.TypeOf[*module.Module]():     "module",
	dynamic.TypeOf[Range]():              "range",
	module.Any:                           "?",
}

func typeName(t dynamic.TypeID) string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return t.String()
}

func registerBuiltins(e *Engine) {
	g := e.global

	module.SetFn1(g, "print", func(v dynamic.Value) (dynamic.Value, error) {
		_, err := fmt.Fprintln(e.out, v.String())
		return dynamic.Value{}, err
	})
	module.SetFn1(g, "type_of", func(v dynamic.Value) (string, error) {
		return typeName(v.TypeID()), nil
	})
	module.SetFn1(g, "to_string", func(v dynamic.Value) (string, error) {
		return v.String(), nil
	})

	module.SetFn1(g, "len", func(s string) (int64, error) {
		return int64(utf8.RuneCountInString(s)), nil
	})
	module.SetFn1(g, "len", func(a dynamic.ArrayValue) (int64, error) {
		return int64(len(a)), nil
	})
	module.SetFn2Mut(g, "push", func(a *dynamic.ArrayValue, v dynamic.Value) (dynamic.Value, error) {
		*a = append(*a, owned(v))
		return dynamic.Value{}, nil
	})

	module.SetFn2(g, "range", func(from, to int64) (Range, error) {
		return Range{From: from, To: to}, nil
	})

	g.SetIter(dynamic.TypeOf[dynamic.ArrayValue](), func(v dynamic.Value) iter.Seq[dynamic.Value] {
		arr := dynamic.MustCast[dynamic.ArrayValue](v)
		return func(yield func(dynamic.Value) bool) {
			for _, item := range arr {
				if !yield(item) {
					return
				}
			}
		}
	})
	g.SetIter(dynamic.TypeOf[Range](), func(v dynamic.Value) iter.Seq[dynamic.Value] {
		r := dynamic.MustCast[Range](v)
		return func(yield func(dynamic.Value) bool) {
			for i := r.From; i < r.To; i++ {
				if !yield(dynamic.From(i)) {
					return
				}
			}
		}
	})
}
