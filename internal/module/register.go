package module

import (
	"loom/internal/dynamic"
	"loom/internal/errors"
	"loom/token"
)

// The SetFnN helpers register typed Go functions. Parameter type ids are
// derived from the Go types; a parameter of type dynamic.Value accepts any
// script value. The Mut variants pass the first argument by pointer and write
// the result back into the caller's variable.

// Any is the parameter type that matches every argument.
var Any = dynamic.TypeOf[dynamic.Value]()

func SetFn0[T any](m *Module, name string, fn func() (T, error)) uint64 {
	return m.SetFn(name, Public, nil, NewPure(func(args []*dynamic.Value) (dynamic.Value, error) {
		if len(args) != 0 {
			return dynamic.Value{}, argCountError(name, 0, len(args))
		}
		return wrap(fn())
	}))
}

func SetFn1[A, T any](m *Module, name string, fn func(A) (T, error)) uint64 {
	params := []dynamic.TypeID{dynamic.TypeOf[A]()}
	return m.SetFn(name, Public, params, NewPure(func(args []*dynamic.Value) (dynamic.Value, error) {
		if len(args) != 1 {
			return dynamic.Value{}, argCountError(name, 1, len(args))
		}
		a, err := arg[A](args, 0)
		if err != nil {
			return dynamic.Value{}, err
		}
		return wrap(fn(a))
	}))
}

func SetFn1Mut[A, T any](m *Module, name string, fn func(*A) (T, error)) uint64 {
	params := []dynamic.TypeID{dynamic.TypeOf[A]()}
	return m.SetFn(name, Public, params, NewMethod(func(args []*dynamic.Value) (dynamic.Value, error) {
		if len(args) != 1 {
			return dynamic.Value{}, argCountError(name, 1, len(args))
		}
		a, err := arg[A](args, 0)
		if err != nil {
			return dynamic.Value{}, err
		}
		res, err := fn(&a)
		*args[0] = dynamic.From(a)
		return wrap(res, err)
	}))
}

func SetFn2[A, B, T any](m *Module, name string, fn func(A, B) (T, error)) uint64 {
	params := []dynamic.TypeID{dynamic.TypeOf[A](), dynamic.TypeOf[B]()}
	return m.SetFn(name, Public, params, NewPure(func(args []*dynamic.Value) (dynamic.Value, error) {
		if len(args) != 2 {
			return dynamic.Value{}, argCountError(name, 2, len(args))
		}
		a, err := arg[A](args, 0)
		if err != nil {
			return dynamic.Value{}, err
		}
		b, err := arg[B](args, 1)
		if err != nil {
			return dynamic.Value{}, err
		}
		return wrap(fn(a, b))
	}))
}

func SetFn2Mut[A, B, T any](m *Module, name string, fn func(*A, B) (T, error)) uint64 {
	params := []dynamic.TypeID{dynamic.TypeOf[A](), dynamic.TypeOf[B]()}
	return m.SetFn(name, Public, params, NewMethod(func(args []*dynamic.Value) (dynamic.Value, error) {
		if len(args) != 2 {
			return dynamic.Value{}, argCountError(name, 2, len(args))
		}
		a, err := arg[A](args, 0)
		if err != nil {
			return dynamic.Value{}, err
		}
		b, err := arg[B](args, 1)
		if err != nil {
			return dynamic.Value{}, err
		}
		res, err := fn(&a, b)
		*args[0] = dynamic.From(a)
		return wrap(res, err)
	}))
}

func SetFn3[A, B, C, T any](m *Module, name string, fn func(A, B, C) (T, error)) uint64 {
	params := []dynamic.TypeID{dynamic.TypeOf[A](), dynamic.TypeOf[B](), dynamic.TypeOf[C]()}
	return m.SetFn(name, Public, params, NewPure(func(args []*dynamic.Value) (dynamic.Value, error) {
		if len(args) != 3 {
			return dynamic.Value{}, argCountError(name, 3, len(args))
		}
		a, err := arg[A](args, 0)
		if err != nil {
			return dynamic.Value{}, err
		}
		b, err := arg[B](args, 1)
		if err != nil {
			return dynamic.Value{}, err
		}
		c, err := arg[C](args, 2)
		if err != nil {
			return dynamic.Value{}, err
		}
		return wrap(fn(a, b, c))
	}))
}

func SetFn3Mut[A, B, C, T any](m *Module, name string, fn func(*A, B, C) (T, error)) uint64 {
	params := []dynamic.TypeID{dynamic.TypeOf[A](), dynamic.TypeOf[B](), dynamic.TypeOf[C]()}
	return m.SetFn(name, Public, params, NewMethod(func(args []*dynamic.Value) (dynamic.Value, error) {
		if len(args) != 3 {
			return dynamic.Value{}, argCountError(name, 3, len(args))
		}
		a, err := arg[A](args, 0)
		if err != nil {
			return dynamic.Value{}, err
		}
		b, err := arg[B](args, 1)
		if err != nil {
			return dynamic.Value{}, err
		}
		c, err := arg[C](args, 2)
		if err != nil {
			return dynamic.Value{}, err
		}
		res, err := fn(&a, b, c)
		*args[0] = dynamic.From(a)
		return wrap(res, err)
	}))
}

func arg[A any](args []*dynamic.Value, i int) (A, error) {
	v := *args[i]
	if a, ok := any(v).(A); ok {
		return a, nil
	}
	if a, ok := dynamic.Cast[A](v); ok {
		return a, nil
	}
	var zero A
	return zero, errors.TypeMismatch(dynamic.TypeOf[A]().String(), v.TypeName(), token.None())
}

func wrap[T any](res T, err error) (dynamic.Value, error) {
	if err != nil {
		return dynamic.Value{}, err
	}
	return dynamic.From(res), nil
}
