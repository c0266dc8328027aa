package engine

import (
	"cmp"
	"math"
	"strings"

	"loom/internal/dynamic"
	"loom/internal/errors"
	"loom/token"
)

func unary(op string, v dynamic.Value, pos token.Position) (dynamic.Value, error) {
	switch op {
	case "-":
		if i, ok := v.AsInt(); ok {
			return dynamic.From(-i), nil
		}
		if f, ok := v.AsFloat(); ok {
			return dynamic.From(-f), nil
		}
	case "!":
		if b, ok := v.AsBool(); ok {
			return dynamic.From(!b), nil
		}
	}
	return dynamic.Value{}, errors.New(errors.ErrorInvalidOperation, pos, "cannot apply '%s' to %s", op, v.TypeName())
}

func binary(op string, l, r dynamic.Value, pos token.Position) (dynamic.Value, error) {
	switch op {
	case "==":
		return dynamic.From(dynamic.Equal(l, r)), nil
	case "!=":
		return dynamic.From(!dynamic.Equal(l, r)), nil
	}

	if li, ok := l.AsInt(); ok {
		if ri, ok := r.AsInt(); ok {
			return intOp(op, li, ri, pos)
		}
	}
	if lf, rf, ok := floats(l, r); ok {
		return floatOp(op, lf, rf, pos)
	}

	ls, lok := l.AsString()
	rs, rok := r.AsString()
	switch {
	case lok && rok:
		switch op {
		case "+":
			return dynamic.From(ls + rs), nil
		case "<", "<=", ">", ">=":
			return dynamic.From(compare(op, strings.Compare(ls, rs))), nil
		}
	case op == "+" && lok:
		return dynamic.From(ls + r.String()), nil
	case op == "+" && rok:
		return dynamic.From(l.String() + rs), nil
	}

	if la, ok := l.AsArray(); ok && op == "+" {
		if ra, ok := r.AsArray(); ok {
			out := make(dynamic.ArrayValue, 0, len(la)+len(ra))
			return dynamic.From(append(append(out, la...), ra...)), nil
		}
	}

	return dynamic.Value{}, errors.New(errors.ErrorInvalidOperation, pos,
		"cannot apply '%s' to %s and %s", op, l.TypeName(), r.TypeName())
}

func floats(l, r dynamic.Value) (float64, float64, bool) {
	lf, lok := number(l)
	rf, rok := number(r)
	return lf, rf, lok && rok
}

func number(v dynamic.Value) (float64, bool) {
	if f, ok := v.AsFloat(); ok {
		return f, true
	}
	if i, ok := v.AsInt(); ok {
		return float64(i), true
	}
	return 0, false
}

func intOp(op string, a, b int64, pos token.Position) (dynamic.Value, error) {
	switch op {
	case "+":
		return dynamic.From(a + b), nil
	case "-":
		return dynamic.From(a - b), nil
	case "*":
		return dynamic.From(a * b), nil
	case "/", "%":
		if b == 0 {
			return dynamic.Value{}, errors.New(errors.ErrorInvalidOperation, pos, "division by zero")
		}
		if op == "/" {
			return dynamic.From(a / b), nil
		}
		return dynamic.From(a % b), nil
	case "<", "<=", ">", ">=":
		return dynamic.From(compare(op, cmp.Compare(a, b))), nil
	}
	return dynamic.Value{}, errors.New(errors.ErrorInvalidOperation, pos, "cannot apply '%s' to i64 and i64", op)
}

func floatOp(op string, a, b float64, pos token.Position) (dynamic.Value, error) {
	switch op {
	case "+":
		return dynamic.From(a + b), nil
	case "-":
		return dynamic.From(a - b), nil
	case "*":
		return dynamic.From(a * b), nil
	case "/":
		return dynamic.From(a / b), nil
	case "%":
		return dynamic.From(math.Mod(a, b)), nil
	case "<", "<=", ">", ">=":
		return dynamic.From(compare(op, cmp.Compare(a, b))), nil
	}
	return dynamic.Value{}, errors.New(errors.ErrorInvalidOperation, pos, "cannot apply '%s' to f64 and f64", op)
}

func compare(op string, c int) bool {
	switch op {
	case "<":
		return c < 0
	case "<=":
		return c <= 0
	case ">":
		return c > 0
	default:
		return c >= 0
	}
}
