// Package stdlib defines the standard modules served from memory under the
// "std/" import prefix.
package stdlib

import (
	"maps"
	"math"
	"slices"
	"strings"

	"loom/internal/dynamic"
	"loom/internal/errors"
	"loom/internal/module"
	"loom/internal/resolvers"
	"loom/token"
)

// Prefix starts the import path of every standard module.
const Prefix = "std/"

// ModuleDefinition builds one standard module.
type ModuleDefinition struct {
	Name  string // Module name (e.g., "math")
	Path  string // Import path (e.g., "std/math")
	Build func() *module.Module
}

var definitions = []ModuleDefinition{
	{Name: "math", Path: Prefix + "math", Build: mathModule},
	{Name: "strings", Path: Prefix + "strings", Build: stringsModule},
	{Name: "array", Path: Prefix + "array", Build: arrayModule},
}

// GetStandardModules builds every standard module, keyed by import path.
// "std" itself holds the others as sub-modules.
func GetStandardModules() map[string]*module.Module {
	modules := make(map[string]*module.Module, len(definitions)+1)
	std := module.New()
	for _, def := range definitions {
		m := def.Build()
		modules[def.Path] = m
		std.SetSubModule(def.Name, m.Clone())
	}
	modules[strings.TrimSuffix(Prefix, "/")] = std
	return modules
}

// IsKnownModule checks if a path is a standard module.
func IsKnownModule(path string) bool {
	if path == strings.TrimSuffix(Prefix, "/") {
		return true
	}
	return slices.ContainsFunc(definitions, func(d ModuleDefinition) bool { return d.Path == path })
}

// Paths lists the standard import paths, sorted.
func Paths() []string {
	return slices.Sorted(maps.Keys(GetStandardModules()))
}

// Resolver serves the standard modules.
func Resolver() *resolvers.StaticResolver {
	r := resolvers.NewStaticResolver()
	for path, m := range GetStandardModules() {
		r.Insert(path, m)
	}
	return r
}

func mathModule() *module.Module {
	m := module.New()
	m.SetVar("PI", math.Pi)
	m.SetVar("E", math.E)

	module.SetFn1(m, "abs", func(x int64) (int64, error) {
		if x < 0 {
			return -x, nil
		}
		return x, nil
	})
	module.SetFn1(m, "abs", func(x float64) (float64, error) { return math.Abs(x), nil })
	module.SetFn2(m, "min", func(a, b int64) (int64, error) { return min(a, b), nil })
	module.SetFn2(m, "min", func(a, b float64) (float64, error) { return min(a, b), nil })
	module.SetFn2(m, "max", func(a, b int64) (int64, error) { return max(a, b), nil })
	module.SetFn2(m, "max", func(a, b float64) (float64, error) { return max(a, b), nil })
	module.SetFn1(m, "sqrt", func(x float64) (float64, error) { return math.Sqrt(x), nil })
	module.SetFn1(m, "sqrt", func(x int64) (float64, error) { return math.Sqrt(float64(x)), nil })
	module.SetFn1(m, "floor", func(x float64) (int64, error) { return int64(math.Floor(x)), nil })
	module.SetFn1(m, "to_float", func(x int64) (float64, error) { return float64(x), nil })
	module.SetFn2(m, "pow", func(base, exp int64) (int64, error) {
		if exp < 0 {
			return 0, errors.New(errors.ErrorInvalidArguments, token.None(), "pow: negative exponent %d", exp)
		}
		result := int64(1)
		for ; exp > 0; exp-- {
			result *= base
		}
		return result, nil
	})
	return m
}

func stringsModule() *module.Module {
	m := module.New()
	module.SetFn1(m, "upper", func(s string) (string, error) { return strings.ToUpper(s), nil })
	module.SetFn1(m, "lower", func(s string) (string, error) { return strings.ToLower(s), nil })
	module.SetFn1(m, "trim", func(s string) (string, error) { return strings.TrimSpace(s), nil })
	module.SetFn2(m, "contains", func(s, sub string) (bool, error) { return strings.Contains(s, sub), nil })
	module.SetFn2(m, "starts_with", func(s, prefix string) (bool, error) { return strings.HasPrefix(s, prefix), nil })
	module.SetFn2(m, "ends_with", func(s, suffix string) (bool, error) { return strings.HasSuffix(s, suffix), nil })
	module.SetFn2(m, "repeat", func(s string, n int64) (string, error) {
		if n < 0 {
			return "", errors.New(errors.ErrorInvalidArguments, token.None(), "repeat: negative count %d", n)
		}
		return strings.Repeat(s, int(n)), nil
	})
	module.SetFn2(m, "split", func(s, sep string) (dynamic.ArrayValue, error) {
		parts := strings.Split(s, sep)
		out := make(dynamic.ArrayValue, len(parts))
		for i, p := range parts {
			out[i] = dynamic.From(p)
		}
		return out, nil
	})
	module.SetFn2(m, "join", func(items dynamic.ArrayValue, sep string) (string, error) {
		parts := make([]string, len(items))
		for i, item := range items {
			parts[i] = item.String()
		}
		return strings.Join(parts, sep), nil
	})
	return m
}

func arrayModule() *module.Module {
	m := module.New()
	module.SetFn2(m, "contains", func(items dynamic.ArrayValue, v dynamic.Value) (bool, error) {
		return slices.ContainsFunc(items, func(item dynamic.Value) bool { return dynamic.Equal(item, v) }), nil
	})
	module.SetFn2(m, "index_of", func(items dynamic.ArrayValue, v dynamic.Value) (int64, error) {
		return int64(slices.IndexFunc(items, func(item dynamic.Value) bool { return dynamic.Equal(item, v) })), nil
	})
	module.SetFn1(m, "reverse", func(items dynamic.ArrayValue) (dynamic.ArrayValue, error) {
		out := slices.Clone(items)
		slices.Reverse(out)
		return out, nil
	})
	module.SetFn1(m, "last", func(items dynamic.ArrayValue) (dynamic.Value, error) {
		if len(items) == 0 {
			return dynamic.Value{}, errors.New(errors.ErrorInvalidOperation, token.None(), "last: empty array")
		}
		return items[len(items)-1], nil
	})
	module.SetFn1(m, "sum", func(items dynamic.ArrayValue) (int64, error) {
		var total int64
		for _, item := range items {
			n, ok := item.AsInt()
			if !ok {
				return 0, errors.TypeMismatch("i64", item.TypeName(), token.None())
			}
			total += n
		}
		return total, nil
	})
	return m
}
