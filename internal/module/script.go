package module

import (
	"loom/internal/scope"
	"loom/token"
)

// Program is a compiled script.
type Program interface {
	FunctionsLib() FunctionsLib
}

// Evaluator runs a compiled program against a scope, leaving the program's
// top-level bindings in it.
type Evaluator interface {
	EvalProgram(sc *scope.Scope, p Program) error
}

// Engine is what resolvers need from the runtime to build modules from
// script files.
type Engine interface {
	Evaluator
	CompileFile(path string) (Program, error)
}

// Resolver maps an import path to a module. Resolvers report a path they
// cannot serve with an ErrorModuleNotFound carrying pos.
type Resolver interface {
	Resolve(engine Engine, sc *scope.Scope, path string, pos token.Position) (*Module, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(engine Engine, sc *scope.Scope, path string, pos token.Position) (*Module, error)

func (f ResolverFunc) Resolve(engine Engine, sc *scope.Scope, path string, pos token.Position) (*Module, error) {
	return f(engine, sc, path, pos)
}

// EvalASTAsNew runs p in a copy of sc and builds a module from what the
// script exported: aliased variables and constants become variables, aliased
// module bindings become sub-modules, everything else is dropped. The
// program's script functions are merged into the module. The result is not
// indexed.
func EvalASTAsNew(sc *scope.Scope, p Program, ev Evaluator) (*Module, error) {
	run := sc.Clone()
	if err := ev.EvalProgram(run, p); err != nil {
		return nil, err
	}

	m := New()
	for _, e := range run.Entries() {
		if !e.Exported() {
			continue
		}
		switch e.Type {
		case scope.Normal, scope.Constant:
			m.variables[e.Alias] = e.Value
		case scope.Module:
			if sub, ok := FromValue(e.Value); ok {
				m.modules[e.Alias] = sub
			}
		}
	}
	m.MergeFnLib(p.FunctionsLib())

	log.Debugf("built module from script: %d variables, %d sub-modules, %d script functions",
		len(m.variables), len(m.modules), len(m.fnLib))
	return m, nil
}
