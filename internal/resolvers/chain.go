package resolvers

import (
	stderrors "errors"

	"loom/internal/errors"
	"loom/internal/module"
	"loom/internal/scope"
	"loom/token"
)

// Chain tries each resolver in order. A resolver answering ModuleNotFound for
// the requested path passes the import on to the next one; any other error,
// including a missing module imported by the loaded script, stops the chain.
type Chain []module.Resolver

func NewChain(resolvers ...module.Resolver) Chain {
	return Chain(resolvers)
}

func (c Chain) Resolve(engine module.Engine, sc *scope.Scope, path string, pos token.Position) (*module.Module, error) {
	for _, r := range c {
		m, err := r.Resolve(engine, sc, path, pos)
		if err == nil {
			return m, nil
		}
		var ee *errors.EvalError
		if !stderrors.As(err, &ee) || ee.Code != errors.ErrorModuleNotFound || ee.Name != path {
			return nil, err
		}
	}
	return nil, errors.ModuleNotFound(path, pos)
}
