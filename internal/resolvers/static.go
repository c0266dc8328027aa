// Package resolvers provides the module resolvers an engine can be
// configured with: a static registry of host-built modules, a resolver that
// loads modules from script files, and a chain that tries several in order.
package resolvers

import (
	"maps"
	"slices"

	"github.com/tliron/commonlog"

	"loom/internal/errors"
	"loom/internal/module"
	"loom/internal/scope"
	"loom/token"
)

var log = commonlog.GetLogger("loom.resolvers")

// StaticResolver serves modules registered ahead of time by the host. Each
// import receives its own copy of the registered module.
type StaticResolver struct {
	modules map[string]*module.Module
}

func NewStaticResolver() *StaticResolver {
	return &StaticResolver{modules: make(map[string]*module.Module)}
}

// Insert registers m under path, replacing any previous module.
func (r *StaticResolver) Insert(path string, m *module.Module) {
	r.modules[path] = m
}

func (r *StaticResolver) Get(path string) (*module.Module, bool) {
	m, ok := r.modules[path]
	return m, ok
}

func (r *StaticResolver) Remove(path string) (*module.Module, bool) {
	m, ok := r.modules[path]
	delete(r.modules, path)
	return m, ok
}

func (r *StaticResolver) Contains(path string) bool {
	_, ok := r.modules[path]
	return ok
}

// Paths returns the registered paths, sorted.
func (r *StaticResolver) Paths() []string {
	return slices.Sorted(maps.Keys(r.modules))
}

func (r *StaticResolver) Len() int { return len(r.modules) }

func (r *StaticResolver) Resolve(_ module.Engine, _ *scope.Scope, path string, pos token.Position) (*module.Module, error) {
	m, ok := r.modules[path]
	if !ok {
		return nil, errors.ModuleNotFound(path, pos)
	}
	log.Debugf("static module '%s'", path)
	return m.Clone(), nil
}
