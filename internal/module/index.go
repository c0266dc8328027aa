package module

import (
	"maps"
	"slices"

	"loom/internal/dynamic"
	"loom/internal/errors"
	"loom/internal/hashing"
	"loom/token"
)

// IndexAllSubModules rebuilds the qualified variable and function tables of m
// from the current contents of m and all of its descendants. Paths are rooted
// at hashing.RootQualifier. Private functions are left out. Both tables are
// replaced wholesale, so indexing twice without changes is a no-op.
//
// Sub-modules are indexed as part of the walk; each descendant's own tables
// are not touched.
func (m *Module) IndexAllSubModules() {
	variables := make(map[uint64]*dynamic.Value)
	functions := make(map[uint64]*CallableFunction)

	m.index([]string{hashing.RootQualifier}, variables, functions)

	m.allVariables = variables
	m.allFunctions = functions
	m.indexed = true

	log.Debugf("indexed module: %d variables, %d functions", len(variables), len(functions))
}

func (m *Module) index(qualifiers []string, variables map[uint64]*dynamic.Value, functions map[uint64]*CallableFunction) {
	for _, name := range m.SubModuleNames() {
		sub := m.modules[name]
		sub.index(append(slices.Clip(qualifiers), name), variables, functions)
	}

	for _, name := range m.VarNames() {
		v := m.variables[name].Clone()
		variables[hashing.CalcVar(qualifiers, name)] = &v
	}

	for _, hash := range slices.Sorted(maps.Keys(m.functions)) {
		info := m.functions[hash]
		if info.Access.IsPrivate() {
			continue
		}
		key := hashing.CalcNative(qualifiers, info.Name, info.Params)
		functions[key] = info.Func
	}

	for _, hash := range slices.Sorted(maps.Keys(m.fnLib)) {
		def := m.fnLib[hash]
		if def.Access.IsPrivate() {
			continue
		}
		key := hashing.CalcDef(qualifiers, def.Name, len(def.Params))
		functions[key] = NewScript(def)
	}
}

// GetQualifiedVarMut returns the indexed variable with qualified fingerprint
// hash. Writes through the pointer are visible to later qualified reads but
// not to GetVar on the owning module. name and pos only label the error.
func (m *Module) GetQualifiedVarMut(name string, hash uint64, pos token.Position) (*dynamic.Value, error) {
	v, ok := m.allVariables[hash]
	if !ok {
		return nil, errors.VariableNotFound(name, pos)
	}
	return v, nil
}

// GetQualifiedFn returns the indexed function with qualified fingerprint
// hash. The error carries no position; the caller attaches one.
func (m *Module) GetQualifiedFn(name string, hash uint64) (*CallableFunction, error) {
	fn, ok := m.allFunctions[hash]
	if !ok {
		return nil, errors.FunctionNotFound(name, token.None())
	}
	return fn, nil
}

// QualifiedVarNames lists `path::name` strings for every variable reachable
// from m, for tooling. The root qualifier is omitted.
func (m *Module) QualifiedVarNames() []string {
	var out []string
	m.walk("", func(prefix string, sub *Module) {
		for _, name := range sub.VarNames() {
			out = append(out, prefix+name)
		}
	})
	return out
}

// QualifiedFnNames lists `path::name` strings for every public function
// reachable from m.
func (m *Module) QualifiedFnNames() []string {
	var out []string
	m.walk("", func(prefix string, sub *Module) {
		for _, name := range sub.FnNames() {
			out = append(out, prefix+name)
		}
	})
	return out
}

func (m *Module) walk(prefix string, visit func(prefix string, sub *Module)) {
	visit(prefix, m)
	for _, name := range m.SubModuleNames() {
		m.modules[name].walk(prefix+name+token.DoubleColon, visit)
	}
}
