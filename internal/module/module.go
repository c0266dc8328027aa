// Package module implements loom's namespaces: modules holding variables,
// sub-modules, native functions, script functions and type iterators, plus
// the indexing pass that flattens a module tree into fingerprint-keyed tables
// for O(1) qualified lookup.
//
// A module is built by a single owner (host code or a script run through
// EvalASTAsNew), indexed once with IndexAllSubModules, and only then read by
// evaluators. Structural changes after indexing are not visible to qualified
// lookups until the module is indexed again.
package module

import (
	"fmt"
	"maps"
	"slices"

	"github.com/tliron/commonlog"

	"loom/internal/dynamic"
)

var log = commonlog.GetLogger("loom.module")

// Module is a namespace value.
type Module struct {
	// Sub-modules, owned by this module.
	modules map[string]*Module

	// Variables visible unqualified at this level.
	variables map[string]dynamic.Value

	// Every variable of this module and its descendants, keyed by qualified
	// fingerprint. Rebuilt by IndexAllSubModules.
	allVariables map[uint64]*dynamic.Value

	// Native functions registered on this module, keyed by local fingerprint.
	functions map[uint64]*FuncInfo

	// Script-defined functions.
	fnLib FunctionsLib

	// Iterator factories keyed by the type they iterate.
	typeIterators map[dynamic.TypeID]IteratorFn

	// Every public function of this module and its descendants, native or
	// scripted, keyed by qualified fingerprint. Rebuilt by IndexAllSubModules.
	allFunctions map[uint64]*CallableFunction

	indexed bool
}

// New creates an empty module.
func New() *Module {
	return NewWithCapacity(0)
}

// NewWithCapacity creates an empty module with room for capacity native
// functions.
func NewWithCapacity(capacity int) *Module {
	return &Module{
		modules:       make(map[string]*Module),
		variables:     make(map[string]dynamic.Value),
		allVariables:  make(map[uint64]*dynamic.Value),
		functions:     make(map[uint64]*FuncInfo, capacity),
		fnLib:         make(FunctionsLib),
		typeIterators: make(map[dynamic.TypeID]IteratorFn),
		allFunctions:  make(map[uint64]*CallableFunction),
	}
}

// ContainsVar reports whether a local variable exists.
func (m *Module) ContainsVar(name string) bool {
	_, ok := m.variables[name]
	return ok
}

// GetVar returns a local variable. Qualified tables are never consulted.
func (m *Module) GetVar(name string) (dynamic.Value, bool) {
	v, ok := m.variables[name]
	return v, ok
}

// GetVarValue returns a local variable cast to T.
func GetVarValue[T any](m *Module, name string) (T, bool) {
	v, ok := m.variables[name]
	if !ok {
		var zero T
		return zero, false
	}
	return dynamic.Cast[T](v)
}

// SetVar sets a local variable, replacing any existing one. It does not
// re-index.
func (m *Module) SetVar(name string, value any) {
	m.variables[name] = dynamic.From(value)
}

// VarNames returns the local variable names, sorted.
func (m *Module) VarNames() []string {
	return slices.Sorted(maps.Keys(m.variables))
}

// ContainsSubModule reports whether a direct sub-module exists.
func (m *Module) ContainsSubModule(name string) bool {
	_, ok := m.modules[name]
	return ok
}

// GetSubModule returns a direct sub-module. The returned module is owned by m
// and may be mutated through the pointer.
func (m *Module) GetSubModule(name string) (*Module, bool) {
	sub, ok := m.modules[name]
	return sub, ok
}

// SetSubModule sets a direct sub-module, replacing any existing one wholesale.
func (m *Module) SetSubModule(name string, sub *Module) {
	m.modules[name] = sub
}

// SubModuleNames returns the direct sub-module names, sorted.
func (m *Module) SubModuleNames() []string {
	return slices.Sorted(maps.Keys(m.modules))
}

// IsIndexed reports whether IndexAllSubModules has run at least once.
func (m *Module) IsIndexed() bool { return m.indexed }

// Clone copies the module tree. Sub-modules, variables and the indexed
// variable table are duplicated; callables are shared.
func (m *Module) Clone() *Module {
	out := &Module{
		modules:       make(map[string]*Module, len(m.modules)),
		variables:     make(map[string]dynamic.Value, len(m.variables)),
		allVariables:  make(map[uint64]*dynamic.Value, len(m.allVariables)),
		functions:     maps.Clone(m.functions),
		fnLib:         maps.Clone(m.fnLib),
		typeIterators: maps.Clone(m.typeIterators),
		allFunctions:  maps.Clone(m.allFunctions),
		indexed:       m.indexed,
	}
	for name, sub := range m.modules {
		out.modules[name] = sub.Clone()
	}
	for name, v := range m.variables {
		out.variables[name] = v.Clone()
	}
	for hash, v := range m.allVariables {
		c := v.Clone()
		out.allVariables[hash] = &c
	}
	return out
}

// CloneNamespace lets a module travel inside a dynamic.Value.
func (m *Module) CloneNamespace() dynamic.Namespace {
	return m.Clone()
}

func (m *Module) String() string {
	vars := make([]string, 0, len(m.variables))
	for _, name := range m.VarNames() {
		vars = append(vars, fmt.Sprintf("%s: %s", name, m.variables[name]))
	}
	return fmt.Sprintf("<module %v, functions=%d, lib=%d>", vars, len(m.functions), len(m.fnLib))
}

// FromValue extracts a module embedded in a dynamic value.
func FromValue(v dynamic.Value) (*Module, bool) {
	return dynamic.Cast[*Module](v)
}
