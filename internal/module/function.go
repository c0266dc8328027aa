package module

import (
	"fmt"
	"maps"
	"slices"

	"loom/internal/dynamic"
	"loom/internal/errors"
	"loom/internal/hashing"
	"loom/token"
)

// Access controls whether a function is reachable through a qualified path.
type Access int

const (
	Public Access = iota
	Private
)

func (a Access) String() string {
	if a == Private {
		return "private"
	}
	return "public"
}

func (a Access) IsPrivate() bool { return a == Private }

// NativeFn is a host function. Arguments arrive by reference; a method-style
// callable may write through args[0] and the caller observes the change.
type NativeFn func(args []*dynamic.Value) (dynamic.Value, error)

// CallableKind distinguishes how a CallableFunction is invoked.
type CallableKind int

const (
	// Pure natives never mutate their arguments.
	Pure CallableKind = iota
	// Method natives may mutate their first argument.
	Method
	// Script functions are evaluated by the engine.
	Script
)

func (k CallableKind) String() string {
	switch k {
	case Method:
		return "method"
	case Script:
		return "script"
	default:
		return "pure"
	}
}

// CallableFunction is a shared, immutable handle to a function. The same
// pointer is stored in a module's local table and in every indexed table that
// reaches it.
type CallableFunction struct {
	kind   CallableKind
	native NativeFn
	script *ScriptFnDef
}

func NewPure(fn NativeFn) *CallableFunction {
	return &CallableFunction{kind: Pure, native: fn}
}

func NewMethod(fn NativeFn) *CallableFunction {
	return &CallableFunction{kind: Method, native: fn}
}

func NewScript(def *ScriptFnDef) *CallableFunction {
	return &CallableFunction{kind: Script, script: def}
}

func (c *CallableFunction) Kind() CallableKind { return c.kind }

func (c *CallableFunction) IsScript() bool { return c.kind == Script }

func (c *CallableFunction) IsMethod() bool { return c.kind == Method }

// Script returns the script definition, nil for natives.
func (c *CallableFunction) Script() *ScriptFnDef { return c.script }

// Call invokes a native callable. Script callables must go through the
// engine, which owns the evaluator.
func (c *CallableFunction) Call(args []*dynamic.Value) (dynamic.Value, error) {
	if c.kind == Script {
		return dynamic.Value{}, fmt.Errorf("script function '%s' cannot be called natively", c.script.Name)
	}
	return c.native(args)
}

func (c *CallableFunction) String() string {
	if c.kind == Script {
		return c.script.String()
	}
	return fmt.Sprintf("<native %s fn>", c.kind)
}

// ScriptFnDef is a function defined in loom source.
type ScriptFnDef struct {
	Name   string
	Access Access
	Params []string
	Pos    token.Position

	// Body is the compiled body, owned by the engine that compiled it.
	Body any

	// Lib is the library of the script that defined the function. Unqualified
	// calls inside Body resolve against it.
	Lib FunctionsLib
}

func (d *ScriptFnDef) Arity() int { return len(d.Params) }

// Hash is the key of the definition in a FunctionsLib.
func (d *ScriptFnDef) Hash() uint64 {
	return hashing.CalcDef(nil, d.Name, len(d.Params))
}

func (d *ScriptFnDef) String() string {
	prefix := ""
	if d.Access.IsPrivate() {
		prefix = "private "
	}
	return fmt.Sprintf("%sfn %s(%d)", prefix, d.Name, len(d.Params))
}

// FunctionsLib holds the script functions of one program or module, keyed by
// CalcDef(nil, name, arity).
type FunctionsLib map[uint64]*ScriptFnDef

// Add stores def, replacing any definition with the same name and arity.
func (lib FunctionsLib) Add(def *ScriptFnDef) {
	lib[def.Hash()] = def
}

// Get looks up a function by name and arity.
func (lib FunctionsLib) Get(name string, arity int) (*ScriptFnDef, bool) {
	def, ok := lib[hashing.CalcDef(nil, name, arity)]
	return def, ok
}

// Merge returns a new library with the entries of lib overridden by other.
func (lib FunctionsLib) Merge(other FunctionsLib) FunctionsLib {
	out := make(FunctionsLib, len(lib)+len(other))
	maps.Copy(out, lib)
	maps.Copy(out, other)
	return out
}

// Sorted returns the definitions ordered by name and arity.
func (lib FunctionsLib) Sorted() []*ScriptFnDef {
	defs := slices.Collect(maps.Values(lib))
	slices.SortFunc(defs, func(a, b *ScriptFnDef) int {
		if a.Name != b.Name {
			if a.Name < b.Name {
				return -1
			}
			return 1
		}
		return a.Arity() - b.Arity()
	})
	return defs
}

// FuncInfo is a native function registered on a module.
type FuncInfo struct {
	Name   string
	Access Access
	Params []dynamic.TypeID
	Func   *CallableFunction
}

// SetFn registers a native function under name with the given parameter
// types and returns its local fingerprint. An existing function with the
// same name and parameter types is replaced. It does not re-index.
func (m *Module) SetFn(name string, access Access, params []dynamic.TypeID, fn *CallableFunction) uint64 {
	hash := hashing.Calc(nil, name, len(params), params)
	m.functions[hash] = &FuncInfo{
		Name:   name,
		Access: access,
		Params: slices.Clone(params),
		Func:   fn,
	}
	return hash
}

// ContainsFn reports whether a native function with the local fingerprint
// hash exists.
func (m *Module) ContainsFn(hash uint64) bool {
	_, ok := m.functions[hash]
	return ok
}

// GetFn returns the native function with the local fingerprint hash.
func (m *Module) GetFn(hash uint64) (*CallableFunction, bool) {
	info, ok := m.functions[hash]
	if !ok {
		return nil, false
	}
	return info.Func, true
}

// GetFnInfo returns the registration record behind a local fingerprint.
func (m *Module) GetFnInfo(hash uint64) (*FuncInfo, bool) {
	info, ok := m.functions[hash]
	return info, ok
}

// FnNames returns the distinct names of public native and script functions,
// sorted.
func (m *Module) FnNames() []string {
	seen := make(map[string]struct{})
	for _, info := range m.functions {
		if !info.Access.IsPrivate() {
			seen[info.Name] = struct{}{}
		}
	}
	for _, def := range m.fnLib {
		if !def.Access.IsPrivate() {
			seen[def.Name] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(seen))
}

// FnLib returns the module's script functions.
func (m *Module) FnLib() FunctionsLib { return m.fnLib }

// SetFnLib replaces the module's script functions.
func (m *Module) SetFnLib(lib FunctionsLib) {
	if lib == nil {
		lib = make(FunctionsLib)
	}
	m.fnLib = lib
}

// MergeFnLib merges lib into the module's script functions; entries in lib
// win.
func (m *Module) MergeFnLib(lib FunctionsLib) {
	m.fnLib = m.fnLib.Merge(lib)
}

func argCountError(name string, want, got int) error {
	return errors.New(errors.ErrorInvalidArguments, token.None(),
		"function '%s' expects %d arguments, got %d", name, want, got)
}
