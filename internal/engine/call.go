package engine

import (
	"fmt"
	"strings"

	"loom/internal/dynamic"
	"loom/internal/errors"
	"loom/internal/hashing"
	"loom/internal/module"
	"loom/internal/scope"
	"loom/token"
)

// moduleFor finds the module binding a qualified path starts from. The scope
// slot found is cached on the reference and checked again on later
// evaluations.
func (s *state) moduleFor(sc *scope.Scope, ref *module.ModuleRef) (*module.Module, error) {
	root := ref.Root()
	if offset, ok := ref.Index(); ok {
		if ns, ok := sc.ModuleAt(offset, root.Name); ok {
			if m, ok := ns.(*module.Module); ok {
				return m, nil
			}
		}
	}

	ns, offset, ok := sc.FindModule(root.Name)
	if !ok {
		if sc.Contains(root.Name) {
			return nil, errors.NotAModule(root.Name, root.Pos)
		}
		return nil, errors.ModuleNotFound(root.Name, root.Pos)
	}
	m, ok := ns.(*module.Module)
	if !ok {
		return nil, errors.NotAModule(root.Name, root.Pos)
	}
	ref.SetIndex(offset)
	return m, nil
}

func (s *state) qualifiedVar(sc *scope.Scope, n *qualifiedVarExpr) (*dynamic.Value, error) {
	m, err := s.moduleFor(sc, n.ref)
	if err != nil {
		return nil, err
	}
	return m.GetQualifiedVarMut(displayName(n.ref, n.name), n.hash, n.pos)
}

func (s *state) args(sc *scope.Scope, exprs []expr) ([]*dynamic.Value, error) {
	out := make([]*dynamic.Value, len(exprs))
	for i, e := range exprs {
		v, err := s.eval(sc, e)
		if err != nil {
			return nil, err
		}
		out[i] = &v
	}
	return out, nil
}

func (s *state) call(sc *scope.Scope, n *callExpr) (dynamic.Value, error) {
	args, err := s.args(sc, n.args)
	if err != nil {
		return dynamic.Value{}, err
	}
	if n.ref != nil {
		return s.callQualified(sc, n, args)
	}
	return s.callLocal(n.name, n.defHash, args, n.pos)
}

// method calls n.name with the receiver as the first argument. A variable
// receiver is passed by reference so method-style natives can update it;
// constants are passed as copies.
func (s *state) method(sc *scope.Scope, n *methodExpr) (dynamic.Value, error) {
	var recv *dynamic.Value
	switch r := n.recv.(type) {
	case *varExpr, *qualifiedVarExpr:
	default:
		v, err := s.eval(sc, r)
		if err != nil {
			return dynamic.Value{}, err
		}
		recv = &v
	}

	args, err := s.args(sc, n.args)
	if err != nil {
		return dynamic.Value{}, err
	}

	if recv == nil {
		switch r := n.recv.(type) {
		case *varExpr:
			i, ok := sc.Index(r.name)
			if !ok {
				return dynamic.Value{}, errors.VariableNotFound(r.name, r.pos).WithSuggestions(sc.Names())
			}
			entry := sc.Entry(i)
			if entry.Type == scope.Constant {
				v := entry.Value
				recv = &v
			} else {
				recv = &entry.Value
			}
		case *qualifiedVarExpr:
			if recv, err = s.qualifiedVar(sc, r); err != nil {
				return dynamic.Value{}, err
			}
		}
	}

	return s.callLocal(n.name, n.defHash, append([]*dynamic.Value{recv}, args...), n.pos)
}

// callLocal resolves an unqualified call: script functions of the current
// library first, then natives of the global module by argument types.
func (s *state) callLocal(name string, defHash uint64, args []*dynamic.Value, pos token.Position) (dynamic.Value, error) {
	if def, ok := s.lib[defHash]; ok {
		return s.callScript(def, args, pos)
	}

	types := typeIDs(args)
	var fn *module.CallableFunction
	signatures(types, func(sig []dynamic.TypeID) bool {
		f, ok := s.engine.global.GetFn(hashing.Calc(nil, name, len(sig), sig))
		if ok {
			fn = f
		}
		return !ok
	})
	if fn == nil {
		return dynamic.Value{}, errors.FunctionNotFound(signature(name, types), pos)
	}
	return s.callNative(fn, args, pos)
}

// callQualified resolves `a::b::f(...)` through the module's index: a
// script function by definition fingerprint, then a native by definition and
// argument fingerprints.
func (s *state) callQualified(sc *scope.Scope, n *callExpr, args []*dynamic.Value) (dynamic.Value, error) {
	m, err := s.moduleFor(sc, n.ref)
	if err != nil {
		return dynamic.Value{}, err
	}

	name := displayName(n.ref, n.name)
	if fn, err := m.GetQualifiedFn(name, n.defHash); err == nil && fn.IsScript() {
		return s.callScript(fn.Script(), args, n.pos)
	}

	types := typeIDs(args)
	var fn *module.CallableFunction
	signatures(types, func(sig []dynamic.TypeID) bool {
		fn, err = m.GetQualifiedFn(signature(name, types), n.defHash^hashing.CalcArgs(sig))
		return err != nil
	})
	if err != nil {
		return dynamic.Value{}, errors.PositionIfNone(err, n.pos)
	}
	return s.callNative(fn, args, n.pos)
}

func (s *state) callNative(fn *module.CallableFunction, args []*dynamic.Value, pos token.Position) (dynamic.Value, error) {
	v, err := fn.Call(args)
	if err != nil {
		if errors.CodeOf(err) == "" {
			return dynamic.Value{}, errors.Runtime(err, pos)
		}
		return dynamic.Value{}, errors.PositionIfNone(err, pos)
	}
	return v, nil
}

// callScript runs a script function in a fresh scope holding only its
// parameters. Arguments are copied.
func (s *state) callScript(def *module.ScriptFnDef, args []*dynamic.Value, pos token.Position) (dynamic.Value, error) {
	if s.depth >= s.engine.maxCallDepth {
		return dynamic.Value{}, errors.New(errors.ErrorStackOverflow, pos,
			"call stack overflow in '%s': more than %d nested calls", def.Name, s.engine.maxCallDepth)
	}
	body, ok := def.Body.(*block)
	if !ok {
		return dynamic.Value{}, errors.Runtime(fmt.Errorf("function '%s' has no compiled body", def.Name), pos)
	}

	fsc := scope.New()
	for i, p := range def.Params {
		v := args[i].Clone()
		if ns, ok := v.AsNamespace(); ok {
			fsc.PushModule(p, ns)
			continue
		}
		fsc.PushDynamic(p, v)
	}

	inner := &state{engine: s.engine, lib: def.Lib, depth: s.depth + 1, imports: s.imports}
	if inner.lib == nil {
		inner.lib = s.lib
	}
	v, err := inner.stmts(fsc, body.stmts)
	if ret, ok := err.(*returnSignal); ok {
		return ret.value, nil
	}
	return v, err
}

func typeIDs(args []*dynamic.Value) []dynamic.TypeID {
	ids := make([]dynamic.TypeID, len(args))
	for i, a := range args {
		ids[i] = a.TypeID()
	}
	return ids
}

// maxWildcardArity bounds the parameter lists tried with module.Any
// substitutions.
const maxWildcardArity = 4

// signatures calls try with the exact argument types, then with every
// combination of parameters widened to module.Any, fewest first, until try
// returns false.
func signatures(types []dynamic.TypeID, try func([]dynamic.TypeID) bool) {
	if !try(types) || len(types) == 0 {
		return
	}
	if len(types) > maxWildcardArity {
		all := make([]dynamic.TypeID, len(types))
		for i := range all {
			all[i] = module.Any
		}
		try(all)
		return
	}

	n := len(types)
	sig := make([]dynamic.TypeID, n)
	for widened := 1; widened <= n; widened++ {
		for mask := 1; mask < 1<<n; mask++ {
			if bitCount(mask) != widened {
				continue
			}
			for i := range n {
				if mask&(1<<i) != 0 {
					sig[i] = module.Any
				} else {
					sig[i] = types[i]
				}
			}
			if !try(sig) {
				return
			}
		}
	}
}

func bitCount(x int) int {
	n := 0
	for ; x != 0; x &= x - 1 {
		n++
	}
	return n
}

func signature(name string, types []dynamic.TypeID) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = typeName(t)
	}
	return fmt.Sprintf("%s (%s)", name, strings.Join(names, ", "))
}
