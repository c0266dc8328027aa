package engine

import (
	"loom/internal/dynamic"
	"loom/internal/errors"
	"loom/internal/module"
	"loom/internal/scope"
)

// state is one evaluation context: a function body or a top-level script.
type state struct {
	engine  *Engine
	lib     module.FunctionsLib
	depth   int // nested script function calls
	imports int // nested imports
}

// returnSignal unwinds a `return` to the enclosing function call.
type returnSignal struct {
	value dynamic.Value
}

func (*returnSignal) Error() string { return "return outside of a function" }

func (s *state) stmts(sc *scope.Scope, list []stmt) (dynamic.Value, error) {
	var last dynamic.Value
	for _, n := range list {
		v, err := s.stmt(sc, n)
		if err != nil {
			return dynamic.Value{}, err
		}
		last = v
	}
	return last, nil
}

// block runs b in a nested scope level.
func (s *state) block(sc *scope.Scope, b *block) (dynamic.Value, error) {
	size := sc.Len()
	defer sc.Rewind(size)
	return s.stmts(sc, b.stmts)
}

func (s *state) stmt(sc *scope.Scope, n stmt) (dynamic.Value, error) {
	switch n := n.(type) {
	case *exprStmt:
		return s.eval(sc, n.expr)

	case *letStmt:
		v := dynamic.Value{}
		if n.value != nil {
			var err error
			if v, err = s.eval(sc, n.value); err != nil {
				return v, err
			}
		}
		switch ns, isModule := v.AsNamespace(); {
		case n.constant:
			sc.PushConstant(n.name, owned(v))
		case isModule:
			sc.PushModule(n.name, ns)
		default:
			sc.PushDynamic(n.name, owned(v))
		}
		return dynamic.Value{}, nil

	case *assignStmt:
		return dynamic.Value{}, s.assign(sc, n)

	case *importStmt:
		return dynamic.Value{}, s.importModule(sc, n)

	case *exportStmt:
		for _, item := range n.items {
			if !sc.SetAlias(item.name, item.alias) && !s.hasFn(item.name) {
				return dynamic.Value{}, errors.VariableNotFound(item.name, item.pos).WithSuggestions(sc.Names())
			}
		}
		return dynamic.Value{}, nil

	case *block:
		return s.block(sc, n)

	case *ifStmt:
		ok, err := s.condition(sc, n.cond)
		if err != nil {
			return dynamic.Value{}, err
		}
		if ok {
			return s.block(sc, n.then)
		}
		if n.els != nil {
			return s.block(sc, n.els)
		}
		return dynamic.Value{}, nil

	case *whileStmt:
		for {
			ok, err := s.condition(sc, n.cond)
			if err != nil || !ok {
				return dynamic.Value{}, err
			}
			if _, err := s.block(sc, n.body); err != nil {
				return dynamic.Value{}, err
			}
		}

	case *forStmt:
		return dynamic.Value{}, s.forLoop(sc, n)

	case *returnStmt:
		v := dynamic.Value{}
		if n.value != nil {
			var err error
			if v, err = s.eval(sc, n.value); err != nil {
				return v, err
			}
		}
		return dynamic.Value{}, &returnSignal{value: v}
	}
	return dynamic.Value{}, errors.New(errors.ErrorInvalidOperation, n.Pos(), "unsupported statement %T", n)
}

// hasFn reports whether the current library defines a function called name.
// Functions are exported by default, so naming one in `export` is allowed.
func (s *state) hasFn(name string) bool {
	for _, def := range s.lib {
		if def.Name == name {
			return true
		}
	}
	return false
}

func (s *state) condition(sc *scope.Scope, cond expr) (bool, error) {
	v, err := s.eval(sc, cond)
	if err != nil {
		return false, err
	}
	b, ok := v.Truthy()
	if !ok {
		return false, errors.TypeMismatch("bool", v.TypeName(), cond.Pos())
	}
	return b, nil
}

func (s *state) forLoop(sc *scope.Scope, n *forStmt) error {
	v, err := s.eval(sc, n.iterable)
	if err != nil {
		return err
	}
	iterate, ok := s.engine.global.GetIter(v.TypeID())
	if !ok {
		return errors.New(errors.ErrorNoIterator, n.iterable.Pos(), "cannot iterate over a value of type %s", v.TypeName())
	}

	size := sc.Len()
	defer sc.Rewind(size)
	sc.PushDynamic(n.name, dynamic.Value{})

	for item := range iterate(v) {
		sc.Entry(size).Value = item
		if _, err := s.block(sc, n.body); err != nil {
			return err
		}
	}
	return nil
}

func (s *state) assign(sc *scope.Scope, n *assignStmt) error {
	v, err := s.eval(sc, n.value)
	if err != nil {
		return err
	}
	switch target := n.target.(type) {
	case *varExpr:
		i, ok := sc.Index(target.name)
		if !ok {
			return errors.VariableNotFound(target.name, target.pos).WithSuggestions(sc.Names())
		}
		entry := sc.Entry(i)
		if entry.Type == scope.Constant {
			return errors.New(errors.ErrorInvalidAssignment, n.pos, "cannot assign to constant '%s'", target.name)
		}
		entry.Value = owned(v)
		return nil
	case *qualifiedVarExpr:
		ptr, err := s.qualifiedVar(sc, target)
		if err != nil {
			return err
		}
		*ptr = owned(v)
		return nil
	}
	return errors.New(errors.ErrorInvalidAssignment, n.pos, "invalid assignment target")
}

// owned copies array contents so that no two bindings share a backing array.
// Module values keep their identity.
func owned(v dynamic.Value) dynamic.Value {
	if v.Kind() == dynamic.Array {
		return v.Clone()
	}
	return v
}

func (s *state) eval(sc *scope.Scope, n expr) (dynamic.Value, error) {
	switch n := n.(type) {
	case *literal:
		return n.value, nil

	case *arrayExpr:
		arr := make(dynamic.ArrayValue, 0, len(n.items))
		for _, item := range n.items {
			v, err := s.eval(sc, item)
			if err != nil {
				return dynamic.Value{}, err
			}
			arr = append(arr, owned(v))
		}
		return dynamic.From(arr), nil

	case *varExpr:
		v, ok := sc.Get(n.name)
		if !ok {
			return dynamic.Value{}, errors.VariableNotFound(n.name, n.pos).WithSuggestions(sc.Names())
		}
		return v, nil

	case *qualifiedVarExpr:
		ptr, err := s.qualifiedVar(sc, n)
		if err != nil {
			return dynamic.Value{}, err
		}
		return *ptr, nil

	case *unaryExpr:
		v, err := s.eval(sc, n.operand)
		if err != nil {
			return dynamic.Value{}, err
		}
		return unary(n.op, v, n.pos)

	case *binaryExpr:
		return s.binary(sc, n)

	case *callExpr:
		return s.call(sc, n)

	case *methodExpr:
		return s.method(sc, n)
	}
	return dynamic.Value{}, errors.New(errors.ErrorInvalidOperation, n.Pos(), "unsupported expression %T", n)
}

func (s *state) binary(sc *scope.Scope, n *binaryExpr) (dynamic.Value, error) {
	if n.op == "&&" || n.op == "||" {
		left, err := s.condition(sc, n.left)
		if err != nil {
			return dynamic.Value{}, err
		}
		if (n.op == "&&") != left {
			return dynamic.From(left), nil
		}
		right, err := s.condition(sc, n.right)
		if err != nil {
			return dynamic.Value{}, err
		}
		return dynamic.From(right), nil
	}

	left, err := s.eval(sc, n.left)
	if err != nil {
		return dynamic.Value{}, err
	}
	right, err := s.eval(sc, n.right)
	if err != nil {
		return dynamic.Value{}, err
	}
	return binary(n.op, left, right, n.pos)
}
