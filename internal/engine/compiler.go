package engine

import (
	"github.com/alecthomas/participle/v2/lexer"

	"loom/grammar"
	"loom/internal/dynamic"
	"loom/internal/errors"
	"loom/internal/hashing"
	"loom/internal/module"
)

// Binary operator precedence, loosest first.
var precedence = map[string]int{
	"||": 1,
	"&&": 2,
	"==": 3, "!=": 3,
	"<": 4, "<=": 4, ">": 4, ">=": 4,
	"+": 5, "-": 5,
	"*": 6, "/": 6, "%": 6,
}

type compiler struct {
	lib     module.FunctionsLib
	imports []string
}

func atPos(p lexer.Position) at {
	return at{grammar.ToPosition(p)}
}

func compileScript(filename string, script *grammar.Script) (*AST, error) {
	c := &compiler{lib: make(module.FunctionsLib)}
	ast := &AST{filename: filename, lib: c.lib}

	for _, s := range script.Statements {
		if s.Fn != nil {
			def, err := c.fnDecl(s.Fn)
			if err != nil {
				return nil, err
			}
			c.lib.Add(def)
			continue
		}
		if s.Import != nil {
			c.imports = append(c.imports, s.Import.Path)
		}
		n, err := c.stmt(s)
		if err != nil {
			return nil, err
		}
		ast.stmts = append(ast.stmts, n)
	}

	for _, def := range c.lib {
		def.Lib = c.lib
	}
	ast.imports = c.imports
	return ast, nil
}

func (c *compiler) fnDecl(f *grammar.FnDecl) (*module.ScriptFnDef, error) {
	seen := make(map[string]bool, len(f.Params))
	for _, p := range f.Params {
		if seen[p] {
			return nil, errors.New(errors.ErrorInvalidArguments, grammar.ToPosition(f.Pos),
				"duplicate parameter '%s' in function '%s'", p, f.Name)
		}
		seen[p] = true
	}

	body, err := c.block(f.Body)
	if err != nil {
		return nil, err
	}
	access := module.Public
	if f.Private {
		access = module.Private
	}
	return &module.ScriptFnDef{
		Name:   f.Name,
		Access: access,
		Params: f.Params,
		Pos:    grammar.ToPosition(f.Pos),
		Body:   body,
	}, nil
}

func (c *compiler) block(b *grammar.Block) (*block, error) {
	out := &block{at: atPos(b.Pos)}
	for _, s := range b.Statements {
		if s.Fn != nil {
			return nil, errors.New(errors.ErrorInvalidOperation, grammar.ToPosition(s.Pos),
				"function '%s' must be declared at the top level", s.Fn.Name)
		}
		n, err := c.stmt(s)
		if err != nil {
			return nil, err
		}
		out.stmts = append(out.stmts, n)
	}
	return out, nil
}

func (c *compiler) stmt(s *grammar.Statement) (stmt, error) {
	switch {
	case s.Import != nil:
		return &importStmt{at: atPos(s.Import.Pos), path: s.Import.Path, alias: s.Import.Alias}, nil

	case s.Export != nil:
		out := &exportStmt{at: atPos(s.Export.Pos)}
		for _, item := range s.Export.Items {
			out.items = append(out.items, exportItem{at: atPos(item.Pos), name: item.Name, alias: item.ExportName()})
		}
		return out, nil

	case s.Let != nil:
		out := &letStmt{at: atPos(s.Let.Pos), name: s.Let.Name, constant: s.Let.Const}
		if s.Let.Value != nil {
			v, err := c.expr(s.Let.Value)
			if err != nil {
				return nil, err
			}
			out.value = v
		}
		return out, nil

	case s.For != nil:
		iterable, err := c.expr(s.For.Iterable)
		if err != nil {
			return nil, err
		}
		body, err := c.block(s.For.Body)
		if err != nil {
			return nil, err
		}
		return &forStmt{at: atPos(s.For.Pos), name: s.For.Var, iterable: iterable, body: body}, nil

	case s.While != nil:
		cond, err := c.expr(s.While.Cond)
		if err != nil {
			return nil, err
		}
		body, err := c.block(s.While.Body)
		if err != nil {
			return nil, err
		}
		return &whileStmt{at: atPos(s.While.Pos), cond: cond, body: body}, nil

	case s.If != nil:
		return c.ifStmt(s.If)

	case s.Return != nil:
		out := &returnStmt{at: atPos(s.Return.Pos)}
		if s.Return.Value != nil {
			v, err := c.expr(s.Return.Value)
			if err != nil {
				return nil, err
			}
			out.value = v
		}
		return out, nil

	case s.Block != nil:
		return c.block(s.Block)

	case s.Assign != nil:
		target := c.path(s.Assign.Target)
		value, err := c.expr(s.Assign.Value)
		if err != nil {
			return nil, err
		}
		return &assignStmt{at: atPos(s.Assign.Pos), target: target, value: value}, nil

	case s.Expr != nil:
		e, err := c.expr(s.Expr.Expr)
		if err != nil {
			return nil, err
		}
		return &exprStmt{at: atPos(s.Expr.Pos), expr: e}, nil
	}
	return nil, errors.New(errors.ErrorParse, grammar.ToPosition(s.Pos), "empty statement")
}

func (c *compiler) ifStmt(s *grammar.IfStmt) (*ifStmt, error) {
	cond, err := c.expr(s.Cond)
	if err != nil {
		return nil, err
	}
	then, err := c.block(s.Then)
	if err != nil {
		return nil, err
	}
	out := &ifStmt{at: atPos(s.Pos), cond: cond, then: then}
	if s.Else == nil {
		return out, nil
	}
	if s.Else.If != nil {
		nested, err := c.ifStmt(s.Else.If)
		if err != nil {
			return nil, err
		}
		out.els = &block{at: nested.at, stmts: []stmt{nested}}
		return out, nil
	}
	out.els, err = c.block(s.Else.Block)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// expr applies operator precedence to the flat operator chain produced by
// the grammar.
func (c *compiler) expr(e *grammar.Expr) (expr, error) {
	left, err := c.unary(e.Left)
	if err != nil {
		return nil, err
	}
	i := 0
	return c.climb(left, e.Ops, &i, 1)
}

func (c *compiler) climb(left expr, ops []*grammar.BinOp, i *int, minPrec int) (expr, error) {
	for *i < len(ops) && precedence[ops[*i].Operator] >= minPrec {
		op := ops[*i]
		*i++
		right, err := c.unary(op.Right)
		if err != nil {
			return nil, err
		}
		for *i < len(ops) && precedence[ops[*i].Operator] > precedence[op.Operator] {
			right, err = c.climb(right, ops, i, precedence[op.Operator]+1)
			if err != nil {
				return nil, err
			}
		}
		left = &binaryExpr{at: atPos(op.Pos), op: op.Operator, left: left, right: right}
	}
	return left, nil
}

func (c *compiler) unary(u *grammar.UnaryExpr) (expr, error) {
	operand, err := c.postfix(u.Value)
	if err != nil {
		return nil, err
	}
	if u.Operator == "" {
		return operand, nil
	}
	return &unaryExpr{at: atPos(u.Pos), op: u.Operator, operand: operand}, nil
}

func (c *compiler) postfix(p *grammar.PostfixExpr) (expr, error) {
	recv, err := c.primary(p.Primary)
	if err != nil {
		return nil, err
	}
	for _, m := range p.Methods {
		args, err := c.exprs(m.Args)
		if err != nil {
			return nil, err
		}
		recv = &methodExpr{
			at:      atPos(m.Pos),
			recv:    recv,
			name:    m.Name,
			args:    args,
			defHash: hashing.CalcDef(nil, m.Name, len(args)+1),
		}
	}
	return recv, nil
}

func (c *compiler) primary(p *grammar.PrimaryExpr) (expr, error) {
	pos := atPos(p.Pos)
	switch {
	case p.Float != nil:
		return &literal{at: pos, value: dynamic.From(*p.Float)}, nil
	case p.Int != nil:
		return &literal{at: pos, value: dynamic.From(*p.Int)}, nil
	case p.Str != nil:
		return &literal{at: pos, value: dynamic.From(*p.Str)}, nil
	case p.Bool != nil:
		return &literal{at: pos, value: dynamic.From(bool(*p.Bool))}, nil
	case p.Array != nil:
		items, err := c.exprs(p.Array.Items)
		if err != nil {
			return nil, err
		}
		return &arrayExpr{at: pos, items: items}, nil
	case p.Call != nil:
		return c.call(p.Call)
	case p.Path != nil:
		return c.path(p.Path), nil
	case p.Parens != nil:
		return c.expr(p.Parens)
	}
	return nil, errors.New(errors.ErrorParse, pos.pos, "empty expression")
}

func (c *compiler) exprs(in []*grammar.Expr) ([]expr, error) {
	out := make([]expr, 0, len(in))
	for _, e := range in {
		n, err := c.expr(e)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func (c *compiler) call(call *grammar.CallExpr) (expr, error) {
	args, err := c.exprs(call.Args)
	if err != nil {
		return nil, err
	}
	name := call.Callee.Name()
	out := &callExpr{at: atPos(call.Pos), name: name, args: args}
	if call.Callee.IsQualified() {
		out.ref = moduleRef(call.Callee)
		out.defHash = hashing.CalcDef(out.ref.HashQualifiers(), name, len(args))
	} else {
		out.defHash = hashing.CalcDef(nil, name, len(args))
	}
	return out, nil
}

func (c *compiler) path(p *grammar.Path) expr {
	if !p.IsQualified() {
		return &varExpr{at: atPos(p.Pos), name: p.Name()}
	}
	ref := moduleRef(p)
	return &qualifiedVarExpr{
		at:   atPos(p.Parts[len(p.Parts)-1].Pos),
		ref:  ref,
		name: p.Name(),
		hash: hashing.CalcVar(ref.HashQualifiers(), p.Name()),
	}
}

func moduleRef(p *grammar.Path) *module.ModuleRef {
	qualifiers := p.Qualifiers()
	parts := make([]module.Qualifier, len(qualifiers))
	for i, q := range qualifiers {
		parts[i] = module.Qualifier{Name: q.Name, Pos: grammar.ToPosition(q.Pos)}
	}
	return module.NewModuleRef(parts...)
}
