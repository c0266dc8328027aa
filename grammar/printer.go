package grammar

import (
	"fmt"
	"strconv"
	"strings"

	"loom/token"
)

func indent(level int) string {
	return strings.Repeat("    ", level)
}

func (s *Script) String() string {
	var b strings.Builder
	for _, st := range s.Statements {
		b.WriteString(st.StringWithIndent(0))
	}
	return b.String()
}

func (s *Statement) StringWithIndent(level int) string {
	pad := indent(level)
	switch {
	case s.Import != nil:
		return fmt.Sprintf("%simport %q as %s;\n", pad, s.Import.Path, s.Import.Alias)
	case s.Export != nil:
		items := make([]string, len(s.Export.Items))
		for i, it := range s.Export.Items {
			items[i] = it.Name
			if it.Alias != "" {
				items[i] += " as " + it.Alias
			}
		}
		return fmt.Sprintf("%sexport %s;\n", pad, strings.Join(items, ", "))
	case s.Let != nil:
		kw := "let"
		if s.Let.Const {
			kw = "const"
		}
		if s.Let.Value == nil {
			return fmt.Sprintf("%s%s %s;\n", pad, kw, s.Let.Name)
		}
		return fmt.Sprintf("%s%s %s = %s;\n", pad, kw, s.Let.Name, s.Let.Value)
	case s.Fn != nil:
		return s.Fn.StringWithIndent(level)
	case s.For != nil:
		return fmt.Sprintf("%sfor %s in %s %s\n", pad, s.For.Var, s.For.Iterable, s.For.Body.StringWithIndent(level))
	case s.While != nil:
		return fmt.Sprintf("%swhile %s %s\n", pad, s.While.Cond, s.While.Body.StringWithIndent(level))
	case s.If != nil:
		return pad + s.If.StringWithIndent(level) + "\n"
	case s.Return != nil:
		if s.Return.Value == nil {
			return pad + "return;\n"
		}
		return fmt.Sprintf("%sreturn %s;\n", pad, s.Return.Value)
	case s.Block != nil:
		return pad + s.Block.StringWithIndent(level) + "\n"
	case s.Assign != nil:
		return fmt.Sprintf("%s%s = %s;\n", pad, s.Assign.Target, s.Assign.Value)
	case s.Expr != nil:
		return fmt.Sprintf("%s%s;\n", pad, s.Expr.Expr)
	}
	return ""
}

func (f *FnDecl) StringWithIndent(level int) string {
	prefix := ""
	if f.Private {
		prefix = "private "
	}
	return fmt.Sprintf("%s%sfn %s(%s) %s\n", indent(level), prefix, f.Name,
		strings.Join(f.Params, ", "), f.Body.StringWithIndent(level))
}

func (b *Block) StringWithIndent(level int) string {
	var sb strings.Builder
	sb.WriteString("{\n")
	for _, st := range b.Statements {
		sb.WriteString(st.StringWithIndent(level + 1))
	}
	sb.WriteString(indent(level) + "}")
	return sb.String()
}

func (i *IfStmt) StringWithIndent(level int) string {
	out := fmt.Sprintf("if %s %s", i.Cond, i.Then.StringWithIndent(level))
	if i.Else == nil {
		return out
	}
	if i.Else.If != nil {
		return out + " else " + i.Else.If.StringWithIndent(level)
	}
	return out + " else " + i.Else.Block.StringWithIndent(level)
}

func (e *Expr) String() string {
	var b strings.Builder
	b.WriteString(e.Left.String())
	for _, op := range e.Ops {
		b.WriteString(" " + op.Operator + " " + op.Right.String())
	}
	return b.String()
}

func (u *UnaryExpr) String() string {
	return u.Operator + u.Value.String()
}

func (p *PostfixExpr) String() string {
	var b strings.Builder
	b.WriteString(p.Primary.String())
	for _, m := range p.Methods {
		b.WriteString("." + m.Name + "(" + joinExprs(m.Args) + ")")
	}
	return b.String()
}

func (p *PrimaryExpr) String() string {
	switch {
	case p.Float != nil:
		return strconv.FormatFloat(*p.Float, 'f', -1, 64)
	case p.Int != nil:
		return strconv.FormatInt(*p.Int, 10)
	case p.Str != nil:
		return strconv.Quote(*p.Str)
	case p.Bool != nil:
		return strconv.FormatBool(bool(*p.Bool))
	case p.Array != nil:
		return "[" + joinExprs(p.Array.Items) + "]"
	case p.Call != nil:
		return p.Call.String()
	case p.Path != nil:
		return p.Path.String()
	case p.Parens != nil:
		return "(" + p.Parens.String() + ")"
	}
	return "()"
}

func (c *CallExpr) String() string {
	return c.Callee.String() + "(" + joinExprs(c.Args) + ")"
}

func (p *Path) String() string {
	names := make([]string, len(p.Parts))
	for i, s := range p.Parts {
		names[i] = s.Name
	}
	return strings.Join(names, token.DoubleColon)
}

func joinExprs(exprs []*Expr) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}
