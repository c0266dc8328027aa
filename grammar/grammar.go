// Package grammar defines the loom script syntax as a participle grammar. The
// parsed structs double as the AST walked by the engine.
package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

type Script struct {
	Pos        lexer.Position
	EndPos     lexer.Position
	Statements []*Statement `@@*`
}

type Statement struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Import *ImportStmt `  @@`
	Export *ExportStmt `| @@`
	Let    *LetStmt    `| @@`
	Fn     *FnDecl     `| @@`
	For    *ForStmt    `| @@`
	While  *WhileStmt  `| @@`
	If     *IfStmt     `| @@`
	Return *ReturnStmt `| @@`
	Block  *Block      `| @@`
	Assign *AssignStmt `| @@`
	Expr   *ExprStmt   `| @@`
}

// ImportStmt is `import "path" as alias;`.
type ImportStmt struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Path   string `"import" @String`
	Alias  string `"as" @Ident ";"`
}

// ExportStmt is `export a, b as c;`.
type ExportStmt struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Items  []*ExportItem `"export" @@ { "," @@ } ";"`
}

type ExportItem struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Name   string `@Ident`
	Alias  string `[ "as" @Ident ]`
}

// ExportName is the name the item is exported under.
func (e *ExportItem) ExportName() string {
	if e.Alias != "" {
		return e.Alias
	}
	return e.Name
}

type LetStmt struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Const  bool   `( "let" | @"const" )`
	Name   string `@Ident`
	Value  *Expr  `[ "=" @@ ] ";"`
}

type FnDecl struct {
	Pos     lexer.Position
	EndPos  lexer.Position
	Private bool     `[ @"private" ]`
	Name    string   `"fn" @Ident "("`
	Params  []string `[ @Ident { "," @Ident } ] ")"`
	Body    *Block   `@@`
}

type Block struct {
	Pos        lexer.Position
	EndPos     lexer.Position
	Statements []*Statement `"{" @@* "}"`
}

type ForStmt struct {
	Pos      lexer.Position
	EndPos   lexer.Position
	Var      string `"for" @Ident "in"`
	Iterable *Expr  `@@`
	Body     *Block `@@`
}

type WhileStmt struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Cond   *Expr  `"while" @@`
	Body   *Block `@@`
}

type IfStmt struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Cond   *Expr       `"if" @@`
	Then   *Block      `@@`
	Else   *ElseClause `[ "else" @@ ]`
}

type ElseClause struct {
	Pos    lexer.Position
	EndPos lexer.Position
	If     *IfStmt `  @@`
	Block  *Block  `| @@`
}

type ReturnStmt struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Value  *Expr `"return" [ @@ ] ";"`
}

type AssignStmt struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Target *Path `@@ "="`
	Value  *Expr `@@ ";"`
}

type ExprStmt struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Expr   *Expr `@@ ";"`
}

// Expr is a flat chain of binary operations. Precedence is applied by the
// compiler, not the grammar.
type Expr struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Left   *UnaryExpr `@@`
	Ops    []*BinOp   `{ @@ }`
}

type BinOp struct {
	Pos      lexer.Position
	EndPos   lexer.Position
	Operator string     `@("||" | "&&" | "==" | "!=" | "<=" | ">=" | "<" | ">" | "+" | "-" | "*" | "/" | "%")`
	Right    *UnaryExpr `@@`
}

type UnaryExpr struct {
	Pos      lexer.Position
	EndPos   lexer.Position
	Operator string       `[ @("-" | "!") ]`
	Value    *PostfixExpr `@@`
}

type PostfixExpr struct {
	Pos     lexer.Position
	EndPos  lexer.Position
	Primary *PrimaryExpr  `@@`
	Methods []*MethodCall `{ @@ }`
}

// MethodCall is `.name(args)`; the receiver is passed as the first argument
// by reference.
type MethodCall struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Name   string  `"." @Ident`
	Args   []*Expr `"(" [ @@ { "," @@ } ] ")"`
}

type PrimaryExpr struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Float  *float64     `  @Float`
	Int    *int64       `| @Integer`
	Str    *string      `| @String`
	Bool   *Boolean     `| @("true" | "false")`
	Array  *ArrayLit    `| @@`
	Call   *CallExpr    `| @@`
	Path   *Path        `| @@`
	Parens *Expr        `| "(" @@ ")"`
}

type Boolean bool

func (b *Boolean) Capture(values []string) error {
	*b = values[0] == "true"
	return nil
}

type ArrayLit struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Items  []*Expr `"[" [ @@ { "," @@ } [ "," ] ] "]"`
}

type CallExpr struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Callee *Path   `@@`
	Args   []*Expr `"(" [ @@ { "," @@ } ] ")"`
}

// Path is a possibly qualified name: `x` or `a::b::x`.
type Path struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Parts  []*PathSegment `@@ { "::" @@ }`
}

type PathSegment struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Name   string `@Ident`
}

// IsQualified reports whether the path has at least one qualifier.
func (p *Path) IsQualified() bool { return len(p.Parts) > 1 }

// Name is the final segment.
func (p *Path) Name() string { return p.Parts[len(p.Parts)-1].Name }

// Qualifiers are all segments but the last.
func (p *Path) Qualifiers() []*PathSegment { return p.Parts[:len(p.Parts)-1] }
