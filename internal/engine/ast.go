package engine

import (
	"loom/internal/dynamic"
	"loom/internal/module"
	"loom/token"
)

// AST is a compiled script. It is produced by Engine.Compile and can be run
// any number of times. Qualified call sites cache the scope slot of their
// module binding, so an AST must not be evaluated concurrently.
type AST struct {
	filename string
	stmts    []stmt
	lib      module.FunctionsLib
	imports  []string
}

// FunctionsLib returns the script functions declared at the top level.
func (a *AST) FunctionsLib() module.FunctionsLib { return a.lib }

// Imports lists the paths of the top-level import statements, in order.
func (a *AST) Imports() []string { return a.imports }

func (a *AST) Filename() string { return a.filename }

type node interface {
	Pos() token.Position
}

type stmt interface {
	node
	stmtNode()
}

type expr interface {
	node
	exprNode()
}

type at struct{ pos token.Position }

func (a at) Pos() token.Position { return a.pos }

// block is the compiled form of `{ ... }` and of a function body.
type block struct {
	at
	stmts []stmt
}

type (
	importStmt struct {
		at
		path  string
		alias string
	}

	exportItem struct {
		at
		name  string
		alias string
	}

	exportStmt struct {
		at
		items []exportItem
	}

	letStmt struct {
		at
		name     string
		constant bool
		value    expr
	}

	forStmt struct {
		at
		name     string
		iterable expr
		body     *block
	}

	whileStmt struct {
		at
		cond expr
		body *block
	}

	ifStmt struct {
		at
		cond expr
		then *block
		els  *block
	}

	returnStmt struct {
		at
		value expr
	}

	assignStmt struct {
		at
		target expr
		value  expr
	}

	exprStmt struct {
		at
		expr expr
	}
)

func (*block) stmtNode()      {}
func (*importStmt) stmtNode() {}
func (*exportStmt) stmtNode() {}
func (*letStmt) stmtNode()    {}
func (*forStmt) stmtNode()    {}
func (*whileStmt) stmtNode()  {}
func (*ifStmt) stmtNode()     {}
func (*returnStmt) stmtNode() {}
func (*assignStmt) stmtNode() {}
func (*exprStmt) stmtNode()   {}

type (
	literal struct {
		at
		value dynamic.Value
	}

	arrayExpr struct {
		at
		items []expr
	}

	varExpr struct {
		at
		name string
	}

	// qualifiedVarExpr is `a::b::x`. hash is the qualified variable
	// fingerprint under the module's index.
	qualifiedVarExpr struct {
		at
		ref  *module.ModuleRef
		name string
		hash uint64
	}

	unaryExpr struct {
		at
		op      string
		operand expr
	}

	binaryExpr struct {
		at
		op          string
		left, right expr
	}

	// callExpr is `f(x)` or `a::b::f(x)`. defHash is the definition
	// fingerprint: unqualified for local calls, under ref for qualified ones.
	callExpr struct {
		at
		ref     *module.ModuleRef
		name    string
		args    []expr
		defHash uint64
	}

	// methodExpr is `recv.f(x)`, a call to f with recv passed by reference.
	methodExpr struct {
		at
		recv    expr
		name    string
		args    []expr
		defHash uint64
	}
)

func (*literal) exprNode()          {}
func (*arrayExpr) exprNode()        {}
func (*varExpr) exprNode()          {}
func (*qualifiedVarExpr) exprNode() {}
func (*unaryExpr) exprNode()        {}
func (*binaryExpr) exprNode()       {}
func (*callExpr) exprNode()         {}
func (*methodExpr) exprNode()       {}

// displayName is the name shown in errors for a possibly qualified symbol.
func displayName(ref *module.ModuleRef, name string) string {
	if ref == nil {
		return name
	}
	return ref.String() + name
}
