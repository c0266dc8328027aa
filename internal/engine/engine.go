// Package engine compiles and evaluates loom scripts. It is the client of the
// module system: `import` statements go through the configured resolver, and
// qualified paths are looked up in the imported module's index.
package engine

import (
	"fmt"
	"io"
	"os"

	"github.com/tliron/commonlog"

	"loom/grammar"
	"loom/internal/dynamic"
	"loom/internal/errors"
	"loom/internal/module"
	"loom/internal/scope"
)

const (
	DefaultMaxCallDepth   = 128
	DefaultMaxImportDepth = 32
)

// Engine holds the global module and the module resolver shared by every
// script it runs.
type Engine struct {
	global         *module.Module
	resolver       module.Resolver
	maxCallDepth   int
	maxImportDepth int
	out            io.Writer
	log            commonlog.Logger
}

type Option func(*Engine)

// WithResolver sets the module resolver used by `import`.
func WithResolver(r module.Resolver) Option {
	return func(e *Engine) { e.resolver = r }
}

func WithMaxCallDepth(n int) Option {
	return func(e *Engine) { e.maxCallDepth = n }
}

func WithMaxImportDepth(n int) Option {
	return func(e *Engine) { e.maxImportDepth = n }
}

// WithOutput redirects `print`.
func WithOutput(w io.Writer) Option {
	return func(e *Engine) { e.out = w }
}

func WithLogger(l commonlog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// New creates an engine with the built-in functions registered and no module
// resolver.
func New(opts ...Option) *Engine {
	e := &Engine{
		global:         module.New(),
		maxCallDepth:   DefaultMaxCallDepth,
		maxImportDepth: DefaultMaxImportDepth,
		out:            os.Stdout,
		log:            commonlog.GetLogger("loom.engine"),
	}
	for _, opt := range opts {
		opt(e)
	}
	registerBuiltins(e)
	return e
}

// GlobalModule is where host functions and type iterators are registered.
// Unqualified calls that no script function matches are looked up here.
func (e *Engine) GlobalModule() *module.Module { return e.global }

// SetModuleResolver replaces the module resolver; nil removes it.
func (e *Engine) SetModuleResolver(r module.Resolver) { e.resolver = r }

func (e *Engine) ModuleResolver() module.Resolver { return e.resolver }

// Compile parses and compiles a script held in memory.
func (e *Engine) Compile(source string) (*AST, error) {
	return e.CompileNamed("", source)
}

// CompileNamed is Compile with a file name recorded in positions.
func (e *Engine) CompileNamed(filename, source string) (*AST, error) {
	script, err := grammar.ParseString(filename, source)
	if err != nil {
		return nil, parseError(err)
	}
	return compileScript(filename, script)
}

// CompileParsed compiles an already parsed script.
func (e *Engine) CompileParsed(filename string, script *grammar.Script) (*AST, error) {
	return compileScript(filename, script)
}

// CompileFile reads and compiles a script file.
func (e *Engine) CompileFile(path string) (module.Program, error) {
	return e.CompileScriptFile(path)
}

// CompileScriptFile is CompileFile returning the concrete AST.
func (e *Engine) CompileScriptFile(path string) (*AST, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, &errors.EvalError{
			Code:    errors.ErrorModuleRead,
			Message: fmt.Sprintf("cannot read script '%s'", path),
			Name:    path,
			Err:     err,
		}
	}
	e.log.Debugf("compiling %s", path)
	return e.CompileNamed(path, string(source))
}

func parseError(err error) error {
	if pos, msg, ok := grammar.ErrorPosition(err); ok {
		return errors.ParseError(msg, pos)
	}
	return &errors.EvalError{Code: errors.ErrorParse, Message: "syntax error", Err: err}
}

// Eval compiles and runs source in a fresh scope and returns the value of
// the last statement.
func (e *Engine) Eval(source string) (dynamic.Value, error) {
	return e.EvalWithScope(scope.New(), source)
}

// EvalWithScope runs source in sc. Top-level bindings stay in sc.
func (e *Engine) EvalWithScope(sc *scope.Scope, source string) (dynamic.Value, error) {
	ast, err := e.Compile(source)
	if err != nil {
		return dynamic.Value{}, err
	}
	return e.EvalAST(sc, ast)
}

// EvalFile compiles and runs a script file in sc.
func (e *Engine) EvalFile(sc *scope.Scope, path string) (dynamic.Value, error) {
	ast, err := e.CompileScriptFile(path)
	if err != nil {
		return dynamic.Value{}, err
	}
	return e.EvalAST(sc, ast)
}

func (e *Engine) EvalAST(sc *scope.Scope, ast *AST) (dynamic.Value, error) {
	return e.run(sc, ast, 0)
}

// EvalProgram runs a program compiled by this engine, discarding its value.
func (e *Engine) EvalProgram(sc *scope.Scope, p module.Program) error {
	ast, err := asAST(p)
	if err != nil {
		return err
	}
	_, err = e.run(sc, ast, 0)
	return err
}

func (e *Engine) run(sc *scope.Scope, ast *AST, importDepth int) (dynamic.Value, error) {
	s := &state{engine: e, lib: ast.lib, imports: importDepth}
	v, err := s.stmts(sc, ast.stmts)
	if ret, ok := err.(*returnSignal); ok {
		return ret.value, nil
	}
	return v, err
}

func asAST(p module.Program) (*AST, error) {
	ast, ok := p.(*AST)
	if !ok {
		return nil, fmt.Errorf("program of type %T was not compiled by a loom engine", p)
	}
	return ast, nil
}

// importer is the engine as seen by a resolver loading a module for an
// import nested depth levels deep.
type importer struct {
	*Engine
	depth int
}

func (i *importer) EvalProgram(sc *scope.Scope, p module.Program) error {
	ast, err := asAST(p)
	if err != nil {
		return err
	}
	_, err = i.run(sc, ast, i.depth)
	return err
}
