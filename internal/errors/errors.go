// Package errors defines the coded errors raised while compiling, resolving
// and evaluating loom scripts, and a reporter that renders them for a
// terminal.
package errors

import (
	"errors"
	"fmt"
	"strings"

	"loom/token"
)

// EvalError is the single error type surfaced by the runtime. Code selects the
// kind; Name carries the symbol or module path the error is about.
type EvalError struct {
	Code        string
	Message     string
	Name        string
	Position    token.Position
	Suggestions []string
	Err         error
}

func (e *EvalError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if !e.Position.IsNone() {
		fmt.Fprintf(&b, " (%s)", e.Position)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *EvalError) Unwrap() error { return e.Err }

// Is matches another *EvalError with the same code, so callers can test kinds
// with errors.Is(err, errors.ErrModuleNotFound).
func (e *EvalError) Is(target error) bool {
	t, ok := target.(*EvalError)
	return ok && t.Code == e.Code
}

// Sentinels for errors.Is.
var (
	ErrVariableNotFound = &EvalError{Code: ErrorVariableNotFound}
	ErrFunctionNotFound = &EvalError{Code: ErrorFunctionNotFound}
	ErrModuleNotFound   = &EvalError{Code: ErrorModuleNotFound}
	ErrNoResolver       = &EvalError{Code: ErrorNoResolver}
	ErrParse            = &EvalError{Code: ErrorParse}
	ErrStackOverflow    = &EvalError{Code: ErrorStackOverflow}
)

func New(code string, pos token.Position, format string, args ...any) *EvalError {
	return &EvalError{Code: code, Message: fmt.Sprintf(format, args...), Position: pos}
}

// VariableNotFound is raised when a variable is missing from scope or from a
// module's qualified index.
func VariableNotFound(name string, pos token.Position) *EvalError {
	return &EvalError{
		Code:     ErrorVariableNotFound,
		Message:  fmt.Sprintf("variable not found: '%s'", name),
		Name:     name,
		Position: pos,
	}
}

// FunctionNotFound is raised when no function matches a call. Qualified
// lookups raise it without a position; the evaluator attaches one.
func FunctionNotFound(name string, pos token.Position) *EvalError {
	return &EvalError{
		Code:     ErrorFunctionNotFound,
		Message:  fmt.Sprintf("function not found: '%s'", name),
		Name:     name,
		Position: pos,
	}
}

// ModuleNotFound is raised by resolvers that have nothing for path.
func ModuleNotFound(path string, pos token.Position) *EvalError {
	return &EvalError{
		Code:     ErrorModuleNotFound,
		Message:  fmt.Sprintf("module not found: '%s'", path),
		Name:     path,
		Position: pos,
	}
}

// NoResolver is raised by `import` when the engine has no resolver. It is a
// configuration error, distinct from ModuleNotFound.
func NoResolver(path string, pos token.Position) *EvalError {
	return &EvalError{
		Code:     ErrorNoResolver,
		Message:  fmt.Sprintf("cannot import '%s': no module resolver configured", path),
		Name:     path,
		Position: pos,
	}
}

func NotAModule(name string, pos token.Position) *EvalError {
	return &EvalError{
		Code:     ErrorNotAModule,
		Message:  fmt.Sprintf("'%s' is not a module", name),
		Name:     name,
		Position: pos,
	}
}

func ParseError(message string, pos token.Position) *EvalError {
	return &EvalError{Code: ErrorParse, Message: "syntax error: " + message, Position: pos}
}

func TypeMismatch(expected, actual string, pos token.Position) *EvalError {
	return &EvalError{
		Code:     ErrorTypeMismatch,
		Message:  fmt.Sprintf("type mismatch: expected %s, found %s", expected, actual),
		Position: pos,
	}
}

// Runtime wraps an error returned by native code.
func Runtime(err error, pos token.Position) *EvalError {
	return &EvalError{Code: ErrorRuntime, Message: "runtime error", Position: pos, Err: err}
}

// WithSuggestions attaches "did you mean" candidates close to the error's name.
func (e *EvalError) WithSuggestions(candidates []string) *EvalError {
	e.Suggestions = findSimilarNames(e.Name, candidates)
	return e
}

// WithPosition moves err to pos. EvalErrors keep their kind; any other error
// is wrapped as a runtime error. The input is not modified.
func WithPosition(err error, pos token.Position) error {
	if err == nil {
		return nil
	}
	var ee *EvalError
	if errors.As(err, &ee) {
		out := *ee
		out.Position = pos
		return &out
	}
	return Runtime(err, pos)
}

// PositionIfNone attaches pos only when err carries no position yet.
func PositionIfNone(err error, pos token.Position) error {
	var ee *EvalError
	if errors.As(err, &ee) && ee.Position.IsNone() {
		return WithPosition(err, pos)
	}
	return err
}

// CodeOf returns the code of the first EvalError in err's chain.
func CodeOf(err error) string {
	var ee *EvalError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return ""
}

// Diagnostic converts the error into the reporter's format.
func (e *EvalError) Diagnostic() CompilerError {
	d := CompilerError{
		Level:    Error,
		Code:     e.Code,
		Message:  e.Message,
		Position: e.Position,
		Length:   max(1, len(e.Name)),
	}
	if e.Err != nil {
		d.Notes = append(d.Notes, e.Err.Error())
	}
	switch len(e.Suggestions) {
	case 0:
	case 1:
		d.Suggestions = append(d.Suggestions, Suggestion{Message: fmt.Sprintf("did you mean '%s'?", e.Suggestions[0])})
	default:
		d.Suggestions = append(d.Suggestions, Suggestion{
			Message: fmt.Sprintf("did you mean one of: '%s'?", strings.Join(e.Suggestions, "', '")),
		})
	}
	if e.Code == ErrorNoResolver {
		d.HelpText = "configure a module resolver on the engine before running scripts that import"
	}
	return d
}

func findSimilarNames(target string, candidates []string) []string {
	var similar []string

	for _, candidate := range candidates {
		if candidate != target && levenshteinDistance(target, candidate) <= 2 && len(candidate) > 2 {
			similar = append(similar, candidate)
		}
	}

	return similar
}

// Simple Levenshtein distance implementation for finding similar names
func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}
