package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loom/token"
)

func TestErrorReporter(t *testing.T) {
	source := `import "lib" as lib;
let total = lib::totl;
print(total);`

	reporter := NewErrorReporter("main.loom", source)

	err := VariableNotFound("lib::totl", token.Position{Line: 2, Column: 13}).
		WithSuggestions([]string{"lib::total", "other"})
	formatted := reporter.FormatEvalError(err)

	assert.Contains(t, formatted, "error["+ErrorVariableNotFound+"]")
	assert.Contains(t, formatted, "variable not found")
	assert.Contains(t, formatted, "main.loom:2:13")
	assert.Contains(t, formatted, "did you mean 'lib::total'")
}

func TestFormatForeignError(t *testing.T) {
	reporter := NewErrorReporter("main.loom", "")
	formatted := reporter.FormatEvalError(fmt.Errorf("boom"))
	assert.Contains(t, formatted, "boom")
}

func TestErrorKindsMatchWithIs(t *testing.T) {
	pos := token.Position{Line: 4, Column: 1}

	err := fmt.Errorf("loading: %w", ModuleNotFound("missing", pos))
	assert.True(t, stderrors.Is(err, ErrModuleNotFound))
	assert.False(t, stderrors.Is(err, ErrNoResolver))
	assert.Equal(t, ErrorModuleNotFound, CodeOf(err))

	var ee *EvalError
	require.True(t, stderrors.As(err, &ee))
	assert.Equal(t, "missing", ee.Name)
	assert.Equal(t, pos, ee.Position)
}

func TestWithPosition(t *testing.T) {
	inner := ParseError("unexpected token", token.Position{Filename: "lib.loom", Line: 9, Column: 2})
	importPos := token.Position{Filename: "main.loom", Line: 1, Column: 1}

	moved := WithPosition(inner, importPos)
	var ee *EvalError
	require.True(t, stderrors.As(moved, &ee))
	assert.Equal(t, ErrorParse, ee.Code, "repositioning keeps the kind")
	assert.Equal(t, importPos, ee.Position)
	assert.Equal(t, 9, inner.Position.Line, "original error is not modified")

	wrapped := WithPosition(fmt.Errorf("disk on fire"), importPos)
	assert.Equal(t, ErrorRuntime, CodeOf(wrapped))
	assert.Contains(t, wrapped.Error(), "disk on fire")

	assert.Nil(t, WithPosition(nil, importPos))
}

func TestPositionIfNone(t *testing.T) {
	pos := token.Position{Line: 3, Column: 7}

	fn := FunctionNotFound("calc", token.None())
	var ee *EvalError
	require.True(t, stderrors.As(PositionIfNone(fn, pos), &ee))
	assert.Equal(t, pos, ee.Position)

	placed := FunctionNotFound("calc", token.Position{Line: 1, Column: 1})
	require.True(t, stderrors.As(PositionIfNone(placed, pos), &ee))
	assert.Equal(t, 1, ee.Position.Line)
}

func TestNoResolverHasHelp(t *testing.T) {
	d := NoResolver("x", token.Position{Line: 1, Column: 1}).Diagnostic()
	assert.Equal(t, ErrorNoResolver, d.Code)
	assert.NotEmpty(t, d.HelpText)
}

func TestErrorMarkerCreation(t *testing.T) {
	source := `let variable = value;`
	reporter := NewErrorReporter("test.loom", source)

	marker := reporter.createMarker(5, 8, Error)

	spaces := strings.Count(marker, " ")
	assert.Equal(t, 4, spaces)
	carets := strings.Count(marker, "^")
	assert.Equal(t, 8, carets)
}

func TestLevenshteinDistance(t *testing.T) {
	assert.Equal(t, 0, levenshteinDistance("hello", "hello"))
	assert.Equal(t, 1, levenshteinDistance("hello", "hallo"))
	assert.Equal(t, 1, levenshteinDistance("hello", "helo"))
	assert.Equal(t, 5, levenshteinDistance("hello", ""))
	assert.Equal(t, 3, levenshteinDistance("kitten", "sitting"))
}

func TestErrorCategories(t *testing.T) {
	assert.Equal(t, "Evaluation", GetErrorCategory(ErrorVariableNotFound))
	assert.Equal(t, "Parser", GetErrorCategory(ErrorParse))
	assert.Equal(t, "Import/Module", GetErrorCategory(ErrorNoResolver))
	assert.Equal(t, "Limits", GetErrorCategory(ErrorStackOverflow))
	assert.NotEqual(t, "Unknown error code", GetErrorDescription(ErrorModuleNotFound))
}

func TestFormatErrorWithoutPosition(t *testing.T) {
	reporter := NewErrorReporter("main.loom", "let x = 1;")
	err := &EvalError{Code: ErrorModuleRead, Message: "cannot read script 'lib.loom'", Err: fmt.Errorf("permission denied")}

	formatted := reporter.FormatEvalError(err)
	assert.Contains(t, formatted, "--> main.loom\n")
	assert.NotContains(t, formatted, "^")
	assert.Contains(t, formatted, "note: permission denied")
	assert.Contains(t, formatted, "Import/Module error E0301")
}

func TestFormatErrorInOtherFile(t *testing.T) {
	reporter := NewErrorReporter("main.loom", "import \"lib\" as lib;")
	err := ParseError("unexpected token", token.Position{Filename: "lib.loom", Line: 1, Column: 5})

	formatted := reporter.FormatEvalError(err)
	assert.Contains(t, formatted, "lib.loom:1:5")
	assert.NotContains(t, formatted, "import \"lib\"", "excerpt comes from the reporter's own file only")
}

func TestFormatErrorExcerpt(t *testing.T) {
	source := "let a = 1;\nlet b = c;\nlet d = 2;"
	reporter := NewErrorReporter("main.loom", source)

	formatted := reporter.FormatEvalError(VariableNotFound("c", token.Position{Line: 2, Column: 9}))
	assert.Contains(t, formatted, "  1 │ let a = 1;")
	assert.Contains(t, formatted, "  2 │ let b = c;")
	assert.Contains(t, formatted, "  3 │ let d = 2;")
	assert.Contains(t, formatted, "│         ^\n")
}
