package lsp

import (
	"errors"
	"fmt"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"loom/grammar"
	lerrors "loom/internal/errors"
	"loom/token"
)

const diagnosticSource = "loom"

// ConvertParseError turns a participle error into a diagnostic at the
// offending token.
func ConvertParseError(err error) []protocol.Diagnostic {
	pos, msg, ok := grammar.ErrorPosition(err)
	if !ok {
		return []protocol.Diagnostic{newDiagnostic(token.Position{Line: 1, Column: 1}, 1, lerrors.ErrorParse, err.Error())}
	}
	return []protocol.Diagnostic{newDiagnostic(pos, 1, lerrors.ErrorParse, "syntax error: "+msg)}
}

// ConvertEvalError converts loom errors into diagnostics. Errors without a
// position are reported at the start of the document.
func ConvertEvalError(err error) []protocol.Diagnostic {
	var ee *lerrors.EvalError
	if !errors.As(err, &ee) {
		return []protocol.Diagnostic{newDiagnostic(token.Position{Line: 1, Column: 1}, 1, "", err.Error())}
	}
	pos := ee.Position
	if pos.IsNone() {
		pos = token.Position{Line: 1, Column: 1}
	}
	return []protocol.Diagnostic{newDiagnostic(pos, max(1, len(ee.Name)), ee.Code, ee.Message)}
}

func importDiagnostic(imp *grammar.ImportStmt, file string) protocol.Diagnostic {
	pos := grammar.ToPosition(imp.Pos)
	length := len("import")
	if imp.EndPos.Line == imp.Pos.Line {
		length = imp.EndPos.Column - imp.Pos.Column
	}
	return newDiagnostic(pos, length, lerrors.ErrorModuleNotFound,
		fmt.Sprintf("module not found: '%s' (no static module and no file %s)", imp.Path, file))
}

// newDiagnostic builds an error diagnostic; pos is 1-based, LSP ranges are
// 0-based.
func newDiagnostic(pos token.Position, length int, code, message string) protocol.Diagnostic {
	severity := protocol.DiagnosticSeverityError
	source := diagnosticSource

	start := protocol.Position{
		Line:      protocol.UInteger(max(0, pos.Line-1)),
		Character: protocol.UInteger(max(0, pos.Column-1)),
	}
	end := start
	end.Character += protocol.UInteger(length)

	d := protocol.Diagnostic{
		Range:    protocol.Range{Start: start, End: end},
		Severity: &severity,
		Source:   &source,
		Message:  message,
	}
	if code != "" {
		d.Code = &protocol.IntegerOrString{Value: code}
	}
	return d
}
