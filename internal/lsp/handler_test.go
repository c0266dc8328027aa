package lsp_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"loom/internal/config"
	"loom/internal/lsp"
)

const utilSource = `let two = 2;
fn double(x) { return x * 2; }
private fn hidden() { return 0; }
export two;
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func fileURI(path string) string {
	return "file://" + filepath.ToSlash(path)
}

// recorder captures published diagnostics.
type recorder struct {
	published []*protocol.PublishDiagnosticsParams
}

func (r *recorder) context() *glsp.Context {
	return &glsp.Context{
		Notify: func(method string, params any) {
			if p, ok := params.(*protocol.PublishDiagnosticsParams); ok {
				r.published = append(r.published, p)
			}
		},
	}
}

func (r *recorder) last(t *testing.T) []protocol.Diagnostic {
	t.Helper()
	require.NotEmpty(t, r.published, "no diagnostics published")
	return r.published[len(r.published)-1].Diagnostics
}

func open(t *testing.T, h *lsp.LoomHandler, ctx *glsp.Context, path, text string) {
	t.Helper()
	err := h.TextDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:        fileURI(path),
			LanguageID: "loom",
			Version:    1,
			Text:       text,
		},
	})
	require.NoError(t, err)
}

func codeOf(d protocol.Diagnostic) any {
	if d.Code == nil {
		return nil
	}
	return d.Code.Value
}

func TestTextDocumentSemanticTokensFull(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "util.loom", utilSource)
	path := writeFile(t, dir, "main.loom", `import "util" as u;
let x = u::two;
const y = 1;
print(x + y);
`)

	handler := lsp.NewLoomHandler(nil)
	tokens, err := handler.TextDocumentSemanticTokensFull(&glsp.Context{}, &protocol.SemanticTokensParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: fileURI(path)},
	})
	require.NoError(t, err, "TextDocumentSemanticTokensFull returned error")
	require.NotNil(t, tokens)

	decoded, err := decodeSemanticTokens(tokens.Data)
	require.NoError(t, err, "Failed to decode semantic tokens")
	require.Len(t, decoded, 8)

	assertToken(t, &decoded[0], 1, 1, 6, "keyword", nil)
	assertToken(t, &decoded[1], 2, 1, 3, "keyword", nil)
	assertToken(t, &decoded[2], 2, 9, 1, "namespace", nil)
	assertToken(t, &decoded[3], 2, 12, 3, "variable", nil)
	assertToken(t, &decoded[4], 3, 1, 5, "keyword", []string{"readonly"})
	assertToken(t, &decoded[5], 4, 1, 5, "function", nil)
	assertToken(t, &decoded[6], 4, 7, 1, "variable", nil)
	assertToken(t, &decoded[7], 4, 11, 1, "variable", nil)
}

func TestSemanticTokensNestedBlocks(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "main.loom", `private fn f(n) {
    if n > 0 { return m::g(n); }
}
`)

	handler := lsp.NewLoomHandler(nil)
	tokens, err := handler.TextDocumentSemanticTokensFull(&glsp.Context{}, &protocol.SemanticTokensParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: fileURI(path)},
	})
	require.NoError(t, err)

	decoded, err := decodeSemanticTokens(tokens.Data)
	require.NoError(t, err)
	require.Len(t, decoded, 7)

	assertToken(t, &decoded[0], 1, 1, 7, "modifier", nil)
	assertToken(t, &decoded[1], 2, 5, 2, "keyword", nil)
	assertToken(t, &decoded[2], 2, 8, 1, "variable", nil)
	assertToken(t, &decoded[3], 2, 16, 6, "keyword", nil)
	assertToken(t, &decoded[4], 2, 23, 1, "namespace", nil)
	assertToken(t, &decoded[5], 2, 26, 1, "function", nil)
	assertToken(t, &decoded[6], 2, 28, 1, "variable", nil)
}

func TestDiagnosticsParseError(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}
	handler := lsp.NewLoomHandler(nil)

	open(t, handler, rec.context(), filepath.Join(dir, "main.loom"), "let x = 1;\nlet y = ;\n")

	diagnostics := rec.last(t)
	require.Len(t, diagnostics, 1)
	assert.Equal(t, "E0100", codeOf(diagnostics[0]))
	assert.Equal(t, protocol.UInteger(1), diagnostics[0].Range.Start.Line)
	assert.Contains(t, diagnostics[0].Message, "syntax error")
}

func TestDiagnosticsCompileError(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}
	handler := lsp.NewLoomHandler(nil)

	open(t, handler, rec.context(), filepath.Join(dir, "main.loom"), "fn f(a, a) { return a; }\n")

	diagnostics := rec.last(t)
	require.Len(t, diagnostics, 1)
	assert.Equal(t, "E0013", codeOf(diagnostics[0]))
}

func TestDiagnosticsMissingImport(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "util.loom", utilSource)
	rec := &recorder{}

	cfg := config.Default()
	cfg.Static = map[string]map[string]any{"consts": {"answer": 42}}
	handler := lsp.NewLoomHandler(cfg)

	open(t, handler, rec.context(), filepath.Join(dir, "main.loom"),
		"import \"util\" as u;\nimport \"consts\" as c;\nimport \"missing\" as m;\n")

	diagnostics := rec.last(t)
	require.Len(t, diagnostics, 1)
	assert.Equal(t, "E0300", codeOf(diagnostics[0]))
	assert.Equal(t, protocol.UInteger(2), diagnostics[0].Range.Start.Line)
	assert.Contains(t, diagnostics[0].Message, "'missing'")
}

func TestDiagnosticsClearedOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.loom")
	rec := &recorder{}
	handler := lsp.NewLoomHandler(nil)
	ctx := rec.context()

	open(t, handler, ctx, path, "let = ;\n")
	require.NotEmpty(t, rec.last(t))

	err := handler.TextDocumentDidChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: fileURI(path)},
			Version:                2,
		},
		ContentChanges: []any{protocol.TextDocumentContentChangeEventWhole{Text: "let x = 1;\n"}},
	})
	require.NoError(t, err)
	assert.Empty(t, rec.last(t))
}

func TestTextDocumentCompletion(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "util.loom", utilSource)
	path := filepath.Join(dir, "main.loom")

	cfg := config.Default()
	cfg.Static = map[string]map[string]any{"consts": {"answer": 42}}
	handler := lsp.NewLoomHandler(cfg)
	open(t, handler, (&recorder{}).context(), path,
		"import \"util\" as u;\nimport \"consts\" as c;\nlet z = 1;\nfn local() { return z; }\n")

	result, err := handler.TextDocumentCompletion(&glsp.Context{}, &protocol.CompletionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: fileURI(path)},
		},
	})
	require.NoError(t, err)

	list, ok := result.(*protocol.CompletionList)
	require.True(t, ok)

	labels := make(map[string]protocol.CompletionItemKind)
	for _, item := range list.Items {
		labels[item.Label] = *item.Kind
	}
	assert.Equal(t, protocol.CompletionItemKindVariable, labels["u::two"])
	assert.Equal(t, protocol.CompletionItemKindFunction, labels["u::double"])
	assert.Equal(t, protocol.CompletionItemKindVariable, labels["c::answer"])
	assert.Equal(t, protocol.CompletionItemKindVariable, labels["z"])
	assert.Equal(t, protocol.CompletionItemKindFunction, labels["local"])
	assert.NotContains(t, labels, "u::hidden")
}

func TestCompletionReadsExportsWithoutRunning(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "util.loom", utilSource)
	writeFile(t, dir, "spin.loom", `import "util" as inner;
import "std/math" as m;
let limit = 3;
let unexported = 1;
while true {}
fn step(x) { return x; }
export limit as max, inner, m;
`)
	path := filepath.Join(dir, "main.loom")

	handler := lsp.NewLoomHandler(config.Default())
	open(t, handler, (&recorder{}).context(), path, "import \"spin\" as s;\n")

	result, err := handler.TextDocumentCompletion(&glsp.Context{}, &protocol.CompletionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: fileURI(path)},
		},
	})
	require.NoError(t, err)

	list, ok := result.(*protocol.CompletionList)
	require.True(t, ok)

	labels := make(map[string]protocol.CompletionItemKind)
	for _, item := range list.Items {
		labels[item.Label] = *item.Kind
	}
	assert.Equal(t, protocol.CompletionItemKindVariable, labels["s::max"])
	assert.Equal(t, protocol.CompletionItemKindFunction, labels["s::step"])
	assert.Equal(t, protocol.CompletionItemKindVariable, labels["s::inner::two"])
	assert.Equal(t, protocol.CompletionItemKindFunction, labels["s::inner::double"])
	assert.Equal(t, protocol.CompletionItemKindFunction, labels["s::m::max"])
	assert.NotContains(t, labels, "s::limit")
	assert.NotContains(t, labels, "s::unexported")
	assert.NotContains(t, labels, "s::inner::hidden")
}

func TestTextDocumentDidClose(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "main.loom", "let onDisk = 1;\n")
	handler := lsp.NewLoomHandler(nil)

	open(t, handler, (&recorder{}).context(), path, "let inMemory = 1;\n")
	require.NoError(t, handler.TextDocumentDidClose(&glsp.Context{}, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: fileURI(path)},
	}))

	// closed documents are reloaded from disk
	result, err := handler.TextDocumentCompletion(&glsp.Context{}, &protocol.CompletionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: fileURI(path)},
		},
	})
	require.NoError(t, err)
	list := result.(*protocol.CompletionList)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "onDisk", list.Items[0].Label)
}

type DecodedToken struct {
	Index     int
	Line      uint32
	Char      uint32
	Length    uint32
	Type      string
	Modifiers []string
}

func decodeSemanticTokens(raw []uint32) ([]DecodedToken, error) {
	if len(raw)%5 != 0 {
		return nil, fmt.Errorf("raw token data length %d is not a multiple of 5", len(raw))
	}

	var (
		decoded []DecodedToken
		line    uint32
		char    uint32
	)

	for i := 0; i < len(raw); i += 5 {
		deltaLine := raw[i]
		deltaStart := raw[i+1]
		length := raw[i+2]
		tokenTypeIdx := raw[i+3]
		tokenModMask := raw[i+4]

		if deltaLine == 0 {
			char += deltaStart
		} else {
			line += deltaLine
			char = deltaStart
		}

		var modifiers []string
		for j, name := range lsp.SemanticTokenModifiers {
			if tokenModMask&(1<<j) != 0 {
				modifiers = append(modifiers, name)
			}
		}

		decoded = append(decoded, DecodedToken{
			Index:     i / 5,
			Line:      line + 1,
			Char:      char + 1,
			Length:    length,
			Type:      lsp.SemanticTokenTypes[tokenTypeIdx],
			Modifiers: modifiers,
		})
	}

	return decoded, nil
}

func assertToken(t *testing.T, token *DecodedToken, expectedLine, expectedChar, expectedLength uint32, expectedType string, expectedModifiers []string) {
	require.Equal(t, expectedLine, token.Line, "line mismatch (expected line %d)", expectedLine)
	require.Equal(t, expectedChar, token.Char, "char mismatch (expected char %d)", expectedChar)
	require.Equal(t, expectedLength, token.Length, "length mismatch")
	require.Equal(t, expectedType, token.Type, "type mismatch")
	require.ElementsMatch(t, expectedModifiers, token.Modifiers, "modifiers mismatch")
}
