package lsp

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"loom/grammar"
	"loom/internal/config"
	"loom/internal/engine"
)

var log = commonlog.GetLogger("loom.lsp")

// Define the set of supported semantic token types, advertised in the legend
var SemanticTokenTypes = []string{
	"namespace",
	"function",
	"variable",
	"keyword",
	"modifier",
}

// Define the set of supported semantic token modifiers
var SemanticTokenModifiers = []string{
	"declaration",
	"readonly",
}

// LoomHandler implements the LSP server handlers for loom scripts
type LoomHandler struct {
	mu      sync.RWMutex
	cfg     *config.Config
	content map[string]string
	scripts map[string]*grammar.Script
}

// NewLoomHandler creates a handler resolving imports the way cfg describes.
// A nil cfg uses config.Default().
func NewLoomHandler(cfg *config.Config) *LoomHandler {
	if cfg == nil {
		cfg = config.Default()
	}
	return &LoomHandler{
		cfg:     cfg,
		content: make(map[string]string),
		scripts: make(map[string]*grammar.Script),
	}
}

// Initialize responds to the LSP client's initialize request and advertises the server's capabilities
func (h *LoomHandler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Info("LSP Initialize called")

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true),
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
			CompletionProvider: &protocol.CompletionOptions{
				ResolveProvider:   ptrBool(false),
				TriggerCharacters: []string{":"},
			},
			SemanticTokensProvider: &protocol.SemanticTokensOptions{
				Legend: protocol.SemanticTokensLegend{
					TokenTypes:     SemanticTokenTypes,
					TokenModifiers: SemanticTokenModifiers,
				},
				Full: ptrBool(true),
			},
		},
	}, nil
}

func (h *LoomHandler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Info("loom LSP initialized")
	return nil
}

func (h *LoomHandler) Shutdown(ctx *glsp.Context) error {
	log.Info("loom LSP shutdown")
	return nil
}

func (h *LoomHandler) SetTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	return nil
}

// TextDocumentDidOpen handles file open notifications from the editor
func (h *LoomHandler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	log.Debugf("opened file: %s", params.TextDocument.URI)
	return h.refresh(ctx, params.TextDocument.URI, &params.TextDocument.Text)
}

// TextDocumentDidChange handles file change notifications from the editor
func (h *LoomHandler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	log.Debugf("changed file: %s", params.TextDocument.URI)

	var text *string
	for _, change := range params.ContentChanges {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			text = &c.Text
		case protocol.TextDocumentContentChangeEvent:
			if c.Range == nil {
				text = &c.Text
			}
		}
	}
	return h.refresh(ctx, params.TextDocument.URI, text)
}

// TextDocumentDidClose handles file close notifications from the editor
func (h *LoomHandler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	log.Debugf("closed file: %s", params.TextDocument.URI)

	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.content, path)
	delete(h.scripts, path)

	return nil
}

// TextDocumentCompletion offers the qualified names exported by the modules
// the document imports, plus its own top-level functions.
func (h *LoomHandler) TextDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, err
	}
	script, err := h.getOrUpdateScript(ctx, path, params.TextDocument.URI)
	if err != nil {
		return nil, err
	}

	return &protocol.CompletionList{
		IsIncomplete: false,
		Items:        h.completions(path, script),
	}, nil
}

// TextDocumentSemanticTokensFull handles semantic token requests for the entire document
func (h *LoomHandler) TextDocumentSemanticTokensFull(ctx *glsp.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	log.Debugf("semantic tokens requested for %s", params.TextDocument.URI)

	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, err
	}

	script, err := h.getOrUpdateScript(ctx, path, params.TextDocument.URI)
	if err != nil {
		return nil, err
	}

	return &protocol.SemanticTokens{
		Data: encodeSemanticTokens(collectSemanticTokens(script)),
	}, nil
}

func (h *LoomHandler) getOrUpdateScript(ctx *glsp.Context, path string, rawURI protocol.DocumentUri) (*grammar.Script, error) {
	h.mu.RLock()
	script, ok := h.scripts[path]
	h.mu.RUnlock()

	if !ok {
		if err := h.refresh(ctx, rawURI, nil); err != nil {
			return nil, err
		}
		h.mu.RLock()
		script = h.scripts[path]
		h.mu.RUnlock()
	}

	return script, nil
}

// refresh re-parses a document and publishes its diagnostics. A nil text
// reads the document from disk.
func (h *LoomHandler) refresh(ctx *glsp.Context, rawURI protocol.DocumentUri, text *string) error {
	path, err := uriToPath(rawURI)
	if err != nil {
		return err
	}

	var content string
	if text != nil {
		content = *text
	} else {
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", path, err)
		}
		content = string(raw)
	}

	diagnostics := h.analyze(path, content)
	sendDiagnosticNotification(ctx, rawURI, diagnostics)
	return nil
}

// analyze parses and compiles a document and checks that its imports
// resolve. The parsed script is kept for later requests.
func (h *LoomHandler) analyze(path, content string) []protocol.Diagnostic {
	h.mu.Lock()
	h.content[path] = content
	h.mu.Unlock()

	script, err := grammar.ParseString(path, content)
	if err != nil {
		return ConvertParseError(err)
	}

	h.mu.Lock()
	h.scripts[path] = script
	h.mu.Unlock()

	diagnostics := []protocol.Diagnostic{}
	if _, err := engine.New().CompileParsed(path, script); err != nil {
		diagnostics = append(diagnostics, ConvertEvalError(err)...)
	}
	return append(diagnostics, h.checkImports(path, script)...)
}

// baseDir is the directory imports in the document at path resolve against.
func (h *LoomHandler) baseDir(path string) string {
	if filepath.IsAbs(h.cfg.BaseDir) {
		return h.cfg.BaseDir
	}
	return filepath.Join(filepath.Dir(path), h.cfg.BaseDir)
}

func (h *LoomHandler) checkImports(path string, script *grammar.Script) []protocol.Diagnostic {
	base := h.baseDir(path)
	files := h.cfg.FileResolver(base)

	var diagnostics []protocol.Diagnostic
	for _, s := range script.Statements {
		if imp := s.Import; imp != nil && !h.cfg.HasModule(base, imp.Path) {
			diagnostics = append(diagnostics, importDiagnostic(imp, files.FilePath(imp.Path)))
		}
	}
	return diagnostics
}

func (h *LoomHandler) completions(path string, script *grammar.Script) []protocol.CompletionItem {
	items := []protocol.CompletionItem{}
	if script == nil {
		return items
	}

	cfg := *h.cfg
	cfg.BaseDir = h.baseDir(path)

	for _, s := range script.Statements {
		switch {
		case s.Fn != nil && !s.Fn.Private:
			items = append(items, completionItem(s.Fn.Name, protocol.CompletionItemKindFunction, "fn"))
		case s.Let != nil:
			items = append(items, completionItem(s.Let.Name, protocol.CompletionItemKindVariable, "let"))
		case s.Import != nil:
			imp := s.Import
			ex, err := moduleExports(&cfg, imp.Path, 0)
			if err != nil {
				log.Debugf("completion: cannot read '%s': %s", imp.Path, err)
				continue
			}
			prefix := imp.Alias + "::"
			for _, name := range ex.vars {
				items = append(items, completionItem(prefix+name, protocol.CompletionItemKindVariable, imp.Path))
			}
			for _, name := range ex.fns {
				items = append(items, completionItem(prefix+name, protocol.CompletionItemKindFunction, imp.Path))
			}
		}
	}
	return items
}

func completionItem(label string, kind protocol.CompletionItemKind, detail string) protocol.CompletionItem {
	return protocol.CompletionItem{
		Label:  label,
		Kind:   &kind,
		Detail: &detail,
	}
}

// Convert URI to platform-local file path
func uriToPath(rawURI string) (string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return "", fmt.Errorf("invalid URI %s: %w", rawURI, err)
	}

	path := u.Path

	// On Windows, remove leading slash (e.g., /C:/...) -> C:/...
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 3 && path[2] == ':' {
		path = path[1:]
	}

	return filepath.FromSlash(path), nil
}

func sendDiagnosticNotification(ctx *glsp.Context, uri protocol.URI, diagnostics []protocol.Diagnostic) {
	if ctx == nil || ctx.Notify == nil {
		return
	}
	log.Debugf("sending %d diagnostics for %s", len(diagnostics), uri)

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func ptrBool(b bool) *bool {
	return &b
}

func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
