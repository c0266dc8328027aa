// SPDX-License-Identifier: Apache-2.0
package main

import (
	"os"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"loom/internal/config"
	"loom/internal/lsp"
)

const lsName = "loom" // Name identifier for the language server

var (
	version = "0.0.1"        // Server version
	handler protocol.Handler // Protocol handler instance (wired up below)
)

func main() {
	cfg, err := config.Load(os.Getenv("LOOM_CONFIG"))
	if err != nil {
		cfg = config.Default()
	}

	// Log to stderr; stdout carries the protocol
	commonlog.Configure(max(cfg.Verbosity, 1), nil)
	log := commonlog.GetLogger("loom.lsp")
	if err != nil {
		log.Warningf("ignoring configuration: %s", err)
	}

	loomHandler := lsp.NewLoomHandler(cfg)

	handler = protocol.Handler{
		Initialize:                     loomHandler.Initialize,
		Initialized:                    loomHandler.Initialized,
		Shutdown:                       loomHandler.Shutdown,
		SetTrace:                       loomHandler.SetTrace,
		TextDocumentDidOpen:            loomHandler.TextDocumentDidOpen,
		TextDocumentDidClose:           loomHandler.TextDocumentDidClose,
		TextDocumentDidChange:          loomHandler.TextDocumentDidChange,
		TextDocumentCompletion:         loomHandler.TextDocumentCompletion,
		TextDocumentSemanticTokensFull: loomHandler.TextDocumentSemanticTokensFull,
	}

	// debug=false keeps glsp's own message tracing off
	s := server.NewServer(&handler, lsName, false)

	log.Infof("starting loom LSP server %s", version)

	if err := s.RunStdio(); err != nil {
		log.Errorf("error running loom LSP server: %s", err)
		os.Exit(1)
	}
}
