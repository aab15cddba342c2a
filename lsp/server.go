// Package lsp is the cssom language server: diagnostics, formatting,
// document colors and folding ranges for CSS and the CSS embedded in HTML
// and JS/TS documents.
package lsp

import (
	"fmt"
	"sync"

	"bennypowers.dev/cssom/internal/config"
	"bennypowers.dev/cssom/internal/documents"
	"bennypowers.dev/cssom/internal/log"
	"bennypowers.dev/cssom/lsp/methods/lifecycle"
	"bennypowers.dev/cssom/lsp/methods/textDocument"
	"bennypowers.dev/cssom/lsp/methods/textDocument/diagnostic"
	documentcolor "bennypowers.dev/cssom/lsp/methods/textDocument/documentColor"
	foldingrange "bennypowers.dev/cssom/lsp/methods/textDocument/foldingRange"
	"bennypowers.dev/cssom/lsp/methods/textDocument/formatting"
	"bennypowers.dev/cssom/lsp/methods/workspace"
	"bennypowers.dev/cssom/lsp/types"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"
)

var _ types.ServerContext = (*Server)(nil)

// Server is the cssom language server.
type Server struct {
	documents  *documents.Manager
	handler    *CustomHandler
	glspServer *server.Server

	// mu guards the fields below.
	mu                         sync.RWMutex
	context                    *glsp.Context
	rootURI                    string
	rootPath                   string
	clientDiagnosticCapability *bool // nil until initialize
	usePullDiagnostics         bool
}

// NewServer creates the server and registers its handlers.
func NewServer() (*Server, error) {
	s := &Server{documents: documents.NewManager()}

	protocolHandler := protocol.Handler{
		Initialize:                      method(s, "initialize", lifecycle.Initialize),
		Initialized:                     notify(s, "initialized", lifecycle.Initialized),
		Shutdown:                        noParam(s, "shutdown", lifecycle.Shutdown),
		SetTrace:                        notify(s, "$/setTrace", lifecycle.SetTrace),
		WorkspaceDidChangeConfiguration: notify(s, "workspace/didChangeConfiguration", workspace.DidChangeConfiguration),
		TextDocumentDidOpen:             notify(s, "textDocument/didOpen", textDocument.DidOpen),
		TextDocumentDidChange:           notify(s, "textDocument/didChange", textDocument.DidChange),
		TextDocumentDidClose:            notify(s, "textDocument/didClose", textDocument.DidClose),
		TextDocumentFormatting:          method(s, "textDocument/formatting", formatting.Formatting),
		TextDocumentColor:               method(s, "textDocument/documentColor", documentcolor.DocumentColor),
		TextDocumentColorPresentation:   method(s, "textDocument/colorPresentation", documentcolor.ColorPresentation),
		TextDocumentFoldingRange:        method(s, "textDocument/foldingRange", foldingrange.FoldingRange),
	}

	s.handler = &CustomHandler{
		Handler: &protocolHandler,
		server:  s,
	}
	s.glspServer = server.NewServer(s.handler, lifecycle.ServerName, false)
	return s, nil
}

// RunStdio starts the LSP server using stdio transport
func (s *Server) RunStdio() error {
	return s.glspServer.RunStdio()
}

// Document returns the document with the given URI
func (s *Server) Document(uri string) *documents.Document {
	return s.documents.Get(uri)
}

// DocumentManager returns the document manager
func (s *Server) DocumentManager() *documents.Manager {
	return s.documents
}

// AllDocuments returns all tracked documents
func (s *Server) AllDocuments() []*documents.Document {
	return s.documents.GetAll()
}

// RootURI returns the workspace root URI
func (s *Server) RootURI() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rootURI
}

// RootPath returns the workspace root path
func (s *Server) RootPath() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rootPath
}

// SetRootURI sets the workspace root URI
func (s *Server) SetRootURI(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rootURI = uri
}

// SetRootPath sets the workspace root path
func (s *Server) SetRootPath(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rootPath = path
}

// GetConfig returns the config documents are analyzed with.
func (s *Server) GetConfig() config.Config {
	return s.documents.Config()
}

// SetConfig replaces the config, drops cached analyses and applies the
// configured log level.
func (s *Server) SetConfig(cfg config.Config) {
	s.documents.SetConfig(cfg)
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}
}

// GLSPContext returns the context saved at initialized, or nil.
func (s *Server) GLSPContext() *glsp.Context {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.context
}

// SetGLSPContext sets the GLSP context.
func (s *Server) SetGLSPContext(ctx *glsp.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.context = ctx
}

// ClientDiagnosticCapability returns whether the client declared pull
// diagnostics, or nil before initialize.
func (s *Server) ClientDiagnosticCapability() *bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clientDiagnosticCapability
}

// SetClientDiagnosticCapability records the capability the custom handler
// detected in the raw initialize params.
func (s *Server) SetClientDiagnosticCapability(hasCapability bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clientDiagnosticCapability = &hasCapability
}

// UsePullDiagnostics reports whether the client requests diagnostics
// itself, in which case none are pushed.
func (s *Server) UsePullDiagnostics() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.usePullDiagnostics
}

// SetUsePullDiagnostics sets whether to use pull diagnostics based on client capabilities
func (s *Server) SetUsePullDiagnostics(use bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.usePullDiagnostics = use
}

// PublishDiagnostics pushes the diagnostics of uri to the client. context
// falls back to the saved one.
func (s *Server) PublishDiagnostics(context *glsp.Context, uri string) error {
	if context == nil {
		context = s.GLSPContext()
	}
	if context == nil || context.Notify == nil {
		return fmt.Errorf("cannot publish diagnostics: no client context available")
	}
	if s.UsePullDiagnostics() {
		return nil
	}

	diagnostics, err := diagnostic.GetDiagnostics(s, uri)
	if err != nil {
		return err
	}
	log.Debug("Publishing %d diagnostics for: %s", len(diagnostics), uri)
	context.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
	return nil
}
