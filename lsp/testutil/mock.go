// Package testutil provides a ServerContext double for handler tests.
package testutil

import (
	"bennypowers.dev/cssom/internal/config"
	"bennypowers.dev/cssom/internal/documents"
	"bennypowers.dev/cssom/lsp/types"
	"github.com/tliron/glsp"
)

var _ types.ServerContext = (*MockServerContext)(nil)

// MockServerContext implements types.ServerContext over a real document
// manager. Callbacks override individual behaviors.
type MockServerContext struct {
	docs               *documents.Manager
	rootURI            string
	rootPath           string
	glspContext        *glsp.Context
	diagnosticCapable  *bool
	usePullDiagnostics bool

	PublishDiagnosticsFunc func(*glsp.Context, string) error

	// Published lists the URIs passed to PublishDiagnostics.
	Published []string
}

// NewMockServerContext creates a mock with no open documents and the
// default config.
func NewMockServerContext() *MockServerContext {
	return &MockServerContext{docs: documents.NewManager()}
}

// OpenDocument opens content under uri in the mock's manager.
func (m *MockServerContext) OpenDocument(uri, languageID, content string) {
	_ = m.docs.DidOpen(uri, languageID, 1, content)
}

func (m *MockServerContext) Document(uri string) *documents.Document { return m.docs.Get(uri) }

func (m *MockServerContext) DocumentManager() *documents.Manager { return m.docs }

func (m *MockServerContext) AllDocuments() []*documents.Document { return m.docs.GetAll() }

func (m *MockServerContext) RootURI() string { return m.rootURI }

func (m *MockServerContext) RootPath() string { return m.rootPath }

func (m *MockServerContext) SetRootURI(uri string) { m.rootURI = uri }

func (m *MockServerContext) SetRootPath(path string) { m.rootPath = path }

func (m *MockServerContext) GetConfig() config.Config { return m.docs.Config() }

func (m *MockServerContext) SetConfig(cfg config.Config) { m.docs.SetConfig(cfg) }

func (m *MockServerContext) GLSPContext() *glsp.Context { return m.glspContext }

func (m *MockServerContext) SetGLSPContext(ctx *glsp.Context) { m.glspContext = ctx }

func (m *MockServerContext) ClientDiagnosticCapability() *bool { return m.diagnosticCapable }

func (m *MockServerContext) SetClientDiagnosticCapability(hasCapability bool) {
	m.diagnosticCapable = &hasCapability
}

func (m *MockServerContext) UsePullDiagnostics() bool { return m.usePullDiagnostics }

func (m *MockServerContext) SetUsePullDiagnostics(use bool) { m.usePullDiagnostics = use }

// PublishDiagnostics records uri and calls PublishDiagnosticsFunc when set.
func (m *MockServerContext) PublishDiagnostics(context *glsp.Context, uri string) error {
	m.Published = append(m.Published, uri)
	if m.PublishDiagnosticsFunc != nil {
		return m.PublishDiagnosticsFunc(context, uri)
	}
	return nil
}
