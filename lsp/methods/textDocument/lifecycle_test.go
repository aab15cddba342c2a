package textDocument_test

import (
	"errors"
	"testing"

	"bennypowers.dev/cssom/lsp/methods/textDocument"
	"bennypowers.dev/cssom/lsp/testutil"
	"bennypowers.dev/cssom/lsp/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const uri = "file:///a.css"

func open(t *testing.T, server *testutil.MockServerContext, languageID, text string) {
	t.Helper()
	err := textDocument.DidOpen(types.NewRequestContext(server, nil), &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, LanguageID: languageID, Version: 1, Text: text},
	})
	require.NoError(t, err)
}

func TestDidOpen(t *testing.T) {
	t.Run("stores the document and pushes diagnostics", func(t *testing.T) {
		server := testutil.NewMockServerContext()
		server.SetGLSPContext(&glsp.Context{})
		open(t, server, "css", "a { }")

		doc := server.Document(uri)
		require.NotNil(t, doc)
		assert.Equal(t, "a { }", doc.Content())
		assert.Equal(t, []string{uri}, server.Published)
	})

	t.Run("pull clients are not pushed to", func(t *testing.T) {
		server := testutil.NewMockServerContext()
		server.SetGLSPContext(&glsp.Context{})
		server.SetUsePullDiagnostics(true)
		open(t, server, "css", "a { }")
		assert.Empty(t, server.Published)
	})

	t.Run("unsupported languages are stored but not linted", func(t *testing.T) {
		server := testutil.NewMockServerContext()
		server.SetGLSPContext(&glsp.Context{})
		open(t, server, "json", "{}")
		assert.NotNil(t, server.Document(uri))
		assert.Empty(t, server.Published)
	})

	t.Run("publish failures are warnings", func(t *testing.T) {
		server := testutil.NewMockServerContext()
		server.SetGLSPContext(&glsp.Context{})
		server.PublishDiagnosticsFunc = func(*glsp.Context, string) error { return errors.New("closed") }
		req := types.NewRequestContext(server, nil)
		err := textDocument.DidOpen(req, &protocol.DidOpenTextDocumentParams{
			TextDocument: protocol.TextDocumentItem{URI: uri, LanguageID: "css", Version: 1, Text: "a { }"},
		})
		require.NoError(t, err)
		assert.True(t, req.HasWarnings())
	})
}

func TestDidChange(t *testing.T) {
	server := testutil.NewMockServerContext()
	open(t, server, "css", "a { color: red }")
	server.SetGLSPContext(&glsp.Context{})

	req := types.NewRequestContext(server, nil)
	err := textDocument.DidChange(req, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri},
			Version:                2,
		},
		ContentChanges: []any{
			protocol.TextDocumentContentChangeEvent{
				Range: &protocol.Range{
					Start: protocol.Position{Line: 0, Character: 11},
					End:   protocol.Position{Line: 0, Character: 14},
				},
				Text: "blue",
			},
			"garbage",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "a { color: blue }", server.Document(uri).Content())
	assert.Equal(t, 2, server.Document(uri).Version())
	assert.True(t, req.HasWarnings())
	assert.Equal(t, []string{uri}, server.Published)

	err = textDocument.DidChange(req, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri},
			Version:                3,
		},
		ContentChanges: []any{protocol.TextDocumentContentChangeEventWhole{Text: "b { }"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "b { }", server.Document(uri).Content())

	err = textDocument.DidChange(req, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: "file:///missing.css"},
			Version:                1,
		},
	})
	assert.Error(t, err)
}

func TestDidClose(t *testing.T) {
	server := testutil.NewMockServerContext()
	open(t, server, "css", "a { }")

	var cleared []string
	server.SetGLSPContext(&glsp.Context{Notify: func(method string, params any) {
		if p, ok := params.(protocol.PublishDiagnosticsParams); ok && method == protocol.ServerTextDocumentPublishDiagnostics {
			assert.Empty(t, p.Diagnostics)
			cleared = append(cleared, p.URI)
		}
	}})

	req := types.NewRequestContext(server, nil)
	require.NoError(t, textDocument.DidClose(req, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	}))
	assert.Nil(t, server.Document(uri))
	assert.Equal(t, []string{uri}, cleared)

	assert.Error(t, textDocument.DidClose(req, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	}))
}
