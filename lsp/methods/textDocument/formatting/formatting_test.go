package formatting_test

import (
	"testing"

	"bennypowers.dev/cssom/lsp/methods/textDocument/formatting"
	"bennypowers.dev/cssom/lsp/testutil"
	"bennypowers.dev/cssom/lsp/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func format(t *testing.T, server *testutil.MockServerContext, uri string) []protocol.TextEdit {
	t.Helper()
	edits, err := formatting.Formatting(types.NewRequestContext(server, nil), &protocol.DocumentFormattingParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	require.NoError(t, err)
	return edits
}

func TestFormatting(t *testing.T) {
	t.Run("replaces the whole document", func(t *testing.T) {
		server := testutil.NewMockServerContext()
		server.OpenDocument("file:///a.css", "css", "a{color:red}\nb { top : 0 }")
		edits := format(t, server, "file:///a.css")
		require.Len(t, edits, 1)
		assert.Equal(t, protocol.Range{End: protocol.Position{Line: 1, Character: 13}}, edits[0].Range)
		assert.Equal(t, "a { color: red }\nb { top: 0 }\n", edits[0].NewText)
	})

	t.Run("formatted documents need no edits", func(t *testing.T) {
		server := testutil.NewMockServerContext()
		server.OpenDocument("file:///a.css", "css", "a { color: red }\n")
		edits := format(t, server, "file:///a.css")
		assert.NotNil(t, edits)
		assert.Empty(t, edits)
	})

	t.Run("documents with errors are left alone", func(t *testing.T) {
		server := testutil.NewMockServerContext()
		server.OpenDocument("file:///a.css", "css", "a { color: }")
		assert.Nil(t, format(t, server, "file:///a.css"))
	})

	t.Run("only css is formatted", func(t *testing.T) {
		server := testutil.NewMockServerContext()
		server.OpenDocument("file:///a.html", "html", "<style>a{top:0}</style>")
		assert.Nil(t, format(t, server, "file:///a.html"))
		assert.Nil(t, format(t, server, "file:///missing.css"))
	})
}
