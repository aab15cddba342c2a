package documents_test

import (
	"testing"

	"bennypowers.dev/cssom/internal/config"
	"bennypowers.dev/cssom/internal/documents"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const uri = "file:///test.css"

func rng(sl, sc, el, ec uint32) *protocol.Range {
	return &protocol.Range{
		Start: protocol.Position{Line: sl, Character: sc},
		End:   protocol.Position{Line: el, Character: ec},
	}
}

func TestManagerOpenClose(t *testing.T) {
	m := documents.NewManager()
	assert.Nil(t, m.Get(uri))

	require.NoError(t, m.DidOpen(uri, "css", 1, "a { }"))
	doc := m.Get(uri)
	require.NotNil(t, doc)
	assert.Equal(t, uri, doc.URI())
	assert.Equal(t, "css", doc.LanguageID())
	assert.Len(t, m.GetAll(), 1)

	require.NoError(t, m.DidClose(uri))
	assert.Nil(t, m.Get(uri))
	assert.Error(t, m.DidClose(uri))
	assert.Error(t, m.DidChange(uri, 2, nil))
}

func TestManagerChanges(t *testing.T) {
	tests := []struct {
		name    string
		content string
		changes []protocol.TextDocumentContentChangeEvent
		want    string
	}{
		{
			name:    "full replacement",
			content: "a { }",
			changes: []protocol.TextDocumentContentChangeEvent{{Text: "b { top: 0 }"}},
			want:    "b { top: 0 }",
		},
		{
			name:    "replace range",
			content: "a { color: red }",
			changes: []protocol.TextDocumentContentChangeEvent{{Range: rng(0, 11, 0, 14), Text: "blue"}},
			want:    "a { color: blue }",
		},
		{
			name:    "insert",
			content: "a { }",
			changes: []protocol.TextDocumentContentChangeEvent{{Range: rng(0, 4, 0, 4), Text: "top: 0 "}},
			want:    "a { top: 0 }",
		},
		{
			name:    "delete across lines",
			content: "a {\n  top: 0;\n  left: 0;\n}",
			changes: []protocol.TextDocumentContentChangeEvent{{Range: rng(1, 9, 2, 10), Text: ""}},
			want:    "a {\n  top: 0;\n}",
		},
		{
			name:    "batch applies in order",
			content: "a { }",
			changes: []protocol.TextDocumentContentChangeEvent{
				{Range: rng(0, 0, 0, 1), Text: "b"},
				{Range: rng(0, 4, 0, 4), Text: "top: 0 "},
			},
			want: "b { top: 0 }",
		},
		{
			name:    "after surrogate pair",
			content: `a::before { content: "😀" }`,
			changes: []protocol.TextDocumentContentChangeEvent{{Range: rng(0, 24, 0, 24), Text: "!"}},
			want:    `a::before { content: "😀!" }`,
		},
		{
			name:    "after cjk",
			content: "字体 { }",
			changes: []protocol.TextDocumentContentChangeEvent{{Range: rng(0, 2, 0, 2), Text: ".x"}},
			want:    "字体.x { }",
		},
		{
			name:    "insert at end of document",
			content: "line1\nline2",
			changes: []protocol.TextDocumentContentChangeEvent{{Range: rng(2, 0, 2, 0), Text: "\nline3"}},
			want:    "line1\nline2\nline3",
		},
		{
			name:    "insert into empty document",
			content: "",
			changes: []protocol.TextDocumentContentChangeEvent{{Range: rng(1, 0, 1, 0), Text: "a { }"}},
			want:    "a { }",
		},
		{
			name:    "character past line end clamps",
			content: "hello",
			changes: []protocol.TextDocumentContentChangeEvent{{Range: rng(0, 99, 0, 99), Text: "x"}},
			want:    "hellox",
		},
		{
			name:    "invalid utf-8",
			content: "\xffa { }",
			changes: []protocol.TextDocumentContentChangeEvent{{Range: rng(0, 1, 0, 2), Text: "b"}},
			want:    "\xffb { }",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := documents.NewManager()
			require.NoError(t, m.DidOpen(uri, "css", 1, tt.content))
			require.NoError(t, m.DidChange(uri, 2, tt.changes))
			doc := m.Get(uri)
			assert.Equal(t, tt.want, doc.Content())
			assert.Equal(t, 2, doc.Version())
		})
	}
}

func TestManagerChangeErrors(t *testing.T) {
	tests := []struct {
		name    string
		version int
		change  protocol.TextDocumentContentChangeEvent
		want    string
	}{
		{"stale version", 1, protocol.TextDocumentContentChangeEvent{Text: "x"}, "stale update"},
		{"start line", 6, protocol.TextDocumentContentChangeEvent{Range: rng(10, 0, 10, 0), Text: "x"}, "start line 10 out of bounds"},
		{"end line", 6, protocol.TextDocumentContentChangeEvent{Range: rng(0, 0, 10, 0), Text: "x"}, "end line 10 out of bounds"},
		{"reversed range", 6, protocol.TextDocumentContentChangeEvent{Range: rng(1, 0, 0, 0), Text: "x"}, "precedes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := documents.NewManager()
			require.NoError(t, m.DidOpen(uri, "css", 5, "line1\nline2"))
			err := m.DidChange(uri, tt.version, []protocol.TextDocumentContentChangeEvent{tt.change})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Equal(t, "line1\nline2", m.Get(uri).Content())
			assert.Equal(t, 5, m.Get(uri).Version())
		})
	}
}

func TestManagerAnalysis(t *testing.T) {
	m := documents.NewManager()
	assert.Nil(t, m.Analysis(uri))

	require.NoError(t, m.DidOpen(uri, "css", 1, "a { *top: 0 }"))
	result := m.Analysis(uri)
	require.NotNil(t, result)
	assert.NotEmpty(t, result.Findings)

	cfg := config.DefaultConfig()
	cfg.Parser.AllowStarHack = true
	m.SetConfig(cfg)
	assert.True(t, m.Config().Parser.AllowStarHack)
	assert.Empty(t, m.Analysis(uri).Findings, "config change drops cached analysis")
}
