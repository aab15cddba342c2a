package documents

import (
	"fmt"
	"strings"
	"sync"

	"bennypowers.dev/cssom/internal/config"
	"bennypowers.dev/cssom/internal/lint"
	"bennypowers.dev/cssom/internal/position"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Manager holds the documents the client has opened and the config they
// are analyzed with.
type Manager struct {
	documents map[string]*Document
	cfg       config.Config
	mu        sync.RWMutex
}

// NewManager creates a manager using the default config.
func NewManager() *Manager {
	return &Manager{
		documents: make(map[string]*Document),
		cfg:       config.DefaultConfig(),
	}
}

// Config returns the config documents are analyzed with.
func (m *Manager) Config() config.Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg
}

// SetConfig replaces the config and drops every cached analysis.
func (m *Manager) SetConfig(cfg config.Config) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg = cfg
	for _, doc := range m.documents {
		doc.invalidate()
	}
}

// Get retrieves a document by URI
func (m *Manager) Get(uri string) *Document {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.documents[uri]
}

// GetAll returns all managed documents
func (m *Manager) GetAll() []*Document {
	m.mu.RLock()
	defer m.mu.RUnlock()

	docs := make([]*Document, 0, len(m.documents))
	for _, doc := range m.documents {
		docs = append(docs, doc)
	}
	return docs
}

// Analysis returns the cached analysis of the document at uri, or nil
// when it is not open.
func (m *Manager) Analysis(uri string) *lint.Result {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc := m.documents[uri]
	if doc == nil {
		return nil
	}
	return doc.Analysis(m.cfg)
}

// DidOpen handles the textDocument/didOpen notification
func (m *Manager) DidOpen(uri, languageID string, version int, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.documents[uri] = NewDocument(uri, languageID, version, content)
	return nil
}

// DidClose handles the textDocument/didClose notification
func (m *Manager) DidClose(uri string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.documents[uri]; !exists {
		return fmt.Errorf("document not found: %s", uri)
	}
	delete(m.documents, uri)
	return nil
}

// DidChange handles the textDocument/didChange notification. Changes
// apply in order; a change without a range replaces the whole text.
func (m *Manager) DidChange(uri string, version int, changes []protocol.TextDocumentContentChangeEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, exists := m.documents[uri]
	if !exists {
		return fmt.Errorf("document not found: %s", uri)
	}

	content := doc.Content()
	for _, change := range changes {
		if change.Range == nil {
			content = change.Text
			continue
		}
		next, err := applyIncrementalChange(content, *change.Range, change.Text)
		if err != nil {
			return fmt.Errorf("failed to apply changes: %w", err)
		}
		content = next
	}

	if err := doc.SetContent(content, version); err != nil {
		return fmt.Errorf("failed to set document content: %w", err)
	}
	return nil
}

// offset converts an LSP position to a byte offset. Characters past the
// end of a line clamp to it. The line after the last one is accepted at
// character 0 as the end of the document.
func offset(content string, pos protocol.Position, which string) (int, error) {
	start := 0
	for line := uint32(0); line < pos.Line; line++ {
		i := strings.IndexByte(content[start:], '\n')
		if i < 0 {
			if line+1 == pos.Line && pos.Character == 0 {
				return len(content), nil
			}
			return 0, fmt.Errorf("%s line %d out of bounds (total lines: %d)", which, pos.Line, line+1)
		}
		start += i + 1
	}
	end := len(content)
	if i := strings.IndexByte(content[start:], '\n'); i >= 0 {
		end = start + i
	}
	return start + position.UTF16ToByteOffset(content[start:end], int(pos.Character)), nil
}

// applyIncrementalChange replaces the UTF-16 addressed range r of content
// with text.
func applyIncrementalChange(content string, r protocol.Range, text string) (string, error) {
	from, err := offset(content, r.Start, "start")
	if err != nil {
		return "", err
	}
	to, err := offset(content, r.End, "end")
	if err != nil {
		return "", err
	}
	if to < from {
		return "", fmt.Errorf("range end %d:%d precedes start %d:%d", r.End.Line, r.End.Character, r.Start.Line, r.Start.Character)
	}
	return content[:from] + text + content[to:], nil
}
