package documents

import (
	"fmt"
	"sync"

	"bennypowers.dev/cssom/internal/config"
	"bennypowers.dev/cssom/internal/lint"
)

// Document is an open text document and its most recent analysis.
type Document struct {
	uri        string
	languageID string
	content    string
	version    int

	mu       sync.Mutex
	analysis *lint.Result
}

// NewDocument creates a new document
func NewDocument(uri, languageID string, version int, content string) *Document {
	return &Document{
		uri:        uri,
		languageID: languageID,
		version:    version,
		content:    content,
	}
}

// URI returns the document's URI
func (d *Document) URI() string {
	return d.uri
}

// LanguageID returns the document's language identifier
func (d *Document) LanguageID() string {
	return d.languageID
}

// Version returns the document's version
func (d *Document) Version() int {
	return d.version
}

// Content returns the document's current content
func (d *Document) Content() string {
	return d.content
}

// SetContent replaces the content and drops the cached analysis. Versions
// older than the current one are rejected.
func (d *Document) SetContent(content string, version int) error {
	if version < d.version {
		return fmt.Errorf("rejected stale update: document version is %d but update version is %d", d.version, version)
	}
	d.content = content
	d.version = version
	d.invalidate()
	return nil
}

func (d *Document) invalidate() {
	d.mu.Lock()
	d.analysis = nil
	d.mu.Unlock()
}

// Analysis returns the lint result for the current content, computing it
// at most once per version.
func (d *Document) Analysis(cfg config.Config) *lint.Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.analysis == nil {
		d.analysis = lint.Analyze(d.uri, d.languageID, d.content, cfg)
	}
	return d.analysis
}

// Supported reports whether documents of languageID may contain CSS.
func Supported(languageID string) bool {
	switch languageID {
	case "css", "html", "javascript", "javascriptreact", "typescript", "typescriptreact":
		return true
	}
	return false
}
