package textDocument

import (
	"fmt"

	"bennypowers.dev/cssom/internal/documents"
	"bennypowers.dev/cssom/internal/log"
	"bennypowers.dev/cssom/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// DidOpen handles the textDocument/didOpen notification
func DidOpen(req *types.RequestContext, params *protocol.DidOpenTextDocumentParams) error {
	doc := params.TextDocument
	log.Info("Document opened: %s (language: %s, version: %d)", doc.URI, doc.LanguageID, doc.Version)

	if err := req.Server.DocumentManager().DidOpen(doc.URI, doc.LanguageID, int(doc.Version), doc.Text); err != nil {
		return err
	}
	publish(req, doc.URI, doc.LanguageID)
	return nil
}

// DidChange handles the textDocument/didChange notification
func DidChange(req *types.RequestContext, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI
	version := int(params.TextDocument.Version)
	log.Debug("Document changed: %s (version: %d, changes: %d)", uri, version, len(params.ContentChanges))

	changes := make([]protocol.TextDocumentContentChangeEvent, 0, len(params.ContentChanges))
	for _, change := range params.ContentChanges {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEvent:
			changes = append(changes, c)
		case protocol.TextDocumentContentChangeEventWhole:
			changes = append(changes, protocol.TextDocumentContentChangeEvent{Text: c.Text})
		default:
			req.AddWarning(fmt.Errorf("ignoring content change of type %T", change))
		}
	}

	if err := req.Server.DocumentManager().DidChange(uri, version, changes); err != nil {
		return err
	}
	if doc := req.Server.Document(uri); doc != nil {
		publish(req, uri, doc.LanguageID())
	}
	return nil
}

// DidClose handles the textDocument/didClose notification. The client's
// diagnostics for the document are cleared.
func DidClose(req *types.RequestContext, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI
	log.Info("Document closed: %s", uri)

	if err := req.Server.DocumentManager().DidClose(uri); err != nil {
		return err
	}
	if ctx := req.Server.GLSPContext(); ctx != nil && ctx.Notify != nil && !req.Server.UsePullDiagnostics() {
		ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
			URI:         uri,
			Diagnostics: []protocol.Diagnostic{},
		})
	}
	return nil
}

// publish pushes diagnostics unless the client pulls them.
func publish(req *types.RequestContext, uri, languageID string) {
	if req.Server.UsePullDiagnostics() || !documents.Supported(languageID) {
		return
	}
	glspCtx := req.Server.GLSPContext()
	if glspCtx == nil {
		return
	}
	if err := req.Server.PublishDiagnostics(glspCtx, uri); err != nil {
		req.AddWarning(fmt.Errorf("failed to publish diagnostics for %s: %w", uri, err))
	}
}
