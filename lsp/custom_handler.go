package lsp

import (
	"encoding/json"

	"bennypowers.dev/cssom/lsp/methods/textDocument/diagnostic"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// CustomHandler wraps protocol.Handler with the LSP 3.17 pieces glsp
// v0.2.2 lacks: pull diagnostic capability detection during initialize,
// and the textDocument/diagnostic request.
type CustomHandler struct {
	*protocol.Handler // Pointer to avoid copying embedded mutex
	server            *Server
}

const methodTextDocumentDiagnostic = "textDocument/diagnostic"

// Handle implements glsp.Handler
func (h *CustomHandler) Handle(context *glsp.Context) (r any, validMethod bool, validParams bool, err error) {
	switch context.Method {
	case "initialize":
		h.server.SetClientDiagnosticCapability(DetectPullDiagnosticsSupport(context.Params))
	case methodTextDocumentDiagnostic:
		var params diagnostic.DocumentDiagnosticParams
		if err := json.Unmarshal(context.Params, &params); err != nil {
			return nil, true, false, err
		}
		result, err := method(h.server, methodTextDocumentDiagnostic, diagnostic.DocumentDiagnostic)(context, &params)
		return result, true, true, err
	}
	return h.Handler.Handle(context)
}
