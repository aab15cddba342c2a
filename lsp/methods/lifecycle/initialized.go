package lifecycle

import (
	"bennypowers.dev/cssom/internal/log"
	"bennypowers.dev/cssom/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Initialized handles the LSP initialized notification. The context is
// kept for server-initiated notifications such as diagnostics.
func Initialized(req *types.RequestContext, params *protocol.InitializedParams) error {
	log.Info("Server initialized")
	req.Server.SetGLSPContext(req.GLSP)
	return nil
}
