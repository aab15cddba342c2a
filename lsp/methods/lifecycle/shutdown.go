package lifecycle

import (
	"bennypowers.dev/cssom/internal/log"
	"bennypowers.dev/cssom/lsp/types"
)

// Shutdown handles the LSP shutdown request
func Shutdown(req *types.RequestContext) error {
	log.Info("Server shutting down")
	req.Server.SetGLSPContext(nil)
	return nil
}
