package workspace

import (
	"fmt"

	"bennypowers.dev/cssom/internal/config"
	"bennypowers.dev/cssom/internal/log"
	"bennypowers.dev/cssom/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// SettingsSection is the key clients nest cssom settings under.
const SettingsSection = "cssom"

// DidChangeConfiguration handles the workspace/didChangeConfiguration notification
func DidChangeConfiguration(req *types.RequestContext, params *protocol.DidChangeConfigurationParams) error {
	log.Info("Configuration changed")

	cfg, err := ParseConfiguration(req.Server, params.Settings)
	if err != nil {
		// Keep the current config.
		LogWarning(req.GLSP, "failed to parse configuration: %v", err)
		ShowMessage(req.GLSP, protocol.MessageTypeWarning, "cssom: invalid settings, keeping the previous configuration")
		return nil
	}
	req.Server.SetConfig(cfg)
	log.Debug("New configuration: %+v", cfg)

	glspCtx := req.Server.GLSPContext()
	if glspCtx == nil || req.Server.UsePullDiagnostics() {
		return nil
	}
	for _, doc := range req.Server.AllDocuments() {
		if err := req.Server.PublishDiagnostics(glspCtx, doc.URI()); err != nil {
			req.AddWarning(fmt.Errorf("failed to publish diagnostics for %s: %w", doc.URI(), err))
		}
	}
	return nil
}

// ParseConfiguration overlays the "cssom" section of settings on the
// server's current config. Settings without that section leave it as is.
func ParseConfiguration(server types.ServerContext, settings any) (config.Config, error) {
	cfg := server.GetConfig()
	m, ok := settings.(map[string]any)
	if !ok {
		if settings == nil {
			return cfg, nil
		}
		return cfg, fmt.Errorf("settings is not an object")
	}
	section, ok := m[SettingsSection]
	if !ok {
		return cfg, nil
	}
	return cfg.Merge(section)
}
