package lifecycle

import (
	"bennypowers.dev/cssom/internal/config"
	"bennypowers.dev/cssom/internal/log"
	"bennypowers.dev/cssom/internal/source"
	"bennypowers.dev/cssom/internal/version"
	"bennypowers.dev/cssom/lsp/methods/textDocument/diagnostic"
	"bennypowers.dev/cssom/lsp/methods/workspace"
	"bennypowers.dev/cssom/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// ServerName is reported in serverInfo.
const ServerName = "cssom-language-server"

// InitializeResult carries capabilities as a map so LSP 3.17 fields such
// as diagnosticProvider can be advertised through glsp's 3.16 types.
type InitializeResult struct {
	Capabilities map[string]any                       `json:"capabilities"`
	ServerInfo   *protocol.InitializeResultServerInfo `json:"serverInfo,omitempty"`
}

// Initialize handles the LSP initialize request
func Initialize(req *types.RequestContext, params *protocol.InitializeParams) (any, error) {
	clientName := "unknown"
	if params.ClientInfo != nil {
		clientName = params.ClientInfo.Name
	}
	log.Info("Initializing for client: %s", clientName)

	// The custom handler reads the raw capabilities before glsp drops the
	// 3.17 fields.
	pull := false
	if capable := req.Server.ClientDiagnosticCapability(); capable != nil {
		pull = *capable
	}
	req.Server.SetUsePullDiagnostics(pull)
	if pull {
		log.Info("Using pull diagnostics")
	} else {
		log.Info("Using push diagnostics")
	}

	switch {
	case params.RootURI != nil:
		req.Server.SetRootURI(*params.RootURI)
		req.Server.SetRootPath(source.URIToPath(*params.RootURI))
	case params.RootPath != nil:
		req.Server.SetRootPath(*params.RootPath)
		req.Server.SetRootURI(source.PathToURI(*params.RootPath))
	}
	if root := req.Server.RootPath(); root != "" {
		log.Info("Workspace root: %s", root)
	}

	req.Server.SetConfig(loadConfig(req, params.InitializationOptions))

	syncKind := protocol.TextDocumentSyncKindIncremental
	capabilities := map[string]any{
		"textDocumentSync": protocol.TextDocumentSyncOptions{
			OpenClose: boolPtr(true),
			Change:    &syncKind,
		},
		"documentFormattingProvider": true,
		"colorProvider":              true,
		"foldingRangeProvider":       true,
	}
	if pull {
		capabilities["diagnosticProvider"] = diagnostic.DiagnosticOptions{
			InterFileDependencies: false,
			WorkspaceDiagnostics:  false,
		}
	}

	return InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    ServerName,
			Version: strPtr(version.GetVersion()),
		},
	}, nil
}

// loadConfig reads the workspace config file, then overlays the
// initialization options. Problems are reported and the defaults kept.
func loadConfig(req *types.RequestContext, options any) config.Config {
	cfg := config.DefaultConfig()
	if root := req.Server.RootPath(); root != "" {
		loaded, path, err := config.Resolve(root)
		switch {
		case err != nil:
			workspace.LogWarning(req.GLSP, "failed to load %s: %v", path, err)
		case path != "":
			log.Info("Loaded configuration from %s", path)
			cfg = loaded
		}
	}
	merged, err := cfg.Merge(options)
	if err != nil {
		workspace.LogWarning(req.GLSP, "ignoring initializationOptions: %v", err)
		return cfg
	}
	return merged
}

func boolPtr(b bool) *bool {
	return &b
}

func strPtr(s string) *string {
	return &s
}
