package diagnostic

import (
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Pull diagnostics arrived in LSP 3.17, after the version glsp
// implements, so the few shapes cssom needs are declared here.

// DocumentDiagnosticParams are the textDocument/diagnostic parameters.
// Result ids are not tracked, so every request gets a full report.
type DocumentDiagnosticParams struct {
	TextDocument protocol.TextDocumentIdentifier `json:"textDocument"`
}

// ReportKindFull marks a report that lists every diagnostic.
const ReportKindFull = "full"

// FullReport answers textDocument/diagnostic.
type FullReport struct {
	Kind  string                `json:"kind"`
	Items []protocol.Diagnostic `json:"items"`
}

// DiagnosticOptions is the diagnosticProvider server capability.
type DiagnosticOptions struct {
	InterFileDependencies bool `json:"interFileDependencies"`
	WorkspaceDiagnostics  bool `json:"workspaceDiagnostics"`
}
