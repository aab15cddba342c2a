package diagnostic

import (
	"bennypowers.dev/cssom/diag"
	"bennypowers.dev/cssom/internal/documents"
	"bennypowers.dev/cssom/internal/log"
	"bennypowers.dev/cssom/lsp/helpers"
	"bennypowers.dev/cssom/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Source names cssom in every diagnostic.
const Source = "cssom"

// DocumentDiagnostic handles the textDocument/diagnostic request (pull
// diagnostics). glsp only knows LSP 3.16, so the custom handler routes
// this method here.
func DocumentDiagnostic(req *types.RequestContext, params *DocumentDiagnosticParams) (any, error) {
	uri := params.TextDocument.URI
	log.Debug("Pull diagnostics requested for: %s", uri)

	diagnostics, err := GetDiagnostics(req.Server, uri)
	if err != nil {
		return nil, err
	}
	return FullReport{
		Kind:  ReportKindFull,
		Items: diagnostics,
	}, nil
}

// GetDiagnostics converts the analysis of the document at uri. Unknown
// documents and languages without CSS have none.
func GetDiagnostics(server types.ServerContext, uri string) ([]protocol.Diagnostic, error) {
	doc := server.Document(uri)
	if doc == nil || !documents.Supported(doc.LanguageID()) {
		return []protocol.Diagnostic{}, nil
	}
	result := server.DocumentManager().Analysis(uri)
	if result == nil {
		return []protocol.Diagnostic{}, nil
	}

	content := doc.Content()
	source := Source
	diagnostics := make([]protocol.Diagnostic, 0, len(result.Findings))
	for _, f := range result.Findings {
		severity := Severity(f.Severity)
		code := protocol.IntegerOrString{Value: f.Kind.String()}
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    helpers.Range(content, f.Line, f.Column, f.Column+1),
			Severity: &severity,
			Code:     &code,
			Source:   &source,
			Message:  f.Message,
		})
	}
	return diagnostics, nil
}

// Severity maps a parser severity to the protocol's.
func Severity(s diag.Severity) protocol.DiagnosticSeverity {
	if s == diag.SeverityWarning {
		return protocol.DiagnosticSeverityWarning
	}
	return protocol.DiagnosticSeverityError
}
