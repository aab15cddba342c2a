package lsp

import (
	"encoding/json"
)

// DetectPullDiagnosticsSupport reports whether raw initialize params
// declare capabilities.textDocument.diagnostic, the LSP 3.17 marker for
// pull diagnostics. glsp's 3.16 structs drop the field, so the raw JSON is
// inspected. Unparsable params mean push diagnostics.
func DetectPullDiagnosticsSupport(rawParams json.RawMessage) bool {
	var params struct {
		Capabilities struct {
			TextDocument *struct {
				Diagnostic *json.RawMessage `json:"diagnostic"`
			} `json:"textDocument"`
		} `json:"capabilities"`
	}
	if err := json.Unmarshal(rawParams, &params); err != nil {
		return false
	}
	td := params.Capabilities.TextDocument
	return td != nil && td.Diagnostic != nil
}
