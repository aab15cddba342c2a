package formatting

import (
	"strings"

	"bennypowers.dev/cssom/internal/log"
	"bennypowers.dev/cssom/internal/position"
	"bennypowers.dev/cssom/internal/lint"
	"bennypowers.dev/cssom/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Formatting handles the textDocument/formatting request with a single edit
// replacing the whole document. Only CSS documents are formatted, and not
// while they have parse errors.
func Formatting(req *types.RequestContext, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	uri := params.TextDocument.URI
	doc := req.Server.Document(uri)
	if doc == nil || doc.LanguageID() != "css" {
		return nil, nil
	}

	content := doc.Content()
	text, ok := lint.Format(content, req.Server.GetConfig())
	if !ok {
		log.Debug("Not formatting %s: document has errors", uri)
		return nil, nil
	}
	if text == content {
		return []protocol.TextEdit{}, nil
	}
	return []protocol.TextEdit{{
		Range:   wholeDocument(content),
		NewText: text,
	}}, nil
}

func wholeDocument(content string) protocol.Range {
	lines := strings.Split(content, "\n")
	last := lines[len(lines)-1]
	return protocol.Range{
		End: protocol.Position{
			Line:      position.Clamp(len(lines) - 1),
			Character: position.Clamp(position.StringLengthUTF16(last)),
		},
	}
}
