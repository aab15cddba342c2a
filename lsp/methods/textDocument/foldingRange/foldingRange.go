package foldingrange

import (
	"bennypowers.dev/cssom/internal/outline"
	"bennypowers.dev/cssom/internal/position"
	"bennypowers.dev/cssom/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// FoldingRange handles the textDocument/foldingRange request for CSS
// documents.
func FoldingRange(req *types.RequestContext, params *protocol.FoldingRangeParams) ([]protocol.FoldingRange, error) {
	doc := req.Server.Document(params.TextDocument.URI)
	if doc == nil || doc.LanguageID() != "css" {
		return []protocol.FoldingRange{}, nil
	}

	p := outline.AcquireParser()
	defer outline.ReleaseParser(p)

	folds := p.Folds(doc.Content())
	ranges := make([]protocol.FoldingRange, 0, len(folds))
	for _, f := range folds {
		kind := string(f.Kind)
		ranges = append(ranges, protocol.FoldingRange{
			StartLine: position.Clamp(f.StartLine),
			EndLine:   position.Clamp(f.EndLine),
			Kind:      &kind,
		})
	}
	return ranges, nil
}
