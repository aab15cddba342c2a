package documentcolor

import (
	"bennypowers.dev/cssom/internal/color"
	"bennypowers.dev/cssom/internal/documents"
	"bennypowers.dev/cssom/internal/log"
	"bennypowers.dev/cssom/lsp/helpers"
	"bennypowers.dev/cssom/lsp/types"
	"github.com/mazznoer/csscolorparser"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// DocumentColor handles the textDocument/documentColor request. It reports
// the color literals found in declaration values.
func DocumentColor(req *types.RequestContext, params *protocol.DocumentColorParams) ([]protocol.ColorInformation, error) {
	uri := params.TextDocument.URI
	doc := req.Server.Document(uri)
	if doc == nil || !documents.Supported(doc.LanguageID()) {
		return []protocol.ColorInformation{}, nil
	}
	result := req.Server.DocumentManager().Analysis(uri)
	if result == nil {
		return []protocol.ColorInformation{}, nil
	}

	content := doc.Content()
	colors := make([]protocol.ColorInformation, 0, len(result.Colors))
	for _, c := range result.Colors {
		colors = append(colors, protocol.ColorInformation{
			Range: helpers.Range(content, c.Line, c.Column, c.EndColumn),
			Color: protocol.Color{
				Red:   protocol.Decimal(c.Color.R),
				Green: protocol.Decimal(c.Color.G),
				Blue:  protocol.Decimal(c.Color.B),
				Alpha: protocol.Decimal(c.Color.A),
			},
		})
	}
	log.Debug("Found %d colors in %s", len(colors), uri)
	return colors, nil
}

// ColorPresentation handles the textDocument/colorPresentation request.
// It offers the picked color in hex, rgb(), hsl() and hwb() notation, each
// editing the requested range.
func ColorPresentation(req *types.RequestContext, params *protocol.ColorPresentationParams) ([]protocol.ColorPresentation, error) {
	c := csscolorparser.Color{
		R: float64(params.Color.Red),
		G: float64(params.Color.Green),
		B: float64(params.Color.Blue),
		A: float64(params.Color.Alpha),
	}
	labels := color.Presentations(c)
	presentations := make([]protocol.ColorPresentation, 0, len(labels))
	for _, label := range labels {
		presentations = append(presentations, protocol.ColorPresentation{
			Label:    label,
			TextEdit: &protocol.TextEdit{Range: params.Range, NewText: label},
		})
	}
	return presentations, nil
}
