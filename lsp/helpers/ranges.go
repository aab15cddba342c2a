// Package helpers converts analysis positions to protocol positions.
package helpers

import (
	"bennypowers.dev/cssom/internal/position"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Range converts the 0-based code point span [col, endCol) of line in
// content to a protocol range in UTF-16 units.
func Range(content string, line, col, endCol int) protocol.Range {
	text := position.Line(content, line)
	l := position.Clamp(line)
	return protocol.Range{
		Start: protocol.Position{Line: l, Character: position.Clamp(position.RuneColumnToUTF16(text, col))},
		End:   protocol.Position{Line: l, Character: position.Clamp(position.RuneColumnToUTF16(text, endCol))},
	}
}
