package lint

import (
	"unicode"

	"bennypowers.dev/cssom/cssom"
	"bennypowers.dev/cssom/internal/embedded"
	"bennypowers.dev/cssom/internal/position"
	"bennypowers.dev/cssom/value"
	"github.com/mazznoer/csscolorparser"
)

// colors finds color literals in decls. The source text of each candidate
// is read back from content, so #abc stays #abc even though the value
// model holds rgb().
func colors(content string, region embedded.Region, decls []*cssom.StyleDeclaration) []Color {
	var out []Color
	var visit func(head *value.Unit)
	visit = func(head *value.Unit) {
		for u := head; u != nil; u = u.Next() {
			switch u.Type() {
			case value.RGBColor, value.HSLColor, value.Ident:
				if c, ok := colorAt(content, region, u); ok {
					out = append(out, c)
					continue
				}
			}
			if p := u.Parameters(); p != nil {
				visit(p)
			}
		}
	}
	for _, d := range decls {
		for _, p := range d.Properties() {
			visit(p.Value)
		}
	}
	return out
}

func colorAt(content string, region embedded.Region, u *value.Unit) (Color, bool) {
	loc := u.Locator()
	if loc.IsZero() {
		return Color{}, false
	}
	line, col := region.Map(loc.Line, loc.Column)
	text := []rune(position.Line(content, line))
	end := extent(text, col)
	if end <= col {
		return Color{}, false
	}
	c, err := csscolorparser.Parse(string(text[col:end]))
	if err != nil {
		return Color{}, false
	}
	return Color{Line: line, Column: col, EndColumn: end, Color: c}, true
}

func isNameRune(r rune) bool {
	return r == '-' || r == '_' || r >= 0x80 || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// extent returns the end of the hash, identifier or function call that
// starts at col, or col when there is none.
func extent(text []rune, col int) int {
	if col < 0 || col >= len(text) {
		return col
	}
	i := col
	if text[i] == '#' {
		i++
	}
	for i < len(text) && isNameRune(text[i]) {
		i++
	}
	if text[col] == '#' || i >= len(text) || text[i] != '(' {
		return i
	}
	depth := 0
	for ; i < len(text); i++ {
		switch text[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return col
}
