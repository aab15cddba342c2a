// Package embedded describes CSS found inside other documents.
package embedded

import "unicode/utf8"

// Kind identifies where a region came from.
type Kind int

const (
	// Unknown is the zero value.
	Unknown Kind = iota
	// StyleElement is the text of an HTML <style> element.
	StyleElement
	// StyleAttribute is the value of an HTML style="..." attribute, a
	// declaration list rather than a style sheet.
	StyleAttribute
	// Template is the body of a css`...` tagged template.
	Template
)

func (k Kind) String() string {
	switch k {
	case StyleElement:
		return "style element"
	case StyleAttribute:
		return "style attribute"
	case Template:
		return "css template"
	}
	return "unknown"
}

// Region is CSS text embedded in a host document.
type Region struct {
	Content string
	// StartLine is the 0-based host line of the first character.
	StartLine int
	// StartCol is the 0-based code point column of the first character.
	StartCol int
	Kind     Kind
}

// At builds a region for content beginning at byte offset off of src.
// CR, LF and CRLF each end a line.
func At(src string, off int, content string, kind Kind) Region {
	line, start := 0, 0
	for i := 0; i < off; i++ {
		switch src[i] {
		case '\n':
			line++
			start = i + 1
		case '\r':
			if i+1 < len(src) && src[i+1] == '\n' {
				continue
			}
			line++
			start = i + 1
		}
	}
	return Region{
		Content:   content,
		StartLine: line,
		StartCol:  utf8.RuneCountInString(src[start:off]),
		Kind:      kind,
	}
}

// Map converts a 1-based line and column inside the region to a 0-based
// host line and column. Only the first line is shifted horizontally.
func (r Region) Map(line, col int) (int, int) {
	if line <= 1 {
		return r.StartLine, r.StartCol + max(col-1, 0)
	}
	return r.StartLine + line - 1, max(col-1, 0)
}

// Shift moves r, found inside a region of its own, into host coordinates.
func (r Region) Shift(host Region) Region {
	r.StartLine, r.StartCol = host.Map(r.StartLine+1, r.StartCol+1)
	return r
}
