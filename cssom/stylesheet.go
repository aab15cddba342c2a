package cssom

import "strings"

// StyleSheet is the root of the object model.
type StyleSheet struct {
	href   string
	rules  *RuleList
	parser TextParser
}

// NewStyleSheet returns an empty style sheet. p may be nil, in which case
// InsertRule fails with ErrNoParser.
func NewStyleSheet(href string, p TextParser) *StyleSheet {
	s := &StyleSheet{href: href, parser: p}
	s.rules = &RuleList{sheet: s}
	return s
}

// Href is the source identifier the sheet was parsed from.
func (s *StyleSheet) Href() string { return s.href }

// Parser returns the parser bound to the sheet.
func (s *StyleSheet) Parser() TextParser { return s.parser }

// CSSRules returns the top-level rule list.
func (s *StyleSheet) CSSRules() *RuleList { return s.rules }

// AddRule appends r without ordering checks.
func (s *StyleSheet) AddRule(r Rule) { s.rules.Append(r) }

// InsertRule parses text as one rule and inserts it at index, returning
// the index. Illegal text or an illegal position leaves the sheet
// unchanged.
func (s *StyleSheet) InsertRule(text string, index int) (int, error) {
	return insertRule(s.rules, s.parser, text, index, true)
}

// DeleteRule removes the rule at index.
func (s *StyleSheet) DeleteRule(index int) error {
	return s.rules.remove(index)
}

// CSSText renders the sheet with DefaultFormat.
func (s *StyleSheet) CSSText() string {
	return s.Render(DefaultFormat())
}

// Render renders every rule, one per line.
func (s *StyleSheet) Render(f Format) string {
	var b strings.Builder
	for i, r := range s.rules.rules {
		if i > 0 {
			b.WriteByte('\n')
		}
		writeRule(&b, r, f, 0)
	}
	return b.String()
}

func (s *StyleSheet) String() string { return s.CSSText() }
