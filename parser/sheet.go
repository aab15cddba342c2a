package parser

import (
	"strings"

	"bennypowers.dev/cssom/cssom"
	"bennypowers.dev/cssom/diag"
	"bennypowers.dev/cssom/internal/collections"
	"bennypowers.dev/cssom/scanner"
	"bennypowers.dev/cssom/value"
	"go.uber.org/zap"
)

var keyframesKeywords = collections.NewSet(
	"keyframes",
	"-webkit-keyframes",
	"-moz-keyframes",
	"-o-keyframes",
)

var pagePseudos = collections.NewSet("first", "left", "right", "blank")

func (s *state) styleSheet() *cssom.StyleSheet {
	sheet := cssom.NewStyleSheet(s.sc.URI(), s.p)
	seenRule, seenOther := false, false
	for {
		t := s.cur()
		switch t.Kind {
		case scanner.EOF:
			return sheet
		case scanner.Whitespace, scanner.CDO, scanner.CDC:
			s.next()
			continue
		case scanner.RightBrace:
			s.syntaxError("style sheet", t, `Unexpected "}".`)
			s.next()
			continue
		}
		r := s.rule(false)
		if r == nil {
			if s.eof {
				s.warn(t, warnIgnoringRule)
				return sheet
			}
			continue
		}
		switch r.Kind() {
		case cssom.KindCharset:
			if seenRule {
				s.errorf(t, diag.KindPosition, "@charset must be the first rule of the style sheet.")
				s.log.Debug("dropping misplaced @charset", zap.Int("line", t.Loc.Line))
				continue
			}
		case cssom.KindImport:
			if seenOther {
				s.errorf(t, diag.KindPosition, "@import rule must occur before all other rules, except the @charset rule.")
			}
		default:
			seenOther = true
		}
		seenRule = true
		bind(r, s.p)
		sheet.AddRule(r)
	}
}

// rule parses one style rule or at-rule. nested is set inside the block
// of an @media rule.
func (s *state) rule(nested bool) cssom.Rule {
	if s.cur().Kind == scanner.AtKeyword {
		return s.atRule(nested)
	}
	return s.styleRule(nested)
}

// dropRule reports that the rule starting at start is ignored and skips
// the rest of it.
func (s *state) dropRule(start scanner.Token, nested bool) {
	if s.eof {
		return
	}
	s.warn(start, warnIgnoringRule)
	s.skipRule(nested)
}

// openBlock consumes the '{' starting the body of construct.
func (s *state) openBlock(construct string) bool {
	s.skipWhitespace()
	t := s.cur()
	if t.Kind != scanner.LeftBrace {
		s.syntaxError(construct, t, "")
		return false
	}
	s.next()
	return true
}

// endStatement accepts the end of a statement at-rule: a ';', the end of
// input, or the '}' closing an enclosing block, which is left in place.
func (s *state) endStatement(construct string, nested bool) bool {
	s.skipWhitespace()
	t := s.cur()
	switch {
	case t.Kind == scanner.Semicolon:
		s.next()
		return true
	case t.Kind == scanner.EOF && !s.eof:
		return true
	case t.Kind == scanner.RightBrace && nested:
		return true
	}
	s.syntaxError(construct, t, "")
	return false
}

func (s *state) styleRule(nested bool) cssom.Rule {
	start := s.cur()
	s.push("style rule")
	defer s.pop()
	sel := s.selectorList()
	if sel == nil {
		s.dropRule(start, nested)
		return nil
	}
	if !s.openBlock("style rule") {
		s.dropRule(start, nested)
		return nil
	}
	d := cssom.NewStyleDeclaration()
	if !s.declarations(d, true) {
		return nil
	}
	r := cssom.NewStyleRule(sel, d)
	r.SetLocator(start.Loc)
	return r
}

func (s *state) atRule(nested bool) cssom.Rule {
	name := strings.ToLower(s.cur().Value)
	switch {
	case name == "charset":
		return s.charsetRule(nested)
	case name == "import":
		return s.importRule(nested)
	case name == "media":
		return s.mediaRule(nested)
	case name == "page":
		return s.pageRule(nested)
	case name == "font-face":
		return s.fontFaceRule(nested)
	case keyframesKeywords.Has(name):
		return s.keyframesRule(nested)
	}
	return s.unknownRule(nested)
}

// topLevelOnly rejects @charset and @import inside a block.
func (s *state) topLevelOnly(start scanner.Token, nested bool) bool {
	if !nested {
		return true
	}
	s.errorf(start, diag.KindPosition, "Error in %s rule. The rule is not allowed inside a block.", start.Raw)
	s.dropRule(start, nested)
	return false
}

func (s *state) charsetRule(nested bool) cssom.Rule {
	start := s.next()
	if !s.topLevelOnly(start, nested) {
		return nil
	}
	s.push("@charset rule")
	defer s.pop()
	s.skipWhitespace()
	t := s.cur()
	if t.Kind == scanner.String && t.Unterminated {
		s.unexpectedEOF(t, "string")
		return nil
	}
	if t.Kind != scanner.String {
		s.syntaxError("@charset rule", t, "")
		s.dropRule(start, nested)
		return nil
	}
	s.next()
	if !s.endStatement("@charset rule", nested) {
		s.dropRule(start, nested)
		return nil
	}
	r := cssom.NewCharsetRule(t.Value)
	r.SetLocator(start.Loc)
	return r
}

func (s *state) importRule(nested bool) cssom.Rule {
	start := s.next()
	if !s.topLevelOnly(start, nested) {
		return nil
	}
	s.push("@import rule")
	defer s.pop()
	s.skipWhitespace()
	t := s.cur()
	switch {
	case t.Kind == scanner.String && t.Unterminated:
		s.unexpectedEOF(t, "string")
		return nil
	case t.Kind == scanner.URL && t.Unterminated:
		s.unexpectedEOF(t, "url")
		return nil
	case t.Kind != scanner.String && t.Kind != scanner.URL:
		s.syntaxError("@import rule", t, "")
		s.dropRule(start, nested)
		return nil
	}
	s.next()
	m, ok := s.mediaList(scanner.Semicolon)
	if !ok || !s.endStatement("@import rule", nested) {
		s.dropRule(start, nested)
		return nil
	}
	r := cssom.NewImportRule(t.Value, m)
	r.SetLocator(start.Loc)
	return r
}

func (s *state) mediaRule(nested bool) cssom.Rule {
	start := s.next()
	s.push("@media rule")
	defer s.pop()
	s.skipWhitespace()
	m, ok := s.mediaList(scanner.LeftBrace)
	if !ok || !s.openBlock("@media rule") {
		s.dropRule(start, nested)
		return nil
	}
	if !s.enter(start) {
		s.skipBlock()
		return nil
	}
	defer s.leave()
	r := cssom.NewMediaRule(m)
	r.SetLocator(start.Loc)
	for {
		t := s.cur()
		switch t.Kind {
		case scanner.Whitespace, scanner.Semicolon, scanner.CDO, scanner.CDC:
			s.next()
			continue
		case scanner.RightBrace:
			s.next()
			return r
		case scanner.EOF:
			s.unexpectedEOF(t, "")
			return nil
		}
		nr := s.rule(true)
		if s.eof {
			return nil
		}
		if nr != nil {
			r.AddRule(nr)
		}
	}
}

func (s *state) pageRule(nested bool) cssom.Rule {
	start := s.next()
	s.push("@page rule")
	defer s.pop()
	s.skipWhitespace()
	sel, ok := s.pageSelector()
	if !ok || !s.openBlock("@page rule") {
		s.dropRule(start, nested)
		return nil
	}
	d := cssom.NewStyleDeclaration()
	if !s.declarations(d, true) {
		return nil
	}
	r := cssom.NewPageRule(sel, d)
	r.SetLocator(start.Loc)
	return r
}

// pageSelector parses an optional page name followed by pseudo pages such
// as :first.
func (s *state) pageSelector() (string, bool) {
	var b strings.Builder
	if t := s.cur(); t.Kind == scanner.Ident {
		b.WriteString(value.EscapeIdent(t.Value))
		s.next()
	}
	for s.cur().Kind == scanner.Colon {
		s.next()
		t := s.cur()
		if t.Kind != scanner.Ident || !collections.HasFold(pagePseudos, t.Value) {
			s.syntaxError("@page rule", t, "")
			return "", false
		}
		s.next()
		b.WriteByte(':')
		b.WriteString(strings.ToLower(t.Value))
	}
	return b.String(), true
}

func (s *state) fontFaceRule(nested bool) cssom.Rule {
	start := s.next()
	s.push("@font-face rule")
	defer s.pop()
	if !s.openBlock("@font-face rule") {
		s.dropRule(start, nested)
		return nil
	}
	d := cssom.NewStyleDeclaration()
	if !s.declarations(d, true) {
		return nil
	}
	r := cssom.NewFontFaceRule(d)
	r.SetLocator(start.Loc)
	return r
}

func (s *state) keyframesRule(nested bool) cssom.Rule {
	start := s.next()
	s.push("@keyframes rule")
	defer s.pop()
	s.skipWhitespace()
	n := s.cur()
	if n.Kind != scanner.Ident && n.Kind != scanner.String {
		s.syntaxError("@keyframes rule", n, "")
		s.dropRule(start, nested)
		return nil
	}
	s.next()
	if !s.openBlock("@keyframes rule") {
		s.dropRule(start, nested)
		return nil
	}
	r := cssom.NewKeyframesRule(strings.ToLower(start.Value), n.Value)
	r.SetLocator(start.Loc)
	for {
		s.skipWhitespace()
		t := s.cur()
		switch t.Kind {
		case scanner.RightBrace:
			s.next()
			return r
		case scanner.EOF:
			s.unexpectedEOF(t, "")
			return nil
		case scanner.Semicolon:
			s.next()
			continue
		}
		k := s.keyframe()
		if s.eof {
			return nil
		}
		if k != nil {
			r.AddKeyframe(k)
		}
	}
}

// keyframe parses `from, 50% { ... }`.
func (s *state) keyframe() *cssom.KeyframeRule {
	start := s.cur()
	s.push("keyframe")
	defer s.pop()
	var keys []string
	for {
		s.skipWhitespace()
		t := s.cur()
		switch {
		case t.Kind == scanner.Ident && (strings.EqualFold(t.Value, "from") || strings.EqualFold(t.Value, "to")):
			keys = append(keys, strings.ToLower(t.Value))
		case t.Kind == scanner.Percentage:
			keys = append(keys, value.FormatNumber(t.Number)+"%")
		default:
			s.syntaxError("keyframe", t, "")
			s.dropRule(start, true)
			return nil
		}
		s.next()
		s.skipWhitespace()
		if s.cur().Kind != scanner.Comma {
			break
		}
		s.next()
	}
	if !s.openBlock("keyframe") {
		s.dropRule(start, true)
		return nil
	}
	d := cssom.NewStyleDeclaration()
	if !s.declarations(d, true) {
		return nil
	}
	k := cssom.NewKeyframeRule(strings.Join(keys, ", "), d)
	k.SetLocator(start.Loc)
	return k
}

// unknownRule keeps an unrecognized at-rule as raw text.
func (s *state) unknownRule(nested bool) cssom.Rule {
	start := s.cur()
	s.skipRule(nested)
	text := strings.TrimSpace(s.sc.Slice(start.Offset, s.lastEnd))
	if !strings.HasSuffix(text, ";") && !strings.HasSuffix(text, "}") {
		text += ";"
	}
	s.log.Debug("keeping unknown at-rule", zap.String("keyword", start.Value))
	r := cssom.NewUnknownRule(text)
	r.SetLocator(start.Loc)
	return r
}
