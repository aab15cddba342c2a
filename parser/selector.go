package parser

import (
	"fmt"
	"strconv"
	"strings"

	"bennypowers.dev/cssom/diag"
	"bennypowers.dev/cssom/internal/collections"
	"bennypowers.dev/cssom/scanner"
	"bennypowers.dev/cssom/selector"
)

// legacyPseudoElements may be written with a single colon.
var legacyPseudoElements = collections.NewSet("before", "after", "first-line", "first-letter")

var nthPseudoClasses = collections.NewSet("nth-child", "nth-last-child", "nth-of-type", "nth-last-of-type")

var attributeMatches = map[scanner.Kind]selector.Match{
	scanner.IncludeMatch:   selector.MatchIncludes,
	scanner.DashMatch:      selector.MatchDash,
	scanner.PrefixMatch:    selector.MatchPrefix,
	scanner.SuffixMatch:    selector.MatchSuffix,
	scanner.SubstringMatch: selector.MatchSubstring,
}

// selectorList parses comma separated selectors and stops before the first
// token that cannot continue the list. It returns nil on error.
func (s *state) selectorList() selector.List {
	var list selector.List
	for {
		s.skipWhitespace()
		sel := s.selector()
		if sel == nil {
			return nil
		}
		list = append(list, sel)
		s.skipWhitespace()
		if s.cur().Kind != scanner.Comma {
			return list
		}
		s.next()
	}
}

func startsCompound(t scanner.Token) bool {
	switch t.Kind {
	case scanner.Ident, scanner.Hash, scanner.LeftBracket, scanner.Colon:
		return true
	}
	return t.IsDelim('*') || t.IsDelim('.')
}

// pseudoElement returns the name of the pseudo-element ending es, if any.
func pseudoElement(es *selector.ElementSelector) string {
	if n := len(es.Conditions); n > 0 && es.Conditions[n-1].Type == selector.PseudoElement {
		return es.Conditions[n-1].Name
	}
	return ""
}

func (s *state) misplacedPseudo(t scanner.Token, pseudo, next string) {
	s.errorf(t, diag.KindSyntax, "Error in selector. Duplicate pseudo class \":%s\" or pseudo class \":%s\" not at end.", pseudo, next)
}

func (s *state) selector() selector.Selector {
	first := s.compound()
	if first == nil {
		return nil
	}
	var sel selector.Selector = first
	last := first
	for {
		ws := s.skipWhitespace()
		t := s.cur()
		var kind selector.Type
		switch {
		case t.IsDelim('>'):
			kind = selector.Child
		case t.IsDelim('+'):
			kind = selector.DirectAdjacent
		case t.IsDelim('~'):
			kind = selector.GeneralAdjacent
		case ws && startsCompound(t):
			kind = selector.Descendant
		default:
			return sel
		}
		if pe := pseudoElement(last); pe != "" {
			s.misplacedPseudo(t, pe, strings.TrimSpace(t.Raw))
			return nil
		}
		if kind != selector.Descendant {
			s.next()
			s.skipWhitespace()
		}
		right := s.compound()
		if right == nil {
			return nil
		}
		sel = &selector.CombinatorSelector{Kind: kind, Ancestor: sel, Right: right, Loc: t.Loc}
		last = right
	}
}

// compound parses an optional type selector followed by conditions.
func (s *state) compound() *selector.ElementSelector {
	start := s.cur()
	es := &selector.ElementSelector{Loc: start.Loc}
	switch {
	case start.Kind == scanner.Ident:
		es.Name = start.Value
		s.next()
	case start.IsDelim('*'):
		es.Name = "*"
		s.next()
	}
	for {
		t := s.cur()
		var c *selector.Condition
		switch {
		case t.Kind == scanner.Hash:
			if !t.IDHash {
				s.syntaxError("selector", t, fmt.Sprintf("Invalid id %s.", describe(t)))
				return nil
			}
			s.next()
			c = &selector.Condition{Type: selector.ID, Name: t.Value, Loc: t.Loc}
		case t.IsDelim('.'):
			s.next()
			n := s.cur()
			if n.Kind != scanner.Ident {
				s.syntaxError("selector", n, fmt.Sprintf("Expected a class name instead of %s.", describe(n)))
				return nil
			}
			s.next()
			c = &selector.Condition{Type: selector.Class, Name: n.Value, Loc: t.Loc}
		case t.Kind == scanner.LeftBracket:
			c = s.attribute()
		case t.Kind == scanner.Colon:
			c = s.pseudo()
		default:
			if es.Name == "" && len(es.Conditions) == 0 {
				s.syntaxError("selector", t, "")
				return nil
			}
			return es
		}
		if c == nil {
			return nil
		}
		if pe := pseudoElement(es); pe != "" {
			s.misplacedPseudo(t, pe, c.Name)
			return nil
		}
		es.Conditions = append(es.Conditions, c)
	}
}

func (s *state) attribute() *selector.Condition {
	open := s.next()
	s.skipWhitespace()
	n := s.cur()
	if n.Kind != scanner.Ident {
		s.syntaxError("attribute selector", n, "")
		return nil
	}
	s.next()
	s.skipWhitespace()
	c := &selector.Condition{Type: selector.Attribute, Name: n.Value, Loc: open.Loc}
	t := s.cur()
	if t.Kind == scanner.RightBracket {
		s.next()
		return c
	}
	m, ok := attributeMatches[t.Kind]
	if t.IsDelim('=') {
		m, ok = selector.MatchEquals, true
	}
	if !ok {
		s.syntaxError("attribute selector", t, "")
		return nil
	}
	c.Match = m
	s.next()
	s.skipWhitespace()
	v := s.cur()
	switch {
	case v.Kind == scanner.String && v.Unterminated:
		s.unexpectedEOF(v, "string")
		return nil
	case v.Kind != scanner.Ident && v.Kind != scanner.String:
		s.syntaxError("attribute selector", v, "")
		return nil
	}
	c.Value = v.Value
	s.next()
	s.skipWhitespace()
	if f := s.cur(); f.Kind == scanner.Ident {
		switch strings.ToLower(f.Value) {
		case "i":
			c.Case = selector.CaseInsensitive
		case "s":
			c.Case = selector.CaseSensitive
		default:
			s.errorf(f, diag.KindSemantic, "Error in attribute selector. Invalid case sensitivity flag %q.", f.Value)
			return nil
		}
		s.next()
		s.skipWhitespace()
	}
	if t := s.cur(); t.Kind != scanner.RightBracket {
		s.syntaxError("attribute selector", t, "")
		return nil
	}
	s.next()
	return c
}

func (s *state) pseudo() *selector.Condition {
	colon := s.next()
	double := false
	if s.cur().Kind == scanner.Colon {
		s.next()
		double = true
	}
	t := s.cur()
	switch t.Kind {
	case scanner.Ident:
		s.next()
		name := strings.ToLower(t.Value)
		c := &selector.Condition{Type: selector.PseudoClass, Name: name, Loc: colon.Loc}
		if double || legacyPseudoElements.Has(name) {
			c.Type = selector.PseudoElement
			c.DoubleColon = double
		}
		return c
	case scanner.Function:
		return s.functionalPseudo(colon, double)
	}
	s.syntaxError("pseudo class", t, "")
	return nil
}

func (s *state) functionalPseudo(colon scanner.Token, double bool) *selector.Condition {
	t := s.next()
	name := strings.ToLower(t.Value)
	if !s.enter(t) {
		return nil
	}
	defer s.leave()
	s.push("pseudo class")
	defer s.pop()

	switch {
	case double:
		raw, ok := s.rawArgument(t)
		if !ok {
			return nil
		}
		return &selector.Condition{Type: selector.PseudoElement, Name: name, Value: raw, Function: true, DoubleColon: true, Loc: colon.Loc}
	case nthPseudoClasses.Has(name):
		raw, ok := s.rawArgument(t)
		if !ok {
			return nil
		}
		a, b, ok := parseNth(raw)
		if !ok {
			s.errorf(t, diag.KindSemantic, "Error in pseudo class \":%s\". Invalid argument %q.", name, raw)
			return nil
		}
		return &selector.Condition{Type: selector.Nth, Name: name, Value: raw, A: a, B: b, Function: true, Loc: colon.Loc}
	case name == "lang":
		s.skipWhitespace()
		a := s.cur()
		if a.Kind == scanner.EOF || a.Kind == scanner.String && a.Unterminated {
			s.unexpectedEOF(a, "")
			return nil
		}
		if a.Kind != scanner.Ident && a.Kind != scanner.String {
			s.errorf(a, diag.KindSemantic, "Error in pseudo class \":lang\". Invalid argument %s.", describe(a))
			return nil
		}
		s.next()
		if !s.closeParen() {
			return nil
		}
		return &selector.Condition{Type: selector.Lang, Name: name, Value: a.Value, Function: true, Loc: colon.Loc}
	case name == "not":
		return s.not(colon)
	}
	raw, ok := s.rawArgument(t)
	if !ok {
		return nil
	}
	return &selector.Condition{Type: selector.PseudoClass, Name: name, Value: raw, Function: true, Loc: colon.Loc}
}

// rawArgument returns the trimmed source text between fn and its matching
// ')'. Comments are removed; one that separated two tokens becomes a space.
func (s *state) rawArgument(fn scanner.Token) (string, bool) {
	var b strings.Builder
	prevEnd := fn.End
	nesting := 0
	for {
		t := s.cur()
		switch {
		case t.Kind == scanner.EOF:
			s.unexpectedEOF(t, "")
			return "", false
		case t.Kind == scanner.String && t.Unterminated:
			s.unexpectedEOF(t, "string")
			return "", false
		case t.Kind == scanner.RightParen && nesting == 0:
			s.next()
			return strings.TrimSpace(b.String()), true
		case isOpener(t):
			nesting++
		case isCloser(t) && nesting > 0:
			nesting--
		}
		if t.Offset > prevEnd && b.Len() > 0 && t.Kind != scanner.Whitespace && !endsInSpace(b.String()) {
			b.WriteByte(' ')
		}
		b.WriteString(s.sc.Slice(t.Offset, t.End))
		prevEnd = t.End
		s.next()
	}
}

func endsInSpace(text string) bool {
	last := text[len(text)-1]
	return last == ' ' || last == '\t' || last == '\n'
}

// parseNth evaluates an An+B formula, ignoring whitespace.
func parseNth(raw string) (a, b int, ok bool) {
	f := strings.ToLower(strings.Join(strings.Fields(raw), ""))
	switch f {
	case "odd":
		return 2, 1, true
	case "even":
		return 2, 0, true
	case "":
		return 0, 0, false
	}
	i := strings.IndexByte(f, 'n')
	if i < 0 {
		b, err := strconv.Atoi(f)
		return 0, b, err == nil
	}
	switch coef := f[:i]; coef {
	case "", "+":
		a = 1
	case "-":
		a = -1
	default:
		n, err := strconv.Atoi(coef)
		if err != nil {
			return 0, 0, false
		}
		a = n
	}
	rest := f[i+1:]
	if rest == "" {
		return a, 0, true
	}
	if rest[0] != '+' && rest[0] != '-' || len(rest) == 1 || rest[1] == '+' || rest[1] == '-' {
		return 0, 0, false
	}
	b, err := strconv.Atoi(rest)
	if err != nil {
		return 0, 0, false
	}
	return a, b, true
}

// not parses the argument list of :not(), one simple selector per entry.
func (s *state) not(colon scanner.Token) *selector.Condition {
	c := &selector.Condition{Type: selector.Not, Name: "not", Function: true, Loc: colon.Loc}
	for {
		s.skipWhitespace()
		t := s.cur()
		if t.Kind == scanner.RightParen && len(c.Selectors) == 0 {
			s.errorf(t, diag.KindSemantic, "Error in pseudo class \":not\". Missing argument.")
			return nil
		}
		es := s.compound()
		if es == nil {
			return nil
		}
		simple := len(es.Conditions)
		if es.Name != "" {
			simple++
		}
		if simple != 1 || pseudoElement(es) != "" {
			s.errorf(t, diag.KindSemantic, "Error in pseudo class \":not\". Invalid argument %q.", es.String())
			return nil
		}
		c.Selectors = append(c.Selectors, es)
		s.skipWhitespace()
		switch n := s.cur(); n.Kind {
		case scanner.Comma:
			s.next()
		case scanner.RightParen:
			s.next()
			return c
		default:
			s.syntaxError(`pseudo class ":not"`, n, "")
			return nil
		}
	}
}
