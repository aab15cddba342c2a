package parser

import (
	"strings"

	"bennypowers.dev/cssom/media"
	"bennypowers.dev/cssom/scanner"
)

// mediaList parses comma separated media queries up to end, which is not
// consumed. The list is empty when end follows immediately. ok is false
// after a malformed query; l then holds the queries parsed so far.
func (s *state) mediaList(end scanner.Kind) (l *media.List, ok bool) {
	l = &media.List{}
	s.skipWhitespace()
	if t := s.cur(); t.Kind == end || t.Kind == scanner.EOF {
		return l, true
	}
	for {
		q := s.mediaQuery()
		if q == nil {
			return l, false
		}
		l.Queries = append(l.Queries, q)
		s.skipWhitespace()
		t := s.cur()
		switch {
		case t.Kind == scanner.Comma:
			s.next()
			s.skipWhitespace()
		case t.Kind == end || t.Kind == scanner.EOF:
			return l, true
		default:
			s.syntaxError("media query", t, "")
			return l, false
		}
	}
}

// mediaQuery parses `[only|not] type [and (feature)]*` or
// `(feature) [and (feature)]*`.
func (s *state) mediaQuery() *media.Query {
	t := s.cur()
	q := &media.Query{Loc: t.Loc}
	switch t.Kind {
	case scanner.Ident:
		switch kw := strings.ToLower(t.Value); kw {
		case "not", "only":
			s.next()
			s.skipWhitespace()
			q.Not = kw == "not"
			q.Only = kw == "only"
			t = s.cur()
			if t.Kind != scanner.Ident {
				s.syntaxError("media query", t, "")
				return nil
			}
		case "and":
			s.syntaxError("media query", t, "")
			return nil
		}
		q.Type = strings.ToLower(t.Value)
		s.next()
	case scanner.LeftParen:
		f := s.mediaFeature()
		if f == nil {
			return nil
		}
		q.Features = append(q.Features, f)
	default:
		s.syntaxError("media query", t, "")
		return nil
	}
	for {
		s.skipWhitespace()
		t := s.cur()
		if t.Kind != scanner.Ident || !strings.EqualFold(t.Value, "and") {
			return q
		}
		s.next()
		s.skipWhitespace()
		f := s.mediaFeature()
		if f == nil {
			return nil
		}
		q.Features = append(q.Features, f)
	}
}

// mediaFeature parses `(name)`, `(name: value)` or `(name op value)`.
func (s *state) mediaFeature() *media.Feature {
	open := s.cur()
	if open.Kind != scanner.LeftParen {
		s.syntaxError("media query", open, "")
		return nil
	}
	s.next()
	s.push("media query")
	defer s.pop()
	s.skipWhitespace()
	n := s.cur()
	if n.Kind != scanner.Ident {
		s.syntaxError("media query", n, "")
		return nil
	}
	s.next()
	s.skipWhitespace()
	f := &media.Feature{Name: strings.ToLower(n.Value)}
	t := s.cur()
	switch {
	case t.Kind == scanner.RightParen:
		s.next()
		return f
	case t.Kind == scanner.Colon:
		s.next()
		f.Op = ":"
	case t.IsDelim('<') || t.IsDelim('>') || t.IsDelim('='):
		s.next()
		f.Op = t.Value
		if f.Op != "=" && s.cur().IsDelim('=') {
			s.next()
			f.Op += "="
		}
	default:
		s.syntaxError("media query", t, "")
		return nil
	}
	s.skipWhitespace()
	if f.Value = s.expr(endOfValue); f.Value == nil {
		return nil
	}
	if !s.closeParen() {
		return nil
	}
	return f
}
