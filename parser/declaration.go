package parser

import (
	"fmt"
	"strings"

	"bennypowers.dev/cssom/cssom"
	"bennypowers.dev/cssom/scanner"
	"bennypowers.dev/cssom/value"
)

// declarations fills d from a declaration list. With braced set the list
// is the body of a block and must end with '}'. It returns false when the
// input ended inside the block.
func (s *state) declarations(d *cssom.StyleDeclaration, braced bool) bool {
	for {
		t := s.cur()
		switch t.Kind {
		case scanner.Whitespace, scanner.Semicolon:
			s.next()
			continue
		case scanner.RightBrace:
			if braced {
				s.next()
				return true
			}
			s.syntaxError("declaration", t, `Unexpected "}".`)
			s.next()
			continue
		case scanner.EOF:
			if braced {
				s.unexpectedEOF(t, "")
				return false
			}
			return !s.eof
		case scanner.AtKeyword:
			s.syntaxError("declaration", t, fmt.Sprintf("Unexpected at-rule %s.", describe(t)))
			s.skipRule(true)
		default:
			s.declaration(d)
		}
		if s.eof {
			return false
		}
	}
}

// declaration parses `name: value [!important]` and adds it to d. A
// malformed declaration is reported and skipped.
func (s *state) declaration(d *cssom.StyleDeclaration) {
	start := s.cur()
	var name string
	switch {
	case start.IsDelim('*') && s.peek(1).Kind == scanner.Ident:
		if !s.p.opts.AllowStarHack {
			s.syntaxError("declaration", start, "")
			s.recoverDeclaration()
			return
		}
		s.next()
		name = "*" + strings.ToLower(s.next().Value)
	case start.Kind == scanner.Ident:
		s.next()
		name = start.Value
		if !strings.HasPrefix(name, "--") {
			name = strings.ToLower(name)
		}
	default:
		s.syntaxError("declaration", start, "")
		s.recoverDeclaration()
		return
	}

	s.skipWhitespace()
	if t := s.cur(); t.Kind != scanner.Colon {
		s.syntaxError("declaration", t, fmt.Sprintf("Missing ':' after property name %q.", name))
		s.recoverDeclaration()
		return
	}
	s.next()
	s.skipWhitespace()

	var v *value.Unit
	if t := s.cur(); isDeclarationEnd(t) || t.IsDelim('!') {
		if !strings.HasPrefix(name, "--") {
			s.syntaxError("declaration", t, fmt.Sprintf("Missing value for property %q.", name))
			s.recoverDeclaration()
			return
		}
	} else {
		v = s.expr(endOfValue)
		if v == nil {
			s.recoverDeclaration()
			return
		}
	}

	important := false
	s.skipWhitespace()
	if s.cur().IsDelim('!') {
		var ok bool
		if important, ok = s.priority(); !ok {
			s.recoverDeclaration()
			return
		}
		s.skipWhitespace()
	}
	if t := s.cur(); !isDeclarationEnd(t) {
		s.syntaxError("declaration", t, "")
		s.recoverDeclaration()
		return
	}
	d.AddProperty(&cssom.Property{Name: name, Value: v, Important: important, Loc: start.Loc})
}

// priority parses `!important`. The second result is false when the
// priority is malformed.
func (s *state) priority() (important, ok bool) {
	bang := s.cur()
	if !bang.IsDelim('!') {
		s.syntaxError("priority", bang, "")
		return false, false
	}
	s.next()
	s.skipWhitespace()
	t := s.cur()
	if t.Kind != scanner.Ident || !strings.EqualFold(t.Value, "important") {
		s.syntaxError("priority", t, fmt.Sprintf("Invalid priority %s.", describe(t)))
		return false, false
	}
	s.next()
	return true, true
}

func (s *state) recoverDeclaration() {
	if s.eof {
		return
	}
	start := s.cur()
	if s.skipDeclaration() {
		s.warn(start, warnIgnoringDeclarations)
	}
}

func isDeclarationEnd(t scanner.Token) bool {
	switch t.Kind {
	case scanner.Semicolon, scanner.RightBrace, scanner.EOF:
		return true
	}
	return false
}
