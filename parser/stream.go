package parser

import (
	"fmt"

	"bennypowers.dev/cssom/diag"
	"bennypowers.dev/cssom/locator"
	"bennypowers.dev/cssom/scanner"
	"go.uber.org/zap"
)

const (
	warnIgnoringRule         = "Ignoring the whole rule."
	warnIgnoringDeclarations = "Ignoring the following declarations in this rule."
)

// state is the per-parse cursor over the token stream. Comments are
// dropped on the way in; whitespace tokens are kept because they are
// significant in selectors and values.
type state struct {
	p   *Parser
	sc  *scanner.Scanner
	buf []scanner.Token
	h   diag.Handler
	log *zap.Logger

	depth int
	// lastEnd is the rune offset just past the last consumed token.
	lastEnd int
	// open names the constructs currently being parsed, innermost last.
	open []string
	// eof is set once an unexpected end of input has been reported; every
	// production then unwinds without further diagnostics.
	eof bool
}

func (p *Parser) newState(src, uri string, h diag.Handler) *state {
	return &state{
		p:   p,
		sc:  scanner.New(src, uri),
		h:   h,
		log: p.log,
	}
}

func (s *state) fill(n int) {
	for len(s.buf) < n {
		t := s.sc.Next()
		if t.Kind == scanner.Comment {
			if t.Unterminated {
				s.unexpectedEOF(t, "comment")
			}
			continue
		}
		s.buf = append(s.buf, t)
	}
}

// peek returns the token n positions ahead without consuming it.
func (s *state) peek(n int) scanner.Token {
	s.fill(n + 1)
	return s.buf[n]
}

func (s *state) cur() scanner.Token {
	return s.peek(0)
}

func (s *state) next() scanner.Token {
	t := s.peek(0)
	if t.Kind != scanner.EOF {
		s.buf = s.buf[1:]
		s.lastEnd = t.End
	}
	return t
}

func (s *state) skipWhitespace() bool {
	skipped := false
	for s.cur().Kind == scanner.Whitespace {
		s.next()
		skipped = true
	}
	return skipped
}

func (s *state) report(sev diag.Severity, kind diag.Kind, loc locator.Locator, msg string) {
	diag.Report(s.h, diag.Event{Severity: sev, Kind: kind, Message: msg, Locator: loc})
}

func (s *state) errorf(t scanner.Token, kind diag.Kind, format string, args ...any) {
	s.report(diag.SeverityError, kind, t.Loc, fmt.Sprintf(format, args...))
}

func (s *state) warn(t scanner.Token, msg string) {
	s.report(diag.SeverityWarning, diag.KindInfo, t.Loc, msg)
}

// syntaxError reports a token that does not fit construct.
func (s *state) syntaxError(construct string, t scanner.Token, detail string) {
	if t.Kind == scanner.EOF && len(s.open) > 0 {
		s.unexpectedEOF(t, "")
		return
	}
	if detail == "" {
		detail = fmt.Sprintf("Invalid token %s.", describe(t))
	}
	s.errorf(t, diag.KindSyntax, "Error in %s. %s", construct, detail)
}

// unexpectedEOF reports the end of input inside an open construct once.
// An empty construct names the innermost open one.
func (s *state) unexpectedEOF(t scanner.Token, construct string) {
	if s.eof {
		return
	}
	s.eof = true
	if construct == "" {
		construct = "style sheet"
		if len(s.open) > 0 {
			construct = s.open[len(s.open)-1]
		}
	}
	s.log.Debug("unexpected end of input", zap.String("construct", construct),
		zap.Int("line", t.Loc.Line), zap.Int("column", t.Loc.Column))
	s.errorf(t, diag.KindUnterminated, "Error in %s. Unexpected end of file.", construct)
}

func (s *state) push(construct string) { s.open = append(s.open, construct) }

func (s *state) pop() { s.open = s.open[:len(s.open)-1] }

// enter guards recursion; callers must call leave when it returns true.
func (s *state) enter(t scanner.Token) bool {
	if s.depth >= s.p.opts.MaxNestingDepth {
		s.errorf(t, diag.KindSyntax, "Error in expression. Maximum nesting depth of %d exceeded.", s.p.opts.MaxNestingDepth)
		return false
	}
	s.depth++
	return true
}

func (s *state) leave() { s.depth-- }

// atEnd checks that only whitespace remains.
func (s *state) atEnd(construct string) bool {
	s.skipWhitespace()
	if t := s.cur(); t.Kind != scanner.EOF {
		s.syntaxError(construct, t, fmt.Sprintf("Unexpected %s after the end.", describe(t)))
		return false
	}
	return true
}

func describe(t scanner.Token) string {
	switch t.Kind {
	case scanner.EOF:
		return "end of file"
	case scanner.Whitespace:
		return "whitespace"
	}
	return fmt.Sprintf("%q", t.Raw)
}

func isOpener(t scanner.Token) bool {
	switch t.Kind {
	case scanner.LeftParen, scanner.LeftBracket, scanner.LeftBrace, scanner.Function:
		return true
	}
	return false
}

func isCloser(t scanner.Token) bool {
	switch t.Kind {
	case scanner.RightParen, scanner.RightBracket, scanner.RightBrace:
		return true
	}
	return false
}

// skipDeclaration resynchronizes after a malformed declaration: it stops
// after the next ';' or before the '}' closing the block, at nesting level
// zero. It reports whether a {} block was skipped on the way.
func (s *state) skipDeclaration() (skippedBlock bool) {
	nesting := 0
	for {
		t := s.cur()
		switch {
		case t.Kind == scanner.EOF:
			return skippedBlock
		case nesting == 0 && t.Kind == scanner.Semicolon:
			s.next()
			return skippedBlock
		case nesting == 0 && t.Kind == scanner.RightBrace:
			return skippedBlock
		case isOpener(t):
			nesting++
			if t.Kind == scanner.LeftBrace {
				skippedBlock = true
			}
		case isCloser(t) && nesting > 0:
			nesting--
		}
		s.next()
	}
}

// skipRule discards the rest of a rule: up to and including a ';' at
// nesting level zero, or a complete {} block. Inside a nested rule list a
// '}' at level zero closes the enclosing block and is left in place.
func (s *state) skipRule(nested bool) {
	nesting := 0
	for {
		t := s.cur()
		switch {
		case t.Kind == scanner.EOF:
			return
		case nesting == 0 && t.Kind == scanner.Semicolon:
			s.next()
			return
		case nesting == 0 && t.Kind == scanner.RightBrace:
			if nested {
				return
			}
			s.next()
			return
		case isOpener(t):
			nesting++
		case isCloser(t) && nesting > 0:
			nesting--
			if nesting == 0 && t.Kind == scanner.RightBrace {
				s.next()
				return
			}
		}
		s.next()
	}
}

// skipBlock consumes tokens up to and including the '}' that closes the
// current block.
func (s *state) skipBlock() {
	nesting := 0
	for {
		t := s.next()
		switch {
		case t.Kind == scanner.EOF:
			return
		case isOpener(t):
			nesting++
		case isCloser(t):
			if nesting == 0 && t.Kind == scanner.RightBrace {
				return
			}
			if nesting > 0 {
				nesting--
			}
		}
	}
}
