package scanner

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"bennypowers.dev/cssom/locator"
)

const eof = -1

// Scanner produces tokens from a source in a single forward pass.
type Scanner struct {
	src        []rune
	pos        int
	uri        string
	lineStarts []int
}

// New returns a scanner over src. uri is only used for locators.
func New(src, uri string) *Scanner {
	s := &Scanner{src: preprocess(src), uri: uri}
	s.lineStarts = []int{0}
	for i, r := range s.src {
		if r == '\n' {
			s.lineStarts = append(s.lineStarts, i+1)
		}
	}
	return s
}

// Tokenize returns every token of src, excluding the final EOF.
func Tokenize(src string) []Token {
	s := New(src, "")
	var toks []Token
	for {
		t := s.Next()
		if t.Kind == EOF {
			return toks
		}
		toks = append(toks, t)
	}
}

// preprocess folds CR, CRLF and FF into LF and replaces NULL with U+FFFD.
func preprocess(src string) []rune {
	out := make([]rune, 0, len(src))
	var prevCR bool
	for _, r := range src {
		switch r {
		case '\r':
			out = append(out, '\n')
			prevCR = true
			continue
		case '\n':
			if prevCR {
				prevCR = false
				continue
			}
		case '\f':
			r = '\n'
		case 0:
			r = '\uFFFD'
		}
		prevCR = false
		out = append(out, r)
	}
	return out
}

// URI returns the source identifier given to New.
func (s *Scanner) URI() string {
	return s.uri
}

// Slice returns the source text between two token offsets.
func (s *Scanner) Slice(start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(s.src) {
		end = len(s.src)
	}
	if start >= end {
		return ""
	}
	return string(s.src[start:end])
}

// Locator returns the position of the code point at offset.
func (s *Scanner) Locator(offset int) locator.Locator {
	line := sort.Search(len(s.lineStarts), func(i int) bool {
		return s.lineStarts[i] > offset
	}) - 1
	if line < 0 {
		line = 0
	}
	return locator.New(s.uri, line+1, offset-s.lineStarts[line]+1)
}

func (s *Scanner) peek(n int) rune {
	if s.pos+n < len(s.src) {
		return s.src[s.pos+n]
	}
	return eof
}

func (s *Scanner) token(kind Kind, start int, value string) Token {
	return Token{
		Kind:   kind,
		Value:  value,
		Raw:    string(s.src[start:s.pos]),
		Offset: start,
		End:    s.pos,
		Loc:    s.Locator(start),
	}
}

// Next returns the next token. After the end of input it keeps returning
// EOF tokens.
func (s *Scanner) Next() Token {
	start := s.pos
	r := s.peek(0)
	switch {
	case r == eof:
		return Token{Kind: EOF, Offset: start, End: start, Loc: s.Locator(start)}
	case r == '/' && s.peek(1) == '*':
		return s.comment()
	case isWhitespace(r):
		for isWhitespace(s.peek(0)) {
			s.pos++
		}
		return s.token(Whitespace, start, " ")
	case r == '"' || r == '\'':
		return s.quoted(r)
	case r == '#':
		if isName(s.peek(1)) || isValidEscape(s.peek(1), s.peek(2)) {
			s.pos++
			id := startsIdent(s.peek(0), s.peek(1), s.peek(2))
			name := s.name()
			t := s.token(Hash, start, name)
			t.IDHash = id
			return t
		}
	case r == '(':
		s.pos++
		return s.token(LeftParen, start, "(")
	case r == ')':
		s.pos++
		return s.token(RightParen, start, ")")
	case r == '[':
		s.pos++
		return s.token(LeftBracket, start, "[")
	case r == ']':
		s.pos++
		return s.token(RightBracket, start, "]")
	case r == '{':
		s.pos++
		return s.token(LeftBrace, start, "{")
	case r == '}':
		s.pos++
		return s.token(RightBrace, start, "}")
	case r == ',':
		s.pos++
		return s.token(Comma, start, ",")
	case r == ':':
		s.pos++
		return s.token(Colon, start, ":")
	case r == ';':
		s.pos++
		return s.token(Semicolon, start, ";")
	case r == '+' || r == '.':
		if startsNumber(r, s.peek(1), s.peek(2)) {
			return s.numeric()
		}
	case r == '-':
		if startsNumber(r, s.peek(1), s.peek(2)) {
			return s.numeric()
		}
		if s.peek(1) == '-' && s.peek(2) == '>' {
			s.pos += 3
			return s.token(CDC, start, "-->")
		}
		if startsIdent(r, s.peek(1), s.peek(2)) {
			return s.identLike()
		}
	case r == '<':
		if s.peek(1) == '!' && s.peek(2) == '-' && s.peek(3) == '-' {
			s.pos += 4
			return s.token(CDO, start, "<!--")
		}
	case r == '@':
		if startsIdent(s.peek(1), s.peek(2), s.peek(3)) {
			s.pos++
			name := s.name()
			return s.token(AtKeyword, start, name)
		}
	case r == '\\':
		if isValidEscape(r, s.peek(1)) {
			return s.identLike()
		}
	case isDigit(r):
		return s.numeric()
	case (r == 'u' || r == 'U') && s.peek(1) == '+' && (isHex(s.peek(2)) || s.peek(2) == '?'):
		return s.unicodeRange()
	case isNameStart(r):
		return s.identLike()
	case s.peek(1) == '=':
		kind := EOF
		switch r {
		case '~':
			kind = IncludeMatch
		case '|':
			kind = DashMatch
		case '^':
			kind = PrefixMatch
		case '$':
			kind = SuffixMatch
		case '*':
			kind = SubstringMatch
		}
		if kind != EOF {
			s.pos += 2
			return s.token(kind, start, string(s.src[start:s.pos]))
		}
	case r == '|' && s.peek(1) == '|':
		s.pos += 2
		return s.token(Column, start, "||")
	}
	s.pos++
	return s.token(Delim, start, string(r))
}

func (s *Scanner) comment() Token {
	start := s.pos
	s.pos += 2
	for {
		r := s.peek(0)
		if r == eof {
			t := s.token(Comment, start, string(s.src[start+2:s.pos]))
			t.Unterminated = true
			return t
		}
		if r == '*' && s.peek(1) == '/' {
			s.pos += 2
			return s.token(Comment, start, string(s.src[start+2:s.pos-2]))
		}
		s.pos++
	}
}

func (s *Scanner) quoted(quote rune) Token {
	start := s.pos
	s.pos++
	var b strings.Builder
	for {
		r := s.peek(0)
		switch {
		case r == eof:
			t := s.token(String, start, b.String())
			t.Unterminated = true
			return t
		case r == quote:
			s.pos++
			return s.token(String, start, b.String())
		case r == '\n':
			return s.token(BadString, start, b.String())
		case r == '\\':
			next := s.peek(1)
			switch next {
			case eof:
				s.pos++
			case '\n':
				s.pos += 2
			default:
				s.pos++
				b.WriteRune(s.escape())
			}
		default:
			b.WriteRune(r)
			s.pos++
		}
	}
}

// escape consumes an escape sequence; the backslash is already consumed.
func (s *Scanner) escape() rune {
	r := s.peek(0)
	if r == eof {
		return '\uFFFD'
	}
	if !isHex(r) {
		s.pos++
		return r
	}
	var v rune
	for i := 0; i < 6 && isHex(s.peek(0)); i++ {
		v = v*16 + hexValue(s.peek(0))
		s.pos++
	}
	if isWhitespace(s.peek(0)) {
		s.pos++
	}
	if v == 0 || (v >= 0xD800 && v <= 0xDFFF) || v > 0x10FFFF || unassignedPlane(v) {
		return '\uFFFD'
	}
	return v
}

// unassignedPlane reports code points in planes 4 to 13, none of which
// have assigned characters.
func unassignedPlane(v rune) bool {
	return v >= 0x40000 && v <= 0xDFFFF
}

func (s *Scanner) name() string {
	var b strings.Builder
	for {
		r := s.peek(0)
		switch {
		case isName(r):
			b.WriteRune(r)
			s.pos++
		case isValidEscape(r, s.peek(1)):
			s.pos++
			b.WriteRune(s.escape())
		default:
			return b.String()
		}
	}
}

func (s *Scanner) identLike() Token {
	start := s.pos
	name := s.name()
	if s.peek(0) != '(' {
		return s.token(Ident, start, name)
	}
	s.pos++
	if strings.EqualFold(name, "url") {
		return s.url(start)
	}
	return s.token(Function, start, name)
}

// url consumes the rest of a url( token, quoted or not.
func (s *Scanner) url(start int) Token {
	s.skipWhitespace()
	if q := s.peek(0); q == '"' || q == '\'' {
		str := s.quoted(q)
		s.skipWhitespace()
		if str.Kind == String && !str.Unterminated && s.peek(0) == ')' {
			s.pos++
			return s.token(URL, start, str.Value)
		}
		if s.peek(0) == eof {
			t := s.token(URL, start, str.Value)
			t.Unterminated = true
			return t
		}
		s.badURLRemnants()
		return s.token(BadURL, start, "")
	}
	var b strings.Builder
	for {
		r := s.peek(0)
		switch {
		case r == ')':
			s.pos++
			return s.token(URL, start, b.String())
		case r == eof:
			t := s.token(URL, start, b.String())
			t.Unterminated = true
			return t
		case isWhitespace(r):
			s.skipWhitespace()
			if s.peek(0) == ')' || s.peek(0) == eof {
				continue
			}
			s.badURLRemnants()
			return s.token(BadURL, start, "")
		case r == '"' || r == '\'' || r == '(' || isNonPrintable(r):
			s.badURLRemnants()
			return s.token(BadURL, start, "")
		case r == '\\':
			if !isValidEscape(r, s.peek(1)) {
				s.badURLRemnants()
				return s.token(BadURL, start, "")
			}
			s.pos++
			b.WriteRune(s.escape())
		default:
			b.WriteRune(r)
			s.pos++
		}
	}
}

func (s *Scanner) badURLRemnants() {
	for {
		r := s.peek(0)
		switch {
		case r == eof:
			return
		case r == ')':
			s.pos++
			return
		case isValidEscape(r, s.peek(1)):
			s.pos++
			s.escape()
		default:
			s.pos++
		}
	}
}

func (s *Scanner) skipWhitespace() {
	for isWhitespace(s.peek(0)) {
		s.pos++
	}
}

func (s *Scanner) numeric() Token {
	start := s.pos
	integer := true
	if r := s.peek(0); r == '+' || r == '-' {
		s.pos++
	}
	for isDigit(s.peek(0)) {
		s.pos++
	}
	if s.peek(0) == '.' && isDigit(s.peek(1)) {
		integer = false
		s.pos += 2
		for isDigit(s.peek(0)) {
			s.pos++
		}
	}
	if e := s.peek(0); e == 'e' || e == 'E' {
		if isDigit(s.peek(1)) {
			integer = false
			s.pos += 2
		} else if (s.peek(1) == '+' || s.peek(1) == '-') && isDigit(s.peek(2)) {
			integer = false
			s.pos += 3
		}
		for isDigit(s.peek(0)) {
			s.pos++
		}
	}
	repr := string(s.src[start:s.pos])
	num, err := strconv.ParseFloat(repr, 64)
	if err != nil && math.IsInf(num, 0) {
		num = math.Copysign(math.MaxFloat64, num)
	}

	var t Token
	switch {
	case startsIdent(s.peek(0), s.peek(1), s.peek(2)):
		unit := s.name()
		t = s.token(Dimension, start, repr)
		t.Unit = unit
	case s.peek(0) == '%':
		s.pos++
		t = s.token(Percentage, start, repr)
	default:
		t = s.token(Number, start, repr)
	}
	t.Number = num
	t.Integer = integer
	return t
}

func (s *Scanner) unicodeRange() Token {
	start := s.pos
	s.pos += 2
	n := 0
	for n < 6 && isHex(s.peek(0)) {
		s.pos++
		n++
	}
	wild := false
	for n < 6 && s.peek(0) == '?' {
		s.pos++
		n++
		wild = true
	}
	if !wild && s.peek(0) == '-' && isHex(s.peek(1)) {
		s.pos++
		for i := 0; i < 6 && isHex(s.peek(0)); i++ {
			s.pos++
		}
	}
	raw := string(s.src[start:s.pos])
	return s.token(UnicodeRange, start, strings.ToUpper(raw[:1])+raw[1:])
}

func isWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isHex(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func hexValue(r rune) rune {
	switch {
	case isDigit(r):
		return r - '0'
	case r >= 'a' && r <= 'f':
		return r - 'a' + 10
	default:
		return r - 'A' + 10
	}
}

func isNameStart(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_' || r >= 0x80
}

func isName(r rune) bool {
	return isNameStart(r) || isDigit(r) || r == '-'
}

func isNonPrintable(r rune) bool {
	return (r >= 0 && r <= 0x08) || r == 0x0B || (r >= 0x0E && r <= 0x1F) || r == 0x7F
}

func isValidEscape(a, b rune) bool {
	return a == '\\' && b != '\n' && b != eof
}

func startsIdent(a, b, c rune) bool {
	switch {
	case a == '-':
		return isNameStart(b) || b == '-' || isValidEscape(b, c)
	case isNameStart(a):
		return true
	case a == '\\':
		return isValidEscape(a, b)
	}
	return false
}

func startsNumber(a, b, c rune) bool {
	switch {
	case a == '+' || a == '-':
		return isDigit(b) || (b == '.' && isDigit(c))
	case a == '.':
		return isDigit(b)
	}
	return isDigit(a)
}

// IsNameRune reports whether r may appear unescaped inside an identifier.
func IsNameRune(r rune) bool {
	return isName(r)
}

// IsNameStartRune reports whether r may start an identifier unescaped.
func IsNameStartRune(r rune) bool {
	return isNameStart(r)
}
