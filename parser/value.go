package parser

import (
	"fmt"
	"math"
	"strings"

	"bennypowers.dev/cssom/diag"
	"bennypowers.dev/cssom/internal/collections"
	"bennypowers.dev/cssom/scanner"
	"bennypowers.dev/cssom/value"
	"github.com/mazznoer/csscolorparser"
)

// stopFunc reports whether t ends an expression.
type stopFunc func(t scanner.Token) bool

// endOfValue stops a property value at the priority, the end of the
// declaration, or the closing parenthesis of an enclosing function.
func endOfValue(t scanner.Token) bool {
	switch t.Kind {
	case scanner.Semicolon, scanner.RightBrace, scanner.RightParen,
		scanner.RightBracket, scanner.EOF:
		return true
	}
	return t.IsDelim('!')
}

var calcFunctions = collections.NewSet("calc", "-webkit-calc", "-moz-calc")

var calcConstants = collections.NewSet("e", "pi", "infinity", "-infinity", "nan")

// expr parses a chain of terms joined by whitespace, ',' or '/'.
func (s *state) expr(stop stopFunc) *value.Unit {
	var head, last *value.Unit
	for {
		t := s.cur()
		if stop(t) {
			break
		}
		if last != nil && (t.Kind == scanner.Comma || t.IsDelim('/')) {
			if t.Kind == scanner.Comma {
				last = value.NewComma(last)
			} else {
				last = value.NewSlash(last)
			}
			last.SetLocator(t.Loc)
			s.next()
			s.skipWhitespace()
			if n := s.cur(); stop(n) || n.Kind == scanner.Comma || n.IsDelim('/') {
				s.syntaxError("expression", n, fmt.Sprintf("Missing value after %q.", t.Raw))
				return nil
			}
			continue
		}
		u := s.term(last)
		if u == nil {
			return nil
		}
		if head == nil {
			head = u
		}
		last = u
		s.skipWhitespace()
	}
	if head == nil {
		s.syntaxError("expression", s.cur(), "Missing value.")
	}
	return head
}

// term parses one value and appends it to prev.
func (s *state) term(prev *value.Unit) *value.Unit {
	t := s.cur()
	var u *value.Unit
	switch t.Kind {
	case scanner.Number:
		u = value.NewNumber(prev, t.Number, t.Integer)
	case scanner.Percentage:
		u = value.NewPercentage(prev, t.Number)
	case scanner.Dimension:
		u = value.NewDimension(prev, t.Number, t.Unit)
	case scanner.String:
		if t.Unterminated {
			s.unexpectedEOF(t, "string")
			return nil
		}
		u = value.NewString(prev, t.Value)
	case scanner.URL:
		if t.Unterminated {
			s.unexpectedEOF(t, "url")
			return nil
		}
		u = value.NewURI(prev, t.Value)
	case scanner.BadString:
		s.errorf(t, diag.KindSyntax, "Error in expression. Unterminated string %s.", describe(t))
		return nil
	case scanner.BadURL:
		s.errorf(t, diag.KindSyntax, "Error in expression. Invalid url %s.", describe(t))
		return nil
	case scanner.Ident:
		u = value.NewIdent(prev, t.Value)
	case scanner.UnicodeRange:
		u = value.NewUnicodeRange(prev, t.Value)
	case scanner.Hash:
		u = s.hexColor(prev, t)
		if u == nil {
			return nil
		}
	case scanner.Function:
		return s.function(prev)
	default:
		s.syntaxError("expression", t, "")
		return nil
	}
	s.next()
	u.SetLocator(t.Loc)
	return u
}

// hexColor turns #rgb, #rgba, #rrggbb and #rrggbbaa into rgb() or rgba().
// The hash token is left for the caller to consume.
func (s *state) hexColor(prev *value.Unit, t scanner.Token) *value.Unit {
	h := t.Value
	if !isHexColor(h) {
		s.errorf(t, diag.KindSemantic, "Error in expression. Invalid color %q.", "#"+h)
		return nil
	}
	c, err := csscolorparser.Parse("#" + h)
	if err != nil {
		s.errorf(t, diag.KindSemantic, "Error in expression. Invalid color %q. %v", "#"+h, err)
		return nil
	}
	r := value.NewInteger(nil, channel(c.R))
	g := value.NewInteger(value.NewComma(r), channel(c.G))
	b := value.NewInteger(value.NewComma(g), channel(c.B))
	name := "rgb"
	if len(h) == 4 || len(h) == 8 {
		name = "rgba"
		a := math.Round(c.A*1000) / 1000
		sep := value.NewComma(b)
		if a == math.Trunc(a) {
			value.NewInteger(sep, int(a))
		} else {
			value.NewReal(sep, a)
		}
	}
	return value.NewRGBColor(prev, name, r)
}

func channel(v float64) int {
	return int(math.Round(v * 255))
}

func isHexColor(h string) bool {
	switch len(h) {
	case 3, 4, 6, 8:
	default:
		return false
	}
	for i := 0; i < len(h); i++ {
		c := h[i]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F') {
			return false
		}
	}
	return true
}

// closeParen consumes the ')' ending a function or group.
func (s *state) closeParen() bool {
	s.skipWhitespace()
	t := s.cur()
	if t.Kind != scanner.RightParen {
		s.syntaxError("function", t, fmt.Sprintf("Missing ')' instead of %s.", describe(t)))
		return false
	}
	s.next()
	return true
}

// function parses a function token through its closing parenthesis.
func (s *state) function(prev *value.Unit) *value.Unit {
	t := s.next()
	if !s.enter(t) {
		return nil
	}
	defer s.leave()
	s.push("function")
	defer s.pop()

	var u *value.Unit
	name := strings.ToLower(t.Value)
	switch {
	case calcFunctions.Has(name):
		u = s.calc(prev, t)
	case name == "var":
		u = s.varFunction(prev)
	case name == "rgb" || name == "rgba":
		u = s.colorFunction(prev, t, name, value.NewRGBColor)
	case name == "hsl" || name == "hsla":
		u = s.colorFunction(prev, t, name, value.NewHSLColor)
	case name == "counter" || name == "counters":
		u = s.counterFunction(prev, t, name)
	case name == "rect":
		u = s.rectFunction(prev, t)
	case name == "attr":
		u = s.attrFunction(prev)
	default:
		u = s.genericFunction(prev, t.Value)
	}
	if u != nil {
		u.SetLocator(t.Loc)
	}
	return u
}

// arguments parses the parameter chain up to and including ')'. An empty
// argument list yields nil with ok set.
func (s *state) arguments() (params *value.Unit, ok bool) {
	s.skipWhitespace()
	if s.cur().Kind != scanner.RightParen {
		if params = s.expr(endOfValue); params == nil {
			return nil, false
		}
	}
	return params, s.closeParen()
}

func (s *state) genericFunction(prev *value.Unit, name string) *value.Unit {
	params, ok := s.arguments()
	if !ok {
		return nil
	}
	return value.NewFunction(prev, name, params)
}

func (s *state) varFunction(prev *value.Unit) *value.Unit {
	s.skipWhitespace()
	n := s.cur()
	if n.Kind != scanner.Ident || !strings.HasPrefix(n.Value, "--") {
		s.syntaxError("var()", n, fmt.Sprintf("Expected a custom property name instead of %s.", describe(n)))
		return nil
	}
	s.next()
	params := value.NewIdent(nil, n.Value)
	s.skipWhitespace()
	if c := s.cur(); c.Kind == scanner.Comma {
		comma := value.NewComma(params)
		s.next()
		s.skipWhitespace()
		if s.cur().Kind != scanner.RightParen {
			fallback := s.expr(endOfValue)
			if fallback == nil {
				return nil
			}
			comma.SetNext(fallback)
		}
	}
	if !s.closeParen() {
		return nil
	}
	return value.NewVar(prev, params)
}

func (s *state) attrFunction(prev *value.Unit) *value.Unit {
	s.skipWhitespace()
	n := s.cur()
	if n.Kind != scanner.Ident {
		s.syntaxError("attr()", n, "")
		return nil
	}
	s.next()
	if !s.closeParen() {
		return nil
	}
	return value.NewAttr(prev, n.Value)
}

// separated splits a parameter chain into its values and the separator
// found before each value after the first. Juxtaposed values are
// separated by blank.
func separated(params *value.Unit) (vals []*value.Unit, seps []value.Type) {
	afterValue := false
	for u := params; u != nil; u = u.Next() {
		if u.Type().IsOperator() {
			seps = append(seps, u.Type())
			afterValue = false
			continue
		}
		if afterValue {
			seps = append(seps, blank)
		}
		vals = append(vals, u)
		afterValue = true
	}
	return vals, seps
}

// blank marks juxtaposed values in separated; it is not a real unit type.
const blank = value.Type(-1)

func (s *state) colorFunction(prev *value.Unit, t scanner.Token, name string, build func(*value.Unit, string, *value.Unit) *value.Unit) *value.Unit {
	params, ok := s.arguments()
	if !ok {
		return nil
	}
	if params == nil {
		s.errorf(t, diag.KindSemantic, "Error in expression. %s requires 3 or 4 values.", name)
		return nil
	}
	if !value.Contains(params, value.Var, value.Calc) {
		if msg := checkColor(name, params); msg != "" {
			s.errorf(t, diag.KindSemantic, "Error in expression. %s", msg)
			return nil
		}
	}
	return build(prev, name, params)
}

// checkColor validates the channels of a legacy color function and returns
// a message describing the first problem.
func checkColor(name string, params *value.Unit) string {
	vals, seps := separated(params)
	for _, sep := range seps {
		if sep != value.OperatorComma && sep != value.OperatorSlash && sep != blank {
			return fmt.Sprintf("%s parameters must be separated by commas or blanks.", name)
		}
	}
	if len(vals) != 3 && len(vals) != 4 {
		return fmt.Sprintf("%s requires 3 or 4 values.", name)
	}
	commas := seps[0] == value.OperatorComma
	for i, sep := range seps {
		switch {
		case i == 2 && commas:
			if sep != value.OperatorComma {
				return fmt.Sprintf("%s requires consistent separators (blank or comma).", name)
			}
		case i == 2:
			if sep != value.OperatorSlash {
				return fmt.Sprintf("%s requires consistent separators (blank or comma).", name)
			}
		case commas && sep != value.OperatorComma, !commas && sep != blank:
			return fmt.Sprintf("%s requires consistent separators (blank or comma).", name)
		}
	}
	if strings.HasPrefix(name, "rgb") {
		percentages := 0
		for _, v := range vals[:3] {
			switch v.Type() {
			case value.Percentage:
				percentages++
			case value.Integer, value.Real:
			default:
				if !isNone(v) {
					return fmt.Sprintf("%s parameters must be numbers or percentages.", name)
				}
			}
		}
		if percentages != 0 && percentages != 3 {
			return fmt.Sprintf("%s mixing numbers and percentages.", name)
		}
	} else {
		switch h := vals[0].Type(); h {
		case value.Integer, value.Real, value.Degree, value.Radian, value.Gradian, value.Turn:
		default:
			if !isNone(vals[0]) {
				return fmt.Sprintf("%s hue must be a number or an angle.", name)
			}
		}
		for _, v := range vals[1:3] {
			switch v.Type() {
			case value.Percentage, value.Integer, value.Real:
			default:
				if !isNone(v) {
					return fmt.Sprintf("%s saturation and lightness must be percentages.", name)
				}
			}
		}
	}
	if len(vals) == 4 {
		switch vals[3].Type() {
		case value.Integer, value.Real, value.Percentage:
		default:
			if !isNone(vals[3]) {
				return fmt.Sprintf("%s alpha must be a number or a percentage.", name)
			}
		}
	}
	return ""
}

func isNone(u *value.Unit) bool {
	return u.Type() == value.Ident && strings.EqualFold(u.StringValue(), "none")
}

func (s *state) rectFunction(prev *value.Unit, t scanner.Token) *value.Unit {
	params, ok := s.arguments()
	if !ok {
		return nil
	}
	vals, seps := separated(params)
	if len(vals) != 4 {
		s.errorf(t, diag.KindSemantic, "Error in expression. rect requires 4 values, found %d.", len(vals))
		return nil
	}
	for _, sep := range seps {
		if sep != seps[0] || (sep != value.OperatorComma && sep != blank) {
			s.errorf(t, diag.KindSemantic, "Error in expression. rect requires consistent separators (blank or comma).")
			return nil
		}
	}
	return value.NewRect(prev, params)
}

func (s *state) counterFunction(prev *value.Unit, t scanner.Token, name string) *value.Unit {
	params, ok := s.arguments()
	if !ok {
		return nil
	}
	vals, seps := separated(params)
	limit := 2
	if name == "counters" {
		limit = 3
	}
	switch {
	case len(vals) == 0 || vals[0].Type() != value.Ident:
		s.errorf(t, diag.KindSemantic, "Error in expression. %s requires a counter name.", name)
		return nil
	case len(vals) > limit:
		s.errorf(t, diag.KindSemantic, "Error in expression. %s accepts at most %d values.", name, limit)
		return nil
	case name == "counters" && (len(vals) < 2 || vals[1].Type() != value.StringValue):
		s.errorf(t, diag.KindSemantic, "Error in expression. counters requires a separator string.")
		return nil
	}
	for _, sep := range seps {
		if sep != value.OperatorComma {
			s.errorf(t, diag.KindSemantic, "Error in expression. %s parameters must be separated by commas.", name)
			return nil
		}
	}
	if name == "counters" {
		return value.NewCounters(prev, params)
	}
	return value.NewCounter(prev, params)
}

// calc parses the body of calc() into a flat chain; parenthesized groups
// become functions with an empty name.
func (s *state) calc(prev *value.Unit, t scanner.Token) *value.Unit {
	s.skipWhitespace()
	if n := s.cur(); n.Kind == scanner.RightParen {
		s.syntaxError("calc()", n, "Missing value.")
		return nil
	}
	params, ok := s.calcSum()
	if !ok || !s.closeParen() {
		return nil
	}
	u := value.NewCalc(prev, params)
	if name := strings.ToLower(t.Value); name != "calc" {
		u.SetFunctionName(name)
	}
	return u
}

func (s *state) calcSum() (*value.Unit, bool) {
	head, last, ok := s.calcProduct(nil)
	if !ok {
		return nil, false
	}
	for {
		s.skipWhitespace()
		t := s.cur()
		switch {
		case t.IsDelim('+') || t.IsDelim('-'):
			s.next()
			last = value.NewOperator(last, sumOperator(t.Value))
			s.skipWhitespace()
		case signedOperand(t):
			// a sign glued to the next operand acts as the operator: 42-16.4em
			last = value.NewOperator(last, sumOperator(t.Raw[:1]))
			s.buf[0].Raw = t.Raw[1:]
			s.buf[0].Number = math.Abs(t.Number)
		default:
			return head, true
		}
		if _, last, ok = s.calcProduct(last); !ok {
			return nil, false
		}
	}
}

func sumOperator(sign string) value.Type {
	if sign == "-" {
		return value.OperatorMinus
	}
	return value.OperatorPlus
}

func signedOperand(t scanner.Token) bool {
	switch t.Kind {
	case scanner.Number, scanner.Dimension, scanner.Percentage:
		return strings.HasPrefix(t.Raw, "+") || strings.HasPrefix(t.Raw, "-")
	}
	return false
}

func (s *state) calcProduct(prev *value.Unit) (head, last *value.Unit, ok bool) {
	if head = s.calcValue(prev); head == nil {
		return nil, nil, false
	}
	last = head
	for {
		s.skipWhitespace()
		t := s.cur()
		var op value.Type
		switch {
		case t.IsDelim('*'):
			op = value.OperatorMultiply
		case t.IsDelim('/'):
			op = value.OperatorSlash
		default:
			return head, last, true
		}
		s.next()
		last = value.NewOperator(last, op)
		s.skipWhitespace()
		if last = s.calcValue(last); last == nil {
			return nil, nil, false
		}
	}
}

func (s *state) calcValue(prev *value.Unit) *value.Unit {
	t := s.cur()
	switch t.Kind {
	case scanner.Number, scanner.Dimension, scanner.Percentage:
		return s.term(prev)
	case scanner.Function:
		return s.function(prev)
	case scanner.Ident:
		if !collections.HasFold(calcConstants, t.Value) {
			s.syntaxError("calc()", t, fmt.Sprintf("Unknown constant %s.", describe(t)))
			return nil
		}
		return s.term(prev)
	case scanner.LeftParen:
		if !s.enter(t) {
			return nil
		}
		defer s.leave()
		s.next()
		s.skipWhitespace()
		inner, ok := s.calcSum()
		if !ok || !s.closeParen() {
			return nil
		}
		u := value.NewFunction(prev, "", inner)
		u.SetLocator(t.Loc)
		return u
	}
	s.syntaxError("calc()", t, "")
	return nil
}
