package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Options tune value rendering.
type Options struct {
	// RGBAsHex renders rgb() with three integer channels as #rrggbb.
	RGBAsHex bool
}

// String renders this unit alone. The result is cached until the unit or
// one of its parameters is mutated.
func (u *Unit) String() string {
	if !u.cached {
		u.text = u.render(Options{})
		u.cached = true
	}
	return u.text
}

// Text renders the chain starting at head.
func Text(head *Unit) string {
	return Render(head, Options{})
}

// Render renders the chain starting at head with the given options.
func Render(head *Unit, opts Options) string {
	var b strings.Builder
	for u := head; u != nil; u = u.next {
		if u != head && u.typ != OperatorComma {
			b.WriteByte(' ')
		}
		if opts == (Options{}) {
			b.WriteString(u.String())
		} else {
			b.WriteString(u.render(opts))
		}
	}
	return b.String()
}

func (u *Unit) render(opts Options) string {
	switch u.typ {
	case OperatorComma:
		return ","
	case OperatorSlash:
		return "/"
	case OperatorPlus:
		return "+"
	case OperatorMinus:
		return "-"
	case OperatorMultiply:
		return "*"
	case OperatorGT:
		return ">"
	case Integer, Real:
		return FormatNumber(u.num)
	case Ident:
		return EscapeIdent(u.str)
	case Inherit:
		return "inherit"
	case StringValue:
		return QuoteString(u.str)
	case URI:
		return "url(" + QuoteString(u.str) + ")"
	case UnicodeRange:
		return u.str
	case Attr:
		return "attr(" + EscapeIdent(u.str) + ")"
	case RGBColor:
		if opts.RGBAsHex {
			if hex, ok := u.hex(); ok {
				return hex
			}
		}
	}
	if u.typ.IsNumeric() {
		if u.typ == Dimension {
			return FormatNumber(u.num) + escapeUnit(u.unit)
		}
		return FormatNumber(u.num) + u.DimensionUnitText()
	}
	if u.typ.IsFunction() {
		return EscapeIdent(u.str) + "(" + Render(u.params, opts) + ")"
	}
	return ""
}

// hex renders an rgb() unit with three integer channels in 0..255.
func (u *Unit) hex() (string, bool) {
	var ch [3]int
	n := u.params
	for i := range ch {
		if n == nil || n.typ != Integer || n.num < 0 || n.num > 255 {
			return "", false
		}
		ch[i] = int(n.num)
		n = n.next
		if i < 2 {
			if n == nil || n.typ != OperatorComma {
				return "", false
			}
			n = n.next
		}
	}
	if n != nil {
		return "", false
	}
	return fmt.Sprintf("#%02x%02x%02x", ch[0], ch[1], ch[2]), true
}

// FormatNumber renders v with the fewest digits that read back exactly.
func FormatNumber(v float64) string {
	switch {
	case v == 0 || math.IsNaN(v):
		return "0"
	case math.IsInf(v, 0):
		v = math.Copysign(math.MaxFloat64, v)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// QuoteString renders s as a double-quoted CSS string.
func QuoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch {
		case r == 0:
			b.WriteRune(utf8.RuneError)
		case r == '"' || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&b, "\\%X ", r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// EscapeIdent serializes s as a CSS identifier.
func EscapeIdent(s string) string {
	if s == "-" {
		return `\-`
	}
	var b strings.Builder
	i := 0
	var first rune
	for _, r := range s {
		switch {
		case r == 0:
			b.WriteRune(utf8.RuneError)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&b, "\\%x ", r)
		case r >= '0' && r <= '9' && (i == 0 || (i == 1 && first == '-')):
			fmt.Fprintf(&b, "\\%x ", r)
		case r >= 0x80 || r == '-' || r == '_' ||
			(r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			b.WriteRune(r)
		default:
			b.WriteByte('\\')
			b.WriteRune(r)
		}
		if i == 0 {
			first = r
		}
		i++
	}
	return b.String()
}

// escapeUnit serializes a dimension suffix. Unlike an identifier it may
// not begin with 'e' followed by a digit, which would read back as an
// exponent.
func escapeUnit(unit string) string {
	out := EscapeIdent(unit)
	if len(out) > 1 && (out[0] == 'e' || out[0] == 'E') && (out[1] >= '0' && out[1] <= '9' || out[1] == '-' || out[1] == '+') {
		return fmt.Sprintf("\\%x ", out[0]) + out[1:]
	}
	return out
}
