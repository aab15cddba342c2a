package value

import (
	"math"

	"bennypowers.dev/cssom/locator"
)

// Unit is one node of a value chain.
type Unit struct {
	typ  Type
	num  float64
	str  string // ident, string, uri, range, attr name or function name
	unit string // suffix of a generic Dimension

	next   *Unit
	prev   *Unit
	params *Unit
	parent *Unit

	loc locator.Locator

	cached bool
	text   string
}

func (u *Unit) Type() Type { return u.typ }

// Next returns the following unit of the chain, or nil.
func (u *Unit) Next() *Unit { return u.next }

// Previous returns the preceding unit of the chain, or nil.
func (u *Unit) Previous() *Unit { return u.prev }

// Parameters returns the head of the parameter chain of a composite unit.
func (u *Unit) Parameters() *Unit { return u.params }

// Parent returns the composite unit whose parameter chain holds u.
func (u *Unit) Parent() *Unit { return u.parent }

func (u *Unit) Locator() locator.Locator { return u.loc }

func (u *Unit) SetLocator(l locator.Locator) { u.loc = l }

// DoubleValue returns the numeric payload.
func (u *Unit) DoubleValue() float64 { return u.num }

// IntegerValue returns the numeric payload truncated toward zero.
func (u *Unit) IntegerValue() int { return int(math.Trunc(u.num)) }

// StringValue returns the text payload of idents, strings, URIs, unicode
// ranges and attr() names.
func (u *Unit) StringValue() string {
	if u.typ.IsFunction() {
		return ""
	}
	return u.str
}

// FunctionName returns the name of a function unit.
func (u *Unit) FunctionName() string {
	if !u.typ.IsFunction() {
		return ""
	}
	return u.str
}

// DimensionUnitText returns the unit suffix of a numeric unit.
func (u *Unit) DimensionUnitText() string {
	if u.typ == Dimension {
		return u.unit
	}
	return unitTexts[u.typ]
}

func (u *Unit) invalidate() {
	for n := u; n != nil; n = n.parent {
		n.cached = false
	}
}

// SetDoubleValue replaces the numeric payload in place.
func (u *Unit) SetDoubleValue(v float64) {
	u.num = v
	if u.typ == Integer && v != math.Trunc(v) {
		u.typ = Real
	}
	u.invalidate()
}

// SetIntegerValue replaces the numeric payload with an integer.
func (u *Unit) SetIntegerValue(v int) {
	u.num = float64(v)
	if u.typ == Real {
		u.typ = Integer
	}
	u.invalidate()
}

// SetStringValue replaces the text payload in place.
func (u *Unit) SetStringValue(s string) {
	u.str = s
	u.invalidate()
}

// SetFunctionName renames a function unit.
func (u *Unit) SetFunctionName(name string) {
	if !u.typ.IsFunction() {
		return
	}
	u.str = name
	u.invalidate()
}

// SetParameters replaces the parameter chain of a composite unit.
func (u *Unit) SetParameters(head *Unit) {
	for n := u.params; n != nil; n = n.next {
		n.parent = nil
	}
	u.params = head
	for n := head; n != nil; n = n.next {
		n.parent = u
	}
	u.invalidate()
}

// SetNext relinks the chain after u. The previous tail is detached.
func (u *Unit) SetNext(next *Unit) {
	if u.next != nil {
		u.next.prev = nil
	}
	u.next = next
	if next != nil {
		if next.prev != nil {
			next.prev.next = nil
		}
		next.prev = u
		for n := next; n != nil; n = n.next {
			n.parent = u.parent
		}
	}
	if u.parent != nil {
		u.parent.invalidate()
	}
}

// Len counts the units of the chain starting at head.
func Len(head *Unit) int {
	n := 0
	for u := head; u != nil; u = u.next {
		n++
	}
	return n
}

// Last returns the final unit of the chain starting at head.
func Last(head *Unit) *Unit {
	if head == nil {
		return nil
	}
	u := head
	for u.next != nil {
		u = u.next
	}
	return u
}

// Contains reports whether any unit of the chain, parameters included,
// has one of the given types.
func Contains(head *Unit, types ...Type) bool {
	for u := head; u != nil; u = u.next {
		for _, t := range types {
			if u.typ == t {
				return true
			}
		}
		if Contains(u.params, types...) {
			return true
		}
	}
	return false
}
