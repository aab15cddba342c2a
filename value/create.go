package value

import "strings"

func link(prev, u *Unit) *Unit {
	if prev != nil {
		prev.next = u
		u.prev = prev
		u.parent = prev.parent
		if prev.parent != nil {
			prev.parent.invalidate()
		}
	}
	return u
}

func newFunction(prev *Unit, t Type, name string, params *Unit) *Unit {
	u := link(prev, &Unit{typ: t, str: name})
	u.SetParameters(params)
	return u
}

// NewOperator appends an operator unit. t must be an operator type.
func NewOperator(prev *Unit, t Type) *Unit {
	return link(prev, &Unit{typ: t})
}

func NewComma(prev *Unit) *Unit { return NewOperator(prev, OperatorComma) }

func NewSlash(prev *Unit) *Unit { return NewOperator(prev, OperatorSlash) }

func NewInteger(prev *Unit, v int) *Unit {
	return link(prev, &Unit{typ: Integer, num: float64(v)})
}

func NewReal(prev *Unit, v float64) *Unit {
	return link(prev, &Unit{typ: Real, num: v})
}

// NewNumber appends an Integer or Real unit.
func NewNumber(prev *Unit, v float64, integer bool) *Unit {
	if integer {
		return link(prev, &Unit{typ: Integer, num: v})
	}
	return NewReal(prev, v)
}

func NewPercentage(prev *Unit, v float64) *Unit {
	return link(prev, &Unit{typ: Percentage, num: v})
}

// NewDimension appends a numeric unit classified by its suffix.
func NewDimension(prev *Unit, v float64, unit string) *Unit {
	u := &Unit{typ: UnitType(unit), num: v}
	if u.typ == Dimension {
		u.unit = unit
	}
	return link(prev, u)
}

// NewIdent appends an identifier. "inherit" becomes an Inherit unit.
func NewIdent(prev *Unit, name string) *Unit {
	if strings.EqualFold(name, "inherit") {
		return link(prev, &Unit{typ: Inherit, str: "inherit"})
	}
	return link(prev, &Unit{typ: Ident, str: name})
}

func NewString(prev *Unit, s string) *Unit {
	return link(prev, &Unit{typ: StringValue, str: s})
}

func NewURI(prev *Unit, uri string) *Unit {
	return link(prev, &Unit{typ: URI, str: uri})
}

func NewUnicodeRange(prev *Unit, r string) *Unit {
	return link(prev, &Unit{typ: UnicodeRange, str: r})
}

// NewFunction appends a generic function. An empty name denotes a
// parenthesized group.
func NewFunction(prev *Unit, name string, params *Unit) *Unit {
	return newFunction(prev, Function, name, params)
}

func NewCalc(prev *Unit, params *Unit) *Unit {
	return newFunction(prev, Calc, "calc", params)
}

// NewRGBColor appends an rgb() or rgba() unit.
func NewRGBColor(prev *Unit, name string, params *Unit) *Unit {
	return newFunction(prev, RGBColor, name, params)
}

// NewHSLColor appends an hsl() or hsla() unit.
func NewHSLColor(prev *Unit, name string, params *Unit) *Unit {
	return newFunction(prev, HSLColor, name, params)
}

func NewCounter(prev *Unit, params *Unit) *Unit {
	return newFunction(prev, Counter, "counter", params)
}

func NewCounters(prev *Unit, params *Unit) *Unit {
	return newFunction(prev, Counters, "counters", params)
}

func NewRect(prev *Unit, params *Unit) *Unit {
	return newFunction(prev, Rect, "rect", params)
}

// NewVar appends var(); params hold the custom property name, then an
// optional comma and fallback chain.
func NewVar(prev *Unit, params *Unit) *Unit {
	return newFunction(prev, Var, "var", params)
}

func NewAttr(prev *Unit, name string) *Unit {
	return link(prev, &Unit{typ: Attr, str: name})
}
