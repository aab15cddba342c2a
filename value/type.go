// Package value implements the lexical unit chain that represents CSS
// property values.
//
// A value is a singly linked chain of Units. Composite units such as
// functions own a second, separate chain of parameters; the Next and
// Parameters axes never overlap.
package value

import (
	"fmt"
	"strings"
)

// Type tags a Unit.
type Type int

const (
	OperatorComma Type = iota
	OperatorSlash
	OperatorPlus
	OperatorMinus
	OperatorMultiply
	OperatorGT

	Integer
	Real
	Percentage

	Pixel
	Centimeter
	Millimeter
	Inch
	Point
	Pica
	Quarter
	Em
	Rem
	Ex
	Ch
	Vw
	Vh
	Vmin
	Vmax

	Degree
	Radian
	Gradian
	Turn

	Millisecond
	Second

	Hertz
	Kilohertz

	Dpi
	Dpcm
	Dppx

	// Dimension is a number with a unit this package does not know.
	Dimension

	Ident
	Inherit
	StringValue
	URI
	UnicodeRange

	Function
	Calc
	RGBColor
	HSLColor
	Counter
	Counters
	Rect
	Attr
	Var
)

var typeNames = map[Type]string{
	OperatorComma:    "OPERATOR_COMMA",
	OperatorSlash:    "OPERATOR_SLASH",
	OperatorPlus:     "OPERATOR_PLUS",
	OperatorMinus:    "OPERATOR_MINUS",
	OperatorMultiply: "OPERATOR_MULTIPLY",
	OperatorGT:       "OPERATOR_GT",
	Integer:          "INTEGER",
	Real:             "REAL",
	Percentage:       "PERCENTAGE",
	Pixel:            "PIXEL",
	Centimeter:       "CENTIMETER",
	Millimeter:       "MILLIMETER",
	Inch:             "INCH",
	Point:            "POINT",
	Pica:             "PICA",
	Quarter:          "QUARTER",
	Em:               "EM",
	Rem:              "REM",
	Ex:               "EX",
	Ch:               "CH",
	Vw:               "VW",
	Vh:               "VH",
	Vmin:             "VMIN",
	Vmax:             "VMAX",
	Degree:           "DEGREE",
	Radian:           "RADIAN",
	Gradian:          "GRADIAN",
	Turn:             "TURN",
	Millisecond:      "MILLISECOND",
	Second:           "SECOND",
	Hertz:            "HERTZ",
	Kilohertz:        "KILOHERTZ",
	Dpi:              "DPI",
	Dpcm:             "DPCM",
	Dppx:             "DPPX",
	Dimension:        "DIMENSION",
	Ident:            "IDENT",
	Inherit:          "INHERIT",
	StringValue:      "STRING_VALUE",
	URI:              "URI",
	UnicodeRange:     "UNICODE_RANGE",
	Function:         "FUNCTION",
	Calc:             "FUNCTION_CALC",
	RGBColor:         "RGBCOLOR",
	HSLColor:         "HSLCOLOR",
	Counter:          "COUNTER_FUNCTION",
	Counters:         "COUNTERS_FUNCTION",
	Rect:             "RECT_FUNCTION",
	Attr:             "ATTR",
	Var:              "VAR",
}

func (t Type) String() string {
	if n, ok := typeNames[t]; ok {
		return n
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// IsOperator reports whether t separates or combines other units.
func (t Type) IsOperator() bool {
	return t >= OperatorComma && t <= OperatorGT
}

// IsNumeric reports whether t carries a number.
func (t Type) IsNumeric() bool {
	return t >= Integer && t <= Dimension
}

// IsFunction reports whether t carries a parameter chain.
func (t Type) IsFunction() bool {
	return t >= Function && t <= Var && t != Attr
}

// unit suffixes keyed by their lower-case spelling
var unitTypes = map[string]Type{
	"px":   Pixel,
	"cm":   Centimeter,
	"mm":   Millimeter,
	"in":   Inch,
	"pt":   Point,
	"pc":   Pica,
	"q":    Quarter,
	"em":   Em,
	"rem":  Rem,
	"ex":   Ex,
	"ch":   Ch,
	"vw":   Vw,
	"vh":   Vh,
	"vmin": Vmin,
	"vmax": Vmax,
	"deg":  Degree,
	"rad":  Radian,
	"grad": Gradian,
	"turn": Turn,
	"ms":   Millisecond,
	"s":    Second,
	"hz":   Hertz,
	"khz":  Kilohertz,
	"dpi":  Dpi,
	"dpcm": Dpcm,
	"dppx": Dppx,
}

var unitTexts = map[Type]string{
	Percentage:  "%",
	Pixel:       "px",
	Centimeter:  "cm",
	Millimeter:  "mm",
	Inch:        "in",
	Point:       "pt",
	Pica:        "pc",
	Quarter:     "Q",
	Em:          "em",
	Rem:         "rem",
	Ex:          "ex",
	Ch:          "ch",
	Vw:          "vw",
	Vh:          "vh",
	Vmin:        "vmin",
	Vmax:        "vmax",
	Degree:      "deg",
	Radian:      "rad",
	Gradian:     "grad",
	Turn:        "turn",
	Millisecond: "ms",
	Second:      "s",
	Hertz:       "Hz",
	Kilohertz:   "kHz",
	Dpi:         "dpi",
	Dpcm:        "dpcm",
	Dppx:        "dppx",
}

// UnitType classifies a dimension suffix. Unknown suffixes are Dimension.
func UnitType(unit string) Type {
	if t, ok := unitTypes[strings.ToLower(unit)]; ok {
		return t
	}
	return Dimension
}
