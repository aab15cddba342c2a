// Package cssom is the mutable object model of a parsed style sheet:
// style sheet, rule lists, rules, declarations and properties.
//
// Objects produced by the parser package carry a TextParser, so the
// mutation API (InsertRule, SetCSSText, SetProperty) parses new text in the
// grammar context of the object it changes. A failed mutation returns an
// error and leaves the object unchanged.
package cssom

import (
	"bennypowers.dev/cssom/media"
	"bennypowers.dev/cssom/selector"
	"bennypowers.dev/cssom/value"
)

// TextParser parses the fragments accepted by the mutation API. Any error
// diagnostic makes the parse fail.
type TextParser interface {
	ParseRuleText(text string) (Rule, error)
	ParseKeyframeText(text string) (*KeyframeRule, error)
	ParseDeclarationText(text string) (*StyleDeclaration, error)
	ParseSelectorText(text string) (selector.List, error)
	ParseMediaText(text string) (*media.List, error)
	ParseValueText(text string) (*value.Unit, error)
}

// Format controls serialization.
type Format struct {
	// Indent is written once per nesting level in multi-line output.
	Indent string
	// SingleLine keeps the rules nested in @media and @keyframes on the
	// line of their parent.
	SingleLine bool
	// PropertiesOnSeparateLines writes each declaration on its own line.
	PropertiesOnSeparateLines bool
	// RGBAsHex renders rgb() colors with integer channels as #rrggbb.
	RGBAsHex bool
}

// DefaultFormat is the canonical serialization.
func DefaultFormat() Format {
	return Format{Indent: "  "}
}

func (f Format) values() value.Options {
	return value.Options{RGBAsHex: f.RGBAsHex}
}
