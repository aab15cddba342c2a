package selector

import (
	"strings"

	"bennypowers.dev/cssom/locator"
	"bennypowers.dev/cssom/value"
)

// ConditionType tags a Condition.
type ConditionType int

const (
	ID ConditionType = iota
	Class
	Attribute
	PseudoClass
	PseudoElement
	Lang
	Nth
	Not
)

var conditionNames = [...]string{
	ID:            "ID_CONDITION",
	Class:         "CLASS_CONDITION",
	Attribute:     "ATTRIBUTE_CONDITION",
	PseudoClass:   "PSEUDO_CLASS_CONDITION",
	PseudoElement: "PSEUDO_ELEMENT_CONDITION",
	Lang:          "LANG_CONDITION",
	Nth:           "NTH_CONDITION",
	Not:           "NOT_PSEUDO_CLASS_CONDITION",
}

func (t ConditionType) String() string {
	if int(t) < len(conditionNames) {
		return conditionNames[t]
	}
	return "UNKNOWN_CONDITION"
}

// Match is the operator of an attribute condition.
type Match int

const (
	MatchExists    Match = iota // [a]
	MatchEquals                 // [a=v]
	MatchIncludes               // [a~=v]
	MatchDash                   // [a|=v]
	MatchPrefix                 // [a^=v]
	MatchSuffix                 // [a$=v]
	MatchSubstring              // [a*=v]
)

var matchOps = [...]string{
	MatchExists:    "",
	MatchEquals:    "=",
	MatchIncludes:  "~=",
	MatchDash:      "|=",
	MatchPrefix:    "^=",
	MatchSuffix:    "$=",
	MatchSubstring: "*=",
}

func (m Match) String() string {
	if int(m) < len(matchOps) {
		return matchOps[m]
	}
	return "?"
}

// CaseFlag is the case-sensitivity modifier of an attribute condition.
type CaseFlag int

const (
	CaseDefault CaseFlag = iota
	CaseInsensitive
	CaseSensitive
)

// Condition is one component of a compound selector.
//
// Name holds the id, class, attribute or pseudo name. Value holds the
// attribute value, the :lang() tag, the raw :nth-*() formula, or the raw
// argument of any other functional pseudo-class. Nth conditions also carry
// the parsed A and B coefficients.
type Condition struct {
	Type        ConditionType
	Name        string
	Value       string
	Match       Match
	Case        CaseFlag
	Function    bool
	DoubleColon bool
	A, B        int
	Selectors   []*ElementSelector
	Loc         locator.Locator
}

func (c *Condition) Locator() locator.Locator { return c.Loc }

func (c *Condition) String() string {
	switch c.Type {
	case ID:
		return "#" + escape(c.Name)
	case Class:
		return "." + escape(c.Name)
	case Attribute:
		var b strings.Builder
		b.WriteByte('[')
		b.WriteString(escape(c.Name))
		if c.Match != MatchExists {
			b.WriteString(c.Match.String())
			b.WriteString(value.QuoteString(c.Value))
			switch c.Case {
			case CaseInsensitive:
				b.WriteString(" i")
			case CaseSensitive:
				b.WriteString(" s")
			}
		}
		b.WriteByte(']')
		return b.String()
	case PseudoElement:
		prefix := ":"
		if c.DoubleColon {
			prefix = "::"
		}
		if c.Function {
			return prefix + escape(c.Name) + "(" + c.Value + ")"
		}
		return prefix + escape(c.Name)
	case Lang:
		return ":lang(" + escape(c.Value) + ")"
	case Nth:
		return ":" + c.Name + "(" + c.Value + ")"
	case Not:
		parts := make([]string, len(c.Selectors))
		for i, s := range c.Selectors {
			parts[i] = s.String()
		}
		return ":not(" + strings.Join(parts, ", ") + ")"
	default:
		if c.Function {
			return ":" + escape(c.Name) + "(" + c.Value + ")"
		}
		return ":" + escape(c.Name)
	}
}

func escape(s string) string {
	return value.EscapeIdent(s)
}
