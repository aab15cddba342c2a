// Package selector models CSS selector lists.
package selector

import (
	"strings"

	"bennypowers.dev/cssom/locator"
)

// Type tags a Selector.
type Type int

const (
	// Element is a compound of an optional type name and conditions.
	Element Type = iota
	Descendant
	Child
	DirectAdjacent
	GeneralAdjacent
)

var typeNames = [...]string{
	Element:         "ELEMENT_NODE_SELECTOR",
	Descendant:      "DESCENDANT_SELECTOR",
	Child:           "CHILD_SELECTOR",
	DirectAdjacent:  "DIRECT_ADJACENT_SELECTOR",
	GeneralAdjacent: "GENERAL_ADJACENT_SELECTOR",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "UNKNOWN_SELECTOR"
}

// Selector is an ElementSelector or a CombinatorSelector.
type Selector interface {
	Type() Type
	String() string
	Locator() locator.Locator
	// Simple returns the rightmost compound of the selector.
	Simple() *ElementSelector
}

// ElementSelector is a compound selector: `a#id.class:hover`.
// An empty Name means no type selector was written.
type ElementSelector struct {
	Name       string
	Conditions []*Condition
	Loc        locator.Locator
}

func (s *ElementSelector) Type() Type { return Element }
func (s *ElementSelector) Locator() locator.Locator { return s.Loc }
func (s *ElementSelector) Simple() *ElementSelector { return s }

// ElementName returns the type selector, "*" for the universal selector,
// or "" when none was written.
func (s *ElementSelector) ElementName() string { return s.Name }

func (s *ElementSelector) String() string {
	var b strings.Builder
	if s.Name != "" && s.Name != "*" {
		b.WriteString(escape(s.Name))
	} else if s.Name == "*" || len(s.Conditions) == 0 {
		b.WriteByte('*')
	}
	for _, c := range s.Conditions {
		b.WriteString(c.String())
	}
	return b.String()
}

// CombinatorSelector joins a selector and the compound to its right.
type CombinatorSelector struct {
	Kind     Type
	Ancestor Selector
	Right    *ElementSelector
	Loc      locator.Locator
}

func (s *CombinatorSelector) Type() Type { return s.Kind }
func (s *CombinatorSelector) Locator() locator.Locator { return s.Loc }
func (s *CombinatorSelector) Simple() *ElementSelector { return s.Right }

func (s *CombinatorSelector) String() string {
	var sep string
	switch s.Kind {
	case Child:
		sep = " > "
	case DirectAdjacent:
		sep = " + "
	case GeneralAdjacent:
		sep = " ~ "
	default:
		sep = " "
	}
	return s.Ancestor.String() + sep + s.Right.String()
}

// List is a comma separated group of selectors. A nil List means the
// list failed to parse; a successfully parsed list is never empty.
type List []Selector

func (l List) String() string {
	parts := make([]string, len(l))
	for i, s := range l {
		parts[i] = s.String()
	}
	return strings.Join(parts, ", ")
}
