// Package media models media query lists used by @media and @import.
package media

import (
	"strings"

	"bennypowers.dev/cssom/locator"
	"bennypowers.dev/cssom/value"
)

// Feature is a parenthesized media feature: (color), (min-width: 10em)
// or (width >= 600px).
type Feature struct {
	Name string
	// Op is ":" for the classic form, a comparison for the range form, or
	// "" for a boolean feature.
	Op    string
	Value *value.Unit
}

func (f *Feature) String() string {
	name := value.EscapeIdent(f.Name)
	switch {
	case f.Op == "" || f.Value == nil:
		return "(" + name + ")"
	case f.Op == ":":
		return "(" + name + ": " + value.Text(f.Value) + ")"
	default:
		return "(" + name + " " + f.Op + " " + value.Text(f.Value) + ")"
	}
}

// Query is one comma separated entry of a list.
type Query struct {
	Not      bool
	Only     bool
	Type     string
	Features []*Feature
	Loc      locator.Locator
}

func (q *Query) String() string {
	var parts []string
	switch {
	case q.Not:
		parts = append(parts, "not")
	case q.Only:
		parts = append(parts, "only")
	}
	if q.Type != "" {
		parts = append(parts, value.EscapeIdent(q.Type))
	}
	for i, f := range q.Features {
		if i > 0 || q.Type != "" {
			parts = append(parts, "and")
		}
		parts = append(parts, f.String())
	}
	return strings.Join(parts, " ")
}

// List is a media query list. An empty list matches all media.
type List struct {
	Queries []*Query
}

// Len returns the number of queries.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Queries)
}

// Item returns the text of the i-th query, or "" when out of range.
func (l *List) Item(i int) string {
	if i < 0 || i >= l.Len() {
		return ""
	}
	return l.Queries[i].String()
}

func (l *List) String() string {
	if l == nil {
		return ""
	}
	parts := make([]string, len(l.Queries))
	for i, q := range l.Queries {
		parts[i] = q.String()
	}
	return strings.Join(parts, ", ")
}
