// Package locator holds source positions attached to parsed CSS constructs.
package locator

import "fmt"

// Locator is an immutable position in a source. Line and Column are
// 1-based; Column counts code points.
type Locator struct {
	URI    string
	Line   int
	Column int
}

// New returns a Locator for the given source position.
func New(uri string, line, column int) Locator {
	return Locator{URI: uri, Line: line, Column: column}
}

// IsZero reports whether the locator carries no position.
func (l Locator) IsZero() bool {
	return l.Line == 0 && l.Column == 0
}

// String renders "uri:line:col", or "line:col" when there is no URI.
func (l Locator) String() string {
	if l.URI == "" {
		return fmt.Sprintf("%d:%d", l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d:%d", l.URI, l.Line, l.Column)
}
