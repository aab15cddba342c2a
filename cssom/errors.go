package cssom

import (
	"errors"
	"fmt"
)

// Sentinel errors for error type checking
var (
	// ErrIndexSize indicates an index outside the bounds of a list
	ErrIndexSize = errors.New("index out of bounds")

	// ErrHierarchyRequest indicates a rule that may not appear at the requested position
	ErrHierarchyRequest = errors.New("rule not allowed at this position")

	// ErrSyntax indicates text that could not be parsed for the requested construct
	ErrSyntax = errors.New("syntax error")

	// ErrInvalidModification indicates text of a different rule kind than the rule being replaced
	ErrInvalidModification = errors.New("invalid modification")

	// ErrNoParser indicates a mutation that needs to parse text on an object built without a parser
	ErrNoParser = errors.New("no parser available")
)

// IndexSizeError represents an out of range index
type IndexSizeError struct {
	Index  int
	Length int
}

func (e *IndexSizeError) Error() string {
	return fmt.Sprintf("index %d out of bounds for rule list of length %d", e.Index, e.Length)
}

func (e *IndexSizeError) Unwrap() error {
	return ErrIndexSize
}

// NewIndexSizeError creates a new index size error
func NewIndexSizeError(index, length int) error {
	return &IndexSizeError{Index: index, Length: length}
}

// HierarchyRequestError represents an insertion that breaks rule ordering
type HierarchyRequestError struct {
	Kind   RuleKind
	Index  int
	Reason string
}

func (e *HierarchyRequestError) Error() string {
	return fmt.Sprintf("cannot insert %s rule at index %d: %s", e.Kind, e.Index, e.Reason)
}

func (e *HierarchyRequestError) Unwrap() error {
	return ErrHierarchyRequest
}

// NewHierarchyRequestError creates a new hierarchy request error
func NewHierarchyRequestError(kind RuleKind, index int, reason string) error {
	return &HierarchyRequestError{Kind: kind, Index: index, Reason: reason}
}

// SyntaxError represents text rejected by the parser
type SyntaxError struct {
	Text  string
	Cause error
}

func (e *SyntaxError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("syntax error in %q", e.Text)
	}
	return fmt.Sprintf("syntax error in %q: %v", e.Text, e.Cause)
}

// Unwrap exposes ErrSyntax and, when known, the diagnostic that caused it.
func (e *SyntaxError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrSyntax}
	}
	return []error{ErrSyntax, e.Cause}
}

// NewSyntaxError creates a new syntax error
func NewSyntaxError(text string, cause error) error {
	return &SyntaxError{Text: text, Cause: cause}
}

// InvalidModificationError represents a setCssText with text of another rule kind
type InvalidModificationError struct {
	Want RuleKind
	Got  RuleKind
}

func (e *InvalidModificationError) Error() string {
	return fmt.Sprintf("cannot replace a %s rule with a %s rule", e.Want, e.Got)
}

func (e *InvalidModificationError) Unwrap() error {
	return ErrInvalidModification
}

// NewInvalidModificationError creates a new invalid modification error
func NewInvalidModificationError(want, got RuleKind) error {
	return &InvalidModificationError{Want: want, Got: got}
}
