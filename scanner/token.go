// Package scanner converts CSS source text into classified tokens following
// the tokenization rules of CSS Syntax Level 3.
package scanner

import (
	"fmt"

	"bennypowers.dev/cssom/locator"
)

// Kind classifies a Token.
type Kind int

const (
	EOF Kind = iota
	Ident
	Function
	AtKeyword
	Hash
	String
	BadString
	URL
	BadURL
	Delim
	Number
	Percentage
	Dimension
	UnicodeRange
	IncludeMatch   // ~=
	DashMatch      // |=
	PrefixMatch    // ^=
	SuffixMatch    // $=
	SubstringMatch // *=
	Column         // ||
	Whitespace
	Comment
	CDO
	CDC
	Colon
	Semicolon
	Comma
	LeftBracket
	RightBracket
	LeftParen
	RightParen
	LeftBrace
	RightBrace
)

var kindNames = [...]string{
	EOF:            "EOF",
	Ident:          "IDENT",
	Function:       "FUNCTION",
	AtKeyword:      "AT-KEYWORD",
	Hash:           "HASH",
	String:         "STRING",
	BadString:      "BAD-STRING",
	URL:            "URL",
	BadURL:         "BAD-URL",
	Delim:          "DELIM",
	Number:         "NUMBER",
	Percentage:     "PERCENTAGE",
	Dimension:      "DIMENSION",
	UnicodeRange:   "UNICODE-RANGE",
	IncludeMatch:   "INCLUDE-MATCH",
	DashMatch:      "DASH-MATCH",
	PrefixMatch:    "PREFIX-MATCH",
	SuffixMatch:    "SUFFIX-MATCH",
	SubstringMatch: "SUBSTRING-MATCH",
	Column:         "COLUMN",
	Whitespace:     "WHITESPACE",
	Comment:        "COMMENT",
	CDO:            "CDO",
	CDC:            "CDC",
	Colon:          "COLON",
	Semicolon:      "SEMICOLON",
	Comma:          "COMMA",
	LeftBracket:    "[",
	RightBracket:   "]",
	LeftParen:      "(",
	RightParen:     ")",
	LeftBrace:      "{",
	RightBrace:     "}",
}

func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Token is one lexical token.
//
// Value holds the unescaped payload: the name of an ident, function
// (without the parenthesis), at-keyword (without '@') or hash (without '#'),
// the contents of a string or url, the delimiter character, or the numeric
// representation. Raw is the exact source text.
type Token struct {
	Kind  Kind
	Value string
	Raw   string

	Number  float64
	Integer bool
	Unit    string

	// IDHash is set for hashes whose name would be a valid identifier.
	IDHash bool
	// Unterminated is set for strings, urls and comments cut off by the
	// end of input.
	Unterminated bool

	// Offset and End are code point offsets into the preprocessed source.
	Offset int
	End    int
	Loc    locator.Locator
}

// IsDelim reports whether t is a delimiter token for r.
func (t Token) IsDelim(r rune) bool {
	return t.Kind == Delim && t.Value == string(r)
}

func (t Token) String() string {
	if t.Kind == EOF {
		return "EOF"
	}
	return fmt.Sprintf("%s(%q)", t.Kind, t.Raw)
}
