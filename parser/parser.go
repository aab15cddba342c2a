// Package parser is a tolerant recursive-descent parser for CSS level 2
// and 3 style sheets.
//
// The parser never stops at the first error. Each failing construct is
// dropped at a bounded granularity (one declaration, one rule) and the
// problem is reported to the diag.Handler given to New:
//
//	c := diag.NewCollector()
//	p := parser.New(c, nil)
//	sheet := p.ParseStyleSheet("p { color: green; background }", "")
//	// sheet holds one rule with one property; c.ErrorCount() == 1
//
// A Parser holds no per-parse state and may be shared between goroutines.
// The objects it returns are not safe for concurrent mutation.
package parser

import (
	"strings"

	"bennypowers.dev/cssom/cssom"
	"bennypowers.dev/cssom/diag"
	"bennypowers.dev/cssom/media"
	"bennypowers.dev/cssom/scanner"
	"bennypowers.dev/cssom/selector"
	"bennypowers.dev/cssom/value"
	"go.uber.org/zap"
)

// DefaultMaxNestingDepth bounds nested blocks, functions and parentheses.
const DefaultMaxNestingDepth = 256

// Options configure a Parser.
type Options struct {
	// AllowStarHack accepts `*name: value` declarations, keeping the star
	// in the property name.
	AllowStarHack bool
	// MaxNestingDepth limits nesting; zero means DefaultMaxNestingDepth.
	MaxNestingDepth int
	// Logger receives debug output about recovery decisions.
	Logger *zap.Logger
}

// DefaultOptions returns the options used when New is given nil.
func DefaultOptions() Options {
	return Options{MaxNestingDepth: DefaultMaxNestingDepth}
}

// Parser parses CSS text into cssom, selector, media and value objects.
type Parser struct {
	handler diag.Handler
	opts    Options
	log     *zap.Logger
}

var _ cssom.TextParser = (*Parser)(nil)

// New returns a parser reporting to h. A nil h discards diagnostics and
// nil opts means DefaultOptions.
func New(h diag.Handler, opts *Options) *Parser {
	o := DefaultOptions()
	if opts != nil {
		o = *opts
	}
	if o.MaxNestingDepth <= 0 {
		o.MaxNestingDepth = DefaultMaxNestingDepth
	}
	if h == nil {
		h = diag.Discard{}
	}
	log := o.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{handler: h, opts: o, log: log.Named("css-parser")}
}

// ParseStyleSheet parses a whole style sheet. uri is only used for
// locators and Href.
func (p *Parser) ParseStyleSheet(src, uri string) *cssom.StyleSheet {
	s := p.newState(src, uri, p.handler)
	return s.styleSheet()
}

// ParseStyleDeclaration parses the body of a declaration block, without
// braces, as found in a style attribute.
func (p *Parser) ParseStyleDeclaration(src string) *cssom.StyleDeclaration {
	s := p.newState(src, "", p.handler)
	d := cssom.NewStyleDeclaration()
	d.SetParser(p)
	s.declarations(d, false)
	return d
}

// ParseSelectors parses a selector list. It returns nil when the list is
// malformed or empty.
func (p *Parser) ParseSelectors(src string) selector.List {
	s := p.newState(src, "", p.handler)
	s.skipWhitespace()
	list := s.selectorList()
	if list == nil {
		return nil
	}
	if !s.atEnd("selector list") {
		return nil
	}
	return list
}

// ParseRule parses exactly one rule. It returns nil when the text does
// not hold a single valid rule.
func (p *Parser) ParseRule(src string) cssom.Rule {
	s := p.newState(src, "", p.handler)
	s.skipWhitespace()
	r := s.rule(false)
	if r == nil {
		return nil
	}
	if !s.atEnd("rule") {
		return nil
	}
	bind(r, p)
	return r
}

// ParseKeyframe parses one keyframe block such as `50% { top: 0 }`.
func (p *Parser) ParseKeyframe(src string) *cssom.KeyframeRule {
	s := p.newState(src, "", p.handler)
	s.skipWhitespace()
	k := s.keyframe()
	if k == nil {
		return nil
	}
	if !s.atEnd("keyframe") {
		return nil
	}
	bind(k, p)
	return k
}

// ParseMedia parses a media query list. Malformed queries are reported
// and the result holds the queries that parsed.
func (p *Parser) ParseMedia(src string) *media.List {
	s := p.newState(src, "", p.handler)
	s.skipWhitespace()
	l, _ := s.mediaList(scanner.EOF)
	return l
}

// ParsePropertyValue parses a property value. It returns nil when the
// text is not a valid value.
func (p *Parser) ParsePropertyValue(src string) *value.Unit {
	s := p.newState(src, "", p.handler)
	s.skipWhitespace()
	v := s.expr(endOfValue)
	if v == nil {
		return nil
	}
	if !s.atEnd("expression") {
		return nil
	}
	return v
}

// ParsePriority reports whether src is "!important". Anything other than
// that or blank text is an error.
func (p *Parser) ParsePriority(src string) bool {
	t := strings.TrimSpace(src)
	if t == "" {
		return false
	}
	s := p.newState(src, "", p.handler)
	s.skipWhitespace()
	important, ok := s.priority()
	if !ok || !s.atEnd("priority") {
		return false
	}
	return important
}

// strict runs fn with a private collector and turns the first error event
// into a *cssom.SyntaxError.
func (p *Parser) strict(text string, fn func(q *Parser) bool) error {
	c := diag.NewCollector()
	q := &Parser{handler: c, opts: p.opts, log: p.log}
	ok := fn(q)
	if c.HasErrors() {
		return cssom.NewSyntaxError(text, c.FirstError())
	}
	if !ok {
		return cssom.NewSyntaxError(text, nil)
	}
	return nil
}

func (p *Parser) ParseRuleText(text string) (cssom.Rule, error) {
	var r cssom.Rule
	err := p.strict(text, func(q *Parser) bool {
		r = q.ParseRule(text)
		return r != nil
	})
	if err != nil {
		return nil, err
	}
	bind(r, p)
	return r, nil
}

func (p *Parser) ParseKeyframeText(text string) (*cssom.KeyframeRule, error) {
	var k *cssom.KeyframeRule
	err := p.strict(text, func(q *Parser) bool {
		k = q.ParseKeyframe(text)
		return k != nil
	})
	if err != nil {
		return nil, err
	}
	bind(k, p)
	return k, nil
}

func (p *Parser) ParseDeclarationText(text string) (*cssom.StyleDeclaration, error) {
	var d *cssom.StyleDeclaration
	err := p.strict(text, func(q *Parser) bool {
		d = q.ParseStyleDeclaration(text)
		return true
	})
	if err != nil {
		return nil, err
	}
	d.SetParser(p)
	return d, nil
}

func (p *Parser) ParseSelectorText(text string) (selector.List, error) {
	var l selector.List
	err := p.strict(text, func(q *Parser) bool {
		l = q.ParseSelectors(text)
		return l != nil
	})
	return l, err
}

func (p *Parser) ParseMediaText(text string) (*media.List, error) {
	var l *media.List
	err := p.strict(text, func(q *Parser) bool {
		l = q.ParseMedia(text)
		return true
	})
	return l, err
}

func (p *Parser) ParseValueText(text string) (*value.Unit, error) {
	var v *value.Unit
	err := p.strict(text, func(q *Parser) bool {
		v = q.ParsePropertyValue(text)
		return v != nil
	})
	return v, err
}

// binder is implemented by every rule through its embedded base.
type binder interface {
	SetParser(cssom.TextParser)
}

// bind attaches p to r, its declarations and nested rules, so mutations
// of a parsed tree can parse new text without the caller wiring a parser.
func bind(r cssom.Rule, p cssom.TextParser) {
	if b, ok := r.(binder); ok {
		b.SetParser(p)
	}
	switch r := r.(type) {
	case *cssom.StyleRule:
		r.Style.SetParser(p)
	case *cssom.PageRule:
		r.Style.SetParser(p)
	case *cssom.FontFaceRule:
		r.Style.SetParser(p)
	case *cssom.KeyframeRule:
		r.Style.SetParser(p)
	case *cssom.MediaRule:
		for _, nested := range r.CSSRules().Rules() {
			bind(nested, p)
		}
	case *cssom.KeyframesRule:
		for _, k := range r.Keyframes() {
			bind(k, p)
		}
	}
}
