package cssom

import (
	"strings"

	"bennypowers.dev/cssom/locator"
)

// RuleKind tags a Rule.
type RuleKind int

const (
	KindUnknown RuleKind = iota
	KindStyle
	KindCharset
	KindImport
	KindMedia
	KindFontFace
	KindPage
	KindKeyframes
	KindKeyframe
)

var ruleKindNames = [...]string{
	KindUnknown:   "unknown",
	KindStyle:     "style",
	KindCharset:   "@charset",
	KindImport:    "@import",
	KindMedia:     "@media",
	KindFontFace:  "@font-face",
	KindPage:      "@page",
	KindKeyframes: "@keyframes",
	KindKeyframe:  "keyframe",
}

func (k RuleKind) String() string {
	if int(k) < len(ruleKindNames) {
		return ruleKindNames[k]
	}
	return "invalid"
}

// Rule is one of *StyleRule, *MediaRule, *PageRule, *FontFaceRule,
// *ImportRule, *CharsetRule, *KeyframesRule, *KeyframeRule or
// *UnknownRule. The set is closed.
type Rule interface {
	Kind() RuleKind
	// CSSText renders the rule with DefaultFormat.
	CSSText() string
	// SetCSSText re-parses text as a rule of the same kind and replaces
	// the rule's content in place.
	SetCSSText(text string) error
	Locator() locator.Locator
	// ParentList is the rule list holding the rule, nil for keyframes and
	// detached rules.
	ParentList() *RuleList
	// ParentRule is the enclosing @media or @keyframes rule.
	ParentRule() Rule
	ParentStyleSheet() *StyleSheet

	base() *ruleBase
}

type ruleBase struct {
	list   *RuleList
	parent Rule
	loc    locator.Locator
	parser TextParser
}

func (b *ruleBase) base() *ruleBase { return b }

func (b *ruleBase) Locator() locator.Locator { return b.loc }

// SetLocator records where the rule was parsed.
func (b *ruleBase) SetLocator(l locator.Locator) { b.loc = l }

// SetParser binds the parser used by SetCSSText and nested mutations.
func (b *ruleBase) SetParser(p TextParser) { b.parser = p }

func (b *ruleBase) ParentList() *RuleList { return b.list }

func (b *ruleBase) ParentRule() Rule {
	if b.list != nil {
		return b.list.owner
	}
	return b.parent
}

func (b *ruleBase) ParentStyleSheet() *StyleSheet {
	if b.list != nil {
		if b.list.sheet != nil {
			return b.list.sheet
		}
		if b.list.owner != nil {
			return b.list.owner.ParentStyleSheet()
		}
	}
	if b.parent != nil {
		return b.parent.ParentStyleSheet()
	}
	return nil
}

func (b *ruleBase) textParser() TextParser {
	if b.parser != nil {
		return b.parser
	}
	if s := b.ParentStyleSheet(); s != nil {
		return s.parser
	}
	return nil
}

// Render serializes r with the given format.
func Render(r Rule, f Format) string {
	var b strings.Builder
	writeRule(&b, r, f, 0)
	return b.String()
}

// reparse parses text as a replacement for r.
func reparse(r Rule, text string) (Rule, error) {
	p := r.base().textParser()
	if p == nil {
		return nil, ErrNoParser
	}
	nr, err := p.ParseRuleText(text)
	if err != nil {
		return nil, err
	}
	if nr.Kind() != r.Kind() {
		return nil, NewInvalidModificationError(r.Kind(), nr.Kind())
	}
	return nr, nil
}
