package cssom

import (
	"strings"

	"bennypowers.dev/cssom/media"
	"bennypowers.dev/cssom/selector"
)

// StyleRule is `selectors { declarations }`.
type StyleRule struct {
	ruleBase
	Selectors selector.List
	Style     *StyleDeclaration
}

// NewStyleRule returns a style rule owning style.
func NewStyleRule(sel selector.List, style *StyleDeclaration) *StyleRule {
	r := &StyleRule{Selectors: sel}
	r.setStyle(style)
	return r
}

func (r *StyleRule) setStyle(style *StyleDeclaration) {
	if style == nil {
		style = NewStyleDeclaration()
	}
	style.parentRule = r
	r.Style = style
}

func (r *StyleRule) Kind() RuleKind  { return KindStyle }
func (r *StyleRule) CSSText() string { return Render(r, DefaultFormat()) }

// SelectorText renders the selector list.
func (r *StyleRule) SelectorText() string { return r.Selectors.String() }

// SetSelectorText replaces the selector list.
func (r *StyleRule) SetSelectorText(text string) error {
	p := r.textParser()
	if p == nil {
		return ErrNoParser
	}
	sel, err := p.ParseSelectorText(text)
	if err != nil {
		return err
	}
	r.Selectors = sel
	return nil
}

func (r *StyleRule) SetCSSText(text string) error {
	nr, err := reparse(r, text)
	if err != nil {
		return err
	}
	n := nr.(*StyleRule)
	r.Selectors = n.Selectors
	r.setStyle(n.Style)
	return nil
}

// MediaRule is `@media queries { rules }`.
type MediaRule struct {
	ruleBase
	Media *media.List
	rules *RuleList
}

// NewMediaRule returns an empty @media rule.
func NewMediaRule(m *media.List) *MediaRule {
	if m == nil {
		m = &media.List{}
	}
	r := &MediaRule{Media: m}
	r.rules = &RuleList{owner: r}
	return r
}

func (r *MediaRule) Kind() RuleKind  { return KindMedia }
func (r *MediaRule) CSSText() string { return Render(r, DefaultFormat()) }

// CSSRules returns the nested rule list.
func (r *MediaRule) CSSRules() *RuleList { return r.rules }

// AddRule appends a rule without ordering checks.
func (r *MediaRule) AddRule(rule Rule) { r.rules.Append(rule) }

// InsertRule parses text and inserts it at index.
func (r *MediaRule) InsertRule(text string, index int) (int, error) {
	return insertRule(r.rules, r.textParser(), text, index, false)
}

// DeleteRule removes the rule at index.
func (r *MediaRule) DeleteRule(index int) error {
	return r.rules.remove(index)
}

func (r *MediaRule) SetCSSText(text string) error {
	nr, err := reparse(r, text)
	if err != nil {
		return err
	}
	n := nr.(*MediaRule)
	r.Media = n.Media
	r.rules = n.rules
	r.rules.owner = r
	return nil
}

// PageRule is `@page selector { declarations }`.
type PageRule struct {
	ruleBase
	// Selector is the page selector text, such as ":first", or "".
	Selector string
	Style    *StyleDeclaration
}

func NewPageRule(sel string, style *StyleDeclaration) *PageRule {
	r := &PageRule{Selector: sel}
	r.setStyle(style)
	return r
}

func (r *PageRule) setStyle(style *StyleDeclaration) {
	if style == nil {
		style = NewStyleDeclaration()
	}
	style.parentRule = r
	r.Style = style
}

func (r *PageRule) Kind() RuleKind  { return KindPage }
func (r *PageRule) CSSText() string { return Render(r, DefaultFormat()) }

func (r *PageRule) SetCSSText(text string) error {
	nr, err := reparse(r, text)
	if err != nil {
		return err
	}
	n := nr.(*PageRule)
	r.Selector = n.Selector
	r.setStyle(n.Style)
	return nil
}

// FontFaceRule is `@font-face { declarations }`.
type FontFaceRule struct {
	ruleBase
	Style *StyleDeclaration
}

func NewFontFaceRule(style *StyleDeclaration) *FontFaceRule {
	r := &FontFaceRule{}
	r.setStyle(style)
	return r
}

func (r *FontFaceRule) setStyle(style *StyleDeclaration) {
	if style == nil {
		style = NewStyleDeclaration()
	}
	style.parentRule = r
	r.Style = style
}

func (r *FontFaceRule) Kind() RuleKind  { return KindFontFace }
func (r *FontFaceRule) CSSText() string { return Render(r, DefaultFormat()) }

func (r *FontFaceRule) SetCSSText(text string) error {
	nr, err := reparse(r, text)
	if err != nil {
		return err
	}
	r.setStyle(nr.(*FontFaceRule).Style)
	return nil
}

// ImportRule is `@import url media;`.
type ImportRule struct {
	ruleBase
	Href  string
	Media *media.List
}

func NewImportRule(href string, m *media.List) *ImportRule {
	if m == nil {
		m = &media.List{}
	}
	return &ImportRule{Href: href, Media: m}
}

func (r *ImportRule) Kind() RuleKind  { return KindImport }
func (r *ImportRule) CSSText() string { return Render(r, DefaultFormat()) }

func (r *ImportRule) SetCSSText(text string) error {
	nr, err := reparse(r, text)
	if err != nil {
		return err
	}
	n := nr.(*ImportRule)
	r.Href, r.Media = n.Href, n.Media
	return nil
}

// CharsetRule is `@charset "encoding";`.
type CharsetRule struct {
	ruleBase
	Encoding string
}

func NewCharsetRule(encoding string) *CharsetRule {
	return &CharsetRule{Encoding: encoding}
}

func (r *CharsetRule) Kind() RuleKind  { return KindCharset }
func (r *CharsetRule) CSSText() string { return Render(r, DefaultFormat()) }

func (r *CharsetRule) SetCSSText(text string) error {
	nr, err := reparse(r, text)
	if err != nil {
		return err
	}
	r.Encoding = nr.(*CharsetRule).Encoding
	return nil
}

// KeyframesRule is `@keyframes name { keyframes }`.
type KeyframesRule struct {
	ruleBase
	// AtKeyword is the at-keyword without '@', such as "keyframes" or
	// "-webkit-keyframes".
	AtKeyword string
	Name      string
	keyframes []*KeyframeRule
}

func NewKeyframesRule(atKeyword, name string) *KeyframesRule {
	if atKeyword == "" {
		atKeyword = "keyframes"
	}
	return &KeyframesRule{AtKeyword: atKeyword, Name: name}
}

func (r *KeyframesRule) Kind() RuleKind  { return KindKeyframes }
func (r *KeyframesRule) CSSText() string { return Render(r, DefaultFormat()) }

// Keyframes returns the keyframe blocks in order.
func (r *KeyframesRule) Keyframes() []*KeyframeRule {
	out := make([]*KeyframeRule, len(r.keyframes))
	copy(out, r.keyframes)
	return out
}

// Len returns the number of keyframe blocks.
func (r *KeyframesRule) Len() int { return len(r.keyframes) }

// AddKeyframe appends k.
func (r *KeyframesRule) AddKeyframe(k *KeyframeRule) {
	k.parent = r
	r.keyframes = append(r.keyframes, k)
}

// AppendRule parses text as a keyframe block and appends it.
func (r *KeyframesRule) AppendRule(text string) error {
	p := r.textParser()
	if p == nil {
		return ErrNoParser
	}
	k, err := p.ParseKeyframeText(text)
	if err != nil {
		return err
	}
	r.AddKeyframe(k)
	return nil
}

// FindRule returns the last keyframe whose key list equals key.
func (r *KeyframesRule) FindRule(key string) *KeyframeRule {
	i := r.find(key)
	if i < 0 {
		return nil
	}
	return r.keyframes[i]
}

// DeleteRule removes the last keyframe whose key list equals key.
func (r *KeyframesRule) DeleteRule(key string) {
	if i := r.find(key); i >= 0 {
		r.keyframes[i].parent = nil
		r.keyframes = append(r.keyframes[:i], r.keyframes[i+1:]...)
	}
}

func (r *KeyframesRule) find(key string) int {
	want := normalizeKey(key)
	for i := len(r.keyframes) - 1; i >= 0; i-- {
		if normalizeKey(r.keyframes[i].KeyText) == want {
			return i
		}
	}
	return -1
}

func normalizeKey(key string) string {
	parts := strings.Split(key, ",")
	for i, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		switch p {
		case "from":
			p = "0%"
		case "to":
			p = "100%"
		}
		parts[i] = p
	}
	return strings.Join(parts, ",")
}

func (r *KeyframesRule) SetCSSText(text string) error {
	nr, err := reparse(r, text)
	if err != nil {
		return err
	}
	n := nr.(*KeyframesRule)
	r.AtKeyword, r.Name = n.AtKeyword, n.Name
	r.keyframes = nil
	for _, k := range n.keyframes {
		r.AddKeyframe(k)
	}
	return nil
}

// KeyframeRule is one `keys { declarations }` block of a @keyframes rule.
type KeyframeRule struct {
	ruleBase
	KeyText string
	Style   *StyleDeclaration
}

func NewKeyframeRule(keyText string, style *StyleDeclaration) *KeyframeRule {
	r := &KeyframeRule{KeyText: keyText}
	r.setStyle(style)
	return r
}

func (r *KeyframeRule) setStyle(style *StyleDeclaration) {
	if style == nil {
		style = NewStyleDeclaration()
	}
	style.parentRule = r
	r.Style = style
}

func (r *KeyframeRule) Kind() RuleKind  { return KindKeyframe }
func (r *KeyframeRule) CSSText() string { return Render(r, DefaultFormat()) }

func (r *KeyframeRule) SetCSSText(text string) error {
	p := r.textParser()
	if p == nil {
		return ErrNoParser
	}
	n, err := p.ParseKeyframeText(text)
	if err != nil {
		return err
	}
	r.KeyText = n.KeyText
	r.setStyle(n.Style)
	return nil
}

// UnknownRule is an at-rule this package does not model, kept verbatim.
type UnknownRule struct {
	ruleBase
	Text string
}

func NewUnknownRule(text string) *UnknownRule {
	return &UnknownRule{Text: text}
}

func (r *UnknownRule) Kind() RuleKind  { return KindUnknown }
func (r *UnknownRule) CSSText() string { return r.Text }

func (r *UnknownRule) SetCSSText(text string) error {
	nr, err := reparse(r, text)
	if err != nil {
		return err
	}
	r.Text = nr.(*UnknownRule).Text
	return nil
}
