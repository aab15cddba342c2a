package selector_test

import (
	"testing"

	"bennypowers.dev/cssom/selector"
	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	a := &selector.ElementSelector{
		Name: "a",
		Conditions: []*selector.Condition{
			{Type: selector.ID, Name: "id"},
			{Type: selector.Class, Name: "class"},
			{Type: selector.PseudoClass, Name: "link"},
		},
	}
	assert.Equal(t, "a#id.class:link", a.String())
	assert.Equal(t, selector.Element, a.Type())
	assert.Same(t, a, a.Simple())

	universal := &selector.ElementSelector{Name: "*"}
	assert.Equal(t, "*", universal.String())

	classOnly := &selector.ElementSelector{Conditions: []*selector.Condition{{Type: selector.Class, Name: "x"}}}
	assert.Equal(t, ".x", classOnly.String())

	tests := []struct {
		kind selector.Type
		want string
	}{
		{selector.Descendant, "div a#id.class:link"},
		{selector.Child, "div > a#id.class:link"},
		{selector.DirectAdjacent, "div + a#id.class:link"},
		{selector.GeneralAdjacent, "div ~ a#id.class:link"},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			s := &selector.CombinatorSelector{Kind: tt.kind, Ancestor: &selector.ElementSelector{Name: "div"}, Right: a}
			assert.Equal(t, tt.want, s.String())
			assert.Equal(t, tt.kind, s.Type())
			assert.Same(t, a, s.Simple())
		})
	}

	list := selector.List{universal, classOnly}
	assert.Equal(t, "*, .x", list.String())
}

func TestConditionRender(t *testing.T) {
	tests := []struct {
		name string
		cond selector.Condition
		want string
	}{
		{"exists", selector.Condition{Type: selector.Attribute, Name: "href"}, "[href]"},
		{"equals", selector.Condition{Type: selector.Attribute, Name: "type", Match: selector.MatchEquals, Value: "text"}, `[type="text"]`},
		{"includes", selector.Condition{Type: selector.Attribute, Name: "rel", Match: selector.MatchIncludes, Value: "x"}, `[rel~="x"]`},
		{"dash", selector.Condition{Type: selector.Attribute, Name: "lang", Match: selector.MatchDash, Value: "en"}, `[lang|="en"]`},
		{"prefix", selector.Condition{Type: selector.Attribute, Name: "a", Match: selector.MatchPrefix, Value: "b"}, `[a^="b"]`},
		{"suffix", selector.Condition{Type: selector.Attribute, Name: "a", Match: selector.MatchSuffix, Value: "b"}, `[a$="b"]`},
		{"substring insensitive", selector.Condition{Type: selector.Attribute, Name: "a", Match: selector.MatchSubstring, Value: "b", Case: selector.CaseInsensitive}, `[a*="b" i]`},
		{"sensitive", selector.Condition{Type: selector.Attribute, Name: "a", Match: selector.MatchEquals, Value: "b", Case: selector.CaseSensitive}, `[a="b" s]`},
		{"pseudo element", selector.Condition{Type: selector.PseudoElement, Name: "before", DoubleColon: true}, "::before"},
		{"legacy pseudo element", selector.Condition{Type: selector.PseudoElement, Name: "after"}, ":after"},
		{"functional pseudo class", selector.Condition{Type: selector.PseudoClass, Name: "dir", Function: true, Value: "ltr"}, ":dir(ltr)"},
		{"lang", selector.Condition{Type: selector.Lang, Name: "lang", Value: "en"}, ":lang(en)"},
		{"nth", selector.Condition{Type: selector.Nth, Name: "nth-child", Value: "2n + 1"}, ":nth-child(2n + 1)"},
		{"escaped class", selector.Condition{Type: selector.Class, Name: "1col"}, `.\31 col`},
		{"not", selector.Condition{Type: selector.Not, Name: "not", Selectors: []*selector.ElementSelector{
			{Conditions: []*selector.Condition{{Type: selector.Class, Name: "a"}}},
			{Name: "p"},
		}}, ":not(.a, p)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cond.String())
		})
	}
}
