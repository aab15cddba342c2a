package cssom

import (
	"strings"

	"bennypowers.dev/cssom/value"
)

func indent(b *strings.Builder, f Format, depth int) {
	for i := 0; i < depth; i++ {
		b.WriteString(f.Indent)
	}
}

func writeRule(b *strings.Builder, r Rule, f Format, depth int) {
	switch r := r.(type) {
	case *StyleRule:
		b.WriteString(r.Selectors.String())
		b.WriteByte(' ')
		writeBlock(b, r.Style, f, depth)
	case *MediaRule:
		b.WriteString("@media ")
		if r.Media.Len() > 0 {
			b.WriteString(r.Media.String())
			b.WriteByte(' ')
		}
		writeNested(b, r.rules.rules, f, depth)
	case *PageRule:
		b.WriteString("@page ")
		if r.Selector != "" {
			b.WriteString(r.Selector)
			b.WriteByte(' ')
		}
		writeBlock(b, r.Style, f, depth)
	case *FontFaceRule:
		b.WriteString("@font-face ")
		writeBlock(b, r.Style, f, depth)
	case *ImportRule:
		b.WriteString("@import url(")
		b.WriteString(value.QuoteString(r.Href))
		b.WriteByte(')')
		if r.Media.Len() > 0 {
			b.WriteByte(' ')
			b.WriteString(r.Media.String())
		}
		b.WriteByte(';')
	case *CharsetRule:
		b.WriteString("@charset ")
		b.WriteString(value.QuoteString(r.Encoding))
		b.WriteByte(';')
	case *KeyframesRule:
		b.WriteByte('@')
		b.WriteString(r.AtKeyword)
		b.WriteByte(' ')
		b.WriteString(value.EscapeIdent(r.Name))
		b.WriteByte(' ')
		nested := make([]Rule, len(r.keyframes))
		for i, k := range r.keyframes {
			nested[i] = k
		}
		writeNested(b, nested, f, depth)
	case *KeyframeRule:
		b.WriteString(r.KeyText)
		b.WriteByte(' ')
		writeBlock(b, r.Style, f, depth)
	case *UnknownRule:
		b.WriteString(r.Text)
	}
}

func writeBlock(b *strings.Builder, d *StyleDeclaration, f Format, depth int) {
	if d.Len() == 0 {
		b.WriteString("{ }")
		return
	}
	if f.PropertiesOnSeparateLines && !f.SingleLine {
		b.WriteString("{\n")
		for _, p := range d.props {
			indent(b, f, depth+1)
			b.WriteString(p.render(f.values()))
			b.WriteString(";\n")
		}
		indent(b, f, depth)
		b.WriteByte('}')
		return
	}
	b.WriteString("{ ")
	b.WriteString(d.Render(f))
	b.WriteString(" }")
}

func writeNested(b *strings.Builder, rules []Rule, f Format, depth int) {
	if f.SingleLine {
		b.WriteByte('{')
		for _, r := range rules {
			b.WriteByte(' ')
			writeRule(b, r, f, depth+1)
		}
		b.WriteString(" }")
		return
	}
	b.WriteString("{\n")
	for _, r := range rules {
		indent(b, f, depth+1)
		writeRule(b, r, f, depth+1)
		b.WriteByte('\n')
	}
	indent(b, f, depth)
	b.WriteByte('}')
}
