package cssom

import (
	"strings"

	"bennypowers.dev/cssom/locator"
	"bennypowers.dev/cssom/value"
)

// Property is one declaration: `name: value !important`.
type Property struct {
	Name      string
	Value     *value.Unit
	Important bool
	Loc       locator.Locator
}

func (p *Property) String() string {
	return p.render(value.Options{})
}

func (p *Property) render(opts value.Options) string {
	var b strings.Builder
	name := p.Name
	if rest, ok := strings.CutPrefix(name, "*"); ok {
		b.WriteByte('*')
		name = rest
	}
	b.WriteString(value.EscapeIdent(name))
	b.WriteByte(':')
	if p.Value != nil {
		b.WriteByte(' ')
		b.WriteString(value.Render(p.Value, opts))
	}
	if p.Important {
		b.WriteString(" !important")
	}
	return b.String()
}

// StyleDeclaration is the ordered list of properties of a style, page,
// font-face or keyframe rule. Every assignment is kept: a name may appear
// more than once, and lookups return its last entry.
type StyleDeclaration struct {
	props      []*Property
	parentRule Rule
	parser     TextParser
}

func NewStyleDeclaration() *StyleDeclaration {
	return &StyleDeclaration{}
}

// SetParser binds the parser used by SetProperty and SetCSSText.
func (d *StyleDeclaration) SetParser(p TextParser) { d.parser = p }

func (d *StyleDeclaration) textParser() TextParser {
	if d.parser != nil {
		return d.parser
	}
	if d.parentRule != nil {
		return d.parentRule.base().textParser()
	}
	return nil
}

// ParentRule returns the owning rule, nil for a standalone declaration.
func (d *StyleDeclaration) ParentRule() Rule { return d.parentRule }

// AddProperty appends p.
func (d *StyleDeclaration) AddProperty(p *Property) {
	d.props = append(d.props, p)
}

// Properties returns every entry in order.
func (d *StyleDeclaration) Properties() []*Property {
	out := make([]*Property, len(d.props))
	copy(out, d.props)
	return out
}

// Len returns the number of entries.
func (d *StyleDeclaration) Len() int { return len(d.props) }

// Item returns the name of the i-th entry, or "".
func (d *StyleDeclaration) Item(i int) string {
	if i < 0 || i >= len(d.props) {
		return ""
	}
	return d.props[i].Name
}

// sameName compares property names ASCII case-insensitively, except custom
// properties which are case-sensitive.
func sameName(a, b string) bool {
	if strings.HasPrefix(a, "--") || strings.HasPrefix(b, "--") {
		return a == b
	}
	return strings.EqualFold(a, b)
}

func (d *StyleDeclaration) last(name string) int {
	for i := len(d.props) - 1; i >= 0; i-- {
		if sameName(d.props[i].Name, name) {
			return i
		}
	}
	return -1
}

// Property returns the last entry named name, or nil.
func (d *StyleDeclaration) Property(name string) *Property {
	if i := d.last(name); i >= 0 {
		return d.props[i]
	}
	return nil
}

// GetPropertyCSSValue returns the value of the last entry named name.
func (d *StyleDeclaration) GetPropertyCSSValue(name string) *value.Unit {
	if p := d.Property(name); p != nil {
		return p.Value
	}
	return nil
}

// GetPropertyValue renders the value of the last entry named name, or "".
func (d *StyleDeclaration) GetPropertyValue(name string) string {
	if p := d.Property(name); p != nil && p.Value != nil {
		return value.Text(p.Value)
	}
	return ""
}

// GetPropertyPriority returns "important" or "".
func (d *StyleDeclaration) GetPropertyPriority(name string) string {
	if p := d.Property(name); p != nil && p.Important {
		return "important"
	}
	return ""
}

// SetProperty parses text as a value. The last entry named name is
// updated in place; without one a new entry is appended. An empty value
// removes the property. priority is "important" or "".
func (d *StyleDeclaration) SetProperty(name, text, priority string) error {
	if strings.TrimSpace(text) == "" {
		d.RemoveProperty(name)
		return nil
	}
	var important bool
	switch strings.ToLower(strings.TrimSpace(priority)) {
	case "":
	case "important":
		important = true
	default:
		return NewSyntaxError(priority, nil)
	}
	p := d.textParser()
	if p == nil {
		return ErrNoParser
	}
	v, err := p.ParseValueText(text)
	if err != nil {
		return err
	}
	if existing := d.Property(name); existing != nil {
		existing.Value = v
		existing.Important = important
		return nil
	}
	if !strings.HasPrefix(name, "--") {
		name = strings.ToLower(name)
	}
	d.props = append(d.props, &Property{Name: name, Value: v, Important: important})
	return nil
}

// RemoveProperty removes every entry named name and returns the rendered
// value of the last one.
func (d *StyleDeclaration) RemoveProperty(name string) string {
	old := d.GetPropertyValue(name)
	kept := d.props[:0]
	for _, p := range d.props {
		if !sameName(p.Name, name) {
			kept = append(kept, p)
		}
	}
	for i := len(kept); i < len(d.props); i++ {
		d.props[i] = nil
	}
	d.props = kept
	return old
}

// CSSText renders the declarations joined by "; ".
func (d *StyleDeclaration) CSSText() string {
	return d.Render(DefaultFormat())
}

// Render renders the declarations joined by "; ".
func (d *StyleDeclaration) Render(f Format) string {
	parts := make([]string, len(d.props))
	for i, p := range d.props {
		parts[i] = p.render(f.values())
	}
	return strings.Join(parts, "; ")
}

func (d *StyleDeclaration) String() string { return d.CSSText() }

// SetCSSText replaces every entry with the declarations parsed from text.
func (d *StyleDeclaration) SetCSSText(text string) error {
	p := d.textParser()
	if p == nil {
		return ErrNoParser
	}
	n, err := p.ParseDeclarationText(text)
	if err != nil {
		return err
	}
	d.props = n.props
	return nil
}
