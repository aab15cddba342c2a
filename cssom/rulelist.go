package cssom

// RuleList is an ordered list of rules owned by a style sheet or an
// @media rule.
type RuleList struct {
	rules []Rule
	sheet *StyleSheet
	owner Rule
}

// Len returns the number of rules.
func (l *RuleList) Len() int {
	if l == nil {
		return 0
	}
	return len(l.rules)
}

// Item returns the rule at index i, or nil when out of range.
func (l *RuleList) Item(i int) Rule {
	if i < 0 || i >= l.Len() {
		return nil
	}
	return l.rules[i]
}

// Rules returns a copy of the rules in order.
func (l *RuleList) Rules() []Rule {
	out := make([]Rule, l.Len())
	if l != nil {
		copy(out, l.rules)
	}
	return out
}

// Index returns the position of r in the list, or -1.
func (l *RuleList) Index(r Rule) int {
	for i, x := range l.rules {
		if x == r {
			return i
		}
	}
	return -1
}

// Append adds r at the end without ordering checks.
func (l *RuleList) Append(r Rule) {
	l.adopt(r)
	l.rules = append(l.rules, r)
}

func (l *RuleList) adopt(r Rule) {
	b := r.base()
	b.list = l
	b.parent = nil
}

func (l *RuleList) insert(i int, r Rule) {
	l.adopt(r)
	l.rules = append(l.rules, nil)
	copy(l.rules[i+1:], l.rules[i:])
	l.rules[i] = r
}

func (l *RuleList) remove(i int) error {
	if i < 0 || i >= l.Len() {
		return NewIndexSizeError(i, l.Len())
	}
	l.rules[i].base().list = nil
	l.rules = append(l.rules[:i], l.rules[i+1:]...)
	return nil
}

func isPrelude(k RuleKind) bool {
	return k == KindCharset || k == KindImport
}

// checkInsert validates placing a rule of kind k at index. Rules at or
// after the insertion point must be allowed to follow it, and rules before
// it must be allowed to precede it.
func (l *RuleList) checkInsert(k RuleKind, index int, top bool) error {
	n := l.Len()
	if index < 0 || index > n {
		return NewIndexSizeError(index, n)
	}
	switch k {
	case KindKeyframe:
		return NewHierarchyRequestError(k, index, "keyframes may only appear inside @keyframes")
	case KindCharset:
		if !top {
			return NewHierarchyRequestError(k, index, "@charset is only allowed at the top level")
		}
		if index != 0 {
			return NewHierarchyRequestError(k, index, "@charset must be the first rule")
		}
		if n > 0 && l.rules[0].Kind() == KindCharset {
			return NewHierarchyRequestError(k, index, "a @charset rule already exists")
		}
	case KindImport:
		if !top {
			return NewHierarchyRequestError(k, index, "@import is only allowed at the top level")
		}
		if index > 0 && !isPrelude(l.rules[index-1].Kind()) {
			return NewHierarchyRequestError(k, index, "@import must precede all rules except @charset")
		}
		if index < n && l.rules[index].Kind() != KindImport {
			return NewHierarchyRequestError(k, index, "@import must precede all rules except @charset")
		}
	default:
		if index < n && isPrelude(l.rules[index].Kind()) {
			return NewHierarchyRequestError(k, index, "rules may not precede @charset or @import")
		}
	}
	return nil
}

func insertRule(l *RuleList, p TextParser, text string, index int, top bool) (int, error) {
	if index < 0 || index > l.Len() {
		return 0, NewIndexSizeError(index, l.Len())
	}
	if p == nil {
		return 0, ErrNoParser
	}
	r, err := p.ParseRuleText(text)
	if err != nil {
		return 0, err
	}
	if err := l.checkInsert(r.Kind(), index, top); err != nil {
		return 0, err
	}
	l.insert(index, r)
	return index, nil
}
