// Package collections holds small generic containers.
package collections

import (
	"fmt"
	"strings"
)

// Set is a map with zero-size values.
type Set[T comparable] map[T]struct{}

// NewSet creates a Set holding vs.
func NewSet[T comparable](vs ...T) Set[T] {
	s := make(Set[T], len(vs))
	s.Add(vs...)
	return s
}

// Add inserts vs.
func (s Set[T]) Add(vs ...T) {
	for _, v := range vs {
		s[v] = struct{}{}
	}
}

// Has reports whether v is a member.
func (s Set[T]) Has(v T) bool {
	_, ok := s[v]
	return ok
}

// Members returns the values in no particular order.
func (s Set[T]) Members() []T {
	r := make([]T, 0, len(s))
	for v := range s {
		r = append(r, v)
	}
	return r
}

func (s Set[T]) String() string {
	return fmt.Sprintf("%v", s.Members())
}

// HasFold reports whether the lowercase form of name is in s.
func HasFold(s Set[string], name string) bool {
	return s.Has(strings.ToLower(name))
}
