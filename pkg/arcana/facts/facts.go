// Package facts holds the working memory of a forward-chaining run.
package facts

import (
	"fmt"

	"github.com/cognicore/arcana/pkg/arcana/timetag"
)

// Fact is a value placed in a time slot. Facts compare by both fields.
type Fact struct {
	Value string
	Tag   timetag.Tag
}

func (f Fact) String() string {
	return fmt.Sprintf("%s [%s]", f.Value, f.Tag)
}

// Store is a set of facts that remembers insertion order, so every
// enumeration (and therefore every trace) is reproducible.
type Store struct {
	index map[Fact]struct{}
	order []Fact
}

// NewStore creates a store seeded with facts; duplicates collapse.
func NewStore(seed ...Fact) *Store {
	s := &Store{index: make(map[Fact]struct{}, len(seed))}
	for _, f := range seed {
		s.Add(f)
	}
	return s
}

// Add inserts f and reports whether it was new.
func (s *Store) Add(f Fact) bool {
	if _, ok := s.index[f]; ok {
		return false
	}
	s.index[f] = struct{}{}
	s.order = append(s.order, f)
	return true
}

// Contains reports whether f is stored.
func (s *Store) Contains(f Fact) bool {
	_, ok := s.index[f]
	return ok
}

// Len returns the number of distinct facts.
func (s *Store) Len() int { return len(s.order) }

// All returns the facts in insertion order.
func (s *Store) All() []Fact {
	out := make([]Fact, len(s.order))
	copy(out, s.order)
	return out
}

// Matching returns the facts whose value is v, in insertion order.
func (s *Store) Matching(v string) []Fact {
	var out []Fact
	for _, f := range s.order {
		if f.Value == v {
			out = append(out, f)
		}
	}
	return out
}

// Clone returns an independent copy.
func (s *Store) Clone() *Store {
	return NewStore(s.order...)
}
