package memstore

import (
	"context"
	"sync"

	"github.com/cognicore/arcana/pkg/arcana/kb"
)

// Store is an in-memory store.RuleStore.
type Store struct {
	mu    sync.RWMutex
	rules []kb.Rule
}

// New creates a store holding rules.
func New(rules ...kb.Rule) *Store {
	return &Store{rules: copyRules(rules)}
}

// FromFile loads a rule file into a new store. A missing file gives an
// empty store.
func FromFile(path string) (*Store, error) {
	rules, err := kb.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return New(rules...), nil
}

// Close implements store.RuleStore.
func (s *Store) Close() error { return nil }

// Rules implements store.RuleStore.
func (s *Store) Rules(ctx context.Context) ([]kb.Rule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyRules(s.rules), nil
}

// ReplaceRules implements store.RuleStore.
func (s *Store) ReplaceRules(ctx context.Context, rules []kb.Rule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules = copyRules(rules)
	return nil
}

func copyRules(in []kb.Rule) []kb.Rule {
	out := make([]kb.Rule, len(in))
	for i, r := range in {
		r.Conditions = append([]string(nil), r.Conditions...)
		out[i] = r
	}
	return out
}
