// Package store persists the authored rule base. Derived facts are never
// stored: every run starts from the rules alone.
package store

import (
	"context"

	"github.com/cognicore/arcana/pkg/arcana/kb"
)

// RuleStore holds one ordered rule base.
type RuleStore interface {
	Close() error

	// Rules returns the rule base in declaration order. The returned slice
	// is a snapshot the caller may keep for the length of a run.
	Rules(ctx context.Context) ([]kb.Rule, error)

	// ReplaceRules swaps the whole rule base atomically.
	ReplaceRules(ctx context.Context, rules []kb.Rule) error
}
