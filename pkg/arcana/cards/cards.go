// Package cards turns engine results into readings: self-contained,
// explainable result cards a front end can display or render.
package cards

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/cognicore/arcana/pkg/arcana/facts"
	"github.com/cognicore/arcana/pkg/arcana/inference"
	"github.com/cognicore/arcana/pkg/arcana/inference/backward"
	"github.com/cognicore/arcana/pkg/arcana/inference/forward"
	"github.com/oklog/ulid/v2"
)

// Kind tells which engine produced a reading.
type Kind string

const (
	KindForward  Kind = "forward"
	KindBackward Kind = "backward"
)

// Mode is the time-matching strategy of a forward reading.
type Mode string

const (
	ModeStrict Mode = "strict"
	ModeMixed  Mode = "mixed"
)

// Reading is the explainable outcome of one run.
type Reading struct {
	ID        string
	Kind      Kind
	Mode      Mode
	CreatedAt time.Time

	// Forward readings.
	Spread      []facts.Fact
	Derivations []forward.Derivation
	Advice      []string
	NoAdvice    bool
	FactCount   int

	// Backward readings.
	Goal   string
	Known  []string
	Proven bool
	Proof  []backward.ProofStep

	// Summary is the single natural-language result: the confirmation or
	// failure notice for backward readings, the no-advice notice when a
	// forward run found none.
	Summary string
	Trace   []inference.Entry
}

// Builder assigns sortable unique ids to readings.
type Builder struct {
	mu       sync.Mutex
	entropy  *ulid.MonotonicEntropy
	messages inference.Messages
	now      func() time.Time
}

// New creates a builder writing summaries with msgs.
func New(msgs inference.Messages) *Builder {
	return &Builder{
		entropy:  ulid.Monotonic(rand.Reader, 0),
		messages: msgs,
		now:      time.Now,
	}
}

func (b *Builder) newID(t time.Time) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), b.entropy).String()
}

// Forward builds a reading from a forward-chaining result.
func (b *Builder) Forward(spread []facts.Fact, mode Mode, res forward.Result) Reading {
	now := b.now()
	r := Reading{
		ID:          b.newID(now),
		Kind:        KindForward,
		Mode:        mode,
		CreatedAt:   now,
		Spread:      append([]facts.Fact(nil), spread...),
		Derivations: res.Derivations,
		Advice:      res.Advice,
		NoAdvice:    res.NoAdvice,
		FactCount:   len(res.Facts),
		Trace:       res.Trace,
	}
	if res.NoAdvice {
		r.Summary = b.messages.NoAdvice
	}
	return r
}

// Backward builds a reading from a backward-chaining result.
func (b *Builder) Backward(known []string, res backward.Result) Reading {
	now := b.now()
	r := Reading{
		ID:        b.newID(now),
		Kind:      KindBackward,
		CreatedAt: now,
		Goal:      res.Goal,
		Known:     append([]string(nil), known...),
		Proven:    res.Proven,
		Proof:     res.Proof,
		Trace:     res.Trace,
		Summary:   b.messages.NotConfirmed,
	}
	if res.Proven {
		r.Summary = b.messages.Statement
	}
	return r
}
