// Package arcana is the engine facade front ends talk to: rules come from a
// store, facts or a goal come from the caller, and every run returns a
// reading carrying its trace and result.
package arcana

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cognicore/arcana/pkg/arcana/cards"
	"github.com/cognicore/arcana/pkg/arcana/facts"
	"github.com/cognicore/arcana/pkg/arcana/inference"
	"github.com/cognicore/arcana/pkg/arcana/inference/backward"
	"github.com/cognicore/arcana/pkg/arcana/inference/forward"
	"github.com/cognicore/arcana/pkg/arcana/internalerr"
	"github.com/cognicore/arcana/pkg/arcana/kb"
	"github.com/cognicore/arcana/pkg/arcana/store"
	"github.com/cognicore/arcana/pkg/arcana/timetag"
)

// Arcana runs readings against a stored rule base.
type Arcana struct {
	store     store.RuleStore
	vocab     timetag.Vocabulary
	messages  inference.Messages
	threshold int
	builder   *cards.Builder
	logger    *zap.Logger
}

// Options configures an Arcana instance
type Options struct {
	Store           store.RuleStore
	Vocabulary      timetag.Vocabulary
	Messages        inference.Messages
	AdviceThreshold int
	Logger          *zap.Logger
}

// New creates an Arcana instance with the given dependencies
func New(opts Options) *Arcana {
	if opts.Vocabulary == (timetag.Vocabulary{}) {
		opts.Vocabulary = timetag.English
	}
	if opts.Messages == (inference.Messages{}) {
		opts.Messages = inference.EnglishMessages
	}
	if opts.AdviceThreshold <= 0 {
		opts.AdviceThreshold = forward.DefaultAdviceThreshold
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Arcana{
		store:     opts.Store,
		vocab:     opts.Vocabulary,
		messages:  opts.Messages,
		threshold: opts.AdviceThreshold,
		builder:   cards.New(opts.Messages),
		logger:    opts.Logger,
	}
}

// Close cleanly shuts down the underlying store
func (a *Arcana) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

// ForwardRequest asks for a reading of a spread.
type ForwardRequest struct {
	Spread     []facts.Fact
	AllowMixed bool
	Sink       inference.Sink
}

// Forward saturates the spread against the rule base and selects advice.
func (a *Arcana) Forward(ctx context.Context, req ForwardRequest) (cards.Reading, error) {
	if len(req.Spread) == 0 {
		return cards.Reading{}, fmt.Errorf("empty spread: %w", internalerr.ErrInvalidInput)
	}
	for _, f := range req.Spread {
		if f.Tag == timetag.RuleRequirement {
			return cards.Reading{}, fmt.Errorf("card %q has no time slot: %w", f.Value, internalerr.ErrInvalidInput)
		}
	}

	rules, err := a.rules(ctx)
	if err != nil {
		return cards.Reading{}, err
	}

	eng := forward.New(rules, forward.Options{
		Vocabulary:      a.vocab,
		AllowMixed:      req.AllowMixed,
		AdviceThreshold: a.threshold,
		Messages:        a.messages,
		Sink:            req.Sink,
	})
	eng.Seed(req.Spread...)
	res := eng.Run()

	mode := cards.ModeStrict
	if req.AllowMixed {
		mode = cards.ModeMixed
	}
	reading := a.builder.Forward(req.Spread, mode, res)

	a.logger.Info("forward reading",
		zap.String("id", reading.ID),
		zap.String("mode", string(mode)),
		zap.Int("cards", len(req.Spread)),
		zap.Int("rules", len(rules)),
		zap.Int("derived", len(res.Derivations)),
		zap.Int("passes", res.Passes),
		zap.Int("advice", len(res.Advice)))
	return reading, nil
}

// BackwardRequest asks whether Goal follows from the Known facts.
type BackwardRequest struct {
	Goal  string
	Known []string
	Sink  inference.Sink
}

// Backward tries to prove the goal.
func (a *Arcana) Backward(ctx context.Context, req BackwardRequest) (cards.Reading, error) {
	goal := strings.TrimSpace(req.Goal)
	if goal == "" {
		return cards.Reading{}, fmt.Errorf("empty goal: %w", internalerr.ErrInvalidInput)
	}

	rules, err := a.rules(ctx)
	if err != nil {
		return cards.Reading{}, err
	}

	eng := backward.New(rules, backward.Options{
		Vocabulary: a.vocab,
		Messages:   a.messages,
		Sink:       req.Sink,
	})
	res := eng.Prove(goal, req.Known)
	reading := a.builder.Backward(req.Known, res)

	a.logger.Info("backward reading",
		zap.String("id", reading.ID),
		zap.String("goal", goal),
		zap.Int("known", len(req.Known)),
		zap.Bool("proven", res.Proven),
		zap.Int("proof_steps", len(res.Proof)),
		zap.Int("search_steps", res.Steps))
	return reading, nil
}

// Deck lists the cards the rule base knows about.
func (a *Arcana) Deck(ctx context.Context, idPrefix string) ([]string, error) {
	rules, err := a.rules(ctx)
	if err != nil {
		return nil, err
	}
	return kb.Deck(rules, idPrefix), nil
}

// Lint checks the rule base for rules that can never fire.
func (a *Arcana) Lint(ctx context.Context, deckPrefix string) ([]kb.Issue, error) {
	rules, err := a.rules(ctx)
	if err != nil {
		return nil, err
	}
	return kb.Lint(rules, a.vocab, deckPrefix), nil
}

// Rules returns a snapshot of the rule base.
func (a *Arcana) Rules(ctx context.Context) ([]kb.Rule, error) {
	return a.rules(ctx)
}

func (a *Arcana) rules(ctx context.Context) ([]kb.Rule, error) {
	if a.store == nil {
		return nil, internalerr.ErrStoreUnavailable
	}
	rules, err := a.store.Rules(ctx)
	if err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}
	if len(rules) == 0 {
		a.logger.Warn("rule base is empty")
	}
	return rules, nil
}
