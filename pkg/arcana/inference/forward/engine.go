// Package forward saturates a fact store by applying every rule until a
// full pass derives nothing new.
package forward

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/cognicore/arcana/pkg/arcana/facts"
	"github.com/cognicore/arcana/pkg/arcana/inference"
	"github.com/cognicore/arcana/pkg/arcana/kb"
	"github.com/cognicore/arcana/pkg/arcana/timetag"
)

// DefaultAdviceThreshold is the length, in characters, a fact value must
// exceed to count as advice. Authored rule bases keep every terminal
// sentence longer than this and every intermediate proposition shorter.
const DefaultAdviceThreshold = 35

// Options configures an Engine.
type Options struct {
	Vocabulary      timetag.Vocabulary
	AllowMixed      bool
	AdviceThreshold int
	Messages        inference.Messages
	Sink            inference.Sink
}

// Derivation records one rule firing.
type Derivation struct {
	Step   int
	RuleID string
	Inputs []facts.Fact
	Output facts.Fact
}

// Result is the outcome of Run.
type Result struct {
	Facts       []facts.Fact
	Derivations []Derivation
	Advice      []string
	NoAdvice    bool
	Passes      int
	Trace       []inference.Entry
}

// Engine is a single forward-chaining run. It is not safe for concurrent
// use; build a new one per run.
type Engine struct {
	rules []kb.Rule
	opts  Options
	store *facts.Store
	trace *inference.Trace
	step  int
}

// New creates an engine over rules with an empty store.
func New(rules []kb.Rule, opts Options) *Engine {
	if opts.Vocabulary == (timetag.Vocabulary{}) {
		opts.Vocabulary = timetag.English
	}
	if opts.AdviceThreshold <= 0 {
		opts.AdviceThreshold = DefaultAdviceThreshold
	}
	if opts.Messages == (inference.Messages{}) {
		opts.Messages = inference.EnglishMessages
	}
	return &Engine{
		rules: rules,
		opts:  opts,
		store: facts.NewStore(),
		trace: inference.NewTrace(opts.Sink),
		step:  1,
	}
}

// AddInitial places a card in a time slot.
func (e *Engine) AddInitial(value string, tag timetag.Tag) {
	e.store.Add(facts.Fact{Value: value, Tag: tag})
}

// Seed loads previously derived or initial facts.
func (e *Engine) Seed(fs ...facts.Fact) {
	for _, f := range fs {
		e.store.Add(f)
	}
}

// Len returns the number of facts currently known.
func (e *Engine) Len() int { return e.store.Len() }

// Run applies the rules to a fixpoint and selects the advice.
func (e *Engine) Run() Result {
	msg := e.opts.Messages
	mode := msg.ModeStrict
	if e.opts.AllowMixed {
		mode = msg.ModeMixed
	}
	e.trace.Printf(inference.Info, "%s", msg.ForwardStart)
	e.trace.Printf(inference.Info, msg.ModeLine, mode)

	var res Result
	for progress := true; progress; {
		progress = false
		res.Passes++
		for _, rule := range e.rules {
			for _, combo := range e.match(rule.Conditions) {
				tag, ok := Resolve(combo, rule, e.opts.Vocabulary, e.opts.AllowMixed)
				if !ok {
					continue
				}
				fact := facts.Fact{Value: rule.Conclusion, Tag: tag}
				if !e.store.Add(fact) {
					continue
				}
				res.Derivations = append(res.Derivations, e.record(rule, combo, fact))
				progress = true
			}
		}
	}

	res.Advice = e.advice()
	res.NoAdvice = len(res.Advice) == 0
	res.Facts = e.store.All()
	res.Trace = e.trace.Entries()
	return res
}

// match enumerates the fact combinations satisfying conditions. A time
// keyword is matched by a placeholder tagged RuleRequirement so Resolve can
// tell the carrier from the requirement.
func (e *Engine) match(conditions []string) [][]facts.Fact {
	var out [][]facts.Fact
	vocab := e.opts.Vocabulary

	switch len(conditions) {
	case 1:
		for _, f := range e.store.Matching(conditions[0]) {
			out = append(out, []facts.Fact{f})
		}
	case 2:
		c1, c2 := conditions[0], conditions[1]
		k1, k2 := vocab.IsKeyword(c1), vocab.IsKeyword(c2)
		switch {
		case k1 && k2:
			// No carrier: nothing can satisfy the rule.
		case k2:
			req := placeholder(c2)
			for _, f := range e.store.Matching(c1) {
				out = append(out, []facts.Fact{f, req})
			}
		case k1:
			req := placeholder(c1)
			for _, f := range e.store.Matching(c2) {
				out = append(out, []facts.Fact{req, f})
			}
		default:
			rights := e.store.Matching(c2)
			for _, a := range e.store.Matching(c1) {
				for _, b := range rights {
					out = append(out, []facts.Fact{a, b})
				}
			}
		}
	}
	return out
}

func placeholder(keyword string) facts.Fact {
	return facts.Fact{Value: keyword, Tag: timetag.RuleRequirement}
}

func (e *Engine) record(rule kb.Rule, combo []facts.Fact, fact facts.Fact) Derivation {
	msg := e.opts.Messages
	used := make([]string, len(combo))
	inputs := make([]facts.Fact, len(combo))
	copy(inputs, combo)
	for i, f := range combo {
		if f.Tag == timetag.RuleRequirement {
			used[i] = fmt.Sprintf(msg.Context, f.Value)
		} else {
			used[i] = f.Value
		}
	}

	d := Derivation{Step: e.step, RuleID: rule.ID, Inputs: inputs, Output: fact}
	e.step++

	e.trace.Emit(inference.Entry{
		Level:  inference.Step,
		Text:   fmt.Sprintf(msg.StepHeader, d.Step, rule.ID),
		Step:   d.Step,
		RuleID: rule.ID,
	})
	e.trace.Emit(inference.Entry{
		Level:  inference.Info,
		Text:   fmt.Sprintf(msg.Basis, strings.Join(used, " + ")),
		Step:   d.Step,
		RuleID: rule.ID,
		Inputs: inputs,
	})
	out := fact
	e.trace.Emit(inference.Entry{
		Level:  inference.Derived,
		Text:   fmt.Sprintf(msg.Conclusion, e.render(fact)),
		Step:   d.Step,
		RuleID: rule.ID,
		Output: &out,
	})
	return d
}

func (e *Engine) render(f facts.Fact) string {
	return f.Value + " [" + e.opts.Vocabulary.Keyword(f.Tag) + "]"
}

// advice selects every fact whose value is longer than the threshold. A
// sentence derived under two tags is advice twice.
func (e *Engine) advice() []string {
	var out []string
	for _, f := range e.store.All() {
		if utf8.RuneCountInString(f.Value) > e.opts.AdviceThreshold {
			out = append(out, f.Value)
		}
	}
	return out
}
