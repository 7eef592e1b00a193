// Package backward proves a goal by depth-first search over the rules that
// conclude it. The search keeps an explicit stack of goal frames so a rule
// can resume exactly where it left a subgoal, and so backtracking and cycle
// avoidance are visible in the trace.
//
// Backward chaining treats facts as plain truths: time keywords in rule
// conditions are ignored and no time tags are resolved.
package backward

import (
	"fmt"
	"strings"

	"github.com/cognicore/arcana/pkg/arcana/inference"
	"github.com/cognicore/arcana/pkg/arcana/kb"
	"github.com/cognicore/arcana/pkg/arcana/timetag"
)

// Options configures an Engine.
type Options struct {
	Vocabulary timetag.Vocabulary
	Messages   inference.Messages
	Sink       inference.Sink
}

// ProofStep is one rule application in a successful proof.
type ProofStep struct {
	RuleID     string
	Goal       string
	Conditions []string
}

func (p ProofStep) String() string {
	return fmt.Sprintf("[%s] %s <= (%s)", p.RuleID, p.Goal, strings.Join(p.Conditions, ", "))
}

// Result is the outcome of Prove. The confirmation sentence is not part of
// the trace; callers derive it from Proven.
type Result struct {
	Goal   string
	Proven bool
	// Proof lists every subgoal established during the search, in the order
	// it was established. A subgoal proven under a rule that was later
	// abandoned stays listed.
	Proof []ProofStep
	Steps int
	Trace []inference.Entry
}

// Engine is a single backward-chaining run. Build a new one per goal.
type Engine struct {
	rules []kb.Rule
	opts  Options
	trace *inference.Trace

	proven map[string]bool
	path   map[string]bool
	stack  []*frame
}

// New creates an engine over rules.
func New(rules []kb.Rule, opts Options) *Engine {
	if opts.Vocabulary == (timetag.Vocabulary{}) {
		opts.Vocabulary = timetag.English
	}
	if opts.Messages == (inference.Messages{}) {
		opts.Messages = inference.EnglishMessages
	}
	return &Engine{
		rules:  rules,
		opts:   opts,
		trace:  inference.NewTrace(opts.Sink),
		proven: make(map[string]bool),
		path:   make(map[string]bool),
	}
}

// Prove searches for a derivation of goal from the known facts.
func (e *Engine) Prove(goal string, known []string) Result {
	msg := e.opts.Messages
	e.trace.Printf(inference.Info, "%s", msg.BackwardStart)
	e.trace.Printf(inference.Info, msg.GoalLine, goal)

	for _, k := range known {
		e.proven[k] = true
	}

	res := Result{Goal: goal}
	e.push(goal)

	for len(e.stack) > 0 {
		res.Steps++
		top := e.stack[len(e.stack)-1]

		switch {
		case e.proven[top.goal]:
			e.pop()
			if len(e.stack) == 0 {
				res.Proven = true
			}

		case top.exhausted():
			e.trace.Printf(inference.Debug, msg.Exhausted, top.goal)
			e.pop()

		default:
			e.expand(top, &res)
		}
	}

	if res.Proven {
		e.trace.Printf(inference.Success, "%s", msg.Confirmed)
		for _, p := range res.Proof {
			e.trace.Emit(inference.Entry{Level: inference.Info, Text: p.String(), RuleID: p.RuleID})
		}
	} else {
		e.trace.Printf(inference.Failure, "%s", msg.NotConfirmed)
	}
	res.Trace = e.trace.Entries()
	return res
}

// expand makes one move on the frame's current rule.
func (e *Engine) expand(top *frame, res *Result) {
	msg := e.opts.Messages
	rule := top.rule()

	if c, ok := e.onPath(rule); ok {
		e.trace.Printf(inference.Debug, msg.CycleSkip, rule.ID, c)
		top.advance()
		return
	}

	missing, ok := e.firstMissing(rule)
	if !ok {
		e.proven[top.goal] = true
		res.Proof = append(res.Proof, ProofStep{
			RuleID:     rule.ID,
			Goal:       top.goal,
			Conditions: append([]string(nil), rule.Conditions...),
		})
		e.pop()
		if len(e.stack) == 0 {
			res.Proven = true
		}
		return
	}

	switch {
	case !e.concluded(missing):
		e.trace.Printf(inference.Debug, msg.DeadEnd, rule.ID, missing)
		top.advance()

	case top.awaitingOn(missing):
		e.trace.Printf(inference.Debug, msg.Backtrack, rule.ID, missing)
		top.advance()

	default:
		e.trace.Printf(inference.Debug, msg.Pushed, missing, top.goal, rule.ID)
		top.await(missing)
		e.push(missing)
	}
}

func (e *Engine) push(goal string) {
	e.path[goal] = true
	e.stack = append(e.stack, newFrame(goal, kb.Concluding(e.rules, goal)))
}

func (e *Engine) pop() {
	top := e.stack[len(e.stack)-1]
	e.stack = e.stack[:len(e.stack)-1]
	delete(e.path, top.goal)
}

// onPath returns the first condition of rule that is a goal still being
// proven further down the stack.
func (e *Engine) onPath(rule kb.Rule) (string, bool) {
	for _, c := range rule.Conditions {
		if e.path[c] {
			return c, true
		}
	}
	return "", false
}

// firstMissing returns the leftmost condition that is neither a time
// keyword nor proven.
func (e *Engine) firstMissing(rule kb.Rule) (string, bool) {
	for _, c := range rule.Conditions {
		if !e.proven[c] && !e.opts.Vocabulary.IsKeyword(c) {
			return c, true
		}
	}
	return "", false
}

func (e *Engine) concluded(goal string) bool {
	for _, r := range e.rules {
		if r.Conclusion == goal {
			return true
		}
	}
	return false
}
