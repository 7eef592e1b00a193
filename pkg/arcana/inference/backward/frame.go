package backward

import "github.com/cognicore/arcana/pkg/arcana/kb"

// phase is the state of a frame's current rule.
type phase int

const (
	// exploring: the current rule has no subgoal outstanding.
	exploring phase = iota
	// awaiting: a subgoal of the current rule was pushed; if it comes back
	// unproven the rule has failed.
	awaiting
)

// frame is one goal under proof. rules is fixed at creation and cursor
// never moves backwards.
type frame struct {
	goal    string
	rules   []kb.Rule
	cursor  int
	phase   phase
	subgoal string
}

func newFrame(goal string, rules []kb.Rule) *frame {
	return &frame{goal: goal, rules: rules}
}

func (f *frame) exhausted() bool {
	return f.cursor >= len(f.rules)
}

func (f *frame) rule() kb.Rule {
	return f.rules[f.cursor]
}

// advance abandons the current rule.
func (f *frame) advance() {
	f.cursor++
	f.phase = exploring
	f.subgoal = ""
}

func (f *frame) await(subgoal string) {
	f.phase = awaiting
	f.subgoal = subgoal
}

func (f *frame) awaitingOn(subgoal string) bool {
	return f.phase == awaiting && f.subgoal == subgoal
}
