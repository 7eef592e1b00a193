package backward

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/arcana/pkg/arcana/inference"
	"github.com/cognicore/arcana/pkg/arcana/kb"
	"github.com/cognicore/arcana/pkg/arcana/timetag"
)

func parseRules(t *testing.T, lines ...string) []kb.Rule {
	t.Helper()
	rules, err := kb.Parse(strings.NewReader(strings.Join(lines, "\n")))
	require.NoError(t, err)
	return rules
}

func proofIDs(p []ProofStep) []string {
	ids := make([]string, len(p))
	for i, s := range p {
		ids[i] = s.RuleID
	}
	return ids
}

func TestConcreteScenario(t *testing.T) {
	rules := parseRules(t,
		"f1;CardX;TraitA;expl1",
		"f2;CardY;TraitB;expl2",
		"r1;TraitA;TraitB;Insight;expl3",
	)

	res := New(rules, Options{}).Prove("Insight", []string{"CardX", "CardY"})

	require.True(t, res.Proven)
	assert.Equal(t, []string{"f1", "f2", "r1"}, proofIDs(res.Proof))
	assert.Equal(t, "[r1] Insight <= (TraitA, TraitB)", res.Proof[2].String())

	lines := inference.Lines(res.Trace)
	assert.Equal(t, "--- BACKWARD CHAINING (with backtracking) ---", lines[0])
	assert.Equal(t, "Goal: Insight", lines[1])
	tail := lines[len(lines)-4:]
	assert.Equal(t, []string{
		"=== HYPOTHESIS CONFIRMED ===",
		"[f1] TraitA <= (CardX)",
		"[f2] TraitB <= (CardY)",
		"[r1] Insight <= (TraitA, TraitB)",
	}, tail)
	assert.NotContains(t, lines, inference.EnglishMessages.Statement)
}

func TestCycleTerminates(t *testing.T) {
	rules := parseRules(t,
		"R1;A;B;A gives B",
		"R2;B;A;B gives A",
	)

	res := New(rules, Options{}).Prove("A", nil)

	assert.False(t, res.Proven)
	assert.Empty(t, res.Proof)
	lines := inference.Lines(res.Trace)
	assert.Contains(t, lines, "   [R1] skipped: cycle through A")
	assert.Equal(t, inference.EnglishMessages.NotConfirmed, lines[len(lines)-1])
	assert.NotContains(t, lines, inference.EnglishMessages.Statement)
}

func TestSelfCycle(t *testing.T) {
	rules := parseRules(t,
		"loop;A;A;tautology",
		"base;Seed;A;grounded",
	)

	res := New(rules, Options{}).Prove("A", []string{"Seed"})
	require.True(t, res.Proven)
	assert.Equal(t, []string{"base"}, proofIDs(res.Proof))
}

func TestBacktracking(t *testing.T) {
	rules := parseRules(t,
		"x1;Z;X;needs an unknown Z",
		"g1;X;G;first way",
		"g2;Y;G;second way",
	)

	res := New(rules, Options{}).Prove("G", []string{"Y"})

	require.True(t, res.Proven)
	assert.Equal(t, []string{"g2"}, proofIDs(res.Proof))

	lines := inference.Lines(res.Trace)
	assert.Contains(t, lines, "   try X for G via [g1]")
	assert.Contains(t, lines, "   [x1] dead end: nothing concludes Z")
	assert.Contains(t, lines, "   [g1] failed on X, backtracking")
}

func TestResumesPartiallyExploredRule(t *testing.T) {
	rules := parseRules(t,
		"a1;K1;A;a",
		"b1;Nope;B;unprovable",
		"b2;K2;B;b",
		"g1;A;B;G;both",
	)

	res := New(rules, Options{}).Prove("G", []string{"K1", "K2"})

	require.True(t, res.Proven)
	assert.Equal(t, []string{"a1", "b2", "g1"}, proofIDs(res.Proof))
}

func TestSecondConditionFails(t *testing.T) {
	rules := parseRules(t,
		"a1;K1;A;a",
		"b1;Missing;B;b",
		"g1;A;B;G;both",
	)

	res := New(rules, Options{}).Prove("G", []string{"K1"})

	assert.False(t, res.Proven)
	// A was proven on the way, and stays proven.
	assert.Equal(t, []string{"a1"}, proofIDs(res.Proof))
}

func TestGoalAlreadyKnown(t *testing.T) {
	res := New(nil, Options{}).Prove("CardX", []string{"CardX"})
	assert.True(t, res.Proven)
	assert.Empty(t, res.Proof)
}

func TestNoCoveringRule(t *testing.T) {
	rules := parseRules(t, "f1;CardX;TraitA;e")
	res := New(rules, Options{}).Prove("Unknown", []string{"CardX"})

	assert.False(t, res.Proven)
	assert.Equal(t, []string{
		"--- BACKWARD CHAINING (with backtracking) ---",
		"Goal: Unknown",
		"   no rules left for Unknown",
		"! Hypothesis not confirmed (no derivation path).",
	}, inference.Lines(res.Trace))
}

func TestTimeKeywordsIgnored(t *testing.T) {
	rules := parseRules(t,
		"f1;CardX;TraitA;e",
		"t1;TraitA;Будущее;Fate;future only",
	)

	res := New(rules, Options{Vocabulary: timetag.Russian}).Prove("Fate", []string{"CardX"})
	require.True(t, res.Proven)
	assert.Equal(t, []string{"f1", "t1"}, proofIDs(res.Proof))

	// Without the Russian vocabulary the keyword is an ordinary, unprovable
	// condition.
	res = New(rules, Options{}).Prove("Fate", []string{"CardX"})
	assert.False(t, res.Proven)
}

func TestRuleOrderDecides(t *testing.T) {
	rules := parseRules(t,
		"g1;K1;G;first",
		"g2;K2;G;second",
	)

	res := New(rules, Options{}).Prove("G", []string{"K1", "K2"})
	require.True(t, res.Proven)
	assert.Equal(t, []string{"g1"}, proofIDs(res.Proof))
}

func TestSinkSeesTrace(t *testing.T) {
	var streamed []inference.Entry
	rules := parseRules(t, "f1;CardX;TraitA;e")
	res := New(rules, Options{
		Sink: inference.SinkFunc(func(e inference.Entry) { streamed = append(streamed, e) }),
	}).Prove("TraitA", []string{"CardX"})

	assert.Equal(t, res.Trace, streamed)
}

func TestFrameCursorOnlyAdvances(t *testing.T) {
	f := newFrame("G", []kb.Rule{{ID: "a"}, {ID: "b"}})
	assert.False(t, f.exhausted())

	f.await("X")
	assert.True(t, f.awaitingOn("X"))
	assert.False(t, f.awaitingOn("Y"))

	f.advance()
	assert.Equal(t, 1, f.cursor)
	assert.False(t, f.awaitingOn("X"))
	assert.Equal(t, "b", f.rule().ID)

	f.advance()
	assert.True(t, f.exhausted())
}

func TestProofKeepsSubgoalsOfAbandonedRules(t *testing.T) {
	rules := parseRules(t,
		"g1;A;B;G;needs A and B",
		"a1;K1;A;A from K1",
		"b1;Z;B;B needs the unknown Z",
		"g2;K2;G;G from K2",
	)

	res := New(rules, Options{}).Prove("G", []string{"K1", "K2"})

	require.True(t, res.Proven)
	// A was established while g1 was tried; g1 then failed on B.
	assert.Equal(t, []string{"a1", "g2"}, proofIDs(res.Proof))
	assert.Contains(t, inference.Lines(res.Trace), "   [g1] failed on B, backtracking")
}
