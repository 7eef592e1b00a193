package inference

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTraceForwardsInOrder(t *testing.T) {
	var got []string
	tr := NewTrace(SinkFunc(func(e Entry) { got = append(got, e.Text) }))

	tr.Printf(Info, "start")
	tr.Emit(Entry{Level: Step, Text: "Step 1: [r1]", Step: 1, RuleID: "r1"})
	tr.Printf(Failure, "no %s", "advice")

	assert.Equal(t, []string{"start", "Step 1: [r1]", "no advice"}, got)
	assert.Equal(t, got, Lines(tr.Entries()))
	assert.Equal(t, "r1", tr.Entries()[1].RuleID)
}

func TestTraceWithoutSink(t *testing.T) {
	tr := NewTrace(nil)
	tr.Printf(Info, "x")
	assert.Len(t, tr.Entries(), 1)
}

func TestMessagesFor(t *testing.T) {
	m, err := MessagesFor("ru")
	assert.NoError(t, err)
	assert.Equal(t, RussianMessages, m)

	m, err = MessagesFor("")
	assert.NoError(t, err)
	assert.Equal(t, EnglishMessages, m)

	_, err = MessagesFor("de")
	assert.Error(t, err)
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "derived", Derived.String())
	assert.Equal(t, "level(42)", Level(42).String())
}
