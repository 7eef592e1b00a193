// Package inference defines the trace channel shared by the forward and
// backward engines. Engines never print or log: every human-readable line
// they produce is an Entry delivered, in order, to a Sink and collected
// into the run's Trace.
package inference

import (
	"fmt"
	"strings"

	"github.com/cognicore/arcana/pkg/arcana/facts"
	"github.com/cognicore/arcana/pkg/arcana/internalerr"
)

// Level is a display hint for a trace line.
type Level int

const (
	Info Level = iota
	Step
	Derived
	Success
	Failure
	Debug
)

func (l Level) String() string {
	switch l {
	case Info:
		return "info"
	case Step:
		return "step"
	case Derived:
		return "derived"
	case Success:
		return "success"
	case Failure:
		return "failure"
	case Debug:
		return "debug"
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// Entry is one trace line. Derivation lines also carry the rule, the
// consumed facts and the produced fact.
type Entry struct {
	Level  Level
	Text   string
	Step   int
	RuleID string
	Inputs []facts.Fact
	Output *facts.Fact
}

// Sink receives trace entries as they are produced. Emit must not block.
type Sink interface {
	Emit(Entry)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Entry)

func (f SinkFunc) Emit(e Entry) { f(e) }

// Trace is an append-only record of a run that forwards every entry to an
// optional Sink.
type Trace struct {
	sink    Sink
	entries []Entry
}

// NewTrace returns a trace forwarding to sink, which may be nil.
func NewTrace(sink Sink) *Trace {
	return &Trace{sink: sink}
}

// Emit appends e and forwards it.
func (t *Trace) Emit(e Entry) {
	t.entries = append(t.entries, e)
	if t.sink != nil {
		t.sink.Emit(e)
	}
}

// Printf emits a text-only line.
func (t *Trace) Printf(level Level, format string, args ...any) {
	t.Emit(Entry{Level: level, Text: fmt.Sprintf(format, args...)})
}

// Entries returns the recorded entries in emission order.
func (t *Trace) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Lines renders the trace as plain text, one entry per line.
func Lines(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Text
	}
	return out
}

// Messages are the fixed strings of the trace. NoAdvice and Statement are
// never traced; they become the summary of a reading.
type Messages struct {
	ForwardStart  string
	ModeStrict    string
	ModeMixed     string
	ModeLine      string // %s: mode
	StepHeader    string // %d: step, %s: rule id
	Basis         string // %s: consumed facts
	Conclusion    string // %s: produced fact
	Context       string // %s: required keyword
	NoAdvice      string
	BackwardStart string
	GoalLine      string // %s: goal
	Confirmed     string
	Statement     string
	NotConfirmed  string
	Pushed        string // %s: subgoal, %s: parent goal, %s: rule id
	CycleSkip     string // %s: rule id, %s: goal
	DeadEnd       string // %s: rule id, %s: condition
	Backtrack     string // %s: rule id, %s: subgoal
	Exhausted     string // %s: goal
}

var EnglishMessages = Messages{
	ForwardStart:  "--- FORWARD CHAINING ---",
	ModeStrict:    "Strict",
	ModeMixed:     "Free (Mixed)",
	ModeLine:      "Mode: %s",
	StepHeader:    "Step %d: [%s]",
	Basis:         "   Basis: %s",
	Conclusion:    "   Conclusion: %s",
	Context:       "Context:%s",
	NoAdvice:      "No advice could be formed. Try another mode or add cards.",
	BackwardStart: "--- BACKWARD CHAINING (with backtracking) ---",
	GoalLine:      "Goal: %s",
	Confirmed:     "=== HYPOTHESIS CONFIRMED ===",
	Statement:     "The statement holds.",
	NotConfirmed:  "! Hypothesis not confirmed (no derivation path).",
	Pushed:        "   try %s for %s via [%s]",
	CycleSkip:     "   [%s] skipped: cycle through %s",
	DeadEnd:       "   [%s] dead end: nothing concludes %s",
	Backtrack:     "   [%s] failed on %s, backtracking",
	Exhausted:     "   no rules left for %s",
}

var RussianMessages = Messages{
	ForwardStart:  "--- ЗАПУСК ПРЯМОГО ВЫВОДА ---",
	ModeStrict:    "Строгий",
	ModeMixed:     "Свободный (Mixed)",
	ModeLine:      "Режим: %s",
	StepHeader:    "Шаг %d: [%s]",
	Basis:         "   Основа: %s",
	Conclusion:    "   Вывод:  %s",
	Context:       "Context:%s",
	NoAdvice:      "Совет сформировать не удалось. Попробуйте другой режим или добавьте карт.",
	BackwardStart: "--- ЗАПУСК ОБРАТНОГО ВЫВОДА (С возвратом) ---",
	GoalLine:      "Цель: %s",
	Confirmed:     "=== ГИПОТЕЗА ПОДТВЕРЖДЕНА! ===",
	Statement:     "Утверждение верно.",
	NotConfirmed:  "! Гипотеза не подтвердилась (нет путей вывода).",
	Pushed:        "   пробуем %s для %s через [%s]",
	CycleSkip:     "   [%s] пропущено: цикл через %s",
	DeadEnd:       "   [%s] тупик: ничто не выводит %s",
	Backtrack:     "   [%s] не удалось доказать %s, откат",
	Exhausted:     "   правила для %s исчерпаны",
}

// MessagesFor returns the message set for a locale ("en" or "ru").
func MessagesFor(locale string) (Messages, error) {
	switch strings.ToLower(strings.TrimSpace(locale)) {
	case "", "en":
		return EnglishMessages, nil
	case "ru":
		return RussianMessages, nil
	}
	return Messages{}, fmt.Errorf("locale %q: %w", locale, internalerr.ErrInvalidConfig)
}
