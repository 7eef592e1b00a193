// Package kb loads the rule base: an ordered list of if/then productions
// authored one per line.
//
// Format:
//
//	// comment
//	id; condition; conclusion; explanation
//	id; condition-1; condition-2; conclusion; explanation
//
// Lines with any other number of fields are ignored.
package kb

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/cognicore/arcana/pkg/arcana/timetag"
)

const (
	// Delimiter separates the fields of a rule line.
	Delimiter = ";"
	// CommentPrefix starts a comment line.
	CommentPrefix = "//"
	// MaxLineBytes bounds a rule line; longer lines are skipped.
	MaxLineBytes = 1 << 20
)

// Rule is a production with one or two conditions.
type Rule struct {
	ID          string
	Conditions  []string
	Conclusion  string
	Explanation string
}

// IsSynthesis reports whether the rule combines two conditions.
func (r Rule) IsSynthesis() bool {
	return len(r.Conditions) == 2
}

func (r Rule) String() string {
	return fmt.Sprintf("[%s] %s -> %s", r.ID, strings.Join(r.Conditions, " + "), r.Conclusion)
}

// Parse reads rules from r in declaration order. Malformed lines are
// skipped, including lines longer than MaxLineBytes.
func Parse(r io.Reader) ([]Rule, error) {
	var rules []Rule
	br := bufio.NewReader(r)

	for {
		line, tooLong, err := readLine(br)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read rules: %w", err)
		}
		if tooLong {
			continue
		}
		if rule, ok := parseLine(line); ok {
			rules = append(rules, rule)
		}
	}
	return rules, nil
}

// readLine returns the next line without its terminator. A line over
// MaxLineBytes is consumed and reported as too long.
func readLine(br *bufio.Reader) (string, bool, error) {
	var buf []byte
	tooLong := false
	for {
		chunk, isPrefix, err := br.ReadLine()
		if err != nil {
			return "", false, err
		}
		if len(buf)+len(chunk) > MaxLineBytes {
			tooLong = true
			buf = nil
		} else if !tooLong {
			buf = append(buf, chunk...)
		}
		if !isPrefix {
			return string(buf), tooLong, nil
		}
	}
}

// LoadFile parses the rule file at path. A missing file yields an empty
// rule base.
func LoadFile(path string) ([]Rule, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open rules: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

func parseLine(line string) (Rule, bool) {
	line = strings.TrimPrefix(line, "\ufeff")
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, CommentPrefix) {
		return Rule{}, false
	}

	parts := strings.Split(line, Delimiter)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	switch len(parts) {
	case 4:
		return Rule{
			ID:          parts[0],
			Conditions:  []string{parts[1]},
			Conclusion:  parts[2],
			Explanation: parts[3],
		}, true
	case 5:
		return Rule{
			ID:          parts[0],
			Conditions:  []string{parts[1], parts[2]},
			Conclusion:  parts[3],
			Explanation: parts[4],
		}, true
	}
	return Rule{}, false
}

// Concluding returns the rules whose conclusion is goal, in declaration order.
func Concluding(rules []Rule, goal string) []Rule {
	var out []Rule
	for _, r := range rules {
		if r.Conclusion == goal {
			out = append(out, r)
		}
	}
	return out
}

// Deck lists the card names of the rule base: the condition of every
// unary rule whose id starts with idPrefix (case-insensitive). An empty
// prefix, or one no unary rule carries, selects all unary rules.
func Deck(rules []Rule, idPrefix string) []string {
	if cards := deck(rules, idPrefix); len(cards) > 0 || idPrefix == "" {
		return cards
	}
	return deck(rules, "")
}

func deck(rules []Rule, idPrefix string) []string {
	prefix := strings.ToLower(idPrefix)
	seen := make(map[string]struct{})
	var cards []string
	for _, r := range rules {
		if len(r.Conditions) != 1 || !strings.HasPrefix(strings.ToLower(r.ID), prefix) {
			continue
		}
		name := r.Conditions[0]
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		cards = append(cards, name)
	}
	sort.Strings(cards)
	return cards
}

// Issue is a lint finding.
type Issue struct {
	RuleID  string
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s", i.RuleID, i.Message)
}

// Lint reports rules that can never take part in a derivation: conditions
// no rule concludes and no deck card supplies, plus repeated ids.
func Lint(rules []Rule, vocab timetag.Vocabulary, deckPrefix string) []Issue {
	known := make(map[string]bool)
	for _, card := range Deck(rules, deckPrefix) {
		known[card] = true
	}
	for _, r := range rules {
		known[r.Conclusion] = true
	}

	var issues []Issue
	ids := make(map[string]bool)
	for _, r := range rules {
		if ids[r.ID] {
			issues = append(issues, Issue{RuleID: r.ID, Message: "duplicate rule id"})
		}
		ids[r.ID] = true

		for _, c := range r.Conditions {
			if vocab.IsKeyword(c) || known[c] {
				continue
			}
			issues = append(issues, Issue{
				RuleID:  r.ID,
				Message: fmt.Sprintf("condition %q is never concluded", c),
			})
		}
		if r.IsSynthesis() && vocab.IsKeyword(r.Conditions[0]) && vocab.IsKeyword(r.Conditions[1]) {
			issues = append(issues, Issue{RuleID: r.ID, Message: "both conditions are time keywords"})
		}
	}
	return issues
}
