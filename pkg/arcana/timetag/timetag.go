// Package timetag defines the time slots a fact can belong to and the
// localized keywords rule files use to name them.
package timetag

import (
	"fmt"
	"strings"

	"github.com/cognicore/arcana/pkg/arcana/internalerr"
)

// Tag is the time slot of a fact.
type Tag int

const (
	Past Tag = iota
	Present
	Future
	// Mixed marks a fact derived from ingredients of different slots.
	Mixed
	// RuleRequirement tags the placeholder standing in for a time keyword
	// during condition matching. No stored fact carries it.
	RuleRequirement
)

func (t Tag) String() string {
	switch t {
	case Past:
		return "Past"
	case Present:
		return "Present"
	case Future:
		return "Future"
	case Mixed:
		return "Mixed"
	case RuleRequirement:
		return "RuleRequirement"
	}
	return fmt.Sprintf("Tag(%d)", int(t))
}

// Slots lists the tags a card can be placed under, in spread order.
var Slots = []Tag{Past, Present, Future}

// Vocabulary holds the keywords naming each slot in rule files and spreads.
type Vocabulary struct {
	Past    string `yaml:"past"`
	Present string `yaml:"present"`
	Future  string `yaml:"future"`
}

var (
	English = Vocabulary{Past: "Past", Present: "Present", Future: "Future"}
	Russian = Vocabulary{Past: "Прошлое", Present: "Настоящее", Future: "Будущее"}
)

// VocabularyFor returns the preset vocabulary for a locale ("en" or "ru").
func VocabularyFor(locale string) (Vocabulary, error) {
	switch strings.ToLower(strings.TrimSpace(locale)) {
	case "", "en":
		return English, nil
	case "ru":
		return Russian, nil
	}
	return Vocabulary{}, fmt.Errorf("locale %q: %w", locale, internalerr.ErrInvalidConfig)
}

// IsKeyword reports whether s names a time slot.
func (v Vocabulary) IsKeyword(s string) bool {
	_, ok := v.Tag(s)
	return ok
}

// Tag maps a keyword to its slot.
func (v Vocabulary) Tag(keyword string) (Tag, bool) {
	switch keyword {
	case "":
		return 0, false
	case v.Past:
		return Past, true
	case v.Present:
		return Present, true
	case v.Future:
		return Future, true
	}
	return 0, false
}

// Keyword is the inverse of Tag. Mixed and RuleRequirement render by name.
func (v Vocabulary) Keyword(t Tag) string {
	switch t {
	case Past:
		return v.Past
	case Present:
		return v.Present
	case Future:
		return v.Future
	}
	return t.String()
}

// Parse accepts either a keyword of v or a canonical slot name
// ("past", "Present", ...).
func (v Vocabulary) Parse(s string) (Tag, error) {
	s = strings.TrimSpace(s)
	if t, ok := v.Tag(s); ok {
		return t, nil
	}
	for _, t := range []Tag{Past, Present, Future, Mixed} {
		if strings.EqualFold(s, t.String()) || strings.EqualFold(s, v.Keyword(t)) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%q: %w", s, internalerr.ErrUnknownTag)
}

// Validate rejects vocabularies with empty or repeated keywords.
func (v Vocabulary) Validate() error {
	seen := make(map[string]bool, 3)
	for _, k := range []string{v.Past, v.Present, v.Future} {
		if strings.TrimSpace(k) == "" {
			return fmt.Errorf("empty time keyword: %w", internalerr.ErrInvalidConfig)
		}
		if seen[k] {
			return fmt.Errorf("time keyword %q repeated: %w", k, internalerr.ErrInvalidConfig)
		}
		seen[k] = true
	}
	return nil
}
