package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/arcana/pkg/arcana/facts"
	"github.com/cognicore/arcana/pkg/arcana/internalerr"
	"github.com/cognicore/arcana/pkg/arcana/timetag"
)

// Spread is a layout of cards over the three time slots.
//
//	past: ["0 Шут"]
//	present: ["I Маг"]
//	future: ["III Императрица"]
type Spread struct {
	Past    []string `yaml:"past"`
	Present []string `yaml:"present"`
	Future  []string `yaml:"future"`
}

// LoadSpread loads a spread from a YAML file
func LoadSpread(path string) (*Spread, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sp Spread
	if err := yaml.Unmarshal(data, &sp); err != nil {
		return nil, fmt.Errorf("parse spread: %w", err)
	}

	return &sp, nil
}

// Place adds a card to the slot named by tag.
func (s *Spread) Place(card string, tag timetag.Tag) error {
	switch tag {
	case timetag.Past:
		s.Past = append(s.Past, card)
	case timetag.Present:
		s.Present = append(s.Present, card)
	case timetag.Future:
		s.Future = append(s.Future, card)
	default:
		return fmt.Errorf("cards cannot be placed under %s: %w", tag, internalerr.ErrInvalidInput)
	}
	return nil
}

// Len returns the number of cards on the table.
func (s *Spread) Len() int {
	return len(s.Past) + len(s.Present) + len(s.Future)
}

// Facts converts the spread to initial facts, past first. A card may lie
// on the table only once.
func (s *Spread) Facts() ([]facts.Fact, error) {
	seen := make(map[string]bool)
	var out []facts.Fact
	for _, tag := range timetag.Slots {
		for _, card := range s.slot(tag) {
			card = strings.TrimSpace(card)
			if card == "" {
				continue
			}
			if seen[card] {
				return nil, fmt.Errorf("card %q: %w", card, internalerr.ErrDuplicate)
			}
			seen[card] = true
			out = append(out, facts.Fact{Value: card, Tag: tag})
		}
	}
	return out, nil
}

func (s *Spread) slot(tag timetag.Tag) []string {
	switch tag {
	case timetag.Past:
		return s.Past
	case timetag.Present:
		return s.Present
	case timetag.Future:
		return s.Future
	}
	return nil
}

// PlaceSlotted adds a card given as "slot:card". The slot is a keyword of
// vocab or a canonical slot name, so "Будущее:III Императрица" and
// "future:III Императрица" are equivalent.
func (s *Spread) PlaceSlotted(entry string, vocab timetag.Vocabulary) error {
	slot, card, ok := strings.Cut(entry, ":")
	if !ok || strings.TrimSpace(card) == "" {
		return fmt.Errorf("card %q: want slot:card: %w", entry, internalerr.ErrInvalidInput)
	}
	tag, err := vocab.Parse(slot)
	if err != nil {
		return err
	}
	return s.Place(strings.TrimSpace(card), tag)
}
