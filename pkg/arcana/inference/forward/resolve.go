package forward

import (
	"github.com/cognicore/arcana/pkg/arcana/facts"
	"github.com/cognicore/arcana/pkg/arcana/kb"
	"github.com/cognicore/arcana/pkg/arcana/timetag"
)

// Resolve decides the time tag of the fact a rule would derive from the
// given ingredients. It reports false when the ingredients do not satisfy
// the rule's time requirement.
//
// A rule naming a time keyword requires its carrier (the ingredient that is
// not a keyword) to sit in that slot; with allowMixed a Mixed carrier fits
// any slot. Rules without a keyword propagate the ingredients' common tag,
// or Mixed when they disagree.
func Resolve(ingredients []facts.Fact, rule kb.Rule, vocab timetag.Vocabulary, allowMixed bool) (timetag.Tag, bool) {
	for _, c := range rule.Conditions {
		required, ok := vocab.Tag(c)
		if !ok {
			continue
		}

		carrier, found := findCarrier(ingredients, vocab)
		if !found {
			return 0, false
		}
		if carrier.Tag == required || (allowMixed && carrier.Tag == timetag.Mixed) {
			return required, true
		}
		return 0, false
	}

	if len(ingredients) == 0 {
		return 0, false
	}
	tag := ingredients[0].Tag
	for _, f := range ingredients[1:] {
		if f.Tag != tag {
			return timetag.Mixed, true
		}
	}
	return tag, true
}

func findCarrier(ingredients []facts.Fact, vocab timetag.Vocabulary) (facts.Fact, bool) {
	for _, f := range ingredients {
		if !vocab.IsKeyword(f.Value) {
			return f, true
		}
	}
	return facts.Fact{}, false
}
