package kb

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/cognicore/arcana/pkg/arcana/timetag"
)

func TestParse(t *testing.T) {
	src := `
// Level 1: cards
факт1; 0 Шут ; Спонтанность; Шут означает начало
факт2;I Маг;Воля;Маг означает волю

// Level 2: synthesis
синтез1; Спонтанность; Воля; Дерзкий старт; Воля и спонтанность
время1; Дерзкий старт; Будущее; Новое дело, начатое смело, принесёт плоды; Будущее
too;few;fields
a;b;c;d;e;f
`
	rules, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	want := []Rule{
		{ID: "факт1", Conditions: []string{"0 Шут"}, Conclusion: "Спонтанность", Explanation: "Шут означает начало"},
		{ID: "факт2", Conditions: []string{"I Маг"}, Conclusion: "Воля", Explanation: "Маг означает волю"},
		{ID: "синтез1", Conditions: []string{"Спонтанность", "Воля"}, Conclusion: "Дерзкий старт", Explanation: "Воля и спонтанность"},
		{ID: "время1", Conditions: []string{"Дерзкий старт", "Будущее"}, Conclusion: "Новое дело, начатое смело, принесёт плоды", Explanation: "Будущее"},
	}

	if !reflect.DeepEqual(rules, want) {
		t.Fatalf("Parse mismatch:\ngot  %v\nwant %v", rules, want)
	}
	if rules[0].IsSynthesis() || !rules[2].IsSynthesis() {
		t.Error("IsSynthesis wrong")
	}
}

func TestParseIndentedComment(t *testing.T) {
	rules, err := Parse(strings.NewReader("   // r; a; b; c\n\ufeffr; a; b; c\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(rules) != 1 || rules[0].ID != "r" {
		t.Fatalf("expected only the uncommented rule, got %v", rules)
	}
}

func TestParseSkipsOversizedLine(t *testing.T) {
	huge := "big;" + strings.Repeat("x", 2*MaxLineBytes) + ";y;e"
	input := "f1;CardX;TraitA;e\r\n" + huge + "\n" + "f2;CardY;TraitB;e"

	rules, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(rules) != 2 || rules[0].ID != "f1" || rules[1].ID != "f2" {
		t.Fatalf("expected f1 and f2 around the skipped line, got %v", rules)
	}
	if rules[0].Explanation != "e" {
		t.Errorf("line terminator leaked into %q", rules[0].Explanation)
	}
}

func TestLoadFileMissing(t *testing.T) {
	rules, err := LoadFile(filepath.Join(t.TempDir(), "missing.txt"))
	if err != nil {
		t.Fatalf("missing file should not be an error: %v", err)
	}
	if len(rules) != 0 {
		t.Errorf("expected empty rule base, got %d rules", len(rules))
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "database.txt")
	content := "f1;CardX;TraitA;expl1\nf2;CardY;TraitB;expl2\nr1;TraitA;TraitB;Insight;expl3\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	rules, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(rules) != 3 {
		t.Fatalf("expected 3 rules, got %d", len(rules))
	}
	if rules[2].Conclusion != "Insight" {
		t.Errorf("rule order not preserved: %v", rules)
	}
}

func TestConcluding(t *testing.T) {
	rules := []Rule{
		{ID: "g1", Conditions: []string{"X"}, Conclusion: "G"},
		{ID: "h1", Conditions: []string{"X"}, Conclusion: "H"},
		{ID: "g2", Conditions: []string{"Y"}, Conclusion: "G"},
	}
	got := Concluding(rules, "G")
	if len(got) != 2 || got[0].ID != "g1" || got[1].ID != "g2" {
		t.Errorf("Concluding(G) = %v", got)
	}
	if Concluding(rules, "Z") != nil {
		t.Error("expected nil for unknown goal")
	}
}

func TestDeck(t *testing.T) {
	rules := []Rule{
		{ID: "Факт3", Conditions: []string{"II Жрица"}, Conclusion: "Интуиция"},
		{ID: "факт1", Conditions: []string{"0 Шут"}, Conclusion: "Спонтанность"},
		{ID: "факт2", Conditions: []string{"0 Шут"}, Conclusion: "Наивность"},
		{ID: "синтез1", Conditions: []string{"Спонтанность"}, Conclusion: "Риск"},
		{ID: "факт9", Conditions: []string{"a", "b"}, Conclusion: "c"},
	}

	got := Deck(rules, "факт")
	want := []string{"0 Шут", "II Жрица"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Deck = %v, want %v", got, want)
	}

	if all := Deck(rules, ""); len(all) != 3 {
		t.Errorf("Deck with empty prefix = %v", all)
	}
	if all := Deck(rules, "card"); len(all) != 3 {
		t.Errorf("Deck with an unused prefix = %v, want every unary rule", all)
	}
}

func TestLintWithForeignDeckPrefix(t *testing.T) {
	rules := []Rule{
		{ID: "f1", Conditions: []string{"CardX"}, Conclusion: "TraitA"},
		{ID: "f2", Conditions: []string{"CardY"}, Conclusion: "TraitB"},
		{ID: "r1", Conditions: []string{"TraitA", "TraitB"}, Conclusion: "Insight"},
	}
	if issues := Lint(rules, timetag.English, "факт"); len(issues) != 0 {
		t.Errorf("expected a clean rule base, got %v", issues)
	}
}

func TestLint(t *testing.T) {
	rules := []Rule{
		{ID: "f1", Conditions: []string{"CardX"}, Conclusion: "TraitA"},
		{ID: "r1", Conditions: []string{"TraitA", "Future"}, Conclusion: "Insight"},
		{ID: "r2", Conditions: []string{"TraitA", "Ghost"}, Conclusion: "Nothing"},
		{ID: "r2", Conditions: []string{"Past", "Future"}, Conclusion: "Never"},
	}

	issues := Lint(rules, timetag.English, "f")
	if len(issues) != 3 {
		t.Fatalf("expected 3 issues, got %v", issues)
	}
	if issues[0].RuleID != "r2" || !strings.Contains(issues[0].Message, "Ghost") {
		t.Errorf("unexpected first issue: %v", issues[0])
	}
	if !strings.Contains(issues[1].Message, "duplicate") {
		t.Errorf("expected duplicate id issue, got %v", issues[1])
	}
	if !strings.Contains(issues[2].Message, "time keywords") {
		t.Errorf("expected keyword issue, got %v", issues[2])
	}
}
