package maintenance

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/cognicore/arcana/pkg/arcana/kb"
)

// RuleWriter persists a rendered rule base (file, stdout, etc.).
type RuleWriter interface {
	WriteRules(ctx context.Context, content string) error
}

// RuleExporter renders rules back to the line format kb.Parse reads.
type RuleExporter struct {
	Writer RuleWriter
	Header string
}

func (e *RuleExporter) Export(ctx context.Context, rules []kb.Rule) error {
	if e.Writer == nil {
		return fmt.Errorf("rule exporter: nil writer")
	}
	var b strings.Builder
	if e.Header != "" {
		for _, line := range strings.Split(e.Header, "\n") {
			b.WriteString(kb.CommentPrefix + " " + line + "\n")
		}
	}
	for _, r := range rules {
		fields := make([]string, 0, 5)
		fields = append(fields, sanitize(r.ID))
		for _, c := range r.Conditions {
			fields = append(fields, sanitize(c))
		}
		fields = append(fields, sanitize(r.Conclusion), sanitize(r.Explanation))
		b.WriteString(strings.Join(fields, kb.Delimiter+" ") + "\n")
	}
	return e.Writer.WriteRules(ctx, b.String())
}

// sanitize keeps a field from splitting the line it is written on.
func sanitize(s string) string {
	s = strings.ReplaceAll(s, kb.Delimiter, ",")
	return strings.Join(strings.Fields(s), " ")
}

// FileWriter writes the rule base to Path, replacing any previous content.
type FileWriter struct {
	Path string
}

func (w FileWriter) WriteRules(ctx context.Context, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.WriteFile(w.Path, []byte(content), 0o644)
}
