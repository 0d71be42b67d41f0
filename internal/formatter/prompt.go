package formatter

import (
	"fmt"
	"strings"

	"github.com/yildizm/go-promptfmt"

	"github.com/yildizm/tabview/internal/viewmodel"
)

// promptFormatter renders the visible rows as an LLM-ready prompt
type promptFormatter struct {
	opts Options
}

// NewPrompt creates a new prompt formatter
func NewPrompt(opts Options) Formatter {
	return &promptFormatter{opts: opts}
}

func (f *promptFormatter) Format(s *viewmodel.Snapshot) ([]byte, error) {
	pb := promptfmt.New().
		System("You are a data analyst. Answer questions using only the table rows provided; cite rows by their # index.").
		User("Review this table view.\n\nShowing %d of %d matching records (%d total), sorted by %s.\n\n%s",
			len(s.Rows), s.Filtered, s.Total, s.State.Sort.String(), f.rowsBlock(s))

	if s.State.Query != "" {
		pb.AddContext("filter", fmt.Sprintf("Rows contain %q in at least one field", s.State.Query))
	}
	pb.AddContext("columns", strings.Join(s.Fields, ", "))
	if len(s.SelectedRecords) > 0 {
		pb.AddContext("selected", f.selectedBlock(s))
	}

	prompt := pb.Build()
	return []byte(prompt.String()), nil
}

// rowsBlock lists visible rows as "#index field=value ..." lines
func (f *promptFormatter) rowsBlock(s *viewmodel.Snapshot) string {
	if len(s.Rows) == 0 {
		return "No rows match."
	}
	var b strings.Builder
	b.WriteString("Rows:\n")
	for i, rec := range s.Rows {
		fmt.Fprintf(&b, "#%d", s.RowOffset+i)
		for _, field := range s.Fields {
			if v, ok := rec.Get(field); ok {
				fmt.Fprintf(&b, " %s=%s", field, cellText(v, f.opts))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (f *promptFormatter) selectedBlock(s *viewmodel.Snapshot) string {
	lines := make([]string, 0, len(s.SelectedRecords))
	for i, rec := range s.SelectedRecords {
		parts := make([]string, 0, len(s.Fields))
		for _, field := range s.Fields {
			if v, ok := rec.Get(field); ok {
				parts = append(parts, field+"="+cellText(v, f.opts))
			}
		}
		lines = append(lines, fmt.Sprintf("selection %d: %s", s.State.Selection[i], strings.Join(parts, " ")))
	}
	return strings.Join(lines, "\n")
}
