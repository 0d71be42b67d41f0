package formatter

import (
	"fmt"
	"strings"

	"github.com/yildizm/tabview/internal/viewmodel"
)

// markdownFormatter formats output as Markdown
type markdownFormatter struct {
	opts Options
}

// NewMarkdown creates a new Markdown formatter
func NewMarkdown(opts Options) Formatter {
	return &markdownFormatter{opts: opts}
}

func (f *markdownFormatter) Format(s *viewmodel.Snapshot) ([]byte, error) {
	var b strings.Builder

	b.WriteString("# Table View\n\n")
	f.writeSummaryTable(&b, s)
	f.writeRowsTable(&b, s)

	return []byte(b.String()), nil
}

// writeSummaryTable writes the view state as a two-column table
func (f *markdownFormatter) writeSummaryTable(b *strings.Builder, s *viewmodel.Snapshot) {
	b.WriteString("## Summary\n\n")
	b.WriteString("| Metric | Value |\n")
	b.WriteString("|--------|-------|\n")
	for _, item := range summaryItems(s) {
		fmt.Fprintf(b, "| %s | %s |\n", item.Label, escapeMarkdown(item.Value))
	}
	b.WriteString("\n")
}

// writeRowsTable writes the visible page as a pipe table
func (f *markdownFormatter) writeRowsTable(b *strings.Builder, s *viewmodel.Snapshot) {
	b.WriteString("## Rows\n\n")
	if len(s.Rows) == 0 {
		b.WriteString("_No matching rows._\n")
		return
	}

	header := append([]string{"Selected", "#"}, s.Fields...)
	b.WriteString("| " + strings.Join(escapeAll(header), " | ") + " |\n")
	b.WriteString("|" + strings.Repeat("---|", len(header)) + "\n")

	for i, rec := range s.Rows {
		cells := make([]string, 0, len(header))
		mark := ""
		if s.IsSelected(i) {
			mark = "✓"
		}
		cells = append(cells, mark, fmt.Sprintf("%d", s.RowOffset+i))
		for _, field := range s.Fields {
			cells = append(cells, escapeMarkdown(fieldText(rec, field, f.opts)))
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
}

func escapeAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = escapeMarkdown(v)
	}
	return out
}

// escapeMarkdown escapes pipe characters that would split a table cell
func escapeMarkdown(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
