package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/yildizm/go-termfmt"

	"github.com/yildizm/tabview/internal/viewmodel"
)

// tableFormatter formats the visible page as an aligned text table
type tableFormatter struct {
	opts  Options
	topts *termfmt.TerminalOptions
}

// NewTable creates a new table formatter
func NewTable(opts Options) Formatter {
	return &tableFormatter{opts: opts, topts: termOptions(opts)}
}

func (f *tableFormatter) Format(s *viewmodel.Snapshot) ([]byte, error) {
	var b strings.Builder

	f.writeHeader(&b)
	f.writeSummary(&b, s)
	f.writeRows(&b, s)

	return []byte(b.String()), nil
}

// writeHeader writes a boxed title
func (f *tableFormatter) writeHeader(b *strings.Builder) {
	header := "Table View"
	headerLen := len(header)

	b.WriteString("╔" + strings.Repeat("═", headerLen+2) + "╗\n")
	b.WriteString("║ " + header + " ║\n")
	b.WriteString("╚" + strings.Repeat("═", headerLen+2) + "╝\n\n")
}

// writeSummary writes the view state with tree-style formatting using go-termfmt
func (f *tableFormatter) writeSummary(b *strings.Builder, s *viewmodel.Snapshot) {
	symbol := termfmt.GetEmoji("statistics", f.topts)
	b.WriteString(symbol + " Summary\n")
	b.WriteString(termfmt.TreeViewWithOptions(summaryItems(s), f.topts) + "\n\n")
}

// writeRows writes the column header and one line per visible row
func (f *tableFormatter) writeRows(b *strings.Builder, s *viewmodel.Snapshot) {
	if len(s.Rows) == 0 {
		b.WriteString("No matching rows\n")
		return
	}

	header := append([]string{"", "#"}, s.Fields...)
	cells := make([][]string, len(s.Rows))
	for i, rec := range s.Rows {
		row := make([]string, 0, len(header))
		marker := ""
		if s.IsSelected(i) {
			marker = "*"
		}
		row = append(row, marker, strconv.Itoa(s.RowOffset+i))
		for _, field := range s.Fields {
			row = append(row, truncate(fieldText(rec, field, f.opts), f.opts.MaxCellWidth))
		}
		cells[i] = row
	}

	widths := make([]int, len(header))
	for c, h := range header {
		header[c] = truncate(h, f.opts.MaxCellWidth)
		widths[c] = runewidth.StringWidth(header[c])
	}
	for _, row := range cells {
		for c, cell := range row {
			widths[c] = max(widths[c], runewidth.StringWidth(cell))
		}
	}

	f.writeLine(b, header, widths)
	rule := make([]string, len(widths))
	for c, w := range widths {
		rule[c] = strings.Repeat("─", w)
	}
	f.writeLine(b, rule, widths)
	for _, row := range cells {
		f.writeLine(b, row, widths)
	}

	fmt.Fprintf(b, "\nShowing %d-%d of %s matching rows · page %s\n",
		s.RowOffset+1, s.RowOffset+len(s.Rows), formatNumber(s.Filtered), pageText(s))
}

func (f *tableFormatter) writeLine(b *strings.Builder, cells []string, widths []int) {
	parts := make([]string, len(cells))
	for c, cell := range cells {
		parts[c] = runewidth.FillRight(cell, widths[c])
	}
	b.WriteString(strings.TrimRight(strings.Join(parts, "  "), " ") + "\n")
}
