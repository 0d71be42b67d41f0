package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/yildizm/tabview/internal/formatter"
	"github.com/yildizm/tabview/internal/viewmodel"
)

const (
	selectedMarker = "*"
	columnGap      = "  "
)

// Palette holds the styles components render with. Components take their
// styles from the caller to avoid an import cycle with the ui package.
type Palette struct {
	Header   lipgloss.Style
	Focus    lipgloss.Style
	Cursor   lipgloss.Style
	Selected lipgloss.Style
	Muted    lipgloss.Style
	Warning  lipgloss.Style
}

// PlainPalette returns a palette that renders unstyled text
func PlainPalette() Palette {
	plain := lipgloss.NewStyle()
	return Palette{Header: plain, Focus: plain, Cursor: plain, Selected: plain, Muted: plain, Warning: plain}
}

// Table renders one page of a view-model snapshot with a row cursor and a
// focused column
type Table struct {
	Snapshot *viewmodel.Snapshot
	Cursor   int // row within the page
	Column   int // index into Snapshot.Fields
	Width    int // 0 renders every column
	Options  formatter.Options
	Palette  Palette
}

// NewTable creates a new table component
func NewTable(opts formatter.Options) *Table {
	return &Table{
		Options: opts,
		Palette: PlainPalette(),
	}
}

// SetSnapshot replaces the rendered snapshot and keeps cursor and column in range
func (t *Table) SetSnapshot(s *viewmodel.Snapshot) {
	t.Snapshot = s
	t.clamp()
}

func (t *Table) clamp() {
	rows, cols := 0, 0
	if t.Snapshot != nil {
		rows, cols = len(t.Snapshot.Rows), len(t.Snapshot.Fields)
	}
	t.Cursor = min(max(t.Cursor, 0), max(rows-1, 0))
	t.Column = min(max(t.Column, 0), max(cols-1, 0))
}

// MoveUp moves the cursor up, reporting false at the top of the page
func (t *Table) MoveUp() bool {
	if t.Cursor > 0 {
		t.Cursor--
		return true
	}
	return false
}

// MoveDown moves the cursor down, reporting false at the bottom of the page
func (t *Table) MoveDown() bool {
	if t.Snapshot != nil && t.Cursor < len(t.Snapshot.Rows)-1 {
		t.Cursor++
		return true
	}
	return false
}

// MoveLeft focuses the previous column
func (t *Table) MoveLeft() {
	if t.Column > 0 {
		t.Column--
	}
}

// MoveRight focuses the next column
func (t *Table) MoveRight() {
	if t.Snapshot != nil && t.Column < len(t.Snapshot.Fields)-1 {
		t.Column++
	}
}

// CursorToTop moves the cursor to the first row
func (t *Table) CursorToTop() {
	t.Cursor = 0
}

// CursorToBottom moves the cursor to the last row of the page
func (t *Table) CursorToBottom() {
	t.Cursor = 1 << 30
	t.clamp()
}

// FocusedField returns the field under the column focus, empty without fields
func (t *Table) FocusedField() string {
	if t.Snapshot == nil || len(t.Snapshot.Fields) == 0 {
		return ""
	}
	return t.Snapshot.Fields[t.Column]
}

// CursorIndex returns the cursor position in the filtered and sorted
// sequence, or -1 when the page is empty
func (t *Table) CursorIndex() int {
	if t.Snapshot == nil || len(t.Snapshot.Rows) == 0 {
		return -1
	}
	return t.Snapshot.RowOffset + t.Cursor
}

// Render renders the table
func (t *Table) Render() string {
	if t.Snapshot == nil || len(t.Snapshot.Fields) == 0 {
		return t.Palette.Muted.Render("No records loaded")
	}

	s := t.Snapshot
	headers := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		headers[i] = f + sortIndicator(s.State.Sort, f)
	}

	cells := make([][]string, len(s.Rows))
	for r, rec := range s.Rows {
		row := make([]string, len(s.Fields))
		for c, f := range s.Fields {
			row[c] = formatter.Cell(rec, f, t.Options)
		}
		cells[r] = row
	}

	widths := make([]int, len(s.Fields))
	for c, h := range headers {
		widths[c] = runewidth.StringWidth(h)
		for _, row := range cells {
			widths[c] = max(widths[c], runewidth.StringWidth(row[c]))
		}
	}

	indexWidth := len(strconv.Itoa(max(s.RowOffset+len(s.Rows)-1, 0)))
	first, last := t.visibleColumns(widths, indexWidth)

	lines := make([]string, 0, len(s.Rows)+1)

	var header strings.Builder
	header.WriteString(" " + columnGap + runewidth.FillRight("#", indexWidth))
	for c := first; c <= last; c++ {
		header.WriteString(columnGap)
		text := runewidth.FillRight(headers[c], widths[c])
		if c == t.Column {
			header.WriteString(t.Palette.Focus.Render(text))
		} else {
			header.WriteString(t.Palette.Header.Render(text))
		}
	}
	lines = append(lines, header.String())

	if len(s.Rows) == 0 {
		lines = append(lines, t.Palette.Muted.Render("No matching rows"))
		return strings.Join(lines, "\n")
	}

	for r, row := range cells {
		marker := " "
		if s.IsSelected(r) {
			marker = selectedMarker
		}

		var line strings.Builder
		line.WriteString(marker + columnGap)
		line.WriteString(runewidth.FillLeft(strconv.Itoa(s.RowOffset+r), indexWidth))
		for c := first; c <= last; c++ {
			line.WriteString(columnGap + runewidth.FillRight(row[c], widths[c]))
		}

		text := line.String()
		switch {
		case r == t.Cursor:
			text = t.Palette.Cursor.Render(text)
		case s.IsSelected(r):
			text = t.Palette.Selected.Render(text)
		}
		lines = append(lines, text)
	}

	return strings.Join(lines, "\n")
}

// visibleColumns picks the column range that fits Width while keeping the
// focused column on screen
func (t *Table) visibleColumns(widths []int, indexWidth int) (first, last int) {
	if len(widths) == 0 {
		return 0, -1
	}
	if t.Width <= 0 {
		return 0, len(widths) - 1
	}

	gap := runewidth.StringWidth(columnGap)
	budget := t.Width - (1 + gap + indexWidth)
	span := func(from, to int) int {
		total := 0
		for c := from; c <= to; c++ {
			total += gap + widths[c]
		}
		return total
	}

	first = 0
	for first < t.Column && span(first, t.Column) > budget {
		first++
	}
	last = t.Column
	for last+1 < len(widths) && span(first, last+1) <= budget {
		last++
	}
	return first, last
}

func sortIndicator(spec viewmodel.SortSpec, field string) string {
	if spec.Field != field {
		return ""
	}
	switch spec.Direction {
	case viewmodel.SortAscending:
		return " ▲"
	case viewmodel.SortDescending:
		return " ▼"
	default:
		return ""
	}
}
