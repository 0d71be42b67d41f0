package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
	"github.com/mattn/go-runewidth"
	"github.com/yildizm/go-termfmt"

	"github.com/yildizm/tabview/internal/record"
	"github.com/yildizm/tabview/internal/viewmodel"
)

// formatNumber formats numbers with commas for readability
func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return addCommas(fmt.Sprintf("%d", n))
}

// addCommas adds commas to number strings
func addCommas(s string) string {
	if len(s) <= 3 {
		return s
	}
	return addCommas(s[:len(s)-3]) + "," + s[len(s)-3:]
}

// Closest returns the candidate nearest to target by edit distance.
// Matches further than half the target length (at least 2) are rejected.
func Closest(target string, candidates []string) (string, bool) {
	target = strings.ToLower(target)
	best, bestDistance := "", -1
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(target, strings.ToLower(c))
		if bestDistance < 0 || d < bestDistance {
			best, bestDistance = c, d
		}
	}
	if bestDistance < 0 || bestDistance > max(2, len(target)/2) {
		return "", false
	}
	return best, true
}

// cellText renders a value for a single table cell
func cellText(v any, opts Options) string {
	if t, ok := v.(time.Time); ok && opts.TimestampFormat != "" {
		return t.Format(opts.TimestampFormat)
	}
	s := record.Stringify(v)
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\t", " ").Replace(s)
}

// fieldText renders a record field, empty when absent
func fieldText(rec record.Record, field string, opts Options) string {
	v, ok := rec.Get(field)
	if !ok {
		return ""
	}
	return cellText(v, opts)
}

// truncate shortens s to width display cells, ending in an ellipsis
func truncate(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

func termOptions(opts Options) *termfmt.TerminalOptions {
	t := termfmt.DefaultOptions()
	t.Color = opts.Color
	t.Emoji = opts.Emoji
	return t
}

// summaryItems describes the view state as tree items
func summaryItems(s *viewmodel.Snapshot) []termfmt.TreeItem {
	query := s.State.Query
	if query == "" {
		query = "(none)"
	}
	return []termfmt.TreeItem{
		{Label: "Records", Value: formatNumber(s.Total)},
		{Label: "Matching", Value: formatNumber(s.Filtered)},
		{Label: "Query", Value: query},
		{Label: "Sort", Value: s.State.Sort.String()},
		{Label: "Page", Value: pageText(s)},
		{Label: "Selected", Value: formatNumber(len(s.SelectedRecords)), Last: true},
	}
}

func pageText(s *viewmodel.Snapshot) string {
	if s.State.PageSize <= 0 {
		return "all rows"
	}
	return fmt.Sprintf("%d of %d (%d per page)", s.Page(), s.PageCount, s.State.PageSize)
}

// Cell renders a record field truncated to opts.MaxCellWidth display columns
func Cell(rec record.Record, field string, opts Options) string {
	return truncate(fieldText(rec, field, opts), opts.MaxCellWidth)
}
