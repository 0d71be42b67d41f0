package components

import (
	"fmt"
	"strings"

	"github.com/yildizm/tabview/internal/emoji"
	"github.com/yildizm/tabview/internal/viewmodel"
)

// PageBar shows the current page as a filled bar
type PageBar struct {
	Width   int
	Page    int // 1-based
	Total   int
	Palette Palette
}

// NewPageBar creates a new page bar
func NewPageBar(width int) *PageBar {
	return &PageBar{Width: width, Palette: PlainPalette()}
}

// Render renders the page bar
func (p *PageBar) Render() string {
	if p.Total <= 0 || p.Width <= 0 {
		return ""
	}

	ratio := float64(p.Page) / float64(p.Total)
	if ratio > 1.0 {
		ratio = 1.0
	}

	filledWidth := int(float64(p.Width) * ratio)
	filled := strings.Repeat("█", filledWidth)
	empty := strings.Repeat("░", p.Width-filledWidth)

	return fmt.Sprintf("[%s%s] %d/%d", p.Palette.Selected.Render(filled), p.Palette.Muted.Render(empty), p.Page, p.Total)
}

// StatusBar summarizes the view state below the table
type StatusBar struct {
	Pager   *PageBar
	Palette Palette
}

// NewStatusBar creates a new status bar
func NewStatusBar(palette Palette) *StatusBar {
	pager := NewPageBar(10)
	pager.Palette = palette
	return &StatusBar{Pager: pager, Palette: palette}
}

// Render renders the counts, page position, sort and query of s
func (b *StatusBar) Render(s *viewmodel.Snapshot) string {
	if s == nil {
		return ""
	}

	parts := []string{fmt.Sprintf("%s %s", emoji.GetEmoji("rows"), rowRange(s))}

	if s.State.PageSize > 0 {
		b.Pager.Page, b.Pager.Total = s.Page(), s.PageCount
		parts = append(parts, emoji.GetEmoji("page")+" "+b.Pager.Render())
	}
	if s.State.Sort.Active() {
		parts = append(parts, fmt.Sprintf("%s %s", emoji.ForSort(s.State.Sort.Direction), s.State.Sort.Field))
	}
	if s.State.Query != "" {
		parts = append(parts, fmt.Sprintf("%s %q", emoji.GetEmoji("filter"), s.State.Query))
	}
	if s.State.SelectionMode != viewmodel.SelectionNone {
		parts = append(parts, fmt.Sprintf("%s %d selected (%s)", emoji.GetEmoji("selected"), len(s.SelectedRecords), s.State.SelectionMode))
	}

	return b.Palette.Muted.Render(strings.Join(parts, " · "))
}

// Message renders the latest view-model event
func (b *StatusBar) Message(e *viewmodel.Event) string {
	if e == nil {
		return ""
	}
	text := emoji.ForEvent(e.Kind) + " " + e.String()
	if e.Kind == viewmodel.EventSelectionCleared || e.Kind == viewmodel.EventSelectionPruned {
		return b.Palette.Warning.Render(text)
	}
	return b.Palette.Muted.Render(text)
}

func rowRange(s *viewmodel.Snapshot) string {
	if len(s.Rows) == 0 {
		return fmt.Sprintf("0 of %d rows", s.Filtered)
	}
	text := fmt.Sprintf("%d-%d of %d rows", s.RowOffset+1, s.RowOffset+len(s.Rows), s.Filtered)
	if s.Filtered != s.Total {
		text += fmt.Sprintf(" (%d total)", s.Total)
	}
	return text
}
