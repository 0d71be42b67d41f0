package ui

import (
	"errors"
	"math"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yildizm/tabview/internal/emoji"
	"github.com/yildizm/tabview/internal/formatter"
	"github.com/yildizm/tabview/internal/record"
	"github.com/yildizm/tabview/internal/viewmodel"
)

func people() []record.Record {
	return []record.Record{
		{"id": 1, "name": "Bob"},
		{"id": 2, "name": "alice"},
		{"id": 3, "name": "Carol"},
	}
}

func newTestBrowser(t *testing.T, view ...viewmodel.Option) *Browser {
	t.Helper()
	emoji.SetEmojiDisabled(true)
	t.Cleanup(func() { emoji.SetEmojiDisabled(false) })
	return NewBrowser(people(), Options{Title: "people.json", View: view, Format: formatter.DefaultOptions()})
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(b *Browser, msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = b.Update(msg)
	}
	return cmd
}

func names(rows []record.Record) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = record.Stringify(r["name"])
	}
	return out
}

func TestBrowserSearch(t *testing.T) {
	b := newTestBrowser(t)

	press(b, runes("/"))
	assert.True(t, b.searching)

	press(b, runes("c"))
	assert.Equal(t, "c", b.vm.State().Query)
	assert.Equal(t, []string{"alice", "Carol"}, names(b.vm.Rows()))

	press(b, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, b.searching)
	assert.False(t, b.Confirmed(), "enter while searching only commits the filter")

	press(b, runes("/"), runes("a"))
	assert.Equal(t, "ca", b.vm.State().Query)
	press(b, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, "c", b.vm.State().Query, "esc restores the previous filter")

	press(b, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, "", b.vm.State().Query)
	assert.Equal(t, 3, b.vm.FilteredCount())

	press(b, runes("x"))
	require.Len(t, b.vm.SelectedIndices(), 1)
	press(b, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Empty(t, b.vm.SelectedIndices(), "esc without a filter clears the selection")
}

func TestBrowserSearchTypesQuitKey(t *testing.T) {
	b := newTestBrowser(t)

	press(b, runes("/"), runes("q"))
	assert.False(t, b.quitting)
	assert.Equal(t, "q", b.vm.State().Query)
}

func TestBrowserSortCycle(t *testing.T) {
	b := newTestBrowser(t)

	press(b, runes("l"))
	require.Equal(t, "name", b.table.FocusedField())

	press(b, runes("s"))
	assert.Equal(t, []string{"alice", "Bob", "Carol"}, names(b.vm.Rows()))
	press(b, runes("s"))
	assert.Equal(t, []string{"Carol", "Bob", "alice"}, names(b.vm.Rows()))
	press(b, runes("s"))
	assert.Equal(t, []string{"Bob", "alice", "Carol"}, names(b.vm.Rows()))
	assert.False(t, b.vm.State().Sort.Active())

	press(b, runes("h"), runes("s"))
	assert.Equal(t, "id:asc", b.vm.State().Sort.String())
}

func TestBrowserSelectAndConfirm(t *testing.T) {
	b := newTestBrowser(t)

	press(b, runes("x"), runes("j"), runes("j"), tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	assert.Equal(t, []int{0, 2}, b.vm.SelectedIndices())

	cmd := press(b, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.True(t, b.Confirmed())
	assert.Equal(t, []string{"Bob", "Carol"}, names(b.Selected()))
	assert.Equal(t, "", b.View())
}

func TestBrowserSingleSelection(t *testing.T) {
	b := newTestBrowser(t, viewmodel.WithSelectionMode(viewmodel.SelectionSingle))

	press(b, runes("x"), runes("j"), runes("x"))
	assert.Equal(t, []int{1}, b.vm.SelectedIndices())

	press(b, runes("c"))
	assert.Empty(t, b.vm.SelectedIndices())
}

func TestBrowserPaging(t *testing.T) {
	b := newTestBrowser(t, viewmodel.WithPageSize(1))

	press(b, runes("j"))
	assert.Equal(t, 1, b.vm.State().PageIndex, "moving past the last row turns the page")
	press(b, runes("n"), runes("n"))
	assert.Equal(t, 2, b.vm.State().PageIndex)
	press(b, runes("p"))
	assert.Equal(t, 1, b.vm.State().PageIndex)
	press(b, runes("k"))
	assert.Equal(t, 0, b.vm.State().PageIndex)
	assert.Equal(t, 0, b.table.CursorIndex())

	press(b, runes("+"))
	assert.Equal(t, 6, b.vm.State().PageSize)
	press(b, runes("-"), runes("-"))
	assert.Equal(t, 1, b.vm.State().PageSize)
}

func TestBrowserShowsSelectionEvents(t *testing.T) {
	b := newTestBrowser(t)

	press(b, runes("x"))
	assert.Contains(t, b.View(), "[x] selection changed: 1 selected")

	press(b, runes("/"), runes("c"))
	assert.Empty(t, b.vm.SelectedIndices())
	assert.Contains(t, b.View(), "[CLR] selection cleared after query change")
}

func TestBrowserMessages(t *testing.T) {
	b := newTestBrowser(t)

	press(b, RecordsMsg{Records: people()[:1], Source: "people.json"})
	assert.Equal(t, 1, b.vm.TotalCount())
	assert.Contains(t, b.View(), "[RLD] reloaded 1 records from people.json")

	press(b, ErrorMsg{Err: errors.New("boom")})
	assert.Contains(t, b.View(), "[ERR] boom")

	press(b, tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Equal(t, 120, b.table.Width)
}

func TestBrowserQuitAndHelp(t *testing.T) {
	b := newTestBrowser(t)

	view := b.View()
	assert.Contains(t, view, "tabview · people.json")
	assert.Contains(t, view, "[ROWS] 1-3 of 3 rows")

	press(b, runes("?"))
	assert.True(t, b.help.ShowAll)
	assert.Contains(t, b.View(), "clear selection")

	cmd := press(b, runes("q"))
	require.NotNil(t, cmd)
	assert.False(t, b.Confirmed())
}

func TestThemes(t *testing.T) {
	defer SetThemeByName("default")

	for _, name := range GetAvailableThemes() {
		assert.True(t, SetThemeByName(name))
		assert.Equal(t, name, GetTheme().Name)
	}
	assert.False(t, SetThemeByName("neon"))
}

func TestBrowserInitPicksUpExternalChanges(t *testing.T) {
	b := newTestBrowser(t, viewmodel.WithPageSize(2))

	b.ViewModel().SetPage(1)
	assert.Nil(t, b.Init())
	assert.Equal(t, []string{"Carol"}, names(b.table.Snapshot.Rows))
	assert.Contains(t, b.View(), "[ROWS] 3-3 of 3 rows")
}

func TestBrowserGrowStopsAtMaxPageSize(t *testing.T) {
	b := newTestBrowser(t, viewmodel.WithPageSize(math.MaxInt-2))

	press(b, runes("+"))
	assert.Equal(t, math.MaxInt, b.vm.State().PageSize)
	assert.Equal(t, 0, b.vm.State().PageIndex)
	assert.Len(t, b.vm.VisibleRows(), 3)
}
