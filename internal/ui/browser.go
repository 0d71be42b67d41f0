package ui

import (
	"fmt"
	"math"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yildizm/tabview/internal/emoji"
	"github.com/yildizm/tabview/internal/formatter"
	"github.com/yildizm/tabview/internal/logger"
	"github.com/yildizm/tabview/internal/record"
	"github.com/yildizm/tabview/internal/ui/components"
	"github.com/yildizm/tabview/internal/viewmodel"
)

const pageSizeStep = 5

// Options configures a Browser
type Options struct {
	Title  string
	View   []viewmodel.Option
	Format formatter.Options
	Logger *logger.Logger
}

// Browser is an interactive table over a TableViewModel
type Browser struct {
	vm     *viewmodel.TableViewModel
	table  *components.Table
	status *components.StatusBar
	search textinput.Model
	help   help.Model
	keys   keyMap
	styles *Styles
	log    *logger.Logger

	title       string
	width       int
	height      int
	searching   bool
	savedQuery  string
	lastEvent   *viewmodel.Event
	notice      string
	noticeIsErr bool
	confirmed   bool
	quitting    bool
}

// NewBrowser creates a browser over records
func NewBrowser(records []record.Record, opts Options) *Browser {
	styles := GetStyles()
	palette := components.Palette{
		Header:   styles.Header,
		Focus:    styles.Prompt.Underline(true),
		Cursor:   styles.Cursor,
		Selected: styles.Selected,
		Muted:    styles.Muted,
		Warning:  styles.Warning,
	}

	search := textinput.New()
	search.Prompt = emoji.GetEmoji("filter") + " "
	search.Placeholder = "filter rows"
	search.CharLimit = 256

	b := &Browser{
		table:  components.NewTable(opts.Format),
		status: components.NewStatusBar(palette),
		search: search,
		help:   help.New(),
		keys:   defaultKeyMap(),
		styles: styles,
		log:    opts.Logger.WithComponent("ui"),
		title:  opts.Title,
	}
	b.table.Palette = palette

	viewOpts := append(append([]viewmodel.Option{}, opts.View...),
		viewmodel.WithLogger(opts.Logger),
		viewmodel.WithListener(b.onEvent))
	b.vm = viewmodel.New(viewOpts...)
	b.vm.SetRecordSlice(records)
	b.lastEvent = nil
	b.refresh()

	return b
}

// ViewModel exposes the underlying view-model
func (b *Browser) ViewModel() *viewmodel.TableViewModel {
	return b.vm
}

// Confirmed reports whether the browser was closed by accepting the selection
func (b *Browser) Confirmed() bool {
	return b.confirmed
}

// Selected returns the selected records in display order
func (b *Browser) Selected() []record.Record {
	return b.vm.SelectedRecords()
}

// Init picks up view-model changes made before the program started
func (b *Browser) Init() tea.Cmd {
	b.refresh()
	return nil
}

// Update handles messages and key presses
func (b *Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.width, b.height = msg.Width, msg.Height
		b.table.Width = msg.Width
		b.help.Width = msg.Width
		return b, nil

	case RecordsMsg:
		b.vm.SetRecordSlice(msg.Records)
		b.setNotice(fmt.Sprintf("%s reloaded %d records from %s", emoji.GetEmoji("reload"), len(msg.Records), msg.Source), false)
		b.refresh()
		return b, nil

	case ErrorMsg:
		b.setNotice(emoji.GetEmoji("error")+" "+msg.Err.Error(), true)
		return b, nil

	case tea.KeyMsg:
		if b.searching {
			return b.handleSearchKey(msg)
		}
		return b.handleKey(msg)
	}

	return b, nil
}

func (b *Browser) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		b.searching = false
		b.search.Blur()
		return b, nil
	case tea.KeyEsc:
		b.searching = false
		b.search.Blur()
		b.search.SetValue(b.savedQuery)
		b.vm.SetQuery(b.savedQuery)
		b.refresh()
		return b, nil
	case tea.KeyCtrlC:
		b.quitting = true
		return b, tea.Quit
	}

	var cmd tea.Cmd
	b.search, cmd = b.search.Update(msg)
	b.vm.SetQuery(b.search.Value())
	b.refresh()
	return b, cmd
}

func (b *Browser) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, b.keys.Quit):
		b.quitting = true
		return b, tea.Quit

	case key.Matches(msg, b.keys.Confirm):
		b.confirmed = true
		b.quitting = true
		return b, tea.Quit

	case key.Matches(msg, b.keys.Search):
		b.searching = true
		b.savedQuery = b.vm.State().Query
		b.search.SetValue(b.savedQuery)
		b.search.CursorEnd()
		return b, b.search.Focus()

	case key.Matches(msg, b.keys.Reset):
		if b.vm.State().Query != "" {
			b.search.SetValue("")
			b.vm.SetQuery("")
		} else {
			b.vm.ClearSelection()
		}

	case key.Matches(msg, b.keys.Up):
		if !b.table.MoveUp() && b.vm.State().PageIndex > 0 {
			b.vm.PrevPage()
			b.refresh()
			b.table.CursorToBottom()
		}

	case key.Matches(msg, b.keys.Down):
		if !b.table.MoveDown() && b.vm.State().PageIndex < b.vm.PageCount()-1 {
			b.vm.NextPage()
			b.table.CursorToTop()
		}

	case key.Matches(msg, b.keys.Top):
		b.table.CursorToTop()

	case key.Matches(msg, b.keys.Bottom):
		b.table.CursorToBottom()

	case key.Matches(msg, b.keys.Left):
		b.table.MoveLeft()

	case key.Matches(msg, b.keys.Right):
		b.table.MoveRight()

	case key.Matches(msg, b.keys.NextPage):
		b.vm.NextPage()

	case key.Matches(msg, b.keys.PrevPage):
		b.vm.PrevPage()

	case key.Matches(msg, b.keys.Sort):
		b.cycleSort()

	case key.Matches(msg, b.keys.Select):
		if idx := b.table.CursorIndex(); idx >= 0 {
			b.vm.Select(idx)
		}

	case key.Matches(msg, b.keys.Clear):
		b.vm.ClearSelection()

	case key.Matches(msg, b.keys.Grow):
		if size := b.vm.State().PageSize; size > 0 {
			b.vm.SetPageSize(min(size, math.MaxInt-pageSizeStep) + pageSizeStep)
		}

	case key.Matches(msg, b.keys.Shrink):
		if size := b.vm.State().PageSize; size > 1 {
			b.vm.SetPageSize(max(1, size-pageSizeStep))
		}

	case key.Matches(msg, b.keys.Help):
		b.help.ShowAll = !b.help.ShowAll
	}

	b.refresh()
	return b, nil
}

// cycleSort advances the sort of the focused column through asc, desc and off
func (b *Browser) cycleSort() {
	field := b.table.FocusedField()
	if field == "" {
		return
	}
	current := b.vm.State().Sort
	direction := viewmodel.SortAscending
	if current.Field == field {
		direction = current.Direction.Next()
	}
	b.vm.SetSort(field, direction)
	b.log.Debug("sort set to %s", b.vm.State().Sort)
}

func (b *Browser) onEvent(e viewmodel.Event) {
	b.lastEvent = &e
	b.notice = ""
	b.log.Debug("view event: %s", e)
}

func (b *Browser) setNotice(text string, isErr bool) {
	b.notice = text
	b.noticeIsErr = isErr
	b.lastEvent = nil
}

func (b *Browser) refresh() {
	b.table.SetSnapshot(b.vm.Snapshot())
}

// View renders the browser
func (b *Browser) View() string {
	if b.quitting {
		return ""
	}

	sections := []string{b.renderTitle()}

	if b.searching {
		sections = append(sections, b.search.View())
	}

	sections = append(sections, b.table.Render(), "", b.status.Render(b.table.Snapshot))

	if line := b.renderNotice(); line != "" {
		sections = append(sections, line)
	}

	sections = append(sections, b.help.View(b.keys))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (b *Browser) renderTitle() string {
	title := "tabview"
	if b.title != "" {
		title += " · " + b.title
	}
	return b.styles.Title.Render(title)
}

func (b *Browser) renderNotice() string {
	if b.notice != "" {
		if b.noticeIsErr {
			return b.styles.Error.Render(b.notice)
		}
		return b.styles.Status.Render(b.notice)
	}
	return b.status.Message(b.lastEvent)
}

// NewProgram wraps b in a full-screen bubbletea program
func NewProgram(b *Browser, opts ...tea.ProgramOption) *tea.Program {
	return tea.NewProgram(b, append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)...)
}
