package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the browser key bindings
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	NextPage key.Binding
	PrevPage key.Binding
	Top      key.Binding
	Bottom   key.Binding
	Sort     key.Binding
	Select   key.Binding
	Clear    key.Binding
	Search   key.Binding
	Reset    key.Binding
	Grow     key.Binding
	Shrink   key.Binding
	Confirm  key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev column")),
		Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next column")),
		NextPage: key.NewBinding(key.WithKeys("n", "pgdown"), key.WithHelp("n/pgdn", "next page")),
		PrevPage: key.NewBinding(key.WithKeys("p", "pgup"), key.WithHelp("p/pgup", "prev page")),
		Top:      key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "first row")),
		Bottom:   key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "last row")),
		Sort:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort column")),
		Select:   key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space/x", "select")),
		Clear:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear selection")),
		Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Reset:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear filter or selection")),
		Grow:     key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "bigger pages")),
		Shrink:   key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "smaller pages")),
		Confirm:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "accept selection")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Sort, k.Select, k.NextPage, k.Confirm, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.Left, k.Right, k.Sort},
		{k.NextPage, k.PrevPage, k.Grow, k.Shrink},
		{k.Search, k.Reset, k.Select, k.Clear},
		{k.Confirm, k.Help, k.Quit},
	}
}
