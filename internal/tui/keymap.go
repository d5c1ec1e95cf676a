package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings of the dashboard.
type KeyMap struct {
	// Navigation
	NextTab key.Binding
	PrevTab key.Binding
	Tabs    key.Binding
	Up      key.Binding
	Down    key.Binding
	PageUp  key.Binding
	PageDn  key.Binding

	// Views
	Search  key.Binding
	Filter  key.Binding
	Refresh key.Binding
	Detail  key.Binding
	Open    key.Binding

	// Mutations
	Toggle   key.Binding
	Solve    key.Binding
	New      key.Binding
	Edit     key.Binding
	Delete   key.Binding
	Optimize key.Binding
	Export   key.Binding
	Versions key.Binding
	Answer   key.Binding
	Sync     key.Binding
	Report   key.Binding

	Help  key.Binding
	Quit  key.Binding
	Close key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next page"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous page"),
		),
		Tabs: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5"),
			key.WithHelp("1-5", "jump to page"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "previous row"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "next row"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("pgup", "scroll up"),
		),
		PageDn: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("pgdn", "scroll down"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search problems"),
		),
		Filter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "filter"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh page"),
		),
		Detail: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "details"),
		),
		Open: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open in browser"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "mark done"),
		),
		Solve: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "submit solution"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new résumé"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit résumé"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete résumé"),
		),
		Optimize: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "optimise for a job"),
		),
		Export: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "export PDF"),
		),
		Versions: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "version history"),
		),
		Answer: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "answer question"),
		),
		Sync: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sync problems"),
		),
		Report: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "export report"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
	}
}

// ShortHelp returns key bindings to be shown in the mini help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tabs, k.Refresh, k.Help, k.Quit}
}

// FullHelp returns every binding, grouped by concern.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tabs, k.NextTab, k.PrevTab, k.Up, k.Down, k.PageUp, k.PageDn},
		{k.Search, k.Filter, k.Refresh, k.Detail, k.Open, k.Toggle, k.Solve, k.Sync},
		{k.New, k.Edit, k.Delete, k.Optimize, k.Export, k.Versions},
		{k.Answer, k.Report, k.Help, k.Close, k.Quit},
	}
}
