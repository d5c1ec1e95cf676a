package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/h0rv/prep/internal/coord"
)

// HelpOverlayStyle is the frame of the full help overlay.
var HelpOverlayStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("62")).
	Padding(1, 2).
	MarginTop(1)

// pageKeys narrows the key map to the bindings a page reacts to.
type pageKeys struct {
	k    KeyMap
	page coord.PageID
}

func (p pageKeys) ShortHelp() []key.Binding { return p.k.ShortHelp() }

func (p pageKeys) FullHelp() [][]key.Binding {
	k := p.k
	nav := []key.Binding{k.Tabs, k.NextTab, k.PrevTab, k.Up, k.Down, k.PageUp, k.PageDn}
	global := []key.Binding{k.Refresh, k.Help, k.Close, k.Quit}

	var page []key.Binding
	switch p.page {
	case coord.PageProblems:
		page = []key.Binding{k.Search, k.Filter, k.Detail, k.Open, k.Toggle, k.Solve, k.Sync}
	case coord.PageInterview:
		page = []key.Binding{k.Filter, k.Detail, k.Answer}
	case coord.PageResumes:
		page = []key.Binding{k.New, k.Detail, k.Edit, k.Delete, k.Optimize, k.Export, k.Versions}
	case coord.PageAnalytics:
		page = []key.Binding{k.Report}
	}

	if len(page) == 0 {
		return [][]key.Binding{nav, global}
	}
	return [][]key.Binding{nav, page, global}
}

// HelpModel renders the footer hint and the page-specific help overlay.
type HelpModel struct {
	help   help.Model
	keymap KeyMap
}

// NewHelpModel creates a help model over keymap.
func NewHelpModel(keymap KeyMap) HelpModel {
	return HelpModel{help: help.New(), keymap: keymap}
}

// View renders the overlay listing the keys active on page.
func (m HelpModel) View(width int, page coord.PageID) string {
	m.help.ShowAll = true
	m.help.Width = width - 8 // padding and border
	return HelpOverlayStyle.Render(m.help.View(pageKeys{k: m.keymap, page: page}))
}

// ShortView renders the one-line footer hint.
func (m HelpModel) ShortView(width int) string {
	m.help.ShowAll = false
	m.help.Width = width
	return m.help.View(m.keymap)
}
