package tui

import (
	"cmp"
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/h0rv/prep/internal/domain"
	"github.com/h0rv/prep/internal/render"
	"github.com/h0rv/prep/internal/store"
)

// filterItem wraps one filter value for use in bubbles/list.
type filterItem struct {
	label string
	value string
	count int
}

func (i filterItem) FilterValue() string { return i.label }
func (i filterItem) Title() string       { return i.label }
func (i filterItem) Description() string { return fmt.Sprintf("%d 项", i.count) }

// filterDelegate renders filter items.
type filterDelegate struct{}

func (d filterDelegate) Height() int                             { return 1 }
func (d filterDelegate) Spacing() int                            { return 0 }
func (d filterDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d filterDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(filterItem)
	if !ok {
		return
	}

	str := fmt.Sprintf("%d. %s", index+1, i.Title())
	desc := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("  " + i.Description())
	if index == m.Index() {
		fmt.Fprint(w, SelectedItemStyle.Render("> "+str)+desc)
	} else {
		fmt.Fprint(w, NormalItemStyle.Render("  "+str)+desc)
	}
}

// FilterPickerModel lists the values of one filter kind (difficulty or
// category) found in a collection, plus "全部" to clear the filter.
type FilterPickerModel struct {
	kind store.FilterKind
	list list.Model
}

// NewFilterPickerModel builds the picker from the items currently loaded.
// current preselects the active value.
func NewFilterPickerModel(kind store.FilterKind, items []domain.Item, current string) FilterPickerModel {
	options := filterOptions(kind, items)
	listItems := make([]list.Item, len(options))
	selected := 0
	for i, o := range options {
		listItems[i] = o
		if o.value == current {
			selected = i
		}
	}

	l := list.New(listItems, filterDelegate{}, 40, min(len(options)+6, 20))
	l.Title = filterTitle(kind)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = TitleStyle
	l.Select(selected)

	return FilterPickerModel{kind: kind, list: l}
}

func filterTitle(kind store.FilterKind) string {
	if kind == store.FilterCategory {
		return "按分类筛选"
	}
	return "按难度筛选"
}

// filterOptions returns "全部" followed by the distinct values of the field,
// difficulties in easy/medium/hard order and categories alphabetically.
func filterOptions(kind store.FilterKind, items []domain.Item) []filterItem {
	counts := make(map[string]int)
	for _, it := range items {
		var v string
		switch kind {
		case store.FilterDifficulty:
			v = it.DifficultyText()
		case store.FilterCategory:
			v = it.CategoryText()
		}
		if v != "" {
			counts[v]++
		}
	}

	values := make([]string, 0, len(counts))
	for v := range counts {
		values = append(values, v)
	}
	if kind == store.FilterDifficulty {
		for _, d := range []string{domain.DifficultyEasy, domain.DifficultyMedium, domain.DifficultyHard} {
			if _, ok := counts[d]; !ok {
				values = append(values, d)
			}
		}
		rank := map[string]int{domain.ClassEasy: 0, domain.ClassMedium: 1, domain.ClassHard: 2}
		slices.SortFunc(values, func(a, b string) int {
			if c := cmp.Compare(rank[domain.DifficultyClass(a)], rank[domain.DifficultyClass(b)]); c != 0 {
				return c
			}
			return cmp.Compare(a, b)
		})
	} else {
		slices.Sort(values)
	}

	options := []filterItem{{label: "全部", value: domain.FilterAll, count: len(items)}}
	for _, v := range values {
		options = append(options, filterItem{label: render.Sanitize(v), value: v, count: counts[v]})
	}
	return options
}

// Init initializes the model.
func (m FilterPickerModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m FilterPickerModel) Update(msg tea.Msg) (FilterPickerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc":
			return m, func() tea.Msg { return CloseMsg{} }
		case "enter":
			if item, ok := m.list.SelectedItem().(filterItem); ok {
				f := store.FilterState{Kind: m.kind, Value: item.value}
				return m, func() tea.Msg { return FilterSelectedMsg{Filter: f} }
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the model.
func (m FilterPickerModel) View() string {
	return modalStyle.Render(m.list.View())
}
