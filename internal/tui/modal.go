package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"
	"github.com/pkg/browser"

	"github.com/h0rv/prep/internal/notify"
)

const (
	modalMaxWidth = 90
	modalMinWidth = 40
)

// ModalModel displays the notification center's modal in a scrollable
// viewport. url, when set, is opened by "o".
type ModalModel struct {
	modal    notify.Modal
	url      string
	viewport viewport.Model
}

func newModalModel(modal notify.Modal, url string, width, height int) ModalModel {
	m := ModalModel{modal: modal, url: url, viewport: viewport.New(modalMinWidth, 10)}
	m.viewport.MouseWheelEnabled = true
	m.resize(width, height)
	return m
}

func (m *ModalModel) resize(width, height int) {
	if width == 0 {
		width = 100
	}
	if height == 0 {
		height = 30
	}
	w := min(max(width-10, modalMinWidth), modalMaxWidth)
	m.viewport.Width = w
	m.viewport.Height = max(height-12, 5)
	m.viewport.SetContent(wordwrap.String(m.modal.Body, w-2))
}

// Update handles messages.
func (m ModalModel) Update(msg tea.Msg) (ModalModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q", "enter":
			return m, func() tea.Msg { return CloseMsg{} }
		case "o":
			if m.url == "" {
				return m, nil
			}
			if err := browser.OpenURL(m.url); err != nil {
				url := m.url
				return m, func() tea.Msg { return openFailedMsg{url: url, err: err} }
			}
			return m, nil
		case "j", "down":
			m.viewport.LineDown(1)
			return m, nil
		case "k", "up":
			m.viewport.LineUp(1)
			return m, nil
		case "g":
			m.viewport.GotoTop()
			return m, nil
		case "G":
			m.viewport.GotoBottom()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the modal.
func (m ModalModel) View() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(m.modal.Title))
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n\n")

	hints := []string{"[esc]关闭", "[j/k]滚动"}
	if m.url != "" {
		hints = append(hints, "[o]浏览器打开")
	}
	footer := strings.Join(hints, " ")
	if m.viewport.TotalLineCount() > m.viewport.Height {
		footer += fmt.Sprintf("  %d%%", int(m.viewport.ScrollPercent()*100))
	}
	b.WriteString(dimStyle.Render(footer))
	return modalStyle.Render(b.String())
}
