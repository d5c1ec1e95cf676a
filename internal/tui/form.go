package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/h0rv/prep/internal/coord"
	"github.com/h0rv/prep/internal/domain"
	"github.com/h0rv/prep/internal/render"
)

// formField is one labelled input. Exactly one of input and area is used.
type formField struct {
	key       string
	label     string
	multiline bool
	input     textinput.Model
	area      textarea.Model
}

func (f formField) value() string {
	if f.multiline {
		return f.area.Value()
	}
	return f.input.Value()
}

// buildFunc turns the submitted values into a mutation payload.
type buildFunc func(values map[string]string) (any, error)

// FormModel collects the payload of one mutation. It stays open while the
// mutation is in flight and after a failure; the app closes it on success.
type FormModel struct {
	title  string
	kind   coord.MutationKind
	fields []formField
	build  buildFunc
	focus  int

	spinner    spinner.Model
	submitting bool
	errorMsg   string
}

func newFormModel(title string, kind coord.MutationKind, build buildFunc, fields ...formField) FormModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := FormModel{title: title, kind: kind, fields: fields, build: build, spinner: sp}
	m.setFocus(0)
	return m
}

func textField(key, label, value, placeholder string) formField {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = placeholder
	ti.CharLimit = 500
	ti.Width = 48
	ti.SetValue(value)
	return formField{key: key, label: label, input: ti}
}

func areaField(key, label, value, placeholder string) formField {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.CharLimit = 10000
	ta.ShowLineNumbers = false
	ta.SetWidth(60)
	ta.SetHeight(6)
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle() // No highlight on cursor line
	ta.SetValue(value)
	return formField{key: key, label: label, multiline: true, area: ta}
}

func (m *FormModel) setFocus(i int) {
	if len(m.fields) == 0 {
		return
	}
	m.focus = (i + len(m.fields)) % len(m.fields)
	for j := range m.fields {
		f := &m.fields[j]
		if j == m.focus {
			if f.multiline {
				f.area.Focus()
			} else {
				f.input.Focus()
			}
			continue
		}
		f.area.Blur()
		f.input.Blur()
	}
}

// Values returns the current field values by key.
func (m FormModel) Values() map[string]string {
	values := make(map[string]string, len(m.fields))
	for _, f := range m.fields {
		values[f.key] = strings.TrimSpace(f.value())
	}
	return values
}

// Failed marks the in-flight submission as failed and keeps the form open.
func (m *FormModel) Failed(reason string) {
	m.submitting = false
	m.errorMsg = reason
}

// Init initializes the form.
func (m FormModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (m FormModel) Update(msg tea.Msg) (FormModel, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.submitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return CloseMsg{} }
		case "tab", "down":
			if msg.String() == "tab" || !m.fields[m.focus].multiline {
				m.setFocus(m.focus + 1)
				return m, nil
			}
		case "shift+tab", "up":
			if msg.String() == "shift+tab" || !m.fields[m.focus].multiline {
				m.setFocus(m.focus - 1)
				return m, nil
			}
		case "ctrl+s":
			return m.submit()
		case "enter":
			if !m.fields[m.focus].multiline {
				if m.focus == len(m.fields)-1 {
					return m.submit()
				}
				m.setFocus(m.focus + 1)
				return m, nil
			}
		}
	}

	if len(m.fields) == 0 {
		return m, nil
	}
	var cmd tea.Cmd
	f := &m.fields[m.focus]
	if f.multiline {
		f.area, cmd = f.area.Update(msg)
	} else {
		f.input, cmd = f.input.Update(msg)
	}
	return m, cmd
}

func (m FormModel) submit() (FormModel, tea.Cmd) {
	payload, err := m.build(m.Values())
	if err != nil {
		m.errorMsg = err.Error()
		return m, nil
	}
	m.submitting = true
	m.errorMsg = ""
	kind := m.kind
	return m, tea.Batch(
		m.spinner.Tick,
		func() tea.Msg { return FormSubmitMsg{Kind: kind, Payload: payload} },
	)
}

// View renders the form.
func (m FormModel) View() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(m.title))
	b.WriteString("\n")

	for i, f := range m.fields {
		label := dimStyle.Render(f.label)
		if i == m.focus {
			label = SelectedItemStyle.Render(f.label)
		}
		b.WriteString(label)
		b.WriteString("\n")
		if f.multiline {
			b.WriteString(f.area.View())
		} else {
			b.WriteString(f.input.View())
		}
		b.WriteString("\n\n")
	}

	switch {
	case m.submitting:
		b.WriteString(m.spinner.View() + " 提交中...")
	case m.errorMsg != "":
		b.WriteString(ErrorStyle.Render("✗ " + m.errorMsg))
	default:
		b.WriteString(dimStyle.Render("[tab]下一项 [ctrl+s]提交 [esc]取消"))
	}
	return formStyle.Render(b.String())
}

// Form builders

func newResumeForm() FormModel {
	return newFormModel("新建简历", coord.MutCreateResume,
		func(v map[string]string) (any, error) { return resumeInput(v), nil },
		resumeFields(nil)...)
}

func editResumeForm(r *domain.Resume) FormModel {
	id := r.ID
	return newFormModel(fmt.Sprintf("编辑简历 #%d", id), coord.MutUpdateResume,
		func(v map[string]string) (any, error) {
			return coord.ResumeUpdate{ID: id, ResumeInput: resumeInput(v)}, nil
		},
		resumeFields(r)...)
}

func resumeFields(r *domain.Resume) []formField {
	var title, name, email, phone, skills string
	if r != nil {
		title = render.Sanitize(r.TitleText())
		name = render.Sanitize(r.Owner())
		email, _ = r.PersonalInfo["email"].(string)
		phone, _ = r.PersonalInfo["phone"].(string)
		email, phone = render.Sanitize(email), render.Sanitize(phone)
		skills = render.Sanitize(strings.Join(r.TagList(), ", "))
	}
	return []formField{
		textField("title", "标题", title, "后端工程师"),
		textField("name", "姓名", name, ""),
		textField("email", "邮箱", email, "name@example.com"),
		textField("phone", "电话", phone, ""),
		textField("skills", "技能 (逗号分隔)", skills, "Go, Kubernetes"),
	}
}

func resumeInput(v map[string]string) coord.ResumeInput {
	var skills []string
	for _, s := range strings.FieldsFunc(v["skills"], func(r rune) bool { return r == ',' || r == '，' }) {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	return coord.ResumeInput{
		Title: v["title"],
		PersonalInfo: coord.PersonalInfo{
			Name:  v["name"],
			Email: v["email"],
			Phone: v["phone"],
		},
		Skills: skills,
	}
}

func optimizeForm(resumeID int) FormModel {
	return newFormModel("按职位优化简历", coord.MutOptimizeResume,
		func(v map[string]string) (any, error) {
			return coord.OptimizeInput{ResumeID: resumeID, JobDescription: v["job_description"]}, nil
		},
		areaField("job_description", "职位描述", "", "粘贴职位描述..."))
}

func answerForm(q *domain.Question) FormModel {
	id := q.ID
	return newFormModel(render.Title(q), coord.MutAnalyzeAnswer,
		func(v map[string]string) (any, error) {
			return coord.AnswerInput{QuestionID: id, AnswerText: v["answer_text"]}, nil
		},
		areaField("answer_text", "你的回答", "", "写下你的回答..."))
}

func solutionForm(p *domain.Problem) FormModel {
	id := p.ItemID()
	return newFormModel("提交代码: "+render.Title(p), coord.MutSubmitSolution,
		func(v map[string]string) (any, error) {
			return coord.SolutionInput{
				ProblemID: id,
				Language:  v["language"],
				Code:      v["code"],
				Status:    strings.ToUpper(v["status"]),
			}, nil
		},
		textField("language", "语言", "Python", "Python / Java / C++ / JavaScript / Go"),
		textField("status", "结果 (ACCEPTED / WRONG_ANSWER / ...)", domain.SubmissionAccepted, ""),
		areaField("code", "代码", "", "粘贴代码..."))
}

func reportForm() FormModel {
	return newFormModel("导出学习报告", coord.MutExportReport,
		func(v map[string]string) (any, error) {
			return coord.ReportInput{Format: v["format"], Period: v["period"]}, nil
		},
		textField("format", "格式 (pdf / excel / json)", "pdf", ""),
		textField("period", "周期 (week / month / quarter / year)", "month", ""))
}
