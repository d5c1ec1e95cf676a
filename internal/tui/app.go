package tui

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/pkg/browser"
	"go.uber.org/zap"

	"github.com/h0rv/prep/internal/api"
	"github.com/h0rv/prep/internal/config"
	"github.com/h0rv/prep/internal/coord"
	"github.com/h0rv/prep/internal/domain"
	"github.com/h0rv/prep/internal/notify"
	"github.com/h0rv/prep/internal/render"
	"github.com/h0rv/prep/internal/store"
)

// Layout constants
const (
	chromeLines = 3 // Tab bar, status line and footer
	maxToasts   = 5 // Toasts drawn at once; older ones stay queued until they expire
)

// connection is the state of the health indicator.
type connection int

const (
	connUnknown connection = iota
	connUp
	connDown
)

// overlay is whatever currently captures keyboard input above the page.
type overlay int

const (
	overlayNone overlay = iota
	overlayHelp
	overlaySearch
	overlayPicker
	overlayForm
	overlayModal
	overlayConfirm
)

// AppModel is the root Bubble Tea model: tab bar, page panels, toasts and
// the single overlay (help, search, filter picker, form, modal).
type AppModel struct {
	// Dependencies
	coord   *coord.Coordinator
	center  *notify.Center
	ctx     context.Context
	cfg     config.UIConfig
	siteURL string
	logger  *zap.Logger

	// UI components
	keymap  KeyMap
	help    HelpModel
	spinner spinner.Model
	search  textinput.Model
	body    viewport.Model
	picker  FilterPickerModel
	form    FormModel
	modal   ModalModel

	// State
	pages     []coord.Page
	active    int
	cursor    map[coord.PageID]int
	conn      connection
	overlay   overlay
	confirm   *coord.ResumeRef
	inFlight  map[coord.MutationKind]bool
	width     int
	height    int
	lastError string
}

// NewAppModel creates the dashboard. siteURL is the backend origin used to
// resolve relative download links.
func NewAppModel(ctx context.Context, c *coord.Coordinator, center *notify.Center, cfg config.UIConfig, siteURL string, logger *zap.Logger) AppModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	ti := textinput.New()
	ti.Placeholder = "搜索题目或标签..."
	ti.Prompt = "/ "

	pages := coord.Pages()
	active := 0
	if i := slices.IndexFunc(pages, func(p coord.Page) bool { return string(p.ID) == cfg.StartPage }); i >= 0 {
		active = i
	}

	keymap := DefaultKeyMap()
	return AppModel{
		coord:    c,
		center:   center,
		ctx:      ctx,
		cfg:      cfg,
		siteURL:  strings.TrimRight(siteURL, "/"),
		logger:   logger.Named("tui"),
		keymap:   keymap,
		help:     NewHelpModel(keymap),
		spinner:  sp,
		search:   ti,
		body:     viewport.New(80, 20),
		pages:    pages,
		active:   active,
		cursor:   make(map[coord.PageID]int),
		inFlight: make(map[coord.MutationKind]bool),
	}
}

// Init probes backend health and loads the start page.
func (m AppModel) Init() tea.Cmd {
	reqs, err := m.coord.ActivatePage(m.page().ID)
	if err != nil {
		return func() tea.Msg { return healthMsg{out: api.Outcome{Class: api.FailureNetwork, Err: err}} }
	}
	return tea.Batch(
		m.spinner.Tick,
		tea.WindowSize(),
		m.probeHealth(),
		m.fetch(reqs),
	)
}

func (m AppModel) page() coord.Page { return m.pages[m.active] }

// Update handles messages.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	(&next).syncBody()
	return next, cmd
}

func (m AppModel) update(msg tea.Msg) (AppModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.body.Width = msg.Width
		m.body.Height = max(msg.Height-chromeLines, 3)
		if m.overlay == overlayModal {
			m.modal.resize(msg.Width, msg.Height)
		}
		return m, nil

	case spinner.TickMsg:
		var cmds []tea.Cmd
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
		if m.overlay == overlayForm {
			m.form, cmd = m.form.Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case healthMsg:
		if msg.out.OK() {
			m.conn = connUp
			return m, nil
		}
		m.conn = connDown
		return m, tea.Tick(m.cfg.HealthRetry, func(time.Time) tea.Msg { return healthRetryMsg{} })

	case healthRetryMsg:
		return m, m.probeHealth()

	case resolvedMsg:
		m.coord.Apply(msg.res)
		m.clampCursor()
		return m, nil

	case mutationDoneMsg:
		return m.handleMutationDone(msg)

	case detailMsg:
		title, body := render.DetailBody(msg.detail)
		url := ""
		if p, ok := msg.detail.Item.(*domain.Problem); ok {
			url = render.ProblemURL(p)
		}
		if !msg.detail.OK() {
			body = fmt.Sprintf("%s\n\n%s", body, msg.detail.Outcome.Message())
		}
		return m.showModal(title, body, url), nil

	case openFailedMsg:
		m.logger.Warn("open url", zap.String("url", msg.url), zap.Error(msg.err))
		return m.toast("无法打开浏览器: "+msg.err.Error(), notify.SeverityError)

	case toastExpiredMsg:
		m.center.Expire(msg.id)
		return m, nil

	case FilterSelectedMsg:
		if err := m.coord.ApplyFilter(m.page().ID, msg.Filter); err != nil {
			return m.toast(err.Error(), notify.SeverityError)
		}
		m.cursor[m.page().ID] = 0
		m.overlay = overlayNone
		if msg.Filter.Kind != store.FilterSearch {
			m.search.SetValue("")
		}
		return m, nil

	case FormSubmitMsg:
		m.inFlight[msg.Kind] = true
		return m, m.mutate(msg.Kind, msg.Payload, nil, true)

	case CloseMsg:
		m.overlay = overlayNone
		m.center.CloseModal()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}

	return m.forward(msg)
}

// forward passes other messages (cursor blink, mouse) to the focused overlay.
func (m AppModel) forward(msg tea.Msg) (AppModel, tea.Cmd) {
	var cmd tea.Cmd
	switch m.overlay {
	case overlayForm:
		m.form, cmd = m.form.Update(msg)
	case overlayModal:
		m.modal, cmd = m.modal.Update(msg)
	case overlaySearch:
		m.search, cmd = m.search.Update(msg)
	case overlayPicker:
		m.picker, cmd = m.picker.Update(msg)
	default:
		m.body, cmd = m.body.Update(msg)
	}
	return m, cmd
}

// handleKeyPress processes keyboard input
func (m AppModel) handleKeyPress(msg tea.KeyMsg) (AppModel, tea.Cmd) {
	// Global quit
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.overlay {
	case overlayHelp:
		if msg.String() == "?" || msg.String() == "q" || msg.String() == "esc" {
			m.overlay = overlayNone
		}
		return m, nil

	case overlaySearch:
		switch msg.String() {
		case "enter":
			m.overlay = overlayNone
			m.search.Blur()
			f := store.FilterState{Kind: store.FilterSearch, Value: strings.TrimSpace(m.search.Value())}
			return m, func() tea.Msg { return FilterSelectedMsg{Filter: f} }
		case "esc":
			m.overlay = overlayNone
			m.search.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd

	case overlayConfirm:
		ref := m.confirm
		m.overlay = overlayNone
		m.confirm = nil
		if ref != nil && (msg.String() == "y" || msg.String() == "Y") {
			return m, m.mutate(coord.MutDeleteResume, *ref, nil, false)
		}
		return m, nil

	case overlayPicker, overlayForm, overlayModal:
		return m.forward(msg)
	}

	return m.handlePageKey(msg)
}

// handlePageKey handles keys when no overlay is open.
func (m AppModel) handlePageKey(msg tea.KeyMsg) (AppModel, tea.Cmd) {
	page := m.page()

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "?":
		m.overlay = overlayHelp
		return m, nil
	case "1", "2", "3", "4", "5":
		return m.activate(int(msg.Runes[0] - '1'))
	case "tab":
		return m.activate((m.active + 1) % len(m.pages))
	case "shift+tab":
		return m.activate((m.active - 1 + len(m.pages)) % len(m.pages))
	case "j", "down":
		m.moveCursor(1)
		return m, nil
	case "k", "up":
		m.moveCursor(-1)
		return m, nil
	case "pgdown", "ctrl+d":
		m.body.HalfViewDown()
		return m, nil
	case "pgup", "ctrl+u":
		m.body.HalfViewUp()
		return m, nil
	case "r":
		return m.activate(m.active)
	case "esc":
		m.lastError = ""
		return m, nil
	}

	switch page.ID {
	case coord.PageProblems:
		return m.handleProblemsKey(msg)
	case coord.PageInterview:
		return m.handleInterviewKey(msg)
	case coord.PageResumes:
		return m.handleResumesKey(msg)
	case coord.PageAnalytics:
		if msg.String() == "R" {
			return m.openForm(reportForm())
		}
	}
	return m, nil
}

func (m AppModel) handleProblemsKey(msg tea.KeyMsg) (AppModel, tea.Cmd) {
	p, _ := m.selected().(*domain.Problem)

	switch msg.String() {
	case "/":
		m.overlay = overlaySearch
		if f := m.coord.Filter(coord.PageProblems); f.Kind == store.FilterSearch {
			m.search.SetValue(f.Value)
		}
		cmd := m.search.Focus()
		return m, cmd
	case "f":
		return m.openPicker()
	case "s":
		if m.inFlight[coord.MutSyncProblems] {
			return m.toast("同步任务进行中", notify.SeverityInfo)
		}
		m.inFlight[coord.MutSyncProblems] = true
		return m, m.mutate(coord.MutSyncProblems, coord.SyncInput{}, nil, false)
	case " ":
		if p == nil {
			return m, nil
		}
		patch, err := m.coord.ToggleStatus(p.ItemID())
		switch {
		case errors.Is(err, coord.ErrTogglePending):
			return m.toast(fmt.Sprintf("题目 #%d 状态更新中", p.ItemID()), notify.SeverityInfo)
		case errors.Is(err, coord.ErrAlreadyDone):
			return m.toast(fmt.Sprintf("题目 #%d 已完成", p.ItemID()), notify.SeverityInfo)
		case err != nil:
			return m.toast(err.Error(), notify.SeverityError)
		}
		return m, m.mutate(coord.MutToggleStatus, coord.ToggleInputFor(patch), &patch, false)
	case "enter":
		if p == nil {
			return m, nil
		}
		return m, m.fetchDetail(coord.DetailTarget{Kind: coord.DetailProblem, ID: p.ItemID()})
	case "c":
		if p == nil {
			return m, nil
		}
		return m.openForm(solutionForm(p))
	case "o":
		if p == nil {
			return m, nil
		}
		if url := render.ProblemURL(p); url != "" {
			if err := browser.OpenURL(url); err != nil {
				return m.update(openFailedMsg{url: url, err: err})
			}
		}
	}
	return m, nil
}

func (m AppModel) handleInterviewKey(msg tea.KeyMsg) (AppModel, tea.Cmd) {
	q, _ := m.selected().(*domain.Question)

	switch msg.String() {
	case "f":
		return m.openPicker()
	case "enter":
		if q != nil {
			title, body := render.ItemBody(q)
			return m.showModal(title, body, ""), nil
		}
	case "a":
		if q != nil {
			return m.openForm(answerForm(q))
		}
	}
	return m, nil
}

func (m AppModel) handleResumesKey(msg tea.KeyMsg) (AppModel, tea.Cmd) {
	r, _ := m.selected().(*domain.Resume)

	switch msg.String() {
	case "n":
		return m.openForm(newResumeForm())
	}
	if r == nil {
		return m, nil
	}

	switch msg.String() {
	case "enter":
		return m, m.fetchDetail(coord.DetailTarget{Kind: coord.DetailResume, ID: r.ID})
	case "v":
		return m, m.fetchDetail(coord.DetailTarget{Kind: coord.DetailResumeVersions, ID: r.ID})
	case "e":
		return m.openForm(editResumeForm(r))
	case "p":
		return m.openForm(optimizeForm(r.ID))
	case "x":
		return m, m.mutate(coord.MutExportResumePDF, coord.ResumeRef{ID: r.ID}, nil, false)
	case "d":
		m.confirm = &coord.ResumeRef{ID: r.ID}
		m.overlay = overlayConfirm
	}
	return m, nil
}

// activate switches to page i and (re)issues its fetch set.
func (m AppModel) activate(i int) (AppModel, tea.Cmd) {
	if i < 0 || i >= len(m.pages) {
		return m, nil
	}
	m.active = i
	m.body.GotoTop()
	reqs, err := m.coord.ActivatePage(m.page().ID)
	if err != nil {
		return m.toast(err.Error(), notify.SeverityError)
	}
	return m, m.fetch(reqs)
}

func (m AppModel) openPicker() (AppModel, tea.Cmd) {
	page := m.page()
	if page.Filter == store.FilterAll || page.Primary == "" {
		return m, nil
	}
	current := domain.FilterAll
	if f := m.coord.Filter(page.ID); f.Kind == page.Filter {
		current = f.Value
	}
	m.picker = NewFilterPickerModel(page.Filter, m.coord.Store().Get(page.Primary), current)
	m.overlay = overlayPicker
	return m, m.picker.Init()
}

func (m AppModel) openForm(f FormModel) (AppModel, tea.Cmd) {
	m.form = f
	m.overlay = overlayForm
	return m, m.form.Init()
}

func (m AppModel) showModal(title, body, url string) AppModel {
	m.center.ShowModal(title, body)
	if modal := m.center.Modal(); modal != nil {
		m.modal = newModalModel(*modal, url, m.width, m.height)
		m.overlay = overlayModal
	}
	return m
}

// toast adds a notification and schedules its expiry.
func (m AppModel) toast(msg string, severity notify.Severity) (AppModel, tea.Cmd) {
	t := m.center.Notify(msg, severity)
	if severity == notify.SeverityError {
		m.lastError = msg
	}
	return m, tea.Tick(m.center.TTL(), func(time.Time) tea.Msg { return toastExpiredMsg{id: t.ID} })
}

func (m AppModel) handleMutationDone(msg mutationDoneMsg) (AppModel, tea.Cmd) {
	res := msg.result
	delete(m.inFlight, res.Kind)

	if msg.patch != nil {
		m.coord.Reconcile(*msg.patch, res)
	}

	if !res.OK() {
		if msg.fromForm && m.overlay == overlayForm {
			m.form.Failed(res.Message())
		}
		return m.toast(mutationLabel(res.Kind)+"失败: "+res.Message(), notify.SeverityError)
	}

	if msg.fromForm && m.overlay == overlayForm {
		m.overlay = overlayNone
	}

	var cmds []tea.Cmd
	var toastCmd tea.Cmd
	m, toastCmd = m.toast(m.successMessage(res), notify.SeveritySuccess)
	cmds = append(cmds, toastCmd, m.fetch(res.Refetch))

	if res.Kind == coord.MutAnalyzeAnswer {
		m = m.showModal("回答分析", analysisBody(res.Outcome), "")
	}
	return m, tea.Batch(cmds...)
}

// successMessage prefers the backend's message; export links are made
// absolute and opened.
func (m AppModel) successMessage(res coord.MutationResult) string {
	body, _ := api.Decode[struct {
		Message     string `json:"message"`
		DownloadURL string `json:"download_url"`
	}](res.Outcome)

	if body.DownloadURL != "" {
		url := body.DownloadURL
		if strings.HasPrefix(url, "/") {
			url = m.siteURL + url
		}
		if err := browser.OpenURL(url); err != nil {
			m.logger.Debug("open download link", zap.String("url", url), zap.Error(err))
		}
		return mutationLabel(res.Kind) + "成功: " + url
	}
	if body.Message != "" {
		return render.Sanitize(body.Message)
	}
	return mutationLabel(res.Kind) + "成功"
}

func analysisBody(out api.Outcome) string {
	body, ok := api.Decode[struct {
		Analysis map[string]any `json:"analysis"`
	}](out)
	if !ok || len(body.Analysis) == 0 {
		return render.PlaceholderEmpty
	}
	keys := make([]string, 0, len(body.Analysis))
	for k := range body.Analysis {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %v\n", render.Sanitize(k), render.SanitizeBody(fmt.Sprint(body.Analysis[k])))
	}
	return strings.TrimRight(b.String(), "\n")
}

func mutationLabel(kind coord.MutationKind) string {
	switch kind {
	case coord.MutCreateResume:
		return "创建简历"
	case coord.MutUpdateResume:
		return "更新简历"
	case coord.MutDeleteResume:
		return "删除简历"
	case coord.MutOptimizeResume:
		return "优化简历"
	case coord.MutExportResumePDF:
		return "导出PDF"
	case coord.MutSubmitSolution:
		return "提交解答"
	case coord.MutSyncProblems:
		return "同步题目"
	case coord.MutAnalyzeAnswer:
		return "提交回答"
	case coord.MutExportReport:
		return "导出报告"
	case coord.MutToggleStatus:
		return "更新状态"
	default:
		return string(kind)
	}
}

// Commands

// fetch runs one command per request; each resolution is applied by Update
// in arrival order.
func (m AppModel) fetch(reqs []coord.Request) tea.Cmd {
	if len(reqs) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, len(reqs))
	for i, req := range reqs {
		cmds[i] = func() tea.Msg { return resolvedMsg{res: m.coord.Fetch(m.ctx, req)} }
	}
	return tea.Batch(cmds...)
}

func (m AppModel) mutate(kind coord.MutationKind, payload any, patch *store.Patch, fromForm bool) tea.Cmd {
	return func() tea.Msg {
		return mutationDoneMsg{
			result:   m.coord.SubmitMutation(m.ctx, kind, payload),
			patch:    patch,
			fromForm: fromForm,
		}
	}
}

func (m AppModel) fetchDetail(target coord.DetailTarget) tea.Cmd {
	return func() tea.Msg { return detailMsg{detail: m.coord.FetchDetail(m.ctx, target)} }
}

func (m AppModel) probeHealth() tea.Cmd {
	return func() tea.Msg { return healthMsg{out: m.coord.Health(m.ctx)} }
}

// Selection

// primaryItems returns the filtered primary collection of the active page.
func (m AppModel) primaryItems() []domain.Item {
	page := m.page()
	if page.Primary == "" {
		return nil
	}
	return slices.Collect(m.coord.View(page.ID, page.Primary))
}

func (m AppModel) selected() domain.Item {
	items := m.primaryItems()
	i := m.cursor[m.page().ID]
	if i < 0 || i >= len(items) {
		return nil
	}
	return items[i]
}

func (m *AppModel) moveCursor(delta int) {
	id := m.page().ID
	n := len(m.primaryItems())
	if n == 0 {
		return
	}
	m.cursor[id] = min(max(m.cursor[id]+delta, 0), n-1)
}

func (m *AppModel) clampCursor() {
	id := m.page().ID
	n := len(m.primaryItems())
	if m.cursor[id] >= n {
		m.cursor[id] = max(n-1, 0)
	}
}

// View

// View renders the dashboard.
func (m AppModel) View() string {
	width := m.width
	if width == 0 {
		width = 100
	}

	sections := []string{m.renderTabs(width), m.renderStatus(width)}

	switch m.overlay {
	case overlayHelp:
		sections = append(sections, m.help.View(width, m.page().ID))
	case overlayPicker:
		sections = append(sections, m.picker.View())
	case overlayForm:
		sections = append(sections, m.form.View())
	case overlayModal:
		sections = append(sections, m.modal.View())
	default:
		if m.overlay == overlaySearch {
			sections = append(sections, m.search.View())
		}
		if m.overlay == overlayConfirm && m.confirm != nil {
			sections = append(sections, warningStyle.Render(fmt.Sprintf("删除简历 #%d? [y]确认 [n]取消", m.confirm.ID)))
		}
		sections = append(sections, m.body.View())
	}

	sections = append(sections, m.renderToasts(), m.help.ShortView(width))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// syncBody re-renders the page into the body viewport.
func (m *AppModel) syncBody() {
	width := m.width
	if width == 0 {
		width = 100
	}
	m.body.SetContent(m.renderPage(width))
}

func (m AppModel) renderTabs(width int) string {
	tabs := make([]string, len(m.pages))
	for i, p := range m.pages {
		label := fmt.Sprintf("%d %s", i+1, p.Title)
		if i == m.active {
			tabs[i] = activeTabStyle.Render(label)
		} else {
			tabs[i] = tabStyle.Render(label)
		}
	}
	left := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	var right string
	switch m.conn {
	case connUp:
		right = SuccessStyle.Render("● 服务已连接")
	case connDown:
		right = ErrorStyle.Render("● 连接断开")
	default:
		right = dimStyle.Render(m.spinner.View() + "连接中")
	}

	padding := max(width-lipgloss.Width(left)-lipgloss.Width(right)-1, 1)
	return left + strings.Repeat(" ", padding) + right
}

func (m AppModel) renderStatus(width int) string {
	page := m.page()
	var parts []string
	if f := m.coord.Filter(page.ID); f.IsActive() {
		parts = append(parts, fmt.Sprintf("筛选: %s=%s", f.Kind, render.Sanitize(f.Value)))
	}
	if page.Primary != "" {
		n := len(m.primaryItems())
		parts = append(parts, fmt.Sprintf("%d 项", n))
		if n > 0 {
			parts = append(parts, fmt.Sprintf("第 %d/%d", m.cursor[page.ID]+1, n))
		}
	}
	for _, kind := range slices.Sorted(maps.Keys(m.inFlight)) {
		parts = append(parts, m.spinner.View()+mutationLabel(kind))
	}
	status := dimStyle.Render(strings.Join(parts, " | "))
	if m.lastError != "" {
		status += "  " + ErrorStyle.Render(ansi.Truncate(m.lastError, max(width/2, 10), "…"))
	}
	return status
}

func (m AppModel) renderToasts() string {
	active := m.center.Active(time.Now())
	if len(active) > maxToasts {
		active = active[len(active)-maxToasts:]
	}
	lines := make([]string, 0, len(active))
	for _, t := range active {
		lines = append(lines, toastStyles[string(t.Severity)].Render("• "+render.Sanitize(t.Message)))
	}
	return strings.Join(lines, "\n")
}

// renderPage draws every panel of the active page.
func (m AppModel) renderPage(width int) string {
	page := m.page()
	spin := m.spinner.View()

	panels := make([]string, 0, len(page.Resources)+1)
	for _, res := range page.Resources {
		spec, _ := coord.Resource(res)
		node := render.Panel(spec.Title, m.coord.Panel(res), m.coord.View(page.ID, res))

		primary := res == page.Primary
		selected := -1
		if primary {
			selected = m.cursor[page.ID]
		}
		panels = append(panels, panelView(node, width, primary, spin, selected))

		if res == domain.ResProblemStats && m.coord.Panel(res).Status == coord.PanelLoaded {
			bd := render.ProgressFromStats(m.coord.Store().Get(res))
			if bd.Total == 0 {
				bd = render.ProgressFromProblems(m.coord.Store().Get(domain.ResProblems))
			}
			panels = append(panels, panelStyle.Width(max(width-2, 10)).Render(panelTitleStyle.Render("完成进度")+"\n"+progressView(bd)))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, panels...)
}
