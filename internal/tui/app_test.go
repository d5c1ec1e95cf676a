package tui

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/h0rv/prep/internal/api"
	"github.com/h0rv/prep/internal/config"
	"github.com/h0rv/prep/internal/coord"
	"github.com/h0rv/prep/internal/domain"
	"github.com/h0rv/prep/internal/notify"
	"github.com/h0rv/prep/internal/render"
	"github.com/h0rv/prep/internal/store"
)

// fakeTransport serves canned outcomes without a network.
type fakeTransport struct {
	mu      sync.Mutex
	gets    map[string]api.Outcome
	posts   map[string]api.Outcome
	healthy bool
	calls   []string
	bodies  []any // POST bodies, in call order
}

func ok(body string) api.Outcome {
	return api.Outcome{Payload: json.RawMessage(body), Status: http.StatusOK}
}

func failed(code int) api.Outcome {
	return api.Outcome{Class: api.FailureStatus, Status: code, Detail: "boom"}
}

func (f *fakeTransport) record(method, path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, method+" "+path)
}

func (f *fakeTransport) Get(_ context.Context, path string) api.Outcome {
	f.record(http.MethodGet, path)
	if out, found := f.gets[path]; found {
		return out
	}
	return ok(`{}`)
}

func (f *fakeTransport) post(method, path string) api.Outcome {
	f.record(method, path)
	if out, found := f.posts[path]; found {
		return out
	}
	return ok(`{"success":true}`)
}

func (f *fakeTransport) Post(_ context.Context, path string, body any) api.Outcome {
	f.mu.Lock()
	f.bodies = append(f.bodies, body)
	f.mu.Unlock()
	return f.post(http.MethodPost, path)
}

func (f *fakeTransport) Put(_ context.Context, path string, _ any) api.Outcome {
	return f.post(http.MethodPut, path)
}

func (f *fakeTransport) Delete(_ context.Context, path string) api.Outcome {
	return f.post(http.MethodDelete, path)
}

func (f *fakeTransport) PostForm(_ context.Context, path string, _ api.FormPayload) api.Outcome {
	return f.post(http.MethodPost, path)
}

func (f *fakeTransport) Health(_ context.Context) api.Outcome {
	if f.healthy {
		return ok(`{"status":"healthy"}`)
	}
	return api.Outcome{Class: api.FailureNetwork}
}

func resourcePath(res domain.ResourceID) string {
	spec, _ := coord.Resource(res)
	return spec.Path
}

func createTestTransport() *fakeTransport {
	return &fakeTransport{
		healthy: true,
		gets: map[string]api.Outcome{
			resourcePath(domain.ResProblems): ok(`{"problems":[
				{"id":1,"title":"Two Sum","difficulty":"简单","tags":["array"],"status":"已完成","title_slug":"two-sum"},
				{"id":15,"title":"3Sum","difficulty":"中等","tags":["two-pointers"]},
				{"id":42,"title":"Trapping Rain Water","difficulty":"困难"}
			]}`),
			resourcePath(domain.ResProblemStats): ok(`{"total_problems":10,"completed_problems":4}`),
			resourcePath(domain.ResQuestions): ok(`[
				{"id":3,"question":"什么是 goroutine?","category":"Go","difficulty":"中等","reference_answer":"轻量级线程"},
				{"id":4,"question":"TCP 三次握手","category":"网络"}
			]`),
			resourcePath(domain.ResResumes): ok(`[{"id":2,"title":"后端工程师","personal_info":{"name":"林"}}]`),
		},
		posts: map[string]api.Outcome{},
	}
}

func createTestApp(t *testing.T, tr *fakeTransport, start coord.PageID) AppModel {
	t.Helper()
	cfg := config.Default().UI
	cfg.StartPage = string(start)
	c := coord.New(tr, zap.NewNop())
	m := NewAppModel(context.Background(), c, notify.New(cfg.ToastTTL), cfg, "http://localhost:8000", zap.NewNop())
	model, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 60})
	return model.(AppModel)
}

// runCmd executes cmd, giving up on commands that wait (ticks).
func runCmd(cmd tea.Cmd) (tea.Msg, bool) {
	if cmd == nil {
		return nil, false
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	select {
	case msg := <-done:
		return msg, true
	case <-time.After(100 * time.Millisecond):
		return nil, false
	}
}

// drive runs cmd and feeds the messages the app cares about back into Update
// until nothing is left.
func drive(t *testing.T, m AppModel, cmd tea.Cmd) AppModel {
	t.Helper()
	msg, done := runCmd(cmd)
	if !done {
		return m
	}
	switch msg := msg.(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			m = drive(t, m, c)
		}
		return m
	case resolvedMsg, mutationDoneMsg, detailMsg, healthMsg, FilterSelectedMsg, FormSubmitMsg, CloseMsg:
		model, next := m.Update(msg)
		return drive(t, model.(AppModel), next)
	}
	return m
}

func press(t *testing.T, m AppModel, keys ...tea.KeyMsg) AppModel {
	t.Helper()
	for _, k := range keys {
		model, cmd := m.Update(k)
		m = drive(t, model.(AppModel), cmd)
	}
	return m
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
)

func TestAppModel_InitLoadsStartPage(t *testing.T) {
	m := createTestApp(t, createTestTransport(), coord.PageProblems)
	assert.Equal(t, coord.PageProblems, m.page().ID)

	m = drive(t, m, m.Init())

	assert.Equal(t, connUp, m.conn)
	assert.Equal(t, coord.PanelLoaded, m.coord.Panel(domain.ResProblems).Status)
	assert.Len(t, m.primaryItems(), 3)

	view := m.View()
	assert.Contains(t, view, "Two Sum")
	assert.Contains(t, view, "服务已连接")
	assert.Contains(t, view, "完成进度")
}

func TestAppModel_HealthDown(t *testing.T) {
	tr := createTestTransport()
	tr.healthy = false
	m := createTestApp(t, tr, coord.PageDashboard)

	m = drive(t, m, m.Init())

	assert.Equal(t, connDown, m.conn)
	assert.Contains(t, m.View(), "连接断开")
}

func TestAppModel_TabNavigation(t *testing.T) {
	m := createTestApp(t, createTestTransport(), coord.PageDashboard)
	assert.Equal(t, 0, m.active)

	m = press(t, m, runes("3"))
	assert.Equal(t, coord.PageInterview, m.page().ID)
	assert.Equal(t, coord.PanelLoaded, m.coord.Panel(domain.ResQuestions).Status)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, coord.PageResumes, m.page().ID)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab}, tea.KeyMsg{Type: tea.KeyShiftTab}, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, coord.PageDashboard, m.page().ID)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, coord.PageAnalytics, m.page().ID)
}

func TestAppModel_CursorNavigation(t *testing.T) {
	m := createTestApp(t, createTestTransport(), coord.PageProblems)
	m = drive(t, m, m.Init())

	m = press(t, m, runes("j"), runes("j"), runes("j"))
	assert.Equal(t, 2, m.cursor[coord.PageProblems])
	assert.Equal(t, 42, m.selected().ItemID())

	m = press(t, m, runes("k"), runes("k"), runes("k"))
	assert.Equal(t, 0, m.cursor[coord.PageProblems])
}

func TestAppModel_FilterPicker(t *testing.T) {
	m := createTestApp(t, createTestTransport(), coord.PageProblems)
	m = drive(t, m, m.Init())
	m = press(t, m, runes("j"))

	m = press(t, m, runes("f"))
	require.Equal(t, overlayPicker, m.overlay)

	// 全部, 简单, 中等, 困难
	m = press(t, m, runes("j"), runes("j"), keyEnter)
	assert.Equal(t, overlayNone, m.overlay)
	assert.Equal(t, store.FilterState{Kind: store.FilterDifficulty, Value: "中等"}, m.coord.Filter(coord.PageProblems))
	assert.Equal(t, 0, m.cursor[coord.PageProblems])
	require.Len(t, m.primaryItems(), 1)
	assert.Equal(t, "3Sum", m.primaryItems()[0].TitleText())

	// The filter applies to the primary resource only.
	assert.Equal(t, 10.0, findMetric(m, "total_problems"))
}

func findMetric(m AppModel, label string) float64 {
	for _, it := range m.coord.Store().Get(domain.ResProblemStats) {
		if metric, ok := it.(*domain.Metric); ok && metric.Label == label {
			return metric.Value
		}
	}
	return -1
}

func TestAppModel_Search(t *testing.T) {
	m := createTestApp(t, createTestTransport(), coord.PageProblems)
	m = drive(t, m, m.Init())

	m = press(t, m, runes("/"))
	require.Equal(t, overlaySearch, m.overlay)
	m = press(t, m, runes("p"), runes("o"), runes("i"), runes("n"), runes("t"), keyEnter)

	assert.Equal(t, store.FilterState{Kind: store.FilterSearch, Value: "point"}, m.coord.Filter(coord.PageProblems))
	require.Len(t, m.primaryItems(), 1)
	assert.Equal(t, 15, m.primaryItems()[0].ItemID())

	m = press(t, m, runes("/"), keyEsc)
	assert.Equal(t, overlayNone, m.overlay)
}

func TestAppModel_ToggleRevertsOnFailure(t *testing.T) {
	tr := createTestTransport()
	tr.posts[api.PathSubmissions] = failed(http.StatusInternalServerError)
	m := createTestApp(t, tr, coord.PageProblems)
	m = drive(t, m, m.Init())

	m = press(t, m, runes("j"), runes("j"), keySpace)

	got, err := m.coord.Store().Find(domain.ResProblems, 42)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusNotStarted, got.(*domain.Problem).StatusText())

	active := m.center.Active(time.Now())
	require.Len(t, active, 1)
	assert.Equal(t, notify.SeverityError, active[0].Severity)
	assert.Contains(t, active[0].Message, "HTTP 500")
}

func TestAppModel_ToggleSuccessRefetches(t *testing.T) {
	tr := createTestTransport()
	m := createTestApp(t, tr, coord.PageProblems)
	m = drive(t, m, m.Init())
	before := len(tr.calls)

	m = press(t, m, runes("j"), keySpace)

	assert.Contains(t, tr.calls[before:], "POST "+api.PathSubmissions)
	require.NotEmpty(t, tr.bodies)
	assert.Equal(t, domain.SubmissionAccepted, tr.bodies[len(tr.bodies)-1].(coord.ToggleInput).Status)
	assert.Contains(t, tr.calls[before:], "GET "+resourcePath(domain.ResProblems))
	assert.Equal(t, notify.SeveritySuccess, m.center.Active(time.Now())[0].Severity)
}

func TestAppModel_ToggleWaitsForConfirmation(t *testing.T) {
	tr := createTestTransport()
	tr.posts[api.PathSubmissions] = failed(http.StatusInternalServerError)
	m := createTestApp(t, tr, coord.PageProblems)
	m = drive(t, m, m.Init())
	m = press(t, m, runes("j"))

	// First press patches locally; its confirmation is not run yet.
	model, confirm := m.Update(keySpace)
	m = model.(AppModel)
	require.NotNil(t, confirm)
	got, _ := m.coord.Store().Find(domain.ResProblems, 15)
	assert.Equal(t, domain.StatusDone, got.(*domain.Problem).StatusText())

	// A second press before the confirmation settles is refused.
	model, _ = m.Update(keySpace)
	m = model.(AppModel)
	active := m.center.Active(time.Now())
	require.Len(t, active, 1)
	assert.Equal(t, notify.SeverityInfo, active[0].Severity)

	m = drive(t, m, confirm)

	got, _ = m.coord.Store().Find(domain.ResProblems, 15)
	assert.Equal(t, domain.StatusNotStarted, got.(*domain.Problem).StatusText())
	assert.Equal(t, 1, strings.Count(strings.Join(tr.calls, "\n"), "POST "+api.PathSubmissions))
}

func TestAppModel_ToggleDoneProblemIsRefused(t *testing.T) {
	tr := createTestTransport()
	m := createTestApp(t, tr, coord.PageProblems)
	m = drive(t, m, m.Init())
	before := len(tr.calls)

	m = press(t, m, keySpace)

	assert.NotContains(t, tr.calls[before:], "POST "+api.PathSubmissions)
	got, _ := m.coord.Store().Find(domain.ResProblems, 1)
	assert.Equal(t, domain.StatusDone, got.(*domain.Problem).StatusText())
	active := m.center.Active(time.Now())
	require.Len(t, active, 1)
	assert.Contains(t, active[0].Message, "已完成")
}

func TestAppModel_SubmitSolution(t *testing.T) {
	tr := createTestTransport()
	m := createTestApp(t, tr, coord.PageProblems)
	m = drive(t, m, m.Init())

	m = press(t, m, runes("j"), runes("c"))
	require.Equal(t, overlayForm, m.overlay)
	assert.Contains(t, m.form.View(), "3Sum")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab}, tea.KeyMsg{Type: tea.KeyTab}, runes("print(1)"))
	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})

	require.NotEmpty(t, tr.bodies)
	assert.Equal(t, coord.SolutionInput{
		ProblemID: 15,
		Language:  "Python",
		Code:      "print(1)",
		Status:    domain.SubmissionAccepted,
	}, tr.bodies[len(tr.bodies)-1])
	assert.Equal(t, overlayNone, m.overlay)
}

func TestAnswerForm_SanitizesTitle(t *testing.T) {
	f := answerForm(&domain.Question{ID: 3, Question: domain.Ptr("Q\x1b]52;c;aGk=\x07 \x1b[2Jnext")})
	view := f.View()
	assert.NotContains(t, view, "\x1b]52")
	assert.NotContains(t, view, "\x1b[2J")
	assert.Contains(t, view, "Q next")

	empty := answerForm(&domain.Question{ID: 4})
	assert.Contains(t, empty.View(), render.Untitled)
}

func TestAppModel_FormStaysOpenOnFailure(t *testing.T) {
	tr := createTestTransport()
	tr.posts[api.PathResumes] = failed(http.StatusUnprocessableEntity)
	m := createTestApp(t, tr, coord.PageResumes)
	m = drive(t, m, m.Init())

	m = press(t, m, runes("n"))
	require.Equal(t, overlayForm, m.overlay)

	// Submitting an empty form is rejected before any request.
	before := len(tr.calls)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Equal(t, overlayForm, m.overlay)
	assert.Contains(t, m.form.errorMsg, "Title")
	assert.Len(t, tr.calls, before)

	model, cmd := m.Update(FormSubmitMsg{Kind: coord.MutCreateResume, Payload: coord.ResumeInput{
		Title:        "前端工程师",
		PersonalInfo: coord.PersonalInfo{Name: "林"},
	}})
	m = drive(t, model.(AppModel), cmd)
	assert.Equal(t, overlayForm, m.overlay)
	assert.Contains(t, m.form.errorMsg, "HTTP 422")

	delete(tr.posts, api.PathResumes)
	model, cmd = m.Update(FormSubmitMsg{Kind: coord.MutCreateResume, Payload: coord.ResumeInput{
		Title:        "前端工程师",
		PersonalInfo: coord.PersonalInfo{Name: "林"},
	}})
	m = drive(t, model.(AppModel), cmd)
	assert.Equal(t, overlayNone, m.overlay)
	assert.Empty(t, m.inFlight)
}

func TestAppModel_DeleteNeedsConfirmation(t *testing.T) {
	tr := createTestTransport()
	m := createTestApp(t, tr, coord.PageResumes)
	m = drive(t, m, m.Init())

	m = press(t, m, runes("d"))
	require.Equal(t, overlayConfirm, m.overlay)
	assert.Contains(t, m.View(), "删除简历 #2")

	before := len(tr.calls)
	m = press(t, m, runes("n"))
	assert.Equal(t, overlayNone, m.overlay)
	assert.Len(t, tr.calls, before)

	m = press(t, m, runes("d"), runes("y"))
	assert.Contains(t, tr.calls[before:], "DELETE "+api.ResumePath(2))
}

func TestAppModel_QuestionModal(t *testing.T) {
	m := createTestApp(t, createTestTransport(), coord.PageInterview)
	m = drive(t, m, m.Init())

	m = press(t, m, keyEnter)
	require.Equal(t, overlayModal, m.overlay)
	require.NotNil(t, m.center.Modal())
	assert.Equal(t, "什么是 goroutine?", m.center.Modal().Title)
	assert.Contains(t, m.View(), "轻量级线程")

	m = press(t, m, keyEsc)
	assert.Equal(t, overlayNone, m.overlay)
	assert.Nil(t, m.center.Modal())
}

func TestAppModel_ProblemDetailModal(t *testing.T) {
	tr := createTestTransport()
	tr.gets[api.ProblemPath(1)] = ok(`{"id":1,"title":"Two Sum","title_slug":"two-sum","content":"<p>Given an array</p>"}`)
	m := createTestApp(t, tr, coord.PageProblems)
	m = drive(t, m, m.Init())

	m = press(t, m, keyEnter)
	require.Equal(t, overlayModal, m.overlay)
	assert.Equal(t, "https://leetcode.cn/problems/two-sum/", m.modal.url)
	assert.Contains(t, m.modal.View(), "Given an array")
}

func TestAppModel_HelpOverlay(t *testing.T) {
	m := createTestApp(t, createTestTransport(), coord.PageProblems)

	m = press(t, m, runes("?"))
	assert.Equal(t, overlayHelp, m.overlay)
	assert.Contains(t, m.View(), "mark done")
	assert.NotContains(t, m.View(), "new résumé")

	m = press(t, m, runes("?"))
	assert.Equal(t, overlayNone, m.overlay)

	m = press(t, m, runes("4"), runes("?"))
	assert.Contains(t, m.View(), "new résumé")
	assert.NotContains(t, m.View(), "mark done")
}

func TestPageKeys_FullHelp(t *testing.T) {
	k := DefaultKeyMap()

	dashboard := pageKeys{k: k, page: coord.PageDashboard}.FullHelp()
	assert.Len(t, dashboard, 2)

	problems := pageKeys{k: k, page: coord.PageProblems}.FullHelp()
	require.Len(t, problems, 3)
	assert.Contains(t, problems[1], k.Toggle)
}

func TestAppModel_View_NotPanic(t *testing.T) {
	m := createTestApp(t, createTestTransport(), coord.PageDashboard)
	m.width, m.height = 0, 0

	require.NotPanics(t, func() {
		view := m.View()
		assert.NotEmpty(t, view)
	})
}

func TestFilterOptions(t *testing.T) {
	items := []domain.Item{
		&domain.Question{ID: 1, Category: domain.Ptr("网络")},
		&domain.Question{ID: 2, Category: domain.Ptr("Go")},
		&domain.Question{ID: 3, Category: domain.Ptr("Go")},
		&domain.Question{ID: 4},
	}

	options := filterOptions(store.FilterCategory, items)
	labels := make([]string, len(options))
	for i, o := range options {
		labels[i] = o.label
	}
	assert.Equal(t, []string{"全部", "Go", "网络"}, labels)
	assert.Equal(t, domain.FilterAll, options[0].value)
	assert.Equal(t, 2, options[1].count)

	difficulties := filterOptions(store.FilterDifficulty, nil)
	require.Len(t, difficulties, 4)
	assert.Equal(t, []string{"简单", "中等", "困难"}, []string{difficulties[1].value, difficulties[2].value, difficulties[3].value})
}

func TestPanelView_Placeholders(t *testing.T) {
	failedPanel := render.Panel("题库", coord.PanelState{Status: coord.PanelFailed}, nil)
	assert.Contains(t, panelView(failedPanel, 80, false, "", -1), render.PlaceholderFailed)

	loading := render.Panel("题库", coord.PanelState{Status: coord.PanelLoading}, nil)
	assert.Contains(t, panelView(loading, 80, false, "*", -1), render.PlaceholderLoading)
}

func TestProgressView(t *testing.T) {
	view := progressView(render.Progress(4, 1, 10))
	lines := strings.Split(view, "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "已完成")
	assert.Contains(t, lines[0], "40%")
	assert.Contains(t, lines[2], "(5)")
}
