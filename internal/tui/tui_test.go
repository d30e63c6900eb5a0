package tui

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/sadopc/foodsurvey/internal/catalog"
	"github.com/sadopc/foodsurvey/internal/remotelog"
	"github.com/sadopc/foodsurvey/internal/store"
	"github.com/sadopc/foodsurvey/internal/survey"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestContext(t *testing.T) *survey.Context {
	t.Helper()
	return survey.NewContext(newTestStore(t), nil)
}

func startDefault(t *testing.T, sc *survey.Context) *store.Configuration {
	t.Helper()
	cfg, err := sc.Start(store.DefaultConfigID)
	if err != nil {
		t.Fatalf("start default: %v", err)
	}
	return cfg
}

func newTestApp(t *testing.T, sc *survey.Context, gate survey.AdminGate) App {
	t.Helper()
	app := NewApp(sc, Options{Gate: gate, ExportDir: t.TempDir()})
	m, _ := app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m.(App)
}

func press(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+a":
		return tea.KeyMsg{Type: tea.KeyCtrlA}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func sendApp(t *testing.T, app App, msg tea.Msg) (App, tea.Cmd) {
	t.Helper()
	m, cmd := app.Update(msg)
	return m.(App), cmd
}

// ============================================================
// Session clock
// ============================================================

func TestSessionClockStartStop(t *testing.T) {
	started := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)
	c := newSessionClock()
	c.now = func() time.Time { return started.Add(90 * time.Second) }

	if c.running() {
		t.Fatal("clock should start stopped")
	}

	c.start(&store.Session{ConfigID: "default", StartedAt: started}, &store.Configuration{Name: "Halftime"})
	if !c.running() {
		t.Fatal("clock should be running after start")
	}
	if c.elapsed != 90*time.Second {
		t.Fatalf("elapsed = %v, want 90s", c.elapsed)
	}
	if c.configName != "Halftime" {
		t.Fatalf("configName = %q", c.configName)
	}

	c.stop()
	if c.running() || c.elapsed != 0 || c.configName != "" {
		t.Fatalf("clock not reset: %+v", c)
	}
}

func TestSessionClockStartWithoutSession(t *testing.T) {
	c := newSessionClock()
	c.start(nil, &store.Configuration{Name: "x"})
	if c.running() {
		t.Fatal("clock should not run without a session")
	}
	c.tick()
	if c.elapsed != 0 {
		t.Fatalf("stopped clock ticked to %v", c.elapsed)
	}
}

func TestSessionClockNeverNegative(t *testing.T) {
	started := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)
	c := newSessionClock()
	c.now = func() time.Time { return started.Add(-time.Minute) }
	c.start(&store.Session{StartedAt: started}, &store.Configuration{Name: "x"})
	if c.elapsed != 0 {
		t.Fatalf("elapsed = %v, want 0", c.elapsed)
	}
}

// ============================================================
// Helpers
// ============================================================

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00:00"},
		{time.Second, "00:00:01"},
		{90 * time.Minute, "01:30:00"},
		{25*time.Hour + 5*time.Second, "25:00:05"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"Pizza", 10, "Pizza"},
		{"Chicken Fingers", 8, "Chicken…"},
		{"Fruit & Veggie", 1, "…"},
		{"abc", 0, "abc"},
		{"Poutine 🍟 time", 9, "Poutine …"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestLastUsedLabel(t *testing.T) {
	now := time.Date(2026, 3, 17, 10, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		cfg  store.Configuration
		want string
	}{
		{"unused", store.Configuration{LastUsed: "2026-03-17", TimesUsed: 0}, "never"},
		{"today", store.Configuration{LastUsed: "2026-03-17", TimesUsed: 2}, "today"},
		{"days ago", store.Configuration{LastUsed: "2026-03-14", TimesUsed: 1}, "3 days ago"},
		{"malformed", store.Configuration{LastUsed: "soon", TimesUsed: 1}, "never"},
	}
	for _, tt := range tests {
		if got := lastUsedLabel(tt.cfg, now); got != tt.want {
			t.Errorf("%s: lastUsedLabel = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestSplitFoods(t *testing.T) {
	got := splitFoods(" Nachos, ,Poutine ,")
	if strings.Join(got, "|") != "Nachos|Poutine" {
		t.Fatalf("splitFoods = %q", got)
	}
	if splitFoods("") != nil {
		t.Fatal("empty input should give no foods")
	}
}

// ============================================================
// Survey runner
// ============================================================

func newTestRunner(t *testing.T) (runnerModel, *survey.Context) {
	t.Helper()
	sc := newTestContext(t)
	startDefault(t, sc)
	m := newRunnerModel(sc, remotelog.New(remotelog.Config{}), zap.NewNop())
	m.setSize(100, 40)
	return m, sc
}

func rateAll(t *testing.T, m runnerModel) runnerModel {
	t.Helper()
	m, _ = m.update(press("enter"))
	for range catalog.DefaultIDs() {
		m, _ = m.update(press("1"))
	}
	if m.runner.Stage() != survey.StageComments {
		t.Fatalf("stage = %s, want comments", m.runner.Stage())
	}
	return m
}

func TestRunnerWelcome(t *testing.T) {
	m, _ := newTestRunner(t)

	if m.runner.Stage() != survey.StageWelcome {
		t.Fatal("runner should start on the welcome screen")
	}
	if m.capturing() {
		t.Fatal("welcome screen should not capture keys")
	}
	if !strings.Contains(m.view(), "Default Survey") {
		t.Fatal("welcome should name the active survey")
	}

	m, _ = m.update(press("enter"))
	if m.runner.Stage() != survey.StageRating {
		t.Fatalf("stage = %s, want rating", m.runner.Stage())
	}
	if !m.capturing() {
		t.Fatal("rating screen should capture keys")
	}
	if !strings.Contains(m.view(), "1 of 10") {
		t.Fatal("rating screen should show progress")
	}
}

func TestRunnerWithoutSession(t *testing.T) {
	sc := newTestContext(t)
	m := newRunnerModel(sc, remotelog.New(remotelog.Config{}), zap.NewNop())
	m.setSize(100, 40)

	m, cmd := m.update(press("enter"))
	if m.runner.Stage() != survey.StageWelcome {
		t.Fatal("runner should not begin without a session")
	}
	if cmd == nil {
		t.Fatal("expected a status command")
	}
	if msg, ok := cmd().(statusMsg); !ok || !msg.isError {
		t.Fatalf("expected error status, got %#v", cmd())
	}
	if !strings.Contains(m.view(), "No survey running") {
		t.Fatal("view should say no survey is running")
	}
}

func TestRunnerChooseAndBack(t *testing.T) {
	m, _ := newTestRunner(t)
	m, _ = m.update(press("enter"))

	m, _ = m.update(press("right"))
	if m.choice != 1 {
		t.Fatalf("choice = %d, want 1", m.choice)
	}
	m, _ = m.update(press("enter"))
	if r, _ := m.runner.RatingFor("wings"); r != survey.OK {
		t.Fatalf("wings rated %q, want ok", r)
	}
	if i, _ := m.runner.Progress(); i != 2 {
		t.Fatalf("progress = %d, want 2", i)
	}

	m, _ = m.update(press("backspace"))
	if food, _ := m.runner.Current(); food.ID != "wings" {
		t.Fatalf("current = %q after back, want wings", food.ID)
	}
	if m.choice != 1 {
		t.Fatalf("choice = %d, previous rating should be highlighted", m.choice)
	}
}

func TestRunnerCommentsFormEscGoesBack(t *testing.T) {
	m, _ := newTestRunner(t)
	m = rateAll(t, m)

	if !m.formActive {
		t.Fatal("comments form should be open")
	}

	m, _ = m.update(press("esc"))
	if m.formActive {
		t.Fatal("esc should close the comments form")
	}
	if m.runner.Stage() != survey.StageRating {
		t.Fatalf("stage = %s, want rating", m.runner.Stage())
	}
	if food, _ := m.runner.Current(); food.ID != "pizza" {
		t.Fatalf("current = %q, want the last food", food.ID)
	}
}

func TestRunnerFinish(t *testing.T) {
	m, sc := newTestRunner(t)
	m = rateAll(t, m)
	m.formActive = false
	m.form = nil
	m.runner.SetComments("More nachos", "Sam")

	m, cmd := m.finish()
	if m.runner.Stage() != survey.StageDone {
		t.Fatalf("stage = %s, want done", m.runner.Stage())
	}
	if m.respondentID != 1 || !m.submitting {
		t.Fatalf("respondent = %d, submitting = %v", m.respondentID, m.submitting)
	}
	if last, _ := sc.Store().LastRespondentID(); last != 1 {
		t.Fatalf("stored respondent counter = %d, want 1", last)
	}

	msg, ok := cmd().(responseSubmittedMsg)
	if !ok {
		t.Fatal("expected responseSubmittedMsg")
	}
	if msg.respondentID != 1 || !errors.Is(msg.err, remotelog.ErrNotConfigured) {
		t.Fatalf("unexpected submission result: %+v", msg)
	}

	m, _ = m.update(msg)
	if m.submitting {
		t.Fatal("submission should be finished")
	}
	view := m.view()
	if !strings.Contains(view, "Respondent #1") || !strings.Contains(view, "no endpoint configured") {
		t.Fatalf("thank-you screen missing details:\n%s", view)
	}
}

func TestRunnerStaleSubmissionIgnored(t *testing.T) {
	m, _ := newTestRunner(t)
	m.respondentID = 4
	m.submitting = true

	m, _ = m.update(responseSubmittedMsg{respondentID: 3})
	if !m.submitting {
		t.Fatal("result for another respondent should be ignored")
	}
}

func TestRunnerThankYouAutoReset(t *testing.T) {
	m, _ := newTestRunner(t)
	m = rateAll(t, m)
	m.formActive = false
	m, cmd := m.finish()
	m, _ = m.update(cmd())

	for i := 0; i < int(thankYouDelay/time.Second)-1; i++ {
		m, _ = m.update(tickMsg(time.Now()))
	}
	if m.runner.Stage() != survey.StageDone {
		t.Fatal("reset happened too early")
	}

	m, _ = m.update(tickMsg(time.Now()))
	if m.runner.Stage() != survey.StageWelcome {
		t.Fatalf("stage = %s, want welcome after countdown", m.runner.Stage())
	}
	if m.respondentID != 0 {
		t.Fatal("respondent should be cleared on reset")
	}
}

func TestRunnerNoCountdownWhileSubmitting(t *testing.T) {
	m, _ := newTestRunner(t)
	m = rateAll(t, m)
	m.formActive = false
	m, _ = m.finish()

	for i := 0; i < 20; i++ {
		m, _ = m.update(tickMsg(time.Now()))
	}
	if m.runner.Stage() != survey.StageDone {
		t.Fatal("thank-you screen should wait for the submission")
	}
}

func TestRunnerIdleReset(t *testing.T) {
	m, _ := newTestRunner(t)
	now := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	m, _ = m.update(press("enter"))
	m, _ = m.update(press("1"))

	now = now.Add(time.Minute)
	m, _ = m.update(tickMsg(now))
	if m.runner.Stage() != survey.StageRating {
		t.Fatal("runner reset before the idle limit")
	}

	now = now.Add(defaultIdleLimit)
	m, _ = m.update(tickMsg(now))
	if m.runner.Stage() != survey.StageWelcome {
		t.Fatalf("stage = %s, want welcome after idling", m.runner.Stage())
	}
}

// ============================================================
// Admin prompt
// ============================================================

func TestAdminOpenWithPassword(t *testing.T) {
	m := newAdminModel(survey.NewAdminGate("letmein"))
	m, _ = m.open()
	if !m.active || m.form == nil {
		t.Fatal("prompt should be open")
	}
	if !strings.Contains(m.view(80), "Admin Access") {
		t.Fatal("prompt view missing title")
	}

	m, _ = m.update(press("esc"))
	if m.active || m.form != nil {
		t.Fatal("esc should close the prompt")
	}
}

func TestAdminOpenWithoutPassword(t *testing.T) {
	m := newAdminModel(survey.NewAdminGate(""))
	m, cmd := m.open()
	if m.active {
		t.Fatal("an open gate needs no prompt")
	}
	if _, ok := cmd().(unlockedMsg); !ok {
		t.Fatal("open gate should unlock immediately")
	}
}

// ============================================================
// Surveys manager
// ============================================================

func newTestSurveys(t *testing.T) (surveysModel, *store.Store) {
	t.Helper()
	sc := newTestContext(t)
	p := newSurveysModel(sc)
	p.setSize(120, 40)
	p.now = func() time.Time { return time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC) }
	p, _ = p.update(p.refresh()())
	return p, sc.Store()
}

func saveCustom(t *testing.T, s *store.Store, id, name string) {
	t.Helper()
	err := s.SaveConfiguration(store.Configuration{
		ID:          id,
		Name:        name,
		Foods:       []string{"wings"},
		CustomFoods: []catalog.FoodItem{},
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestSurveysRefresh(t *testing.T) {
	p, _ := newTestSurveys(t)
	if len(p.configs) != 1 || p.configs[0].ID != store.DefaultConfigID {
		t.Fatalf("configs = %+v", p.configs)
	}
	if !strings.Contains(p.view(), "Default Survey (default)") {
		t.Fatal("list should mark the default survey")
	}
}

func TestSurveysNewOpensEditor(t *testing.T) {
	p, _ := newTestSurveys(t)
	p, _ = p.update(press("n"))
	if !p.formActive || p.formType != "new" {
		t.Fatalf("formActive = %v, formType = %q", p.formActive, p.formType)
	}
	if len(*p.formFoods) != len(catalog.DefaultIDs()) {
		t.Fatal("new survey should preselect every default food")
	}
}

func TestSurveysNewBlockedAtLimit(t *testing.T) {
	p, s := newTestSurveys(t)
	saveCustom(t, s, "config-1", "One")
	saveCustom(t, s, "config-2", "Two")
	p, _ = p.update(p.refresh()())

	p, cmd := p.update(press("n"))
	if p.formActive {
		t.Fatal("editor should not open at the limit")
	}
	msg, ok := cmd().(statusMsg)
	if !ok || msg.text != limitReachedText || !msg.isError {
		t.Fatalf("unexpected status: %#v", cmd())
	}
}

func TestSurveysDeleteDefaultRefused(t *testing.T) {
	p, _ := newTestSurveys(t)
	p, cmd := p.update(press("d"))
	if p.formActive {
		t.Fatal("no confirmation should be shown for the default survey")
	}
	if msg, ok := cmd().(statusMsg); !ok || msg.text != "The default survey cannot be deleted" {
		t.Fatalf("unexpected status: %#v", cmd())
	}
}

func TestSurveysDeleteConfirm(t *testing.T) {
	p, s := newTestSurveys(t)
	saveCustom(t, s, "config-1", "One")
	p, _ = p.update(p.refresh()())
	p, _ = p.update(press("j"))

	p, _ = p.update(press("d"))
	if !p.formActive || p.formType != "delete" || p.editingID != "config-1" {
		t.Fatalf("delete confirmation not shown: %q %q", p.formType, p.editingID)
	}

	p.formActive = false
	p, _ = p.deleteConfiguration(p.editingID)
	if _, err := s.GetConfiguration("config-1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestSurveysSaveNew(t *testing.T) {
	p, s := newTestSurveys(t)
	p.formType = "new"
	*p.formName = "Halftime"
	*p.formFoods = []string{"pizza", "wings"}
	*p.formCustom = []string{}
	*p.formNewFoods = "Nachos, Poutine"

	p, cmd := p.saveEditor()
	if cmd == nil {
		t.Fatal("expected follow-up commands")
	}
	if len(p.formErrors) != 0 {
		t.Fatalf("unexpected errors: %v", p.formErrors)
	}

	configs, _ := s.ListConfigurations()
	if len(configs) != 2 {
		t.Fatalf("configs = %d, want 2", len(configs))
	}
	got := configs[1]
	if got.Name != "Halftime" {
		t.Fatalf("name = %q", got.Name)
	}
	if strings.Join(got.Foods, ",") != "wings,pizza" {
		t.Fatalf("foods = %v, want catalog order", got.Foods)
	}
	if len(got.CustomFoods) != 2 || got.CustomFoods[0].Name != "Nachos" || got.CustomFoods[1].Name != "Poutine" {
		t.Fatalf("custom foods = %+v", got.CustomFoods)
	}
	if got.CustomFoods[0].ID == got.CustomFoods[1].ID {
		t.Fatal("custom foods added together need distinct ids")
	}

	history, _ := s.CustomFoodHistory()
	if len(history) != 2 {
		t.Fatalf("history = %d entries, want 2", len(history))
	}
}

func TestSurveysSaveInvalidReopens(t *testing.T) {
	p, s := newTestSurveys(t)
	p.formType = "new"
	*p.formName = ""
	*p.formFoods = []string{}
	*p.formCustom = []string{}
	*p.formNewFoods = ""

	p, _ = p.saveEditor()
	if !p.formActive {
		t.Fatal("editor should reopen on validation errors")
	}
	if len(p.formErrors) != 1 || p.formErrors[0] != "Configuration must have at least one food item" {
		t.Fatalf("formErrors = %v", p.formErrors)
	}
	if configs, _ := s.ListConfigurations(); len(configs) != 1 {
		t.Fatal("invalid survey should not be saved")
	}
}

func TestSurveysEditKeepsNameWhenBlank(t *testing.T) {
	p, s := newTestSurveys(t)
	saveCustom(t, s, "config-1", "Halftime")
	p, _ = p.update(p.refresh()())

	p.formType = "edit"
	p.editingID = "config-1"
	*p.formName = "  "
	*p.formFoods = []string{"pizza"}
	*p.formCustom = []string{}
	*p.formNewFoods = ""

	p, cmd := p.saveEditor()
	if cmd == nil {
		t.Fatal("expected follow-up commands")
	}
	got, err := s.GetConfiguration("config-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Halftime" || strings.Join(got.Foods, ",") != "pizza" {
		t.Fatalf("unexpected configuration after edit: %+v", got)
	}
}

func TestSurveysValidateNewFoods(t *testing.T) {
	p, s := newTestSurveys(t)
	if err := s.AddCustomFood(store.HistoryEntry{ID: "custom-1", Name: "Poutine"}); err != nil {
		t.Fatal(err)
	}
	p, _ = p.update(p.refresh()())

	tests := []struct {
		in      string
		wantErr bool
	}{
		{"Nachos", false},
		{"", false},
		{"pizza", true},
		{" POUTINE ", true},
		{"Nachos, nachos", true},
	}
	for _, tt := range tests {
		err := p.validateNewFoods(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("validateNewFoods(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
	}
}

func TestSurveysEndWithoutSession(t *testing.T) {
	p, _ := newTestSurveys(t)
	_, cmd := p.update(press("x"))
	if msg, ok := cmd().(statusMsg); !ok || msg.isError {
		t.Fatalf("unexpected status: %#v", cmd())
	}
}

// ============================================================
// Usage and settings
// ============================================================

func TestUsageView(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.NextRespondentID(); err != nil {
		t.Fatal(err)
	}
	u := newUsageModel(s)
	u.setSize(120, 40)
	u, _ = u.update(u.refresh()())

	if len(u.configs) != 1 || u.respondents != 1 {
		t.Fatalf("configs = %d, respondents = %d", len(u.configs), u.respondents)
	}
	if !strings.Contains(u.view(), "Respondents so far: 1") {
		t.Fatal("usage view should show the respondent count")
	}
}

func TestSettingsPing(t *testing.T) {
	s := newTestStore(t)
	st := newSettingsModel(s, remotelog.New(remotelog.Config{}), survey.NewAdminGate(""), "/tmp/x.db", "")
	st.setSize(120, 40)

	view := st.view()
	if !strings.Contains(view, "not configured") || !strings.Contains(view, "open (no password set)") {
		t.Fatalf("settings view missing state:\n%s", view)
	}

	st, cmd := st.update(press("p"))
	if !st.pinging {
		t.Fatal("ping should be in flight")
	}
	msg, ok := cmd().(remoteDoneMsg)
	if !ok || !errors.Is(msg.err, remotelog.ErrNotConfigured) {
		t.Fatalf("unexpected ping result: %#v", msg)
	}
	st, _ = st.update(msg)
	if st.pinging || !st.pinged || st.lastErr == nil {
		t.Fatal("ping result not recorded")
	}
}

// ============================================================
// App model
// ============================================================

func TestNewApp(t *testing.T) {
	app := NewApp(newTestContext(t), Options{})

	if app.activeView != viewSurveys {
		t.Fatal("without a session the app should open on the surveys list")
	}
	if app.showHelp || app.exportPicking || app.locked() {
		t.Fatal("unexpected initial state")
	}
	if app.remote == nil || app.log == nil {
		t.Fatal("defaults should be filled in")
	}
}

func TestNewAppResumesSession(t *testing.T) {
	sc := newTestContext(t)
	startDefault(t, sc)

	app := NewApp(sc, Options{Gate: survey.NewAdminGate("letmein")})
	if app.activeView != viewSurvey {
		t.Fatal("a running session should open on the survey")
	}
	if !app.locked() || !app.clock.running() {
		t.Fatal("a running session should lock the app and start the clock")
	}
}

func TestAppLoadingState(t *testing.T) {
	app := NewApp(newTestContext(t), Options{})
	if output := app.View(); output != "Loading..." {
		t.Fatalf("expected 'Loading...', got %q", output)
	}
}

func TestAppViewStates(t *testing.T) {
	app := newTestApp(t, newTestContext(t), survey.NewAdminGate(""))

	for _, v := range []viewState{viewSurvey, viewSurveys, viewUsage, viewSettings} {
		app.activeView = v
		if app.View() == "" {
			t.Fatalf("view %d rendered empty", v)
		}
	}
}

func TestAppRenderHeaderContainsAllTabs(t *testing.T) {
	app := newTestApp(t, newTestContext(t), survey.NewAdminGate(""))

	header := app.renderHeader()
	for _, name := range viewNames {
		if !strings.Contains(header, name) {
			t.Fatalf("header missing tab %q", name)
		}
	}
}

func TestAppLockedHeaderHidesTabs(t *testing.T) {
	sc := newTestContext(t)
	startDefault(t, sc)
	app := newTestApp(t, sc, survey.NewAdminGate("letmein"))

	header := app.renderHeader()
	if strings.Contains(header, "Settings") || strings.Contains(header, "Usage") {
		t.Fatal("locked header should only show the survey tab")
	}
}

func TestAppLockedIgnoresNavigation(t *testing.T) {
	sc := newTestContext(t)
	startDefault(t, sc)
	app := newTestApp(t, sc, survey.NewAdminGate("letmein"))

	app, _ = sendApp(t, app, press("2"))
	if app.activeView != viewSurvey {
		t.Fatal("locked app must stay on the survey")
	}
	_, cmd := sendApp(t, app, press("q"))
	if cmd != nil {
		t.Fatal("quit must be blocked while locked")
	}
}

func TestAppAdminUnlock(t *testing.T) {
	sc := newTestContext(t)
	startDefault(t, sc)
	app := newTestApp(t, sc, survey.NewAdminGate("letmein"))

	app, _ = sendApp(t, app, press("ctrl+a"))
	if !app.admin.active {
		t.Fatal("ctrl+a should open the admin prompt")
	}
	if !strings.Contains(app.View(), "Admin Access") {
		t.Fatal("admin prompt should be rendered")
	}

	app, _ = sendApp(t, app, unlockedMsg{})
	if app.locked() || app.activeView != viewSurveys {
		t.Fatal("unlock should open the surveys list")
	}

	app, _ = sendApp(t, app, press("ctrl+a"))
	if !app.locked() || app.activeView != viewSurvey {
		t.Fatal("ctrl+a while unlocked should lock again")
	}
}

func TestAppAdminOpenGate(t *testing.T) {
	sc := newTestContext(t)
	startDefault(t, sc)
	app := newTestApp(t, sc, survey.NewAdminGate(""))

	_, cmd := sendApp(t, app, press("ctrl+a"))
	if _, ok := cmd().(unlockedMsg); !ok {
		t.Fatal("an open gate should unlock without a prompt")
	}
}

func TestAppSessionStartedAndEnded(t *testing.T) {
	sc := newTestContext(t)
	app := newTestApp(t, sc, survey.NewAdminGate("letmein"))
	cfg := startDefault(t, sc)

	app, cmd := sendApp(t, app, sessionStartedMsg{config: cfg})
	if cmd == nil {
		t.Fatal("expected refresh and remote log commands")
	}
	if app.activeView != viewSurvey || !app.locked() || !app.clock.running() {
		t.Fatal("starting a session should show the survey locked")
	}
	if !strings.Contains(app.renderFooter(), "Default Survey") {
		t.Fatal("footer should name the running survey")
	}
	if len(app.runner.runner.Foods()) != len(catalog.DefaultIDs()) {
		t.Fatal("runner should load the session's foods")
	}

	if err := sc.End(); err != nil {
		t.Fatal(err)
	}
	app, _ = sendApp(t, app, sessionEndedMsg{})
	if app.clock.running() || app.locked() {
		t.Fatal("ending the session should stop the clock and unlock")
	}
	if app.status != "Session ended" {
		t.Fatalf("status = %q", app.status)
	}
}

func TestAppStatusMessage(t *testing.T) {
	app := newTestApp(t, newTestContext(t), survey.NewAdminGate(""))
	app, _ = sendApp(t, app, statusMsg{text: "test status"})

	if !strings.Contains(app.renderFooter(), "test status") {
		t.Fatal("footer should contain status message")
	}
}

func TestAppExport(t *testing.T) {
	app := newTestApp(t, newTestContext(t), survey.NewAdminGate(""))

	app, _ = sendApp(t, app, press("3"))
	if app.activeView != viewUsage {
		t.Fatalf("activeView = %d, want usage", app.activeView)
	}
	app, _ = sendApp(t, app, press("e"))
	if !app.exportPicking {
		t.Fatal("e should open the export picker on the usage view")
	}
	if !strings.Contains(app.View(), "CSV") {
		t.Fatal("picker should list formats")
	}

	app, cmd := sendApp(t, app, press("enter"))
	if app.exportPicking {
		t.Fatal("picker should close after choosing")
	}
	msg, ok := cmd().(exportDoneMsg)
	if !ok {
		t.Fatalf("expected exportDoneMsg, got %#v", cmd())
	}
	if !strings.HasSuffix(msg.path, ".csv") {
		t.Fatalf("path = %q", msg.path)
	}
	if _, err := os.Stat(msg.path); err != nil {
		t.Fatalf("export file missing: %v", err)
	}
}

func TestAppExportOnlyFromReports(t *testing.T) {
	app := newTestApp(t, newTestContext(t), survey.NewAdminGate(""))
	app, _ = sendApp(t, app, press("e"))
	if app.exportPicking {
		t.Fatal("e on the surveys list edits, it must not export")
	}
}

// ============================================================
// Key bindings
// ============================================================

func TestKeyMapShortHelp(t *testing.T) {
	if len(keys.ShortHelp()) == 0 {
		t.Fatal("short help should have bindings")
	}
	if len(lockedKeyMap{}.ShortHelp()) == 0 {
		t.Fatal("locked help should have bindings")
	}
}

func TestKeyMapFullHelp(t *testing.T) {
	groups := keys.FullHelp()
	if len(groups) == 0 {
		t.Fatal("full help should have groups")
	}
	for i, g := range groups {
		if len(g) == 0 {
			t.Fatalf("full help group %d is empty", i)
		}
	}
}

// ============================================================
// Styles (smoke test — just verify they don't panic)
// ============================================================

func TestStylesRender(t *testing.T) {
	styles := []struct {
		name string
		fn   func() string
	}{
		{"activeTab", func() string { return activeTabStyle.Render("test") }},
		{"inactiveTab", func() string { return inactiveTabStyle.Render("test") }},
		{"panel", func() string { return panelStyle.Render("test") }},
		{"activePanel", func() string { return activePanelStyle.Render("test") }},
		{"question", func() string { return questionStyle.Render("test") }},
		{"foodTitle", func() string { return foodTitleStyle.Render("test") }},
		{"love", func() string { return loveStyle.Render("test") }},
		{"ok", func() string { return okStyle.Render("test") }},
		{"nope", func() string { return nopeStyle.Render("test") }},
		{"banner", func() string { return bannerStyle.Render("test") }},
		{"title", func() string { return titleStyle.Render("test") }},
		{"error", func() string { return errorStyle.Render("test") }},
		{"muted", func() string { return mutedStyle.Render("test") }},
		{"selectedItem", func() string { return selectedItemStyle.Render("test") }},
	}

	for _, s := range styles {
		if s.fn() == "" {
			t.Fatalf("style %q rendered empty", s.name)
		}
	}
}
