package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/sadopc/foodsurvey/internal/export"
	"github.com/sadopc/foodsurvey/internal/remotelog"
	"github.com/sadopc/foodsurvey/internal/store"
	"github.com/sadopc/foodsurvey/internal/survey"
)

// Options carries the collaborators the app does not own.
type Options struct {
	Remote       *remotelog.Client
	Gate         survey.AdminGate
	DatabasePath string
	LogFile      string
	ExportDir    string
	Logger       *zap.Logger
}

// App is the root Bubble Tea model.
type App struct {
	sc        *survey.Context
	store     *store.Store
	remote    *remotelog.Client
	log       *zap.Logger
	exportDir string
	width     int
	height    int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int
	unlocked      bool

	runner   runnerModel
	surveys  surveysModel
	usage    usageModel
	settings settingsModel
	admin    adminModel
	clock    sessionClock

	help      help.Model
	status    string
	statusErr bool
}

func NewApp(sc *survey.Context, opts Options) App {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	remote := opts.Remote
	if remote == nil {
		remote = remotelog.New(remotelog.Config{}, remotelog.WithLogger(log))
	}
	exportDir := opts.ExportDir
	if exportDir == "" {
		exportDir, _ = os.UserHomeDir()
	}

	h := help.New()
	h.ShowAll = false

	a := App{
		sc:         sc,
		store:      sc.Store(),
		remote:     remote,
		log:        log,
		exportDir:  exportDir,
		activeView: viewSurveys,
		runner:     newRunnerModel(sc, remote, log),
		surveys:    newSurveysModel(sc),
		usage:      newUsageModel(sc.Store()),
		settings:   newSettingsModel(sc.Store(), remote, opts.Gate, opts.DatabasePath, opts.LogFile),
		admin:      newAdminModel(opts.Gate),
		clock:      newSessionClock(),
		help:       h,
	}
	if sc.InSession() {
		a.activeView = viewSurvey
		a.clock.start(sc.Session(), sc.Active())
	}
	return a
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.surveys.refresh(),
		tickCmd(),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// locked reports whether attendees are in front of the kiosk: a session is
// running and nobody has entered the admin password.
func (a App) locked() bool {
	return a.sc.InSession() && !a.unlocked
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.runner.setSize(a.width, contentHeight)
		a.surveys.setSize(a.width, contentHeight)
		a.usage.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		return a.updateKey(msg)

	case tickMsg:
		cmds = append(cmds, tickCmd())
		a.clock.tick()
		var cmd tea.Cmd
		a.runner, cmd = a.runner.update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		return a, tea.Batch(cmds...)

	case statusMsg:
		a.status = msg.text
		a.statusErr = msg.isError
		return a, nil

	case sessionStartedMsg:
		a.unlocked = false
		a.activeView = viewSurvey
		a.clock.start(a.sc.Session(), msg.config)
		a.runner.load()
		a.status = fmt.Sprintf("Survey %q started", msg.config.Name)
		a.statusErr = false
		return a, tea.Batch(a.surveys.refresh(), a.logConfigurationCmd(*msg.config))

	case sessionEndedMsg:
		a.clock.stop()
		a.runner.load()
		a.status = "Session ended"
		a.statusErr = false
		return a, a.surveys.refresh()

	case configSavedMsg:
		a.status = fmt.Sprintf("Survey %q saved", msg.config.Name)
		a.statusErr = false
		if err := a.sc.Reload(); err != nil {
			a.status = fmt.Sprintf("Error: %v", err)
			a.statusErr = true
		}
		if active := a.sc.Active(); active != nil && active.ID == msg.config.ID {
			a.clock.start(a.sc.Session(), active)
			a.runner.load()
		}
		return a, a.logConfigurationCmd(msg.config)

	case remoteDoneMsg:
		switch {
		case msg.err == nil:
		case errors.Is(msg.err, remotelog.ErrNotConfigured):
			a.log.Debug("remote log skipped", zap.String("op", msg.op))
		default:
			a.log.Warn("remote log failed", zap.String("op", msg.op), zap.Error(msg.err))
			if msg.op == remotelog.TypeConfigUpdate {
				a.status = "Could not log survey to the sheet"
				a.statusErr = true
			}
		}
		var cmd tea.Cmd
		a.settings, cmd = a.settings.update(msg)
		return a, cmd

	case responseSubmittedMsg:
		if msg.err != nil && !errors.Is(msg.err, remotelog.ErrNotConfigured) {
			a.log.Warn("response not delivered", zap.Int("respondent", msg.respondentID), zap.Error(msg.err))
		}
		var cmd tea.Cmd
		a.runner, cmd = a.runner.update(msg)
		return a, cmd

	case unlockedMsg:
		a.unlocked = true
		a.admin.active = false
		a.admin.form = nil
		a.activeView = viewSurveys
		a.status = "Admin unlocked"
		a.statusErr = false
		return a, a.surveys.refresh()

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.statusErr = false
		a.exportPicking = false
		return a, nil

	case surveysDataMsg:
		var cmd tea.Cmd
		a.surveys, cmd = a.surveys.update(msg)
		return a, cmd

	case usageDataMsg:
		var cmd tea.Cmd
		a.usage, cmd = a.usage.update(msg)
		return a, cmd

	case settingsDataMsg:
		var cmd tea.Cmd
		a.settings, cmd = a.settings.update(msg)
		return a, cmd
	}

	if a.admin.active {
		var cmd tea.Cmd
		a.admin, cmd = a.admin.update(msg)
		return a, cmd
	}
	return a.updateActiveView(msg)
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.admin.active {
		var cmd tea.Cmd
		a.admin, cmd = a.admin.update(msg)
		return a, cmd
	}

	if a.exportPicking {
		return a.updateExportPicker(msg)
	}

	// Attendees only ever see the survey. The admin shortcut is the way out.
	if a.locked() {
		if key.Matches(msg, keys.Admin) && !a.runner.formActive {
			var cmd tea.Cmd
			a.admin, cmd = a.admin.open()
			return a, cmd
		}
		a.activeView = viewSurvey
		return a.updateActiveView(msg)
	}

	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	// If a child view is capturing input (e.g. form), delegate first.
	if a.isFormActive() {
		return a.updateActiveView(msg)
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, keys.Help):
		a.showHelp = !a.showHelp
		a.help.ShowAll = a.showHelp
		return a, nil
	case key.Matches(msg, keys.Admin):
		if a.sc.InSession() {
			a.unlocked = false
			a.activeView = viewSurvey
			a.status = "Locked"
			a.statusErr = false
		}
		return a, nil
	case key.Matches(msg, keys.Export) && (a.activeView == viewUsage || a.activeView == viewSettings):
		a.exportPicking = true
		a.exportCursor = 0
		return a, nil
	case key.Matches(msg, keys.Tab1):
		a.activeView = viewSurvey
		return a, nil
	case key.Matches(msg, keys.Tab2):
		a.activeView = viewSurveys
		return a, a.surveys.refresh()
	case key.Matches(msg, keys.Tab3):
		a.activeView = viewUsage
		return a, a.usage.refresh()
	case key.Matches(msg, keys.Tab4):
		a.activeView = viewSettings
		return a, a.settings.refresh()
	case key.Matches(msg, keys.Tab):
		a.activeView = (a.activeView + 1) % viewState(len(viewNames))
		return a, a.refreshCurrentView()
	}

	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewSurvey:
		a.runner, cmd = a.runner.update(msg)
	case viewSurveys:
		a.surveys, cmd = a.surveys.update(msg)
	case viewUsage:
		a.usage, cmd = a.usage.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewSurvey:
		return a.runner.capturing()
	case viewSurveys:
		return a.surveys.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewSurveys:
		return a.surveys.refresh()
	case viewUsage:
		return a.usage.refresh()
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

// logConfigurationCmd snapshots cfg to the remote sheet in the background.
func (a App) logConfigurationCmd(cfg store.Configuration) tea.Cmd {
	remote := a.remote
	return func() tea.Msg {
		return remoteDoneMsg{op: remotelog.TypeConfigUpdate, err: remote.LogConfiguration(context.Background(), cfg)}
	}
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewSurvey:
		content = a.runner.view()
	case viewSurveys:
		content = a.surveys.view()
	case viewUsage:
		content = a.usage.view()
	case viewSettings:
		content = a.settings.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(a.height-headerHeight-footerHeight, 1)

	switch {
	case a.admin.active:
		content = a.admin.view(a.width)
	case a.exportPicking:
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	locked := a.locked()
	for i, name := range viewNames {
		switch {
		case viewState(i) == a.activeView:
			tabs = append(tabs, activeTabStyle.Render(name))
		case locked:
			continue
		default:
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("foodsurvey")
	gap := max(a.width-lipgloss.Width(title)-lipgloss.Width(tabRow)-4, 1)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	var helpView string
	if a.locked() {
		helpView = a.help.View(lockedKeyMap{})
	} else {
		helpView = a.help.View(keys)
	}

	status := ""
	if a.status != "" {
		style := mutedStyle
		if a.statusErr {
			style = errorStyle
		}
		status = style.Render(" " + a.status)
	}

	sessionInfo := ""
	if a.clock.running() {
		sessionInfo = successStyle.Render(fmt.Sprintf(" ● %s %s", truncate(a.clock.configName, 20), formatDuration(a.clock.elapsed)))
	}

	left := footerStyle.Render(helpView)
	right := sessionInfo + status

	gap := max(a.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker() string {
	rows := []string{titleStyle.Render("Export Surveys"), ""}
	for i, f := range export.Formats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+strings.ToUpper(f)))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  files are written to "+a.exportDir))
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(export.Formats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(export.Formats[a.exportCursor])
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format string) tea.Cmd {
	s, dir := a.store, a.exportDir
	return func() tea.Msg {
		configs, err := s.ListConfigurations()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		e, err := export.NewExporter(format)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		path := filepath.Join(dir, export.Filename(e, time.Now()))
		if err := export.WriteFile(e, configs, path); err != nil {
			return statusMsg{text: fmt.Sprintf("%s error: %v", strings.ToUpper(format), err), isError: true}
		}
		return exportDoneMsg{path: path}
	}
}
