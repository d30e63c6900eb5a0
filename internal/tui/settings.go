package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/foodsurvey/internal/remotelog"
	"github.com/sadopc/foodsurvey/internal/store"
	"github.com/sadopc/foodsurvey/internal/survey"
)

// settingsModel shows the effective configuration. Values come from the
// config file and environment, so the screen is read-only.
type settingsModel struct {
	store  *store.Store
	remote *remotelog.Client
	gate   survey.AdminGate
	width  int
	height int

	databasePath string
	logFile      string

	history []store.HistoryEntry
	pinging bool
	lastErr error
	pinged  bool
}

func newSettingsModel(s *store.Store, remote *remotelog.Client, gate survey.AdminGate, dbPath, logFile string) settingsModel {
	return settingsModel{
		store:        s,
		remote:       remote,
		gate:         gate,
		databasePath: dbPath,
		logFile:      logFile,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	history []store.HistoryEntry
	err     error
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		history, err := s.store.CustomFoodHistory()
		return settingsDataMsg{history: history, err: err}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case settingsDataMsg:
		if msg.err != nil {
			return s, statusCmd(fmt.Sprintf("Error: %v", msg.err), true)
		}
		s.history = msg.history
		return s, nil

	case remoteDoneMsg:
		if msg.op == remotelog.TypeTest {
			s.pinging = false
			s.pinged = true
			s.lastErr = msg.err
		}
		return s, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Ping) && !s.pinging {
			s.pinging = true
			return s, s.ping()
		}
	}
	return s, nil
}

func (s settingsModel) ping() tea.Cmd {
	remote := s.remote
	return func() tea.Msg {
		return remoteDoneMsg{op: remotelog.TypeTest, err: remote.Ping(context.Background())}
	}
}

func (s settingsModel) view() string {
	w := s.width - 4
	cfg := s.remote.Config()

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = warningStyle.Render("not configured")
	} else {
		endpoint = highlightStyle.Render(truncate(endpoint, max(w-32, 16)))
	}

	gate := highlightStyle.Render("password required")
	if !s.gate.Enabled() {
		gate = warningStyle.Render("open (no password set)")
	}

	rows := []string{titleStyle.Render("Settings"), ""}
	add := func(label, value string) {
		rows = append(rows, fmt.Sprintf("  %s %s", lipgloss.NewStyle().Width(24).Render(label), value))
	}
	add("Endpoint", endpoint)
	add("Write-only", highlightStyle.Render(fmt.Sprintf("%t", cfg.WriteOnly)))
	add("Timeout", highlightStyle.Render(cfg.Timeout.String()))
	add("Database", highlightStyle.Render(orNone(s.databasePath)))
	add("Log file", highlightStyle.Render(orNone(s.logFile)))
	add("Admin gate", gate)
	add("Endpoint check", s.pingStatus())

	rows = append(rows, "", subtitleStyle.Render("Custom food history"))
	if len(s.history) == 0 {
		rows = append(rows, mutedStyle.Render("  none yet"))
	} else {
		names := make([]string, 0, len(s.history))
		for _, h := range s.history {
			names = append(names, h.Name)
		}
		rows = append(rows, "  "+lipgloss.NewStyle().Width(max(w-6, 10)).Render(strings.Join(names, ", ")))
	}

	rows = append(rows, "", mutedStyle.Render("  p: test endpoint  e: export surveys"))
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (s settingsModel) pingStatus() string {
	switch {
	case s.pinging:
		return mutedStyle.Render("checking...")
	case !s.pinged:
		return mutedStyle.Render("not checked")
	case s.lastErr != nil:
		return errorStyle.Render(truncate(s.lastErr.Error(), 48))
	case s.remote.Config().WriteOnly:
		return successStyle.Render("sent (write-only, status not read)")
	default:
		return successStyle.Render("ok")
	}
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
