package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/foodsurvey/internal/survey"
)

// adminModel is the password prompt that unlocks the manager screens while
// a session is running.
type adminModel struct {
	gate     survey.AdminGate
	active   bool
	form     *huh.Form
	password *string
	failed   bool
}

func newAdminModel(gate survey.AdminGate) adminModel {
	pw := ""
	return adminModel{gate: gate, password: &pw}
}

func (m adminModel) open() (adminModel, tea.Cmd) {
	if !m.gate.Enabled() {
		return m, func() tea.Msg { return unlockedMsg{} }
	}
	*m.password = ""
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Admin password").
				EchoMode(huh.EchoModePassword).
				Value(m.password),
		),
	).WithShowHelp(true)
	m.active = true
	return m, m.form.Init()
}

func (m adminModel) update(msg tea.Msg) (adminModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "esc" {
		m.active = false
		m.form = nil
		m.failed = false
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		if m.gate.Unlock(*m.password) {
			m.active = false
			m.form = nil
			m.failed = false
			return m, func() tea.Msg { return unlockedMsg{} }
		}
		m, cmd = m.open()
		m.failed = true
		return m, cmd
	}
	return m, cmd
}

func (m adminModel) view(width int) string {
	rows := []string{titleStyle.Render("Admin Access"), ""}
	if m.failed {
		rows = append(rows, errorStyle.Render("Incorrect password. Please try again."), "")
	}
	if m.form != nil {
		rows = append(rows, m.form.View())
	}
	rows = append(rows, "", mutedStyle.Render("  esc: cancel"))
	return activePanelStyle.Width(width - 4).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
