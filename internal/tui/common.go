package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/foodsurvey/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewSurvey viewState = iota
	viewSurveys
	viewUsage
	viewSettings
)

var viewNames = []string{"Survey", "Surveys", "Usage", "Settings"}

// --- Messages ---

type sessionStartedMsg struct {
	config *store.Configuration
}

type sessionEndedMsg struct{}

type configSavedMsg struct {
	config store.Configuration
}

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

// remoteDoneMsg reports a finished background submission.
type remoteDoneMsg struct {
	op  string
	err error
}

type responseSubmittedMsg struct {
	respondentID int
	err          error
}

type unlockedMsg struct{}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func formatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

func statusCmd(text string, isError bool) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text, isError: isError} }
}
