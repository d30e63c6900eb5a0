package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/foodsurvey/internal/remotelog"
	"github.com/sadopc/foodsurvey/internal/survey"
	"go.uber.org/zap"
)

const (
	thankYouDelay     = 10 * time.Second
	defaultIdleLimit  = 3 * time.Minute
	commentsCharLimit = 500
)

// runnerModel is the attendee-facing screen: welcome, one screen per food,
// comments, thank you.
type runnerModel struct {
	sc     *survey.Context
	remote *remotelog.Client
	log    *zap.Logger
	width  int
	height int

	runner *survey.Runner
	choice int // highlighted rating on the food screen

	formActive bool
	form       *huh.Form
	comments   *string
	name       *string

	respondentID int
	submitting   bool
	submitErr    error
	resetIn      time.Duration

	// An attendee who walks away mid-survey is reset after idleLimit.
	lastActivity time.Time
	idleLimit    time.Duration
	now          func() time.Time
}

func newRunnerModel(sc *survey.Context, remote *remotelog.Client, log *zap.Logger) runnerModel {
	comments, name := "", ""
	m := runnerModel{
		sc:        sc,
		remote:    remote,
		log:       log,
		comments:  &comments,
		name:      &name,
		idleLimit: defaultIdleLimit,
		now:       time.Now,
	}
	m.load()
	return m
}

func (m *runnerModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

// load rebuilds the runner from the active configuration.
func (m *runnerModel) load() {
	m.runner = survey.NewRunner(m.sc.Foods())
	m.reset()
}

func (m *runnerModel) reset() {
	m.runner.Reset()
	m.choice = 0
	m.formActive = false
	m.form = nil
	*m.comments = ""
	*m.name = ""
	m.respondentID = 0
	m.submitting = false
	m.submitErr = nil
	m.resetIn = 0
	m.lastActivity = m.now()
}

// capturing reports whether the runner needs every key, so global shortcuts
// must not fire.
func (m runnerModel) capturing() bool {
	return m.formActive || m.runner.Stage() != survey.StageWelcome
}

func (m runnerModel) update(msg tea.Msg) (runnerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return m.tick()

	case responseSubmittedMsg:
		if msg.respondentID != m.respondentID {
			return m, nil
		}
		m.submitting = false
		m.submitErr = msg.err
		return m, nil

	case tea.KeyMsg:
		m.lastActivity = m.now()
		if m.formActive && m.form != nil {
			return m.updateForm(msg)
		}
		switch m.runner.Stage() {
		case survey.StageWelcome:
			return m.updateWelcome(msg)
		case survey.StageRating:
			return m.updateRating(msg)
		case survey.StageDone:
			if key.Matches(msg, keys.Enter) {
				m.reset()
			}
		}
		return m, nil
	}

	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}
	return m, nil
}

func (m runnerModel) tick() (runnerModel, tea.Cmd) {
	switch m.runner.Stage() {
	case survey.StageDone:
		if m.submitting {
			return m, nil
		}
		m.resetIn -= time.Second
		if m.resetIn <= 0 {
			m.reset()
		}
	case survey.StageRating, survey.StageComments:
		if m.idleLimit > 0 && m.now().Sub(m.lastActivity) > m.idleLimit {
			m.log.Info("survey abandoned, resetting")
			m.reset()
		}
	}
	return m, nil
}

func (m runnerModel) updateWelcome(msg tea.KeyMsg) (runnerModel, tea.Cmd) {
	if !key.Matches(msg, keys.Enter) {
		return m, nil
	}
	if m.sc.Active() == nil {
		return m, statusCmd("No survey is running", true)
	}
	if err := m.runner.Begin(); err != nil {
		return m, nil
	}
	m.syncChoice()
	if m.runner.Stage() == survey.StageComments {
		return m.showCommentsForm()
	}
	return m, nil
}

func (m runnerModel) updateRating(msg tea.KeyMsg) (runnerModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Love):
		return m.rate(survey.Love)
	case key.Matches(msg, keys.OK):
		return m.rate(survey.OK)
	case key.Matches(msg, keys.Nope):
		return m.rate(survey.Nope)
	case key.Matches(msg, keys.Left):
		if m.choice > 0 {
			m.choice--
		}
	case key.Matches(msg, keys.Right):
		if m.choice < len(survey.Ratings)-1 {
			m.choice++
		}
	case key.Matches(msg, keys.Enter):
		return m.rate(survey.Ratings[m.choice])
	case key.Matches(msg, keys.Prev), key.Matches(msg, keys.Back):
		m.runner.Back()
		m.syncChoice()
	}
	return m, nil
}

func (m runnerModel) rate(r survey.Rating) (runnerModel, tea.Cmd) {
	if err := m.runner.Rate(r); err != nil {
		return m, statusCmd(err.Error(), true)
	}
	if m.runner.Stage() == survey.StageComments {
		return m.showCommentsForm()
	}
	m.syncChoice()
	return m, nil
}

// syncChoice highlights the rating already given to the current food.
func (m *runnerModel) syncChoice() {
	m.choice = 0
	food, ok := m.runner.Current()
	if !ok {
		return
	}
	if r, ok := m.runner.RatingFor(food.ID); ok {
		for i, candidate := range survey.Ratings {
			if candidate == r {
				m.choice = i
			}
		}
	}
}

func (m runnerModel) showCommentsForm() (runnerModel, tea.Cmd) {
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Any additional food ideas? (Optional)").
				Placeholder("Type here...").
				CharLimit(commentsCharLimit).
				Value(m.comments),
			huh.NewInput().
				Title("Your name (Optional)").
				Value(m.name),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m runnerModel) updateForm(msg tea.Msg) (runnerModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "esc" {
		m.formActive = false
		m.form = nil
		m.runner.Back()
		m.syncChoice()
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		m.form = nil
		m.runner.SetComments(*m.comments, *m.name)
		return m.finish()
	}
	return m, cmd
}

// finish draws the respondent id, assembles the response and submits it in
// the background. The thank-you screen shows regardless of the outcome.
func (m runnerModel) finish() (runnerModel, tea.Cmd) {
	id, err := m.sc.Store().NextRespondentID()
	if err != nil {
		m.log.Error("respondent counter unavailable", zap.Error(err))
	}
	resp, err := m.runner.Finish(id, m.sc.Active(), m.now())
	if err != nil {
		return m, statusCmd(fmt.Sprintf("Error: %v", err), true)
	}

	m.respondentID = id
	m.submitting = true
	m.submitErr = nil
	m.resetIn = thankYouDelay

	remote := m.remote
	return m, func() tea.Msg {
		err := remote.SubmitResponse(context.Background(), resp)
		return responseSubmittedMsg{respondentID: resp.RespondentID, err: err}
	}
}

func (m runnerModel) view() string {
	if m.width < 20 {
		return "Terminal too small"
	}
	w := m.width - 4

	cfg := m.sc.Active()
	if cfg == nil {
		content := lipgloss.JoinVertical(lipgloss.Center,
			titleStyle.Render("No survey running"),
			"",
			mutedStyle.Render("Press 2 to choose a survey and start a session."),
		)
		return panelStyle.Width(w).Align(lipgloss.Center).Render(content)
	}

	var content string
	switch m.runner.Stage() {
	case survey.StageWelcome:
		content = m.renderWelcome(w, cfg.Name)
	case survey.StageRating:
		content = m.renderRating(w)
	case survey.StageComments:
		if m.form != nil {
			content = lipgloss.JoinVertical(lipgloss.Left, m.form.View())
		}
	case survey.StageDone:
		content = m.renderThankYou(w)
	}
	return activePanelStyle.Width(w).Render(content)
}

func (m runnerModel) renderWelcome(w int, name string) string {
	return lipgloss.JoinVertical(lipgloss.Center,
		bannerStyle.Width(w-6).Render("Game Day Food Survey"),
		"",
		highlightStyle.Render(name),
		"",
		questionStyle.Width(w-6).Render("Tell us how you feel about today's food."),
		"",
		mutedStyle.Render("Press enter to begin"),
	)
}

func (m runnerModel) renderRating(w int) string {
	food, ok := m.runner.Current()
	if !ok {
		return ""
	}
	i, n := m.runner.Progress()

	var buttons []string
	for idx, r := range survey.Ratings {
		label := fmt.Sprintf("%d  %s %s", idx+1, r.Emoji(), r.Label())
		style := ratingStyle
		if idx == m.choice {
			switch r {
			case survey.Love:
				style = loveStyle
			case survey.OK:
				style = okStyle
			case survey.Nope:
				style = nopeStyle
			}
		}
		buttons = append(buttons, style.Render(label))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Center, buttons...)

	return lipgloss.JoinVertical(lipgloss.Center,
		questionStyle.Width(w-6).Render("How do you feel about..."),
		"",
		foodTitleStyle.Width(w-6).Render(food.Label()),
		"",
		row,
		"",
		mutedStyle.Render(fmt.Sprintf("%d of %d", i, n)),
		mutedStyle.Render("←/→: choose  enter: rate  backspace: back"),
	)
}

func (m runnerModel) renderThankYou(w int) string {
	var status string
	switch {
	case m.submitting:
		status = mutedStyle.Render("Sending your response...")
	case errors.Is(m.submitErr, remotelog.ErrNotConfigured):
		status = warningStyle.Render("Response not sent: no endpoint configured")
	case m.submitErr != nil:
		status = warningStyle.Render("Could not reach the survey sheet. Thanks anyway!")
	default:
		status = successStyle.Render("Response recorded")
	}

	secs := int(m.resetIn.Seconds())
	next := mutedStyle.Render("Press enter for the next response")
	if !m.submitting && secs > 0 {
		next = mutedStyle.Render(fmt.Sprintf("Press enter for the next response (%ds)", secs))
	}

	return lipgloss.JoinVertical(lipgloss.Center,
		bannerStyle.Width(w-6).Render(strings.Join([]string{
			"Thank you!",
			"Your feedback helps us make game day even better!",
		}, "\n")),
		"",
		accentStyle.Render("GO BOMBERS! 🏈🎊"),
		"",
		mutedStyle.Render(fmt.Sprintf("Respondent #%d", m.respondentID)),
		status,
		"",
		next,
	)
}
