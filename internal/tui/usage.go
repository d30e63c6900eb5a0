package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/sadopc/foodsurvey/internal/store"
)

var barColors = []lipgloss.Color{colorPrimary, colorHighlight, colorSecondary, colorAccent}

// usageModel charts how often each survey has been run.
type usageModel struct {
	store  *store.Store
	now    func() time.Time
	width  int
	height int

	configs     []store.Configuration
	respondents int

	chart barchart.Model
}

func newUsageModel(s *store.Store) usageModel {
	return usageModel{
		store: s,
		now:   time.Now,
		chart: barchart.New(60, 12),
	}
}

func (u *usageModel) setSize(w, h int) {
	u.width = w
	u.height = h
}

type usageDataMsg struct {
	configs     []store.Configuration
	respondents int
	err         error
}

func (u usageModel) refresh() tea.Cmd {
	return func() tea.Msg {
		configs, err := u.store.ListConfigurations()
		if err != nil {
			return usageDataMsg{err: err}
		}
		respondents, err := u.store.LastRespondentID()
		return usageDataMsg{configs: configs, respondents: respondents, err: err}
	}
}

func (u usageModel) update(msg tea.Msg) (usageModel, tea.Cmd) {
	if msg, ok := msg.(usageDataMsg); ok {
		if msg.err != nil {
			return u, statusCmd(fmt.Sprintf("Error: %v", msg.err), true)
		}
		u.configs = msg.configs
		u.respondents = msg.respondents
		u.buildChart()
	}
	return u, nil
}

func (u *usageModel) buildChart() {
	chartWidth := max(u.width-8, 20)
	chartHeight := 12
	if u.height > 30 {
		chartHeight = 16
	}

	u.chart = barchart.New(chartWidth, chartHeight)

	var bars []barchart.BarData
	for i, cfg := range u.configs {
		style := lipgloss.NewStyle().Foreground(barColors[i%len(barColors)])
		bars = append(bars, barchart.BarData{
			Label: truncate(cfg.Name, 12),
			Values: []barchart.BarValue{{
				Name:  cfg.Name,
				Value: float64(cfg.TimesUsed),
				Style: style,
			}},
		})
	}

	u.chart.PushAll(bars)
	u.chart.Draw()
}

func (u usageModel) view() string {
	w := u.width - 4

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Usage"), "  ",
		mutedStyle.Render(fmt.Sprintf("Respondents so far: %s", humanize.Comma(int64(u.respondents)))),
	)

	if len(u.configs) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			header, "", mutedStyle.Render("  No surveys yet"),
		))
	}

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", u.chart.View(), "", u.renderTable(w), "",
			mutedStyle.Render("  e: export surveys"),
		),
	)
}

func (u usageModel) renderTable(w int) string {
	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-24s %10s %-12s %-16s", "Survey", "Times used", "Created", "Last used")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 66))))

	now := u.now()
	for i, cfg := range u.configs {
		dot := lipgloss.NewStyle().Foreground(barColors[i%len(barColors)]).Render("●")
		rows = append(rows, fmt.Sprintf("  %s %-22s %10s %-12s %-16s",
			dot, truncate(cfg.Name, 22), humanize.Comma(int64(cfg.TimesUsed)), cfg.CreatedDate, lastUsedLabel(cfg, now),
		))
	}
	return strings.Join(rows, "\n")
}
