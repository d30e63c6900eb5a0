package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/sadopc/foodsurvey/internal/catalog"
	"github.com/sadopc/foodsurvey/internal/store"
	"github.com/sadopc/foodsurvey/internal/survey"
)

const limitReachedText = "Maximum number of custom surveys reached (2). Please delete an existing survey first."

type surveysModel struct {
	sc     *survey.Context
	store  *store.Store
	now    func() time.Time
	width  int
	height int

	configs []store.Configuration
	history []store.HistoryEntry
	cursor  int

	formActive bool
	form       *huh.Form
	formType   string // "new", "edit", "start", "delete"
	formErrors []string
	editingID  string

	// Form field pointers (survive value copies)
	formName     *string
	formFoods    *[]string
	formCustom   *[]string
	formNewFoods *string
	formConfirm  *bool
}

func newSurveysModel(sc *survey.Context) surveysModel {
	name, newFoods, confirm := "", "", false
	foods, custom := []string{}, []string{}
	return surveysModel{
		sc:           sc,
		store:        sc.Store(),
		now:          time.Now,
		formName:     &name,
		formFoods:    &foods,
		formCustom:   &custom,
		formNewFoods: &newFoods,
		formConfirm:  &confirm,
	}
}

func (p *surveysModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

type surveysDataMsg struct {
	configs []store.Configuration
	history []store.HistoryEntry
	err     error
}

func (p surveysModel) refresh() tea.Cmd {
	return func() tea.Msg {
		configs, err := p.store.ListConfigurations()
		if err != nil {
			return surveysDataMsg{err: err}
		}
		history, err := p.store.CustomFoodHistory()
		return surveysDataMsg{configs: configs, history: history, err: err}
	}
}

func (p surveysModel) update(msg tea.Msg) (surveysModel, tea.Cmd) {
	if p.formActive && p.form != nil {
		return p.updateForm(msg)
	}

	switch msg := msg.(type) {
	case surveysDataMsg:
		if msg.err != nil {
			return p, statusCmd(fmt.Sprintf("Error: %v", msg.err), true)
		}
		p.configs = msg.configs
		p.history = msg.history
		if p.cursor >= len(p.configs) {
			p.cursor = max(0, len(p.configs)-1)
		}
		return p, nil

	case tea.KeyMsg:
		return p.updateList(msg)
	}
	return p, nil
}

func (p surveysModel) updateList(msg tea.KeyMsg) (surveysModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if p.cursor > 0 {
			p.cursor--
		}
	case key.Matches(msg, keys.Down):
		if p.cursor < len(p.configs)-1 {
			p.cursor++
		}
	case key.Matches(msg, keys.Enter):
		if cfg, ok := p.selected(); ok {
			return p.showConfirm("start", fmt.Sprintf("Start %q now?", cfg.Name), "Start")
		}
	case key.Matches(msg, keys.New):
		if err := p.store.CheckCanCreate(); err != nil {
			if errors.Is(err, store.ErrCustomLimitReached) {
				return p, statusCmd(limitReachedText, true)
			}
			return p, statusCmd(fmt.Sprintf("Error: %v", err), true)
		}
		return p.showEditor(nil)
	case key.Matches(msg, keys.Edit):
		if cfg, ok := p.selected(); ok {
			return p.showEditor(&cfg)
		}
	case key.Matches(msg, keys.Delete):
		cfg, ok := p.selected()
		if !ok {
			return p, nil
		}
		if cfg.ID == store.DefaultConfigID {
			return p, statusCmd("The default survey cannot be deleted", true)
		}
		return p.showConfirm("delete", fmt.Sprintf("Delete %q? This cannot be undone.", cfg.Name), "Delete")
	case key.Matches(msg, keys.End):
		if !p.sc.InSession() {
			return p, statusCmd("No session is running", false)
		}
		return p, p.endSession()
	}
	return p, nil
}

func (p surveysModel) selected() (store.Configuration, bool) {
	if p.cursor < 0 || p.cursor >= len(p.configs) {
		return store.Configuration{}, false
	}
	return p.configs[p.cursor], true
}

func (p surveysModel) showConfirm(formType, title, affirmative string) (surveysModel, tea.Cmd) {
	*p.formConfirm = false
	p.formType = formType
	p.editingID = p.configs[p.cursor].ID
	p.formErrors = nil

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative(affirmative).
				Negative("Cancel").
				Value(p.formConfirm),
		),
	).WithShowHelp(true)

	p.formActive = true
	return p, p.form.Init()
}

// showEditor opens the create form, or the edit form when cfg is set.
func (p surveysModel) showEditor(cfg *store.Configuration) (surveysModel, tea.Cmd) {
	p.formErrors = nil
	*p.formNewFoods = ""
	if cfg == nil {
		p.formType = "new"
		p.editingID = ""
		*p.formName = ""
		*p.formFoods = catalog.DefaultIDs()
		*p.formCustom = []string{}
	} else {
		p.formType = "edit"
		p.editingID = cfg.ID
		*p.formName = cfg.Name
		*p.formFoods = append([]string{}, cfg.Foods...)
		custom := make([]string, 0, len(cfg.CustomFoods))
		for _, f := range cfg.CustomFoods {
			custom = append(custom, f.ID)
		}
		*p.formCustom = custom
	}
	return p.openEditor()
}

// openEditor builds the editor form from the current field values.
func (p surveysModel) openEditor() (surveysModel, tea.Cmd) {
	selectedFoods := toSet(*p.formFoods)
	var foodOptions []huh.Option[string]
	for _, f := range catalog.Defaults() {
		foodOptions = append(foodOptions, huh.NewOption(f.Label(), f.ID).Selected(selectedFoods[f.ID]))
	}

	fields := []huh.Field{
		huh.NewInput().
			Title("Survey name").
			Placeholder("Leave blank for an automatic name").
			Value(p.formName),
		huh.NewMultiSelect[string]().
			Title("Default foods").
			Options(foodOptions...).
			Value(p.formFoods),
	}

	if custom := p.customChoices(); len(custom) > 0 {
		selectedCustom := toSet(*p.formCustom)
		var customOptions []huh.Option[string]
		for _, f := range custom {
			customOptions = append(customOptions, huh.NewOption(f.Label(), f.ID).Selected(selectedCustom[f.ID]))
		}
		fields = append(fields, huh.NewMultiSelect[string]().
			Title("Previously added custom foods").
			Options(customOptions...).
			Value(p.formCustom))
	}

	fields = append(fields, huh.NewInput().
		Title("Add custom foods (comma-separated)").
		Value(p.formNewFoods).
		Validate(p.validateNewFoods))

	p.form = huh.NewForm(huh.NewGroup(fields...)).WithShowHelp(true).WithShowErrors(true)
	p.formActive = true
	return p, p.form.Init()
}

// customChoices lists the custom foods the editor can pick from: the
// history plus any custom food already on the edited survey.
func (p surveysModel) customChoices() []catalog.FoodItem {
	seen := make(map[string]bool)
	var out []catalog.FoodItem
	for _, h := range p.history {
		if !seen[h.ID] {
			seen[h.ID] = true
			out = append(out, h.Food())
		}
	}
	if cfg := p.editing(); cfg != nil {
		for _, f := range cfg.CustomFoods {
			if !seen[f.ID] {
				seen[f.ID] = true
				out = append(out, catalog.Custom(f.ID, f.Name))
			}
		}
	}
	return out
}

func (p surveysModel) editing() *store.Configuration {
	if p.editingID == "" {
		return nil
	}
	for i := range p.configs {
		if p.configs[i].ID == p.editingID {
			return &p.configs[i]
		}
	}
	return nil
}

// validateNewFoods rejects names that duplicate a default food, a
// remembered custom food or each other.
func (p surveysModel) validateNewFoods(input string) error {
	var known []string
	for _, f := range catalog.Defaults() {
		known = append(known, f.Name)
	}
	for _, f := range p.customChoices() {
		known = append(known, f.Name)
	}
	for _, name := range splitFoods(input) {
		if catalog.NameTaken(name, known...) {
			return fmt.Errorf("%q already exists", name)
		}
		known = append(known, name)
	}
	return nil
}

func splitFoods(input string) []string {
	var out []string
	for _, part := range strings.Split(input, ",") {
		if name := strings.TrimSpace(part); name != "" {
			out = append(out, name)
		}
	}
	return out
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func (p surveysModel) updateForm(msg tea.Msg) (surveysModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			p.formActive = false
			p.form = nil
			p.formErrors = nil
			return p, nil
		}
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	if p.form.State == huh.StateCompleted {
		p.formActive = false
		p.form = nil
		switch p.formType {
		case "start":
			if *p.formConfirm {
				return p, p.startSession(p.editingID)
			}
		case "delete":
			if *p.formConfirm {
				return p.deleteConfiguration(p.editingID)
			}
		case "new", "edit":
			return p.saveEditor()
		}
		return p, nil
	}

	return p, cmd
}

// buildConfiguration turns the editor fields into a configuration plus the
// custom foods that were typed in for the first time.
func (p surveysModel) buildConfiguration() (store.Configuration, []catalog.FoodItem, error) {
	chosen := toSet(*p.formFoods)
	foods := []string{}
	for _, id := range catalog.DefaultIDs() {
		if chosen[id] {
			foods = append(foods, id)
		}
	}

	chosenCustom := toSet(*p.formCustom)
	taken := make(map[string]bool)
	customFoods := []catalog.FoodItem{}
	for _, f := range p.customChoices() {
		taken[f.ID] = true
		if chosenCustom[f.ID] {
			customFoods = append(customFoods, f)
		}
	}

	var added []catalog.FoodItem
	now := p.now()
	for _, name := range splitFoods(*p.formNewFoods) {
		id := catalog.UniqueCustomID(now, taken)
		taken[id] = true
		f := catalog.Custom(id, name)
		added = append(added, f)
		customFoods = append(customFoods, f)
	}

	if p.formType == "edit" {
		existing := p.editing()
		if existing == nil {
			return store.Configuration{}, nil, fmt.Errorf("edit %q: %w", p.editingID, store.ErrNotFound)
		}
		cfg := *existing
		if name := strings.TrimSpace(*p.formName); name != "" {
			cfg.Name = name
		}
		cfg.Foods = foods
		cfg.CustomFoods = customFoods
		return cfg, added, nil
	}

	cfg, err := p.store.NewConfiguration(*p.formName, foods, customFoods)
	return cfg, added, err
}

func (p surveysModel) saveEditor() (surveysModel, tea.Cmd) {
	cfg, added, err := p.buildConfiguration()
	if err != nil {
		return p, statusCmd(fmt.Sprintf("Error: %v", err), true)
	}

	if res := store.Validate(cfg); !res.Valid {
		p.formErrors = res.Errors
		return p.openEditor()
	}

	if err := p.store.SaveConfiguration(cfg); err != nil {
		return p, statusCmd(fmt.Sprintf("Error: %v", err), true)
	}
	for _, f := range added {
		if err := p.store.AddCustomFood(store.HistoryEntry{ID: f.ID, Name: f.Name}); err != nil {
			return p, statusCmd(fmt.Sprintf("Error: %v", err), true)
		}
	}
	*p.formNewFoods = ""

	if p.formType == "new" {
		return p, tea.Batch(p.refresh(), p.startSession(cfg.ID))
	}
	saved := cfg
	return p, tea.Batch(p.refresh(), func() tea.Msg { return configSavedMsg{config: saved} })
}

func (p surveysModel) startSession(id string) tea.Cmd {
	sc := p.sc
	return func() tea.Msg {
		cfg, err := sc.Start(id)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Could not start survey: %v", err), isError: true}
		}
		return sessionStartedMsg{config: cfg}
	}
}

func (p surveysModel) endSession() tea.Cmd {
	sc := p.sc
	return func() tea.Msg {
		if err := sc.End(); err != nil {
			return statusMsg{text: fmt.Sprintf("Could not end session: %v", err), isError: true}
		}
		return sessionEndedMsg{}
	}
}

func (p surveysModel) deleteConfiguration(id string) (surveysModel, tea.Cmd) {
	if err := p.store.DeleteConfiguration(id); err != nil {
		if errors.Is(err, store.ErrProtectedConfiguration) {
			return p, statusCmd("The default survey cannot be deleted", true)
		}
		return p, statusCmd(fmt.Sprintf("Error: %v", err), true)
	}

	cmds := []tea.Cmd{p.refresh(), statusCmd("Survey deleted", false)}
	if active := p.sc.Active(); active != nil && active.ID == id {
		cmds = append(cmds, p.endSession())
	}
	return p, tea.Batch(cmds...)
}

func (p surveysModel) view() string {
	w := p.width - 4

	if p.formActive && p.form != nil {
		title := titleStyle.Render("New Survey")
		switch p.formType {
		case "edit":
			title = titleStyle.Render("Edit Survey")
		case "start", "delete":
			title = titleStyle.Render("Confirm")
		}
		rows := []string{title, ""}
		for _, e := range p.formErrors {
			rows = append(rows, errorStyle.Render("• "+e))
		}
		if len(p.formErrors) > 0 {
			rows = append(rows, "")
		}
		rows = append(rows, p.form.View())
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	}

	return p.renderList(w)
}

func (p surveysModel) renderList(w int) string {
	custom := 0
	for _, c := range p.configs {
		if !c.IsDefault {
			custom++
		}
	}
	title := titleStyle.Render("Surveys") + "  " +
		mutedStyle.Render(fmt.Sprintf("%d/%d custom", custom, store.MaxCustomConfigurations))

	var rows []string
	rows = append(rows, title, "")

	header := mutedStyle.Render(fmt.Sprintf("    %-26s %6s %8s  %-16s", "Name", "Foods", "Used", "Last used"))
	rows = append(rows, header)

	activeID := ""
	if active := p.sc.Active(); active != nil {
		activeID = active.ID
	}

	for i, cfg := range p.configs {
		cursor := "  "
		style := normalItemStyle
		if i == p.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		marker := " "
		if cfg.ID == activeID {
			marker = successStyle.Render("●")
		}
		name := cfg.Name
		if cfg.IsDefault {
			name += " (default)"
		}
		row := style.Render(fmt.Sprintf("%s%s %-26s %6d %7d×  %-16s",
			cursor, marker, truncate(name, 26), cfg.FoodCount(), cfg.TimesUsed, lastUsedLabel(cfg, p.now())))
		rows = append(rows, row)
	}

	rows = append(rows, "")
	if activeID != "" {
		rows = append(rows, successStyle.Render("  ● session running"))
	}
	rows = append(rows, mutedStyle.Render("  enter: use  n: new  e: edit  d: delete  x: end session"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func lastUsedLabel(cfg store.Configuration, now time.Time) string {
	if cfg.TimesUsed == 0 {
		return "never"
	}
	t := cfg.LastUsedTime()
	if t.IsZero() {
		return "never"
	}
	today := now.UTC().Format(store.DateLayout)
	if cfg.LastUsed == today {
		return "today"
	}
	return humanize.RelTime(t, now.UTC(), "ago", "from now")
}
