package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kennelworks/pedigree/internal/config"
	"github.com/kennelworks/pedigree/internal/database"
	"github.com/kennelworks/pedigree/internal/lineage"
	"github.com/kennelworks/pedigree/internal/models"
	"github.com/kennelworks/pedigree/internal/services/pedigree"
	"github.com/kennelworks/pedigree/internal/tui/components"
	"github.com/kennelworks/pedigree/internal/tui/views/analysis"
	"github.com/kennelworks/pedigree/internal/tui/views/mating"
	"github.com/kennelworks/pedigree/internal/tui/views/registry"
	"github.com/kennelworks/pedigree/internal/util"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// MaxContentWidth is the maximum width for content display
const MaxContentWidth = 140

// chromeLines is the number of lines taken by the header, alert bar and
// footer.
const chromeLines = 6

// Module represents a view module in the application.
type Module string

const (
	ModuleRegistry Module = "registry"
	ModuleLineage  Module = "lineage"
	ModuleMating   Module = "mating"
	ModuleHelp     Module = "help"

	moduleQuit Module = "quit"
)

// Service is the registry and analysis backend the console drives.
// *pedigree.Service satisfies it.
type Service interface {
	registry.Lister
	analysis.Analyzer
	mating.Evaluator
	DefaultGenerations() int
}

// App is the main Bubble Tea application model.
type App struct {
	// Dependencies
	ctx    context.Context
	svc    Service
	config *config.Config

	// Views
	registryView *registry.View
	analysisView *analysis.View
	matingView   *mating.View
	search       *components.Input

	// UI state
	theme       *Theme
	keys        KeyMap
	width       int
	height      int
	ready       bool
	quitting    bool
	showConfirm bool
	searchMode  bool

	// Current view
	currentModule  Module
	previousModule Module

	// Pedigree depth used by the lineage and mating views
	generations int

	// Alerts
	alerts []Alert
}

// Alert represents a status message shown under the header.
type Alert struct {
	Level   AlertLevel
	Message string
	Time    time.Time
}

// AlertLevel indicates the severity of an alert.
type AlertLevel int

const (
	AlertInfo AlertLevel = iota
	AlertWarning
	AlertCritical
)

type registryLoadedMsg struct {
	err error
}

type analysisLoadedMsg struct {
	dog *models.Dog
	err error
}

type matingEvaluatedMsg struct {
	report *lineage.CompatibilityReport
}

// New creates a new App instance.
func New(svc Service, cfg *config.Config) *App {
	theme := NewTheme(cfg.Display.ColorScheme)
	styles := theme.ComponentStyles()

	// The gauge is full at the top of the high band.
	gaugeLimit := cfg.Analysis.Thresholds.High * 2

	registryView := registry.New(svc, cfg.Display.PageSize, cfg.Display.DateFormat)
	registryView.SetStyles(styles)

	analysisView := analysis.New(svc, cfg.Display.DateFormat, gaugeLimit)
	analysisView.SetStyles(styles)

	matingView := mating.New(svc, cfg.Display.DateFormat, gaugeLimit)
	matingView.SetStyles(styles)

	search := components.NewInput("Search").
		SetPlaceholder("name or registration number").
		SetWidth(32).
		SetLabelWidth(8).
		SetStyles(styles)

	return &App{
		ctx:           context.Background(),
		svc:           svc,
		config:        cfg,
		registryView:  registryView,
		analysisView:  analysisView,
		matingView:    matingView,
		search:        search,
		theme:         theme,
		keys:          DefaultKeyMap(),
		currentModule: ModuleRegistry,
		generations:   svc.DefaultGenerations(),
		alerts:        []Alert{},
	}
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		a.loadRegistry(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.updateViewDimensions()
		return a, nil

	case registryLoadedMsg:
		if msg.err != nil {
			a.AddAlert(AlertWarning, "Failed to load registry: "+msg.err.Error())
		}
		return a, nil

	case analysisLoadedMsg:
		if msg.err != nil {
			if lineage.IsFetchFailure(msg.err) {
				a.AddAlert(AlertCritical, "Pedigree unavailable for "+msg.dog.Name)
			} else {
				a.AddAlert(AlertWarning, "Analysis failed: "+msg.err.Error())
			}
		}
		return a, nil

	case matingEvaluatedMsg:
		a.alertMating(msg.report)
		return a, nil
	}

	return a, nil
}

func (a *App) alertMating(r *lineage.CompatibilityReport) {
	if r == nil {
		return
	}
	switch {
	case r.Failed():
		a.AddAlert(AlertCritical, "Mating analysis failed")
	case r.RiskLevel == lineage.RiskHigh || r.RiskLevel == lineage.RiskCritical:
		a.AddAlert(AlertWarning, fmt.Sprintf("Litter COI %s (%s)", util.FormatPercent(r.BreedingCOI), r.RiskLevel))
	default:
		a.AddAlert(AlertInfo, fmt.Sprintf("Litter COI %s (%s)", util.FormatPercent(r.BreedingCOI), r.RiskLevel))
	}
}

// handleKeyPress processes key press events.
func (a *App) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Modal takes priority
	if a.showConfirm {
		switch msg.String() {
		case "y", "Y", "enter":
			a.quitting = true
			return a, tea.Quit
		case "n", "N", "esc":
			a.showConfirm = false
			return a, nil
		}
		return a, nil
	}

	// Search needs every key
	if a.searchMode {
		return a.handleSearchKeys(msg)
	}

	if a.keys.IsQuit(msg) {
		a.showConfirm = true
		return a, nil
	}

	if a.keys.IsFunctionKey(msg) {
		return a.switchModule(a.keys.GetFunctionKeyModule(msg))
	}

	if a.keys.Back.Matches(msg) {
		switch a.currentModule {
		case ModuleHelp:
			if a.previousModule != "" {
				a.currentModule = a.previousModule
				a.previousModule = ""
			}
		case ModuleLineage, ModuleMating:
			a.currentModule = ModuleRegistry
		}
		return a, nil
	}

	if a.keys.Deeper.Matches(msg) {
		return a.setGenerations(a.generations + 1)
	}
	if a.keys.Shallow.Matches(msg) {
		return a.setGenerations(a.generations - 1)
	}

	if a.currentModule == ModuleRegistry {
		return a.handleRegistryKeys(msg)
	}

	return a, nil
}

// switchModule handles function key navigation.
func (a *App) switchModule(module Module) (tea.Model, tea.Cmd) {
	switch module {
	case moduleQuit:
		a.showConfirm = true
	case ModuleHelp:
		if a.currentModule != ModuleHelp {
			a.previousModule = a.currentModule
		}
		a.currentModule = ModuleHelp
	case ModuleRegistry:
		a.currentModule = ModuleRegistry
		return a, a.loadRegistry()
	case ModuleLineage:
		a.currentModule = ModuleLineage
		if dog := a.analysisView.Dog(); dog != nil && a.analysisView.Generations() != a.generations {
			return a, a.loadAnalysis(dog)
		}
	case ModuleMating:
		a.currentModule = ModuleMating
		if a.matingView.Ready() {
			if r := a.matingView.Report(); r == nil || r.Generations != a.generations {
				return a, a.evaluateMating()
			}
		}
	}
	return a, nil
}

// setGenerations changes the pedigree depth and refreshes the visible
// analysis.
func (a *App) setGenerations(n int) (tea.Model, tea.Cmd) {
	n = max(1, min(n, a.config.Analysis.MaxGenerations))
	if n == a.generations {
		return a, nil
	}
	a.generations = n

	switch a.currentModule {
	case ModuleLineage:
		if dog := a.analysisView.Dog(); dog != nil {
			return a, a.loadAnalysis(dog)
		}
	case ModuleMating:
		if a.matingView.Ready() {
			return a, a.evaluateMating()
		}
	}
	return a, nil
}

// handleRegistryKeys handles key presses in the registry module.
func (a *App) handleRegistryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case a.keys.Up.Matches(msg):
		a.registryView.MoveUp()
	case a.keys.Down.Matches(msg):
		a.registryView.MoveDown()
	case a.keys.Home.Matches(msg):
		a.registryView.GoToTop()
	case a.keys.End.Matches(msg):
		a.registryView.GoToBottom()
	case a.keys.PageUp.Matches(msg):
		if a.registryView.PrevPage() {
			return a, a.loadRegistry()
		}
	case a.keys.PageDown.Matches(msg):
		if a.registryView.NextPage() {
			return a, a.loadRegistry()
		}
	case a.keys.Select.Matches(msg):
		if dog := a.registryView.SelectedDog(); dog != nil {
			a.currentModule = ModuleLineage
			return a, a.loadAnalysis(dog)
		}
	case a.keys.MarkSire.Matches(msg):
		a.markSire(a.registryView.SelectedDog())
	case a.keys.MarkDam.Matches(msg):
		a.markDam(a.registryView.SelectedDog())
	case a.keys.Search.Matches(msg):
		a.searchMode = true
		a.search.SetValue(a.registryView.Search())
		a.search.Focus(true)
	}
	return a, nil
}

// markSire toggles dog as the sire of the planned mating.
func (a *App) markSire(dog *models.Dog) {
	if dog == nil {
		return
	}
	if cur := a.matingView.Sire(); cur != nil && cur.ID == dog.ID {
		a.matingView.SetSire(nil)
		a.AddAlert(AlertInfo, "Sire cleared")
	} else if dog.Sex != models.SexMale {
		a.AddAlert(AlertWarning, dog.Name+" is not a dog and cannot be the sire")
		return
	} else {
		a.matingView.SetSire(dog)
		a.AddAlert(AlertInfo, "Sire: "+dog.Name)
	}
	a.syncMarks()
}

// markDam toggles dog as the dam of the planned mating.
func (a *App) markDam(dog *models.Dog) {
	if dog == nil {
		return
	}
	if cur := a.matingView.Dam(); cur != nil && cur.ID == dog.ID {
		a.matingView.SetDam(nil)
		a.AddAlert(AlertInfo, "Dam cleared")
	} else if dog.Sex != models.SexFemale {
		a.AddAlert(AlertWarning, dog.Name+" is not a bitch and cannot be the dam")
		return
	} else {
		a.matingView.SetDam(dog)
		a.AddAlert(AlertInfo, "Dam: "+dog.Name)
	}
	a.syncMarks()
}

func (a *App) syncMarks() {
	var sireID, damID string
	if s := a.matingView.Sire(); s != nil {
		sireID = s.ID
	}
	if d := a.matingView.Dam(); d != nil {
		damID = d.ID
	}
	a.registryView.SetMarks(sireID, damID)
}

// handleSearchKeys handles key presses in search mode.
func (a *App) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.searchMode = false
		a.search.Focus(false)
		a.search.Reset()
		a.registryView.SetSearch("")
		return a, a.loadRegistry()
	case "enter":
		a.searchMode = false
		a.search.Focus(false)
		a.registryView.SetSearch(a.search.Value())
		return a, a.loadRegistry()
	default:
		a.search.HandleKey(msg.String())
	}
	return a, nil
}

// loadRegistry loads the current registry page.
func (a *App) loadRegistry() tea.Cmd {
	return func() tea.Msg {
		return registryLoadedMsg{err: a.registryView.Load(a.ctx)}
	}
}

// loadAnalysis analyzes dog at the current depth.
func (a *App) loadAnalysis(dog *models.Dog) tea.Cmd {
	generations := a.generations
	return func() tea.Msg {
		return analysisLoadedMsg{dog: dog, err: a.analysisView.Load(a.ctx, dog, generations)}
	}
}

// evaluateMating scores the marked pair at the current depth.
func (a *App) evaluateMating() tea.Cmd {
	generations := a.generations
	return func() tea.Msg {
		return matingEvaluatedMsg{report: a.matingView.Evaluate(a.ctx, generations)}
	}
}

// updateViewDimensions sizes the views to the terminal.
func (a *App) updateViewDimensions() {
	// title, table header and separator, pagination and help
	a.registryView.SetVisibleRows(ContentHeight(a.height, chromeLines+8))
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initializing..."
	}

	if a.quitting {
		return a.theme.Title.Render(a.config.Kennel.Name + " pedigree console shutting down...")
	}

	var b strings.Builder

	b.WriteString(a.renderHeader())
	b.WriteString("\n")

	b.WriteString(a.renderAlertBar())
	b.WriteString("\n")

	contentHeight := a.height - chromeLines
	if a.showConfirm {
		b.WriteString(a.renderConfirmDialog(contentHeight))
	} else {
		b.WriteString(a.renderContent(contentHeight))
	}

	b.WriteString("\n")
	b.WriteString(a.renderFooter())

	return b.String()
}

// renderHeader renders the top header bar.
func (a *App) renderHeader() string {
	title := fmt.Sprintf("%s PEDIGREE v%s", strings.ToUpper(a.config.Kennel.Name), Version)
	info := fmt.Sprintf("%s | %d GEN", a.config.Kennel.RegistryPrefix, a.generations)
	if GetBreakpoint(a.width) == BreakpointNarrow {
		title = strings.ToUpper(a.config.Kennel.Name)
		info = fmt.Sprintf("%d GEN", a.generations)
	}

	spacing := max(a.width-lipgloss.Width(title)-lipgloss.Width(info)-4, 1)

	header := a.theme.Header.Render(title) +
		strings.Repeat(" ", spacing) +
		a.theme.Header.Render(info)

	return header + "\n" + a.theme.DrawDoubleLine(a.width)
}

// renderAlertBar renders the latest alert and the marked pair.
func (a *App) renderAlertBar() string {
	var alertText string
	if len(a.alerts) > 0 {
		alert := a.alerts[0]
		switch alert.Level {
		case AlertCritical:
			alertText = a.theme.AlertCrit.Render("CRITICAL: " + alert.Message)
		case AlertWarning:
			alertText = a.theme.AlertWarn.Render("WARNING: " + alert.Message)
		default:
			alertText = a.theme.Alert.Render("INFO: " + alert.Message)
		}
	} else {
		alertText = a.theme.Muted.Render("No alerts")
	}

	pair := a.theme.Label.Render("Sire: ") + a.theme.Value.Render(dogName(a.matingView.Sire())) +
		a.theme.Label.Render("  Dam: ") + a.theme.Value.Render(dogName(a.matingView.Dam()))

	return pair + a.theme.StatusDivider.Render() + alertText
}

func dogName(d *models.Dog) string {
	if d == nil {
		return "-"
	}
	return d.Name
}

// renderContent renders the main content area based on current module.
func (a *App) renderContent(height int) string {
	contentWidth := ContentWidth(a.width, 40, MaxContentWidth)
	content := a.getModuleContent(contentWidth, height)

	style := lipgloss.NewStyle().
		Width(a.width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Top)

	contentStyle := lipgloss.NewStyle().
		Width(contentWidth)

	return style.Render(contentStyle.Render(content))
}

// getModuleContent returns the content for the current module.
func (a *App) getModuleContent(width, height int) string {
	switch a.currentModule {
	case ModuleLineage:
		return a.analysisView.Render(width, height)
	case ModuleMating:
		return a.matingView.Render(width, height)
	case ModuleHelp:
		return a.renderHelp()
	default:
		var searchBar string
		if a.searchMode {
			searchBar = a.search.Render() + "\n\n"
		}
		return searchBar + a.registryView.Render(width, height)
	}
}

// renderHelp renders the help screen.
func (a *App) renderHelp() string {
	var b strings.Builder

	b.WriteString(a.theme.Title.Render("═══ HELP ═══"))
	b.WriteString("\n\n")

	sections := []struct {
		title string
		items [][2]string
	}{
		{"NAVIGATION", [][2]string{
			{"F1", "Help"},
			{"F2", "Kennel registry"},
			{"F3", "Lineage analysis"},
			{"F4", "Mating planner"},
			{"F10", "Quit"},
		}},
		{"CONTROLS", [][2]string{
			{"Up/Down", "Navigate"},
			{"PgUp/Dn", "Registry page"},
			{"Enter", "Analyze selected dog"},
			{"s / d", "Mark or clear sire / dam"},
			{"+ / -", "More or fewer generations"},
			{"/", "Search"},
			{"Esc", "Back/Cancel"},
		}},
	}

	for _, section := range sections {
		b.WriteString(a.theme.Subtitle.Render(section.title))
		b.WriteString("\n\n")
		for _, item := range section.items {
			b.WriteString(a.theme.Primary.Render(fmt.Sprintf("    %-8s  %s", item[0], item[1])))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	t := a.config.Analysis.Thresholds
	b.WriteString(a.theme.Subtitle.Render("RISK LEVELS"))
	b.WriteString("\n\n")
	for _, item := range [][2]string{
		{string(lineage.RiskLow), "up to " + util.FormatPercent(t.Low)},
		{string(lineage.RiskModerate), "up to " + util.FormatPercent(t.Moderate)},
		{string(lineage.RiskHigh), "up to " + util.FormatPercent(t.High)},
		{string(lineage.RiskCritical), "above " + util.FormatPercent(t.High)},
	} {
		b.WriteString(a.theme.Primary.Render(fmt.Sprintf("    %-8s  %s", item[0], item[1])))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(a.theme.Muted.Render("Press Esc to return"))

	return b.String()
}

// renderConfirmDialog renders the quit confirmation dialog.
func (a *App) renderConfirmDialog(height int) string {
	dialog := a.theme.Panel("CONFIRM EXIT",
		a.theme.Base.Render("Are you sure you want to exit?")+"\n\n"+
			a.theme.Label.Render("[Y]es  [N]o"),
		36)

	style := lipgloss.NewStyle().
		Width(a.width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center)

	return style.Render(dialog)
}

// renderFooter renders the bottom status bar.
func (a *App) renderFooter() string {
	return a.theme.DrawHorizontalLine(a.width) + "\n" +
		a.theme.Footer.Render(a.keys.StatusBarHelp(a.width))
}

// AddAlert adds a new alert to the display.
func (a *App) AddAlert(level AlertLevel, message string) {
	a.alerts = append([]Alert{{
		Level:   level,
		Message: message,
		Time:    time.Now(),
	}}, a.alerts...)

	// Keep only last 10 alerts
	if len(a.alerts) > 10 {
		a.alerts = a.alerts[:10]
	}
}

// ClearAlerts removes all alerts.
func (a *App) ClearAlerts() {
	a.alerts = []Alert{}
}

// Run starts the TUI application against the registry in db.
func Run(ctx context.Context, db *database.DB, cfg *config.Config) error {
	app := New(pedigree.NewService(db.DB, cfg.Analysis), cfg)
	app.ctx = ctx

	p := tea.NewProgram(app, tea.WithAltScreen())

	go func() {
		<-ctx.Done()
		p.Quit()
	}()

	_, err := p.Run()
	return err
}
