// Package mating provides the TUI view that evaluates a planned mating.
package mating

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/kennelworks/pedigree/internal/lineage"
	"github.com/kennelworks/pedigree/internal/models"
	"github.com/kennelworks/pedigree/internal/tui/components"
	"github.com/kennelworks/pedigree/internal/tui/views"
	"github.com/kennelworks/pedigree/internal/util"
)

// Evaluator scores a prospective mating. It always returns a report.
type Evaluator interface {
	CalculateBreedingCompatibility(ctx context.Context, sireID, damID string, generations int) *lineage.CompatibilityReport
}

// View shows the sire and dam marked in the registry and the compatibility
// report for the pair.
type View struct {
	evaluator  Evaluator
	styles     components.Styles
	dateFormat string
	gaugeLimit float64

	sire   *models.Dog
	dam    *models.Dog
	report *lineage.CompatibilityReport
}

// New creates a mating view. gaugeLimit is the COI drawn as a full bar.
func New(evaluator Evaluator, dateFormat string, gaugeLimit float64) *View {
	if dateFormat == "" {
		dateFormat = time.DateOnly
	}
	return &View{
		evaluator:  evaluator,
		styles:     components.DefaultStyles(),
		dateFormat: dateFormat,
		gaugeLimit: gaugeLimit,
	}
}

// SetStyles sets the view palette.
func (v *View) SetStyles(styles components.Styles) {
	v.styles = styles
}

// SetSire marks the sire and discards any report for the old pair.
func (v *View) SetSire(dog *models.Dog) {
	v.sire = dog
	v.report = nil
}

// SetDam marks the dam and discards any report for the old pair.
func (v *View) SetDam(dog *models.Dog) {
	v.dam = dog
	v.report = nil
}

// Sire returns the marked sire, if any.
func (v *View) Sire() *models.Dog {
	return v.sire
}

// Dam returns the marked dam, if any.
func (v *View) Dam() *models.Dog {
	return v.dam
}

// Ready reports whether both parents are marked.
func (v *View) Ready() bool {
	return v.sire != nil && v.dam != nil
}

// Evaluate computes the report for the marked pair. It does nothing until
// both are marked.
func (v *View) Evaluate(ctx context.Context, generations int) *lineage.CompatibilityReport {
	if !v.Ready() {
		return nil
	}
	v.report = v.evaluator.CalculateBreedingCompatibility(ctx, v.sire.ID, v.dam.ID, generations)
	return v.report
}

// Report returns the last evaluated report.
func (v *View) Report() *lineage.CompatibilityReport {
	return v.report
}

// Render renders the planner, responsive to the given terminal width.
func (v *View) Render(width, height int) string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("═══ MATING PLANNER ═══"))
	b.WriteString("\n\n")

	b.WriteString(components.SideBySide(v.renderParent("SIRE", v.sire), v.renderParent("DAM", v.dam), width, 4))
	b.WriteString("\n\n")

	switch {
	case !v.Ready():
		b.WriteString(v.styles.Muted.Render("Mark a sire with s and a dam with d in the registry (F2)."))
		return b.String()
	case v.report == nil:
		b.WriteString(v.styles.Label.Render("Evaluating..."))
		return b.String()
	case v.report.Failed():
		b.WriteString(v.renderFailure())
	default:
		b.WriteString(v.renderReport(width))
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("+/-:Generations  F2:Registry  F3:Lineage"))
	return b.String()
}

func (v *View) renderParent(title string, dog *models.Dog) string {
	var b strings.Builder
	b.WriteString(v.styles.Section.Render(title))
	b.WriteString("\n")
	if dog == nil {
		b.WriteString(v.styles.Muted.Render("not marked"))
		return b.String()
	}
	b.WriteString(views.Field("Name", dog.Name, v.styles))
	b.WriteString(views.Field("Reg #", dog.RegistrationNumber, v.styles))
	b.WriteString(views.Field("Born", util.FormatBirthDate(dog.BirthDate(), v.dateFormat), v.styles))
	b.WriteString(views.Field("Own COI", util.FormatPercent(dog.COI), v.styles))
	return strings.TrimSuffix(b.String(), "\n")
}

func (v *View) renderFailure() string {
	var b strings.Builder
	b.WriteString(v.styles.Error.Render("ANALYSIS FAILED"))
	b.WriteString("\n")
	b.WriteString(views.Field("Score", fmt.Sprintf("%.2f", v.report.CompatibilityScore), v.styles))
	b.WriteString("\n")
	b.WriteString(v.renderList("RISKS", v.report.Risks, v.styles.Error))
	b.WriteString(v.renderList("RECOMMENDATIONS", v.report.Recommendations, v.styles.Value))
	return b.String()
}

func (v *View) renderReport(width int) string {
	r := v.report
	var b strings.Builder

	b.WriteString(v.styles.Section.Render(fmt.Sprintf("COMPATIBILITY (%d generations)", r.Generations)))
	b.WriteString("\n")
	b.WriteString(views.Field("Score", fmt.Sprintf("%.2f", r.CompatibilityScore), v.styles))
	b.WriteString(v.styles.Label.Render(components.PadRight("Litter COI:", 14)) + " " +
		v.styles.Accent.Render(util.FormatPercent(r.BreedingCOI)) + "  " +
		components.Gauge(r.BreedingCOI, v.gaugeLimit, 22, v.styles) + "  " +
		views.RiskStyle(r.RiskLevel, v.styles).Render(string(r.RiskLevel)) + "\n")
	b.WriteString(views.Field("Risk weight", fmt.Sprintf("%.2f", r.RiskWeight), v.styles))
	b.WriteString("\n")

	b.WriteString(v.styles.Section.Render(fmt.Sprintf("COMMON ANCESTORS (%d)", len(r.CommonAncestors))))
	b.WriteString("\n")
	if len(r.CommonAncestors) == 0 {
		b.WriteString(v.styles.Muted.Render("Sire and dam share no ancestors in the searched generations."))
		b.WriteString("\n")
	} else {
		b.WriteString(views.NewAncestorTable(r.CommonAncestors, v.styles).RenderResponsive(width))
	}
	b.WriteString("\n")

	if len(r.Risks) > 0 {
		b.WriteString(v.renderList("RISKS", r.Risks, v.styles.Warning))
	}
	b.WriteString(v.renderList("RECOMMENDATIONS", r.Recommendations, v.styles.Value))

	if w := views.Warnings(r.Warnings, v.styles); w != "" {
		b.WriteString("\n")
		b.WriteString(w)
	}
	return b.String()
}

func (v *View) renderList(title string, items []string, style lipgloss.Style) string {
	var b strings.Builder
	b.WriteString(v.styles.Section.Render(title))
	b.WriteString("\n")
	for _, item := range items {
		b.WriteString(style.Render("  • " + item))
		b.WriteString("\n")
	}
	return b.String()
}
