// Package analysis provides the TUI view of one dog's pedigree analysis.
package analysis

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/kennelworks/pedigree/internal/lineage"
	"github.com/kennelworks/pedigree/internal/models"
	"github.com/kennelworks/pedigree/internal/tui/components"
	"github.com/kennelworks/pedigree/internal/tui/views"
	"github.com/kennelworks/pedigree/internal/util"
)

// topTerms is how many inbreeding terms the view lists.
const topTerms = 5

// Analyzer computes the lineage analysis of a registered dog.
type Analyzer interface {
	Analyze(ctx context.Context, dogID string, generations int) (*lineage.Analysis, error)
	RiskLevel(coi float64) lineage.RiskLevel
}

// View shows the COI, common ancestors and data warnings of the dog picked
// in the registry.
type View struct {
	analyzer   Analyzer
	styles     components.Styles
	dateFormat string
	gaugeLimit float64

	dog         *models.Dog
	generations int
	analysis    *lineage.Analysis
	err         error
}

// New creates a lineage view. gaugeLimit is the COI drawn as a full bar.
func New(analyzer Analyzer, dateFormat string, gaugeLimit float64) *View {
	if dateFormat == "" {
		dateFormat = time.DateOnly
	}
	return &View{
		analyzer:   analyzer,
		styles:     components.DefaultStyles(),
		dateFormat: dateFormat,
		gaugeLimit: gaugeLimit,
	}
}

// SetStyles sets the view palette.
func (v *View) SetStyles(styles components.Styles) {
	v.styles = styles
}

// Load analyzes dog to the given depth. A failed analysis is kept and
// rendered as unavailable rather than as a zero coefficient.
func (v *View) Load(ctx context.Context, dog *models.Dog, generations int) error {
	v.dog = dog
	v.generations = generations
	v.analysis = nil
	v.err = nil
	if dog == nil {
		return nil
	}

	analysis, err := v.analyzer.Analyze(ctx, dog.ID, generations)
	if err != nil {
		v.err = err
		return err
	}
	v.analysis = analysis
	return nil
}

// Dog returns the dog being analyzed, if any.
func (v *View) Dog() *models.Dog {
	return v.dog
}

// Generations returns the depth of the last Load.
func (v *View) Generations() int {
	return v.generations
}

// Analysis returns the last successful analysis.
func (v *View) Analysis() *lineage.Analysis {
	return v.analysis
}

// Render renders the analysis, responsive to the given terminal width.
func (v *View) Render(width, height int) string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("═══ LINEAGE ANALYSIS ═══"))
	b.WriteString("\n\n")

	if v.dog == nil {
		b.WriteString(v.styles.Muted.Render("No dog selected. Pick one in the registry (F2) and press Enter."))
		return b.String()
	}

	bd := v.dog.BirthDate()
	b.WriteString(v.styles.Section.Render("SUBJECT"))
	b.WriteString("\n")
	b.WriteString(views.Field("Name", v.dog.Name, v.styles))
	b.WriteString(views.Field("Reg #", v.dog.RegistrationNumber, v.styles))
	b.WriteString(views.Field("Breed", v.dog.BreedName, v.styles))
	b.WriteString(views.Field("Born", util.FormatBirthDate(bd, v.dateFormat), v.styles))
	b.WriteString(views.Field("Generations", fmt.Sprintf("%d", v.generations), v.styles))
	b.WriteString("\n")

	if v.err != nil {
		b.WriteString(views.Field("COI", "unavailable", v.styles))
		reason := "Error: "
		if lineage.IsFetchFailure(v.err) {
			reason = "Pedigree data could not be read: "
		}
		b.WriteString(v.styles.Error.Render(reason + v.err.Error()))
		b.WriteString("\n")
		return b.String()
	}
	if v.analysis == nil {
		b.WriteString(v.styles.Label.Render("Analyzing..."))
		return b.String()
	}

	a := v.analysis
	level := v.analyzer.RiskLevel(a.COI)
	b.WriteString(v.styles.Label.Render(components.PadRight("COI:", 14)) + " " +
		v.styles.Accent.Render(util.FormatPercent(a.COI)) + "  " +
		components.Gauge(a.COI, v.gaugeLimit, 22, v.styles) + "  " +
		views.RiskStyle(level, v.styles).Render(string(level)) + "\n")
	b.WriteString(views.Field("Ancestors", fmt.Sprintf("%d indexed", a.Ancestors), v.styles))
	b.WriteString(views.Field("Registry COI", util.FormatPercent(v.dog.COI), v.styles))
	b.WriteString("\n")

	b.WriteString(v.styles.Section.Render(fmt.Sprintf("COMMON ANCESTORS (%d)", len(a.CommonAncestors))))
	b.WriteString("\n")
	if len(a.CommonAncestors) == 0 {
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("None within %d generations.", a.Generations)))
		b.WriteString("\n")
	} else {
		b.WriteString(views.NewAncestorTable(a.CommonAncestors, v.styles).RenderResponsive(width))
	}

	if terms := v.renderTerms(); terms != "" {
		b.WriteString("\n")
		b.WriteString(terms)
	}

	if w := views.Warnings(a.Warnings, v.styles); w != "" {
		b.WriteString("\n")
		b.WriteString(w)
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("+/-:Generations  F4:Mating  Esc:Registry"))

	return b.String()
}

// renderTerms lists the largest inbreeding terms.
func (v *View) renderTerms() string {
	terms := append([]lineage.InbreedingTerm(nil), v.analysis.Terms...)
	if len(terms) == 0 {
		return ""
	}
	sort.SliceStable(terms, func(i, j int) bool { return terms[i].Value > terms[j].Value })

	names := make(map[string]string, len(v.analysis.CommonAncestors))
	for _, ca := range v.analysis.CommonAncestors {
		names[ca.Dog.ID] = ca.Dog.DisplayName()
	}

	var b strings.Builder
	b.WriteString(v.styles.Section.Render(fmt.Sprintf("LARGEST TERMS (%d of %d)", min(topTerms, len(terms)), len(terms))))
	b.WriteString("\n")
	for _, term := range terms[:min(topTerms, len(terms))] {
		name := names[term.AncestorID]
		if name == "" {
			name = term.AncestorID
		}
		line := fmt.Sprintf("  %8s  %s  via %s / %s",
			util.FormatPercent(term.Value), name, term.SirePath, term.DamPath)
		b.WriteString(v.styles.Value.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
