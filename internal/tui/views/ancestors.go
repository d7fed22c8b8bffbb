// Package views holds rendering shared by the console's analysis views.
package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/kennelworks/pedigree/internal/lineage"
	"github.com/kennelworks/pedigree/internal/tui/components"
	"github.com/kennelworks/pedigree/internal/util"
)

// NewAncestorTable returns an unfocused table listing common ancestors in
// the order given.
func NewAncestorTable(ancestors []lineage.CommonAncestor, styles components.Styles) *components.Table {
	table := components.NewTable([]components.Column{
		{Title: "Ancestor", Width: 14, Weight: 2, Priority: 10},
		{Title: "Reg #", Width: 11, Priority: 6},
		{Title: "Paths", Width: 5, Align: lipgloss.Right, Priority: 8},
		{Title: "Gen", Width: 3, Align: lipgloss.Right, Priority: 7},
		{Title: "Contrib", Width: 7, Align: lipgloss.Right, Priority: 9},
		{Title: "Own COI", Width: 7, Align: lipgloss.Right, Priority: 4},
		{Title: "Pathways", Width: 16, Weight: 3, Priority: 2},
	})
	table.SetStyles(styles)
	table.SetVisibleRows(max(len(ancestors), 1))

	rows := make([][]string, len(ancestors))
	for i, ca := range ancestors {
		rows[i] = []string{
			ca.Dog.DisplayName(),
			ca.Dog.RegistrationNumber,
			fmt.Sprintf("%d", ca.Occurrences),
			fmt.Sprintf("%d", ca.ClosestGeneration()),
			util.FormatPercent(ca.GeneticContribution),
			util.FormatPercent(ca.Dog.OwnCOI),
			Pathways(ca.Pathways),
		}
	}
	table.SetRows(rows)
	return table
}

// Pathways renders every path to an ancestor, separated by semicolons.
func Pathways(paths []lineage.Path) string {
	parts := make([]string, len(paths))
	for i, p := range paths {
		parts[i] = p.String()
	}
	return strings.Join(parts, "; ")
}

// Warnings renders date-of-birth notices as a list, or "" when there are
// none.
func Warnings(warnings []lineage.DateWarning, styles components.Styles) string {
	if len(warnings) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(styles.Section.Render(fmt.Sprintf("DATA WARNINGS (%d)", len(warnings))))
	b.WriteString("\n")
	for _, w := range warnings {
		b.WriteString(styles.Warning.Render("  ! " + w.String()))
		b.WriteString("\n")
	}
	return b.String()
}

// Field renders one "label value" line.
func Field(label, value string, styles components.Styles) string {
	return styles.Label.Render(components.PadRight(label+":", 14)) + " " + styles.Value.Render(value) + "\n"
}

// RiskStyle returns the style for a COI risk level.
func RiskStyle(level lineage.RiskLevel, styles components.Styles) lipgloss.Style {
	switch level {
	case lineage.RiskCritical, lineage.RiskHigh:
		return styles.Error.Bold(true)
	case lineage.RiskModerate:
		return styles.Warning
	default:
		return styles.Success
	}
}
