package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/kennelworks/pedigree/internal/lineage"
	"github.com/kennelworks/pedigree/internal/models"
	"github.com/kennelworks/pedigree/internal/util"
)

// writeAnalysis prints a dog's lineage analysis for -coi.
func writeAnalysis(w io.Writer, dog *models.Dog, a *lineage.Analysis, level lineage.RiskLevel) {
	fmt.Fprintf(w, "%s (%s)\n", dog.Name, dog.RegistrationNumber)
	fmt.Fprintf(w, "Generations:      %d\n", a.Generations)
	fmt.Fprintf(w, "COI:              %s  %s\n", util.FormatPercent(a.COI), level)
	fmt.Fprintf(w, "Ancestors:        %d\n", a.Ancestors)
	fmt.Fprintf(w, "Common ancestors: %d\n", len(a.CommonAncestors))

	if len(a.CommonAncestors) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, ancestorTable(a.CommonAncestors))
	}
	writeWarnings(w, a.Warnings)
}

// writeReport prints a compatibility report for -sire/-dam.
func writeReport(w io.Writer, sire, dam *models.Dog, r *lineage.CompatibilityReport) {
	fmt.Fprintf(w, "Sire: %s (%s)\n", sire.Name, sire.RegistrationNumber)
	fmt.Fprintf(w, "Dam:  %s (%s)\n", dam.Name, dam.RegistrationNumber)
	fmt.Fprintf(w, "Generations:   %d\n", r.Generations)

	if r.Failed() {
		fmt.Fprintln(w, "Status:        ANALYSIS FAILED")
	} else {
		fmt.Fprintf(w, "Score:         %.2f\n", r.CompatibilityScore)
		fmt.Fprintf(w, "Litter COI:    %s  %s\n", util.FormatPercent(r.BreedingCOI), r.RiskLevel)
	}

	if len(r.CommonAncestors) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, ancestorTable(r.CommonAncestors))
	}

	writeList(w, "Risks", r.Risks)
	writeList(w, "Recommendations", r.Recommendations)
	writeWarnings(w, r.Warnings)
}

func ancestorTable(ancestors []lineage.CommonAncestor) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Ancestor", "Reg #", "Paths", "Gen", "Contrib", "Pathways")
	for _, ca := range ancestors {
		t.Row(
			ca.Dog.DisplayName(),
			ca.Dog.RegistrationNumber,
			fmt.Sprintf("%d", ca.Occurrences),
			fmt.Sprintf("%d", ca.ClosestGeneration()),
			util.FormatPercent(ca.GeneticContribution),
			pathways(ca.Pathways),
		)
	}
	return t.String()
}

func pathways(paths []lineage.Path) string {
	parts := make([]string, len(paths))
	for i, p := range paths {
		parts[i] = p.String()
	}
	return strings.Join(parts, "; ")
}

func writeList(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s:\n", title)
	for _, item := range items {
		fmt.Fprintf(w, "  - %s\n", item)
	}
}

func writeWarnings(w io.Writer, warnings []lineage.DateWarning) {
	if len(warnings) == 0 {
		return
	}
	fmt.Fprintf(w, "\nData warnings:\n")
	for _, dw := range warnings {
		fmt.Fprintf(w, "  ! %s\n", dw)
	}
}
