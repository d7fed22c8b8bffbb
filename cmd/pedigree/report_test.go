package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/kennelworks/pedigree/internal/lineage"
	"github.com/kennelworks/pedigree/internal/models"
)

func sharedGrandsire() []lineage.CommonAncestor {
	return []lineage.CommonAncestor{{
		Dog:                 lineage.AncestorRecord{ID: "gs", Name: "Glenrothes Bracken", RegistrationNumber: "KW-000001"},
		Occurrences:         2,
		Pathways:            []lineage.Path{{lineage.StepSire, lineage.StepSire}, {lineage.StepDam, lineage.StepSire}},
		GeneticContribution: 0.5,
	}}
}

func TestWriteAnalysis(t *testing.T) {
	dog := &models.Dog{ID: "pup", Name: "Heatherbrae Tansy", RegistrationNumber: "KW-000010"}
	a := &lineage.Analysis{
		SubjectID:       "pup",
		Generations:     5,
		COI:             0.0625,
		Ancestors:       6,
		CommonAncestors: sharedGrandsire(),
		Warnings:        []lineage.DateWarning{{DogID: "gs"}},
	}

	var buf bytes.Buffer
	writeAnalysis(&buf, dog, a, lineage.RiskModerate)
	out := buf.String()

	for _, want := range []string{
		"Heatherbrae Tansy (KW-000010)",
		"6.25%  MODERATE",
		"Common ancestors: 1",
		"Glenrothes Bracken",
		"Sire > Sire; Dam > Sire",
		"Data warnings:",
		"dog gs has no date of birth",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteReport(t *testing.T) {
	sire := &models.Dog{Name: "Heatherbrae Moss", RegistrationNumber: "KW-000004"}
	dam := &models.Dog{Name: "Heatherbrae Fern", RegistrationNumber: "KW-000005"}

	tests := []struct {
		name    string
		report  *lineage.CompatibilityReport
		want    []string
		notWant []string
	}{
		{
			name: "complete",
			report: &lineage.CompatibilityReport{
				Generations:        5,
				Status:             lineage.StatusComplete,
				CompatibilityScore: 0.61,
				BreedingCOI:        0.0625,
				RiskLevel:          lineage.RiskModerate,
				CommonAncestors:    sharedGrandsire(),
				Recommendations:    []string{"Consider an outcross"},
			},
			want:    []string{"Score:         0.61", "6.25%  MODERATE", "Glenrothes Bracken", "Recommendations:", "Consider an outcross"},
			notWant: []string{"ANALYSIS FAILED", "Risks:"},
		},
		{
			name:    "failed",
			report:  lineage.FailedReport("s", "d", 5, errors.New("no such dog")),
			want:    []string{"ANALYSIS FAILED", "Risks:", "Pedigree analysis failed: no such dog"},
			notWant: []string{"Score:", "Litter COI:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			writeReport(&buf, sire, dam, tt.report)
			out := buf.String()

			if !strings.Contains(out, "Sire: Heatherbrae Moss (KW-000004)") {
				t.Errorf("output missing sire line:\n%s", out)
			}
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
			for _, bad := range tt.notWant {
				if strings.Contains(out, bad) {
					t.Errorf("output unexpectedly contains %q:\n%s", bad, out)
				}
			}
		})
	}
}
