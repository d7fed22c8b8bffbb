package mating

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kennelworks/pedigree/internal/lineage"
	"github.com/kennelworks/pedigree/internal/models"
)

type fakeEvaluator struct {
	report *lineage.CompatibilityReport
	pairs  [][2]string
}

func (f *fakeEvaluator) CalculateBreedingCompatibility(_ context.Context, sireID, damID string, generations int) *lineage.CompatibilityReport {
	f.pairs = append(f.pairs, [2]string{sireID, damID})
	r := *f.report
	r.SireID, r.DamID, r.Generations = sireID, damID, generations
	return &r
}

func sire() *models.Dog {
	return &models.Dog{ID: "s", RegistrationNumber: "KW-000003", Name: "Glenrothes Rook", Sex: models.SexMale, DateOfBirth: "2019-05-01"}
}

func dam() *models.Dog {
	return &models.Dog{ID: "d", RegistrationNumber: "KW-000004", Name: "Heatherbrae Fern", Sex: models.SexFemale, COI: 0.05}
}

func TestView_NeedsBothParents(t *testing.T) {
	eval := &fakeEvaluator{report: &lineage.CompatibilityReport{}}
	view := New(eval, "", 0.25)

	view.SetSire(sire())
	if view.Ready() {
		t.Error("Ready() with only a sire")
	}
	if r := view.Evaluate(context.Background(), 5); r != nil || len(eval.pairs) != 0 {
		t.Errorf("Evaluate() without a dam = %v, calls = %d", r, len(eval.pairs))
	}

	out := view.Render(120, 40)
	for _, want := range []string{"MATING PLANNER", "Glenrothes Rook", "not marked", "Mark a sire with s"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q", want)
		}
	}
}

func TestView_Report(t *testing.T) {
	shared := lineage.AncestorRecord{ID: "gs", Name: "Glenrothes Bracken", RegistrationNumber: "KW-000001"}
	eval := &fakeEvaluator{report: &lineage.CompatibilityReport{
		Status:             lineage.StatusComplete,
		CompatibilityScore: 0.55,
		BreedingCOI:        0.125,
		RiskLevel:          lineage.RiskHigh,
		RiskWeight:         0.45,
		CommonAncestors: []lineage.CommonAncestor{{
			Dog:                 shared,
			Occurrences:         2,
			Pathways:            []lineage.Path{{lineage.StepSire, lineage.StepSire}, {lineage.StepDam, lineage.StepSire}},
			GeneticContribution: 0.5,
		}},
		Risks:           []string{"Sire and dam are half siblings"},
		Recommendations: []string{"Consider an outcross"},
	}}
	view := New(eval, "", 0.25)
	view.SetSire(sire())
	view.SetDam(dam())

	r := view.Evaluate(context.Background(), 4)
	if r == nil || view.Report() != r {
		t.Fatal("Evaluate() did not keep the report")
	}
	if len(eval.pairs) != 1 || eval.pairs[0] != [2]string{"s", "d"} {
		t.Errorf("evaluated pairs = %v, want [s d]", eval.pairs)
	}

	out := view.Render(160, 50)
	for _, want := range []string{
		"COMPATIBILITY (4 generations)",
		"0.55",
		"12.50%",
		string(lineage.RiskHigh),
		"Glenrothes Bracken",
		"half siblings",
		"Consider an outcross",
		"5.00%", // dam's own COI
	} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q", want)
		}
	}

	view.SetDam(dam())
	if view.Report() != nil {
		t.Error("changing the dam kept the old report")
	}
}

func TestView_FailedReport(t *testing.T) {
	failed := lineage.FailedReport("s", "d", 5, &lineage.FetchError{DogID: "d", Err: errors.New("no such dog")})
	view := New(&fakeEvaluator{report: failed}, "", 0.25)
	view.SetSire(sire())
	view.SetDam(dam())
	view.Evaluate(context.Background(), 5)

	out := view.Render(120, 40)
	for _, want := range []string{"ANALYSIS FAILED", "Pedigree analysis failed:", "no such dog"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q", want)
		}
	}
	if strings.Contains(out, "COMPATIBILITY (") {
		t.Error("failed report rendered as a normal result")
	}
}
