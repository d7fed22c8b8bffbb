package lineage

import (
	"reflect"
	"testing"
)

func TestCoefficientOfInbreeding(t *testing.T) {
	tests := []struct {
		name        string
		reg         registry
		subject     string
		generations int
		want        float64
	}{
		{"unknown grandparents", noGrandparents(), "s", 3, 0},
		{"shared grandsire", sharedGrandsire(0), "s", 3, 0.0625},
		{"shared inbred grandsire", sharedGrandsire(0.1), "s", 3, 0.0625 * (1 + 0.1)},
		{"full siblings", fullSiblings(), "s", 5, 0.125},
		{"parent and offspring", parentOffspring(), "s", 5, 0.125},
		{"shared grandsire beyond depth", sharedGrandsire(0), "s", 1, 0},
		{"zero generations", sharedGrandsire(0), "s", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := mustIndex(t, tt.reg, tt.subject, tt.generations)
			if got := CoefficientOfInbreeding(idx); got != tt.want {
				t.Errorf("CoefficientOfInbreeding() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCoefficientOfInbreeding_SameSideRepeatsAddNothing(t *testing.T) {
	// x is the sire's sire and the sire's dam's sire; the dam side is unrelated.
	r := registry{
		"s": {sire: "a", dam: "d"},
		"a": {sire: "x", dam: "b"},
		"b": {sire: "x"},
		"x": {},
		"d": {},
	}
	idx := mustIndex(t, r, "s", 4)

	if got := CoefficientOfInbreeding(idx); got != 0 {
		t.Errorf("CoefficientOfInbreeding() = %v, want 0", got)
	}

	common := FindCommonAncestors(idx)
	if len(common) != 1 || common[0].Dog.ID != "x" {
		t.Fatalf("FindCommonAncestors() = %+v, want only x", common)
	}
}

func TestInbreedingTerms_SkipsPathsThroughCloserAncestor(t *testing.T) {
	idx := mustIndex(t, parentOffspring(), "s", 5)

	terms := InbreedingTerms(idx)
	if len(terms) != 1 {
		t.Fatalf("InbreedingTerms() = %d terms, want 1: %+v", len(terms), terms)
	}

	want := InbreedingTerm{
		AncestorID: "a",
		SirePath:   path(StepSire),
		DamPath:    path(StepDam, StepSire),
		Value:      0.125,
	}
	if !reflect.DeepEqual(terms[0], want) {
		t.Errorf("term = %+v, want %+v", terms[0], want)
	}
}

func TestCoefficientOfInbreeding_FullSiblingTerms(t *testing.T) {
	idx := mustIndex(t, fullSiblings(), "s", 5)

	terms := InbreedingTerms(idx)
	got := make(map[string]float64)
	for _, term := range terms {
		got[term.AncestorID] += term.Value
	}

	want := map[string]float64{"x": 0.0625, "y": 0.0625}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("terms by ancestor = %v, want %v", got, want)
	}
}

func TestCoefficientOfInbreeding_Range(t *testing.T) {
	r := fullSibChain(MaxGenerations)
	for g := 1; g <= MaxGenerations; g++ {
		idx := mustIndex(t, r, "s", g)
		coi := CoefficientOfInbreeding(idx)
		if coi < 0 || coi > 1 {
			t.Errorf("g=%d: COI = %v, outside [0,1]", g, coi)
		}
	}
}

func TestCoefficientOfInbreeding_IncreasesWithDepthOnSibChain(t *testing.T) {
	r := fullSibChain(MaxGenerations)
	prev := -1.0
	for g := 2; g <= MaxGenerations; g++ {
		coi := CoefficientOfInbreeding(mustIndex(t, r, "s", g))
		if coi <= prev {
			t.Errorf("g=%d: COI = %v, not above %v", g, coi, prev)
		}
		prev = coi
	}
}

func TestCoefficientOfInbreeding_ClampsToOne(t *testing.T) {
	// Fully inbred ancestors reached many ways push the raw sum past one.
	r := fullSibChain(MaxGenerations)
	for id, d := range r {
		d.coi = 1
		r[id] = d
	}
	idx := mustIndex(t, r, "s", MaxGenerations)
	if got := CoefficientOfInbreeding(idx); got < 0 || got > 1 {
		t.Errorf("CoefficientOfInbreeding() = %v, outside [0,1]", got)
	}
}

func TestCoefficientOfInbreeding_Deterministic(t *testing.T) {
	r := fullSibChain(6)
	first := CoefficientOfInbreeding(mustIndex(t, r, "s", 6))
	for i := 0; i < 5; i++ {
		if got := CoefficientOfInbreeding(mustIndex(t, r, "s", 6)); got != first {
			t.Fatalf("run %d: COI = %v, first run %v", i, got, first)
		}
	}
}
