package lineage

import (
	"fmt"
	"strings"
)

// ReportStatus tells whether a compatibility report holds a real analysis.
type ReportStatus string

const (
	StatusComplete ReportStatus = "complete"
	StatusFailed   ReportStatus = "failed"
)

// CompatibilityReport is the outcome of evaluating a prospective mating.
type CompatibilityReport struct {
	SireID      string
	DamID       string
	Generations int
	Status      ReportStatus

	CompatibilityScore float64
	BreedingCOI        float64
	RiskLevel          RiskLevel
	RiskWeight         float64

	CommonAncestors []CommonAncestor
	Risks           []string
	Recommendations []string
	Warnings        []DateWarning

	// Err is set when Status is StatusFailed.
	Err error
}

// Failed reports whether the analysis could not be carried out.
func (r *CompatibilityReport) Failed() bool {
	return r.Status == StatusFailed
}

// FailedReport returns the well-formed report used when a mating cannot be
// analyzed.
func FailedReport(sireID, damID string, generations int, err error) *CompatibilityReport {
	reason := "unknown error"
	if err != nil {
		reason = err.Error()
	}
	return &CompatibilityReport{
		SireID:          sireID,
		DamID:           damID,
		Generations:     generations,
		Status:          StatusFailed,
		RiskLevel:       RiskNone,
		CommonAncestors: []CommonAncestor{},
		Risks:           []string{"Pedigree analysis failed: " + reason},
		Recommendations: []string{"Resolve the pedigree data problem and rerun the analysis before planning this mating."},
		Err:             err,
	}
}

// EvaluateCompatibility scores the mating whose hypothetical offspring is the
// root of idx. The index must come from an Analyzer mating lookup or have the
// sire and dam as the root's parents.
func EvaluateCompatibility(idx *Index, policy Policy) *CompatibilityReport {
	root := idx.records[idx.rootID]

	report := &CompatibilityReport{
		SireID:          root.SireID,
		DamID:           root.DamID,
		Generations:     idx.generations - 1,
		Status:          StatusComplete,
		BreedingCOI:     CoefficientOfInbreeding(idx),
		CommonAncestors: findSharedAncestors(idx),
		Warnings:        idx.Warnings(),
		Risks:           []string{},
		Recommendations: []string{},
	}
	report.RiskLevel = policy.Thresholds.Assess(report.BreedingCOI)

	ev := &evaluation{report: report, policy: policy, terms: InbreedingTerms(idx)}
	ev.assessCOI()
	ev.assessCloseRelation()
	ev.assessFrequentAncestors()
	ev.assessConditions()
	ev.assessHealthTesting()
	ev.recommend()

	report.CompatibilityScore = policy.Score(report.BreedingCOI, report.RiskWeight)
	return report
}

type evaluation struct {
	report  *CompatibilityReport
	policy  Policy
	terms   []InbreedingTerm
	matched []ConditionAssociation
}

func (ev *evaluation) risk(weight float64, format string, args ...any) {
	ev.report.Risks = append(ev.report.Risks, fmt.Sprintf(format, args...))
	ev.report.RiskWeight += weight
}

func (ev *evaluation) assessCOI() {
	r := ev.report
	if r.RiskLevel == RiskNone {
		return
	}
	ev.risk(levelWeights[r.RiskLevel], "Expected COI of the litter is %.2f%% (%s)", r.BreedingCOI*100, r.RiskLevel)
}

func (ev *evaluation) assessCloseRelation() {
	for _, term := range ev.terms {
		if term.SirePath.Len()+term.DamPath.Len() > 4 {
			continue
		}
		rec := ev.ancestor(term.AncestorID)
		ev.risk(closeRelationWeight, "Sire and dam are closely related through %s (%s / %s)",
			rec.DisplayName(), term.SirePath, term.DamPath)
		return
	}
}

func (ev *evaluation) assessFrequentAncestors() {
	alert := ev.policy.CommonAncestorAlert
	if alert <= 0 {
		return
	}
	for _, ca := range ev.report.CommonAncestors {
		if ca.Occurrences >= alert {
			ev.risk(frequentAncestorWeight, "%s appears %d times in the combined pedigree (%.1f%% contribution)",
				ca.Dog.DisplayName(), ca.Occurrences, ca.GeneticContribution*100)
		}
	}
}

// assessConditions flags each configured condition once, naming the common
// ancestor of that breed with the largest contribution.
func (ev *evaluation) assessConditions() {
	for _, cond := range ev.policy.Conditions {
		for _, ca := range ev.report.CommonAncestors {
			if !strings.EqualFold(strings.TrimSpace(ca.Dog.BreedName), strings.TrimSpace(cond.Breed)) {
				continue
			}
			ev.risk(cond.Weight, "Common ancestor %s doubles up %s lines associated with %s",
				ca.Dog.DisplayName(), cond.Breed, cond.Condition)
			ev.matched = append(ev.matched, cond)
			break
		}
	}
}

func (ev *evaluation) assessHealthTesting() {
	for _, ca := range ev.report.CommonAncestors {
		if !ca.Dog.HealthTested {
			ev.risk(untestedAncestorWeight, "Common ancestor %s has no recorded health testing", ca.Dog.DisplayName())
		}
	}
}

var levelAdvice = map[RiskLevel]string{
	RiskModerate: "Consider a mate that shares fewer ancestors to bring the litter below first-cousin level.",
	RiskHigh:     "Inbreeding is at half-sibling level; an outcross is strongly advised.",
	RiskCritical: "Inbreeding exceeds half-sibling level; this mating is not recommended.",
}

func (ev *evaluation) recommend() {
	r := ev.report

	if advice, ok := levelAdvice[r.RiskLevel]; ok {
		r.Recommendations = append(r.Recommendations, advice)
	}

	for _, cond := range ev.matched {
		test := cond.Test
		if test == "" {
			test = "genetic screening"
		}
		r.Recommendations = append(r.Recommendations,
			fmt.Sprintf("Run %s on both sire and dam for %s.", test, cond.Condition))
	}

	for _, ca := range r.CommonAncestors {
		if !ca.Dog.HealthTested {
			r.Recommendations = append(r.Recommendations,
				"Request health-testing records for the shared ancestors before breeding.")
			break
		}
	}

	if len(r.Recommendations) == 0 {
		r.Recommendations = append(r.Recommendations,
			fmt.Sprintf("No inbreeding concerns found within %d generations.", r.Generations))
	}
}

func (ev *evaluation) ancestor(id string) AncestorRecord {
	for _, ca := range ev.report.CommonAncestors {
		if ca.Dog.ID == id {
			return ca.Dog
		}
	}
	return AncestorRecord{ID: id}
}
