package lineage

import (
	"math"
)

// InbreedingTerm is one sire-path/dam-path pair's share of a COI.
type InbreedingTerm struct {
	AncestorID string
	SirePath   Path
	DamPath    Path
	Value      float64
}

// CoefficientOfInbreeding applies Wright's path method to the root of idx:
// for every ancestor on both sides, every independent pair of a sire-side
// path p and a dam-side path q adds 0.5^(len(p)+len(q)) * (1 + Fa).
// The result is clamped to [0, 1].
func CoefficientOfInbreeding(idx *Index) float64 {
	var coi float64
	for _, term := range InbreedingTerms(idx) {
		coi += term.Value
	}
	return clamp01(coi)
}

// InbreedingTerms lists the individual contributions summed by
// CoefficientOfInbreeding, in a deterministic order.
func InbreedingTerms(idx *Index) []InbreedingTerm {
	var terms []InbreedingTerm

	for _, g := range groupRoutes(enumerateRoutes(idx)) {
		sireSide, damSide := splitSides(g.routes)
		if len(sireSide) == 0 || len(damSide) == 0 {
			continue
		}
		fa := idx.records[g.id].OwnCOI

		for _, p := range sireSide {
			for _, q := range damSide {
				if !independent(p, q) {
					continue
				}
				terms = append(terms, InbreedingTerm{
					AncestorID: g.id,
					SirePath:   p.path,
					DamPath:    q.path,
					Value:      math.Ldexp(1+fa, -(p.path.Len() + q.path.Len())),
				})
			}
		}
	}

	return terms
}

// independent reports whether two routes share no dog other than their
// terminal ancestor.
func independent(p, q route) bool {
	end := p.terminal()
	seen := make(map[string]bool, len(p.trail))
	for _, id := range p.trail {
		if id != end {
			seen[id] = true
		}
	}
	for _, id := range q.trail {
		if id != end && seen[id] {
			return false
		}
	}
	return true
}
