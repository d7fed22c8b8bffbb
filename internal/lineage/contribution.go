package lineage

import (
	"math"
)

// CalculateGeneticInfluence returns the expected fraction of a descendant's
// genome inherited from an ancestor reached by pathways. Each path halves once
// per generation and independent paths add. An empty list yields 0.
func CalculateGeneticInfluence(pathways []Path) float64 {
	var total float64
	for _, p := range pathways {
		total += math.Ldexp(1, -p.Len())
	}
	return clamp01(total)
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
