package lineage

import (
	"math"
)

// RiskLevel categorizes a coefficient of inbreeding.
type RiskLevel string

const (
	RiskNone     RiskLevel = "NONE"
	RiskLow      RiskLevel = "LOW"
	RiskModerate RiskLevel = "MODERATE"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// Thresholds are the upper COI bounds of the Low, Moderate and High levels.
// Anything above High is Critical.
type Thresholds struct {
	Low      float64
	Moderate float64
	High     float64
}

// DefaultThresholds returns second-cousin, first-cousin and half-sibling
// levels under Wright's convention.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Low:      0.015625,
		Moderate: 0.0625,
		High:     0.125,
	}
}

// Assess categorizes coi.
func (t Thresholds) Assess(coi float64) RiskLevel {
	switch {
	case coi <= 0:
		return RiskNone
	case coi <= t.Low:
		return RiskLow
	case coi <= t.Moderate:
		return RiskModerate
	case coi <= t.High:
		return RiskHigh
	default:
		return RiskCritical
	}
}

// ConditionAssociation links a breed to a heritable condition and the test
// that screens for it.
type ConditionAssociation struct {
	Breed     string
	Condition string
	Test      string
	Weight    float64
}

// Policy holds the tunable parts of compatibility scoring.
type Policy struct {
	Thresholds Thresholds

	// CoiSensitivity is the steepness of the score's decay with COI.
	CoiSensitivity float64

	// CommonAncestorAlert is the occurrence count at which a single common
	// ancestor is reported as a risk. Zero disables the rule.
	CommonAncestorAlert int

	// Conditions are the heritable-condition associations to check.
	Conditions []ConditionAssociation
}

const defaultCoiSensitivity = 8.0

// DefaultPolicy returns the policy used when none is configured.
func DefaultPolicy() Policy {
	return Policy{
		Thresholds:          DefaultThresholds(),
		CoiSensitivity:      defaultCoiSensitivity,
		CommonAncestorAlert: 3,
	}
}

// Score maps a COI and an accumulated risk weight to [0, 1]. It is strictly
// decreasing in coi for a fixed risk weight and never increases with risk.
func (p Policy) Score(coi, riskWeight float64) float64 {
	k := p.CoiSensitivity
	if k <= 0 {
		k = defaultCoiSensitivity
	}
	if riskWeight < 0 || math.IsNaN(riskWeight) {
		riskWeight = 0
	}
	return clamp01(math.Exp(-k*clamp01(coi)) / (1 + riskWeight))
}

var levelWeights = map[RiskLevel]float64{
	RiskNone:     0,
	RiskLow:      0.05,
	RiskModerate: 0.15,
	RiskHigh:     0.3,
	RiskCritical: 0.5,
}

const (
	closeRelationWeight    = 0.25
	frequentAncestorWeight = 0.1
	untestedAncestorWeight = 0.05
)
