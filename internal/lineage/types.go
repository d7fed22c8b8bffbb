// Package lineage computes inbreeding coefficients, common ancestors, genetic
// contributions and breeding compatibility over a bounded-depth pedigree.
//
// Everything in this package except Analyzer's fetch step is a pure function
// of an immutable Index, so independent computations may run concurrently.
package lineage

import (
	"strings"
	"time"
)

// Gender is the recorded sex of a dog.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Valid returns true if the gender is a known value.
func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

// Step labels which parent link was followed.
type Step string

const (
	StepSire Step = "Sire"
	StepDam  Step = "Dam"
)

// Path is a route from a descendant to one of its ancestors, root-exclusive.
// Its length is the generation distance.
type Path []Step

// Len returns the generation distance covered by the path.
func (p Path) Len() int {
	return len(p)
}

// Side returns the first step of the path, or "" for an empty path.
func (p Path) Side() Step {
	if len(p) == 0 {
		return ""
	}
	return p[0]
}

// String renders the path as "Sire > Dam > Sire".
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, s := range p {
		parts[i] = string(s)
	}
	return strings.Join(parts, " > ")
}

// clone returns a copy that does not alias p.
func (p Path) clone() Path {
	out := make(Path, len(p))
	copy(out, p)
	return out
}

// BirthDate is a date of birth that always resolves to a concrete time.
// Defaulted is true when the source value was missing or unparseable and
// Time holds UnknownBirthDate instead.
type BirthDate struct {
	Time      time.Time
	Raw       string
	Defaulted bool
}

// AncestorRecord is one dog in the flattened ancestry index.
// SireID and DamID are empty when the parent is unknown or lies beyond the
// fetched depth.
type AncestorRecord struct {
	ID                 string
	Name               string
	BreedName          string
	RegistrationNumber string
	Color              string
	Gender             Gender
	DateOfBirth        BirthDate
	SireID             string
	DamID              string
	OwnCOI             float64
	IsChampion         bool
	HealthTested       bool
}

// DisplayName returns the call name, falling back to the registration number
// and then the ID.
func (r AncestorRecord) DisplayName() string {
	switch {
	case r.Name != "":
		return r.Name
	case r.RegistrationNumber != "":
		return r.RegistrationNumber
	default:
		return r.ID
	}
}

// CommonAncestor is a dog reached from the subject by two or more paths.
type CommonAncestor struct {
	Dog                 AncestorRecord
	Occurrences         int
	Pathways            []Path
	GeneticContribution float64
}

// ClosestGeneration returns the length of the shortest pathway.
func (c CommonAncestor) ClosestGeneration() int {
	closest := 0
	for i, p := range c.Pathways {
		if i == 0 || p.Len() < closest {
			closest = p.Len()
		}
	}
	return closest
}
