package lineage

import (
	"context"
	"errors"
	"fmt"
)

// Analyzer runs lineage computations against pedigrees supplied by a Fetcher.
// It holds no mutable state and is safe for concurrent use.
type Analyzer struct {
	fetcher Fetcher
	policy  Policy
}

// NewAnalyzer creates an Analyzer.
func NewAnalyzer(fetcher Fetcher, policy Policy) *Analyzer {
	return &Analyzer{fetcher: fetcher, policy: policy}
}

// Policy returns the scoring policy in use.
func (a *Analyzer) Policy() Policy {
	return a.policy
}

// Analysis bundles everything computed for one subject.
type Analysis struct {
	SubjectID       string
	Subject         AncestorRecord
	Generations     int
	COI             float64
	Terms           []InbreedingTerm
	CommonAncestors []CommonAncestor
	Ancestors       int
	Warnings        []DateWarning
}

// Analyze fetches the pedigree of dogID once and computes its COI and common
// ancestors.
func (a *Analyzer) Analyze(ctx context.Context, dogID string, generations int) (*Analysis, error) {
	idx, err := a.index(ctx, dogID, generations)
	if err != nil {
		return nil, err
	}

	subject, _ := idx.Lookup(dogID)
	return &Analysis{
		SubjectID:       dogID,
		Subject:         subject,
		Generations:     generations,
		COI:             CoefficientOfInbreeding(idx),
		Terms:           InbreedingTerms(idx),
		CommonAncestors: FindCommonAncestors(idx),
		Ancestors:       idx.Len() - 1,
		Warnings:        idx.Warnings(),
	}, nil
}

// CalculateCoefficientOfInbreeding returns the COI of an existing dog.
// A failed fetch returns 0 with a *FetchError; a zero with a nil error is a
// computed result.
func (a *Analyzer) CalculateCoefficientOfInbreeding(ctx context.Context, dogID string, generations int) (float64, error) {
	idx, err := a.index(ctx, dogID, generations)
	if err != nil {
		return 0, err
	}
	return CoefficientOfInbreeding(idx), nil
}

// FindCommonAncestors returns the common ancestors of an existing dog, highest
// contribution first. The slice is empty, not nil, when there are none.
func (a *Analyzer) FindCommonAncestors(ctx context.Context, dogID string, generations int) ([]CommonAncestor, error) {
	idx, err := a.index(ctx, dogID, generations)
	if err != nil {
		return []CommonAncestor{}, err
	}
	return FindCommonAncestors(idx), nil
}

// MatingCoefficient returns the expected COI of a litter out of sireID and
// damID.
func (a *Analyzer) MatingCoefficient(ctx context.Context, sireID, damID string, generations int) (float64, error) {
	idx, err := a.matingIndex(ctx, sireID, damID, generations)
	if err != nil {
		return 0, err
	}
	return CoefficientOfInbreeding(idx), nil
}

// CalculateBreedingCompatibility evaluates a prospective mating. It never
// fails: when the pedigrees cannot be analyzed the report has StatusFailed,
// a zero score and a risk entry describing the problem.
func (a *Analyzer) CalculateBreedingCompatibility(ctx context.Context, sireID, damID string, generations int) *CompatibilityReport {
	idx, err := a.matingIndex(ctx, sireID, damID, generations)
	if err != nil {
		return FailedReport(sireID, damID, generations, err)
	}
	return EvaluateCompatibility(idx, a.policy)
}

func (a *Analyzer) index(ctx context.Context, dogID string, generations int) (*Index, error) {
	if err := ValidateGenerations(generations); err != nil {
		return nil, err
	}
	tree, err := a.fetch(ctx, dogID, generations)
	if err != nil {
		return nil, err
	}
	idx, err := BuildIndex(tree, generations)
	if err != nil {
		return nil, &FetchError{DogID: dogID, Err: err}
	}
	return idx, nil
}

func (a *Analyzer) matingIndex(ctx context.Context, sireID, damID string, generations int) (*Index, error) {
	if err := ValidateGenerations(generations); err != nil {
		return nil, err
	}
	if sireID == damID {
		return nil, fmt.Errorf("%w: %s", ErrSameParent, sireID)
	}

	sire, err := a.fetch(ctx, sireID, generations)
	if err != nil {
		return nil, err
	}
	dam, err := a.fetch(ctx, damID, generations)
	if err != nil {
		return nil, err
	}

	idx, err := buildMatingIndex(sire, dam, generations)
	if err != nil {
		return nil, &FetchError{DogID: matingID(sireID, damID), Err: err}
	}
	return idx, nil
}

// fetch calls the Fetcher and normalizes every failure, including context
// cancellation, into a *FetchError.
func (a *Analyzer) fetch(ctx context.Context, dogID string, generations int) (*Tree, error) {
	if dogID == "" {
		return nil, &FetchError{DogID: dogID, Err: errors.New("empty dog id")}
	}
	if err := ctx.Err(); err != nil {
		return nil, &FetchError{DogID: dogID, Err: err}
	}
	if a.fetcher == nil {
		return nil, &FetchError{DogID: dogID, Err: errors.New("no pedigree source configured")}
	}

	tree, err := a.fetcher.FetchPedigree(ctx, dogID, generations)
	if err != nil {
		return nil, &FetchError{DogID: dogID, Err: err}
	}
	if tree == nil {
		return nil, &FetchError{DogID: dogID, Err: fmt.Errorf("%w: no tree returned", ErrMalformedPedigree)}
	}
	if tree.ID != dogID {
		return nil, &FetchError{DogID: dogID, Err: fmt.Errorf("%w: tree rooted at %q", ErrMalformedPedigree, tree.ID)}
	}
	return tree, nil
}
