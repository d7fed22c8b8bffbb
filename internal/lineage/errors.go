package lineage

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDepth is returned when a generation count is outside 0..MaxGenerations.
	ErrInvalidDepth = errors.New("generations out of range")

	// ErrMalformedPedigree marks ancestry data that failed validation.
	ErrMalformedPedigree = errors.New("malformed pedigree")

	// ErrCyclicPedigree marks ancestry data in which a dog is its own ancestor.
	ErrCyclicPedigree = errors.New("pedigree contains a cycle")

	// ErrSameParent is returned when a mating names the same dog as sire and dam.
	ErrSameParent = errors.New("sire and dam are the same dog")
)

// FetchError reports that ancestry data for a dog could not be obtained or
// could not be used. A computation that fails this way returns a zero value
// alongside the error; the zero is not a result.
type FetchError struct {
	DogID string
	Err   error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching pedigree for %s: %v", e.DogID, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsFetchFailure reports whether err means the pedigree was unavailable,
// as opposed to a validation error from the caller.
func IsFetchFailure(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}

// ValidateGenerations checks a requested generation depth.
func ValidateGenerations(generations int) error {
	if generations < 0 || generations > MaxGenerations {
		return fmt.Errorf("%w: %d (expected 0-%d)", ErrInvalidDepth, generations, MaxGenerations)
	}
	return nil
}

// DateWarning is a non-fatal notice that a date of birth was replaced by
// UnknownBirthDate.
type DateWarning struct {
	DogID string
	Raw   string
	Err   error
}

func (w DateWarning) String() string {
	if w.Raw == "" {
		return fmt.Sprintf("dog %s has no date of birth; using %s", w.DogID, UnknownBirthDate.Format("2006-01-02"))
	}
	return fmt.Sprintf("dog %s has unreadable date of birth %q; using %s", w.DogID, w.Raw, UnknownBirthDate.Format("2006-01-02"))
}
