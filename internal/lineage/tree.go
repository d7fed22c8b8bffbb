package lineage

import (
	"context"
)

const (
	// DefaultGenerations is the depth used when the caller does not choose one.
	DefaultGenerations = 5

	// MaxGenerations is the deepest pedigree the analysis accepts.
	MaxGenerations = 8
)

// Tree is a rooted ancestry as supplied by a Fetcher. Each node has at most
// one sire and one dam; a nil parent ends that branch.
type Tree struct {
	ID                 string  `validate:"required"`
	Name               string  `validate:"max=200"`
	BreedName          string  `validate:"max=200"`
	RegistrationNumber string  `validate:"max=64"`
	Color              string  `validate:"max=100"`
	Gender             Gender  `validate:"omitempty,oneof=male female"`
	DateOfBirth        string  `validate:"max=64"`
	OwnCOI             float64 `validate:"gte=0,lte=1"`
	IsChampion         bool
	HealthTested       bool

	Sire *Tree `validate:"-"`
	Dam  *Tree `validate:"-"`
}

// Size returns the number of nodes in the tree, counting repeats.
func (t *Tree) Size() int {
	if t == nil {
		return 0
	}
	return 1 + t.Sire.Size() + t.Dam.Size()
}

// Fetcher supplies the ancestry of a dog to the given number of generations.
// Implementations must return a tree rooted at dogID.
type Fetcher interface {
	FetchPedigree(ctx context.Context, dogID string, generations int) (*Tree, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, dogID string, generations int) (*Tree, error)

// FetchPedigree calls f.
func (f FetcherFunc) FetchPedigree(ctx context.Context, dogID string, generations int) (*Tree, error) {
	return f(ctx, dogID, generations)
}
