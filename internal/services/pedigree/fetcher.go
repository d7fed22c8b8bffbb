package pedigree

import (
	"context"
	"errors"
	"fmt"

	"github.com/kennelworks/pedigree/internal/lineage"
	"github.com/kennelworks/pedigree/internal/models"
	"github.com/kennelworks/pedigree/internal/repository"
)

// DogReader looks up a single registry entry. *repository.DogRepository
// satisfies it.
type DogReader interface {
	GetByID(ctx context.Context, id string) (*models.Dog, error)
}

// RegistryFetcher builds pedigrees from the registry database.
type RegistryFetcher struct {
	dogs DogReader
}

// NewRegistryFetcher creates a fetcher over dogs.
func NewRegistryFetcher(dogs DogReader) *RegistryFetcher {
	return &RegistryFetcher{dogs: dogs}
}

// FetchPedigree reads dogID and its ancestors to the given depth. A parent
// link to a dog that is not in the registry ends that branch; every other
// lookup error aborts the fetch.
func (f *RegistryFetcher) FetchPedigree(ctx context.Context, dogID string, generations int) (*lineage.Tree, error) {
	w := &treeWalk{
		ctx:   ctx,
		dogs:  f.dogs,
		rows:  make(map[string]*models.Dog),
		nodes: make(map[nodeKey]*lineage.Tree),
	}

	root, err := w.load(dogID)
	if err != nil {
		return nil, err
	}
	return w.build(root, generations)
}

type nodeKey struct {
	id    string
	depth int
}

// treeWalk holds the state of one FetchPedigree call. Rows are read at most
// once; a dog reached twice with the same remaining depth shares one subtree.
type treeWalk struct {
	ctx   context.Context
	dogs  DogReader
	rows  map[string]*models.Dog
	nodes map[nodeKey]*lineage.Tree
}

func (w *treeWalk) load(id string) (*models.Dog, error) {
	if dog, ok := w.rows[id]; ok {
		return dog, nil
	}
	if err := w.ctx.Err(); err != nil {
		return nil, err
	}

	dog, err := w.dogs.GetByID(w.ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading dog %s: %w", id, err)
	}
	w.rows[id] = dog
	return dog, nil
}

// parent loads a parent row; a dangling link yields nil.
func (w *treeWalk) parent(id *string) (*models.Dog, error) {
	if id == nil || *id == "" {
		return nil, nil
	}
	dog, err := w.load(*id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return dog, err
}

func (w *treeWalk) build(dog *models.Dog, remaining int) (*lineage.Tree, error) {
	key := nodeKey{dog.ID, remaining}
	if node, ok := w.nodes[key]; ok {
		return node, nil
	}

	node := treeNode(dog)
	w.nodes[key] = node
	if remaining == 0 {
		return node, nil
	}

	sire, err := w.parent(dog.SireID)
	if err != nil {
		return nil, err
	}
	if sire != nil {
		if node.Sire, err = w.build(sire, remaining-1); err != nil {
			return nil, err
		}
	}

	dam, err := w.parent(dog.DamID)
	if err != nil {
		return nil, err
	}
	if dam != nil {
		if node.Dam, err = w.build(dam, remaining-1); err != nil {
			return nil, err
		}
	}

	return node, nil
}

func treeNode(dog *models.Dog) *lineage.Tree {
	return &lineage.Tree{
		ID:                 dog.ID,
		Name:               dog.Name,
		BreedName:          dog.BreedName,
		RegistrationNumber: dog.RegistrationNumber,
		Color:              dog.Color,
		Gender:             lineage.Gender(dog.Sex),
		DateOfBirth:        dog.DateOfBirth,
		OwnCOI:             dog.COI,
		IsChampion:         dog.IsChampion,
		HealthTested:       dog.HealthTested,
	}
}
