package lineage

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var treeValidate = validator.New()

// Index is a flattened, read-only view of a pedigree keyed by dog ID.
// A dog reached through several branches has exactly one entry.
type Index struct {
	rootID      string
	generations int
	records     map[string]*AncestorRecord
	order       []string
	warnings    []DateWarning
}

// BuildIndex flattens tree into an Index holding every node within
// generations of the root. It rejects nodes that fail validation, a dog named
// as both parents of one litter, conflicting parent links for the same dog,
// and cycles.
func BuildIndex(tree *Tree, generations int) (*Index, error) {
	if err := ValidateGenerations(generations); err != nil {
		return nil, err
	}
	if tree == nil {
		return nil, fmt.Errorf("%w: empty pedigree", ErrMalformedPedigree)
	}

	idx := &Index{
		rootID:      tree.ID,
		generations: generations,
		records:     make(map[string]*AncestorRecord),
	}

	b := &indexBuilder{idx: idx, onLine: make(map[string]bool)}
	if err := b.walk(tree, 0); err != nil {
		return nil, err
	}

	if err := idx.checkAcyclic(); err != nil {
		return nil, err
	}

	return idx, nil
}

// buildMatingIndex indexes the hypothetical offspring of sire and dam.
// The offspring is a synthetic root; each parent's own pedigree keeps its
// full requested depth.
func buildMatingIndex(sire, dam *Tree, generations int) (*Index, error) {
	if err := ValidateGenerations(generations); err != nil {
		return nil, err
	}
	if sire == nil || dam == nil {
		return nil, fmt.Errorf("%w: mating requires both parents", ErrMalformedPedigree)
	}

	root := &Tree{
		ID:   matingID(sire.ID, dam.ID),
		Name: "prospective litter",
		Sire: sire,
		Dam:  dam,
	}

	idx := &Index{
		rootID:      root.ID,
		generations: generations + 1,
		records:     make(map[string]*AncestorRecord),
	}

	b := &indexBuilder{idx: idx, onLine: make(map[string]bool)}
	if err := b.walk(root, 0); err != nil {
		return nil, err
	}
	if err := idx.checkAcyclic(); err != nil {
		return nil, err
	}
	return idx, nil
}

func matingID(sireID, damID string) string {
	return "litter:" + sireID + "x" + damID
}

type indexBuilder struct {
	idx    *Index
	onLine map[string]bool
}

func (b *indexBuilder) walk(node *Tree, depth int) error {
	if err := treeValidate.Struct(node); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return fmt.Errorf("%w: dog %q: %v", ErrMalformedPedigree, node.ID, verrs)
		}
		return fmt.Errorf("%w: %v", ErrMalformedPedigree, err)
	}
	if b.onLine[node.ID] {
		return fmt.Errorf("%w: dog %s is its own ancestor", ErrCyclicPedigree, node.ID)
	}
	if node.Sire != nil && node.Dam != nil && node.Sire.ID == node.Dam.ID {
		return fmt.Errorf("%w: dog %s has %s as both sire and dam", ErrMalformedPedigree, node.ID, node.Sire.ID)
	}

	rec, ok := b.idx.records[node.ID]
	if !ok {
		rec = b.newRecord(node)
		b.idx.records[node.ID] = rec
		b.idx.order = append(b.idx.order, node.ID)
	}

	// Parents past the depth limit are not linked.
	if depth >= b.idx.generations {
		return nil
	}

	b.onLine[node.ID] = true
	defer delete(b.onLine, node.ID)

	if node.Sire != nil {
		if err := linkParent(rec, &rec.SireID, node.Sire.ID, StepSire); err != nil {
			return err
		}
		if err := b.walk(node.Sire, depth+1); err != nil {
			return err
		}
	}
	if node.Dam != nil {
		if err := linkParent(rec, &rec.DamID, node.Dam.ID, StepDam); err != nil {
			return err
		}
		if err := b.walk(node.Dam, depth+1); err != nil {
			return err
		}
	}

	return nil
}

// linkParent records a parent link, merging repeat sightings of the same dog.
func linkParent(rec *AncestorRecord, slot *string, parentID string, side Step) error {
	if *slot == "" {
		*slot = parentID
		return nil
	}
	if *slot != parentID {
		return fmt.Errorf("%w: dog %s has conflicting %s links %s and %s",
			ErrMalformedPedigree, rec.ID, side, *slot, parentID)
	}
	return nil
}

func (b *indexBuilder) newRecord(node *Tree) *AncestorRecord {
	dob, err := ParseBirthDate(node.DateOfBirth)
	if err != nil {
		b.idx.warnings = append(b.idx.warnings, DateWarning{DogID: node.ID, Raw: node.DateOfBirth, Err: err})
	}

	return &AncestorRecord{
		ID:                 node.ID,
		Name:               node.Name,
		BreedName:          node.BreedName,
		RegistrationNumber: node.RegistrationNumber,
		Color:              node.Color,
		Gender:             node.Gender,
		DateOfBirth:        dob,
		OwnCOI:             node.OwnCOI,
		IsChampion:         node.IsChampion,
		HealthTested:       node.HealthTested,
	}
}

// checkAcyclic walks the merged parent links. Merging branches can close a
// loop that no single branch of the tree showed.
func (idx *Index) checkAcyclic() error {
	const (
		unvisited = iota
		active
		done
	)
	state := make(map[string]int, len(idx.records))

	var visit func(id string) error
	visit = func(id string) error {
		rec, ok := idx.records[id]
		if !ok {
			return nil
		}
		switch state[id] {
		case active:
			return fmt.Errorf("%w: dog %s is its own ancestor", ErrCyclicPedigree, id)
		case done:
			return nil
		}
		state[id] = active
		for _, parent := range []string{rec.SireID, rec.DamID} {
			if parent == "" {
				continue
			}
			if err := visit(parent); err != nil {
				return err
			}
		}
		state[id] = done
		return nil
	}

	for _, id := range idx.order {
		if err := visit(id); err != nil {
			return err
		}
	}
	return nil
}

// RootID returns the identifier of the subject.
func (idx *Index) RootID() string {
	return idx.rootID
}

// Generations returns the depth the index was built to.
func (idx *Index) Generations() int {
	return idx.generations
}

// Len returns the number of distinct dogs, including the root.
func (idx *Index) Len() int {
	return len(idx.records)
}

// Lookup returns a copy of the record for id.
func (idx *Index) Lookup(id string) (AncestorRecord, bool) {
	rec, ok := idx.records[id]
	if !ok {
		return AncestorRecord{}, false
	}
	return *rec, true
}

// IDs returns dog identifiers in the order they were first reached.
func (idx *Index) IDs() []string {
	out := make([]string, len(idx.order))
	copy(out, idx.order)
	return out
}

// Warnings returns the date warnings raised while indexing.
func (idx *Index) Warnings() []DateWarning {
	out := make([]DateWarning, len(idx.warnings))
	copy(out, idx.warnings)
	return out
}
