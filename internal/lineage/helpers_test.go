package lineage

import (
	"context"
	"fmt"
	"math"
	"sync"
	"testing"
)

// dogSpec describes one dog of an in-memory registry used by tests.
type dogSpec struct {
	sire, dam string
	coi       float64
	breed     string
	dob       string
	tested    bool
}

// registry is an in-memory Fetcher keyed by dog ID.
type registry map[string]dogSpec

func (r registry) tree(id string, generations int) *Tree {
	d, ok := r[id]
	if !ok {
		return nil
	}
	dob := d.dob
	if dob == "" {
		dob = "2020-01-01"
	}
	t := &Tree{
		ID:           id,
		Name:         "Dog " + id,
		BreedName:    d.breed,
		DateOfBirth:  dob,
		OwnCOI:       d.coi,
		HealthTested: d.tested,
	}
	if generations > 0 {
		if d.sire != "" {
			t.Sire = r.tree(d.sire, generations-1)
		}
		if d.dam != "" {
			t.Dam = r.tree(d.dam, generations-1)
		}
	}
	return t
}

func (r registry) FetchPedigree(_ context.Context, dogID string, generations int) (*Tree, error) {
	t := r.tree(dogID, generations)
	if t == nil {
		return nil, fmt.Errorf("dog %s not found", dogID)
	}
	return t, nil
}

// countingFetcher records how many times the wrapped fetcher was called.
type countingFetcher struct {
	mu    sync.Mutex
	calls int
	next  Fetcher
}

func (c *countingFetcher) FetchPedigree(ctx context.Context, dogID string, generations int) (*Tree, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return c.next.FetchPedigree(ctx, dogID, generations)
}

func mustIndex(t *testing.T, r registry, id string, generations int) *Index {
	t.Helper()
	tree, err := r.FetchPedigree(context.Background(), id, generations)
	if err != nil {
		t.Fatalf("fetch %s: %v", id, err)
	}
	idx, err := BuildIndex(tree, generations)
	if err != nil {
		t.Fatalf("BuildIndex(%s) error = %v", id, err)
	}
	return idx
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-12
}

func path(steps ...Step) Path {
	return Path(steps)
}

// Shared pedigrees.

// noGrandparents: both parents known, nothing above them.
func noGrandparents() registry {
	return registry{
		"s": {sire: "a", dam: "b"},
		"a": {},
		"b": {},
	}
}

// sharedGrandsire: the sire's sire is also the dam's sire.
func sharedGrandsire(grandsireCOI float64) registry {
	return registry{
		"s": {sire: "a", dam: "b"},
		"a": {sire: "g"},
		"b": {sire: "g"},
		"g": {coi: grandsireCOI},
	}
}

// fullSiblings: the subject's parents share both parents, who have parents of
// their own.
func fullSiblings() registry {
	return registry{
		"s":  {sire: "a", dam: "b"},
		"a":  {sire: "x", dam: "y"},
		"b":  {sire: "x", dam: "y"},
		"x":  {sire: "xs", dam: "xd"},
		"y":  {},
		"xs": {},
		"xd": {},
	}
}

// parentOffspring: the subject's dam is a daughter of the subject's sire.
func parentOffspring() registry {
	return registry{
		"s": {sire: "a", dam: "b"},
		"a": {sire: "p", dam: "q"},
		"b": {sire: "a", dam: "c"},
		"p": {},
		"q": {},
		"c": {},
	}
}

// threeSharedAncestors is a prospective mating of "m" and "f" that shares c1,
// c2 and c3 at different depths.
func threeSharedAncestors() registry {
	return registry{
		"m":   {sire: "m1", dam: "m2", breed: "Border Collie", tested: true},
		"m1":  {sire: "c1", breed: "Border Collie", tested: true},
		"m2":  {sire: "m2s", dam: "c2", breed: "Border Collie", tested: true},
		"m2s": {sire: "c3", breed: "Border Collie", tested: true},
		"f":   {sire: "f1", dam: "c2", breed: "Border Collie", tested: true},
		"f1":  {sire: "c1", dam: "c3", breed: "Border Collie", tested: true},
		"c1":  {breed: "Border Collie", tested: true},
		"c2":  {coi: 0.25, breed: "Border Collie", tested: true},
		"c3":  {breed: "Border Collie", tested: true},
	}
}

// fullSibChain produces n generations of brother-sister matings above "s".
func fullSibChain(n int) registry {
	r := registry{}
	sire, dam := "s0", "d0"
	r[sire] = dogSpec{}
	r[dam] = dogSpec{}
	for i := 1; i <= n; i++ {
		ns, nd := fmt.Sprintf("s%d", i), fmt.Sprintf("d%d", i)
		r[ns] = dogSpec{sire: sire, dam: dam}
		r[nd] = dogSpec{sire: sire, dam: dam}
		sire, dam = ns, nd
	}
	r["s"] = dogSpec{sire: sire, dam: dam}
	return r
}
