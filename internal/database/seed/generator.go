package seed

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/kennelworks/pedigree/internal/lineage"
	"github.com/kennelworks/pedigree/internal/models"
	"github.com/kennelworks/pedigree/internal/repository"
	"github.com/kennelworks/pedigree/internal/services/pedigree"
	"github.com/kennelworks/pedigree/internal/util"
)

// Config configures the seed data generator.
type Config struct {
	RegistryPrefix   string
	FoundersPerBreed int
	Generations      int
	LittersPerBreed  int // per generation
	LineBreedingRate float64
	MalformedRate    float64
	FirstWhelpYear   int
	RandomSeed       int64

	// AnalysisGenerations is the pedigree depth used for stored COIs.
	AnalysisGenerations int
}

// DefaultConfig returns a default seed configuration.
func DefaultConfig(prefix string) Config {
	return Config{
		RegistryPrefix:      prefix,
		FoundersPerBreed:    6,
		Generations:         4,
		LittersPerBreed:     3,
		LineBreedingRate:    0.4,
		MalformedRate:       0.06,
		FirstWhelpYear:      2008,
		RandomSeed:          1962,
		AnalysisGenerations: lineage.DefaultGenerations,
	}
}

// Stats summarizes a generation run.
type Stats struct {
	Breeds          int
	Dogs            int
	Litters         int
	LineBredLitters int
	MalformedDates  int
	MaxCOI          float64
}

// Generator generates a kennel registry with several generations of
// line-bred stock. The same Config always yields the same registry.
type Generator struct {
	db        *sql.DB
	cfg       Config
	rng       *rand.Rand
	regNumGen *util.RegistrationNumberGenerator
	dogRepo   *repository.DogRepository
	breedRepo *repository.BreedRepository

	// Tracking
	idSeq    int64
	dogs     map[string]*models.Dog
	analyzer *lineage.Analyzer
	stats    Stats
}

// NewGenerator creates a new seed data generator.
func NewGenerator(db *sql.DB, cfg Config) *Generator {
	g := &Generator{
		db:        db,
		cfg:       cfg,
		rng:       rand.New(rand.NewSource(cfg.RandomSeed)),
		regNumGen: util.NewRegistrationNumberGenerator(cfg.RegistryPrefix),
		dogRepo:   repository.NewDogRepository(db),
		breedRepo: repository.NewBreedRepository(db),
		dogs:      make(map[string]*models.Dog),
	}
	// COIs are computed against the dogs generated so far, not the database,
	// because the transaction holds the only connection.
	g.analyzer = lineage.NewAnalyzer(pedigree.NewRegistryFetcher(g), lineage.DefaultPolicy())
	return g
}

// GetByID serves the generator's in-memory registry to the COI analyzer.
func (g *Generator) GetByID(_ context.Context, id string) (*models.Dog, error) {
	dog, ok := g.dogs[id]
	if !ok {
		return nil, fmt.Errorf("dog %s: %w", id, repository.ErrNotFound)
	}
	return dog, nil
}

// HasData reports whether the registry already holds any dogs.
func HasData(ctx context.Context, db *sql.DB) (bool, error) {
	var n int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM dogs").Scan(&n); err != nil {
		return false, fmt.Errorf("counting dogs: %w", err)
	}
	return n > 0, nil
}

// Generate creates all seed data in one transaction.
func (g *Generator) Generate(ctx context.Context) (*Stats, error) {
	if err := lineage.ValidateGenerations(g.cfg.AnalysisGenerations); err != nil {
		return nil, err
	}

	slog.Info("starting seed data generation",
		"breeds", len(Breeds),
		"founders_per_breed", g.cfg.FoundersPerBreed,
		"generations", g.cfg.Generations,
		"seed", g.cfg.RandomSeed,
	)

	tx, err := g.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	for _, spec := range Breeds {
		if err := g.generateBreed(ctx, tx, spec); err != nil {
			return nil, fmt.Errorf("generating %s: %w", spec.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}

	slog.Info("seed data generation complete",
		"dogs", g.stats.Dogs,
		"litters", g.stats.Litters,
		"line_bred", g.stats.LineBredLitters,
		"malformed_dates", g.stats.MalformedDates,
		"max_coi", g.stats.MaxCOI,
	)

	stats := g.stats
	return &stats, nil
}

func (g *Generator) generateBreed(ctx context.Context, tx *sql.Tx, spec BreedSpec) error {
	breed := &models.Breed{
		ID:    g.nextID(),
		Name:  spec.Name,
		Group: spec.Group,
	}
	if err := g.breedRepo.Create(ctx, tx, breed); err != nil {
		return err
	}
	g.stats.Breeds++
	slog.Debug("generating breed", "breed", spec.Name)

	// Founders
	var cohort []*models.Dog
	for i := 0; i < g.cfg.FoundersPerBreed; i++ {
		sex := models.SexMale
		if i%2 == 1 {
			sex = models.SexFemale
		}
		whelped := g.whelpDate(g.cfg.FirstWhelpYear)
		dog := g.newDog(breed, spec, sex, whelped, nil, nil, 0)
		if err := g.insert(ctx, tx, dog); err != nil {
			return err
		}
		cohort = append(cohort, dog)
	}

	// Each generation breeds from the previous two cohorts.
	var previous []*models.Dog
	for gen := 1; gen <= g.cfg.Generations; gen++ {
		pool := append(append([]*models.Dog{}, previous...), cohort...)
		next, err := g.generateLitters(ctx, tx, breed, spec, pool, g.cfg.FirstWhelpYear+3*gen)
		if err != nil {
			return fmt.Errorf("generation %d: %w", gen, err)
		}
		previous, cohort = cohort, next
	}

	return nil
}

func (g *Generator) generateLitters(ctx context.Context, tx *sql.Tx, breed *models.Breed, spec BreedSpec, pool []*models.Dog, year int) ([]*models.Dog, error) {
	var sires, dams []*models.Dog
	for _, d := range pool {
		if d.Sex == models.SexMale {
			sires = append(sires, d)
		} else {
			dams = append(dams, d)
		}
	}
	if len(sires) == 0 || len(dams) == 0 {
		return nil, nil
	}

	var puppies []*models.Dog
	for l := 0; l < g.cfg.LittersPerBreed; l++ {
		sire := sires[g.rng.Intn(len(sires))]
		lineBred := g.rng.Float64() < g.cfg.LineBreedingRate
		dam := g.chooseDam(sire, dams, lineBred)
		if dam == nil {
			continue
		}

		coi, err := g.analyzer.MatingCoefficient(ctx, sire.ID, dam.ID, g.cfg.AnalysisGenerations)
		if err != nil {
			return nil, fmt.Errorf("litter coi: %w", err)
		}
		if coi > 0 {
			g.stats.LineBredLitters++
		}
		if coi > g.stats.MaxCOI {
			g.stats.MaxCOI = coi
		}

		whelped := g.whelpDate(year)
		size := 2 + g.rng.Intn(3)
		for p := 0; p < size; p++ {
			sex := models.SexMale
			if g.rng.Intn(2) == 1 {
				sex = models.SexFemale
			}
			pup := g.newDog(breed, spec, sex, whelped, &sire.ID, &dam.ID, coi)
			if err := g.insert(ctx, tx, pup); err != nil {
				return nil, err
			}
			puppies = append(puppies, pup)
		}
		g.stats.Litters++
	}

	return puppies, nil
}

// chooseDam picks a mate for sire. Line-bred matings prefer a dam sharing a
// parent or grandparent with the sire; otherwise unrelated dams are
// preferred. Full siblings and parent-offspring pairs are never chosen.
func (g *Generator) chooseDam(sire *models.Dog, dams []*models.Dog, lineBred bool) *models.Dog {
	var related, unrelated []*models.Dog
	for _, d := range dams {
		if d.HasParent(sire.ID) || sire.HasParent(d.ID) || fullSiblings(sire, d) {
			continue
		}
		if g.sharesAncestor(sire, d) {
			related = append(related, d)
		} else {
			unrelated = append(unrelated, d)
		}
	}

	first, second := unrelated, related
	if lineBred {
		first, second = related, unrelated
	}
	switch {
	case len(first) > 0:
		return first[g.rng.Intn(len(first))]
	case len(second) > 0:
		return second[g.rng.Intn(len(second))]
	default:
		return nil
	}
}

func fullSiblings(a, b *models.Dog) bool {
	return a.SireID != nil && b.SireID != nil && a.DamID != nil && b.DamID != nil &&
		*a.SireID == *b.SireID && *a.DamID == *b.DamID
}

// sharesAncestor reports whether a and b have a parent or grandparent in
// common.
func (g *Generator) sharesAncestor(a, b *models.Dog) bool {
	seen := make(map[string]bool)
	for _, id := range g.ancestors(a, 2) {
		seen[id] = true
	}
	for _, id := range g.ancestors(b, 2) {
		if seen[id] {
			return true
		}
	}
	return false
}

func (g *Generator) ancestors(d *models.Dog, depth int) []string {
	if depth == 0 || d == nil {
		return nil
	}
	var out []string
	for _, id := range []*string{d.SireID, d.DamID} {
		if id == nil {
			continue
		}
		out = append(out, *id)
		out = append(out, g.ancestors(g.dogs[*id], depth-1)...)
	}
	return out
}

func (g *Generator) newDog(breed *models.Breed, spec BreedSpec, sex models.Sex, whelped time.Time, sireID, damID *string, coi float64) *models.Dog {
	names := DogNames
	if sex == models.SexFemale {
		names = BitchNames
	}
	name := fmt.Sprintf("%s %s", KennelAffixes[g.rng.Intn(len(KennelAffixes))], names[g.rng.Intn(len(names))])

	dob := whelped.Format(time.DateOnly)
	if g.rng.Float64() < g.cfg.MalformedRate {
		dob = MalformedDates[g.rng.Intn(len(MalformedDates))]
		g.stats.MalformedDates++
	}

	return &models.Dog{
		ID:                 g.nextID(),
		RegistrationNumber: g.regNumGen.Next(),
		Name:               name,
		BreedID:            breed.ID,
		BreedName:          breed.Name,
		Sex:                sex,
		DateOfBirth:        dob,
		Color:              spec.Colors[g.rng.Intn(len(spec.Colors))],
		SireID:             sireID,
		DamID:              damID,
		COI:                coi,
		IsChampion:         g.rng.Float64() < 0.15,
		HealthTested:       g.rng.Float64() < 0.7,
	}
}

func (g *Generator) insert(ctx context.Context, tx *sql.Tx, dog *models.Dog) error {
	if err := g.dogRepo.Create(ctx, tx, dog); err != nil {
		return fmt.Errorf("inserting %s: %w", dog.Name, err)
	}
	g.dogs[dog.ID] = dog
	g.stats.Dogs++
	return nil
}

func (g *Generator) whelpDate(year int) time.Time {
	return time.Date(year, time.Month(1+g.rng.Intn(12)), 1+g.rng.Intn(28), 0, 0, 0, 0, time.UTC)
}

func (g *Generator) nextID() string {
	g.idSeq++
	return util.DeterministicID(g.cfg.RandomSeed<<20 + g.idSeq)
}
