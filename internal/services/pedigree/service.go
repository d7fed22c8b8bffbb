// Package pedigree provides registry-backed lineage analysis: COI, common
// ancestors and mating evaluation for dogs stored in the kennel database.
package pedigree

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kennelworks/pedigree/internal/config"
	"github.com/kennelworks/pedigree/internal/lineage"
	"github.com/kennelworks/pedigree/internal/models"
	"github.com/kennelworks/pedigree/internal/repository"
)

// Service provides pedigree analysis operations over the registry.
type Service struct {
	db       *sql.DB
	dogs     *repository.DogRepository
	breeds   *repository.BreedRepository
	analyzer *lineage.Analyzer
	cfg      config.AnalysisConfig
}

// NewService creates a new pedigree service.
func NewService(db *sql.DB, cfg config.AnalysisConfig) *Service {
	dogs := repository.NewDogRepository(db)
	return &Service{
		db:       db,
		dogs:     dogs,
		breeds:   repository.NewBreedRepository(db),
		analyzer: lineage.NewAnalyzer(NewRegistryFetcher(dogs), cfg.Policy()),
		cfg:      cfg,
	}
}

// DefaultGenerations returns the configured analysis depth.
func (s *Service) DefaultGenerations() int {
	return s.cfg.DefaultGenerations
}

// checkGenerations applies the configured ceiling on top of lineage's own
// range check.
func (s *Service) checkGenerations(generations int) error {
	if err := lineage.ValidateGenerations(generations); err != nil {
		return err
	}
	if s.cfg.MaxGenerations > 0 && generations > s.cfg.MaxGenerations {
		return fmt.Errorf("%w: %d (configured maximum %d)", lineage.ErrInvalidDepth, generations, s.cfg.MaxGenerations)
	}
	return nil
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if d := s.cfg.FetchTimeout(); d > 0 {
		return context.WithTimeout(ctx, d)
	}
	return context.WithCancel(ctx)
}

// Analyze computes the COI and common ancestors of a registered dog.
func (s *Service) Analyze(ctx context.Context, dogID string, generations int) (*lineage.Analysis, error) {
	if err := s.checkGenerations(generations); err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	analysis, err := s.analyzer.Analyze(ctx, dogID, generations)
	if err != nil {
		slog.Warn("pedigree analysis failed", "dog", dogID, "generations", generations, "error", err)
		return nil, err
	}

	for _, w := range analysis.Warnings {
		slog.Debug("birth date defaulted", "dog", w.DogID, "raw", w.Raw)
	}
	slog.Debug("pedigree analyzed",
		"dog", dogID,
		"generations", generations,
		"ancestors", analysis.Ancestors,
		"coi", analysis.COI,
		"elapsed", time.Since(start))

	return analysis, nil
}

// CalculateCoefficientOfInbreeding returns the COI of a registered dog. On a
// fetch failure it returns 0 and a *lineage.FetchError.
func (s *Service) CalculateCoefficientOfInbreeding(ctx context.Context, dogID string, generations int) (float64, error) {
	if err := s.checkGenerations(generations); err != nil {
		return 0, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	coi, err := s.analyzer.CalculateCoefficientOfInbreeding(ctx, dogID, generations)
	if err != nil {
		slog.Warn("coi calculation failed", "dog", dogID, "error", err)
		return 0, err
	}
	return coi, nil
}

// FindCommonAncestors returns the common ancestors of a registered dog,
// highest contribution first.
func (s *Service) FindCommonAncestors(ctx context.Context, dogID string, generations int) ([]lineage.CommonAncestor, error) {
	if err := s.checkGenerations(generations); err != nil {
		return []lineage.CommonAncestor{}, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	return s.analyzer.FindCommonAncestors(ctx, dogID, generations)
}

// CalculateBreedingCompatibility evaluates a prospective mating. The report
// is always non-nil; failures are reported in it.
func (s *Service) CalculateBreedingCompatibility(ctx context.Context, sireID, damID string, generations int) *lineage.CompatibilityReport {
	if err := s.checkGenerations(generations); err != nil {
		return lineage.FailedReport(sireID, damID, generations, err)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	report := s.analyzer.CalculateBreedingCompatibility(ctx, sireID, damID, generations)
	if report.Failed() {
		slog.Warn("mating evaluation failed", "sire", sireID, "dam", damID, "error", report.Err)
	} else {
		slog.Info("mating evaluated",
			"sire", sireID,
			"dam", damID,
			"coi", report.BreedingCOI,
			"risk", report.RiskLevel,
			"score", report.CompatibilityScore)
	}
	return report
}

// RiskLevel categorizes a COI with the configured thresholds.
func (s *Service) RiskLevel(coi float64) lineage.RiskLevel {
	return s.analyzer.Policy().Thresholds.Assess(coi)
}

// RecomputeStoredCOI computes a dog's COI and stores it so that it feeds the
// (1+Fa) term when the dog appears as a common ancestor.
func (s *Service) RecomputeStoredCOI(ctx context.Context, dogID string, generations int) (float64, error) {
	coi, err := s.CalculateCoefficientOfInbreeding(ctx, dogID, generations)
	if err != nil {
		return 0, err
	}
	if err := s.dogs.UpdateCOI(ctx, nil, dogID, coi); err != nil {
		return 0, fmt.Errorf("storing coi: %w", err)
	}
	return coi, nil
}

// RecomputeAll refreshes the stored COI of every dog, ancestors before their
// descendants so that each (1+Fa) term is already current. It returns the
// number of dogs updated; dogs whose pedigree cannot be read are logged and
// skipped.
func (s *Service) RecomputeAll(ctx context.Context, generations int) (int, error) {
	links, err := s.dogs.ListParentage(ctx)
	if err != nil {
		return 0, err
	}
	ids := ancestorsFirst(links)

	updated := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return updated, err
		}
		if _, err := s.RecomputeStoredCOI(ctx, id, generations); err != nil {
			if errors.Is(err, lineage.ErrInvalidDepth) {
				return updated, err
			}
			continue
		}
		updated++
	}

	slog.Info("stored coefficients recomputed", "dogs", updated, "total", len(ids))
	return updated, nil
}

// ancestorsFirst orders dog IDs so that every registered parent precedes its
// offspring. Ties keep the input order. A parent link that closes a cycle is
// ignored; the analysis of such a dog fails on its own.
func ancestorsFirst(links []models.Parentage) []string {
	byID := make(map[string]models.Parentage, len(links))
	for _, l := range links {
		byID[l.ID] = l
	}

	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(links))
	order := make([]string, 0, len(links))

	var visit func(id string)
	visit = func(id string) {
		l, ok := byID[id]
		if !ok || state[id] != unvisited {
			return
		}
		state[id] = visiting
		visit(l.SireID)
		visit(l.DamID)
		state[id] = done
		order = append(order, id)
	}

	for _, l := range links {
		visit(l.ID)
	}
	return order
}

// GetDog retrieves a dog by ID.
func (s *Service) GetDog(ctx context.Context, id string) (*models.Dog, error) {
	return s.dogs.GetByID(ctx, id)
}

// ResolveDog finds a dog by ID or, failing that, by registration number.
func (s *Service) ResolveDog(ctx context.Context, ref string) (*models.Dog, error) {
	dog, err := s.dogs.GetByID(ctx, ref)
	if errors.Is(err, repository.ErrNotFound) {
		dog, err = s.dogs.GetByRegistration(ctx, ref)
	}
	if err != nil {
		return nil, fmt.Errorf("resolving %q: %w", ref, err)
	}
	return dog, nil
}

// ListDogs retrieves dogs with filtering and pagination.
func (s *Service) ListDogs(ctx context.Context, filter models.DogFilter, page models.Pagination) (*models.DogList, error) {
	return s.dogs.List(ctx, filter, page)
}

// GetOffspring retrieves every registered offspring of a dog.
func (s *Service) GetOffspring(ctx context.Context, dogID string) ([]*models.Dog, error) {
	return s.dogs.GetChildren(ctx, dogID)
}

// ListBreeds returns every registered breed.
func (s *Service) ListBreeds(ctx context.Context) ([]*models.Breed, error) {
	return s.breeds.List(ctx)
}
