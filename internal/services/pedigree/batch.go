package pedigree

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/kennelworks/pedigree/internal/lineage"
)

// Mating names a prospective sire and dam.
type Mating struct {
	SireID string
	DamID  string
}

// ScreenMatings evaluates many matings concurrently, at most
// batch_concurrency at a time. Reports are returned in input order and each
// failure is confined to its own report.
func (s *Service) ScreenMatings(ctx context.Context, matings []Mating, generations int) []*lineage.CompatibilityReport {
	reports := make([]*lineage.CompatibilityReport, len(matings))

	limit := s.cfg.BatchConcurrency
	if limit < 1 {
		limit = 1
	}

	var g errgroup.Group
	g.SetLimit(limit)
	for i, m := range matings {
		g.Go(func() error {
			reports[i] = s.CalculateBreedingCompatibility(ctx, m.SireID, m.DamID, generations)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, r := range reports {
		if r.Failed() {
			failed++
		}
	}
	slog.Info("matings screened", "count", len(matings), "failed", failed, "concurrency", limit)

	return reports
}
