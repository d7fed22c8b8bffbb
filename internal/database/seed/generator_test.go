package seed

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/kennelworks/pedigree/internal/config"
	"github.com/kennelworks/pedigree/internal/lineage"
	"github.com/kennelworks/pedigree/internal/models"
	"github.com/kennelworks/pedigree/internal/services/pedigree"
	"github.com/kennelworks/pedigree/internal/testutil"
)

func seededDB(t *testing.T, cfg Config) (*testutil.TestDB, *Stats) {
	t.Helper()

	db := testutil.NewMigratedTestDB(t, filepath.Join("..", "migrations"))
	stats, err := NewGenerator(db.DB, cfg).Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	return db, stats
}

func TestGenerator_Generate(t *testing.T) {
	ctx := context.Background()
	cfg := DefaultConfig("KW")
	db, stats := seededDB(t, cfg)

	if stats.Breeds != len(Breeds) {
		t.Errorf("Breeds = %d, want %d", stats.Breeds, len(Breeds))
	}
	db.AssertRowCount(t, "breeds", len(Breeds))
	db.AssertRowCount(t, "dogs", stats.Dogs)

	if stats.Litters == 0 || stats.LineBredLitters == 0 {
		t.Errorf("expected line-bred litters, got %+v", stats)
	}
	if stats.MaxCOI <= 0 || stats.MaxCOI > 1 {
		t.Errorf("MaxCOI = %v, want in (0, 1]", stats.MaxCOI)
	}

	has, err := HasData(ctx, db.DB)
	if err != nil || !has {
		t.Errorf("HasData() = %v, %v; want true", has, err)
	}
}

func TestGenerator_Deterministic(t *testing.T) {
	cfg := DefaultConfig("KW")
	a, statsA := seededDB(t, cfg)
	b, statsB := seededDB(t, cfg)

	if *statsA != *statsB {
		t.Fatalf("stats differ: %+v vs %+v", statsA, statsB)
	}

	query := `SELECT registration_number, name, COALESCE(date_of_birth, ''), coi FROM dogs ORDER BY registration_number`
	rowsA, err := a.Query(query)
	if err != nil {
		t.Fatal(err)
	}
	var first []string
	for rowsA.Next() {
		var reg, name, dob string
		var coi float64
		if err := rowsA.Scan(&reg, &name, &dob, &coi); err != nil {
			t.Fatal(err)
		}
		first = append(first, reg+name+dob)
	}
	rowsA.Close()

	rowsB, err := b.Query(query)
	if err != nil {
		t.Fatal(err)
	}
	defer rowsB.Close()
	i := 0
	for rowsB.Next() {
		var reg, name, dob string
		var coi float64
		if err := rowsB.Scan(&reg, &name, &dob, &coi); err != nil {
			t.Fatal(err)
		}
		if i >= len(first) || first[i] != reg+name+dob {
			t.Fatalf("row %d differs between runs", i)
		}
		i++
	}
	if i != len(first) {
		t.Errorf("row counts differ: %d vs %d", len(first), i)
	}
}

func TestGenerator_StoredCOIMatchesAnalysis(t *testing.T) {
	ctx := context.Background()
	cfg := DefaultConfig("KW")
	db, _ := seededDB(t, cfg)

	svc := pedigree.NewService(db.DB, config.Default().Analysis)
	list, err := svc.ListDogs(ctx, models.DogFilter{}, models.Pagination{Page: 1, PageSize: 100})
	if err != nil {
		t.Fatal(err)
	}

	checked := 0
	for _, dog := range list.Dogs {
		if dog.SireID == nil || dog.DamID == nil {
			continue
		}
		// A litter's COI covers the parents' pedigrees to the seed depth, so
		// the offspring is analyzed one generation deeper.
		got, err := svc.CalculateCoefficientOfInbreeding(ctx, dog.ID, cfg.AnalysisGenerations+1)
		if err != nil {
			t.Fatalf("analysis of %s failed: %v", dog.Name, err)
		}
		if got != dog.COI {
			t.Errorf("%s: stored COI %v, analysis %v", dog.RegistrationNumber, dog.COI, got)
		}
		checked++
	}
	if checked == 0 {
		t.Error("no bred dogs were checked")
	}
}

func TestGenerator_MalformedDates(t *testing.T) {
	cfg := DefaultConfig("KW")
	cfg.MalformedRate = 1
	cfg.Generations = 1
	db, stats := seededDB(t, cfg)

	if stats.MalformedDates != stats.Dogs {
		t.Errorf("MalformedDates = %d, want every dog (%d)", stats.MalformedDates, stats.Dogs)
	}

	var raw string
	if err := db.QueryRow(`SELECT COALESCE(date_of_birth, '') FROM dogs LIMIT 1`).Scan(&raw); err != nil {
		t.Fatal(err)
	}
	if bd, _ := lineage.ParseBirthDate(raw); !bd.Defaulted {
		t.Errorf("date %q parsed; want a defaulted date", raw)
	}
}

func TestGenerator_RejectsBadDepth(t *testing.T) {
	cfg := DefaultConfig("KW")
	cfg.AnalysisGenerations = 9

	db := testutil.NewMigratedTestDB(t, filepath.Join("..", "migrations"))
	if _, err := NewGenerator(db.DB, cfg).Generate(context.Background()); err == nil {
		t.Error("Generate() accepted an out-of-range analysis depth")
	}
	db.AssertRowCount(t, "dogs", 0)
}
