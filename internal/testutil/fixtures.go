package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kennelworks/pedigree/internal/models"
)

// FixtureBreed creates a test breed with sensible defaults.
func FixtureBreed(overrides ...func(*models.Breed)) *models.Breed {
	id := uuid.New().String()

	breed := &models.Breed{
		ID:        id,
		Name:      "Test Breed " + id[:8],
		Group:     models.BreedGroupHerding,
		CreatedAt: time.Now().UTC(),
	}

	for _, override := range overrides {
		override(breed)
	}

	return breed
}

// FixtureDog creates a test dog of the given breed with sensible defaults.
func FixtureDog(breedID string, overrides ...func(*models.Dog)) *models.Dog {
	id := uuid.New().String()
	now := time.Now().UTC()

	dog := &models.Dog{
		ID:                 id,
		RegistrationNumber: "KW-" + id[:8],
		Name:               "Test Dog " + id[:4],
		BreedID:            breedID,
		Sex:                models.SexMale,
		DateOfBirth:        now.AddDate(-3, 0, 0).Format(time.DateOnly),
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	for _, override := range overrides {
		override(dog)
	}

	return dog
}

// FixtureBitch creates a female test dog.
func FixtureBitch(breedID string, overrides ...func(*models.Dog)) *models.Dog {
	return FixtureDog(breedID, append([]func(*models.Dog){
		func(d *models.Dog) { d.Sex = models.SexFemale },
	}, overrides...)...)
}

// FixturePuppy creates a dog with the given sire and dam. Either may be
// empty for an unknown parent.
func FixturePuppy(breedID, sireID, damID string, overrides ...func(*models.Dog)) *models.Dog {
	return FixtureDog(breedID, append([]func(*models.Dog){
		func(d *models.Dog) {
			if sireID != "" {
				d.SireID = &sireID
			}
			if damID != "" {
				d.DamID = &damID
			}
			d.DateOfBirth = time.Now().UTC().AddDate(0, -6, 0).Format(time.DateOnly)
		},
	}, overrides...)...)
}

// InsertBreed writes a breed row directly, bypassing the repositories.
func (tdb *TestDB) InsertBreed(t *testing.T, b *models.Breed) {
	t.Helper()
	tdb.ExecSQL(t, `INSERT INTO breeds (id, name, breed_group, created_at) VALUES (?, ?, ?, ?)`,
		b.ID, b.Name, string(b.Group), b.CreatedAt.Format(time.RFC3339))
}

// InsertDogs writes dog rows directly in one transaction. Parents must come
// before their offspring.
func (tdb *TestDB) InsertDogs(t *testing.T, dogs ...*models.Dog) {
	t.Helper()

	ctx := context.Background()
	tx, err := tdb.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	for _, d := range dogs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO dogs (id, registration_number, name, breed_id, sex, date_of_birth,
				sire_id, dam_id, coi, is_champion, health_tested, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			d.ID, d.RegistrationNumber, d.Name, d.BreedID, string(d.Sex), d.DateOfBirth,
			nullable(d.SireID), nullable(d.DamID), d.COI, d.IsChampion, d.HealthTested,
			d.CreatedAt.Format(time.RFC3339), d.UpdatedAt.Format(time.RFC3339))
		if err != nil {
			t.Fatalf("failed to insert dog %s: %v", d.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		t.Fatalf("failed to commit dogs: %v", err)
	}
}

func nullable(id *string) sql.NullString {
	if id == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *id, Valid: true}
}
