package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/kennelworks/pedigree/internal/models"
)

// BreedRepository handles breed data access.
type BreedRepository struct {
	db *sql.DB
}

// NewBreedRepository creates a new breed repository.
func NewBreedRepository(db *sql.DB) *BreedRepository {
	return &BreedRepository{db: db}
}

// Create inserts a new breed.
func (r *BreedRepository) Create(ctx context.Context, tx *sql.Tx, breed *models.Breed) error {
	if err := breed.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	breed.CreatedAt = time.Now().UTC()

	_, err := pick(r.db, tx).ExecContext(ctx,
		`INSERT INTO breeds (id, name, breed_group, created_at) VALUES (?, ?, ?, ?)`,
		breed.ID, breed.Name, string(breed.Group), breed.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting breed: %w", err)
	}

	return nil
}

// GetByID retrieves a breed by ID.
func (r *BreedRepository) GetByID(ctx context.Context, id string) (*models.Breed, error) {
	return scanBreed(r.db.QueryRowContext(ctx,
		`SELECT id, name, breed_group, created_at FROM breeds WHERE id = ?`, id))
}

// GetByName retrieves a breed by name, ignoring case.
func (r *BreedRepository) GetByName(ctx context.Context, name string) (*models.Breed, error) {
	return scanBreed(r.db.QueryRowContext(ctx,
		`SELECT id, name, breed_group, created_at FROM breeds WHERE name = ?`, name))
}

// List returns every breed ordered by name.
func (r *BreedRepository) List(ctx context.Context) ([]*models.Breed, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, breed_group, created_at FROM breeds ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying breeds: %w", err)
	}
	defer rows.Close()

	var breeds []*models.Breed
	for rows.Next() {
		breed, err := scanBreed(rows)
		if err != nil {
			return nil, err
		}
		breeds = append(breeds, breed)
	}

	return breeds, rows.Err()
}

func scanBreed(row scanner) (*models.Breed, error) {
	var breed models.Breed
	var createdStr string

	err := row.Scan(&breed.ID, &breed.Name, &breed.Group, &createdStr)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("breed: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning breed: %w", err)
	}

	breed.CreatedAt, _ = time.Parse(time.RFC3339, createdStr)
	return &breed, nil
}
