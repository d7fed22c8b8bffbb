package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kennelworks/pedigree/internal/models"
)

const dogColumns = `
	d.id, d.registration_number, d.name, d.breed_id, COALESCE(b.name, ''),
	d.sex, d.date_of_birth, d.color, d.sire_id, d.dam_id, d.coi,
	d.is_champion, d.health_tested, d.notes, d.created_at, d.updated_at`

const dogFrom = `FROM dogs d LEFT JOIN breeds b ON b.id = d.breed_id`

// DogRepository handles dog data access.
type DogRepository struct {
	db *sql.DB
}

// NewDogRepository creates a new dog repository.
func NewDogRepository(db *sql.DB) *DogRepository {
	return &DogRepository{db: db}
}

// Create inserts a new dog into the registry.
func (r *DogRepository) Create(ctx context.Context, tx *sql.Tx, dog *models.Dog) error {
	if err := dog.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO dogs (
			id, registration_number, name, breed_id, sex, date_of_birth, color,
			sire_id, dam_id, coi, is_champion, health_tested, notes,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	now := time.Now().UTC()
	dog.CreatedAt = now
	dog.UpdatedAt = now

	_, err := pick(r.db, tx).ExecContext(ctx, query,
		dog.ID,
		dog.RegistrationNumber,
		dog.Name,
		dog.BreedID,
		string(dog.Sex),
		nullableString(dog.DateOfBirth),
		nullableString(dog.Color),
		nullableID(dog.SireID),
		nullableID(dog.DamID),
		dog.COI,
		boolInt(dog.IsChampion),
		boolInt(dog.HealthTested),
		nullableString(dog.Notes),
		dog.CreatedAt.Format(time.RFC3339),
		dog.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting dog: %w", err)
	}

	return nil
}

// GetByID retrieves a dog by ID. A missing dog yields ErrNotFound.
func (r *DogRepository) GetByID(ctx context.Context, id string) (*models.Dog, error) {
	query := `SELECT ` + dogColumns + ` ` + dogFrom + ` WHERE d.id = ?`
	return scanDog(r.db.QueryRowContext(ctx, query, id))
}

// GetByRegistration retrieves a dog by its registration number.
func (r *DogRepository) GetByRegistration(ctx context.Context, regNum string) (*models.Dog, error) {
	query := `SELECT ` + dogColumns + ` ` + dogFrom + ` WHERE d.registration_number = ?`
	return scanDog(r.db.QueryRowContext(ctx, query, regNum))
}

// Update modifies an existing dog.
func (r *DogRepository) Update(ctx context.Context, tx *sql.Tx, dog *models.Dog) error {
	if err := dog.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		UPDATE dogs SET
			registration_number = ?, name = ?, breed_id = ?, sex = ?,
			date_of_birth = ?, color = ?, sire_id = ?, dam_id = ?, coi = ?,
			is_champion = ?, health_tested = ?, notes = ?, updated_at = ?
		WHERE id = ?`

	dog.UpdatedAt = time.Now().UTC()

	result, err := pick(r.db, tx).ExecContext(ctx, query,
		dog.RegistrationNumber,
		dog.Name,
		dog.BreedID,
		string(dog.Sex),
		nullableString(dog.DateOfBirth),
		nullableString(dog.Color),
		nullableID(dog.SireID),
		nullableID(dog.DamID),
		dog.COI,
		boolInt(dog.IsChampion),
		boolInt(dog.HealthTested),
		nullableString(dog.Notes),
		dog.UpdatedAt.Format(time.RFC3339),
		dog.ID,
	)
	if err != nil {
		return fmt.Errorf("updating dog: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("dog %s: %w", dog.ID, ErrNotFound)
	}

	return nil
}

// UpdateCOI stores a recomputed coefficient of inbreeding.
func (r *DogRepository) UpdateCOI(ctx context.Context, tx *sql.Tx, id string, coi float64) error {
	if coi < 0 || coi > 1 {
		return fmt.Errorf("coi %v out of range [0,1]", coi)
	}

	result, err := pick(r.db, tx).ExecContext(ctx,
		`UPDATE dogs SET coi = ?, updated_at = ? WHERE id = ?`,
		coi, time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("updating coi: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("dog %s: %w", id, ErrNotFound)
	}

	return nil
}

// List retrieves dogs with filtering and pagination.
func (r *DogRepository) List(ctx context.Context, filter models.DogFilter, page models.Pagination) (*models.DogList, error) {
	var conditions []string
	var args []any

	if filter.BreedID != nil {
		conditions = append(conditions, "d.breed_id = ?")
		args = append(args, *filter.BreedID)
	}
	if filter.Sex != nil {
		conditions = append(conditions, "d.sex = ?")
		args = append(args, string(*filter.Sex))
	}
	if filter.ChampionOnly {
		conditions = append(conditions, "d.is_champion = 1")
	}
	if filter.SearchTerm != "" {
		conditions = append(conditions, "(d.name LIKE ? OR d.registration_number LIKE ?)")
		searchPattern := "%" + filter.SearchTerm + "%"
		args = append(args, searchPattern, searchPattern)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	// Count total
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM dogs d %s", whereClause)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("counting dogs: %w", err)
	}

	// Get page
	query := fmt.Sprintf(`SELECT %s %s %s ORDER BY d.name, d.registration_number LIMIT ? OFFSET ?`,
		dogColumns, dogFrom, whereClause)

	args = append(args, page.Limit(), page.Offset())
	dogs, err := r.queryDogs(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	return &models.DogList{
		Dogs:       dogs,
		Total:      total,
		Page:       page.Page,
		PageSize:   page.Limit(),
		TotalPages: page.TotalPages(total),
	}, nil
}

// GetChildren retrieves every dog that lists parentID as sire or dam.
func (r *DogRepository) GetChildren(ctx context.Context, parentID string) ([]*models.Dog, error) {
	query := `SELECT ` + dogColumns + ` ` + dogFrom + `
		WHERE d.sire_id = ? OR d.dam_id = ?
		ORDER BY d.date_of_birth, d.name`

	return r.queryDogs(ctx, query, parentID, parentID)
}

// ListParentage returns the parent links of every registered dog ordered by
// registration number.
func (r *DogRepository) ListParentage(ctx context.Context) ([]models.Parentage, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, COALESCE(sire_id, ''), COALESCE(dam_id, '')
		FROM dogs ORDER BY registration_number`)
	if err != nil {
		return nil, fmt.Errorf("querying parentage: %w", err)
	}
	defer rows.Close()

	var links []models.Parentage
	for rows.Next() {
		var p models.Parentage
		if err := rows.Scan(&p.ID, &p.SireID, &p.DamID); err != nil {
			return nil, fmt.Errorf("scanning parentage: %w", err)
		}
		links = append(links, p)
	}

	return links, rows.Err()
}

// Delete removes a dog. Offspring keep their record with the parent link
// cleared.
func (r *DogRepository) Delete(ctx context.Context, tx *sql.Tx, id string) error {
	result, err := pick(r.db, tx).ExecContext(ctx, `DELETE FROM dogs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting dog: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("dog %s: %w", id, ErrNotFound)
	}

	return nil
}

func (r *DogRepository) queryDogs(ctx context.Context, query string, args ...any) ([]*models.Dog, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying dogs: %w", err)
	}
	defer rows.Close()

	var dogs []*models.Dog
	for rows.Next() {
		dog, err := scanDog(rows)
		if err != nil {
			return nil, err
		}
		dogs = append(dogs, dog)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating dogs: %w", err)
	}

	return dogs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scanDog reads one row selected with dogColumns.
func scanDog(row scanner) (*models.Dog, error) {
	var dog models.Dog
	var dob, color, sireID, damID, notes sql.NullString
	var createdStr, updatedStr string
	var champion, tested int

	err := row.Scan(
		&dog.ID,
		&dog.RegistrationNumber,
		&dog.Name,
		&dog.BreedID,
		&dog.BreedName,
		&dog.Sex,
		&dob,
		&color,
		&sireID,
		&damID,
		&dog.COI,
		&champion,
		&tested,
		&notes,
		&createdStr,
		&updatedStr,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("dog: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning dog: %w", err)
	}

	dog.DateOfBirth = dob.String
	dog.Color = color.String
	dog.Notes = notes.String
	dog.IsChampion = champion != 0
	dog.HealthTested = tested != 0
	if sireID.Valid {
		dog.SireID = &sireID.String
	}
	if damID.Valid {
		dog.DamID = &damID.String
	}
	dog.CreatedAt, _ = time.Parse(time.RFC3339, createdStr)
	dog.UpdatedAt, _ = time.Parse(time.RFC3339, updatedStr)

	return &dog, nil
}
