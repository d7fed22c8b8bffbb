// Package models defines the registry models for the kennel.
package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/kennelworks/pedigree/internal/lineage"
)

// Sex represents the recorded sex of a dog.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// Valid returns true if the sex is a valid value.
func (s Sex) Valid() bool {
	return s == SexMale || s == SexFemale
}

// String returns the display string for the sex.
func (s Sex) String() string {
	switch s {
	case SexMale:
		return "Dog"
	case SexFemale:
		return "Bitch"
	default:
		return "Unknown"
	}
}

// Dog is one registered animal. DateOfBirth is kept exactly as imported
// because registry sources disagree on formats; use BirthDate to read it.
type Dog struct {
	// Identity
	ID                 string `json:"id"`
	RegistrationNumber string `json:"registration_number"`
	Name               string `json:"name"`

	// Description
	BreedID     string `json:"breed_id"`
	BreedName   string `json:"breed_name,omitempty"`
	Sex         Sex    `json:"sex"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
	Color       string `json:"color,omitempty"`

	// Lineage
	SireID *string `json:"sire_id,omitempty"`
	DamID  *string `json:"dam_id,omitempty"`
	COI    float64 `json:"coi"`

	// Flags
	IsChampion   bool `json:"is_champion"`
	HealthTested bool `json:"health_tested"`

	// Metadata
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BirthDate parses DateOfBirth. A missing or unreadable value resolves to
// lineage.UnknownBirthDate with Defaulted set.
func (d *Dog) BirthDate() lineage.BirthDate {
	bd, _ := lineage.ParseBirthDate(d.DateOfBirth)
	return bd
}

// AgeYears returns the dog's age in whole years as of the given date, or -1
// when the date of birth is unknown.
func (d *Dog) AgeYears(asOf time.Time) int {
	bd := d.BirthDate()
	if bd.Defaulted {
		return -1
	}
	years := asOf.Year() - bd.Time.Year()
	if asOf.YearDay() < bd.Time.YearDay() {
		years--
	}
	return years
}

// HasParent reports whether id is recorded as the dog's sire or dam.
func (d *Dog) HasParent(id string) bool {
	return (d.SireID != nil && *d.SireID == id) || (d.DamID != nil && *d.DamID == id)
}

// Validate checks if the dog data is valid.
func (d *Dog) Validate() error {
	var errs []error

	if d.ID == "" {
		errs = append(errs, errors.New("id is required"))
	}
	if d.RegistrationNumber == "" {
		errs = append(errs, errors.New("registration_number is required"))
	}
	if d.Name == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if d.BreedID == "" {
		errs = append(errs, errors.New("breed_id is required"))
	}
	if !d.Sex.Valid() {
		errs = append(errs, fmt.Errorf("invalid sex: %s", d.Sex))
	}
	if d.COI < 0 || d.COI > 1 {
		errs = append(errs, errors.New("coi must be between 0 and 1"))
	}
	if d.HasParent(d.ID) {
		errs = append(errs, errors.New("a dog cannot be its own parent"))
	}
	if d.SireID != nil && d.DamID != nil && *d.SireID == *d.DamID {
		errs = append(errs, errors.New("sire and dam must be different dogs"))
	}

	return errors.Join(errs...)
}

// DogFilter defines filtering options for dog queries.
type DogFilter struct {
	BreedID      *string
	Sex          *Sex
	ChampionOnly bool
	SearchTerm   string // Searches name and registration_number
}

// DogList represents a paginated list of dogs.
type DogList struct {
	Dogs       []*Dog
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// Parentage is a dog's ID with its parent links. Empty means unknown.
type Parentage struct {
	ID     string
	SireID string
	DamID  string
}
