package models

import (
	"errors"
	"strings"
	"time"
)

// BreedGroup is the show-ring group a breed belongs to.
type BreedGroup string

const (
	BreedGroupHerding  BreedGroup = "HERDING"
	BreedGroupSporting BreedGroup = "SPORTING"
	BreedGroupHound    BreedGroup = "HOUND"
	BreedGroupWorking  BreedGroup = "WORKING"
	BreedGroupTerrier  BreedGroup = "TERRIER"
	BreedGroupToy      BreedGroup = "TOY"
	BreedGroupOther    BreedGroup = "OTHER"
)

// Valid returns true if the group is a known value.
func (g BreedGroup) Valid() bool {
	switch g {
	case BreedGroupHerding, BreedGroupSporting, BreedGroupHound, BreedGroupWorking,
		BreedGroupTerrier, BreedGroupToy, BreedGroupOther:
		return true
	default:
		return false
	}
}

// Breed is a recognized breed in the registry.
type Breed struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Group     BreedGroup `json:"group"`
	CreatedAt time.Time  `json:"created_at"`
}

// Validate checks if the breed data is valid.
func (b *Breed) Validate() error {
	var errs []error

	if b.ID == "" {
		errs = append(errs, errors.New("id is required"))
	}
	if strings.TrimSpace(b.Name) == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if !b.Group.Valid() {
		errs = append(errs, errors.New("invalid group: "+string(b.Group)))
	}

	return errors.Join(errs...)
}
