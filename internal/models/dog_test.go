package models

import (
	"strings"
	"testing"
	"time"

	"github.com/kennelworks/pedigree/internal/lineage"
)

func strPtr(s string) *string { return &s }

func validDog() *Dog {
	return &Dog{
		ID:                 "dog-1",
		RegistrationNumber: "KW-000001",
		Name:               "Hollow Creek Tamsin",
		BreedID:            "breed-1",
		Sex:                SexFemale,
		DateOfBirth:        "2019-04-12",
	}
}

func TestSex_Valid(t *testing.T) {
	tests := []struct {
		name string
		sex  Sex
		want bool
	}{
		{"Male is valid", SexMale, true},
		{"Female is valid", SexFemale, true},
		{"Empty string is invalid", Sex(""), false},
		{"Old single-letter code is invalid", Sex("M"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sex.Valid(); got != tt.want {
				t.Errorf("Sex.Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSex_String(t *testing.T) {
	tests := []struct {
		sex  Sex
		want string
	}{
		{SexMale, "Dog"},
		{SexFemale, "Bitch"},
		{Sex("x"), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.sex.String(); got != tt.want {
				t.Errorf("Sex.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDog_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(d *Dog)
		wantErr string
	}{
		{"valid dog", func(d *Dog) {}, ""},
		{"valid with parents", func(d *Dog) { d.SireID = strPtr("s"); d.DamID = strPtr("d") }, ""},
		{"malformed birth date is accepted", func(d *Dog) { d.DateOfBirth = "spring 2019" }, ""},
		{"missing id", func(d *Dog) { d.ID = "" }, "id is required"},
		{"missing registration", func(d *Dog) { d.RegistrationNumber = "" }, "registration_number"},
		{"missing name", func(d *Dog) { d.Name = "" }, "name is required"},
		{"missing breed", func(d *Dog) { d.BreedID = "" }, "breed_id"},
		{"invalid sex", func(d *Dog) { d.Sex = "F" }, "invalid sex"},
		{"coi above one", func(d *Dog) { d.COI = 1.2 }, "coi"},
		{"own sire", func(d *Dog) { d.SireID = strPtr(d.ID) }, "own parent"},
		{"same sire and dam", func(d *Dog) { d.SireID = strPtr("x"); d.DamID = strPtr("x") }, "different dogs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDog()
			tt.modify(d)
			err := d.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestDog_BirthDateAndAge(t *testing.T) {
	asOf := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	d := validDog()
	if bd := d.BirthDate(); bd.Defaulted || bd.Time.Year() != 2019 {
		t.Errorf("BirthDate() = %+v, want parsed 2019", bd)
	}
	if got := d.AgeYears(asOf); got != 5 {
		t.Errorf("AgeYears() = %d, want 5", got)
	}

	d.DateOfBirth = "unknown"
	bd := d.BirthDate()
	if !bd.Defaulted || !bd.Time.Equal(lineage.UnknownBirthDate) {
		t.Errorf("BirthDate() = %+v, want defaulted sentinel", bd)
	}
	if got := d.AgeYears(asOf); got != -1 {
		t.Errorf("AgeYears() = %d, want -1", got)
	}
}

func TestBreed_Validate(t *testing.T) {
	good := &Breed{ID: "b1", Name: "Whippet", Group: BreedGroupHound}
	if err := good.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}

	bad := &Breed{ID: "b2", Name: " ", Group: "FLUFFY"}
	err := bad.Validate()
	if err == nil || !strings.Contains(err.Error(), "name is required") || !strings.Contains(err.Error(), "invalid group") {
		t.Errorf("Validate() = %v, want name and group errors", err)
	}
}

func TestPagination(t *testing.T) {
	tests := []struct {
		name       string
		p          Pagination
		total      int
		wantLimit  int
		wantOffset int
		wantPages  int
	}{
		{"defaults", DefaultPagination(), 60, 25, 0, 3},
		{"second page", Pagination{Page: 2, PageSize: 10}, 25, 10, 10, 3},
		{"zero page treated as first", Pagination{Page: 0, PageSize: 10}, 0, 10, 0, 1},
		{"oversized page clamped", Pagination{Page: 2, PageSize: 500}, 250, 100, 100, 3},
		{"unset size uses default", Pagination{Page: 3}, 51, 25, 50, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.Limit(); got != tt.wantLimit {
				t.Errorf("Limit() = %d, want %d", got, tt.wantLimit)
			}
			if got := tt.p.Offset(); got != tt.wantOffset {
				t.Errorf("Offset() = %d, want %d", got, tt.wantOffset)
			}
			if got := tt.p.TotalPages(tt.total); got != tt.wantPages {
				t.Errorf("TotalPages(%d) = %d, want %d", tt.total, got, tt.wantPages)
			}
		})
	}
}
