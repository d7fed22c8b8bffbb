package util

import (
	"fmt"
	"time"

	"github.com/kennelworks/pedigree/internal/lineage"
)

// UnknownDate is shown in place of a defaulted date of birth.
const UnknownDate = "unknown"

// FormatBirthDate renders a birth date with layout. Defaulted dates show the
// raw registry text when there is any, otherwise UnknownDate.
func FormatBirthDate(bd lineage.BirthDate, layout string) string {
	if !bd.Defaulted {
		return bd.Time.Format(layout)
	}
	if bd.Raw != "" {
		return fmt.Sprintf("%s (?)", bd.Raw)
	}
	return UnknownDate
}

// CalculateAge calculates age in whole years from date of birth.
func CalculateAge(dob time.Time, asOf time.Time) int {
	years := asOf.Year() - dob.Year()

	// Adjust if birthday hasn't occurred yet this year
	if asOf.YearDay() < dob.YearDay() {
		years--
	}

	return years
}

// FormatAge renders an age such as "3y" or "7m" for dogs under a year.
// Unknown dates render as "-".
func FormatAge(bd lineage.BirthDate, asOf time.Time) string {
	if bd.Defaulted || bd.Time.After(asOf) {
		return "-"
	}
	if years := CalculateAge(bd.Time, asOf); years > 0 {
		return fmt.Sprintf("%dy", years)
	}
	months := (asOf.Year()-bd.Time.Year())*12 + int(asOf.Month()-bd.Time.Month())
	if asOf.Day() < bd.Time.Day() {
		months--
	}
	if months < 0 {
		months = 0
	}
	return fmt.Sprintf("%dm", months)
}

// FormatPercent renders a coefficient in [0,1] as a percentage with two
// decimals.
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.2f%%", v*100)
}
