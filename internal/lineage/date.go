package lineage

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// UnknownBirthDate stands in for a missing or unparseable date of birth.
var UnknownBirthDate = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

// birthDateLayouts are the formats seen in imported registry data, tried in order.
var birthDateLayouts = []string{
	time.DateOnly,
	time.RFC3339,
	"2006/01/02",
	"02.01.2006",
	"January 2, 2006",
}

// ParseBirthDate parses a registry date of birth. It always returns a usable
// BirthDate; when the input cannot be read the result is Defaulted and the
// error says why.
func ParseBirthDate(raw string) (BirthDate, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return BirthDate{Time: UnknownBirthDate, Raw: raw, Defaulted: true}, errors.New("date of birth is empty")
	}

	for _, layout := range birthDateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return BirthDate{Time: t.UTC(), Raw: raw}, nil
		}
	}

	return BirthDate{Time: UnknownBirthDate, Raw: raw, Defaulted: true},
		fmt.Errorf("unrecognized date format: %q", trimmed)
}
