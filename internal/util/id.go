// Package util provides ID, registration number and display helpers.
package util

import (
	"encoding/binary"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// seedNamespace roots DeterministicID so generated registries are stable
// across runs.
var seedNamespace = uuid.MustParse("6f1c2d8e-4b7a-4e0f-9a35-2d9b1c7e5a10")

// NewID generates a new time-ordered UUIDv7 identifier, falling back to a
// random UUIDv4 if the clock source fails.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// DeterministicID derives a stable UUIDv5 from seed. Used by the seed
// generator and tests; never for user-entered dogs.
func DeterministicID(seed int64) string {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(seed))
	return uuid.NewSHA1(seedNamespace, b[:]).String()
}

// IsValidID checks if a string is a valid UUID format.
func IsValidID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// RegistrationNumberGenerator issues kennel registration numbers.
// Format: {prefix}-{6-digit sequence}
// Example: KW-000042
type RegistrationNumberGenerator struct {
	mu      sync.Mutex
	prefix  string
	lastSeq int
}

// NewRegistrationNumberGenerator creates a generator for the given kennel
// prefix.
func NewRegistrationNumberGenerator(prefix string) *RegistrationNumberGenerator {
	return &RegistrationNumberGenerator{prefix: strings.ToUpper(prefix)}
}

// SetLastSequence sets the last used sequence number.
// Call this after loading the highest existing number from the database.
func (r *RegistrationNumberGenerator) SetLastSequence(seq int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastSeq = seq
}

// Next generates the next registration number.
func (r *RegistrationNumberGenerator) Next() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastSeq++
	return fmt.Sprintf("%s-%06d", r.prefix, r.lastSeq)
}

// ParseRegistrationNumber splits a registration number into its prefix and
// sequence.
func ParseRegistrationNumber(regNum string) (prefix string, sequence int, err error) {
	i := strings.LastIndexByte(regNum, '-')
	if i <= 0 || i == len(regNum)-1 {
		return "", 0, fmt.Errorf("invalid registration number %q", regNum)
	}
	if _, err := fmt.Sscanf(regNum[i+1:], "%d", &sequence); err != nil {
		return "", 0, fmt.Errorf("invalid registration number %q: %w", regNum, err)
	}
	return regNum[:i], sequence, nil
}
