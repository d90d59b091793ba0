package codes

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	domainErrors "github.com/ordesk/ordesk/internal/domain/errors"
)

// Generate returns a uniform 4-digit handoff code. Pickup and delivery
// codes are generated independently; collisions across orders are
// acceptable given the short validity window.
func Generate() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", fmt.Errorf("generate handoff code: %w", err)
	}
	return fmt.Sprintf("%04d", n.Int64()), nil
}

// Verify compares an entered code against the stored one. An empty stored
// code is a data integrity failure (ErrMissingCode), distinct from a user
// mistyping (ErrWrongCode). Verification never mutates state.
func Verify(stored, entered string) error {
	stored = strings.TrimSpace(stored)
	if stored == "" {
		return domainErrors.ErrMissingCode
	}
	if stored != strings.TrimSpace(entered) {
		return domainErrors.ErrWrongCode
	}
	return nil
}
