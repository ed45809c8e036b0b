package security

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"go-conference-manager/internal/model"
)

const DefaultBcryptCost = 12

// PasswordHasher hashes and verifies user credentials with bcrypt.
type PasswordHasher struct {
	cost int
}

func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash returns a salted digest of secret. Two calls with the same secret
// produce different digests that both verify.
func (h *PasswordHasher) Hash(secret string) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("%w: password cannot be empty", model.ErrInvalidInput)
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	return string(digest), nil
}

// Verify reports whether secret produced digest. Malformed digests yield false.
func (h *PasswordHasher) Verify(secret string, digest string) bool {
	if digest == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(secret)) == nil
}
