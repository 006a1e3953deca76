package services

import (
	"errors"
	"fmt"

	"membergate/constants"

	"golang.org/x/crypto/bcrypt"
)

var ErrMissingHash = errors.New("stored secret hash is empty")

// Hasher hashes PINs one way and verifies them later.
type Hasher interface {
	Hash(secret string) (string, error)
	// Verify reports false on mismatch. An error means the stored hash
	// itself is unusable.
	Verify(secret, hash string) (bool, error)
}

type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher with a fixed work factor. Out of range
// costs fall back to constants.DefaultHashCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = constants.DefaultHashCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(secret string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash secret: %w", err)
	}
	return string(hashed), nil
}

func (h *BcryptHasher) Verify(secret, hash string) (bool, error) {
	if hash == "" {
		return false, ErrMissingHash
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("compare secret: %w", err)
	}
}
