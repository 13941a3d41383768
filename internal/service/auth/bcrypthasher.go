package auth

import (
	"crypto/sha256"

	"golang.org/x/crypto/bcrypt"
)

const DefaultWorkFactor = 12

var DefaultHasher = BcryptHasher{Cost: DefaultWorkFactor}

// Bcrypt password hasher
// Password is pre-hashed with sha256, so bcrypt 72 bytes limit never truncates it
type BcryptHasher struct {
	// Work factor; bcrypt.DefaultCost if zero
	Cost int
}

func (h BcryptHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	sum := sha256.Sum256([]byte(password))
	hash, err := bcrypt.GenerateFromPassword(sum[:], cost)
	return string(hash), err
}

func (h BcryptHasher) Compare(hashedPassword string, password string) error {
	sum := sha256.Sum256([]byte(password))
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), sum[:])
}
