package authenticator

import (
	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used when none is configured.
const DefaultCost = 10

// MaxPasswordBytes is the longest password bcrypt will hash.
const MaxPasswordBytes = 72

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string, cost int) ([]byte, error) {
	if cost == 0 {
		cost = DefaultCost
	}
	return bcrypt.GenerateFromPassword([]byte(password), cost)
}

// ComparePassword reports whether password matches hash. A malformed hash is
// treated as a mismatch.
func ComparePassword(hash []byte, password string) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}
