package crypto

import (
	"crypto/rand"
	"fmt"
)

// RandomSalt returns 32 random bytes suitable for the store's scrypt salt.
func RandomSalt() ([]byte, error) {
	salt := make([]byte, 32)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	return salt, nil
}

// RandomKeyfile returns 32 random bytes for a new .keyfile.
func RandomKeyfile() ([]byte, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("generate keyfile: %w", err)
	}
	return b, nil
}
