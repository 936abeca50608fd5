package utils

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultPasswordCost is the bcrypt work factor for every stored password.
const DefaultPasswordCost = 12

// Credentialed is a record carrying a password hash that may have been
// replaced by a new plaintext since it was loaded.
type Credentialed interface {
	PendingPassword() (string, bool)
	SetPasswordHash(hash string)
	PasswordHash() string
}

// PasswordHasher is the credential store: repositories call Seal before every
// write and the identity resolver calls Verify on login.
type PasswordHasher struct {
	cost int
}

func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultPasswordCost
	}
	return &PasswordHasher{cost: cost}
}

// Seal hashes a modified password in place. Records whose password was not
// modified keep their stored hash, so re-saving never double-hashes.
func (h *PasswordHasher) Seal(c Credentialed) error {
	plain, modified := c.PendingPassword()
	if !modified {
		return nil
	}
	hash, err := h.Hash(plain)
	if err != nil {
		return err
	}
	c.SetPasswordHash(hash)
	return nil
}

// Hash hashes a password with a fresh salt.
func (h *PasswordHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(bytes), nil
}

// Verify checks a candidate against the stored hash of c.
func (h *PasswordHasher) Verify(c Credentialed, candidate string) bool {
	return CheckPasswordHash(candidate, c.PasswordHash())
}

// CheckPasswordHash compares a plain password with its hashed version.
// Any comparison error, including a malformed hash, counts as a mismatch.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
