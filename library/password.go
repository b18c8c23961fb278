package library

import (
	"strings"

	cr "github.com/cockroachdb/errors"
	"golang.org/x/crypto/bcrypt"
)

// HashPassword produces a bcrypt hash suitable for storing on a user record.
func HashPassword(plain string) (string, error) {
	if strings.TrimSpace(plain) == "" {
		return "", cr.Mark(cr.New("password must not be empty"), ErrInvalidInput)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", cr.Wrap(err, "hash password")
	}
	return string(hash), nil
}

// CheckPassword verifies a plain password against a stored hash.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
