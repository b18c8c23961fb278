package library

import (
	"strings"

	cr "github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

// BookID identifies a book in the catalog. It wraps a trimmed, non-empty
// string; construction goes through NewBookID so a bare string can never be
// confused with a user identifier.
type BookID struct {
	value string
}

// NewBookID validates and wraps a raw identifier.
func NewBookID(raw string) (BookID, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return BookID{}, cr.Mark(cr.New("book id must not be empty"), ErrInvalidInput)
	}
	return BookID{value: trimmed}, nil
}

func (id BookID) String() string { return id.value }

func (id BookID) IsZero() bool { return id.value == "" }

// Equal makes BookID comparable for go-cmp as well as direct use.
func (id BookID) Equal(other BookID) bool { return id.value == other.value }

// UserID identifies a library user. It wraps a UUID and is never
// interchangeable with a BookID.
type UserID struct {
	value uuid.UUID
}

// NewUserID mints a fresh random identifier.
func NewUserID() UserID { return UserID{value: uuid.New()} }

// ParseUserID validates a textual identifier, e.g. one typed at the CLI.
func ParseUserID(raw string) (UserID, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return UserID{}, cr.Mark(cr.Wrap(err, "parse user id"), ErrInvalidInput)
	}
	return UserID{value: parsed}, nil
}

func (id UserID) String() string { return id.value.String() }

func (id UserID) IsZero() bool { return id.value == uuid.Nil }

func (id UserID) Equal(other UserID) bool { return id.value == other.value }
