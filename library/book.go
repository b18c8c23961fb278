package library

import (
	"strings"

	cr "github.com/cockroachdb/errors"
)

// Book describes one title in the catalog. Available is the single source of
// truth for "can be loaned right now"; LoanBook and ReturnBook keep it in
// step with the transaction log rather than recomputing it on every read.
type Book struct {
	ID        BookID
	Title     string
	Authors   []string
	Year      int
	Genre     string
	Available bool
}

// NewBook validates the metadata and returns a book that is available for
// loan.
func NewBook(id BookID, title string, authors []string, year int, genre string) (Book, error) {
	if id.IsZero() {
		return Book{}, cr.Mark(cr.New("book id must not be empty"), ErrInvalidInput)
	}
	if strings.TrimSpace(title) == "" {
		return Book{}, cr.Mark(cr.New("book title must not be empty"), ErrInvalidInput)
	}
	cleaned := make([]string, 0, len(authors))
	for _, a := range authors {
		if trimmed := strings.TrimSpace(a); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	if len(cleaned) == 0 {
		return Book{}, cr.Mark(cr.New("book needs at least one author"), ErrInvalidInput)
	}
	return Book{
		ID:        id,
		Title:     strings.TrimSpace(title),
		Authors:   cleaned,
		Year:      year,
		Genre:     strings.TrimSpace(genre),
		Available: true,
	}, nil
}
