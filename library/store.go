package library

import (
	"time"

	cr "github.com/cockroachdb/errors"
)

// Store persists the three catalog collections (books, users, transactions)
// and rebuilds a Catalog from them. Implementations must round-trip book
// identifiers, role tags and the exact shape of every transaction variant.
type Store interface {
	Load(clock Clock) (Catalog, error)
	Save(c Catalog) error
	Close() error
}

// ---------------------------------------------------------------------------
// Flat records shared by the snapshot and SQLite stores
// ---------------------------------------------------------------------------

type bookRecord struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Authors   []string `json:"authors"`
	Year      int      `json:"year"`
	Genre     string   `json:"genre"`
	Available bool     `json:"available"`
}

type userRecord struct {
	ID   string `json:"id"`
	Role string `json:"role"`
	Name string `json:"name"`
	// Detail is the role-specific field: major, department or employee number.
	Detail       string `json:"detail"`
	PasswordHash string `json:"password_hash"`
}

type transactionRecord struct {
	Kind      string     `json:"kind"`
	BookID    string     `json:"book_id"`
	UserID    string     `json:"user_id"`
	At        time.Time  `json:"at"`
	DueDate   *time.Time `json:"due_date,omitempty"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}

const (
	kindLoan        = "loan"
	kindReturn      = "return"
	kindReservation = "reservation"
)

func bookToRecord(b Book) bookRecord {
	return bookRecord{
		ID:        b.ID.String(),
		Title:     b.Title,
		Authors:   b.Authors,
		Year:      b.Year,
		Genre:     b.Genre,
		Available: b.Available,
	}
}

func bookFromRecord(r bookRecord) (Book, error) {
	id, err := NewBookID(r.ID)
	if err != nil {
		return Book{}, err
	}
	return Book{
		ID:        id,
		Title:     r.Title,
		Authors:   r.Authors,
		Year:      r.Year,
		Genre:     r.Genre,
		Available: r.Available,
	}, nil
}

func userToRecord(u User) userRecord {
	return userRecord{
		ID:           u.UserID().String(),
		Role:         u.Role().String(),
		Name:         u.UserName(),
		Detail:       RoleDetail(u),
		PasswordHash: u.PasswordHash(),
	}
}

func userFromRecord(r userRecord) (User, error) {
	id, err := ParseUserID(r.ID)
	if err != nil {
		return nil, err
	}
	role, err := ParseRole(r.Role)
	if err != nil {
		return nil, err
	}
	switch role {
	case RoleStudent:
		return Student{ID: id, Name: r.Name, Major: r.Detail, Password: r.PasswordHash}, nil
	case RoleFaculty:
		return Faculty{ID: id, Name: r.Name, Department: r.Detail, Password: r.PasswordHash}, nil
	default:
		return Librarian{ID: id, Name: r.Name, EmployeeNo: r.Detail, Password: r.PasswordHash}, nil
	}
}

func transactionToRecord(tx Transaction) transactionRecord {
	rec := transactionRecord{
		BookID: tx.BookID().String(),
		UserID: tx.UserID().String(),
		At:     tx.Timestamp(),
	}
	switch t := tx.(type) {
	case Loan:
		rec.Kind = kindLoan
		rec.DueDate = t.DueDate
	case Return:
		rec.Kind = kindReturn
	case Reservation:
		rec.Kind = kindReservation
		start, end := t.StartDate, t.EndDate
		rec.StartDate = &start
		rec.EndDate = &end
	}
	return rec
}

func transactionFromRecord(r transactionRecord) (Transaction, error) {
	bookID, err := NewBookID(r.BookID)
	if err != nil {
		return nil, err
	}
	userID, err := ParseUserID(r.UserID)
	if err != nil {
		return nil, err
	}
	switch r.Kind {
	case kindLoan:
		return Loan{Book: bookID, User: userID, At: r.At, DueDate: r.DueDate}, nil
	case kindReturn:
		return Return{Book: bookID, User: userID, At: r.At}, nil
	case kindReservation:
		if r.StartDate == nil || r.EndDate == nil {
			return nil, cr.Mark(cr.New("reservation record is missing its dates"), ErrInvalidInput)
		}
		return Reservation{Book: bookID, User: userID, At: r.At, StartDate: *r.StartDate, EndDate: *r.EndDate}, nil
	default:
		return nil, cr.Mark(cr.Newf("unknown transaction kind %q", r.Kind), ErrInvalidInput)
	}
}
