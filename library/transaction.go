package library

import "time"

// Transaction is one immutable entry in the catalog's append-only log. The
// log is ordered newest first and is the system of record: active loans,
// overdue state and last borrowers are all derived by folding over it.
// The unexported method closes the set to Loan, Return and Reservation.
type Transaction interface {
	BookID() BookID
	UserID() UserID
	Timestamp() time.Time
	sealedTransaction()
}

// Loan records a book leaving the shelf. DueDate is nil for roles with an
// open-ended loan period.
type Loan struct {
	Book    BookID
	User    UserID
	At      time.Time
	DueDate *time.Time
}

func (l Loan) BookID() BookID       { return l.Book }
func (l Loan) UserID() UserID       { return l.User }
func (l Loan) Timestamp() time.Time { return l.At }
func (Loan) sealedTransaction()     {}

// Return closes the latest open loan for its (book, user) pair.
type Return struct {
	Book BookID
	User UserID
	At   time.Time
}

func (r Return) BookID() BookID       { return r.Book }
func (r Return) UserID() UserID       { return r.User }
func (r Return) Timestamp() time.Time { return r.At }
func (Return) sealedTransaction()     {}

// Reservation blocks a future window for a book. It is advisory: it feeds
// the availability computation but does not stop a librarian from loaning
// the book inside the window.
type Reservation struct {
	Book      BookID
	User      UserID
	At        time.Time
	StartDate time.Time
	EndDate   time.Time
}

func (r Reservation) BookID() BookID       { return r.Book }
func (r Reservation) UserID() UserID       { return r.User }
func (r Reservation) Timestamp() time.Time { return r.At }
func (Reservation) sealedTransaction()     {}
