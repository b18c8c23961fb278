package library

import (
	"sort"
	"time"
)

// Catalog is the aggregate root: the book table, the user table, and the
// newest-first transaction log. It is an immutable value; every mutating
// operation clones the touched collection and returns a new Catalog, leaving
// the receiver untouched. On a business-rule violation the receiver comes
// back unchanged together with a kind-tagged error, so callers can always
// tell "nothing happened, here's why" from success.
type Catalog struct {
	books        map[BookID]Book
	users        map[UserID]User
	transactions []Transaction // newest first
	clock        Clock
}

// NewCatalog creates an empty catalog. A nil clock falls back to wall time.
func NewCatalog(clock Clock) Catalog {
	if clock == nil {
		clock = NewRealClock()
	}
	return Catalog{
		books: make(map[BookID]Book),
		users: make(map[UserID]User),
		clock: clock,
	}
}

// ReconstructCatalog rebuilds a catalog from persisted collections. The
// transaction slice must already be ordered newest first.
func ReconstructCatalog(clock Clock, books []Book, users []User, transactions []Transaction) Catalog {
	c := NewCatalog(clock)
	for _, b := range books {
		c.books[b.ID] = b
	}
	for _, u := range users {
		c.users[u.UserID()] = u
	}
	c.transactions = append([]Transaction(nil), transactions...)
	return c
}

// ---------------------------------------------------------------------------
// Clone-on-write helpers
// ---------------------------------------------------------------------------

func (c Catalog) cloneBooks() map[BookID]Book {
	books := make(map[BookID]Book, len(c.books)+1)
	for id, b := range c.books {
		books[id] = b
	}
	return books
}

func (c Catalog) cloneUsers() map[UserID]User {
	users := make(map[UserID]User, len(c.users)+1)
	for id, u := range c.users {
		users[id] = u
	}
	return users
}

func (c Catalog) prepend(tx Transaction) []Transaction {
	log := make([]Transaction, 0, len(c.transactions)+1)
	log = append(log, tx)
	return append(log, c.transactions...)
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (c Catalog) Book(id BookID) (Book, bool) {
	b, ok := c.books[id]
	return b, ok
}

func (c Catalog) User(id UserID) (User, bool) {
	u, ok := c.users[id]
	return u, ok
}

// Books returns every book sorted by id.
func (c Catalog) Books() []Book {
	books := make([]Book, 0, len(c.books))
	for _, b := range c.books {
		books = append(books, b)
	}
	sort.Slice(books, func(i, j int) bool { return books[i].ID.String() < books[j].ID.String() })
	return books
}

// Users returns every user sorted by id.
func (c Catalog) Users() []User {
	users := make([]User, 0, len(c.users))
	for _, u := range c.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].UserID().String() < users[j].UserID().String() })
	return users
}

// Transactions returns a copy of the log, newest first.
func (c Catalog) Transactions() []Transaction {
	return append([]Transaction(nil), c.transactions...)
}

// ---------------------------------------------------------------------------
// Mutations
// ---------------------------------------------------------------------------

// AddBook upserts by id; adding a book under an existing id replaces the
// previous value outright.
func (c Catalog) AddBook(b Book) Catalog {
	books := c.cloneBooks()
	books[b.ID] = b
	c.books = books
	return c
}

// AddUser upserts by id with the same last-write-wins semantics as AddBook.
func (c Catalog) AddUser(u User) Catalog {
	users := c.cloneUsers()
	users[u.UserID()] = u
	c.users = users
	return c
}

// LoanReceipt is the advisory side channel of a successful loan.
// PreviousBorrower is the user who last loaned the book, nil when the book
// was never loaned or the borrower has since been removed.
type LoanReceipt struct {
	Book             Book
	Borrower         User
	DueDate          *time.Time
	PreviousBorrower User
}

// LoanBook hands the book to the user: checks existence, availability and
// the role's loan limit, computes the due date from the role's loan period,
// flips Available and prepends a Loan transaction.
func (c Catalog) LoanBook(bookID BookID, userID UserID) (Catalog, *LoanReceipt, error) {
	book, ok := c.books[bookID]
	if !ok {
		return c, nil, ErrBookNotFound
	}
	user, ok := c.users[userID]
	if !ok {
		return c, nil, ErrUserNotFound
	}
	if !book.Available {
		return c, nil, ErrBookUnavailable
	}
	rules := user.Role().Rules()
	if rules.MaxLoans > 0 && c.ActiveLoansFor(userID) >= rules.MaxLoans {
		return c, nil, ErrLoanLimitReached
	}

	now := c.clock.Now()
	var due *time.Time
	if rules.LoanPeriodDays > 0 {
		d := now.AddDate(0, 0, rules.LoanPeriodDays)
		due = &d
	}

	var previous User
	if prevID, ok := c.LastLoanedBy(bookID); ok {
		previous = c.users[prevID]
	}

	book.Available = false
	books := c.cloneBooks()
	books[bookID] = book
	c.books = books
	c.transactions = c.prepend(Loan{Book: bookID, User: userID, At: now, DueDate: due})

	return c, &LoanReceipt{Book: book, Borrower: user, DueDate: due, PreviousBorrower: previous}, nil
}

type ReturnReceipt struct {
	Book     Book
	Returner User
}

// ReturnBook closes the user's open loan on the book. A user may borrow,
// return and re-borrow the same book; only the latest cycle matters.
func (c Catalog) ReturnBook(bookID BookID, userID UserID) (Catalog, *ReturnReceipt, error) {
	book, ok := c.books[bookID]
	if !ok {
		return c, nil, ErrBookNotFound
	}
	user, ok := c.users[userID]
	if !ok {
		return c, nil, ErrUserNotFound
	}
	if !c.hasOpenLoan(bookID, userID) {
		return c, nil, ErrNoActiveLoan
	}

	book.Available = true
	books := c.cloneBooks()
	books[bookID] = book
	c.books = books
	c.transactions = c.prepend(Return{Book: bookID, User: userID, At: c.clock.Now()})

	return c, &ReturnReceipt{Book: book, Returner: user}, nil
}

// RemoveUser deletes the user entry. Requires a librarian and a target with
// no active loans; transactions referencing the user stay in the log for
// history.
func (c Catalog) RemoveUser(target, acting UserID) (Catalog, error) {
	if err := c.requireLibrarian(acting); err != nil {
		return c, err
	}
	if _, ok := c.users[target]; !ok {
		return c, ErrUserNotFound
	}
	if c.ActiveLoansFor(target) > 0 {
		return c, ErrUserHasLoans
	}
	users := c.cloneUsers()
	delete(users, target)
	c.users = users
	return c, nil
}

// RemoveBook deletes the book entry. Requires a librarian and a book that is
// not out on loan.
func (c Catalog) RemoveBook(bookID BookID, acting UserID) (Catalog, error) {
	if err := c.requireLibrarian(acting); err != nil {
		return c, err
	}
	book, ok := c.books[bookID]
	if !ok {
		return c, ErrBookNotFound
	}
	if !book.Available {
		return c, ErrBookOnLoan
	}
	books := c.cloneBooks()
	delete(books, bookID)
	c.books = books
	return c, nil
}

func (c Catalog) requireLibrarian(acting UserID) error {
	user, ok := c.users[acting]
	if !ok {
		return ErrUserNotFound
	}
	if user.Role() != RoleLibrarian {
		return ErrLibrarianOnly
	}
	return nil
}

// Authenticate verifies a user's password.
func (c Catalog) Authenticate(userID UserID, password string) error {
	user, ok := c.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	if !CheckPassword(user.PasswordHash(), password) {
		return ErrBadCredentials
	}
	return nil
}

// ---------------------------------------------------------------------------
// Query folds over the transaction log
// ---------------------------------------------------------------------------

// LastLoanedBy returns the user who most recently loaned the book. The log
// is newest first, so the first matching Loan wins.
func (c Catalog) LastLoanedBy(bookID BookID) (UserID, bool) {
	for _, tx := range c.transactions {
		if loan, ok := tx.(Loan); ok && loan.Book.Equal(bookID) {
			return loan.User, true
		}
	}
	return UserID{}, false
}

// hasOpenLoan reports whether the latest borrow cycle for the pair is still
// open. Newest first means the first Loan-or-Return hit for the pair decides.
func (c Catalog) hasOpenLoan(bookID BookID, userID UserID) bool {
	for _, tx := range c.transactions {
		switch t := tx.(type) {
		case Return:
			if t.Book.Equal(bookID) && t.User.Equal(userID) {
				return false
			}
		case Loan:
			if t.Book.Equal(bookID) && t.User.Equal(userID) {
				return true
			}
		}
	}
	return false
}

// openLoansFor collects the user's loans not yet closed by a later return of
// the same book. Walking newest first, a Return is always seen before the
// Loan it closes, so a per-book counter pairs them up.
func (c Catalog) openLoansFor(userID UserID) []Loan {
	var open []Loan
	returned := make(map[BookID]int)
	for _, tx := range c.transactions {
		switch t := tx.(type) {
		case Return:
			if t.User.Equal(userID) {
				returned[t.Book]++
			}
		case Loan:
			if t.User.Equal(userID) {
				if returned[t.Book] > 0 {
					returned[t.Book]--
				} else {
					open = append(open, t)
				}
			}
		}
	}
	return open
}

// ActiveLoansFor counts the user's open loans.
func (c Catalog) ActiveLoansFor(userID UserID) int {
	return len(c.openLoansFor(userID))
}

// OverdueLoansFor counts the user's open loans whose due date has passed.
func (c Catalog) OverdueLoansFor(userID UserID) int {
	now := c.clock.Now()
	count := 0
	for _, loan := range c.openLoansFor(userID) {
		if loan.DueDate != nil && loan.DueDate.Before(now) {
			count++
		}
	}
	return count
}

// OverdueFees sums daysOverdue times the role's daily rate over the user's
// overdue loans, truncating to whole days.
func (c Catalog) OverdueFees(userID UserID) float64 {
	user, ok := c.users[userID]
	if !ok {
		return 0
	}
	rate := user.Role().Rules().OverdueFeePerDay
	if rate == 0 {
		return 0
	}
	now := c.clock.Now()
	total := 0.0
	for _, loan := range c.openLoansFor(userID) {
		if loan.DueDate == nil || !loan.DueDate.Before(now) {
			continue
		}
		days := int(now.Sub(*loan.DueDate).Hours() / 24)
		total += float64(days) * rate
	}
	return total
}
