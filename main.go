package main

import (
	"bufio"
	"fmt"
	errors "github.com/cockroachdb/errors"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"library-ledger/library"
)

func main() {
	root := &cobra.Command{
		Use:          "library",
		Short:        "Interactive library catalog with loans, returns and reservations",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	cfg, err := library.LoadConfig()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	store, err := cfg.OpenStore(logger)
	if err != nil {
		return err
	}
	defer store.Close()

	catalog, err := store.Load(library.NewRealClock())
	if err != nil {
		return err
	}

	a := &app{catalog: catalog, scanner: bufio.NewScanner(os.Stdin)}
	a.loop()
	return store.Save(a.catalog)
}

// app holds the current catalog value between commands. Every successful
// mutation replaces it wholesale; a failed one leaves it untouched.
type app struct {
	catalog library.Catalog
	scanner *bufio.Scanner
}

func (a *app) loop() {
	fmt.Println("Welcome to the Library Catalog!")
	fmt.Println("Available commands:")
	fmt.Println("  Books: add book, list books, remove book")
	fmt.Println("  Users: add user, list users, remove user, fees")
	fmt.Println("  Circulation: loan, return, reserve, slots, calendar, next available")
	fmt.Println("  System: exit")

	for {
		fmt.Print("\n> ")
		if !a.scanner.Scan() {
			return
		}
		cmd := strings.TrimSpace(a.scanner.Text())

		switch cmd {
		case "add book":
			a.handleAddBook()
		case "add user":
			a.handleAddUser()
		case "list books":
			a.handleListBooks()
		case "list users":
			a.handleListUsers()
		case "loan":
			a.handleLoan()
		case "return":
			a.handleReturn()
		case "reserve":
			a.handleReserve()
		case "slots":
			a.handleSlots()
		case "calendar":
			a.handleCalendar()
		case "next available":
			a.handleNextAvailable()
		case "fees":
			a.handleFees()
		case "remove book":
			a.handleRemoveBook()
		case "remove user":
			a.handleRemoveUser()
		case "exit":
			fmt.Println("Goodbye!")
			return
		case "":
		default:
			fmt.Println("Unknown command. Type one of the available commands listed above.")
		}
	}
}

// ---------------------------------------------------------------------------
// Prompt helpers
// ---------------------------------------------------------------------------

func (a *app) prompt(label string) (string, bool) {
	fmt.Print(label)
	if !a.scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(a.scanner.Text()), true
}

func (a *app) promptBookID() (library.BookID, bool) {
	raw, ok := a.prompt("Book ID: ")
	if !ok {
		return library.BookID{}, false
	}
	id, err := library.NewBookID(raw)
	if err != nil {
		fmt.Printf("Invalid book ID: %s\n", raw)
		return library.BookID{}, false
	}
	return id, true
}

func (a *app) promptUserID(label string) (library.UserID, bool) {
	raw, ok := a.prompt(label)
	if !ok {
		return library.UserID{}, false
	}
	id, err := library.ParseUserID(raw)
	if err != nil {
		fmt.Printf("Invalid user ID: %s\n", raw)
		return library.UserID{}, false
	}
	return id, true
}

// readPassword reads a password without echoing it.
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", err
	}
	fmt.Println()
	return strings.TrimSpace(string(bytePassword)), nil
}

func (a *app) authenticate(userID library.UserID) bool {
	password, err := readPassword("Enter your password: ")
	if err != nil {
		fmt.Printf("Error reading password: %v\n", err)
		return false
	}
	if err := a.catalog.Authenticate(userID, password); err != nil {
		fmt.Printf("Authentication failed: %v\n", err)
		return false
	}
	return true
}

// reportError prefixes the message by failure kind so the user can tell a
// typo from a business-rule rejection.
func reportError(err error) {
	switch {
	case errors.Is(err, library.ErrNotFound):
		fmt.Printf("Not found: %v\n", err)
	case errors.Is(err, library.ErrInvalidInput):
		fmt.Printf("Invalid input: %v\n", err)
	case errors.Is(err, library.ErrPermissionDenied):
		fmt.Printf("Permission denied: %v\n", err)
	default:
		fmt.Printf("Error: %v\n", err)
	}
}

// ---------------------------------------------------------------------------
// Book and user management
// ---------------------------------------------------------------------------

func (a *app) handleAddBook() {
	rawID, ok := a.prompt("Book ID: ")
	if !ok {
		return
	}
	id, err := library.NewBookID(rawID)
	if err != nil {
		reportError(err)
		return
	}
	title, ok := a.prompt("Title: ")
	if !ok {
		return
	}
	rawAuthors, ok := a.prompt("Authors (comma separated): ")
	if !ok {
		return
	}
	rawYear, ok := a.prompt("Year: ")
	if !ok {
		return
	}
	year, err := strconv.Atoi(rawYear)
	if err != nil {
		fmt.Printf("Invalid year: %s\n", rawYear)
		return
	}
	genre, ok := a.prompt("Genre: ")
	if !ok {
		return
	}

	book, err := library.NewBook(id, title, strings.Split(rawAuthors, ","), year, genre)
	if err != nil {
		reportError(err)
		return
	}
	a.catalog = a.catalog.AddBook(book)
	fmt.Printf("Added book '%s' (ID %s)\n", book.Title, book.ID)
}

func (a *app) handleAddUser() {
	rawRole, ok := a.prompt("Role (student/faculty/librarian): ")
	if !ok {
		return
	}
	role, err := library.ParseRole(rawRole)
	if err != nil {
		reportError(err)
		return
	}
	name, ok := a.prompt("Name: ")
	if !ok {
		return
	}

	var detailLabel string
	switch role {
	case library.RoleStudent:
		detailLabel = "Major: "
	case library.RoleFaculty:
		detailLabel = "Department: "
	default:
		detailLabel = "Employee number: "
	}
	detail, ok := a.prompt(detailLabel)
	if !ok {
		return
	}

	password, err := readPassword(fmt.Sprintf("Enter password for %s: ", name))
	if err != nil {
		fmt.Printf("Error reading password: %v\n", err)
		return
	}
	hash, err := library.HashPassword(password)
	if err != nil {
		reportError(err)
		return
	}

	id := library.NewUserID()
	var user library.User
	switch role {
	case library.RoleStudent:
		user = library.Student{ID: id, Name: name, Major: detail, Password: hash}
	case library.RoleFaculty:
		user = library.Faculty{ID: id, Name: name, Department: detail, Password: hash}
	default:
		user = library.Librarian{ID: id, Name: name, EmployeeNo: detail, Password: hash}
	}
	a.catalog = a.catalog.AddUser(user)
	fmt.Printf("Added %s '%s' with ID %s\n", role, name, id)
}

func (a *app) handleListBooks() {
	books := a.catalog.Books()
	if len(books) == 0 {
		fmt.Println("No books in library.")
		return
	}

	fmt.Printf("%-15s %-35s %-30s %-6s %-15s %s\n", "ID", "Title", "Authors", "Year", "Genre", "Available")
	fmt.Println(strings.Repeat("-", 110))
	for _, b := range books {
		availStr := "Yes"
		if !b.Available {
			availStr = "No"
			if borrower, ok := a.catalog.LastLoanedBy(b.ID); ok {
				if u, ok := a.catalog.User(borrower); ok {
					availStr = "No (" + u.UserName() + ")"
				}
			}
		}
		fmt.Printf("%-15s %-35s %-30s %-6d %-15s %s\n",
			b.ID,
			truncateString(b.Title, 35),
			truncateString(strings.Join(b.Authors, ", "), 30),
			b.Year,
			truncateString(b.Genre, 15),
			availStr)
	}
}

func (a *app) handleListUsers() {
	users := a.catalog.Users()
	if len(users) == 0 {
		fmt.Println("No users registered.")
		return
	}

	fmt.Printf("%-38s %-25s %-10s %-20s %-6s %s\n", "ID", "Name", "Role", "Detail", "Loans", "Overdue")
	fmt.Println(strings.Repeat("-", 110))
	for _, u := range users {
		id := u.UserID()
		fmt.Printf("%-38s %-25s %-10s %-20s %-6d %d\n",
			id,
			truncateString(u.UserName(), 25),
			u.Role(),
			truncateString(library.RoleDetail(u), 20),
			a.catalog.ActiveLoansFor(id),
			a.catalog.OverdueLoansFor(id))
	}
}

func (a *app) handleRemoveBook() {
	bookID, ok := a.promptBookID()
	if !ok {
		return
	}
	acting, ok := a.promptUserID("Librarian ID: ")
	if !ok {
		return
	}
	if !a.authenticate(acting) {
		return
	}

	next, err := a.catalog.RemoveBook(bookID, acting)
	if err != nil {
		reportError(err)
		return
	}
	a.catalog = next
	fmt.Printf("Removed book %s\n", bookID)
}

func (a *app) handleRemoveUser() {
	target, ok := a.promptUserID("User ID to remove: ")
	if !ok {
		return
	}
	acting, ok := a.promptUserID("Librarian ID: ")
	if !ok {
		return
	}
	if !a.authenticate(acting) {
		return
	}

	next, err := a.catalog.RemoveUser(target, acting)
	if err != nil {
		reportError(err)
		return
	}
	a.catalog = next
	fmt.Printf("Removed user %s\n", target)
}

// ---------------------------------------------------------------------------
// Circulation
// ---------------------------------------------------------------------------

func (a *app) handleLoan() {
	bookID, ok := a.promptBookID()
	if !ok {
		return
	}
	userID, ok := a.promptUserID("User ID: ")
	if !ok {
		return
	}
	if !a.authenticate(userID) {
		return
	}

	next, receipt, err := a.catalog.LoanBook(bookID, userID)
	if err != nil {
		reportError(err)
		return
	}
	a.catalog = next

	fmt.Printf("Book '%s' loaned to %s\n", receipt.Book.Title, receipt.Borrower.UserName())
	if receipt.DueDate != nil {
		fmt.Printf("Due date: %s\n", receipt.DueDate.Format(library.DateLayout))
	} else {
		fmt.Println("No due date (unlimited loan period)")
	}
	if receipt.PreviousBorrower != nil {
		fmt.Printf("Previously loaned by %s\n", receipt.PreviousBorrower.UserName())
	}
}

func (a *app) handleReturn() {
	bookID, ok := a.promptBookID()
	if !ok {
		return
	}
	userID, ok := a.promptUserID("User ID: ")
	if !ok {
		return
	}
	if !a.authenticate(userID) {
		return
	}

	next, receipt, err := a.catalog.ReturnBook(bookID, userID)
	if err != nil {
		reportError(err)
		return
	}
	a.catalog = next
	fmt.Printf("Book '%s' returned by %s\n", receipt.Book.Title, receipt.Returner.UserName())
}

func (a *app) handleReserve() {
	bookID, ok := a.promptBookID()
	if !ok {
		return
	}
	userID, ok := a.promptUserID("User ID: ")
	if !ok {
		return
	}
	if !a.authenticate(userID) {
		return
	}

	draft, err := a.catalog.StartReservation(bookID, userID)
	if err != nil {
		reportError(err)
		return
	}

	fmt.Printf("Availability periods for '%s':\n", draft.Book().Title)
	printWindows(draft.Periods())

	input, ok := a.prompt(fmt.Sprintf("Start date (%s) or '%s': ", library.DateLayout, library.CancelSentinel))
	if !ok {
		return
	}

	next, receipt, err := a.catalog.CompleteReservation(draft, input)
	if err != nil {
		if errors.Is(err, library.ErrReservationCancelled) {
			fmt.Println("Reservation cancelled.")
			return
		}
		reportError(err)
		return
	}
	a.catalog = next
	fmt.Printf("Book '%s' reserved for %s from %s to %s\n",
		receipt.Book.Title,
		receipt.Holder.UserName(),
		receipt.Reservation.StartDate.Format(library.DateLayout),
		receipt.Reservation.EndDate.Format(library.DateLayout))
}

func (a *app) handleSlots() {
	bookID, ok := a.promptBookID()
	if !ok {
		return
	}
	slots := a.catalog.AvailableReservationSlots(bookID)
	if len(slots) == 0 {
		fmt.Println("No reservation slots within the next month.")
		return
	}
	fmt.Println("Upcoming reservation slots (at least a week long):")
	printWindows(slots)
}

func (a *app) handleCalendar() {
	bookID, ok := a.promptBookID()
	if !ok {
		return
	}
	periods := a.catalog.AvailabilityPeriods(bookID)
	if len(periods) == 0 {
		fmt.Println("Book has no availability.")
		return
	}
	fmt.Println("Availability periods:")
	printWindows(periods)
}

func (a *app) handleNextAvailable() {
	bookID, ok := a.promptBookID()
	if !ok {
		return
	}
	if _, ok := a.catalog.Book(bookID); !ok {
		reportError(library.ErrBookNotFound)
		return
	}
	next := a.catalog.NextAvailableDate(bookID)
	fmt.Printf("Next available: %s\n", next.Format(library.DateLayout))
}

func (a *app) handleFees() {
	userID, ok := a.promptUserID("User ID: ")
	if !ok {
		return
	}
	user, found := a.catalog.User(userID)
	if !found {
		reportError(library.ErrUserNotFound)
		return
	}
	overdue := a.catalog.OverdueLoansFor(userID)
	fees := a.catalog.OverdueFees(userID)
	fmt.Printf("%s has %d overdue loan(s); fees owed: $%.2f\n", user.UserName(), overdue, fees)
}

// ---------------------------------------------------------------------------
// Output helpers
// ---------------------------------------------------------------------------

func printWindows(windows []library.Window) {
	for i, w := range windows {
		days := int(w.Duration().Hours() / 24)
		if days > 365*5 {
			fmt.Printf("  %d. %s onwards\n", i+1, w.Start.Format(library.DateLayout))
			continue
		}
		fmt.Printf("  %d. %s to %s (%d days)\n", i+1, w.Start.Format(library.DateLayout), w.End.Format(library.DateLayout), days)
	}
}

func truncateString(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	return s[:maxLength-3] + "..."
}
