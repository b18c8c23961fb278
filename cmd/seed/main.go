// Command seed wipes the configured store and repopulates it with a small
// sample catalog: six books, one user of each role (password "password"),
// an open loan and a reservation. It prints the generated user IDs so the
// interactive shell can be driven right away.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"library-ledger/library"
)

func main() {
	cfg, err := library.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	store, err := cfg.OpenStore(logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	catalog := library.NewCatalog(library.NewRealClock())

	books := []struct {
		id      string
		title   string
		authors []string
		year    int
		genre   string
	}{
		{"orwell-1984", "1984", []string{"George Orwell"}, 1949, "Dystopia"},
		{"orwell-animal-farm", "Animal Farm", []string{"George Orwell"}, 1945, "Satire"},
		{"tolkien-fellowship", "The Fellowship of the Ring", []string{"J.R.R. Tolkien"}, 1954, "Fantasy"},
		{"suntzu-art-of-war", "The Art of War", []string{"Sun Tzu"}, -500, "Strategy"},
		{"dumas-musketeers", "The Three Musketeers", []string{"Alexandre Dumas"}, 1844, "Adventure"},
		{"shakespeare-romeo", "Romeo and Juliet", []string{"William Shakespeare"}, 1597, "Tragedy"},
	}
	for _, b := range books {
		id, err := library.NewBookID(b.id)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		book, err := library.NewBook(id, b.title, b.authors, b.year, b.genre)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		catalog = catalog.AddBook(book)
		fmt.Printf("Added book %s: %s\n", id, b.title)
	}

	hash, err := library.HashPassword("password")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error hashing password: %v\n", err)
		os.Exit(1)
	}

	student := library.Student{ID: library.NewUserID(), Name: "Sam Reader", Major: "History", Password: hash}
	faculty := library.Faculty{ID: library.NewUserID(), Name: "Prof. Ada Vance", Department: "Mathematics", Password: hash}
	librarian := library.Librarian{ID: library.NewUserID(), Name: "Kim Archer", EmployeeNo: "L-001", Password: hash}
	catalog = catalog.AddUser(student).AddUser(faculty).AddUser(librarian)

	fmt.Printf("Student ID:   %s\n", student.ID)
	fmt.Printf("Faculty ID:   %s\n", faculty.ID)
	fmt.Printf("Librarian ID: %s\n", librarian.ID)

	loanID, _ := library.NewBookID("orwell-1984")
	catalog, receipt, err := catalog.LoanBook(loanID, student.ID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error seeding loan: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Loaned '%s' to %s (due %s)\n",
		receipt.Book.Title, receipt.Borrower.UserName(), receipt.DueDate.Format(library.DateLayout))

	reserveID, _ := library.NewBookID("tolkien-fellowship")
	draft, err := catalog.StartReservation(reserveID, faculty.ID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error seeding reservation: %v\n", err)
		os.Exit(1)
	}
	start := draft.Periods()[0].Start.AddDate(0, 0, 7).Format(library.DateLayout)
	catalog, resReceipt, err := catalog.CompleteReservation(draft, start)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error seeding reservation: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Reserved '%s' for %s from %s to %s\n",
		resReceipt.Book.Title,
		resReceipt.Holder.UserName(),
		resReceipt.Reservation.StartDate.Format(library.DateLayout),
		resReceipt.Reservation.EndDate.Format(library.DateLayout))

	if err := store.Save(catalog); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving catalog: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Seed complete.")
}
