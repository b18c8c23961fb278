package library

import (
	"path/filepath"
	"testing"
)

func tempDB(t *testing.T) (*Database, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lib.db")
	db, err := NewDatabase(path, discardLogger())
	if err != nil {
		t.Fatalf("db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, path
}

func TestDatabaseRoundTrip(t *testing.T) {
	f, original := storedFixture(t)
	db, _ := tempDB(t)

	if err := db.Save(original); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := db.Load(f.clock)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if got, want := len(loaded.Books()), len(original.Books()); got != want {
		t.Fatalf("books = %d, want %d", got, want)
	}
	if got, want := len(loaded.Users()), len(original.Users()); got != want {
		t.Fatalf("users = %d, want %d", got, want)
	}
	wantTx := original.Transactions()
	gotTx := loaded.Transactions()
	if len(gotTx) != len(wantTx) {
		t.Fatalf("transactions = %d, want %d", len(gotTx), len(wantTx))
	}
	// Log order is the contract: folds depend on newest first.
	for i := range wantTx {
		if !wantTx[i].BookID().Equal(gotTx[i].BookID()) || !wantTx[i].UserID().Equal(gotTx[i].UserID()) {
			t.Fatalf("transaction %d mismatch", i)
		}
		if !wantTx[i].Timestamp().Equal(gotTx[i].Timestamp()) {
			t.Fatalf("transaction %d timestamp mismatch", i)
		}
	}

	// The rebuilt catalog answers queries identically.
	if got, want := loaded.ActiveLoansFor(f.librarian.ID), original.ActiveLoansFor(f.librarian.ID); got != want {
		t.Fatalf("active loans = %d, want %d", got, want)
	}
}

func TestDatabaseSaveOverwrites(t *testing.T) {
	f, original := storedFixture(t)
	db, _ := tempDB(t)

	if err := db.Save(original); err != nil {
		t.Fatalf("first save: %v", err)
	}
	smaller := NewCatalog(f.clock).AddBook(mustBook(t, "only", "Only Book"))
	if err := db.Save(smaller); err != nil {
		t.Fatalf("second save: %v", err)
	}

	loaded, err := db.Load(f.clock)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := len(loaded.Books()); got != 1 {
		t.Fatalf("books = %d, want 1", got)
	}
	if got := len(loaded.Transactions()); got != 0 {
		t.Fatalf("transactions = %d, want 0", got)
	}
}

func TestDatabaseReopen(t *testing.T) {
	f, original := storedFixture(t)
	db, path := tempDB(t)
	if err := db.Save(original); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := NewDatabase(path, discardLogger())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	loaded, err := reopened.Load(f.clock)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got, want := len(loaded.Books()), len(original.Books()); got != want {
		t.Fatalf("books = %d, want %d", got, want)
	}
}

func TestDatabaseLoadEmpty(t *testing.T) {
	db, _ := tempDB(t)
	c, err := db.Load(NewMockClock(testEpoch))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(c.Books()) != 0 || len(c.Users()) != 0 || len(c.Transactions()) != 0 {
		t.Fatalf("fresh database should load empty")
	}
}
