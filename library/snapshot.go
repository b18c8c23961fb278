package library

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"

	cr "github.com/cockroachdb/errors"
	jsoniter "github.com/json-iterator/go"
)

var snapshotJSON = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	booksFile        = "books.json"
	usersFile        = "users.json"
	transactionsFile = "transactions.json"
)

// SnapshotStore persists the catalog as three JSON files in a directory, one
// ordered list of flat records per collection. A missing file loads as an
// empty collection; a file that exists but does not decode is an error.
type SnapshotStore struct {
	dir    string
	logger *slog.Logger
}

func NewSnapshotStore(dir string, logger *slog.Logger) *SnapshotStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &SnapshotStore{dir: dir, logger: logger}
}

func (s *SnapshotStore) Load(clock Clock) (Catalog, error) {
	var bookRecords []bookRecord
	if err := s.readList(booksFile, &bookRecords); err != nil {
		return Catalog{}, err
	}
	var userRecords []userRecord
	if err := s.readList(usersFile, &userRecords); err != nil {
		return Catalog{}, err
	}
	var txRecords []transactionRecord
	if err := s.readList(transactionsFile, &txRecords); err != nil {
		return Catalog{}, err
	}

	books := make([]Book, 0, len(bookRecords))
	for _, r := range bookRecords {
		b, err := bookFromRecord(r)
		if err != nil {
			return Catalog{}, cr.Wrapf(err, "book %q", r.ID)
		}
		books = append(books, b)
	}
	users := make([]User, 0, len(userRecords))
	for _, r := range userRecords {
		u, err := userFromRecord(r)
		if err != nil {
			return Catalog{}, cr.Wrapf(err, "user %q", r.ID)
		}
		users = append(users, u)
	}
	transactions := make([]Transaction, 0, len(txRecords))
	for _, r := range txRecords {
		tx, err := transactionFromRecord(r)
		if err != nil {
			return Catalog{}, cr.Wrapf(err, "transaction for book %q", r.BookID)
		}
		transactions = append(transactions, tx)
	}

	s.logger.Info("snapshot loaded",
		"dir", s.dir, "books", len(books), "users", len(users), "transactions", len(transactions))
	return ReconstructCatalog(clock, books, users, transactions), nil
}

func (s *SnapshotStore) Save(c Catalog) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return cr.Wrap(err, "create data dir")
	}

	books := c.Books()
	bookRecords := make([]bookRecord, 0, len(books))
	for _, b := range books {
		bookRecords = append(bookRecords, bookToRecord(b))
	}
	users := c.Users()
	userRecords := make([]userRecord, 0, len(users))
	for _, u := range users {
		userRecords = append(userRecords, userToRecord(u))
	}
	transactions := c.Transactions()
	txRecords := make([]transactionRecord, 0, len(transactions))
	for _, tx := range transactions {
		txRecords = append(txRecords, transactionToRecord(tx))
	}

	if err := s.writeList(booksFile, bookRecords); err != nil {
		return err
	}
	if err := s.writeList(usersFile, userRecords); err != nil {
		return err
	}
	if err := s.writeList(transactionsFile, txRecords); err != nil {
		return err
	}
	s.logger.Info("snapshot saved",
		"dir", s.dir, "books", len(bookRecords), "users", len(userRecords), "transactions", len(txRecords))
	return nil
}

func (s *SnapshotStore) Close() error { return nil }

func (s *SnapshotStore) readList(name string, out any) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if os.IsNotExist(err) {
		// absent file means an empty collection, not an error
		return nil
	}
	if err != nil {
		return cr.Wrapf(err, "read %s", name)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := snapshotJSON.Unmarshal(data, out); err != nil {
		return cr.Wrapf(err, "decode %s", name)
	}
	return nil
}

func (s *SnapshotStore) writeList(name string, v any) error {
	data, err := snapshotJSON.MarshalIndent(v, "", "  ")
	if err != nil {
		return cr.Wrapf(err, "encode %s", name)
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return cr.Wrapf(err, "write %s", name)
	}
	return nil
}
