package library

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	cr "github.com/cockroachdb/errors"
	_ "github.com/mattn/go-sqlite3"
)

// Database persists the catalog in a single SQLite file: the same three
// collections as the snapshot store, kept as tables, with the log order
// preserved by an explicit position column.
type Database struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewDatabase opens (or creates) the SQLite database at dbPath and applies
// schema migrations.
func NewDatabase(dbPath string, logger *slog.Logger) (*Database, error) {
	if logger == nil {
		logger = slog.Default()
	}
	// Ensure directory exists so first-run succeeds.
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, cr.Wrap(err, "create db dir")
		}
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=1", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, cr.Wrap(err, "open sqlite")
	}
	if err := applyMigrations(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Database{db: db, logger: logger}, nil
}

func (d *Database) Close() error { return d.db.Close() }

// ---------------------------------------------------------------------------
// Schema migration
// ---------------------------------------------------------------------------

const schemaVersion = 1

func applyMigrations(db *sql.DB) error {
	// WAL improves write concurrency.
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return cr.Wrap(err, "enable WAL")
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);`); err != nil {
		return err
	}

	var current int
	_ = db.QueryRow(`SELECT value FROM meta WHERE key='schema_version';`).Scan(&current)
	if current >= schemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS books (
            id TEXT PRIMARY KEY,
            title TEXT NOT NULL,
            authors TEXT NOT NULL,
            year INTEGER NOT NULL,
            genre TEXT NOT NULL,
            available BOOLEAN NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS users (
            id TEXT PRIMARY KEY,
            role TEXT NOT NULL,
            name TEXT NOT NULL,
            detail TEXT NOT NULL,
            password_hash TEXT NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS transactions (
            position INTEGER NOT NULL,
            kind TEXT NOT NULL,
            book_id TEXT NOT NULL,
            user_id TEXT NOT NULL,
            at DATETIME NOT NULL,
            due_date DATETIME,
            start_date DATETIME,
            end_date DATETIME
        );`,
	}
	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return cr.Wrap(err, "apply migration")
		}
	}
	if _, err := tx.Exec(`INSERT INTO meta(key,value) VALUES('schema_version',?)
        ON CONFLICT(key) DO UPDATE SET value=excluded.value;`, schemaVersion); err != nil {
		return cr.Wrap(err, "record schema version")
	}

	return tx.Commit()
}

// ---------------------------------------------------------------------------
// Store implementation
// ---------------------------------------------------------------------------

// Save rewrites all three collections in one transaction. The catalog is
// small by construction, so a full rewrite beats diffing.
func (d *Database) Save(c Catalog) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"books", "users", "transactions"} {
		if _, err := tx.Exec(`DELETE FROM ` + table); err != nil {
			return cr.Wrapf(err, "clear %s", table)
		}
	}

	for _, b := range c.Books() {
		r := bookToRecord(b)
		authors, err := snapshotJSON.Marshal(r.Authors)
		if err != nil {
			return cr.Wrap(err, "encode authors")
		}
		if _, err := tx.Exec(
			`INSERT INTO books(id,title,authors,year,genre,available) VALUES(?,?,?,?,?,?)`,
			r.ID, r.Title, string(authors), r.Year, r.Genre, r.Available); err != nil {
			return cr.Wrapf(err, "insert book %s", r.ID)
		}
	}

	for _, u := range c.Users() {
		r := userToRecord(u)
		if _, err := tx.Exec(
			`INSERT INTO users(id,role,name,detail,password_hash) VALUES(?,?,?,?,?)`,
			r.ID, r.Role, r.Name, r.Detail, r.PasswordHash); err != nil {
			return cr.Wrapf(err, "insert user %s", r.ID)
		}
	}

	for i, t := range c.Transactions() {
		r := transactionToRecord(t)
		if _, err := tx.Exec(
			`INSERT INTO transactions(position,kind,book_id,user_id,at,due_date,start_date,end_date)
             VALUES(?,?,?,?,?,?,?,?)`,
			i, r.Kind, r.BookID, r.UserID, r.At, r.DueDate, r.StartDate, r.EndDate); err != nil {
			return cr.Wrapf(err, "insert transaction %d", i)
		}
	}

	if err := tx.Commit(); err != nil {
		return cr.Wrap(err, "commit save")
	}
	d.logger.Info("database saved", "books", len(c.Books()), "users", len(c.Users()))
	return nil
}

func (d *Database) Load(clock Clock) (Catalog, error) {
	books, err := d.loadBooks()
	if err != nil {
		return Catalog{}, err
	}
	users, err := d.loadUsers()
	if err != nil {
		return Catalog{}, err
	}
	transactions, err := d.loadTransactions()
	if err != nil {
		return Catalog{}, err
	}
	d.logger.Info("database loaded",
		"books", len(books), "users", len(users), "transactions", len(transactions))
	return ReconstructCatalog(clock, books, users, transactions), nil
}

func (d *Database) loadBooks() ([]Book, error) {
	rows, err := d.db.Query(`SELECT id,title,authors,year,genre,available FROM books ORDER BY id`)
	if err != nil {
		return nil, cr.Wrap(err, "query books")
	}
	defer rows.Close()

	var books []Book
	for rows.Next() {
		var r bookRecord
		var authors string
		if err := rows.Scan(&r.ID, &r.Title, &authors, &r.Year, &r.Genre, &r.Available); err != nil {
			return nil, cr.Wrap(err, "scan book")
		}
		if err := snapshotJSON.Unmarshal([]byte(authors), &r.Authors); err != nil {
			return nil, cr.Wrapf(err, "decode authors for book %s", r.ID)
		}
		b, err := bookFromRecord(r)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

func (d *Database) loadUsers() ([]User, error) {
	rows, err := d.db.Query(`SELECT id,role,name,detail,password_hash FROM users ORDER BY id`)
	if err != nil {
		return nil, cr.Wrap(err, "query users")
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var r userRecord
		if err := rows.Scan(&r.ID, &r.Role, &r.Name, &r.Detail, &r.PasswordHash); err != nil {
			return nil, cr.Wrap(err, "scan user")
		}
		u, err := userFromRecord(r)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (d *Database) loadTransactions() ([]Transaction, error) {
	rows, err := d.db.Query(
		`SELECT kind,book_id,user_id,at,due_date,start_date,end_date FROM transactions ORDER BY position`)
	if err != nil {
		return nil, cr.Wrap(err, "query transactions")
	}
	defer rows.Close()

	var transactions []Transaction
	for rows.Next() {
		var r transactionRecord
		var due, start, end sql.NullTime
		if err := rows.Scan(&r.Kind, &r.BookID, &r.UserID, &r.At, &due, &start, &end); err != nil {
			return nil, cr.Wrap(err, "scan transaction")
		}
		if due.Valid {
			r.DueDate = &due.Time
		}
		if start.Valid {
			r.StartDate = &start.Time
		}
		if end.Valid {
			r.EndDate = &end.Time
		}
		tx, err := transactionFromRecord(r)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	return transactions, rows.Err()
}
