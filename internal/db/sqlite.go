package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-sqlite3"
)

// sqliteDSNParams apply to every pooled connection, so foreign keys stay
// enforced no matter which connection a call acquires.
const sqliteDSNParams = "_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000"

// SQLite is the embedded single-file backend. Generated ids come from the
// connection's last insert rowid after a plain INSERT.
type SQLite struct {
	conn
	path string
}

// OpenSQLite opens (or creates) a SQLite database at path and runs migrations.
func OpenSQLite(path string) (*SQLite, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory %s: %w", dir, err)
	}

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	pool, err := sql.Open("sqlite3", path+sep+sqliteDSNParams)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &SQLite{path: path}
	s.conn = conn{db: pool, name: "sqlite", classify: classifySQLite}
	if err := ready(s); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the database file path.
func (s *SQLite) Path() string { return s.path }

// Query implements Backend.
func (s *SQLite) Query(query string, args ...any) ([]Row, error) {
	return s.query(query, args)
}

// Exec implements Backend.
func (s *SQLite) Exec(query string, args ...any) (int64, error) {
	return s.exec(query, args)
}

// Insert implements Backend.
func (s *SQLite) Insert(query string, args ...any) (int64, error) {
	var id int64
	err := s.with(query, func(ctx context.Context, sc *sql.Conn) error {
		res, err := sc.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("getting insert id: %w", err)
		}
		return nil
	})
	return id, err
}

func (s *SQLite) ddl(stmt string) string {
	return strings.NewReplacer(
		"{{serial}}", "INTEGER PRIMARY KEY AUTOINCREMENT",
		"{{timestamp}}", "DATETIME",
	).Replace(stmt)
}

func (s *SQLite) isDuplicateColumn(err error) bool {
	var se sqlite3.Error
	if !errors.As(err, &se) {
		return false
	}
	return strings.Contains(se.Error(), "duplicate column name")
}

func classifySQLite(op string, err error) error {
	var se sqlite3.Error
	if errors.As(err, &se) && se.Code == sqlite3.ErrConstraint {
		return &ConstraintError{Backend: "sqlite", Op: op, Err: err}
	}
	return &StorageError{Backend: "sqlite", Op: op, Err: err}
}
