// Package db provides the storage backend adapter shared by every repository.
//
// Two interchangeable backends sit behind one Backend contract: an embedded
// SQLite file and a networked PostgreSQL server. Statements are written once
// with "?" placeholders; each backend rewrites them as needed and returns
// generated ids through Insert regardless of how the driver exposes them.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Row is one result row keyed by column name. Repositories convert rows to
// typed records immediately with the accessor methods in row.go.
type Row map[string]any

// Backend executes single statements against the configured store.
// Every call acquires one pooled connection and releases it before returning.
type Backend interface {
	// Query runs a read statement and returns its rows in order.
	Query(query string, args ...any) ([]Row, error)
	// Exec runs a write statement and returns the number of affected rows.
	Exec(query string, args ...any) (int64, error)
	// Insert runs an INSERT and returns the generated primary key.
	Insert(query string, args ...any) (int64, error)
	// Name identifies the backend ("sqlite" or "postgres").
	Name() string
	Close() error
}

// Options selects and locates the backend.
// A non-empty URL selects PostgreSQL; otherwise SQLite is opened at Path.
type Options struct {
	URL  string
	Path string
}

// DefaultPath returns the default database path: ~/.fieldlog/fieldlog.db
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".fieldlog", "fieldlog.db"), nil
}

// Open connects to the backend chosen by opts and brings the schema up to date.
func Open(opts Options) (Backend, error) {
	if opts.URL != "" {
		return OpenPostgres(opts.URL)
	}
	path := opts.Path
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return OpenSQLite(path)
}

// ready pings the pool and runs migrations, closing the pool on failure.
func ready(b backend) error {
	if err := b.pool().Ping(); err != nil {
		return closeOnError(b, fmt.Errorf("connecting to %s: %w", b.Name(), err))
	}
	if err := migrate(b); err != nil {
		return closeOnError(b, fmt.Errorf("running migrations: %w", err))
	}
	log.Info().Str("backend", b.Name()).Msg("database ready")
	return nil
}

func closeOnError(b backend, err error) error {
	if closeErr := b.Close(); closeErr != nil {
		return fmt.Errorf("%w (also failed to close: %v)", err, closeErr)
	}
	return err
}

// backend is the package-internal view of a Backend used by the schema manager.
type backend interface {
	Backend
	pool() *sql.DB
	// ddl expands dialect tokens in a schema statement.
	ddl(stmt string) string
	// isDuplicateColumn reports whether err is the driver's
	// "column already exists" failure from ALTER TABLE ADD COLUMN.
	isDuplicateColumn(err error) bool
}

// conn holds what both backends share: the pool and scoped connection use.
type conn struct {
	db       *sql.DB
	name     string
	classify func(op string, err error) error
}

func (c *conn) Name() string  { return c.name }
func (c *conn) pool() *sql.DB { return c.db }
func (c *conn) Close() error  { return c.db.Close() }

// with acquires one connection, runs fn and releases the connection on
// every exit path. Driver errors are classified before they are returned.
func (c *conn) with(query string, fn func(ctx context.Context, sc *sql.Conn) error) (err error) {
	op := statementKind(query)
	ctx := context.Background()

	sc, err := c.db.Conn(ctx)
	if err != nil {
		return &StorageError{Backend: c.name, Op: op, Err: err}
	}
	defer func() {
		if closeErr := sc.Close(); closeErr != nil && err == nil {
			err = &StorageError{Backend: c.name, Op: op, Err: fmt.Errorf("releasing connection: %w", closeErr)}
		}
	}()

	start := time.Now()
	err = fn(ctx, sc)
	log.Debug().
		Str("backend", c.name).
		Str("op", op).
		Dur("elapsed", time.Since(start)).
		Err(err).
		Msg("statement")
	if err != nil {
		return c.classify(op, err)
	}
	return nil
}

func (c *conn) query(query string, args []any) ([]Row, error) {
	var result []Row
	err := c.with(query, func(ctx context.Context, sc *sql.Conn) (err error) {
		rows, err := sc.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := rows.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("closing rows: %w", closeErr)
			}
		}()

		cols, err := rows.Columns()
		if err != nil {
			return fmt.Errorf("reading columns: %w", err)
		}

		for rows.Next() {
			vals := make([]any, len(cols))
			ptrs := make([]any, len(cols))
			for i := range vals {
				ptrs[i] = &vals[i]
			}
			if err := rows.Scan(ptrs...); err != nil {
				return fmt.Errorf("scanning row: %w", err)
			}
			row := make(Row, len(cols))
			for i, col := range cols {
				if b, ok := vals[i].([]byte); ok {
					row[col] = string(b)
					continue
				}
				row[col] = vals[i]
			}
			result = append(result, row)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c *conn) exec(query string, args []any) (int64, error) {
	var affected int64
	err := c.with(query, func(ctx context.Context, sc *sql.Conn) error {
		res, err := sc.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		if err != nil {
			return fmt.Errorf("checking rows affected: %w", err)
		}
		return nil
	})
	return affected, err
}

// statementKind returns the leading SQL keyword, used as the operation name
// in logs and errors.
func statementKind(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return "statement"
	}
	return strings.ToLower(fields[0])
}
