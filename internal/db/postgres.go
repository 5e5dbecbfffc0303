package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"
)

// Postgres is the networked multi-user backend. Placeholders are rewritten
// to $n and inserts request the generated id with RETURNING.
type Postgres struct {
	conn
}

// OpenPostgres connects to the PostgreSQL server at url and runs migrations.
// Connection timeouts belong in the URL (connect_timeout).
func OpenPostgres(url string) (*Postgres, error) {
	pool, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	p := &Postgres{}
	p.conn = conn{db: pool, name: "postgres", classify: classifyPostgres}
	if err := ready(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Query implements Backend.
func (p *Postgres) Query(query string, args ...any) ([]Row, error) {
	return p.query(rebind(query), args)
}

// Exec implements Backend.
func (p *Postgres) Exec(query string, args ...any) (int64, error) {
	return p.exec(rebind(query), args)
}

// Insert implements Backend.
func (p *Postgres) Insert(query string, args ...any) (int64, error) {
	q := rebind(strings.TrimRight(strings.TrimSpace(query), ";")) + " RETURNING id"
	var id int64
	err := p.with(q, func(ctx context.Context, sc *sql.Conn) error {
		return sc.QueryRowContext(ctx, q, args...).Scan(&id)
	})
	return id, err
}

func (p *Postgres) ddl(stmt string) string {
	return strings.NewReplacer(
		"{{serial}}", "SERIAL PRIMARY KEY",
		"{{timestamp}}", "TIMESTAMP",
	).Replace(stmt)
}

func (p *Postgres) isDuplicateColumn(err error) bool {
	var pe *pq.Error
	return errors.As(err, &pe) && pe.Code == "42701"
}

func classifyPostgres(op string, err error) error {
	var pe *pq.Error
	if errors.As(err, &pe) && pe.Code.Class() == "23" {
		return &ConstraintError{Backend: "postgres", Op: op, Err: err}
	}
	return &StorageError{Backend: "postgres", Op: op, Err: err}
}

// rebind rewrites "?" placeholders to PostgreSQL's $1, $2, ... form.
// Question marks inside string literals, quoted identifiers and comments
// are left alone.
func rebind(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)

	n := 0
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'' || c == '"':
			end := strings.IndexByte(query[i+1:], c)
			if end < 0 {
				b.WriteString(query[i:])
				return b.String()
			}
			b.WriteString(query[i : i+end+2])
			i += end + 1
		case c == '-' && i+1 < len(query) && query[i+1] == '-':
			end := strings.IndexByte(query[i:], '\n')
			if end < 0 {
				b.WriteString(query[i:])
				return b.String()
			}
			b.WriteString(query[i : i+end+1])
			i += end
		case c == '/' && i+1 < len(query) && query[i+1] == '*':
			end := strings.Index(query[i+2:], "*/")
			if end < 0 {
				b.WriteString(query[i:])
				return b.String()
			}
			b.WriteString(query[i : i+end+4])
			i += end + 3
		case c == '?':
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
