package db

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// migrations is an ordered list of schema statements, safe to run on every
// start. Referenced tables come first. {{serial}} and {{timestamp}} are
// expanded per backend.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS technicians (
		id         {{serial}},
		name       TEXT    NOT NULL,
		email      TEXT,
		active     INTEGER NOT NULL DEFAULT 1,
		created_at {{timestamp}} DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS clients (
		id            {{serial}},
		name          TEXT    NOT NULL,
		email         TEXT,
		phone         TEXT,
		technician_id INTEGER REFERENCES technicians(id),
		active        INTEGER NOT NULL DEFAULT 1,
		created_at    {{timestamp}} DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS visits (
		id                  {{serial}},
		client_id           INTEGER NOT NULL REFERENCES clients(id),
		technician_id       INTEGER NOT NULL REFERENCES technicians(id),
		attended_by         TEXT,
		visit_date          TEXT    NOT NULL,
		start_time          TEXT    NOT NULL,
		duration_minutes    INTEGER NOT NULL CHECK (duration_minutes >= 0),
		work_performed      TEXT    NOT NULL,
		has_pending         INTEGER NOT NULL DEFAULT 0,
		pending_description TEXT,
		pending_resolved    INTEGER NOT NULL DEFAULT 0,
		created_at          {{timestamp}} DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS tasks (
		id            {{serial}},
		technician_id INTEGER NOT NULL REFERENCES technicians(id),
		client_id     INTEGER REFERENCES clients(id),
		description   TEXT    NOT NULL,
		due_date      TEXT,
		due_time      TEXT,
		completed     INTEGER NOT NULL DEFAULT 0,
		completed_at  {{timestamp}},
		created_at    {{timestamp}} DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_visits_client_date ON visits(client_id, visit_date)`,
	`CREATE INDEX IF NOT EXISTS idx_visits_date ON visits(visit_date)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_technician ON tasks(technician_id, completed)`,
}

// columnMigrations add columns to tables created by older releases.
// A "column already exists" failure is expected and ignored.
var columnMigrations = []struct {
	table, column, definition string
}{
	{"clients", "technician_id", "INTEGER REFERENCES technicians(id)"},
}

// migrate runs all migrations in order.
func migrate(b backend) error {
	for i, m := range migrations {
		if _, err := b.Exec(b.ddl(m)); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}

	for _, cm := range columnMigrations {
		if err := addColumn(b, cm.table, cm.column, cm.definition); err != nil {
			return fmt.Errorf("adding %s.%s: %w", cm.table, cm.column, err)
		}
	}

	log.Debug().Str("backend", b.Name()).Int("statements", len(migrations)).Msg("schema up to date")
	return nil
}

// addColumn attempts ALTER TABLE ADD COLUMN and swallows only the
// duplicate-column failure.
func addColumn(b backend, table, column, definition string) error {
	_, err := b.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, definition))
	if err == nil {
		log.Info().Str("table", table).Str("column", column).Msg("column added")
		return nil
	}
	if b.isDuplicateColumn(err) {
		log.Debug().Str("table", table).Str("column", column).Msg("column already present")
		return nil
	}
	return err
}
