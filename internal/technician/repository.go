package technician

import (
	"fmt"

	"github.com/evcraddock/fieldlog/internal/db"
)

// Repository provides create, read, update and soft-delete for technicians.
type Repository struct {
	db db.Backend
}

// NewRepository creates a technician repository.
func NewRepository(b db.Backend) *Repository {
	return &Repository{db: b}
}

// List returns technicians ordered by name.
func (r *Repository) List(activeOnly bool) ([]*Technician, error) {
	query := fmt.Sprintf("SELECT %s FROM technicians", selectColumns)
	if activeOnly {
		query += " WHERE active = 1"
	}
	query += " ORDER BY name, id"

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("listing technicians: %w", err)
	}

	techs := make([]*Technician, 0, len(rows))
	for _, row := range rows {
		techs = append(techs, fromRow(row))
	}
	return techs, nil
}

// Get returns a technician by ID.
func (r *Repository) Get(id int64) (*Technician, error) {
	rows, err := r.db.Query(fmt.Sprintf("SELECT %s FROM technicians WHERE id = ?", selectColumns), id)
	if err != nil {
		return nil, fmt.Errorf("querying technician %d: %w", id, err)
	}
	if len(rows) == 0 {
		return nil, db.NotFound("technician", id)
	}
	return fromRow(rows[0]), nil
}

// Save updates the technician identified by id, or inserts a new active
// technician when id is nil. It returns the technician's ID.
// Callers must reject a blank name first.
func (r *Repository) Save(name string, email *string, id *int64) (int64, error) {
	if id != nil {
		n, err := r.db.Exec("UPDATE technicians SET name = ?, email = ? WHERE id = ?", name, email, *id)
		if err != nil {
			return 0, fmt.Errorf("updating technician %d: %w", *id, err)
		}
		if n == 0 {
			return 0, db.NotFound("technician", *id)
		}
		return *id, nil
	}

	newID, err := r.db.Insert("INSERT INTO technicians (name, email) VALUES (?, ?)", name, email)
	if err != nil {
		return 0, fmt.Errorf("inserting technician: %w", err)
	}
	return newID, nil
}

// Deactivate marks a technician inactive. Deactivating twice is not an
// error. Clients assigned to the technician keep the assignment.
func (r *Repository) Deactivate(id int64) error {
	n, err := r.db.Exec("UPDATE technicians SET active = 0 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deactivating technician %d: %w", id, err)
	}
	if n == 0 {
		return db.NotFound("technician", id)
	}
	return nil
}
