package client

import (
	"fmt"
	"strings"

	"github.com/evcraddock/fieldlog/internal/db"
)

// Repository provides create, read, update and soft-delete for clients.
type Repository struct {
	db db.Backend
}

// NewRepository creates a client repository.
func NewRepository(b db.Backend) *Repository {
	return &Repository{db: b}
}

// List returns clients ordered by name, each with its technician's name.
// A TechnicianID filter matches that assignment exactly; unassigned
// clients never match it.
func (r *Repository) List(opts ListOptions) ([]*Client, error) {
	query := fmt.Sprintf(`SELECT %s, t.name AS technician_name
		FROM clients c
		LEFT JOIN technicians t ON c.technician_id = t.id`, selectColumns)
	var args []any
	var conditions []string

	if opts.ActiveOnly {
		conditions = append(conditions, "c.active = 1")
	}
	if opts.TechnicianID != nil {
		conditions = append(conditions, "c.technician_id = ?")
		args = append(args, *opts.TechnicianID)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY c.name, c.id"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing clients: %w", err)
	}

	clients := make([]*Client, 0, len(rows))
	for _, row := range rows {
		c := fromRow(row)
		c.TechnicianName = row.NullString("technician_name")
		clients = append(clients, c)
	}
	return clients, nil
}

// Get returns a client by ID.
func (r *Repository) Get(id int64) (*Client, error) {
	rows, err := r.db.Query(fmt.Sprintf("SELECT %s FROM clients c WHERE c.id = ?", selectColumns), id)
	if err != nil {
		return nil, fmt.Errorf("querying client %d: %w", id, err)
	}
	if len(rows) == 0 {
		return nil, db.NotFound("client", id)
	}
	return fromRow(rows[0]), nil
}

// Save updates every mutable field of the client identified by p.ID and
// returns that ID, or inserts a new active client and returns its generated
// ID. Callers must reject a blank name first. An unknown technician is
// reported as a db.ConstraintError.
func (r *Repository) Save(p SaveParams) (int64, error) {
	if p.ID != nil {
		n, err := r.db.Exec(
			"UPDATE clients SET name = ?, email = ?, phone = ?, technician_id = ? WHERE id = ?",
			p.Name, p.Email, p.Phone, p.TechnicianID, *p.ID,
		)
		if err != nil {
			return 0, fmt.Errorf("updating client %d: %w", *p.ID, err)
		}
		if n == 0 {
			return 0, db.NotFound("client", *p.ID)
		}
		return *p.ID, nil
	}

	id, err := r.db.Insert(
		"INSERT INTO clients (name, email, phone, technician_id) VALUES (?, ?, ?, ?)",
		p.Name, p.Email, p.Phone, p.TechnicianID,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting client: %w", err)
	}
	return id, nil
}

// Deactivate marks a client inactive. Its visits stay retrievable.
// Deactivating twice is not an error.
func (r *Repository) Deactivate(id int64) error {
	n, err := r.db.Exec("UPDATE clients SET active = 0 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deactivating client %d: %w", id, err)
	}
	if n == 0 {
		return db.NotFound("client", id)
	}
	return nil
}
