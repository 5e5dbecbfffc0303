package visit

import (
	"fmt"
	"strings"

	"github.com/evcraddock/fieldlog/internal/db"
)

// Repository provides create, read and update for visits. Visits are never
// deleted.
type Repository struct {
	db db.Backend
}

// NewRepository creates a visit repository.
func NewRepository(b db.Backend) *Repository {
	return &Repository{db: b}
}

// Save updates the visit identified by p.ID in place, or inserts a new one,
// and returns its ID. Callers must reject blank work descriptions first.
//
// The pending item is normalized: when HasPending is false the description
// is stored as NULL and the resolved flag is cleared. Editing a visit that
// stays pending keeps its resolved flag. An unknown client or technician is
// reported as a db.ConstraintError.
func (r *Repository) Save(p SaveParams) (int64, error) {
	desc := p.PendingDescription
	if !p.HasPending {
		desc = nil
	}
	hasPending := flag(p.HasPending)

	if p.ID != nil {
		query := `UPDATE visits SET client_id = ?, technician_id = ?, attended_by = ?,
			visit_date = ?, start_time = ?, duration_minutes = ?, work_performed = ?,
			has_pending = ?, pending_description = ?`
		if !p.HasPending {
			query += ", pending_resolved = 0"
		}
		query += " WHERE id = ?"

		n, err := r.db.Exec(query,
			p.ClientID, p.TechnicianID, p.AttendedBy, p.Date, p.StartTime,
			p.DurationMinutes, p.WorkPerformed, hasPending, desc, *p.ID,
		)
		if err != nil {
			return 0, fmt.Errorf("updating visit %d: %w", *p.ID, err)
		}
		if n == 0 {
			return 0, db.NotFound("visit", *p.ID)
		}
		return *p.ID, nil
	}

	id, err := r.db.Insert(
		`INSERT INTO visits (client_id, technician_id, attended_by, visit_date, start_time,
			duration_minutes, work_performed, has_pending, pending_description)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ClientID, p.TechnicianID, p.AttendedBy, p.Date, p.StartTime,
		p.DurationMinutes, p.WorkPerformed, hasPending, desc,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting visit: %w", err)
	}
	return id, nil
}

// Get returns a visit with its client and technician names.
// A visit whose client or technician row no longer exists is reported as
// not found, matching the inner join used by every visit listing.
func (r *Repository) Get(id int64) (*Visit, error) {
	rows, err := r.db.Query(selectJoined+" WHERE v.id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("querying visit %d: %w", id, err)
	}
	if len(rows) == 0 {
		return nil, db.NotFound("visit", id)
	}
	return fromRow(rows[0]), nil
}

// ListForClient returns a client's visits inside rng, newest first.
func (r *Repository) ListForClient(clientID int64, rng Range) ([]*Visit, error) {
	return r.list("visits for client", []string{"v.client_id = ?"}, []any{clientID}, rng)
}

// ListForTechnician returns a technician's visits inside rng, newest first.
func (r *Repository) ListForTechnician(technicianID int64, rng Range) ([]*Visit, error) {
	return r.list("visits for technician", []string{"v.technician_id = ?"}, []any{technicianID}, rng)
}

// ListInRange returns every visit inside rng, newest first.
func (r *Repository) ListInRange(rng Range) ([]*Visit, error) {
	return r.list("visits", nil, nil, rng)
}

// ListPending returns visits carrying a pending item, newest first.
// With unresolvedOnly, resolved items are left out.
func (r *Repository) ListPending(unresolvedOnly bool) ([]*Visit, error) {
	conditions := []string{"v.has_pending = 1"}
	if unresolvedOnly {
		conditions = append(conditions, "v.pending_resolved = 0")
	}
	return r.list("pending visits", conditions, nil, Range{})
}

func (r *Repository) list(what string, conditions []string, args []any, rng Range) ([]*Visit, error) {
	if rng.From != "" {
		conditions = append(conditions, "v.visit_date >= ?")
		args = append(args, rng.From)
	}
	if rng.To != "" {
		conditions = append(conditions, "v.visit_date <= ?")
		args = append(args, rng.To)
	}

	query := selectJoined
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY v.visit_date DESC, v.start_time DESC, v.id DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", what, err)
	}

	visits := make([]*Visit, 0, len(rows))
	for _, row := range rows {
		visits = append(visits, fromRow(row))
	}
	return visits, nil
}

// ResolvePending marks the visit's pending item resolved. Resolving an
// already resolved item, or a visit without one, succeeds without change.
func (r *Repository) ResolvePending(id int64) error {
	n, err := r.db.Exec("UPDATE visits SET pending_resolved = 1 WHERE id = ? AND has_pending = 1", id)
	if err != nil {
		return fmt.Errorf("resolving pending item of visit %d: %w", id, err)
	}
	if n > 0 {
		return nil
	}

	rows, err := r.db.Query("SELECT id FROM visits WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("querying visit %d: %w", id, err)
	}
	if len(rows) == 0 {
		return db.NotFound("visit", id)
	}
	return nil
}

// CountOpenPending returns the number of unresolved pending items.
func (r *Repository) CountOpenPending() (int, error) {
	rows, err := r.db.Query("SELECT COUNT(*) AS n FROM visits WHERE has_pending = 1 AND pending_resolved = 0")
	if err != nil {
		return 0, fmt.Errorf("counting pending visits: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return int(rows[0].Int64("n")), nil
}

func flag(b bool) int {
	if b {
		return 1
	}
	return 0
}
