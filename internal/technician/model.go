// Package technician provides the technician domain model and data access.
package technician

import (
	"time"

	"github.com/evcraddock/fieldlog/internal/db"
)

// Technician performs visits and owns tasks. Technicians are never removed;
// deactivation hides them from active lists while historical visits keep
// referencing them.
type Technician struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     *string   `json:"email,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

const selectColumns = `id, name, email, active, created_at`

func fromRow(r db.Row) *Technician {
	return &Technician{
		ID:        r.Int64("id"),
		Name:      r.String("name"),
		Email:     r.NullString("email"),
		Active:    r.Bool("active"),
		CreatedAt: r.Time("created_at"),
	}
}
