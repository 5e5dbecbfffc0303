// Package visit provides the service visit domain model and data access,
// including the pending follow-up item a visit may carry.
package visit

import (
	"time"

	"github.com/evcraddock/fieldlog/internal/db"
)

// PendingState is where a visit's embedded follow-up item stands.
// NONE and RESOLVED are terminal: a resolved item cannot be reopened.
type PendingState string

const (
	PendingNone     PendingState = "none"
	PendingOpen     PendingState = "open"
	PendingResolved PendingState = "resolved"
)

// Visit is one service event performed by a technician for a client.
type Visit struct {
	ID                 int64     `json:"id"`
	ClientID           int64     `json:"client_id"`
	TechnicianID       int64     `json:"technician_id"`
	AttendedBy         *string   `json:"attended_by,omitempty"`
	Date               string    `json:"date"`       // YYYY-MM-DD
	StartTime          string    `json:"start_time"` // HH:MM, 24-hour
	DurationMinutes    int       `json:"duration_minutes"`
	WorkPerformed      string    `json:"work_performed"`
	HasPending         bool      `json:"has_pending"`
	PendingDescription *string   `json:"pending_description,omitempty"`
	PendingResolved    bool      `json:"pending_resolved"`
	CreatedAt          time.Time `json:"created_at"`

	ClientName     string  `json:"client_name"`
	ClientEmail    *string `json:"client_email,omitempty"`
	TechnicianName string  `json:"technician_name"`
}

// PendingState classifies the visit's follow-up item.
func (v *Visit) PendingState() PendingState {
	switch {
	case !v.HasPending:
		return PendingNone
	case v.PendingResolved:
		return PendingResolved
	default:
		return PendingOpen
	}
}

// SaveParams holds the fields written by Save. A nil ID inserts a new visit.
type SaveParams struct {
	ID                 *int64
	ClientID           int64
	TechnicianID       int64
	AttendedBy         *string
	Date               string
	StartTime          string
	DurationMinutes    int
	WorkPerformed      string
	HasPending         bool
	PendingDescription *string
}

// Range is an inclusive date range compared as strings. Dates must be
// zero-padded YYYY-MM-DD; malformed bounds silently give wrong results.
// An empty bound is open.
type Range struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

// Contains reports whether date falls inside the range.
func (r Range) Contains(date string) bool {
	if r.From != "" && date < r.From {
		return false
	}
	if r.To != "" && date > r.To {
		return false
	}
	return true
}

const selectJoined = `SELECT v.id, v.client_id, v.technician_id, v.attended_by, v.visit_date,
		v.start_time, v.duration_minutes, v.work_performed, v.has_pending,
		v.pending_description, v.pending_resolved, v.created_at,
		c.name AS client_name, c.email AS client_email, t.name AS technician_name
	FROM visits v
	JOIN clients c ON v.client_id = c.id
	JOIN technicians t ON v.technician_id = t.id`

func fromRow(r db.Row) *Visit {
	return &Visit{
		ID:                 r.Int64("id"),
		ClientID:           r.Int64("client_id"),
		TechnicianID:       r.Int64("technician_id"),
		AttendedBy:         r.NullString("attended_by"),
		Date:               r.String("visit_date"),
		StartTime:          r.String("start_time"),
		DurationMinutes:    int(r.Int64("duration_minutes")),
		WorkPerformed:      r.String("work_performed"),
		HasPending:         r.Bool("has_pending"),
		PendingDescription: r.NullString("pending_description"),
		PendingResolved:    r.Bool("pending_resolved"),
		CreatedAt:          r.Time("created_at"),
		ClientName:         r.String("client_name"),
		ClientEmail:        r.NullString("client_email"),
		TechnicianName:     r.String("technician_name"),
	}
}
