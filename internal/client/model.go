// Package client provides the client (customer) domain model and data access.
package client

import (
	"time"

	"github.com/evcraddock/fieldlog/internal/db"
)

// Client is a customer served by technicians. The technician assignment is
// a weak reference: deactivating the technician leaves it in place.
type Client struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        *string   `json:"email,omitempty"`
	Phone        *string   `json:"phone,omitempty"`
	TechnicianID *int64    `json:"technician_id,omitempty"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`

	// TechnicianName is filled by List only.
	TechnicianName *string `json:"technician_name,omitempty"`
}

// ListOptions controls filtering for List.
type ListOptions struct {
	ActiveOnly   bool
	TechnicianID *int64 // nil = any assignment
}

// SaveParams holds the mutable client fields. A nil ID inserts a new client.
type SaveParams struct {
	ID           *int64
	Name         string
	Email        *string
	Phone        *string
	TechnicianID *int64
}

const selectColumns = `c.id, c.name, c.email, c.phone, c.technician_id, c.active, c.created_at`

func fromRow(r db.Row) *Client {
	return &Client{
		ID:           r.Int64("id"),
		Name:         r.String("name"),
		Email:        r.NullString("email"),
		Phone:        r.NullString("phone"),
		TechnicianID: r.NullInt64("technician_id"),
		Active:       r.Bool("active"),
		CreatedAt:    r.Time("created_at"),
	}
}
