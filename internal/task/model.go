// Package task provides standalone to-do items owned by a technician.
package task

import (
	"time"

	"github.com/evcraddock/fieldlog/internal/db"
)

// State is a task's lifecycle position. Completion is one-way; deletion
// removes the row from either state.
type State string

const (
	StatePending   State = "pending"
	StateCompleted State = "completed"
)

// Task is a to-do not tied to a specific visit.
type Task struct {
	ID           int64      `json:"id"`
	TechnicianID int64      `json:"technician_id"`
	ClientID     *int64     `json:"client_id,omitempty"`
	Description  string     `json:"description"`
	DueDate      *string    `json:"due_date,omitempty"` // YYYY-MM-DD
	DueTime      *string    `json:"due_time,omitempty"` // HH:MM
	Completed    bool       `json:"completed"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`

	TechnicianName string  `json:"technician_name"`
	ClientName     *string `json:"client_name,omitempty"`
}

// State classifies the task.
func (t *Task) State() State {
	if t.Completed {
		return StateCompleted
	}
	return StatePending
}

// SaveParams holds the fields written by Save. A nil ID inserts a new task.
type SaveParams struct {
	ID           *int64
	TechnicianID int64
	ClientID     *int64
	Description  string
	DueDate      *string
	DueTime      *string
}

// ListOptions controls filtering for List.
type ListOptions struct {
	TechnicianID     *int64 // nil = every technician
	IncludeCompleted bool
}

const selectJoined = `SELECT k.id, k.technician_id, k.client_id, k.description, k.due_date,
		k.due_time, k.completed, k.completed_at, k.created_at,
		t.name AS technician_name, c.name AS client_name
	FROM tasks k
	JOIN technicians t ON k.technician_id = t.id
	LEFT JOIN clients c ON k.client_id = c.id`

func fromRow(r db.Row) *Task {
	return &Task{
		ID:             r.Int64("id"),
		TechnicianID:   r.Int64("technician_id"),
		ClientID:       r.NullInt64("client_id"),
		Description:    r.String("description"),
		DueDate:        r.NullString("due_date"),
		DueTime:        r.NullString("due_time"),
		Completed:      r.Bool("completed"),
		CompletedAt:    r.NullTime("completed_at"),
		CreatedAt:      r.Time("created_at"),
		TechnicianName: r.String("technician_name"),
		ClientName:     r.NullString("client_name"),
	}
}
