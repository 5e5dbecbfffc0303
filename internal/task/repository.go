package task

import (
	"fmt"
	"strings"

	"github.com/evcraddock/fieldlog/internal/db"
)

// Repository provides CRUD and completion for tasks.
type Repository struct {
	db db.Backend
}

// NewRepository creates a task repository.
func NewRepository(b db.Backend) *Repository {
	return &Repository{db: b}
}

// Save updates the task identified by p.ID, or inserts a new pending task,
// and returns its ID. Completion state is never changed here.
// Callers must reject a blank description first.
func (r *Repository) Save(p SaveParams) (int64, error) {
	if p.ID != nil {
		n, err := r.db.Exec(
			`UPDATE tasks SET technician_id = ?, client_id = ?, description = ?, due_date = ?, due_time = ?
			 WHERE id = ?`,
			p.TechnicianID, p.ClientID, p.Description, p.DueDate, p.DueTime, *p.ID,
		)
		if err != nil {
			return 0, fmt.Errorf("updating task %d: %w", *p.ID, err)
		}
		if n == 0 {
			return 0, db.NotFound("task", *p.ID)
		}
		return *p.ID, nil
	}

	id, err := r.db.Insert(
		"INSERT INTO tasks (technician_id, client_id, description, due_date, due_time) VALUES (?, ?, ?, ?, ?)",
		p.TechnicianID, p.ClientID, p.Description, p.DueDate, p.DueTime,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting task: %w", err)
	}
	return id, nil
}

// Get returns a task by ID.
func (r *Repository) Get(id int64) (*Task, error) {
	rows, err := r.db.Query(selectJoined+" WHERE k.id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("querying task %d: %w", id, err)
	}
	if len(rows) == 0 {
		return nil, db.NotFound("task", id)
	}
	return fromRow(rows[0]), nil
}

// List returns tasks ordered by due date (undated last), due time and ID.
func (r *Repository) List(opts ListOptions) ([]*Task, error) {
	query := selectJoined
	var args []any
	var conditions []string

	if opts.TechnicianID != nil {
		conditions = append(conditions, "k.technician_id = ?")
		args = append(args, *opts.TechnicianID)
	}
	if !opts.IncludeCompleted {
		conditions = append(conditions, "k.completed = 0")
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY CASE WHEN k.due_date IS NULL THEN 1 ELSE 0 END, k.due_date,
		CASE WHEN k.due_time IS NULL THEN 1 ELSE 0 END, k.due_time, k.id`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}

	tasks := make([]*Task, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, fromRow(row))
	}
	return tasks, nil
}

// Complete marks a task completed. Completing it again keeps the original
// completion time.
func (r *Repository) Complete(id int64) error {
	n, err := r.db.Exec("UPDATE tasks SET completed = 1, completed_at = CURRENT_TIMESTAMP WHERE id = ? AND completed = 0", id)
	if err != nil {
		return fmt.Errorf("completing task %d: %w", id, err)
	}
	if n > 0 {
		return nil
	}

	rows, err := r.db.Query("SELECT id FROM tasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("querying task %d: %w", id, err)
	}
	if len(rows) == 0 {
		return db.NotFound("task", id)
	}
	return nil
}

// Delete removes a task, completed or not.
func (r *Repository) Delete(id int64) error {
	n, err := r.db.Exec("DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting task %d: %w", id, err)
	}
	if n == 0 {
		return db.NotFound("task", id)
	}
	return nil
}

// CountPending returns the number of tasks not yet completed.
func (r *Repository) CountPending() (int, error) {
	rows, err := r.db.Query("SELECT COUNT(*) AS n FROM tasks WHERE completed = 0")
	if err != nil {
		return 0, fmt.Errorf("counting pending tasks: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return int(rows[0].Int64("n")), nil
}
