// Package pending tracks follow-up work: the pending item a visit may carry
// and standalone tasks assigned to technicians.
package pending

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/evcraddock/fieldlog/internal/task"
	"github.com/evcraddock/fieldlog/internal/visit"
)

// Outstanding counts follow-up work that has not been closed.
type Outstanding struct {
	OpenPending  int `json:"open_pending"`
	PendingTasks int `json:"pending_tasks"`
	Total        int `json:"total"`
}

// Tracker drives the visit pending and task state machines.
//
// The two counts in CountOutstanding come from separate reads and are not
// a snapshot: a write landing between them is visible in one count only.
// Transitions are single statements, so a failed call leaves the record in
// its previous state.
type Tracker struct {
	visits *visit.Repository
	tasks  *task.Repository
}

// NewTracker creates a tracker over the given repositories.
func NewTracker(visits *visit.Repository, tasks *task.Repository) *Tracker {
	return &Tracker{visits: visits, tasks: tasks}
}

// CountOutstanding returns unresolved visit pending items and uncompleted
// tasks. Visits and tasks are counted without joins.
func (t *Tracker) CountOutstanding() (Outstanding, error) {
	open, err := t.visits.CountOpenPending()
	if err != nil {
		return Outstanding{}, fmt.Errorf("counting outstanding work: %w", err)
	}
	tasks, err := t.tasks.CountPending()
	if err != nil {
		return Outstanding{}, fmt.Errorf("counting outstanding work: %w", err)
	}
	return Outstanding{OpenPending: open, PendingTasks: tasks, Total: open + tasks}, nil
}

// List returns visits carrying a pending item. Resolved items are included
// only when all is set.
func (t *Tracker) List(all bool) ([]*visit.Visit, error) {
	return t.visits.ListPending(!all)
}

// Resolve moves a visit's pending item from OPEN to RESOLVED.
func (t *Tracker) Resolve(visitID int64) error {
	if err := t.visits.ResolvePending(visitID); err != nil {
		return err
	}
	log.Info().Int64("visit_id", visitID).Msg("pending item resolved")
	return nil
}

// CompleteTask moves a task from PENDING to COMPLETED.
func (t *Tracker) CompleteTask(id int64) error {
	if err := t.tasks.Complete(id); err != nil {
		return err
	}
	log.Info().Int64("task_id", id).Msg("task completed")
	return nil
}

// DeleteTask removes a task from either state.
func (t *Tracker) DeleteTask(id int64) error {
	if err := t.tasks.Delete(id); err != nil {
		return err
	}
	log.Info().Int64("task_id", id).Msg("task deleted")
	return nil
}
