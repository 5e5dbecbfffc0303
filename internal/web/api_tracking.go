package web

import (
	"net/http"
	"strings"

	"github.com/evcraddock/fieldlog/internal/task"
)

func (s *Server) apiListPending(w http.ResponseWriter, r *http.Request) {
	visits, err := s.tracker.List(queryAll(r))
	if err != nil {
		apiFail(w, r, err)
		return
	}
	apiJSON(w, visits, http.StatusOK)
}

func (s *Server) apiResolvePending(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		apiFail(w, r, err)
		return
	}
	if err := s.tracker.Resolve(id); err != nil {
		apiFail(w, r, err)
		return
	}
	v, err := s.visits.Get(id)
	if err != nil {
		apiFail(w, r, err)
		return
	}
	apiJSON(w, v, http.StatusOK)
}

type taskRequest struct {
	TechnicianID int64   `json:"technician_id"`
	ClientID     *int64  `json:"client_id"`
	Description  string  `json:"description"`
	DueDate      *string `json:"due_date"`
	DueTime      *string `json:"due_time"`
}

func (s *Server) apiListTasks(w http.ResponseWriter, r *http.Request) {
	techID, err := queryID(r, "technician_id")
	if err != nil {
		apiFail(w, r, err)
		return
	}
	tasks, err := s.tasks.List(task.ListOptions{TechnicianID: techID, IncludeCompleted: queryAll(r)})
	if err != nil {
		apiFail(w, r, err)
		return
	}
	apiJSON(w, tasks, http.StatusOK)
}

func (s *Server) apiGetTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		apiFail(w, r, err)
		return
	}
	t, err := s.tasks.Get(id)
	if err != nil {
		apiFail(w, r, err)
		return
	}
	apiJSON(w, t, http.StatusOK)
}

// apiSaveTask handles POST /api/tasks and PUT /api/tasks/{id}.
func (s *Server) apiSaveTask(w http.ResponseWriter, r *http.Request) {
	id, err := optionalPathID(r)
	if err != nil {
		apiFail(w, r, err)
		return
	}
	var req taskRequest
	if err := decodeBody(r, &req); err != nil {
		apiFail(w, r, err)
		return
	}
	p := task.SaveParams{
		ID:           id,
		TechnicianID: req.TechnicianID,
		ClientID:     req.ClientID,
		Description:  strings.TrimSpace(req.Description),
		DueDate:      optional(req.DueDate),
		DueTime:      optional(req.DueTime),
	}
	if err := p.Validate(); err != nil {
		apiFail(w, r, err)
		return
	}

	saved, err := s.tasks.Save(p)
	if err != nil {
		apiFail(w, r, err)
		return
	}
	t, err := s.tasks.Get(saved)
	if err != nil {
		apiFail(w, r, err)
		return
	}
	apiJSON(w, t, savedStatus(id))
}

func (s *Server) apiCompleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		apiFail(w, r, err)
		return
	}
	if err := s.tracker.CompleteTask(id); err != nil {
		apiFail(w, r, err)
		return
	}
	t, err := s.tasks.Get(id)
	if err != nil {
		apiFail(w, r, err)
		return
	}
	apiJSON(w, t, http.StatusOK)
}

func (s *Server) apiDeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		apiFail(w, r, err)
		return
	}
	if err := s.tracker.DeleteTask(id); err != nil {
		apiFail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) apiOutstanding(w http.ResponseWriter, r *http.Request) {
	out, err := s.tracker.CountOutstanding()
	if err != nil {
		apiFail(w, r, err)
		return
	}
	apiJSON(w, out, http.StatusOK)
}
