package web

import (
	"net/http"
	"strings"

	"github.com/evcraddock/fieldlog/internal/client"
	"github.com/evcraddock/fieldlog/internal/technician"
	"github.com/evcraddock/fieldlog/internal/visit"
)

type technicianRequest struct {
	Name  string  `json:"name"`
	Email *string `json:"email"`
}

func (s *Server) apiListTechnicians(w http.ResponseWriter, r *http.Request) {
	techs, err := s.technicians.List(!queryAll(r))
	if err != nil {
		apiFail(w, r, err)
		return
	}
	apiJSON(w, techs, http.StatusOK)
}

func (s *Server) apiGetTechnician(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		apiFail(w, r, err)
		return
	}
	tech, err := s.technicians.Get(id)
	if err != nil {
		apiFail(w, r, err)
		return
	}
	apiJSON(w, tech, http.StatusOK)
}

// apiSaveTechnician handles POST /api/technicians and PUT /api/technicians/{id}.
func (s *Server) apiSaveTechnician(w http.ResponseWriter, r *http.Request) {
	id, err := optionalPathID(r)
	if err != nil {
		apiFail(w, r, err)
		return
	}
	var req technicianRequest
	if err := decodeBody(r, &req); err != nil {
		apiFail(w, r, err)
		return
	}
	if err := technician.ValidateName(req.Name); err != nil {
		apiFail(w, r, err)
		return
	}

	saved, err := s.technicians.Save(strings.TrimSpace(req.Name), optional(req.Email), id)
	if err != nil {
		apiFail(w, r, err)
		return
	}
	tech, err := s.technicians.Get(saved)
	if err != nil {
		apiFail(w, r, err)
		return
	}
	apiJSON(w, tech, savedStatus(id))
}

func (s *Server) apiDeactivateTechnician(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		apiFail(w, r, err)
		return
	}
	if err := s.technicians.Deactivate(id); err != nil {
		apiFail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type clientRequest struct {
	Name         string  `json:"name"`
	Email        *string `json:"email"`
	Phone        *string `json:"phone"`
	TechnicianID *int64  `json:"technician_id"`
}

func (s *Server) apiListClients(w http.ResponseWriter, r *http.Request) {
	techID, err := queryID(r, "technician_id")
	if err != nil {
		apiFail(w, r, err)
		return
	}
	clients, err := s.clients.List(client.ListOptions{ActiveOnly: !queryAll(r), TechnicianID: techID})
	if err != nil {
		apiFail(w, r, err)
		return
	}
	apiJSON(w, clients, http.StatusOK)
}

func (s *Server) apiGetClient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		apiFail(w, r, err)
		return
	}
	c, err := s.clients.Get(id)
	if err != nil {
		apiFail(w, r, err)
		return
	}
	apiJSON(w, c, http.StatusOK)
}

// apiSaveClient handles POST /api/clients and PUT /api/clients/{id}.
func (s *Server) apiSaveClient(w http.ResponseWriter, r *http.Request) {
	id, err := optionalPathID(r)
	if err != nil {
		apiFail(w, r, err)
		return
	}
	var req clientRequest
	if err := decodeBody(r, &req); err != nil {
		apiFail(w, r, err)
		return
	}
	p := client.SaveParams{
		ID:           id,
		Name:         strings.TrimSpace(req.Name),
		Email:        optional(req.Email),
		Phone:        optional(req.Phone),
		TechnicianID: req.TechnicianID,
	}
	if err := p.Validate(); err != nil {
		apiFail(w, r, err)
		return
	}

	saved, err := s.clients.Save(p)
	if err != nil {
		apiFail(w, r, err)
		return
	}
	c, err := s.clients.Get(saved)
	if err != nil {
		apiFail(w, r, err)
		return
	}
	apiJSON(w, c, savedStatus(id))
}

func (s *Server) apiDeactivateClient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		apiFail(w, r, err)
		return
	}
	if err := s.clients.Deactivate(id); err != nil {
		apiFail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) apiListClientVisits(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		apiFail(w, r, err)
		return
	}
	rng, err := queryRange(r)
	if err != nil {
		apiFail(w, r, err)
		return
	}
	if _, err := s.clients.Get(id); err != nil {
		apiFail(w, r, err)
		return
	}
	visits, err := s.visits.ListForClient(id, rng)
	if err != nil {
		apiFail(w, r, err)
		return
	}
	apiJSON(w, visits, http.StatusOK)
}

type visitRequest struct {
	ClientID           int64   `json:"client_id"`
	TechnicianID       int64   `json:"technician_id"`
	AttendedBy         *string `json:"attended_by"`
	Date               string  `json:"date"`
	StartTime          string  `json:"start_time"`
	DurationMinutes    int     `json:"duration_minutes"`
	WorkPerformed      string  `json:"work_performed"`
	HasPending         bool    `json:"has_pending"`
	PendingDescription *string `json:"pending_description"`
}

// apiSaveVisit handles POST /api/visits and PUT /api/visits/{id}.
func (s *Server) apiSaveVisit(w http.ResponseWriter, r *http.Request) {
	id, err := optionalPathID(r)
	if err != nil {
		apiFail(w, r, err)
		return
	}
	var req visitRequest
	if err := decodeBody(r, &req); err != nil {
		apiFail(w, r, err)
		return
	}
	p := visit.SaveParams{
		ID:                 id,
		ClientID:           req.ClientID,
		TechnicianID:       req.TechnicianID,
		AttendedBy:         optional(req.AttendedBy),
		Date:               req.Date,
		StartTime:          req.StartTime,
		DurationMinutes:    req.DurationMinutes,
		WorkPerformed:      strings.TrimSpace(req.WorkPerformed),
		HasPending:         req.HasPending,
		PendingDescription: optional(req.PendingDescription),
	}
	if err := p.Validate(); err != nil {
		apiFail(w, r, err)
		return
	}

	saved, err := s.visits.Save(p)
	if err != nil {
		apiFail(w, r, err)
		return
	}
	v, err := s.visits.Get(saved)
	if err != nil {
		apiFail(w, r, err)
		return
	}
	apiJSON(w, v, savedStatus(id))
}

func (s *Server) apiGetVisit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
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
