package web

import (
	"net/http"
	"strings"

	"github.com/evcraddock/fieldlog/internal/report"
	"github.com/evcraddock/fieldlog/internal/settings"
)

// reportFilter parses technician_id, from and to.
func reportFilter(r *http.Request) (report.Filter, error) {
	techID, err := queryID(r, "technician_id")
	if err != nil {
		return report.Filter{}, err
	}
	rng, err := queryRange(r)
	if err != nil {
		return report.Filter{}, err
	}
	return report.Filter{TechnicianID: techID, Range: rng}, nil
}

func (s *Server) apiCoverage(w http.ResponseWriter, r *http.Request) {
	f, err := reportFilter(r)
	if err != nil {
		apiFail(w, r, err)
		return
	}
	rows, err := s.reports.ClientCoverage(f)
	if err != nil {
		apiFail(w, r, err)
		return
	}
	apiJSON(w, rows, http.StatusOK)
}

func (s *Server) apiUnserved(w http.ResponseWriter, r *http.Request) {
	f, err := reportFilter(r)
	if err != nil {
		apiFail(w, r, err)
		return
	}
	clients, err := s.reports.ClientsWithoutVisits(f)
	if err != nil {
		apiFail(w, r, err)
		return
	}
	apiJSON(w, clients, http.StatusOK)
}

// clientReportResponse adds the formatted total the views display.
type clientReportResponse struct {
	*report.ClientReport
	TotalFormatted string `json:"total_formatted"`
}

func (s *Server) apiClientReport(w http.ResponseWriter, r *http.Request) {
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
	rep, err := s.reports.ClientReport(id, rng)
	if err != nil {
		apiFail(w, r, err)
		return
	}
	apiJSON(w, clientReportResponse{ClientReport: rep, TotalFormatted: report.FormatDuration(rep.TotalMinutes)}, http.StatusOK)
}

func (s *Server) apiTechnicianSummary(w http.ResponseWriter, r *http.Request) {
	rng, err := queryRange(r)
	if err != nil {
		apiFail(w, r, err)
		return
	}
	loads, err := s.reports.TechnicianSummary(rng)
	if err != nil {
		apiFail(w, r, err)
		return
	}
	apiJSON(w, loads, http.StatusOK)
}

// smtpResponse never carries the password.
type smtpResponse struct {
	settings.SMTPConfig
	Configured bool `json:"configured"`
}

func (s *Server) apiGetSMTP(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.settings.SMTP()
	if err != nil {
		apiFail(w, r, err)
		return
	}
	configured := cfg.IsConfigured()
	cfg.Pass = ""
	apiJSON(w, smtpResponse{SMTPConfig: cfg, Configured: configured}, http.StatusOK)
}

// apiSaveSMTP stores the mail settings. An empty password keeps the one
// already stored, since reads never return it.
func (s *Server) apiSaveSMTP(w http.ResponseWriter, r *http.Request) {
	var req settings.SMTPConfig
	if err := decodeBody(r, &req); err != nil {
		apiFail(w, r, err)
		return
	}
	current, err := s.settings.SMTP()
	if err != nil {
		apiFail(w, r, err)
		return
	}
	if req.Pass == "" {
		req.Pass = current.Pass
	}
	req.Host = strings.TrimSpace(req.Host)
	req.User = strings.TrimSpace(req.User)

	if err := s.settings.SaveSMTP(req); err != nil {
		apiFail(w, r, err)
		return
	}
	s.apiGetSMTP(w, r)
}
