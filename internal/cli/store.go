package cli

import (
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/evcraddock/fieldlog/internal/client"
	"github.com/evcraddock/fieldlog/internal/db"
	"github.com/evcraddock/fieldlog/internal/pending"
	"github.com/evcraddock/fieldlog/internal/report"
	"github.com/evcraddock/fieldlog/internal/settings"
	"github.com/evcraddock/fieldlog/internal/task"
	"github.com/evcraddock/fieldlog/internal/technician"
	"github.com/evcraddock/fieldlog/internal/visit"
)

// store bundles the repositories a command needs over one backend.
type store struct {
	backend     db.Backend
	technicians *technician.Repository
	clients     *client.Repository
	visits      *visit.Repository
	tasks       *task.Repository
	settings    *settings.Store
	tracker     *pending.Tracker
	reports     *report.Engine
}

// openStore opens the configured backend.
func openStore() (*store, error) {
	b, err := db.Open(cfg.DBOptions())
	if err != nil {
		return nil, err
	}

	s := &store{
		backend:     b,
		technicians: technician.NewRepository(b),
		clients:     client.NewRepository(b),
		visits:      visit.NewRepository(b),
		tasks:       task.NewRepository(b),
		settings:    settings.NewStore(b),
	}
	s.tracker = pending.NewTracker(s.visits, s.tasks)
	s.reports = report.NewEngine(s.technicians, s.clients, s.visits)
	return s, nil
}

// close closes the backend, logging any error.
func (s *store) close() {
	if err := s.backend.Close(); err != nil {
		log.Warn().Err(err).Msg("closing database")
	}
}

// parseID parses a positional record ID.
func parseID(kind, arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s ID: %s", kind, arg)
	}
	return id, nil
}

// optionalString maps an empty flag value to nil.
func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// optionalID maps a zero flag value to nil.
func optionalID(id int64) *int64 {
	if id == 0 {
		return nil
	}
	return &id
}
