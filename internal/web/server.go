// Package web provides the JSON API over the field-service records.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/evcraddock/fieldlog/internal/auth"
	"github.com/evcraddock/fieldlog/internal/client"
	"github.com/evcraddock/fieldlog/internal/db"
	"github.com/evcraddock/fieldlog/internal/logging"
	"github.com/evcraddock/fieldlog/internal/pending"
	"github.com/evcraddock/fieldlog/internal/report"
	"github.com/evcraddock/fieldlog/internal/settings"
	"github.com/evcraddock/fieldlog/internal/task"
	"github.com/evcraddock/fieldlog/internal/technician"
	"github.com/evcraddock/fieldlog/internal/visit"
)

// Server is the JSON API HTTP server.
type Server struct {
	technicians *technician.Repository
	clients     *client.Repository
	visits      *visit.Repository
	tasks       *task.Repository
	settings    *settings.Store
	tracker     *pending.Tracker
	reports     *report.Engine
	router      chi.Router
}

// NewServer creates an API server over the given backend.
func NewServer(b db.Backend) *Server {
	s := &Server{
		technicians: technician.NewRepository(b),
		clients:     client.NewRepository(b),
		visits:      visit.NewRepository(b),
		tasks:       task.NewRepository(b),
		settings:    settings.NewStore(b),
	}
	s.tracker = pending.NewTracker(s.visits, s.tasks)
	s.reports = report.NewEngine(s.technicians, s.clients, s.visits)
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(logging.RequestLogger)
	r.Use(func(next http.Handler) http.Handler {
		return auth.RequirePhrase(s.settings, next)
	})

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Route("/technicians", func(r chi.Router) {
			r.Get("/", s.apiListTechnicians)
			r.Post("/", s.apiSaveTechnician)
			r.Get("/{id}", s.apiGetTechnician)
			r.Put("/{id}", s.apiSaveTechnician)
			r.Delete("/{id}", s.apiDeactivateTechnician)
		})

		r.Route("/clients", func(r chi.Router) {
			r.Get("/", s.apiListClients)
			r.Post("/", s.apiSaveClient)
			r.Get("/{id}", s.apiGetClient)
			r.Put("/{id}", s.apiSaveClient)
			r.Delete("/{id}", s.apiDeactivateClient)
			r.Get("/{id}/visits", s.apiListClientVisits)
		})

		r.Route("/visits", func(r chi.Router) {
			r.Post("/", s.apiSaveVisit)
			r.Get("/{id}", s.apiGetVisit)
			r.Put("/{id}", s.apiSaveVisit)
		})

		r.Get("/pending", s.apiListPending)
		r.Post("/pending/{id}/resolve", s.apiResolvePending)

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", s.apiListTasks)
			r.Post("/", s.apiSaveTask)
			r.Get("/{id}", s.apiGetTask)
			r.Put("/{id}", s.apiSaveTask)
			r.Delete("/{id}", s.apiDeleteTask)
			r.Post("/{id}/complete", s.apiCompleteTask)
		})

		r.Get("/outstanding", s.apiOutstanding)

		r.Route("/reports", func(r chi.Router) {
			r.Get("/coverage", s.apiCoverage)
			r.Get("/unserved", s.apiUnserved)
			r.Get("/clients/{id}", s.apiClientReport)
			r.Get("/technicians", s.apiTechnicianSummary)
		})

		r.Get("/settings/smtp", s.apiGetSMTP)
		r.Put("/settings/smtp", s.apiSaveSMTP)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		apiError(w, "not found", http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
	})

	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves the API on addr until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("starting API server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	log.Info().Msg("shutting down API server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	apiJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}
