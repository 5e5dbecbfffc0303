package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/evcraddock/fieldlog/internal/db"
	"github.com/evcraddock/fieldlog/internal/visit"
)

// apiError writes a JSON error response.
func apiError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	resp := map[string]string{"error": msg}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, `{"error":"encode failed"}`, http.StatusInternalServerError)
	}
}

// apiJSON writes a JSON response with the given status code.
func apiJSON(w http.ResponseWriter, data any, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, `{"error":"encode failed"}`, http.StatusInternalServerError)
	}
}

// apiFail maps an engine error to its status code. Storage failures are
// logged and reported without driver detail.
func apiFail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, db.ErrValidation):
		apiError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, db.ErrNotFound):
		apiError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, db.ErrConstraint):
		apiError(w, "request conflicts with existing records", http.StatusConflict)
	default:
		log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
		apiError(w, "internal error", http.StatusInternalServerError)
	}
}

// decodeBody reads a JSON request body into v.
func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return db.Invalid("invalid JSON body")
	}
	return nil
}

// pathID parses the {id} route parameter.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, db.Invalid("invalid ID %q", chi.URLParam(r, "id"))
	}
	return id, nil
}

// optionalPathID returns nil on routes without an {id} parameter.
func optionalPathID(r *http.Request) (*int64, error) {
	if chi.URLParam(r, "id") == "" {
		return nil, nil
	}
	id, err := pathID(r)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// queryID parses an optional integer query parameter.
func queryID(r *http.Request, name string) (*int64, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil, db.Invalid("%s must be an integer", name)
	}
	return &id, nil
}

// queryAll reports whether ?all=true was passed.
func queryAll(r *http.Request) bool {
	return r.URL.Query().Get("all") == "true"
}

// queryRange parses the from and to query parameters.
func queryRange(r *http.Request) (visit.Range, error) {
	q := r.URL.Query()
	return visit.ParseRange(q.Get("from"), q.Get("to"))
}

// optional trims s and maps blank to nil.
func optional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// savedStatus is 201 for a new record and 200 for an update.
func savedStatus(id *int64) int {
	if id == nil {
		return http.StatusCreated
	}
	return http.StatusOK
}
