// Package report aggregates visit records into coverage statistics and
// per-client reports. It only reads through the repositories.
package report

import (
	"fmt"

	"github.com/evcraddock/fieldlog/internal/client"
	"github.com/evcraddock/fieldlog/internal/technician"
	"github.com/evcraddock/fieldlog/internal/visit"
)

// Filter restricts statistics to one technician's assigned clients and to
// visits inside Range.
type Filter struct {
	TechnicianID *int64
	Range        visit.Range
}

// Coverage is the visit count and time spent for one client.
type Coverage struct {
	ClientID       int64   `json:"client_id"`
	ClientName     string  `json:"client_name"`
	TechnicianName *string `json:"technician_name,omitempty"`
	Visits         int     `json:"visits"`
	Minutes        int     `json:"minutes"`
}

// ClientReport is a client's visit history for a date range.
type ClientReport struct {
	Client       *client.Client `json:"client"`
	Range        visit.Range    `json:"range"`
	Visits       []*visit.Visit `json:"visits"`
	TotalMinutes int            `json:"total_minutes"`
}

// TechnicianLoad is the work one technician logged in a date range.
type TechnicianLoad struct {
	TechnicianID   int64  `json:"technician_id"`
	TechnicianName string `json:"technician_name"`
	Visits         int    `json:"visits"`
	Minutes        int    `json:"minutes"`
}

// Engine computes reports.
type Engine struct {
	technicians *technician.Repository
	clients     *client.Repository
	visits      *visit.Repository
}

// NewEngine creates a report engine over the given repositories.
func NewEngine(technicians *technician.Repository, clients *client.Repository, visits *visit.Repository) *Engine {
	return &Engine{technicians: technicians, clients: clients, visits: visits}
}

// ClientCoverage returns, for every active client matching f, the number of
// visits and minutes inside the range. Clients without visits are included
// with zero counts. Visits by any technician count toward the client.
// Results are ordered by client name.
func (e *Engine) ClientCoverage(f Filter) ([]Coverage, error) {
	clients, err := e.activeClients(f)
	if err != nil {
		return nil, fmt.Errorf("client coverage: %w", err)
	}
	visits, err := e.visits.ListInRange(f.Range)
	if err != nil {
		return nil, fmt.Errorf("client coverage: %w", err)
	}

	type tally struct{ visits, minutes int }
	byClient := make(map[int64]tally)
	for _, v := range visits {
		t := byClient[v.ClientID]
		t.visits++
		t.minutes += v.DurationMinutes
		byClient[v.ClientID] = t
	}

	out := make([]Coverage, 0, len(clients))
	for _, c := range clients {
		t := byClient[c.ID]
		out = append(out, Coverage{
			ClientID:       c.ID,
			ClientName:     c.Name,
			TechnicianName: c.TechnicianName,
			Visits:         t.visits,
			Minutes:        t.minutes,
		})
	}
	return out, nil
}

// ClientsWithoutVisits returns active clients matching f that have no visit
// inside the range, ordered by name.
func (e *Engine) ClientsWithoutVisits(f Filter) ([]*client.Client, error) {
	clients, err := e.activeClients(f)
	if err != nil {
		return nil, fmt.Errorf("clients without visits: %w", err)
	}
	visits, err := e.visits.ListInRange(f.Range)
	if err != nil {
		return nil, fmt.Errorf("clients without visits: %w", err)
	}

	served := make(map[int64]bool, len(visits))
	for _, v := range visits {
		served[v.ClientID] = true
	}

	out := make([]*client.Client, 0, len(clients))
	for _, c := range clients {
		if !served[c.ID] {
			out = append(out, c)
		}
	}
	return out, nil
}

// ClientReport returns one client's visits inside rng, newest first, with
// their total duration. Inactive clients are reported too.
func (e *Engine) ClientReport(clientID int64, rng visit.Range) (*ClientReport, error) {
	c, err := e.clients.Get(clientID)
	if err != nil {
		return nil, err
	}
	visits, err := e.visits.ListForClient(clientID, rng)
	if err != nil {
		return nil, fmt.Errorf("client report: %w", err)
	}
	return &ClientReport{
		Client:       c,
		Range:        rng,
		Visits:       visits,
		TotalMinutes: TotalDuration(visits),
	}, nil
}

// TechnicianSummary returns visit counts and minutes for every active
// technician inside rng, ordered by name. Technicians without visits are
// included with zero counts.
func (e *Engine) TechnicianSummary(rng visit.Range) ([]TechnicianLoad, error) {
	techs, err := e.technicians.List(true)
	if err != nil {
		return nil, fmt.Errorf("technician summary: %w", err)
	}
	visits, err := e.visits.ListInRange(rng)
	if err != nil {
		return nil, fmt.Errorf("technician summary: %w", err)
	}

	loads := make([]TechnicianLoad, len(techs))
	index := make(map[int64]int, len(techs))
	for i, t := range techs {
		loads[i] = TechnicianLoad{TechnicianID: t.ID, TechnicianName: t.Name}
		index[t.ID] = i
	}
	for _, v := range visits {
		i, ok := index[v.TechnicianID]
		if !ok {
			continue
		}
		loads[i].Visits++
		loads[i].Minutes += v.DurationMinutes
	}
	return loads, nil
}

func (e *Engine) activeClients(f Filter) ([]*client.Client, error) {
	return e.clients.List(client.ListOptions{ActiveOnly: true, TechnicianID: f.TechnicianID})
}
