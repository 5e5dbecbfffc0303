package report

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evcraddock/fieldlog/internal/client"
	"github.com/evcraddock/fieldlog/internal/db"
	"github.com/evcraddock/fieldlog/internal/technician"
	"github.com/evcraddock/fieldlog/internal/visit"
)

var march = visit.Range{From: "2024-03-01", To: "2024-03-31"}

type fixture struct {
	engine      *Engine
	technicians *technician.Repository
	clients     *client.Repository
	visits      *visit.Repository
}

func (f *fixture) addTechnician(t *testing.T, name string) int64 {
	t.Helper()
	id, err := f.technicians.Save(name, nil, nil)
	require.NoError(t, err)
	return id
}

func (f *fixture) addClient(t *testing.T, name string, tech *int64) int64 {
	t.Helper()
	id, err := f.clients.Save(client.SaveParams{Name: name, TechnicianID: tech})
	require.NoError(t, err)
	return id
}

func (f *fixture) addVisit(t *testing.T, clientID, techID int64, date string, minutes int) int64 {
	t.Helper()
	id, err := f.visits.Save(visit.SaveParams{
		ClientID:        clientID,
		TechnicianID:    techID,
		Date:            date,
		StartTime:       "10:00",
		DurationMinutes: minutes,
		WorkPerformed:   "service",
	})
	require.NoError(t, err)
	return id
}

func TestClientsWithoutVisits(t *testing.T) {
	f := testSetup(t)
	tech := f.addTechnician(t, "Ana")

	a := f.addClient(t, "A", &tech)
	b := f.addClient(t, "B", &tech)
	c := f.addClient(t, "C", &tech)
	f.addVisit(t, a, tech, "2024-03-15", 30)
	f.addVisit(t, b, tech, "2024-02-28", 30)

	got, err := f.engine.ClientsWithoutVisits(Filter{Range: march})
	require.NoError(t, err)
	assert.Equal(t, []int64{b, c}, clientIDs(got))
}

func TestClientsWithoutVisitsFilters(t *testing.T) {
	f := testSetup(t)
	ana := f.addTechnician(t, "Ana")
	luis := f.addTechnician(t, "Luis")

	f.addClient(t, "Zeta", &ana)
	beta := f.addClient(t, "Beta", &luis)
	alpha := f.addClient(t, "Alpha", &ana)
	gone := f.addClient(t, "Gone", &ana)
	require.NoError(t, f.clients.Deactivate(gone))

	// A visit by another technician still counts as served.
	omega := f.addClient(t, "Omega", &ana)
	f.addVisit(t, omega, luis, "2024-03-02", 15)

	got, err := f.engine.ClientsWithoutVisits(Filter{TechnicianID: &ana, Range: march})
	require.NoError(t, err)
	names := make([]string, 0, len(got))
	for _, c := range got {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Alpha", "Zeta"}, names)

	all, err := f.engine.ClientsWithoutVisits(Filter{})
	require.NoError(t, err)
	assert.Equal(t, []int64{alpha, beta}, clientIDs(all)[:2])
	assert.Len(t, all, 3)
}

func TestClientCoverage(t *testing.T) {
	f := testSetup(t)
	ana := f.addTechnician(t, "Ana")
	luis := f.addTechnician(t, "Luis")

	acme := f.addClient(t, "Acme", &ana)
	globex := f.addClient(t, "Globex", &luis)
	initech := f.addClient(t, "Initech", nil)
	hooli := f.addClient(t, "Hooli", &ana)
	require.NoError(t, f.clients.Deactivate(hooli))

	f.addVisit(t, acme, ana, "2024-03-01", 45)
	f.addVisit(t, acme, luis, "2024-03-31", 80)
	f.addVisit(t, acme, ana, "2024-04-01", 500)
	f.addVisit(t, globex, luis, "2024-02-29", 60)
	f.addVisit(t, hooli, ana, "2024-03-10", 30)

	got, err := f.engine.ClientCoverage(Filter{Range: march})
	require.NoError(t, err)

	anaName, luisName := "Ana", "Luis"
	assert.Equal(t, []Coverage{
		{ClientID: acme, ClientName: "Acme", TechnicianName: &anaName, Visits: 2, Minutes: 125},
		{ClientID: globex, ClientName: "Globex", TechnicianName: &luisName, Visits: 0, Minutes: 0},
		{ClientID: initech, ClientName: "Initech", Visits: 0, Minutes: 0},
	}, got)

	t.Run("technician filter", func(t *testing.T) {
		got, err := f.engine.ClientCoverage(Filter{TechnicianID: &luis, Range: march})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, globex, got[0].ClientID)
		assert.Zero(t, got[0].Visits)
	})

	t.Run("open range", func(t *testing.T) {
		got, err := f.engine.ClientCoverage(Filter{})
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, 3, got[0].Visits)
		assert.Equal(t, 625, got[0].Minutes)
		assert.Equal(t, 1, got[1].Visits)
	})
}

func TestClientCoverageIsDeterministic(t *testing.T) {
	f := testSetup(t)
	tech := f.addTechnician(t, "Ana")
	for _, name := range []string{"Carla", "Bruno", "Ana", "Bruno"} {
		f.addClient(t, name, &tech)
	}

	first, err := f.engine.ClientCoverage(Filter{Range: march})
	require.NoError(t, err)
	second, err := f.engine.ClientCoverage(Filter{Range: march})
	require.NoError(t, err)
	assert.Equal(t, first, second)

	var names []string
	for _, c := range first {
		names = append(names, c.ClientName)
	}
	assert.Equal(t, []string{"Ana", "Bruno", "Bruno", "Carla"}, names)
}

func TestClientReport(t *testing.T) {
	f := testSetup(t)
	tech := f.addTechnician(t, "Ana")
	acme := f.addClient(t, "Acme", &tech)
	other := f.addClient(t, "Globex", &tech)

	older := f.addVisit(t, acme, tech, "2024-03-02", 45)
	newer := f.addVisit(t, acme, tech, "2024-03-20", 80)
	f.addVisit(t, acme, tech, "2024-05-01", 10)
	f.addVisit(t, other, tech, "2024-03-05", 99)
	require.NoError(t, f.clients.Deactivate(acme))

	rep, err := f.engine.ClientReport(acme, march)
	require.NoError(t, err)
	assert.Equal(t, "Acme", rep.Client.Name)
	assert.Equal(t, march, rep.Range)
	require.Len(t, rep.Visits, 2)
	assert.Equal(t, newer, rep.Visits[0].ID)
	assert.Equal(t, older, rep.Visits[1].ID)
	assert.Equal(t, 125, rep.TotalMinutes)

	_, err = f.engine.ClientReport(9999, march)
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestTechnicianSummary(t *testing.T) {
	f := testSetup(t)
	luis := f.addTechnician(t, "Luis")
	ana := f.addTechnician(t, "Ana")
	retired := f.addTechnician(t, "Bea")
	acme := f.addClient(t, "Acme", nil)

	f.addVisit(t, acme, ana, "2024-03-01", 30)
	f.addVisit(t, acme, ana, "2024-03-02", 45)
	f.addVisit(t, acme, luis, "2024-04-02", 60)
	f.addVisit(t, acme, retired, "2024-03-03", 15)
	require.NoError(t, f.technicians.Deactivate(retired))

	got, err := f.engine.TechnicianSummary(march)
	require.NoError(t, err)
	assert.Equal(t, []TechnicianLoad{
		{TechnicianID: ana, TechnicianName: "Ana", Visits: 2, Minutes: 75},
		{TechnicianID: luis, TechnicianName: "Luis", Visits: 0, Minutes: 0},
	}, got)
}

func clientIDs(clients []*client.Client) []int64 {
	ids := make([]int64, 0, len(clients))
	for _, c := range clients {
		ids = append(ids, c.ID)
	}
	return ids
}

func testSetup(t *testing.T) *fixture {
	t.Helper()
	d, err := db.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "open db")
	t.Cleanup(func() {
		assert.NoError(t, d.Close(), "close db")
	})

	f := &fixture{
		technicians: technician.NewRepository(d),
		clients:     client.NewRepository(d),
		visits:      visit.NewRepository(d),
	}
	f.engine = NewEngine(f.technicians, f.clients, f.visits)
	return f
}
