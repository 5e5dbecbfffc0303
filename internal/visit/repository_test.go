package visit

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evcraddock/fieldlog/internal/client"
	"github.com/evcraddock/fieldlog/internal/db"
)

type fixture struct {
	repo    *Repository
	clients *client.Repository
	techID  int64
	client1 int64
	client2 int64
}

func strPtr(s string) *string { return &s }

func (f *fixture) save(t *testing.T, p SaveParams) int64 {
	t.Helper()
	if p.ClientID == 0 {
		p.ClientID = f.client1
	}
	if p.TechnicianID == 0 {
		p.TechnicianID = f.techID
	}
	if p.StartTime == "" {
		p.StartTime = "09:00"
	}
	if p.WorkPerformed == "" {
		p.WorkPerformed = "routine check"
	}
	id, err := f.repo.Save(p)
	require.NoError(t, err)
	return id
}

func TestSaveAndGet(t *testing.T) {
	f := testSetup(t)

	id, err := f.repo.Save(SaveParams{
		ClientID:        f.client1,
		TechnicianID:    f.techID,
		AttendedBy:      strPtr("Marta"),
		Date:            "2024-03-01",
		StartTime:       "14:30",
		DurationMinutes: 45,
		WorkPerformed:   "replaced toner",
	})
	require.NoError(t, err)
	assert.NotZero(t, id)

	v, err := f.repo.Get(id)
	require.NoError(t, err)
	assert.Equal(t, id, v.ID)
	assert.Equal(t, f.client1, v.ClientID)
	assert.Equal(t, f.techID, v.TechnicianID)
	assert.Equal(t, "Marta", *v.AttendedBy)
	assert.Equal(t, "2024-03-01", v.Date)
	assert.Equal(t, "14:30", v.StartTime)
	assert.Equal(t, 45, v.DurationMinutes)
	assert.Equal(t, "replaced toner", v.WorkPerformed)
	assert.False(t, v.HasPending)
	assert.Equal(t, PendingNone, v.PendingState())
	assert.False(t, v.CreatedAt.IsZero())

	assert.Equal(t, "Acme", v.ClientName)
	assert.Equal(t, "it@acme.test", *v.ClientEmail)
	assert.Equal(t, "Ana", v.TechnicianName)
}

func TestSaveNormalizesPendingFields(t *testing.T) {
	tests := []struct {
		name     string
		params   SaveParams
		wantDesc *string
		want     PendingState
	}{
		{
			name:   "no pending drops description",
			params: SaveParams{Date: "2024-03-01", HasPending: false, PendingDescription: strPtr("ignored")},
			want:   PendingNone,
		},
		{
			name:   "no pending and no description",
			params: SaveParams{Date: "2024-03-01"},
			want:   PendingNone,
		},
		{
			name:     "pending keeps description",
			params:   SaveParams{Date: "2024-03-01", HasPending: true, PendingDescription: strPtr("order part")},
			wantDesc: strPtr("order part"),
			want:     PendingOpen,
		},
	}

	f := testSetup(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := f.save(t, tt.params)

			v, err := f.repo.Get(id)
			require.NoError(t, err)
			assert.Equal(t, tt.params.HasPending, v.HasPending)
			assert.Equal(t, tt.wantDesc, v.PendingDescription)
			assert.False(t, v.PendingResolved)
			assert.Equal(t, tt.want, v.PendingState())
		})
	}
}

func TestEditClearingPendingResetsResolved(t *testing.T) {
	f := testSetup(t)

	id := f.save(t, SaveParams{Date: "2024-03-01", HasPending: true, PendingDescription: strPtr("call back")})
	require.NoError(t, f.repo.ResolvePending(id))

	f.save(t, SaveParams{ID: &id, Date: "2024-03-01", HasPending: false, PendingDescription: strPtr("call back")})

	v, err := f.repo.Get(id)
	require.NoError(t, err)
	assert.False(t, v.HasPending)
	assert.False(t, v.PendingResolved)
	assert.Nil(t, v.PendingDescription)
}

func TestEditKeepingPendingKeepsResolved(t *testing.T) {
	f := testSetup(t)

	id := f.save(t, SaveParams{Date: "2024-03-01", HasPending: true, PendingDescription: strPtr("call back")})
	require.NoError(t, f.repo.ResolvePending(id))

	got := f.save(t, SaveParams{
		ID:                 &id,
		Date:               "2024-03-02",
		DurationMinutes:    90,
		WorkPerformed:      "corrected notes",
		HasPending:         true,
		PendingDescription: strPtr("call back tomorrow"),
	})
	assert.Equal(t, id, got)

	v, err := f.repo.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-02", v.Date)
	assert.Equal(t, 90, v.DurationMinutes)
	assert.Equal(t, "corrected notes", v.WorkPerformed)
	assert.Equal(t, "call back tomorrow", *v.PendingDescription)
	assert.Equal(t, PendingResolved, v.PendingState())
}

func TestSaveUnknownReferences(t *testing.T) {
	f := testSetup(t)

	tests := []struct {
		name         string
		clientID     int64
		technicianID int64
	}{
		{"unknown client", 9999, f.techID},
		{"unknown technician", f.client1, 9999},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.repo.Save(SaveParams{
				ClientID:      tt.clientID,
				TechnicianID:  tt.technicianID,
				Date:          "2024-03-01",
				StartTime:     "09:00",
				WorkPerformed: "x",
			})
			require.Error(t, err)
			assert.ErrorIs(t, err, db.ErrConstraint)
		})
	}

	visits, err := f.repo.ListInRange(Range{})
	require.NoError(t, err)
	assert.Empty(t, visits, "rejected visits must not be stored")
}

func TestSaveUnknownID(t *testing.T) {
	f := testSetup(t)

	missing := int64(9999)
	_, err := f.repo.Save(SaveParams{
		ID: &missing, ClientID: f.client1, TechnicianID: f.techID,
		Date: "2024-03-01", StartTime: "09:00", WorkPerformed: "x",
	})
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestGetNotFound(t *testing.T) {
	f := testSetup(t)

	_, err := f.repo.Get(9999)
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestListForClientRangeAndOrder(t *testing.T) {
	f := testSetup(t)

	f.save(t, SaveParams{Date: "2024-01-15", StartTime: "10:00"})
	f.save(t, SaveParams{Date: "2024-02-01", StartTime: "08:00"})
	f.save(t, SaveParams{Date: "2024-02-01", StartTime: "16:00"})
	f.save(t, SaveParams{Date: "2024-02-29", StartTime: "09:00"})
	f.save(t, SaveParams{Date: "2024-03-01", StartTime: "09:00"})
	f.save(t, SaveParams{ClientID: f.client2, Date: "2024-02-10"})

	type dt struct{ date, start string }

	tests := []struct {
		name string
		rng  Range
		want []dt
	}{
		{
			name: "unbounded",
			want: []dt{
				{"2024-03-01", "09:00"}, {"2024-02-29", "09:00"}, {"2024-02-01", "16:00"},
				{"2024-02-01", "08:00"}, {"2024-01-15", "10:00"},
			},
		},
		{
			name: "inclusive bounds",
			rng:  Range{From: "2024-02-01", To: "2024-02-29"},
			want: []dt{{"2024-02-29", "09:00"}, {"2024-02-01", "16:00"}, {"2024-02-01", "08:00"}},
		},
		{
			name: "from only",
			rng:  Range{From: "2024-02-29"},
			want: []dt{{"2024-03-01", "09:00"}, {"2024-02-29", "09:00"}},
		},
		{
			name: "to only",
			rng:  Range{To: "2024-01-31"},
			want: []dt{{"2024-01-15", "10:00"}},
		},
		{
			name: "empty range",
			rng:  Range{From: "2025-01-01", To: "2025-12-31"},
			want: []dt{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			visits, err := f.repo.ListForClient(f.client1, tt.rng)
			require.NoError(t, err)

			got := make([]dt, 0, len(visits))
			for _, v := range visits {
				assert.Equal(t, f.client1, v.ClientID)
				got = append(got, dt{v.Date, v.StartTime})
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestListForTechnicianAndInRange(t *testing.T) {
	f := testSetup(t)

	other, err := f.repo.db.Insert("INSERT INTO technicians (name) VALUES (?)", "Luis")
	require.NoError(t, err)

	f.save(t, SaveParams{Date: "2024-03-01"})
	f.save(t, SaveParams{Date: "2024-03-02", TechnicianID: other, ClientID: f.client2})
	f.save(t, SaveParams{Date: "2024-04-01", TechnicianID: other})

	byTech, err := f.repo.ListForTechnician(other, Range{From: "2024-03-01", To: "2024-03-31"})
	require.NoError(t, err)
	require.Len(t, byTech, 1)
	assert.Equal(t, "2024-03-02", byTech[0].Date)
	assert.Equal(t, "Luis", byTech[0].TechnicianName)
	assert.Equal(t, "Globex", byTech[0].ClientName)

	march, err := f.repo.ListInRange(Range{From: "2024-03-01", To: "2024-03-31"})
	require.NoError(t, err)
	require.Len(t, march, 2)
	assert.Equal(t, "2024-03-02", march[0].Date)
	assert.Equal(t, "2024-03-01", march[1].Date)
}

func TestListPending(t *testing.T) {
	f := testSetup(t)

	f.save(t, SaveParams{Date: "2024-03-01"})
	older := f.save(t, SaveParams{Date: "2024-02-01", HasPending: true, PendingDescription: strPtr("a")})
	newer := f.save(t, SaveParams{Date: "2024-03-05", HasPending: true, PendingDescription: strPtr("b")})
	resolved := f.save(t, SaveParams{Date: "2024-03-03", HasPending: true, PendingDescription: strPtr("c")})
	require.NoError(t, f.repo.ResolvePending(resolved))

	tests := []struct {
		name           string
		unresolvedOnly bool
		want           []int64
	}{
		{"unresolved only", true, []int64{newer, older}},
		{"all pending", false, []int64{newer, resolved, older}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			visits, err := f.repo.ListPending(tt.unresolvedOnly)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(visits))
		})
	}

	n, err := f.repo.CountOpenPending()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestResolvePendingIdempotent(t *testing.T) {
	f := testSetup(t)

	id := f.save(t, SaveParams{Date: "2024-03-01", HasPending: true, PendingDescription: strPtr("follow up")})

	require.NoError(t, f.repo.ResolvePending(id))
	first, err := f.repo.Get(id)
	require.NoError(t, err)

	require.NoError(t, f.repo.ResolvePending(id), "second resolve")
	second, err := f.repo.Get(id)
	require.NoError(t, err)

	assert.True(t, second.PendingResolved)
	assert.Equal(t, first.PendingState(), second.PendingState())
	assert.Equal(t, PendingResolved, second.PendingState())
}

func TestResolveNonPendingVisitIsNoop(t *testing.T) {
	f := testSetup(t)

	id := f.save(t, SaveParams{Date: "2024-03-01"})
	require.NoError(t, f.repo.ResolvePending(id))

	v, err := f.repo.Get(id)
	require.NoError(t, err)
	assert.False(t, v.HasPending)
	assert.False(t, v.PendingResolved, "resolved requires pending")
}

func TestResolveUnknownVisit(t *testing.T) {
	f := testSetup(t)

	assert.ErrorIs(t, f.repo.ResolvePending(9999), db.ErrNotFound)
}

func TestPendingScenario(t *testing.T) {
	f := testSetup(t)

	id, err := f.repo.Save(SaveParams{
		ClientID:           f.client1,
		TechnicianID:       f.techID,
		Date:               "2024-03-01",
		StartTime:          "10:00",
		DurationMinutes:    45,
		WorkPerformed:      "printer jammed",
		HasPending:         true,
		PendingDescription: strPtr("fix printer"),
	})
	require.NoError(t, err)

	open, err := f.repo.ListPending(true)
	require.NoError(t, err)
	assert.Equal(t, []int64{id}, ids(open))

	require.NoError(t, f.repo.ResolvePending(id))

	open, err = f.repo.ListPending(true)
	require.NoError(t, err)
	assert.Empty(t, open)

	v, err := f.repo.Get(id)
	require.NoError(t, err)
	assert.True(t, v.HasPending)
	assert.True(t, v.PendingResolved)
}

func TestDeactivatedClientKeepsVisitHistory(t *testing.T) {
	f := testSetup(t)

	id := f.save(t, SaveParams{Date: "2024-03-01"})
	require.NoError(t, f.clients.Deactivate(f.client1))

	active, err := f.clients.List(client.ListOptions{ActiveOnly: true})
	require.NoError(t, err)
	for _, c := range active {
		assert.NotEqual(t, f.client1, c.ID)
	}

	v, err := f.repo.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "Acme", v.ClientName)

	visits, err := f.repo.ListForClient(f.client1, Range{})
	require.NoError(t, err)
	assert.Equal(t, []int64{id}, ids(visits))
}

func TestRangeContains(t *testing.T) {
	tests := []struct {
		rng  Range
		date string
		want bool
	}{
		{Range{}, "2024-03-01", true},
		{Range{From: "2024-03-01"}, "2024-03-01", true},
		{Range{From: "2024-03-01"}, "2024-02-29", false},
		{Range{To: "2024-03-01"}, "2024-03-01", true},
		{Range{To: "2024-03-01"}, "2024-03-02", false},
		{Range{From: "2024-01-01", To: "2024-12-31"}, "2024-06-15", true},
		{Range{From: "2024-01-01", To: "2024-12-31"}, "2025-01-01", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.rng.Contains(tt.date), "%+v contains %s", tt.rng, tt.date)
	}
}

func TestPendingState(t *testing.T) {
	tests := []struct {
		v    Visit
		want PendingState
	}{
		{Visit{}, PendingNone},
		{Visit{PendingResolved: true}, PendingNone},
		{Visit{HasPending: true}, PendingOpen},
		{Visit{HasPending: true, PendingResolved: true}, PendingResolved},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.v.PendingState())
	}
}

func ids(visits []*Visit) []int64 {
	out := make([]int64, 0, len(visits))
	for _, v := range visits {
		out = append(out, v.ID)
	}
	return out
}

// testSetup opens a fresh database with technician Ana and clients Acme
// and Globex.
func testSetup(t *testing.T) *fixture {
	t.Helper()
	d, err := db.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "open db")
	t.Cleanup(func() {
		assert.NoError(t, d.Close(), "close db")
	})

	techID, err := d.Insert("INSERT INTO technicians (name) VALUES (?)", "Ana")
	require.NoError(t, err)

	clients := client.NewRepository(d)
	client1, err := clients.Save(client.SaveParams{Name: "Acme", Email: strPtr("it@acme.test"), TechnicianID: &techID})
	require.NoError(t, err)
	client2, err := clients.Save(client.SaveParams{Name: "Globex"})
	require.NoError(t, err)

	return &fixture{
		repo:    NewRepository(d),
		clients: clients,
		techID:  techID,
		client1: client1,
		client2: client2,
	}
}
