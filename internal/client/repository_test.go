package client

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evcraddock/fieldlog/internal/db"
)

func strPtr(s string) *string { return &s }

func TestSaveThenGetRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		email *string
		phone *string
	}{
		{"all fields", strPtr("ops@acme.test"), strPtr("+506 2222 0000")},
		{"no email", nil, strPtr("555-0100")},
		{"no phone", strPtr("info@globex.test"), nil},
		{"name only", nil, nil},
		{"unicode name", strPtr("niño@example.com"), nil},
	}

	repo, _, _ := testSetup(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := repo.Save(SaveParams{Name: tt.name, Email: tt.email, Phone: tt.phone})
			require.NoError(t, err)
			require.NotZero(t, id)

			c, err := repo.Get(id)
			require.NoError(t, err)
			assert.Equal(t, id, c.ID)
			assert.Equal(t, tt.name, c.Name)
			assert.Equal(t, tt.email, c.Email)
			assert.Equal(t, tt.phone, c.Phone)
			assert.Nil(t, c.TechnicianID)
			assert.True(t, c.Active)
			assert.Nil(t, c.TechnicianName, "Get does not join technicians")
		})
	}
}

func TestSaveUpdatesAllMutableFields(t *testing.T) {
	repo, tech1, tech2 := testSetup(t)

	id, err := repo.Save(SaveParams{Name: "Acme", Email: strPtr("a@acme.test"), TechnicianID: &tech1})
	require.NoError(t, err)

	got, err := repo.Save(SaveParams{
		ID:           &id,
		Name:         "Acme Corp",
		Email:        nil,
		Phone:        strPtr("555-0199"),
		TechnicianID: &tech2,
	})
	require.NoError(t, err)
	assert.Equal(t, id, got)

	c, err := repo.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", c.Name)
	assert.Nil(t, c.Email)
	assert.Equal(t, "555-0199", *c.Phone)
	assert.Equal(t, tech2, *c.TechnicianID)
}

func TestSaveUnknownTechnicianIsConstraintViolation(t *testing.T) {
	repo, _, _ := testSetup(t)

	missing := int64(9999)
	_, err := repo.Save(SaveParams{Name: "Orphan", TechnicianID: &missing})
	require.Error(t, err)
	assert.ErrorIs(t, err, db.ErrConstraint)

	var ce *db.ConstraintError
	assert.ErrorAs(t, err, &ce)
}

func TestSaveUnknownID(t *testing.T) {
	repo, _, _ := testSetup(t)

	missing := int64(9999)
	_, err := repo.Save(SaveParams{ID: &missing, Name: "Ghost"})
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestGetNotFound(t *testing.T) {
	repo, _, _ := testSetup(t)

	_, err := repo.Get(9999)
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestList(t *testing.T) {
	repo, tech1, tech2 := testSetup(t)

	ids := map[string]int64{}
	for _, p := range []SaveParams{
		{Name: "Delta", TechnicianID: &tech1},
		{Name: "Alpha", TechnicianID: &tech2},
		{Name: "Charlie"},
		{Name: "Bravo", TechnicianID: &tech1},
	} {
		id, err := repo.Save(p)
		require.NoError(t, err)
		ids[p.Name] = id
	}
	require.NoError(t, repo.Deactivate(ids["Delta"]))

	tests := []struct {
		name string
		opts ListOptions
		want []string
	}{
		{"all", ListOptions{}, []string{"Alpha", "Bravo", "Charlie", "Delta"}},
		{"active only", ListOptions{ActiveOnly: true}, []string{"Alpha", "Bravo", "Charlie"}},
		{"technician 1", ListOptions{TechnicianID: &tech1}, []string{"Bravo", "Delta"}},
		{"technician 1 active", ListOptions{ActiveOnly: true, TechnicianID: &tech1}, []string{"Bravo"}},
		{"technician 2", ListOptions{TechnicianID: &tech2}, []string{"Alpha"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clients, err := repo.List(tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(clients))
		})
	}
}

func TestListJoinsTechnicianName(t *testing.T) {
	repo, tech1, _ := testSetup(t)

	_, err := repo.Save(SaveParams{Name: "Assigned", TechnicianID: &tech1})
	require.NoError(t, err)
	_, err = repo.Save(SaveParams{Name: "Unassigned"})
	require.NoError(t, err)

	clients, err := repo.List(ListOptions{})
	require.NoError(t, err)
	require.Len(t, clients, 2)

	require.NotNil(t, clients[0].TechnicianName)
	assert.Equal(t, "Ana", *clients[0].TechnicianName)
	assert.Nil(t, clients[1].TechnicianName)
}

func TestListEmpty(t *testing.T) {
	repo, _, _ := testSetup(t)

	clients, err := repo.List(ListOptions{ActiveOnly: true})
	require.NoError(t, err)
	assert.Empty(t, clients)
}

func TestDeactivate(t *testing.T) {
	repo, _, _ := testSetup(t)

	id, err := repo.Save(SaveParams{Name: "Acme"})
	require.NoError(t, err)

	require.NoError(t, repo.Deactivate(id))
	require.NoError(t, repo.Deactivate(id), "second deactivate")

	active, err := repo.List(ListOptions{ActiveOnly: true})
	require.NoError(t, err)
	assert.Empty(t, active)

	c, err := repo.Get(id)
	require.NoError(t, err)
	assert.False(t, c.Active)
}

func TestDeactivateNotFound(t *testing.T) {
	repo, _, _ := testSetup(t)

	assert.ErrorIs(t, repo.Deactivate(9999), db.ErrNotFound)
}

func names(clients []*Client) []string {
	out := make([]string, 0, len(clients))
	for _, c := range clients {
		out = append(out, c.Name)
	}
	return out
}

// testSetup opens a fresh database with two technicians, Ana and Luis.
func testSetup(t *testing.T) (*Repository, int64, int64) {
	t.Helper()
	d, err := db.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "open db")
	t.Cleanup(func() {
		assert.NoError(t, d.Close(), "close db")
	})

	tech1, err := d.Insert("INSERT INTO technicians (name) VALUES (?)", "Ana")
	require.NoError(t, err)
	tech2, err := d.Insert("INSERT INTO technicians (name) VALUES (?)", "Luis")
	require.NoError(t, err)

	return NewRepository(d), tech1, tech2
}
