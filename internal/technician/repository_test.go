package technician

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evcraddock/fieldlog/internal/db"
)

func TestSaveAndGet(t *testing.T) {
	repo := testSetup(t)

	email := "ana@example.com"
	id, err := repo.Save("Ana", &email, nil)
	require.NoError(t, err)
	assert.NotZero(t, id)

	tech, err := repo.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "Ana", tech.Name)
	require.NotNil(t, tech.Email)
	assert.Equal(t, email, *tech.Email)
	assert.True(t, tech.Active)
	assert.False(t, tech.CreatedAt.IsZero())
}

func TestSaveWithoutEmail(t *testing.T) {
	repo := testSetup(t)

	id, err := repo.Save("Luis", nil, nil)
	require.NoError(t, err)

	tech, err := repo.Get(id)
	require.NoError(t, err)
	assert.Nil(t, tech.Email)
}

func TestSaveUpdatesInPlace(t *testing.T) {
	repo := testSetup(t)

	id, err := repo.Save("Ana", nil, nil)
	require.NoError(t, err)

	email := "ana.m@example.com"
	got, err := repo.Save("Ana María", &email, &id)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	tech, err := repo.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "Ana María", tech.Name)
	assert.Equal(t, email, *tech.Email)

	all, err := repo.List(false)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSaveUnknownID(t *testing.T) {
	repo := testSetup(t)

	missing := int64(9999)
	_, err := repo.Save("Ghost", nil, &missing)
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestGetNotFound(t *testing.T) {
	repo := testSetup(t)

	_, err := repo.Get(9999)
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestListOrderAndActiveFilter(t *testing.T) {
	repo := testSetup(t)

	ids := map[string]int64{}
	for _, name := range []string{"Carla", "Ana", "Bruno"} {
		id, err := repo.Save(name, nil, nil)
		require.NoError(t, err)
		ids[name] = id
	}
	require.NoError(t, repo.Deactivate(ids["Bruno"]))

	tests := []struct {
		name       string
		activeOnly bool
		want       []string
	}{
		{"active only", true, []string{"Ana", "Carla"}},
		{"all", false, []string{"Ana", "Bruno", "Carla"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			techs, err := repo.List(tt.activeOnly)
			require.NoError(t, err)

			var names []string
			for _, tech := range techs {
				names = append(names, tech.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestDeactivateIdempotent(t *testing.T) {
	repo := testSetup(t)

	id, err := repo.Save("Ana", nil, nil)
	require.NoError(t, err)

	require.NoError(t, repo.Deactivate(id))
	require.NoError(t, repo.Deactivate(id))

	tech, err := repo.Get(id)
	require.NoError(t, err)
	assert.False(t, tech.Active)
}

func TestDeactivateNotFound(t *testing.T) {
	repo := testSetup(t)

	assert.ErrorIs(t, repo.Deactivate(9999), db.ErrNotFound)
}

func testSetup(t *testing.T) *Repository {
	t.Helper()
	d, err := db.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "open db")
	t.Cleanup(func() {
		assert.NoError(t, d.Close(), "close db")
	})
	return NewRepository(d)
}
