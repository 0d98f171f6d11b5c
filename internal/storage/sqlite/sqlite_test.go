package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/alumni-api/internal/storage"
	"github.com/aanand-mishra/alumni-api/internal/types"
)

func newTestDB(t *testing.T) *SQLite {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "alumni.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func sample(name, email, dept, section string) types.Alumni {
	return types.Alumni{
		Name:                name,
		Email:               email,
		Phone:               "1234567890",
		RegisterNumber:      "R-" + name,
		Department:          dept,
		Section:             section,
		PassOutYear:         2023,
		CourseDurationYears: 4,
	}
}

func TestCreateAndGetByEmail(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	in := sample("Asha", "asha@x.com", "CSE", "A")
	in.Placed = true
	in.Company = "Acme"
	in.MinCTC = 6.5

	created, err := db.CreateAlumni(ctx, in)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	got, err := db.GetAlumniByEmail(ctx, "asha@x.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Acme", got.Company)
	assert.Equal(t, 6.5, got.MinCTC)
	assert.True(t, got.Placed)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestGetByEmail_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetAlumniByEmail(context.Background(), "nobody@x.com")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCreate_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	_, err := db.CreateAlumni(ctx, sample("Asha", "asha@x.com", "CSE", "A"))
	require.NoError(t, err)

	_, err = db.CreateAlumni(ctx, sample("Imposter", "asha@x.com", "ECE", "B"))
	assert.ErrorIs(t, err, storage.ErrDuplicateEmail)
}

func TestListAndStats(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	for _, a := range []types.Alumni{
		sample("Zed", "zed@x.com", "CSE", "B"),
		sample("Bala", "bala@x.com", "CSE", "A"),
		sample("Anu", "anu@x.com", "CSE", "A"),
		sample("Kiran", "kiran@x.com", "ECE", "A"),
	} {
		_, err := db.CreateAlumni(ctx, a)
		require.NoError(t, err)
	}

	all, err := db.ListAlumni(ctx, types.AlumniFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "Anu", all[0].Name)
	assert.Equal(t, "Kiran", all[3].Name)

	cseA, err := db.ListAlumni(ctx, types.AlumniFilter{Department: "CSE", Section: "A"})
	require.NoError(t, err)
	assert.Len(t, cseA, 2)

	none, err := db.ListAlumni(ctx, types.AlumniFilter{Section: "F"})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	stats, err := db.GetSectionStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, []types.SectionStat{
		{Department: "CSE", Section: "A", Count: 2},
		{Department: "CSE", Section: "B", Count: 1},
		{Department: "ECE", Section: "A", Count: 1},
	}, stats)
}
