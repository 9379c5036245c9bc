package profiles

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupProfilesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS profiles (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id TEXT NOT NULL UNIQUE,
  balance_cents INTEGER NOT NULL DEFAULT 0,
  total_opened INTEGER NOT NULL DEFAULT 0,
  best_drop_cents INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(ddl).Error)
	return db
}

func TestGetOrCreateSeedsStartingBalance(t *testing.T) {
	db := setupProfilesTestDB(t)
	repo := NewRepository(db)
	userID := uuid.NewString()

	profile, err := repo.GetOrCreate(context.Background(), userID, 10000)
	require.NoError(t, err)
	assert.Equal(t, userID, profile.UserID)
	assert.Equal(t, 10000, profile.BalanceCents)
	assert.Equal(t, 0, profile.TotalOpened)
	assert.Equal(t, 0, profile.BestDropCents)
}

func TestGetOrCreateIsIdempotent(t *testing.T) {
	db := setupProfilesTestDB(t)
	repo := NewRepository(db)
	userID := uuid.NewString()

	first, err := repo.GetOrCreate(context.Background(), userID, 10000)
	require.NoError(t, err)

	require.NoError(t, repo.Credit(context.Background(), first.ID, 500))

	// A second call must return the existing row, not reset the balance.
	second, err := repo.GetOrCreate(context.Background(), userID, 10000)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 10500, second.BalanceCents)
}

func TestDebitForOpenGuardsBalance(t *testing.T) {
	db := setupProfilesTestDB(t)
	repo := NewRepository(db)

	profile, err := repo.GetOrCreate(context.Background(), uuid.NewString(), 1000)
	require.NoError(t, err)

	ok, err := repo.DebitForOpen(context.Background(), profile.ID, 700)
	require.NoError(t, err)
	assert.True(t, ok)

	// 300 left, another 700 debit must be rejected without mutation.
	ok, err = repo.DebitForOpen(context.Background(), profile.ID, 700)
	require.NoError(t, err)
	assert.False(t, ok)

	reloaded, err := repo.FindByUserID(context.Background(), profile.UserID)
	require.NoError(t, err)
	assert.Equal(t, 300, reloaded.BalanceCents)
	assert.Equal(t, 1, reloaded.TotalOpened)
}

func TestDebitForOpenAllowsExactBalance(t *testing.T) {
	db := setupProfilesTestDB(t)
	repo := NewRepository(db)

	profile, err := repo.GetOrCreate(context.Background(), uuid.NewString(), 500)
	require.NoError(t, err)

	ok, err := repo.DebitForOpen(context.Background(), profile.ID, 500)
	require.NoError(t, err)
	assert.True(t, ok)

	reloaded, err := repo.FindByUserID(context.Background(), profile.UserID)
	require.NoError(t, err)
	assert.Zero(t, reloaded.BalanceCents)
}

func TestRaiseBestDropIsMonotonic(t *testing.T) {
	db := setupProfilesTestDB(t)
	repo := NewRepository(db)

	profile, err := repo.GetOrCreate(context.Background(), uuid.NewString(), 0)
	require.NoError(t, err)

	require.NoError(t, repo.RaiseBestDrop(context.Background(), profile.ID, 2000))
	require.NoError(t, repo.RaiseBestDrop(context.Background(), profile.ID, 500))

	reloaded, err := repo.FindByUserID(context.Background(), profile.UserID)
	require.NoError(t, err)
	assert.Equal(t, 2000, reloaded.BestDropCents)

	require.NoError(t, repo.RaiseBestDrop(context.Background(), profile.ID, 3000))
	reloaded, err = repo.FindByUserID(context.Background(), profile.UserID)
	require.NoError(t, err)
	assert.Equal(t, 3000, reloaded.BestDropCents)
}

func TestFindByUserIDMissing(t *testing.T) {
	db := setupProfilesTestDB(t)
	repo := NewRepository(db)

	_, err := repo.FindByUserID(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
