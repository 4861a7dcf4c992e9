package repomanager

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_SQLiteAppliesMigrations(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "auth.db")

	db, m, err := Open(ctx, DriverSQLite, dsn)
	require.NoError(t, err)
	defer db.Close()

	repo := m.Users(db)
	u, err := repo.Create(ctx, &models.User{Email: "alice@example.com", PasswordHash: "h"})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", got.Email)

	// re-running is a no-op
	require.NoError(t, m.RunMigrations(ctx, db))
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, _, err := Open(context.Background(), "oracle", "x")
	assert.Error(t, err)
}
