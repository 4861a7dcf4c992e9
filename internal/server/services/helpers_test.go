package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/metrics"
	"github.com/dmitrijs2005/gophauth/internal/server/passwords"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/require"
)

const testCost = 4

type testEnv struct {
	db      *sql.DB
	rm      repomanager.RepositoryManager
	users   *UserService
	auth    *AuthService
	tokens  *auth.TokenIssuer
	metrics *metrics.Metrics
}

func openTestDB(t *testing.T) (*sql.DB, repomanager.RepositoryManager) {
	t.Helper()
	db, rm, err := repomanager.Open(context.Background(), repomanager.DriverSQLite,
		filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, rm
}

func newUserServiceWith(t *testing.T, db *sql.DB, rm repomanager.RepositoryManager, algorithm string, cost int, mt *metrics.Metrics) *UserService {
	t.Helper()
	h, err := passwords.New(algorithm, cost)
	require.NoError(t, err)
	us, err := NewUserService(db, rm, h, 8, logging.Nop{}, mt)
	require.NoError(t, err)
	return us
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, rm := openTestDB(t)
	mt := metrics.New(nil)
	us := newUserServiceWith(t, db, rm, passwords.AlgorithmBcrypt, testCost, mt)

	tokens, err := auth.NewTokenIssuer([]byte("test-secret"), time.Hour, auth.WithIssuer("gophauth-test"))
	require.NoError(t, err)

	return &testEnv{
		db:      db,
		rm:      rm,
		users:   us,
		auth:    NewAuthService(us, tokens, logging.Nop{}, mt),
		tokens:  tokens,
		metrics: mt,
	}
}
