package store

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"pizza-store/internal/common/config"
	"pizza-store/internal/common/database"
	"pizza-store/internal/common/logger"
	"pizza-store/internal/seed"
)

// ==========================
// Test Helper Functions
// ==========================

// fastHasher keeps tests away from bcrypt's cost.
type fastHasher struct{}

func (fastHasher) Hash(plain string) (string, error) { return "hashed:" + plain, nil }
func (fastHasher) Verify(plain, hashed string) bool  { return hashed == "hashed:"+plain }

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Database.Postgres.Schema = "" // no search_path round-trips in tests
	cfg.Database.Postgres.ConnectTimeout = 2
	cfg.Store.ListPerPage = 10
	cfg.Store.Admin.Name = "admin"
	cfg.Store.Admin.Email = "admin@test.com"
	cfg.Store.Admin.Password = "secret"
	return cfg
}

// newTestDB returns a ready store backed by sqlmock.
func newTestDB(t *testing.T, opts ...Option) (*DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	opts = append([]Option{
		WithHasher(fastHasher{}),
		WithSeeder(seed.NoopProvisioner{}),
	}, opts...)

	s := New(testConfig(), &database.PostgresClient{DB: mockDB}, logger.NewTestLogger(t), opts...)
	s.signalReady()
	return s, mock
}

// newTestCache spins up a miniredis-backed cache client.
func newTestCache(t *testing.T) (*database.RedisClient, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return &database.RedisClient{Client: client}, mr
}
