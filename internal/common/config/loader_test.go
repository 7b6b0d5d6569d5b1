package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
database:
  postgres:
    user: pizzadb
store:
  admin:
    email: a@jwt.com
    password: admin
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "pizza-store", cfg.App.Name)
	assert.Equal(t, "localhost", cfg.Database.Postgres.Host)
	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, "pizza", cfg.Database.Postgres.Schema)
	assert.Equal(t, 5, cfg.Database.Postgres.ConnectTimeout)
	assert.Equal(t, 10, cfg.Store.ListPerPage)
	assert.Equal(t, "admin", cfg.Store.Admin.Name)
	assert.Equal(t, "localhost:3000", cfg.Seed.Target)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromFile_MissingRequiredFields(t *testing.T) {
	path := writeConfigFile(t, `
database:
  postgres:
    host: db.internal
`)

	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.postgres.user is required")
}

func TestLoadFromFile_EnvOverridesEmptyValues(t *testing.T) {
	t.Setenv("DB_PASSWORD", "supersecret")
	t.Setenv("ADMIN_EMAIL", "a@jwt.com")
	t.Setenv("ADMIN_PASSWORD", "admin")

	path := writeConfigFile(t, `
database:
  postgres:
    user: pizzadb
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "supersecret", cfg.Database.Postgres.Password)
	assert.Equal(t, "a@jwt.com", cfg.Store.Admin.Email)
	assert.Equal(t, "admin", cfg.Store.Admin.Password)
}

func TestLoadFromFile_ExpandsPlaceholders(t *testing.T) {
	t.Setenv("PIZZA_DB_HOST", "db.prod.internal")

	path := writeConfigFile(t, `
database:
  postgres:
    user: pizzadb
    host: ${PIZZA_DB_HOST}
store:
  admin:
    email: a@jwt.com
    password: admin
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "db.prod.internal", cfg.Database.Postgres.Host)
}

func TestGetDSN(t *testing.T) {
	cfg := PostgresConfig{
		Host:           "localhost",
		Port:           5432,
		User:           "pizzadb",
		Password:       "secret",
		Database:       "pizza",
		SSLMode:        "disable",
		ConnectTimeout: 5,
	}

	dsn := cfg.GetDSN()
	assert.Contains(t, dsn, "host=localhost")
	assert.Contains(t, dsn, "port=5432")
	assert.Contains(t, dsn, "user=pizzadb")
	assert.Contains(t, dsn, "dbname=pizza")
	assert.Contains(t, dsn, "sslmode=disable")
	assert.Contains(t, dsn, "connect_timeout=5")
}
