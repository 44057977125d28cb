package storage

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/login-portal/internal/config"
)

func stubGooseUp(t *testing.T, fn func(ctx context.Context, db *sql.DB, dir string) error) {
	t.Helper()
	orig := gooseUp
	gooseUp = fn
	t.Cleanup(func() { gooseUp = orig })
}

func TestMigrateRunsEmbeddedMigrations(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	var gotDir string
	var gotDB *sql.DB
	stubGooseUp(t, func(ctx context.Context, d *sql.DB, dir string) error {
		gotDB = d
		gotDir = dir
		return nil
	})

	require.NoError(t, Migrate(context.Background(), db))
	assert.Equal(t, migrationsDir, gotDir)
	assert.Same(t, db, gotDB)
}

func TestMigrateWrapsError(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	stubGooseUp(t, func(context.Context, *sql.DB, string) error {
		return errors.New("relation already exists")
	})

	err = Migrate(context.Background(), db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migrate: relation already exists")
}

func TestUsersMigrationHasUniqueEmail(t *testing.T) {
	data, err := migrationsFS.ReadFile("migrations/00001_create_users.sql")
	require.NoError(t, err)

	sqlText := string(data)
	assert.Contains(t, sqlText, "-- +goose Up")
	assert.Contains(t, sqlText, "-- +goose Down")
	assert.Contains(t, sqlText, "UNIQUE (email)")
}

func TestConnectPostgresInvalidDSN(t *testing.T) {
	cfg := &config.Config{DatabaseURL: "host=localhost port=notaport"}

	db, err := ConnectPostgres(context.Background(), cfg)
	require.Error(t, err)
	assert.Nil(t, db)
	assert.Contains(t, err.Error(), "failed to parse DSN")
}

func TestConnectRedisInvalidURL(t *testing.T) {
	rdb, err := ConnectRedis(context.Background(), "http://localhost:6379")
	require.Error(t, err)
	assert.Nil(t, rdb)
	assert.Contains(t, err.Error(), "failed to parse url")
}
