package storage

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openRawDB(t *testing.T) *sql.DB {
	db, err := openDatabase(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	var found string
	err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", name).Scan(&found)
	if err == sql.ErrNoRows {
		return false
	}
	require.NoError(t, err)
	return true
}

func TestApplyMigrations(t *testing.T) {
	db := openRawDB(t)
	ctx := context.Background()

	require.NoError(t, ApplyMigrations(ctx, db))
	assert.True(t, tableExists(t, db, "hsn_codes"))
	assert.True(t, tableExists(t, db, "schema_version"))

	var version string
	require.NoError(t, db.QueryRow("SELECT version FROM schema_version").Scan(&version))
	assert.Equal(t, CurrentSchemaVersion, version)
}

func TestApplyMigrations_Idempotent(t *testing.T) {
	db := openRawDB(t)
	ctx := context.Background()

	require.NoError(t, ApplyMigrations(ctx, db))
	require.NoError(t, ApplyMigrations(ctx, db))

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_version").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestRollbackMigration(t *testing.T) {
	db := openRawDB(t)
	ctx := context.Background()

	require.NoError(t, ApplyMigrations(ctx, db))
	require.NoError(t, RollbackMigration(ctx, db))

	assert.False(t, tableExists(t, db, "hsn_codes"))
	assert.False(t, tableExists(t, db, "schema_version"))

	// Nothing left to roll back
	assert.Error(t, RollbackMigration(ctx, db))
}

func TestResetSchema(t *testing.T) {
	db := openRawDB(t)
	ctx := context.Background()

	require.NoError(t, ApplyMigrations(ctx, db))
	_, err := db.Exec("INSERT INTO hsn_codes (code, description) VALUES ('01', 'Live animals')")
	require.NoError(t, err)

	require.NoError(t, ResetSchema(ctx, db))

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM hsn_codes").Scan(&count))
	assert.Zero(t, count)
}

func TestUniqueCodeConstraint(t *testing.T) {
	db := openRawDB(t)
	require.NoError(t, ApplyMigrations(context.Background(), db))

	_, err := db.Exec("INSERT INTO hsn_codes (code, description) VALUES ('01', 'Live animals')")
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO hsn_codes (code, description) VALUES ('01', 'Duplicate')")
	assert.Error(t, err)
}
