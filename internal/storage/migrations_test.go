package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_SetsSchemaVersion(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	var version int
	require.NoError(t, store.db.QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, ExpectedSchemaVersion, version)
}

func TestMigrate_Idempotent(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "k", []byte(`1`)))
	require.NoError(t, store.Migrate(ctx))

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "1", string(got))
}

func TestMigrate_UpdatedAtTrigger(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	var triggerCount int
	err := store.db.QueryRow(`
		SELECT COUNT(*) FROM sqlite_master
		WHERE type='trigger' AND name='update_kv_updated_at'
	`).Scan(&triggerCount)
	require.NoError(t, err)
	assert.Equal(t, 1, triggerCount)
}
