package repository

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"group_guard_bot/internal/pkg/settings/domain"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "guard.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteSettings(t *testing.T) {
	assert := assert.New(t)
	store := newTestSQLite(t)

	// Defaults are seeded on init.
	value, err := store.GetSetting(domain.KeyGroupID)
	assert.NoError(err)
	assert.Equal(domain.Unset, value)

	assert.NoError(store.SetSetting(domain.KeyGroupID, "-100123"))
	value, err = store.GetSetting(domain.KeyGroupID)
	assert.NoError(err)
	assert.Equal("-100123", value)

	// Upsert overwrites.
	assert.NoError(store.SetSetting(domain.KeyGroupID, "-100456"))
	value, err = store.GetSetting(domain.KeyGroupID)
	assert.NoError(err)
	assert.Equal("-100456", value)

	// Unknown keys read as unset, not as an error.
	value, err = store.GetSetting("no_such_key")
	assert.NoError(err)
	assert.Equal(domain.Unset, value)
}

func TestSQLiteFilters(t *testing.T) {
	assert := assert.New(t)
	store := newTestSQLite(t)

	assert.NoError(store.AddFilter("Scam"))
	assert.NoError(store.AddFilter("spam"))
	assert.NoError(store.AddFilter("SCAM")) // duplicate after lower-casing

	words, err := store.ListFilters()
	assert.NoError(err)
	assert.Equal([]string{"scam", "spam"}, words)

	assert.NoError(store.RemoveFilter("SPAM"))
	words, err = store.ListFilters()
	assert.NoError(err)
	assert.Equal([]string{"scam"}, words)
}

func TestSQLiteGroupLogs(t *testing.T) {
	assert := assert.New(t)
	store := newTestSQLite(t)

	logs, err := store.ListGroupLogs()
	assert.NoError(err)
	assert.Empty(logs)

	assert.NoError(store.SetGroupLog("-100", "-200"))
	assert.NoError(store.SetGroupLog("-100", "-300"))

	logs, err = store.ListGroupLogs()
	assert.NoError(err)
	assert.Equal(map[string]string{"-100": "-300"}, logs)
}
