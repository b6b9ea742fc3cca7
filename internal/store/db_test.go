package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T, path string) *DB {
	t.Helper()
	db := NewDB()
	require.NoError(t, db.Open(path))
	go db.Start()
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSettingsRoundTrip(t *testing.T) {
	db := openTestDB(t, filepath.Join(t.TempDir(), "nested", "skiff.db"))

	settings, err := db.Settings()
	require.NoError(t, err)
	assert.Empty(t, settings)

	require.NoError(t, db.SaveSetting("view_mode", "wrap"))
	require.NoError(t, db.SaveSetting("view_mode", "column"))
	require.NoError(t, db.SaveSetting("last_dir", "/tmp"))

	settings, err = db.Settings()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"view_mode": "column", "last_dir": "/tmp"}, settings)
}

func TestSettingsSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skiff.db")

	first := NewDB()
	require.NoError(t, first.Open(path))
	go first.Start()
	require.NoError(t, first.SaveSetting("last_dir", "/srv"))
	require.NoError(t, first.Close())

	second := openTestDB(t, path)
	settings, err := second.Settings()
	require.NoError(t, err)
	assert.Equal(t, "/srv", settings["last_dir"])
}

func TestClosedStoreRejects(t *testing.T) {
	db := openTestDB(t, filepath.Join(t.TempDir(), "skiff.db"))
	require.NoError(t, db.Close())

	assert.ErrorIs(t, db.SaveSetting("k", "v"), ErrClosed)
	_, err := db.Settings()
	assert.ErrorIs(t, err, ErrClosed)
}
