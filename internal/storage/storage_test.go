package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStores(t *testing.T) {
	fileStore, err := NewFileStore(filepath.Join(t.TempDir(), "creds"))
	require.NoError(t, err)

	stores := map[string]SecureStore{
		"file":   fileStore,
		"memory": NewMemoryStore(),
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			_, err := store.Get(SessionTokenKey)
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, store.Set(SessionTokenKey, "tok-1"))
			value, err := store.Get(SessionTokenKey)
			require.NoError(t, err)
			assert.Equal(t, "tok-1", value)

			require.NoError(t, store.Set(SessionTokenKey, "tok-2"))
			value, err = store.Get(SessionTokenKey)
			require.NoError(t, err)
			assert.Equal(t, "tok-2", value)

			require.NoError(t, store.Delete(SessionTokenKey))
			_, err = store.Get(SessionTokenKey)
			assert.ErrorIs(t, err, ErrNotFound)

			// deleting twice is fine
			assert.NoError(t, store.Delete(SessionTokenKey))
		})
	}
}

func TestFileStore_Permissions(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "creds")
	store, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set(SessionTokenKey, "secret"))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o700), info.Mode().Perm())

	info, err = os.Stat(filepath.Join(dir, SessionTokenKey))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "creds")
	first, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.Set(SessionTokenKey, "durable"))

	second, err := NewFileStore(dir)
	require.NoError(t, err)
	value, err := second.Get(SessionTokenKey)
	require.NoError(t, err)
	assert.Equal(t, "durable", value)
}

func TestFileStore_RejectsPathKeys(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, store.Set("../escape", "x"))
	_, err = store.Get("a/b")
	assert.Error(t, err)
}

func TestFileStore_RejectsDotKeys(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{".", ".."} {
		_, err := store.Get(key)
		assert.ErrorContains(t, err, "invalid storage key")
		assert.ErrorContains(t, store.Set(key, "x"), "invalid storage key")
		assert.ErrorContains(t, store.Delete(key), "invalid storage key")
	}

	require.NoError(t, store.Set("..token", "ok"))
}

func TestNew(t *testing.T) {
	s, err := New(DriverMemory, "")
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = New(DriverFile, t.TempDir())
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	_, err = New("keychain", "")
	assert.Error(t, err)
}
