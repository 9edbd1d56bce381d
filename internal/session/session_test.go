package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsEmptyState(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "session.json"))

	state, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, state.Token)
	assert.Empty(t, state.Username)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store := NewFileStore(path)

	require.NoError(t, store.Save(State{Token: "tok-abc", Username: "alice"}))

	state, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", state.Token)
	assert.Equal(t, "alice", state.Username)
	assert.False(t, state.SavedAt.IsZero(), "save stamps the time when unset")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm(), "token file is owner-only")
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))

	_, err := NewFileStore(path).Load()
	assert.Error(t, err)
}

func TestClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewFileStore(path)

	require.NoError(t, store.Save(State{Token: "tok"}))
	require.NoError(t, store.Clear())

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, store.Clear(), "clearing twice is fine")
}
