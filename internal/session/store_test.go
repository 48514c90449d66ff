package session_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealtrackr/mealtrackr/internal/session"
)

func TestSQLiteTokenStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	store, err := session.OpenSQLiteTokenStore(path)
	require.NoError(t, err)
	assert.Empty(t, store.Token())

	require.NoError(t, store.Save("tok-abc"))
	assert.Equal(t, "tok-abc", store.Token())

	// Token survives a reopen, like localStorage survives a reload.
	reopened, err := session.OpenSQLiteTokenStore(path)
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", reopened.Token())
}

func TestSQLiteTokenStoreClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	store, err := session.OpenSQLiteTokenStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Save("tok-abc"))
	require.NoError(t, store.Clear())
	assert.Empty(t, store.Token())

	reopened, err := session.OpenSQLiteTokenStore(path)
	require.NoError(t, err)
	assert.Empty(t, reopened.Token())
}

func TestSQLiteTokenStoreOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	store, err := session.OpenSQLiteTokenStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Save("first"))
	require.NoError(t, store.Save("second"))
	assert.Equal(t, "second", store.Token())
}

func TestSQLiteTokenStoreCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "state.db")
	_, err := session.OpenSQLiteTokenStore(path)
	assert.NoError(t, err)
}
