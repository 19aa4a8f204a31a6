package identity

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestUserIDIsStable(t *testing.T) {
	id := New(newTestStore(t))

	first, err := id.UserID()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(first, "user_"))

	second, err := id.UserID()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDisplayNameDefaultsFromID(t *testing.T) {
	id := New(newTestStore(t))

	userID, err := id.UserID()
	require.NoError(t, err)

	name, err := id.DisplayName()
	require.NoError(t, err)
	assert.Equal(t, "Player_"+userID[len(userID)-4:], name)
}

func TestSetDisplayNamePersists(t *testing.T) {
	store := newTestStore(t)
	id := New(store)

	require.NoError(t, id.SetDisplayName("Taco"))
	name, err := id.DisplayName()
	require.NoError(t, err)
	assert.Equal(t, "Taco", name)
}

func TestRoomHandleLifecycle(t *testing.T) {
	handle := NewRoomHandle(newTestStore(t))

	_, ok, err := handle.Load()
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, handle.Save("AB12"))
	roomID, ok, err := handle.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "AB12", roomID)

	require.NoError(t, handle.Clear())
	_, ok, err = handle.Load()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	store, err := OpenStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Put(ScopeSession, "room_id", "XY99"))
	require.NoError(t, store.Close())

	store, err = OpenStore(path)
	require.NoError(t, err)
	defer store.Close()

	value, ok, err := store.Get(ScopeSession, "room_id")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "XY99", value)
}
