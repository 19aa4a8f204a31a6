package identity

const keyRoomID = "room_id"

// RoomHandle persists the active room id so a restart can attempt to rejoin
// instead of falling back to the lobby. Cleared on explicit leave or kick.
type RoomHandle struct {
	store *Store
}

func NewRoomHandle(store *Store) *RoomHandle {
	return &RoomHandle{store: store}
}

func (h *RoomHandle) Save(roomID string) error {
	return h.store.Put(ScopeSession, keyRoomID, roomID)
}

// Load returns the persisted room id and whether one exists.
func (h *RoomHandle) Load() (string, bool, error) {
	return h.store.Get(ScopeSession, keyRoomID)
}

func (h *RoomHandle) Clear() error {
	return h.store.Delete(ScopeSession, keyRoomID)
}
