package rooms

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRoom(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/rooms", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "New Room", body["name"])

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"room":    map[string]string{"id": "4821", "status": "waiting"},
		})
	}))
	defer srv.Close()

	room, err := NewClient(srv.URL).CreateRoom("New Room")
	require.NoError(t, err)
	assert.Equal(t, "4821", room.ID)
	assert.Equal(t, "waiting", room.Status)
}

func TestJoinRoomNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/rooms/NOPE/users", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "Room not found"})
	}))
	defer srv.Close()

	err := NewClient(srv.URL).JoinRoom("NOPE")
	require.ErrorIs(t, err, ErrRoomNotFound)
}

func TestJoinRoomOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": true, "room_id": "AB12"})
	}))
	defer srv.Close()

	require.NoError(t, NewClient(srv.URL).JoinRoom("AB12"))
}
