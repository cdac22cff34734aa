package provision

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomServiceCreate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/rooms", r.URL.Path)
		assert.Equal(t, "Bearer user-token", r.Header.Get("Authorization"))

		var req createRoomRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(Room{ID: "room-1", Title: req.Title, Type: "group"})
	}))
	defer srv.Close()

	room, err := NewRoomService(srv.URL, "user-token").Create(context.Background(), "Test Room")
	require.NoError(t, err)
	assert.Equal(t, "room-1", room.ID)
	assert.Equal(t, "Test Room", room.Title)
}

func TestRoomServiceRemove(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		paths = append(paths, r.URL.Path)
		if r.URL.Path == "/rooms/gone" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	svc := NewRoomService(srv.URL, "user-token")
	require.NoError(t, svc.Remove(context.Background(), &Room{ID: "room-1"}))
	require.NoError(t, svc.Remove(context.Background(), &Room{ID: "gone"}))
	require.NoError(t, svc.Remove(context.Background(), nil))
	assert.Equal(t, []string{"/rooms/room-1", "/rooms/gone"}, paths)
}

func TestRoomServiceRemoveFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	err := NewRoomService(srv.URL, "user-token").Remove(context.Background(), &Room{ID: "room-1"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
}
