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

func newUsersServer(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()
	var deleted []string
	mux := http.NewServeMux()
	mux.HandleFunc("/access_token", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"admin-token","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/users/test_users_s", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer admin-token", r.Header.Get("Authorization"))
		var req createUserRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "cid", req.ClientID)
		assert.Equal(t, "spark:all spark:kms", req.Scopes)
		assert.NotEmpty(t, req.Password)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"user":  map[string]string{"id": "user-1", "email": req.EmailTemplate, "displayName": req.DisplayName},
			"token": map[string]interface{}{"access_token": "user-token", "expires_in": 3600},
		})
	})
	mux.HandleFunc("/users/test_users_delete", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer user-token", r.Header.Get("Authorization"))
		var req deleteUserRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		deleted = append(deleted, req.Email)
		w.WriteHeader(http.StatusNoContent)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &deleted
}

func TestUserServiceCreateAndRemove(t *testing.T) {
	srv, deleted := newUsersServer(t)
	svc := NewUserService(UserServiceConfig{
		BaseURL:      srv.URL,
		TokenURL:     srv.URL + "/access_token",
		ClientID:     "cid",
		ClientSecret: "secret",
	})

	user, err := svc.CreateUser(context.Background(), UserOptions{Email: "e2e@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
	assert.Equal(t, "e2e@example.com", user.Email)
	assert.Equal(t, "user-token", user.Token.AccessToken)
	assert.NotEmpty(t, user.DisplayName)

	require.NoError(t, svc.RemoveUser(context.Background(), user))
	assert.Equal(t, []string{"e2e@example.com"}, *deleted)
}

func TestUserServiceRequiresCredentials(t *testing.T) {
	svc := NewUserService(UserServiceConfig{BaseURL: "http://127.0.0.1:1"})
	_, err := svc.CreateUser(context.Background(), UserOptions{})
	require.Error(t, err)
}

func TestRemoveNilUser(t *testing.T) {
	svc := NewUserService(UserServiceConfig{BaseURL: "http://127.0.0.1:1"})
	assert.NoError(t, svc.RemoveUser(context.Background(), nil))
}
