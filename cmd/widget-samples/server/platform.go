package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/thesyncim/meetingwidget/pkg/log"
)

// platform is an in-memory stand-in for the collaboration platform endpoints
// the harness provisions through: client-credentials tokens, test users and
// rooms. Everything lives under /v1.
type platform struct {
	clientID     string
	clientSecret string

	mu          sync.Mutex
	adminTokens map[string]struct{}
	users       map[string]*platformUser // by access token
	rooms       map[string]*platformRoom
}

type platformUser struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	password    string
	token       string
}

type platformRoom struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	Type    string    `json:"type"`
	Created time.Time `json:"created"`
}

func newPlatform(clientID, clientSecret string) *platform {
	return &platform{
		clientID:     clientID,
		clientSecret: clientSecret,
		adminTokens:  make(map[string]struct{}),
		users:        make(map[string]*platformUser),
		rooms:        make(map[string]*platformRoom),
	}
}

func (p *platform) register(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/access_token", p.handleToken)
	mux.HandleFunc("POST /v1/users/test_users_s", p.handleCreateUser)
	mux.HandleFunc("POST /v1/users/test_users_delete", p.handleDeleteUser)
	mux.HandleFunc("POST /v1/rooms", p.handleCreateRoom)
	mux.HandleFunc("GET /v1/rooms/{id}", p.handleGetRoom)
	mux.HandleFunc("DELETE /v1/rooms/{id}", p.handleDeleteRoom)
}

func bearer(r *http.Request) string {
	const prefix = "Bearer "
	h := r.Header.Get("Authorization")
	if len(h) > len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
		return h[len(prefix):]
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, status, map[string]string{
		"message":    msg,
		"trackingId": r.Header.Get("TrackingID"),
	})
}

func (p *platform) handleToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid form")
		return
	}
	if r.PostForm.Get("grant_type") != "client_credentials" {
		writeError(w, r, http.StatusBadRequest, "unsupported grant_type")
		return
	}

	id, secret, ok := r.BasicAuth()
	if !ok {
		id, secret = r.PostForm.Get("client_id"), r.PostForm.Get("client_secret")
	}
	if id != p.clientID || secret != p.clientSecret {
		writeError(w, r, http.StatusUnauthorized, "invalid client credentials")
		return
	}

	token := uuid.NewString()
	p.mu.Lock()
	p.adminTokens[token] = struct{}{}
	p.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"access_token": token,
		"token_type":   "Bearer",
		"expires_in":   3600,
	})
}

func (p *platform) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	_, admin := p.adminTokens[bearer(r)]
	p.mu.Unlock()
	if !admin {
		writeError(w, r, http.StatusUnauthorized, "admin token required")
		return
	}

	var req struct {
		DisplayName   string `json:"displayName"`
		EmailTemplate string `json:"emailTemplate"`
		Password      string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.EmailTemplate == "" {
		writeError(w, r, http.StatusBadRequest, "emailTemplate is required")
		return
	}

	user := &platformUser{
		ID:          uuid.NewString(),
		Email:       req.EmailTemplate,
		DisplayName: req.DisplayName,
		password:    req.Password,
		token:       uuid.NewString(),
	}
	p.mu.Lock()
	p.users[user.token] = user
	p.mu.Unlock()

	log.WithFields(map[string]interface{}{"user": user.Email}).Info("platform: created test user")
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user": user,
		"token": map[string]interface{}{
			"access_token": user.token,
			"token_type":   "Bearer",
			"expires_in":   3600,
		},
	})
}

func (p *platform) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid body")
		return
	}

	token := bearer(r)
	p.mu.Lock()
	defer p.mu.Unlock()
	user, ok := p.users[token]
	if !ok || user.Email != req.Email || user.password != req.Password {
		writeError(w, r, http.StatusUnauthorized, "unknown user or credentials")
		return
	}
	delete(p.users, token)
	w.WriteHeader(http.StatusNoContent)
}

func (p *platform) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	if bearer(r) == "" {
		writeError(w, r, http.StatusUnauthorized, "access token required")
		return
	}
	var req struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Title == "" {
		writeError(w, r, http.StatusBadRequest, "title is required")
		return
	}

	room := &platformRoom{
		ID:      uuid.NewString(),
		Title:   req.Title,
		Type:    "group",
		Created: time.Now().UTC(),
	}
	p.mu.Lock()
	p.rooms[room.ID] = room
	p.mu.Unlock()

	log.WithFields(map[string]interface{}{"room": room.ID, "title": room.Title}).Info("platform: created room")
	writeJSON(w, http.StatusOK, room)
}

func (p *platform) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	if bearer(r) == "" {
		writeError(w, r, http.StatusUnauthorized, "access token required")
		return
	}
	p.mu.Lock()
	room, ok := p.rooms[r.PathValue("id")]
	p.mu.Unlock()
	if !ok {
		writeError(w, r, http.StatusNotFound, "room not found")
		return
	}
	writeJSON(w, http.StatusOK, room)
}

func (p *platform) handleDeleteRoom(w http.ResponseWriter, r *http.Request) {
	if bearer(r) == "" {
		writeError(w, r, http.StatusUnauthorized, "access token required")
		return
	}
	id := r.PathValue("id")
	p.mu.Lock()
	_, ok := p.rooms[id]
	delete(p.rooms, id)
	p.mu.Unlock()
	if !ok {
		writeError(w, r, http.StatusNotFound, "room not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// counts returns the number of live users and rooms.
func (p *platform) counts() (users, rooms int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.users), len(p.rooms)
}
