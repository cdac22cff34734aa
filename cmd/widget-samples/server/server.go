// Package server provides an importable stand-in for the meeting widget
// samples app, so e2e runs can start and stop it without running main().
//
// It serves the samples and meeting pages, answers the widget's WebRTC offers
// and fakes the collaboration platform endpoints used for provisioning.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/thesyncim/meetingwidget/pkg/log"
)

// Config holds server configuration options.
type Config struct {
	Addr         string        // Listen address (e.g., ":8080" or ":0" for random port)
	ReadTimeout  time.Duration // HTTP read timeout
	WriteTimeout time.Duration // HTTP write timeout

	// Client credentials the fake platform accepts on /v1/access_token.
	ClientID     string
	ClientSecret string
}

// DefaultConfig returns a configuration suitable for testing.
// Uses ":0" to bind to a random available port.
func DefaultConfig() Config {
	return Config{
		Addr:         ":0",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		ClientID:     "local-client",
		ClientSecret: "local-secret",
	}
}

// Server is the samples app stand-in.
type Server struct {
	httpServer *http.Server
	listener   net.Listener
	media      *media
	platform   *platform
	addr       string
	mu         sync.Mutex
	running    bool
}

// NewServer creates a new server with the given configuration.
// The server is not started until Start() is called.
func NewServer(cfg Config) (*Server, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("client credentials are required")
	}

	s := &Server{
		media:    newMedia(),
		platform: newPlatform(cfg.ClientID, cfg.ClientSecret),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", servePage(SamplesPage))
	mux.HandleFunc("GET /meeting", servePage(MeetingPage))
	mux.HandleFunc("POST /offer", s.media.HandleOffer)
	mux.HandleFunc("POST /leave", s.media.HandleLeave)
	mux.HandleFunc("GET /stats", s.media.HandleStats)
	s.platform.register(mux)

	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s, nil
}

func servePage(html string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(html))
	}
}

// Start begins listening and serving HTTP requests.
// Returns the actual address the server is listening on (useful when port is 0).
// This method is non-blocking - the server runs in a goroutine.
func (s *Server) Start() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return s.addr, nil
	}

	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return "", fmt.Errorf("failed to listen: %w", err)
	}

	s.listener = ln
	s.addr = ln.Addr().String()
	s.running = true

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Errorf("samples server stopped: %v", err)
		}
	}()

	return s.addr, nil
}

// Shutdown closes every media session and gracefully stops HTTP.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	s.running = false
	s.media.closeAll()
	return s.httpServer.Shutdown(ctx)
}

// Addr returns the address the server is listening on.
// Returns empty string if server is not running.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// URL returns an http://localhost URL for the listening port. Chrome only
// exposes getUserMedia on secure contexts, which include localhost but not
// the wildcard address Start reports.
func (s *Server) URL() string {
	addr := s.Addr()
	if addr == "" {
		return ""
	}
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return ""
	}
	return "http://localhost:" + port
}

// MediaStats reports packets received from joined participants.
func (s *Server) MediaStats() MediaStats {
	return s.media.Stats()
}

// PlatformCounts reports how many test users and rooms currently exist on
// the fake platform.
func (s *Server) PlatformCounts() (users, rooms int) {
	return s.platform.counts()
}
