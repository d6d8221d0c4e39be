// Package server provides the HTTP server for the Taalam instrument.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ayusman/taalam/internal/capture"
	"github.com/ayusman/taalam/internal/engine"
	"github.com/ayusman/taalam/internal/server/api"
	"github.com/ayusman/taalam/internal/store"
)

// SnapshotSource provides the most recent engine snapshot. The ok result
// is false until the engine has produced its first frame.
type SnapshotSource interface {
	Snapshot() (engine.Snapshot, bool)
}

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	Camera    capture.Camera
	Snapshots SnapshotSource
}

// Server represents the HTTP server for the Taalam application.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	// Register preset and scale API handlers if Store is configured
	if s.config.Store != nil {
		presetHandler := api.NewPresetHandler(s.config.Store)
		s.mux.Handle("/api/presets", presetHandler)
		s.mux.Handle("/api/presets/", presetHandler)

		scaleHandler := api.NewScaleHandler(s.config.Store)
		s.mux.Handle("/api/scales", scaleHandler)
		s.mux.Handle("/api/scales/", scaleHandler)
	}

	// Register camera stream endpoint if Camera is configured
	if s.config.Camera != nil {
		streamHandler := NewStreamHandler(s.config.Camera)
		s.mux.Handle("/api/stream", streamHandler)
	}

	// Register state WebSocket endpoint if a snapshot source is configured
	if s.config.Snapshots != nil {
		stateHandler := NewStateHandler(s.config.Snapshots)
		s.mux.Handle("/api/state", stateHandler)
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
