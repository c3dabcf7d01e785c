// Package server serves a built site for local development, with live reload.
package server

import (
	"net/http"
	"sync/atomic"

	"github.com/spf13/afero"

	"github.com/p-n-ai/quizgen/internal/assets"
)

// Server serves the output directory, health endpoints and live reload.
type Server struct {
	hub   *Hub
	files http.Handler
	ready atomic.Bool
}

// New creates a server for the site built into outputDir on fs.
func New(fs afero.Fs, outputDir string) *Server {
	return &Server{
		hub:   NewHub(),
		files: http.FileServer(afero.NewHttpFs(fs).Dir(outputDir)),
	}
}

// SetReady marks the first build as finished.
func (s *Server) SetReady() {
	s.ready.Store(true)
}

// Reload notifies live reload clients that the site changed.
func (s *Server) Reload() {
	s.hub.Broadcast()
}

// Hub returns the live reload hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Handler returns the HTTP router.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealthz)
	mux.HandleFunc("GET /readyz", s.handleReadyz)
	mux.Handle("GET /livereload", s.hub)
	mux.HandleFunc("GET /livereload.js", handleLiveReloadScript)
	mux.Handle("GET /", noCache(s.files))
	return mux
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if !s.ready.Load() {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"building"}`))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}

func handleLiveReloadScript(w http.ResponseWriter, r *http.Request) {
	data, err := assets.Read(assets.LiveReloadScript)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(data)
}

// noCache stops browsers from keeping stale pages between rebuilds.
func noCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}
