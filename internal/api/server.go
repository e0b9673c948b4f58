package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mverdev/jobsift/internal/core"
	"github.com/mverdev/jobsift/internal/store"
)

// Server is the read/search boundary over the job store. Ingestion never
// goes through it; external search clients do.
type Server struct {
	router   *chi.Mux
	store    *store.Store
	sessions *core.SessionStore
}

func NewServer(store *store.Store, sessions *core.SessionStore) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		store:    store,
		sessions: sessions,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	s.router.Get("/health", s.handleHealth)
	s.router.Get("/search", s.handleSearch)
	s.router.Get("/jobs", s.handleListJobs)
	s.router.Get("/jobs/lookup", s.handleJobByLink)
	s.router.Get("/stats", s.handleStats)
	s.router.Post("/sessions", s.handleCreateSession)
	s.router.Get("/sessions/{id}/jobs", s.handleSessionJobs)
}

func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
