package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mverdev/jobsift/internal/observability"
	"github.com/mverdev/jobsift/internal/store"
)

func parseIntParam(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")
	limit := parseIntParam(r, "limit", 50)

	jobs, err := s.store.SearchJobs(r.Context(), title, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to search jobs")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  jobs,
		"count": len(jobs),
	})
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	limit := parseIntParam(r, "limit", 20)
	offset := parseIntParam(r, "offset", 0)

	jobs, total, err := s.store.GetJobs(r.Context(), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list jobs")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":   jobs,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// handleJobByLink resolves a stored record by its link, the identity the
// ingestion engine dedupes on.
func (s *Server) handleJobByLink(w http.ResponseWriter, r *http.Request) {
	link := r.URL.Query().Get("link")
	if link == "" {
		respondError(w, http.StatusBadRequest, "link query parameter required")
		return
	}

	job, err := s.store.GetJobByLink(r.Context(), link)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "job not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load job")
		return
	}
	respondJSON(w, http.StatusOK, job)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, observability.Snapshot())
}

type createSessionRequest struct {
	JobIDs   []int64  `json:"job_ids"`
	JobLinks []string `json:"job_links"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.JobIDs) == 0 && len(req.JobLinks) == 0 {
		respondError(w, http.StatusBadRequest, "job_ids or job_links required")
		return
	}

	session := s.sessions.Create(req.JobIDs, req.JobLinks)
	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"session_id": session.ID,
		"created_at": session.CreatedAt,
	})
}

func (s *Server) handleSessionJobs(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	session, ok := s.sessions.Get(id)
	if !ok {
		respondError(w, http.StatusNotFound, "session not found or expired")
		return
	}

	var jobs []store.Job
	if len(session.JobIDs) > 0 {
		byID, err := s.store.GetJobsByIDs(r.Context(), session.JobIDs)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "failed to load session jobs")
			return
		}
		jobs = append(jobs, byID...)
	}
	if len(session.JobLinks) > 0 {
		byLink, err := s.store.GetJobsByLinks(r.Context(), session.JobLinks)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "failed to load session jobs")
			return
		}
		jobs = append(jobs, byLink...)
	}
	if jobs == nil {
		jobs = []store.Job{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  jobs,
		"count": len(jobs),
	})
}
