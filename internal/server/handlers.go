package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ironsheep/chris-mcp/internal/tools"
)

// handleRoot reports server health and the registered tool names.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"tools":  s.registry.Names(),
	})
}

func (s *Server) handlePACSImage(w http.ResponseWriter, r *http.Request) {
	mrn := chi.URLParam(r, "mrn")
	s.dispatch(w, r, "get_pacs_image", map[string]any{"mrn": mrn})
}

func (s *Server) handlePipelineRun(w http.ResponseWriter, r *http.Request) {
	// The underlying tool knows only the built-in definition; the path
	// parameter is accepted and ignored, as it always has been.
	requested := chi.URLParam(r, "pipeline_id")
	s.log.Debug("launching built-in pipeline", "requested_pipeline_id", requested)
	s.dispatch(w, r, "run_pipeline", map[string]any{})
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "job_id")
	s.dispatch(w, r, "get_job_status", map[string]any{"job_id": jobID})
}

// dispatch invokes a tool synchronously and maps its outcome onto the
// HTTP response.
func (s *Server) dispatch(w http.ResponseWriter, r *http.Request, name string, args map[string]any) {
	env, err := s.registry.Dispatch(r.Context(), name, args)
	if err != nil {
		status := statusFor(err)
		s.log.Warn("tool dispatch failed", "tool", name, "status", status, "error", err)
		if env != nil {
			writeJSON(w, status, env)
			return
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, env)
}

// statusFor maps the tool error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	var (
		unknown  *tools.UnknownToolError
		invalid  *tools.InvalidArgumentError
		notFound *tools.JobNotFoundError
		upstream *tools.UpstreamFetchError
	)
	switch {
	case errors.As(err, &invalid):
		return http.StatusBadRequest
	case errors.As(err, &unknown), errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &upstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
