package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/lunehart/pixelgrid/pkg/errors"
	"github.com/lunehart/pixelgrid/pkg/pipeline"
)

// runRequest is the POST /v1/runs body. Inputs are base64-encoded PNGs keyed
// by source node name; encoding/json handles the base64 transparently for
// []byte values.
type runRequest struct {
	Manifest string            `json:"manifest"`
	Inputs   map[string][]byte `json:"inputs,omitempty"`
	Refresh  bool              `json:"refresh,omitempty"`
}

// runResponse is the POST /v1/runs success body.
type runResponse struct {
	RunID     string            `json:"run_id"`
	Artifacts map[string][]byte `json:"artifacts"`
	Processed int               `json:"processed"`
	Skipped   int               `json:"skipped"`
	Failed    int               `json:"failed"`
	CacheHit  bool              `json:"cache_hit"`
	Duration  string            `json:"duration"`
}

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, string(apperrors.ErrCodeInvalidInput), "invalid JSON body")
		return
	}
	if req.Manifest == "" {
		writeError(w, http.StatusBadRequest, string(apperrors.ErrCodeInvalidManifest), "manifest is required")
		return
	}

	start := time.Now()
	result, err := s.runner.Execute(r.Context(), pipeline.Options{
		Manifest: req.Manifest,
		Inputs:   req.Inputs,
		Refresh:  req.Refresh,
		Logger:   s.logger.With("request_id", RequestID(r.Context())),
	})
	if err != nil {
		status, code := classify(err)
		writeError(w, status, code, apperrors.UserMessage(err))
		return
	}

	writeJSON(w, http.StatusOK, runResponse{
		RunID:     result.RunID.String(),
		Artifacts: result.Artifacts,
		Processed: result.Stats.Processed,
		Skipped:   result.Stats.Skipped,
		Failed:    result.Stats.Failed,
		CacheHit:  result.CacheHit,
		Duration:  time.Since(start).String(),
	})
}

// classify maps an error to an HTTP status and machine-readable code.
func classify(err error) (int, string) {
	code := apperrors.GetCode(err)
	switch {
	case code == "":
		return http.StatusInternalServerError, string(apperrors.ErrCodeInternal)
	case strings.HasPrefix(string(code), "INVALID_"),
		strings.HasPrefix(string(code), "GRAPH_"):
		return http.StatusBadRequest, string(code)
	case strings.HasSuffix(string(code), "NOT_FOUND"):
		return http.StatusNotFound, string(code)
	default:
		return http.StatusInternalServerError, string(code)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorResponse{Error: msg, Code: code})
}
