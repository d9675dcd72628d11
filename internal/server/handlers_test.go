package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ironsheep/chris-mcp/internal/jobs"
	"github.com/ironsheep/chris-mcp/internal/pipeline"
	"github.com/ironsheep/chris-mcp/internal/tools"
)

type stubCatalog struct {
	plugins []map[string]any
	err     error
}

func (c *stubCatalog) ListPlugins(ctx context.Context, limit int) ([]map[string]any, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.plugins, nil
}

// envelope mirrors the wire shape of a tool result.
type envelope struct {
	Tool      string         `json:"tool"`
	Output    map[string]any `json:"output"`
	Timestamp string         `json:"timestamp"`
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	ts := &tools.Toolset{
		Jobs:         jobs.NewStore(),
		Pipeline:     pipeline.Default(),
		Catalog:      &stubCatalog{},
		StepDuration: 30 * time.Second,
		Now:          time.Now,
	}
	reg := tools.NewRegistry()
	if err := ts.RegisterAll(reg); err != nil {
		t.Fatalf("RegisterAll: %v", err)
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(log, reg, "test")
}

func getJSON(t *testing.T, h http.Handler, method, path string, wantStatus int, v any) {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != wantStatus {
		t.Fatalf("%s %s = %d, want %d (body %s)", method, path, rec.Code, wantStatus, rec.Body)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %s response: %v", path, err)
	}
}

func TestAPIRoot(t *testing.T) {
	srv := newTestServer(t)

	var body struct {
		Status string   `json:"status"`
		Tools  []string `json:"tools"`
	}
	getJSON(t, srv.Handler(), http.MethodGet, "/api/v1/", http.StatusOK, &body)

	if body.Status != "ok" {
		t.Errorf("status = %q", body.Status)
	}
	if len(body.Tools) != 4 {
		t.Errorf("tools = %v", body.Tools)
	}
}

func TestPACSEndpoint(t *testing.T) {
	srv := newTestServer(t)

	var env envelope
	getJSON(t, srv.Handler(), http.MethodGet, "/api/v1/pacs/99999", http.StatusOK, &env)

	if env.Tool != "get_pacs_image" {
		t.Errorf("tool = %q", env.Tool)
	}
	if env.Output["url"] != "https://fakepacs.org/images/99999.png" {
		t.Errorf("url = %v", env.Output["url"])
	}
}

func TestPipelineRunAndJobStatus(t *testing.T) {
	srv := newTestServer(t)

	var run envelope
	getJSON(t, srv.Handler(), http.MethodPost, "/api/v1/pipeline/run/anything", http.StatusOK, &run)

	jobID, ok := run.Output["job_id"].(string)
	if !ok || jobID == "" {
		t.Fatalf("job_id = %v", run.Output["job_id"])
	}

	var status envelope
	getJSON(t, srv.Handler(), http.MethodGet, "/api/v1/job/status/"+jobID, http.StatusOK, &status)

	out := status.Output
	if out["status"] != "RUNNING" {
		t.Errorf("status = %v", out["status"])
	}
	if out["step"] != float64(1) || out["total_steps"] != float64(5) {
		t.Errorf("step = %v/%v, want 1/5", out["step"], out["total_steps"])
	}
	if out["percent_complete"] != float64(20) {
		t.Errorf("percent = %v, want 20", out["percent_complete"])
	}
}

func TestJobStatusUnknownJob(t *testing.T) {
	srv := newTestServer(t)

	var env envelope
	getJSON(t, srv.Handler(), http.MethodGet, "/api/v1/job/status/job-nope", http.StatusNotFound, &env)

	if env.Output["error"] != "job not found" {
		t.Errorf("output = %v", env.Output)
	}
}

func TestPipelineRunIgnoresPathParameter(t *testing.T) {
	srv := newTestServer(t)

	ids := make(map[string]bool)
	for _, pid := range []string{"lld", "some-other-pipeline"} {
		var run envelope
		getJSON(t, srv.Handler(), http.MethodPost, "/api/v1/pipeline/run/"+pid, http.StatusOK, &run)
		ids[run.Output["job_id"].(string)] = true
	}
	if len(ids) != 2 {
		t.Errorf("expected 2 distinct jobs, got %v", ids)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{&tools.InvalidArgumentError{Tool: "t", Reason: "r"}, http.StatusBadRequest},
		{&tools.UnknownToolError{Name: "t"}, http.StatusNotFound},
		{&tools.JobNotFoundError{ID: "j"}, http.StatusNotFound},
		{&tools.UpstreamFetchError{Err: errors.New("down")}, http.StatusBadGateway},
		{errors.New("anything else"), http.StatusInternalServerError},
		{fmt.Errorf("wrapped: %w", &tools.JobNotFoundError{ID: "j"}), http.StatusNotFound},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
