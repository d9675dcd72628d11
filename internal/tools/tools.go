package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ironsheep/chris-mcp/internal/jobs"
	"github.com/ironsheep/chris-mcp/internal/pipeline"
)

// pacsImageURL is the deterministic PACS lookup template. There is no
// real PACS behind it.
const pacsImageURL = "https://fakepacs.org/images/%s.png"

const defaultMRN = "12345"

// Catalog is the remote plugin catalog the list tool queries.
type Catalog interface {
	ListPlugins(ctx context.Context, limit int) ([]map[string]any, error)
}

// Toolset owns the dependencies behind the server's tools and registers
// their descriptors. Exactly one Toolset exists per process.
type Toolset struct {
	Jobs         *jobs.Store
	Pipeline     *pipeline.Definition
	Catalog      Catalog
	StepDuration time.Duration

	// Now is the clock used for progress estimation. Defaults to
	// time.Now; tests inject a fixed clock.
	Now func() time.Time
}

// RegisterAll registers every tool this server exposes.
func (t *Toolset) RegisterAll(r *Registry) error {
	if t.Now == nil {
		t.Now = time.Now
	}

	descriptors := []*Descriptor{
		{
			Name:        "list_chris_plugins",
			Description: "List plugins from ChRIS Cube",
			Schema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"limit": {
						"type": "integer",
						"description": "Maximum number of plugins to return",
						"default": 5
					}
				}
			}`),
			Params: []Param{
				{Name: "limit", Type: "integer", Default: 5},
			},
			Handler: t.listChrisPlugins,
		},
		{
			Name:        "get_pacs_image",
			Description: "Grab a PACS image URL by patient MRN (defaults to 12345)",
			Schema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"mrn": {
						"type": "string",
						"description": "Patient medical record number",
						"default": "12345"
					}
				}
			}`),
			Params: []Param{
				{Name: "mrn", Type: "string", Default: defaultMRN},
			},
			Handler: t.getPACSImage,
		},
		{
			Name:        "run_pipeline",
			Description: "Kick off the full LLD pipeline for a given patient MRN (defaults to 12345)",
			Schema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"mrn": {
						"type": "string",
						"description": "Patient medical record number",
						"default": "12345"
					}
				}
			}`),
			Params: []Param{
				{Name: "mrn", Type: "string", Default: defaultMRN},
			},
			Handler: t.runPipeline,
		},
		{
			Name:        "get_job_status",
			Description: "Get status of a job with step delays",
			Schema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"job_id": {
						"type": "string",
						"description": "Identifier returned by run_pipeline"
					}
				},
				"required": ["job_id"]
			}`),
			Params: []Param{
				{Name: "job_id", Type: "string", Required: true},
			},
			Handler: t.getJobStatus,
		},
	}

	for _, d := range descriptors {
		if err := r.Register(d); err != nil {
			return err
		}
	}
	return nil
}

func (t *Toolset) listChrisPlugins(ctx context.Context, args map[string]any) (any, error) {
	limit, err := intArg("list_chris_plugins", args, "limit")
	if err != nil {
		return nil, err
	}
	plugins, err := t.Catalog.ListPlugins(ctx, limit)
	if err != nil {
		return nil, &UpstreamFetchError{Err: err}
	}
	return map[string]any{"plugins": plugins}, nil
}

func (t *Toolset) getPACSImage(ctx context.Context, args map[string]any) (any, error) {
	mrn, err := stringArg("get_pacs_image", args, "mrn")
	if err != nil {
		return nil, err
	}
	return map[string]any{"url": fmt.Sprintf(pacsImageURL, mrn)}, nil
}

func (t *Toolset) runPipeline(ctx context.Context, args map[string]any) (any, error) {
	mrn, err := stringArg("run_pipeline", args, "mrn")
	if err != nil {
		return nil, err
	}
	job := t.Jobs.Create(t.Pipeline, map[string]string{"mrn": mrn})
	return map[string]any{"job_id": job.ID}, nil
}

func (t *Toolset) getJobStatus(ctx context.Context, args map[string]any) (any, error) {
	id, err := stringArg("get_job_status", args, "job_id")
	if err != nil {
		return nil, err
	}
	job, err := t.Jobs.Get(id)
	if err != nil {
		if errors.Is(err, jobs.ErrJobNotFound) {
			return nil, &JobNotFoundError{ID: id}
		}
		return nil, err
	}

	st := jobs.Estimate(job, t.Now(), t.StepDuration)
	return map[string]any{
		"job_id":           job.ID,
		"status":           string(st.Status),
		"step":             st.Step,
		"total_steps":      st.TotalSteps,
		"step_title":       st.StepTitle,
		"percent_complete": st.Percent,
	}, nil
}

func stringArg(tool string, args map[string]any, key string) (string, error) {
	v, ok := args[key].(string)
	if !ok {
		return "", &InvalidArgumentError{Tool: tool, Reason: fmt.Sprintf("%q must be a string", key)}
	}
	return v, nil
}

// intArg accepts both native ints (declared defaults) and float64s
// (JSON-decoded arguments).
func intArg(tool string, args map[string]any, key string) (int, error) {
	switch v := args[key].(type) {
	case int:
		return v, nil
	case float64:
		return int(v), nil
	default:
		return 0, &InvalidArgumentError{Tool: tool, Reason: fmt.Sprintf("%q must be an integer", key)}
	}
}
