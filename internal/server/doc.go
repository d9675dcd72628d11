// Package server exposes the pipeline tools over two transports.
//
// # Session transport
//
// MCP over SSE: a client GETs /sse to open the long-lived event stream
// and receives a session-scoped message endpoint (/messages?sessionId=…)
// in the handshake. Tool-invocation requests POSTed there are dispatched
// concurrently; each result is written back to the stream as one JSON
// event tagged with the caller's request id, in whatever order handlers
// finish. A failed or panicking handler produces a structured error
// result on the same stream — it never closes the session, and closing
// one session never touches another.
//
// # REST facade
//
// Stateless synchronous wrappers for clients that cannot hold a duplex
// session:
//
//	GET  /api/v1/                            server status and tool names
//	GET  /api/v1/pacs/{mrn}                  PACS image URL for an MRN
//	POST /api/v1/pipeline/run/{pipeline_id}  launch the built-in pipeline
//	GET  /api/v1/job/status/{job_id}         derived progress for a job
//
// Each endpoint blocks until the tool completes and returns the same
// envelope the session transport would deliver, with tool errors mapped
// to 4xx/5xx statuses: bad arguments 400, unknown tool or job 404,
// catalog failures 502.
//
// # Available tools
//
//   - list_chris_plugins: fetch plugin entries from the ChRIS CUBE catalog
//   - get_pacs_image: construct a PACS image URL for a patient MRN
//   - run_pipeline: launch a tracked pipeline job
//   - get_job_status: derive a job's progress from elapsed time
package server
