package tools

import (
	"encoding/json"
	"time"
)

// timestampLayout matches the wire format every client of this server
// has seen since the first release: UTC, second resolution.
const timestampLayout = "2006-01-02 15:04:05"

// Envelope is the uniform wrapper around every tool result.
type Envelope struct {
	Tool      string `json:"tool"`
	Output    any    `json:"output"`
	Timestamp string `json:"timestamp"`
}

func newEnvelope(tool string, output any, now time.Time) *Envelope {
	return &Envelope{
		Tool:      tool,
		Output:    output,
		Timestamp: now.UTC().Format(timestampLayout),
	}
}

// JSON renders the envelope as indented JSON. Marshal failures are
// swallowed; the envelope only ever carries marshalable payloads.
func (e *Envelope) JSON() string {
	b, _ := json.MarshalIndent(e, "", "  ")
	return string(b)
}
