package tools

import "fmt"

// DuplicateToolError reports a second registration under the same name.
// It can only happen at startup, before any request is served.
type DuplicateToolError struct {
	Name string
}

func (e *DuplicateToolError) Error() string {
	return fmt.Sprintf("tool %q already registered", e.Name)
}

// UnknownToolError reports an invocation naming a tool that is not
// registered.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool: %s", e.Name)
}

// InvalidArgumentError reports arguments that do not satisfy a tool's
// declared parameters.
type InvalidArgumentError struct {
	Tool   string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid arguments for %s: %s", e.Tool, e.Reason)
}

// JobNotFoundError reports a status query for an unknown job. Its
// message is exactly the payload text clients see.
type JobNotFoundError struct {
	ID string
}

func (e *JobNotFoundError) Error() string { return "job not found" }

// UpstreamFetchError wraps a failed or timed-out remote catalog call.
type UpstreamFetchError struct {
	Err error
}

func (e *UpstreamFetchError) Error() string { return e.Err.Error() }

func (e *UpstreamFetchError) Unwrap() error { return e.Err }
