// Package tools defines the server's invokable tools and the registry
// that dispatches to them.
//
// A Descriptor binds a tool name to its description, JSON schema,
// declared parameters and handler. The Registry validates incoming
// arguments against the declaration (unexpected or missing-required
// keys are rejected before the handler runs), applies defaults, and
// wraps every result in the uniform envelope
//
//	{"tool": <name>, "output": <payload>, "timestamp": <UTC>}
//
// Handler failures never escape the dispatch boundary as raw errors: a
// misbehaving handler — even a panicking one — produces an envelope
// whose output carries an "error" key, so one bad invocation can never
// tear down the session multiplexing the rest.
package tools
