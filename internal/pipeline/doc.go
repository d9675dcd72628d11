// Package pipeline declares pipeline definitions: named, ordered, linear
// chains of processing steps. A definition is a progress-simulation
// template only — the steps it names are never executed by this server.
package pipeline
