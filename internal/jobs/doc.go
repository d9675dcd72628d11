// Package jobs tracks pipeline launches in memory.
//
// A Job records which definition it was launched from, its input
// parameters and its creation time; nothing else. Progress is not
// executed or stored — Estimate derives it from elapsed wall-clock time
// whenever someone asks, which keeps reads idempotent and the store
// insert-only.
//
// Retention is an explicit decision: by default jobs live for the
// process lifetime, matching the simulation's contract; WithMaxJobs
// bounds memory for long-lived deployments by evicting the oldest job
// past the cap.
package jobs
