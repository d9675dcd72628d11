package jobs

import "time"

// Status of a job as derived from elapsed time.
type Status string

const (
	StatusRunning   Status = "RUNNING"
	StatusCompleted Status = "COMPLETED"
)

// State is the derived progress of a job at a given instant. It is
// computed fresh on every query and never stored.
type State struct {
	Status     Status
	Step       int
	TotalSteps int
	StepTitle  string
	Percent    int
}

// Estimate derives the progress of job at time now, assuming every step
// takes perStep. The result is a pure function of (job, now): step is
// non-decreasing as now advances and COMPLETED is absorbing.
func Estimate(job *Job, now time.Time, perStep time.Duration) State {
	n := len(job.Steps)
	if n == 0 {
		return State{Status: StatusCompleted, Percent: 100}
	}

	elapsed := now.Sub(job.CreatedAt)
	if elapsed < 0 {
		elapsed = 0
	}

	idx := int(elapsed / perStep)
	if idx > n-1 {
		idx = n - 1
	}

	completed := elapsed >= perStep*time.Duration(n)
	st := State{Status: StatusRunning, TotalSteps: n}
	if completed {
		st.Status = StatusCompleted
		st.Step = n
		st.StepTitle = job.Steps[n-1].Title
	} else {
		st.Step = idx + 1
		st.StepTitle = job.Steps[idx].Title
	}
	st.Percent = st.Step * 100 / n
	return st
}
