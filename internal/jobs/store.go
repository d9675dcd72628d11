package jobs

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ironsheep/chris-mcp/internal/pipeline"
)

// ErrJobNotFound is returned by Get for an unknown job identifier.
var ErrJobNotFound = errors.New("job not found")

// Job is one tracked pipeline launch. It carries its own snapshot of the
// definition's step list and is never mutated after creation.
type Job struct {
	ID        string
	Pipeline  string
	Steps     []pipeline.Step
	Input     map[string]string
	CreatedAt time.Time
}

// Store is an in-memory, insert-only job table. Identifiers are
// uuid-derived, so concurrent creates never collide. A Store is safe for
// concurrent use.
type Store struct {
	mu      sync.Mutex
	jobs    map[string]*Job
	order   []string
	maxJobs int
	now     func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithMaxJobs caps the number of retained jobs. When the cap is exceeded
// the oldest job is evicted. Zero means unlimited retention.
func WithMaxJobs(n int) Option {
	return func(s *Store) { s.maxJobs = n }
}

// WithClock overrides the creation-timestamp source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore returns an empty Store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		jobs: make(map[string]*Job),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create inserts a new job launched from def with the given input
// parameters and returns it. The step list and input map are copied, so
// later changes to the caller's definition do not reach the job.
func (s *Store) Create(def *pipeline.Definition, input map[string]string) *Job {
	steps := make([]pipeline.Step, len(def.Steps))
	copy(steps, def.Steps)

	params := make(map[string]string, len(input))
	for k, v := range input {
		params[k] = v
	}

	job := &Job{
		ID:        "job-" + uuid.NewString(),
		Pipeline:  def.Name,
		Steps:     steps,
		Input:     params,
		CreatedAt: s.now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
	s.order = append(s.order, job.ID)
	if s.maxJobs > 0 && len(s.order) > s.maxJobs {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.jobs, oldest)
	}
	return job
}

// Get returns the job with the given identifier, or ErrJobNotFound.
func (s *Store) Get(id string) (*Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, ErrJobNotFound
	}
	return job, nil
}

// Len reports the number of retained jobs.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}
