// Package jobs runs merge and group requests asynchronously on a bounded
// worker pool and tracks their state until the results are collected.
package jobs

import (
	"sort"
	"sync"
	"time"

	"github.com/jvillalba/docunir/internal/unify"
)

// Status represents the state of a job.
type Status string

const (
	StatusQueued    Status = "queued"
	StatusParsing   Status = "parsing"
	StatusComposing Status = "composing"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Mode selects which assembler a job runs.
type Mode string

const (
	ModeMerge Mode = "merge"
	ModeGroup Mode = "group"
)

// Params carries everything a worker needs to run a job.
type Params struct {
	Mode             Mode
	Levels           []int
	ExactTitles      []string
	EnforceWhitelist bool
	GroupLevel       int
	Inputs           []unify.Input
}

// Job tracks the state of a single merge or group request.
type Job struct {
	mu sync.Mutex

	ID        string    `json:"job_id"`
	Mode      Mode      `json:"mode"`
	Status    Status    `json:"status"`
	Phase     string    `json:"phase"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	params  Params
	files   map[string][]byte
	skipped []unify.Skip
	errors  []string
}

// New builds a queued job for the given parameters.
func New(params Params) *Job {
	now := time.Now()
	return &Job{
		ID:        newULID(),
		Mode:      params.Mode,
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: now,
		UpdatedAt: now,
		params:    params,
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status Status, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.UpdatedAt = time.Now()
}

// Params returns the work description the job was submitted with.
func (j *Job) Params() Params {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.params
}

// SetResult stores the produced artifacts and skip list.
func (j *Job) SetResult(files map[string][]byte, skipped []unify.Skip) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.files = files
	j.skipped = skipped
	j.UpdatedAt = time.Now()
}

// File returns one produced artifact by name.
func (j *Job) File(name string) ([]byte, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	data, ok := j.files[name]
	return data, ok
}

// Snapshot is a read-only, JSON-safe copy of job state.
type Snapshot struct {
	ID         string       `json:"job_id"`
	Mode       Mode         `json:"mode"`
	Status     Status       `json:"status"`
	Phase      string       `json:"phase"`
	InputCount int          `json:"input_count"`
	Files      []string     `json:"files"`
	Skipped    []unify.Skip `json:"skipped"`
	Errors     []string     `json:"errors"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state. Slices are never nil
// so they serialize as empty lists.
func (j *Job) Snapshot() Snapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	files := make([]string, 0, len(j.files))
	for name := range j.files {
		files = append(files, name)
	}
	sort.Strings(files)
	skipped := j.skipped
	if skipped == nil {
		skipped = []unify.Skip{}
	}
	errs := j.errors
	if errs == nil {
		errs = []string{}
	}
	return Snapshot{
		ID:         j.ID,
		Mode:       j.Mode,
		Status:     j.Status,
		Phase:      j.Phase,
		InputCount: len(j.params.Inputs),
		Files:      files,
		Skipped:    skipped,
		Errors:     errs,
		CreatedAt:  j.CreatedAt,
		UpdatedAt:  j.UpdatedAt,
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.UpdatedAt) > s.ttl {
			delete(s.jobs, id)
		}
	}
}
