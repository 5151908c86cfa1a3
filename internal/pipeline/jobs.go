package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dgallion1/xapidoc/internal/apitree"
	"github.com/dgallion1/xapidoc/internal/extract"
)

// JobStatus represents the state of an extraction job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusLoading    JobStatus = "loading"
	StatusParsing    JobStatus = "parsing"
	StatusPublishing JobStatus = "publishing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
	StatusPartial    JobStatus = "partial"
	StatusDupSkipped JobStatus = "duplicate_skipped"
)

// Done reports whether no further transitions follow.
func (s JobStatus) Done() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusPartial, StatusDupSkipped:
		return true
	}
	return false
}

// Job tracks the state of a single document extraction.
type Job struct {
	mu sync.Mutex

	ID    string `json:"job_id"`
	DocID string `json:"doc_id"`

	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Filename string    `json:"filename"`
	Title    string    `json:"title"`

	// Force publishes even when the content hash is already indexed.
	Force bool `json:"force"`

	Progress Progress `json:"progress"`

	ContentHash string    `json:"content_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData []byte
	model    *apitree.API
	issues   []extract.Issue
	errors   []string
}

// Progress tracks processing progress.
type Progress struct {
	Pages     int                     `json:"pages"`
	Words     int                     `json:"words"`
	Entities  map[apitree.Kind]int    `json:"entities"`
	Sections  []extract.SectionResult `json:"sections"`
	Issues    int                     `json:"issues"`
	Published int                     `json:"published"`
	Errors    []string                `json:"errors"`
}

// NewJob returns a queued job with a fresh ID.
func NewJob(filename, title string) *Job {
	now := time.Now()
	return &Job{
		ID:        uuid.NewString(),
		Status:    StatusQueued,
		Phase:     "queued",
		Filename:  filename,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
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

// Len returns the number of tracked jobs.
func (s *JobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Snapshots returns a snapshot of every tracked job in no particular order.
func (s *JobStore) Snapshots() []JobSnapshot {
	s.mu.Lock()
	jobs := make([]*Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		jobs = append(jobs, j)
	}
	s.mu.Unlock()

	snaps := make([]JobSnapshot, len(jobs))
	for i, j := range jobs {
		snaps[i] = j.Snapshot()
	}
	return snaps
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		job.mu.Lock()
		updated := job.UpdatedAt
		job.mu.Unlock()
		if now.Sub(updated) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
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
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// SetDocument records the size of the loaded document.
func (j *Job) SetDocument(pages, words int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Pages = pages
	j.Progress.Words = words
	j.UpdatedAt = time.Now()
}

// SetContent records the identity derived from the loaded document.
func (j *Job) SetContent(docID, title, hash string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.DocID = docID
	j.Title = title
	j.ContentHash = hash
	j.UpdatedAt = time.Now()
}

// SetModel stores the extraction result and its validation issues.
func (j *Job) SetModel(api *apitree.API, report extract.Report, issues []extract.Issue) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.model = api
	j.issues = issues
	j.Progress.Sections = report.Sections
	j.Progress.Issues = len(issues)
	j.Progress.Entities = make(map[apitree.Kind]int, len(apitree.Kinds))
	for _, k := range apitree.Kinds {
		j.Progress.Entities[k] = api.Count(k)
	}
	j.UpdatedAt = time.Now()
}

// Model returns the extracted model, or nil before parsing finished.
func (j *Job) Model() *apitree.API {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.model
}

// Issues returns the validation issues of the model.
func (j *Job) Issues() []extract.Issue {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.issues
}

// IncrPublished atomically increments the published entity count.
func (j *Job) IncrPublished() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Published++
	j.UpdatedAt = time.Now()
}

// SetFileData sets the raw file bytes for processing.
func (j *Job) SetFileData(data []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = data
}

// FileData returns the raw file bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// releaseFileData drops the upload once it has been loaded.
func (j *Job) releaseFileData() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = nil
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID          string    `json:"job_id"`
	DocID       string    `json:"doc_id"`
	Status      JobStatus `json:"status"`
	Phase       string    `json:"phase"`
	Filename    string    `json:"filename"`
	Title       string    `json:"title"`
	ContentHash string    `json:"content_hash,omitempty"`
	Progress    Progress  `json:"progress"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := append([]string{}, j.Progress.Errors...)
	entities := make(map[apitree.Kind]int, len(j.Progress.Entities))
	for k, n := range j.Progress.Entities {
		entities[k] = n
	}
	p := j.Progress
	p.Errors = errs
	p.Entities = entities
	p.Sections = append([]extract.SectionResult(nil), j.Progress.Sections...)
	return JobSnapshot{
		ID:          j.ID,
		DocID:       j.DocID,
		Status:      j.Status,
		Phase:       j.Phase,
		Filename:    j.Filename,
		Title:       j.Title,
		ContentHash: j.ContentHash,
		Progress:    p,
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
