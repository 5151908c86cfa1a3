package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/dgallion1/xapidoc/internal/config"
	"github.com/dgallion1/xapidoc/internal/extract"
	"github.com/dgallion1/xapidoc/internal/pathstore"
)

// Orchestrator manages the document extraction pipeline.
type Orchestrator struct {
	jobs      *JobStore
	queue     chan *Job
	extractor *extract.Extractor
	ps        *pathstore.Client
	log       *slog.Logger
	cfg       config.Config

	cancel context.CancelFunc
	wg     sync.WaitGroup

	// mu guards stopped against Submit racing the close of queue.
	mu      sync.RWMutex
	stopped bool
}

// ErrStopped is returned by Submit once the pipeline is shutting down.
var ErrStopped = errors.New("pipeline is stopped")

// NewOrchestrator creates the pipeline. ps may be nil when publishing is
// disabled.
func NewOrchestrator(cfg config.Config, ex *extract.Extractor, ps *pathstore.Client, log *slog.Logger) *Orchestrator {
	if ex.Stats == nil {
		ex.Stats = extract.NewParseStats(cfg.StatsWindow)
	}
	return &Orchestrator{
		jobs:      NewJobStore(cfg.JobTTL),
		queue:     make(chan *Job, cfg.MaxQueueSize),
		extractor: ex,
		ps:        ps,
		log:       log,
		cfg:       cfg,
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for range o.cfg.WorkerCount {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.extractor, o.ps, o.log, o.cfg.MaxConcurrentStore)
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					start := time.Now()
					w.Process(workerCtx, job)
					snap := job.Snapshot()
					o.log.Info("job finished",
						"job_id", snap.ID,
						"status", snap.Status,
						"entities", snap.Progress.Entities,
						"duration_ms", time.Since(start).Milliseconds(),
						"queue_depth", len(o.queue))
				}
			}
		}()
	}

	// Start job store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	if o.stopped {
		o.mu.Unlock()
		return
	}
	o.stopped = true
	close(o.queue)
	o.mu.Unlock()

	if o.cancel != nil {
		o.cancel()
	}
	o.wg.Wait()
}

// Submit queues a new job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.stopped {
		job.SetStatus(StatusFailed, "stopped")
		return ErrStopped
	}
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// Jobs returns snapshots of the tracked jobs, newest first. A limit of zero
// returns all of them.
func (o *Orchestrator) Jobs(limit int) []JobSnapshot {
	snaps := o.jobs.Snapshots()
	slices.SortFunc(snaps, func(a, b JobSnapshot) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if limit > 0 && len(snaps) > limit {
		snaps = snaps[:limit]
	}
	return snaps
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// ParseStats returns the rolling section parse statistics.
func (o *Orchestrator) ParseStats() extract.StatsSnapshot {
	return o.extractor.Stats.Snapshot()
}

// PathstoreClient returns the pathstore client for direct use by API
// handlers, or nil when publishing is disabled.
func (o *Orchestrator) PathstoreClient() *pathstore.Client {
	return o.ps
}
