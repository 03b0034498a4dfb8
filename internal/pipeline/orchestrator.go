package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/docxmd/internal/config"
	"github.com/dgallion1/docxmd/internal/linearize"
)

// ErrStopped is returned by Submit after Stop.
var ErrStopped = errors.New("pipeline is stopped")

// Orchestrator manages the conversion queue and its workers.
type Orchestrator struct {
	jobs   *JobStore
	cache  *ResultCache
	stats  *ConvertStats
	worker *Worker
	queue  chan *Job
	log    *slog.Logger
	cfg    config.Config

	mu      sync.Mutex
	stopped bool

	cancel  context.CancelFunc
	workers sync.WaitGroup
	wg      sync.WaitGroup
}

// NewOrchestrator creates the pipeline. Call Start to launch workers.
func NewOrchestrator(cfg config.Config, log *slog.Logger) *Orchestrator {
	o := &Orchestrator{
		jobs:  NewJobStore(cfg.JobTTL),
		cache: NewResultCache(cfg.ResultCacheTTL),
		stats: NewConvertStats(time.Hour),
		queue: make(chan *Job, cfg.MaxQueueSize),
		log:   log,
		cfg:   cfg,
	}
	o.worker = NewWorker(log, o.stats, o.cache, cfg.SummarizeUploads)
	return o
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for range o.cfg.WorkerCount {
		o.workers.Add(1)
		go func() {
			defer o.workers.Done()
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					o.worker.Process(workerCtx, job)
				}
			}
		}()
	}

	// Expire old jobs and cached results.
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
				o.cache.Cleanup()
			}
		}
	}()
}

// Stop closes the queue, lets workers finish what is already queued, then
// stops background maintenance.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	if o.stopped {
		o.mu.Unlock()
		return
	}
	o.stopped = true
	close(o.queue)
	o.mu.Unlock()

	o.workers.Wait()
	if o.cancel != nil {
		o.cancel()
	}
	o.wg.Wait()
}

// Submit queues a new job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.stopped {
		return ErrStopped
	}

	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.Fail("queue_full", "job queue is full")
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// Convert runs a conversion synchronously on the caller's goroutine.
func (o *Orchestrator) Convert(data []byte, filename string, opts linearize.Options) (string, bool, error) {
	return o.worker.Convert(data, filename, opts)
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// Stats returns conversion latency figures.
func (o *Orchestrator) Stats() StatsSnapshot {
	return o.stats.Snapshot()
}

// CachedResults returns the number of cached conversions.
func (o *Orchestrator) CachedResults() int {
	return o.cache.Len()
}
