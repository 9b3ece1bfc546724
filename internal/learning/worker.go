package learning

import (
	"context"
	"sync"
	"time"

	"musclemap/prescription-engine/internal/logger"
)

const (
	DefaultQueueSize = 256
	DefaultWorkers   = 2

	jobTimeout = 30 * time.Second
)

// Updater reruns adaptive learning for one user.
type Updater interface {
	Update(ctx context.Context, userID string) (bool, error)
}

type WorkerOptions struct {
	QueueSize int
	Workers   int
}

// Worker runs adaptive updates off the request path. Jobs are best effort:
// a full queue drops the job and a failed job is only logged.
type Worker struct {
	log     *logger.Logger
	updater Updater
	queue   chan string
	workers int
	wg      sync.WaitGroup
}

func NewWorker(baseLog *logger.Logger, updater Updater, opts WorkerOptions) *Worker {
	size := opts.QueueSize
	if size <= 0 {
		size = DefaultQueueSize
	}
	workers := opts.Workers
	if workers < 1 {
		workers = DefaultWorkers
	}
	return &Worker{
		log:     logger.OrNop(baseLog).With("component", "LearningWorker"),
		updater: updater,
		queue:   make(chan string, size),
		workers: workers,
	}
}

// Start launches the worker pool. The loops exit when ctx is cancelled.
func (w *Worker) Start(ctx context.Context) {
	w.log.Info("Starting learning worker pool", "concurrency", w.workers, "queue_size", cap(w.queue))
	for i := 0; i < w.workers; i++ {
		workerID := i + 1
		w.wg.Add(1)
		go w.runLoop(ctx, workerID)
	}
}

// Wait blocks until every loop started by Start has returned.
func (w *Worker) Wait() {
	w.wg.Wait()
}

// Enqueue schedules an update for userID without blocking.
func (w *Worker) Enqueue(userID string) bool {
	select {
	case w.queue <- userID:
		return true
	default:
		w.log.Warn("Learning queue full, dropping update", "userId", userID)
		return false
	}
}

func (w *Worker) runLoop(ctx context.Context, workerID int) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			w.log.Info("Worker loop stopped", "worker_id", workerID)
			return
		case userID := <-w.queue:
			w.run(ctx, workerID, userID)
		}
	}
}

func (w *Worker) run(ctx context.Context, workerID int, userID string) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Error("Learning update panic", "worker_id", workerID, "userId", userID, "panic", r)
		}
	}()

	jobCtx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()

	updated, err := w.updater.Update(jobCtx, userID)
	if err != nil {
		w.log.Warn("Learning update failed", "worker_id", workerID, "userId", userID, "error", err)
		return
	}
	w.log.Debug("Learning update finished", "worker_id", workerID, "userId", userID, "updated", updated)
}
