package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/talent-scout/internal/logger"
	"alfredoptarigan/talent-scout/internal/models"
)

const pendingPollInterval = 10 * time.Second

// JobProcessor runs one queued evaluation job to completion.
type JobProcessor interface {
	Process(ctx context.Context, jobID uuid.UUID) error
}

// PendingJobFinder lists queued jobs that have not been picked up yet.
type PendingJobFinder interface {
	FindPendingJobs(limit int) ([]models.EvaluationJob, error)
}

type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueJob(jobID uuid.UUID)
}

type worker struct {
	jobs        PendingJobFinder
	processor   JobProcessor
	jobQueue    chan uuid.UUID
	concurrency int
	wg          sync.WaitGroup
	stopChan    chan struct{}
	stopOnce    sync.Once
	log         *zap.Logger
}

func NewWorker(
	jobs PendingJobFinder,
	processor JobProcessor,
	concurrency int,
	log *zap.Logger,
) Worker {
	if concurrency < 1 {
		concurrency = 1
	}
	return &worker{
		jobs:        jobs,
		processor:   processor,
		jobQueue:    make(chan uuid.UUID, 100),
		concurrency: concurrency,
		stopChan:    make(chan struct{}),
		log:         logger.OrNop(log).Named("worker"),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	w.log.Info("starting worker", zap.Int("concurrency", w.concurrency))

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	if w.jobs != nil {
		w.wg.Add(1)
		go w.pollPendingJobs()
	}
}

// Stop implements Worker.
func (w *worker) Stop() {
	w.stopOnce.Do(func() {
		w.log.Info("stopping worker")
		close(w.stopChan)
		w.wg.Wait()
		w.log.Info("worker stopped")
	})
}

// EnqueueJob implements Worker.
func (w *worker) EnqueueJob(jobID uuid.UUID) {
	select {
	case w.jobQueue <- jobID:
		w.log.Debug("job enqueued", zap.Stringer("job_id", jobID))
	case <-w.stopChan:
		w.log.Warn("worker stopped, cannot enqueue job", zap.Stringer("job_id", jobID))
	}
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()
	log := w.log.With(zap.Int("worker_id", workerID))

	for {
		select {
		case <-w.stopChan:
			log.Debug("worker goroutine stopped")
			return
		case jobID := <-w.jobQueue:
			log.Info("processing job", zap.Stringer("job_id", jobID))
			if err := w.processor.Process(ctx, jobID); err != nil {
				log.Error("job failed", zap.Stringer("job_id", jobID), zap.Error(err))
			} else {
				log.Info("job completed", zap.Stringer("job_id", jobID))
			}
		}
	}
}

func (w *worker) pollPendingJobs() {
	defer w.wg.Done()
	ticker := time.NewTicker(pendingPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ticker.C:
			pendingJobs, err := w.jobs.FindPendingJobs(10)
			if err != nil {
				w.log.Warn("failed to fetch pending jobs", zap.Error(err))
				continue
			}

			if len(pendingJobs) > 0 {
				w.log.Info("found pending jobs", zap.Int("count", len(pendingJobs)))
			}

			for _, job := range pendingJobs {
				w.EnqueueJob(job.ID)
			}
		}
	}
}
