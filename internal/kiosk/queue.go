package kiosk

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/LeDuc-16/smart-attendance-sub000/internal/models"
	apperrors "github.com/LeDuc-16/smart-attendance-sub000/pkg/errors"
)

// QueueConfig tunes the background submission pool.
type QueueConfig struct {
	Workers    int
	BufferSize int
	MaxRetries int
	RetryDelay time.Duration
	Logger     *zap.Logger
}

type markJob struct {
	mark     models.AttendanceMark
	attempt  int
	enqueued time.Time
}

// MarkQueue submits attendance marks in the background so a flaky uplink
// never stalls the capture loop. Network failures are retried with a delay
// up to MaxRetries; any other failure drops the mark, since resubmitting a
// rejected mark would only fail again.
type MarkQueue struct {
	marker Marker

	workers    int
	maxRetries int
	retryDelay time.Duration
	logger     *zap.Logger

	jobs    chan markJob
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	started bool
}

// NewMarkQueue wraps a marker with buffered, retrying delivery.
func NewMarkQueue(marker Marker, cfg QueueConfig) *MarkQueue {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = cfg.Workers * 16
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 2 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &MarkQueue{
		marker:     marker,
		workers:    cfg.Workers,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		logger:     cfg.Logger,
		jobs:       make(chan markJob, cfg.BufferSize),
	}
}

// Start begins worker consumption. Safe to call once.
func (q *MarkQueue) Start(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started {
		return
	}
	q.ctx, q.cancel = context.WithCancel(ctx)
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}
	q.started = true
	q.logger.Sugar().Infow("mark queue started", "workers", q.workers)
}

// Stop cancels workers and waits for them to exit. Buffered marks that have
// not been delivered yet are abandoned.
func (q *MarkQueue) Stop() {
	q.mu.Lock()
	if !q.started {
		q.mu.Unlock()
		return
	}
	q.cancel()
	q.mu.Unlock()
	q.wg.Wait()
	q.logger.Info("mark queue stopped")
}

// Mark queues the attendance mark for background delivery. It satisfies
// Marker so the runner never blocks on the network.
func (q *MarkQueue) Mark(_ context.Context, mark models.AttendanceMark) error {
	return q.enqueue(markJob{mark: mark, enqueued: time.Now().UTC()})
}

func (q *MarkQueue) enqueue(job markJob) error {
	q.mu.Lock()
	ctx := q.ctx
	started := q.started
	q.mu.Unlock()

	if !started {
		return fmt.Errorf("mark queue not started")
	}

	select {
	case <-ctx.Done():
		return fmt.Errorf("mark queue stopped: %w", ctx.Err())
	case q.jobs <- job:
		return nil
	}
}

func (q *MarkQueue) worker() {
	defer q.wg.Done()
	for {
		select {
		case <-q.ctx.Done():
			return
		case job := <-q.jobs:
			if err := q.marker.Mark(q.ctx, job.mark); err != nil {
				q.handleFailure(job, err)
			}
		}
	}
}

func (q *MarkQueue) handleFailure(job markJob, err error) {
	if !apperrors.IsNetwork(err) {
		q.logger.Sugar().Errorw("attendance mark rejected",
			"student", job.mark.StudentID, "error", err)
		return
	}

	job.attempt++
	if job.attempt > q.maxRetries {
		q.logger.Sugar().Errorw("attendance mark dropped after retries",
			"student", job.mark.StudentID, "attempts", job.attempt, "error", err)
		return
	}
	q.logger.Sugar().Warnw("attendance mark failed, retrying",
		"student", job.mark.StudentID, "attempt", job.attempt, "error", err)

	go func(j markJob) {
		timer := time.NewTimer(q.retryDelay)
		defer timer.Stop()
		select {
		case <-q.ctx.Done():
			return
		case <-timer.C:
			if err := q.enqueue(j); err != nil {
				q.logger.Sugar().Errorw("failed to requeue mark",
					"student", j.mark.StudentID, "error", err)
			}
		}
	}(job)
}
