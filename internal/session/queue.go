package session

import (
	"context"
	"log"
	"sync"
	"time"
)

// CaseEvaluator computes and persists post-interview skill relevance for a
// session.
type CaseEvaluator interface {
	ComputeAndSave(ctx context.Context, sessionID string) error
}

const (
	// DefaultQueueBuffer bounds how many finished sessions may wait for
	// scoring before Enqueue starts rejecting.
	DefaultQueueBuffer = 64
	// DefaultMaxRetries is how many times a failed scoring job is retried
	// before being dropped.
	DefaultMaxRetries = 2

	defaultRetryDelay = 5 * time.Second
)

// EvalQueue runs post-interview scoring off the request path. Jobs are
// session IDs; each is retried a bounded number of times and then dropped
// with a log line, so a poisoned session cannot wedge the worker.
type EvalQueue struct {
	evaluator  CaseEvaluator
	jobs       chan string
	maxRetries int
	retryDelay time.Duration

	// onComplete runs after a job succeeds or is dropped, whether or not
	// scoring succeeded. Used to evict the session's live interviewer.
	onComplete func(sessionID string)

	startOnce sync.Once
	wg        sync.WaitGroup
}

// QueueOption configures an EvalQueue.
type QueueOption func(*EvalQueue)

// WithQueueBuffer sets the job channel capacity.
func WithQueueBuffer(n int) QueueOption {
	return func(q *EvalQueue) {
		if n > 0 {
			q.jobs = make(chan string, n)
		}
	}
}

// WithMaxRetries sets how many retries a failing job gets.
func WithMaxRetries(n int) QueueOption {
	return func(q *EvalQueue) {
		if n >= 0 {
			q.maxRetries = n
		}
	}
}

// WithRetryDelay sets the pause between attempts of the same job.
func WithRetryDelay(d time.Duration) QueueOption {
	return func(q *EvalQueue) {
		if d >= 0 {
			q.retryDelay = d
		}
	}
}

// WithOnComplete sets a hook invoked once per job after its final attempt.
func WithOnComplete(f func(sessionID string)) QueueOption {
	return func(q *EvalQueue) { q.onComplete = f }
}

// NewEvalQueue creates a queue for the given evaluator. Call Start before
// enqueueing.
func NewEvalQueue(evaluator CaseEvaluator, opts ...QueueOption) *EvalQueue {
	q := &EvalQueue{
		evaluator:  evaluator,
		jobs:       make(chan string, DefaultQueueBuffer),
		maxRetries: DefaultMaxRetries,
		retryDelay: defaultRetryDelay,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Start launches the worker goroutine. The worker exits when the context is
// cancelled or Close is called. Start is idempotent.
func (q *EvalQueue) Start(ctx context.Context) {
	q.startOnce.Do(func() {
		q.wg.Add(1)
		go q.run(ctx)
	})
}

// Enqueue submits a session for scoring. It never blocks; it reports false
// when the queue is full or already closed.
func (q *EvalQueue) Enqueue(sessionID string) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	select {
	case q.jobs <- sessionID:
		return true
	default:
		log.Printf("eval queue full, dropping scoring job for session %s", sessionID)
		return false
	}
}

// Close stops accepting jobs and waits for in-flight work to drain.
func (q *EvalQueue) Close() {
	close(q.jobs)
	q.wg.Wait()
}

func (q *EvalQueue) run(ctx context.Context) {
	defer q.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case sessionID, open := <-q.jobs:
			if !open {
				return
			}
			q.process(ctx, sessionID)
		}
	}
}

func (q *EvalQueue) process(ctx context.Context, sessionID string) {
	defer func() {
		if q.onComplete != nil {
			q.onComplete(sessionID)
		}
	}()

	var err error
	for attempt := 0; attempt <= q.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(q.retryDelay):
			}
		}
		if err = q.evaluator.ComputeAndSave(ctx, sessionID); err == nil {
			return
		}
		log.Printf("scoring attempt %d for session %s failed: %v", attempt+1, sessionID, err)
	}
	log.Printf("dropping scoring job for session %s after %d attempts: %v", sessionID, q.maxRetries+1, err)
}
