package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingEvaluator struct {
	mu       sync.Mutex
	calls    map[string]int
	failures map[string]int
	done     chan string
}

func newCountingEvaluator() *countingEvaluator {
	return &countingEvaluator{
		calls:    make(map[string]int),
		failures: make(map[string]int),
		done:     make(chan string, 16),
	}
}

func (e *countingEvaluator) ComputeAndSave(_ context.Context, sessionID string) error {
	e.mu.Lock()
	e.calls[sessionID]++
	remaining := e.failures[sessionID]
	if remaining > 0 {
		e.failures[sessionID]--
	}
	e.mu.Unlock()

	if remaining > 0 {
		return errors.New("scoring failed")
	}
	e.done <- sessionID
	return nil
}

func (e *countingEvaluator) callsFor(sessionID string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls[sessionID]
}

func waitFor(t *testing.T, ch <-chan string, want string) {
	t.Helper()
	select {
	case got := <-ch:
		assert.Equal(t, want, got)
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s", want)
	}
}

func TestEvalQueue_ProcessesJob(t *testing.T) {
	eval := newCountingEvaluator()
	q := NewEvalQueue(eval, WithRetryDelay(0))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q.Start(ctx)

	require.True(t, q.Enqueue("s1"))
	waitFor(t, eval.done, "s1")
	assert.Equal(t, 1, eval.callsFor("s1"))
}

func TestEvalQueue_RetriesUntilSuccess(t *testing.T) {
	eval := newCountingEvaluator()
	eval.failures["s1"] = 2
	q := NewEvalQueue(eval, WithRetryDelay(0), WithMaxRetries(2))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q.Start(ctx)

	require.True(t, q.Enqueue("s1"))
	waitFor(t, eval.done, "s1")
	assert.Equal(t, 3, eval.callsFor("s1"))
}

func TestEvalQueue_DropsAfterRetryCap(t *testing.T) {
	eval := newCountingEvaluator()
	eval.failures["s1"] = 100
	completed := make(chan string, 1)
	q := NewEvalQueue(eval, WithRetryDelay(0), WithMaxRetries(1),
		WithOnComplete(func(sessionID string) { completed <- sessionID }))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q.Start(ctx)

	require.True(t, q.Enqueue("s1"))
	waitFor(t, completed, "s1")
	assert.Equal(t, 2, eval.callsFor("s1"), "initial attempt plus one retry")
}

func TestEvalQueue_OnCompleteRunsOnSuccess(t *testing.T) {
	eval := newCountingEvaluator()
	completed := make(chan string, 1)
	q := NewEvalQueue(eval, WithRetryDelay(0), WithOnComplete(func(sessionID string) { completed <- sessionID }))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q.Start(ctx)

	require.True(t, q.Enqueue("s1"))
	waitFor(t, eval.done, "s1")
	waitFor(t, completed, "s1")
}

func TestEvalQueue_FullQueueRejects(t *testing.T) {
	eval := newCountingEvaluator()
	q := NewEvalQueue(eval, WithQueueBuffer(1))
	// Not started: the buffer holds one job and the second is rejected.
	assert.True(t, q.Enqueue("s1"))
	assert.False(t, q.Enqueue("s2"))
}

func TestEvalQueue_EnqueueAfterCloseRejects(t *testing.T) {
	eval := newCountingEvaluator()
	q := NewEvalQueue(eval, WithRetryDelay(0))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q.Start(ctx)

	q.Close()
	assert.False(t, q.Enqueue("s1"))
}

func TestEvalQueue_CloseDrainsPending(t *testing.T) {
	eval := newCountingEvaluator()
	q := NewEvalQueue(eval, WithRetryDelay(0))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.True(t, q.Enqueue("s1"))
	require.True(t, q.Enqueue("s2"))
	q.Start(ctx)
	q.Close()

	assert.Equal(t, 1, eval.callsFor("s1"))
	assert.Equal(t, 1, eval.callsFor("s2"))
}
