// Package dispatch runs blocking work off the UI loop and hands the
// continuation back to it.
package dispatch

import (
	"context"
	"sync"
)

// Work runs off the loop and returns the continuation to run on it. A nil
// continuation is dropped.
type Work func() func()

// Queue runs Work on goroutines and delivers continuations on C. The owner
// of the loop must drain C and call each continuation.
type Queue struct {
	ctx context.Context
	ch  chan func()
	wg  sync.WaitGroup
}

// NewQueue returns a Queue whose pending deliveries are abandoned once ctx
// is done.
func NewQueue(ctx context.Context, buffer int) *Queue {
	return &Queue{ctx: ctx, ch: make(chan func(), buffer)}
}

// Go starts work.
func (q *Queue) Go(work func() func()) {
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		cont := work()
		if cont == nil {
			return
		}
		select {
		case q.ch <- cont:
		case <-q.ctx.Done():
		}
	}()
}

// C is the continuation channel.
func (q *Queue) C() <-chan func() { return q.ch }

// Wait blocks until every started Work has returned and its continuation
// has been delivered or abandoned.
func (q *Queue) Wait() { q.wg.Wait() }

// Inline runs work and its continuation immediately on the caller's
// goroutine. Used by CLI commands and tests.
type Inline struct{}

// Go implements the executor contract synchronously.
func (Inline) Go(work func() func()) {
	if cont := work(); cont != nil {
		cont()
	}
}
