package sink

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const asyncAppendTimeout = 30 * time.Second

// Async wraps a Sink with an ordered background writer so a slow destination
// never blocks a timer tick. Rows are drained sequentially, preserving append
// order; failures are reported through the error callback instead of the
// caller.
type Async struct {
	inner   Sink
	mu      sync.Mutex
	rows    chan Row
	closed  bool
	done    chan struct{}
	onError func(Row, error)
}

// NewAsync starts the background writer. onError may be nil.
func NewAsync(inner Sink, buffer int, onError func(Row, error)) *Async {
	if buffer <= 0 {
		buffer = 16
	}
	async := &Async{
		inner:   inner,
		rows:    make(chan Row, buffer),
		done:    make(chan struct{}),
		onError: onError,
	}
	go async.run()
	return async
}

// Append enqueues the row and returns immediately. It errors on a full
// queue or after Close; a ticking machine may still race shutdown, so a late
// append must fail instead of hitting the closed queue.
func (async *Async) Append(ctx context.Context, row Row) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	async.mu.Lock()
	defer async.mu.Unlock()
	if async.closed {
		return fmt.Errorf("%w: sink closed", ErrWrite)
	}
	select {
	case async.rows <- row:
		return nil
	default:
		return fmt.Errorf("%w: append queue full", ErrWrite)
	}
}

// Close stops accepting rows and waits for the queue to drain. It is safe to
// call more than once.
func (async *Async) Close() {
	async.mu.Lock()
	if !async.closed {
		async.closed = true
		close(async.rows)
	}
	async.mu.Unlock()
	<-async.done
}

func (async *Async) run() {
	defer close(async.done)
	for row := range async.rows {
		ctx, cancel := context.WithTimeout(context.Background(), asyncAppendTimeout)
		err := async.inner.Append(ctx, row)
		cancel()
		if err != nil && async.onError != nil {
			async.onError(row, err)
		}
	}
}
