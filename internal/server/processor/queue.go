package processor

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// job pairs a command with the channel its response goes back on
type job struct {
	cmd      Command
	response chan ProcessorResponse
}

// CommandQueue runs commands one at a time on a single worker goroutine,
// which makes that worker the only writer of game state
type CommandQueue struct {
	jobs    chan job
	handler func(Command) ProcessorResponse
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewCommandQueue starts the worker with a buffer of size pending commands
func NewCommandQueue(size int, handler func(Command) ProcessorResponse) *CommandQueue {
	if size < 1 {
		size = 64
	}

	ctx, cancel := context.WithCancel(context.Background())
	q := &CommandQueue{
		jobs:    make(chan job, size),
		handler: handler,
		ctx:     ctx,
		cancel:  cancel,
	}

	q.wg.Add(1)
	go q.worker()
	return q
}

func (q *CommandQueue) worker() {
	defer q.wg.Done()

	for {
		select {
		case j := <-q.jobs:
			// Buffered, so the worker never blocks on an abandoned caller
			j.response <- q.handler(j.cmd)
		case <-q.ctx.Done():
			return
		}
	}
}

// Submit queues a command and waits for its response
func (q *CommandQueue) Submit(ctx context.Context, cmd Command) (ProcessorResponse, error) {
	j := job{cmd: cmd, response: make(chan ProcessorResponse, 1)}

	select {
	case q.jobs <- j:
	case <-q.ctx.Done():
		return ProcessorResponse{}, fmt.Errorf("queue is shutting down")
	case <-ctx.Done():
		return ProcessorResponse{}, ctx.Err()
	}

	// Once queued the command will run; the caller may stop waiting
	select {
	case resp := <-j.response:
		return resp, nil
	case <-q.ctx.Done():
		return ProcessorResponse{}, fmt.Errorf("queue is shutting down")
	case <-ctx.Done():
		return ProcessorResponse{}, ctx.Err()
	}
}

// Shutdown stops the worker after its current command
func (q *CommandQueue) Shutdown(timeout time.Duration) error {
	q.cancel()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("shutdown timeout exceeded")
	}
}
