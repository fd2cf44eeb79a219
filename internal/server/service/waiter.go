package service

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const (
	// WaitTimeout is the maximum time a client can wait for notifications
	WaitTimeout = 25 * time.Second
)

// WaitRegistry manages long-polling clients waiting for a game to move on
type WaitRegistry struct {
	mu       sync.Mutex
	waiters  map[string][]*waitRequest // gameID → waiting clients
	shutdown chan struct{}
	once     sync.Once
	wg       sync.WaitGroup
	timeout  time.Duration
}

type waitRequest struct {
	plies  int           // Ply count the client already has
	notify chan struct{} // Closed exactly once
	once   sync.Once
}

func (r *waitRequest) fire() {
	r.once.Do(func() { close(r.notify) })
}

// NewWaitRegistry creates a new wait registry
func NewWaitRegistry() *WaitRegistry {
	return &WaitRegistry{
		waiters:  make(map[string][]*waitRequest),
		shutdown: make(chan struct{}),
		timeout:  WaitTimeout,
	}
}

// RegisterWait returns a channel closed when the game's ply count moves
// past plies, the game is removed, the wait times out or the registry
// shuts down
func (w *WaitRegistry) RegisterWait(ctx context.Context, gameID string, plies int) <-chan struct{} {
	req := &waitRequest{
		plies:  plies,
		notify: make(chan struct{}),
	}

	w.mu.Lock()
	w.waiters[gameID] = append(w.waiters[gameID], req)
	w.mu.Unlock()

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		timer := time.NewTimer(w.timeout)
		defer timer.Stop()

		select {
		case <-ctx.Done():
		case <-req.notify:
		case <-timer.C:
		case <-w.shutdown:
		}
		req.fire()
		w.removeWaiter(gameID, req)
	}()

	return req.notify
}

// NotifyGame wakes clients whose known ply count is stale
func (w *WaitRegistry) NotifyGame(gameID string, plies int) {
	w.mu.Lock()
	waitList := append([]*waitRequest(nil), w.waiters[gameID]...)
	w.mu.Unlock()

	for _, req := range waitList {
		if req.plies != plies {
			req.fire()
		}
	}
}

// RemoveGame wakes every client waiting on a deleted game
func (w *WaitRegistry) RemoveGame(gameID string) {
	w.mu.Lock()
	waitList := w.waiters[gameID]
	delete(w.waiters, gameID)
	w.mu.Unlock()

	for _, req := range waitList {
		req.fire()
	}
}

// Waiting returns the number of clients waiting on a game
func (w *WaitRegistry) Waiting(gameID string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.waiters[gameID])
}

// Shutdown releases all waiters and waits for their goroutines
func (w *WaitRegistry) Shutdown(timeout time.Duration) error {
	w.once.Do(func() { close(w.shutdown) })

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("wait registry shutdown timed out")
	}
}

func (w *WaitRegistry) removeWaiter(gameID string, req *waitRequest) {
	w.mu.Lock()
	defer w.mu.Unlock()

	waitList := w.waiters[gameID]
	for i, waiter := range waitList {
		if waiter == req {
			w.waiters[gameID] = append(waitList[:i], waitList[i+1:]...)
			break
		}
	}
	if len(w.waiters[gameID]) == 0 {
		delete(w.waiters, gameID)
	}
}
