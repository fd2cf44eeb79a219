package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"dragchess/internal/server/core"
	"dragchess/internal/server/game"
	"dragchess/internal/server/storage"

	"github.com/apex/log"
	"github.com/google/uuid"
)

const (
	DefaultMaxGames    = 100
	GameIdleTTL        = 24 * time.Hour
	TempUserTTL        = 24 * time.Hour
	SessionTTL         = 7 * 24 * time.Hour
	CleanupJobInterval = 1 * time.Hour
)

var (
	ErrGameNotFound    = errors.New("game not found")
	ErrGameLimit       = errors.New("game limit reached")
	ErrStorageDisabled = errors.New("storage disabled")
)

// Service owns the in-memory game sessions, the wait registry and the
// optional account store
type Service struct {
	games     map[string]*game.Session
	mu        sync.RWMutex
	maxGames  int
	store     *storage.Store
	jwtSecret []byte
	waiter    *WaitRegistry
}

// New creates a service; store may be nil to disable accounts
func New(store *storage.Store, jwtSecret []byte, maxGames int) *Service {
	if maxGames < 1 {
		maxGames = DefaultMaxGames
	}
	return &Service{
		games:     make(map[string]*game.Session),
		maxGames:  maxGames,
		store:     store,
		jwtSecret: jwtSecret,
		waiter:    NewWaitRegistry(),
	}
}

// GetStorageHealth returns the storage component status
func (s *Service) GetStorageHealth() string {
	if s.store == nil {
		return "disabled"
	}
	if s.store.IsHealthy() {
		return "ok"
	}
	return "degraded"
}

// GenerateGameID returns an ID not used by any live game
func (s *Service) GenerateGameID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for {
		id := uuid.New().String()
		if _, taken := s.games[id]; !taken {
			return id
		}
	}
}

// CreateGame registers a session
func (s *Service) CreateGame(g *game.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.games) >= s.maxGames {
		return ErrGameLimit
	}
	if _, exists := s.games[g.ID()]; exists {
		return fmt.Errorf("game already exists: %s", g.ID())
	}
	s.games[g.ID()] = g

	log.WithField("game", g.ID()).WithField("active", len(s.games)).Info("game created")
	return nil
}

// GetGame looks up a live session
func (s *Service) GetGame(gameID string) (*game.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.games[gameID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	return g, nil
}

// DeleteGame removes a session and releases anyone waiting on it
func (s *Service) DeleteGame(gameID string) error {
	s.mu.Lock()
	_, ok := s.games[gameID]
	delete(s.games, gameID)
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	s.waiter.RemoveGame(gameID)
	log.WithField("game", gameID).Info("game deleted")
	return nil
}

// GameCount returns the number of live sessions
func (s *Service) GameCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games)
}

// ClaimGameSlot claims a color for a user
func (s *Service) ClaimGameSlot(gameID string, color core.Color, userID string) error {
	g, err := s.GetGame(gameID)
	if err != nil {
		return err
	}
	return g.ClaimSlot(color, userID)
}

// NotifyMove wakes long-polling clients after a game changed
func (s *Service) NotifyMove(gameID string, plies int) {
	s.waiter.NotifyGame(gameID, plies)
}

// RegisterWait registers a client to wait for the game to pass a ply count
func (s *Service) RegisterWait(ctx context.Context, gameID string, plies int) <-chan struct{} {
	return s.waiter.RegisterWait(ctx, gameID, plies)
}

// ExpireIdleGames drops sessions without a move since before cutoff. The
// caller must hold exclusive access to the sessions.
func (s *Service) ExpireIdleGames(cutoff time.Time) int {
	s.mu.Lock()
	var expired []string
	for id, g := range s.games {
		if g.IdleSince().Before(cutoff) {
			expired = append(expired, id)
			delete(s.games, id)
		}
	}
	s.mu.Unlock()

	for _, id := range expired {
		s.waiter.RemoveGame(id)
	}
	if len(expired) > 0 {
		log.WithField("count", len(expired)).Info("expired idle games")
	}
	return len(expired)
}

// RunCleanupJob periodically removes expired accounts and logins
func (s *Service) RunCleanupJob(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.cleanupExpired()
		}
	}
}

func (s *Service) cleanupExpired() {
	if s.store == nil {
		return
	}

	if deleted, err := s.store.DeleteExpiredTempUsers(); err != nil {
		log.WithError(err).Warn("cleanup: failed to delete expired users")
	} else if deleted > 0 {
		log.WithField("count", deleted).Info("cleanup: deleted expired temp users")
	}

	if deleted, err := s.store.DeleteExpiredSessions(); err != nil {
		log.WithError(err).Warn("cleanup: failed to delete expired sessions")
	} else if deleted > 0 {
		log.WithField("count", deleted).Info("cleanup: deleted expired sessions")
	}
}

// Shutdown releases waiters, drops sessions and closes storage
func (s *Service) Shutdown(timeout time.Duration) error {
	var errs []error

	if err := s.waiter.Shutdown(timeout); err != nil {
		errs = append(errs, fmt.Errorf("wait registry: %w", err))
	}

	s.mu.Lock()
	s.games = make(map[string]*game.Session)
	s.mu.Unlock()

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	return errors.Join(errs...)
}
