package repository

import (
	"context"
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/rocketscienceinc/tictactoe-history/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
)

type memoryEntry struct {
	game      *entity.Game
	expiresAt time.Time
}

// MemoryGameRepository - process-local game store. Entries past their TTL are
// treated as missing and dropped on access or by Sweep.
type MemoryGameRepository struct {
	mu    sync.RWMutex
	games map[string]memoryEntry
	clock quartz.Clock
	ttl   time.Duration
}

func NewMemoryGameRepository(clock quartz.Clock, ttl time.Duration) *MemoryGameRepository {
	return &MemoryGameRepository{
		games: make(map[string]memoryEntry),
		clock: clock,
		ttl:   ttl,
	}
}

func (that *MemoryGameRepository) CreateOrUpdate(_ context.Context, game *entity.Game) error {
	entry := memoryEntry{game: game.Clone()}
	if that.ttl > 0 {
		entry.expiresAt = that.clock.Now().Add(that.ttl)
	}

	that.mu.Lock()
	that.games[game.ID] = entry
	that.mu.Unlock()

	return nil
}

func (that *MemoryGameRepository) GetByID(_ context.Context, id string) (*entity.Game, error) {
	that.mu.RLock()
	entry, ok := that.games[id]
	that.mu.RUnlock()

	if !ok {
		return nil, apperror.ErrGameNotFound
	}

	if that.expired(entry) {
		that.mu.Lock()
		if current, ok := that.games[id]; ok && that.expired(current) {
			delete(that.games, id)
		}
		that.mu.Unlock()

		return nil, apperror.ErrGameNotFound
	}

	return entry.game.Clone(), nil
}

func (that *MemoryGameRepository) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	entry, ok := that.games[id]
	if !ok || that.expired(entry) {
		delete(that.games, id)
		return apperror.ErrGameNotFound
	}

	delete(that.games, id)

	return nil
}

// Sweep - removes expired games and returns how many were dropped.
func (that *MemoryGameRepository) Sweep() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	removed := 0
	for id, entry := range that.games {
		if that.expired(entry) {
			delete(that.games, id)
			removed++
		}
	}

	return removed
}

// StartSweeper - runs Sweep every interval until ctx is done. onSweep, when set,
// is told how many games each non-empty sweep dropped.
func (that *MemoryGameRepository) StartSweeper(ctx context.Context, interval time.Duration, onSweep func(removed int)) quartz.Waiter {
	return that.clock.TickerFunc(ctx, interval, func() error {
		if removed := that.Sweep(); removed > 0 && onSweep != nil {
			onSweep(removed)
		}

		return nil
	}, "sweeper")
}

func (that *MemoryGameRepository) Len() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.games)
}

func (that *MemoryGameRepository) expired(entry memoryEntry) bool {
	return !entry.expiresAt.IsZero() && !that.clock.Now().Before(entry.expiresAt)
}
