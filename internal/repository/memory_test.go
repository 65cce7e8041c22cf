package repository

import (
	"context"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/rocketscienceinc/tictactoe-history/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGameRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Round trip returns a copy", func(t *testing.T) {
		// Given: a stored game
		repo := NewMemoryGameRepository(quartz.NewMock(t), time.Hour)
		game := playedGame(t, "abc", 0, 4)
		require.NoError(t, repo.CreateOrUpdate(ctx, game))

		// When: the caller keeps mutating its own value
		_, err := game.Play(8)
		require.NoError(t, err)

		// Then: the stored game is unaffected
		stored, err := repo.GetByID(ctx, "abc")
		require.NoError(t, err)
		assert.Len(t, stored.History, 3)

		// And: mutating the returned value does not leak back either
		require.NoError(t, stored.JumpTo(0))
		again, err := repo.GetByID(ctx, "abc")
		require.NoError(t, err)
		assert.Equal(t, 2, again.CurrentMove)
	})

	t.Run("Missing game", func(t *testing.T) {
		repo := NewMemoryGameRepository(quartz.NewMock(t), time.Hour)

		_, err := repo.GetByID(ctx, "nope")
		require.ErrorIs(t, err, apperror.ErrGameNotFound)

		err = repo.DeleteByID(ctx, "nope")
		require.ErrorIs(t, err, apperror.ErrGameNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		repo := NewMemoryGameRepository(quartz.NewMock(t), time.Hour)
		require.NoError(t, repo.CreateOrUpdate(ctx, playedGame(t, "abc")))

		require.NoError(t, repo.DeleteByID(ctx, "abc"))

		_, err := repo.GetByID(ctx, "abc")
		require.ErrorIs(t, err, apperror.ErrGameNotFound)
		assert.Zero(t, repo.Len())
	})

	t.Run("Games expire after the TTL", func(t *testing.T) {
		// Given: a game stored with a one minute TTL
		clock := quartz.NewMock(t)
		repo := NewMemoryGameRepository(clock, time.Minute)
		require.NoError(t, repo.CreateOrUpdate(ctx, playedGame(t, "abc", 4)))

		// When: just under a minute passes
		clock.Advance(59 * time.Second).MustWait(ctx)

		// Then: the game is still there
		_, err := repo.GetByID(ctx, "abc")
		require.NoError(t, err)

		// When: the TTL is reached
		clock.Advance(time.Second).MustWait(ctx)

		// Then: the game is gone
		_, err = repo.GetByID(ctx, "abc")
		require.ErrorIs(t, err, apperror.ErrGameNotFound)
		assert.Zero(t, repo.Len())
	})

	t.Run("Update refreshes the TTL", func(t *testing.T) {
		clock := quartz.NewMock(t)
		repo := NewMemoryGameRepository(clock, time.Minute)
		game := playedGame(t, "abc")
		require.NoError(t, repo.CreateOrUpdate(ctx, game))

		clock.Advance(45 * time.Second).MustWait(ctx)
		require.NoError(t, repo.CreateOrUpdate(ctx, game))
		clock.Advance(45 * time.Second).MustWait(ctx)

		_, err := repo.GetByID(ctx, "abc")
		require.NoError(t, err)
	})

	t.Run("Sweep drops only expired games", func(t *testing.T) {
		clock := quartz.NewMock(t)
		repo := NewMemoryGameRepository(clock, time.Minute)
		require.NoError(t, repo.CreateOrUpdate(ctx, playedGame(t, "old")))
		clock.Advance(30 * time.Second).MustWait(ctx)
		require.NoError(t, repo.CreateOrUpdate(ctx, playedGame(t, "new")))
		clock.Advance(30 * time.Second).MustWait(ctx)

		removed := repo.Sweep()

		assert.Equal(t, 1, removed)
		assert.Equal(t, 1, repo.Len())
		_, err := repo.GetByID(ctx, "new")
		require.NoError(t, err)
	})

	t.Run("Zero TTL never expires", func(t *testing.T) {
		clock := quartz.NewMock(t)
		repo := NewMemoryGameRepository(clock, 0)
		require.NoError(t, repo.CreateOrUpdate(ctx, playedGame(t, "abc")))

		clock.Advance(24 * time.Hour).MustWait(ctx)

		assert.Zero(t, repo.Sweep())
		_, err := repo.GetByID(ctx, "abc")
		require.NoError(t, err)
	})

	t.Run("Sweeper evicts on every tick", func(t *testing.T) {
		// Given: a game with a one minute TTL and a sweeper every two minutes
		clock := quartz.NewMock(t)
		repo := NewMemoryGameRepository(clock, time.Minute)
		require.NoError(t, repo.CreateOrUpdate(ctx, playedGame(t, "abc")))

		sweepCtx, cancel := context.WithCancel(ctx)
		var swept []int
		waiter := repo.StartSweeper(sweepCtx, 2*time.Minute, func(removed int) {
			swept = append(swept, removed)
		})

		// When: the first tick fires
		clock.Advance(2 * time.Minute).MustWait(ctx)

		// Then: the expired game was removed without being read
		assert.Zero(t, repo.Len())
		assert.Equal(t, []int{1}, swept)

		// When: an empty sweep runs
		clock.Advance(2 * time.Minute).MustWait(ctx)

		// Then: the callback is not invoked
		assert.Equal(t, []int{1}, swept)

		cancel()
		require.ErrorIs(t, waiter.Wait(), context.Canceled)
	})
}
