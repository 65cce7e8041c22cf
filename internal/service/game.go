package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
)

type GameService interface {
	CreateGame(ctx context.Context) (*entity.Game, error)
	GetGame(ctx context.Context, id string) (*entity.Game, error)
	DeleteGame(ctx context.Context, id string) error

	Play(ctx context.Context, id string, cell int) (*entity.Game, error)
	JumpTo(ctx context.Context, id string, move int) (*entity.Game, error)
	ToggleOrder(ctx context.Context, id string) (*entity.Game, error)
}

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

type gameService struct {
	logger   *slog.Logger
	gameRepo gameRepo

	// mu serialises load-mutate-save so every game has a single writer at a time.
	mu sync.Mutex
}

func NewGameService(logger *slog.Logger, gameRepo gameRepo) GameService {
	return &gameService{
		logger:   logger.With("component", "game_service"),
		gameRepo: gameRepo,
	}
}

func (that *gameService) CreateGame(ctx context.Context) (*entity.Game, error) {
	game := entity.NewGame(uuid.NewString())

	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	that.logger.Debug("game created", "game_id", game.ID)

	return game, nil
}

func (that *gameService) GetGame(ctx context.Context, id string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

func (that *gameService) DeleteGame(ctx context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if err := that.gameRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	that.logger.Debug("game deleted", "game_id", id)

	return nil
}

// Play - an occupied cell or a finished board leaves the stored game untouched.
func (that *gameService) Play(ctx context.Context, id string, cell int) (*entity.Game, error) {
	log := that.logger.With("method", "Play", "game_id", id, "cell", cell)

	return that.mutate(ctx, id, func(game *entity.Game) (bool, error) {
		accepted, err := game.Play(cell)
		if err != nil {
			return false, fmt.Errorf("failed to make turn: %w", err)
		}

		if !accepted {
			log.Debug("move ignored", "status", game.Status())
			return false, nil
		}

		log.Debug("move accepted", "move", game.CurrentMove, "status", game.Status())

		return true, nil
	})
}

func (that *gameService) JumpTo(ctx context.Context, id string, move int) (*entity.Game, error) {
	return that.mutate(ctx, id, func(game *entity.Game) (bool, error) {
		if err := game.JumpTo(move); err != nil {
			return false, fmt.Errorf("failed to jump: %w", err)
		}

		that.logger.Debug("jumped", "game_id", id, "move", move)

		return true, nil
	})
}

func (that *gameService) ToggleOrder(ctx context.Context, id string) (*entity.Game, error) {
	return that.mutate(ctx, id, func(game *entity.Game) (bool, error) {
		game.ToggleOrder()
		return true, nil
	})
}

// mutate - loads the game, applies fn and saves the result when fn reports a change.
func (that *gameService) mutate(ctx context.Context, id string, fn func(game *entity.Game) (bool, error)) (*entity.Game, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	game, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	changed, err := fn(game)
	if err != nil {
		return nil, err
	}

	if !changed {
		return game, nil
	}

	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	return game, nil
}
