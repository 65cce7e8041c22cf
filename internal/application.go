package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/coder/quartz"
	"github.com/rocketscienceinc/tictactoe-history/internal/config"
	"github.com/rocketscienceinc/tictactoe-history/internal/repository"
	"github.com/rocketscienceinc/tictactoe-history/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-history/internal/service"
	"github.com/rocketscienceinc/tictactoe-history/transport/rest"
	"github.com/rocketscienceinc/tictactoe-history/transport/websocket"
	"golang.org/x/sync/errgroup"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

type server interface {
	Start() error
	Shutdown(ctx context.Context) error
}

// RunApp - runs the application until SIGINT or SIGTERM.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return Run(ctx, logger, conf)
}

// Run - serves the REST and WebSocket APIs until ctx is canceled or a server fails.
func Run(ctx context.Context, logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	group, ctx := errgroup.WithContext(ctx)

	gameRepo, closeRepo, err := newGameRepository(ctx, group, log, conf)
	if err != nil {
		return err
	}
	defer closeRepo()

	games := service.NewGameService(logger, gameRepo)

	servers := []server{
		rest.New(logger, conf.HTTPPort, games),
		websocket.New(logger, conf.SocketPort, games),
	}

	for _, srv := range servers {
		group.Go(srv.Start)
	}

	group.Go(func() error {
		<-ctx.Done()
		log.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), conf.ShutdownTimeout)
		defer cancel()

		var errs []error
		for _, srv := range servers {
			errs = append(errs, srv.Shutdown(shutdownCtx))
		}

		return errors.Join(errs...)
	})

	if err = group.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

func newGameRepository(
	ctx context.Context,
	group *errgroup.Group,
	log *slog.Logger,
	conf *config.Config,
) (repository.GameRepository, func(), error) {
	switch conf.Storage {
	case config.StorageRedis:
		redisAddrString := conf.Redis.GetRedisAddr()
		if redisAddrString == "" {
			return nil, nil, ErrAddrNotFound
		}

		redisStorage, err := storage.New(ctx, redisAddrString)
		if err != nil {
			return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
		}

		closeRepo := func() {
			if err := redisStorage.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		}

		log.Info("Using redis storage", "addr", redisAddrString)

		return repository.NewGameRepository(redisStorage, conf.GameTTL), closeRepo, nil
	default:
		repo := repository.NewMemoryGameRepository(quartz.NewReal(), conf.GameTTL)

		if conf.GameTTL > 0 && conf.SweepInterval > 0 {
			sweeper := repo.StartSweeper(ctx, conf.SweepInterval, func(removed int) {
				log.Debug("Expired games evicted", "count", removed)
			})

			group.Go(func() error {
				if err := sweeper.Wait(); err != nil && !errors.Is(err, context.Canceled) {
					return fmt.Errorf("sweeper stopped: %w", err)
				}

				return nil
			})
		}

		log.Info("Using in-memory storage", "ttl", conf.GameTTL)

		return repo, func() {}, nil
	}
}
