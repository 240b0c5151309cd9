package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-engine/internal/config"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-engine/internal/service"
	"github.com/rocketscienceinc/tictactoe-engine/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-engine/transport/rest"
	"github.com/rocketscienceinc/tictactoe-engine/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if conf.Redis.Host == "" || conf.Redis.Port == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.New(ctx, conf.Redis.GetRedisAddr(), conf.Redis.DB)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err := redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	gameRepo := repository.NewGameRepository(redisStorage, conf.Game.TTL)
	statsRepo := repository.NewStatsRepository(redisStorage)

	gameService := service.NewGameService(gameRepo)
	botService := service.NewBotService(logger)
	statsService := service.NewStatsService(statsRepo, conf.Leaderboard.Size)

	gameUseCase := usecase.NewGameUseCase(logger, gameService, botService, statsService)

	ping := func(ctx context.Context) error {
		return redisStorage.Ping(ctx).Err()
	}

	serverErrCh := make(chan error, 2)

	// run HTTP server
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if err := rest.New(logger, conf.HTTPPort, gameUseCase, ping).Start(ctx); err != nil {
			serverErrCh <- fmt.Errorf("HTTP server error: %w", err)
			return
		}
		serverErrCh <- nil
	}()

	// run Websocket server
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		if err := websocket.New(logger, gameUseCase).Start(ctx, conf.SocketPort); err != nil {
			serverErrCh <- fmt.Errorf("WebSocket server error: %w", err)
			return
		}
		serverErrCh <- nil
	}()

	// both servers stop on ctx; the first failure stops the other one
	var runErr error
	for i := 0; i < 2; i++ {
		if err := <-serverErrCh; err != nil && runErr == nil {
			log.Error("server failed, shutting down", "error", err)
			runErr = err
			cancel()
		}
	}

	log.Info("Application stopped")

	return runErr
}
