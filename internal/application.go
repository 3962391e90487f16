package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-series/internal/config"
	"github.com/rocketscienceinc/tictactoe-series/internal/repository"
	"github.com/rocketscienceinc/tictactoe-series/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-series/internal/scheduler"
	"github.com/rocketscienceinc/tictactoe-series/internal/service"
	"github.com/rocketscienceinc/tictactoe-series/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-series/transport/rest"
	"github.com/rocketscienceinc/tictactoe-series/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis host is empty")

// RunApp - runs the application until SIGINT or SIGTERM.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	sessionRepo, closeStorage, err := newSessionRepository(ctx, conf)
	if err != nil {
		return err
	}

	defer func() {
		if err = closeStorage(); err != nil {
			log.Error("could not close storage", "error", err)
		}
	}()

	gameManager := usecase.NewGameManager(logger, sessionRepo, service.NewBotService(), scheduler.NewTimerScheduler(),
		usecase.Delays{
			ComputerMove: conf.Session.ComputerMoveDelay,
			RoundReset:   conf.Session.RoundResetDelay,
		})

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.New(logger, gameManager).Start(ctx, conf.HTTPPort); httpErr != nil {
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		if wsErr := websocket.New(logger, gameManager).Start(ctx, conf.SocketPort); wsErr != nil {
			wsErrCh <- wsErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Received signal, shutting down")
		return nil
	}
}

// newSessionRepository - picks the session store named in the config.
func newSessionRepository(ctx context.Context, conf *config.Config) (repository.SessionRepository, func() error, error) {
	if conf.Storage != config.StorageRedis {
		return repository.NewMemorySessionRepository(), func() error { return nil }, nil
	}

	if conf.Redis.Host == "" {
		return nil, nil, ErrAddrNotFound
	}

	redisStorage, err := storage.New(ctx, conf.Redis.GetRedisAddr())
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	return repository.NewSessionRepository(redisStorage, conf.Session.TTL), redisStorage.Close, nil
}
