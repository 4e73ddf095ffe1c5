package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/connect6-backend/internal/apperror"
	"github.com/rocketscienceinc/connect6-backend/internal/config"
	"github.com/rocketscienceinc/connect6-backend/internal/connect6"
	"github.com/rocketscienceinc/connect6-backend/internal/repository"
	"github.com/rocketscienceinc/connect6-backend/internal/repository/storage"
	redistransport "github.com/rocketscienceinc/connect6-backend/internal/transport/redis"
	"github.com/rocketscienceinc/connect6-backend/internal/usecase"
	"github.com/rocketscienceinc/connect6-backend/transport/rest"
	"github.com/rocketscienceinc/connect6-backend/transport/websocket"
)

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	hub := websocket.NewHub(logger)
	broadcasters := []usecase.Broadcaster{hub}

	if conf.Redis.Enabled {
		redisStorage, err := connectRedis(ctx, conf)
		if err != nil {
			return err
		}

		defer func() {
			if err = redisStorage.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		}()

		snapshotRepo := repository.NewSnapshotRepository(redisStorage, conf.Redis.SnapshotKey, conf.Redis.SnapshotTTL)
		publisher := redistransport.NewPublisher(redisStorage, conf.Redis.Channel)
		mirror := redistransport.NewMirror(logger, snapshotRepo, publisher)

		mirrorDone := make(chan struct{})
		go func() {
			defer close(mirrorDone)
			mirror.Run(ctx)
		}()

		// stop the mirror before the client closes
		defer func() {
			cancel()
			<-mirrorDone
		}()

		broadcasters = append(broadcasters, mirror)
		log.Info("Mirroring snapshots to redis", "channel", conf.Redis.Channel, "key", conf.Redis.SnapshotKey)
	}

	session := connect6.NewGameSession(conf.GridSize)
	gameUseCase := usecase.NewGameManager(logger, session, broadcasters...)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		httpServer := rest.New(logger, gameUseCase, conf.CORSOrigin, conf.StaticDir)
		if httpErr := httpServer.Start(ctx, conf.HTTPPort); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := websocket.New(logger, gameUseCase, hub, conf.CORSOrigin)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err := <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err := <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}

func connectRedis(ctx context.Context, conf *config.Config) (*redis.Client, error) {
	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return nil, apperror.ErrRedisAddrNotFound
	}

	redisStorage, err := storage.New(ctx, redisAddrString)
	if err != nil {
		return nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	return redisStorage, nil
}
