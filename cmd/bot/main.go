package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DeSent79/miku-bot/internal/config"
	"github.com/DeSent79/miku-bot/internal/discord"
	"github.com/DeSent79/miku-bot/internal/logger"
	"github.com/DeSent79/miku-bot/internal/mongo"
	"github.com/DeSent79/miku-bot/internal/shutdown"
	"github.com/DeSent79/miku-bot/internal/store"
)

const (
	connectTimeout  = 10 * time.Second
	shutdownTimeout = 30 * time.Second
)

// mongoCloser adapts the store client to the shutdown component contract.
type mongoCloser struct {
	client mongo.Client
}

func (m mongoCloser) Shutdown(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func (m mongoCloser) Name() string {
	return "mongo"
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Init(logger.Config{
		Level:      logger.Level(cfg.LogLevel),
		OutputPath: cfg.LogPath,
		MaxSize:    cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAgeDays,
	})

	logger.Info("starting miku-bot")
	if !cfg.EnvFileLoaded {
		logger.Info("no .env file found, relying on environment and defaults")
	}

	if err := os.MkdirAll(cfg.TracksDir, 0755); err != nil {
		logger.Fatal("failed to create tracks directory",
			logger.String("dir", cfg.TracksDir), logger.ErrorField(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	// The store is required infrastructure: any failure here is fatal.
	mongoClient, err := mongo.NewClient(ctx, cfg.MongoURI())
	if err != nil {
		logger.Fatal("failed to connect to mongo", logger.ErrorField(err))
	}

	if err := mongoClient.Ping(ctx); err != nil {
		logger.Fatal("failed to reach mongo", logger.ErrorField(err))
	}

	db := mongoClient.Database(cfg.DBName)
	tracks := store.NewTrackRepository(db)
	settings := store.NewSettingsRepository(db)

	client, err := discord.NewClient(cfg, tracks, settings)
	if err != nil {
		logger.Fatal("failed to create discord client", logger.ErrorField(err))
	}

	if err := client.Connect(ctx); err != nil {
		logger.Fatal("failed to start discord client", logger.ErrorField(err))
	}

	shutdownManager := shutdown.NewManager()
	shutdownManager.Register(mongoCloser{client: mongoClient})
	shutdownManager.Register(client)

	logger.Info("bot is running, press Ctrl+C to exit")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutdown signal received")

	if err := shutdownManager.Shutdown(shutdownTimeout); err != nil {
		logger.Error("shutdown error", logger.ErrorField(err))
		os.Exit(1)
	}
}
