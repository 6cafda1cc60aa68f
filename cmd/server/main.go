package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/okhramov/stockbook/internal/adapter/cache"
	"github.com/okhramov/stockbook/internal/adapter/file"
	"github.com/okhramov/stockbook/internal/adapter/in_memory"
	"github.com/okhramov/stockbook/internal/adapter/pg"
	httpapi "github.com/okhramov/stockbook/internal/api/http"
	"github.com/okhramov/stockbook/internal/config"
	"github.com/okhramov/stockbook/internal/core"
	"github.com/okhramov/stockbook/internal/port"
)

func newLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

func main() {
	cfg := config.Load()

	logger, err := newLogger()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx := context.Background()

	store := file.NewStore(cfg.SnapshotDir)

	var archive port.TradeArchive
	if cfg.DatabaseURL != "" {
		pgArchive, err := pg.NewArchive(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("failed to connect to Postgres", zap.Error(err))
		}
		defer pgArchive.Close()
		archive = pgArchive
	}

	var depthCache port.Cache
	if cfg.RedisAddr != "" {
		depthCache = cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisTTL)
	} else {
		depthCache = in_memory.NewCache()
	}

	eng := core.NewEngine(store, archive, depthCache, logger)
	if err := eng.RestoreAll(ctx); err != nil {
		logger.Fatal("failed to restore books", zap.Error(err))
	}

	server := httpapi.NewHTTPServer(eng)
	server.RateLimit = cfg.RateLimit

	go func() {
		logger.Info("starting HTTP server", zap.String("addr", cfg.HTTPAddr))
		if err := server.Run(cfg.HTTPAddr); err != nil {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Save & exit: persist every book before the process goes away.
	if err := eng.SnapshotAll(ctx); err != nil {
		logger.Error("failed to snapshot books on shutdown", zap.Error(err))
	}
	logger.Info("shutdown complete")
}
