package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap"

	"github.com/Clark-Hu/movie-reviews/internal/cache"
	"github.com/Clark-Hu/movie-reviews/internal/catalog"
	"github.com/Clark-Hu/movie-reviews/internal/config"
	httpserver "github.com/Clark-Hu/movie-reviews/internal/http"
	"github.com/Clark-Hu/movie-reviews/internal/logging"
	"github.com/Clark-Hu/movie-reviews/internal/metrics"
	"github.com/Clark-Hu/movie-reviews/internal/repository"
	"github.com/Clark-Hu/movie-reviews/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	undoMaxProcs, err := maxprocs.Set(maxprocs.Logger(logger.Sugar().Infof))
	if err != nil {
		logger.Warn("set GOMAXPROCS", zap.Error(err))
	}
	defer undoMaxProcs()

	dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	storeOpts := store.Options{
		MaxConns:        int32(cfg.DBMaxConns),
		MinConns:        int32(cfg.DBMinConns),
		MaxConnIdleTime: time.Duration(cfg.DBMaxIdleSecs) * time.Second,
		MaxConnLifetime: time.Duration(cfg.DBMaxLifeSecs) * time.Second,
		ConnTimeout:     time.Duration(cfg.DBConnTimeoutSecs) * time.Second,
		Logger:          logger.Named("store"),
	}

	st, err := store.New(dbCtx, cfg.DatabaseURL, storeOpts)
	if err != nil {
		logger.Fatal("connect database", zap.Error(err))
	}
	defer st.Close()

	var movieCache repository.MovieCache
	if cfg.RedisURL != "" {
		mc, err := cache.New(ctx, cfg.RedisURL, time.Duration(cfg.MovieCacheTTLSecs)*time.Second, logger.Named("cache"))
		if err != nil {
			logger.Warn("movie cache disabled", zap.Error(err))
		} else {
			defer func() { _ = mc.Close() }()
			movieCache = mc
		}
	}

	repo := repository.New(st, movieCache)
	svc := catalog.NewService(repo.Movies, repo.Reviews, logger.Named("catalog"))

	m := metrics.New("movies")
	m.RegisterPoolStats(st.Stats)

	server := httpserver.New(cfg, st, svc, m, logger.Named("http"))

	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			serverErrCh <- err
			return
		}
		serverErrCh <- nil
	}()

	select {
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
		}
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Warn("graceful shutdown error", zap.Error(err))
	}
	logger.Info("server stopped")
}
