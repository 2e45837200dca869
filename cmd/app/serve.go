package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/waste3d/lootshop-api/internal/application"
	"github.com/waste3d/lootshop-api/internal/infrastructure/cache"
	"github.com/waste3d/lootshop-api/internal/infrastructure/events"
	"github.com/waste3d/lootshop-api/internal/infrastructure/repository"
	"github.com/waste3d/lootshop-api/internal/infrastructure/security"
	"github.com/waste3d/lootshop-api/internal/middleware"
	handlers "github.com/waste3d/lootshop-api/internal/transport/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run migrations and start the HTTP API",
	RunE:  runServe,
}

func openDB() (*gorm.DB, error) {
	return gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := cfg.ValidateServe(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openDB()
	if err != nil {
		return err
	}
	logger.Info("running migrations")
	if err := repository.AutoMigrate(db); err != nil {
		return err
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return err
	}
	logger.Info("connected to redis", zap.String("addr", cfg.RedisAddr))

	broker := events.NewRedisBroker(rdb, logger)
	uc := application.NewUseCases(
		repository.NewStore(db),
		cache.NewProfileCache(rdb),
		broker,
		logger,
		time.Now,
	)

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handlers.NewRouter(
		handlers.NewHandler(uc, broker, logger),
		middleware.NewRateLimiter(rdb, logger),
		security.NewTokenManager(cfg.AccessSecret),
		cfg.AllowedOrigins,
		logger,
	)

	srv := &http.Server{
		Addr:              cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("api running", zap.String("addr", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
