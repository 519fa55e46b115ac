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

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"jd-generator/config"
	"jd-generator/domain"
	"jd-generator/infrastructure"
	"jd-generator/interfaces"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := infrastructure.NewLogger(cfg.Env)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	logger.Info("starting jd-generator", zap.String("config", cfg.String()))
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := infrastructure.NewDatabase(cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	generator, closeGenerator, err := infrastructure.NewGenerator(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeGenerator()

	var events domain.EventPublisher = infrastructure.NoopPublisher{}
	if cfg.RabbitMQ.URL != "" {
		rmq, err := infrastructure.NewRabbitMQ(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue, logger)
		if err != nil {
			return err
		}
		defer rmq.Close()
		events = rmq
	}

	repo := infrastructure.NewJobDescriptionRepository(db.DB)
	handler := &interfaces.HTTPHandler{
		Store:           repo,
		Generator:       generator,
		Events:          events,
		DB:              repo,
		Logger:          logger,
		GenerateTimeout: cfg.Generation.Timeout,
	}

	opts := interfaces.RouterOptions{CORSOrigins: cfg.CORSOrigins()}
	if cfg.Limiter.Enabled {
		opts.Limiter = interfaces.NewClientLimiter(cfg.Limiter.RPS, cfg.Limiter.Burst)
	}

	server := &http.Server{
		Addr:         cfg.ServerAddr(),
		Handler:      interfaces.NewRouter(handler, opts),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.Generation.Timeout + 30*time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
