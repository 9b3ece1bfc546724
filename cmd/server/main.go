package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"musclemap/prescription-engine/internal/api"
	"musclemap/prescription-engine/internal/cache"
	"musclemap/prescription-engine/internal/config"
	"musclemap/prescription-engine/internal/learning"
	"musclemap/prescription-engine/internal/logger"
	"musclemap/prescription-engine/internal/observability"
	"musclemap/prescription-engine/internal/prescription"
	"musclemap/prescription-engine/internal/repository"
	"musclemap/prescription-engine/internal/repository/mongo"
	"musclemap/prescription-engine/internal/repository/sqlite"
	"musclemap/prescription-engine/internal/service"
	"musclemap/prescription-engine/internal/storage"
)

var version = "dev"

// @title MuscleMap Prescription Engine API
// @version 1.0
// @description Generates personalized workout prescriptions and learns from user feedback.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: could not load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Mode, cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: could not build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Error("server exited with error", "error", err)
		log.Sync()
		os.Exit(1)
	}
	log.Info("server exiting")
}

func run(cfg config.Config, log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("starting prescription engine", "version", version, "driver", cfg.Database.Driver)

	// --- Tracing ---
	shutdownTracing := observability.InitTracing(ctx, log, cfg.Tracing, version)
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Warn("tracing shutdown failed", "error", err)
		}
	}()

	// --- Database ---
	store, closeStore, err := openStore(ctx, log, cfg.Database)
	if err != nil {
		return err
	}
	defer closeStore()

	// --- Cache ---
	var durable cache.DurableClient
	if cfg.Redis.Enabled {
		durable, err = cache.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		if closer, ok := durable.(io.Closer); ok {
			defer closer.Close()
		}
		log.Info("durable cache tier enabled", "addr", cfg.Redis.Addr)
	} else {
		log.Info("durable cache tier disabled, running local-only")
	}
	tiered := cache.New(log, cache.Options{
		Namespace:     cfg.Redis.Namespace,
		LocalCapacity: cfg.Cache.LocalCapacity,
		Durable:       durable,
		Channel:       cfg.Redis.Channel,
	})

	// --- Media storage ---
	var media storage.MediaStorage
	if cfg.S3.Enabled {
		media, err = storage.NewS3Storage(ctx, log, cfg.S3)
		if err != nil {
			return fmt.Errorf("init media storage: %w", err)
		}
	}

	// --- Learning ---
	adaptive := learning.NewAdaptive(log, store.Feedback, store.Weights, tiered, learning.AdaptiveOptions{
		WindowDays: cfg.Learning.WindowDays,
		MinSamples: cfg.Learning.MinSamples,
	})
	worker := learning.NewWorker(log, adaptive, learning.WorkerOptions{
		QueueSize: cfg.Learning.QueueSize,
		Workers:   cfg.Learning.Workers,
	})
	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	worker.Start(workerCtx)
	defer func() {
		cancelWorkers()
		worker.Wait()
	}()
	collector := learning.NewCollector(log, learning.CollectorDeps{
		Exercises:   store.Exercises,
		Performance: store.Performance,
		MuscleStats: store.MuscleStats,
		Feedback:    store.Feedback,
		Cache:       tiered,
		Queue:       worker,
	})

	// --- Services ---
	tokens, err := service.NewTokenService(cfg.JWT.Secret)
	if err != nil {
		return err
	}
	builder := prescription.NewBuilder(log, prescription.Options{})
	services := api.Services{
		Tokens:        tokens,
		Prescriptions: service.NewPrescriptionService(log, store, tiered, builder, media),
		Learning:      service.NewLearningService(log, store, collector),
		Catalog:       service.NewCatalogService(log, store.Exercises, tiered, media),
		Cache:         tiered,
	}

	// --- HTTP ---
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery())
	api.SetupRoutes(router, log, cfg.CORS, services)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "address", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("shutting down server", "timeout", cfg.Server.ShutdownTimeout.String())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

// openStore connects the configured data layer and returns its repositories.
func openStore(ctx context.Context, log *logger.Logger, cfg config.DatabaseConfig) (repository.Store, func(), error) {
	switch cfg.Driver {
	case "sqlite":
		db, err := sqlite.NewStore(cfg.SQLitePath)
		if err != nil {
			return repository.Store{}, nil, fmt.Errorf("open sqlite: %w", err)
		}
		log.Info("sqlite store opened", "path", cfg.SQLitePath)
		return db.Repositories(), func() {
			if err := db.Close(); err != nil {
				log.Warn("sqlite close failed", "error", err)
			}
		}, nil
	default:
		client, err := mongo.ConnectDB(ctx, cfg.URI)
		if err != nil {
			return repository.Store{}, nil, fmt.Errorf("connect mongo: %w", err)
		}
		db := client.Database(cfg.Name)

		idxCtx, cancel := context.WithTimeout(ctx, time.Minute)
		defer cancel()
		if err := mongo.EnsureIndexes(idxCtx, db); err != nil {
			log.Warn("index creation failed", "error", err)
		}
		log.Info("mongo store connected", "database", cfg.Name)
		return mongo.NewStore(db), func() {
			if err := mongo.DisconnectDB(client); err != nil {
				log.Warn("mongo disconnect failed", "error", err)
			}
		}, nil
	}
}
