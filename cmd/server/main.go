package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/stemsi/pathfinder-backend/internal/catalog"
	"github.com/stemsi/pathfinder-backend/internal/config"
	"github.com/stemsi/pathfinder-backend/internal/database"
	"github.com/stemsi/pathfinder-backend/internal/handler"
	"github.com/stemsi/pathfinder-backend/internal/logger"
	"github.com/stemsi/pathfinder-backend/internal/metrics"
	"github.com/stemsi/pathfinder-backend/internal/repository"
	"github.com/stemsi/pathfinder-backend/internal/router"
	"github.com/stemsi/pathfinder-backend/internal/service"
	"github.com/stemsi/pathfinder-backend/internal/suggest"
	"github.com/stemsi/pathfinder-backend/internal/telemetry"
	"github.com/stemsi/pathfinder-backend/internal/validator"
	"github.com/stemsi/pathfinder-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Str("env", cfg.Environment).
		Msg("Starting Pathfinder Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Tracing ───────────────────────────────────────────────────────
	shutdownTracing, err := telemetry.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up tracing")
	}

	// ─── Metrics ───────────────────────────────────────────────────────
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	rec, err := metrics.New(registry)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to register metrics")
	}

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	sectionRepo := repository.NewSectionRepository(pool)
	profileRepo := repository.NewProfileRepository(pool)
	occupationRepo := repository.NewOccupationRepository(pool)
	narrativeRepo := repository.NewNarrativeRepository(pool)

	// ─── Occupation Suggestions ────────────────────────────────────────
	occupations, err := suggest.NewCachedFinder(occupationRepo, cfg.OccupationCacheSize, cfg.OccupationCacheTTL, rec)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create occupation cache")
	}
	resolver := suggest.NewResolver(occupations, cfg.SuggestionLimit, log)

	// ─── Initialize Services ──────────────────────────────────────────
	questions := catalog.Default
	authService := service.NewAuthService(cfg)
	intakeService := service.NewIntakeService(questions, sectionRepo, service.NewDraftStore(rdb, cfg.DraftTTL), rec, log)
	profileService := service.NewProfileService(questions, sectionRepo, profileRepo, resolver, service.NewRedisLocker(rdb), rec, log)

	// A nil *NarratorClient must not end up inside the interface.
	var narrator service.Narrator
	if client := service.NewNarratorClient(cfg.NarrativeServiceURL, cfg.NarrativeTimeout); client != nil {
		narrator = client
	} else {
		log.Warn().Msg("NARRATIVE_SERVICE_URL not set, narrative generation disabled")
	}
	narrativeService := service.NewNarrativeService(profileService, narrativeRepo, narrator, rec, log)

	queue := worker.NewProfileQueue(rdb)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Catalog:    handler.NewCatalogHandler(questions),
		Assessment: handler.NewAssessmentHandler(intakeService, profileService),
		Profile:    handler.NewProfileHandler(profileService, narrativeService, log),
		Admin: handler.NewAdminHandler(
			profileService,
			worker.NewBackfiller(sectionRepo, queue),
			occupationRepo,
			occupations,
			log,
		),
		WS: handler.NewWSHandler(intakeService, profileService, log, cfg.AllowedOrigins),
		System: handler.NewSystemHandler(
			map[string]handler.HealthCheck{
				"postgres": pool.Ping,
				"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
			},
			func(ctx context.Context) (int64, error) { return queue.Enqueue(ctx) },
			registry,
			log,
		),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	workerDone := make(chan struct{})

	profileWorker := worker.NewProfileWorker(rdb, profileService, rec, log)
	go func() {
		defer close(workerDone)
		profileWorker.Start(workerCtx)
	}()

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(ctx, authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the profile worker and wait for it to drain.
	workerCancel()
	select {
	case <-workerDone:
	case <-shutdownCtx.Done():
		log.Warn().Msg("Profile worker did not drain in time")
	}

	// 3. Flush pending spans.
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Tracing shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
