package main

import (
	"context"
	"flag"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/stemsi/pathfinder-backend/internal/catalog"
	"github.com/stemsi/pathfinder-backend/internal/config"
	"github.com/stemsi/pathfinder-backend/internal/database"
	"github.com/stemsi/pathfinder-backend/internal/logger"
	"github.com/stemsi/pathfinder-backend/internal/metrics"
	"github.com/stemsi/pathfinder-backend/internal/repository"
	"github.com/stemsi/pathfinder-backend/internal/service"
	"github.com/stemsi/pathfinder-backend/internal/suggest"
	"github.com/stemsi/pathfinder-backend/internal/worker"
)

func main() {
	var syncRun bool
	var concurrency int
	flag.BoolVar(&syncRun, "sync", false, "Process profiles in this process instead of queueing jobs")
	flag.IntVar(&concurrency, "concurrency", 4, "Parallel profile runs in -sync mode")
	flag.Parse()

	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

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

	sectionRepo := repository.NewSectionRepository(pool)
	backfiller := worker.NewBackfiller(sectionRepo, worker.NewProfileQueue(rdb))

	if !syncRun {
		queued, err := backfiller.Enqueue(ctx)
		if err != nil {
			log.Fatal().Err(err).Int("queued", queued).Msg("Failed to queue backfill")
		}
		fmt.Printf("Queued %d profile jobs on %s.\n", queued, config.WorkerKey.ProcessProfilesQueue)
		return
	}

	// ─── Synchronous Run ───────────────────────────────────────────────
	jobs, err := backfiller.Plan(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to plan backfill")
	}

	rec, err := metrics.New(nil)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to register metrics")
	}
	finder, err := suggest.NewCachedFinder(repository.NewOccupationRepository(pool), cfg.OccupationCacheSize, cfg.OccupationCacheTTL, rec)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create occupation cache")
	}
	profiles := service.NewProfileService(
		catalog.Default,
		sectionRepo,
		repository.NewProfileRepository(pool),
		suggest.NewResolver(finder, cfg.SuggestionLimit, log),
		service.NewRedisLocker(rdb),
		rec,
		log,
	)

	fmt.Printf("=== Processing %d profiles ===\n", len(jobs))

	var done, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(concurrency, 1))
	for _, job := range jobs {
		g.Go(func() error {
			if _, err := profiles.Process(gctx, job.UserID, job.AssessmentID); err != nil {
				failed.Add(1)
				log.Error().Err(err).
					Str("user_id", job.UserID.String()).
					Str("assessment_id", job.AssessmentID.String()).
					Msg("Profile run failed")
				return nil
			}
			if n := done.Add(1); n%50 == 0 {
				fmt.Printf("Processed %d profiles...\n", n)
			}
			return nil
		})
	}
	_ = g.Wait()

	fmt.Printf("\nBackfill completed! %d processed, %d failed.\n", done.Load(), failed.Load())
}
