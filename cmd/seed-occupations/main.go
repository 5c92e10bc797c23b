package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/stemsi/pathfinder-backend/internal/config"
	"github.com/stemsi/pathfinder-backend/internal/database"
	"github.com/stemsi/pathfinder-backend/internal/logger"
	"github.com/stemsi/pathfinder-backend/internal/repository"
)

func main() {
	var path string
	var dryRun bool
	flag.StringVar(&path, "file", "", "YAML seed file (defaults to the embedded list)")
	flag.BoolVar(&dryRun, "dry-run", false, "Validate the seed file without writing")
	flag.Parse()

	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	// ─── Read Seed File ────────────────────────────────────────────────
	var src io.Reader = bytes.NewReader(defaultOccupations)
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			log.Fatal().Err(err).Str("file", path).Msg("Failed to open seed file")
		}
		defer f.Close()
		src = f
	}

	occupations, err := parseOccupations(src)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid seed file")
	}
	fmt.Printf("=== Parsed %d occupations ===\n", len(occupations))
	if dryRun {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Upsert ────────────────────────────────────────────────────────
	written, err := repository.NewOccupationRepository(pool).UpsertMany(ctx, occupations)
	if err != nil {
		log.Fatal().Err(err).Int("written", written).Msg("Failed to seed occupations")
	}

	fmt.Printf("\nSeed completed! Upserted %d/%d occupations.\n", written, len(occupations))
	fmt.Println("Running servers keep cached lookups until their TTL expires; purge via POST /api/v1/admin/occupations/cache/purge.")
}
