// Command seed loads a metro network description into the database.
//
//	seed -file seed/hyderabad.yaml [-replace] [-dry-run]
//
// The file is parsed, validated and built into a routing graph before anything
// is written; all writes then happen in one transaction. A running API server
// picks the new data up on its next mutation, POST /api/network/rebuild, or
// restart.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/pkordes/metro-router/internal/config"
	"github.com/pkordes/metro-router/internal/repo"
	"github.com/pkordes/metro-router/internal/seed"
	"github.com/pkordes/metro-router/internal/service"
	"github.com/pkordes/metro-router/migrations"
)

func main() {
	file := flag.String("file", "seed/hyderabad.yaml", "network YAML file to load")
	replace := flag.Bool("replace", false, "replace the stations of lines that already exist")
	dryRun := flag.Bool("dry-run", false, "validate the file and print graph statistics without writing")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if err := run(context.Background(), logger, *file, *replace, *dryRun); err != nil {
		logger.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger, path string, replace, dryRun bool) error {
	fh, err := os.Open(path)
	if err != nil {
		return err
	}
	f, err := seed.Parse(fh)
	fh.Close()
	if err != nil {
		return err
	}

	stats, err := f.Check()
	if err != nil {
		return err
	}
	log.Info("seed file is valid",
		"lines", len(f.Lines),
		"nodes", stats.Nodes,
		"transfer_edge_pairs", stats.TransferEdgePairs,
		"interchanges", stats.Interchanges,
	)
	if dryRun {
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("open pool: %w", err)
	}
	defer pool.Close()

	if cfg.AutoMigrate {
		db := stdlib.OpenDBFromPool(pool)
		_, err := migrations.Up(ctx, db)
		db.Close()
		if err != nil {
			return err
		}
	}

	var res seed.Result
	err = pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		seeder := seed.NewSeeder(repo.NewLineRepo(tx), repo.NewStationRepo(tx), log)
		var applyErr error
		res, applyErr = seeder.Apply(ctx, f, replace)
		return applyErr
	})
	if err != nil {
		return err
	}
	log.Info("seed applied",
		"lines_created", res.LinesCreated,
		"lines_replaced", res.LinesReplaced,
		"lines_skipped", res.LinesSkipped,
		"stations", res.Stations,
	)

	// Build the graph from everything now stored, not just this file.
	network := service.NewNetworkService(repo.NewLineRepo(pool), repo.NewStationRepo(pool), log, nil)
	stats, err = network.Rebuild(ctx)
	if err != nil {
		return fmt.Errorf("stored network does not build: %w", err)
	}
	log.Info("stored network builds", "nodes", stats.Nodes, "interchanges", stats.Interchanges)
	return nil
}
