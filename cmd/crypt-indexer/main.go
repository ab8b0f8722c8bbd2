// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/blinklabs-io/cryptcards/config"
	"github.com/blinklabs-io/cryptcards/identity"
	"github.com/blinklabs-io/cryptcards/indexer"
	"github.com/blinklabs-io/cryptcards/storage/sqlite"
	"github.com/blinklabs-io/cryptcards/telemetry"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	cfg.RegisterFlags(fs)
	if err := fs.Parse(os.Args[1:]); err != nil {
		return fmt.Errorf("parse command args: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	level, _ := cfg.SlogLevel()
	logger := slog.New(
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}),
	)
	slog.SetDefault(logger)
	programID, _ := cfg.Program()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.ServiceName, cfg.OtelEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn("failed to flush traces", "error", err)
		}
	}()

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	idx := indexer.New(
		store,
		indexer.WithLogger(logger),
		indexer.WithCheckpointer(store),
		indexer.WithPollInterval(cfg.PollInterval),
		indexer.WithBatchSize(cfg.BatchSize),
		indexer.WithCheckpointEvery(cfg.CheckpointEvery),
		indexer.WithMaxEntryRetries(cfg.MaxEntryRetries),
		indexer.WithProgramID(programID),
	)
	logger.Info(
		"starting crypt indexer",
		"db", cfg.DBPath,
		"program", programID.String(),
		"collection", identity.CollectionAddress(programID).String(),
	)
	if err := idx.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	if err := idx.Stop(); err != nil {
		logger.Error("failed to save final checkpoint", "error", err)
	}

	stats := idx.Stats()
	counters := idx.Projection().Counters()
	metrics := idx.CollectionMetrics(time.Now())
	logger.Info(
		"collection statistics",
		"total_minted", counters.TotalMinted,
		"total_burned", counters.TotalBurned,
		"transfers", counters.TotalTransfers,
		"interactions", counters.TotalInteractions,
		"verifications", counters.TotalVerifications,
		"common", counters.RarityCounts[0],
		"rare", counters.RarityCounts[1],
		"legendary", counters.RarityCounts[2],
		"active_cards", metrics.ActiveCards,
		"unique_owners", metrics.UniqueOwners,
	)
	logger.Info(
		"indexer statistics",
		"cursor", stats.Cursor,
		"entries_applied", stats.EntriesApplied,
		"events_applied", stats.EventsApplied,
		"duplicates_skipped", stats.DuplicatesSkipped,
		"fetch_errors", stats.FetchErrors,
		"decode_errors", stats.DecodeErrors,
		"skipped_entries", stats.SkippedEntries,
		"filtered_entries", stats.FilteredEntries,
	)
	return nil
}
