package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/robalobadob/wordle/apps/go-solver/internal/partition"
	"github.com/robalobadob/wordle/apps/go-solver/internal/store"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

// runPrecompute builds the partition table and replaces the stored one.
func runPrecompute(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	lists, err := words.Load(cfg.Words)
	if err != nil {
		return fmt.Errorf("load words: %w", err)
	}
	db, err := store.Open(cfg.DB)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	bar := progressbar.NewOptions(lists.Dict.Len(),
		progressbar.OptionSetDescription("partitioning"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	started := time.Now()
	tbl, err := partition.Build(ctx, lists.Dict, partition.Options{
		Workers:  cfg.Workers,
		Progress: func(done, _ int) { _ = bar.Set(done) },
	})
	_ = bar.Finish()
	if err != nil {
		return fmt.Errorf("build partitions: %w", err)
	}
	built := time.Since(started)

	if err := store.NewPartitionStore(db).Save(ctx, tbl); err != nil {
		return fmt.Errorf("save partitions: %w", err)
	}
	log.Info().
		Int("words", lists.Dict.Len()).
		Int("workers", cfg.Workers).
		Dur("build", built).
		Dur("total", time.Since(started)).
		Str("db", cfg.DB).
		Msg("partition table written")
	return nil
}
