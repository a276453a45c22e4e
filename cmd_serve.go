package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/wordle/apps/go-solver/internal/entropy"
	"github.com/robalobadob/wordle/apps/go-solver/internal/httpserver"
	"github.com/robalobadob/wordle/apps/go-solver/internal/store"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

// openSolver loads the word lists and the stored partition table. A missing
// or stale table is fatal: the solver never computes partitions on the fly.
func openSolver(ctx context.Context) (*entropy.Selector, *words.Lists, *sql.DB) {
	lists, err := words.Load(cfg.Words)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load word lists")
	}
	db, err := store.Open(cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Str("db", cfg.DB).Msg("failed to open database")
	}
	tbl, err := store.NewPartitionStore(db).Load(ctx, lists.Dict)
	if errors.Is(err, store.ErrMissingPartition) || errors.Is(err, store.ErrStalePartitions) {
		log.Fatal().Err(err).Str("db", cfg.DB).Msg("partition table unavailable; run `go-solver precompute`")
	}
	if err != nil {
		log.Fatal().Err(err).Str("db", cfg.DB).Msg("failed to load partition table")
	}
	return entropy.New(tbl, lists.Common, cfg.MaxRounds), lists, db
}

// runServe starts the HTTP API.
func runServe(cmd *cobra.Command, _ []string) error {
	sel, lists, db := openSolver(cmd.Context())
	defer db.Close()

	srv := httpserver.New(sel, lists, store.NewMemoryStore(), db, httpserver.Config{
		JWTSecret:    cfg.JWTSecret,
		RoundTimeout: cfg.RoundTimeout,
		SessionTTL:   cfg.SessionTTL,
		DailySalt:    cfg.DailySalt,
		ClientOrigin: cfg.ClientOrigin,
	})
	if cfg.JWTSecret == "" {
		log.Warn().Msg("SOLVER_JWT_SECRET not set; API is open")
	}
	d, c := lists.Stats()
	log.Info().Str("port", cfg.Port).Int("dictionary", d).Int("common", c).Msg("starting go-solver")
	return srv.Start(":" + cfg.Port)
}

// runToken prints a bearer token for the API.
func runToken(cmd *cobra.Command, _ []string) error {
	tok, exp, err := httpserver.SignToken(cfg.JWTSecret, tokenSubject, tokenTTL)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), tok)
	log.Info().Str("subject", tokenSubject).Time("expires", exp).Msg("token issued")
	return nil
}
