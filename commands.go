package main

import (
	"time"

	"github.com/spf13/cobra"
)

var (
	cfg = loadConfig()

	tokenSubject string
	tokenTTL     time.Duration
	playRepeat   bool

	rootCmd = &cobra.Command{
		Use:           "go-solver",
		Short:         "Entropy-driven solver for five-letter word puzzles",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(cfg.LogLevel)
		},
	}

	precomputeCmd = &cobra.Command{
		Use:   "precompute",
		Short: "Partition the dictionary by (guess, outcome) and write it to the store",
		Args:  cobra.NoArgs,
		RunE:  runPrecompute, // cmd_precompute.go
	}

	playCmd = &cobra.Command{
		Use:   "play [answer]",
		Short: "Solve one puzzle; without an answer, type the feedback for each guess",
		Long: `Solve one puzzle.

With an answer the game plays itself. Without one, each guess is printed and
the feedback is read from stdin: five of _ ~ ! (absent, present, correct),
or the squares ⬛ 🟨 🟩.

With --repeat (and no answer) another game starts after each one until the
"Play again" prompt is answered with anything but y.

Exit status: 0 solved, 2 no word fits the feedback, 3 out of rounds. With
--repeat the last game decides.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runPlay, // cmd_play.go
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE:  runServe, // cmd_serve.go
	}

	tokenCmd = &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for the API (needs SOLVER_JWT_SECRET)",
		Args:  cobra.NoArgs,
		RunE:  runToken, // cmd_serve.go
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfg.DB, "db", cfg.DB, "SQLite database holding the partition table")
	rootCmd.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&cfg.Words.Dictionary, "dictionary", cfg.Words.Dictionary, "Dictionary file (default: embedded list)")
	rootCmd.PersistentFlags().StringVar(&cfg.Words.Common, "common", cfg.Words.Common, "Common-words file (default: embedded list)")

	rootCmd.AddCommand(precomputeCmd)
	precomputeCmd.Flags().IntVar(&cfg.Workers, "workers", cfg.Workers, "Parallel workers")

	rootCmd.AddCommand(playCmd)
	playCmd.Flags().IntVar(&cfg.MaxRounds, "max-rounds", cfg.MaxRounds, "Guesses allowed per game")
	playCmd.Flags().BoolVar(&playRepeat, "repeat", false, "Offer another game after each one (typed feedback only)")

	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&cfg.Port, "port", cfg.Port, "Listen port")
	serveCmd.Flags().IntVar(&cfg.MaxRounds, "max-rounds", cfg.MaxRounds, "Guesses allowed per game")

	rootCmd.AddCommand(tokenCmd)
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "solver-client", "Token subject")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 30*24*time.Hour, "Token lifetime")
}
