// apps/go-solver/main.go
//
// Entry point for the solver CLI.
// Commands (see commands.go):
//   - precompute: build the partition table and write it to the store
//   - play:       solve one puzzle, from a known answer or typed feedback
//   - serve:      run the HTTP API
//   - token:      mint a bearer token for the API
//
// Configuration comes from .env + environment (config.go); logging is the
// global zerolog logger.

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err == nil {
		return
	}
	var code exitCode
	if errors.As(err, &code) {
		os.Exit(int(code))
	}
	log.Error().Err(err).Msg("command failed")
	os.Exit(1)
}
