// cmd/recsched/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/denverfit/recsched/internal/cli"
)

func main() {
	// Cancel in-flight browser work on interrupt instead of exiting hard;
	// a partially written document is worse than a clean cancellation.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
