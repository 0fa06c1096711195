package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/plx/internal/shared"
)

const version = "0.1.0"

func main() {
	logger := shared.NewLogger(nil)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := NewRunner(RunnerOpts{Logger: logger})
	app := runner.command()

	if err := app.Run(ctx, os.Args); err != nil {
		if isCleanExit(err) {
			logger.Info("goodbye")
			return
		}
		stop()
		logger.Fatalf("application error: %v", err)
	}
}

// isCleanExit reports whether err came from the user quitting rather than a failure.
func isCleanExit(err error) bool {
	return errors.Is(err, shared.ErrUserAbort) || errors.Is(err, context.Canceled)
}
