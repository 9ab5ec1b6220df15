package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/songdl/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	runner := NewRunner(RunnerOpts{Logger: logger})

	app := &cli.Command{
		Name:     "songdl",
		Usage:    "Find songs on YouTube and download them as audio files",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, ErrRunFailed) {
			logger.Error(err)
			os.Exit(1)
		}
		logger.Fatalf("application error: %v", err)
	}
}
