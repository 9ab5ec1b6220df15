package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/songdl/internal/formatter"
	"github.com/desertthunder/songdl/internal/models"
	"github.com/desertthunder/songdl/internal/repositories"
	"github.com/desertthunder/songdl/internal/shared"
	"github.com/urfave/cli/v3"
)

// History lists the most recent recorded outcomes, newest first.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	outcome := cmd.String("outcome")
	if outcome != "" {
		if _, err := models.ParseOutcomeKind(outcome); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
		}
	}

	db, err := shared.OpenHistoryDatabase(config.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	records, err := repositories.NewDownloadRepository(db).List(map[string]any{
		"limit":   int(cmd.Int("limit")),
		"outcome": outcome,
	})
	if err != nil {
		return err
	}

	if cmd.Bool("csv") {
		data, err := formatter.HistoryToCSV(records)
		if err != nil {
			return err
		}
		return r.writePlain("%s", data)
	}

	return r.writePlain("%s", formatter.HistoryToText(records))
}
