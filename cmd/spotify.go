package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/songdl/internal/shared"
	"github.com/desertthunder/songdl/internal/tasks"
	"github.com/urfave/cli/v3"
)

// SpotifyTrack prints the metadata a download would search with, and the file it would write.
func (r *Runner) SpotifyTrack(ctx context.Context, cmd *cli.Command) error {
	ref := cmd.Args().First()
	if ref == "" {
		return fmt.Errorf("%w: track ID, URI or URL", shared.ErrMissingArgument)
	}

	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	source, err := r.metadataFor(config)
	if err != nil {
		return err
	}

	r.logger.Debug("looking up track", "source", source.Name(), "ref", ref)

	song, err := source.GetTrack(ctx, ref)
	if err != nil {
		return fmt.Errorf("failed to look up track: %w", err)
	}

	r.writePlain("Artists: %s\n", strings.Join(song.Artists, ", "))
	r.writePlain("Title:   %s\n", song.Title)
	r.writePlain("Album:   %s\n", song.Album)
	r.writePlain("Query:   %s\n", tasks.PrimaryQuery(*song))
	r.writePlain("File:    %s\n", tasks.SongFilename(config.Download.OutputDir, *song, config.Download.FetchOptions))
	return nil
}
