package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/desertthunder/songdl/internal/formatter"
	"github.com/desertthunder/songdl/internal/models"
	"github.com/desertthunder/songdl/internal/shared"
	"github.com/desertthunder/songdl/internal/tasks"
	"github.com/desertthunder/songdl/internal/ui"
	"github.com/urfave/cli/v3"
)

// progressRunner forwards orchestrator progress to a channel drained by the command.
type progressRunner struct {
	orchestrator *tasks.DownloadOrchestrator
	progress     chan<- tasks.ProgressUpdate
}

func (p progressRunner) Run(ctx context.Context, song models.SongMetadata, target string) models.Outcome {
	return p.orchestrator.RunWithProgress(ctx, p.progress, song, target)
}

// Download resolves and downloads a single song given by flags or a Spotify reference.
func (r *Runner) Download(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	dl, err := r.applyDownloadFlags(cmd, config)
	if err != nil {
		return err
	}

	song, err := r.songFromFlags(ctx, cmd, config)
	if err != nil {
		return err
	}

	orchestrator, err := r.orchestrator(config, dl.FetchOptions)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dl.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	history, closeHistory := r.historyOrWarn(config)
	defer closeHistory()

	progress := make(chan tasks.ProgressUpdate, 8)
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for update := range progress {
			if !dl.Quiet && update.Phase != tasks.Done {
				r.writePlain("%s\n", ui.Styles.Progress(update))
			}
		}
	}()

	batch := r.newBatch(progressRunner{orchestrator: orchestrator, progress: progress}, dl, history)
	target := tasks.SongFilename(dl.OutputDir, song, orchestrator.FetchOptions())
	results := batch.Run(ctx, []tasks.BatchItem{{Song: song, Target: target}})

	close(progress)
	<-drained

	outcome := results[0].Outcome
	r.writePlain("%s\n", ui.Styles.Outcome(song, outcome))

	if outcome.Kind == models.OutcomeFailed {
		return fmt.Errorf("%w: %v", ErrRunFailed, outcome.Err)
	}
	return nil
}

// Batch downloads every song in a CSV manifest and optionally writes a report.
func (r *Runner) Batch(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	dl, err := r.applyDownloadFlags(cmd, config)
	if err != nil {
		return err
	}

	path := cmd.String("file")
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open manifest: %w", err)
	}
	songs, err := tasks.ReadManifest(f)
	f.Close()
	if err != nil {
		return err
	}

	if len(songs) == 0 {
		r.writePlain("No songs in %s\n", path)
		return nil
	}

	orchestrator, err := r.orchestrator(config, dl.FetchOptions)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dl.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	history, closeHistory := r.historyOrWarn(config)
	defer closeHistory()

	r.writePlainHeader(fmt.Sprintf("Downloading %d songs", len(songs)))
	r.logger.Info("starting batch", "songs", len(songs), "concurrency", dl.Concurrency)

	batch := r.newBatch(orchestrator, dl, history)
	results := batch.Run(ctx, tasks.BatchItems(dl.OutputDir, songs, orchestrator.FetchOptions()))

	for _, result := range results {
		r.writePlain("%s\n", ui.Styles.Outcome(result.Item.Song, result.Outcome))
	}

	summary := tasks.Summary(results)
	r.writePlain("\n%s\n", formatter.SummaryLine(summary))

	if report := cmd.String("report"); report != "" {
		if err := formatter.WriteReport(results, report); err != nil {
			return err
		}
		r.logger.Info("report written", "path", report)
	}

	if failed := summary[models.OutcomeFailed]; failed > 0 {
		return fmt.Errorf("%w: %d of %d songs failed", ErrRunFailed, failed, len(results))
	}
	return nil
}

// songFromFlags builds the song from --spotify, or from --artist/--title/--album.
//
// An --album flag overrides the album reported by Spotify.
func (r *Runner) songFromFlags(ctx context.Context, cmd *cli.Command, config *shared.Config) (models.SongMetadata, error) {
	if ref := cmd.String("spotify"); ref != "" {
		source, err := r.metadataFor(config)
		if err != nil {
			return models.SongMetadata{}, err
		}

		song, err := source.GetTrack(ctx, ref)
		if err != nil {
			return models.SongMetadata{}, fmt.Errorf("failed to look up track: %w", err)
		}
		if album := cmd.String("album"); album != "" {
			song.Album = album
		}
		r.logger.Info("resolved spotify track", "song", song.String(), "album", song.Album)
		return *song, nil
	}

	var artists []string
	for _, a := range cmd.StringSlice("artist") {
		if a = strings.TrimSpace(a); a != "" {
			artists = append(artists, a)
		}
	}
	title := strings.TrimSpace(cmd.String("title"))

	if len(artists) == 0 || title == "" {
		return models.SongMetadata{}, fmt.Errorf("%w: --artist and --title are required unless --spotify is given", shared.ErrMissingArgument)
	}

	return models.SongMetadata{
		Artists: artists,
		Title:   title,
		Album:   strings.TrimSpace(cmd.String("album")),
	}, nil
}
