package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songdl/internal/models"
	"github.com/desertthunder/songdl/internal/repositories"
	"github.com/desertthunder/songdl/internal/services"
	"github.com/desertthunder/songdl/internal/shared"
	"github.com/desertthunder/songdl/internal/tagger"
	"github.com/desertthunder/songdl/internal/tasks"
	"github.com/desertthunder/songdl/internal/ui"
	"github.com/urfave/cli/v3"
)

// ErrRunFailed marks a command whose pipeline run ended in a failed outcome.
var ErrRunFailed = errors.New("run failed")

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// Collaborators left nil are built from the loaded config when a command needs them.
type Runner struct {
	config   *shared.Config
	catalog  services.Catalog
	metadata services.MetadataSource
	logger   *log.Logger
	output   io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config   *shared.Config
	Catalog  services.Catalog
	Metadata services.MetadataSource
	Logger   *log.Logger
	Output   io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:   opts.Config,
		catalog:  opts.Catalog,
		metadata: opts.Metadata,
		logger:   opts.Logger,
		output:   opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		downloadCommand, batchCommand, spotifyCommand, historyCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// loadConfig returns the runner's config, or reads the --config file, falling back to defaults when it does not exist.
//
// A config file that exists but is invalid is an error.
func (r *Runner) loadConfig(cmd *cli.Command) (*shared.Config, error) {
	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	if r.config != nil {
		return r.config, nil
	}

	path := cmd.String("config")
	exists, err := shared.FileExists(path)
	if err != nil {
		return nil, fmt.Errorf("failed to check config file: %w", err)
	}
	if !exists {
		r.logger.Debug("config file not found, using defaults", "path", path)
		return shared.DefaultConfig(), nil
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("loaded config", "path", path)
	return config, nil
}

// applyDownloadFlags overlays command line overrides on a copy of the download config.
func (r *Runner) applyDownloadFlags(cmd *cli.Command, config *shared.Config) (shared.DownloadConfig, error) {
	dl := config.Download

	if cmd.IsSet("codec") {
		dl.Codec = cmd.String("codec")
	}
	if cmd.IsSet("quality") {
		dl.Quality = cmd.String("quality")
	}
	if cmd.IsSet("quiet") {
		dl.Quiet = cmd.Bool("quiet")
	}
	if cmd.IsSet("output-dir") {
		dl.OutputDir = cmd.String("output-dir")
	}
	if cmd.IsSet("concurrency") {
		dl.Concurrency = int(cmd.Int("concurrency"))
	}
	if cmd.IsSet("no-tag") {
		dl.Tag = !cmd.Bool("no-tag")
	}

	dl.FetchOptions = dl.FetchOptions.WithDefaults()
	if err := dl.FetchOptions.Validate(); err != nil {
		return dl, fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}
	if dl.Quiet && !cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.WarnLevel)
	}
	return dl, nil
}

func (r *Runner) catalogFor(config *shared.Config) services.Catalog {
	if r.catalog != nil {
		return r.catalog
	}
	return services.NewYTDLPCatalog(services.YTDLPOpts{
		RequestsPerSecond: config.Provider.RequestsPerSecond,
		Timeout:           config.Provider.Timeout(),
		Logger:            shared.WithLogger(r.logger, "provider", "youtube"),
	})
}

func (r *Runner) metadataFor(config *shared.Config) (services.MetadataSource, error) {
	if r.metadata != nil {
		return r.metadata, nil
	}
	return services.NewSpotifyService(map[string]string{
		"client_id":     config.Credentials.Spotify.ClientID,
		"client_secret": config.Credentials.Spotify.ClientSecret,
	})
}

func (r *Runner) orchestrator(config *shared.Config, fetch models.FetchOptions) (*tasks.DownloadOrchestrator, error) {
	return tasks.NewOrchestrator(tasks.OrchestratorOpts{
		Catalog:     r.catalogFor(config),
		SearchLimit: config.Provider.SearchLimit,
		Fetch:       fetch,
		Logger:      r.logger,
	})
}

// openHistory opens the history database when recording is enabled.
//
// The returned close func is never nil.
func (r *Runner) openHistory(config *shared.Config) (*repositories.DownloadRepository, func(), error) {
	if !config.Database.History {
		return nil, func() {}, nil
	}

	db, err := shared.OpenHistoryDatabase(config.Database)
	if err != nil {
		return nil, func() {}, err
	}
	return repositories.NewDownloadRepository(db), func() { db.Close() }, nil
}

// newBatch wires the orchestrator, tagger and history recorder into a [tasks.Batch].
func (r *Runner) newBatch(runner tasks.Runner, dl shared.DownloadConfig, recorder *repositories.DownloadRepository) *tasks.Batch {
	opts := tasks.BatchOpts{
		Runner:      runner,
		Concurrency: dl.Concurrency,
		Logger:      r.logger,
	}
	if dl.Tag && dl.Codec == "mp3" {
		opts.Tagger = tagger.New()
	}
	if recorder != nil {
		opts.Recorder = recorder
	}
	return tasks.NewBatch(opts)
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("%s\n", ui.Styles.Title(title))
}

// historyOrWarn opens history for recording; a database problem is logged and recording is skipped.
func (r *Runner) historyOrWarn(config *shared.Config) (*repositories.DownloadRepository, func()) {
	history, closeHistory, err := r.openHistory(config)
	if err != nil {
		r.logger.Warn("history disabled", "error", err)
		return nil, func() {}
	}
	return history, closeHistory
}
