package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songdl/internal/models"
	"github.com/desertthunder/songdl/internal/services"
	"github.com/desertthunder/songdl/internal/shared"
)

// ReasonExists is the skip reason when the target file is already present.
const ReasonExists = "already exists"

// Runner executes one pipeline run.
type Runner interface {
	Run(ctx context.Context, song models.SongMetadata, target string) models.Outcome
}

// DownloadOrchestrator sequences the idempotency guard, resolution and fetch of a single song.
//
// It keeps no state between runs. Concurrent runs for the same target race on the
// existence check; callers running songs in parallel serialize by target (see [Batch]).
type DownloadOrchestrator struct {
	catalog  services.Catalog
	resolver Resolver
	fetch    models.FetchOptions
	logger   *log.Logger
	exists   func(string) (bool, error)
}

// OrchestratorOpts contains the dependencies of a [DownloadOrchestrator].
type OrchestratorOpts struct {
	Catalog     services.Catalog
	Resolver    Resolver            // defaults to a [SourceResolver] over Catalog
	SearchLimit int                 // results per search for the default resolver
	Fetch       models.FetchOptions // empty fields take defaults
	Logger      *log.Logger
}

// NewOrchestrator validates the fetch options and builds an orchestrator.
func NewOrchestrator(opts OrchestratorOpts) (*DownloadOrchestrator, error) {
	if opts.Catalog == nil {
		return nil, fmt.Errorf("%w: no catalog provider", shared.ErrInvalidConfig)
	}

	fetch := opts.Fetch.WithDefaults()
	if err := fetch.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidConfig, err)
	}

	if opts.Logger == nil {
		opts.Logger = shared.DiscardLogger()
	}
	if opts.Resolver == nil {
		opts.Resolver = NewSourceResolver(opts.Catalog, opts.SearchLimit, opts.Logger)
	}

	return &DownloadOrchestrator{
		catalog:  opts.Catalog,
		resolver: opts.Resolver,
		fetch:    fetch,
		logger:   opts.Logger,
		exists:   shared.FileExists,
	}, nil
}

// FetchOptions returns the validated options forwarded on every fetch.
func (o *DownloadOrchestrator) FetchOptions() models.FetchOptions {
	return o.fetch
}

// Run downloads song into target unless target already exists.
func (o *DownloadOrchestrator) Run(ctx context.Context, song models.SongMetadata, target string) models.Outcome {
	return o.RunWithProgress(ctx, nil, song, target)
}

// RunWithProgress is [DownloadOrchestrator.Run] with phase updates sent to progress.
func (o *DownloadOrchestrator) RunWithProgress(ctx context.Context, progress chan<- ProgressUpdate, song models.SongMetadata, target string) models.Outcome {
	outcome := o.run(ctx, progress, song, target)
	sendProgress(progress, doneUpdate(outcome))
	return outcome
}

func (o *DownloadOrchestrator) run(ctx context.Context, progress chan<- ProgressUpdate, song models.SongMetadata, target string) models.Outcome {
	logger := shared.WithLogger(o.logger, "target", target)

	if err := song.Validate(); err != nil {
		return models.Failed(target, nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err))
	}

	sendProgress(progress, checkingUpdate(target))
	exists, err := o.exists(target)
	if err != nil {
		logger.Error("failed to check target", "error", err)
		return models.Failed(target, nil, fmt.Errorf("failed to check target: %w", err))
	}
	if exists {
		logger.Info("target already exists, skipping")
		return models.Skipped(target, ReasonExists)
	}

	logger.Infof("starting '%s' download", song)
	sendProgress(progress, resolvingUpdate(song))

	resolution, err := o.resolver.Resolve(ctx, song)
	if err != nil {
		logger.Error("failed to search for source", "error", err)
		return models.Failed(target, nil, err)
	}
	if resolution.Status != models.Resolved || resolution.Source == nil {
		logger.Info("no audio source found, skipping")
		return models.SourceNotFound(target)
	}

	src := resolution.Source
	sendProgress(progress, fetchingUpdate(src))

	if err := o.catalog.Fetch(ctx, src.Locator, OutputTemplate(target), o.fetch); err != nil {
		var perr *ProviderError
		if !errors.As(err, &perr) {
			err = &ProviderError{Op: "fetch", Target: src.Locator, Err: err}
		}
		logger.Error("download failed", "source", src.Locator, "error", err)
		return models.Failed(target, src, err)
	}

	logger.Info("download completed", "source", src.Locator)
	return models.Downloaded(target, src)
}
