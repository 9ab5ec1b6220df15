package tasks

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songdl/internal/models"
	"github.com/desertthunder/songdl/internal/shared"
	"golang.org/x/sync/errgroup"
)

// SongTagger writes song metadata into a downloaded file.
type SongTagger interface {
	Tag(path string, song models.SongMetadata) error
}

// OutcomeRecorder persists the outcome of a run.
type OutcomeRecorder interface {
	Record(song models.SongMetadata, outcome models.Outcome) error
}

// BatchItem is one song and the file it should end up in.
type BatchItem struct {
	Song   models.SongMetadata
	Target string
}

// BatchResult pairs an item with its outcome.
type BatchResult struct {
	Item    BatchItem
	Outcome models.Outcome
}

// Batch runs many songs through a [Runner] with bounded concurrency.
type Batch struct {
	runner      Runner
	concurrency int
	tagger      SongTagger
	recorder    OutcomeRecorder
	logger      *log.Logger
	locks       keyedMutex
}

// BatchOpts contains configuration options for creating a [Batch].
type BatchOpts struct {
	Runner      Runner
	Concurrency int             // defaults to 1
	Tagger      SongTagger      // optional, called for downloaded songs
	Recorder    OutcomeRecorder // optional, called for every outcome
	Logger      *log.Logger
}

// NewBatch creates a new Batch.
func NewBatch(opts BatchOpts) *Batch {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.Logger == nil {
		opts.Logger = shared.DiscardLogger()
	}
	return &Batch{
		runner:      opts.Runner,
		concurrency: opts.Concurrency,
		tagger:      opts.Tagger,
		recorder:    opts.Recorder,
		logger:      opts.Logger,
		locks:       keyedMutex{locks: make(map[string]*sync.Mutex)},
	}
}

// Run processes items and returns one result per item, in input order.
//
// Items sharing a target run one after another, so the later ones observe the
// earlier file and are skipped. Items not started before ctx is done fail with ctx's error.
func (b *Batch) Run(ctx context.Context, items []BatchItem) []BatchResult {
	results := make([]BatchResult, len(items))

	var g errgroup.Group
	g.SetLimit(b.concurrency)

	for i, item := range items {
		g.Go(func() error {
			results[i] = BatchResult{Item: item, Outcome: b.runOne(ctx, item)}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (b *Batch) runOne(ctx context.Context, item BatchItem) models.Outcome {
	if err := ctx.Err(); err != nil {
		return models.Failed(item.Target, nil, err)
	}

	unlock := b.locks.lock(item.Target)
	outcome := b.runner.Run(ctx, item.Song, item.Target)
	unlock()

	b.afterRun(item, outcome)
	return outcome
}

// afterRun tags and records; failures are logged only.
func (b *Batch) afterRun(item BatchItem, outcome models.Outcome) {
	logger := shared.WithLogger(b.logger, "target", item.Target)

	if b.tagger != nil && outcome.Kind == models.OutcomeDownloaded {
		if err := b.tagger.Tag(item.Target, item.Song); err != nil {
			logger.Warn("failed to tag file", "error", err)
		}
	}

	if b.recorder != nil {
		if err := b.recorder.Record(item.Song, outcome); err != nil {
			logger.Warn("failed to record outcome", "error", err)
		}
	}
}

// Summary counts results per outcome kind.
func Summary(results []BatchResult) map[models.OutcomeKind]int {
	counts := make(map[models.OutcomeKind]int)
	for _, r := range results {
		counts[r.Outcome.Kind]++
	}
	return counts
}

// keyedMutex hands out one mutex per key for the lifetime of a batch.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &sync.Mutex{}
		k.locks[key] = l
	}
	k.mu.Unlock()

	l.Lock()
	return l.Unlock
}
