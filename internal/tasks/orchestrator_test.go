package tasks

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/desertthunder/songdl/internal/models"
	"github.com/desertthunder/songdl/internal/shared"
	tu "github.com/desertthunder/songdl/internal/testing"
)

func matchingCatalog() *tu.MockCatalog {
	return &tu.MockCatalog{
		Results: map[string][]models.CatalogEntry{
			"Artist A, Song X audio": {tu.Entry("vid1", "Song X (Official Audio)")},
		},
		WriteFiles: true,
	}
}

func newTestOrchestrator(t *testing.T, catalog *tu.MockCatalog, fetch models.FetchOptions) *DownloadOrchestrator {
	t.Helper()
	o, err := NewOrchestrator(OrchestratorOpts{Catalog: catalog, Fetch: fetch})
	if err != nil {
		t.Fatalf("failed to create orchestrator: %v", err)
	}
	return o
}

func TestNewOrchestrator(t *testing.T) {
	t.Run("fills fetch defaults", func(t *testing.T) {
		o := newTestOrchestrator(t, &tu.MockCatalog{}, models.FetchOptions{Quiet: true})
		opts := o.FetchOptions()
		if opts.Codec != models.DefaultCodec || opts.Quality != models.DefaultQuality || !opts.Quiet {
			t.Errorf("unexpected fetch options %+v", opts)
		}
	})

	t.Run("rejects malformed configuration", func(t *testing.T) {
		_, err := NewOrchestrator(OrchestratorOpts{
			Catalog: &tu.MockCatalog{},
			Fetch:   models.FetchOptions{Codec: "tape"},
		})
		if !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("requires a catalog", func(t *testing.T) {
		if _, err := NewOrchestrator(OrchestratorOpts{}); !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestDownloadOrchestrator(t *testing.T) {
	ctx := context.Background()

	t.Run("downloads resolved source", func(t *testing.T) {
		target := filepath.Join(t.TempDir(), "Artist A, Song X.mp3")
		catalog := matchingCatalog()
		o := newTestOrchestrator(t, catalog, models.FetchOptions{Codec: "mp3", Quality: "192", Quiet: true})

		outcome := o.Run(ctx, exampleSong, target)
		if outcome.Kind != models.OutcomeDownloaded {
			t.Fatalf("expected downloaded, got %v", outcome)
		}
		if outcome.Source == nil || outcome.Source.ExternalID != "vid1" {
			t.Errorf("expected source vid1, got %+v", outcome.Source)
		}
		tu.AssertFileExists(t, target)

		fetches := catalog.Fetches()
		if len(fetches) != 1 {
			t.Fatalf("expected one fetch, got %d", len(fetches))
		}
		if fetches[0].Locator != "https://www.youtube.com/watch?v=vid1" {
			t.Errorf("unexpected locator %s", fetches[0].Locator)
		}
		if fetches[0].OutputTemplate != OutputTemplate(target) {
			t.Errorf("unexpected output template %s", fetches[0].OutputTemplate)
		}
		want := models.FetchOptions{Codec: "mp3", Quality: "192", Quiet: true}
		if fetches[0].Options != want {
			t.Errorf("expected options to be forwarded unchanged, got %+v", fetches[0].Options)
		}
	})

	t.Run("skips existing target without provider calls", func(t *testing.T) {
		target := filepath.Join(t.TempDir(), "Artist A, Song X.mp3")
		tu.MustWriteFile(t, target, "partial")
		catalog := matchingCatalog()

		outcome := newTestOrchestrator(t, catalog, models.FetchOptions{}).Run(ctx, exampleSong, target)
		if outcome.Kind != models.OutcomeSkipped || outcome.Reason != ReasonExists {
			t.Fatalf("expected skipped, got %v", outcome)
		}
		if catalog.Calls() != 0 {
			t.Errorf("expected zero provider calls, got %d", catalog.Calls())
		}
		if tu.MustReadFile(t, target) != "partial" {
			t.Error("existing file should be untouched")
		}
	})

	t.Run("second run is skipped", func(t *testing.T) {
		target := filepath.Join(t.TempDir(), "Artist A, Song X.mp3")
		catalog := matchingCatalog()
		o := newTestOrchestrator(t, catalog, models.FetchOptions{})

		if first := o.Run(ctx, exampleSong, target); first.Kind != models.OutcomeDownloaded {
			t.Fatalf("expected first run to download, got %v", first)
		}
		calls := catalog.Calls()

		if second := o.Run(ctx, exampleSong, target); second.Kind != models.OutcomeSkipped {
			t.Fatalf("expected second run to skip, got %v", second)
		}
		if catalog.Calls() != calls {
			t.Errorf("expected no provider calls on second run, got %d new", catalog.Calls()-calls)
		}
	})

	t.Run("not found when no match", func(t *testing.T) {
		target := filepath.Join(t.TempDir(), "Artist A, Song X.mp3")
		catalog := &tu.MockCatalog{
			Results: map[string][]models.CatalogEntry{
				"Artist A, Song X audio":         {tu.Entry("vid1", "Unrelated Video")},
				"Artist A, Song X Album Y audio": {tu.Entry("vid2", "Song X")},
			},
			WriteFiles: true,
		}

		outcome := newTestOrchestrator(t, catalog, models.FetchOptions{}).Run(ctx, exampleSong, target)
		if outcome.Kind != models.OutcomeNotFound {
			t.Fatalf("expected not found, got %v", outcome)
		}
		if len(catalog.Fetches()) != 0 {
			t.Error("expected no fetch for an unresolved song")
		}
		tu.AssertNoFile(t, target)
	})

	t.Run("search error fails", func(t *testing.T) {
		target := filepath.Join(t.TempDir(), "Artist A, Song X.mp3")
		catalog := &tu.MockCatalog{SearchErr: errors.New("network unreachable")}

		outcome := newTestOrchestrator(t, catalog, models.FetchOptions{}).Run(ctx, exampleSong, target)
		if outcome.Kind != models.OutcomeFailed {
			t.Fatalf("expected failed, got %v", outcome)
		}
		if !errors.Is(outcome.Err, shared.ErrProvider) {
			t.Errorf("expected provider error, got %v", outcome.Err)
		}
		if len(catalog.Fetches()) != 0 {
			t.Error("expected no fetch after a search error")
		}
	})

	t.Run("fetch error fails without retry", func(t *testing.T) {
		target := filepath.Join(t.TempDir(), "Artist A, Song X.mp3")
		catalog := matchingCatalog()
		catalog.FetchErr = errors.New("HTTP Error 403")

		outcome := newTestOrchestrator(t, catalog, models.FetchOptions{}).Run(ctx, exampleSong, target)
		if outcome.Kind != models.OutcomeFailed {
			t.Fatalf("expected failed, got %v", outcome)
		}

		var perr *ProviderError
		if !errors.As(outcome.Err, &perr) || perr.Op != "fetch" {
			t.Errorf("expected fetch ProviderError, got %v", outcome.Err)
		}
		if outcome.Source == nil {
			t.Error("expected the resolved source on a failed fetch")
		}
		if n := len(catalog.Fetches()); n != 1 {
			t.Errorf("expected exactly one fetch, got %d", n)
		}
	})

	t.Run("invalid metadata fails before provider calls", func(t *testing.T) {
		catalog := matchingCatalog()
		song := models.SongMetadata{Artists: []string{"Artist A"}}

		outcome := newTestOrchestrator(t, catalog, models.FetchOptions{}).Run(ctx, song, filepath.Join(t.TempDir(), "x.mp3"))
		if outcome.Kind != models.OutcomeFailed || !errors.Is(outcome.Err, shared.ErrInvalidInput) {
			t.Fatalf("expected invalid input failure, got %v", outcome)
		}
		if catalog.Calls() != 0 {
			t.Errorf("expected zero provider calls, got %d", catalog.Calls())
		}
	})

	t.Run("existence check error fails", func(t *testing.T) {
		catalog := matchingCatalog()
		o := newTestOrchestrator(t, catalog, models.FetchOptions{})
		o.exists = func(string) (bool, error) { return false, errors.New("permission denied") }

		outcome := o.Run(ctx, exampleSong, "x.mp3")
		if outcome.Kind != models.OutcomeFailed {
			t.Fatalf("expected failed, got %v", outcome)
		}
		if catalog.Calls() != 0 {
			t.Errorf("expected zero provider calls, got %d", catalog.Calls())
		}
	})

	t.Run("custom resolver", func(t *testing.T) {
		catalog := &tu.MockCatalog{WriteFiles: true}
		resolver := resolverFunc(func(ctx context.Context, song models.SongMetadata) (models.Resolution, error) {
			return models.NewResolution(tu.Entry("custom", "Song X")), nil
		})
		o, err := NewOrchestrator(OrchestratorOpts{Catalog: catalog, Resolver: resolver})
		if err != nil {
			t.Fatalf("failed to create orchestrator: %v", err)
		}

		outcome := o.Run(ctx, exampleSong, filepath.Join(t.TempDir(), "Artist A, Song X.mp3"))
		if outcome.Kind != models.OutcomeDownloaded || outcome.Source.ExternalID != "custom" {
			t.Errorf("expected download from custom resolver, got %v", outcome)
		}
	})
}

func TestRunWithProgress(t *testing.T) {
	target := filepath.Join(t.TempDir(), "Artist A, Song X.mp3")
	o := newTestOrchestrator(t, matchingCatalog(), models.FetchOptions{})

	progress := make(chan ProgressUpdate, 10)
	outcome := o.RunWithProgress(context.Background(), progress, exampleSong, target)
	close(progress)

	var phases []Phase
	for update := range progress {
		phases = append(phases, update.Phase)
	}

	want := []Phase{CheckExisting, Resolving, Fetching, Done}
	if len(phases) != len(want) {
		t.Fatalf("expected phases %v, got %v", want, phases)
	}
	for i := range want {
		if phases[i] != want[i] {
			t.Errorf("phase %d = %v, want %v", i, phases[i], want[i])
		}
	}

	t.Run("done carries outcome", func(t *testing.T) {
		progress := make(chan ProgressUpdate, 10)
		o.RunWithProgress(context.Background(), progress, exampleSong, target)
		close(progress)

		var last ProgressUpdate
		for update := range progress {
			last = update
		}
		got, ok := last.Data.(models.Outcome)
		if !ok || got.Kind != models.OutcomeSkipped {
			t.Errorf("expected skipped outcome in done update, got %+v", last)
		}
	})

	t.Run("unbuffered channel never blocks", func(t *testing.T) {
		progress := make(chan ProgressUpdate)
		got := o.RunWithProgress(context.Background(), progress, exampleSong, target)
		if got.Kind != models.OutcomeSkipped {
			t.Errorf("expected skipped, got %v", got)
		}
	})

	if outcome.Kind != models.OutcomeDownloaded {
		t.Errorf("expected downloaded, got %v", outcome)
	}
}

type resolverFunc func(ctx context.Context, song models.SongMetadata) (models.Resolution, error)

func (f resolverFunc) Resolve(ctx context.Context, song models.SongMetadata) (models.Resolution, error) {
	return f(ctx, song)
}
