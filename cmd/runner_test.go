package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/songdl/internal/models"
	"github.com/desertthunder/songdl/internal/shared"
	tu "github.com/desertthunder/songdl/internal/testing"
	"github.com/urfave/cli/v3"
)

const primaryQuery = "Artist A, Song X audio"

func testConfig(t *testing.T) *shared.Config {
	t.Helper()
	dir := t.TempDir()

	config := shared.DefaultConfig()
	config.Download.OutputDir = filepath.Join(dir, "music")
	config.Download.Tag = false
	config.Database.Path = filepath.Join(dir, "songdl.db")
	return config
}

func newTestRunner(t *testing.T, config *shared.Config, catalog *tu.MockCatalog) (*Runner, *bytes.Buffer) {
	t.Helper()
	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Config:  config,
		Catalog: catalog,
		Metadata: &tu.MockMetadata{Songs: map[string]models.SongMetadata{
			"track1": {Artists: []string{"Artist A"}, Title: "Song X", Album: "Album Y"},
		}},
		Logger: shared.DiscardLogger(),
		Output: output,
	})
	return runner, output
}

func runApp(r *Runner, args ...string) error {
	app := &cli.Command{Name: "songdl", Commands: r.register()}
	return app.Run(context.Background(), append([]string{"songdl"}, args...))
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.DiscardLogger()
			output := &bytes.Buffer{}
			catalog := &tu.MockCatalog{}
			metadata := &tu.MockMetadata{}

			runner := NewRunner(RunnerOpts{
				Config:   config,
				Catalog:  catalog,
				Metadata: metadata,
				Logger:   logger,
				Output:   output,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.catalog != catalog {
				t.Error("expected catalog to be set")
			}
			if runner.metadata != metadata {
				t.Error("expected metadata to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			if runner := NewRunner(RunnerOpts{}); runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			if runner := NewRunner(RunnerOpts{}); runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("builds the yt-dlp catalog when none is given", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: shared.DiscardLogger()})
			if got := runner.catalogFor(shared.DefaultConfig()).Name(); got != "YouTube" {
				t.Errorf("expected YouTube catalog, got %s", got)
			}
		})

		t.Run("spotify without credentials", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: shared.DiscardLogger()})
			if _, err := runner.metadataFor(shared.DefaultConfig()); !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})
	})

	t.Run("config loading", func(t *testing.T) {
		t.Run("missing file uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: shared.DiscardLogger(), Output: &bytes.Buffer{}})
			path := filepath.Join(t.TempDir(), "missing.toml")

			err := runApp(runner, "download", "--config", path, "--codec", "bogus", "--artist", "A", "--title", "T")
			if !errors.Is(err, shared.ErrInvalidArgument) {
				t.Errorf("expected the codec flag to be validated after defaults load, got %v", err)
			}
		})

		t.Run("invalid file is rejected", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: shared.DiscardLogger(), Output: &bytes.Buffer{}})
			path := filepath.Join(t.TempDir(), "config.toml")
			tu.MustWriteFile(t, path, "[download]\ncodec = \"best\"\n")

			err := runApp(runner, "download", "--config", path, "--artist", "A", "--title", "T")
			if !errors.Is(err, shared.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	})
}

func TestDownloadCommand(t *testing.T) {
	t.Run("downloads and records history", func(t *testing.T) {
		config := testConfig(t)
		catalog := &tu.MockCatalog{
			Results:    map[string][]models.CatalogEntry{primaryQuery: {tu.Entry("abc", "Artist A - Song X (Official Audio)")}},
			WriteFiles: true,
		}
		runner, output := newTestRunner(t, config, catalog)

		if err := runApp(runner, "download", "--artist", "Artist A", "--title", "Song X", "--quiet"); err != nil {
			t.Fatalf("download failed: %v", err)
		}

		target := filepath.Join(config.Download.OutputDir, "Artist A, Song X.mp3")
		tu.AssertFileExists(t, target)

		if !strings.Contains(output.String(), "Artist A - Song X: downloaded") {
			t.Errorf("expected downloaded line, got: %s", output.String())
		}
		if strings.Contains(output.String(), "[resolving]") {
			t.Errorf("expected no progress lines when quiet, got: %s", output.String())
		}

		fetches := catalog.Fetches()
		if len(fetches) != 1 || !fetches[0].Options.Quiet {
			t.Errorf("expected one quiet fetch, got %+v", fetches)
		}

		output.Reset()
		if err := runApp(runner, "history", "--csv"); err != nil {
			t.Fatalf("history failed: %v", err)
		}
		if !strings.Contains(output.String(), "Artist A,Song X,,downloaded") {
			t.Errorf("expected recorded download, got: %s", output.String())
		}
	})

	t.Run("shows progress when not quiet", func(t *testing.T) {
		config := testConfig(t)
		config.Database.History = false
		catalog := &tu.MockCatalog{
			Results:    map[string][]models.CatalogEntry{primaryQuery: {tu.Entry("abc", "Song X")}},
			WriteFiles: true,
		}
		runner, output := newTestRunner(t, config, catalog)

		if err := runApp(runner, "download", "-a", "Artist A", "-t", "Song X"); err != nil {
			t.Fatalf("download failed: %v", err)
		}
		if !strings.Contains(output.String(), "[resolving]") {
			t.Errorf("expected progress lines, got: %s", output.String())
		}
	})

	t.Run("existing file is skipped without provider calls", func(t *testing.T) {
		config := testConfig(t)
		catalog := &tu.MockCatalog{}
		runner, output := newTestRunner(t, config, catalog)

		if err := os.MkdirAll(config.Download.OutputDir, 0755); err != nil {
			t.Fatal(err)
		}
		tu.MustWriteFile(t, filepath.Join(config.Download.OutputDir, "Artist A, Song X.mp3"), "existing")

		if err := runApp(runner, "download", "--artist", "Artist A", "--title", "Song X"); err != nil {
			t.Fatalf("download failed: %v", err)
		}
		if catalog.Calls() != 0 {
			t.Errorf("expected no provider calls, got %d", catalog.Calls())
		}
		if !strings.Contains(output.String(), "skipped (already exists)") {
			t.Errorf("expected skipped line, got: %s", output.String())
		}
	})

	t.Run("not found exits cleanly", func(t *testing.T) {
		config := testConfig(t)
		runner, output := newTestRunner(t, config, &tu.MockCatalog{})

		if err := runApp(runner, "download", "--artist", "Artist A", "--title", "Song X", "--album", "Album Y"); err != nil {
			t.Fatalf("expected no error for not found, got %v", err)
		}
		if !strings.Contains(output.String(), "not_found") {
			t.Errorf("expected not_found line, got: %s", output.String())
		}
	})

	t.Run("fetch failure returns ErrRunFailed", func(t *testing.T) {
		config := testConfig(t)
		catalog := &tu.MockCatalog{
			Results:  map[string][]models.CatalogEntry{primaryQuery: {tu.Entry("abc", "Song X")}},
			FetchErr: errors.New("network down"),
		}
		runner, _ := newTestRunner(t, config, catalog)

		err := runApp(runner, "download", "--artist", "Artist A", "--title", "Song X")
		if !errors.Is(err, ErrRunFailed) {
			t.Errorf("expected ErrRunFailed, got %v", err)
		}
	})

	t.Run("missing arguments", func(t *testing.T) {
		runner, _ := newTestRunner(t, testConfig(t), &tu.MockCatalog{})

		err := runApp(runner, "download", "--title", "Song X")
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("metadata from spotify", func(t *testing.T) {
		config := testConfig(t)
		config.Database.History = false
		catalog := &tu.MockCatalog{
			Results:    map[string][]models.CatalogEntry{primaryQuery: {tu.Entry("abc", "Song X")}},
			WriteFiles: true,
		}
		runner, _ := newTestRunner(t, config, catalog)

		if err := runApp(runner, "download", "--spotify", "track1", "--codec", "flac"); err != nil {
			t.Fatalf("download failed: %v", err)
		}

		tu.AssertFileExists(t, filepath.Join(config.Download.OutputDir, "Artist A, Song X.flac"))
		if fetches := catalog.Fetches(); len(fetches) != 1 || fetches[0].Options.Codec != "flac" {
			t.Errorf("expected flac fetch, got %+v", fetches)
		}
	})
}

func TestBatchCommand(t *testing.T) {
	writeManifest := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "songs.csv")
		tu.MustWriteFile(t, path, content)
		return path
	}

	t.Run("downloads every song and writes a report", func(t *testing.T) {
		config := testConfig(t)
		catalog := &tu.MockCatalog{
			Results:    map[string][]models.CatalogEntry{primaryQuery: {tu.Entry("abc", "Song X")}},
			WriteFiles: true,
		}
		runner, output := newTestRunner(t, config, catalog)
		manifest := writeManifest(t, "artists,title,album\nArtist A,Song X,Album Y\nArtist B,Missing,\n")
		report := filepath.Join(t.TempDir(), "report.csv")

		if err := runApp(runner, "batch", "--file", manifest, "--report", report, "--concurrency", "2"); err != nil {
			t.Fatalf("batch failed: %v", err)
		}

		if !strings.Contains(output.String(), "Downloading 2 songs") {
			t.Errorf("expected batch header, got: %s", output.String())
		}
		if !strings.Contains(output.String(), "downloaded: 1, not_found: 1") {
			t.Errorf("expected summary, got: %s", output.String())
		}

		content := tu.MustReadFile(t, report)
		if !strings.Contains(content, "Artist A,Song X,Album Y,downloaded") {
			t.Errorf("unexpected report: %s", content)
		}
		if !strings.Contains(content, "Artist B,Missing,,not_found") {
			t.Errorf("unexpected report: %s", content)
		}
	})

	t.Run("failed songs return ErrRunFailed", func(t *testing.T) {
		config := testConfig(t)
		config.Database.History = false
		catalog := &tu.MockCatalog{SearchErr: errors.New("rate limited")}
		runner, _ := newTestRunner(t, config, catalog)

		err := runApp(runner, "batch", "--file", writeManifest(t, "Artist A,Song X\n"))
		if !errors.Is(err, ErrRunFailed) {
			t.Errorf("expected ErrRunFailed, got %v", err)
		}
	})

	t.Run("empty manifest", func(t *testing.T) {
		runner, output := newTestRunner(t, testConfig(t), &tu.MockCatalog{})

		if err := runApp(runner, "batch", "--file", writeManifest(t, "")); err != nil {
			t.Fatalf("batch failed: %v", err)
		}
		if !strings.Contains(output.String(), "No songs in") {
			t.Errorf("unexpected output: %s", output.String())
		}
	})

	t.Run("invalid manifest", func(t *testing.T) {
		runner, _ := newTestRunner(t, testConfig(t), &tu.MockCatalog{})

		err := runApp(runner, "batch", "--file", writeManifest(t, "only-one-column\n"))
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestSpotifyTrackCommand(t *testing.T) {
	t.Run("prints metadata and target", func(t *testing.T) {
		runner, output := newTestRunner(t, testConfig(t), &tu.MockCatalog{})

		if err := runApp(runner, "spotify", "track", "track1"); err != nil {
			t.Fatalf("spotify track failed: %v", err)
		}

		for _, want := range []string{"Title:   Song X", "Album:   Album Y", "Query:   " + primaryQuery, "Artist A, Song X.mp3"} {
			if !strings.Contains(output.String(), want) {
				t.Errorf("expected %q in output: %s", want, output.String())
			}
		}
	})

	t.Run("requires a reference", func(t *testing.T) {
		runner, _ := newTestRunner(t, testConfig(t), &tu.MockCatalog{})
		if err := runApp(runner, "spotify", "track"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})
}

func TestHistoryCommand(t *testing.T) {
	t.Run("empty history", func(t *testing.T) {
		runner, output := newTestRunner(t, testConfig(t), &tu.MockCatalog{})

		if err := runApp(runner, "history"); err != nil {
			t.Fatalf("history failed: %v", err)
		}
		if !strings.Contains(output.String(), "No downloads recorded") {
			t.Errorf("unexpected output: %s", output.String())
		}
	})

	t.Run("rejects unknown outcome filter", func(t *testing.T) {
		runner, _ := newTestRunner(t, testConfig(t), &tu.MockCatalog{})
		if err := runApp(runner, "history", "--outcome", "lost"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestSetupCommand(t *testing.T) {
	t.Run("database", func(t *testing.T) {
		config := testConfig(t)
		runner, output := newTestRunner(t, config, &tu.MockCatalog{})

		if err := runApp(runner, "setup", "database"); err != nil {
			t.Fatalf("setup failed: %v", err)
		}
		tu.AssertFileExists(t, config.Database.Path)
		if !strings.Contains(output.String(), "Database ready") {
			t.Errorf("unexpected output: %s", output.String())
		}
	})

	t.Run("database rollback", func(t *testing.T) {
		config := testConfig(t)
		runner, output := newTestRunner(t, config, &tu.MockCatalog{})

		if err := runApp(runner, "setup", "database"); err != nil {
			t.Fatalf("setup failed: %v", err)
		}
		if err := runApp(runner, "setup", "database", "--rollback"); err != nil {
			t.Fatalf("rollback failed: %v", err)
		}
		if !strings.Contains(output.String(), "Rolled back") {
			t.Errorf("unexpected output: %s", output.String())
		}
		if err := runApp(runner, "setup", "database", "--rollback"); err == nil {
			t.Error("expected an error with nothing left to roll back")
		}
	})

	t.Run("config", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{Logger: shared.DiscardLogger(), Output: &bytes.Buffer{}})
		path := filepath.Join(t.TempDir(), "config.toml")

		if err := runApp(runner, "setup", "config", "--config", path); err != nil {
			t.Fatalf("setup config failed: %v", err)
		}
		if _, err := shared.LoadConfig(path); err != nil {
			t.Errorf("written config does not load: %v", err)
		}
		if err := runApp(runner, "setup", "config", "--config", path); err == nil {
			t.Error("expected an error when the config already exists")
		}
	})
}
