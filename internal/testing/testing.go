// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/desertthunder/songdl/internal/models"
)

// SearchCall records one [MockCatalog.Search] invocation.
type SearchCall struct {
	Query string
	Limit int
}

// FetchCall records one [MockCatalog.Fetch] invocation.
type FetchCall struct {
	Locator        string
	OutputTemplate string
	Options        models.FetchOptions
}

// MockCatalog is a test double for [services.Catalog].
//
// Search answers come from Results (by exact query) and are consumed in order when
// a query is not listed; SearchErr/FetchErr force failures. When WriteFiles is set,
// Fetch creates the output file with Extension replacing the "%(ext)s" placeholder.
type MockCatalog struct {
	Results    map[string][]models.CatalogEntry
	Sequence   [][]models.CatalogEntry
	SearchErr  error
	SearchErrs map[string]error
	FetchErr   error
	WriteFiles bool
	Extension  string

	mu       sync.Mutex
	searches []SearchCall
	fetches  []FetchCall
}

func (m *MockCatalog) Search(ctx context.Context, query string, limit int) ([]models.CatalogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.searches = append(m.searches, SearchCall{Query: query, Limit: limit})

	if err, ok := m.SearchErrs[query]; ok {
		return nil, err
	}
	if m.SearchErr != nil {
		return nil, m.SearchErr
	}
	if entries, ok := m.Results[query]; ok {
		return entries, nil
	}
	if len(m.Sequence) > 0 {
		entries := m.Sequence[0]
		m.Sequence = m.Sequence[1:]
		return entries, nil
	}
	return nil, nil
}

func (m *MockCatalog) Fetch(ctx context.Context, locator, outputTemplate string, opts models.FetchOptions) error {
	m.mu.Lock()
	m.fetches = append(m.fetches, FetchCall{Locator: locator, OutputTemplate: outputTemplate, Options: opts})
	m.mu.Unlock()

	if m.FetchErr != nil {
		return m.FetchErr
	}
	if m.WriteFiles {
		ext := m.Extension
		if ext == "" {
			ext = opts.Codec
		}
		path := strings.Replace(outputTemplate, "%(ext)s", ext, 1)
		return os.WriteFile(path, []byte(locator), 0644)
	}
	return nil
}

func (m *MockCatalog) Name() string { return "mock" }

// Searches returns the recorded search calls.
func (m *MockCatalog) Searches() []SearchCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SearchCall(nil), m.searches...)
}

// Fetches returns the recorded fetch calls.
func (m *MockCatalog) Fetches() []FetchCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]FetchCall(nil), m.fetches...)
}

// Calls returns the total number of provider calls made.
func (m *MockCatalog) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.searches) + len(m.fetches)
}

// MockMetadata is a test double for [services.MetadataSource], keyed by track reference.
type MockMetadata struct {
	Songs map[string]models.SongMetadata
	Err   error
}

func (m *MockMetadata) GetTrack(ctx context.Context, ref string) (*models.SongMetadata, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	song, ok := m.Songs[ref]
	if !ok {
		return nil, errors.New("track not found")
	}
	return &song, nil
}

func (m *MockMetadata) Name() string { return "mock" }

// Entry builds a catalog entry with a YouTube-style URL.
func Entry(id, title string) models.CatalogEntry {
	return models.CatalogEntry{ID: id, Title: title, WebpageURL: "https://www.youtube.com/watch?v=" + id}
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertNoFile(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("File should not exist: %s", path)
	}
}

func MustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
