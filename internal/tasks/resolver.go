package tasks

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songdl/internal/models"
	"github.com/desertthunder/songdl/internal/services"
	"github.com/desertthunder/songdl/internal/shared"
)

// Resolver finds the catalog source for a song.
type Resolver interface {
	Resolve(ctx context.Context, song models.SongMetadata) (models.Resolution, error)
}

// SourceResolver searches a [services.Catalog] and accepts the first entry whose title contains the song title.
type SourceResolver struct {
	catalog services.Catalog
	limit   int
	logger  *log.Logger
}

// NewSourceResolver creates a resolver requesting limit results per search (minimum 1).
func NewSourceResolver(catalog services.Catalog, limit int, logger *log.Logger) *SourceResolver {
	if limit < 1 {
		limit = 1
	}
	if logger == nil {
		logger = shared.DiscardLogger()
	}
	return &SourceResolver{catalog: catalog, limit: limit, logger: logger}
}

// Resolve runs the primary search and, on a miss, one fallback search with the album appended.
//
// The returned error is always a [*ProviderError]; a completed search without an acceptable
// entry is a NotFound [models.Resolution] with a nil error.
//
// A fallback entry is never accepted, even if its title matches: only the primary search can resolve.
func (r *SourceResolver) Resolve(ctx context.Context, song models.SongMetadata) (models.Resolution, error) {
	logger := shared.WithLogger(r.logger, "song", song.String())

	query := PrimaryQuery(song)
	entry, found, err := r.first(ctx, query)
	if err != nil {
		return models.Unresolved(), err
	}
	if found && TitleMatches(song.Title, entry.Title) {
		logger.Debug("matched source", "id", entry.ID, "title", entry.Title)
		return models.NewResolution(entry), nil
	}

	logger.Warn("no matching source, retrying with album", "album", song.Album)

	query = FallbackQuery(song)
	entry, found, err = r.first(ctx, query)
	if err != nil {
		return models.Unresolved(), err
	}
	if found && TitleMatches(song.Title, entry.Title) {
		logger.Debug("fallback entry matched, not used", "id", entry.ID, "title", entry.Title)
	}

	return models.Unresolved(), nil
}

// first returns the first entry for query; found is false on an empty result list.
func (r *SourceResolver) first(ctx context.Context, query string) (models.CatalogEntry, bool, error) {
	r.logger.Debug("searching catalog", "provider", r.catalog.Name(), "query", query)

	entries, err := r.catalog.Search(ctx, query, r.limit)
	if err != nil {
		return models.CatalogEntry{}, false, &ProviderError{Op: "search", Target: query, Err: err}
	}
	if len(entries) == 0 {
		return models.CatalogEntry{}, false, nil
	}
	return entries[0], true, nil
}

// TitleMatches is the match rule: a case-sensitive substring check, so suffixes like "(Official Audio)" pass.
func TitleMatches(songTitle, entryTitle string) bool {
	return strings.Contains(entryTitle, songTitle)
}
